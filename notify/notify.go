// Package notify implements the host cache-coherence protocol: the
// change-notification bitmask, SCSI sense orchestration, and the
// rate-limited/alarm-based pacing for standard-output writes.
package notify

import (
	"sync/atomic"
	"time"
)

// Sense is a SCSI sense triple the adapter must be able to surface on
// CHECK CONDITION. Expressed as (key, ASC, ASCQ) the way the scsi package's
// Command filter consumes them.
type Sense struct {
	Key, ASC, ASCQ byte
}

// SenseUnitAttention28 is "Unit Attention / ASC 0x28 / ASCQ 0x00" -- "not
// ready to ready transition, medium may have changed".
var SenseUnitAttention28 = Sense{Key: 0x06, ASC: 0x28, ASCQ: 0x00}

// SenseDataProtect is "Data Protect / ASC 0x27 / ASCQ 0x00", returned by
// every write-like SCSI command.
var SenseDataProtect = Sense{Key: 0x07, ASC: 0x27, ASCQ: 0x00}

const (
	flagNeedDisallowRemovalFail uint32 = 1 << iota
	flagNeedUA28
)

// Clock abstracts time.Now so tests can control elapsed time deterministically
// without sleeping; State.Now defaults to time.Now.
type Clock func() time.Time

// State holds the change-notification bitmask and rate-limit timestamp.
// Both are read and written from the SCSI-command thread and from the
// alarm callback that fires after an idle period, so
// flags and lastUAMs are accessed only through sync/atomic; the other
// fields are set once by NewState.
type State struct {
	flags      uint32
	lastUAMs   int64
	uaMinDelay time.Duration
	now        Clock

	// Reconnect is sent a value whenever ContentChanged(true) is called, so
	// the SCSI adapter can perform the brief USB disconnect/reconnect
	// without State calling back upward into it (Design Note section 9).
	Reconnect chan struct{}
}

// NewState builds a State whose first PreventAllowMediumRemoval call must
// fail (a workaround some hosts need to notice a removable device) and
// whose TestUnitReady rate limit is uaMinDelay.
func NewState(uaMinDelay time.Duration) *State {
	return &State{
		flags:      flagNeedDisallowRemovalFail,
		uaMinDelay: uaMinDelay,
		now:        time.Now,
		Reconnect:  make(chan struct{}, 1),
	}
}

// PreventAllowMediumRemoval is the PREVENT ALLOW MEDIUM REMOVAL hook:
// while NEED_DISALLOW_REMOVAL_FAIL is set, the first call fails and clears
// the flag; every subsequent call succeeds.
func (s *State) PreventAllowMediumRemoval(prevent bool) bool {
	for {
		old := atomic.LoadUint32(&s.flags)
		if old&flagNeedDisallowRemovalFail == 0 {
			return true
		}
		newFlags := old &^ flagNeedDisallowRemovalFail
		if atomic.CompareAndSwapUint32(&s.flags, old, newFlags) {
			return false
		}
	}
}

// TestUnitReady is the TEST UNIT READY hook. While
// NEED_UA_28H is set and enough time has passed since the last
// notification, it clears the flag, updates the rate-limit timestamp, and
// reports not-ready with Sense set in *sense. Otherwise it reports ready.
func (s *State) TestUnitReady(sense *Sense) (ready bool) {
	for {
		old := atomic.LoadUint32(&s.flags)
		if old&flagNeedUA28 == 0 {
			return true
		}

		nowMs := s.now().UnixMilli()
		last := atomic.LoadInt64(&s.lastUAMs)
		if time.Duration(nowMs-last)*time.Millisecond < s.uaMinDelay {
			return true
		}

		newFlags := old &^ flagNeedUA28
		if !atomic.CompareAndSwapUint32(&s.flags, old, newFlags) {
			continue
		}
		atomic.StoreInt64(&s.lastUAMs, nowMs)
		if sense != nil {
			*sense = SenseUnitAttention28
		}
		return false
	}
}

// ContentChanged is called whenever the synthesized content actually
// changes: it sets NEED_UA_28H, and if hard, requests a brief electrical
// disconnect by signaling Reconnect for the SCSI adapter to act on.
func (s *State) ContentChanged(hard bool) {
	for {
		old := atomic.LoadUint32(&s.flags)
		newFlags := old | flagNeedUA28
		if atomic.CompareAndSwapUint32(&s.flags, old, newFlags) {
			break
		}
	}

	if hard {
		select {
		case s.Reconnect <- struct{}{}:
		default:
		}
	}
}
