package notify

import (
	"sync"
	"time"
)

// StdoutPacer implements the standard-output on-write notification
// scheduling rule over a *State: notify immediately if the host has been
// idle long enough
// and enough bytes are unread, otherwise arm a one-shot alarm that fires
// unconditionally after a timeout. It satisfies stdoutfile.ChangeNotifier.
type StdoutPacer struct {
	State *State

	MinAmount    uint64
	IdleDelay    time.Duration
	AlarmTimeout time.Duration

	mu           sync.Mutex
	lastActivity time.Time
	timer        *time.Timer
}

// NewStdoutPacer builds a pacer over state with the three tunables from the
// configuration table (STDOUT_TAIL_UA_{MIN_AMOUNT,DELAY_SEC,TIMEOUT_SEC}).
func NewStdoutPacer(state *State, minAmount uint64, idleDelay, alarmTimeout time.Duration) *StdoutPacer {
	return &StdoutPacer{
		State:        state,
		MinAmount:    minAmount,
		IdleDelay:    idleDelay,
		AlarmTimeout: alarmTimeout,
		lastActivity: state.now(),
	}
}

// ScheduleForContentChange implements stdoutfile.ChangeNotifier.
func (p *StdoutPacer) ScheduleForContentChange(unreadBytes uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.State.now()
	idleFor := now.Sub(p.lastActivity)
	p.lastActivity = now

	if idleFor >= p.IdleDelay && unreadBytes >= p.MinAmount {
		p.State.ContentChanged(false)
		return
	}

	if p.timer != nil {
		return // already armed; it fires unconditionally regardless of future writes
	}
	p.timer = time.AfterFunc(p.AlarmTimeout, func() {
		p.mu.Lock()
		p.timer = nil
		p.mu.Unlock()
		p.State.ContentChanged(false)
	})
}
