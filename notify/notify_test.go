package notify_test

import (
	"testing"
	"time"

	"github.com/dargueta/vexfat/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreventAllowMediumRemoval_FirstCallFailsThenSucceeds(t *testing.T) {
	state := notify.NewState(100 * time.Millisecond)

	assert.False(t, state.PreventAllowMediumRemoval(true), "first call must fail (Windows workaround)")
	assert.True(t, state.PreventAllowMediumRemoval(true), "subsequent calls must succeed")
	assert.True(t, state.PreventAllowMediumRemoval(false))
}

func TestTestUnitReady_NoChangeReportsReady(t *testing.T) {
	state := notify.NewState(100 * time.Millisecond)
	var sense notify.Sense
	assert.True(t, state.TestUnitReady(&sense))
}

func TestContentChanged_ThenTestUnitReady_ReportsUnitAttentionOnce(t *testing.T) {
	state := notify.NewState(0) // no rate limit, for a deterministic test
	state.ContentChanged(false)

	var sense notify.Sense
	ready := state.TestUnitReady(&sense)
	require.False(t, ready)
	assert.Equal(t, notify.SenseUnitAttention28, sense)

	// The flag is now clear; the next call reports ready.
	ready = state.TestUnitReady(&sense)
	assert.True(t, ready)
}

func TestContentChanged_Hard_SignalsReconnect(t *testing.T) {
	state := notify.NewState(0)
	state.ContentChanged(true)

	select {
	case <-state.Reconnect:
	default:
		t.Fatal("expected a reconnect signal")
	}
}

func TestContentChanged_Soft_DoesNotSignalReconnect(t *testing.T) {
	state := notify.NewState(0)
	state.ContentChanged(false)

	select {
	case <-state.Reconnect:
		t.Fatal("did not expect a reconnect signal")
	default:
	}
}

func TestStdoutPacer_ImmediateWhenIdleAndEnoughBytes(t *testing.T) {
	state := notify.NewState(0)
	pacer := notify.NewStdoutPacer(state, 10, 0, time.Hour)

	pacer.ScheduleForContentChange(100)

	var sense notify.Sense
	assert.False(t, state.TestUnitReady(&sense), "should have notified immediately")
}

func TestStdoutPacer_ArmsAlarmWhenNotEnoughBytes(t *testing.T) {
	state := notify.NewState(0)
	pacer := notify.NewStdoutPacer(state, 1000, 0, 20*time.Millisecond)

	pacer.ScheduleForContentChange(5)

	var sense notify.Sense
	assert.True(t, state.TestUnitReady(&sense), "must not notify immediately: too few unread bytes")

	time.Sleep(50 * time.Millisecond)
	assert.False(t, state.TestUnitReady(&sense), "alarm should have fired unconditionally by now")
}
