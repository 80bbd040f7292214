package stdoutfile_test

import (
	"testing"

	"github.com/dargueta/vexfat/stdoutfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBuffer_ReadBackWrittenBytes(t *testing.T) {
	ring := stdoutfile.NewRingBuffer(16)
	ring.Write([]byte("hello"))

	buf := make([]byte, 5)
	n := ring.ReadAt(0, buf)
	require.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

func TestRingBuffer_DiscardedPrefixReadsAsZero(t *testing.T) {
	ring := stdoutfile.NewRingBuffer(4)
	ring.Write([]byte("abcdefgh")) // overwrites entirely, twice over

	buf := make([]byte, 4)
	n := ring.ReadAt(0, buf) // position 0 is long gone
	assert.Equal(t, 0, n)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)

	n = ring.ReadAt(4, buf) // last 4 bytes ("efgh") are still resident
	assert.Equal(t, 4, n)
	assert.Equal(t, "efgh", string(buf))
}

func TestFullLogFile_Size(t *testing.T) {
	ring := stdoutfile.NewRingBuffer(64)
	ring.Write([]byte("hello world"))
	log := &stdoutfile.FullLogFile{Ring: ring}
	assert.Equal(t, uint64(11), log.Size())
}

func TestTailWindowFile_WindowSizeIsMultipleOfChunk(t *testing.T) {
	ring := stdoutfile.NewRingBuffer(1024)
	ring.Write(make([]byte, 130)) // not a multiple of 64

	tail := &stdoutfile.TailWindowFile{Ring: ring}
	assert.Equal(t, uint64(128), tail.WindowSize())
}

func TestTailWindowFile_AdvanceShrinksWindow(t *testing.T) {
	ring := stdoutfile.NewRingBuffer(1024)
	ring.Write(make([]byte, 256))

	tail := &stdoutfile.TailWindowFile{Ring: ring}
	require.Equal(t, uint64(256), tail.WindowSize())

	tail.Advance(128)
	assert.Equal(t, uint64(128), tail.WindowSize())
}

func TestTailWindowFile_ContentIsRelativeToWindowStart(t *testing.T) {
	ring := stdoutfile.NewRingBuffer(1024)
	ring.Write([]byte("0123456789"))

	tail := &stdoutfile.TailWindowFile{Ring: ring}
	tail.Advance(5)

	buf := make([]byte, 5)
	tail.Content(0, buf)
	assert.Equal(t, "56789", string(buf))
}

type fakeNotifier struct {
	lastUnread uint64
	calls      int
}

func (f *fakeNotifier) ScheduleForContentChange(unread uint64) {
	f.lastUnread = unread
	f.calls++
}

func TestOnWrite_InvokesNotifierWithUnreadCount(t *testing.T) {
	ring := stdoutfile.NewRingBuffer(1024)
	ring.Write(make([]byte, 100))
	tail := &stdoutfile.TailWindowFile{Ring: ring}

	notifier := &fakeNotifier{}
	stdoutfile.OnWrite(notifier, tail)

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, uint64(100), notifier.lastUnread)
}
