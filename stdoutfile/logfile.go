package stdoutfile

// TransportChunkSize is the typical USB transfer chunk the tail-window file
// sizes its window in multiples of.
const TransportChunkSize = 64

// ChangeNotifier is the narrow interface stdoutfile needs (implemented by
// notify.StdoutPacer) to schedule a media-change notification on write. Kept narrow rather than
// importing notify directly, to avoid a dependency cycle between the two
// packages.
type ChangeNotifier interface {
	ScheduleForContentChange(unreadBytes uint64)
}

// FullLogFile exposes every byte ever written to the ring buffer: reads at
// offset o return the live byte if it's still resident, else a zero byte
// standing in for the discarded prefix.
type FullLogFile struct {
	Ring *RingBuffer
}

// Size returns the file's current nominal size: the total stream length,
// which only grows.
func (f *FullLogFile) Size() uint64 {
	return f.Ring.TotalWritten()
}

// Content implements registry.ContentFunc over the full stream.
func (f *FullLogFile) Content(fileOffset uint64, buf []byte) {
	f.Ring.ReadAt(fileOffset, buf)
}

// TailWindowFile exposes only the unread suffix of the stream, advancing as
// the host reads it.
type TailWindowFile struct {
	Ring      *RingBuffer
	totalRead uint64
}

// unreadCount is how many bytes the host hasn't yet consumed through this
// window.
func (f *TailWindowFile) unreadCount() uint64 {
	written := f.Ring.TotalWritten()
	if written < f.totalRead {
		return 0
	}
	return written - f.totalRead
}

// WindowSize returns the largest multiple of TransportChunkSize not
// exceeding the unread byte count, the file's current nominal size.
func (f *TailWindowFile) WindowSize() uint64 {
	unread := f.unreadCount()
	return (unread / TransportChunkSize) * TransportChunkSize
}

// Content implements registry.ContentFunc over the tail window: fileOffset
// is relative to the window's own start, not the absolute stream position.
// Rendering a sector to satisfy a host read is the only signal this type
// gets that the host has consumed it, so each call advances the window by
// the full length of buf delivered.
func (f *TailWindowFile) Content(fileOffset uint64, buf []byte) {
	streamPos := f.totalRead + fileOffset
	f.Ring.ReadAt(streamPos, buf)
	f.Advance(uint64(len(buf)))
}

// Advance records that the host has consumed n bytes of the window,
// shrinking it for the next read.
func (f *TailWindowFile) Advance(n uint64) {
	f.totalRead += n
}

// OnWrite is the standard-output on-write hook: it computes the unread
// byte count and hands it to notifier, which decides whether to fire
// immediately or arm the one-shot alarm.
func OnWrite(notifier ChangeNotifier, tail *TailWindowFile) {
	if notifier != nil {
		notifier.ScheduleForContentChange(tail.unreadCount())
	}
}
