// Package testharness provides fakes for external collaborators the
// synthesizer depends on but never implements itself: physical memory and
// the standard-output producer. Wraps a byte slice as an io.ReadWriteSeeker
// with xaionaro-go/bytesextra rather than hand-rolling seek/read/write
// logic.
package testharness

import (
	"io"

	"github.com/xaionaro-go/bytesextra"
)

// FakeMemory is an in-process stand-in for a device memory region (flash,
// SRAM, boot ROM): a fixed-size byte slice addressable both as a
// memfile.MemoryReader and as an io.ReadWriteSeeker for setting up test
// fixtures.
type FakeMemory struct {
	backing []byte
	stream  io.ReadWriteSeeker
}

// NewFakeMemory allocates a zero-filled region of size bytes.
func NewFakeMemory(size int) *FakeMemory {
	backing := make([]byte, size)
	return &FakeMemory{
		backing: backing,
		stream:  bytesextra.NewReadWriteSeeker(backing),
	}
}

// Stream exposes the region as an io.ReadWriteSeeker, for tests that want
// to seed content using ordinary Write/Seek calls.
func (m *FakeMemory) Stream() io.ReadWriteSeeker {
	return m.stream
}

// Reader returns a memfile.MemoryReader-shaped function reading from this
// region, ignoring addresses past its end (they read as zero, matching an
// uninitialized device memory cell).
func (m *FakeMemory) Reader() func(addr uintptr, buf []byte) {
	return func(addr uintptr, buf []byte) {
		for i := range buf {
			pos := int(addr) + i
			if pos < len(m.backing) {
				buf[i] = m.backing[pos]
			} else {
				buf[i] = 0
			}
		}
	}
}

// Fill writes pattern starting at offset, for seeding deterministic test
// content without going through the Stream seek/write dance.
func (m *FakeMemory) Fill(offset int, pattern []byte) {
	copy(m.backing[offset:], pattern)
}
