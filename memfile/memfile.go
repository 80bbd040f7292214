// Package memfile implements the three static memory-backed files:
// BOOTROM.BIN, SRAM.BIN, FLASH.BIN. Their cluster placement is chosen at
// configuration time so that LBA*SectorSize equals the target device
// address, reducing each read to a plain memory copy.
package memfile

import "github.com/dargueta/vexfat/geometry"

// MemoryReader reads len(buf) bytes of live device memory starting at addr
// into buf.
type MemoryReader func(addr uintptr, buf []byte)

// Region renders one static memory-backed file. BaseAddress is the device
// address that LBA 0 of this file's cluster range corresponds to.
type Region struct {
	BaseAddress uintptr
	Reader      MemoryReader
	Size        uint64
}

// NewRegion builds a Region reading from reader, based at baseAddress, with
// a readable size of size bytes.
func NewRegion(baseAddress uintptr, size uint64, reader MemoryReader) *Region {
	return &Region{BaseAddress: baseAddress, Reader: reader, Size: size}
}

// Content implements registry.ContentFunc: it's handed a file-relative
// offset by the registry's dynamic-region dispatch (or, for static files
// addressed directly by LBA, called with the LBA's byte offset). Either
// way the translation to a device address is the same additive shift.
func (r *Region) Content(fileOffset uint64, buf []byte) {
	r.Reader(r.BaseAddress+uintptr(fileOffset), buf)
}

// Render implements the LBA-addressed dispatch.Handler form: because the
// cluster assignment makes LBA*SectorSize equal to the device address
// directly, relLBA can be turned into an address with no further
// arithmetic than the base offset.
func (r *Region) Render(relLBA uint64, buf []byte) {
	offset := relLBA * geometry.SectorSize
	if offset >= r.Size {
		for i := range buf {
			buf[i] = 0
		}
		return
	}

	validLen := uint64(len(buf))
	if offset+validLen > r.Size {
		validLen = r.Size - offset
	}
	r.Reader(r.BaseAddress+uintptr(offset), buf[:validLen])
	for i := validLen; i < uint64(len(buf)); i++ {
		buf[i] = 0
	}
}
