// Package rootdir renders the root directory: the fixed sector-0 entry set
// (volume label, allocation bitmap, up-case table) and one directory set per
// registered file.
package rootdir

import (
	"encoding/binary"
)

// Entry type bytes.
const (
	EntryTypeVolumeLabel      = 0x83
	EntryTypeAllocationBitmap = 0x81
	EntryTypeUpcaseTable      = 0x82
	EntryTypeFile             = 0x85
	EntryTypeStreamExtension  = 0xC0
	EntryTypeFileName         = 0xC1
	EntryTypeUnused           = 0x01
)

// DirentSize is the fixed size of every directory entry, primary or
// secondary.
const DirentSize = 32

// NameUnitsPerEntry is how many UTF-16 code units one file-name entry holds.
const NameUnitsPerEntry = 15

// GeneralSecondaryFlags bits for the stream-extension entry.
const (
	flagAllocationPossible = 1 << 0
	flagNoFATChain         = 1 << 1
)

// RenderVolumeLabelEntry writes the volume-label entry
// into a 32-byte buf. label is truncated/padded to 11 UTF-16 code units.
func RenderVolumeLabelEntry(buf []byte, label []uint16) {
	clear32(buf)
	buf[0] = EntryTypeVolumeLabel

	n := len(label)
	if n > 11 {
		n = 11
	}
	buf[1] = byte(n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(buf[2+i*2:4+i*2], label[i])
	}
}

// RenderAllocationBitmapEntry writes the fixed allocation-bitmap entry.
func RenderAllocationBitmapEntry(buf []byte, firstCluster uint32, dataLength uint64) {
	clear32(buf)
	buf[0] = EntryTypeAllocationBitmap
	buf[1] = 0 // BitmapFlags: always the first (and only) FAT's bitmap
	binary.LittleEndian.PutUint32(buf[20:24], firstCluster)
	binary.LittleEndian.PutUint64(buf[24:32], dataLength)
}

// RenderUpcaseTableEntry writes the fixed up-case table entry.
func RenderUpcaseTableEntry(buf []byte, tableChecksum uint32, firstCluster uint32, dataLength uint64) {
	clear32(buf)
	buf[0] = EntryTypeUpcaseTable
	binary.LittleEndian.PutUint32(buf[4:8], tableChecksum)
	binary.LittleEndian.PutUint32(buf[20:24], firstCluster)
	binary.LittleEndian.PutUint64(buf[24:32], dataLength)
}

// FillUnused fills buf with the "unused entry" fill pattern for slots with
// no corresponding directory entry.
func FillUnused(buf []byte) {
	for i := range buf {
		buf[i] = EntryTypeUnused
	}
}

func clear32(buf []byte) {
	for i := range buf[:DirentSize] {
		buf[i] = 0
	}
}
