// Package upcase builds the exFAT up-case table: a
// compressed run-length mapping from UTF-16 code points to their canonical
// upper-case form, used both to render the on-disk table and to up-case
// file names before computing their directory-entry name hash (section 4.6).
package upcase

import (
	"github.com/dargueta/vexfat/bootregion/checksum"
	"github.com/dargueta/vexfat/geometry"
)

// runMarker introduces an identity run in the compressed table: the word
// following it gives the run length.
const runMarker = 0xFFFF

// CodePointLimit is the highest code point the minimal table covers,
// matching "identity for the remainder to 0xFFFF".
const CodePointLimit = 0xFFFF

// Table is the resolved up-case mapping, both as a lookup function and as
// its compressed on-disk byte form.
type Table struct {
	mapping   [CodePointLimit + 1]uint16
	onDisk    []byte
	checksum  uint32
	hasChksum bool
}

// BuildDefault returns the minimal up-case table: identity for 0..96,
// explicit 'a'..'z' -> 'A'..'Z', identity for the remainder.
func BuildDefault() *Table {
	return BuildFromRanges(nil)
}

// CaseRange maps every code point in [Lower, Lower+Count) to
// [Upper, Upper+Count), e.g. {Lower: 'a', Upper: 'A', Count: 26}.
type CaseRange struct {
	Lower, Upper uint16
	Count        int
}

// BuildFromRanges builds a table where every code point is its own identity
// mapping except those covered by ranges, which map to their upper-case
// counterpart. Used for the built-in ASCII table (BuildDefault) and for
// extending case folding to additional scripts without hand-writing a new
// compressed stream by hand.
func BuildFromRanges(ranges []CaseRange) *Table {
	t := &Table{}
	for cp := 0; cp <= CodePointLimit; cp++ {
		t.mapping[cp] = uint16(cp)
	}
	for _, r := range ranges {
		for i := 0; i < r.Count; i++ {
			t.mapping[int(r.Lower)+i] = r.Upper + uint16(i)
		}
	}
	if ranges == nil {
		for i := 0; i < 26; i++ {
			t.mapping['a'+i] = uint16('A' + i)
		}
	}
	t.onDisk = compress(t.mapping[:])
	return t
}

// compress converts a full 0..0xFFFF mapping table into the run-length
// compressed word stream: a run of identity mappings is a 0xFFFF marker
// followed by the run length; anything else is an explicit mapped word.
func compress(mapping []uint16) []byte {
	words := make([]uint16, 0, len(mapping))

	i := 0
	for i < len(mapping) {
		if mapping[i] == uint16(i) {
			runLen := 0
			for i+runLen < len(mapping) && mapping[i+runLen] == uint16(i+runLen) {
				runLen++
			}
			words = append(words, runMarker, uint16(runLen))
			i += runLen
		} else {
			words = append(words, mapping[i])
			i++
		}
	}

	onDisk := make([]byte, len(words)*2)
	for idx, w := range words {
		onDisk[idx*2] = byte(w)
		onDisk[idx*2+1] = byte(w >> 8)
	}
	return onDisk
}

// UpCase returns the canonical upper-case form of a single UTF-16 code unit.
// Code points above CodePointLimit are returned unchanged.
func (t *Table) UpCase(cp uint16) uint16 {
	return t.mapping[cp]
}

// UpCaseString returns a new slice holding the up-cased form of every code
// unit of name (name itself is left unchanged), using the same mapping the
// on-disk table encodes -- this is what
// makes the stream-extension name hash a fixed point
// of the table.
func (t *Table) UpCaseString(name []uint16) []uint16 {
	result := make([]uint16, len(name))
	for i, cp := range name {
		result[i] = t.UpCase(cp)
	}
	return result
}

// OnDiskBytes returns the compressed table's byte representation. Any
// sector beyond this reads as zero.
func (t *Table) OnDiskBytes() []byte {
	return t.onDisk
}

// Checksum returns the 32-bit checksum of the on-disk table, computed and
// cached on first call using the same ROR32 accumulation as the VBR
// checksum.
func (t *Table) Checksum() uint32 {
	if !t.hasChksum {
		t.checksum = checksum.FoldBytes(0, t.onDisk)
		t.hasChksum = true
	}
	return t.checksum
}

// Render writes sector relSector (0-based within the up-case table region)
// into buf, zero-filling past the end of the compressed table.
func (t *Table) Render(relSector uint64, buf []byte) {
	start := relSector * geometry.SectorSize
	for i := range buf {
		offset := start + uint64(i)
		if offset < uint64(len(t.onDisk)) {
			buf[i] = t.onDisk[offset]
		} else {
			buf[i] = 0
		}
	}
}
