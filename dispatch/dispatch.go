// Package dispatch binds every region generator (bootregion, fatgen,
// allocbitmap, upcase, rootdir, registry, memfile) into a single ordered
// LBA lookup: every readable sector on the volume is produced on demand by
// exactly one region handler, chosen by which half-open LBA range it falls
// in.
package dispatch

// Handler renders one sector of a region. relLBA is the sector index
// relative to the region's own start, not the absolute volume LBA.
type Handler func(relLBA uint64, buf []byte)

// entry is one row of the region table: the half-open absolute LBA range
// [Start, Start+Length) it owns and the Handler that renders it.
type entry struct {
	start   uint64
	length  uint64
	handler Handler
}

// Table is the ordered list of regions covering a volume. Build it with a
// Builder, then call Render for every sector the host requests.
type Table struct {
	entries      []entry
	volumeLength uint64
}

// Builder accumulates regions in ascending LBA order. Regions must not
// overlap and must be added in increasing Start order -- both are exactly
// the invariants a correctly derived geometry.Geometry already guarantees,
// so Builder enforces them with a panic rather than a returned error: a
// violation here is a programming mistake in Synthesizer construction, not
// a runtime condition callers should have to handle.
type Builder struct {
	t Table
}

// NewBuilder starts an empty region table for a volume of volumeLength
// sectors. Any LBA at or past volumeLength, and any LBA in a gap between
// regions, reads back as zero.
func NewBuilder(volumeLength uint64) *Builder {
	return &Builder{t: Table{volumeLength: volumeLength}}
}

// Add registers a region occupying [start, start+length) of the volume,
// rendered by handler. Regions must be added in non-decreasing start order
// and must not overlap the previously added region.
func (b *Builder) Add(start, length uint64, handler Handler) *Builder {
	if length == 0 {
		return b
	}
	if n := len(b.t.entries); n > 0 {
		prev := b.t.entries[n-1]
		if start < prev.start+prev.length {
			panic("dispatch: region overlaps or precedes the previous region")
		}
	}
	if start+length > b.t.volumeLength {
		panic("dispatch: region extends past the volume length")
	}
	b.t.entries = append(b.t.entries, entry{start: start, length: length, handler: handler})
	return b
}

// Build finalizes the table.
func (b *Builder) Build() *Table {
	return &b.t
}

// VolumeLength returns the total number of addressable sectors.
func (t *Table) VolumeLength() uint64 {
	return t.volumeLength
}

// RegionInfo describes one bound region for diagnostics (cmd/vexfatctl's
// CSV dump); it carries no behavior of its own.
type RegionInfo struct {
	Start  uint64 `csv:"start_lba"`
	Length uint64 `csv:"length_sectors"`
}

// Regions returns the bound regions in ascending LBA order, for diagnostic
// dumps. The returned slice is a copy; mutating it has no effect on Table.
func (t *Table) Regions() []RegionInfo {
	out := make([]RegionInfo, len(t.entries))
	for i, e := range t.entries {
		out[i] = RegionInfo{Start: e.start, Length: e.length}
	}
	return out
}

// Render writes sector lba (absolute) into buf. An lba past the volume
// length or falling in a gap between regions zero-fills. buf must be
// exactly one sector; callers splitting a read into sub-sector chunks must
// call Render once per whole sector and slice the result themselves, since
// a region boundary can fall mid-sector only by construction error.
func (t *Table) Render(lba uint64, buf []byte) {
	if lba >= t.volumeLength {
		zeroFill(buf)
		return
	}

	// Linear scan: region counts are small (a handful of fixed regions plus
	// one dynamic-area catch-all) and this runs once per sector request, not
	// per byte, so a binary search would only add complexity for no
	// measurable benefit.
	for _, e := range t.entries {
		if lba < e.start || lba >= e.start+e.length {
			continue
		}
		e.handler(lba-e.start, buf)
		return
	}

	zeroFill(buf)
}

func zeroFill(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
