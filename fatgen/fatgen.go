// Package fatgen renders the first sector of FAT0, the only part of the FAT
// region with non-zero content. Every file directory
// entry uses the "no FAT chain" flag, so the allocator's contiguous file
// clusters never need chain entries; only the three fixed metadata regions
// (allocation bitmap, up-case table, root directory) are seeded.
package fatgen

import (
	"encoding/binary"

	"github.com/dargueta/vexfat/geometry"
)

const (
	entryMediaDescriptor = 0xFFFFFFF8
	entryEndOfChain      = 0xFFFFFFFF
)

// Generator renders FAT0's first sector from a volume's geometry.
type Generator struct {
	Geometry geometry.Geometry
}

// New builds a Generator over geo.
func New(geo geometry.Geometry) *Generator {
	return &Generator{Geometry: geo}
}

// writeChain writes a contiguous forward chain for a cluster range
// [first, first+count) into entries, with the last entry marked
// end-of-chain. count == 0 is a no-op.
func writeChain(entries []uint32, first, count uint32) {
	for i := uint32(0); i < count; i++ {
		idx := first + i
		if idx >= uint32(len(entries)) {
			// The chain runs past FAT0's first sector. Every seeded region
			// (bitmap, up-case table, root directory) is allocated from
			// cluster 2 upward specifically so this never happens; a
			// geometry that violates that isn't one this generator supports.
			return
		}
		if i+1 == count {
			entries[idx] = entryEndOfChain
		} else {
			entries[idx] = idx + 1
		}
	}
}

// RenderFirstSector writes FAT0's first sector (128 32-bit entries) into buf.
func (g *Generator) RenderFirstSector(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}

	entries := make([]uint32, len(buf)/4)
	entries[0] = entryMediaDescriptor
	entries[1] = entryEndOfChain

	writeChain(entries, g.Geometry.BitmapFirstCluster, g.Geometry.BitmapClusterCount)
	writeChain(entries, g.Geometry.UpcaseFirstCluster, g.Geometry.UpcaseClusterCount)
	writeChain(entries, g.Geometry.RootDirFirstCluster, rootDirClusterCount)

	for i, v := range entries {
		if v == 0 {
			continue
		}
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], v)
	}
}

// rootDirClusterCount is the fixed size of the root directory, 3 clusters.
const rootDirClusterCount = 3

// Render implements dispatch.Handler for the FAT region: relLBA 0 (FAT0's
// first sector) gets seeded entries, every other sector in the region
// zero-fills.
func (g *Generator) Render(relLBA uint64, buf []byte) {
	if relLBA == 0 {
		g.RenderFirstSector(buf)
		return
	}
	for i := range buf {
		buf[i] = 0
	}
}
