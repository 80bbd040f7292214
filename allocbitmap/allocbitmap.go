// Package allocbitmap renders the exFAT allocation bitmap. The synthesizer
// never frees or allocates clusters through a real bitmap structure --
// registry.Allocator is a bump allocator -- but the on-disk bitmap still
// has to read back as "every cluster used" to discourage write attempts
// from a sane host, so this package builds one with the
// github.com/boljen/go-bitmap type.
package allocbitmap

import (
	bitmap "github.com/boljen/go-bitmap"

	"github.com/dargueta/vexfat/geometry"
)

// ByteLength returns ceil(clusterCount/8) rounded up to a whole cluster,
// the on-disk size of the bitmap region.
func ByteLength(clusterCount uint32) uint32 {
	bitmapBytes := (clusterCount + 7) / 8
	clusterSize := uint32(geometry.ClusterSize)
	return ((bitmapBytes + clusterSize - 1) / clusterSize) * clusterSize
}

// ClusterCount returns ByteLength in clusters rather than bytes: the number
// of clusters the bitmap's fixed cluster-heap allocation needs.
func ClusterCount(clusterCount uint32) uint32 {
	return ByteLength(clusterCount) / geometry.ClusterSize
}

// Generator renders the allocation bitmap region. Every cluster is marked
// used; the backing bitmap.Bitmap is built once and reused for every read.
type Generator struct {
	data []byte
}

// New builds a Generator whose bitmap covers clusterCount clusters, all
// marked allocated.
func New(clusterCount uint32) *Generator {
	bm := bitmap.New(int(clusterCount))
	for i := 0; i < int(clusterCount); i++ {
		bm.Set(i, true)
	}

	padded := make([]byte, ByteLength(clusterCount))
	copy(padded, bm.Data(false))
	for i := len(bm.Data(false)); i < len(padded); i++ {
		padded[i] = 0xFF
	}
	return &Generator{data: padded}
}

// Render writes sector relSector (0-based within the bitmap region) into
// buf. Reads past the end of the backing data (shouldn't normally happen,
// the region is sized exactly to ByteLength) return the all-0xFF fill that
// an "all clusters used" bitmap would have anyway.
func (g *Generator) Render(relSector uint64, buf []byte) {
	start := relSector * geometry.SectorSize
	for i := range buf {
		offset := start + uint64(i)
		if offset < uint64(len(g.data)) {
			buf[i] = g.data[offset]
		} else {
			buf[i] = 0xFF
		}
	}
}
