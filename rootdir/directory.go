package rootdir

import (
	"github.com/dargueta/vexfat/geometry"
	"github.com/dargueta/vexfat/upcase"
)

// FileSource supplies the ordered list of files occupying root-directory
// slots 1..: static files first, then dynamic files, with registered
// partitions appended as dynamic files in registration order.
type FileSource interface {
	// FileCount returns how many files currently occupy directory slots.
	FileCount() int
	// FileAt returns the FileInfo for slot index i (0-based).
	FileAt(i int) FileInfo
}

// Directory renders the whole root directory: a fixed sector 0 (label,
// bitmap, up-case entries) followed by one sector per registered file.
type Directory struct {
	Label              []uint16
	BitmapFirstCluster uint32
	BitmapDataLength   uint64
	UpcaseTable        *upcase.Table
	UpcaseFirstCluster uint32
	UpcaseDataLength   uint64
	Files              FileSource
}

// renderFixedSector writes the sector-0 triplet followed by unused fill.
func (d *Directory) renderFixedSector(buf []byte) {
	FillUnused(buf)

	RenderVolumeLabelEntry(buf[0:DirentSize], d.Label)
	RenderAllocationBitmapEntry(buf[DirentSize:DirentSize*2], d.BitmapFirstCluster, d.BitmapDataLength)
	RenderUpcaseTableEntry(
		buf[DirentSize*2:DirentSize*3],
		d.UpcaseTable.Checksum(),
		d.UpcaseFirstCluster,
		d.UpcaseDataLength,
	)
}

// Render implements the root-directory dispatch.Handler: relLBA 0 is the
// fixed sector, relLBA i (i >= 1) is file slot i-1's directory set padded
// with unused fill for the rest of the sector. relLBA past the last
// registered file also reads as unused fill, matching an empty registry's
// root directory being otherwise-blank.
func (d *Directory) Render(relLBA uint64, buf []byte) {
	if relLBA == 0 {
		d.renderFixedSector(buf)
		return
	}

	slot := int(relLBA - 1)
	if slot >= d.Files.FileCount() {
		FillUnused(buf)
		return
	}

	info := d.Files.FileAt(slot)
	FillUnused(buf)
	RenderFileSet(buf[:SetSize(info)], info, d.UpcaseTable)
}

// RootDirClusterCount is the fixed size of the root directory, 3 clusters.
const RootDirClusterCount = 3

// SectorCount returns how many sectors the root directory spans given the
// geometry's cluster size, i.e. RootDirClusterCount * SectorsPerCluster.
func SectorCount() uint64 {
	return RootDirClusterCount * geometry.SectorsPerCluster
}
