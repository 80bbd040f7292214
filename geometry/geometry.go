// Package geometry derives the compile-time-shaped volume layout the rest of
// the synthesizer reads from. Nothing here touches storage: every field is a
// pure function of the options the volume was constructed with.
package geometry

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// SectorSize is the only sector size the synthesizer supports, per spec.
const SectorSize = 512

// SectorsPerCluster is fixed at 8, giving a 4 KiB cluster.
const SectorsPerCluster = 8

// ClusterSize is the number of bytes addressed by one cluster.
const ClusterSize = SectorSize * SectorsPerCluster

// Boot-region layout is entirely fixed: LBAs 0-11 are the main Volume Boot
// Region, 12-23 its backup. These constants are referenced throughout the
// other packages so the region order has one home.
const (
	LBABootSector            = 0
	LBAExtendedBootFirst      = 1
	NumExtendedBootSectors    = 8
	LBAOEMParametersFirst     = 9
	NumOEMParameterSectors    = 2
	LBAChecksum               = 11
	LBABootRegionBackupOffset = 12 // backup region starts here, mirrors 0..11
	LBABackupChecksum         = LBABootRegionBackupOffset + LBAChecksum
	BootRegionLengthSectors   = 24
)

// Geometry is the fully resolved layout of one volume. Build it with New;
// every field is read-only after construction.
type Geometry struct {
	// FATOffset is the LBA of the first FAT sector. Must be >= 24 (past the
	// boot region) and sector-aligned (trivially true, it's already a sector
	// index).
	FATOffset uint32
	// FATLengthSectors is the number of sectors reserved for one FAT. Only
	// FAT0's first sector ever has non-zero content (fatgen.Generator), but
	// the region must be large enough to address ClusterCount entries.
	FATLengthSectors uint32
	// ClusterHeapOffset ("CHO") is the LBA of cluster index 2. Must be a
	// multiple of SectorsPerCluster so ClusterToLBA needs no division.
	ClusterHeapOffset uint32
	// ClusterCount is the number of clusters in the heap.
	ClusterCount uint32
	// RootDirFirstCluster is the first cluster of the (fixed, 3-cluster)
	// root directory.
	RootDirFirstCluster uint32
	// BitmapFirstCluster, UpcaseFirstCluster give the fixed allocations for
	// the allocation bitmap and up-case table; BitmapClusterCount and
	// UpcaseClusterCount give their lengths in clusters, as set in Options.
	BitmapFirstCluster  uint32
	BitmapClusterCount  uint32
	UpcaseFirstCluster  uint32
	UpcaseClusterCount  uint32
	// DynamicAreaStartCluster, DynamicAreaEndCluster bound the bump
	// allocator's region (registry.Allocator); DynamicAreaEndCluster is
	// exclusive.
	DynamicAreaStartCluster uint32
	DynamicAreaEndCluster   uint32
	// VolumeLengthSectors is the total addressable size of the volume.
	VolumeLengthSectors uint64
}

// Options carries the subset of the synthesizer's configuration that shapes
// geometry; the rest (labels, file names, notification timing) lives on
// vexfat.Options and doesn't affect layout.
type Options struct {
	FATOffset               uint32
	FATLengthSectors        uint32
	ClusterHeapOffset       uint32
	ClusterCount            uint32
	RootDirFirstCluster     uint32
	BitmapFirstCluster      uint32
	BitmapClusterCount      uint32
	UpcaseFirstCluster      uint32
	UpcaseClusterCount      uint32
	DynamicAreaStartCluster uint32
	DynamicAreaEndCluster   uint32
	VolumeLengthSectors     uint64
}

// New derives a Geometry from opts and validates every invariant. All
// violations are collected, not just the first: geometry is built once at
// startup, so there is no benefit to fail-fast here and every real benefit
// to reporting the whole list at once.
func New(opts Options) (Geometry, error) {
	g := Geometry{
		FATOffset:               opts.FATOffset,
		FATLengthSectors:        opts.FATLengthSectors,
		ClusterHeapOffset:       opts.ClusterHeapOffset,
		ClusterCount:            opts.ClusterCount,
		RootDirFirstCluster:     opts.RootDirFirstCluster,
		BitmapFirstCluster:      opts.BitmapFirstCluster,
		BitmapClusterCount:      opts.BitmapClusterCount,
		UpcaseFirstCluster:      opts.UpcaseFirstCluster,
		UpcaseClusterCount:      opts.UpcaseClusterCount,
		DynamicAreaStartCluster: opts.DynamicAreaStartCluster,
		DynamicAreaEndCluster:   opts.DynamicAreaEndCluster,
		VolumeLengthSectors:     opts.VolumeLengthSectors,
	}

	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

// Validate checks every geometry invariant, returning a *multierror.Error
// (nil if there were no problems) so callers can see every violation, not
// just the first one hit.
func (g Geometry) Validate() error {
	var result *multierror.Error

	if g.ClusterHeapOffset%SectorsPerCluster != 0 {
		result = multierror.Append(result, fmt.Errorf(
			"cluster heap offset %d is not a multiple of %d sectors per cluster",
			g.ClusterHeapOffset, SectorsPerCluster))
	}
	if g.FATOffset < BootRegionLengthSectors {
		result = multierror.Append(result, fmt.Errorf(
			"FAT offset %d overlaps the %d-sector boot region",
			g.FATOffset, BootRegionLengthSectors))
	}
	if g.FATOffset+g.FATLengthSectors > g.ClusterHeapOffset {
		result = multierror.Append(result, fmt.Errorf(
			"FAT region [%d, %d) runs into the cluster heap at %d",
			g.FATOffset, g.FATOffset+g.FATLengthSectors, g.ClusterHeapOffset))
	}
	if g.DynamicAreaStartCluster < 2 {
		result = multierror.Append(result, fmt.Errorf(
			"dynamic area cannot start before cluster 2, got %d",
			g.DynamicAreaStartCluster))
	}
	if g.DynamicAreaEndCluster > g.ClusterCount+2 {
		result = multierror.Append(result, fmt.Errorf(
			"dynamic area end cluster %d exceeds cluster count %d",
			g.DynamicAreaEndCluster, g.ClusterCount))
	}
	if g.DynamicAreaStartCluster > g.DynamicAreaEndCluster {
		result = multierror.Append(result, fmt.Errorf(
			"dynamic area start cluster %d is after its end cluster %d",
			g.DynamicAreaStartCluster, g.DynamicAreaEndCluster))
	}
	minVolumeLength := uint64(g.ClusterHeapOffset) + uint64(g.ClusterCount)*SectorsPerCluster
	if g.VolumeLengthSectors < minVolumeLength {
		result = multierror.Append(result, fmt.Errorf(
			"volume length %d sectors is too short to cover the %d-sector cluster heap",
			g.VolumeLengthSectors, minVolumeLength))
	}

	return result.ErrorOrNil()
}

// ClusterToLBA maps a cluster index (>= 2) to its first LBA. Cluster 2 maps
// to ClusterHeapOffset by definition; index n maps to
// ClusterHeapOffset + (n-2)*SectorsPerCluster.
func (g Geometry) ClusterToLBA(cluster uint32) uint64 {
	return uint64(g.ClusterHeapOffset) + uint64(cluster-2)*SectorsPerCluster
}

// LBAToCluster is the inverse of ClusterToLBA, truncating to the cluster
// containing lba. Callers must check lba >= ClusterHeapOffset first.
func (g Geometry) LBAToCluster(lba uint64) uint32 {
	return 2 + uint32((lba-uint64(g.ClusterHeapOffset))/SectorsPerCluster)
}

// ClustersForBytes returns ceil(size / ClusterSize), the allocator's unit
// of account.
func ClustersForBytes(size uint64) uint32 {
	return uint32((size + ClusterSize - 1) / ClusterSize)
}
