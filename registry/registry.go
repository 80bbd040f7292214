// Package registry holds the volume's file table and bump cluster
// allocator: static memory-backed files, dynamic files, and the per-file
// cluster allocation that backs both file-content dispatch (Render) and
// root-directory rendering (rootdir).
package registry

import (
	"time"

	"github.com/dargueta/vexfat/errors"
	"github.com/dargueta/vexfat/geometry"
)

// ContentFunc fills buf with up to len(buf) bytes of a file's content
// starting at fileOffset. It must be side-effect-free with respect to
// geometry -- the only state it may read is the live device memory or ring
// buffer it closes over.
type ContentFunc func(fileOffset uint64, buf []byte)

// StaticFile is an immutable file created at initialization: boot ROM,
// SRAM, and flash images (memfile package).
type StaticFile struct {
	Name         []uint16
	FirstCluster uint32
	Size         uint64
	Content      ContentFunc
}

// DynamicFile is a mutable file whose first cluster is assigned by the
// allocator when it's registered.
type DynamicFile struct {
	Name         []uint16
	FirstCluster uint32
	Capacity     uint64 // clusters allocated, in bytes (k*ClusterSize)
	Size         uint64 // bytes currently valid
	Content      ContentFunc
	Created      time.Time
	Modified     time.Time
}

// Allocator is the strictly-bump cluster allocator backing dynamic files:
// a cursor that only ever advances, over a fixed dynamic region.
type Allocator struct {
	start  uint32
	end    uint32 // exclusive
	cursor uint32
}

// NewAllocator builds an Allocator over the half-open cluster range
// [start, end).
func NewAllocator(start, end uint32) *Allocator {
	return &Allocator{start: start, end: end, cursor: start}
}

// NextCluster reports the allocator's current bump cursor.
func (a *Allocator) NextCluster() uint32 {
	return a.cursor
}

// Allocate reserves ceil(size/ClusterSize) clusters starting at the current
// cursor, advancing it. Fails with ErrOutOfSpace if the request doesn't fit
// in the remaining dynamic region.
func (a *Allocator) Allocate(size uint64) (first uint32, clusterCount uint32, err error) {
	k := geometry.ClustersForBytes(size)
	if a.cursor+k > a.end {
		return 0, 0, errors.ErrOutOfSpace
	}
	first = a.cursor
	a.cursor += k
	return first, k, nil
}

// CanGrow reports whether a file occupying [first, first+count) clusters
// abuts the allocator's cursor, i.e. is the most recently allocated file and
// so is the only one eligible to grow in place.
func (a *Allocator) CanGrow(first, count uint32) bool {
	return first+count == a.cursor
}

// Grow extends the most-recently-allocated file's cluster range by enough
// clusters to cover newSize, given its current cluster count. It fails with
// ErrNotContiguous if the file doesn't abut the cursor.
func (a *Allocator) Grow(first, oldClusterCount uint32, newSize uint64) (newClusterCount uint32, err error) {
	if !a.CanGrow(first, oldClusterCount) {
		return 0, errors.ErrNotContiguous
	}
	needed := geometry.ClustersForBytes(newSize)
	if needed <= oldClusterCount {
		return oldClusterCount, nil
	}
	extra := needed - oldClusterCount
	if a.cursor+extra > a.end {
		return 0, errors.ErrOutOfSpace
	}
	a.cursor += extra
	return needed, nil
}
