package registry

import (
	"time"

	"github.com/dargueta/vexfat/errors"
	"github.com/dargueta/vexfat/geometry"
	"github.com/dargueta/vexfat/rootdir"
)

// dynamicEntry is a DynamicFile plus the cluster count it was allocated
// (kept separately from Size since shrinking never releases clusters).
type dynamicEntry struct {
	file         DynamicFile
	clusterCount uint32
}

// ChangeNotifier is implemented by notify.State; Registry calls it whenever
// a dynamic file's content changes so the host learns to re-read. Kept as a
// narrow interface, not a direct dependency on notify, to avoid an upward
// call cycle: Registry only ever calls outward into this callback, never
// the reverse.
type ChangeNotifier interface {
	ContentChanged(hard bool)
}

// Registry holds every file the synthesizer knows about: a fixed list of
// static (memory-backed) files registered at startup, and a growable list
// of dynamic files allocated from the bump Allocator.
type Registry struct {
	Geometry  geometry.Geometry
	Allocator *Allocator
	Notifier  ChangeNotifier

	MaxDynamicFiles int

	static     []StaticFile
	dynamic    []*dynamicEntry
	partitions partitionLimits
}

// New builds an empty Registry over geo's dynamic area.
func New(geo geometry.Geometry, maxDynamicFiles int, notifier ChangeNotifier) *Registry {
	return &Registry{
		Geometry:        geo,
		Allocator:       NewAllocator(geo.DynamicAreaStartCluster, geo.DynamicAreaEndCluster),
		Notifier:        notifier,
		MaxDynamicFiles: maxDynamicFiles,
	}
}

// AddStatic registers a static file. Static files are expected to be added
// once at startup with a fixed first cluster; there's no allocator
// involvement and no failure mode.
func (r *Registry) AddStatic(f StaticFile) {
	r.static = append(r.static, f)
}

// Add registers a new dynamic file with room for maxSize bytes, allocating
// its clusters from the bump allocator. Returns ErrTooManyFiles if the
// registry is full, or whatever the allocator returned (ErrOutOfSpace) if
// there wasn't room.
func (r *Registry) Add(name []uint16, maxSize uint64, content ContentFunc) (*DynamicFile, error) {
	if len(r.dynamic) >= r.MaxDynamicFiles {
		return nil, errors.ErrTooManyFiles.WithMessage("dynamic file registry is full")
	}

	first, count, err := r.Allocator.Allocate(maxSize)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &dynamicEntry{
		file: DynamicFile{
			Name:         name,
			FirstCluster: first,
			Capacity:     uint64(count) * geometry.ClusterSize,
			Size:         0,
			Content:      content,
			Created:      now,
			Modified:     now,
		},
		clusterCount: count,
	}
	r.dynamic = append(r.dynamic, entry)
	return &entry.file, nil
}

// indexOfDynamic finds the dynamic entry backing file, matched by first
// cluster (dynamic files are never reordered, so this is stable).
func (r *Registry) indexOfDynamic(file *DynamicFile) int {
	for i := range r.dynamic {
		if r.dynamic[i].file.FirstCluster == file.FirstCluster {
			return i
		}
	}
	return -1
}

// Update changes a dynamic file's size to newSize, growing its cluster
// allocation if needed and permitted (growth only succeeds if this file
// is the most recently allocated). On success it refreshes the
// modification time and notifies the registry's ChangeNotifier.
func (r *Registry) Update(file *DynamicFile, newSize uint64) error {
	idx := r.indexOfDynamic(file)
	if idx < 0 {
		return errors.ErrUnregisteredFile
	}
	entry := r.dynamic[idx]

	if uint64(newSize) > uint64(entry.clusterCount)*geometry.ClusterSize {
		newCount, err := r.Allocator.Grow(entry.file.FirstCluster, entry.clusterCount, newSize)
		if err != nil {
			return err
		}
		entry.clusterCount = newCount
		entry.file.Capacity = uint64(newCount) * geometry.ClusterSize
	}

	entry.file.Size = newSize
	entry.file.Modified = time.Now()
	*file = entry.file

	if r.Notifier != nil {
		r.Notifier.ContentChanged(false)
	}
	return nil
}

// staticFileInfo / dynamicFileInfo adapt the registry's file records into
// rootdir.FileInfo, the shape the root-directory renderer consumes.

func staticFileInfo(f StaticFile) rootdir.FileInfo {
	return rootdir.FileInfo{
		Name:         f.Name,
		FirstCluster: f.FirstCluster,
		DataLength:   f.Size,
	}
}

func dynamicFileInfo(f DynamicFile) rootdir.FileInfo {
	return rootdir.FileInfo{
		Name:         f.Name,
		FirstCluster: f.FirstCluster,
		DataLength:   f.Size,
		Created:      f.Created,
		Modified:     f.Modified,
		Accessed:     f.Modified,
	}
}

// FileCount implements rootdir.FileSource: static files occupy the first
// slots, then dynamic files.
func (r *Registry) FileCount() int {
	return len(r.static) + len(r.dynamic)
}

// FileAt implements rootdir.FileSource.
func (r *Registry) FileAt(i int) rootdir.FileInfo {
	if i < len(r.static) {
		return staticFileInfo(r.static[i])
	}
	return dynamicFileInfo(r.dynamic[i-len(r.static)].file)
}
