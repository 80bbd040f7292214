package registry

import "github.com/dargueta/vexfat/geometry"

// fileExtent is the minimal shape ContentDispatch needs from either a
// static or dynamic file: where it starts, how many clusters it occupies,
// how many of its bytes are valid, and how to read them.
type fileExtent struct {
	firstCluster uint32
	clusterCount uint32
	size         uint64
	content      ContentFunc
}

func (r *Registry) extents() []fileExtent {
	extents := make([]fileExtent, 0, len(r.static)+len(r.dynamic))
	for _, f := range r.static {
		extents = append(extents, fileExtent{
			firstCluster: f.FirstCluster,
			clusterCount: geometry.ClustersForBytes(f.Size),
			size:         f.Size,
			content:      f.Content,
		})
	}
	for _, e := range r.dynamic {
		extents = append(extents, fileExtent{
			firstCluster: e.file.FirstCluster,
			clusterCount: e.clusterCount,
			size:         e.file.Size,
			content:      e.file.Content,
		})
	}
	return extents
}

// Render implements the dynamic-region content dispatch: given an absolute
// LBA, find the registry entry whose cluster range contains it, compute
// the file-relative offset, invoke its content callback for the in-bounds
// prefix, and zero-fill any tail past its size. An LBA matching no entry
// zero-fills entirely.
func (r *Registry) Render(lba uint64, buf []byte) {
	cluster := r.Geometry.LBAToCluster(lba)

	for _, e := range r.extents() {
		if cluster < e.firstCluster || cluster >= e.firstCluster+e.clusterCount {
			continue
		}

		clusterOffsetLBA := lba - r.Geometry.ClusterToLBA(e.firstCluster)
		fileOffset := clusterOffsetLBA * geometry.SectorSize

		r.renderFileSector(buf, fileOffset, e.size, e.content)
		return
	}

	for i := range buf {
		buf[i] = 0
	}
}

// renderFileSector writes buf from a file's content callback, clamping to
// the file's valid size and zero-filling any tail.
func (r *Registry) renderFileSector(buf []byte, fileOffset, size uint64, content ContentFunc) {
	if fileOffset >= size {
		for i := range buf {
			buf[i] = 0
		}
		return
	}

	validLen := uint64(len(buf))
	if fileOffset+validLen > size {
		validLen = size - fileOffset
	}

	content(fileOffset, buf[:validLen])
	for i := validLen; i < uint64(len(buf)); i++ {
		buf[i] = 0
	}
}
