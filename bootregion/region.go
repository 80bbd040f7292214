package bootregion

// Region renders the full 24-sector Volume Boot Region (main at LBA 0-11,
// backup at LBA 12-23, byte-for-byte identical ) as a
// single dispatch.Handler-shaped function of the LBA relative to the
// region's start.
type Region struct {
	Gen      *Generator
	Checksum *Checksum
}

// NewRegion builds a Region over gen, owning its own Checksum cache.
func NewRegion(gen *Generator) *Region {
	return &Region{Gen: gen, Checksum: NewChecksum(gen)}
}

// Render writes sector relLBA (0-23) of the boot region into buf, which must
// be exactly one sector (512 bytes). Callers (dispatch.Table) are
// responsible for mapping an absolute LBA onto this 0-23 range.
func (r *Region) Render(relLBA uint64, buf []byte) {
	local := relLBA % 12 // main region and backup share the same layout
	switch {
	case local == 0:
		r.Gen.RenderBootSector(buf)
	case local >= 1 && local <= 8:
		r.Gen.RenderExtendedBootSector(buf)
	case local == 9 || local == 10:
		r.Gen.RenderOEMParameterSector(buf)
	case local == 11:
		r.Checksum.RenderChecksumSector(buf)
	}
}
