package bootregion

import (
	"encoding/binary"

	"github.com/dargueta/vexfat/bootregion/checksum"
)

// Checksum computes the VBR checksum by snapshotting
// sectors 0-10 through the Generator's own rendering code, then running the
// direct checksum algorithm. The result is cached: it's requested on every
// read of LBA 11 and 23, but sectors 0-10 depend only on the geometry and
// the cached serial, so it never changes once computed.
type Checksum struct {
	gen *Generator

	cached bool
	value  uint32
}

// NewChecksum builds a lazily-evaluated, cached VBR checksum for gen.
func NewChecksum(gen *Generator) *Checksum {
	return &Checksum{gen: gen}
}

func (c *Checksum) compute() uint32 {
	var sectors [11][512]byte
	c.gen.RenderBootSector(sectors[0][:])
	for i := 1; i <= 8; i++ {
		c.gen.RenderExtendedBootSector(sectors[i][:])
	}
	c.gen.RenderOEMParameterSector(sectors[9][:])
	c.gen.RenderOEMParameterSector(sectors[10][:])
	return checksum.Direct(sectors)
}

// Value returns the 32-bit VBR checksum, computing and caching it on first
// call.
func (c *Checksum) Value() uint32 {
	if !c.cached {
		c.value = c.compute()
		c.cached = true
	}
	return c.value
}

// RenderChecksumSector fills buf (exactly one 512-byte sector) with the
// checksum value repeated 128 times.
func (c *Checksum) RenderChecksumSector(buf []byte) {
	value := c.Value()
	for i := 0; i < 128; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], value)
	}
}
