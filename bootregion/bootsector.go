// Package bootregion generates the exFAT Volume Boot Region: the boot
// sector, extended boot sectors, OEM parameter sectors, checksum sector,
// and their byte-identical backup at LBA 12.
package bootregion

import (
	"encoding/binary"

	"github.com/dargueta/vexfat/geometry"
	"github.com/noxer/bytewriter"
)

// SerialSource supplies the volume serial number, derived from the board's
// unique identifier. It's called at
// most once; Generator caches the result.
type SerialSource func() uint32

// Generator renders the boot region. It holds no mutable state besides the
// cached serial (the checksum is cached by Checksum), matching the "no storage, pure function of
// geometry + registry" design of the whole synthesizer.
type Generator struct {
	Geometry geometry.Geometry
	Serial   SerialSource

	serialCached bool
	serial       uint32
}

// New builds a Generator for the given geometry. serial is called lazily the
// first time a boot sector is rendered.
func New(geo geometry.Geometry, serial SerialSource) *Generator {
	return &Generator{Geometry: geo, Serial: serial}
}

func (g *Generator) resolveSerial() uint32 {
	if !g.serialCached {
		g.serial = g.Serial()
		g.serialCached = true
	}
	return g.serial
}

// log2 returns the base-2 logarithm of a power of two, used for the
// BytesPerSectorShift / SectorsPerClusterShift fields, which exFAT stores as
// shift amounts rather than raw values.
func log2(v uint32) uint8 {
	var shift uint8
	for v > 1 {
		v >>= 1
		shift++
	}
	return shift
}

// RenderBootSector writes the 512-byte main (or backup, the layouts are
// identical) boot sector into buf.
func (g *Generator) RenderBootSector(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	w := bytewriter.New(buf)

	// Jump instruction + OEM name: EB 76 90 "EXFAT   ".
	w.Write([]byte{0xEB, 0x76, 0x90})
	w.Write([]byte("EXFAT   "))
	w.Write(make([]byte, 53)) // MustBeZero

	binary.LittleEndian.PutUint64(buf[64:72], 0) // PartitionOffset
	binary.LittleEndian.PutUint64(buf[72:80], g.Geometry.VolumeLengthSectors)
	binary.LittleEndian.PutUint32(buf[80:84], g.Geometry.FATOffset)
	binary.LittleEndian.PutUint32(buf[84:88], g.Geometry.FATLengthSectors)
	binary.LittleEndian.PutUint32(buf[88:92], g.Geometry.ClusterHeapOffset)
	binary.LittleEndian.PutUint32(buf[92:96], g.Geometry.ClusterCount)
	binary.LittleEndian.PutUint32(buf[96:100], g.Geometry.RootDirFirstCluster)
	binary.LittleEndian.PutUint32(buf[100:104], g.resolveSerial())
	binary.LittleEndian.PutUint16(buf[104:106], 0x0100) // FileSystemRevision
	binary.LittleEndian.PutUint16(buf[106:108], 0)      // VolumeFlags
	buf[108] = log2(geometry.SectorSize)
	buf[109] = log2(geometry.SectorsPerCluster)
	buf[110] = 1 // NumberOfFATs: always 1, no write support means no mirror
	buf[111] = 0 // DriveSelect
	buf[112] = 0 // PercentInUse

	buf[510] = 0x55
	buf[511] = 0xAA
}

// RenderExtendedBootSector writes one of the 8 extended boot sectors: all
// zero except the trailing boot signature.
func (g *Generator) RenderExtendedBootSector(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	buf[510] = 0x55
	buf[511] = 0xAA
}

// RenderOEMParameterSector writes an OEM parameter sector: entirely zero,
// since this synthesizer defines no vendor-specific OEM parameters.
func (g *Generator) RenderOEMParameterSector(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
