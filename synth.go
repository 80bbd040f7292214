// Package vexfat is the composition root: it wires geometry, bootregion,
// fatgen, allocbitmap, upcase, rootdir, registry, memfile, stdoutfile, and
// notify into one dispatch.Table and exposes the READ(10) entry point and
// the producer/SCSI hooks. Nothing here encodes exFAT semantics directly --
// that all lives in the packages above -- Synthesizer only owns their
// lifetimes and the order they're bound to the volume's LBA space, as one
// owned value rather than file-scope global state.
package vexfat

import (
	"sort"
	"unicode/utf16"

	"github.com/dargueta/vexfat/allocbitmap"
	"github.com/dargueta/vexfat/bootregion"
	"github.com/dargueta/vexfat/dispatch"
	"github.com/dargueta/vexfat/errors"
	"github.com/dargueta/vexfat/fatgen"
	"github.com/dargueta/vexfat/geometry"
	"github.com/dargueta/vexfat/memfile"
	"github.com/dargueta/vexfat/notify"
	"github.com/dargueta/vexfat/registry"
	"github.com/dargueta/vexfat/rootdir"
	"github.com/dargueta/vexfat/scsi"
	"github.com/dargueta/vexfat/stdoutfile"
	"github.com/dargueta/vexfat/upcase"
)

// Synthesizer owns every piece of state needed to answer READ(10) requests
// against one synthesized exFAT volume.
type Synthesizer struct {
	Geometry geometry.Geometry

	registry *registry.Registry
	table    *dispatch.Table
	notify   *notify.State
	scsi     *scsi.Adapter

	stdoutRing *stdoutfile.RingBuffer
	fullLog    *stdoutfile.FullLogFile
	fullFile   *registry.DynamicFile
	tail       *stdoutfile.TailWindowFile
	tailFile   *registry.DynamicFile
	pacer      *notify.StdoutPacer

	partitionPageSize uint64
	partitionReader   memfile.MemoryReader
}

func utf16FromString(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// New builds a Synthesizer from opts, validating geometry and registering
// every configured static/dynamic file. It returns the same geometry
// validation error geometry.New would, plus registration errors
// (ErrOutOfSpace, ErrTooManyFiles) from the dynamic files it registers: the
// changing-file demo and the two standard-output files. Static files are
// registered without any failure mode.
func New(opts Options) (*Synthesizer, error) {
	geo, err := geometry.New(opts.Geometry)
	if err != nil {
		return nil, err
	}

	notifyState := notify.NewState(opts.UAMinDelay)
	reg := registry.New(geo, opts.MaxDynamicFiles, notifyState)

	s := &Synthesizer{
		Geometry: geo,
		registry: reg,
		notify:   notifyState,
	}

	if opts.BootROMPartitions.Enabled {
		reg.ConfigurePartitions(opts.BootROMPartitions.MaxFiles, opts.BootROMPartitions.NamesStorageBytes)
		s.partitionPageSize = opts.BootROMPartitions.PageSizeBytes
		s.partitionReader = opts.BootROMPartitions.Reader
	}

	type staticRegion struct {
		startCluster uint32
		clusterCount uint32
	}
	var memRegions []staticRegion

	registerMemFile := func(mf MemoryFileOptions) {
		if !mf.Enabled {
			return
		}
		region := memfile.NewRegion(mf.BaseAddress, mf.SizeBytes, mf.Reader)
		reg.AddStatic(registry.StaticFile{
			Name:         utf16FromString(mf.FileName),
			FirstCluster: mf.StartCluster,
			Size:         mf.SizeBytes,
			Content:      region.Content,
		})
		memRegions = append(memRegions, staticRegion{
			startCluster: mf.StartCluster,
			clusterCount: geometry.ClustersForBytes(mf.SizeBytes),
		})
	}
	registerMemFile(opts.SRAM)
	registerMemFile(opts.BootROM)
	registerMemFile(opts.Flash)

	if opts.ChangingFile.Enabled {
		if _, err := reg.NewCallbackFile(
			utf16FromString(opts.ChangingFile.FileName),
			opts.ChangingFile.SizeBytes,
			opts.ChangingFile.Content,
		); err != nil {
			return nil, err
		}
	}

	ringSize := opts.StdoutTail.RingBufferSize
	if ringSize <= 0 {
		ringSize = 4096
	}
	s.stdoutRing = stdoutfile.NewRingBuffer(ringSize)
	s.fullLog = &stdoutfile.FullLogFile{Ring: s.stdoutRing}
	s.tail = &stdoutfile.TailWindowFile{Ring: s.stdoutRing}
	s.pacer = notify.NewStdoutPacer(notifyState, opts.StdoutTail.MinAmount, opts.StdoutTail.IdleDelay, opts.StdoutTail.AlarmTimeout)

	s.fullFile, err = reg.NewCallbackFile(utf16FromString("STDOUT.LOG"), uint64(ringSize), s.fullLog.Content)
	if err != nil {
		return nil, err
	}
	s.tailFile, err = reg.NewCallbackFile(utf16FromString("STDOUT.TAL"), uint64(ringSize), s.tail.Content)
	if err != nil {
		return nil, err
	}

	upcaseTable := upcase.BuildDefault()
	rootDir := &rootdir.Directory{
		Label:              utf16FromString(opts.VolumeLabel),
		BitmapFirstCluster: geo.BitmapFirstCluster,
		BitmapDataLength:   uint64(allocbitmap.ByteLength(geo.ClusterCount)),
		UpcaseTable:        upcaseTable,
		UpcaseFirstCluster: geo.UpcaseFirstCluster,
		UpcaseDataLength:   uint64(len(upcaseTable.OnDiskBytes())),
		Files:              reg,
	}

	bootGen := bootregion.New(geo, opts.Serial)
	bootRegion := bootregion.NewRegion(bootGen)
	fatGen := fatgen.New(geo)
	bitmapGen := allocbitmap.New(geo.ClusterCount)

	type row struct {
		start, length uint64
		handler       dispatch.Handler
	}
	rows := []row{
		{0, geometry.BootRegionLengthSectors, bootRegion.Render},
		{uint64(geo.FATOffset), uint64(geo.FATLengthSectors), fatGen.Render},
		{geo.ClusterToLBA(geo.BitmapFirstCluster), uint64(geo.BitmapClusterCount) * geometry.SectorsPerCluster, bitmapGen.Render},
		{geo.ClusterToLBA(geo.UpcaseFirstCluster), uint64(geo.UpcaseClusterCount) * geometry.SectorsPerCluster, upcaseTable.Render},
		{geo.ClusterToLBA(geo.RootDirFirstCluster), rootdir.SectorCount(), rootDir.Render},
	}

	// registry.Render expects an absolute LBA (it derives the target
	// cluster straight from geometry.ClusterHeapOffset), but dispatch.Table
	// hands every handler an LBA relative to its own region's start. Each
	// registry-backed row gets its own closure restoring the absolute LBA.
	absoluteRegistryRow := func(start, length uint64) row {
		rowStart := start
		return row{start, length, func(relLBA uint64, buf []byte) {
			reg.Render(rowStart+relLBA, buf)
		}}
	}

	rows = append(rows, absoluteRegistryRow(
		geo.ClusterToLBA(geo.DynamicAreaStartCluster),
		uint64(geo.DynamicAreaEndCluster-geo.DynamicAreaStartCluster)*geometry.SectorsPerCluster,
	))
	for _, m := range memRegions {
		rows = append(rows, absoluteRegistryRow(
			geo.ClusterToLBA(m.startCluster),
			uint64(m.clusterCount)*geometry.SectorsPerCluster,
		))
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].start < rows[j].start })

	builder := dispatch.NewBuilder(geo.VolumeLengthSectors)
	for _, r := range rows {
		builder.Add(r.start, r.length, r.handler)
	}
	s.table = builder.Build()

	s.scsi = &scsi.Adapter{
		Sectors:             s.table,
		State:               notifyState,
		VolumeLengthSectors: geo.VolumeLengthSectors,
		SectorSize:          geometry.SectorSize,
		Vendor:              "VEXFAT",
		Product:             "VIRTUAL DISK",
		Revision:            "1.0",
	}

	return s, nil
}

// Read10 implements the "read10(lba, offset, buf, len)" external interface,
// delegating to the SCSI adapter.
func (s *Synthesizer) Read10(lba uint64, byteOffset uint32, buf []byte) {
	s.scsi.Read10(lba, byteOffset, buf)
}

// SCSI returns the adapter exposing Inquiry/Capacity/TestUnitReady/
// PreventAllowMediumRemoval/Write10/ModeSense10/Command/IsWritable.
func (s *Synthesizer) SCSI() *scsi.Adapter {
	return s.scsi
}

// Registry exposes the file table for registering additional dynamic files
// at runtime, "Partition enumerator" boundary.
func (s *Synthesizer) Registry() *registry.Registry {
	return s.registry
}

// Regions exposes the bound LBA region table for diagnostics (cmd/vexfatctl).
func (s *Synthesizer) Regions() []dispatch.RegionInfo {
	return s.table.Regions()
}

// WriteStdout implements the "write_stdout(bytes)" producer boundary: it
// pushes into the ring buffer, refreshes the two virtual files' registered
// sizes, and schedules a media-change notification through the
// tail-window pacer.
func (s *Synthesizer) WriteStdout(p []byte) {
	s.stdoutRing.Write(p)
	s.registry.Update(s.fullFile, s.stdoutRing.TotalWritten())
	s.registry.Update(s.tailFile, s.tail.WindowSize())
	stdoutfile.OnWrite(s.pacer, s.tail)
}

// AddPartition implements the partition-enumerator boundary: one
// (name_utf8, first_page, size_bytes) tuple becomes a dynamic
// root-directory entry. Returns ErrTooManyPartitions if BootROMPartitions
// wasn't enabled or its limits are exhausted.
func (s *Synthesizer) AddPartition(nameUTF8 string, firstPage uint32, sizeBytes uint64) error {
	if s.partitionReader == nil {
		return errors.ErrTooManyPartitions.WithMessage("partitions are not enabled")
	}
	_, err := s.registry.AddPartition(nameUTF8, firstPage, sizeBytes, s.partitionPageSize, s.partitionReader)
	return err
}
