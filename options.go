package vexfat

import (
	"time"

	"github.com/dargueta/vexfat/bootregion"
	"github.com/dargueta/vexfat/geometry"
	"github.com/dargueta/vexfat/memfile"
	"github.com/dargueta/vexfat/registry"
)

// MemoryFileOptions configures one of the three static memory-backed files
// (BOOTROM.BIN, SRAM.BIN, FLASH.BIN).
type MemoryFileOptions struct {
	Enabled      bool
	FileName     string
	SizeBytes    uint64
	StartCluster uint32
	BaseAddress  uintptr
	Reader       memfile.MemoryReader
}

// BootROMPartitionsOptions configures the partition table feature
// (BOOTROM_PARTITIONS_{ENABLED,MAX_FILES,NAMES_STORAGE_BYTES}).
type BootROMPartitionsOptions struct {
	Enabled           bool
	MaxFiles          int
	NamesStorageBytes int
	PageSizeBytes     uint64
	Reader            memfile.MemoryReader
}

// ChangingFileOptions configures the CHANGING_FILE_* demo file: a file
// whose content varies per read via a caller-supplied callback.
type ChangingFileOptions struct {
	Enabled   bool
	FileName  string
	SizeBytes uint64
	Content   registry.ContentFunc
}

// StdoutTailOptions paces media-change notifications for the standard-
// output virtual files (STDOUT_TAIL_UA_{MIN_AMOUNT,DELAY_SEC,TIMEOUT_SEC}).
type StdoutTailOptions struct {
	MinAmount      uint64
	IdleDelay      time.Duration
	AlarmTimeout   time.Duration
	RingBufferSize int
}

// Options mirrors configuration table field-for-field.
type Options struct {
	VolumeLabel string
	Geometry    geometry.Options
	Serial      bootregion.SerialSource

	SRAM    MemoryFileOptions
	BootROM MemoryFileOptions
	Flash   MemoryFileOptions

	BootROMPartitions BootROMPartitionsOptions
	ChangingFile      ChangingFileOptions

	MaxDynamicFiles int
	UAMinDelay      time.Duration
	StdoutTail      StdoutTailOptions
}
