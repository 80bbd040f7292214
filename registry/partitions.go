package registry

import (
	"unicode/utf16"

	"github.com/dargueta/vexfat/errors"
	"github.com/dargueta/vexfat/memfile"
)

// partitionLimits mirrors the
// BOOTROM_PARTITIONS_{MAX_FILES,NAMES_STORAGE_BYTES} options: partitions are
// dynamic files backed by flash memory, capped by their own limits on top
// of MaxDynamicFiles. Each registered partition also takes one of the
// MaxDynamicFiles slots.
type partitionLimits struct {
	maxFiles       int
	namesStorage   int
	usedNamesBytes int
	count          int
}

// MaxPartitionFiles bounds the partition table at 8 entries: up to 8
// (name_utf8, first_page, size_bytes) tuples.
const MaxPartitionFiles = 8

// ConfigurePartitions sets the partition-table limits from the options
// table. Must be called before any AddPartition call; the zero value
// (maxFiles 0) leaves partitions disabled, matching
// BOOTROM_PARTITIONS_ENABLED=false.
func (r *Registry) ConfigurePartitions(maxFiles, namesStorageBytes int) {
	if maxFiles > MaxPartitionFiles {
		maxFiles = MaxPartitionFiles
	}
	r.partitions = partitionLimits{maxFiles: maxFiles, namesStorage: namesStorageBytes}
}

// AddPartition registers one named flash partition as a dynamic file:
// firstPage/pageSize give the device memory address the partition's
// content is read from, exactly as memfile.Region does for the fixed
// static files, but allocated through the same bump allocator as any other
// dynamic file since the partition table is discovered at runtime, not
// known at compile time.
func (r *Registry) AddPartition(nameUTF8 string, firstPage uint32, sizeBytes, pageSize uint64, reader memfile.MemoryReader) (*DynamicFile, error) {
	if r.partitions.count >= r.partitions.maxFiles {
		return nil, errors.ErrTooManyPartitions.WithMessage("partition table is full")
	}
	if r.partitions.usedNamesBytes+len(nameUTF8) > r.partitions.namesStorage {
		return nil, errors.ErrTooManyPartitions.WithMessage("partition names storage exhausted")
	}

	name := utf16.Encode([]rune(nameUTF8))
	region := memfile.NewRegion(uintptr(firstPage)*uintptr(pageSize), sizeBytes, reader)

	file, err := r.Add(name, sizeBytes, region.Content)
	if err != nil {
		return nil, err
	}
	if err := r.Update(file, sizeBytes); err != nil {
		return nil, err
	}

	r.partitions.count++
	r.partitions.usedNamesBytes += len(nameUTF8)
	return file, nil
}
