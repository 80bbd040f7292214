package rootdir

import (
	"encoding/binary"
	"time"

	"github.com/dargueta/vexfat/upcase"
)

// AttrReadOnly is the only attribute bit the synthesizer ever sets: every
// file is read-only.
const AttrReadOnly = 0x0001

// FileInfo is everything a directory set needs to describe one file,
// whether it's a static memory-backed file, a dynamic file, or a partition
// descriptor (registry.StaticFile and registry.DynamicFile both produce one
// of these; partitions are registered as DynamicFile).
type FileInfo struct {
	Name         []uint16
	FirstCluster uint32
	DataLength   uint64
	Created      time.Time
	Modified     time.Time
	Accessed     time.Time
}

// entryCountForName returns how many file-name secondary entries a name of
// this length needs: ceil(len(name) / NameUnitsPerEntry).
func entryCountForName(nameLen int) int {
	return (nameLen + NameUnitsPerEntry - 1) / NameUnitsPerEntry
}

// SetSize returns the total size in bytes of info's directory set: the file
// entry, the stream-extension entry, and the file-name entries.
func SetSize(info FileInfo) int {
	return (2 + entryCountForName(len(info.Name))) * DirentSize
}

// RenderFileSet writes info's complete directory set (file entry, stream
// extension, file-name entries) into buf, which must be at least
// SetSize(info) bytes, using table to up-case the name before hashing it:
// the hash must match the name as up-cased by the table.
func RenderFileSet(buf []byte, info FileInfo, table *upcase.Table) {
	nameEntryCount := entryCountForName(len(info.Name))
	secondaryCount := 1 + nameEntryCount // stream extension + name entries

	upCasedName := table.UpCaseString(info.Name)
	hash := NameHash(upCasedName)

	fileEntry := buf[0:DirentSize]
	for i := range fileEntry {
		fileEntry[i] = 0
	}
	fileEntry[0] = EntryTypeFile
	fileEntry[1] = byte(secondaryCount)
	// fileEntry[2:4] is the set checksum, filled in after the whole set is
	// rendered below.
	binary.LittleEndian.PutUint16(fileEntry[4:6], AttrReadOnly)
	binary.LittleEndian.PutUint32(fileEntry[8:12], PackTimestamp(info.Created))
	binary.LittleEndian.PutUint32(fileEntry[12:16], PackTimestamp(info.Modified))
	binary.LittleEndian.PutUint32(fileEntry[16:20], PackTimestamp(info.Accessed))
	fileEntry[22] = utcOffsetValid
	fileEntry[23] = utcOffsetValid
	fileEntry[24] = utcOffsetValid

	streamEntry := buf[DirentSize : DirentSize*2]
	for i := range streamEntry {
		streamEntry[i] = 0
	}
	streamEntry[0] = EntryTypeStreamExtension
	streamEntry[1] = flagAllocationPossible | flagNoFATChain
	streamEntry[3] = byte(len(info.Name))
	binary.LittleEndian.PutUint16(streamEntry[4:6], hash)
	binary.LittleEndian.PutUint64(streamEntry[8:16], info.DataLength)
	binary.LittleEndian.PutUint32(streamEntry[20:24], info.FirstCluster)
	binary.LittleEndian.PutUint64(streamEntry[24:32], info.DataLength)

	for i := 0; i < nameEntryCount; i++ {
		entry := buf[DirentSize*(2+i) : DirentSize*(3+i)]
		for j := range entry {
			entry[j] = 0
		}
		entry[0] = EntryTypeFileName

		for u := 0; u < NameUnitsPerEntry; u++ {
			srcIdx := i*NameUnitsPerEntry + u
			var unit uint16
			if srcIdx < len(info.Name) {
				unit = info.Name[srcIdx]
			}
			binary.LittleEndian.PutUint16(entry[2+u*2:4+u*2], unit)
		}
	}

	total := (2 + nameEntryCount) * DirentSize
	setChecksum := SetChecksum(buf[:total])
	binary.LittleEndian.PutUint16(fileEntry[2:4], setChecksum)
}
