package rootdir_test

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/dargueta/vexfat/rootdir"
	"github.com/dargueta/vexfat/upcase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFileSource struct {
	files []rootdir.FileInfo
}

func (f *fakeFileSource) FileCount() int                    { return len(f.files) }
func (f *fakeFileSource) FileAt(i int) rootdir.FileInfo      { return f.files[i] }

func utf16(s string) []uint16 {
	out := make([]uint16, len(s))
	for i, c := range s {
		out[i] = uint16(c)
	}
	return out
}

func TestRender_EmptyRegistry_FixedSectorAndUnusedMarkers(t *testing.T) {
	dir := &rootdir.Directory{
		Label:              utf16("VEXFAT"),
		BitmapFirstCluster: 5,
		BitmapDataLength:   4096,
		UpcaseTable:        upcase.BuildDefault(),
		UpcaseFirstCluster: 6,
		UpcaseDataLength:   512,
		Files:              &fakeFileSource{},
	}

	buf := make([]byte, 512)
	dir.Render(0, buf)

	assert.Equal(t, byte(0x83), buf[0])
	assert.Equal(t, byte(6), buf[1]) // "VEXFAT" is 6 code units

	assert.Equal(t, byte(0x81), buf[32])
	assert.Equal(t, byte(0), buf[33])

	assert.Equal(t, byte(0x82), buf[64])

	for i := 96; i < 512; i++ {
		assert.Equal(t, byte(0x01), buf[i], "byte %d should be unused fill", i)
	}
}

func TestRender_OneFile_DirectorySetLayout(t *testing.T) {
	dir := &rootdir.Directory{
		Label:       utf16("VEXFAT"),
		UpcaseTable: upcase.BuildDefault(),
		Files: &fakeFileSource{files: []rootdir.FileInfo{
			{
				Name:         utf16("README.TXT"),
				FirstCluster: 42,
				DataLength:   256,
				Created:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				Modified:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				Accessed:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		}},
	}

	buf := make([]byte, 512)
	dir.Render(1, buf)

	// File entry.
	require.Equal(t, byte(0x85), buf[0])
	assert.Equal(t, byte(0x02), buf[1]) // stream-ext + 1 name entry
	attrs := binary.LittleEndian.Uint16(buf[4:6])
	assert.Equal(t, uint16(0x0001), attrs)

	// Stream extension entry.
	assert.Equal(t, byte(0xC0), buf[32])
	assert.Equal(t, byte(10), buf[32+3]) // NameLength
	dataLength := binary.LittleEndian.Uint64(buf[32+24 : 32+32])
	assert.Equal(t, uint64(256), dataLength)
	firstCluster := binary.LittleEndian.Uint32(buf[32+20 : 32+24])
	assert.Equal(t, uint32(42), firstCluster)

	// Name entry: "README.TXT" plus five 0x0000 fillers.
	assert.Equal(t, byte(0xC1), buf[64])
	name := buf[64+2 : 64+32]
	assert.Equal(t, []byte("R\x00E\x00A\x00D\x00M\x00E\x00.\x00T\x00X\x00T\x00"), name[:20])
	for i := 20; i < 30; i++ {
		assert.Equal(t, byte(0), name[i])
	}

	// Rest of the sector is unused fill.
	for i := 96; i < 512; i++ {
		assert.Equal(t, byte(0x01), buf[i])
	}
}

func TestRender_SlotPastFileCount_IsUnusedFill(t *testing.T) {
	dir := &rootdir.Directory{
		UpcaseTable: upcase.BuildDefault(),
		Files:       &fakeFileSource{},
	}

	buf := make([]byte, 512)
	dir.Render(1, buf)
	for _, b := range buf {
		assert.Equal(t, byte(0x01), b)
	}
}

func TestSetChecksum_FixedPointAfterRoundTrip(t *testing.T) {
	table := upcase.BuildDefault()
	info := rootdir.FileInfo{Name: utf16("A.TXT"), FirstCluster: 2, DataLength: 10}
	buf := make([]byte, rootdir.SetSize(info))
	rootdir.RenderFileSet(buf, info, table)

	storedChecksum := binary.LittleEndian.Uint16(buf[2:4])
	recomputed := rootdir.SetChecksum(buf)
	assert.Equal(t, storedChecksum, recomputed)
}

func TestNameHash_MatchesUpCasedName(t *testing.T) {
	table := upcase.BuildDefault()
	lower := utf16("readme.txt")
	upper := table.UpCaseString(lower)
	assert.Equal(t, rootdir.NameHash(upper), rootdir.NameHash(table.UpCaseString(upper)))
}
