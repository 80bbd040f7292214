package registry_test

import (
	"testing"

	"github.com/dargueta/vexfat/errors"
	"github.com/dargueta/vexfat/geometry"
	"github.com/dargueta/vexfat/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeometry(t *testing.T) geometry.Geometry {
	g, err := geometry.New(geometry.Options{
		FATOffset:               24,
		FATLengthSectors:        8,
		ClusterHeapOffset:       32,
		ClusterCount:            16,
		RootDirFirstCluster:     2,
		BitmapFirstCluster:      5,
		BitmapClusterCount:      1,
		UpcaseFirstCluster:      6,
		UpcaseClusterCount:      1,
		DynamicAreaStartCluster: 7,
		DynamicAreaEndCluster:   16,
		VolumeLengthSectors:     32 + 16*geometry.SectorsPerCluster,
	})
	require.NoError(t, err)
	return g
}

type countingNotifier struct{ calls int }

func (c *countingNotifier) ContentChanged(hard bool) { c.calls++ }

func TestAllocator_BumpAllocation(t *testing.T) {
	a := registry.NewAllocator(7, 16)
	first, count, err := a.Allocate(geometry.ClusterSize)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), first)
	assert.Equal(t, uint32(1), count)
	assert.Equal(t, uint32(8), a.NextCluster())
}

func TestAllocator_ExhaustionFails(t *testing.T) {
	a := registry.NewAllocator(7, 9)
	_, _, err := a.Allocate(3 * geometry.ClusterSize)
	assert.ErrorIs(t, err, errors.ErrOutOfSpace)
}

func TestAllocator_GrowOnlyAtTail(t *testing.T) {
	a := registry.NewAllocator(7, 16)
	first, count, err := a.Allocate(geometry.ClusterSize)
	require.NoError(t, err)

	// Allocate a second file right after, so the first no longer abuts the
	// cursor.
	_, _, err = a.Allocate(geometry.ClusterSize)
	require.NoError(t, err)

	_, err = a.Grow(first, count, 2*geometry.ClusterSize)
	assert.ErrorIs(t, err, errors.ErrNotContiguous)
}

func TestAllocator_GrowAtTailSucceeds(t *testing.T) {
	a := registry.NewAllocator(7, 16)
	first, count, err := a.Allocate(geometry.ClusterSize)
	require.NoError(t, err)

	newCount, err := a.Grow(first, count, 2*geometry.ClusterSize)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), newCount)
	assert.Equal(t, uint32(9), a.NextCluster())
}

func TestRegistry_AddAndUpdate(t *testing.T) {
	geo := testGeometry(t)
	notifier := &countingNotifier{}
	reg := registry.New(geo, 4, notifier)

	content := func(offset uint64, buf []byte) {
		for i := range buf {
			buf[i] = byte(offset) + byte(i)
		}
	}

	file, err := reg.Add([]uint16{'A'}, geometry.ClusterSize, content)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), file.FirstCluster)

	err = reg.Update(file, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), file.Size)
	assert.Equal(t, 1, notifier.calls)
}

func TestRegistry_TooManyFiles(t *testing.T) {
	geo := testGeometry(t)
	reg := registry.New(geo, 1, nil)

	_, err := reg.Add([]uint16{'A'}, geometry.ClusterSize, nil)
	require.NoError(t, err)

	_, err = reg.Add([]uint16{'B'}, geometry.ClusterSize, nil)
	assert.ErrorIs(t, err, errors.ErrTooManyFiles)
}

func TestRegistry_ContentDispatch(t *testing.T) {
	geo := testGeometry(t)
	reg := registry.New(geo, 4, nil)

	content := func(offset uint64, buf []byte) {
		for i := range buf {
			buf[i] = 0x42
		}
	}
	file, err := reg.Add([]uint16{'A'}, 100, content)
	require.NoError(t, err)
	require.NoError(t, reg.Update(file, 100))

	buf := make([]byte, geometry.SectorSize)
	lba := geo.ClusterToLBA(file.FirstCluster)
	reg.Render(lba, buf)

	for i := 0; i < 100; i++ {
		assert.Equal(t, byte(0x42), buf[i], "byte %d should come from content callback", i)
	}
	for i := 100; i < len(buf); i++ {
		assert.Equal(t, byte(0), buf[i], "byte %d should be zero-filled past size", i)
	}
}

func TestRegistry_ContentDispatch_UnknownLBAZeroFills(t *testing.T) {
	geo := testGeometry(t)
	reg := registry.New(geo, 4, nil)

	buf := make([]byte, geometry.SectorSize)
	for i := range buf {
		buf[i] = 0xAA
	}
	reg.Render(geo.ClusterToLBA(geo.DynamicAreaStartCluster), buf)

	for _, b := range buf {
		assert.Equal(t, byte(0), b)
	}
}

func TestRegistry_FileCount_StaticThenDynamic(t *testing.T) {
	geo := testGeometry(t)
	reg := registry.New(geo, 4, nil)
	reg.AddStatic(registry.StaticFile{Name: []uint16{'S'}, FirstCluster: 2, Size: 10})
	_, err := reg.Add([]uint16{'D'}, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.FileCount())
	assert.Equal(t, []uint16{'S'}, reg.FileAt(0).Name)
	assert.Equal(t, []uint16{'D'}, reg.FileAt(1).Name)
}
