package geometry_test

import (
	"testing"

	"github.com/dargueta/vexfat/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() geometry.Options {
	return geometry.Options{
		FATOffset:               24,
		FATLengthSectors:        8,
		ClusterHeapOffset:       32,
		ClusterCount:            256,
		RootDirFirstCluster:     2,
		BitmapFirstCluster:      5,
		BitmapClusterCount:      1,
		UpcaseFirstCluster:      6,
		UpcaseClusterCount:      1,
		DynamicAreaStartCluster: 7,
		DynamicAreaEndCluster:   258,
		VolumeLengthSectors:     32 + 256*geometry.SectorsPerCluster,
	}
}

func TestNew_ValidGeometry(t *testing.T) {
	g, err := geometry.New(validOptions())
	require.NoError(t, err)
	assert.Equal(t, uint32(32), g.ClusterHeapOffset)
}

func TestClusterToLBA_RoundTrip(t *testing.T) {
	g, err := geometry.New(validOptions())
	require.NoError(t, err)

	for cluster := uint32(2); cluster < 10; cluster++ {
		lba := g.ClusterToLBA(cluster)
		assert.Equal(t, cluster, g.LBAToCluster(lba))
	}
}

func TestClusterToLBA_ClusterTwoMapsToClusterHeapOffset(t *testing.T) {
	g, err := geometry.New(validOptions())
	require.NoError(t, err)
	assert.Equal(t, uint64(g.ClusterHeapOffset), g.ClusterToLBA(2))
}

func TestNew_CollectsAllViolations(t *testing.T) {
	opts := validOptions()
	opts.ClusterHeapOffset = 33 // not a multiple of SectorsPerCluster
	opts.FATOffset = 4          // overlaps boot region
	opts.DynamicAreaStartCluster = 1

	_, err := geometry.New(opts)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "not a multiple")
	assert.Contains(t, msg, "overlaps")
	assert.Contains(t, msg, "cannot start before cluster 2")
}

func TestClustersForBytes(t *testing.T) {
	assert.Equal(t, uint32(0), geometry.ClustersForBytes(0))
	assert.Equal(t, uint32(1), geometry.ClustersForBytes(1))
	assert.Equal(t, uint32(1), geometry.ClustersForBytes(geometry.ClusterSize))
	assert.Equal(t, uint32(2), geometry.ClustersForBytes(geometry.ClusterSize+1))
}
