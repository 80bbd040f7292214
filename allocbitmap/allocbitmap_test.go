package allocbitmap_test

import (
	"testing"

	"github.com/dargueta/vexfat/allocbitmap"
	"github.com/dargueta/vexfat/geometry"
	"github.com/stretchr/testify/assert"
)

func TestNew_AllClustersMarkedUsed(t *testing.T) {
	gen := allocbitmap.New(64)
	buf := make([]byte, geometry.SectorSize)
	gen.Render(0, buf)

	for i, b := range buf {
		assert.Equal(t, byte(0xFF), b, "byte %d should be 0xFF (all used)", i)
	}
}

func TestByteLength_RoundsUpToClusterSize(t *testing.T) {
	length := allocbitmap.ByteLength(1)
	assert.Equal(t, uint32(geometry.ClusterSize), length)
}

func TestByteLength_MultipleClusters(t *testing.T) {
	// 100000 clusters needs 12500 bytes, which rounds up to 4096*4=16384.
	length := allocbitmap.ByteLength(100000)
	assert.Equal(t, uint32(0), length%geometry.ClusterSize)
	assert.GreaterOrEqual(t, length, uint32(12500))
}

func TestRender_PastEndStillReadsAsUsed(t *testing.T) {
	gen := allocbitmap.New(8)
	buf := make([]byte, geometry.SectorSize)
	// Region is only 1 cluster (8 sectors) but we ask for the sector just
	// past it anyway.
	gen.Render(geometry.SectorsPerCluster, buf)
	for _, b := range buf {
		assert.Equal(t, byte(0xFF), b)
	}
}
