// Command vexfatctl builds a Synthesizer from command-line flags and dumps
// diagnostic views of it (geometry, the LBA region table) as CSV.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"

	vexfat "github.com/dargueta/vexfat"
	"github.com/dargueta/vexfat/geometry"
)

func main() {
	app := &cli.App{
		Name:  "vexfatctl",
		Usage: "Inspect a virtual exFAT volume's synthesized layout",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "fat-offset", Value: 24},
			&cli.Uint64Flag{Name: "fat-length-sectors", Value: 2048},
			&cli.Uint64Flag{Name: "cluster-heap-offset", Value: 2072},
			&cli.Uint64Flag{Name: "cluster-count", Value: 65536},
			&cli.Uint64Flag{Name: "root-dir-first-cluster", Value: 5},
			&cli.Uint64Flag{Name: "bitmap-first-cluster", Value: 2},
			&cli.Uint64Flag{Name: "bitmap-cluster-count", Value: 2},
			&cli.Uint64Flag{Name: "upcase-first-cluster", Value: 4},
			&cli.Uint64Flag{Name: "upcase-cluster-count", Value: 1},
			&cli.Uint64Flag{Name: "dynamic-area-start-cluster", Value: 8},
			&cli.Uint64Flag{Name: "dynamic-area-end-cluster", Value: 65536},
			&cli.Uint64Flag{Name: "volume-length-sectors", Value: 2072 + 65536*geometry.SectorsPerCluster},
			&cli.StringFlag{Name: "volume-label", Value: "VEXFAT"},
		},
		Commands: []*cli.Command{
			{
				Name:   "geometry",
				Usage:  "Print the resolved volume geometry as CSV",
				Action: dumpGeometry,
			},
			{
				Name:   "regions",
				Usage:  "Print the bound LBA region table as CSV",
				Action: dumpRegions,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("vexfatctl: %s", err.Error())
	}
}

// geometryOptionsFromFlags builds a geometry.Options from the app's global
// flags, shared by every subcommand.
func geometryOptionsFromFlags(c *cli.Context) geometry.Options {
	return geometry.Options{
		FATOffset:               uint32(c.Uint64("fat-offset")),
		FATLengthSectors:        uint32(c.Uint64("fat-length-sectors")),
		ClusterHeapOffset:       uint32(c.Uint64("cluster-heap-offset")),
		ClusterCount:            uint32(c.Uint64("cluster-count")),
		RootDirFirstCluster:     uint32(c.Uint64("root-dir-first-cluster")),
		BitmapFirstCluster:      uint32(c.Uint64("bitmap-first-cluster")),
		BitmapClusterCount:      uint32(c.Uint64("bitmap-cluster-count")),
		UpcaseFirstCluster:      uint32(c.Uint64("upcase-first-cluster")),
		UpcaseClusterCount:      uint32(c.Uint64("upcase-cluster-count")),
		DynamicAreaStartCluster: uint32(c.Uint64("dynamic-area-start-cluster")),
		DynamicAreaEndCluster:   uint32(c.Uint64("dynamic-area-end-cluster")),
		VolumeLengthSectors:     c.Uint64("volume-length-sectors"),
	}
}

// geometryRow is the CSV projection of geometry.Geometry for diagnostics.
type geometryRow struct {
	FATOffset               uint32 `csv:"fat_offset"`
	FATLengthSectors        uint32 `csv:"fat_length_sectors"`
	ClusterHeapOffset       uint32 `csv:"cluster_heap_offset"`
	ClusterCount            uint32 `csv:"cluster_count"`
	RootDirFirstCluster     uint32 `csv:"root_dir_first_cluster"`
	BitmapFirstCluster      uint32 `csv:"bitmap_first_cluster"`
	UpcaseFirstCluster      uint32 `csv:"upcase_first_cluster"`
	DynamicAreaStartCluster uint32 `csv:"dynamic_area_start_cluster"`
	DynamicAreaEndCluster   uint32 `csv:"dynamic_area_end_cluster"`
	VolumeLengthSectors     uint64 `csv:"volume_length_sectors"`
}

func dumpGeometry(c *cli.Context) error {
	geo, err := geometry.New(geometryOptionsFromFlags(c))
	if err != nil {
		return err
	}

	rows := []geometryRow{{
		FATOffset:               geo.FATOffset,
		FATLengthSectors:        geo.FATLengthSectors,
		ClusterHeapOffset:       geo.ClusterHeapOffset,
		ClusterCount:            geo.ClusterCount,
		RootDirFirstCluster:     geo.RootDirFirstCluster,
		BitmapFirstCluster:      geo.BitmapFirstCluster,
		UpcaseFirstCluster:      geo.UpcaseFirstCluster,
		DynamicAreaStartCluster: geo.DynamicAreaStartCluster,
		DynamicAreaEndCluster:   geo.DynamicAreaEndCluster,
		VolumeLengthSectors:     geo.VolumeLengthSectors,
	}}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func dumpRegions(c *cli.Context) error {
	opts := vexfat.Options{
		VolumeLabel:     c.String("volume-label"),
		Geometry:        geometryOptionsFromFlags(c),
		Serial:          func() uint32 { return 0 },
		MaxDynamicFiles: 8,
		UAMinDelay:      100 * time.Millisecond,
		StdoutTail: vexfat.StdoutTailOptions{
			MinAmount:      64,
			IdleDelay:      time.Second,
			AlarmTimeout:   5 * time.Second,
			RingBufferSize: 4096,
		},
	}

	s, err := vexfat.New(opts)
	if err != nil {
		return err
	}

	regions := s.Regions()
	out, err := gocsv.MarshalString(&regions)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
