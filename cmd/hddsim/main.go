// hddsim: inspect and exercise the rotating-disk timing model from the
// command line. The library itself only returns structured data; all
// reporting lives here.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/behrlich/go-hddsim"
	"github.com/behrlich/go-hddsim/internal/logging"
)

var (
	flagSurfaces     uint32
	flagTracks       uint32
	flagSectorsInner uint32
	flagSectorsOuter uint32
	flagRPM          uint32
	flagSectorSize   uint32
	flagSeekOverhead float64
	flagSeekPerTrack float64
	flagVerbose      bool
)

func newDevice() (*hddsim.Device, error) {
	cfg := logging.DefaultConfig()
	if flagVerbose {
		cfg.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(cfg)
	logging.SetDefault(logger)

	params := hddsim.DeviceParams{
		Surfaces:         flagSurfaces,
		TracksPerSurface: flagTracks,
		SectorsInnermost: flagSectorsInner,
		SectorsOutermost: flagSectorsOuter,
		SectorSize:       flagSectorSize,
		RPM:              flagRPM,
		SeekOverhead:     flagSeekOverhead,
		SeekPerTrack:     flagSeekPerTrack,
	}
	return hddsim.New(params, &hddsim.Options{Logger: logger})
}

func main() {
	root := &cobra.Command{
		Use:           "hddsim",
		Short:         "Rotating-disk timing model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.Uint32Var(&flagSurfaces, "surfaces", hddsim.DefaultSurfaces, "number of platter surfaces")
	pf.Uint32Var(&flagTracks, "tracks", hddsim.DefaultTracksPerSurface, "tracks per surface")
	pf.Uint32Var(&flagSectorsInner, "sectors-inner", hddsim.DefaultSectorsInnermost, "sectors on the innermost track")
	pf.Uint32Var(&flagSectorsOuter, "sectors-outer", hddsim.DefaultSectorsOutermost, "sectors on the outermost track")
	pf.Uint32Var(&flagRPM, "rpm", hddsim.DefaultRPM, "spindle speed")
	pf.Uint32Var(&flagSectorSize, "sector-size", hddsim.DefaultSectorSize, "sector size in bytes")
	pf.Float64Var(&flagSeekOverhead, "seek-overhead", hddsim.DefaultSeekOverhead, "fixed seek cost in seconds")
	pf.Float64Var(&flagSeekPerTrack, "seek-per-track", hddsim.DefaultSeekPerTrack, "per-track seek cost in seconds")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	root.AddCommand(describeCmd(), decodeCmd(), runCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hddsim:", err)
		os.Exit(1)
	}
}

func describeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print device geometry and capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := newDevice()
			if err != nil {
				return err
			}

			info := dev.Info()
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			fmt.Printf("HDD:\n")
			fmt.Printf("  surfaces:                %d\n", info.Surfaces)
			fmt.Printf("  tracks/surface:          %d\n", info.TracksPerSurface)
			fmt.Printf("  sect on innermost track: %d\n", info.SectorsInnermost)
			fmt.Printf("  sect on outermost track: %d\n", info.SectorsOutermost)
			fmt.Printf("  rpm:                     %d\n", info.RPM)
			fmt.Printf("  sector size:             %d\n", info.SectorSize)
			fmt.Printf("  number of sectors total: %d\n", info.TotalSectors)
			fmt.Printf("  capacity (bytes):        %d\n", info.CapacityBytes)
			fmt.Printf("  capacity (GB):           %.3f\n", float64(info.CapacityBytes)/1e9)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	return cmd
}

func decodeCmd() *cobra.Command {
	var addrStr string

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a byte address into surface/track/sector",
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := strconv.ParseUint(addrStr, 0, 64)
			if err != nil {
				return fmt.Errorf("invalid address %q: %v", addrStr, err)
			}

			dev, err := newDevice()
			if err != nil {
				return err
			}

			pos, err := dev.Decode(address)
			if err != nil {
				return err
			}

			fmt.Printf("decode(%#x):\n", address)
			fmt.Printf("  block index: %d\n", address/uint64(dev.SectorSize()))
			fmt.Printf("  surface:     %d\n", pos.Surface)
			fmt.Printf("  track:       %d\n", pos.Track)
			fmt.Printf("  sector:      %d\n", pos.Sector)
			return nil
		},
	}

	cmd.Flags().StringVar(&addrStr, "address", "0", "byte address (decimal or 0x hex)")
	return cmd
}

func runCmd() *cobra.Command {
	var (
		requests int
		reqSize  uint64
		pattern  string
		seed     int64
		writes   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive a synthetic workload and report simulated time",
		RunE: func(cmd *cobra.Command, args []string) error {
			if requests <= 0 {
				return fmt.Errorf("requests must be positive")
			}

			dev, err := newDevice()
			if err != nil {
				return err
			}

			sectorSize := uint64(dev.SectorSize())
			if reqSize == 0 {
				reqSize = sectorSize
			}
			capacity := dev.Capacity()
			if reqSize > capacity {
				return fmt.Errorf("request size %d exceeds capacity %d", reqSize, capacity)
			}

			// Addresses stay sector-aligned and leave room for the whole
			// request, so every access decodes and completes.
			span := capacity - reqSize
			alignedSlots := span/sectorSize + 1

			rng := rand.New(rand.NewSource(seed))
			var (
				ts      float64
				address uint64
			)
			for i := 0; i < requests; i++ {
				switch pattern {
				case "seq":
					// wraps to 0 when the next request would run off the end
				case "rand":
					address = uint64(rng.Int63n(int64(alignedSlots))) * sectorSize
				default:
					return fmt.Errorf("unknown pattern %q (want seq or rand)", pattern)
				}

				if writes {
					ts, err = dev.Write(ts, address, reqSize)
				} else {
					ts, err = dev.Read(ts, address, reqSize)
				}
				if err != nil {
					return err
				}

				if pattern == "seq" {
					address += reqSize
					if address+reqSize > capacity {
						address = 0
					}
				}
			}

			snap := dev.MetricsSnapshot()
			fmt.Printf("workload: %d x %d B (%s)\n", requests, reqSize, pattern)
			fmt.Printf("  simulated time:       %.6f s\n", ts)
			fmt.Printf("  seek time:            %.6f s\n", float64(snap.SeekSimNs)/1e9)
			fmt.Printf("  rotational latency:   %.6f s\n", float64(snap.WaitSimNs)/1e9)
			fmt.Printf("  transfer time:        %.6f s\n", float64(snap.TransferSimNs)/1e9)
			fmt.Printf("  avg latency:          %.3f ms\n", float64(snap.AvgLatencyNs)/1e6)
			fmt.Printf("  p50/p99 latency:      %.3f / %.3f ms\n",
				float64(snap.LatencyP50Ns)/1e6, float64(snap.LatencyP99Ns)/1e6)
			fmt.Printf("  seeks:                %d (avg %.1f tracks, max %d)\n",
				snap.SeekCount, snap.AvgSeekTracks, snap.MaxSeekTracks)
			fmt.Printf("  track crossings:      %d\n", snap.TrackCrossings)
			fmt.Printf("  throughput:           %.1f IOPS, %.1f MB/s (simulated)\n",
				snap.ReadIOPS+snap.WriteIOPS,
				(snap.ReadBandwidth+snap.WriteBandwidth)/1e6)
			fmt.Printf("  final head track:     %d\n", dev.HeadTrack())
			return nil
		},
	}

	cmd.Flags().IntVarP(&requests, "requests", "n", 1000, "number of requests")
	cmd.Flags().Uint64Var(&reqSize, "size", 0, "request size in bytes (default one sector)")
	cmd.Flags().StringVar(&pattern, "pattern", "seq", "access pattern: seq or rand")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the rand pattern")
	cmd.Flags().BoolVar(&writes, "writes", false, "issue writes instead of reads")
	return cmd
}
