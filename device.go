// Package hddsim provides a timing and geometry model of rotating-disk
// storage devices for discrete-event storage simulators.
package hddsim

import (
	"github.com/behrlich/go-hddsim/internal/constants"
	"github.com/behrlich/go-hddsim/internal/geom"
	"github.com/behrlich/go-hddsim/internal/logging"
	"github.com/behrlich/go-hddsim/internal/timing"
)

// Position is a physical location on the disk (surface, track, sector).
type Position = geom.Position

// Device models one rotating-disk storage device. It answers one request at
// a time, synchronously: Read and Write decode the target address, price the
// access (seek, rotational wait, transfer) relative to the current head
// position and return the completion timestamp.
//
// The head track is the device's only mutable state and is updated by every
// completed transfer. A Device must not be driven by more than one logical
// caller at a time; if a multi-threaded simulator dispatches to the same
// device, serialization is the driver's responsibility. Timestamps supplied
// by the caller must be non-decreasing per device.
type Device struct {
	geo   *geom.Geometry
	model *timing.Model

	// Metrics and observability
	metrics  *Metrics
	observer Observer
	logger   *logging.Logger
}

// DeviceParams contains the geometry and seek-model parameters for a device
type DeviceParams struct {
	// Platter shape
	Surfaces         uint32 // Number of platter surfaces
	TracksPerSurface uint32 // Tracks per surface (minimum 2)
	SectorsInnermost uint32 // Sector count on track 0
	SectorsOutermost uint32 // Sector count on the last track (must exceed innermost)
	SectorSize       uint32 // Sector size in bytes

	// Mechanics
	RPM          uint32  // Spindle speed in revolutions per minute
	SeekOverhead float64 // Fixed settling cost per seek, seconds
	SeekPerTrack float64 // Per-track seek cost, seconds
}

// DefaultParams returns default device parameters
func DefaultParams() DeviceParams {
	return DeviceParams{
		Surfaces:         constants.DefaultSurfaces,
		TracksPerSurface: constants.DefaultTracksPerSurface,
		SectorsInnermost: constants.DefaultSectorsInnermost,
		SectorsOutermost: constants.DefaultSectorsOutermost,
		SectorSize:       constants.DefaultSectorSize,
		RPM:              constants.DefaultRPM,
		SeekOverhead:     constants.DefaultSeekOverhead,
		SeekPerTrack:     constants.DefaultSeekPerTrack,
	}
}

// Options contains additional options for device creation
type Options struct {
	// Logger for debug/info messages (if nil, uses the package default)
	Logger *logging.Logger

	// Observer for metrics collection (if nil, records to the device's
	// built-in Metrics)
	Observer Observer
}

// New creates a device from the given parameters. Invalid geometry (outer
// sectors not exceeding inner, fewer than 2 tracks, zero RPM or sector
// size, a track that would interpolate to zero sectors) fails construction;
// no device is produced.
//
// Example:
//
//	params := hddsim.DefaultParams()
//	params.RPM = 10000
//	dev, err := hddsim.New(params, nil)
func New(params DeviceParams, options *Options) (*Device, error) {
	if options == nil {
		options = &Options{}
	}

	geo, err := geom.New(geom.Geometry{
		Surfaces:         params.Surfaces,
		TracksPerSurface: params.TracksPerSurface,
		SectorsInnermost: params.SectorsInnermost,
		SectorsOutermost: params.SectorsOutermost,
		SectorSize:       params.SectorSize,
		RPM:              params.RPM,
		SeekOverhead:     params.SeekOverhead,
		SeekPerTrack:     params.SeekPerTrack,
	})
	if err != nil {
		return nil, WrapError("CREATE_DEV", err)
	}

	metrics := NewMetrics()
	var observer Observer = NewMetricsObserver(metrics)
	if options.Observer != nil {
		observer = options.Observer
	}

	logger := options.Logger
	if logger == nil {
		logger = logging.Default()
	}

	device := &Device{
		geo:      geo,
		model:    timing.New(geo),
		metrics:  metrics,
		observer: observer,
		logger:   logger,
	}

	logger.Debug("device created",
		"surfaces", params.Surfaces,
		"tracks_per_surface", params.TracksPerSurface,
		"total_sectors", geo.TotalSectors(),
		"capacity_bytes", geo.Capacity())

	return device, nil
}

// Read returns the simulated completion timestamp of a read of size bytes
// at the given byte address, issued at ts. On failure ts is returned
// unchanged together with the error.
func (d *Device) Read(ts float64, address, size uint64) (float64, error) {
	return d.access("READ", ts, address, size)
}

// Write returns the simulated completion timestamp of a write. Rotating
// media cannot distinguish read and write timing at this level of
// abstraction, so Write shares Read's access-time model.
func (d *Device) Write(ts float64, address, size uint64) (float64, error) {
	return d.access("WRITE", ts, address, size)
}

// access is the shared read/write path: decode, bound the transfer, price
// it, and move the head.
func (d *Device) access(op string, ts float64, address, size uint64) (float64, error) {
	// A partial trailing sector still passes fully under the head, so the
	// byte size rounds up to whole sectors. The carry is added separately
	// so sizes near the uint64 limit cannot wrap to zero sectors.
	sectorSize := uint64(d.geo.SectorSize)
	sectors := size / sectorSize
	if size%sectorSize != 0 {
		sectors++
	}

	target, err := d.geo.Decode(address)
	if err != nil {
		d.observeOp(op, 0, 0, false)
		werr := WrapError(op, err)
		werr.Address = address
		return ts, werr
	}

	if sectors > d.geo.TotalSectors()-d.geo.BlockIndex(address) {
		d.observeOp(op, 0, 0, false)
		return ts, NewAddressError(op, address, ErrCodeAddressOutOfRange,
			"transfer runs past the end of the device")
	}

	startTrack := d.model.HeadTrack()
	seek := d.model.SeekTime(startTrack, target.Track)
	wait := d.model.WaitTime()
	transfer := d.model.TransferTime(target, sectors)
	elapsed := seek + wait + transfer

	d.observeAccess(startTrack, target.Track, seek, wait, transfer)
	d.observeOp(op, sectors*sectorSize, simNanos(elapsed), true)

	d.logger.Debug("access complete",
		"op", op,
		"ts", ts,
		"address", address,
		"sectors", sectors,
		"elapsed", elapsed,
		"head_track", d.model.HeadTrack())

	return ts + elapsed, nil
}

func (d *Device) observeOp(op string, bytes, simNs uint64, success bool) {
	if op == "WRITE" {
		d.observer.ObserveWrite(bytes, simNs, success)
		return
	}
	d.observer.ObserveRead(bytes, simNs, success)
}

func (d *Device) observeAccess(startTrack, targetTrack uint32, seek, wait, transfer float64) {
	distance := targetTrack - startTrack
	if startTrack > targetTrack {
		distance = startTrack - targetTrack
	}
	d.observer.ObserveSeek(distance, simNanos(seek))
	d.observer.ObserveWait(simNanos(wait))
	d.observer.ObserveTransfer(simNanos(transfer))

	// Sequential transfers only move the head outward, so boundary
	// crossings fall out of the final head track.
	if crossed := d.model.HeadTrack() - targetTrack; crossed > 0 {
		d.observer.ObserveTrackCrossings(crossed)
	}
}

// simNanos converts simulated seconds to integer nanoseconds for metrics
func simNanos(seconds float64) uint64 {
	return uint64(seconds * 1e9)
}

// Decode translates a byte address into its physical position. It is
// exposed for introspection and testing; decoding has no effect on the
// head position.
func (d *Device) Decode(address uint64) (Position, error) {
	pos, err := d.geo.Decode(address)
	if err != nil {
		werr := WrapError("DECODE", err)
		werr.Address = address
		return Position{}, werr
	}
	return pos, nil
}

// Capacity returns the exact device capacity in bytes.
func (d *Device) Capacity() uint64 { return d.geo.Capacity() }

// TotalSectors returns the sector count over all tracks and surfaces.
func (d *Device) TotalSectors() uint64 { return d.geo.TotalSectors() }

// SectorSize returns the sector size in bytes.
func (d *Device) SectorSize() uint32 { return d.geo.SectorSize }

// Surfaces returns the number of platter surfaces.
func (d *Device) Surfaces() uint32 { return d.geo.Surfaces }

// TracksPerSurface returns the track count per surface.
func (d *Device) TracksPerSurface() uint32 { return d.geo.TracksPerSurface }

// RPM returns the spindle speed in revolutions per minute.
func (d *Device) RPM() uint32 { return d.geo.RPM }

// SectorsOfTrack returns the sector count of one track on one surface.
func (d *Device) SectorsOfTrack(track uint32) uint32 { return d.geo.SectorsOfTrack(track) }

// HeadTrack returns the track the head currently rests on.
func (d *Device) HeadTrack() uint32 { return d.model.HeadTrack() }

// DeviceInfo contains structured information about a device, suitable for
// an external reporting collaborator. The core itself never formats output.
type DeviceInfo struct {
	Surfaces         uint32  `json:"surfaces"`
	TracksPerSurface uint32  `json:"tracks_per_surface"`
	SectorsInnermost uint32  `json:"sectors_innermost"`
	SectorsOutermost uint32  `json:"sectors_outermost"`
	SectorSize       uint32  `json:"sector_size"`
	RPM              uint32  `json:"rpm"`
	SeekOverhead     float64 `json:"seek_overhead"`
	SeekPerTrack     float64 `json:"seek_per_track"`
	TotalSectors     uint64  `json:"total_sectors"`
	CapacityBytes    uint64  `json:"capacity_bytes"`
	HeadTrack        uint32  `json:"head_track"`
}

// Info returns comprehensive information about the device
func (d *Device) Info() DeviceInfo {
	if d == nil {
		return DeviceInfo{}
	}

	return DeviceInfo{
		Surfaces:         d.geo.Surfaces,
		TracksPerSurface: d.geo.TracksPerSurface,
		SectorsInnermost: d.geo.SectorsInnermost,
		SectorsOutermost: d.geo.SectorsOutermost,
		SectorSize:       d.geo.SectorSize,
		RPM:              d.geo.RPM,
		SeekOverhead:     d.geo.SeekOverhead,
		SeekPerTrack:     d.geo.SeekPerTrack,
		TotalSectors:     d.geo.TotalSectors(),
		CapacityBytes:    d.geo.Capacity(),
		HeadTrack:        d.model.HeadTrack(),
	}
}

// Metrics returns the device's built-in metrics
func (d *Device) Metrics() *Metrics {
	if d == nil {
		return nil
	}
	return d.metrics
}

// MetricsSnapshot returns a point-in-time snapshot of device metrics
func (d *Device) MetricsSnapshot() MetricsSnapshot {
	if d == nil || d.metrics == nil {
		return MetricsSnapshot{}
	}
	return d.metrics.Snapshot()
}
