// Package geom models the physical shape of a zoned-recording disk and the
// translation from flat byte addresses to physical positions.
package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/negrel/assert"
)

// Sentinel errors for geometry validation and address decoding.
var (
	ErrInvalidGeometry    = errors.New("invalid geometry")
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	ErrAddressOutOfRange  = errors.New("address out of range")
)

// Position is a physical location on the disk.
type Position struct {
	Surface uint32 `json:"surface"`
	Track   uint32 `json:"track"`
	Sector  uint32 `json:"sector"`
}

// Geometry describes the immutable shape of a rotating disk under zoned
// recording: the outer tracks hold more sectors than the inner ones, with
// the per-track sector count interpolated linearly between the innermost
// and outermost track.
//
// All surfaces share one actuator and rotate in lockstep, so a single
// angular sector position yields Surfaces consecutive logical blocks
// (sector-major, surface-minor layout).
type Geometry struct {
	Surfaces         uint32
	TracksPerSurface uint32
	SectorsInnermost uint32
	SectorsOutermost uint32
	SectorSize       uint32
	RPM              uint32
	SeekOverhead     float64 // fixed settling cost per seek, seconds
	SeekPerTrack     float64 // per-track seek cost, seconds

	sectorsDiff   float64 // per-track growth in sector count
	totalSectors  uint64
	capacityBytes uint64
}

// New validates the supplied shape and derives the interpolation slope and
// capacity. The returned Geometry is immutable; a validation failure
// produces no geometry at all.
func New(g Geometry) (*Geometry, error) {
	if g.Surfaces == 0 {
		return nil, fmt.Errorf("%w: device needs at least one surface", ErrInvalidGeometry)
	}
	if g.TracksPerSurface < 2 {
		return nil, fmt.Errorf("%w: need at least 2 tracks per surface, got %d", ErrInvalidGeometry, g.TracksPerSurface)
	}
	if g.SectorsOutermost <= g.SectorsInnermost {
		return nil, fmt.Errorf("%w: outermost track must hold more sectors than innermost (%d <= %d)",
			ErrInvalidGeometry, g.SectorsOutermost, g.SectorsInnermost)
	}
	if g.SectorSize == 0 {
		return nil, fmt.Errorf("%w: sector size must be non-zero", ErrInvalidGeometry)
	}
	if g.RPM == 0 {
		return nil, fmt.Errorf("%w: rpm must be non-zero", ErrInvalidGeometry)
	}
	if g.SeekOverhead < 0 || g.SeekPerTrack < 0 {
		return nil, fmt.Errorf("%w: seek costs must be non-negative", ErrInvalidGeometry)
	}
	if g.SectorsInnermost == 0 {
		// A zero-sector track makes the per-sector transfer time undefined.
		return nil, fmt.Errorf("%w: innermost track has no sectors", ErrDegenerateGeometry)
	}

	g.sectorsDiff = float64(g.SectorsOutermost-g.SectorsInnermost) / float64(g.TracksPerSurface-1)

	var total uint64
	for t := uint32(0); t < g.TracksPerSurface; t++ {
		spt := g.SectorsOfTrack(t)
		if spt == 0 {
			return nil, fmt.Errorf("%w: track %d has no sectors", ErrDegenerateGeometry, t)
		}
		total += uint64(spt) * uint64(g.Surfaces)
	}
	g.totalSectors = total
	g.capacityBytes = total * uint64(g.SectorSize)

	return &g, nil
}

// SectorsOfTrack returns the sector count of one track on one surface.
// The count is non-decreasing in track because sectorsDiff is positive.
func (g *Geometry) SectorsOfTrack(track uint32) uint32 {
	return uint32(math.Floor(float64(g.SectorsInnermost) + g.sectorsDiff*float64(track)))
}

// SectorsDiff returns the linear per-track growth in sector count.
func (g *Geometry) SectorsDiff() float64 { return g.sectorsDiff }

// TotalSectors returns the sector count summed over all tracks and surfaces.
func (g *Geometry) TotalSectors() uint64 { return g.totalSectors }

// Capacity returns the exact device capacity in bytes.
func (g *Geometry) Capacity() uint64 { return g.capacityBytes }

// BlockIndex returns the logical block number containing the byte address.
func (g *Geometry) BlockIndex(address uint64) uint64 {
	return address / uint64(g.SectorSize)
}

// Decode translates a byte address into a physical position. It is a pure
// function of the address; ErrAddressOutOfRange is returned for any address
// at or beyond the capacity. Zero is a valid address.
func (g *Geometry) Decode(address uint64) (Position, error) {
	if address >= g.capacityBytes {
		return Position{}, fmt.Errorf("%w: address %#x, capacity %d bytes", ErrAddressOutOfRange, address, g.capacityBytes)
	}

	block := g.BlockIndex(address)

	// The floor in SectorsOfTrack rules out a closed form, so scan tracks
	// until the cumulative block count covers the target. Track counts are
	// small enough that the linear scan is fine.
	var track uint32
	var first uint64 // first block of the current track
	for {
		n := uint64(g.SectorsOfTrack(track)) * uint64(g.Surfaces)
		if block < first+n {
			break
		}
		first += n
		track++
	}
	assert.Less(track, g.TracksPerSurface, "decode walked past the last track")

	// Within a track blocks are sector-major, surface-minor: one angular
	// position covers all surfaces before the next sector begins.
	rel := block - first
	return Position{
		Surface: uint32(rel % uint64(g.Surfaces)),
		Track:   track,
		Sector:  uint32(rel / uint64(g.Surfaces)),
	}, nil
}

// BlocksToTrackEnd returns how many blocks remain on pos's track counting
// from pos itself, in sector-major, surface-minor order.
func (g *Geometry) BlocksToTrackEnd(pos Position) uint64 {
	spt := uint64(g.SectorsOfTrack(pos.Track))
	assert.Less(uint64(pos.Sector), spt, "sector index beyond track")
	return (spt-uint64(pos.Sector)-1)*uint64(g.Surfaces) + uint64(g.Surfaces) - uint64(pos.Surface)
}
