// Package timing computes simulated access times for a rotating disk.
package timing

import (
	"github.com/negrel/assert"

	"github.com/behrlich/go-hddsim/internal/geom"
)

// Model prices disk accesses against a geometry and tracks the head
// position of one device. The head track is the only mutable state and is
// updated as a side effect of each transfer.
//
// A Model is exclusively owned by its device and is not safe for concurrent
// use; callers must serialize access (single-writer contract).
type Model struct {
	geo       *geom.Geometry
	headTrack uint32
}

// New returns a Model with the head resting on track 0.
func New(geo *geom.Geometry) *Model {
	return &Model{geo: geo}
}

// HeadTrack returns the track the head currently rests on.
func (m *Model) HeadTrack() uint32 { return m.headTrack }

// SeekTime returns the cost of moving the head between two tracks: zero if
// they are equal, otherwise a fixed overhead plus a linear distance cost.
// No acceleration curve is modeled. SeekTime is symmetric in its arguments.
func (m *Model) SeekTime(from, to uint32) float64 {
	if from == to {
		return 0
	}
	d := float64(to) - float64(from)
	if d < 0 {
		d = -d
	}
	return d*m.geo.SeekPerTrack + m.geo.SeekOverhead
}

// WaitTime returns the average rotational latency for a random angular
// offset: half a revolution at the configured spindle speed.
func (m *Model) WaitTime() float64 {
	return 30.0 / float64(m.geo.RPM)
}

// TransferTime simulates the sequential consumption of sectors starting at
// start, charging one sector's worth of a revolution per sector at the
// current track's density. When a track is exhausted with sectors left, the
// head steps to the next track (surface and sector reset to 0) and one
// extra track-to-track seek plus rotational wait is charged before the
// transfer continues. The final track reached becomes the new head position.
// That holds for zero sectors too: the transfer is free but the head is
// still left on start's track.
//
// The caller must have bounded the transfer to the device capacity.
func (m *Model) TransferTime(start geom.Position, sectors uint64) float64 {
	pos := start
	var elapsed float64
	for {
		spt := m.geo.SectorsOfTrack(pos.Track)
		assert.Greater(spt, uint32(0), "zero-sector track is rejected at construction")
		sectorTime := 60.0 / float64(m.geo.RPM) / float64(spt)

		run := m.geo.BlocksToTrackEnd(pos)
		if run > sectors {
			run = sectors
		}
		elapsed += float64(run) * sectorTime
		sectors -= run

		if sectors == 0 {
			break
		}

		pos.Surface = 0
		pos.Sector = 0
		pos.Track++
		assert.Less(pos.Track, m.geo.TracksPerSurface, "transfer walked past the last track")
		elapsed += m.SeekTime(pos.Track, pos.Track+1) + m.WaitTime()
	}
	m.headTrack = pos.Track
	return elapsed
}

// Access prices a full request: seek from the current head track to the
// target, the average rotational wait, then the sequential transfer. The
// head ends on the transfer's final track.
func (m *Model) Access(target geom.Position, sectors uint64) float64 {
	elapsed := m.SeekTime(m.headTrack, target.Track) + m.WaitTime()
	return elapsed + m.TransferTime(target, sectors)
}
