package geom

import (
	"errors"
	"testing"
)

// tiny reference geometry: sectorsDiff = 4, tracks hold 4 and 8 sectors,
// 12 sectors total, 6144 bytes
func tinyGeometry() Geometry {
	return Geometry{
		Surfaces:         1,
		TracksPerSurface: 2,
		SectorsInnermost: 4,
		SectorsOutermost: 8,
		SectorSize:       512,
		RPM:              7200,
		SeekOverhead:     1.0,
		SeekPerTrack:     0.1,
	}
}

func mustNew(t *testing.T, g Geometry) *Geometry {
	t.Helper()
	geo, err := New(g)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return geo
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Geometry)
		want   error
	}{
		{"no surfaces", func(g *Geometry) { g.Surfaces = 0 }, ErrInvalidGeometry},
		{"single track", func(g *Geometry) { g.TracksPerSurface = 1 }, ErrInvalidGeometry},
		{"outer equals inner", func(g *Geometry) { g.SectorsOutermost = g.SectorsInnermost }, ErrInvalidGeometry},
		{"outer below inner", func(g *Geometry) { g.SectorsOutermost = g.SectorsInnermost - 1 }, ErrInvalidGeometry},
		{"zero sector size", func(g *Geometry) { g.SectorSize = 0 }, ErrInvalidGeometry},
		{"zero rpm", func(g *Geometry) { g.RPM = 0 }, ErrInvalidGeometry},
		{"negative seek overhead", func(g *Geometry) { g.SeekOverhead = -1 }, ErrInvalidGeometry},
		{"negative seek per track", func(g *Geometry) { g.SeekPerTrack = -0.1 }, ErrInvalidGeometry},
		{"zero-sector innermost track", func(g *Geometry) {
			g.SectorsInnermost = 0
			g.SectorsOutermost = 8
		}, ErrDegenerateGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tinyGeometry()
			tt.mutate(&g)
			geo, err := New(g)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
			if geo != nil {
				t.Error("New() returned a geometry despite validation failure")
			}
		})
	}
}

func TestSectorsOfTrackInterpolation(t *testing.T) {
	geo := mustNew(t, tinyGeometry())

	if diff := geo.SectorsDiff(); diff != 4.0 {
		t.Errorf("SectorsDiff() = %v, want 4", diff)
	}
	if got := geo.SectorsOfTrack(0); got != 4 {
		t.Errorf("SectorsOfTrack(0) = %d, want 4", got)
	}
	if got := geo.SectorsOfTrack(1); got != 8 {
		t.Errorf("SectorsOfTrack(1) = %d, want 8", got)
	}
}

func TestSectorsOfTrackMonotonic(t *testing.T) {
	g := tinyGeometry()
	g.TracksPerSurface = 1024
	g.SectorsInnermost = 500
	g.SectorsOutermost = 1000
	geo := mustNew(t, g)

	if got := geo.SectorsOfTrack(0); got != 500 {
		t.Errorf("SectorsOfTrack(0) = %d, want 500", got)
	}

	// Floor rounding may land the last track one sector short
	last := geo.SectorsOfTrack(g.TracksPerSurface - 1)
	if last != 1000 && last != 999 {
		t.Errorf("SectorsOfTrack(last) = %d, want 1000 (up to floor rounding)", last)
	}

	prev := geo.SectorsOfTrack(0)
	for track := uint32(1); track < g.TracksPerSurface; track++ {
		cur := geo.SectorsOfTrack(track)
		if cur < prev {
			t.Fatalf("SectorsOfTrack(%d) = %d < SectorsOfTrack(%d) = %d", track, cur, track-1, prev)
		}
		prev = cur
	}
}

func TestCapacity(t *testing.T) {
	geo := mustNew(t, tinyGeometry())

	if got := geo.TotalSectors(); got != 12 {
		t.Errorf("TotalSectors() = %d, want 12", got)
	}
	if got := geo.Capacity(); got != 6144 {
		t.Errorf("Capacity() = %d, want 6144", got)
	}
}

func TestCapacityCountsSurfaces(t *testing.T) {
	g := tinyGeometry()
	g.Surfaces = 2
	geo := mustNew(t, g)

	if got := geo.TotalSectors(); got != 24 {
		t.Errorf("TotalSectors() = %d, want 24", got)
	}
}

func TestDecode(t *testing.T) {
	geo := mustNew(t, tinyGeometry())

	tests := []struct {
		name    string
		address uint64
		want    Position
	}{
		{"address zero", 0, Position{Surface: 0, Track: 0, Sector: 0}},
		{"second sector", 512, Position{Surface: 0, Track: 0, Sector: 1}},
		{"last sector of track 0", 3 * 512, Position{Surface: 0, Track: 0, Sector: 3}},
		{"first sector of track 1", 4 * 512, Position{Surface: 0, Track: 1, Sector: 0}},
		{"last sector of device", 11 * 512, Position{Surface: 0, Track: 1, Sector: 7}},
		{"mid-sector address", 512 + 100, Position{Surface: 0, Track: 0, Sector: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := geo.Decode(tt.address)
			if err != nil {
				t.Fatalf("Decode(%d) failed: %v", tt.address, err)
			}
			if got != tt.want {
				t.Errorf("Decode(%d) = %+v, want %+v", tt.address, got, tt.want)
			}
		})
	}
}

func TestDecodeBounds(t *testing.T) {
	geo := mustNew(t, tinyGeometry())

	if _, err := geo.Decode(geo.Capacity()); !errors.Is(err, ErrAddressOutOfRange) {
		t.Errorf("Decode(capacity) error = %v, want ErrAddressOutOfRange", err)
	}
	if _, err := geo.Decode(geo.Capacity() - 1); err != nil {
		t.Errorf("Decode(capacity-1) failed: %v", err)
	}
}

func TestDecodeIdempotent(t *testing.T) {
	geo := mustNew(t, tinyGeometry())

	first, err := geo.Decode(5 * 512)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	second, err := geo.Decode(5 * 512)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if first != second {
		t.Errorf("Decode not idempotent: %+v then %+v", first, second)
	}
}

func TestDecodeSurfaceMinorLayout(t *testing.T) {
	g := tinyGeometry()
	g.Surfaces = 2
	geo := mustNew(t, g)

	// One angular sector position covers both surfaces before the next
	// sector begins.
	tests := []struct {
		block uint64
		want  Position
	}{
		{0, Position{Surface: 0, Track: 0, Sector: 0}},
		{1, Position{Surface: 1, Track: 0, Sector: 0}},
		{2, Position{Surface: 0, Track: 0, Sector: 1}},
		{3, Position{Surface: 1, Track: 0, Sector: 1}},
		{7, Position{Surface: 1, Track: 0, Sector: 3}},
		{8, Position{Surface: 0, Track: 1, Sector: 0}},
	}

	for _, tt := range tests {
		got, err := geo.Decode(tt.block * 512)
		if err != nil {
			t.Fatalf("Decode(block %d) failed: %v", tt.block, err)
		}
		if got != tt.want {
			t.Errorf("Decode(block %d) = %+v, want %+v", tt.block, got, tt.want)
		}
	}
}

func TestBlocksToTrackEnd(t *testing.T) {
	g := tinyGeometry()
	g.Surfaces = 2
	geo := mustNew(t, g)

	tests := []struct {
		name string
		pos  Position
		want uint64
	}{
		{"track start", Position{Surface: 0, Track: 0, Sector: 0}, 8},
		{"second surface", Position{Surface: 1, Track: 0, Sector: 0}, 7},
		{"last block of track", Position{Surface: 1, Track: 0, Sector: 3}, 1},
		{"outer track start", Position{Surface: 0, Track: 1, Sector: 0}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geo.BlocksToTrackEnd(tt.pos); got != tt.want {
				t.Errorf("BlocksToTrackEnd(%+v) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}
