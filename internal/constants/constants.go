package constants

// Default geometry constants
const (
	// DefaultSurfaces is the default number of platter surfaces
	DefaultSurfaces = 4

	// DefaultTracksPerSurface is the default track count per surface
	DefaultTracksPerSurface = 1024

	// DefaultSectorsInnermost is the default sector count on track 0
	DefaultSectorsInnermost = 500

	// DefaultSectorsOutermost is the default sector count on the last track
	DefaultSectorsOutermost = 1000

	// DefaultRPM is the default spindle speed in revolutions per minute
	DefaultRPM = 7200

	// DefaultSectorSize is the default sector size in bytes
	DefaultSectorSize = 512
)

// Default seek-model constants (seconds)
const (
	// DefaultSeekOverhead is the fixed settling cost charged per seek
	DefaultSeekOverhead = 0.002

	// DefaultSeekPerTrack is the per-track component of a seek
	DefaultSeekPerTrack = 0.00001
)
