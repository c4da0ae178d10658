package hddsim

import "github.com/behrlich/go-hddsim/internal/constants"

// Re-export constants for public API
const (
	DefaultSurfaces         = constants.DefaultSurfaces
	DefaultTracksPerSurface = constants.DefaultTracksPerSurface
	DefaultSectorsInnermost = constants.DefaultSectorsInnermost
	DefaultSectorsOutermost = constants.DefaultSectorsOutermost
	DefaultRPM              = constants.DefaultRPM
	DefaultSectorSize       = constants.DefaultSectorSize
	DefaultSeekOverhead     = constants.DefaultSeekOverhead
	DefaultSeekPerTrack     = constants.DefaultSeekPerTrack
)
