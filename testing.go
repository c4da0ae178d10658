package hddsim

import "sync"

// RecordingObserver is an Observer that captures every observation for
// later inspection. It is useful for unit testing simulators built on top
// of a Device without wiring up full metrics.
type RecordingObserver struct {
	mu sync.Mutex

	Reads  []OpObservation
	Writes []OpObservation

	Seeks          []SeekObservation
	WaitNs         []uint64
	TransferNs     []uint64
	TrackCrossings []uint32
}

// OpObservation is one recorded read or write
type OpObservation struct {
	Bytes   uint64
	SimNs   uint64
	Success bool
}

// SeekObservation is one recorded seek
type SeekObservation struct {
	Tracks uint32
	SimNs  uint64
}

// NewRecordingObserver creates an empty recording observer
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

func (r *RecordingObserver) ObserveRead(bytes uint64, simNs uint64, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reads = append(r.Reads, OpObservation{Bytes: bytes, SimNs: simNs, Success: success})
}

func (r *RecordingObserver) ObserveWrite(bytes uint64, simNs uint64, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Writes = append(r.Writes, OpObservation{Bytes: bytes, SimNs: simNs, Success: success})
}

func (r *RecordingObserver) ObserveSeek(tracks uint32, simNs uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Seeks = append(r.Seeks, SeekObservation{Tracks: tracks, SimNs: simNs})
}

func (r *RecordingObserver) ObserveWait(simNs uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.WaitNs = append(r.WaitNs, simNs)
}

func (r *RecordingObserver) ObserveTransfer(simNs uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TransferNs = append(r.TransferNs, simNs)
}

func (r *RecordingObserver) ObserveTrackCrossings(count uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TrackCrossings = append(r.TrackCrossings, count)
}

// Compile-time interface check
var _ Observer = (*RecordingObserver)(nil)
