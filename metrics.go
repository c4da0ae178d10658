package hddsim

import (
	"math"
	"sync/atomic"
)

// LatencyBuckets defines the simulated-latency histogram buckets in
// nanoseconds. Buckets cover from 100us to 30s with logarithmic spacing;
// rotating media latencies sit in the milliseconds.
var LatencyBuckets = []uint64{
	100_000,        // 100us
	1_000_000,      // 1ms
	3_000_000,      // 3ms
	10_000_000,     // 10ms
	30_000_000,     // 30ms
	100_000_000,    // 100ms
	1_000_000_000,  // 1s
	30_000_000_000, // 30s
}

const numLatencyBuckets = 8

// Metrics tracks operation statistics for a simulated device. All times are
// simulated nanoseconds, not wall-clock time.
type Metrics struct {
	// I/O operation counters
	ReadOps  atomic.Uint64 // Total read operations
	WriteOps atomic.Uint64 // Total write operations

	// Byte counters (whole sectors transferred)
	ReadBytes  atomic.Uint64 // Total bytes read
	WriteBytes atomic.Uint64 // Total bytes written

	// Error counters
	ReadErrors  atomic.Uint64 // Failed read operations
	WriteErrors atomic.Uint64 // Failed write operations

	// Simulated time decomposition
	SeekSimNs     atomic.Uint64 // Cumulative seek time
	WaitSimNs     atomic.Uint64 // Cumulative rotational latency
	TransferSimNs atomic.Uint64 // Cumulative transfer time

	// Head movement statistics
	SeekCount       atomic.Uint64 // Seeks with non-zero distance
	SeekTracksTotal atomic.Uint64 // Cumulative track distance sought
	MaxSeekTracks   atomic.Uint32 // Longest single seek in tracks
	TrackCrossings  atomic.Uint64 // Track boundaries crossed mid-transfer

	// Per-operation latency tracking
	TotalSimNs atomic.Uint64 // Cumulative operation latency
	OpCount    atomic.Uint64 // Successful operations

	// Latency histogram buckets (cumulative counts)
	// Each bucket[i] contains the count of operations with latency <= LatencyBuckets[i]
	LatencyBuckets [numLatencyBuckets]atomic.Uint64
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRead records a read operation
func (m *Metrics) RecordRead(bytes uint64, simNs uint64, success bool) {
	m.ReadOps.Add(1)
	if !success {
		m.ReadErrors.Add(1)
		return
	}
	m.ReadBytes.Add(bytes)
	m.recordLatency(simNs)
}

// RecordWrite records a write operation
func (m *Metrics) RecordWrite(bytes uint64, simNs uint64, success bool) {
	m.WriteOps.Add(1)
	if !success {
		m.WriteErrors.Add(1)
		return
	}
	m.WriteBytes.Add(bytes)
	m.recordLatency(simNs)
}

// RecordSeek records a head seek of the given track distance
func (m *Metrics) RecordSeek(tracks uint32, simNs uint64) {
	m.SeekSimNs.Add(simNs)
	if tracks == 0 {
		return
	}
	m.SeekCount.Add(1)
	m.SeekTracksTotal.Add(uint64(tracks))

	// Update max seek distance atomically
	for {
		current := m.MaxSeekTracks.Load()
		if tracks <= current {
			break
		}
		if m.MaxSeekTracks.CompareAndSwap(current, tracks) {
			break
		}
	}
}

// RecordWait records rotational latency
func (m *Metrics) RecordWait(simNs uint64) {
	m.WaitSimNs.Add(simNs)
}

// RecordTransfer records transfer time
func (m *Metrics) RecordTransfer(simNs uint64) {
	m.TransferSimNs.Add(simNs)
}

// RecordTrackCrossings records track boundaries crossed during one transfer
func (m *Metrics) RecordTrackCrossings(count uint32) {
	m.TrackCrossings.Add(uint64(count))
}

// recordLatency records operation latency and updates the histogram
func (m *Metrics) recordLatency(simNs uint64) {
	m.TotalSimNs.Add(simNs)
	m.OpCount.Add(1)

	// Update histogram buckets (cumulative)
	for i, bucket := range LatencyBuckets {
		if simNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// MetricsSnapshot is a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	// I/O operations
	ReadOps  uint64
	WriteOps uint64

	// Bytes transferred
	ReadBytes  uint64
	WriteBytes uint64

	// Error counts
	ReadErrors  uint64
	WriteErrors uint64

	// Simulated time decomposition
	SeekSimNs     uint64
	WaitSimNs     uint64
	TransferSimNs uint64

	// Head movement
	SeekCount      uint64
	AvgSeekTracks  float64
	MaxSeekTracks  uint32
	TrackCrossings uint64

	// Per-operation latency
	AvgLatencyNs uint64
	TotalSimNs   uint64

	// Latency percentiles (simulated nanoseconds)
	LatencyP50Ns  uint64 // 50th percentile (median)
	LatencyP99Ns  uint64 // 99th percentile
	LatencyP999Ns uint64 // 99.9th percentile

	// Histogram bucket counts (cumulative)
	LatencyHistogram [numLatencyBuckets]uint64

	// Computed statistics over simulated time
	ReadIOPS       float64 // Operations per simulated second
	WriteIOPS      float64
	ReadBandwidth  float64 // Bytes per simulated second
	WriteBandwidth float64
	TotalOps       uint64
	TotalBytes     uint64
	ErrorRate      float64 // Percentage of failed operations
}

// Snapshot creates a point-in-time snapshot of metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		ReadOps:        m.ReadOps.Load(),
		WriteOps:       m.WriteOps.Load(),
		ReadBytes:      m.ReadBytes.Load(),
		WriteBytes:     m.WriteBytes.Load(),
		ReadErrors:     m.ReadErrors.Load(),
		WriteErrors:    m.WriteErrors.Load(),
		SeekSimNs:      m.SeekSimNs.Load(),
		WaitSimNs:      m.WaitSimNs.Load(),
		TransferSimNs:  m.TransferSimNs.Load(),
		SeekCount:      m.SeekCount.Load(),
		MaxSeekTracks:  m.MaxSeekTracks.Load(),
		TrackCrossings: m.TrackCrossings.Load(),
		TotalSimNs:     m.TotalSimNs.Load(),
	}

	snap.TotalOps = snap.ReadOps + snap.WriteOps
	snap.TotalBytes = snap.ReadBytes + snap.WriteBytes

	// Average seek distance
	seekTracksTotal := m.SeekTracksTotal.Load()
	if snap.SeekCount > 0 {
		snap.AvgSeekTracks = float64(seekTracksTotal) / float64(snap.SeekCount)
	}

	// Average latency
	opCount := m.OpCount.Load()
	if opCount > 0 {
		snap.AvgLatencyNs = snap.TotalSimNs / opCount
	}

	// Rates against the total simulated time consumed by the device
	if snap.TotalSimNs > 0 {
		simSeconds := float64(snap.TotalSimNs) / 1e9
		snap.ReadIOPS = float64(snap.ReadOps) / simSeconds
		snap.WriteIOPS = float64(snap.WriteOps) / simSeconds
		snap.ReadBandwidth = float64(snap.ReadBytes) / simSeconds
		snap.WriteBandwidth = float64(snap.WriteBytes) / simSeconds
	}

	// Error rate
	totalErrors := snap.ReadErrors + snap.WriteErrors
	if snap.TotalOps > 0 {
		snap.ErrorRate = float64(totalErrors) / float64(snap.TotalOps) * 100.0
	}

	// Copy histogram bucket counts
	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}

	// Percentiles from the histogram
	if opCount > 0 {
		snap.LatencyP50Ns = m.calculatePercentile(0.50)
		snap.LatencyP99Ns = m.calculatePercentile(0.99)
		snap.LatencyP999Ns = m.calculatePercentile(0.999)
	}

	return snap
}

// calculatePercentile estimates the latency at the given percentile (0.0-1.0)
// using linear interpolation between histogram buckets.
func (m *Metrics) calculatePercentile(percentile float64) uint64 {
	totalOps := m.OpCount.Load()
	if totalOps == 0 {
		return 0
	}

	// Round up so small samples still target a real operation; a target
	// of zero would be satisfied by the empty first bucket.
	targetCount := uint64(math.Ceil(float64(totalOps) * percentile))

	// Find the bucket containing the target percentile
	prevBucket := uint64(0)
	for i, bucket := range LatencyBuckets {
		bucketCount := m.LatencyBuckets[i].Load()
		if bucketCount >= targetCount {
			// Linear interpolation within bucket
			prevCount := uint64(0)
			if i > 0 {
				prevCount = m.LatencyBuckets[i-1].Load()
			}
			if bucketCount == prevCount {
				return bucket
			}
			fraction := float64(targetCount-prevCount) / float64(bucketCount-prevCount)
			return prevBucket + uint64(fraction*float64(bucket-prevBucket))
		}
		prevBucket = bucket
	}

	// Latency exceeds all buckets
	return LatencyBuckets[numLatencyBuckets-1]
}

// Reset resets all metrics counters (useful for testing)
func (m *Metrics) Reset() {
	m.ReadOps.Store(0)
	m.WriteOps.Store(0)
	m.ReadBytes.Store(0)
	m.WriteBytes.Store(0)
	m.ReadErrors.Store(0)
	m.WriteErrors.Store(0)
	m.SeekSimNs.Store(0)
	m.WaitSimNs.Store(0)
	m.TransferSimNs.Store(0)
	m.SeekCount.Store(0)
	m.SeekTracksTotal.Store(0)
	m.MaxSeekTracks.Store(0)
	m.TrackCrossings.Store(0)
	m.TotalSimNs.Store(0)
	m.OpCount.Store(0)
	for i := 0; i < numLatencyBuckets; i++ {
		m.LatencyBuckets[i].Store(0)
	}
}

// Observer allows pluggable metrics collection
type Observer interface {
	// ObserveRead is called for each read operation
	ObserveRead(bytes uint64, simNs uint64, success bool)

	// ObserveWrite is called for each write operation
	ObserveWrite(bytes uint64, simNs uint64, success bool)

	// ObserveSeek is called once per access with the seek distance in tracks
	ObserveSeek(tracks uint32, simNs uint64)

	// ObserveWait is called once per access with the rotational latency
	ObserveWait(simNs uint64)

	// ObserveTransfer is called once per access with the transfer time
	ObserveTransfer(simNs uint64)

	// ObserveTrackCrossings is called when a transfer crosses track boundaries
	ObserveTrackCrossings(count uint32)
}

// NoOpObserver is a no-op implementation of Observer
type NoOpObserver struct{}

func (NoOpObserver) ObserveRead(uint64, uint64, bool)  {}
func (NoOpObserver) ObserveWrite(uint64, uint64, bool) {}
func (NoOpObserver) ObserveSeek(uint32, uint64)        {}
func (NoOpObserver) ObserveWait(uint64)                {}
func (NoOpObserver) ObserveTransfer(uint64)            {}
func (NoOpObserver) ObserveTrackCrossings(uint32)      {}

// MetricsObserver implements Observer using the built-in Metrics
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an observer that records to the given metrics
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveRead(bytes uint64, simNs uint64, success bool) {
	o.metrics.RecordRead(bytes, simNs, success)
}

func (o *MetricsObserver) ObserveWrite(bytes uint64, simNs uint64, success bool) {
	o.metrics.RecordWrite(bytes, simNs, success)
}

func (o *MetricsObserver) ObserveSeek(tracks uint32, simNs uint64) {
	o.metrics.RecordSeek(tracks, simNs)
}

func (o *MetricsObserver) ObserveWait(simNs uint64) {
	o.metrics.RecordWait(simNs)
}

func (o *MetricsObserver) ObserveTransfer(simNs uint64) {
	o.metrics.RecordTransfer(simNs)
}

func (o *MetricsObserver) ObserveTrackCrossings(count uint32) {
	o.metrics.RecordTrackCrossings(count)
}

// Compile-time interface check
var _ Observer = (*MetricsObserver)(nil)
var _ Observer = (*NoOpObserver)(nil)
