// Package metrics tracks queue engine operation counters.
//
// The collector keeps its counts in atomics so recording is cheap enough
// for the hot path, and additionally implements prometheus.Collector so a
// host can expose the counters by registering it:
//
//	collector := metrics.NewCollector("dataqueue")
//	prometheus.MustRegister(collector)
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector tracks engine-wide operation metrics.
type Collector struct {
	enqueueTotal  atomic.Uint64
	dequeueTotal  atomic.Uint64
	getEntryTotal atomic.Uint64
	seekTotal     atomic.Uint64

	enqueueBytes  atomic.Uint64
	dequeueBytes  atomic.Uint64
	getEntryBytes atomic.Uint64

	enqueueErrors atomic.Uint64
	dequeueErrors atomic.Uint64

	evictions     atomic.Uint64
	lockConflicts atomic.Uint64

	descEnqueueTotal  *prometheus.Desc
	descDequeueTotal  *prometheus.Desc
	descGetEntryTotal *prometheus.Desc
	descSeekTotal     *prometheus.Desc
	descEnqueueBytes  *prometheus.Desc
	descDequeueBytes  *prometheus.Desc
	descGetEntryBytes *prometheus.Desc
	descEnqueueErrors *prometheus.Desc
	descDequeueErrors *prometheus.Desc
	descEvictions     *prometheus.Desc
	descLockConflicts *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector whose Prometheus metrics are exported
// under the given namespace.
func NewCollector(namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}
	return &Collector{
		descEnqueueTotal:  desc("enqueue_total", "Total number of successful enqueue operations."),
		descDequeueTotal:  desc("dequeue_total", "Total number of successful dequeue operations."),
		descGetEntryTotal: desc("get_entry_total", "Total number of successful get-entry operations."),
		descSeekTotal:     desc("seek_total", "Total number of successful seek operations."),
		descEnqueueBytes:  desc("enqueue_bytes_total", "Total payload bytes enqueued."),
		descDequeueBytes:  desc("dequeue_bytes_total", "Total payload bytes dequeued."),
		descGetEntryBytes: desc("get_entry_bytes_total", "Total payload bytes read by get-entry."),
		descEnqueueErrors: desc("enqueue_errors_total", "Total number of failed enqueue operations."),
		descDequeueErrors: desc("dequeue_errors_total", "Total number of failed dequeue operations."),
		descEvictions:     desc("evictions_total", "Total number of entries evicted by enqueue overflow."),
		descLockConflicts: desc("lock_conflicts_total", "Total number of opens rejected because of a held lock."),
	}
}

// RecordEnqueue records a successful enqueue of payloadSize bytes.
func (c *Collector) RecordEnqueue(payloadSize int) {
	c.enqueueTotal.Add(1)
	c.enqueueBytes.Add(uint64(payloadSize))
}

// RecordDequeue records a successful dequeue of payloadSize bytes.
func (c *Collector) RecordDequeue(payloadSize int) {
	c.dequeueTotal.Add(1)
	c.dequeueBytes.Add(uint64(payloadSize))
}

// RecordGetEntry records a successful get-entry of payloadSize bytes.
func (c *Collector) RecordGetEntry(payloadSize int) {
	c.getEntryTotal.Add(1)
	c.getEntryBytes.Add(uint64(payloadSize))
}

// RecordSeek records a successful seek.
func (c *Collector) RecordSeek() {
	c.seekTotal.Add(1)
}

// RecordEnqueueError records a failed enqueue.
func (c *Collector) RecordEnqueueError() {
	c.enqueueErrors.Add(1)
}

// RecordDequeueError records a failed dequeue.
func (c *Collector) RecordDequeueError() {
	c.dequeueErrors.Add(1)
}

// RecordEviction records an overflow eviction.
func (c *Collector) RecordEviction() {
	c.evictions.Add(1)
}

// RecordLockConflict records an open rejected because of a held lock.
func (c *Collector) RecordLockConflict() {
	c.lockConflicts.Add(1)
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	EnqueueTotal  uint64
	DequeueTotal  uint64
	GetEntryTotal uint64
	SeekTotal     uint64
	EnqueueBytes  uint64
	DequeueBytes  uint64
	GetEntryBytes uint64
	EnqueueErrors uint64
	DequeueErrors uint64
	Evictions     uint64
	LockConflicts uint64
}

// Stats returns a snapshot of the counters.
func (c *Collector) Stats() Snapshot {
	return Snapshot{
		EnqueueTotal:  c.enqueueTotal.Load(),
		DequeueTotal:  c.dequeueTotal.Load(),
		GetEntryTotal: c.getEntryTotal.Load(),
		SeekTotal:     c.seekTotal.Load(),
		EnqueueBytes:  c.enqueueBytes.Load(),
		DequeueBytes:  c.dequeueBytes.Load(),
		GetEntryBytes: c.getEntryBytes.Load(),
		EnqueueErrors: c.enqueueErrors.Load(),
		DequeueErrors: c.dequeueErrors.Load(),
		Evictions:     c.evictions.Load(),
		LockConflicts: c.lockConflicts.Load(),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.descEnqueueTotal
	ch <- c.descDequeueTotal
	ch <- c.descGetEntryTotal
	ch <- c.descSeekTotal
	ch <- c.descEnqueueBytes
	ch <- c.descDequeueBytes
	ch <- c.descGetEntryBytes
	ch <- c.descEnqueueErrors
	ch <- c.descDequeueErrors
	ch <- c.descEvictions
	ch <- c.descLockConflicts
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counter := func(desc *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v))
	}
	counter(c.descEnqueueTotal, c.enqueueTotal.Load())
	counter(c.descDequeueTotal, c.dequeueTotal.Load())
	counter(c.descGetEntryTotal, c.getEntryTotal.Load())
	counter(c.descSeekTotal, c.seekTotal.Load())
	counter(c.descEnqueueBytes, c.enqueueBytes.Load())
	counter(c.descDequeueBytes, c.dequeueBytes.Load())
	counter(c.descGetEntryBytes, c.getEntryBytes.Load())
	counter(c.descEnqueueErrors, c.enqueueErrors.Load())
	counter(c.descDequeueErrors, c.dequeueErrors.Load())
	counter(c.descEvictions, c.evictions.Load())
	counter(c.descLockConflicts, c.lockConflicts.Load())
}
