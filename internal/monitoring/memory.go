package monitoring

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// MemoryStats is one runtime sample
type MemoryStats struct {
	HeapAlloc    uint64    `json:"heap_alloc_bytes"`
	HeapSys      uint64    `json:"heap_sys_bytes"`
	HeapObjects  uint64    `json:"heap_objects"`
	NumGC        uint32    `json:"num_gc"`
	PauseTotalNs uint64    `json:"gc_pause_total_ns"`
	NumGoroutine int       `json:"num_goroutine"`
	Timestamp    time.Time `json:"timestamp"`
}

// MemoryMonitor samples runtime memory stats into Metrics on an interval
type MemoryMonitor struct {
	interval time.Duration
	metrics  *Metrics
	logger   *Logger

	mu     sync.RWMutex
	latest MemoryStats
}

// NewMemoryMonitor creates a monitor; call Run to start sampling
func NewMemoryMonitor(interval time.Duration, metrics *Metrics, logger *Logger) *MemoryMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &MemoryMonitor{
		interval: interval,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run samples until ctx is done
func (mm *MemoryMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(mm.interval)
	defer ticker.Stop()

	mm.Collect()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := mm.Collect()
			mm.logger.Debug("Memory sample",
				"heap_alloc_mb", stats.HeapAlloc/(1024*1024),
				"num_gc", stats.NumGC,
				"goroutines", stats.NumGoroutine,
			)
		}
	}
}

// Collect takes a sample now and publishes it
func (mm *MemoryMonitor) Collect() MemoryStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	stats := MemoryStats{
		HeapAlloc:    ms.HeapAlloc,
		HeapSys:      ms.HeapSys,
		HeapObjects:  ms.HeapObjects,
		NumGC:        ms.NumGC,
		PauseTotalNs: ms.PauseTotalNs,
		NumGoroutine: runtime.NumGoroutine(),
		Timestamp:    time.Now(),
	}

	mm.mu.Lock()
	mm.latest = stats
	mm.mu.Unlock()

	if mm.metrics != nil {
		mm.metrics.RecordGCMetrics(int64(ms.NumGC), int64(ms.PauseTotalNs), int64(ms.HeapAlloc), int64(ms.HeapSys))
	}
	return stats
}

// Latest returns the most recent sample
func (mm *MemoryMonitor) Latest() MemoryStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latest
}
