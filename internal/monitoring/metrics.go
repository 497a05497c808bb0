package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds in-process counters exposed on /metrics
type Metrics struct {
	RequestCount        int64
	ErrorCount          int64
	CacheHits           int64
	CacheMisses         int64
	Predictions         int64
	TransportedCount    int64
	SessionsCreated     int64
	SubmissionsStarted  int64
	SubmissionsRejected int64
	HistoryWriteErrors  int64
	AverageResponseTime int64 // nanoseconds
	StartTime           time.Time

	ResponseTimes      []time.Duration
	ResponseTimesMutex sync.RWMutex

	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex

	GCCount        int64
	GCPauseTotalNs int64
	HeapAlloc      int64
	HeapSys        int64

	RateLimitIPBlocks      int64
	RateLimitRedisErrors   int64
	RateLimitFallbackCount int64

	prom *Prometheus
}

// NewMetrics creates a metrics instance. prom may be nil.
func NewMetrics(prom *Prometheus) *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		ResponseTimes:        make([]time.Duration, 0, 1000),
		RequestCountByStatus: make(map[int]int64),
		prom:                 prom,
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
	if m.prom != nil {
		m.prom.cacheLookups.WithLabelValues("hit").Inc()
	}
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
	if m.prom != nil {
		m.prom.cacheLookups.WithLabelValues("miss").Inc()
	}
}

// RecordPrediction counts a scored passenger by source and outcome
func (m *Metrics) RecordPrediction(source string, transported bool, confidence int) {
	atomic.AddInt64(&m.Predictions, 1)
	if transported {
		atomic.AddInt64(&m.TransportedCount, 1)
	}
	if m.prom != nil {
		m.prom.predictions.WithLabelValues(source, outcomeLabel(transported)).Inc()
		m.prom.confidence.Observe(float64(confidence))
	}
}

// IncrementSessionCreated counts new form sessions
func (m *Metrics) IncrementSessionCreated() {
	atomic.AddInt64(&m.SessionsCreated, 1)
}

// RecordSubmission counts a submission attempt
func (m *Metrics) RecordSubmission(accepted bool) {
	if accepted {
		atomic.AddInt64(&m.SubmissionsStarted, 1)
	} else {
		atomic.AddInt64(&m.SubmissionsRejected, 1)
	}
	if m.prom != nil {
		status := "accepted"
		if !accepted {
			status = "rejected"
		}
		m.prom.submissions.WithLabelValues(status).Inc()
	}
}

// IncrementHistoryWriteError counts failed history inserts
func (m *Metrics) IncrementHistoryWriteError() {
	atomic.AddInt64(&m.HistoryWriteErrors, 1)
}

// SetActiveSessions publishes the current session count
func (m *Metrics) SetActiveSessions(n int) {
	if m.prom != nil {
		m.prom.activeSessions.Set(float64(n))
	}
}

// RecordResponseTime records response time for averaging and percentiles
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	current := atomic.LoadInt64(&m.AverageResponseTime)
	atomic.StoreInt64(&m.AverageResponseTime, (current+duration.Nanoseconds())/2)

	// keep the last 1000 samples
	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = append(m.ResponseTimes, duration)
	if len(m.ResponseTimes) > 1000 {
		m.ResponseTimes = m.ResponseTimes[1:]
	}
	m.ResponseTimesMutex.Unlock()
}

// RecordRequest records one finished request for the route template
func (m *Metrics) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	m.RecordResponseTime(duration)

	m.StatusMutex.Lock()
	m.RequestCountByStatus[statusCode]++
	m.StatusMutex.Unlock()

	if statusCode >= 400 {
		m.IncrementError()
	}

	if m.prom != nil {
		m.prom.requests.WithLabelValues(method, route, statusClass(statusCode)).Inc()
		m.prom.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	}
}

// RecordGCMetrics records Go garbage collector metrics
func (m *Metrics) RecordGCMetrics(gcCount, gcPauseTotalNs, heapAlloc, heapSys int64) {
	atomic.StoreInt64(&m.GCCount, gcCount)
	atomic.StoreInt64(&m.GCPauseTotalNs, gcPauseTotalNs)
	atomic.StoreInt64(&m.HeapAlloc, heapAlloc)
	atomic.StoreInt64(&m.HeapSys, heapSys)
}

// IncrementRateLimitIPBlock increments IP-based rate limit blocks
func (m *Metrics) IncrementRateLimitIPBlock() {
	atomic.AddInt64(&m.RateLimitIPBlocks, 1)
	if m.prom != nil {
		m.prom.rateLimited.Inc()
	}
}

// IncrementRateLimitRedisError increments Redis error count for rate limiting
func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrors, 1)
}

// IncrementRateLimitFallback increments fallback limiter usage
func (m *Metrics) IncrementRateLimitFallback() {
	atomic.AddInt64(&m.RateLimitFallbackCount, 1)
}

// GetPercentileResponseTime calculates percentile response time
func (m *Metrics) GetPercentileResponseTime(percentile float64) time.Duration {
	m.ResponseTimesMutex.RLock()
	defer m.ResponseTimesMutex.RUnlock()

	if len(m.ResponseTimes) == 0 {
		return 0
	}

	times := make([]time.Duration, len(m.ResponseTimes))
	copy(times, m.ResponseTimes)
	sort.Slice(times, func(i, j int) bool {
		return times[i] < times[j]
	})

	index := int(float64(len(times)-1) * percentile / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}
	return times[index]
}

// GetStatusCodeDistribution returns request count by status code
func (m *Metrics) GetStatusCodeDistribution() map[int]int64 {
	m.StatusMutex.RLock()
	defer m.StatusMutex.RUnlock()

	distribution := make(map[int]int64, len(m.RequestCountByStatus))
	for code, count := range m.RequestCountByStatus {
		distribution[code] = count
	}
	return distribution
}

// GetStats returns current metrics statistics
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)
	cacheHits := atomic.LoadInt64(&m.CacheHits)
	cacheMisses := atomic.LoadInt64(&m.CacheMisses)
	predictions := atomic.LoadInt64(&m.Predictions)
	transported := atomic.LoadInt64(&m.TransportedCount)
	heapAlloc := atomic.LoadInt64(&m.HeapAlloc)
	heapSys := atomic.LoadInt64(&m.HeapSys)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	cacheHitRate := float64(0)
	if total := cacheHits + cacheMisses; total > 0 {
		cacheHitRate = float64(cacheHits) / float64(total) * 100
	}

	transportedRate := float64(0)
	if predictions > 0 {
		transportedRate = float64(transported) / float64(predictions) * 100
	}

	heapUsage := float64(0)
	if heapSys > 0 {
		heapUsage = float64(heapAlloc) / float64(heapSys) * 100
	}

	return map[string]interface{}{
		"uptime_seconds":         time.Since(m.StartTime).Seconds(),
		"total_requests":         requests,
		"error_count":            errors,
		"error_rate_percent":     errorRate,
		"cache_hits":             cacheHits,
		"cache_misses":           cacheMisses,
		"cache_hit_rate_percent": cacheHitRate,
		"avg_response_time_ms":   float64(atomic.LoadInt64(&m.AverageResponseTime)) / 1e6,
		"start_time":             m.StartTime.Format(time.RFC3339),

		"p50_response_time_ms":     float64(m.GetPercentileResponseTime(50)) / 1e6,
		"p95_response_time_ms":     float64(m.GetPercentileResponseTime(95)) / 1e6,
		"p99_response_time_ms":     float64(m.GetPercentileResponseTime(99)) / 1e6,
		"status_code_distribution": m.GetStatusCodeDistribution(),

		"predictions_total":         predictions,
		"transported_total":         transported,
		"transported_rate_percent":  transportedRate,
		"sessions_created":          atomic.LoadInt64(&m.SessionsCreated),
		"submissions_started":       atomic.LoadInt64(&m.SubmissionsStarted),
		"submissions_rejected":      atomic.LoadInt64(&m.SubmissionsRejected),
		"history_write_errors":      atomic.LoadInt64(&m.HistoryWriteErrors),
		"rate_limit_ip_blocks":      atomic.LoadInt64(&m.RateLimitIPBlocks),
		"rate_limit_redis_errors":   atomic.LoadInt64(&m.RateLimitRedisErrors),
		"rate_limit_fallback_count": atomic.LoadInt64(&m.RateLimitFallbackCount),

		"go_gc_count":           atomic.LoadInt64(&m.GCCount),
		"go_gc_pause_total_ns":  atomic.LoadInt64(&m.GCPauseTotalNs),
		"go_heap_alloc_bytes":   heapAlloc,
		"go_heap_sys_bytes":     heapSys,
		"go_heap_usage_percent": heapUsage,
	}
}

// Reset clears all counters
func (m *Metrics) Reset() {
	for _, p := range []*int64{
		&m.RequestCount, &m.ErrorCount, &m.CacheHits, &m.CacheMisses,
		&m.Predictions, &m.TransportedCount, &m.SessionsCreated,
		&m.SubmissionsStarted, &m.SubmissionsRejected, &m.HistoryWriteErrors,
		&m.AverageResponseTime, &m.GCCount, &m.GCPauseTotalNs, &m.HeapAlloc,
		&m.HeapSys, &m.RateLimitIPBlocks, &m.RateLimitRedisErrors,
		&m.RateLimitFallbackCount,
	} {
		atomic.StoreInt64(p, 0)
	}

	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = m.ResponseTimes[:0]
	m.ResponseTimesMutex.Unlock()

	m.StatusMutex.Lock()
	m.RequestCountByStatus = make(map[int]int64)
	m.StatusMutex.Unlock()

	m.StartTime = time.Now()
}

func outcomeLabel(transported bool) string {
	if transported {
		return "transported"
	}
	return "not_transported"
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
