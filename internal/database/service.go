package database

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/resilience"
)

const (
	// DefaultRecentLimit is used when a caller asks for no specific count
	DefaultRecentLimit = 20
	// MaxRecentLimit caps a single history page
	MaxRecentLimit = 100
)

// FailureCounter is notified when a history write fails
type FailureCounter interface {
	IncrementHistoryWriteError()
}

// HistoryService records predictions without failing the caller
type HistoryService struct {
	repo     *Repository
	failures FailureCounter
	timeout  time.Duration
	retry    resilience.RetryConfig
	breaker  *resilience.CircuitBreaker
}

// NewHistoryService creates a history service. failures may be nil.
func NewHistoryService(repo *Repository, failures FailureCounter) *HistoryService {
	return &HistoryService{
		repo:     repo,
		failures: failures,
		timeout:  2 * time.Second,
		retry:    writeRetryConfig(),
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: 5,
			RecoveryTimeout:  30 * time.Second,
		}),
	}
}

func writeRetryConfig() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.Retryable = isTransient
	return cfg
}

// isTransient reports lock contention that a later attempt can get past
func isTransient(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// Record stores a prediction. Storage errors are logged and counted, never
// returned, so scoring stays total.
func (s *HistoryService) Record(ctx context.Context, source, sessionID string, form prediction.PassengerRecord, result prediction.PredictionResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	rec := NewPredictionRecord(source, sessionID, form, result)
	err := s.breaker.Call(func() error {
		return resilience.RetryWithConfig(ctx, s.retry, func() error {
			return s.repo.SavePrediction(ctx, rec)
		})
	})
	if err == nil {
		return
	}

	if errors.Is(err, resilience.ErrCircuitOpen) {
		slog.Debug("History writes paused", "source", source)
	} else {
		slog.Warn("Failed to record prediction", "source", source, "error", err)
	}
	if s.failures != nil {
		s.failures.IncrementHistoryWriteError()
	}
}

// WriterStats reports the state of the write circuit breaker
func (s *HistoryService) WriterStats() map[string]interface{} {
	return s.breaker.GetStats()
}

// Recent returns up to limit records, clamped to [1, MaxRecentLimit]
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.repo.RecentPredictions(ctx, limit)
}

// Stats returns aggregate history statistics
func (s *HistoryService) Stats(ctx context.Context) (*HistoryStats, error) {
	return s.repo.Stats(ctx)
}
