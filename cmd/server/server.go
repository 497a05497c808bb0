package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/Fayaz1306/miniproject-spacetitanic/internal/cache"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/config"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/database"
	apperrors "github.com/Fayaz1306/miniproject-spacetitanic/internal/errors"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/middleware"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/monitoring"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/ratelimit"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/session"
)

const (
	version       = "1.0.0"
	cacheTTL      = 15 * time.Minute
	memoryCadence = 30 * time.Second
)

// server owns every long-lived component behind the HTTP surface
type server struct {
	cfg *config.Config

	prom    *monitoring.Prometheus
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
	memory  *monitoring.MemoryMonitor

	compressor *middleware.Compressor

	redis   *ratelimit.RedisClient
	limiter *ratelimit.RateLimiter
	cache   *cache.Cache

	db      *database.DB
	history *database.HistoryService // nil when history is disabled

	sessions *session.Store

	cancel context.CancelFunc
}

func newServer(ctx context.Context, cfg *config.Config) (*server, error) {
	ctx, cancel := context.WithCancel(ctx)

	prom := monitoring.NewPrometheus()
	s := &server{
		cfg:     cfg,
		prom:    prom,
		metrics: monitoring.NewMetrics(prom),
		logger:  monitoring.NewLogger(monitoring.ParseLevel(cfg.LogLevel)),
		cancel:  cancel,
	}
	s.compressor = middleware.NewCompressor(middleware.DefaultCompressionConfig())
	s.memory = monitoring.NewMemoryMonitor(memoryCadence, s.metrics, s.logger)
	go s.memory.Run(ctx)

	redisClient, err := ratelimit.NewRedisClient(ctx, ratelimit.NewRedisConfig(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
	if err != nil {
		// rate limiting degrades to in-memory buckets
		slog.Warn("Redis unavailable, continuing without it", "addr", cfg.RedisAddr, "error", err)
	}
	s.redis = redisClient

	limiterCfg := ratelimit.DefaultConfig()
	limiterCfg.IPLimitPerMin = cfg.RateLimitPerMin
	s.limiter = ratelimit.NewRateLimiter(s.redis, limiterCfg, s.metrics)

	s.cache = cache.NewCache(ctx, cacheTTL)

	if cfg.HistoryEnabled {
		db, err := database.NewDB(ctx, cfg.DataDir)
		if err != nil {
			s.Close()
			return nil, apperrors.WrapError(err, "failed to open prediction history")
		}
		s.db = db
		s.history = database.NewHistoryService(database.NewRepository(db), s.metrics)
	}

	sessionCfg := session.DefaultConfig()
	sessionCfg.SubmitDelay = cfg.SubmitDelay
	sessionCfg.TTL = cfg.SessionTTL
	sessionCfg.Observer = s.observeSessionResult
	s.sessions = session.NewStore(sessionCfg)

	return s, nil
}

// observeSessionResult runs after a session submission stores its result
func (s *server) observeSessionResult(sessionID string, form prediction.PassengerRecord, result prediction.PredictionResult) {
	s.recordPrediction(context.Background(), database.SourceSession, sessionID, form, result, 0)
}

func (s *server) recordPrediction(ctx context.Context, source, sessionID string, form prediction.PassengerRecord, result prediction.PredictionResult, took time.Duration) {
	s.metrics.RecordPrediction(source, result.Transported, result.Confidence)
	s.logger.PredictionLogger(source, result.Transported, result.Confidence, took, false)
	if s.history != nil {
		s.history.Record(ctx, source, sessionID, form, result)
	}
}

// Close releases components in reverse order of construction
func (s *server) Close() {
	if s.sessions != nil {
		s.sessions.Close()
	}
	if s.db != nil {
		apperrors.SafeClose(s.db, "database")
	}
	if s.limiter != nil {
		s.limiter.Close()
	}
	if s.redis != nil {
		apperrors.SafeClose(s.redis, "redis")
	}
	s.cancel()
}
