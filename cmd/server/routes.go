package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Fayaz1306/miniproject-spacetitanic/docs"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/database"
	apperrors "github.com/Fayaz1306/miniproject-spacetitanic/internal/errors"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/frontend"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/monitoring"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/security"
)

func (s *server) setupRouter() (*gin.Engine, error) {
	distFS, err := frontend.GetDistFS()
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to open embedded frontend")
	}
	indexTemplate, err := frontend.LoadIndexTemplate(distFS)
	if err != nil {
		return nil, err
	}
	resultTemplate, err := frontend.LoadResultTemplate()
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// monitoring first so it sees every request
	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger))

	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())

	securityCfg := security.DefaultConfig()
	r.Use(security.SecurityHeadersMiddleware(s.cfg.GinMode == gin.ReleaseMode))
	r.Use(cors.New(s.corsConfig()))
	r.Use(s.compressor.Middleware())
	r.Use(securityCfg.RequestTimeout())
	r.Use(securityCfg.LimitBody())
	r.Use(securityCfg.ValidateContentType())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/metrics/prometheus", gin.WrapH(s.prom.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// reads that a page issues while waiting on a submission or checking
		// its quota; they do not spend the caller's allowance
		api.GET("/ratelimit/status", s.limiter.HandleRateLimitStatus())
		api.GET("/sessions/:id", s.handleGetSession)

		limited := api.Group("", s.limiter.IPRateLimitMiddleware())
		limited.POST("/predict", s.cache.Middleware(s.metrics), s.handlePredict)
		limited.GET("/insights", s.handleInsights)

		limited.POST("/sessions", s.handleCreateSession)
		limited.DELETE("/sessions/:id", s.handleDeleteSession)
		limited.PATCH("/sessions/:id/fields", s.handleSetField)
		limited.PUT("/sessions/:id/form", s.handleReplaceForm)
		limited.POST("/sessions/:id/submit", s.handleSubmit)

		limited.GET("/predictions/recent", s.handleRecentPredictions)
		limited.GET("/predictions/stats", s.handlePredictionStats)
	}

	// the page routes carry a CSP nonce; swagger UI needs inline scripts so it stays outside
	csp := security.CSPMiddleware("")
	r.POST("/predict", csp, frontend.NewFormHandler(resultTemplate, s.cfg.SubmitDelay, s.recordFormPrediction))
	r.NoRoute(rejectNonPageRoutes, csp, frontend.NewSPAHandler(distFS, indexTemplate))

	return r, nil
}

func (s *server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Cache", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.cfg.AllowedOrigins
	}
	return cfg
}

func (s *server) recordFormPrediction(c *gin.Context, form prediction.PassengerRecord, result prediction.PredictionResult) {
	s.recordPrediction(c.Request.Context(), database.SourceForm, "", form, result, s.cfg.SubmitDelay)
}

// rejectNonPageRoutes keeps unknown API paths and non-GET methods out of the SPA fallback
func rejectNonPageRoutes(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		apperrors.Respond(c, apperrors.NewNotFoundError("route", nil))
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		apperrors.Respond(c, apperrors.NewNotFoundError("route", nil))
		return
	}
	c.Next()
}
