package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Fayaz1306/miniproject-spacetitanic/internal/database"
	apperrors "github.com/Fayaz1306/miniproject-spacetitanic/internal/errors"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/insights"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/session"
)

type predictResponse struct {
	Result    prediction.PredictionResult `json:"result"`
	Summary   prediction.Summary          `json:"summary"`
	Breakdown prediction.Breakdown        `json:"breakdown"`
}

type fieldUpdate struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type historyResponse struct {
	Enabled     bool                        `json:"enabled"`
	Predictions []database.PredictionRecord `json:"predictions"`
}

// handleHealth godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (s *server) handleHealth(c *gin.Context) {
	components := gin.H{
		"sessions": s.sessions.Size(),
		"redis":    s.redis.IsEnabled(),
		"history":  s.history != nil,
	}

	if s.redis.IsEnabled() {
		latency, err := s.redis.Ping(c.Request.Context())
		if err != nil {
			// the limiter falls back to memory, so this only degrades
			components["redis_error"] = err.Error()
		} else {
			components["redis_latency_ms"] = latency.Milliseconds()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"timestamp":  time.Now().Format(time.RFC3339),
		"version":    version,
		"components": components,
	})
}

func (s *server) handleMetrics(c *gin.Context) {
	s.metrics.SetActiveSessions(s.sessions.Size())

	stats := s.metrics.GetStats()
	stats["cache"] = s.cache.Stats()
	stats["sessions"] = s.sessions.Stats()
	stats["rate_limiter"] = s.limiter.GetStats()
	stats["redis_pool"] = s.redis.GetPoolStats()
	stats["memory"] = s.memory.Latest()
	stats["compression"] = s.compressor.GetStats()
	if s.db != nil {
		stats["database_pool"] = s.db.GetPoolStats()
		stats["history_writer"] = s.history.WriterStats()
	}
	c.JSON(http.StatusOK, stats)
}

// handlePredict godoc
// @Summary Score a passenger
// @Tags prediction
// @Accept json
// @Produce json
// @Param passenger body prediction.PassengerRecord true "Passenger record"
// @Success 200 {object} predictResponse
// @Failure 400 {object} apperrors.AppError
// @Router /api/predict [post]
func (s *server) handlePredict(c *gin.Context) {
	start := time.Now()

	form, ok := bindPassenger(c)
	if !ok {
		return
	}

	breakdown := prediction.Score(form)
	result := breakdown.Result()

	s.recordPrediction(c.Request.Context(), database.SourceAPI, "", form, result, time.Since(start))

	c.JSON(http.StatusOK, predictResponse{
		Result:    result,
		Summary:   prediction.Summarize(form),
		Breakdown: breakdown,
	})
}

// handleInsights godoc
// @Summary Model insights
// @Tags insights
// @Produce json
// @Success 200 {object} insights.Report
// @Router /api/insights [get]
func (s *server) handleInsights(c *gin.Context) {
	c.JSON(http.StatusOK, insights.Get())
}

// handleCreateSession godoc
// @Summary Create a form session
// @Tags sessions
// @Produce json
// @Success 201 {object} session.State
// @Router /api/sessions [post]
func (s *server) handleCreateSession(c *gin.Context) {
	sess := s.sessions.Create()
	s.metrics.IncrementSessionCreated()
	s.metrics.SetActiveSessions(s.sessions.Size())

	state := sess.Snapshot()
	s.logger.SessionLogger("created", state.ID, state.Revision)
	c.JSON(http.StatusCreated, state)
}

func (s *server) handleGetSession(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *server) handleDeleteSession(c *gin.Context) {
	s.sessions.Delete(c.Param("id"))
	s.metrics.SetActiveSessions(s.sessions.Size())
	c.Status(http.StatusNoContent)
}

// handleSetField godoc
// @Summary Update one form field
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param update body fieldUpdate true "Field update"
// @Success 200 {object} session.State
// @Failure 400 {object} apperrors.AppError
// @Failure 404 {object} apperrors.AppError
// @Router /api/sessions/{id}/fields [patch]
func (s *server) handleSetField(c *gin.Context) {
	var req fieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid request body", err))
		return
	}

	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	state, err := sess.SetField(req.Field, req.Value)
	if err != nil {
		apperrors.Respond(c, apperrors.WrapError(err, "field %q", req.Field))
		return
	}

	s.logger.SessionLogger("field_updated", state.ID, state.Revision)
	c.JSON(http.StatusOK, state)
}

// handleReplaceForm godoc
// @Summary Replace the whole form
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param passenger body prediction.PassengerRecord true "Passenger record"
// @Success 200 {object} session.State
// @Router /api/sessions/{id}/form [put]
func (s *server) handleReplaceForm(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	form, ok := bindPassenger(c)
	if !ok {
		return
	}

	state := sess.Replace(form)
	s.logger.SessionLogger("form_replaced", state.ID, state.Revision)
	c.JSON(http.StatusOK, state)
}

// handleSubmit godoc
// @Summary Submit the form
// @Tags sessions
// @Produce json
// @Description An optional body replaces the form before submitting, in the same step.
// @Accept json
// @Param id path string true "Session ID"
// @Param form body prediction.PassengerRecord false "Form to submit"
// @Success 202 {object} session.State
// @Failure 400 {object} apperrors.AppError
// @Failure 409 {object} apperrors.AppError
// @Router /api/sessions/{id}/submit [post]
func (s *server) handleSubmit(c *gin.Context) {
	var (
		state session.State
		err   error
	)
	if c.Request.ContentLength != 0 {
		form, ok := bindPassenger(c)
		if !ok {
			return
		}
		state, err = s.sessions.SubmitForm(c.Param("id"), form)
	} else {
		state, err = s.sessions.Submit(c.Param("id"))
	}
	if err != nil {
		if errors.Is(err, session.ErrSubmissionInFlight) {
			s.metrics.RecordSubmission(false)
		}
		apperrors.Respond(c, err)
		return
	}

	s.metrics.RecordSubmission(true)
	s.logger.SessionLogger("submitted", state.ID, state.Revision)
	c.JSON(http.StatusAccepted, state)
}

// handleRecentPredictions godoc
// @Summary Recent predictions
// @Tags history
// @Produce json
// @Param limit query int false "Maximum number of records"
// @Success 200 {object} historyResponse
// @Router /api/predictions/recent [get]
func (s *server) handleRecentPredictions(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusOK, historyResponse{Enabled: false, Predictions: []database.PredictionRecord{}})
		return
	}

	limit := database.DefaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			apperrors.Respond(c, apperrors.NewValidationError("limit must be a positive integer", err))
			return
		}
		limit = n
	}

	records, err := s.history.Recent(c.Request.Context(), limit)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("failed to load prediction history", err))
		return
	}
	if records == nil {
		records = []database.PredictionRecord{}
	}

	c.JSON(http.StatusOK, historyResponse{Enabled: true, Predictions: records})
}

func (s *server) handlePredictionStats(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	stats, err := s.history.Stats(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("failed to load prediction stats", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": true, "stats": stats})
}

// bindPassenger decodes a JSON record and rejects enum labels outside the
// option lists. Numeric values are never rejected.
func bindPassenger(c *gin.Context) (prediction.PassengerRecord, bool) {
	var form prediction.PassengerRecord
	if err := c.ShouldBindJSON(&form); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid request body", err))
		return form, false
	}
	if problems := form.Problems(); len(problems) > 0 {
		apperrors.Respond(c, apperrors.NewValidationErrorWithMap(problems))
		return form, false
	}
	return form, true
}
