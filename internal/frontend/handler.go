package frontend

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Fayaz1306/miniproject-spacetitanic/internal/errors"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/security"
)

// PredictionRecorder receives predictions made through the HTML form
type PredictionRecorder func(c *gin.Context, form prediction.PassengerRecord, result prediction.PredictionResult)

// NewSPAHandler serves static assets and falls back to the templated index
func NewSPAHandler(distFS fs.FS, indexTemplate *template.Template) gin.HandlerFunc {
	fileServer := http.FileServer(http.FS(distFS))

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if strings.HasPrefix(path, "/assets/") {
			c.Header("Cache-Control", "public, max-age=31536000, immutable")
			fileServer.ServeHTTP(c.Writer, c.Request)
			return
		}

		// index.html always goes through the template so it carries the nonce
		cleanPath := strings.TrimPrefix(path, "/")
		if cleanPath != "" && cleanPath != "index.html" {
			if info, err := fs.Stat(distFS, cleanPath); err == nil && !info.IsDir() {
				c.Header("Cache-Control", "public, max-age=3600")
				fileServer.ServeHTTP(c.Writer, c.Request)
				return
			}
		}

		nonce, ok := requestNonce(c)
		if !ok {
			return
		}

		if err := RenderIndex(c, indexTemplate, nonce); err != nil {
			slog.Error("Failed to render index.html", "error", err, "path", path)
			apperrors.Respond(c, apperrors.NewInternalError("failed to render page", err))
		}
	}
}

// NewFormHandler scores a urlencoded form post and renders the result page.
// Missing or malformed values fall back the same way the interactive form does.
func NewFormHandler(resultTemplate *template.Template, delay time.Duration, record PredictionRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			apperrors.Respond(c, apperrors.NewValidationError("Malformed form body", err))
			return
		}

		form := prediction.FromForm(c.Request.PostForm)

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-c.Request.Context().Done():
				timer.Stop()
				apperrors.Respond(c, c.Request.Context().Err())
				return
			case <-timer.C:
			}
		}

		result := prediction.Predict(form)
		if record != nil {
			record(c, form, result)
		}

		nonce, ok := requestNonce(c)
		if !ok {
			return
		}

		page := ResultPage{
			Nonce:   nonce,
			Form:    form,
			Result:  result,
			Summary: prediction.Summarize(form),
		}
		if err := RenderResult(c, resultTemplate, page); err != nil {
			slog.Error("Failed to render result page", "error", err)
			apperrors.Respond(c, apperrors.NewInternalError("failed to render page", err))
		}
	}
}

func requestNonce(c *gin.Context) (string, bool) {
	if nonce := security.GetNonce(c); nonce != "" {
		return nonce, true
	}

	slog.Warn("CSP nonce not found in context, generating new one")
	nonce, err := security.GenerateNonce()
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("failed to generate nonce", err))
		return "", false
	}
	return nonce, true
}
