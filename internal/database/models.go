package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
)

// Prediction sources
const (
	SourceAPI     = "api"
	SourceSession = "session"
	SourceForm    = "form"
)

// PredictionRecord is one stored scoring outcome
type PredictionRecord struct {
	ID            string                     `json:"id" db:"id"`
	SessionID     string                     `json:"session_id,omitempty" db:"session_id"`
	Source        string                     `json:"source" db:"source"`
	Form          prediction.PassengerRecord `json:"form" db:"form"`
	Transported   bool                       `json:"transported" db:"transported"`
	Confidence    int                        `json:"confidence" db:"confidence"`
	TotalSpending int                        `json:"total_spending" db:"total_spending"`
	CreatedAt     time.Time                  `json:"created_at" db:"created_at"`
}

// HistoryStats summarizes stored predictions
type HistoryStats struct {
	Total             int     `json:"total"`
	Transported       int     `json:"transported"`
	AverageConfidence float64 `json:"average_confidence"`
}

// NewPredictionRecord creates a record with a generated ID
func NewPredictionRecord(source, sessionID string, form prediction.PassengerRecord, result prediction.PredictionResult) *PredictionRecord {
	return &PredictionRecord{
		ID:            uuid.New().String(),
		SessionID:     sessionID,
		Source:        source,
		Form:          form,
		Transported:   result.Transported,
		Confidence:    result.Confidence,
		TotalSpending: prediction.TotalSpending(form),
		CreatedAt:     time.Now().UTC(),
	}
}
