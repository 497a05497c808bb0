package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const (
	stmtInsertPrediction  = "insert_prediction"
	stmtRecentPredictions = "recent_predictions"
	stmtPredictionStats   = "prediction_stats"
)

// Repository handles prediction history persistence
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SavePrediction stores one record
func (r *Repository) SavePrediction(ctx context.Context, rec *PredictionRecord) error {
	form, err := json.Marshal(rec.Form)
	if err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	stmt, err := r.db.GetPreparedStatement(stmtInsertPrediction)
	if err != nil {
		return err
	}

	_, err = stmt.ExecContext(ctx,
		rec.ID, nullString(rec.SessionID), rec.Source,
		string(rec.Form.HomePlanet), string(rec.Form.Destination),
		rec.Form.CryoSleep, rec.Form.VIP, rec.Form.Age, rec.TotalSpending,
		string(form), rec.Transported, rec.Confidence, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// RecentPredictions returns the newest records first
func (r *Repository) RecentPredictions(ctx context.Context, limit int) ([]PredictionRecord, error) {
	stmt, err := r.db.GetPreparedStatement(stmtRecentPredictions)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	records := make([]PredictionRecord, 0, limit)
	for rows.Next() {
		var (
			rec       PredictionRecord
			sessionID sql.NullString
			form      string
		)
		if err := rows.Scan(&rec.ID, &sessionID, &rec.Source, &form,
			&rec.Transported, &rec.Confidence, &rec.TotalSpending, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		if err := json.Unmarshal([]byte(form), &rec.Form); err != nil {
			return nil, fmt.Errorf("failed to decode form of %s: %w", rec.ID, err)
		}
		rec.SessionID = sessionID.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}
	return records, nil
}

// Stats aggregates the stored history
func (r *Repository) Stats(ctx context.Context) (*HistoryStats, error) {
	stmt, err := r.db.GetPreparedStatement(stmtPredictionStats)
	if err != nil {
		return nil, err
	}

	var stats HistoryStats
	if err := stmt.QueryRowContext(ctx).Scan(&stats.Total, &stats.Transported, &stats.AverageConfidence); err != nil {
		return nil, fmt.Errorf("failed to query prediction stats: %w", err)
	}
	return &stats, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
