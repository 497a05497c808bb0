package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
)

type failureCount struct{ n int }

func (f *failureCount) IncrementHistoryWriteError() { f.n++ }

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRepository_SaveAndRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	form := prediction.DefaultPassenger()
	form.CryoSleep = true
	form.HomePlanet = prediction.Europa

	older := NewPredictionRecord(SourceAPI, "", prediction.DefaultPassenger(), prediction.Predict(prediction.DefaultPassenger()))
	older.CreatedAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, repo.SavePrediction(ctx, older))

	newer := NewPredictionRecord(SourceSession, "sess-1", form, prediction.Predict(form))
	require.NoError(t, repo.SavePrediction(ctx, newer))

	records, err := repo.RecentPredictions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, newer.ID, records[0].ID)
	assert.Equal(t, "sess-1", records[0].SessionID)
	assert.Equal(t, SourceSession, records[0].Source)
	assert.Equal(t, form, records[0].Form)
	assert.True(t, records[0].Transported)
	assert.Equal(t, 90, records[0].Confidence)

	assert.Equal(t, older.ID, records[1].ID)
	assert.Empty(t, records[1].SessionID)
	assert.False(t, records[1].Transported)

	limited, err := repo.RecentPredictions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRepository_Stats(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, HistoryStats{}, *stats)

	cryo := prediction.DefaultPassenger()
	cryo.CryoSleep = true
	require.NoError(t, repo.SavePrediction(ctx, NewPredictionRecord(SourceAPI, "", cryo, prediction.Predict(cryo))))
	require.NoError(t, repo.SavePrediction(ctx, NewPredictionRecord(SourceAPI, "", prediction.DefaultPassenger(), prediction.Predict(prediction.DefaultPassenger()))))

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Transported)
	assert.InDelta(t, 70.0, stats.AverageConfidence, 0.001)
}

func TestHistoryService_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	failures := &failureCount{}
	db := newTestDB(t)
	svc := NewHistoryService(NewRepository(db), failures)

	for i := 0; i < 3; i++ {
		form := prediction.DefaultPassenger()
		form.Age = 20 + i
		svc.Record(ctx, SourceForm, "", form, prediction.Predict(form))
	}

	records, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, 0, failures.n)

	// writes after close are counted, not returned
	require.NoError(t, db.Close())
	svc.Record(ctx, SourceForm, "", prediction.DefaultPassenger(), prediction.PredictionResult{Confidence: 50})
	assert.Equal(t, 1, failures.n)
}

func TestDB_PoolStats(t *testing.T) {
	db := newTestDB(t)
	stats := db.GetPoolStats()
	assert.Equal(t, 4, stats["max_open_connections"])

	_, err := db.GetPreparedStatement("missing")
	assert.Error(t, err)
}

func TestHistoryService_BreakerPausesFailingWrites(t *testing.T) {
	ctx := context.Background()
	failures := &failureCount{}
	db := newTestDB(t)
	svc := NewHistoryService(NewRepository(db), failures)

	require.NoError(t, db.Close())
	for i := 0; i < 7; i++ {
		svc.Record(ctx, SourceAPI, "", prediction.DefaultPassenger(), prediction.PredictionResult{Confidence: 50})
	}

	assert.Equal(t, 7, failures.n)
	assert.Equal(t, "open", svc.WriterStats()["state"])
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.True(t, isTransient(fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrLocked})))
	assert.False(t, isTransient(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.False(t, isTransient(errors.New("sql: database is closed")))
}
