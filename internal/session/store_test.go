package session

import (
	"testing"
	"time"

	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t, 0, nil)

	sess := store.Create()
	assert.NotEmpty(t, sess.ID())
	assert.Equal(t, 1, store.Size())

	got, err := store.Get(sess.ID())
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_ExpiresIdleSessions(t *testing.T) {
	store := NewStore(Config{TTL: 20 * time.Millisecond, CleanupInterval: time.Hour})
	defer store.Close()

	sess := store.Create()
	time.Sleep(40 * time.Millisecond)

	_, err := store.Get(sess.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Size())
}

func TestStore_EvictExpired(t *testing.T) {
	store := NewStore(Config{TTL: time.Minute, CleanupInterval: time.Hour})
	defer store.Close()

	store.Create()
	store.Create()

	store.evictExpired(time.Now())
	assert.Equal(t, 2, store.Size())

	store.evictExpired(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, store.Size())
}

func TestStore_SubmitUsesStoreLifetime(t *testing.T) {
	store := NewStore(Config{SubmitDelay: time.Hour, TTL: time.Minute, CleanupInterval: time.Hour})
	sess := store.Create()

	state, err := store.Submit(sess.ID())
	require.NoError(t, err)
	assert.True(t, state.Loading)

	stats := store.Stats()
	assert.Equal(t, 1, stats["loading_sessions"])

	store.Close()

	require.Eventually(t, func() bool {
		return !sess.Snapshot().Loading
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, sess.Snapshot().Result)

	_, err = store.Submit("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_GetKeepsPolledSessionAlive(t *testing.T) {
	store := NewStore(Config{TTL: 60 * time.Millisecond, CleanupInterval: time.Hour})
	defer store.Close()

	sess := store.Create()
	for i := 0; i < 8; i++ {
		time.Sleep(20 * time.Millisecond)
		_, err := store.Get(sess.ID())
		require.NoError(t, err, "poll %d", i)
	}

	store.evictExpired(time.Now())
	assert.Equal(t, 1, store.Size())
}

func TestStore_SubmitForm(t *testing.T) {
	store := newTestStore(t, 0, nil)
	sess := store.Create()

	form := prediction.DefaultPassenger()
	form.HomePlanet = prediction.Europa

	state, err := store.SubmitForm(sess.ID(), form)
	require.NoError(t, err)
	assert.Equal(t, prediction.Europa, state.Form.HomePlanet)

	require.Eventually(t, func() bool {
		return sess.Snapshot().Result != nil
	}, time.Second, 5*time.Millisecond)

	_, err = store.SubmitForm("missing", form)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
