package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
)

// Config controls session behavior
type Config struct {
	SubmitDelay     time.Duration
	TTL             time.Duration
	CleanupInterval time.Duration
	Observer        ResultObserver
}

// DefaultConfig returns the standard submission pacing and expiry
func DefaultConfig() Config {
	return Config{
		SubmitDelay:     DefaultSubmitDelay,
		TTL:             30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// Store keeps live sessions and expires idle ones
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	config   Config

	// submissions started through the store stop when it closes
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewStore creates a session store and starts its cleanup loop
func NewStore(config Config) *Store {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		sessions: make(map[string]*Session),
		config:   config,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go s.cleanup()

	return s
}

// Create starts a new session with the default form
func (s *Store) Create() *Session {
	sess := newSession(uuid.New().String(), s.config.SubmitDelay, s.config.Observer)

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	return sess
}

// Get returns a live session
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.expired(sess, time.Now()) {
		s.Delete(id)
		return nil, ErrSessionNotFound
	}
	// reads count as activity; a page polling for its result keeps it alive
	sess.touch()
	return sess, nil
}

// Delete removes a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Submit starts an asynchronous submission bound to the store lifetime
func (s *Store) Submit(id string) (State, error) {
	sess, err := s.Get(id)
	if err != nil {
		return State{}, err
	}
	return sess.SubmitAsync(s.ctx)
}

// SubmitForm replaces the form of a session and submits it in one step
func (s *Store) SubmitForm(id string, form prediction.PassengerRecord) (State, error) {
	sess, err := s.Get(id)
	if err != nil {
		return State{}, err
	}
	return sess.SubmitFormAsync(s.ctx, form)
}

// Size returns the number of tracked sessions
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Stats returns store statistics
func (s *Store) Stats() map[string]interface{} {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	loading := 0
	for _, sess := range sessions {
		if sess.Snapshot().Loading {
			loading++
		}
	}

	return map[string]interface{}{
		"active_sessions":     len(sessions),
		"loading_sessions":    loading,
		"ttl_seconds":         s.config.TTL.Seconds(),
		"submit_delay_millis": s.config.SubmitDelay.Milliseconds(),
	}
}

// Close cancels pending submissions and stops the cleanup loop
func (s *Store) Close() {
	s.cancel()
	<-s.done
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	if s.config.TTL <= 0 {
		return false
	}
	return now.Sub(sess.idleSince()) > s.config.TTL
}

func (s *Store) cleanup() {
	defer close(s.done)

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.evictExpired(now)
		}
	}
}

func (s *Store) evictExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("Expired idle sessions", "removed", removed, "remaining", len(s.sessions))
	}
}
