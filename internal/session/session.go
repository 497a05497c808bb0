package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Fayaz1306/miniproject-spacetitanic/internal/prediction"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// DefaultSubmitDelay is the artificial processing time of a submission
const DefaultSubmitDelay = 1500 * time.Millisecond

// State is a point-in-time view of a form session
type State struct {
	ID        string                       `json:"id"`
	Form      prediction.PassengerRecord   `json:"form"`
	Result    *prediction.PredictionResult `json:"result"`
	Summary   *prediction.Summary          `json:"summary"`
	Loading   bool                         `json:"loading"`
	Revision  int64                        `json:"revision"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

// ResultObserver is notified whenever a submission stores a result
type ResultObserver func(sessionID string, form prediction.PassengerRecord, result prediction.PredictionResult)

// Session owns the form, loading flag and latest result of one UI session
type Session struct {
	mu         sync.Mutex
	state      State
	delay      time.Duration
	lastAccess time.Time
	observer   ResultObserver
}

func newSession(id string, delay time.Duration, observer ResultObserver) *Session {
	now := time.Now()
	return &Session{
		state: State{
			ID:        id,
			Form:      prediction.DefaultPassenger(),
			UpdatedAt: now,
		},
		delay:      delay,
		lastAccess: now,
		observer:   observer,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.state.ID
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetField updates one form field and clears any stored result
func (s *Session) SetField(field, value string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form := s.state.Form
	if err := form.Set(field, value); err != nil {
		return s.snapshotLocked(), err
	}
	s.replaceLocked(form)
	return s.snapshotLocked(), nil
}

// Replace swaps the whole form and clears any stored result
func (s *Session) Replace(form prediction.PassengerRecord) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked(form)
	return s.snapshotLocked()
}

// Submit enters loading, waits the configured delay, scores the form and
// stores the result. A second call while one is pending returns
// ErrSubmissionInFlight. If the form changes during the wait the computed
// result is dropped so a stored result always matches the current form.
func (s *Session) Submit(ctx context.Context) (State, error) {
	rev, form, err := s.begin(nil)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.finish(ctx, rev, form)
}

// SubmitAsync starts a submission and returns the loading state
// immediately. The wait runs until ctx is done or the delay elapses.
func (s *Session) SubmitAsync(ctx context.Context) (State, error) {
	return s.submitAsync(ctx, nil)
}

// SubmitFormAsync replaces the form and starts a submission of it under one
// lock, so edits still in flight from the caller cannot slip in between and
// invalidate the result.
func (s *Session) SubmitFormAsync(ctx context.Context, form prediction.PassengerRecord) (State, error) {
	return s.submitAsync(ctx, &form)
}

func (s *Session) submitAsync(ctx context.Context, replacement *prediction.PassengerRecord) (State, error) {
	rev, form, err := s.begin(replacement)
	if err != nil {
		return s.Snapshot(), err
	}

	loading := s.Snapshot()
	go func() {
		_, _ = s.finish(ctx, rev, form)
	}()
	return loading, nil
}

func (s *Session) begin(replacement *prediction.PassengerRecord) (int64, prediction.PassengerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Loading {
		return 0, prediction.PassengerRecord{}, ErrSubmissionInFlight
	}
	if replacement != nil && *replacement != s.state.Form {
		s.replaceLocked(*replacement)
	}
	s.state.Loading = true
	s.touchLocked()
	return s.state.Revision, s.state.Form, nil
}

func (s *Session) finish(ctx context.Context, rev int64, form prediction.PassengerRecord) (State, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.state.Loading = false
			s.touchLocked()
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, ctx.Err()
		case <-timer.C:
		}
	}

	result := prediction.Predict(form)
	summary := prediction.Summarize(form)

	s.mu.Lock()
	s.state.Loading = false
	stored := s.state.Revision == rev
	if stored {
		s.state.Result = &result
		s.state.Summary = &summary
	}
	s.touchLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if stored && s.observer != nil {
		s.observer(snap.ID, form, result)
	}
	return snap, nil
}

func (s *Session) replaceLocked(form prediction.PassengerRecord) {
	s.state.Form = form
	s.state.Result = nil
	s.state.Summary = nil
	s.state.Revision++
	s.touchLocked()
}

func (s *Session) touchLocked() {
	now := time.Now()
	s.state.UpdatedAt = now
	s.lastAccess = now
}

func (s *Session) snapshotLocked() State {
	snap := s.state
	if s.state.Result != nil {
		r := *s.state.Result
		snap.Result = &r
	}
	if s.state.Summary != nil {
		sm := *s.state.Summary
		snap.Summary = &sm
	}
	return snap
}

// touch marks the session as in use
func (s *Session) touch() {
	s.mu.Lock()
	s.lastAccess = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}
