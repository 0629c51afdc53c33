// Package session keeps the in-memory form state of interactive clients and
// applies their input-changed events in order.
package session

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cast"

	"github.com/fairyhunter13/slope-calculator/internal/model"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownField    = errors.New("unknown field")
	ErrInvalidValue    = errors.New("invalid value")
)

// Event is one input-changed notification from a client. A zero Sequence
// asks the store to assign the next one.
type Event struct {
	Field    string `json:"field"`
	Value    any    `json:"value"`
	Sequence uint64 `json:"sequence,omitempty"`
}

// Session is the form state of one client.
type Session struct {
	ID           string       `json:"id"`
	Inputs       model.Inputs `json:"inputs"`
	LastSequence uint64       `json:"last_sequence"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Store holds sessions until they sit idle for the configured TTL.
type Store struct {
	mu  sync.Mutex
	c   *cache.Cache
	seq atomic.Uint64
}

// New creates a Store whose sessions expire after ttl without events.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{c: cache.New(ttl, ttl/2)}
}

// Create starts a session seeded with the given inputs.
func (s *Store) Create(in model.Inputs) Session {
	ss := Session{ID: uuid.NewString(), Inputs: in, UpdatedAt: time.Now().UTC()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.SetDefault(ss.ID, ss)
	return ss
}

// Get returns the session with the given id.
func (s *Store) Get(id string) (Session, bool) {
	v, ok := s.c.Get(id)
	if !ok {
		return Session{}, false
	}
	ss, ok := v.(Session)
	return ss, ok
}

// Delete ends a session. Deleting an unknown session is not an error. It
// serialises with Apply so a deleted session is never written back.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Delete(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int { return s.c.ItemCount() }

// Apply updates one field of a session. Events carrying a sequence at or
// below the last applied one are stale and leave the session unchanged; the
// returned bool reports whether the event was applied.
func (s *Store) Apply(id string, ev Event) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.Get(id)
	if !ok {
		return Session{}, false, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	seq := ev.Sequence
	if seq == 0 {
		seq = max(s.seq.Add(1), ss.LastSequence+1)
	}
	if seq <= ss.LastSequence {
		return ss, false, nil
	}
	in, err := applyField(ss.Inputs, ev.Field, ev.Value)
	if err != nil {
		return ss, false, err
	}
	ss.Inputs = in
	ss.LastSequence = seq
	ss.UpdatedAt = time.Now().UTC()
	s.c.SetDefault(id, ss)
	return ss, true, nil
}

func applyField(in model.Inputs, field string, value any) (model.Inputs, error) {
	f := strings.ToLower(strings.TrimSpace(field))
	if f == "show_plot" {
		b, err := cast.ToBoolE(value)
		if err != nil {
			return in, fmt.Errorf("%w: show_plot: %v", ErrInvalidValue, err)
		}
		in.ShowPlot = b
		return in, nil
	}
	var dst *float64
	switch f {
	case "x1":
		dst = &in.X1
	case "y1":
		dst = &in.Y1
	case "x2":
		dst = &in.X2
	case "y2":
		dst = &in.Y2
	default:
		return in, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	v, err := ParseFloat(value)
	if err != nil {
		return in, fmt.Errorf("%w: %s: %v", ErrInvalidValue, f, err)
	}
	*dst = v
	return in, nil
}

// ParseFloat converts a JSON number, numeric string or integer to float64.
// Booleans, nil, and non-finite values are rejected.
func ParseFloat(value any) (float64, error) {
	switch value.(type) {
	case nil, bool:
		return 0, fmt.Errorf("not a number: %v", value)
	}
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	v, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %v", value)
	}
	return v, nil
}
