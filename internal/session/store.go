package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/metric"

	"timeseer/internal/analyzer"
	"timeseer/internal/config"
)

var (
	// ErrNotFound is returned for unknown or expired session ids
	ErrNotFound = errors.New("session not found or expired")
	// ErrStoreFull is returned when the session limit is reached
	ErrStoreFull = errors.New("too many active sessions")
)

// Store holds live sessions in memory
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	ttl         time.Duration
	maxSessions int
	schedule    string
	newAnalyzer func() *analyzer.Analyzer
	now         func() time.Time
	active      metric.Int64UpDownCounter
	logger      *slog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithActiveCounter reports the live session count to an OTel instrument
func WithActiveCounter(c metric.Int64UpDownCounter) Option {
	return func(s *Store) { s.active = c }
}

// NewStore creates an empty store. newAnalyzer builds the analyzer of each
// new session.
func NewStore(cfg config.SessionConfig, newAnalyzer func() *analyzer.Analyzer, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		sessions:    make(map[string]*Session),
		ttl:         cfg.TTL,
		maxSessions: cfg.MaxSessions,
		schedule:    cfg.JanitorSchedule,
		newAnalyzer: newAnalyzer,
		now:         time.Now,
		logger:      logger.With(slog.String("component", "session_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new session. When the store is full expired sessions are
// purged first.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.purgeLocked(ctx)
		if len(s.sessions) >= s.maxSessions {
			return nil, fmt.Errorf("%w (limit %d)", ErrStoreFull, s.maxSessions)
		}
	}

	now := s.now()
	sess := &Session{
		ID:       uuid.NewString(),
		Analyzer: s.newAnalyzer(),
		created:  now,
		lastSeen: now,
	}
	s.sessions[sess.ID] = sess
	s.addActive(ctx, 1)

	s.logger.DebugContext(ctx, "session created", slog.String("session_id", sess.ID))
	return sess, nil
}

// Get returns a live session and marks it as used
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		s.addActive(context.Background(), -1)
		return nil, ErrNotFound
	}
	sess.lastSeen = now
	return sess, nil
}

// GetOrCreate returns the session for id, or a new one when id is unknown
// or expired. created reports which happened.
func (s *Store) GetOrCreate(ctx context.Context, id string) (sess *Session, created bool, err error) {
	if id != "" {
		if sess, err := s.Get(id); err == nil {
			return sess, false, nil
		}
	}
	sess, err = s.Create(ctx)
	return sess, err == nil, err
}

// Delete drops a session
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		s.addActive(ctx, -1)
	}
}

// Len returns the number of stored sessions, expired ones included
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Purge removes expired sessions and returns how many it removed
func (s *Store) Purge(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purgeLocked(ctx)
}

func (s *Store) purgeLocked(ctx context.Context) int {
	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.addActive(ctx, -int64(removed))
		s.logger.InfoContext(ctx, "expired sessions purged",
			slog.Int("removed", removed),
			slog.Int("remaining", len(s.sessions)),
		)
	}
	return removed
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}

func (s *Store) addActive(ctx context.Context, delta int64) {
	if s.active != nil {
		s.active.Add(ctx, delta)
	}
}

// Run purges expired sessions on the janitor schedule until ctx is done.
// It waits for a running purge to finish before returning.
func (s *Store) Run(ctx context.Context) error {
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))
	if _, err := c.AddFunc(s.schedule, func() { s.Purge(ctx) }); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", s.schedule, err)
	}

	c.Start()
	s.logger.InfoContext(ctx, "session janitor started", slog.String("schedule", s.schedule))

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("session janitor stopped")
	return nil
}
