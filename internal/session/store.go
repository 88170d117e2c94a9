// Package session keeps live chat sessions in memory until they expire.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/spigell/ask-my-resume/internal/chat"
	"github.com/spigell/ask-my-resume/internal/logger"
)

const (
	DefaultTTL             = 1 * time.Hour
	DefaultCleanupInterval = 10 * time.Minute
)

var ErrNotFound = errors.New("session not found")

// Config controls session expiry.
type Config struct {
	TTL             time.Duration `mapstructure:"session-ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup-interval"`
}

// Store creates sessions and hands them out by ID. Every access extends the
// session lifetime by the TTL.
type Store struct {
	cache  *cache.Cache
	deps   chat.Deps
	logger *zap.Logger
}

func NewStore(cfg Config, deps chat.Deps, log *zap.Logger) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	log = logger.WithFields(log)

	c := cache.New(cfg.TTL, cfg.CleanupInterval)
	c.OnEvicted(func(id string, _ any) {
		log.Debug("session evicted", zap.String(logger.FieldSession, id))
	})

	return &Store{cache: c, deps: deps, logger: log}
}

// Create registers a new session. The caller is expected to send chat.Start.
func (s *Store) Create() *chat.Session {
	id := uuid.NewString()
	sess := chat.NewSession(id, s.deps, s.logger)
	s.cache.Set(id, sess, cache.DefaultExpiration)
	return sess
}

func (s *Store) Get(id string) (*chat.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	x, found := s.cache.Get(id)
	if !found {
		return nil, ErrNotFound
	}

	sess := x.(*chat.Session)
	s.cache.Set(id, sess, cache.DefaultExpiration)
	return sess, nil
}

// Delete removes the session. Deleting an unknown ID is not an error.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

func (s *Store) Len() int {
	return s.cache.ItemCount()
}
