// Package session caches the authenticated user for the lifetime of the
// client. The identity is fetched from the backend once, on first use, and
// afterwards only changed through Set or refetched after Invalidate.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/arestate/internal/client/client"
	"github.com/dmitrijs2005/arestate/internal/client/models"
	"github.com/dmitrijs2005/arestate/internal/logging"
	"golang.org/x/sync/singleflight"
)

// IdentityFetcher resolves the user behind the current backend session.
// client.Client satisfies it.
type IdentityFetcher interface {
	Me(ctx context.Context) (*models.User, error)
}

type Store struct {
	fetcher IdentityFetcher
	logger  logging.Logger
	group   singleflight.Group

	mu      sync.Mutex
	session models.Session
	loaded  bool
	// gen is bumped by Set and Invalidate so a fetch that started earlier
	// does not overwrite a newer value.
	gen uint64
}

func NewStore(fetcher IdentityFetcher, logger logging.Logger) *Store {
	return &Store{fetcher: fetcher, logger: logger.With("module", "session")}
}

// Current returns the cached session, fetching it on first use. Concurrent
// callers share a single request, which is not tied to any one caller's
// cancellation. A caller whose ctx ends first gets a session carrying
// ctx.Err() while the shared request carries on for the others.
func (s *Store) Current(ctx context.Context) models.Session {
	s.mu.Lock()
	if s.loaded {
		sess := s.session
		s.mu.Unlock()
		return sess
	}
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return models.Session{Err: err}
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan("me", func() (any, error) {
		return s.fetch(fetchCtx), nil
	})

	select {
	case res := <-ch:
		return res.Val.(models.Session)
	case <-ctx.Done():
		return models.Session{Err: ctx.Err()}
	}
}

func (s *Store) fetch(ctx context.Context) models.Session {
	s.mu.Lock()
	if s.loaded {
		sess := s.session
		s.mu.Unlock()
		return sess
	}
	gen := s.gen
	s.session.IsLoading = true
	s.mu.Unlock()

	user, err := s.fetcher.Me(ctx)

	var sess models.Session
	switch {
	case err == nil:
		sess.User = user
	case errors.Is(err, client.ErrUnauthorized):
		s.logger.Debug(ctx, "no active session")
	default:
		s.logger.Warn(ctx, "identity fetch failed", "error", err)
		sess.Err = err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return s.session
	}

	s.session = sess
	// A fetch cut short by a context is not cached.
	s.loaded = !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	return sess
}

// Snapshot returns the session without fetching. IsLoading is true while
// the first fetch is in flight.
func (s *Store) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Set replaces the session with user, or with no user when nil. It saves
// the refetch after login, register, OTP verification and logout.
func (s *Store) Set(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.session = models.Session{User: user}
	s.loaded = true
}

// Invalidate makes the next Current refetch. The last known user stays
// visible through Snapshot until then.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.loaded = false
	s.session.IsLoading = false
}
