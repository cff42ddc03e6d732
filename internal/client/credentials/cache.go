// Package credentials implements the remember-me cache: the username the
// user opted to keep and the opt-in flag, persisted in the local metadata
// store. Storage failures are logged and never reach the caller; a broken
// store degrades to "not remembered".
package credentials

import (
	"context"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/arestate/internal/client/models"
	"github.com/dmitrijs2005/arestate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/arestate/internal/logging"
)

const (
	KeySavedUsername = "rv_saved_username"
	KeyRememberMe    = "rv_remember_me"
)

// Cache is safe for concurrent use. Writes are serialized; the last one wins.
type Cache struct {
	repo   metadata.Repository
	logger logging.Logger

	mu       sync.Mutex
	remember bool
	username string
}

// NewCache returns a cache over repo. Call Init to read the persisted state.
func NewCache(repo metadata.Repository, logger logging.Logger) *Cache {
	return &Cache{repo: repo, logger: logger.With("module", "credentials")}
}

// Init loads the persisted state into memory.
func (c *Cache) Init(ctx context.Context) models.RememberedCredentials {
	creds := c.Load(ctx)

	c.mu.Lock()
	c.remember = creds.RememberEnabled
	c.username = creds.Username
	c.mu.Unlock()

	return creds
}

// Save persists username and the flag when remember is true, and clears both
// otherwise.
func (c *Cache) Save(ctx context.Context, username string, remember bool) {
	if !remember {
		c.Clear(ctx)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.remember = true
	c.username = username

	if err := c.repo.Set(ctx, KeySavedUsername, username); err != nil {
		c.logger.Warn(ctx, "failed to save username", "error", err)
	}
	if err := c.repo.Set(ctx, KeyRememberMe, strconv.FormatBool(true)); err != nil {
		c.logger.Warn(ctx, "failed to save remember flag", "error", err)
	}
}

// Load reads the persisted state. Missing or unparseable values yield the
// zero RememberedCredentials.
func (c *Cache) Load(ctx context.Context) models.RememberedCredentials {
	c.mu.Lock()
	defer c.mu.Unlock()

	flag, found, err := c.repo.Get(ctx, KeyRememberMe)
	if err != nil {
		c.logger.Warn(ctx, "failed to load remember flag", "error", err)
		return models.RememberedCredentials{}
	}
	if !found {
		return models.RememberedCredentials{}
	}

	remember, err := strconv.ParseBool(flag)
	if err != nil {
		c.logger.Warn(ctx, "unparseable remember flag", "value", flag)
		return models.RememberedCredentials{}
	}
	if !remember {
		return models.RememberedCredentials{}
	}

	username, _, err := c.repo.Get(ctx, KeySavedUsername)
	if err != nil {
		c.logger.Warn(ctx, "failed to load username", "error", err)
		return models.RememberedCredentials{}
	}

	return models.RememberedCredentials{Username: username, RememberEnabled: true}
}

// Clear removes the username and writes the flag as false. Idempotent.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remember = false
	c.username = ""

	if err := c.repo.Delete(ctx, KeySavedUsername); err != nil {
		c.logger.Warn(ctx, "failed to delete username", "error", err)
	}
	if err := c.repo.Set(ctx, KeyRememberMe, strconv.FormatBool(false)); err != nil {
		c.logger.Warn(ctx, "failed to save remember flag", "error", err)
	}
}

// PersistRememberFlag re-writes the flag after logout. The stored username
// is kept when remember is true and dropped otherwise.
func (c *Cache) PersistRememberFlag(ctx context.Context, remember bool) {
	if !remember {
		c.Clear(ctx)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.remember = true
	if err := c.repo.Set(ctx, KeyRememberMe, strconv.FormatBool(true)); err != nil {
		c.logger.Warn(ctx, "failed to save remember flag", "error", err)
	}
}

// SetRememberMe changes the in-memory opt-in. Nothing is written until the
// next Save, Clear or PersistRememberFlag.
func (c *Cache) SetRememberMe(remember bool) {
	c.mu.Lock()
	c.remember = remember
	c.mu.Unlock()
}

func (c *Cache) RememberMe() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remember
}

// SavedUsername is the username remembered in memory, empty when the
// opt-in is off.
func (c *Cache) SavedUsername() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.remember {
		return ""
	}
	return c.username
}
