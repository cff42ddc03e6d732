// Package metadata is the client's local key/value store. The credential
// cache keeps the remembered username and the remember-me flag here.
package metadata

import (
	"context"
)

// Repository stores string values under string keys.
//
// Get reports found=false with a nil error when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
