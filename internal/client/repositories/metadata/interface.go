// Package metadata persists small client-side values, such as the anonymous
// identity token, in the local SQLite database.
package metadata

import (
	"context"
)

// Repository is a string key/value store. Get reports ok=false for an
// absent key.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
