package repository

import (
	"context"

	"github.com/sangkips/atelier-api/internal/domain/entity"
)

// IdempotencyRepository stores replayable responses keyed by
// (Idempotency-Key, client)
type IdempotencyRepository interface {
	// GetByKey returns nil when the client never used key.
	GetByKey(ctx context.Context, key, clientID string) (*entity.IdempotencyKey, error)
	// Create stores a response. A live row for the same key and client wins;
	// an expired one is replaced.
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired purges keys past their expiry and reports how many went.
	DeleteExpired(ctx context.Context) (int64, error)
}
