package repository

import (
	"context"
	"errors"

	"github.com/sangkips/atelier-api/internal/domain/composer"
)

var (
	// ErrDraftNotFound is returned by Update when the draft no longer exists.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrDraftSubmitting is returned by Update while a submit holds the draft.
	ErrDraftSubmitting = errors.New("draft is being submitted")
)

// DraftRepository stores sale drafts between requests
type DraftRepository interface {
	// Get returns nil, nil when the draft does not exist or has expired.
	Get(ctx context.Context, id string) (*composer.Draft, error)
	Save(ctx context.Context, draft *composer.Draft) error
	// Update writes an edit to an existing draft. It never recreates a
	// deleted draft and refuses while the submit guard is held.
	Update(ctx context.Context, draft *composer.Draft) error
	Delete(ctx context.Context, id string) error
	// AcquireSubmit atomically marks a draft as submitting. It reports false
	// when a submit is already in flight.
	AcquireSubmit(ctx context.Context, id string) (bool, error)
	ReleaseSubmit(ctx context.Context, id string) error
}
