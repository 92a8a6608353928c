package repositories

import (
	"context"
)

// UnitOfWork groups repository calls into one atomic change. Repositories
// pick the transaction up from the ctx handed to fn.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	// WithLock makes reads through the returned ctx lock the rows they return
	// until the transaction ends.
	WithLock(ctx context.Context) context.Context
}
