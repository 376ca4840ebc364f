package repository

import (
	"context"
	"errors"
	"sync"

	apperrors "github.com/ojosproject/iris-store/internal/errors"
	"gorm.io/gorm"
)

// Store is the storage engine shared by all repositories. It serializes
// mutations through a single-writer mutex: at most one write transaction
// runs at a time, while reads go straight to the database and never take
// the lock. Every write commits before the call returns.
type Store struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for read-only queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Write runs fn inside a transaction under the single-writer lock. The
// transaction either commits in full or leaves the store untouched. Typed
// store errors returned by fn pass through unchanged; anything else is
// surfaced as a storage error.
func (s *Store) Write(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewStorageError(err)
}

// notFound translates gorm's sentinel into the store's typed error.
func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(code, message)
	}
	return apperrors.NewStorageError(err)
}
