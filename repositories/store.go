// Package repositories holds the gorm-backed catalog and comparison stores.
// Every query is hand-written and parameterized; nothing is derived from
// method names.
package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write hits a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// Store hands out repositories bound to one connection or transaction.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection, mainly for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Gadgets() Gadgets {
	return &gadgetRepository{db: s.db}
}

func (s *Store) Specifications() Specifications {
	return &specificationRepository{db: s.db}
}

func (s *Store) Reviews() Reviews {
	return &reviewRepository{db: s.db}
}

func (s *Store) Comparisons() Comparisons {
	return &comparisonRepository{db: s.db}
}

// Transaction runs fn inside one database transaction. Repositories taken
// from the tx store share it; fn returning an error rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// duplicate needs gorm opened with TranslateError.
func duplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func offset(page, size int) int {
	return page * size
}
