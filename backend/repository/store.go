// Package repository is the persistence layer. A Store wraps one *gorm.DB; inside Tx the same
// methods run against the transaction handle.
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	maxTxAttempts = 3
	retryBackoff  = 20 * time.Millisecond
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Tx runs fn in a transaction. Serialization failures and lock timeouts are retried with a
// short linear backoff; every other error aborts immediately.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&Store{db: tx})
		})
		if err == nil || !isRetryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "transaction cancelled")
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return errors.Wrapf(err, "transaction failed after %d attempts", maxTxAttempts)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return strings.Contains(strings.ToLower(err.Error()), "database is locked")
}

func notFound(err error, target error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return errors.Wrap(err, msg)
}
