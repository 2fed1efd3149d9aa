package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-blood-donation/internal/domain/repository"
)

type queries struct {
	db DBTX
}

func (q *queries) Users() repository.UserRepository   { return NewUserRepository(q.db) }
func (q *queries) Donors() repository.DonorRepository { return NewDonorRepository(q.db) }
func (q *queries) Requests() repository.BloodRequestRepository {
	return NewBloodRequestRepository(q.db)
}
func (q *queries) Donations() repository.DonationRepository { return NewDonationRepository(q.db) }
func (q *queries) Notifications() repository.NotificationRepository {
	return NewNotificationRepository(q.db)
}

// txPool is the subset of *pgxpool.Pool the store needs.
type txPool interface {
	DBTX
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// Store provides all repositories and runs transactions over the pool.
type Store struct {
	*queries
	pool txPool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return newStore(pool)
}

func newStore(pool txPool) *Store {
	return &Store{queries: &queries{db: pool}, pool: pool}
}

// WithTx runs fn inside one transaction. Any error or panic from fn rolls back.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&queries{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping checks if the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

var _ repository.Store = (*Store)(nil)
