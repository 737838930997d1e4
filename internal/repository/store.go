package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx execution methods shared by pools and
// transactions, so the same repository code runs in both scopes.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a Postgres-backed store over a connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func newRepos(db DBTX) Repos {
	return Repos{
		People:    &personRepository{db: db},
		Circles:   &circleRepository{db: db},
		Roles:     &roleRepository{db: db},
		Meetings:  &meetingRepository{db: db},
		Proposals: &proposalRepository{db: db},
		History:   &versionHistoryRepository{db: db},
	}
}

func (s *pgStore) Repos() Repos {
	return newRepos(s.pool)
}

// InTx executes fn within a database transaction. Any error rolls the
// whole transaction back.
func (s *pgStore) InTx(ctx context.Context, fn func(Repos) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Printf("failed to rollback transaction: %v", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(newRepos(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
			return fmt.Errorf("transaction error: %v, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
