package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nomzodai/nomzod-api/internal/observability"
	"github.com/nomzodai/nomzod-api/internal/repo"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	prom *observability.Prom
	repos
}

type repos struct {
	db   DBTX
	prom *observability.Prom
}

func NewStore(pool *pgxpool.Pool, prom *observability.Prom) *Store {
	return &Store{
		pool:  pool,
		prom:  prom,
		repos: repos{db: pool, prom: prom},
	}
}

func (r repos) Users() repo.UserRepository {
	return &UsersRepo{db: r.db, prom: r.prom}
}

func (r repos) UserImages() repo.UserImageRepository {
	return &UserImagesRepo{db: r.db, prom: r.prom}
}

func (r repos) QuestionTypes() repo.QuestionTypeRepository {
	return &QuestionTypesRepo{db: r.db, prom: r.prom}
}

func (r repos) Questions() repo.QuestionRepository {
	return &QuestionsRepo{db: r.db, prom: r.prom}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repo.Repos) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	// no-op after a successful commit
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(repos{db: tx, prom: s.prom}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func observe(p *observability.Prom, op string, fn func() error) error {
	return p.ObserveDB(op, fn)
}
