// Package pgstore is the PostgreSQL backend. Foreign keys cascade renames
// and null out references on delete; NULL references read back as N/A.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/query"
	"github.com/stemsi/lexis/internal/repository"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

var _ repository.Store = (*Store)(nil)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store runs repositories against a connection pool.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// New wraps an open pool. The store owns the pool from here on.
func New(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{
		pool: pool,
		log:  log.With().Str("component", "pg_store").Logger(),
	}
}

func (s *Store) Colleges() repository.CollegeRepository { return &CollegeRepository{db: s.pool} }
func (s *Store) Programs() repository.ProgramRepository { return &ProgramRepository{db: s.pool} }
func (s *Store) Students() repository.StudentRepository { return &StudentRepository{db: s.pool} }

// WithinTx runs fn in one database transaction, committing only if fn
// returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapErr(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.log.Warn().Err(rbErr).Msg("Rollback failed")
		}
	}()

	if err := fn(txView{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

type txView struct {
	tx pgx.Tx
}

func (v txView) Colleges() repository.CollegeRepository { return &CollegeRepository{db: v.tx} }
func (v txView) Programs() repository.ProgramRepository { return &ProgramRepository{db: v.tx} }
func (v txView) Students() repository.StudentRepository { return &StudentRepository{db: v.tx} }

// mapErr translates driver errors into repository sentinels, keeping the
// original error in the chain.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", repository.ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.Detail)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrDangling, pgErr.Detail)
		case checkViolation:
			return fmt.Errorf("%w: %s", repository.ErrCorrupt, pgErr.Message)
		}
		return err
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
	}
	return err
}

// nullable maps the None sentinel to SQL NULL.
func nullable(code string) any {
	if model.IsNone(code) {
		return nil
	}
	return code
}

// setList accumulates the assignments of a partial UPDATE.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, col+" = $"+strconv.Itoa(len(s.args)))
}

// addCast is add with an explicit SQL cast on the placeholder.
func (s *setList) addCast(col, cast string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, col+" = $"+strconv.Itoa(len(s.args))+"::"+cast)
}

func (s *setList) empty() bool { return len(s.cols) == 0 }

// update renders "UPDATE table SET ... WHERE key <op> $n" with key as the
// last argument.
func (s *setList) update(table, key, op string, keyArg any) (string, []any) {
	args := append(s.args, keyArg)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s %s",
		table, strings.Join(s.cols, ", "), key, fmt.Sprintf(op, len(args)))
	return sql, args
}

// page runs the COUNT and the paged SELECT of a listing. from holds the
// FROM clause with the aliases the schema expressions use.
func page[T any](ctx context.Context, db querier, plan query.Plan, columns, from string,
	scan func(pgx.Rows) (T, error)) ([]T, int, error) {

	where, args := plan.Where(1)

	var total int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) "+from+" WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}
	if plan.Offset() >= total {
		return []T{}, total, nil
	}

	n := len(args)
	sql := fmt.Sprintf("SELECT %s %s WHERE %s %s LIMIT $%d OFFSET $%d",
		columns, from, where, plan.OrderBy(), n+1, n+2)
	args = append(args, plan.Limit, plan.Offset())

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	out := make([]T, 0, plan.Limit)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, mapErr(err)
		}
		out = append(out, item)
	}
	return out, total, mapErr(rows.Err())
}

func keys(ctx context.Context, db querier, sql string, args ...any) ([]string, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, k)
	}
	return out, mapErr(rows.Err())
}

func exists(ctx context.Context, db querier, sql string, arg any) (bool, error) {
	var found bool
	if err := db.QueryRow(ctx, sql, arg).Scan(&found); err != nil {
		return false, mapErr(err)
	}
	return found, nil
}
