package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/query"
	"github.com/stemsi/lexis/internal/repository"
)

const collegeColumns = `c.college_code, c.college_name`

// CollegeRepository handles college data access.
type CollegeRepository struct {
	db querier
}

func scanCollege(row pgx.Row) (model.College, error) {
	var c model.College
	err := row.Scan(&c.Code, &c.Name)
	return c, err
}

// Exists reports whether a college with the code exists.
func (r *CollegeRepository) Exists(ctx context.Context, code string) (bool, error) {
	return exists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM colleges WHERE college_code = $1)`, code)
}

// Add inserts a new college.
func (r *CollegeRepository) Add(ctx context.Context, c *model.College) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO colleges (college_code, college_name) VALUES ($1, $2)`,
		c.Code, c.Name,
	)
	return mapErr(err)
}

// GetByCode retrieves a college by code.
func (r *CollegeRepository) GetByCode(ctx context.Context, code string) (*model.College, error) {
	c, err := scanCollege(r.db.QueryRow(ctx,
		`SELECT `+collegeColumns+` FROM colleges c WHERE c.college_code = $1`, code))
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

// GetPage returns one page of colleges matching q and the total match count.
func (r *CollegeRepository) GetPage(ctx context.Context, q model.ListQuery) ([]model.College, int, error) {
	plan, err := query.Build(query.Colleges, q)
	if err != nil {
		return nil, 0, err
	}
	return page(ctx, r.db, plan, collegeColumns, `FROM colleges c`,
		func(rows pgx.Rows) (model.College, error) { return scanCollege(rows) })
}

// Update applies a partial update. A rename cascades to programs through
// the foreign key.
func (r *CollegeRepository) Update(ctx context.Context, code string, patch model.CollegePatch) (bool, error) {
	n, err := r.update(ctx, patch, "= $%d", code)
	return n > 0, err
}

// BatchUpdate applies patch to every college in codes.
func (r *CollegeRepository) BatchUpdate(ctx context.Context, codes []string, patch model.CollegePatch) (int, error) {
	return r.update(ctx, patch, "= ANY($%d)", codes)
}

func (r *CollegeRepository) update(ctx context.Context, patch model.CollegePatch, op string, key any) (int, error) {
	var set setList
	if patch.Code != nil {
		set.add("college_code", *patch.Code)
	}
	if patch.Name != nil {
		set.add("college_name", *patch.Name)
	}
	if set.empty() {
		return countMatches(ctx, r.db, "colleges", "college_code", op, key)
	}
	sql, args := set.update("colleges", "college_code", op, key)
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapErr(err)
	}
	return int(tag.RowsAffected()), nil
}

// Delete removes a college. Its programs keep a NULL college reference.
func (r *CollegeRepository) Delete(ctx context.Context, code string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM colleges WHERE college_code = $1`, code)
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

// BatchDelete removes every college in codes.
func (r *CollegeRepository) BatchDelete(ctx context.Context, codes []string) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM colleges WHERE college_code = ANY($1)`, codes)
	if err != nil {
		return 0, mapErr(err)
	}
	return int(tag.RowsAffected()), nil
}

// countMatches stands in for an UPDATE with nothing to set.
func countMatches(ctx context.Context, db querier, table, key, op string, arg any) (int, error) {
	var n int
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s %s", table, key, fmt.Sprintf(op, 1))
	if err := db.QueryRow(ctx, sql, arg).Scan(&n); err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

var _ repository.CollegeRepository = (*CollegeRepository)(nil)
