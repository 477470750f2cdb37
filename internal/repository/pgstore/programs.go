package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/query"
	"github.com/stemsi/lexis/internal/repository"
)

const programColumns = `p.program_code, p.program_name, COALESCE(p.college_code, 'N/A')`

// ProgramRepository handles program data access.
type ProgramRepository struct {
	db querier
}

var _ repository.ProgramRepository = (*ProgramRepository)(nil)

func scanProgram(row pgx.Row) (model.Program, error) {
	var p model.Program
	err := row.Scan(&p.Code, &p.Name, &p.CollegeCode)
	return p, err
}

func (r *ProgramRepository) Exists(ctx context.Context, code string) (bool, error) {
	return exists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM programs WHERE program_code = $1)`, code)
}

func (r *ProgramRepository) Add(ctx context.Context, p *model.Program) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO programs (program_code, program_name, college_code) VALUES ($1, $2, $3)`,
		p.Code, p.Name, nullable(p.CollegeCode),
	)
	return mapErr(err)
}

func (r *ProgramRepository) GetByCode(ctx context.Context, code string) (*model.Program, error) {
	p, err := scanProgram(r.db.QueryRow(ctx,
		`SELECT `+programColumns+` FROM programs p WHERE p.program_code = $1`, code))
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *ProgramRepository) GetPage(ctx context.Context, q model.ListQuery) ([]model.Program, int, error) {
	plan, err := query.Build(query.Programs, q)
	if err != nil {
		return nil, 0, err
	}
	return page(ctx, r.db, plan, programColumns, `FROM programs p`,
		func(rows pgx.Rows) (model.Program, error) { return scanProgram(rows) })
}

func (r *ProgramRepository) Update(ctx context.Context, code string, patch model.ProgramPatch) (bool, error) {
	n, err := r.update(ctx, patch, "= $%d", code)
	return n > 0, err
}

func (r *ProgramRepository) BatchUpdate(ctx context.Context, codes []string, patch model.ProgramPatch) (int, error) {
	return r.update(ctx, patch, "= ANY($%d)", codes)
}

func (r *ProgramRepository) update(ctx context.Context, patch model.ProgramPatch, op string, key any) (int, error) {
	var set setList
	if patch.Code != nil {
		set.add("program_code", *patch.Code)
	}
	if patch.Name != nil {
		set.add("program_name", *patch.Name)
	}
	if patch.CollegeCode != nil {
		set.add("college_code", nullable(*patch.CollegeCode))
	}
	if set.empty() {
		return countMatches(ctx, r.db, "programs", "program_code", op, key)
	}
	sql, args := set.update("programs", "program_code", op, key)
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapErr(err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *ProgramRepository) Delete(ctx context.Context, code string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM programs WHERE program_code = $1`, code)
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ProgramRepository) BatchDelete(ctx context.Context, codes []string) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM programs WHERE program_code = ANY($1)`, codes)
	if err != nil {
		return 0, mapErr(err)
	}
	return int(tag.RowsAffected()), nil
}

// KeysByCollege lists program codes attached to any of the colleges.
func (r *ProgramRepository) KeysByCollege(ctx context.Context, collegeCodes ...string) ([]string, error) {
	return keys(ctx, r.db,
		`SELECT program_code FROM programs WHERE college_code = ANY($1) ORDER BY program_code`,
		collegeCodes)
}
