package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/query"
	"github.com/stemsi/lexis/internal/repository"
)

// The college is read through the program, never stored on the student.
const (
	studentColumns = `s.id_number, s.first_name, s.last_name, s.year_level, s.gender::text,
		COALESCE(s.program_code, 'N/A'), COALESCE(p.college_code, 'N/A')`
	studentFrom = `FROM students s LEFT JOIN programs p ON p.program_code = s.program_code`
)

// StudentRepository handles student data access.
type StudentRepository struct {
	db querier
}

var _ repository.StudentRepository = (*StudentRepository)(nil)

func scanStudent(row pgx.Row) (model.Student, error) {
	var (
		s      model.Student
		gender string
	)
	err := row.Scan(&s.IDNumber, &s.FirstName, &s.LastName, &s.YearLevel, &gender,
		&s.ProgramCode, &s.CollegeCode)
	s.Gender = model.Gender(gender)
	return s, err
}

// Exists reports whether a student with the ID number exists.
func (r *StudentRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, `SELECT EXISTS (SELECT 1 FROM students WHERE id_number = $1)`, id)
}

// Add inserts a new student.
func (r *StudentRepository) Add(ctx context.Context, s *model.Student) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO students (id_number, first_name, last_name, year_level, gender, program_code)
		 VALUES ($1, $2, $3, $4, $5::gender, $6)`,
		s.IDNumber, s.FirstName, s.LastName, s.YearLevel, string(s.Gender), nullable(s.ProgramCode),
	)
	return mapErr(err)
}

// GetByID retrieves a student with the derived college.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*model.Student, error) {
	s, err := scanStudent(r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` `+studentFrom+` WHERE s.id_number = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

// GetPage returns one page of students matching q and the total match count.
func (r *StudentRepository) GetPage(ctx context.Context, q model.ListQuery) ([]model.Student, int, error) {
	plan, err := query.Build(query.Students, q)
	if err != nil {
		return nil, 0, err
	}
	return page(ctx, r.db, plan, studentColumns, studentFrom,
		func(rows pgx.Rows) (model.Student, error) { return scanStudent(rows) })
}

// Update applies a partial update.
func (r *StudentRepository) Update(ctx context.Context, id string, patch model.StudentPatch) (bool, error) {
	n, err := r.update(ctx, patch, "= $%d", id)
	return n > 0, err
}

// BatchUpdate applies patch to every student in ids.
func (r *StudentRepository) BatchUpdate(ctx context.Context, ids []string, patch model.StudentPatch) (int, error) {
	return r.update(ctx, patch, "= ANY($%d)", ids)
}

func (r *StudentRepository) update(ctx context.Context, patch model.StudentPatch, op string, key any) (int, error) {
	var set setList
	if patch.IDNumber != nil {
		set.add("id_number", *patch.IDNumber)
	}
	if patch.FirstName != nil {
		set.add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		set.add("last_name", *patch.LastName)
	}
	if patch.YearLevel != nil {
		set.add("year_level", *patch.YearLevel)
	}
	if patch.Gender != nil {
		set.addCast("gender", "gender", *patch.Gender)
	}
	if patch.ProgramCode != nil {
		set.add("program_code", nullable(*patch.ProgramCode))
	}
	if set.empty() {
		return countMatches(ctx, r.db, "students", "id_number", op, key)
	}
	sql, args := set.update("students", "id_number", op, key)
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapErr(err)
	}
	return int(tag.RowsAffected()), nil
}

// Delete removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id_number = $1`, id)
	if err != nil {
		return false, mapErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

// BatchDelete removes every student in ids.
func (r *StudentRepository) BatchDelete(ctx context.Context, ids []string) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id_number = ANY($1)`, ids)
	if err != nil {
		return 0, mapErr(err)
	}
	return int(tag.RowsAffected()), nil
}

// KeysByProgram lists the IDs of students enrolled in any of the programs.
func (r *StudentRepository) KeysByProgram(ctx context.Context, programCodes ...string) ([]string, error) {
	return keys(ctx, r.db,
		`SELECT id_number FROM students WHERE program_code = ANY($1) ORDER BY id_number`,
		programCodes)
}
