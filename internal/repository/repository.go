// Package repository defines the persistence contract shared by the
// flat-file and relational backends.
package repository

import (
	"context"
	"errors"

	"github.com/stemsi/lexis/internal/model"
)

var (
	// ErrNotFound is returned when no record has the given key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write would violate key uniqueness.
	ErrDuplicate = errors.New("record already exists")
	// ErrDangling is returned when a write references a parent that does not exist.
	ErrDangling = errors.New("referenced record does not exist")
	// ErrUnavailable is returned when the backend cannot be reached or opened.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrCorrupt is returned when stored data does not match the expected schema.
	ErrCorrupt = errors.New("stored data is malformed")
)

// CollegeRepository stores colleges keyed by code.
type CollegeRepository interface {
	Exists(ctx context.Context, code string) (bool, error)
	Add(ctx context.Context, c *model.College) error
	GetByCode(ctx context.Context, code string) (*model.College, error)
	GetPage(ctx context.Context, q model.ListQuery) ([]model.College, int, error)
	// Update applies patch and reports whether a record was mutated.
	Update(ctx context.Context, code string, patch model.CollegePatch) (bool, error)
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, code string) (bool, error)
	BatchUpdate(ctx context.Context, codes []string, patch model.CollegePatch) (int, error)
	BatchDelete(ctx context.Context, codes []string) (int, error)
}

// ProgramRepository stores programs keyed by code.
type ProgramRepository interface {
	Exists(ctx context.Context, code string) (bool, error)
	Add(ctx context.Context, p *model.Program) error
	GetByCode(ctx context.Context, code string) (*model.Program, error)
	GetPage(ctx context.Context, q model.ListQuery) ([]model.Program, int, error)
	Update(ctx context.Context, code string, patch model.ProgramPatch) (bool, error)
	Delete(ctx context.Context, code string) (bool, error)
	BatchUpdate(ctx context.Context, codes []string, patch model.ProgramPatch) (int, error)
	BatchDelete(ctx context.Context, codes []string) (int, error)
	// KeysByCollege lists the codes of programs attached to any of the given colleges.
	KeysByCollege(ctx context.Context, collegeCodes ...string) ([]string, error)
}

// StudentRepository stores students keyed by ID number. Returned students
// carry their derived college code.
type StudentRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	Add(ctx context.Context, s *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetPage(ctx context.Context, q model.ListQuery) ([]model.Student, int, error)
	Update(ctx context.Context, id string, patch model.StudentPatch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	BatchUpdate(ctx context.Context, ids []string, patch model.StudentPatch) (int, error)
	BatchDelete(ctx context.Context, ids []string) (int, error)
	// KeysByProgram lists the IDs of students enrolled in any of the given programs.
	KeysByProgram(ctx context.Context, programCodes ...string) ([]string, error)
}

// Tx exposes the repositories bound to one unit of work.
type Tx interface {
	Colleges() CollegeRepository
	Programs() ProgramRepository
	Students() StudentRepository
}

// Store is a persistence backend. Repositories returned directly by the
// store run each call as its own unit of work; WithinTx groups calls so that
// they are applied together or not at all.
type Store interface {
	Tx
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	Close()
}
