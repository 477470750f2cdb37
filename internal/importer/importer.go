// Package importer copies every record of one store into another, parents
// first, skipping records the destination already holds.
package importer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/repository"
)

// batchSize is the page size used to read the source.
const batchSize = 500

// Counts tallies one record type.
type Counts struct {
	Copied int `json:"copied"`
	// Skipped records already existed in the destination.
	Skipped int `json:"skipped"`
	// Detached records referenced a parent missing from the destination and
	// were copied with an N/A reference.
	Detached int `json:"detached"`
}

// Report is the outcome of an import.
type Report struct {
	Colleges Counts `json:"colleges"`
	Programs Counts `json:"programs"`
	Students Counts `json:"students"`
}

func (r Report) String() string {
	return fmt.Sprintf("colleges %d copied/%d skipped; programs %d copied/%d skipped/%d detached; students %d copied/%d skipped/%d detached",
		r.Colleges.Copied, r.Colleges.Skipped,
		r.Programs.Copied, r.Programs.Skipped, r.Programs.Detached,
		r.Students.Copied, r.Students.Skipped, r.Students.Detached)
}

// Importer copies records between stores.
type Importer struct {
	log zerolog.Logger
}

// New creates an Importer.
func New(log zerolog.Logger) *Importer {
	return &Importer{log: log.With().Str("component", "importer").Logger()}
}

// Import reads every record of src and writes the missing ones to dst in a
// single transaction. Nothing is written if any step fails.
func (im *Importer) Import(ctx context.Context, src, dst repository.Store) (Report, error) {
	colleges, err := readAll(ctx, src.Colleges().GetPage)
	if err != nil {
		return Report{}, fmt.Errorf("read colleges: %w", err)
	}
	programs, err := readAll(ctx, src.Programs().GetPage)
	if err != nil {
		return Report{}, fmt.Errorf("read programs: %w", err)
	}
	students, err := readAll(ctx, src.Students().GetPage)
	if err != nil {
		return Report{}, fmt.Errorf("read students: %w", err)
	}
	im.log.Info().
		Int("colleges", len(colleges)).
		Int("programs", len(programs)).
		Int("students", len(students)).
		Msg("Source read")

	var report Report
	err = dst.WithinTx(ctx, func(tx repository.Tx) error {
		report = Report{}
		if err := im.copyColleges(ctx, tx, colleges, &report.Colleges); err != nil {
			return err
		}
		if err := im.copyPrograms(ctx, tx, programs, &report.Programs); err != nil {
			return err
		}
		return im.copyStudents(ctx, tx, students, &report.Students)
	})
	if err != nil {
		return Report{}, err
	}
	im.log.Info().Str("report", report.String()).Msg("Import finished")
	return report, nil
}

func (im *Importer) copyColleges(ctx context.Context, tx repository.Tx, colleges []model.College, n *Counts) error {
	for i := range colleges {
		c := &colleges[i]
		exists, err := tx.Colleges().Exists(ctx, c.Code)
		if err != nil {
			return err
		}
		if exists {
			n.Skipped++
			continue
		}
		if err := tx.Colleges().Add(ctx, c); err != nil {
			return fmt.Errorf("college %s: %w", c.Code, err)
		}
		n.Copied++
	}
	return nil
}

func (im *Importer) copyPrograms(ctx context.Context, tx repository.Tx, programs []model.Program, n *Counts) error {
	for i := range programs {
		p := &programs[i]
		exists, err := tx.Programs().Exists(ctx, p.Code)
		if err != nil {
			return err
		}
		if exists {
			n.Skipped++
			continue
		}
		if !model.IsNone(p.CollegeCode) {
			ok, err := tx.Colleges().Exists(ctx, p.CollegeCode)
			if err != nil {
				return err
			}
			if !ok {
				im.log.Warn().Str("program_code", p.Code).Str("college_code", p.CollegeCode).Msg("College missing, importing program without one")
				p.CollegeCode = model.None
				n.Detached++
			}
		}
		if err := tx.Programs().Add(ctx, p); err != nil {
			return fmt.Errorf("program %s: %w", p.Code, err)
		}
		n.Copied++
	}
	return nil
}

func (im *Importer) copyStudents(ctx context.Context, tx repository.Tx, students []model.Student, n *Counts) error {
	for i := range students {
		s := &students[i]
		exists, err := tx.Students().Exists(ctx, s.IDNumber)
		if err != nil {
			return err
		}
		if exists {
			n.Skipped++
			continue
		}
		if !model.IsNone(s.ProgramCode) {
			ok, err := tx.Programs().Exists(ctx, s.ProgramCode)
			if err != nil {
				return err
			}
			if !ok {
				im.log.Warn().Str("id_number", s.IDNumber).Str("program_code", s.ProgramCode).Msg("Program missing, importing student without one")
				s.ProgramCode = model.None
				n.Detached++
			}
		}
		if err := tx.Students().Add(ctx, s); err != nil {
			return fmt.Errorf("student %s: %w", s.IDNumber, err)
		}
		n.Copied++
	}
	return nil
}

func readAll[T any](ctx context.Context, get func(context.Context, model.ListQuery) ([]T, int, error)) ([]T, error) {
	return repository.CollectAll(ctx, model.ListQuery{PageSize: batchSize}, get)
}
