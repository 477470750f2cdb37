package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/apperror"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/query"
	"github.com/stemsi/lexis/internal/repository"
	"github.com/stemsi/lexis/internal/validator"
)

// ProgramService handles program business logic.
type ProgramService struct {
	base
}

// NewProgramService creates a new ProgramService.
func NewProgramService(store repository.Store, v *validator.Validator, pageSize int, log zerolog.Logger) *ProgramService {
	return &ProgramService{base: newBase(store, v, pageSize, log, "program_service")}
}

// Schema describes the searchable and sortable program fields.
func (s *ProgramService) Schema() query.Schema { return query.Programs }

// Add creates a program under an existing college.
func (s *ProgramService) Add(ctx context.Context, req model.CreateProgramRequest) (*model.Program, model.Mutation, error) {
	trim(&req.Code)
	trim(&req.Name)
	trim(&req.CollegeCode)
	if err := s.check(&req); err != nil {
		return nil, model.Mutation{}, err
	}

	key := "Program " + req.Code
	exists, err := s.store.Programs().Exists(ctx, req.Code)
	if err != nil {
		return nil, model.Mutation{}, s.fail("check", key, err)
	}
	if exists {
		return nil, model.Mutation{}, apperror.Integrity(key + " already exists")
	}
	if err := s.requireCollege(ctx, req.CollegeCode); err != nil {
		return nil, model.Mutation{}, err
	}

	p := &model.Program{Code: req.Code, Name: req.Name, CollegeCode: req.CollegeCode}
	if err := s.store.Programs().Add(ctx, p); err != nil {
		return nil, model.Mutation{}, s.fail("add", key, err)
	}
	s.log.Info().Str("program_code", p.Code).Str("college_code", p.CollegeCode).Msg("Program added")
	return p, model.Mutation{Message: key + " added", Affected: 1}, nil
}

// requireCollege fails with an integrity error unless code is None or an
// existing college.
func (s *ProgramService) requireCollege(ctx context.Context, code string) error {
	if model.IsNone(code) {
		return nil
	}
	ok, err := s.store.Colleges().Exists(ctx, code)
	if err != nil {
		return s.fail("check", "College "+code, err)
	}
	if !ok {
		return apperror.Integrity(fmt.Sprintf("College %s does not exist", code))
	}
	return nil
}

// Get retrieves a program by code.
func (s *ProgramService) Get(ctx context.Context, code string) (*model.Program, error) {
	p, err := s.store.Programs().GetByCode(ctx, code)
	if err != nil {
		return nil, s.fail("get", "Program "+code, err)
	}
	return p, nil
}

// List returns one page of programs.
func (s *ProgramService) List(ctx context.Context, q model.ListQuery) (model.Page[model.Program], error) {
	q = s.listQuery(q)
	items, total, err := s.store.Programs().GetPage(ctx, q)
	if err != nil {
		return model.Page[model.Program]{}, s.fail("list", "programs", err)
	}
	return model.NewPage(items, q.Page, q.PageSize, total), nil
}

// ByCollege lists every program of an existing college, ordered by code.
func (s *ProgramService) ByCollege(ctx context.Context, collegeCode string) ([]model.Program, error) {
	key := "College " + collegeCode
	ok, err := s.store.Colleges().Exists(ctx, collegeCode)
	if err != nil {
		return nil, s.fail("check", key, err)
	}
	if !ok {
		return nil, apperror.NotFound(key + " not found")
	}
	q := s.listQuery(model.ListQuery{Field: "college_code", Term: collegeCode})
	all, err := repository.CollectAll(ctx, q, s.store.Programs().GetPage)
	if err != nil {
		return nil, s.fail("list programs of", key, err)
	}
	return all, nil
}

// Update renames a program, changes its name or moves it to another
// college. A rename moves every student of the program to the new code in
// the same transaction.
func (s *ProgramService) Update(ctx context.Context, code string, patch model.ProgramPatch) (model.Mutation, error) {
	trim(patch.Code)
	trim(patch.Name)
	trim(patch.CollegeCode)
	if err := s.check(&patch); err != nil {
		return model.Mutation{}, err
	}
	if patch.Empty() {
		return model.Mutation{}, apperror.Validation("nothing to update")
	}
	if patch.CollegeCode != nil {
		normalised := model.OrNone(*patch.CollegeCode)
		patch.CollegeCode = &normalised
	}

	key := "Program " + code
	if _, err := s.store.Programs().GetByCode(ctx, code); err != nil {
		return model.Mutation{}, s.fail("get", key, err)
	}
	if patch.CollegeCode != nil {
		if err := s.requireCollege(ctx, *patch.CollegeCode); err != nil {
			return model.Mutation{}, err
		}
	}

	renamed := patch.Code != nil && *patch.Code != code
	var students []string
	if renamed {
		taken, err := s.store.Programs().Exists(ctx, *patch.Code)
		if err != nil {
			return model.Mutation{}, s.fail("check", key, err)
		}
		if taken {
			return model.Mutation{}, apperror.Integrity(fmt.Sprintf("Program %s already exists", *patch.Code))
		}
		if students, err = s.store.Students().KeysByProgram(ctx, code); err != nil {
			return model.Mutation{}, s.fail("list students of", key, err)
		}
	}

	var cascaded int
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		ok, err := tx.Programs().Update(ctx, code, patch)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NotFound(key + " not found")
		}
		if len(students) > 0 {
			cascaded, err = tx.Students().BatchUpdate(ctx, students, model.StudentPatch{ProgramCode: patch.Code})
		}
		return err
	})
	if err != nil {
		return model.Mutation{}, s.fail("update", key, err)
	}

	s.log.Info().Str("program_code", code).Bool("renamed", renamed).Int("cascaded", cascaded).Msg("Program updated")
	msg := key + " updated"
	if renamed {
		msg = fmt.Sprintf("%s renamed to %s; %s moved", key, *patch.Code, plural(cascaded, "student", "students"))
	}
	return model.Mutation{Message: msg, Affected: 1, Cascaded: cascaded}, nil
}

// Delete removes a program. Its students are kept with no program.
func (s *ProgramService) Delete(ctx context.Context, code string) (model.Mutation, error) {
	m, err := s.deleteAll(ctx, []string{code}, "Program "+code)
	if err != nil {
		return model.Mutation{}, err
	}
	if m.Affected == 0 {
		return model.Mutation{}, apperror.NotFound("Program " + code + " not found")
	}
	m.Message = fmt.Sprintf("Program %s deleted; %s unassigned", code, plural(m.Cascaded, "student", "students"))
	return m, nil
}

// BatchDelete removes every program in codes. Unknown codes are skipped.
func (s *ProgramService) BatchDelete(ctx context.Context, codes []string) (model.Mutation, error) {
	codes, err := requireKeys(codes)
	if err != nil {
		return model.Mutation{}, err
	}
	m, err := s.deleteAll(ctx, codes, "programs")
	if err != nil {
		return model.Mutation{}, err
	}
	m.Message = fmt.Sprintf("%s deleted; %s unassigned",
		plural(m.Affected, "program", "programs"), plural(m.Cascaded, "student", "students"))
	return m, nil
}

func (s *ProgramService) deleteAll(ctx context.Context, codes []string, key string) (model.Mutation, error) {
	students, err := s.store.Students().KeysByProgram(ctx, codes...)
	if err != nil {
		return model.Mutation{}, s.fail("list students of", key, err)
	}

	var m model.Mutation
	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if m.Affected, err = tx.Programs().BatchDelete(ctx, codes); err != nil || m.Affected == 0 {
			return err
		}
		if len(students) > 0 {
			none := model.None
			m.Cascaded, err = tx.Students().BatchUpdate(ctx, students, model.StudentPatch{ProgramCode: &none})
		}
		return err
	})
	if err != nil {
		return model.Mutation{}, s.fail("delete", key, err)
	}
	s.log.Info().Strs("program_codes", codes).Int("deleted", m.Affected).Int("cascaded", m.Cascaded).Msg("Programs deleted")
	return m, nil
}
