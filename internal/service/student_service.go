package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/apperror"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/query"
	"github.com/stemsi/lexis/internal/repository"
	"github.com/stemsi/lexis/internal/validator"
)

// StudentService handles student business logic.
type StudentService struct {
	base
}

// NewStudentService creates a new StudentService.
func NewStudentService(store repository.Store, v *validator.Validator, pageSize int, log zerolog.Logger) *StudentService {
	return &StudentService{base: newBase(store, v, pageSize, log, "student_service")}
}

// Schema describes the searchable and sortable student fields.
func (s *StudentService) Schema() query.Schema { return query.Students }

// Add enrols a student in an existing program. When the request names a
// college it must be the program's college.
func (s *StudentService) Add(ctx context.Context, req model.CreateStudentRequest) (*model.Student, model.Mutation, error) {
	trim(&req.IDNumber)
	trim(&req.FirstName)
	trim(&req.LastName)
	trim(&req.ProgramCode)
	trim(&req.CollegeCode)
	if err := s.check(&req); err != nil {
		return nil, model.Mutation{}, err
	}
	gender, _ := model.ParseGender(req.Gender)

	key := "Student " + req.IDNumber
	exists, err := s.store.Students().Exists(ctx, req.IDNumber)
	if err != nil {
		return nil, model.Mutation{}, s.fail("check", key, err)
	}
	if exists {
		return nil, model.Mutation{}, apperror.Integrity(key + " already exists")
	}

	program, err := s.store.Programs().GetByCode(ctx, req.ProgramCode)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, model.Mutation{}, apperror.Integrity(fmt.Sprintf("Program %s does not exist", req.ProgramCode))
	case err != nil:
		return nil, model.Mutation{}, s.fail("get", "Program "+req.ProgramCode, err)
	}
	if !model.IsNone(req.CollegeCode) {
		ok, err := s.store.Colleges().Exists(ctx, req.CollegeCode)
		if err != nil {
			return nil, model.Mutation{}, s.fail("check", "College "+req.CollegeCode, err)
		}
		if !ok {
			return nil, model.Mutation{}, apperror.Integrity(fmt.Sprintf("College %s does not exist", req.CollegeCode))
		}
		if program.CollegeCode != req.CollegeCode {
			return nil, model.Mutation{}, apperror.Integrity(
				fmt.Sprintf("Program %s does not belong to College %s", program.Code, req.CollegeCode))
		}
	}

	st := &model.Student{
		IDNumber:    req.IDNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		YearLevel:   req.YearLevel,
		Gender:      gender,
		ProgramCode: program.Code,
	}
	if err := s.store.Students().Add(ctx, st); err != nil {
		return nil, model.Mutation{}, s.fail("add", key, err)
	}
	st.CollegeCode = model.OrNone(program.CollegeCode)
	s.log.Info().Str("id_number", st.IDNumber).Str("program_code", st.ProgramCode).Msg("Student added")
	return st, model.Mutation{Message: key + " added", Affected: 1}, nil
}

// Get retrieves a student with the college derived from the program.
func (s *StudentService) Get(ctx context.Context, id string) (*model.Student, error) {
	st, err := s.store.Students().GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("get", "Student "+id, err)
	}
	return st, nil
}

// List returns one page of students.
func (s *StudentService) List(ctx context.Context, q model.ListQuery) (model.Page[model.Student], error) {
	q = s.listQuery(q)
	items, total, err := s.store.Students().GetPage(ctx, q)
	if err != nil {
		return model.Page[model.Student]{}, s.fail("list", "students", err)
	}
	return model.NewPage(items, q.Page, q.PageSize, total), nil
}

// Update changes only the fields present in patch.
func (s *StudentService) Update(ctx context.Context, id string, patch model.StudentPatch) (model.Mutation, error) {
	if err := s.preparePatch(ctx, &patch); err != nil {
		return model.Mutation{}, err
	}

	key := "Student " + id
	if patch.IDNumber != nil && *patch.IDNumber != id {
		taken, err := s.store.Students().Exists(ctx, *patch.IDNumber)
		if err != nil {
			return model.Mutation{}, s.fail("check", key, err)
		}
		if taken {
			return model.Mutation{}, apperror.Integrity(fmt.Sprintf("Student %s already exists", *patch.IDNumber))
		}
	}

	ok, err := s.store.Students().Update(ctx, id, patch)
	if err != nil {
		return model.Mutation{}, s.fail("update", key, err)
	}
	if !ok {
		return model.Mutation{}, apperror.NotFound(key + " not found")
	}
	s.log.Info().Str("id_number", id).Msg("Student updated")
	return model.Mutation{Message: key + " updated", Affected: 1}, nil
}

// BatchUpdate applies the same year level, gender or program to many
// students. Identity and name fields cannot be batch-updated.
func (s *StudentService) BatchUpdate(ctx context.Context, req model.BatchUpdateStudentsRequest) (model.Mutation, error) {
	ids, err := requireKeys(req.IDs)
	if err != nil {
		return model.Mutation{}, err
	}
	req.IDs = ids
	if err := s.check(&req); err != nil {
		return model.Mutation{}, err
	}
	patch := req.Patch
	if patch.IDNumber != nil || patch.FirstName != nil || patch.LastName != nil {
		return model.Mutation{}, apperror.Validation("only year_level, gender and program_code can be batch-updated")
	}
	if err := s.preparePatch(ctx, &patch); err != nil {
		return model.Mutation{}, err
	}

	n, err := s.store.Students().BatchUpdate(ctx, ids, patch)
	if err != nil {
		return model.Mutation{}, s.fail("update", "students", err)
	}
	if n == 0 {
		return model.Mutation{}, apperror.NotFound("no matching students")
	}
	s.log.Info().Int("requested", len(ids)).Int("updated", n).Msg("Students updated")
	return model.Mutation{Message: plural(n, "student", "students") + " updated", Affected: n}, nil
}

// preparePatch validates and normalises patch and checks the program it
// names, if any.
func (s *StudentService) preparePatch(ctx context.Context, patch *model.StudentPatch) error {
	trim(patch.IDNumber)
	trim(patch.FirstName)
	trim(patch.LastName)
	trim(patch.ProgramCode)
	if err := s.check(patch); err != nil {
		return err
	}
	if patch.Empty() {
		return apperror.Validation("nothing to update")
	}
	if patch.Gender != nil {
		g, _ := model.ParseGender(*patch.Gender)
		normalised := string(g)
		patch.Gender = &normalised
	}
	if patch.ProgramCode == nil {
		return nil
	}
	code := model.OrNone(*patch.ProgramCode)
	patch.ProgramCode = &code
	if model.IsNone(code) {
		return nil
	}
	ok, err := s.store.Programs().Exists(ctx, code)
	if err != nil {
		return s.fail("check", "Program "+code, err)
	}
	if !ok {
		return apperror.Integrity(fmt.Sprintf("Program %s does not exist", code))
	}
	return nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id string) (model.Mutation, error) {
	key := "Student " + id
	ok, err := s.store.Students().Delete(ctx, id)
	if err != nil {
		return model.Mutation{}, s.fail("delete", key, err)
	}
	if !ok {
		return model.Mutation{}, apperror.NotFound(key + " not found")
	}
	s.log.Info().Str("id_number", id).Msg("Student deleted")
	return model.Mutation{Message: key + " deleted", Affected: 1}, nil
}

// BatchDelete removes every student in ids. Unknown IDs are skipped.
func (s *StudentService) BatchDelete(ctx context.Context, ids []string) (model.Mutation, error) {
	ids, err := requireKeys(ids)
	if err != nil {
		return model.Mutation{}, err
	}
	n, err := s.store.Students().BatchDelete(ctx, ids)
	if err != nil {
		return model.Mutation{}, s.fail("delete", "students", err)
	}
	s.log.Info().Strs("id_numbers", ids).Int("deleted", n).Msg("Students deleted")
	return model.Mutation{Message: plural(n, "student", "students") + " deleted", Affected: n}, nil
}
