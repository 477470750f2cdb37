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

// CollegeService handles college business logic.
type CollegeService struct {
	base
}

// NewCollegeService creates a new CollegeService.
func NewCollegeService(store repository.Store, v *validator.Validator, pageSize int, log zerolog.Logger) *CollegeService {
	return &CollegeService{base: newBase(store, v, pageSize, log, "college_service")}
}

// Schema describes the searchable and sortable college fields.
func (s *CollegeService) Schema() query.Schema { return query.Colleges }

// Add creates a college after rejecting duplicates.
func (s *CollegeService) Add(ctx context.Context, req model.CreateCollegeRequest) (*model.College, model.Mutation, error) {
	trim(&req.Code)
	trim(&req.Name)
	if err := s.check(&req); err != nil {
		return nil, model.Mutation{}, err
	}

	key := "College " + req.Code
	exists, err := s.store.Colleges().Exists(ctx, req.Code)
	if err != nil {
		return nil, model.Mutation{}, s.fail("check", key, err)
	}
	if exists {
		return nil, model.Mutation{}, apperror.Integrity(key + " already exists")
	}

	c := &model.College{Code: req.Code, Name: req.Name}
	if err := s.store.Colleges().Add(ctx, c); err != nil {
		return nil, model.Mutation{}, s.fail("add", key, err)
	}
	s.log.Info().Str("college_code", c.Code).Msg("College added")
	return c, model.Mutation{Message: key + " added", Affected: 1}, nil
}

// Get retrieves a college by code.
func (s *CollegeService) Get(ctx context.Context, code string) (*model.College, error) {
	c, err := s.store.Colleges().GetByCode(ctx, code)
	if err != nil {
		return nil, s.fail("get", "College "+code, err)
	}
	return c, nil
}

// List returns one page of colleges.
func (s *CollegeService) List(ctx context.Context, q model.ListQuery) (model.Page[model.College], error) {
	q = s.listQuery(q)
	items, total, err := s.store.Colleges().GetPage(ctx, q)
	if err != nil {
		return model.Page[model.College]{}, s.fail("list", "colleges", err)
	}
	return model.NewPage(items, q.Page, q.PageSize, total), nil
}

// Options lists every college ordered by code, for pickers.
func (s *CollegeService) Options(ctx context.Context) ([]model.College, error) {
	all, err := repository.CollectAll(ctx, s.listQuery(model.ListQuery{}), s.store.Colleges().GetPage)
	if err != nil {
		return nil, s.fail("list", "colleges", err)
	}
	return all, nil
}

// Update renames a college and/or changes its name. A rename moves every
// program of the college to the new code in the same transaction.
func (s *CollegeService) Update(ctx context.Context, code string, patch model.CollegePatch) (model.Mutation, error) {
	trim(patch.Code)
	trim(patch.Name)
	if err := s.check(&patch); err != nil {
		return model.Mutation{}, err
	}
	if patch.Empty() {
		return model.Mutation{}, apperror.Validation("nothing to update")
	}

	key := "College " + code
	if _, err := s.store.Colleges().GetByCode(ctx, code); err != nil {
		return model.Mutation{}, s.fail("get", key, err)
	}

	renamed := patch.Code != nil && *patch.Code != code
	var programs []string
	if renamed {
		taken, err := s.store.Colleges().Exists(ctx, *patch.Code)
		if err != nil {
			return model.Mutation{}, s.fail("check", key, err)
		}
		if taken {
			return model.Mutation{}, apperror.Integrity(fmt.Sprintf("College %s already exists", *patch.Code))
		}
		if programs, err = s.store.Programs().KeysByCollege(ctx, code); err != nil {
			return model.Mutation{}, s.fail("list programs of", key, err)
		}
	}

	var cascaded int
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		ok, err := tx.Colleges().Update(ctx, code, patch)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NotFound(key + " not found")
		}
		if len(programs) > 0 {
			cascaded, err = tx.Programs().BatchUpdate(ctx, programs, model.ProgramPatch{CollegeCode: patch.Code})
		}
		return err
	})
	if err != nil {
		return model.Mutation{}, s.fail("update", key, err)
	}

	s.log.Info().Str("college_code", code).Bool("renamed", renamed).Int("cascaded", cascaded).Msg("College updated")
	msg := key + " updated"
	if renamed {
		msg = fmt.Sprintf("%s renamed to %s; %s moved", key, *patch.Code, plural(cascaded, "program", "programs"))
	}
	return model.Mutation{Message: msg, Affected: 1, Cascaded: cascaded}, nil
}

// Delete removes a college. Its programs are kept with no college.
func (s *CollegeService) Delete(ctx context.Context, code string) (model.Mutation, error) {
	m, err := s.deleteAll(ctx, []string{code}, "College "+code)
	if err != nil {
		return model.Mutation{}, err
	}
	if m.Affected == 0 {
		return model.Mutation{}, apperror.NotFound("College " + code + " not found")
	}
	m.Message = fmt.Sprintf("College %s deleted; %s detached", code, plural(m.Cascaded, "program", "programs"))
	return m, nil
}

// BatchDelete removes every college in codes. Unknown codes are skipped.
func (s *CollegeService) BatchDelete(ctx context.Context, codes []string) (model.Mutation, error) {
	codes, err := requireKeys(codes)
	if err != nil {
		return model.Mutation{}, err
	}
	m, err := s.deleteAll(ctx, codes, "colleges")
	if err != nil {
		return model.Mutation{}, err
	}
	m.Message = fmt.Sprintf("%s deleted; %s detached",
		plural(m.Affected, "college", "colleges"), plural(m.Cascaded, "program", "programs"))
	return m, nil
}

func (s *CollegeService) deleteAll(ctx context.Context, codes []string, key string) (model.Mutation, error) {
	programs, err := s.store.Programs().KeysByCollege(ctx, codes...)
	if err != nil {
		return model.Mutation{}, s.fail("list programs of", key, err)
	}

	var m model.Mutation
	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if m.Affected, err = tx.Colleges().BatchDelete(ctx, codes); err != nil || m.Affected == 0 {
			return err
		}
		if len(programs) > 0 {
			none := model.None
			m.Cascaded, err = tx.Programs().BatchUpdate(ctx, programs, model.ProgramPatch{CollegeCode: &none})
		}
		return err
	})
	if err != nil {
		return model.Mutation{}, s.fail("delete", key, err)
	}
	s.log.Info().Strs("college_codes", codes).Int("deleted", m.Affected).Int("cascaded", m.Cascaded).Msg("Colleges deleted")
	return m, nil
}
