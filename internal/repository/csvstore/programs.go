package csvstore

import (
	"context"
	"fmt"

	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/query"
	"github.com/stemsi/lexis/internal/repository"
)

type programRepo struct {
	run runner
}

func (r programRepo) Exists(ctx context.Context, code string) (bool, error) {
	var found bool
	err := r.run(ctx, func(ds *dataset) error {
		found = ds.programIndex(code) >= 0
		return nil
	})
	return found, err
}

func (r programRepo) Add(ctx context.Context, p *model.Program) error {
	return r.run(ctx, func(ds *dataset) error {
		if ds.programIndex(p.Code) >= 0 {
			return fmt.Errorf("%w: program %s", repository.ErrDuplicate, p.Code)
		}
		if err := checkCollegeRef(ds, p.CollegeCode); err != nil {
			return err
		}
		added := *p
		added.CollegeCode = model.OrNone(added.CollegeCode)
		ds.programs = append(ds.programs, added)
		ds.dirtyPrograms = true
		return nil
	})
}

func (r programRepo) GetByCode(ctx context.Context, code string) (*model.Program, error) {
	var out *model.Program
	err := r.run(ctx, func(ds *dataset) error {
		i := ds.programIndex(code)
		if i < 0 {
			return fmt.Errorf("%w: program %s", repository.ErrNotFound, code)
		}
		p := ds.programs[i]
		out = &p
		return nil
	})
	return out, err
}

func (r programRepo) GetPage(ctx context.Context, q model.ListQuery) ([]model.Program, int, error) {
	plan, err := query.Build(query.Programs, q)
	if err != nil {
		return nil, 0, err
	}
	var (
		page  []model.Program
		total int
	)
	err = r.run(ctx, func(ds *dataset) error {
		page, total = query.Run(plan, ds.programs, programField)
		return nil
	})
	return page, total, err
}

func (r programRepo) Update(ctx context.Context, code string, patch model.ProgramPatch) (bool, error) {
	var updated bool
	err := r.run(ctx, func(ds *dataset) error {
		var err error
		updated, err = updateProgram(ds, code, patch)
		return err
	})
	return updated, err
}

func (r programRepo) Delete(ctx context.Context, code string) (bool, error) {
	n, err := r.BatchDelete(ctx, []string{code})
	return n > 0, err
}

func (r programRepo) BatchUpdate(ctx context.Context, codes []string, patch model.ProgramPatch) (int, error) {
	var n int
	err := r.run(ctx, func(ds *dataset) error {
		for _, code := range codes {
			ok, err := updateProgram(ds, code, patch)
			if err != nil {
				return err
			}
			if ok {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r programRepo) BatchDelete(ctx context.Context, codes []string) (int, error) {
	var n int
	err := r.run(ctx, func(ds *dataset) error {
		drop := keySet(codes)
		kept := ds.programs[:0]
		for _, p := range ds.programs {
			if _, ok := drop[p.Code]; ok {
				n++
				continue
			}
			kept = append(kept, p)
		}
		ds.programs = kept
		ds.dirtyPrograms = ds.dirtyPrograms || n > 0
		return nil
	})
	return n, err
}

func (r programRepo) KeysByCollege(ctx context.Context, collegeCodes ...string) ([]string, error) {
	var keys []string
	err := r.run(ctx, func(ds *dataset) error {
		want := keySet(collegeCodes)
		for _, p := range ds.programs {
			if _, ok := want[p.CollegeCode]; ok {
				keys = append(keys, p.Code)
			}
		}
		return nil
	})
	return keys, err
}

func updateProgram(ds *dataset, code string, patch model.ProgramPatch) (bool, error) {
	i := ds.programIndex(code)
	if i < 0 {
		return false, nil
	}
	next := ds.programs[i]
	patch.Apply(&next)
	next.CollegeCode = model.OrNone(next.CollegeCode)
	if next.Code != code && ds.programIndex(next.Code) >= 0 {
		return false, fmt.Errorf("%w: program %s", repository.ErrDuplicate, next.Code)
	}
	if patch.CollegeCode != nil {
		if err := checkCollegeRef(ds, next.CollegeCode); err != nil {
			return false, err
		}
	}
	ds.programs[i] = next
	ds.dirtyPrograms = true
	return true, nil
}

func checkCollegeRef(ds *dataset, code string) error {
	if model.IsNone(code) || ds.collegeIndex(code) >= 0 {
		return nil
	}
	return fmt.Errorf("%w: college %s", repository.ErrDangling, code)
}
