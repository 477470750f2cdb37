package csvstore

import (
	"context"
	"fmt"

	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/query"
	"github.com/stemsi/lexis/internal/repository"
)

type collegeRepo struct {
	run runner
}

func (r collegeRepo) Exists(ctx context.Context, code string) (bool, error) {
	var found bool
	err := r.run(ctx, func(ds *dataset) error {
		found = ds.collegeIndex(code) >= 0
		return nil
	})
	return found, err
}

func (r collegeRepo) Add(ctx context.Context, c *model.College) error {
	return r.run(ctx, func(ds *dataset) error {
		if ds.collegeIndex(c.Code) >= 0 {
			return fmt.Errorf("%w: college %s", repository.ErrDuplicate, c.Code)
		}
		ds.colleges = append(ds.colleges, *c)
		ds.dirtyColleges = true
		return nil
	})
}

func (r collegeRepo) GetByCode(ctx context.Context, code string) (*model.College, error) {
	var out *model.College
	err := r.run(ctx, func(ds *dataset) error {
		i := ds.collegeIndex(code)
		if i < 0 {
			return fmt.Errorf("%w: college %s", repository.ErrNotFound, code)
		}
		c := ds.colleges[i]
		out = &c
		return nil
	})
	return out, err
}

func (r collegeRepo) GetPage(ctx context.Context, q model.ListQuery) ([]model.College, int, error) {
	plan, err := query.Build(query.Colleges, q)
	if err != nil {
		return nil, 0, err
	}
	var (
		page  []model.College
		total int
	)
	err = r.run(ctx, func(ds *dataset) error {
		page, total = query.Run(plan, ds.colleges, collegeField)
		return nil
	})
	return page, total, err
}

func (r collegeRepo) Update(ctx context.Context, code string, patch model.CollegePatch) (bool, error) {
	var updated bool
	err := r.run(ctx, func(ds *dataset) error {
		var err error
		updated, err = updateCollege(ds, code, patch)
		return err
	})
	return updated, err
}

func (r collegeRepo) Delete(ctx context.Context, code string) (bool, error) {
	n, err := r.BatchDelete(ctx, []string{code})
	return n > 0, err
}

func (r collegeRepo) BatchUpdate(ctx context.Context, codes []string, patch model.CollegePatch) (int, error) {
	var n int
	err := r.run(ctx, func(ds *dataset) error {
		for _, code := range codes {
			ok, err := updateCollege(ds, code, patch)
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

func (r collegeRepo) BatchDelete(ctx context.Context, codes []string) (int, error) {
	var n int
	err := r.run(ctx, func(ds *dataset) error {
		drop := keySet(codes)
		kept := ds.colleges[:0]
		for _, c := range ds.colleges {
			if _, ok := drop[c.Code]; ok {
				n++
				continue
			}
			kept = append(kept, c)
		}
		ds.colleges = kept
		ds.dirtyColleges = ds.dirtyColleges || n > 0
		return nil
	})
	return n, err
}

func updateCollege(ds *dataset, code string, patch model.CollegePatch) (bool, error) {
	i := ds.collegeIndex(code)
	if i < 0 {
		return false, nil
	}
	next := ds.colleges[i]
	patch.Apply(&next)
	if next.Code != code && ds.collegeIndex(next.Code) >= 0 {
		return false, fmt.Errorf("%w: college %s", repository.ErrDuplicate, next.Code)
	}
	ds.colleges[i] = next
	ds.dirtyColleges = true
	return true, nil
}
