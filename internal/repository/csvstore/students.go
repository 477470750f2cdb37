package csvstore

import (
	"context"
	"fmt"

	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/query"
	"github.com/stemsi/lexis/internal/repository"
)

type studentRepo struct {
	run runner
}

func (r studentRepo) Exists(ctx context.Context, id string) (bool, error) {
	var found bool
	err := r.run(ctx, func(ds *dataset) error {
		found = ds.studentIndex(id) >= 0
		return nil
	})
	return found, err
}

func (r studentRepo) Add(ctx context.Context, s *model.Student) error {
	return r.run(ctx, func(ds *dataset) error {
		if ds.studentIndex(s.IDNumber) >= 0 {
			return fmt.Errorf("%w: student %s", repository.ErrDuplicate, s.IDNumber)
		}
		if err := checkProgramRef(ds, s.ProgramCode); err != nil {
			return err
		}
		added := *s
		added.ProgramCode = model.OrNone(added.ProgramCode)
		added.CollegeCode = ""
		ds.students = append(ds.students, added)
		ds.dirtyStudents = true
		return nil
	})
}

func (r studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var out *model.Student
	err := r.run(ctx, func(ds *dataset) error {
		i := ds.studentIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: student %s", repository.ErrNotFound, id)
		}
		s := ds.withCollege(ds.students[i])
		out = &s
		return nil
	})
	return out, err
}

func (r studentRepo) GetPage(ctx context.Context, q model.ListQuery) ([]model.Student, int, error) {
	plan, err := query.Build(query.Students, q)
	if err != nil {
		return nil, 0, err
	}
	var (
		page  []model.Student
		total int
	)
	err = r.run(ctx, func(ds *dataset) error {
		joined := make([]model.Student, len(ds.students))
		for i, s := range ds.students {
			joined[i] = ds.withCollege(s)
		}
		page, total = query.Run(plan, joined, studentField)
		return nil
	})
	return page, total, err
}

func (r studentRepo) Update(ctx context.Context, id string, patch model.StudentPatch) (bool, error) {
	var updated bool
	err := r.run(ctx, func(ds *dataset) error {
		var err error
		updated, err = updateStudent(ds, id, patch)
		return err
	})
	return updated, err
}

func (r studentRepo) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.BatchDelete(ctx, []string{id})
	return n > 0, err
}

func (r studentRepo) BatchUpdate(ctx context.Context, ids []string, patch model.StudentPatch) (int, error) {
	var n int
	err := r.run(ctx, func(ds *dataset) error {
		for _, id := range ids {
			ok, err := updateStudent(ds, id, patch)
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

func (r studentRepo) BatchDelete(ctx context.Context, ids []string) (int, error) {
	var n int
	err := r.run(ctx, func(ds *dataset) error {
		drop := keySet(ids)
		kept := ds.students[:0]
		for _, s := range ds.students {
			if _, ok := drop[s.IDNumber]; ok {
				n++
				continue
			}
			kept = append(kept, s)
		}
		ds.students = kept
		ds.dirtyStudents = ds.dirtyStudents || n > 0
		return nil
	})
	return n, err
}

func (r studentRepo) KeysByProgram(ctx context.Context, programCodes ...string) ([]string, error) {
	var keys []string
	err := r.run(ctx, func(ds *dataset) error {
		want := keySet(programCodes)
		for _, s := range ds.students {
			if _, ok := want[s.ProgramCode]; ok {
				keys = append(keys, s.IDNumber)
			}
		}
		return nil
	})
	return keys, err
}

func updateStudent(ds *dataset, id string, patch model.StudentPatch) (bool, error) {
	i := ds.studentIndex(id)
	if i < 0 {
		return false, nil
	}
	next := ds.students[i]
	patch.Apply(&next)
	next.ProgramCode = model.OrNone(next.ProgramCode)
	if next.IDNumber != id && ds.studentIndex(next.IDNumber) >= 0 {
		return false, fmt.Errorf("%w: student %s", repository.ErrDuplicate, next.IDNumber)
	}
	if patch.ProgramCode != nil {
		if err := checkProgramRef(ds, next.ProgramCode); err != nil {
			return false, err
		}
	}
	ds.students[i] = next
	ds.dirtyStudents = true
	return true, nil
}

func checkProgramRef(ds *dataset, code string) error {
	if model.IsNone(code) || ds.programIndex(code) >= 0 {
		return nil
	}
	return fmt.Errorf("%w: program %s", repository.ErrDangling, code)
}
