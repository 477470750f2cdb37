// Package csvstore is the flat-file backend: one CSV file per record type,
// rewritten through a temporary file and an atomic rename.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/repository"
)

const (
	CollegesFile = "colleges.csv"
	ProgramsFile = "programs.csv"
	StudentsFile = "students.csv"
)

var _ repository.Store = (*Store)(nil)

// Store keeps records in three CSV files under one directory. Nothing is
// cached between calls: every unit of work reads the files, applies its
// changes in memory and rewrites only the files it changed.
type Store struct {
	dir string
	log zerolog.Logger

	// mu serialises units of work issued by this process.
	mu sync.Mutex

	// createTemp opens the file a table is staged in; os.CreateTemp outside tests.
	createTemp func(dir, pattern string) (*os.File, error)
}

// New opens the data directory, creating it and any missing file with its
// header row.
func New(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", repository.ErrUnavailable, err)
	}
	s := &Store{
		dir:        dir,
		log:        log.With().Str("component", "csv_store").Logger(),
		createTemp: os.CreateTemp,
	}
	for _, t := range tables {
		if err := s.initialize(t); err != nil {
			return nil, err
		}
	}
	s.log.Info().Str("dir", dir).Msg("CSV store ready")
	return s, nil
}

func (s *Store) initialize(t table) error {
	path := filepath.Join(s.dir, t.file)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", repository.ErrUnavailable, t.file, err)
	}
	s.log.Info().Str("file", t.file).Msg("Creating missing data file")
	return s.writeFile(t, nil)
}

// Colleges returns a repository whose calls each run as their own unit of work.
func (s *Store) Colleges() repository.CollegeRepository { return collegeRepo{run: s.run} }

// Programs returns a repository whose calls each run as their own unit of work.
func (s *Store) Programs() repository.ProgramRepository { return programRepo{run: s.run} }

// Students returns a repository whose calls each run as their own unit of work.
func (s *Store) Students() repository.StudentRepository { return studentRepo{run: s.run} }

// WithinTx loads all files once, runs fn against the in-memory data and
// rewrites the changed files only if fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.run(ctx, func(ds *dataset) error {
		return fn(txView{ds: ds})
	})
}

// Close is a no-op; files are opened and closed per unit of work.
func (s *Store) Close() {}

// runner executes fn against a loaded dataset.
type runner func(ctx context.Context, fn func(ds *dataset) error) error

func (s *Store) run(ctx context.Context, fn func(ds *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.load()
	if err != nil {
		s.log.Error().Err(err).Msg("Load failed")
		return err
	}
	if err := fn(ds); err != nil {
		return err
	}
	return s.flush(ds)
}

// txView binds repositories to a dataset that is already loaded.
type txView struct {
	ds *dataset
}

func (v txView) direct(_ context.Context, fn func(ds *dataset) error) error {
	return fn(v.ds)
}

func (v txView) Colleges() repository.CollegeRepository { return collegeRepo{run: v.direct} }
func (v txView) Programs() repository.ProgramRepository { return programRepo{run: v.direct} }
func (v txView) Students() repository.StudentRepository { return studentRepo{run: v.direct} }

func (s *Store) load() (*dataset, error) {
	ds := &dataset{}
	rows, err := s.readFile(collegesTable)
	if err != nil {
		return nil, err
	}
	if ds.colleges, err = decodeColleges(rows); err != nil {
		return nil, err
	}
	if rows, err = s.readFile(programsTable); err != nil {
		return nil, err
	}
	if ds.programs, err = decodePrograms(rows); err != nil {
		return nil, err
	}
	if rows, err = s.readFile(studentsTable); err != nil {
		return nil, err
	}
	if ds.students, err = decodeStudents(rows); err != nil {
		return nil, err
	}
	return ds, nil
}

// flush commits a unit of work in two steps. Every dirty table is first
// written in full to its own temporary file; only when all of them are on
// disk are they renamed over the originals. A failed write therefore leaves
// every original file untouched.
func (s *Store) flush(ds *dataset) (err error) {
	var pending []stagedFile
	defer func() {
		if err != nil {
			for _, f := range pending {
				os.Remove(f.tmp)
			}
		}
	}()

	for _, d := range []struct {
		dirty bool
		t     table
		rows  func() [][]string
	}{
		{ds.dirtyColleges, collegesTable, func() [][]string { return encodeColleges(ds.colleges) }},
		{ds.dirtyPrograms, programsTable, func() [][]string { return encodePrograms(ds.programs) }},
		{ds.dirtyStudents, studentsTable, func() [][]string { return encodeStudents(ds.students) }},
	} {
		if !d.dirty {
			continue
		}
		f, err := s.stage(d.t, d.rows())
		if err != nil {
			return err
		}
		pending = append(pending, f)
	}
	return s.commit(pending)
}

// readFile returns the data rows of t after checking its header. An empty
// file is an empty table.
func (s *Store) readFile(t table) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.dir, t.file))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", repository.ErrUnavailable, t.file, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(t.header)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrCorrupt, t.file, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	for i, name := range t.header {
		if records[0][i] != name {
			return nil, fmt.Errorf("%w: %s: column %d is %q, want %q",
				repository.ErrCorrupt, t.file, i+1, records[0][i], name)
		}
	}
	return records[1:], nil
}

// stagedFile is a table written to a temporary file in the data directory,
// waiting to replace the original.
type stagedFile struct {
	t    table
	tmp  string
	rows int
}

// writeFile stages a single table and renames it into place.
func (s *Store) writeFile(t table, rows [][]string) error {
	f, err := s.stage(t, rows)
	if err != nil {
		return err
	}
	if err := s.commit([]stagedFile{f}); err != nil {
		os.Remove(f.tmp)
		return err
	}
	return nil
}

// stage writes header and rows to a synced temporary file next to t.
func (s *Store) stage(t table, rows [][]string) (_ stagedFile, err error) {
	tmp, err := s.createTemp(s.dir, t.file+".*.tmp")
	if err != nil {
		return stagedFile{}, fmt.Errorf("%w: create temp for %s: %v", repository.ErrUnavailable, t.file, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(t.header); err != nil {
		return stagedFile{}, fmt.Errorf("%w: write %s: %v", repository.ErrUnavailable, t.file, err)
	}
	if err = w.WriteAll(rows); err != nil {
		return stagedFile{}, fmt.Errorf("%w: write %s: %v", repository.ErrUnavailable, t.file, err)
	}
	if err = tmp.Sync(); err != nil {
		return stagedFile{}, fmt.Errorf("%w: sync %s: %v", repository.ErrUnavailable, t.file, err)
	}
	if err = tmp.Close(); err != nil {
		return stagedFile{}, fmt.Errorf("%w: close %s: %v", repository.ErrUnavailable, t.file, err)
	}
	return stagedFile{t: t, tmp: tmp.Name(), rows: len(rows)}, nil
}

// commit renames staged files over their originals in order.
func (s *Store) commit(files []stagedFile) error {
	for _, f := range files {
		if err := os.Rename(f.tmp, filepath.Join(s.dir, f.t.file)); err != nil {
			return fmt.Errorf("%w: replace %s: %v", repository.ErrUnavailable, f.t.file, err)
		}
		s.log.Debug().Str("file", f.t.file).Int("rows", f.rows).Msg("File rewritten")
	}
	return nil
}

// dataset is the in-memory content of the three files for one unit of work.
type dataset struct {
	colleges []model.College
	programs []model.Program
	students []model.Student

	dirtyColleges bool
	dirtyPrograms bool
	dirtyStudents bool
}

func (ds *dataset) collegeIndex(code string) int {
	for i, c := range ds.colleges {
		if c.Code == code {
			return i
		}
	}
	return -1
}

func (ds *dataset) programIndex(code string) int {
	for i, p := range ds.programs {
		if p.Code == code {
			return i
		}
	}
	return -1
}

func (ds *dataset) studentIndex(id string) int {
	for i, s := range ds.students {
		if s.IDNumber == id {
			return i
		}
	}
	return -1
}

// collegeOf derives a student's college through its program.
func (ds *dataset) collegeOf(programCode string) string {
	if model.IsNone(programCode) {
		return model.None
	}
	if i := ds.programIndex(programCode); i >= 0 {
		return model.OrNone(ds.programs[i].CollegeCode)
	}
	return model.None
}

func (ds *dataset) withCollege(s model.Student) model.Student {
	s.CollegeCode = ds.collegeOf(s.ProgramCode)
	return s
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
