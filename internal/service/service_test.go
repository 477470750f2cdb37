package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/apperror"
	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/repository/csvstore"
	"github.com/stemsi/lexis/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	colleges *CollegeService
	programs *ProgramService
	students *StudentService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := csvstore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	v := validator.New()
	log := zerolog.Nop()
	return fixture{
		colleges: NewCollegeService(store, v, model.DefaultPageSize, log),
		programs: NewProgramService(store, v, model.DefaultPageSize, log),
		students: NewStudentService(store, v, model.DefaultPageSize, log),
	}
}

// seeded holds CCS{BSCS{Lucy Ramos, Ramon Lucero}, BSIT{}} and CASS{BAENG{Ana Cruz}}.
func seeded(t *testing.T) fixture {
	t.Helper()
	f := newFixture(t)
	ctx := context.Background()
	for _, c := range []model.CreateCollegeRequest{
		{Code: "CCS", Name: "College of Computer Studies"},
		{Code: "CASS", Name: "College of Arts and Social Sciences"},
	} {
		_, _, err := f.colleges.Add(ctx, c)
		require.NoError(t, err)
	}
	for _, p := range []model.CreateProgramRequest{
		{Code: "BSCS", Name: "BS Computer Science", CollegeCode: "CCS"},
		{Code: "BSIT", Name: "BS Information Technology", CollegeCode: "CCS"},
		{Code: "BAENG", Name: "BA English", CollegeCode: "CASS"},
	} {
		_, _, err := f.programs.Add(ctx, p)
		require.NoError(t, err)
	}
	for _, s := range []model.CreateStudentRequest{
		{IDNumber: "2023-0001", FirstName: "Lucy", LastName: "Ramos", YearLevel: 2, Gender: "female", ProgramCode: "BSCS"},
		{IDNumber: "2023-0002", FirstName: "Ramon", LastName: "Lucero", YearLevel: 1, Gender: "Male", ProgramCode: "BSCS"},
		{IDNumber: "2023-0003", FirstName: "Ana", LastName: "Cruz", YearLevel: 3, Gender: "Others", ProgramCode: "BAENG"},
	} {
		_, _, err := f.students.Add(ctx, s)
		require.NoError(t, err)
	}
	return f
}

func TestAdd_RejectsDuplicateKeys(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	_, _, err := f.colleges.Add(ctx, model.CreateCollegeRequest{Code: "CCS", Name: "Other"})
	assert.Equal(t, apperror.KindIntegrity, apperror.KindOf(err))

	_, _, err = f.students.Add(ctx, model.CreateStudentRequest{
		IDNumber: "2023-0001", FirstName: "Someone", LastName: "Else", YearLevel: 1, Gender: "Male", ProgramCode: "BSIT",
	})
	assert.Equal(t, apperror.KindIntegrity, apperror.KindOf(err))

	c, err := f.colleges.Get(ctx, "CCS")
	require.NoError(t, err)
	assert.Equal(t, "College of Computer Studies", c.Name)

	st, err := f.students.Get(ctx, "2023-0001")
	require.NoError(t, err)
	assert.Equal(t, "Lucy", st.FirstName)
}

func TestAdd_RejectsDanglingParents(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	_, _, err := f.programs.Add(ctx, model.CreateProgramRequest{Code: "BSN", Name: "BS Nursing", CollegeCode: "CON"})
	assert.Equal(t, apperror.KindIntegrity, apperror.KindOf(err))

	_, _, err = f.students.Add(ctx, model.CreateStudentRequest{
		IDNumber: "2023-0009", FirstName: "A", LastName: "B", YearLevel: 1, Gender: "Male", ProgramCode: "BSN",
	})
	assert.Equal(t, apperror.KindIntegrity, apperror.KindOf(err))
}

func TestAdd_StudentCollegeMustMatchProgram(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	req := model.CreateStudentRequest{
		IDNumber: "2023-0010", FirstName: "Ben", LastName: "Lim", YearLevel: 1, Gender: "Male",
		ProgramCode: "BSCS", CollegeCode: "CASS",
	}

	_, _, err := f.students.Add(ctx, req)
	assert.Equal(t, apperror.KindIntegrity, apperror.KindOf(err))

	req.CollegeCode = "CCS"
	st, m, err := f.students.Add(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "CCS", st.CollegeCode)
	assert.Equal(t, 1, m.Affected)
}

func TestAdd_ValidationFields(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.students.Add(context.Background(), model.CreateStudentRequest{
		IDNumber: "20230001", FirstName: "Lucy", LastName: "Ramos", YearLevel: 7, Gender: "robot", ProgramCode: "BSCS",
	})

	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	fields := apperror.FieldsOf(err)
	assert.Contains(t, fields, "id_number")
	assert.Contains(t, fields, "year_level")
	assert.Contains(t, fields, "gender")
}

func TestAdd_NormalisesGender(t *testing.T) {
	f := seeded(t)

	st, err := f.students.Get(context.Background(), "2023-0003")
	require.NoError(t, err)
	assert.Equal(t, model.GenderOther, st.Gender)
}

func TestUpdateCollege_RenameCascades(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	m, err := f.colleges.Update(ctx, "CCS", model.CollegePatch{Code: ptr("COCS")})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Cascaded)

	for _, code := range []string{"BSCS", "BSIT"} {
		p, err := f.programs.Get(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, "COCS", p.CollegeCode)
	}
	st, err := f.students.Get(ctx, "2023-0001")
	require.NoError(t, err)
	assert.Equal(t, "COCS", st.CollegeCode)

	_, err = f.colleges.Get(ctx, "CCS")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUpdateCollege_RenameOntoExistingCode(t *testing.T) {
	f := seeded(t)

	_, err := f.colleges.Update(context.Background(), "CCS", model.CollegePatch{Code: ptr("CASS")})
	assert.Equal(t, apperror.KindIntegrity, apperror.KindOf(err))
}

func TestUpdateCollege_Missing(t *testing.T) {
	f := seeded(t)

	_, err := f.colleges.Update(context.Background(), "NOPE", model.CollegePatch{Name: ptr("x")})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteCollege_DetachesPrograms(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	m, err := f.colleges.Delete(ctx, "CCS")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Affected)
	assert.Equal(t, 2, m.Cascaded)

	p, err := f.programs.Get(ctx, "BSCS")
	require.NoError(t, err)
	assert.Equal(t, model.None, p.CollegeCode)

	st, err := f.students.Get(ctx, "2023-0002")
	require.NoError(t, err)
	assert.Equal(t, "BSCS", st.ProgramCode)
	assert.Equal(t, model.None, st.CollegeCode)

	_, err = f.colleges.Delete(ctx, "CCS")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUpdateProgram_RenameAndReassign(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	m, err := f.programs.Update(ctx, "BSCS", model.ProgramPatch{Code: ptr("BSCOMSCI"), CollegeCode: ptr("CASS")})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Cascaded)

	st, err := f.students.Get(ctx, "2023-0001")
	require.NoError(t, err)
	assert.Equal(t, "BSCOMSCI", st.ProgramCode)
	assert.Equal(t, "CASS", st.CollegeCode)
}

func TestUpdateProgram_UnknownCollege(t *testing.T) {
	f := seeded(t)

	_, err := f.programs.Update(context.Background(), "BSCS", model.ProgramPatch{CollegeCode: ptr("NOPE")})
	assert.Equal(t, apperror.KindIntegrity, apperror.KindOf(err))
}

func TestDeleteProgram_UnassignsStudents(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	m, err := f.programs.Delete(ctx, "BSCS")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Cascaded)

	for _, id := range []string{"2023-0001", "2023-0002"} {
		st, err := f.students.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.None, st.ProgramCode)
		assert.Equal(t, model.None, st.CollegeCode)
	}
	st, err := f.students.Get(ctx, "2023-0003")
	require.NoError(t, err)
	assert.Equal(t, "BAENG", st.ProgramCode)
}

func TestBatchDelete(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	m, err := f.programs.BatchDelete(ctx, []string{"BSCS", "BAENG", "NOPE", "BSCS"})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Affected)
	assert.Equal(t, 3, m.Cascaded)

	_, err = f.students.BatchDelete(ctx, []string{" ", ""})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	m, err = f.students.BatchDelete(ctx, []string{"2023-0001", "2023-0003"})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Affected)
}

func TestUpdateStudent_PartialLeavesOtherFields(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	before, err := f.students.Get(ctx, "2023-0001")
	require.NoError(t, err)

	_, err = f.students.Update(ctx, "2023-0001", model.StudentPatch{YearLevel: ptr(3)})
	require.NoError(t, err)

	after, err := f.students.Get(ctx, "2023-0001")
	require.NoError(t, err)
	want := *before
	want.YearLevel = 3
	assert.Equal(t, want, *after)
}

func TestUpdateStudent_Errors(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	_, err := f.students.Update(ctx, "2023-0001", model.StudentPatch{})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.students.Update(ctx, "2023-0001", model.StudentPatch{IDNumber: ptr("2023-0002")})
	assert.Equal(t, apperror.KindIntegrity, apperror.KindOf(err))

	_, err = f.students.Update(ctx, "2023-0001", model.StudentPatch{ProgramCode: ptr("NOPE")})
	assert.Equal(t, apperror.KindIntegrity, apperror.KindOf(err))

	_, err = f.students.Update(ctx, "1999-0000", model.StudentPatch{YearLevel: ptr(1)})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestBatchUpdateStudents(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	m, err := f.students.BatchUpdate(ctx, model.BatchUpdateStudentsRequest{
		IDs:   []string{"2023-0001", "2023-0003"},
		Patch: model.StudentPatch{Gender: ptr("male"), ProgramCode: ptr("BSIT")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Affected)

	st, err := f.students.Get(ctx, "2023-0003")
	require.NoError(t, err)
	assert.Equal(t, model.GenderMale, st.Gender)
	assert.Equal(t, "BSIT", st.ProgramCode)
	assert.Equal(t, "CCS", st.CollegeCode)

	_, err = f.students.BatchUpdate(ctx, model.BatchUpdateStudentsRequest{
		IDs:   []string{"2023-0001"},
		Patch: model.StudentPatch{FirstName: ptr("X")},
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestListStudents_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.colleges.Add(ctx, model.CreateCollegeRequest{Code: "CCS", Name: "Computer Studies"})
	require.NoError(t, err)
	_, _, err = f.programs.Add(ctx, model.CreateProgramRequest{Code: "BSCS", Name: "BS CS", CollegeCode: "CCS"})
	require.NoError(t, err)
	for i := 1; i <= 120; i++ {
		_, _, err := f.students.Add(ctx, model.CreateStudentRequest{
			IDNumber: fmt.Sprintf("2023-%04d", i), FirstName: "First", LastName: fmt.Sprintf("Last%03d", i),
			YearLevel: 1 + i%5, Gender: "Female", ProgramCode: "BSCS",
		})
		require.NoError(t, err)
	}

	page, err := f.students.List(ctx, model.ListQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 120, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 50)
	assert.Equal(t, "2023-0001", page.Items[0].IDNumber)
	assert.Equal(t, "2023-0050", page.Items[49].IDNumber)

	page, err = f.students.List(ctx, model.ListQuery{Page: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 20)

	page, err = f.students.List(ctx, model.ListQuery{Page: 4})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 120, page.TotalItems)

	page, err = f.students.List(ctx, model.ListQuery{Page: -2})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)

	page, err = f.students.List(ctx, model.ListQuery{Page: math.MaxInt})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 120, page.TotalItems)
}

func TestListStudents_Search(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	page, err := f.students.List(ctx, model.ListQuery{Term: "Lucy Ramos"})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalItems)
	assert.Equal(t, "2023-0001", page.Items[0].IDNumber)

	page, err = f.students.List(ctx, model.ListQuery{Field: "college_code", Term: "cass"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)

	_, err = f.students.List(ctx, model.ListQuery{Field: "password"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestListPrograms_ExactCode(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	_, _, err := f.programs.Add(ctx, model.CreateProgramRequest{Code: "BSCS2", Name: "BS CS 2", CollegeCode: "CCS"})
	require.NoError(t, err)

	page, err := f.programs.List(ctx, model.ListQuery{Field: "program_code", Term: "BSCS"})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalItems)
	assert.Equal(t, "BSCS", page.Items[0].Code)
}

func TestOptionsAndByCollege(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()

	colleges, err := f.colleges.Options(ctx)
	require.NoError(t, err)
	require.Len(t, colleges, 2)
	assert.Equal(t, "CASS", colleges[0].Code)

	programs, err := f.programs.ByCollege(ctx, "CCS")
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, "BSCS", programs[0].Code)
	assert.Equal(t, "BSIT", programs[1].Code)

	_, err = f.programs.ByCollege(ctx, "NOPE")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
