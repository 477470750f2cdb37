package csvstore

import (
	"fmt"
	"strconv"

	"github.com/stemsi/lexis/internal/model"
	"github.com/stemsi/lexis/internal/repository"
)

type table struct {
	file   string
	header []string
}

var (
	collegesTable = table{CollegesFile, []string{"College Code", "College Name"}}
	programsTable = table{ProgramsFile, []string{"Program Code", "Program Name", "College Code"}}
	// Students do not store their college; it is derived through the program.
	studentsTable = table{StudentsFile, []string{"ID Number", "First Name", "Last Name", "Year Level", "Gender", "Program Code"}}

	tables = []table{collegesTable, programsTable, studentsTable}
)

func decodeColleges(rows [][]string) ([]model.College, error) {
	out := make([]model.College, 0, len(rows))
	for i, r := range rows {
		if r[0] == "" {
			return nil, rowError(collegesTable, i, "empty college code")
		}
		out = append(out, model.College{Code: r[0], Name: r[1]})
	}
	return out, nil
}

func encodeColleges(colleges []model.College) [][]string {
	rows := make([][]string, len(colleges))
	for i, c := range colleges {
		rows[i] = []string{c.Code, c.Name}
	}
	return rows
}

func decodePrograms(rows [][]string) ([]model.Program, error) {
	out := make([]model.Program, 0, len(rows))
	for i, r := range rows {
		if r[0] == "" {
			return nil, rowError(programsTable, i, "empty program code")
		}
		out = append(out, model.Program{Code: r[0], Name: r[1], CollegeCode: model.OrNone(r[2])})
	}
	return out, nil
}

func encodePrograms(programs []model.Program) [][]string {
	rows := make([][]string, len(programs))
	for i, p := range programs {
		rows[i] = []string{p.Code, p.Name, model.OrNone(p.CollegeCode)}
	}
	return rows
}

func decodeStudents(rows [][]string) ([]model.Student, error) {
	out := make([]model.Student, 0, len(rows))
	for i, r := range rows {
		if r[0] == "" {
			return nil, rowError(studentsTable, i, "empty ID number")
		}
		year, err := strconv.Atoi(r[3])
		if err != nil {
			return nil, rowError(studentsTable, i, fmt.Sprintf("year level %q is not a number", r[3]))
		}
		gender, ok := model.ParseGender(r[4])
		if !ok {
			return nil, rowError(studentsTable, i, fmt.Sprintf("unknown gender %q", r[4]))
		}
		out = append(out, model.Student{
			IDNumber:    r[0],
			FirstName:   r[1],
			LastName:    r[2],
			YearLevel:   year,
			Gender:      gender,
			ProgramCode: model.OrNone(r[5]),
		})
	}
	return out, nil
}

func encodeStudents(students []model.Student) [][]string {
	rows := make([][]string, len(students))
	for i, s := range students {
		rows[i] = []string{
			s.IDNumber,
			s.FirstName,
			s.LastName,
			strconv.Itoa(s.YearLevel),
			string(s.Gender),
			model.OrNone(s.ProgramCode),
		}
	}
	return rows
}

// rowError reports a malformed data row; line numbers count the header as line 1.
func rowError(t table, i int, msg string) error {
	return fmt.Errorf("%w: %s line %d: %s", repository.ErrCorrupt, t.file, i+2, msg)
}

func collegeField(c model.College, field string) string {
	switch field {
	case "college_code":
		return c.Code
	case "college_name":
		return c.Name
	}
	return ""
}

func programField(p model.Program, field string) string {
	switch field {
	case "program_code":
		return p.Code
	case "program_name":
		return p.Name
	case "college_code":
		return model.OrNone(p.CollegeCode)
	}
	return ""
}

func studentField(s model.Student, field string) string {
	switch field {
	case "id_number":
		return s.IDNumber
	case "first_name":
		return s.FirstName
	case "last_name":
		return s.LastName
	case "full_name":
		return s.FullName()
	case "year_level":
		return strconv.Itoa(s.YearLevel)
	case "gender":
		return string(s.Gender)
	case "program_code":
		return model.OrNone(s.ProgramCode)
	case "college_code":
		return model.OrNone(s.CollegeCode)
	}
	return ""
}
