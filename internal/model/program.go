package model

// Program belongs to at most one college and owns zero or more students.
// CollegeCode is None when the program is not attached to a college.
type Program struct {
	Code        string `json:"program_code"`
	Name        string `json:"program_name"`
	CollegeCode string `json:"college_code"`
}

// CreateProgramRequest is the payload for adding a program.
type CreateProgramRequest struct {
	Code        string `json:"program_code" binding:"required,max=50,code"`
	Name        string `json:"program_name" binding:"required,max=255"`
	CollegeCode string `json:"college_code" binding:"required,max=10,code"`
}

// ProgramPatch holds the fields to change on a program. CollegeCode may be
// None to detach the program from its college.
type ProgramPatch struct {
	Code        *string `json:"program_code" binding:"omitempty,max=50,code"`
	Name        *string `json:"program_name" binding:"omitempty,min=1,max=255"`
	CollegeCode *string `json:"college_code" binding:"omitempty,max=10,ref"`
}

// Empty reports whether the patch changes nothing.
func (p ProgramPatch) Empty() bool {
	return p.Code == nil && p.Name == nil && p.CollegeCode == nil
}

// Apply writes the patch onto pr and reports whether any field changed value.
func (p ProgramPatch) Apply(pr *Program) bool {
	changed := false
	if p.Code != nil && *p.Code != pr.Code {
		pr.Code = *p.Code
		changed = true
	}
	if p.Name != nil && *p.Name != pr.Name {
		pr.Name = *p.Name
		changed = true
	}
	if p.CollegeCode != nil && *p.CollegeCode != pr.CollegeCode {
		pr.CollegeCode = *p.CollegeCode
		changed = true
	}
	return changed
}
