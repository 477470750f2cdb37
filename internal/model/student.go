package model

import "strings"

// Gender represents the student's gender.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// ParseGender normalises user input ("male", "FEMALE", "Others") into a Gender.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale, true
	case "female":
		return GenderFemale, true
	case "other", "others":
		return GenderOther, true
	}
	return "", false
}

// Student is a leaf record. CollegeCode is derived through the program on
// every read and is never stored.
type Student struct {
	IDNumber    string `json:"id_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	YearLevel   int    `json:"year_level"`
	Gender      Gender `json:"gender"`
	ProgramCode string `json:"program_code"`
	CollegeCode string `json:"college_code"`
}

// FullName returns "first last".
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// CreateStudentRequest is the payload for adding a student. CollegeCode is
// optional; when given it must be the college of ProgramCode.
type CreateStudentRequest struct {
	IDNumber    string `json:"id_number" binding:"required,student_id"`
	FirstName   string `json:"first_name" binding:"required,max=255"`
	LastName    string `json:"last_name" binding:"required,max=255"`
	YearLevel   int    `json:"year_level" binding:"required,min=1,max=5"`
	Gender      string `json:"gender" binding:"required,gender"`
	ProgramCode string `json:"program_code" binding:"required,max=50,code"`
	CollegeCode string `json:"college_code" binding:"omitempty,max=10,ref"`
}

// StudentPatch holds the fields to change on a student. ProgramCode may be
// None to detach the student from its program.
type StudentPatch struct {
	IDNumber    *string `json:"id_number" binding:"omitempty,student_id"`
	FirstName   *string `json:"first_name" binding:"omitempty,min=1,max=255"`
	LastName    *string `json:"last_name" binding:"omitempty,min=1,max=255"`
	YearLevel   *int    `json:"year_level" binding:"omitempty,min=1,max=5"`
	Gender      *string `json:"gender" binding:"omitempty,gender"`
	ProgramCode *string `json:"program_code" binding:"omitempty,max=50,ref"`
}

// Empty reports whether the patch changes nothing.
func (p StudentPatch) Empty() bool {
	return p.IDNumber == nil && p.FirstName == nil && p.LastName == nil &&
		p.YearLevel == nil && p.Gender == nil && p.ProgramCode == nil
}

// Apply writes the patch onto s and reports whether any field changed value.
// Gender must already be normalised.
func (p StudentPatch) Apply(s *Student) bool {
	changed := false
	set := func(dst *string, v *string) {
		if v != nil && *v != *dst {
			*dst = *v
			changed = true
		}
	}
	set(&s.IDNumber, p.IDNumber)
	set(&s.FirstName, p.FirstName)
	set(&s.LastName, p.LastName)
	set(&s.ProgramCode, p.ProgramCode)
	if p.YearLevel != nil && *p.YearLevel != s.YearLevel {
		s.YearLevel = *p.YearLevel
		changed = true
	}
	if p.Gender != nil && Gender(*p.Gender) != s.Gender {
		s.Gender = Gender(*p.Gender)
		changed = true
	}
	return changed
}

// BatchUpdateStudentsRequest applies one patch to many students. Identity
// fields cannot be batch-updated.
type BatchUpdateStudentsRequest struct {
	IDs   []string     `json:"ids" binding:"required,min=1,dive,student_id"`
	Patch StudentPatch `json:"patch"`
}
