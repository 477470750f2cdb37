package model

// College is the top of the record hierarchy. It owns zero or more programs.
type College struct {
	Code string `json:"college_code"`
	Name string `json:"college_name"`
}

// CreateCollegeRequest is the payload for adding a college.
type CreateCollegeRequest struct {
	Code string `json:"college_code" binding:"required,max=10,code"`
	Name string `json:"college_name" binding:"required,max=255"`
}

// CollegePatch holds the fields to change on a college. Nil fields are left untouched.
type CollegePatch struct {
	Code *string `json:"college_code" binding:"omitempty,max=10,code"`
	Name *string `json:"college_name" binding:"omitempty,min=1,max=255"`
}

// Empty reports whether the patch changes nothing.
func (p CollegePatch) Empty() bool {
	return p.Code == nil && p.Name == nil
}

// Apply writes the patch onto c and reports whether any field changed value.
func (p CollegePatch) Apply(c *College) bool {
	changed := false
	if p.Code != nil && *p.Code != c.Code {
		c.Code = *p.Code
		changed = true
	}
	if p.Name != nil && *p.Name != c.Name {
		c.Name = *p.Name
		changed = true
	}
	return changed
}
