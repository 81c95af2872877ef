package models

import "strings"

// Course is one entry of a student's academic record. The engine treats it as immutable input.
type Course struct {
	ID          string   `json:"crsid,omitempty" db:"crsid"`
	Departments []string `json:"depts" db:"depts"`
	Number      string   `json:"num" db:"num"`
	Title       string   `json:"title,omitempty" db:"title"`
	Credits     float64  `json:"credits,omitempty" db:"credits"`
	Term        int      `json:"term,omitempty" db:"term"`
	Ignore      bool     `json:"ignore,omitempty" db:"ignore"` // excluded from every evaluation
}

// DeptNum renders the course as "<DEPT> <NUM>", using the first listed department.
func (c Course) DeptNum() string {
	if len(c.Departments) == 0 {
		return c.Number
	}
	return strings.TrimSpace(c.Departments[0] + " " + c.Number)
}

// InDepartment reports whether the course is listed under dept (cross-listings included).
func (c Course) InDepartment(dept string) bool {
	for _, d := range c.Departments {
		if strings.EqualFold(d, dept) {
			return true
		}
	}
	return false
}
