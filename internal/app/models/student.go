package models

// Overrides maps a course pattern ("STAT 316") to a manual-credit flag. A true entry forces
// every requirement naming that course to be treated as satisfied.
type Overrides map[string]bool

// AreaRef identifies an area a student has declared.
type AreaRef struct {
	Name     string `json:"name" yaml:"name" binding:"required"`
	Type     string `json:"type" yaml:"type" binding:"required,oneof=major concentration degree emphasis"`
	Revision string `json:"revision,omitempty" yaml:"revision" binding:"omitempty,revision"`
}

// StudentData is the record evaluated against an area.
type StudentData struct {
	Courses   []Course  `json:"courses"`
	Overrides Overrides `json:"overrides,omitempty"`
	Areas     []AreaRef `json:"areas,omitempty"`
}

// Student is a persisted student record.
type Student struct {
	ID             int64  `json:"id" db:"id"`
	Identifier     string `json:"identifier" db:"identifier"`
	Name           string `json:"name" db:"name"`
	GraduationYear int    `json:"graduationYear" db:"graduation_year"`

	Data StudentData `json:"data" db:"data"`
}
