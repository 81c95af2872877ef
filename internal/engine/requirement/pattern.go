package requirement

import (
	"fmt"
	"strings"
	"unicode"
)

// Pattern selects courses by department and, optionally, course number.
// A Pattern with an empty Number matches every course in the department.
type Pattern struct {
	Department string `json:"department" yaml:"department"`
	Number     string `json:"number,omitempty" yaml:"number,omitempty"`
}

// ParsePattern parses "STAT 110" or "PHYS" into a Pattern. Departments are upper-cased.
func ParsePattern(s string) (Pattern, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1, 2:
	default:
		return Pattern{}, fmt.Errorf("invalid course pattern %q", s)
	}

	dept := strings.ToUpper(fields[0])
	for _, r := range dept {
		if !unicode.IsLetter(r) {
			return Pattern{}, fmt.Errorf("invalid department %q in pattern %q", fields[0], s)
		}
	}

	p := Pattern{Department: dept}
	if len(fields) == 2 {
		num := strings.ToUpper(fields[1])
		if !unicode.IsDigit(rune(num[0])) {
			return Pattern{}, fmt.Errorf("invalid course number %q in pattern %q", fields[1], s)
		}
		for _, r := range num {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return Pattern{}, fmt.Errorf("invalid course number %q in pattern %q", fields[1], s)
			}
		}
		p.Number = num
	}
	return p, nil
}

// MustPattern is ParsePattern for statically known patterns; it panics on error.
func MustPattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// IsDepartmentOnly reports whether the pattern names a department without a number.
func (p Pattern) IsDepartmentOnly() bool {
	return p.Number == ""
}

func (p Pattern) String() string {
	if p.Number == "" {
		return p.Department
	}
	return p.Department + " " + p.Number
}
