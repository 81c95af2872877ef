package evaluator

import (
	"strings"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/engine/requirement"
)

// Matcher decides whether a single course satisfies a pattern.
type Matcher interface {
	Match(course models.Course, pattern requirement.Pattern) bool
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(course models.Course, pattern requirement.Pattern) bool

// Match calls f(course, pattern).
func (f MatcherFunc) Match(course models.Course, pattern requirement.Pattern) bool {
	return f(course, pattern)
}

// DeptNumMatcher matches on department and number. Departments compare case-insensitively
// against every cross-listing; a department-only pattern matches any number.
type DeptNumMatcher struct{}

// Match implements Matcher.
func (DeptNumMatcher) Match(course models.Course, pattern requirement.Pattern) bool {
	if !course.InDepartment(pattern.Department) {
		return false
	}
	return pattern.Number == "" || strings.EqualFold(course.Number, pattern.Number)
}
