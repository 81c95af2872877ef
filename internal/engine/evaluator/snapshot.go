package evaluator

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/engine/requirement"
)

// snapshot is the course set a single evaluation walks. It is built once, with overrides
// applied, and never modified afterwards.
type snapshot struct {
	courses  []models.Course
	credited map[requirement.Pattern]bool
}

func newSnapshot(courses []models.Course, overrides models.Overrides, logger zerolog.Logger) *snapshot {
	s := &snapshot{
		courses:  make([]models.Course, 0, len(courses)),
		credited: make(map[requirement.Pattern]bool),
	}
	for _, c := range courses {
		if c.Ignore {
			continue
		}
		s.courses = append(s.courses, c)
	}

	// Sorted so that warnings come out in a stable order.
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !overrides[k] {
			continue
		}
		p, err := requirement.ParsePattern(k)
		if err != nil || p.IsDepartmentOnly() {
			logger.Warn().Str("override", k).Msg("Ignoring override that does not name a course")
			continue
		}
		s.credited[p] = true
	}
	return s
}

func (s *snapshot) satisfies(m Matcher, p requirement.Pattern) bool {
	if s.credited[p] {
		return true
	}
	for _, c := range s.courses {
		if m.Match(c, p) {
			return true
		}
	}
	return false
}

func (s *snapshot) count(m Matcher, filter requirement.Pattern, exclude []requirement.Pattern) []models.Course {
	var out []models.Course
next:
	for _, c := range s.courses {
		if !m.Match(c, filter) {
			continue
		}
		for _, x := range exclude {
			if m.Match(c, x) {
				continue next
			}
		}
		out = append(out, c)
	}
	return out
}
