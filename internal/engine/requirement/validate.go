package requirement

import (
	"fmt"
	"strings"

	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

// PathSeparator joins group titles when locating a node inside a tree.
const PathSeparator = " > "

// JoinPath appends elem to a node path.
func JoinPath(path, elem string) string {
	if path == "" {
		return elem
	}
	return path + PathSeparator + elem
}

// Validate checks that n is a canonical tree: a Group at every position, each carrying a
// trimmed title and a type tag matching its variant, with satisfiable thresholds and
// upper-case course patterns. Only the root may be marked top level.
func Validate(n Node) error {
	return validate(n, "", true)
}

func validate(n Node, path string, root bool) error {
	g, ok := n.(*Group)
	if !ok {
		return apperrors.NewMalformedSpecError(path, fmt.Sprintf("expected a titled group, found %s", Describe(n)))
	}
	if strings.TrimSpace(g.Title) == "" {
		return apperrors.NewMalformedSpecError(path, "group has no title")
	}
	if g.Title != strings.TrimSpace(g.Title) {
		return apperrors.NewMalformedSpecError(JoinPath(path, g.Title), "title has surrounding whitespace")
	}
	path = JoinPath(path, g.Title)
	if g.Description != strings.TrimSpace(g.Description) {
		return apperrors.NewMalformedSpecError(path, "description has surrounding whitespace")
	}
	if g.TopLevel && !root {
		return apperrors.NewMalformedSpecError(path, "only the root can be top level")
	}

	if g.Node == nil {
		return apperrors.NewMalformedSpecError(path, "group wraps no requirement")
	}
	if want := TypeOf(g.Node); g.Type != want {
		return apperrors.NewMalformedSpecError(path, fmt.Sprintf("type %q does not match %s (want %q)", g.Type, Describe(g.Node), want))
	}

	switch v := g.Node.(type) {
	case *CourseRef:
		if v.Pattern.Department == "" || v.Pattern.IsDepartmentOnly() {
			return apperrors.NewMalformedSpecError(path, "course requirement needs a department and number")
		}
		if err := validatePattern(v.Pattern, path); err != nil {
			return err
		}
	case *All:
		if len(v.Children) == 0 {
			return apperrors.NewMalformedSpecError(path, "requirement list is empty")
		}
		for _, c := range v.Children {
			if err := validate(c, path, false); err != nil {
				return err
			}
		}
	case *Threshold:
		if len(v.Children) == 0 {
			return apperrors.NewMalformedSpecError(path, "requirement list is empty")
		}
		if !v.Needs.Any && (v.Needs.Count < 1 || v.Needs.Count > len(v.Children)) {
			return apperrors.NewMalformedSpecError(path, fmt.Sprintf("needs %d of %d requirements", v.Needs.Count, len(v.Children)))
		}
		for _, c := range v.Children {
			if err := validate(c, path, false); err != nil {
				return err
			}
		}
	case *CountedObjects:
		if v.Filter.Department == "" || !v.Filter.IsDepartmentOnly() {
			return apperrors.NewMalformedSpecError(path, "counted requirement filters by department only")
		}
		if v.Needs < 1 {
			return apperrors.NewMalformedSpecError(path, "counted requirement needs a positive count")
		}
		if err := validatePattern(v.Filter, path); err != nil {
			return err
		}
		for _, p := range v.Exclude {
			if err := validatePattern(p, path); err != nil {
				return err
			}
		}
	case *Group:
		return apperrors.NewMalformedSpecError(path, "group wraps another group")
	}
	if g.TopLevel {
		switch g.Node.(type) {
		case *All, *Threshold:
		default:
			return apperrors.NewMalformedSpecError(path, "top-level requirement must list sub-requirements")
		}
	}
	return nil
}

// validatePattern requires p to be in the form ParsePattern produces.
func validatePattern(p Pattern, path string) error {
	parsed, err := ParsePattern(p.String())
	if err != nil {
		return apperrors.NewMalformedSpecError(path, err.Error())
	}
	if parsed != p {
		return apperrors.NewMalformedSpecError(path, fmt.Sprintf("course pattern %q is not canonical (want %q)", p.String(), parsed.String()))
	}
	return nil
}
