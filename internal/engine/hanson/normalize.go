// Package hanson normalizes Hanson notation, the YAML authoring format for area requirements,
// into canonical requirement trees.
//
// A Hanson requirement is a mapping resolved by the keys it declares:
//
//	course: STAT 110                    # single course
//	of: [STAT 272, STAT 316]            # every listed requirement
//	of: [...], needs: 2                 # at least two of the listed requirements
//	of: [...], needs: any               # any number (at least one)
//	department: PHYS, needs: 1          # count of department courses
//	except: [PHYS 130, PHYS 131]        #   minus these
//
// Every mapping may carry title and description. A plain string inside a list is a course.
// The top-level document adds name, type and revision and lists its sub-requirements under
// requirements.
package hanson

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/yigit/degreeaudit/internal/engine/requirement"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

// Options controls normalization.
type Options struct {
	// TopLevel marks the root as an area's overall requirement and accepts the document keys.
	TopLevel bool
}

const (
	keyTitle       = "title"
	keyDescription = "description"
	keyCourse      = "course"
	keyOf          = "of"
	keyNeeds       = "needs"
	keyDepartment  = "department"
	keyExcept      = "except"

	keyName         = "name"
	keyType         = "type"
	keyRevision     = "revision"
	keyRequirements = "requirements"
)

var documentKeys = map[string]bool{keyName: true, keyType: true, keyRevision: true}

// Normalize converts raw into a canonical requirement tree. raw is either decoded YAML
// (mappings, lists and strings) or an existing requirement.Node, which is re-canonicalized.
func Normalize(raw interface{}, opts Options) (requirement.Node, error) {
	if raw == nil {
		return nil, apperrors.NewMissingFieldError("requirement")
	}
	if n, ok := raw.(requirement.Node); ok {
		if g, isGroup := n.(*requirement.Group); isGroup && g != nil && g.TopLevel {
			opts.TopLevel = true
		}
		raw = Encode(n)
	}

	m, ok := asMap(raw)
	if !ok {
		if !opts.TopLevel {
			if s, isString := raw.(string); isString {
				return normalizeCourseString(s, "")
			}
		}
		return nil, apperrors.NewMalformedSpecError("", fmt.Sprintf("expected a mapping, found %T", raw))
	}

	defaultTitle := "Requirement 1"
	if opts.TopLevel {
		defaultTitle = stringValue(m[keyName])
		if defaultTitle == "" {
			defaultTitle = "Requirements"
		}
	}

	g, err := normalizeMap(m, "", defaultTitle, opts.TopLevel)
	if err != nil {
		return nil, err
	}
	if opts.TopLevel {
		switch g.Node.(type) {
		case *requirement.All, *requirement.Threshold:
		default:
			return nil, apperrors.NewMalformedSpecError(g.Title, "top-level requirement must list sub-requirements")
		}
		g.TopLevel = true
	}

	if err := requirement.Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

func normalizeMap(m map[string]interface{}, parent, defaultTitle string, topLevel bool) (*requirement.Group, error) {
	title := strings.TrimSpace(stringValue(m[keyTitle]))
	if _, ok := m[keyTitle]; ok && title == "" {
		return nil, apperrors.NewMalformedSpecError(requirement.JoinPath(parent, defaultTitle), "title must be a non-empty string")
	}
	description := strings.TrimSpace(stringValue(m[keyDescription]))

	_, hasCourse := m[keyCourse]
	_, hasOf := m[keyOf]
	_, hasReqs := m[keyRequirements]
	_, hasDept := m[keyDepartment]
	_, hasNeeds := m[keyNeeds]
	_, hasExcept := m[keyExcept]
	hasList := hasOf || hasReqs

	// The path used for errors before the title is known.
	here := requirement.JoinPath(parent, firstNonEmpty(title, defaultTitle, "?"))

	if err := checkKeys(m, here, topLevel); err != nil {
		return nil, err
	}

	switch {
	case hasOf && hasReqs:
		return nil, apperrors.NewMalformedSpecError(here, "both of and requirements are declared")
	case hasCourse && (hasList || hasDept || hasNeeds || hasExcept):
		return nil, apperrors.NewMalformedSpecError(here, "a single course cannot also declare a list, department, needs or except")
	case hasDept && hasList:
		return nil, apperrors.NewMalformedSpecError(here, "a department count cannot also declare a list")
	case hasExcept && !hasDept:
		return nil, apperrors.NewMalformedSpecError(here, "except is only valid with department")
	}

	switch {
	case hasCourse:
		s, ok := m[keyCourse].(string)
		if !ok {
			return nil, apperrors.NewMalformedSpecError(here, "course must be a string")
		}
		g, err := normalizeCourseString(s, parent)
		if err != nil {
			return nil, err
		}
		if title != "" {
			g.Title = title
		}
		g.Description = description
		return g, nil

	case hasDept:
		return normalizeCounted(m, parent, title, description, hasNeeds)

	case hasList:
		items := m[keyOf]
		if hasReqs {
			items = m[keyRequirements]
		}
		return normalizeList(items, m[keyNeeds], hasNeeds, parent, firstNonEmpty(title, defaultTitle), description)

	default:
		return nil, apperrors.NewMalformedSpecError(here, "requirement declares none of course, of, or department")
	}
}

func normalizeCourseString(s, parent string) (*requirement.Group, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, apperrors.NewMalformedSpecError(requirement.JoinPath(parent, "?"), "course pattern is empty")
	}
	p, err := requirement.ParsePattern(s)
	if err != nil {
		return nil, apperrors.NewMalformedSpecError(requirement.JoinPath(parent, s), err.Error())
	}
	if p.IsDepartmentOnly() {
		return nil, apperrors.NewMalformedSpecError(requirement.JoinPath(parent, s), "course pattern needs a number")
	}
	return requirement.NewGroup(p.String(), "", requirement.NewCourse(p)), nil
}

func normalizeCounted(m map[string]interface{}, parent, title, description string, hasNeeds bool) (*requirement.Group, error) {
	dept, ok := m[keyDepartment].(string)
	here := requirement.JoinPath(parent, firstNonEmpty(title, dept, "?"))
	if !ok || strings.TrimSpace(dept) == "" {
		return nil, apperrors.NewMalformedSpecError(here, "department must be a non-empty string")
	}
	filter, err := requirement.ParsePattern(dept)
	if err != nil || !filter.IsDepartmentOnly() {
		return nil, apperrors.NewMalformedSpecError(here, fmt.Sprintf("invalid department %q", dept))
	}
	if title == "" {
		title = filter.Department + " courses"
		here = requirement.JoinPath(parent, title)
	}
	if !hasNeeds {
		return nil, apperrors.NewMalformedSpecError(here, "department count needs a needs value")
	}
	needs, ok := intValue(m[keyNeeds])
	if !ok || needs < 1 {
		return nil, apperrors.NewMalformedSpecError(here, "needs must be a positive integer for a department count")
	}

	var exclude []requirement.Pattern
	if raw, ok := m[keyExcept]; ok {
		list, isList := raw.([]interface{})
		if !isList {
			return nil, apperrors.NewMalformedSpecError(here, "except must be a list of courses")
		}
		for i, item := range list {
			s, isString := item.(string)
			if !isString {
				return nil, apperrors.NewMalformedSpecError(here, fmt.Sprintf("except[%d] must be a course string", i))
			}
			p, err := requirement.ParsePattern(s)
			if err != nil {
				return nil, apperrors.NewMalformedSpecError(here, fmt.Sprintf("except[%d]: %v", i, err))
			}
			exclude = append(exclude, p)
		}
	}

	return requirement.NewGroup(title, description, requirement.NewCounted(filter, needs, exclude...)), nil
}

func normalizeList(items, rawNeeds interface{}, hasNeeds bool, parent, title, description string) (*requirement.Group, error) {
	list, ok := items.([]interface{})
	here := requirement.JoinPath(parent, firstNonEmpty(title, "?"))
	if !ok {
		return nil, apperrors.NewMalformedSpecError(here, "of must be a list")
	}
	if len(list) == 0 {
		return nil, apperrors.NewMalformedSpecError(here, "of must list at least one requirement")
	}

	children := make([]requirement.Node, 0, len(list))
	for i, item := range list {
		child, err := normalizeItem(item, here, i)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	if !hasNeeds {
		return requirement.NewGroup(title, description, requirement.NewAll(children...)), nil
	}
	needs, all, err := parseNeeds(rawNeeds, len(children))
	if err != nil {
		return nil, apperrors.NewMalformedSpecError(here, err.Error())
	}
	if all {
		return requirement.NewGroup(title, description, requirement.NewAll(children...)), nil
	}
	return requirement.NewGroup(title, description, requirement.NewThreshold(needs, children...)), nil
}

func normalizeItem(item interface{}, parent string, index int) (*requirement.Group, error) {
	switch v := item.(type) {
	case string:
		return normalizeCourseString(v, parent)
	default:
		m, ok := asMap(item)
		if !ok {
			return nil, apperrors.NewMalformedSpecError(requirement.JoinPath(parent, fmt.Sprintf("[%d]", index)), fmt.Sprintf("expected a course or mapping, found %T", item))
		}
		return normalizeMap(m, parent, fmt.Sprintf("Requirement %d", index+1), false)
	}
}

// parseNeeds reads a list threshold. all is true when the list needs every child.
func parseNeeds(raw interface{}, children int) (needs requirement.Needs, all bool, err error) {
	if s, ok := raw.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "all":
			return requirement.Needs{}, true, nil
		case "any", "any number":
			return requirement.AnyNumber, false, nil
		}
		return requirement.Needs{}, false, fmt.Errorf("needs %q is not a count, all, or any", s)
	}
	n, ok := intValue(raw)
	if !ok {
		return requirement.Needs{}, false, fmt.Errorf("needs must be a count, all, or any")
	}
	if n < 1 || n > children {
		return requirement.Needs{}, false, fmt.Errorf("needs %d of %d requirements", n, children)
	}
	return requirement.NeedsCount(n), false, nil
}

func checkKeys(m map[string]interface{}, path string, topLevel bool) error {
	var unknown []string
	for k := range m {
		switch k {
		case keyTitle, keyDescription, keyCourse, keyOf, keyRequirements, keyNeeds, keyDepartment, keyExcept:
			continue
		}
		if topLevel && documentKeys[k] {
			continue
		}
		unknown = append(unknown, k)
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return apperrors.NewMalformedSpecError(path, "unknown keys: "+strings.Join(unknown, ", "))
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func intValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
