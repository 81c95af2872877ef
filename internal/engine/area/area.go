// Package area binds a requirement tree to the identity of a major or concentration and
// exposes the check entry point consumers call with pending student data.
package area

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/engine/evaluator"
	"github.com/yigit/degreeaudit/internal/engine/requirement"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

// Key identifies an area revision.
type Key struct {
	Type     string
	Name     string
	Revision string
}

// KeyOf converts a student's declared area into a Key.
func KeyOf(ref models.AreaRef) Key {
	return Key{
		Type:     strings.ToLower(strings.TrimSpace(ref.Type)),
		Name:     strings.TrimSpace(ref.Name),
		Revision: strings.TrimSpace(ref.Revision),
	}
}

func (k Key) String() string {
	if k.Revision == "" {
		return fmt.Sprintf("%s %s", k.Name, k.Type)
	}
	return fmt.Sprintf("%s %s (%s)", k.Name, k.Type, k.Revision)
}

// Path is the location of the area's Hanson file relative to the areas directory,
// e.g. "concentrations/statistics.yaml".
func (k Key) Path() string {
	return Pluralize(k.Type) + "/" + KebabCase(k.Name) + ".yaml"
}

// Definition is an immutable, named requirement tree.
type Definition struct {
	Name           string
	Type           string
	Revision       string
	ID             string
	DepartmentAbbr string

	root      *requirement.Group
	evaluator *evaluator.Evaluator
}

// Report is the outcome of checking one area.
type Report struct {
	Area    models.AreaRef        `json:"area"`
	Result  bool                  `json:"result"`
	Details []*requirement.Result `json:"details"`
}

// New builds a Definition around a canonical top-level tree.
func New(name, areaType, revision string, root *requirement.Group, ev *evaluator.Evaluator) (*Definition, error) {
	if root == nil {
		return nil, apperrors.NewMissingFieldError("requirements")
	}
	if ev == nil {
		return nil, apperrors.NewMissingFieldError("evaluator")
	}
	if err := requirement.Validate(root); err != nil {
		return nil, err
	}
	switch root.Node.(type) {
	case *requirement.All, *requirement.Threshold:
	default:
		return nil, apperrors.NewMalformedSpecError(root.Title, "area requirement must list sub-requirements")
	}

	// Mark the root without touching a tree the caller may share.
	top := *root
	top.TopLevel = true

	return &Definition{
		Name:      name,
		Type:      strings.ToLower(areaType),
		Revision:  revision,
		root:      &top,
		evaluator: ev,
	}, nil
}

// Key returns the area's identity.
func (d *Definition) Key() Key {
	return Key{Type: d.Type, Name: d.Name, Revision: d.Revision}
}

// Ref returns the area's identity as a student-facing reference.
func (d *Definition) Ref() models.AreaRef {
	return models.AreaRef{Name: d.Name, Type: d.Type, Revision: d.Revision}
}

// RevisionYear is the first year of the revision ("2014-15" → 2014), or 0 when unknown.
func (d *Definition) RevisionYear() int {
	digits := strings.FieldsFunc(d.Revision, func(r rune) bool { return !unicode.IsDigit(r) })
	if len(digits) == 0 {
		return 0
	}
	year, err := strconv.Atoi(digits[0])
	if err != nil {
		return 0
	}
	return year
}

// Requirements returns the area's top-level requirement. Callers must not modify it.
func (d *Definition) Requirements() *requirement.Group {
	return d.root
}

// Check awaits the student's data and evaluates the area against it. A failure to obtain the
// data is returned unchanged.
func (d *Definition) Check(ctx context.Context, data evaluator.Pending) (*Report, error) {
	if data == nil {
		return nil, apperrors.NewMissingFieldError("student data")
	}
	student, err := data.Await(ctx)
	if err != nil {
		return nil, err
	}
	return d.Evaluate(student)
}

// Evaluate checks already loaded student data. Missing courses count as none taken.
func (d *Definition) Evaluate(student models.StudentData) (*Report, error) {
	courses := student.Courses
	if courses == nil {
		courses = []models.Course{}
	}

	result, err := d.evaluator.Evaluate(d.root, courses, student.Overrides)
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", d.Key(), err)
	}

	return &Report{
		Area:    d.Ref(),
		Result:  result.Result,
		Details: result.Items,
	}, nil
}

// Pluralize returns the directory name for an area type.
func Pluralize(areaType string) string {
	t := strings.ToLower(strings.TrimSpace(areaType))
	switch {
	case t == "":
		return t
	case t == "emphasis":
		return "emphases"
	case strings.HasSuffix(t, "s"):
		return t
	case strings.HasSuffix(t, "y"):
		return strings.TrimSuffix(t, "y") + "ies"
	default:
		return t + "s"
	}
}

// KebabCase lower-cases name and joins its words with hyphens ("Asian Studies" →
// "asian-studies", "CompSci" → "comp-sci").
func KebabCase(name string) string {
	var b strings.Builder
	prevLower := false
	pendingDash := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if b.Len() > 0 && (pendingDash || (prevLower && unicode.IsUpper(r))) {
				b.WriteByte('-')
			}
			pendingDash = false
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingDash = true
			prevLower = false
		}
	}
	return b.String()
}
