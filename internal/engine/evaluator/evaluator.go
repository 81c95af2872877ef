// Package evaluator walks canonical requirement trees against a student's courses.
package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/engine/requirement"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

// Pending is student data that may still be loading.
type Pending interface {
	Await(ctx context.Context) (models.StudentData, error)
}

// Evaluator produces result trees. It holds no per-evaluation state and is safe for
// concurrent use.
type Evaluator struct {
	matcher Matcher
	logger  zerolog.Logger
}

// New creates an Evaluator. A nil matcher selects DeptNumMatcher.
func New(matcher Matcher, logger zerolog.Logger) *Evaluator {
	if matcher == nil {
		matcher = DeptNumMatcher{}
	}
	return &Evaluator{
		matcher: matcher,
		logger:  logger,
	}
}

// Evaluate checks node against courses after applying overrides.
func (e *Evaluator) Evaluate(node requirement.Node, courses []models.Course, overrides models.Overrides) (*requirement.Result, error) {
	if node == nil {
		return nil, apperrors.NewMissingFieldError("requirement")
	}

	start := time.Now()
	snap := newSnapshot(courses, overrides, e.logger)

	result, err := e.eval(node, snap)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("requirement", result.Title).
		Bool("result", result.Result).
		Int("courses", len(snap.courses)).
		Dur("duration", time.Since(start)).
		Msg("Requirement evaluated")
	return result, nil
}

// EvaluateAsync waits for data and then evaluates node. An acquisition error is returned
// unchanged and no evaluation takes place.
func (e *Evaluator) EvaluateAsync(ctx context.Context, data Pending, node requirement.Node) (*requirement.Result, error) {
	if data == nil {
		return nil, apperrors.NewMissingFieldError("student data")
	}
	student, err := data.Await(ctx)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(node, student.Courses, student.Overrides)
}

func (e *Evaluator) eval(n requirement.Node, snap *snapshot) (*requirement.Result, error) {
	switch v := n.(type) {
	case *requirement.Group:
		if v.Node == nil {
			return nil, apperrors.NewMissingFieldError("requirement")
		}
		r, err := e.eval(v.Node, snap)
		if err != nil {
			return nil, err
		}
		r.Title = v.Title
		r.Description = v.Description
		r.Type = v.Type
		r.TopLevel = v.TopLevel
		return r, nil

	case *requirement.CourseRef:
		return &requirement.Result{
			Title:  v.Pattern.String(),
			Type:   requirement.TypeCourse,
			Result: snap.satisfies(e.matcher, v.Pattern),
		}, nil

	case *requirement.All:
		items, has, err := e.evalChildren(v.Children, snap)
		if err != nil {
			return nil, err
		}
		return &requirement.Result{
			Type:   requirement.TypeAll,
			Result: has == len(items),
			Items:  items,
			Has:    has,
			Needs:  requirement.NeedsCount(len(items)),
		}, nil

	case *requirement.Threshold:
		items, has, err := e.evalChildren(v.Children, snap)
		if err != nil {
			return nil, err
		}
		return &requirement.Result{
			Type:   requirement.TypeSome,
			Result: has >= v.Needs.Min(),
			Items:  items,
			Has:    has,
			Needs:  v.Needs,
		}, nil

	case *requirement.CountedObjects:
		matches := snap.count(e.matcher, v.Filter, v.Exclude)
		return &requirement.Result{
			Type:    requirement.TypeCounted,
			Result:  len(matches) >= v.Needs,
			Has:     len(matches),
			Needs:   requirement.NeedsCount(v.Needs),
			Matches: matches,
		}, nil

	default:
		return nil, apperrors.NewMalformedSpecError("", fmt.Sprintf("cannot evaluate %s", requirement.Describe(n)))
	}
}

// evalChildren evaluates every child, in order, without short-circuiting.
func (e *Evaluator) evalChildren(children []requirement.Node, snap *snapshot) ([]*requirement.Result, int, error) {
	items := make([]*requirement.Result, 0, len(children))
	has := 0
	for _, c := range children {
		r, err := e.eval(c, snap)
		if err != nil {
			return nil, 0, err
		}
		if r.Result {
			has++
		}
		items = append(items, r)
	}
	return items, has, nil
}
