// Package requirement defines the canonical requirement tree evaluated by the audit engine
// and the result tree an evaluation produces.
//
// A requirement tree is built from five node shapes. Four of them state a condition over a
// student's courses (CourseRef, All, Threshold, CountedObjects); the fifth, Group, wraps one of
// the others with display metadata. A canonical tree has a Group at every position.
package requirement

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// TypeTag selects the satisfaction rule and the detail shape of a Group.
type TypeTag string

const (
	TypeAll     TypeTag = "array/boolean"
	TypeSome    TypeTag = "array/some"
	TypeCounted TypeTag = "object/number"
	TypeCourse  TypeTag = "course"
)

// Node is a requirement tree node. The set of implementations is closed.
type Node interface {
	requirementNode()
}

// CourseRef is satisfied when some course matches Pattern.
type CourseRef struct {
	Pattern Pattern
}

// All is satisfied when every child is satisfied.
type All struct {
	Children []Node
}

// Threshold is satisfied when at least Needs children are satisfied.
type Threshold struct {
	Children []Node
	Needs    Needs
}

// CountedObjects is satisfied when at least Needs courses match Filter once every course
// matching an Exclude pattern has been removed.
type CountedObjects struct {
	Filter  Pattern
	Needs   int
	Exclude []Pattern
}

// Group labels a node for reporting. Type must agree with the wrapped node's variant.
type Group struct {
	Title       string
	Description string
	Type        TypeTag
	TopLevel    bool
	Node        Node
}

func (*CourseRef) requirementNode()      {}
func (*All) requirementNode()            {}
func (*Threshold) requirementNode()      {}
func (*CountedObjects) requirementNode() {}
func (*Group) requirementNode()          {}

// Needs is a threshold: either a fixed count or "any number", which is satisfied by one.
type Needs struct {
	Count int
	Any   bool
}

// AnyNumber is the "any number" threshold.
var AnyNumber = Needs{Any: true}

// NeedsCount returns a fixed-count threshold.
func NeedsCount(n int) Needs {
	return Needs{Count: n}
}

// Min is the number of satisfied children required.
func (n Needs) Min() int {
	if n.Any {
		return 1
	}
	return n.Count
}

func (n Needs) String() string {
	if n.Any {
		return "any number"
	}
	return strconv.Itoa(n.Count)
}

// MarshalJSON renders "any number" as a string and counts as numbers.
func (n Needs) MarshalJSON() ([]byte, error) {
	if n.Any {
		return json.Marshal("any number")
	}
	return json.Marshal(n.Count)
}

// NewCourse returns a CourseRef for p.
func NewCourse(p Pattern) *CourseRef {
	return &CourseRef{Pattern: p}
}

// NewAll returns an All over children.
func NewAll(children ...Node) *All {
	return &All{Children: children}
}

// NewThreshold returns a Threshold over children.
func NewThreshold(needs Needs, children ...Node) *Threshold {
	return &Threshold{Children: children, Needs: needs}
}

// NewCounted returns a CountedObjects requirement.
func NewCounted(filter Pattern, needs int, exclude ...Pattern) *CountedObjects {
	if len(exclude) == 0 {
		exclude = nil
	}
	return &CountedObjects{Filter: filter, Needs: needs, Exclude: exclude}
}

// NewGroup wraps n with display metadata, deriving the type tag from n's variant.
func NewGroup(title, description string, n Node) *Group {
	return &Group{
		Title:       title,
		Description: description,
		Type:        TypeOf(n),
		Node:        n,
	}
}

// Course is shorthand for a titled single-course leaf; the title defaults to the pattern.
func Course(pattern string) *Group {
	p := MustPattern(pattern)
	return NewGroup(p.String(), "", NewCourse(p))
}

// NamedCourse is a single-course leaf with an explicit title.
func NamedCourse(title, pattern string) *Group {
	return NewGroup(title, "", NewCourse(MustPattern(pattern)))
}

// Courses returns a leaf per pattern, in order.
func Courses(patterns ...string) []Node {
	nodes := make([]Node, 0, len(patterns))
	for _, p := range patterns {
		nodes = append(nodes, Course(p))
	}
	return nodes
}

// TypeOf returns the type tag a Group wrapping n must carry. For a Group it returns the
// group's own tag.
func TypeOf(n Node) TypeTag {
	switch v := n.(type) {
	case *CourseRef:
		return TypeCourse
	case *All:
		return TypeAll
	case *Threshold:
		return TypeSome
	case *CountedObjects:
		return TypeCounted
	case *Group:
		return v.Type
	default:
		return ""
	}
}

// Patterns returns every CourseRef pattern in the subtree rooted at n, in first-seen order
// and without duplicates.
func Patterns(n Node) []Pattern {
	var out []Pattern
	seen := make(map[Pattern]bool)
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *CourseRef:
			if !seen[v.Pattern] {
				seen[v.Pattern] = true
				out = append(out, v.Pattern)
			}
		case *All:
			for _, c := range v.Children {
				walk(c)
			}
		case *Threshold:
			for _, c := range v.Children {
				walk(c)
			}
		case *Group:
			walk(v.Node)
		}
	}
	walk(n)
	return out
}

// Describe renders a one-line summary of a variant, used in logs and error messages.
func Describe(n Node) string {
	switch v := n.(type) {
	case *CourseRef:
		return "course " + v.Pattern.String()
	case *All:
		return fmt.Sprintf("all of %d", len(v.Children))
	case *Threshold:
		return fmt.Sprintf("%s of %d", v.Needs, len(v.Children))
	case *CountedObjects:
		return fmt.Sprintf("%d from %s", v.Needs, v.Filter)
	case *Group:
		return fmt.Sprintf("%q (%s)", v.Title, Describe(v.Node))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", n)
	}
}
