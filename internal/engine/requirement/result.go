package requirement

import (
	"encoding/json"

	"github.com/yigit/degreeaudit/internal/app/models"
)

// Result is the evaluation of one Group. It mirrors the shape of the requirement tree.
//
// Items holds child results for array/* types. Has, Needs and Matches are populated for the
// types whose details report them.
type Result struct {
	Title       string
	Description string
	Type        TypeTag
	TopLevel    bool
	Result      bool

	Items   []*Result
	Has     int
	Needs   Needs
	Matches []models.Course
}

type someDetails struct {
	From  []*Result `json:"from"`
	Has   int       `json:"has"`
	Needs Needs     `json:"needs"`
}

type countedDetails struct {
	Has     int             `json:"has"`
	Needs   Needs           `json:"needs"`
	Matches []models.Course `json:"matches"`
}

type resultJSON struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Type        TypeTag     `json:"type"`
	TopLevel    bool        `json:"topLevel,omitempty"`
	Result      bool        `json:"result"`
	Details     interface{} `json:"details,omitempty"`
}

// MarshalJSON renders the details field in the shape the type tag calls for.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		TopLevel:    r.TopLevel,
		Result:      r.Result,
	}

	switch r.Type {
	case TypeAll:
		out.Details = nonNilResults(r.Items)
	case TypeSome:
		out.Details = someDetails{From: nonNilResults(r.Items), Has: r.Has, Needs: r.Needs}
	case TypeCounted:
		matches := r.Matches
		if matches == nil {
			matches = []models.Course{}
		}
		out.Details = countedDetails{Has: r.Has, Needs: r.Needs, Matches: matches}
	}

	return json.Marshal(out)
}

func nonNilResults(items []*Result) []*Result {
	if items == nil {
		return []*Result{}
	}
	return items
}

// Find returns the first result in the subtree, depth first, whose title is title.
func (r *Result) Find(title string) *Result {
	if r == nil {
		return nil
	}
	if r.Title == title {
		return r
	}
	for _, c := range r.Items {
		if found := c.Find(title); found != nil {
			return found
		}
	}
	return nil
}
