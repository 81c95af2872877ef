package hanson

import (
	"github.com/yigit/degreeaudit/internal/engine/requirement"
)

// Encode renders a requirement tree back into Hanson notation. Normalizing the output yields
// a tree equal to n when n is canonical.
func Encode(n requirement.Node) map[string]interface{} {
	m := make(map[string]interface{})

	inner := n
	listKey := keyOf
	if g, ok := n.(*requirement.Group); ok && g != nil {
		m[keyTitle] = g.Title
		if g.Description != "" {
			m[keyDescription] = g.Description
		}
		if g.TopLevel {
			listKey = keyRequirements
		}
		inner = g.Node
	}

	switch v := inner.(type) {
	case *requirement.CourseRef:
		m[keyCourse] = v.Pattern.String()
	case *requirement.All:
		m[listKey] = encodeChildren(v.Children)
	case *requirement.Threshold:
		m[listKey] = encodeChildren(v.Children)
		if v.Needs.Any {
			m[keyNeeds] = "any"
		} else {
			m[keyNeeds] = v.Needs.Count
		}
	case *requirement.CountedObjects:
		m[keyDepartment] = v.Filter.Department
		m[keyNeeds] = v.Needs
		if len(v.Exclude) > 0 {
			except := make([]interface{}, 0, len(v.Exclude))
			for _, p := range v.Exclude {
				except = append(except, p.String())
			}
			m[keyExcept] = except
		}
	}
	return m
}

func encodeChildren(children []requirement.Node) []interface{} {
	out := make([]interface{}, 0, len(children))
	for _, c := range children {
		out = append(out, Encode(c))
	}
	return out
}
