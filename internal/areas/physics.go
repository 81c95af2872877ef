package areas

import (
	"github.com/yigit/degreeaudit/internal/engine/area"
	"github.com/yigit/degreeaudit/internal/engine/evaluator"
	r "github.com/yigit/degreeaudit/internal/engine/requirement"
)

func physicsAnalytics() *r.Group {
	return r.NewGroup("Analytics", "Physics 130, 131, 232",
		r.NewAll(r.Courses("PHYS 130", "PHYS 131", "PHYS 232")...))
}

func physicsTransitions() *r.Group {
	return r.NewGroup("Transitions", "Physics 244 and 245",
		r.NewAll(r.Courses("PHYS 244", "PHYS 245")...))
}

func physicsUpperLevel() *r.Group {
	return r.NewGroup("Upper Level", "Physics 374, 375 and 385, 376 and 386",
		r.NewAll(r.Courses("PHYS 374", "PHYS 375", "PHYS 385", "PHYS 376", "PHYS 386")...))
}

// PhysicsRequirements is the Physics major. Electives count department courses that are not
// already required by name elsewhere in the major.
func PhysicsRequirements() *r.Group {
	named := []*r.Group{physicsAnalytics(), physicsTransitions(), physicsUpperLevel()}

	var required []r.Pattern
	children := make([]r.Node, 0, len(named)+1)
	for _, g := range named {
		required = append(required, r.Patterns(g)...)
		children = append(children, g)
	}

	electives := r.NewGroup("Electives", "Two approved electives.",
		r.NewCounted(r.MustPattern("PHYS"), 1, required...))

	return r.NewGroup("Physics", "", r.NewAll(append(children, electives)...))
}

// Physics returns the Physics major definition.
func Physics(ev *evaluator.Evaluator) (*area.Definition, error) {
	d, err := area.New("Physics", "major", "", PhysicsRequirements(), ev)
	if err != nil {
		return nil, err
	}
	d.ID = "m-phys"
	d.DepartmentAbbr = "PHYS"
	return d, nil
}
