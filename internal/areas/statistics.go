package areas

import (
	"github.com/yigit/degreeaudit/internal/engine/area"
	"github.com/yigit/degreeaudit/internal/engine/evaluator"
	r "github.com/yigit/degreeaudit/internal/engine/requirement"
)

// statisticsFoundation lists courses recommended before the concentration; any number counts.
func statisticsFoundation() *r.Group {
	return r.NewGroup("Foundation",
		"These are recommended courses for the concentration.",
		r.NewThreshold(r.AnyNumber, r.Courses("STAT 110", "STAT 212", "STAT 214", "STAT 263")...))
}

func statisticsCore() *r.Group {
	return r.NewGroup("Core",
		"Statistics 272: Statistical Modeling, and Statistics 316: Advanced Statistical Modeling",
		r.NewAll(
			r.NamedCourse("Statistical Modeling", "STAT 272"),
			r.NamedCourse("Advanced Modeling", "STAT 316"),
		))
}

func statisticsElectives() *r.Group {
	return r.NewGroup("Electives",
		"Two electives.",
		r.NewThreshold(r.NeedsCount(2), r.Courses(
			"CSCI 125", "ECON 385", "MATH 262", "PSYCH 230",
			"SOAN 371", "STAT 270", "STAT 282", "STAT 322",
		)...))
}

// StatisticsRequirements is the 2014-15 Statistics concentration.
func StatisticsRequirements() *r.Group {
	return r.NewGroup("Statistics", "", r.NewAll(
		statisticsFoundation(),
		statisticsCore(),
		statisticsElectives(),
	))
}

// Statistics returns the Statistics concentration definition.
func Statistics(ev *evaluator.Evaluator) (*area.Definition, error) {
	d, err := area.New("Statistics", "concentration", "2014-15", StatisticsRequirements(), ev)
	if err != nil {
		return nil, err
	}
	d.ID = "c-stat"
	d.DepartmentAbbr = "STAT"
	return d, nil
}
