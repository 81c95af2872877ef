// Package areas holds the majors and concentrations defined directly in Go.
package areas

import (
	"fmt"

	"github.com/yigit/degreeaudit/internal/engine/area"
	"github.com/yigit/degreeaudit/internal/engine/evaluator"
)

type constructor func(*evaluator.Evaluator) (*area.Definition, error)

var builtins = []constructor{
	Statistics,
	Physics,
}

// Builtin builds every Go-defined area against ev.
func Builtin(ev *evaluator.Evaluator) ([]*area.Definition, error) {
	defs := make([]*area.Definition, 0, len(builtins))
	for _, build := range builtins {
		d, err := build(ev)
		if err != nil {
			return nil, fmt.Errorf("building built-in area: %w", err)
		}
		defs = append(defs, d)
	}
	return defs, nil
}
