package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/engine/area"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

// BenchmarkResult is the timing of repeated evaluations of one student against one area
type BenchmarkResult struct {
	Student string
	Area    models.AreaRef
	Result  bool
	Times   []time.Duration
}

// Average is the mean evaluation time
func (b BenchmarkResult) Average() time.Duration {
	if len(b.Times) == 0 {
		return 0
	}
	var total time.Duration
	for _, t := range b.Times {
		total += t
	}
	return total / time.Duration(len(b.Times))
}

// Benchmark evaluates every declared area of every student runs times. Evaluations run one at
// a time so the timings are comparable.
func (s *AuditService) Benchmark(ctx context.Context, students []*models.Student, runs int) ([]BenchmarkResult, error) {
	if runs < 1 {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("runs must be at least 1, got %d", runs))
	}

	var results []BenchmarkResult
	for _, st := range students {
		for _, ref := range st.Data.Areas {
			def, err := s.areas.Get(ctx, area.KeyOf(ref))
			if err != nil {
				return nil, fmt.Errorf("student %s: %w", st.Identifier, err)
			}

			res := BenchmarkResult{Student: st.Identifier, Area: ref, Times: make([]time.Duration, 0, runs)}
			for i := 0; i < runs; i++ {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				start := time.Now()
				report, err := def.Evaluate(st.Data)
				elapsed := time.Since(start)
				if err != nil {
					return nil, fmt.Errorf("student %s: %w", st.Identifier, err)
				}
				res.Result = report.Result
				res.Times = append(res.Times, elapsed)
			}
			results = append(results, res)
		}
	}
	return results, nil
}

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders durations as a row of block characters scaled between the smallest and
// largest value.
func Sparkline(times []time.Duration) string {
	if len(times) == 0 {
		return ""
	}
	lo, hi := times[0], times[0]
	for _, t := range times {
		lo = min(lo, t)
		hi = max(hi, t)
	}

	var b strings.Builder
	span := float64(hi - lo)
	for _, t := range times {
		idx := 0
		if span > 0 {
			idx = int(math.Round(float64(t-lo) / span * float64(len(sparkTicks)-1)))
		}
		b.WriteRune(sparkTicks[idx])
	}
	return b.String()
}
