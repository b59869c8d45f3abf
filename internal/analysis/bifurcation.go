package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/rdsim/internal/rd"
)

// BifurcationPoint holds the distinct values a probe settled into for one
// parameter value.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// Probe locates the grid point a scan records.
type Probe struct {
	Field, X, Y int
}

// BifurcationDiagram sweeps a parameter from paramMin to paramMax. For each
// value, build returns a fresh solver, transient steps are discarded and the
// next record steps contribute their distinct probe values (quantised to
// 1e-3).
func BifurcationDiagram(
	build func(param float64) (*rd.Solver, error),
	paramMin, paramMax float64,
	paramSteps int,
	probe Probe,
	transient, record int,
) ([]BifurcationPoint, error) {
	if paramSteps < 2 {
		paramSteps = 2
	}
	paramStep := (paramMax - paramMin) / float64(paramSteps-1)

	results := make([]BifurcationPoint, 0, paramSteps)
	for i := 0; i < paramSteps; i++ {
		param := paramMin + float64(i)*paramStep
		s, err := build(param)
		if err != nil {
			return nil, fmt.Errorf("param %g: %w", param, err)
		}

		if transient > 0 {
			if err := s.Advance(transient); err != nil {
				return nil, fmt.Errorf("param %g: %w", param, err)
			}
		}

		values := make([]float64, 0, 16)
		seen := make(map[int]bool)
		for n := 0; n < record; n++ {
			if err := s.Advance(1); err != nil {
				return nil, fmt.Errorf("param %g: %w", param, err)
			}
			val, err := s.Value(probe.Field, probe.X, probe.Y)
			if err != nil {
				return nil, err
			}
			if key := int(val * 1000); !seen[key] {
				seen[key] = true
				values = append(values, val)
			}
		}
		results = append(results, BifurcationPoint{Param: param, Values: values})
	}
	return results, nil
}

// BifurcationToASCII converts bifurcation data to ASCII art
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal, found = v, v, true
				continue
			}
			minVal, maxVal = min(minVal, v), max(maxVal, v)
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			canvas[row][col] = '•'
		}
	}

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}
