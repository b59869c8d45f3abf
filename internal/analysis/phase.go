package analysis

import (
	"strings"

	"github.com/san-kum/rdsim/internal/rd"
)

// Point is one sample of a phase portrait.
type Point struct{ X, Y float64 }

// PhasePortrait records two fields at one probe after every solver step.
// Register it with Solver.AddObserver.
type PhasePortrait struct {
	FieldX, FieldY int
	ProbeX, ProbeY int
	Points         []Point
}

func NewPhasePortrait(fieldX, fieldY, probeX, probeY int) *PhasePortrait {
	return &PhasePortrait{FieldX: fieldX, FieldY: fieldY, ProbeX: probeX, ProbeY: probeY}
}

func (p *PhasePortrait) OnStep(s *rd.Slice, _ float64) {
	p.Points = append(p.Points, Point{
		X: s.At(p.FieldX, p.ProbeX, p.ProbeY),
		Y: s.At(p.FieldY, p.ProbeX, p.ProbeY),
	})
}

// ASCII plots the portrait on a width x height character grid.
func (p *PhasePortrait) ASCII(width, height int) string {
	if len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	// 10% padding
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX, maxX = minX-rangeX*0.1, maxX+rangeX*0.1
	minY, maxY = minY-rangeY*0.1, maxY+rangeY*0.1
	rangeX, rangeY = maxX-minX, maxY-minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		col := int(-minX / rangeX * float64(width-1))
		for row := range canvas {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int(-minY/rangeY*float64(height-1))
		for col := range canvas[row] {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		canvas[row][col] = '•'
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
