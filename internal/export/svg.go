package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/rdsim/internal/rd"
	"github.com/san-kum/rdsim/internal/viz"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// SnapshotToSVG draws field as one square of side scale per grid point,
// coloured by the current theme over the field's own range. Row 0 is at the
// top.
func SnapshotToSVG(s *rd.Slice, field int, scale int) string {
	rows := make([][]float64, s.NY())
	for y := range rows {
		rows[y] = make([]float64, s.NX())
		for x := range rows[y] {
			rows[y][x] = s.At(field, x, y)
		}
	}
	return RowsToSVG(rows, scale)
}

// RowsToSVG is SnapshotToSVG for a grid already read back from disk, with
// rows[y][x].
func RowsToSVG(rows [][]float64, scale int) string {
	if scale < 1 {
		scale = 1
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ""
	}
	nx, ny := len(rows[0]), len(rows)
	w, h := nx*scale, ny*scale

	lo, hi := rows[0][0], rows[0][0]
	for _, r := range rows {
		for _, v := range r {
			lo, hi = min(lo, v), max(hi, v)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, header, w, h, w, h)
	for y, r := range rows {
		for x, v := range r {
			t := 0.0
			if hi > lo {
				t = (v - lo) / (hi - lo)
			}
			fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>
`, x*scale, y*scale, scale, scale, viz.CurrentTheme.Shade(t))
		}
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// ProfileToSVG draws field along row y as a line.
func ProfileToSVG(s *rd.Slice, field, y, width, height int, strokeColor string) string {
	xs := make([]float64, s.NX())
	vs := make([]float64, s.NX())
	for x := range xs {
		xs[x], vs[x] = float64(x), s.At(field, x, y)
	}
	return LineToSVG(xs, vs, width, height, strokeColor)
}

// LineToSVG draws the polyline through (xs[i], ys[i]), such as a probe trace
// over time.
func LineToSVG(xs, ys []float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, ys[i]), max(maxY, ys[i])
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, header, width, height, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i := range xs {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
