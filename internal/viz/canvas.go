package viz

import (
	"math"
	"strings"

	"github.com/san-kum/rdsim/internal/rd"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas is
// (Width*2) x (Height*4) sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Excited marks every sub-pixel whose nearest grid point has field above
// threshold. Row 0 of the grid is drawn at the top.
func (c *Canvas) Excited(s *rd.Slice, field int, threshold float64) {
	c.Clear()
	pw, ph := c.Width*2, c.Height*4
	for py := 0; py < ph; py++ {
		y := py * s.NY() / ph
		for px := 0; px < pw; px++ {
			if s.At(field, px*s.NX()/pw, y) > threshold {
				c.Set(px, py)
			}
		}
	}
}

// Trace draws a field along row y as a connected line scaled to [lo, hi].
func (c *Canvas) Trace(s *rd.Slice, field, y int, lo, hi float64) {
	c.Clear()
	pw, ph := c.Width*2, c.Height*4
	prevX, prevY := -1, -1
	for px := 0; px < pw; px++ {
		v := s.At(field, px*s.NX()/pw, y)
		py := ph - 1 - int(norm(v, lo, hi)*float64(ph-1))
		if prevX >= 0 {
			c.DrawLine(prevX, prevY, px, py)
		}
		prevX, prevY = px, py
	}
}

var shades = []rune(" ░▒▓█")

// Heatmap renders field as w x h shade characters scaled to [lo, hi].
func Heatmap(s *rd.Slice, field int, lo, hi float64, w, h int) string {
	var b strings.Builder
	for row := 0; row < h; row++ {
		y := row * s.NY() / h
		for col := 0; col < w; col++ {
			v := s.At(field, col*s.NX()/w, y)
			i := int(norm(v, lo, hi) * float64(len(shades)-1))
			b.WriteRune(shades[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Range returns the smallest and largest value of field.
func Range(s *rd.Slice, field int) (lo, hi float64) {
	lo, hi = s.At(field, 0, 0), s.At(field, 0, 0)
	for x := 0; x < s.NX(); x++ {
		for y := 0; y < s.NY(); y++ {
			v := s.At(field, x, y)
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	return lo, hi
}

// norm clamps v into [lo, hi] and maps it onto [0, 1].
func norm(v, lo, hi float64) float64 {
	if hi <= lo || math.IsNaN(v) {
		return 0
	}
	t := (v - lo) / (hi - lo)
	return min(max(t, 0), 1)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
