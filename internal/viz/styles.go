package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rdsim/internal/rd"
)

var Panel = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(0, 1)

var Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))

var Subtle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))

var MetricLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")).Width(12)

var MetricValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)

var KeyHint = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true)

// Sparkline bar colors
var (
	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// Status renders a run state in the current theme.
func Status(running bool) string {
	if running {
		return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Running).Render("RUNNING")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Paused).Render("PAUSED")
}

// ColorHeatmap is Heatmap drawn with full blocks coloured by the current
// theme.
func ColorHeatmap(s *rd.Slice, field int, lo, hi float64, w, h int) string {
	var b strings.Builder
	for row := 0; row < h; row++ {
		y := row * s.NY() / h
		for col := 0; col < w; col++ {
			v := norm(s.At(field, col*s.NX()/w, y), lo, hi)
			b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Shade(v)).Render("█"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ProgressBar renders the completed fraction of a run.
func ProgressBar(percent float64, width int) string {
	filled := min(max(int(percent*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return SparkHigh.Render(bar)
	} else if percent > 0.4 {
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// SparklineChart renders a mini sparkline from values
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}

	// Sample to fit width
	step := max(len(values)/width, 1)

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		n := norm(values[i*step], lo, hi)
		c := string(chars[int(n*float64(len(chars)-1))])
		switch {
		case n > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case n > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}
	return result.String()
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	return parseHexByte(hex[1:3]), parseHexByte(hex[3:5]), parseHexByte(hex[5:7])
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	v = min(max(v, 0), 255)
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
