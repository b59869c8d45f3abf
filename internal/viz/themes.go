package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a colour ramp for field values plus the chrome colours of the
// live view.
type Theme struct {
	Name    string
	Low     lipgloss.Color
	Mid     lipgloss.Color
	High    lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
}

var (
	ThemeExcitable = Theme{
		Name:    "excitable",
		Low:     lipgloss.Color("#0a0a2a"),
		Mid:     lipgloss.Color("#ff00ff"),
		High:    lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Running: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffaa00"),
	}

	ThemeThermal = Theme{
		Name:    "thermal",
		Low:     lipgloss.Color("#000033"),
		Mid:     lipgloss.Color("#cc2200"),
		High:    lipgloss.Color("#ffffcc"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Running: lipgloss.Color("#5fd068"),
		Paused:  lipgloss.Color("#ffc048"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Low:     lipgloss.Color("#000000"),
		Mid:     lipgloss.Color("#777777"),
		High:    lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Running: lipgloss.Color("#00ff00"),
		Paused:  lipgloss.Color("#ffaa00"),
	}

	CurrentTheme = ThemeExcitable

	Themes = []Theme{ThemeExcitable, ThemeThermal, ThemeMono}
)

// Shade interpolates the theme ramp at v in [0, 1].
func (t Theme) Shade(v float64) lipgloss.Color {
	v = min(max(v, 0), 1)
	from, to := t.Low, t.Mid
	if v > 0.5 {
		from, to, v = t.Mid, t.High, v-0.5
	}
	v *= 2
	sr, sg, sb := parseHex(string(from))
	er, eg, eb := parseHex(string(to))
	return lipgloss.Color(hexColor(
		sr+int(v*float64(er-sr)),
		sg+int(v*float64(eg-sg)),
		sb+int(v*float64(eb-sb)),
	))
}

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeExcitable
}

func SetTheme(name string) { CurrentTheme = GetTheme(name) }

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
