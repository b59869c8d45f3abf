package viz

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// Catalog supplies the runs the app can launch.
type Catalog interface {
	// Presets lists run names such as "fhn/cable".
	Presets() []string
	// Settings returns the editable numeric settings of a preset.
	Settings(preset string) map[string]float64
	// Launch builds a live view for a preset with edited settings.
	Launch(preset string, settings map[string]float64) (Model, error)
}

// App picks a preset, edits its settings and then runs it live.
type App struct {
	catalog     Catalog
	state       int
	cursor      int
	presets     []string
	selected    string
	params      map[string]float64
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string
	live        Model
	err         error
}

func NewApp(c Catalog) App {
	return App{catalog: c, state: stateMenu, presets: c.Presets()}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	default:
		if a.state == stateSim {
			return a.forward(msg)
		}
	}
	return a, nil
}

func (a App) forward(msg tea.Msg) (App, tea.Cmd) {
	next, cmd := a.live.Update(msg)
	a.live = next.(Model)
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch a.state {
	case stateMenu:
		return a.menuKey(msg)
	case stateConfig:
		return a.configKey(msg)
	default:
		return a.forward(msg)
	}
}

func (a App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ":
		if len(a.presets) == 0 {
			return a, nil
		}
		a.selected = a.presets[a.cursor]
		a.params = a.catalog.Settings(a.selected)
		a.paramNames = make([]string, 0, len(a.params))
		for k := range a.params {
			a.paramNames = append(a.paramNames, k)
		}
		sort.Strings(a.paramNames)
		a.state, a.paramCursor, a.err = stateConfig, 0, nil
	}
	return a, nil
}

func (a App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(a.editBuf, "%g", &val); err == nil {
				a.params[a.paramNames[a.paramCursor]] = val
			}
			a.editing, a.editBuf = false, ""
		case "esc":
			a.editing, a.editBuf = false, ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				a.editBuf += s
			}
		}
		return a, nil
	}
	switch msg.String() {
	case "q", "esc":
		a.state = stateMenu
	case "up", "k":
		if a.paramCursor > 0 {
			a.paramCursor--
		}
	case "down", "j":
		if a.paramCursor < len(a.paramNames)-1 {
			a.paramCursor++
		}
	case "enter", " ":
		if len(a.paramNames) > 0 {
			a.editing, a.editBuf = true, fmt.Sprintf("%g", a.params[a.paramNames[a.paramCursor]])
		}
	case "s":
		live, err := a.catalog.Launch(a.selected, a.params)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.live, a.state = live, stateSim
		return a, live.Init()
	}
	return a, nil
}

func (a App) View() string {
	switch a.state {
	case stateConfig:
		return a.configView()
	case stateSim:
		return a.live.View()
	}
	var b strings.Builder
	b.WriteString(cyan.Render("rdsim") + dim.Render("  choose a preset") + "\n\n")
	for i, p := range a.presets {
		if i == a.cursor {
			b.WriteString(yellow.Render("> "+p) + "\n")
		} else {
			b.WriteString("  " + white.Render(p) + "\n")
		}
	}
	b.WriteString("\n" + dim.Render("↑↓ move  enter select  q quit"))
	return b.String()
}

func (a App) configView() string {
	var b strings.Builder
	b.WriteString(cyan.Render(a.selected) + "\n\n")
	for i, k := range a.paramNames {
		val := fmt.Sprintf("%g", a.params[k])
		if i == a.paramCursor && a.editing {
			val = a.editBuf + "_"
		}
		line := fmt.Sprintf("%-14s %s", k, val)
		if i == a.paramCursor {
			b.WriteString(yellow.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + white.Render(line) + "\n")
		}
	}
	if a.err != nil {
		b.WriteString("\n" + SparkLow.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n" + dim.Render("enter edit  s start  esc back"))
	return b.String()
}
