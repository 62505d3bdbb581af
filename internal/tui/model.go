// Package tui implements the interactive intent inspector: type a message
// and watch, live, how it would be detected and routed. Nothing is executed.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pepper/internal/intent"
)

// Model is the inspector TUI model.
type Model struct {
	input    textinput.Model
	detector *intent.Detector
	detected intent.Detected
	hasInput bool
	width    int
	height   int
}

// NewModel creates the inspector with an empty input.
func NewModel() Model {
	ti := textinput.New()
	ti.Placeholder = "typ een bericht, bijvoorbeeld: #taak melk kopen"
	ti.CharLimit = 200
	ti.Focus()

	return Model{
		input:    ti,
		detector: intent.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 10
		if w > 72 {
			w = 72
		}
		if w > 0 {
			m.input.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Clear):
			m.input.SetValue("")
			m.hasInput = false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	text := strings.TrimSpace(m.input.Value())
	m.hasInput = text != ""
	if m.hasInput {
		m.detected = m.detector.Detect(text)
	}
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("pepper intent inspector"))
	b.WriteString("\n\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n\n")

	if m.hasInput {
		b.WriteString(detailBorderStyle.Render(m.renderDetected()))
	} else {
		b.WriteString(helpStyle.Render("Het resultaat verschijnt hier terwijl je typt."))
	}

	dctx := m.detector.DateContext()
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("Vandaag: %s %s (%s)", dctx.TodayName, dctx.Today, dctx.Timezone)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("ctrl+u wissen  esc afsluiten"))

	return appStyle.Render(b.String())
}

func (m Model) renderDetected() string {
	d := m.detected

	conf := statusOkStyle
	switch {
	case d.Type == intent.Unknown:
		conf = statusErrorStyle
	case d.Confidence < 0.8:
		conf = statusWarnStyle
	}

	rows := []string{
		detailLabelStyle.Render("Intent      ") + detailValueStyle.Render(string(d.Type)),
		detailLabelStyle.Render("Confidence  ") + conf.Render(fmt.Sprintf("%.1f", d.Confidence)),
		detailLabelStyle.Render("Source      ") + detailValueStyle.Render(d.Source),
	}
	if d.Provider != "" {
		rows = append(rows, detailLabelStyle.Render("Provider    ")+detailValueStyle.Render(d.Provider))
	}

	if len(d.Params) > 0 {
		names := make([]string, 0, len(d.Params))
		for k := range d.Params {
			names = append(names, k)
		}
		sort.Strings(names)

		rows = append(rows, "")
		for _, k := range names {
			rows = append(rows, detailLabelStyle.Render(fmt.Sprintf("%-12s", k))+detailValueStyle.Render(d.Params[k]))
		}
	}

	if d.NeedsExtraction {
		rows = append(rows, "", statusWarnStyle.Render("parameters worden door de assistent aangevuld"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Run starts the inspector.
func Run() error {
	m := NewModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
