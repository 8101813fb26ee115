// Package tui implements the terminal monitor: a read-only view onto a
// running synth plus a small set of transport/looper controls. It never
// touches pattern or voice data directly, only the state the synth
// exposes for display.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oisee/wakefield/pkg/audio"
	"github.com/oisee/wakefield/pkg/clock"
	"github.com/oisee/wakefield/pkg/looper"
	"github.com/oisee/wakefield/pkg/synth"
)

// Model is the monitor's bubbletea model. It reads synth state on every
// tick but never calls Process itself; a RealtimeOutput (or an offline
// render loop) owns the audio thread.
type Model struct {
	Synth *synth.Synth
	Audio *audio.RealtimeOutput

	Width  int
	Height int

	SelectedLoop int
	ShowHelp     bool
	StatusMsg    string
}

// NewModel wraps s for display; rt may be nil if real-time output
// failed to open (the synth still runs, just silently).
func NewModel(s *synth.Synth, rt *audio.RealtimeOutput) Model {
	return Model{
		Synth:  s,
		Audio:  rt,
		Width:  100,
		Height: 30,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, tickCmd())
}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.Audio != nil {
			m.Audio.Close()
		}
		return m, tea.Quit

	case "h", "f1":
		m.ShowHelp = !m.ShowHelp

	case "left":
		if m.SelectedLoop > 0 {
			m.SelectedLoop--
			m.Synth.Loops.SelectLoop(m.SelectedLoop)
		}

	case "right":
		if m.SelectedLoop < len(m.Synth.Loops.Loopers)-1 {
			m.SelectedLoop++
			m.Synth.Loops.SelectLoop(m.SelectedLoop)
		}

	case "r":
		m.Synth.Loops.CurrentLoop().PressRecPlay()
		m.StatusMsg = fmt.Sprintf("loop %d: rec/play", m.SelectedLoop+1)

	case "o":
		m.Synth.Loops.CurrentLoop().PressOverdub()
		m.StatusMsg = fmt.Sprintf("loop %d: overdub", m.SelectedLoop+1)

	case "s":
		m.Synth.Loops.CurrentLoop().PressStop()
		m.StatusMsg = fmt.Sprintf("loop %d: stop", m.SelectedLoop+1)

	case "x":
		m.Synth.Loops.CurrentLoop().PressClear()
		m.StatusMsg = fmt.Sprintf("loop %d: clear", m.SelectedLoop+1)

	case "+", "=":
		m.Synth.Clock.SetTempo(m.Synth.Clock.Tempo() + 1)

	case "-", "_":
		m.Synth.Clock.SetTempo(m.Synth.Clock.Tempo() - 1)

	case "f9":
		m.exportWAV()
	}
	return m, nil
}

func (m *Model) exportWAV() {
	if err := os.MkdirAll("_export", 0755); err != nil {
		m.StatusMsg = "export failed: " + err.Error()
		return
	}
	path := "_export/session.wav"
	f, err := os.Create(path)
	if err != nil {
		m.StatusMsg = "export failed: " + err.Error()
		return
	}
	defer f.Close()

	if err := audio.ExportWAV(m.Synth, f, int(m.Synth.SampleRate), 10); err != nil {
		m.StatusMsg = "export failed: " + err.Error()
		return
	}
	m.StatusMsg = "exported 10s to " + path
}

func (m Model) View() string {
	if m.ShowHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.voicesView())
	b.WriteString("\n")
	b.WriteString(m.loopersView())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("14")).
		Render("WAKEFIELD")

	step := m.Synth.Clock.GetCurrentStep(clock.Sixteenth)
	info := fmt.Sprintf(" │ BPM:%.0f │ Step:%02d │ Voices:%d/%d",
		m.Synth.Clock.Tempo(), step,
		m.Synth.Voices.ActiveCount(), len(m.Synth.Voices.Voices))

	return title + info
}

func (m Model) voicesView() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("VOICES ")
	var bar strings.Builder
	active := m.Synth.Voices.ActiveCount()
	for i := 0; i < len(m.Synth.Voices.Voices); i++ {
		cell := "·"
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		if i < active {
			cell = "█"
			style = style.Foreground(lipgloss.Color("10"))
		}
		bar.WriteString(style.Render(cell))
	}
	return label + bar.String()
}

func (m Model) loopersView() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Render("LOOPS"))
	b.WriteString("\n")
	for i, l := range m.Synth.Loops.Loopers {
		cursor := "  "
		if i == m.SelectedLoop {
			cursor = "> "
		}
		style := lipgloss.NewStyle()
		switch l.State() {
		case looper.Recording:
			style = style.Foreground(lipgloss.Color("9"))
		case looper.Playing:
			style = style.Foreground(lipgloss.Color("10"))
		case looper.Overdubbing:
			style = style.Foreground(lipgloss.Color("13"))
		case looper.Stopped:
			style = style.Foreground(lipgloss.Color("3"))
		default:
			style = style.Foreground(lipgloss.Color("8"))
		}
		line := fmt.Sprintf("%s%d: %-11s len:%d", cursor, i+1, stateName(l.State()), l.LoopLength())
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}

func stateName(s looper.State) string {
	switch s {
	case looper.Empty:
		return "empty"
	case looper.Recording:
		return "recording"
	case looper.Playing:
		return "playing"
	case looper.Overdubbing:
		return "overdubbing"
	case looper.Stopped:
		return "stopped"
	default:
		return "?"
	}
}

func (m Model) footerView() string {
	keys := " [←→]Loop [R]Rec/Play [O]Overdub [S]Stop [X]Clear [+/-]Tempo [F9]Export [H]Help [Q]Quit"
	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(keys)
	if m.StatusMsg != "" {
		footer += lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("\n " + m.StatusMsg)
	}
	return footer
}

func (m Model) helpView() string {
	help := `
╔══════════════════════════════════════════════════════════════════╗
║                       WAKEFIELD MONITOR HELP                    ║
╠══════════════════════════════════════════════════════════════════╣
║ This view is read-only: notes arrive over MIDI, the sequencer   ║
║ and modulation matrix run on the audio thread. This terminal    ║
║ only displays their state and drives the looper transport.      ║
║                                                                  ║
║   ←→        Select loop slot                                   ║
║   R         Rec/Play (first press records, second plays)       ║
║   O         Overdub onto current loop                          ║
║   S         Stop current loop                                  ║
║   X         Clear current loop                                 ║
║   +/-       Tempo up/down                                      ║
║   F9        Export 10s to _export/session.wav                  ║
║                                                                  ║
║                              [H/F1] Close help                  ║
╚══════════════════════════════════════════════════════════════════╝
`
	return lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Render(help)
}
