package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ruancomelli/psin/internal/animation"
)

const (
	canvasWidth  = 60
	canvasHeight = 30
)

type TickMsg time.Time

// Preview plays precomputed frames on a Braille canvas.
type Preview struct {
	title    string
	frames   []animation.Frame
	energy   []float64
	canvas   *Canvas
	pos      int
	running  bool
	interval time.Duration
	theme    Theme
	showHelp bool
}

// NewPreview plays frames at fps. energy, when given, holds one mechanical
// energy value per frame and is plotted up to the current frame.
func NewPreview(title string, frames []animation.Frame, fps float64, energy []float64) Preview {
	interval := time.Second / 25
	if fps > 0 {
		interval = time.Duration(float64(time.Second) / fps)
	}
	return Preview{
		title:    title,
		frames:   frames,
		energy:   energy,
		canvas:   NewCanvas(canvasWidth, canvasHeight),
		running:  len(frames) > 1,
		interval: interval,
		theme:    Themes[0],
	}
}

// WithTheme returns p drawn in t.
func (p Preview) WithTheme(t Theme) Preview {
	p.theme = t
	return p
}

func (p Preview) Position() int  { return p.pos }
func (p Preview) Running() bool  { return p.running }
func (p Preview) Theme() Theme   { return p.theme }
func (p Preview) Len() int       { return len(p.frames) }
func (p Preview) ShowHelp() bool { return p.showHelp }

func (p Preview) tick() tea.Cmd {
	return tea.Tick(p.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (p Preview) Init() tea.Cmd {
	return p.tick()
}

func (p Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		case " ", "space":
			if p.pos == len(p.frames)-1 {
				p.pos = 0
			}
			p.running = !p.running
		case "[":
			p.step(-1)
		case "]":
			p.step(1)
		case "r":
			p.pos = 0
		case "t":
			p.theme = NextTheme(p.theme)
		case "?":
			p.showHelp = !p.showHelp
		}
	case TickMsg:
		if p.running {
			p.pos++
			if p.pos >= len(p.frames)-1 {
				p.pos = max(0, len(p.frames)-1)
				p.running = false
			}
		}
		return p, p.tick()
	}
	return p, nil
}

// step pauses and moves by dir frames, clamped to the sequence.
func (p *Preview) step(dir int) {
	p.running = false
	p.pos = max(0, min(p.pos+dir, len(p.frames)-1))
}

func (p Preview) status() string {
	switch {
	case len(p.frames) == 0:
		return "EMPTY"
	case p.running:
		return "PLAYING"
	case p.pos == len(p.frames)-1:
		return "DONE"
	}
	return "PAUSED"
}

func (p Preview) View() string {
	th := p.theme
	header := lipgloss.NewStyle().Bold(true).MarginBottom(1)
	label := lipgloss.NewStyle().Foreground(th.Muted).Width(10)
	value := lipgloss.NewStyle().Foreground(th.Text)
	help := lipgloss.NewStyle().Foreground(th.Muted).MarginTop(1)
	stats := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(th.Muted).
		Padding(1, 2).
		Width(44)

	if len(p.frames) == 0 {
		return header.Render(p.title) + "\nno frames\n"
	}
	f := p.frames[p.pos]
	p.canvas.DrawFrame(f)
	canvasView := lipgloss.NewStyle().Foreground(th.Primary).Padding(1, 2).Render(p.canvas.String())

	var s strings.Builder
	s.WriteString(header.Render(GradientText(strings.ToUpper(p.title), th.Primary, th.Accent)) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(th.Accent).Bold(true).Render(p.status()) + "\n\n")
	s.WriteString(label.Render("Time") + value.Render(f.Label) + "\n")
	s.WriteString(label.Render("Frame") + value.Render(fmt.Sprintf("%d/%d (index %d)", f.Number+1, len(p.frames), f.TimeIndex)) + "\n")
	s.WriteString(label.Render("View") + value.Render(f.Viewport.String()) + "\n")
	s.WriteString(label.Render("Bodies") + value.Render(fmt.Sprintf("%d particles, %d planes", len(f.Circles), len(f.Lines))) + "\n\n")

	progress := 1.0
	if len(p.frames) > 1 {
		progress = float64(p.pos) / float64(len(p.frames)-1)
	}
	s.WriteString(ProgressBar(progress, 30) + "\n")

	if n := min(p.pos+1, len(p.energy)); n > 1 {
		graph := asciigraph.Plot(p.energy[:n], asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Mechanical energy"))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(th.Secondary).Render(graph) + "\n")
	}

	s.WriteString(help.Render("SP:Pause [ ]:Step R:Rewind\nT:Theme ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, stats.Render(s.String()))

	if p.showHelp {
		return `
╔══════════════════════════════════╗
║        KEYBOARD SHORTCUTS        ║
╠══════════════════════════════════╣
║  Space  - Pause/Resume playback  ║
║  [      - Previous frame         ║
║  ]      - Next frame             ║
║  R      - Rewind                 ║
║  T      - Cycle themes           ║
║  ?      - Toggle this help       ║
║  Q      - Quit                   ║
╚══════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}

// Run plays p full screen until the user quits.
func Run(p Preview) error {
	_, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}
