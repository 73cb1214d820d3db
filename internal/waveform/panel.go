package waveform

import (
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastPanelID int64

// FrameMsg is one timer firing addressed to a single Panel. Tag guards
// against ticks scheduled before the panel was stopped or restarted.
type FrameMsg struct {
	ID   int
	Tag  int
	Time time.Time
}

// Panel is the Bubble Tea form of Animator: the event loop's tea.Tick is the
// recurring timer and bumping the tag cancels the pending one.
type Panel struct {
	id       int
	tag      int
	gen      *Generator
	smooth   *Smoother
	bars     int
	interval time.Duration
	started  time.Time
	frame    Heights
	shown    Heights
}

func NewPanel(bars int, interval time.Duration, opts ...Option) Panel {
	if interval <= 0 {
		interval = DefaultInterval
	}
	fps := int(time.Second / interval)
	return Panel{
		id:       int(atomic.AddInt64(&lastPanelID, 1)),
		gen:      NewGenerator(opts...),
		smooth:   NewSmoother(fps, 12.0, 1.0),
		bars:     bars,
		interval: interval,
	}
}

func (p Panel) ID() int        { return p.id }
func (p Panel) State() State   { return p.gen.State() }
func (p Panel) Frame() Heights { return p.frame.Clone() }

func (p Panel) Bounds() (float64, float64) { return p.gen.Params().Bounds() }

// Start seeds the bars and schedules the first tick.
func (p *Panel) Start() tea.Cmd {
	p.tag++
	p.started = time.Now()
	p.frame = p.gen.Start(p.bars)
	p.shown = p.frame.Clone()
	return p.tick()
}

// Stop halts the panel. Any tick already scheduled is dropped on arrival.
func (p *Panel) Stop() {
	p.tag++
	p.gen.Stop()
}

func (p *Panel) Toggle() tea.Cmd {
	if p.gen.State() == Running {
		p.Stop()
		return nil
	}
	return p.Start()
}

func (p Panel) tick() tea.Cmd {
	id, tag := p.id, p.tag
	return tea.Tick(p.interval, func(t time.Time) tea.Msg {
		return FrameMsg{ID: id, Tag: tag, Time: t}
	})
}

func (p Panel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	m, ok := msg.(FrameMsg)
	if !ok || m.ID != p.id || m.Tag != p.tag || p.gen.State() != Running {
		return p, nil
	}
	elapsed := m.Time.Sub(p.started).Seconds()
	p.frame = p.gen.Tick(p.frame, elapsed)
	p.shown = p.smooth.Step(p.frame)
	return p, p.tick()
}

// View renders at most width bars, rows lines tall.
func (p Panel) View(width, rows int) string {
	_, hi := p.Bounds()
	return strings.Join(Render(Fit(p.shown, width), rows, hi), "\n")
}
