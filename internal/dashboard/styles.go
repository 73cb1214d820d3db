package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles are the lipgloss styles derived from one Theme.
type Styles struct {
	Theme Theme

	Panel   lipgloss.Style
	Focused lipgloss.Style
	Title   lipgloss.Style
	Hero    lipgloss.Style
	Subtle  lipgloss.Style
	Value   lipgloss.Style
	Label   lipgloss.Style
	Key     lipgloss.Style
	Hint    lipgloss.Style
	Wave    lipgloss.Style
	WaveDim lipgloss.Style
	Badge   lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Hero:    lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		Subtle:  lipgloss.NewStyle().Foreground(t.Muted),
		Value:   lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		Label:   lipgloss.NewStyle().Foreground(t.Muted),
		Key:     lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Hint:    lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
		Wave:    lipgloss.NewStyle().Foreground(t.Primary),
		WaveDim: lipgloss.NewStyle().Foreground(t.Border),
		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent).
			Border(lipgloss.NormalBorder(), false, true).
			BorderForeground(t.Accent),
		Success: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// GradientText colors each rune of text along a blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	from, err := colorful.Hex(string(start))
	if err != nil {
		return text
	}
	to, err := colorful.Hex(string(end))
	if err != nil {
		return text
	}

	var b strings.Builder
	n := len(runes)
	for i, r := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		c := from.BlendLuv(to, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func Spinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func Separator(s Styles, width int) string {
	if width < 8 {
		return s.Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return s.Subtle.Render(strings.Repeat("─", mid-2) + " ♪ " + strings.Repeat("─", width-mid-1))
}

// KeyHints renders "key action" pairs in a single line.
func KeyHints(s Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.Key.Render(pairs[i])+s.Subtle.Render(" "+pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}
