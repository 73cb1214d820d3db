package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sonicsecurum/internal/contract"
	"github.com/san-kum/sonicsecurum/internal/royalty"
	"github.com/san-kum/sonicsecurum/internal/wallet"
	"github.com/san-kum/sonicsecurum/internal/waveform"
)

const (
	headerRows = 3
	footerRows = 2
	liveRows   = 5
	minWidth   = 40
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	w := max(m.width, minWidth)
	inner := w - 4

	sections := []string{
		m.viewHeader(inner),
		Separator(m.styles, inner),
		m.viewWallet(inner),
	}
	if m.session.IsConnected() {
		sections = append(sections, m.viewActions(inner))
	}
	sections = append(sections,
		m.viewStats(inner),
		m.viewCards(inner),
		m.viewTracks(inner),
		m.viewLive(inner),
	)
	if m.showHelp {
		sections = append(sections, m.viewHelp())
	}
	if len(m.toasts) > 0 {
		sections = append(sections, m.viewToasts())
	}
	sections = append(sections, Separator(m.styles, inner), KeyHints(m.styles, "c", "connect", "d", "disconnect", "tab", "focus", "enter", "reveal", "p", "pause", "t", "theme", "?", "help", "q", "quit"))
	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(sections, "\n"))
}

func (m Model) viewHeader(width int) string {
	s := m.styles
	account := s.Subtle.Render("not connected")
	switch {
	case m.session.IsConnected():
		account = s.Success.Render("● " + m.session.Short())
	case m.connecting:
		account = s.Warning.Render(Spinner(m.frame) + " connecting")
	}
	logo := s.Title.Render("♫ Sonic Securum")
	gap := max(width-lipgloss.Width(logo)-lipgloss.Width(account), 1)

	var b strings.Builder
	b.WriteString(logo + strings.Repeat(" ", gap) + account + "\n")
	b.WriteString(s.WaveDim.Render(m.header.View(width, headerRows)) + "\n")
	b.WriteString(GradientText("Music Paid Privately", s.Theme.Primary, s.Theme.Secondary) + "\n")
	b.WriteString(s.Subtle.Render("Stream your music and collect royalties through encrypted channels.") + "\n")
	b.WriteString(s.Subtle.Render("Your earnings remain private until you're ready to claim them.") + "\n\n")

	var hero []string
	for i, st := range royalty.HeroStats() {
		if i > 0 {
			hero = append(hero, s.Subtle.Render("  │  "))
		}
		hero = append(hero, lipgloss.JoinVertical(lipgloss.Center, s.Hero.Render(st.Value), s.Label.Render(st.Label)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, hero...) + "\n")
	b.WriteString(s.Wave.Render(m.footer.View(width, footerRows)))
	return b.String()
}

func (m Model) viewWallet(width int) string {
	s := m.styles
	var body string
	switch {
	case m.session.IsConnected():
		proof := s.Warning.Render("unsigned")
		if m.session.Verified() {
			proof = s.Success.Render("signature verified")
		}
		body = s.Success.Render("✓ Wallet Connected") + "  " + s.Value.Render(m.session.Short()) + "  " + proof +
			"\n" + KeyHints(s, "d", "disconnect")
	case m.connecting:
		body = s.Title.Render("Connect Your Wallet") + "\n" + s.Warning.Render(Spinner(m.frame)+" Connecting...") +
			"  " + KeyHints(s, "d", "cancel")
	default:
		body = s.Title.Render("Connect Your Wallet") + "\n" +
			s.Subtle.Render("Connect your wallet to start collecting encrypted music royalties privately and securely.") + "\n" +
			KeyHints(s, "c", "connect wallet") + "  " + s.Hint.Render("⛨ End-to-end encrypted • Private by default")
	}
	return s.Panel.Width(width).Render(body)
}

func (m Model) viewActions(width int) string {
	s := m.styles
	title := s.Title.Render("Artist Dashboard") + "  " + s.Badge.Render("⛨ Connected")
	keys := KeyHints(s, "a", "register as artist", "u", "upload track", "s", fmt.Sprintf("stream track %d", m.streamTrack))
	if m.submitting || m.caller.Pending() {
		keys = s.Subtle.Render("actions disabled while a transaction is pending")
	}
	body := title + "\n" + keys
	if last := m.caller.Last(); last.Hash != "" {
		body += "\n" + m.txLine(last)
	}
	return s.Panel.Width(width).Render(body)
}

func (m Model) txLine(u contract.TxUpdate) string {
	s := m.styles
	line := fmt.Sprintf("%s %s ", actionLabel(u.Method), u.Hash.Short())
	switch u.Status {
	case contract.Confirmed:
		return s.Subtle.Render(line) + s.Success.Render(fmt.Sprintf("confirmed #%d", u.Block))
	case contract.Failed:
		return s.Subtle.Render(line) + s.Error.Render("failed")
	default:
		return s.Subtle.Render(line) + s.Warning.Render(Spinner(m.frame)+" "+u.Status.String())
	}
}

func (m Model) viewStats(width int) string {
	s := m.styles
	n := max(len(m.stats), 1)
	tile := max(width/n-2, 12)
	tiles := make([]string, 0, len(m.stats))
	for _, st := range m.stats {
		body := lipgloss.JoinVertical(lipgloss.Center, s.Hero.Render(st.Icon), s.Value.Render(st.Value), s.Label.Render(st.Label))
		tiles = append(tiles, s.Panel.Width(tile).Align(lipgloss.Center).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func (m Model) viewCards(width int) string {
	s := m.styles
	perRow := 4
	if width < 100 {
		perRow = 2
	}
	cw := max(width/perRow-2, 18)

	var rows []string
	var row []string
	for i := range m.cards {
		row = append(row, m.viewCard(&m.cards[i], i == m.focus, cw))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return s.Title.Render("Encrypted Royalties") + "\n" + strings.Join(rows, "\n")
}

func (m Model) viewCard(c *royalty.Card, focused bool, width int) string {
	s := m.styles
	frame := s.Panel
	if focused {
		frame = s.Focused
	}
	claim := s.Warning.Render("🔒 " + c.ClaimLabel())
	if c.Unlocked {
		claim = s.Success.Render("🔓 " + c.ClaimLabel())
	}
	hint := ""
	switch {
	case !c.CanReveal():
		hint = s.Hint.Render("encrypted")
	case c.Revealed():
		hint = s.Hint.Render("enter to hide")
	default:
		hint = s.Hint.Render("enter to reveal")
	}
	body := strings.Join([]string{
		s.Value.Render(c.Title) + " " + s.Subtle.Render(c.Period),
		s.Hero.Render(c.Amount()),
		s.Label.Render(c.Streams() + " streams"),
		s.Label.Render(c.Status()) + "  " + claim,
		hint,
	}, "\n")
	return frame.Width(width).Render(body)
}

func (m Model) viewTracks(width int) string {
	s := m.styles
	if len(m.tracks) == 0 {
		return s.Subtle.Render("loading catalogue...")
	}
	var b strings.Builder
	b.WriteString(s.Title.Render("Catalogue") + "\n")
	b.WriteString(s.Label.Render(fmt.Sprintf("%-4s %-18s %-14s %10s %16s", "#", "TRACK", "ARTIST", "STREAMS", "EARNINGS")) + "\n")
	for _, t := range m.tracks {
		mark := " "
		if t.Verified {
			mark = s.Success.Render("✓")
		}
		line := fmt.Sprintf("%-4d %-18s %-14s %10s %16s", t.ID, clip(t.Name, 18), clip(t.Artist, 14), t.Streams, t.Earnings)
		b.WriteString(s.Value.Render(clip(line, width-2)) + " " + mark + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) viewLive(width int) string {
	s := m.styles
	state := s.Success.Render("● LIVE")
	if m.live.State() != waveform.Running {
		state = s.Warning.Render("❚❚ PAUSED")
	}
	body := s.Title.Render("Live Stream Activity") + "  " + state + "\n" +
		s.Wave.Render(m.live.View(width-2, liveRows))
	if len(m.activity) > 1 {
		lo, hi := m.live.Bounds()
		plot := asciigraph.Plot(m.activity,
			asciigraph.Height(3),
			asciigraph.Width(min(activityCapacity, max(width-12, 10))),
			asciigraph.LowerBound(lo),
			asciigraph.UpperBound(hi),
			asciigraph.Caption("mean bar height"))
		body += "\n" + s.Subtle.Render(plot)
	}
	return s.Panel.Width(width).Render(body)
}

func (m Model) viewHelp() string {
	s := m.styles
	rows := [][2]string{
		{"c / d", "connect or disconnect the wallet"},
		{"a", "register as artist"},
		{"u", "upload a track"},
		{"s", "record a paid stream"},
		{"tab / shift+tab", "move card focus"},
		{"enter / space", "reveal or hide the focused amount"},
		{"p", "pause or resume live activity"},
		{"t", "cycle theme (" + strings.Join(ThemeNames(), ", ") + ")"},
		{"q", "quit"},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(s.Key.Render(fmt.Sprintf("%-16s", r[0])) + s.Subtle.Render(r[1]) + "\n")
	}
	return s.Panel.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m Model) viewToasts() string {
	s := m.styles
	lines := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		switch t.Level {
		case wallet.Success:
			lines[i] = s.Success.Render("♪ " + t.Text)
		case wallet.Failure:
			lines[i] = s.Error.Render("✗ " + t.Text)
		default:
			lines[i] = s.Value.Render("• " + t.Text)
		}
	}
	return strings.Join(lines, "\n")
}

func clip(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
