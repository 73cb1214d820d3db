package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sonicsecurum/internal/config"
	"github.com/san-kum/sonicsecurum/internal/contract"
	"github.com/san-kum/sonicsecurum/internal/royalty"
	"github.com/san-kum/sonicsecurum/internal/wallet"
	"github.com/san-kum/sonicsecurum/internal/waveform"
)

const (
	DefaultToastTTL = 3 * time.Second

	maxToasts        = 3
	activityCapacity = 60

	// Placeholder artist and track used by the action keys.
	artistName     = "Artist Name"
	artistBio      = "Artist Bio"
	trackName      = "Track Name"
	trackHash      = "ipfs-hash"
	trackRoyalty   = 10
	streamSeconds  = 180
	streamPayment  = "0.001"
	defaultTrackID = 1
)

type connectMsg struct {
	notice wallet.Notice
	err    error
}

type txSubmittedMsg struct {
	method string
	hash   contract.TxHash
	err    error
}

type txUpdateMsg struct {
	update contract.TxUpdate
	ch     <-chan contract.TxUpdate
}

type artistMsg struct {
	info *contract.ArtistInfo
	err  error
}

type tracksMsg struct {
	rows []royalty.TrackRow
	err  error
}

type toastExpiredMsg struct{ id int }

type toast struct {
	id int
	wallet.Notice
}

// Model is the whole dashboard: header, wallet, artist actions, stats,
// royalty cards, the catalogue and the live activity waveform.
type Model struct {
	cfg    *config.Config
	ctx    context.Context
	cancel context.CancelFunc

	session    *wallet.Session
	client     contract.Client
	caller     *contract.Caller
	ownsClient bool

	header, footer, live waveform.Panel
	startup              []tea.Cmd
	seed                 uint64
	seeded               bool
	activity             []float64

	cards    []royalty.Card
	stats    []royalty.Stat
	tracks   []royalty.TrackRow
	trackIDs []uint64
	focus    int

	connecting    bool
	connectCancel context.CancelFunc
	submitting    bool
	streamTrack   uint64

	toasts    []toast
	nextToast int
	toastTTL  time.Duration

	styles        Styles
	showHelp      bool
	quitting      bool
	frame         int
	width, height int
}

type Option func(*Model)

func WithSession(s *wallet.Session) Option {
	return func(m *Model) { m.session = s }
}

// WithClient replaces the simulated chain. The caller keeps ownership.
func WithClient(c contract.Client) Option {
	return func(m *Model) { m.client = c }
}

func WithToastTTL(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.toastTTL = d
		}
	}
}

func WithTrackIDs(ids ...uint64) Option {
	return func(m *Model) { m.trackIDs = append([]uint64(nil), ids...) }
}

// WithSeed makes every waveform panel reproducible.
func WithSeed(seed uint64) Option {
	return func(m *Model) { m.seed, m.seeded = seed, true }
}

func New(cfg *config.Config, opts ...Option) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		cfg:         cfg,
		ctx:         ctx,
		cancel:      cancel,
		cards:       royalty.DefaultCards(),
		stats:       royalty.DefaultStats(),
		toastTTL:    DefaultToastTTL,
		streamTrack: defaultTrackID,
		width:       100,
		height:      40,
	}
	for i := 1; i <= cfg.Contract.DemoTracks; i++ {
		m.trackIDs = append(m.trackIDs, uint64(i))
	}
	for _, opt := range opts {
		opt(&m)
	}

	if m.session == nil {
		m.session = wallet.NewSession(
			wallet.WithConnectDelay(cfg.Wallet.ConnectDelay),
			wallet.WithWIF(cfg.Wallet.WIF),
		)
	}
	if m.client == nil {
		m.client = contract.NewSimulated(
			contract.WithAddress(cfg.Contract.Address),
			contract.WithBlockTime(cfg.Contract.BlockTime),
			contract.WithDemoCatalog(cfg.Contract.DemoTracks, 1),
		)
		m.ownsClient = true
	}
	m.caller = contract.NewCaller(m.client, m.session)

	wf := cfg.Waveform
	m.header = waveform.NewPanel(wf.HeaderBars, wf.Interval, m.panelOpts(0)...)
	m.footer = waveform.NewPanel(wf.FooterBars, wf.Interval, m.panelOpts(1)...)
	m.live = waveform.NewPanel(wf.LiveBars, wf.Interval, m.panelOpts(2)...)
	m.startup = []tea.Cmd{m.header.Start(), m.footer.Start(), m.live.Start()}

	m.styles = NewStyles(GetTheme(cfg.Theme))
	return m
}

func (m Model) panelOpts(i uint64) []waveform.Option {
	opts := []waveform.Option{waveform.WithParams(m.cfg.Waveform.Params)}
	if m.seeded {
		opts = append(opts, waveform.WithSeed(m.seed+i))
	}
	return opts
}

func (m Model) Init() tea.Cmd {
	cmds := append([]tea.Cmd(nil), m.startup...)
	return tea.Batch(append(cmds, m.fetchTracks())...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case waveform.FrameMsg:
		return m.handleFrame(msg)
	case connectMsg:
		return m.handleConnect(msg)
	case txSubmittedMsg:
		return m.handleSubmitted(msg)
	case txUpdateMsg:
		return m.handleTxUpdate(msg)
	case artistMsg:
		if msg.err != nil {
			log.Printf("[dashboard] artist read: %v", msg.err)
			return m, nil
		}
		m.applyArtist(msg.info)
		return m, nil
	case tracksMsg:
		if msg.err != nil {
			log.Printf("[dashboard] catalogue read: %v", msg.err)
			return m, nil
		}
		m.tracks = msg.rows
		return m, nil
	case toastExpiredMsg:
		m.dropToast(msg.id)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Shutdown()
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "c":
		return m, m.connect()
	case "d":
		return m.disconnect()
	case "a":
		return m, m.submit("registerArtist", func(ctx context.Context, c *contract.Caller) (contract.TxHash, error) {
			return c.RegisterArtist(ctx, artistName, artistBio)
		})
	case "u":
		return m, m.submit("uploadTrack", func(ctx context.Context, c *contract.Caller) (contract.TxHash, error) {
			return c.UploadTrack(ctx, trackName, artistName, trackHash, trackRoyalty)
		})
	case "s":
		id := m.streamTrack
		return m, m.submit("recordStream", func(ctx context.Context, c *contract.Caller) (contract.TxHash, error) {
			return c.RecordStream(ctx, id, streamSeconds, streamPayment)
		})
	case "tab", "right", "l":
		if len(m.cards) > 0 {
			m.focus = (m.focus + 1) % len(m.cards)
		}
	case "shift+tab", "left", "h":
		if len(m.cards) > 0 {
			m.focus = (m.focus - 1 + len(m.cards)) % len(m.cards)
		}
	case "enter", " ":
		if m.focus < len(m.cards) {
			m.cards[m.focus].Toggle()
		}
	case "p":
		cmd := m.live.Toggle()
		if m.live.State() == waveform.Running {
			return m, tea.Batch(cmd, m.toast(wallet.Info, "Live activity resumed"))
		}
		return m, m.toast(wallet.Info, "Live activity paused")
	case "t":
		m.styles = NewStyles(NextTheme(m.styles.Theme.Name))
		log.Printf("[dashboard] theme %s", m.styles.Theme.Name)
	}
	return m, nil
}

func (m Model) handleFrame(msg waveform.FrameMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.ID {
	case m.header.ID():
		m.header, cmd = m.header.Update(msg)
		// The header never pauses, so spinners keep its pace.
		if cmd != nil {
			m.frame++
		}
	case m.footer.ID():
		m.footer, cmd = m.footer.Update(msg)
	case m.live.ID():
		m.live, cmd = m.live.Update(msg)
		if cmd != nil {
			m.recordActivity()
		}
	}
	return m, cmd
}

func (m *Model) recordActivity() {
	frame := m.live.Frame()
	if len(frame) == 0 {
		return
	}
	sum := 0.0
	for _, v := range frame {
		sum += v
	}
	m.activity = append(m.activity, sum/float64(len(frame)))
	if len(m.activity) > activityCapacity {
		m.activity = m.activity[len(m.activity)-activityCapacity:]
	}
}

func (m *Model) connect() tea.Cmd {
	if m.connecting {
		return nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.connecting, m.connectCancel = true, cancel
	s := m.session
	return func() tea.Msg {
		n, err := s.Connect(ctx)
		return connectMsg{notice: n, err: err}
	}
}

func (m Model) handleConnect(msg connectMsg) (Model, tea.Cmd) {
	m.connecting = false
	if m.connectCancel != nil {
		m.connectCancel()
		m.connectCancel = nil
	}
	if msg.err != nil {
		log.Printf("[dashboard] connect: %v", msg.err)
		if errors.Is(msg.err, wallet.ErrConnectCanceled) {
			return m, m.toast(wallet.Info, "Wallet connection canceled")
		}
		text := msg.notice.Text
		if text == "" {
			text = msg.err.Error()
		}
		return m, m.toast(wallet.Failure, text)
	}
	return m, tea.Batch(m.toast(msg.notice.Level, msg.notice.Text), m.fetchArtist())
}

func (m Model) disconnect() (Model, tea.Cmd) {
	if m.connecting {
		if m.connectCancel != nil {
			m.connectCancel()
		}
		return m, nil
	}
	if !m.session.IsConnected() {
		return m, nil
	}
	n := m.session.Disconnect()
	m.cards = royalty.DefaultCards()
	return m, m.toast(n.Level, n.Text)
}

type callFunc func(ctx context.Context, c *contract.Caller) (contract.TxHash, error)

// submit runs one contract call off the event loop. A second call is refused
// while any transaction is unresolved.
func (m *Model) submit(method string, call callFunc) tea.Cmd {
	if m.submitting || m.caller.Pending() {
		return m.toast(wallet.Info, "Transaction pending, please wait")
	}
	m.submitting = true
	ctx, caller := m.ctx, m.caller
	return func() tea.Msg {
		hash, err := call(ctx, caller)
		return txSubmittedMsg{method: method, hash: hash, err: err}
	}
}

func (m Model) handleSubmitted(msg txSubmittedMsg) (Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		if errors.Is(msg.err, contract.ErrWalletNotConnected) {
			return m, m.toast(wallet.Failure, "Connect your wallet first")
		}
		return m, m.toast(wallet.Failure, fmt.Sprintf("%s failed: %v", actionLabel(msg.method), msg.err))
	}
	t := m.toast(wallet.Info, fmt.Sprintf("%s submitted %s", actionLabel(msg.method), msg.hash.Short()))
	return m, tea.Batch(t, waitTx(m.caller.Watch(msg.hash)))
}

// waitTx delivers the next update from ch, or nothing once ch is closed.
func waitTx(ch <-chan contract.TxUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return txUpdateMsg{update: u, ch: ch}
	}
}

func (m Model) handleTxUpdate(msg txUpdateMsg) (Model, tea.Cmd) {
	u := msg.update
	m.caller.Observe(u)
	if !u.Status.Terminal() {
		return m, waitTx(msg.ch)
	}
	label := actionLabel(u.Method)
	if u.Status == contract.Failed {
		log.Printf("[dashboard] %s %s failed: %v", u.Method, u.Hash.Short(), u.Err)
		return m, m.toast(wallet.Failure, fmt.Sprintf("%s failed: %v", label, u.Err))
	}

	cmds := []tea.Cmd{m.toast(wallet.Success, fmt.Sprintf("%s confirmed in block %d", label, u.Block))}
	switch u.Method {
	case "uploadTrack":
		m.addTrack(u.Result)
		m.streamTrack = u.Result
		cmds = append(cmds, m.fetchTracks())
	case "recordStream":
		cmds = append(cmds, m.fetchTracks())
	}
	cmds = append(cmds, m.fetchArtist())
	return m, tea.Batch(cmds...)
}

func (m *Model) addTrack(id uint64) {
	for _, have := range m.trackIDs {
		if have == id {
			return
		}
	}
	m.trackIDs = append(m.trackIDs, id)
}

func (m Model) fetchArtist() tea.Cmd {
	account := m.session.Account()
	if account == "" {
		return nil
	}
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		info, err := client.GetArtistInfo(ctx, account)
		return artistMsg{info: info, err: err}
	}
}

func (m Model) fetchTracks() tea.Cmd {
	if len(m.trackIDs) == 0 {
		return nil
	}
	ctx, client := m.ctx, m.client
	ids := append([]uint64(nil), m.trackIDs...)
	return func() tea.Msg {
		rows, err := royalty.Catalogue(ctx, client, ids)
		return tracksMsg{rows: rows, err: err}
	}
}

// applyArtist swaps the all-time card for the on-chain figures.
func (m *Model) applyArtist(info *contract.ArtistInfo) {
	if info == nil {
		return
	}
	card := royalty.FromArtist(info)
	cards := append([]royalty.Card(nil), m.cards...)
	for i := range cards {
		if cards[i].Title == card.Title {
			cards[i] = card
			m.cards = cards
			return
		}
	}
	m.cards = append(cards, card)
}

func (m *Model) toast(level wallet.Level, text string) tea.Cmd {
	m.nextToast++
	id := m.nextToast
	m.toasts = append(m.toasts, toast{id: id, Notice: wallet.Notice{Level: level, Text: text}})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (m *Model) dropToast(id int) {
	kept := m.toasts[:0:0]
	for _, t := range m.toasts {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// Shutdown stops every waveform and releases the chain. Safe to call twice.
func (m *Model) Shutdown() {
	m.header.Stop()
	m.footer.Stop()
	m.live.Stop()
	if m.connectCancel != nil {
		m.connectCancel()
	}
	m.cancel()
	if m.ownsClient {
		if c, ok := m.client.(interface{ Close() }); ok {
			c.Close()
		}
	}
	log.Println("[dashboard] shut down")
}

func actionLabel(method string) string {
	switch method {
	case "registerArtist":
		return "Artist registration"
	case "uploadTrack":
		return "Track upload"
	case "recordStream":
		return "Stream payment"
	}
	return method
}
