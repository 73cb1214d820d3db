package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sonicsecurum/internal/config"
	"github.com/san-kum/sonicsecurum/internal/contract"
	"github.com/san-kum/sonicsecurum/internal/dashboard"
	"github.com/san-kum/sonicsecurum/internal/royalty"
	"github.com/san-kum/sonicsecurum/internal/waveform"
)

var (
	configFile string
	logFile    string
	preset     string
	theme      string
	// Waveform
	bars     int
	interval time.Duration
	seed     uint64
	// Wallet and chain
	connectDelay time.Duration
	blockTime    time.Duration
	address      string
	wif          string
	// wave command
	frames   int
	rows     int
	spectrum bool
	// cards command
	reveal bool
	// tracks command
	trackCount int
)

// main registers the commands and runs the dashboard when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "sonic",
		Short: "private music royalty dashboard",
		RunE:  runDashboard,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "waveform preset (calm, default, hyper)")
	rootCmd.Flags().StringVar(&logFile, "log", "", "write logs to file while the dashboard runs")
	rootCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	rootCmd.Flags().IntVar(&bars, "bars", config.DefaultLiveBars, "live activity bar count")
	rootCmd.Flags().DurationVar(&interval, "interval", config.DefaultInterval, "waveform tick interval")
	rootCmd.Flags().DurationVar(&connectDelay, "connect-delay", config.DefaultConnectDelay, "simulated wallet handshake delay")
	rootCmd.Flags().DurationVar(&blockTime, "block-time", config.DefaultBlockTime, "simulated block time")
	rootCmd.Flags().StringVar(&address, "address", "", "contract address (overrides "+config.ContractAddressEnv+")")
	rootCmd.Flags().StringVar(&wif, "wif", "", "wallet key in WIF form (default: fresh key per session)")

	waveCmd := &cobra.Command{
		Use:   "wave",
		Short: "print waveform frames to stdout",
		RunE:  runWave,
	}
	waveCmd.Flags().IntVar(&bars, "bars", waveform.DefaultBars, "bar count")
	waveCmd.Flags().DurationVar(&interval, "interval", config.DefaultInterval, "tick interval")
	waveCmd.Flags().IntVar(&frames, "frames", 10, "frames to print")
	waveCmd.Flags().IntVar(&rows, "rows", 4, "rows per frame")
	waveCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 for random)")
	waveCmd.Flags().BoolVar(&spectrum, "spectrum", false, "plot the spectrum of the last frame")

	cardsCmd := &cobra.Command{
		Use:   "cards",
		Short: "list royalty cards",
		RunE:  listCards,
	}
	cardsCmd.Flags().BoolVar(&reveal, "reveal", false, "show actual amounts")

	tracksCmd := &cobra.Command{
		Use:   "tracks",
		Short: "list the demo catalogue from the simulated contract",
		RunE:  listTracks,
	}
	tracksCmd.Flags().IntVar(&trackCount, "count", config.DefaultDemoTracks, "number of demo tracks")

	abiCmd := &cobra.Command{
		Use:   "abi",
		Short: "show the contract interface",
		RunE:  showABI,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list waveform presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(waveCmd, cardsCmd, tracksCmd, abiCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges defaults, the config file, the preset and the environment.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Waveform = *p
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// CLI flags override config
	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("bars") {
		cfg.Waveform.LiveBars = bars
	}
	if flags.Changed("interval") {
		cfg.Waveform.Interval = interval
	}
	if flags.Changed("connect-delay") {
		cfg.Wallet.ConnectDelay = connectDelay
	}
	if flags.Changed("block-time") {
		cfg.Contract.BlockTime = blockTime
	}
	if flags.Changed("address") {
		cfg.Contract.Address = address
	}
	if flags.Changed("wif") {
		cfg.Wallet.WIF = wif
	}
	if flags.Changed("log") {
		cfg.Log.File = logFile
	}
	cfg.Validate()

	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "sonic")
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	log.Printf("[dashboard] starting theme=%s interval=%v contract=%s", cfg.Theme, cfg.Waveform.Interval, cfg.Contract.Address)
	m := dashboard.New(cfg)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(dashboard.Model); ok {
		fm.Shutdown()
	} else {
		m.Shutdown()
	}
	return err
}

func runWave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("interval") {
		interval = cfg.Waveform.Interval
	}
	if frames < 1 {
		return fmt.Errorf("frames must be positive")
	}

	genOpts := []waveform.Option{waveform.WithParams(cfg.Waveform.Params)}
	if seed != 0 {
		genOpts = append(genOpts, waveform.WithSeed(seed))
	}
	anim := waveform.NewAnimator(bars,
		waveform.WithInterval(interval),
		waveform.WithGenerator(waveform.NewGenerator(genOpts...)),
	)
	_, hi := cfg.Waveform.Params.Bounds()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var last waveform.Heights
	n := 0
	sink := waveform.SinkFunc(func(h waveform.Heights, elapsed float64) {
		n++
		fmt.Printf("frame %d  t=%.2fs  peak=%.1f\n", n, elapsed, h.Max())
		fmt.Println(strings.Join(waveform.Render(h, rows, hi), "\n"))
		last = h
		if n >= frames {
			cancel()
		}
	})
	if err := anim.Run(ctx, sink); err != nil {
		return err
	}

	if spectrum && len(last) > 1 {
		spec := waveform.Spectrum(last)
		fmt.Println(asciigraph.Plot(spec, asciigraph.Height(8), asciigraph.Caption("magnitude by cycles per frame")))
		b := waveform.SplitBands(spec)
		fmt.Printf("dominant bin: %d  low %.0f%%  mid %.0f%%  high %.0f%%\n",
			waveform.DominantBin(spec), b.Low*100, b.Mid*100, b.High*100)
	}
	return nil
}

func listCards(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tAMOUNT\tSTREAMS\tPERIOD\tSTATUS\tCLAIM")
	for _, c := range royalty.DefaultCards() {
		if reveal {
			c.Toggle()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", c.Title, c.Amount(), c.Streams(), c.Period, c.Status(), c.ClaimLabel())
	}
	w.Flush()

	fmt.Println()
	for _, s := range royalty.DefaultStats() {
		fmt.Printf("%s %-18s %s\n", s.Icon, s.Label, s.Value)
	}
	return nil
}

func listTracks(cmd *cobra.Command, args []string) error {
	if trackCount < 0 {
		return fmt.Errorf("count must not be negative")
	}
	sim := contract.NewSimulated(contract.WithDemoCatalog(trackCount, 1))
	defer sim.Close()

	ids := make([]uint64, trackCount)
	for i := range ids {
		ids[i] = uint64(i + 1)
	}
	rows, err := royalty.Catalogue(cmd.Context(), sim, ids)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTRACK\tARTIST\tSTREAMS\tEARNINGS\tVERIFIED")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%v\n", r.ID, r.Name, r.Artist, r.Streams, r.Earnings, r.Verified)
	}
	return w.Flush()
}

func showABI(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tMUTABILITY\tOUTPUTS")
	for _, m := range contract.DefaultABI().Methods() {
		outs := make([]string, len(m.Outputs))
		for i, o := range m.Outputs {
			outs[i] = o.Type
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Signature(), m.StateMutability, strings.Join(outs, ","))
	}
	return w.Flush()
}
