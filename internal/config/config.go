package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sonicsecurum/internal/contract"
	"github.com/san-kum/sonicsecurum/internal/waveform"
)

const (
	DefaultInterval     = waveform.DefaultInterval
	DefaultHeaderBars   = 100
	DefaultFooterBars   = 80
	DefaultLiveBars     = 60
	DefaultConnectDelay = 2 * time.Second
	DefaultBlockTime    = contract.DefaultBlockTime
	DefaultTheme        = "neon"
	DefaultDemoTracks   = 5

	// ContractAddressEnv overrides the configured contract address.
	ContractAddressEnv = "SONIC_CONTRACT_ADDRESS"
)

type Config struct {
	Theme    string         `yaml:"theme"`
	Waveform WaveformConfig `yaml:"waveform"`
	Wallet   WalletConfig   `yaml:"wallet"`
	Contract ContractConfig `yaml:"contract"`
	Log      LogConfig      `yaml:"log"`
}

type WaveformConfig struct {
	Interval   time.Duration   `yaml:"interval"`
	HeaderBars int             `yaml:"header_bars"`
	FooterBars int             `yaml:"footer_bars"`
	LiveBars   int             `yaml:"live_bars"`
	Params     waveform.Params `yaml:"params"`
}

type WalletConfig struct {
	ConnectDelay time.Duration `yaml:"connect_delay"`
	WIF          string        `yaml:"wif"`
}

type ContractConfig struct {
	Address    string        `yaml:"address"`
	BlockTime  time.Duration `yaml:"block_time"`
	DemoTracks int           `yaml:"demo_tracks"`
}

type LogConfig struct {
	File string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme: DefaultTheme,
		Waveform: WaveformConfig{
			Interval:   DefaultInterval,
			HeaderBars: DefaultHeaderBars,
			FooterBars: DefaultFooterBars,
			LiveBars:   DefaultLiveBars,
			Params:     waveform.DefaultParams(),
		},
		Wallet: WalletConfig{
			ConnectDelay: DefaultConnectDelay,
		},
		Contract: ContractConfig{
			Address:    contract.ZeroAddress,
			BlockTime:  DefaultBlockTime,
			DemoTracks: DefaultDemoTracks,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv lets the environment override file values.
func (c *Config) ApplyEnv() {
	if addr := os.Getenv(ContractAddressEnv); addr != "" {
		c.Contract.Address = addr
	}
}

// Validate clamps values the dashboard cannot use back to defaults.
func (c *Config) Validate() {
	if c.Waveform.Interval <= 0 {
		c.Waveform.Interval = DefaultInterval
	}
	if c.Waveform.HeaderBars < 0 {
		c.Waveform.HeaderBars = 0
	}
	if c.Waveform.FooterBars < 0 {
		c.Waveform.FooterBars = 0
	}
	if c.Waveform.LiveBars < 0 {
		c.Waveform.LiveBars = 0
	}
	if c.Waveform.Params.Floor <= 0 {
		c.Waveform.Params.Floor = waveform.DefaultFloor
	}
	if c.Wallet.ConnectDelay < 0 {
		c.Wallet.ConnectDelay = DefaultConnectDelay
	}
	if c.Contract.BlockTime < 0 {
		c.Contract.BlockTime = DefaultBlockTime
	}
	if c.Contract.Address == "" {
		c.Contract.Address = contract.ZeroAddress
	}
}
