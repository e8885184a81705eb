package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/avoverin/coindash/internal/valuation"
)

const (
	defaultListenAddr   = ":8080"
	defaultWALDir       = "./wal/valuations"
	defaultPollInterval = 15 * time.Second
)

// Config is the parsed and validated dashboard configuration.
type Config struct {
	ListenAddr string
	WALDir     string
	Accounts   []Account
	Valuation  Valuation
}

// Account describes one exchange account to track.
type Account struct {
	Label        string
	Platform     string
	PollInterval time.Duration
	DemoSeed     int64
}

// Valuation carries the tuning knobs of the portfolio valuator. The
// thresholds and bounds are empirical guards, kept in configuration so
// they can be adjusted (or disabled) without code changes.
type Valuation struct {
	DustThreshold  decimal.Decimal
	Stablecoins    []string
	FallbackPrices map[string]decimal.Decimal
	PriceBounds    map[string]valuation.PriceRange
}

// Options converts the valuation settings into valuator options.
// Zero-valued settings keep the valuator defaults.
func (v Valuation) Options() []valuation.Option {
	var opts []valuation.Option
	if v.DustThreshold.IsPositive() {
		opts = append(opts, valuation.WithDustThreshold(v.DustThreshold))
	}
	if len(v.Stablecoins) > 0 {
		opts = append(opts, valuation.WithStablecoins(v.Stablecoins...))
	}
	if len(v.FallbackPrices) > 0 {
		opts = append(opts, valuation.WithFallbackPrices(v.FallbackPrices))
	}
	if len(v.PriceBounds) > 0 {
		opts = append(opts, valuation.WithPriceBounds(v.PriceBounds))
	}
	return opts
}

// File* types mirror the yaml document. Numeric knobs stay strings
// until parsed so config errors carry the offending value; the setup
// wizard reuses them to generate config files.

type FileConfig struct {
	Listen    string       `yaml:"listen,omitempty"`
	WALDir    string       `yaml:"wal_dir,omitempty"`
	Accounts  []FileAccount `yaml:"accounts"`
	Valuation FileValuation `yaml:"valuation,omitempty"`
}

type FileAccount struct {
	Label        string        `yaml:"label"`
	Platform     string        `yaml:"platform"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
	DemoSeed     int64         `yaml:"demo_seed,omitempty"`
}

type FileValuation struct {
	DustThreshold  string              `yaml:"dust_threshold,omitempty"`
	Stablecoins    []string            `yaml:"stablecoins,omitempty"`
	FallbackPrices map[string]string   `yaml:"fallback_prices,omitempty"`
	PriceBounds    map[string][]string `yaml:"price_bounds,omitempty"`
}

// Get parses configuration from the --config yaml file, falling back
// to CLI flags describing a single account.
func Get() (*Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	label := flag.String("label", "demo", "account label")
	platform := flag.String("platform", "demo", "exchange platform: binance, bybit or demo")
	listen := flag.String("listen", defaultListenAddr, "dashboard listen address")
	poll := flag.Duration("pollinterval", defaultPollInterval, "balance poll interval")
	flag.Parse()

	if *configPath != "" {
		return Load(*configPath)
	}

	cfg := &Config{
		ListenAddr: *listen,
		WALDir:     defaultWALDir,
		Accounts: []Account{
			{Label: *label, Platform: *platform, PollInterval: *poll},
		},
	}
	return cfg, cfg.validate()
}

// Load reads and parses a yaml configuration file.
func Load(path string) (*Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(f)
}

// Parse decodes and validates a yaml configuration document.
func Parse(data []byte) (*Config, error) {
	var tmp FileConfig
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddr: tmp.Listen,
		WALDir:     tmp.WALDir,
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.WALDir == "" {
		cfg.WALDir = defaultWALDir
	}

	for _, a := range tmp.Accounts {
		account := Account{
			Label:        a.Label,
			Platform:     a.Platform,
			PollInterval: a.PollInterval,
			DemoSeed:     a.DemoSeed,
		}
		if account.PollInterval == 0 {
			account.PollInterval = defaultPollInterval
		}
		cfg.Accounts = append(cfg.Accounts, account)
	}

	valuationCfg, err := parseValuation(tmp.Valuation)
	if err != nil {
		return nil, err
	}
	cfg.Valuation = valuationCfg

	return cfg, cfg.validate()
}

func parseValuation(tmp FileValuation) (Valuation, error) {
	v := Valuation{Stablecoins: tmp.Stablecoins}

	if tmp.DustThreshold != "" {
		dust, err := decimal.NewFromString(tmp.DustThreshold)
		if err != nil {
			return Valuation{}, fmt.Errorf("incorrect 'dust_threshold' param in yaml config: %s, error: %w", tmp.DustThreshold, err)
		}
		v.DustThreshold = dust
	}

	if len(tmp.FallbackPrices) > 0 {
		v.FallbackPrices = make(map[string]decimal.Decimal, len(tmp.FallbackPrices))
		for currency, raw := range tmp.FallbackPrices {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				return Valuation{}, fmt.Errorf("incorrect 'fallback_prices' entry for %s: %s, error: %w", currency, raw, err)
			}
			v.FallbackPrices[currency] = price
		}
	}

	if len(tmp.PriceBounds) > 0 {
		v.PriceBounds = make(map[string]valuation.PriceRange, len(tmp.PriceBounds))
		for currency, raw := range tmp.PriceBounds {
			if len(raw) != 2 {
				return Valuation{}, fmt.Errorf("incorrect 'price_bounds' entry for %s: want [min, max], got %v", currency, raw)
			}
			min, err := decimal.NewFromString(raw[0])
			if err != nil {
				return Valuation{}, fmt.Errorf("incorrect 'price_bounds' min for %s: %s, error: %w", currency, raw[0], err)
			}
			max, err := decimal.NewFromString(raw[1])
			if err != nil {
				return Valuation{}, fmt.Errorf("incorrect 'price_bounds' max for %s: %s, error: %w", currency, raw[1], err)
			}
			if max.LessThan(min) {
				return Valuation{}, fmt.Errorf("incorrect 'price_bounds' for %s: max %s below min %s", currency, raw[1], raw[0])
			}
			v.PriceBounds[currency] = valuation.PriceRange{Min: min, Max: max}
		}
	}

	return v, nil
}

func (c *Config) validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("at least one account must be configured")
	}

	seen := make(map[string]struct{}, len(c.Accounts))
	for _, a := range c.Accounts {
		if a.Label == "" {
			return fmt.Errorf("account label cannot be empty")
		}
		if _, dup := seen[a.Label]; dup {
			return fmt.Errorf("duplicate account label: %s", a.Label)
		}
		seen[a.Label] = struct{}{}

		switch a.Platform {
		case "binance", "bybit", "demo":
		default:
			return fmt.Errorf("unsupported platform for account %s: %s", a.Label, a.Platform)
		}

		if a.PollInterval < time.Second {
			return fmt.Errorf("poll interval for account %s is below 1s: %s", a.Label, a.PollInterval)
		}
	}

	return nil
}
