package harness

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config controls scenario sizing. YAML keys: workers, iters, trials,
// stock, buyers, interval, think (durations as strings, e.g. "250ms").
// The zero value is not usable; start from Default and override.
type Config struct {
	Workers int
	Iters   int
	Trials  int

	Stock  uint32
	Buyers int

	// Interval between progress reports.
	Interval time.Duration
	// Think adds per-buyer jitter to the flash sale; zero disables it.
	Think time.Duration
}

// Default mirrors the canonical demonstration sizes: 5 workers at 100
// iterations for the lock, 50 trials for the ABA experiments, 10 units of
// stock raced by 1000 buyers.
func Default() Config {
	return Config{
		Workers:  5,
		Iters:    100,
		Trials:   50,
		Stock:    10,
		Buyers:   1000,
		Interval: 250 * time.Millisecond,
	}
}

// UnmarshalYAML overlays only the keys present in the document, so a file
// may set a couple of knobs and inherit the rest from Default.
func (c *Config) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		Workers  *int    `yaml:"workers"`
		Iters    *int    `yaml:"iters"`
		Trials   *int    `yaml:"trials"`
		Stock    *uint32 `yaml:"stock"`
		Buyers   *int    `yaml:"buyers"`
		Interval *string `yaml:"interval"`
		Think    *string `yaml:"think"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	if raw.Workers != nil {
		c.Workers = *raw.Workers
	}
	if raw.Iters != nil {
		c.Iters = *raw.Iters
	}
	if raw.Trials != nil {
		c.Trials = *raw.Trials
	}
	if raw.Stock != nil {
		c.Stock = *raw.Stock
	}
	if raw.Buyers != nil {
		c.Buyers = *raw.Buyers
	}
	if raw.Interval != nil {
		d, err := time.ParseDuration(*raw.Interval)
		if err != nil {
			return fmt.Errorf("interval: %w", err)
		}
		c.Interval = d
	}
	if raw.Think != nil {
		d, err := time.ParseDuration(*raw.Think)
		if err != nil {
			return fmt.Errorf("think: %w", err)
		}
		c.Think = d
	}
	return nil
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Workers <= 0:
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	case c.Iters <= 0:
		return fmt.Errorf("iters must be positive, got %d", c.Iters)
	case c.Trials <= 0:
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	case c.Buyers <= 0:
		return fmt.Errorf("buyers must be positive, got %d", c.Buyers)
	case c.Interval <= 0:
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	case c.Think < 0:
		return fmt.Errorf("think must not be negative, got %v", c.Think)
	}
	return nil
}
