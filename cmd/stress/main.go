package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"strand/harness"
)

var scenarioShorts = map[string]string{
	"spin-counter":      "workers increment a shared counter under the spinlock",
	"trylock-race":      "workers race TryLock and check for overlapping acquisitions",
	"aba-plain":         "demonstrate the ABA hazard against a value-only CAS",
	"aba-versioned":     "prove the versioned cell rejects the same hazard",
	"versioned-counter": "CAS-loop increments; value and version must stay in lockstep",
	"fetch-add":         "atomic adds with periodic progress reports",
	"flash-sale":        "buyers race for limited stock; conservation must hold",
}

type options struct {
	config   string
	workers  int
	iters    int
	trials   int
	stock    uint32
	buyers   int
	interval time.Duration
	think    time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "stress",
		Short:        "Contention scenarios for the spin and vcell primitives",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.config, "config", "c", "", "YAML config file")
	pf.IntVar(&opts.workers, "workers", 0, "concurrent workers (overrides config)")
	pf.IntVar(&opts.iters, "iters", 0, "iterations per worker (overrides config)")
	pf.IntVar(&opts.trials, "trials", 0, "ABA trials (overrides config)")
	pf.Uint32Var(&opts.stock, "stock", 0, "flash-sale stock (overrides config)")
	pf.IntVar(&opts.buyers, "buyers", 0, "flash-sale buyers (overrides config)")
	pf.DurationVar(&opts.interval, "interval", 0, "progress report interval (overrides config)")
	pf.DurationVar(&opts.think, "think", 0, "per-buyer think-time jitter (overrides config)")

	for _, sc := range harness.All() {
		root.AddCommand(newScenarioCmd(opts, sc))
	}
	root.AddCommand(newAllCmd(opts))
	return root
}

func newScenarioCmd(opts *options, sc harness.Scenario) *cobra.Command {
	return &cobra.Command{
		Use:   sc.Name,
		Short: scenarioShorts[sc.Name],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rep, flush, err := setup(opts)
			if err != nil {
				return err
			}
			defer flush()

			res := sc.Run(cfg, rep)
			if !res.OK {
				return fmt.Errorf("scenario %s failed (%s)", sc.Name, res.Note)
			}
			return nil
		},
	}
}

func newAllCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "run every scenario in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rep, flush, err := setup(opts)
			if err != nil {
				return err
			}
			defer flush()

			failed := 0
			for _, sc := range harness.All() {
				if res := sc.Run(cfg, rep); !res.OK {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d scenario(s) failed", failed)
			}
			return nil
		},
	}
}

func setup(opts *options) (harness.Config, harness.Reporter, func(), error) {
	cfg := harness.Default()
	if opts.config != "" {
		loaded, err := harness.Load(opts.config)
		if err != nil {
			return harness.Config{}, nil, nil, err
		}
		cfg = loaded
	}

	// flags beat the file
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if opts.iters > 0 {
		cfg.Iters = opts.iters
	}
	if opts.trials > 0 {
		cfg.Trials = opts.trials
	}
	if opts.stock > 0 {
		cfg.Stock = opts.stock
	}
	if opts.buyers > 0 {
		cfg.Buyers = opts.buyers
	}
	if opts.interval > 0 {
		cfg.Interval = opts.interval
	}
	if opts.think > 0 {
		cfg.Think = opts.think
	}
	if err := cfg.Validate(); err != nil {
		return harness.Config{}, nil, nil, err
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return harness.Config{}, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	flush := func() { _ = log.Sync() }
	return cfg, harness.NewLogReporter(log), flush, nil
}
