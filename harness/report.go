package harness

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result is what a scenario hands back. The tallies mean slightly different
// things per scenario; Note says what was counted.
type Result struct {
	RunID    uuid.UUID
	Scenario string
	Workers  int
	Iters    int
	Trials   int
	Elapsed  time.Duration

	Successes  uint64
	Failures   uint64
	Conflicts  uint64 // CAS attempts lost and retried
	Violations uint64 // invariant breaches; must always be zero
	Final      uint64 // scenario-specific final observation

	OK   bool
	Note string
}

// Reporter receives progress and summaries from running scenarios.
type Reporter interface {
	Progress(scenario string, done, total uint64)
	Summary(res Result)
}

// NopReporter discards everything. Useful in tests.
type NopReporter struct{}

func (NopReporter) Progress(string, uint64, uint64) {}
func (NopReporter) Summary(Result)                  {}

// LogReporter writes progress and summaries to a zap logger.
type LogReporter struct {
	log *zap.Logger
}

func NewLogReporter(l *zap.Logger) *LogReporter {
	return &LogReporter{log: l}
}

func (r *LogReporter) Progress(scenario string, done, total uint64) {
	r.log.Info("progress",
		zap.String("scenario", scenario),
		zap.Uint64("done", done),
		zap.Uint64("total", total),
	)
}

func (r *LogReporter) Summary(res Result) {
	r.log.Info("summary",
		zap.String("scenario", res.Scenario),
		zap.String("run_id", res.RunID.String()),
		zap.Int("workers", res.Workers),
		zap.Int("iters", res.Iters),
		zap.Int("trials", res.Trials),
		zap.Duration("elapsed", res.Elapsed),
		zap.Uint64("successes", res.Successes),
		zap.Uint64("failures", res.Failures),
		zap.Uint64("conflicts", res.Conflicts),
		zap.Uint64("violations", res.Violations),
		zap.Uint64("final", res.Final),
		zap.Bool("ok", res.OK),
		zap.String("note", res.Note),
	)
}

func newResult(scenario string, cfg Config) Result {
	return Result{
		RunID:    uuid.New(),
		Scenario: scenario,
		Workers:  cfg.Workers,
		Iters:    cfg.Iters,
		Trials:   cfg.Trials,
	}
}
