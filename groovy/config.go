package groovy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dhamidi/grove/groovy/parser"
	"github.com/mstoykov/envconfig"
	"github.com/sasha-s/go-deadlock"
)

// Config is the process configuration read from the environment. Command
// line flags override it field by field.
type Config struct {
	Workers  int    `envconfig:"GROVE_WORKERS"`
	Strategy string `envconfig:"GROVE_STRATEGY"`
	LogLevel string `envconfig:"GROVE_LOG_LEVEL"`
	// DeadlockTimeout is how long any lock may be waited on before
	// the deadlock detector reports it. Zero disables the detector.
	DeadlockTimeout time.Duration `envconfig:"GROVE_DEADLOCK_TIMEOUT"`
}

func DefaultConfig() Config {
	return Config{
		Strategy:        parser.StrategyOptimistic.String(),
		LogLevel:        "notice",
		DeadlockTimeout: 30 * time.Second,
	}
}

// LoadConfig reads the environment over DefaultConfig. A lookup function
// replaces os.LookupEnv, mostly for tests.
func LoadConfig(lookup ...func(key string) (string, bool)) (Config, error) {
	conf := DefaultConfig()
	if err := envconfig.Process("", &conf, lookup...); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if _, err := ParseStrategy(conf.Strategy); err != nil {
		return Config{}, err
	}
	if _, err := Verbosity(conf.LogLevel); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Options turns the configuration into parse options.
func (c Config) Options() ([]Option, error) {
	s, err := ParseStrategy(c.Strategy)
	if err != nil {
		return nil, err
	}
	return []Option{WithStrategy(s), WithWorkers(c.Workers)}, nil
}

// ApplyDeadlockTimeout configures the detector guarding the cache,
// workspace and sink locks. It changes process-wide state.
func (c Config) ApplyDeadlockTimeout() {
	if c.DeadlockTimeout <= 0 {
		deadlock.Opts.Disable = true
		return
	}
	deadlock.Opts.Disable = false
	deadlock.Opts.DeadlockTimeout = c.DeadlockTimeout
}

func ParseStrategy(s string) (parser.Strategy, error) {
	switch strings.ToLower(s) {
	case "", "optimistic":
		return parser.StrategyOptimistic, nil
	case "exhaustive":
		return parser.StrategyExhaustive, nil
	}
	return 0, fmt.Errorf("unknown parser strategy %q (expected optimistic or exhaustive)", s)
}

// Verbosity maps a level name or a number to a commonlog verbosity.
func Verbosity(level string) (int, error) {
	switch strings.ToLower(level) {
	case "none", "quiet":
		return -5, nil
	case "critical":
		return -3, nil
	case "error":
		return -2, nil
	case "warning", "warn":
		return -1, nil
	case "", "notice":
		return 0, nil
	case "info":
		return 1, nil
	case "debug":
		return 2, nil
	}
	n, err := strconv.Atoi(level)
	if err != nil {
		return 0, fmt.Errorf("unknown log level %q", level)
	}
	return n, nil
}
