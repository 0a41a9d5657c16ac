package searcher

import (
	"fmt"
	"time"

	"deepchess/game"

	"github.com/rs/zerolog"
)

// Hyperparameters for MCTS

const (
	DefaultExploration        = 1.0
	DefaultIterations         = 200
	DefaultMaxSelectionDepth  = 3
	DefaultMaxSimulationDepth = 1
)

// Config is a search configuration. Zero Iterations or zero Duration leaves
// that dimension unbounded; zero depths are unlimited.
type Config struct {
	Exploration        float64
	Iterations         int
	Duration           time.Duration
	MaxSelectionDepth  int // counts the root
	MaxSimulationDepth int
	Evaluate           game.Evaluate
	Seed               uint64 // 0 seeds from the clock
	Logger             zerolog.Logger
}

type Option func(config *Config)

func DefaultConfig() Config {
	return Config{
		Exploration:        DefaultExploration,
		Iterations:         DefaultIterations,
		MaxSelectionDepth:  DefaultMaxSelectionDepth,
		MaxSimulationDepth: DefaultMaxSimulationDepth,
		Evaluate:           game.EvaluateMaterial,
		Logger:             zerolog.Nop(),
	}
}

// NewConfig applies options over DefaultConfig and validates the result.
func NewConfig(options ...Option) (Config, error) {
	config := DefaultConfig().With(options...)
	return config, config.Validate()
}

// With returns a copy of the config with the options applied.
func (c Config) With(options ...Option) Config {
	for _, option := range options {
		option(&c)
	}
	return c
}

func WithExploration(c float64) Option {
	return func(config *Config) {
		config.Exploration = c
	}
}

func WithIterations(iterations int) Option {
	return func(config *Config) {
		config.Iterations = iterations
	}
}

func WithDuration(duration time.Duration) Option {
	return func(config *Config) {
		config.Duration = duration
	}
}

func WithSelectionDepth(depth int) Option {
	return func(config *Config) {
		config.MaxSelectionDepth = depth
	}
}

func WithSimulationDepth(depth int) Option {
	return func(config *Config) {
		config.MaxSimulationDepth = depth
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(config *Config) {
		config.Evaluate = evaluate
	}
}

func WithSeed(seed uint64) Option {
	return func(config *Config) {
		config.Seed = seed
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(config *Config) {
		config.Logger = logger
	}
}

func (c Config) Validate() error {
	switch {
	case c.Exploration < 0:
		return fmt.Errorf("%w: negative exploration constant %v", ErrInvalidConfig, c.Exploration)
	case c.Iterations < 0:
		return fmt.Errorf("%w: negative iteration cap %d", ErrInvalidConfig, c.Iterations)
	case c.Duration < 0:
		return fmt.Errorf("%w: negative duration %v", ErrInvalidConfig, c.Duration)
	case c.MaxSelectionDepth < 0:
		return fmt.Errorf("%w: negative selection depth %d", ErrInvalidConfig, c.MaxSelectionDepth)
	case c.MaxSimulationDepth < 0:
		return fmt.Errorf("%w: negative simulation depth %d", ErrInvalidConfig, c.MaxSimulationDepth)
	case c.Evaluate == nil:
		return fmt.Errorf("%w: missing evaluation function", ErrInvalidConfig)
	case c.Iterations == 0 && c.Duration == 0:
		return ErrUnboundedBudget
	}
	return nil
}

// Budget limits a single search. A zero Budget keeps the configured limits.
type Budget struct {
	Iterations int
	Duration   time.Duration
}

func (b Budget) IsZero() bool {
	return b.Iterations == 0 && b.Duration == 0
}

// WithBudget replaces both limits when the budget is non-zero.
func (c Config) WithBudget(budget Budget) Config {
	if budget.IsZero() {
		return c
	}
	c.Iterations = budget.Iterations
	c.Duration = budget.Duration
	return c
}
