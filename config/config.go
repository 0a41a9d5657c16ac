package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"deepchess/game"
	"deepchess/searcher"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

const (
	KindMCTS   = "mcts"
	KindRandom = "random"
	KindRemote = "remote"

	EvaluatorMaterial = "material"
	EvaluatorNetwork  = "network"
)

type Config struct {
	LogLevel string         `yaml:"log_level"`
	Server   ServerConfig   `yaml:"server"`
	Engines  []EngineConfig `yaml:"engines"`
	Arena    ArenaConfig    `yaml:"arena"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// EngineConfig describes one served engine. Unset search fields keep the
// searcher defaults; zero depths mean unlimited.
type EngineConfig struct {
	Name            string        `yaml:"name"`
	Kind            string        `yaml:"kind"`
	Exploration     *float64      `yaml:"exploration"`
	Iterations      *int          `yaml:"iterations"`
	Duration        time.Duration `yaml:"duration"`
	SelectionDepth  *int          `yaml:"selection_depth"`
	SimulationDepth *int          `yaml:"simulation_depth"`
	Seed            uint64        `yaml:"seed"`
	Evaluator       string        `yaml:"evaluator"`
	KingValue       float64       `yaml:"king_value"`
	Weights         string        `yaml:"weights"`
	URL             string        `yaml:"url"`
	Engine          string        `yaml:"engine"` // remote engine name, defaults to Name
	Timeout         time.Duration `yaml:"timeout"`
}

type ArenaConfig struct {
	Player1     string        `yaml:"player1"`
	Player2     string        `yaml:"player2"`
	Games       int           `yaml:"games"`
	Concurrency int           `yaml:"concurrency"`
	MaxMoves    int           `yaml:"max_moves"`
	Alternate   bool          `yaml:"alternate"`
	Iterations  int           `yaml:"iterations"`
	Duration    time.Duration `yaml:"duration"`
	StoreDir    string        `yaml:"store_dir"`
	RecordsDir  string        `yaml:"records_dir"`
}

func Default() Config {
	return Config{
		LogLevel: zerolog.LevelInfoValue,
		Server:   ServerConfig{Addr: ":8080"},
		Engines: []EngineConfig{
			{Name: KindMCTS, Kind: KindMCTS},
			{Name: KindRandom, Kind: KindRandom},
		},
		Arena: ArenaConfig{
			Player1:  KindMCTS,
			Player2:  KindRandom,
			Games:    8,
			MaxMoves: 300,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, config.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	names := map[string]bool{}
	for _, engine := range c.Engines {
		if engine.Name == "" {
			return fmt.Errorf("%w: engine without a name", ErrInvalid)
		}
		if names[engine.Name] {
			return fmt.Errorf("%w: duplicate engine %s", ErrInvalid, engine.Name)
		}
		names[engine.Name] = true

		switch engine.Kind {
		case KindMCTS:
			if _, err := engine.searchConfig(game.EvaluateMaterial); err != nil {
				return fmt.Errorf("%w: engine %s: %v", ErrInvalid, engine.Name, err)
			}
			if engine.Evaluator == EvaluatorNetwork && engine.Weights == "" {
				return fmt.Errorf("%w: engine %s: network evaluator needs weights", ErrInvalid, engine.Name)
			}
			if engine.Evaluator != "" && engine.Evaluator != EvaluatorMaterial && engine.Evaluator != EvaluatorNetwork {
				return fmt.Errorf("%w: engine %s: unknown evaluator %q", ErrInvalid, engine.Name, engine.Evaluator)
			}
		case KindRandom:
		case KindRemote:
			if engine.URL == "" {
				return fmt.Errorf("%w: remote engine %s needs a url", ErrInvalid, engine.Name)
			}
		default:
			return fmt.Errorf("%w: engine %s has unknown kind %q", ErrInvalid, engine.Name, engine.Kind)
		}
	}
	return nil
}

func (c Config) Engine(name string) (EngineConfig, bool) {
	for _, engine := range c.Engines {
		if engine.Name == name {
			return engine, true
		}
	}
	return EngineConfig{}, false
}

// RemoteEngine is the engine name to ask for on the remote server.
func (e EngineConfig) RemoteEngine() string {
	if e.Engine != "" {
		return e.Engine
	}
	return e.Name
}

func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func (a ArenaConfig) Budget() searcher.Budget {
	return searcher.Budget{Iterations: a.Iterations, Duration: a.Duration}
}

// Evaluation builds the engine's evaluation function, loading network weights
// when needed.
func (e EngineConfig) Evaluation() (game.Evaluate, error) {
	switch e.Evaluator {
	case "", EvaluatorMaterial:
		return game.MaterialEvaluator(e.KingValue), nil
	case EvaluatorNetwork:
		network, err := game.LoadNetwork(e.Weights)
		if err != nil {
			return nil, err
		}
		return network.Evaluate, nil
	default:
		return nil, fmt.Errorf("%w: unknown evaluator %q", ErrInvalid, e.Evaluator)
	}
}

// SearchConfig turns the engine settings into a validated searcher.Config.
func (e EngineConfig) SearchConfig(logger zerolog.Logger) (searcher.Config, error) {
	evaluate, err := e.Evaluation()
	if err != nil {
		return searcher.Config{}, err
	}
	config, err := e.searchConfig(evaluate)
	if err != nil {
		return config, err
	}
	return config.With(searcher.WithLogger(logger.With().Str("engine", e.Name).Logger())), nil
}

func (e EngineConfig) searchConfig(evaluate game.Evaluate) (searcher.Config, error) {
	options := []searcher.Option{
		searcher.WithEvaluationFn(evaluate),
		searcher.WithSeed(e.Seed),
	}
	if e.Exploration != nil {
		options = append(options, searcher.WithExploration(*e.Exploration))
	}
	if e.Iterations != nil {
		options = append(options, searcher.WithIterations(*e.Iterations))
	}
	if e.Duration != 0 {
		options = append(options, searcher.WithDuration(e.Duration))
	}
	if e.SelectionDepth != nil {
		options = append(options, searcher.WithSelectionDepth(*e.SelectionDepth))
	}
	if e.SimulationDepth != nil {
		options = append(options, searcher.WithSimulationDepth(*e.SimulationDepth))
	}
	return searcher.NewConfig(options...)
}
