package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deepchess/agent"
	"deepchess/communication"
	"deepchess/communication/client"
	"deepchess/communication/server"
	"deepchess/config"
	"deepchess/experiments"
	"deepchess/experiments/metrics"
	"deepchess/game"
	"deepchess/searcher"
	"deepchess/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: deepchess <command> [flags]

commands:
  serve   serve the configured engines over HTTP
  move    search one position and print the response
  arena   play a tournament between two engines`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx, os.Args[2:])
	case "move":
		err = runMove(os.Args[2:])
	case "arena":
		err = runArena(ctx, os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", os.Args[1])
	}
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	zerolog.SetGlobalLevel(cfg.Level())
	return cfg, nil
}

func newAgent(engine config.EngineConfig) (agent.Agent, error) {
	switch engine.Kind {
	case config.KindMCTS:
		search, err := engine.SearchConfig(log.Logger)
		if err != nil {
			return nil, err
		}
		mcts, err := agent.NewMCTS(engine.Name, search)
		if err != nil {
			return nil, err
		}
		return mcts, nil
	case config.KindRandom:
		return agent.Named(engine.Name, agent.NewRandom(engine.Seed)), nil
	case config.KindRemote:
		timeout := engine.Timeout
		if timeout == 0 {
			timeout = time.Minute
		}
		remote := agent.NewRemote(engine.RemoteEngine(), client.NewClient(engine.URL, timeout))
		return agent.Named(engine.Name, remote), nil
	default:
		return nil, fmt.Errorf("unknown engine kind %q", engine.Kind)
	}
}

func newRegistry(cfg config.Config) (*agent.Registry, error) {
	registry, err := agent.NewRegistry()
	if err != nil {
		return nil, err
	}
	for _, engine := range cfg.Engines {
		a, err := newAgent(engine)
		if err != nil {
			return nil, fmt.Errorf("engine %s: %w", engine.Name, err)
		}
		if err := registry.Register(a); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func runServe(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := flags.String("config", "", "YAML configuration file")
	addr := flags.String("addr", "", "Listen address, overrides the config")
	flags.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	return server.NewServer(registry, log.Logger).ListenAndServe(ctx, cfg.Server.Addr)
}

func runMove(args []string) error {
	flags := flag.NewFlagSet("move", flag.ExitOnError)
	configPath := flags.String("config", "", "YAML configuration file")
	engineName := flags.String("engine", config.KindMCTS, "Engine to search with")
	fen := flags.String("fen", game.NewPosition().String(), "Position to search")
	iterations := flags.Int("iterations", 0, "Iteration cap, overrides the engine budget")
	duration := flags.Duration("duration", 0, "Search duration, overrides the engine budget")
	flags.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	engine, ok := cfg.Engine(*engineName)
	if !ok {
		return fmt.Errorf("unknown engine %q", *engineName)
	}
	a, err := newAgent(engine)
	if err != nil {
		return err
	}

	start := time.Now()
	state, err := game.FromFEN(*fen)
	if err != nil {
		return err
	}
	step, err := a.Step(state, searcher.Budget{Iterations: *iterations, Duration: *duration})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(communication.MoveResponse{
		Status:      communication.StatusSuccess,
		Move:        step.Move.String(),
		Board:       step.State.String(),
		Input:       state.String(),
		IsCheckMate: step.State.IsCheckmate(),
		Stats:       communication.NewStats(step.Stats, start, time.Now()),
	})
}

func runArena(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("arena", flag.ExitOnError)
	configPath := flags.String("config", "", "YAML configuration file")
	player1 := flags.String("player1", "", "First engine, overrides the config")
	player2 := flags.String("player2", "", "Second engine, overrides the config")
	games := flags.Int("games", 0, "Number of games, overrides the config")
	concurrency := flags.Int("concurrency", 0, "Games played at once, overrides the config")
	flags.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	arena := cfg.Arena
	if *player1 != "" {
		arena.Player1 = *player1
	}
	if *player2 != "" {
		arena.Player2 = *player2
	}
	if *games > 0 {
		arena.Games = *games
	}
	if *concurrency > 0 {
		arena.Concurrency = *concurrency
	}

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	first, ok := registry.Get(arena.Player1)
	if !ok {
		return fmt.Errorf("unknown engine %q", arena.Player1)
	}
	second, ok := registry.Get(arena.Player2)
	if !ok {
		return fmt.Errorf("unknown engine %q", arena.Player2)
	}

	tournament := experiments.Tournament{
		Player1:     first,
		Player2:     second,
		Games:       arena.Games,
		Concurrency: arena.Concurrency,
		Budget:      arena.Budget(),
		MaxMoves:    arena.MaxMoves,
		Alternate:   arena.Alternate,
		Logger:      log.Logger,
	}
	if arena.StoreDir != "" {
		s, err := store.Open(arena.StoreDir)
		if err != nil {
			return err
		}
		defer s.Close()
		tournament.Recorder = s
	}
	if arena.RecordsDir != "" {
		writer, err := metrics.NewWriter(arena.RecordsDir, "arena")
		if err != nil {
			return err
		}
		tournament.Writer = writer
	}

	result, err := tournament.Run(ctx)
	if err != nil {
		return err
	}
	log.Info().Msgf("%s vs %s: score %.2f (%d wins, %d losses, %d draws)",
		first.Name(), second.Name(), result.Score, result.Wins, result.Losses, result.Draws)
	return nil
}
