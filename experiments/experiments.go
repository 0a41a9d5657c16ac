package experiments

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"deepchess/agent"
	"deepchess/engine"
	"deepchess/experiments/metrics"
	"deepchess/game"
	"deepchess/searcher"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Recorder persists finished games.
type Recorder interface {
	SaveGame(game metrics.GameRecord, moves []metrics.MoveRecord) error
}

// Tournament plays Games games between two agents, several at a time. Agents
// are shared between games and must be safe for concurrent use.
type Tournament struct {
	Player1     agent.Agent
	Player2     agent.Agent
	Games       int
	Concurrency int // 0 uses one game per CPU
	Budget      searcher.Budget
	MaxMoves    int
	Alternate   bool // swap colours every other game
	Start       game.State
	Logger      zerolog.Logger
	Recorder    Recorder
	Writer      *metrics.Writer
}

type Result struct {
	Score  float64 // mean score of player 1 in [-1, 1]
	Wins   int
	Losses int
	Draws  int
	Games  []metrics.GameRecord
	Moves  []metrics.MoveRecord
}

func (r Result) WinRate() float64 {
	if len(r.Games) == 0 {
		return 0
	}
	return float64(r.Wins) / float64(len(r.Games))
}

func (t Tournament) Run(ctx context.Context) (Result, error) {
	if t.Games <= 0 {
		return Result{}, fmt.Errorf("tournament needs at least one game, got %d", t.Games)
	}
	concurrency := t.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	concurrency = min(concurrency, t.Games)

	start := time.Now()
	t.Logger.Info().Msgf("starting %d games of %s vs %s on %d workers...", t.Games, t.Player1.Name(), t.Player2.Name(), concurrency)

	games := make([]metrics.GameRecord, t.Games)
	moves := make([][]metrics.MoveRecord, t.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := 0; i < t.Games; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, records, err := t.play(i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			games[i], moves[i] = record, records
			t.Logger.Info().Msgf("completed game %d of %d with score %d", i+1, t.Games, record.Score)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{Games: games}
	total := 0
	for i, record := range games {
		total += record.Score
		switch {
		case record.Score > 0:
			result.Wins++
		case record.Score < 0:
			result.Losses++
		default:
			result.Draws++
		}
		result.Moves = append(result.Moves, moves[i]...)
	}
	result.Score = float64(total) / float64(t.Games)

	t.Logger.Info().Msgf("%s won %.0f%% against %s in %s", t.Player1.Name(), 100*result.WinRate(), t.Player2.Name(), time.Since(start))

	if err := t.store(result); err != nil {
		return result, err
	}
	return result, nil
}

// play runs game i; player 1 takes black in odd games when alternating.
func (t Tournament) play(i int) (metrics.GameRecord, []metrics.MoveRecord, error) {
	white, black, sign := t.Player1, t.Player2, 1
	if t.Alternate && i%2 == 1 {
		white, black, sign = t.Player2, t.Player1, -1
	}

	options := []engine.Option{engine.WithBudget(t.Budget), engine.WithMaxMoves(t.MaxMoves)}
	if t.Start != nil {
		options = append(options, engine.WithStart(t.Start))
	}
	var e engine.Engine = engine.NewLocal(white, black, options...)
	metric, moveMetrics, err := e.Run()
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	record := metrics.GameRecord{
		ID:         uuid.NewString(),
		Player1:    t.Player1.Name(),
		Player2:    t.Player2.Name(),
		Score:      sign * metric.Result,
		GameMetric: metric,
	}
	records := make([]metrics.MoveRecord, len(moveMetrics))
	for j, m := range moveMetrics {
		records[j] = metrics.MoveRecord{Game: record.ID, MoveMetric: m}
	}
	return record, records, nil
}

func (t Tournament) store(result Result) error {
	if t.Recorder != nil {
		byGame := map[string][]metrics.MoveRecord{}
		for _, m := range result.Moves {
			byGame[m.Game] = append(byGame[m.Game], m)
		}
		for _, record := range result.Games {
			if err := t.Recorder.SaveGame(record, byGame[record.ID]); err != nil {
				return fmt.Errorf("failed to store game %s: %w", record.ID, err)
			}
		}
		t.Logger.Info().Msgf("stored %d games", len(result.Games))
	}

	if t.Writer != nil {
		configs := []metrics.AgentConfig{t.agentConfig(1, t.Player1), t.agentConfig(2, t.Player2)}
		if err := t.Writer.WriteAgentConfigs(configs); err != nil {
			return err
		}
		if err := t.Writer.WriteGameRecords(result.Games); err != nil {
			return err
		}
		if err := t.Writer.WriteMoveRecords(result.Moves); err != nil {
			return err
		}
		t.Logger.Info().Msgf("wrote agent, game and move records to %s", t.Writer.Dir())
	}
	return nil
}

// configured is implemented by agents that run a tree search.
type configured interface {
	Config() searcher.Config
}

// agentConfig describes a player as it played in this tournament: the
// tournament budget replaces the agent's own when set.
func (t Tournament) agentConfig(id int, a agent.Agent) metrics.AgentConfig {
	record := metrics.AgentConfig{ID: id, Name: a.Name(), Budget: t.Budget}
	c, ok := a.(configured)
	if !ok {
		return record
	}
	config := c.Config().WithBudget(t.Budget)
	record.Budget = searcher.Budget{Iterations: config.Iterations, Duration: config.Duration}
	record.Exploration = config.Exploration
	record.SelectionDepth = config.MaxSelectionDepth
	record.SimulationDepth = config.MaxSimulationDepth
	return record
}
