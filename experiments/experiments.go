package experiments

import (
	"context"
	"fmt"
	"renju/engine"
	"renju/evaluator"
	"renju/experiments/metrics"
	"renju/game"
	"renju/meta"
	"renju/searcher"
	"renju/searcher/agent"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// EvaluatorFactory builds the evaluator used by an agent. It is called once per agent
// per game so evaluators need not be safe for concurrent use.
type EvaluatorFactory func(config metrics.AgentConfig) (searcher.Evaluator, error)

// AgentFactory supplies a ready agent in place of a local search, e.g. a remote one
type AgentFactory func(config metrics.AgentConfig) (agent.Agent, error)

type Config struct {
	Name        string
	Size        int
	Games       int
	Concurrency int
	Black       metrics.AgentConfig
	White       metrics.AgentConfig
	Schedule    searcher.TemperatureSchedule
	Seed        uint64
	Evaluator   EvaluatorFactory
	Opponent    AgentFactory // Replaces the White config's agent in matches when set
	OutDir      string // CSV records are skipped when empty
	DatasetPath string // Training examples are skipped when empty
}

func DefaultConfig() Config {
	config := metrics.AgentConfig{Episodes: meta.SIMULATIONS, CPuct: searcher.CPuct, Evaluator: "uniform", NoiseRate: meta.NOISE_RATE}
	black, white := config, config
	black.ID, white.ID = 1, 2
	return Config{
		Name:        "selfplay",
		Size:        meta.BOARD_SIZE,
		Games:       meta.GAMES,
		Concurrency: meta.CONCURRENCY,
		Black:       black,
		White:       white,
		Schedule: searcher.TemperatureSchedule{
			High:      meta.TEMPERATURE_HIGH,
			Low:       meta.TEMPERATURE_LOW,
			Threshold: meta.TEMPERATURE_THRESHOLD,
		},
		Evaluator: NewEvaluatorFactory(meta.BOARD_SIZE),
	}
}

type Result struct {
	Wins     map[game.Color]int // game.Empty counts draws
	Games    []metrics.GameRecord
	Moves    []metrics.MoveRecord
	Examples []evaluator.Example
}

type players struct {
	black, white     agent.Agent
	blackID, whiteID int // metrics.AgentConfig.ID
	examples         func(winner game.Color) []evaluator.Example
}

// RunSelfPlay plays training games where both sides sample moves with noise and records
// the searched positions as training examples.
func RunSelfPlay(ctx context.Context, config Config) (Result, error) {
	return run(ctx, config, func(i int) (players, error) {
		black, err := newTrainingAgent(config, config.Black, gameSeed(config.Seed, i, 0))
		if err != nil {
			return players{}, err
		}
		white, err := newTrainingAgent(config, config.White, gameSeed(config.Seed, i, 1))
		if err != nil {
			return players{}, err
		}
		return players{
			black:   black,
			white:   white,
			blackID: config.Black.ID,
			whiteID: config.White.ID,
			examples: func(winner game.Color) []evaluator.Example {
				return append(black.Examples(winner), white.Examples(winner)...)
			},
		}, nil
	})
}

// RunMatch plays evaluation games between the two agent configs, swapping colors every
// other game.
func RunMatch(ctx context.Context, config Config) (Result, error) {
	return run(ctx, config, func(i int) (players, error) {
		first, err := newEvaluationAgent(config, config.Black, gameSeed(config.Seed, i, 0))
		if err != nil {
			return players{}, err
		}
		var second agent.Agent
		if config.Opponent != nil {
			second, err = config.Opponent(config.White)
		} else {
			second, err = newEvaluationAgent(config, config.White, gameSeed(config.Seed, i, 1))
		}
		if err != nil {
			return players{}, err
		}
		p := players{black: first, white: second, blackID: config.Black.ID, whiteID: config.White.ID}
		if i%2 == 1 {
			p.black, p.white = p.white, p.black
			p.blackID, p.whiteID = p.whiteID, p.blackID
		}
		return p, nil
	})
}

type gameResult struct {
	winner   game.Color
	game     metrics.GameRecord
	moves    []metrics.MoveRecord
	examples []evaluator.Example
}

func run(ctx context.Context, config Config, newPlayers func(i int) (players, error)) (Result, error) {
	if config.Games <= 0 {
		return Result{}, fmt.Errorf("need a positive number of games, got %d", config.Games)
	}
	if config.Evaluator == nil {
		return Result{}, fmt.Errorf("no evaluator factory for %s", config.Name)
	}

	log.Info().Msgf("starting %s experiment with %d games...", config.Name, config.Games)

	results := make([]gameResult, config.Games)
	var mu sync.Mutex
	completed := 0

	g, ctx := errgroup.WithContext(ctx)
	if config.Concurrency > 0 {
		g.SetLimit(config.Concurrency)
	}
	for i := 0; i < config.Games; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := newPlayers(i)
			if err != nil {
				return fmt.Errorf("failed to create agents for game %d: %w", i+1, err)
			}
			result, err := playGame(i+1, config, p)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = result

			mu.Lock()
			completed++
			log.Info().Msgf("completed game %d of %d (%d done) with winner: %s after %d moves",
				i+1, config.Games, completed, result.winner, result.game.TotalMoves)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	summary := Result{Wins: make(map[game.Color]int)}
	for _, r := range results {
		summary.Wins[r.winner]++
		summary.Games = append(summary.Games, r.game)
		summary.Moves = append(summary.Moves, r.moves...)
		summary.Examples = append(summary.Examples, r.examples...)
	}
	log.Info().Msgf("completed %s experiment: black %d, white %d, draws %d",
		config.Name, summary.Wins[game.Black], summary.Wins[game.White], summary.Wins[game.Empty])

	if err := store(config, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

func playGame(id int, config Config, p players) (gameResult, error) {
	e := engine.LocalEngine(config.Size, p.black, p.white)
	winner, gameMetric, moveMetrics, err := e.Run()
	if err != nil {
		return gameResult{}, err
	}

	result := gameResult{
		winner: winner,
		game:   metrics.GameRecord{ID: id, Black: p.blackID, White: p.whiteID, GameMetric: gameMetric},
	}
	for _, mm := range moveMetrics {
		result.moves = append(result.moves, metrics.MoveRecord{Game: id, MoveMetric: mm})
	}
	if p.examples != nil {
		result.examples = p.examples(winner)
	}
	return result, nil
}

func store(config Config, summary Result) error {
	if config.OutDir != "" {
		writer, err := metrics.NewWriter(config.OutDir, config.Name)
		if err != nil {
			return fmt.Errorf("failed to create experiment writer: %w", err)
		}
		if err := writer.WriteAgentConfigs([]metrics.AgentConfig{config.Black, config.White}); err != nil {
			return err
		}
		if err := writer.WriteGameRecords(summary.Games); err != nil {
			return err
		}
		if err := writer.WriteMoveRecords(summary.Moves); err != nil {
			return err
		}
		log.Info().Msgf("stored experiment records in %s", writer.Dir())
	}

	if config.DatasetPath != "" {
		if err := WriteDatasetFile(config.DatasetPath, summary.Examples); err != nil {
			return err
		}
		log.Info().Msgf("stored %d training examples in %s", len(summary.Examples), config.DatasetPath)
	}
	return nil
}

func createMCTS(config Config, agentConfig metrics.AgentConfig, seed uint64) (*searcher.MCTS, error) {
	e, err := config.Evaluator(agentConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create %q evaluator: %w", agentConfig.Evaluator, err)
	}

	options := []searcher.Option{searcher.WithSeed(seed), searcher.WithMetrics()}
	if agentConfig.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(agentConfig.Episodes))
	}
	if agentConfig.Duration > 0 {
		options = append(options, searcher.WithDuration(agentConfig.Duration))
	}
	if agentConfig.CPuct > 0 {
		options = append(options, searcher.WithCPuct(agentConfig.CPuct))
	}
	return searcher.NewMCTS(e, options...), nil
}

func newTrainingAgent(config Config, agentConfig metrics.AgentConfig, seed uint64) (*agent.TrainingAgent, error) {
	m, err := createMCTS(config, agentConfig, seed)
	if err != nil {
		return nil, err
	}
	return agent.NewTrainingAgent(m, config.Schedule, agentConfig.NoiseRate), nil
}

func newEvaluationAgent(config Config, agentConfig metrics.AgentConfig, seed uint64) (agent.Agent, error) {
	m, err := createMCTS(config, agentConfig, seed)
	if err != nil {
		return nil, err
	}
	return agent.NewEvaluationAgent(m), nil
}

func gameSeed(seed uint64, i, side int) uint64 {
	return seed + uint64(2*i+side)
}
