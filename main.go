package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"renju/communication/client"
	"renju/communication/server"
	"renju/experiments"
	"renju/experiments/metrics"
	"renju/game"
	"renju/gomocup"
	"renju/logx"
	"renju/meta"
	"renju/searcher"
	"renju/searcher/agent"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

type options struct {
	mode        string
	size        int
	episodes    int
	duration    time.Duration
	cPuct       float64
	seed        uint64
	games       int
	concurrency int
	evaluator   string
	opponent    string
	remote      string
	network     string
	bestNetwork string
	promote     float64
	dataset     string
	outDir      string
	records     string
	addr        string
	iterations  int
	logLevel    string
}

func main() {
	var o options
	flag.StringVar(&o.mode, "mode", "selfplay", "selfplay, match, train, import, serve or gomocup")
	flag.IntVar(&o.size, "size", meta.BOARD_SIZE, "Board edge length")
	flag.IntVar(&o.episodes, "episodes", meta.SIMULATIONS, "Simulations per move, 0 to search by duration")
	flag.DurationVar(&o.duration, "duration", 0, "Search time per move when episodes is 0")
	flag.Float64Var(&o.cPuct, "cpuct", searcher.CPuct, "Exploration constant")
	flag.Uint64Var(&o.seed, "seed", uint64(time.Now().UnixNano()), "Random seed")
	flag.IntVar(&o.games, "games", meta.GAMES, "Games to play")
	flag.IntVar(&o.concurrency, "concurrency", meta.CONCURRENCY, "Games played at once")
	flag.StringVar(&o.evaluator, "evaluator", "heuristic", "uniform, heuristic or network")
	flag.StringVar(&o.opponent, "opponent", "uniform", "Evaluator of the second agent in match mode")
	flag.StringVar(&o.remote, "remote", "", "Agent server URL playing the second agent in match mode")
	flag.StringVar(&o.network, "network", "network.json.zst", "Network weights file, the candidate in match mode")
	flag.StringVar(&o.bestNetwork, "best-network", "best.json.zst", "Weights of the best network so far, the opponent's in match mode")
	flag.Float64Var(&o.promote, "promote", 0.55, "Score the candidate network needs in a match to become the best")
	flag.StringVar(&o.dataset, "dataset", "dataset.jsonl.zst", "Training examples file")
	flag.StringVar(&o.outDir, "out", "results", "Directory for experiment records")
	flag.StringVar(&o.records, "records", "", "Directory of .psq game records, written by selfplay and match, read by import")
	flag.StringVar(&o.addr, "addr", ":8080", "Agent server listen address")
	flag.IntVar(&o.iterations, "iterations", 10, "Training iterations over the dataset")
	flag.StringVar(&o.logLevel, "log", "info", "Log level")
	flag.Parse()

	// stdout carries the Gomocup protocol
	log.Logger = logx.New(os.Stderr, logx.ParseLevel(o.logLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if o.episodes <= 0 && o.duration <= 0 {
		log.Fatal().Msg("need a positive number of episodes or a search duration")
	}

	var err error
	switch o.mode {
	case "selfplay":
		err = runSelfPlay(ctx, o)
	case "match":
		err = runMatch(ctx, o)
	case "train":
		err = runTrain(o)
	case "import":
		err = runImport(o)
	case "serve":
		err = runServe(ctx, o)
	case "gomocup":
		err = runGomocup(o)
	default:
		err = fmt.Errorf("unknown mode %q", o.mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", o.mode)
	}
}

func runSelfPlay(ctx context.Context, o options) error {
	config := experimentConfig(o, "selfplay")
	config.White.Evaluator = o.evaluator
	config.DatasetPath = o.dataset

	result, err := experiments.RunSelfPlay(ctx, config)
	if err != nil {
		return err
	}
	return writeRecords(o, result)
}

func runMatch(ctx context.Context, o options) error {
	config := experimentConfig(o, "match")
	config.White.Evaluator = o.opponent
	config.White.Network = o.bestNetwork

	if o.remote != "" {
		// A remote server keeps one tree, so its games cannot overlap
		config.Concurrency = 1
		config.White.Evaluator = "remote"
		c := client.New(o.remote, 10*time.Minute)
		size, err := c.Ping(ctx)
		if err != nil {
			return err
		}
		if size != o.size {
			return fmt.Errorf("remote agent plays on %dx%d, not %dx%d", size, size, o.size, o.size)
		}
		config.Opponent = func(metrics.AgentConfig) (agent.Agent, error) {
			return client.NewRemoteAgent(c), nil
		}
	}

	result, err := experiments.RunMatch(ctx, config)
	if err != nil {
		return err
	}
	log.Info().Msgf("%s scored %.3f against %s, %d draws",
		config.Black.Evaluator, experiments.Score(result, config.Black.ID), config.White.Evaluator, result.Wins[game.Empty])
	if err := writeRecords(o, result); err != nil {
		return err
	}

	if config.Black.Evaluator == "network" && config.White.Evaluator == "network" {
		if _, err := experiments.Promote(result, config.Black, o.bestNetwork, o.promote); err != nil {
			return err
		}
	}
	return nil
}

func runTrain(o options) error {
	examples, err := experiments.ReadDatasetFile(o.dataset)
	if err != nil {
		return err
	}
	network, err := experiments.LoadNetwork(o.network, o.size)
	if err != nil {
		return err
	}
	log.Info().Msgf("training on %d examples for %d iterations...", len(examples), o.iterations)
	if err := network.Train(examples, o.iterations); err != nil {
		return err
	}
	if err := network.SaveFile(o.network); err != nil {
		return err
	}
	log.Info().Msgf("saved %s to %s", network.Name(), o.network)
	return nil
}

// runImport turns the .psq records in the records directory into a training dataset
func runImport(o options) error {
	if o.records == "" {
		return fmt.Errorf("no records directory given")
	}
	paths, err := filepath.Glob(filepath.Join(o.records, "*.psq"))
	if err != nil {
		return err
	}
	examples, err := experiments.ImportRecords(o.size, paths...)
	if err != nil {
		return err
	}
	if err := experiments.WriteDatasetFile(o.dataset, examples); err != nil {
		return err
	}
	log.Info().Msgf("imported %d examples from %d records into %s", len(examples), len(paths), o.dataset)
	return nil
}

func runServe(ctx context.Context, o options) error {
	a, err := evaluationAgent(o)
	if err != nil {
		return err
	}
	return server.New(a, o.size, log.Logger).ListenAndServe(ctx, o.addr)
}

func runGomocup(o options) error {
	a, err := evaluationAgent(o)
	if err != nil {
		return err
	}
	return gomocup.NewBrain(a, log.Logger).Run(os.Stdin, os.Stdout)
}

func experimentConfig(o options, name string) experiments.Config {
	config := experiments.DefaultConfig()
	config.Name = name
	config.Size = o.size
	config.Games = o.games
	config.Concurrency = o.concurrency
	config.Seed = o.seed
	config.OutDir = o.outDir
	for _, c := range []*metrics.AgentConfig{&config.Black, &config.White} {
		c.Episodes = o.episodes
		c.Duration = o.duration
		c.CPuct = o.cPuct
		c.Evaluator = o.evaluator
		c.Network = o.network
	}
	config.Evaluator = experiments.NewEvaluatorFactory(o.size)
	return config
}

func evaluationAgent(o options) (agent.Agent, error) {
	e, err := experiments.NewEvaluatorFactory(o.size)(metrics.AgentConfig{Evaluator: o.evaluator, Network: o.network})
	if err != nil {
		return nil, err
	}
	opts := []searcher.Option{searcher.WithSeed(o.seed), searcher.WithCPuct(o.cPuct), searcher.WithMetrics(), searcher.WithLogger(log.Logger)}
	if o.episodes > 0 {
		opts = append(opts, searcher.WithEpisodes(o.episodes))
	} else {
		opts = append(opts, searcher.WithDuration(o.duration))
	}
	return agent.NewEvaluationAgent(searcher.NewMCTS(e, opts...)), nil
}

// writeRecords stores every game as a Piskvork .psq file
func writeRecords(o options, result experiments.Result) error {
	if o.records == "" {
		return nil
	}
	if err := os.MkdirAll(o.records, 0o755); err != nil {
		return fmt.Errorf("failed to create records directory: %w", err)
	}
	moves := make(map[int][]int)
	for _, m := range result.Moves {
		moves[m.Game] = append(moves[m.Game], m.Move)
	}
	for _, g := range result.Games {
		path := filepath.Join(o.records, fmt.Sprintf("game_%03d.psq", g.ID))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create record: %w", err)
		}
		err = game.WriteRecord(f, o.size, moves[g.ID])
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return err
		}
	}
	log.Info().Msgf("wrote %d game records to %s", len(result.Games), o.records)
	return nil
}
