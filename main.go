package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sternhalma/agent"
	"sternhalma/communication"
	"sternhalma/engine"
	"sternhalma/experiments"
	"sternhalma/game"
)

func main() {
	mode := flag.String("mode", "selfplay", "selfplay or client")
	configPath := flag.String("config", "", "path to a YAML game config")
	socket := flag.String("socket", "", "unix socket path of the game server (client mode)")
	strategy := flag.String("strategy", "search", "agent strategy: constant, brownian, ahead or search")
	games := flag.Int("games", 10, "number of games to play (selfplay mode)")
	out := flag.String("out", "results", "output directory for metric records (selfplay mode)")
	goroutines := flag.Int("goroutines", 8, "search goroutines")
	episodes := flag.Int("episodes", 0, "search episodes per move")
	duration := flag.Duration("duration", 200*time.Millisecond, "search time per move")
	cutoff := flag.Int("cutoff", 100, "rollout depth cutoff")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = game.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
	}

	spec := experiments.AgentSpec{
		Kind:       *strategy,
		Goroutines: *goroutines,
		Episodes:   *episodes,
		Duration:   *duration,
		Cutoff:     *cutoff,
	}
	// An episode budget overrides the time budget.
	if spec.Episodes > 0 {
		spec.Duration = 0
	}

	switch *mode {
	case "selfplay":
		runSelfPlay(cfg, spec, *games, *out)
	case "client":
		runClient(cfg, spec, *socket)
	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

func runSelfPlay(cfg game.Config, spec experiments.AgentSpec, games int, out string) {
	specs := make([]experiments.AgentSpec, cfg.Players)
	for i := range specs {
		specs[i] = spec
	}
	if err := experiments.SelfPlay(cfg, specs, games, out); err != nil {
		log.Fatal().Err(err).Msg("self-play batch failed")
	}
}

func runClient(cfg game.Config, spec experiments.AgentSpec, socket string) {
	if socket == "" {
		log.Fatal().Msg("client mode requires -socket")
	}

	client := communication.NewClient(socket)
	if err := client.Connect(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to connect")
	}
	defer client.Close()

	if err := client.Send(communication.Hello{}); err != nil {
		log.Fatal().Err(err).Msg("failed to open session")
	}

	e := engine.NewRemoteEngine(client, cfg, func(seat game.Seat) agent.Agent {
		a, _, err := spec.Build(seat, cfg, uint64(time.Now().UnixNano()))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build agent")
		}
		return a
	})

	outcome, _, err := e.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("game aborted")
	}
	log.Info().Int("winner", int(outcome.Winner)).Bool("drawn", outcome.Drawn).Msg("done")
}
