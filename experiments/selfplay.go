// Package experiments runs self-play batches and persists their records for
// offline analysis.
package experiments

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"sternhalma/agent"
	"sternhalma/engine"
	"sternhalma/experiments/metrics"
	"sternhalma/game"
	"sternhalma/searcher"
)

// AgentSpec describes the agent occupying one seat.
type AgentSpec struct {
	Kind       string // constant, brownian, ahead or search
	Goroutines int
	Episodes   int
	Duration   time.Duration
	Cutoff     int
}

// Build constructs the agent for a seat, together with the metrics collector
// shared with its searcher when the spec calls for one.
func (s AgentSpec) Build(seat game.Seat, cfg game.Config, seed uint64) (agent.Agent, searcher.MetricsCollector, error) {
	switch s.Kind {
	case "constant":
		return agent.NewConstant(seat), nil, nil
	case "brownian":
		return agent.NewBrownian(seat, seed), nil, nil
	case "ahead":
		return agent.NewAhead(seat, cfg, seed), nil, nil
	case "search":
		collector := searcher.NewMetricsCollector()
		options := []searcher.Option{searcher.WithMetrics(collector)}
		if s.Episodes > 0 {
			options = append(options, searcher.WithEpisodes(s.Episodes))
		}
		if s.Duration > 0 {
			options = append(options, searcher.WithDuration(s.Duration))
		}
		if s.Cutoff > 0 {
			options = append(options, searcher.WithCutoff(s.Cutoff))
		}
		goroutines := s.Goroutines
		if goroutines <= 0 {
			goroutines = 1
		}
		return agent.NewSearch(seat, searcher.NewMCTS(goroutines, options...)), collector, nil
	default:
		return nil, nil, errors.Errorf("unknown agent kind %q", s.Kind)
	}
}

// SelfPlay plays numGames games with one spec per seat and writes the game
// and move records as CSV under outDir.
func SelfPlay(cfg game.Config, specs []AgentSpec, numGames int, outDir string) error {
	if len(specs) != cfg.Players {
		return errors.Errorf("got %d agent specs for %d seats", len(specs), cfg.Players)
	}

	writer, err := metrics.NewWriter(outDir)
	if err != nil {
		return err
	}
	log.Info().Str("dir", writer.Dir()).Int("games", numGames).Msg("starting self-play batch")

	var gameRecords []metrics.GameRecord
	var moveRecords []metrics.MoveRecord
	for id := 1; id <= numGames; id++ {
		agents := make([]agent.Agent, cfg.Players)
		options := []engine.Option{engine.WithGameID(id)}
		for seat := range agents {
			seed := uint64(id)*uint64(game.NumCorners) + uint64(seat) + 1
			a, collector, err := specs[seat].Build(game.Seat(seat), cfg, seed)
			if err != nil {
				return err
			}
			agents[seat] = a
			if collector != nil {
				options = append(options, engine.WithCollector(game.Seat(seat), collector))
			}
		}

		e, err := engine.NewLocalEngine(cfg, agents, options...)
		if err != nil {
			return err
		}

		start := time.Now()
		outcome, records, err := e.Run()
		if err != nil {
			return errors.Wrapf(err, "game %d failed", id)
		}

		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         id,
			Players:    cfg.Players,
			Winner:     outcome.Winner,
			Drawn:      outcome.Drawn,
			TotalMoves: outcome.TotalMoves,
			StartTime:  start,
			Duration:   time.Since(start),
		})
		moveRecords = append(moveRecords, records...)
	}

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Str("dir", writer.Dir()).Msg("self-play batch complete")
	return nil
}
