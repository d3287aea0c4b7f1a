package engine

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"sternhalma/agent"
	"sternhalma/experiments/metrics"
	"sternhalma/game"
	"sternhalma/searcher"
)

// LocalEngine runs every seat in-process, one agent per seat.
type LocalEngine struct {
	game       *game.Game
	cfg        game.Config
	agents     []agent.Agent
	collectors []searcher.MetricsCollector
	gameID     int
}

type Option func(e *LocalEngine)

// WithCollector attaches the metrics collector shared with a seat's searcher
// so that Run can report per-move search effort. Seats without a collector
// report zero effort.
func WithCollector(seat game.Seat, collector searcher.MetricsCollector) Option {
	return func(e *LocalEngine) {
		e.collectors[seat] = collector
	}
}

// WithGameID tags every emitted record with an experiment-level game id.
func WithGameID(id int) Option {
	return func(e *LocalEngine) {
		e.gameID = id
	}
}

// NewLocalEngine sets up a game for the configured player count with one
// agent per seat, agents[s] playing seat s.
func NewLocalEngine(cfg game.Config, agents []agent.Agent, options ...Option) (*LocalEngine, error) {
	g, err := game.NewGame(cfg)
	if err != nil {
		return nil, err
	}
	if len(agents) != cfg.Players {
		return nil, errors.Errorf("got %d agents for %d seats", len(agents), cfg.Players)
	}

	e := &LocalEngine{
		game:       g,
		cfg:        cfg,
		agents:     agents,
		collectors: make([]searcher.MetricsCollector, cfg.Players),
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

// Run plays the game to its end and returns the outcome with one record per
// applied move.
func (e *LocalEngine) Run() (game.Outcome, []metrics.MoveRecord, error) {
	log.Info().Int("game", e.gameID).Int("players", e.cfg.Players).Msg("starting game")

	var records []metrics.MoveRecord
	for e.game.Phase() == game.InProgressPhase {
		state := e.game.State()
		seat := state.Player()

		start := time.Now()
		move, err := e.agents[seat].FindMove(state)
		if err != nil {
			return game.Outcome{}, records, errors.Wrapf(err, "seat %d failed to pick a move", seat)
		}
		elapsed := time.Since(start)

		if err := e.game.ApplyMove(move); err != nil {
			return game.Outcome{}, records, errors.Wrapf(err, "seat %d played an illegal move", seat)
		}

		record := metrics.MoveRecord{
			Game:     e.gameID,
			Step:     len(e.game.Record()),
			Seat:     seat,
			Progress: game.Progress(e.game.State().Board, seat, e.cfg),
		}
		if e.collectors[seat] != nil {
			record.SearchMetrics = e.collectors[seat].Complete()
		} else {
			record.SearchMetrics = searcher.SearchMetrics{StartTime: start, Duration: elapsed}
		}
		records = append(records, record)

		log.Debug().
			Int("step", record.Step).
			Int("seat", int(seat)).
			Stringer("move", move).
			Int("progress", record.Progress).
			Msg("applied move")
	}

	outcome, _ := e.game.Outcome()
	log.Info().
		Int("game", e.gameID).
		Int("winner", int(outcome.Winner)).
		Bool("drawn", outcome.Drawn).
		Int("moves", outcome.TotalMoves).
		Msg("game finished")
	return outcome, records, nil
}
