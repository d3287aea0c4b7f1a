package engine

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"sternhalma/agent"
	"sternhalma/communication"
	"sternhalma/experiments/metrics"
	"sternhalma/game"
)

// AgentFactory builds the agent for whichever seat the server assigns.
type AgentFactory func(seat game.Seat) agent.Agent

// RemoteEngine plays one seat of a server-hosted game. The server is
// authoritative: the local game only mirrors the moves it announces, and the
// outcome comes from its game_finished message.
type RemoteEngine struct {
	client   *communication.Client
	cfg      game.Config
	newAgent AgentFactory
	gameID   int
}

func NewRemoteEngine(client *communication.Client, cfg game.Config, newAgent AgentFactory) *RemoteEngine {
	return &RemoteEngine{client: client, cfg: cfg, newAgent: newAgent}
}

// Run waits for the seat assignment, then answers every turn until the
// server reports the game finished.
func (e *RemoteEngine) Run() (game.Outcome, []metrics.MoveRecord, error) {
	seat, err := e.awaitAssignment()
	if err != nil {
		return game.Outcome{}, nil, err
	}
	log.Info().Int("seat", int(seat)).Msg("assigned seat")

	a := e.newAgent(seat)
	g, err := game.NewGame(e.cfg)
	if err != nil {
		return game.Outcome{}, nil, err
	}

	var records []metrics.MoveRecord
	for {
		msg, err := e.client.Receive()
		if err != nil {
			return game.Outcome{}, records, err
		}

		switch m := msg.(type) {
		case communication.Turn:
			record, err := e.takeTurn(g, a, m)
			if err != nil {
				return game.Outcome{}, records, err
			}
			records = append(records, record)

		case communication.Movement:
			if err := g.ApplyMove(m.Move); err != nil {
				return game.Outcome{}, records, errors.Wrap(err, "server announced a move the local game rejects")
			}
			log.Debug().Int("seat", int(m.Player)).Stringer("move", m.Move).Msg("applied announced move")

		case communication.GameFinished:
			outcome := game.Outcome{
				Winner:     m.Result.Winner,
				Drawn:      m.Result.Winner == game.NoSeat,
				TotalMoves: m.Result.TotalTurns,
			}
			log.Info().Int("winner", int(outcome.Winner)).Int("moves", outcome.TotalMoves).Msg("game finished")
			return outcome, records, nil

		case communication.Disconnect:
			return game.Outcome{}, records, errors.New("server disconnected before the game ended")

		default:
			log.Error().Type("message", msg).Msg("unexpected message, ignoring")
		}
	}
}

func (e *RemoteEngine) awaitAssignment() (game.Seat, error) {
	for {
		msg, err := e.client.Receive()
		if err != nil {
			return game.NoSeat, err
		}
		switch m := msg.(type) {
		case communication.Assign:
			return m.Player, nil
		case communication.Welcome:
			log.Info().Str("session", m.SessionID).Msg("session opened")
		case communication.Reject:
			return game.NoSeat, errors.Errorf("server rejected the connection: %s", m.Reason)
		case communication.Disconnect:
			return game.NoSeat, errors.New("server disconnected before assigning a seat")
		default:
			log.Error().Type("message", msg).Msg("expected assignment, ignoring")
		}
	}
}

// takeTurn picks a move with the agent and answers with its index in the
// server's offered list. The server's list is authoritative; an agent move
// missing from it falls back to the first offer.
func (e *RemoteEngine) takeTurn(g *game.Game, a agent.Agent, turn communication.Turn) (metrics.MoveRecord, error) {
	if len(turn.Movements) == 0 {
		return metrics.MoveRecord{}, errors.Wrap(game.ErrProtocolDecode, "turn with no movements")
	}

	state := g.State()
	start := time.Now()
	move, err := a.FindMove(state)
	if err != nil {
		return metrics.MoveRecord{}, errors.Wrap(err, "failed to pick a move")
	}
	elapsed := time.Since(start)

	index := -1
	for i, offered := range turn.Movements {
		if offered.Equal(move) {
			index = i
			break
		}
	}
	if index < 0 {
		log.Warn().Stringer("move", move).Msg("chosen move not offered, falling back")
		index = 0
	}

	if err := e.client.Send(communication.Choice{MovementIndex: index}); err != nil {
		return metrics.MoveRecord{}, err
	}

	record := metrics.MoveRecord{
		Game: e.gameID,
		Step: len(g.Record()) + 1,
		Seat: a.Seat(),
	}
	record.StartTime = start
	record.Duration = elapsed
	return record, nil
}
