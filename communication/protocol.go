// Package communication carries games over a wire: CBOR-encoded messages with
// a type discriminator, framed by a 4-byte big-endian length prefix, over a
// unix domain socket.
package communication

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"sternhalma/game"
)

// Message type discriminators.
const (
	typeAssign       = "assign"
	typeWelcome      = "welcome"
	typeReject       = "reject"
	typeDisconnect   = "disconnect"
	typeTurn         = "turn"
	typeMovement     = "movement"
	typeGameFinished = "game_finished"

	typeHello     = "hello"
	typeReconnect = "reconnect"
	typeChoice    = "choice"

	resultFinished = "finished"
	resultMaxTurns = "max_turns"
)

// ServerMessage is a message from the server to a client.
type ServerMessage interface {
	isServerMessage()
}

// Assign tells the client which seat it plays.
type Assign struct {
	Player game.Seat
}

// Welcome accepts a connection and names the session for reconnects. Board is
// the current snapshot when rejoining a game in progress, nil otherwise.
type Welcome struct {
	SessionID string
	Board     *game.Board
}

// Reject refuses a connection.
type Reject struct {
	Reason string
}

// Disconnect asks the client to hang up.
type Disconnect struct{}

// Turn hands the client the legal moves of its seat and expects a Choice.
type Turn struct {
	Movements []game.Move
}

// Movement announces an applied move so clients can track the board.
type Movement struct {
	Player game.Seat
	Move   game.Move
	Scores []int
}

// GameFinished announces the terminal result.
type GameFinished struct {
	Result GameResult
}

// GameResult is the outcome of a finished game. Winner is NoSeat when the
// game hit the move cap.
type GameResult struct {
	Winner     game.Seat
	TotalTurns int
	Scores     []int
}

func (Assign) isServerMessage()       {}
func (Welcome) isServerMessage()      {}
func (Reject) isServerMessage()       {}
func (Disconnect) isServerMessage()   {}
func (Turn) isServerMessage()         {}
func (Movement) isServerMessage()     {}
func (GameFinished) isServerMessage() {}

// ClientMessage is a message from a client to the server.
type ClientMessage interface {
	isClientMessage()
}

// Hello opens a new session.
type Hello struct{}

// Reconnect resumes an existing session.
type Reconnect struct {
	SessionID string
}

// Choice answers a Turn with the index of the chosen movement.
type Choice struct {
	MovementIndex int
}

func (Hello) isClientMessage()     {}
func (Reconnect) isClientMessage() {}
func (Choice) isClientMessage()    {}

// serverEnvelope is the union of every server message's wire fields.
type serverEnvelope struct {
	Type      string          `cbor:"type"`
	Player    *int            `cbor:"player,omitempty"`
	SessionID string          `cbor:"session_id,omitempty"`
	Board     []int           `cbor:"board,omitempty"`
	Reason    string          `cbor:"reason,omitempty"`
	Movements [][][2]int      `cbor:"movements,omitempty"`
	Movement  [][2]int        `cbor:"movement,omitempty"`
	Scores    []int           `cbor:"scores,omitempty"`
	Result    *resultEnvelope `cbor:"result,omitempty"`
}

type resultEnvelope struct {
	Type       string `cbor:"type"`
	Winner     *int   `cbor:"winner,omitempty"`
	TotalTurns int    `cbor:"total_turns"`
	Scores     []int  `cbor:"scores,omitempty"`
}

type clientEnvelope struct {
	Type          string `cbor:"type"`
	SessionID     string `cbor:"session_id,omitempty"`
	MovementIndex *int   `cbor:"movement_index,omitempty"`
}

// EncodeServer marshals a server message to its CBOR payload.
func EncodeServer(msg ServerMessage) ([]byte, error) {
	var env serverEnvelope
	switch m := msg.(type) {
	case Assign:
		p := int(m.Player)
		env = serverEnvelope{Type: typeAssign, Player: &p}
	case Welcome:
		env = serverEnvelope{Type: typeWelcome, SessionID: m.SessionID}
		if m.Board != nil {
			env.Board = encodeBoard(m.Board)
		}
	case Reject:
		env = serverEnvelope{Type: typeReject, Reason: m.Reason}
	case Disconnect:
		env = serverEnvelope{Type: typeDisconnect}
	case Turn:
		env = serverEnvelope{Type: typeTurn, Movements: make([][][2]int, len(m.Movements))}
		for i, mv := range m.Movements {
			env.Movements[i] = encodeMove(mv)
		}
	case Movement:
		p := int(m.Player)
		env = serverEnvelope{
			Type:     typeMovement,
			Player:   &p,
			Movement: encodeMove(m.Move),
			Scores:   m.Scores,
		}
	case GameFinished:
		env = serverEnvelope{Type: typeGameFinished, Result: encodeResult(m.Result)}
	default:
		return nil, errors.Errorf("unknown server message %T", msg)
	}
	return cbor.Marshal(env)
}

// DecodeServer parses a CBOR payload into a server message. Malformed
// payloads fail with ErrProtocolDecode.
func DecodeServer(payload []byte) (ServerMessage, error) {
	var env serverEnvelope
	if err := cbor.Unmarshal(payload, &env); err != nil {
		return nil, errors.Wrap(game.ErrProtocolDecode, err.Error())
	}

	switch env.Type {
	case typeAssign:
		seat, err := decodeSeat(env.Player)
		if err != nil {
			return nil, err
		}
		return Assign{Player: seat}, nil

	case typeWelcome:
		msg := Welcome{SessionID: env.SessionID}
		if env.Board != nil {
			board, err := decodeBoard(env.Board)
			if err != nil {
				return nil, err
			}
			msg.Board = board
		}
		return msg, nil

	case typeReject:
		return Reject{Reason: env.Reason}, nil

	case typeDisconnect:
		return Disconnect{}, nil

	case typeTurn:
		msg := Turn{Movements: make([]game.Move, len(env.Movements))}
		for i, mv := range env.Movements {
			move, err := decodeMove(mv)
			if err != nil {
				return nil, err
			}
			msg.Movements[i] = move
		}
		return msg, nil

	case typeMovement:
		seat, err := decodeSeat(env.Player)
		if err != nil {
			return nil, err
		}
		move, err := decodeMove(env.Movement)
		if err != nil {
			return nil, err
		}
		return Movement{Player: seat, Move: move, Scores: env.Scores}, nil

	case typeGameFinished:
		if env.Result == nil {
			return nil, errors.Wrap(game.ErrProtocolDecode, "game_finished without result")
		}
		result, err := decodeResult(*env.Result)
		if err != nil {
			return nil, err
		}
		return GameFinished{Result: result}, nil

	default:
		return nil, errors.Wrapf(game.ErrProtocolDecode, "unexpected message type %q", env.Type)
	}
}

// EncodeClient marshals a client message to its CBOR payload.
func EncodeClient(msg ClientMessage) ([]byte, error) {
	var env clientEnvelope
	switch m := msg.(type) {
	case Hello:
		env = clientEnvelope{Type: typeHello}
	case Reconnect:
		env = clientEnvelope{Type: typeReconnect, SessionID: m.SessionID}
	case Choice:
		i := m.MovementIndex
		env = clientEnvelope{Type: typeChoice, MovementIndex: &i}
	default:
		return nil, errors.Errorf("unknown client message %T", msg)
	}
	return cbor.Marshal(env)
}

// DecodeClient parses a CBOR payload into a client message.
func DecodeClient(payload []byte) (ClientMessage, error) {
	var env clientEnvelope
	if err := cbor.Unmarshal(payload, &env); err != nil {
		return nil, errors.Wrap(game.ErrProtocolDecode, err.Error())
	}

	switch env.Type {
	case typeHello:
		return Hello{}, nil
	case typeReconnect:
		return Reconnect{SessionID: env.SessionID}, nil
	case typeChoice:
		if env.MovementIndex == nil {
			return nil, errors.Wrap(game.ErrProtocolDecode, "choice without movement_index")
		}
		return Choice{MovementIndex: *env.MovementIndex}, nil
	default:
		return nil, errors.Wrapf(game.ErrProtocolDecode, "unexpected message type %q", env.Type)
	}
}

func encodeResult(r GameResult) *resultEnvelope {
	env := &resultEnvelope{TotalTurns: r.TotalTurns, Scores: r.Scores}
	if r.Winner == game.NoSeat {
		env.Type = resultMaxTurns
	} else {
		env.Type = resultFinished
		w := int(r.Winner)
		env.Winner = &w
	}
	return env
}

func decodeResult(env resultEnvelope) (GameResult, error) {
	switch env.Type {
	case resultFinished:
		seat, err := decodeSeat(env.Winner)
		if err != nil {
			return GameResult{}, err
		}
		return GameResult{Winner: seat, TotalTurns: env.TotalTurns, Scores: env.Scores}, nil
	case resultMaxTurns:
		return GameResult{Winner: game.NoSeat, TotalTurns: env.TotalTurns, Scores: env.Scores}, nil
	default:
		return GameResult{}, errors.Wrapf(game.ErrProtocolDecode, "unexpected result type %q", env.Type)
	}
}

func decodeSeat(p *int) (game.Seat, error) {
	if p == nil {
		return game.NoSeat, errors.Wrap(game.ErrProtocolDecode, "missing player")
	}
	if *p < 0 || *p >= game.NumCorners {
		return game.NoSeat, errors.Wrapf(game.ErrProtocolDecode, "player %d out of range", *p)
	}
	return game.Seat(*p), nil
}
