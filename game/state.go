package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// StateHash identifies a game state for search caches.
type StateHash uint64

// State is the read-only contract a lookahead search needs: legality,
// application on snapshots, and terminality. Implementations are immutable
// from the caller's point of view; Play always returns a new snapshot.
type State interface {
	Player() Seat
	LegalMoves() []Move
	Play(Move) State
	Hash() StateHash
	Winner() Seat
	Terminal() bool
}

// Evaluate scores a state between -1 and 1 from the current player's
// perspective, positive when the position favors a win.
type Evaluate func(State) float64

// GameState is a snapshot of a game in progress: board occupants, the seat
// to move, and the move count. It implements State.
type GameState struct {
	Board     *Board
	Config    Config
	Current   Seat
	MoveCount int

	winner Seat
	drawn  bool
}

// NewGameState places each seat's pieces in its home corner per the
// configured player count and gives the first seat the move.
func NewGameState(cfg Config) (*GameState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := NewBoard()
	for s := Seat(0); int(s) < cfg.Players; s++ {
		b.fillCorner(cfg.homeCorner(s), s)
	}
	return &GameState{
		Board:  b,
		Config: cfg,
		winner: NoSeat,
	}, nil
}

// Player returns the seat to move.
func (gs *GameState) Player() Seat {
	return gs.Current
}

// LegalMoves enumerates the legal moves of the seat to move. Empty on a
// terminal state.
func (gs *GameState) LegalMoves() []Move {
	if gs.Terminal() {
		return nil
	}
	return LegalMoves(gs.Board, gs.Current, gs.Config)
}

// Play applies a move to a clone of the state and returns the clone with
// the turn advanced and terminality re-evaluated. The move is trusted to be
// legal; search callers obtain moves from LegalMoves.
func (gs *GameState) Play(m Move) State {
	next := gs.clone()
	next.apply(m)
	return next
}

func (gs *GameState) clone() *GameState {
	cp := *gs
	cp.Board = gs.Board.Clone()
	return &cp
}

// apply mutates the snapshot in place. Only clone owners call it.
func (gs *GameState) apply(m Move) {
	mover := gs.Current
	gs.Board.applyMove(m)
	gs.MoveCount++

	if gs.Board.holdsCorner(gs.Config.goalCorner(mover), mover) {
		gs.winner = mover
		return
	}
	if gs.MoveCount >= gs.Config.MaxMoves {
		gs.drawn = true
		return
	}
	gs.Current = Seat((int(gs.Current) + 1) % gs.Config.Players)
}

// Winner returns the winning seat, or NoSeat while the game is undecided or
// drawn.
func (gs *GameState) Winner() Seat {
	return gs.winner
}

// Drawn reports whether the game ended by the max-move cap.
func (gs *GameState) Drawn() bool {
	return gs.drawn
}

// Terminal reports whether the game has ended.
func (gs *GameState) Terminal() bool {
	return gs.winner != NoSeat || gs.drawn
}

// Hash folds the occupants and the seat to move into a 64-bit identity.
func (gs *GameState) Hash() StateHash {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(gs.Current)))
	h.Write(buf[:])
	for _, occ := range gs.Board.cells {
		h.Write([]byte{byte(occ)})
	}
	return StateHash(h.Sum64())
}

// Phase names a stage of the game lifecycle.
type Phase int

const (
	SetupPhase Phase = iota
	InProgressPhase
	TerminalPhase
)

// RecordEntry is one applied move and the seat that played it.
type RecordEntry struct {
	Seat Seat
	Move Move
}

// Outcome is the terminal result of a game.
type Outcome struct {
	Winner     Seat // NoSeat when drawn
	Drawn      bool
	TotalMoves int
}

// Game is the authoritative state machine: it owns the board, validates
// every applied move, keeps the game record, and detects terminality. One
// Game instance is single-threaded; independent games share nothing.
type Game struct {
	state  *GameState
	phase  Phase
	record []RecordEntry
}

// NewGame runs Setup for the given config and returns a game in progress.
// Unsupported player counts fail with ErrUnsupportedPlayerCount and no game
// is created.
func NewGame(cfg Config) (*Game, error) {
	gs, err := NewGameState(cfg)
	if err != nil {
		return nil, err
	}
	return &Game{state: gs, phase: InProgressPhase}, nil
}

// State returns a snapshot of the current state. Mutating the snapshot
// never affects the game.
func (g *Game) State() *GameState {
	return g.state.clone()
}

// Phase returns the lifecycle stage.
func (g *Game) Phase() Phase {
	return g.phase
}

// Record returns the moves applied so far, in order.
func (g *Game) Record() []RecordEntry {
	return g.record
}

// Outcome returns the terminal result; ok is false while the game is in
// progress.
func (g *Game) Outcome() (Outcome, bool) {
	if g.phase != TerminalPhase {
		return Outcome{}, false
	}
	return Outcome{
		Winner:     g.state.winner,
		Drawn:      g.state.drawn,
		TotalMoves: g.state.MoveCount,
	}, true
}

// ApplyMove validates m against the current legal set, applies it, appends
// it to the record, advances the turn, and re-evaluates terminality. An
// illegal move fails with ErrIllegalMove and leaves the game unmodified.
func (g *Game) ApplyMove(m Move) error {
	if g.phase != InProgressPhase {
		return fmt.Errorf("%w: game is not in progress", ErrIllegalMove)
	}
	legal := false
	for _, lm := range g.state.LegalMoves() {
		if lm.Equal(m) {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	mover := g.state.Current
	g.state.apply(m)
	g.record = append(g.record, RecordEntry{Seat: mover, Move: m})
	if g.state.Terminal() {
		g.phase = TerminalPhase
	}
	return nil
}
