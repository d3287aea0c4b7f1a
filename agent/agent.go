// Package agent provides move-selection strategies, from trivial baselines to
// full tree search, behind a single interface the engine and the remote client
// both drive.
package agent

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"sternhalma/game"
	"sternhalma/searcher"
)

// ErrNoMoves reports that the agent was asked to move in a position with no
// legal moves, which only happens on a terminal state.
var ErrNoMoves = errors.New("no legal moves available")

// Agent picks a move for one seat given a snapshot of the game.
type Agent interface {
	Seat() game.Seat
	FindMove(state game.State) (game.Move, error)
}

// Constant always plays the first legal move. It is a deterministic baseline
// opponent for tests and experiments.
type Constant struct {
	seat game.Seat
}

func NewConstant(seat game.Seat) *Constant {
	return &Constant{seat: seat}
}

func (a *Constant) Seat() game.Seat {
	return a.seat
}

func (a *Constant) FindMove(state game.State) (game.Move, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, ErrNoMoves
	}
	return moves[0], nil
}

// Brownian plays uniformly random legal moves.
type Brownian struct {
	seat game.Seat
	rng  *rand.Rand
}

func NewBrownian(seat game.Seat, seed uint64) *Brownian {
	return &Brownian{seat: seat, rng: rand.New(rand.NewSource(seed))}
}

func (a *Brownian) Seat() game.Seat {
	return a.seat
}

func (a *Brownian) FindMove(state game.State) (game.Move, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, ErrNoMoves
	}
	return moves[a.rng.Intn(len(moves))], nil
}

// aheadExplore is the share of turns an Ahead agent moves randomly instead of
// greedily, to keep it from wedging pieces behind each other.
const aheadExplore = 0.5

// Ahead greedily advances the piece that gets closest to the goal tip,
// skipping pieces that already sit in the goal corner, and explores randomly
// on the remaining turns.
type Ahead struct {
	seat    game.Seat
	goal    int
	goalTip game.Cell
	rng     *rand.Rand
}

func NewAhead(seat game.Seat, cfg game.Config, seed uint64) *Ahead {
	goal := cfg.GoalCorner(seat)
	return &Ahead{
		seat:    seat,
		goal:    goal,
		goalTip: game.CornerTip(goal),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (a *Ahead) Seat() game.Seat {
	return a.seat
}

func (a *Ahead) FindMove(state game.State) (game.Move, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, ErrNoMoves
	}
	if a.rng.Float64() < aheadExplore {
		return moves[a.rng.Intn(len(moves))], nil
	}

	best := -1
	bestDistance := 0
	for i, m := range moves {
		if game.CornerOf(m.From) == a.goal { // Leave settled pieces alone
			continue
		}
		d := game.HexDistance(m.To(), a.goalTip)
		if best == -1 || d < bestDistance {
			best = i
			bestDistance = d
		}
	}
	if best == -1 { // Every piece is already home
		return moves[a.rng.Intn(len(moves))], nil
	}
	return moves[best], nil
}

// Search backs move selection with Monte Carlo tree search.
type Search struct {
	seat game.Seat
	mcts *searcher.MCTS
}

func NewSearch(seat game.Seat, mcts *searcher.MCTS) *Search {
	return &Search{seat: seat, mcts: mcts}
}

func (a *Search) Seat() game.Seat {
	return a.seat
}

func (a *Search) FindMove(state game.State) (game.Move, error) {
	if len(state.LegalMoves()) == 0 {
		return game.Move{}, ErrNoMoves
	}
	return a.mcts.FindMove(state), nil
}
