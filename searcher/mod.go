package searcher

import (
	"math"

	"sternhalma/game"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const (
	Win  = 1.0 // Reward for a winning outcome
	Draw = 0.5 // Reward shared by every seat on a drawn outcome
	Loss = 0.0 // Reward for a losing outcome, also the virtual loss
)

// MaxCutoff effectively disables the rollout depth cutoff.
const MaxCutoff = math.MaxInt32

// Node is one node of the search tree. All methods are safe for concurrent
// use; tree parallelization relies on the virtual loss applied during
// selection.
type Node interface {
	SelectOrExpand(state game.State) (child Node, childState game.State, selected bool)
	Backup(scored game.Seat, score float64) Node
	Visits() int
}

func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	if visits == 0 { // Prioritize unexplored nodes
		return math.Inf(1)
	}
	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}

// rewardFor converts a rollout result into a reward from one seat's
// perspective. scored == NoSeat means the rollout ended drawn.
func rewardFor(seat, scored game.Seat, score float64) float64 {
	if scored == game.NoSeat {
		return Draw
	}
	if seat == scored {
		return score
	}
	return Win - score
}
