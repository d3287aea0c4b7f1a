// Package engine drives games to completion: it owns the authoritative state
// machine, asks each seat's agent for a move in turn, and emits the records
// experiments are built on.
package engine

import (
	"sternhalma/experiments/metrics"
	"sternhalma/game"
)

// Engine runs one game until a seat wins or the move cap draws it.
type Engine interface {
	Run() (game.Outcome, []metrics.MoveRecord, error)
}
