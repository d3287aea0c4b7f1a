// Package metrics defines the per-game and per-move records produced by
// engine runs and writes them out as CSV for offline analysis.
package metrics

import (
	"time"

	"sternhalma/game"
	"sternhalma/searcher"
)

// GameRecord summarizes one finished game.
type GameRecord struct {
	ID         int
	Players    int
	Winner     game.Seat // NoSeat when drawn
	Drawn      bool
	TotalMoves int
	StartTime  time.Time
	Duration   time.Duration
}

// MoveRecord captures one applied move: who played, how far the mover still
// is from its goal afterwards, and the search effort spent if the seat is
// backed by a searcher.
type MoveRecord struct {
	Game     int // GameRecord.ID
	Step     int
	Seat     game.Seat
	Progress int // Mover's summed hex distance to goal after the move
	searcher.SearchMetrics
}
