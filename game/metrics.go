package game

import "math"

// maxTipDistance is the hex distance between opposite corner tips, the
// largest distance a piece can be from its goal.
const maxTipDistance = 16

// Progress sums each of the seat's pieces' hex distance to its goal tip.
// Smaller is better; zero means every piece sits on the goal tip cell's
// corner spread, which only the finished triangle approaches.
func Progress(b *Board, s Seat, cfg Config) int {
	tip := cornerTip[cfg.goalCorner(s)]
	total := 0
	for c := Cell(0); c < NumCells; c++ {
		if b.cells[c] == s {
			total += HexDistance(c, tip)
		}
	}
	return total
}

// EuclideanProgress is Progress under the Euclidean metric of the hex
// embedding, useful as a smoother heuristic signal.
func EuclideanProgress(b *Board, s Seat, cfg Config) float64 {
	tip := cellCoord[cornerTip[cfg.goalCorner(s)]]
	total := 0.0
	for c := Cell(0); c < NumCells; c++ {
		if b.cells[c] == s {
			co := cellCoord[c]
			dr := float64(tip.Row - co.Row)
			dc := float64(tip.Col - co.Col)
			total += math.Sqrt((dr+dc)*(dr+dc) - dr*dc)
		}
	}
	return total
}

// EvaluateProgress scores a state between -1 and 1 from the current
// player's perspective by comparing goal advancement against the average of
// the opponents'.
func EvaluateProgress(s State) float64 {
	gs, ok := s.(*GameState)
	if !ok {
		panic("unexpected state type")
	}

	cfg := gs.Config
	self := advancement(gs.Board, gs.Current, cfg)
	others := 0.0
	for p := Seat(0); int(p) < cfg.Players; p++ {
		if p != gs.Current {
			others += advancement(gs.Board, p, cfg)
		}
	}
	others /= float64(cfg.Players - 1)

	return normalize(self, others)
}

// advancement converts Progress into an increasing per-seat score.
func advancement(b *Board, s Seat, cfg Config) float64 {
	pieces := b.count(s)
	if pieces == 0 {
		return 0
	}
	return float64(pieces*maxTipDistance - Progress(b, s, cfg))
}

// normalize maps two non-negative scores to their relative difference in
// [-1, 1].
func normalize(value, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
