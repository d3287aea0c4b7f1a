package game

// LegalMoves enumerates every legal move for seat s on board b: all single
// steps to adjacent empty cells, and all jump chains. Every prefix of a
// longer chain is emitted as its own move, since stopping early is always a
// player option. A seat with no pieces on the board yields an empty set.
func LegalMoves(b *Board, s Seat, cfg Config) []Move {
	var moves []Move
	gen := generator{board: b, cfg: cfg, seat: s}
	for c := Cell(0); c < NumCells; c++ {
		if b.cells[c] != s {
			continue
		}
		moves = gen.stepsFrom(c, moves)
		moves = gen.jumpsFrom(c, moves)
	}
	return moves
}

type generator struct {
	board *Board
	cfg   Config
	seat  Seat

	// visited marks the source and every landing cell of the chain under
	// construction; a marked cell cannot be landed on again.
	visited [NumCells]bool
	path    []Cell
}

func (g *generator) stepsFrom(from Cell, moves []Move) []Move {
	for _, n := range neighbors[from] {
		if n == noCell || g.board.cells[n] != NoSeat {
			continue
		}
		if !g.allowed(from, n) {
			continue
		}
		moves = append(moves, Move{Kind: StepMove, From: from, Path: []Cell{n}})
	}
	return moves
}

func (g *generator) jumpsFrom(from Cell, moves []Move) []Move {
	g.visited[from] = true
	g.path = g.path[:0]
	moves = g.extend(from, from, moves)
	g.visited[from] = false
	return moves
}

// extend depth-first searches jump hops from cur, emitting a move for every
// landing reached.
func (g *generator) extend(from, cur Cell, moves []Move) []Move {
	for d := 0; d < NumDirections; d++ {
		over := neighbors[cur][d]
		if over == noCell || g.board.cells[over] == NoSeat {
			continue
		}
		land := neighbors[over][d]
		if land == noCell || g.board.cells[land] != NoSeat || g.visited[land] {
			continue
		}

		g.visited[land] = true
		g.path = append(g.path, land)

		if g.allowed(from, land) {
			chain := make([]Cell, len(g.path))
			copy(chain, g.path)
			moves = append(moves, Move{Kind: JumpMove, From: from, Path: chain})
		}
		moves = g.extend(from, land, moves)

		g.path = g.path[:len(g.path)-1]
		g.visited[land] = false
	}
	return moves
}

// allowed applies the goal-retreat house rule: when retreating is
// disallowed, a piece inside its goal region may not end a move outside it.
func (g *generator) allowed(from, to Cell) bool {
	if g.cfg.AllowGoalRetreat {
		return true
	}
	goal := int8(g.cfg.goalCorner(g.seat))
	return cornerOf[from] != goal || cornerOf[to] == goal
}
