package communication

import (
	"github.com/pkg/errors"

	"sternhalma/game"
)

// Moves travel as [row, col] pairs: the origin cell followed by every landing
// cell of the chain. Boards travel as the occupant of every cell in stable
// cell order, empty cells as -1.

func encodeMove(m game.Move) [][2]int {
	pairs := make([][2]int, 0, len(m.Path)+1)
	co := game.CoordOf(m.From)
	pairs = append(pairs, [2]int{co.Row, co.Col})
	for _, c := range m.Path {
		co = game.CoordOf(c)
		pairs = append(pairs, [2]int{co.Row, co.Col})
	}
	return pairs
}

func decodeMove(pairs [][2]int) (game.Move, error) {
	if len(pairs) < 2 {
		return game.Move{}, errors.Wrapf(game.ErrProtocolDecode, "movement with %d cells", len(pairs))
	}

	cells := make([]game.Cell, len(pairs))
	for i, p := range pairs {
		c, err := game.CellAt(game.Coord{Row: p[0], Col: p[1]})
		if err != nil {
			return game.Move{}, errors.Wrapf(game.ErrProtocolDecode, "movement cell (%d,%d)", p[0], p[1])
		}
		cells[i] = c
	}

	kind := game.JumpMove
	if len(cells) == 2 && game.HexDistance(cells[0], cells[1]) == 1 {
		kind = game.StepMove
	}
	return game.Move{Kind: kind, From: cells[0], Path: cells[1:]}, nil
}

func encodeBoard(b *game.Board) []int {
	occ := b.Occupants()
	out := make([]int, len(occ))
	for i, s := range occ {
		out[i] = int(s)
	}
	return out
}

func decodeBoard(values []int) (*game.Board, error) {
	occ := make([]game.Seat, len(values))
	for i, v := range values {
		if v < -1 || v >= game.NumCorners {
			return nil, errors.Wrapf(game.ErrProtocolDecode, "occupant %d at cell %d", v, i)
		}
		occ[i] = game.Seat(v)
	}
	return game.BoardFromOccupants(occ)
}
