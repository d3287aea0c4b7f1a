package game

import (
	"fmt"
	"strings"
)

// Seat identifies a player by turn-order index 0..N-1.
type Seat int8

// NoSeat marks the absence of a player (empty cell, no winner yet).
const NoSeat Seat = -1

// Board maps every valid cell to its occupant. The zero value is not usable;
// construct with NewBoard. Occupants are mutated only by the game state
// machine during setup and validated move application.
type Board struct {
	cells [NumCells]Seat
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	b := &Board{}
	for i := range b.cells {
		b.cells[i] = NoSeat
	}
	return b
}

// At returns the occupant of c, or NoSeat when the cell is empty. Every
// valid cell has a defined occupant.
func (b *Board) At(c Cell) Seat {
	return b.cells[c]
}

// Clone returns a deep copy sharing no memory with b, for callers exploring
// hypothetical futures.
func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

// Equal reports whether two boards hold identical occupants.
func (b *Board) Equal(other *Board) bool {
	return b.cells == other.cells
}

func (b *Board) place(c Cell, s Seat) {
	b.cells[c] = s
}

func (b *Board) clear(c Cell) {
	b.cells[c] = NoSeat
}

// Occupants returns the occupant of every cell in stable cell order, the
// board snapshot format carried on the wire.
func (b *Board) Occupants() []Seat {
	occ := make([]Seat, NumCells)
	copy(occ, b.cells[:])
	return occ
}

// BoardFromOccupants rebuilds a board from a snapshot in stable cell order.
// A wrong length or an out-of-range occupant fails with ErrProtocolDecode.
func BoardFromOccupants(occ []Seat) (*Board, error) {
	if len(occ) != NumCells {
		return nil, fmt.Errorf("%w: snapshot has %d cells", ErrProtocolDecode, len(occ))
	}
	b := &Board{}
	for i, s := range occ {
		if s < NoSeat || int(s) >= NumCorners {
			return nil, fmt.Errorf("%w: occupant %d at cell %d", ErrProtocolDecode, s, i)
		}
		b.cells[i] = s
	}
	return b, nil
}

// applyMove relocates the piece at the move source to its final landing
// cell. Legality is the caller's responsibility.
func (b *Board) applyMove(m Move) {
	s := b.cells[m.From]
	b.cells[m.From] = NoSeat
	b.cells[m.To()] = s
}

// count returns the number of pieces seat s has on the board.
func (b *Board) count(s Seat) int {
	n := 0
	for _, occ := range b.cells {
		if occ == s {
			n++
		}
	}
	return n
}

// fillCorner places one of s's pieces on every cell of corner k.
func (b *Board) fillCorner(k int, s Seat) {
	for _, c := range corners[k] {
		b.cells[c] = s
	}
}

// holdsCorner reports whether every cell of corner k is occupied by s.
func (b *Board) holdsCorner(k int, s Seat) bool {
	for _, c := range corners[k] {
		if b.cells[c] != s {
			return false
		}
	}
	return true
}

// String renders the board in the usual staggered layout, one rune per cell.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < GridSize; r++ {
		sb.WriteString(strings.Repeat(" ", r))
		for c := 0; c < GridSize; c++ {
			idx := cellIndex[r][c]
			switch {
			case idx == noCell:
				sb.WriteString("  ")
			case b.cells[idx] == NoSeat:
				sb.WriteString(". ")
			default:
				sb.WriteByte('0' + byte(b.cells[idx]))
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
