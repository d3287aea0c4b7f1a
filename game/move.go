package game

import (
	"fmt"
	"strings"
)

// MoveKind tags the two move variants.
type MoveKind uint8

const (
	// StepMove relocates a piece to an adjacent empty cell.
	StepMove MoveKind = iota
	// JumpMove chains one or more hops over adjacent occupied cells.
	JumpMove
)

// Move relocates one piece. For a StepMove, Path holds the single adjacent
// destination. For a JumpMove, Path holds every landing cell of the chain in
// order; landing cells are pairwise distinct and distinct from From.
type Move struct {
	Kind MoveKind
	From Cell
	Path []Cell
}

// To returns the final landing cell.
func (m Move) To() Cell {
	return m.Path[len(m.Path)-1]
}

// Equal reports whether two moves are identical, including the full chain.
func (m Move) Equal(other Move) bool {
	if m.Kind != other.Kind || m.From != other.From || len(m.Path) != len(other.Path) {
		return false
	}
	for i, c := range m.Path {
		if other.Path[i] != c {
			return false
		}
	}
	return true
}

// Index maps the move to a stable position in the from-to move space used by
// the policy head: from*NumCells + to. Chains with the same endpoints share
// an index.
func (m Move) Index() int {
	return int(m.From)*NumCells + int(m.To())
}

func (m Move) String() string {
	var sb strings.Builder
	kind := "step"
	if m.Kind == JumpMove {
		kind = "jump"
	}
	from := CoordOf(m.From)
	fmt.Fprintf(&sb, "%s (%d,%d)", kind, from.Row, from.Col)
	for _, c := range m.Path {
		co := CoordOf(c)
		fmt.Fprintf(&sb, "->(%d,%d)", co.Row, co.Col)
	}
	return sb.String()
}
