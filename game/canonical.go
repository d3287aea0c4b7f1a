package game

// The star admits exactly 12 automorphisms: the six rotations about its
// center and their compositions with the reflection across the corner-0 axis.
// They are precomputed as index permutations; selecting a canonical frame is
// a table lookup plus one deterministic tie-break comparison.

const numAutomorphisms = 12

var (
	// autoPerm[a][c] is the image of cell c under automorphism a.
	// a in 0..5 is rotation by a*60 degrees; a in 6..11 is that rotation
	// followed by the reflection.
	autoPerm [numAutomorphisms][NumCells]Cell
	autoInv  [numAutomorphisms][NumCells]Cell
)

func buildAutomorphisms() {
	for a := 0; a < numAutomorphisms; a++ {
		for c := Cell(0); c < NumCells; c++ {
			co := cellCoord[c]
			for i := 0; i < a%NumCorners; i++ {
				co = rotate60(co)
			}
			if a >= NumCorners {
				co = reflect(co)
			}
			img := cellIndex[co.Row][co.Col]
			if img == noCell {
				panic("automorphism image off board")
			}
			autoPerm[a][c] = img
			autoInv[a][img] = c
		}
	}
}

// Frame is a symmetry transform selected for one mover: an automorphism
// plus the seat relabeling. It carries enough to map moves both ways and is
// never stored as engine state.
type Frame struct {
	auto    int
	mover   Seat
	players int
}

// CanonicalBoard is a player-agnostic view of a board: the mover's home
// corner is mapped to corner 0 and occupants are relabeled relative to the
// mover (0 = self, 1..N-1 = opponents in turn order).
type CanonicalBoard struct {
	board Board
	cfg   Config
}

// ToCanonical maps the board to the reference orientation for the given
// mover. Of the two automorphisms taking the mover's home corner to corner
// 0, the one producing the lexicographically smaller occupant sequence is
// chosen, so identical inputs always yield the identical frame.
func ToCanonical(b *Board, mover Seat, cfg Config) (*CanonicalBoard, Frame) {
	home := cfg.homeCorner(mover)
	rot := (NumCorners - home) % NumCorners
	candidates := [2]int{rot, NumCorners + rot}

	var boards [2][NumCells]Seat
	for i, a := range candidates {
		for c := Cell(0); c < NumCells; c++ {
			occ := b.cells[c]
			if occ != NoSeat {
				occ = relativeSeat(occ, mover, cfg.Players)
			}
			boards[i][autoPerm[a][c]] = occ
		}
	}

	pick := 0
	if lessOccupants(boards[1], boards[0]) {
		pick = 1
	}

	cb := &CanonicalBoard{cfg: cfg}
	cb.board.cells = boards[pick]
	return cb, Frame{auto: candidates[pick], mover: mover, players: cfg.Players}
}

// FromCanonical maps a move chosen in canonical space back to true board
// coordinates. The automorphism preserves adjacency, so the mapped move is
// legal on the true board exactly when the input is legal on the canonical
// one.
func FromCanonical(m Move, f Frame) Move {
	return permuteMove(m, &autoInv[f.auto])
}

// ToCanonicalMove maps a true-coordinate move into the frame.
func (f Frame) ToCanonicalMove(m Move) Move {
	return permuteMove(m, &autoPerm[f.auto])
}

func permuteMove(m Move, perm *[NumCells]Cell) Move {
	path := make([]Cell, len(m.Path))
	for i, c := range m.Path {
		path[i] = perm[c]
	}
	return Move{Kind: m.Kind, From: perm[m.From], Path: path}
}

// relativeSeat relabels an absolute seat as its turn-order offset from the
// mover.
func relativeSeat(s, mover Seat, players int) Seat {
	return Seat((int(s) - int(mover) + players) % players)
}

// AbsoluteSeat undoes the frame's relabeling.
func (f Frame) AbsoluteSeat(rel Seat) Seat {
	if rel == NoSeat {
		return NoSeat
	}
	return Seat((int(rel) + int(f.mover)) % f.players)
}

func lessOccupants(a, b [NumCells]Seat) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// At returns the relative occupant of c: NoSeat, 0 for the mover, or the
// opponent offset.
func (cb *CanonicalBoard) At(c Cell) Seat {
	return cb.board.cells[c]
}

// Board returns a copy of the underlying relabeled board.
func (cb *CanonicalBoard) Board() *Board {
	return cb.board.Clone()
}

// LegalMoves enumerates the mover's legal moves in canonical coordinates.
// In the canonical frame the mover is relative seat 0 with home corner 0.
func (cb *CanonicalBoard) LegalMoves() []Move {
	return LegalMoves(&cb.board, 0, cb.cfg)
}

// Planes encodes the view for the estimator: one GridSize x GridSize plane
// per relative seat in relabeling order, then a validity plane marking the
// star cells. Cells are visited in the stable enumeration order, so the
// same logical state always produces the same tensor.
func (cb *CanonicalBoard) Planes() [][]float32 {
	planes := make([][]float32, cb.cfg.Players+1)
	for i := range planes {
		planes[i] = make([]float32, GridSize*GridSize)
	}
	validity := planes[cb.cfg.Players]
	for c := Cell(0); c < NumCells; c++ {
		co := cellCoord[c]
		flat := co.Row*GridSize + co.Col
		validity[flat] = 1
		if occ := cb.board.cells[c]; occ != NoSeat {
			planes[occ][flat] = 1
		}
	}
	return planes
}
