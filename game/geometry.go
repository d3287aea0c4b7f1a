package game

// The board is a hexagram (six-pointed star) embedded in a 17x17 axial grid.
// Valid cells are addressed either by axial coordinate (row, col) or by a
// dense index 0..NumCells-1 in row-major table order. All lookup tables are
// built once at init and are read-only afterwards, so they are safe for
// unsynchronized concurrent reads.

const (
	// GridSize is the side of the axial grid enclosing the star.
	GridSize = 17
	// NumCells is the number of valid cells on the star.
	NumCells = 121
	// NumCorners is the number of triangular corner regions.
	NumCorners = 6
	// CornerSize is the number of cells in one corner region.
	CornerSize = 15
	// NumDirections is the number of hex directions out of a cell.
	NumDirections = 6
)

// Cell indexes the flat geometry tables. Valid values are 0..NumCells-1.
type Cell int8

const noCell Cell = -1

// Coord is an axial coordinate on the enclosing grid. The two axes are
// enough to address every cell; the implicit third cube axis is
// 16 - Row - Col.
type Coord struct {
	Row, Col int
}

// Direction identifies one of the six hex directions.
type Direction int8

// directions lists the axial offsets of the six hex directions. A step moves
// by one offset; a jump lands two offsets away in the same direction.
var directions = [NumDirections]Coord{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, -1}, {-1, 1},
}

// validCols gives, per row, the inclusive column span of valid cells.
var validCols = [GridSize][2]int{
	{12, 12},
	{11, 12},
	{10, 12},
	{9, 12},
	{4, 16},
	{4, 15},
	{4, 14},
	{4, 13},
	{4, 12},
	{3, 12},
	{2, 12},
	{1, 12},
	{0, 12},
	{4, 7},
	{4, 6},
	{4, 5},
	{4, 4},
}

var (
	cellCoord [NumCells]Coord
	cellIndex [GridSize][GridSize]Cell
	// neighbors[c][d] is the cell one step from c in direction d, or noCell
	// when that step leaves the board.
	neighbors [NumCells][NumDirections]Cell

	// corners[k] lists the cells of corner region k. Corner 0 is the south
	// point (tip at row 16); corner k is corner 0 rotated k*60 degrees.
	// Opposite corners are 3 apart.
	corners [NumCorners][]Cell
	// cornerOf[c] is the corner region containing c, or -1.
	cornerOf [NumCells]int8
	// cornerTip[k] is the outermost cell of corner k.
	cornerTip [NumCorners]Cell
)

func init() {
	buildCellTables()
	buildCornerTables()
	buildAutomorphisms()
}

func buildCellTables() {
	for r := range cellIndex {
		for c := range cellIndex[r] {
			cellIndex[r][c] = noCell
		}
	}

	idx := Cell(0)
	for r := 0; r < GridSize; r++ {
		for c := validCols[r][0]; c <= validCols[r][1]; c++ {
			cellCoord[idx] = Coord{r, c}
			cellIndex[r][c] = idx
			idx++
		}
	}

	for c := Cell(0); c < NumCells; c++ {
		for d, off := range directions {
			n := Coord{cellCoord[c].Row + off.Row, cellCoord[c].Col + off.Col}
			if onBoard(n) {
				neighbors[c][d] = cellIndex[n.Row][n.Col]
			} else {
				neighbors[c][d] = noCell
			}
		}
	}
}

// southCorner lists the cells of corner 0 in stable order.
var southCorner = []Coord{
	{12, 4}, {12, 5}, {12, 6}, {12, 7}, {12, 8},
	{13, 4}, {13, 5}, {13, 6}, {13, 7},
	{14, 4}, {14, 5}, {14, 6},
	{15, 4}, {15, 5},
	{16, 4},
}

func buildCornerTables() {
	for i := range cornerOf {
		cornerOf[i] = -1
	}
	for k := 0; k < NumCorners; k++ {
		corners[k] = make([]Cell, 0, CornerSize)
		for _, co := range southCorner {
			rc := co
			for i := 0; i < k; i++ {
				rc = rotate60(rc)
			}
			c := cellIndex[rc.Row][rc.Col]
			if c == noCell {
				panic("corner cell off board")
			}
			corners[k] = append(corners[k], c)
			cornerOf[c] = int8(k)
		}
	}
	tip := Coord{16, 4}
	for k := 0; k < NumCorners; k++ {
		cornerTip[k] = cellIndex[tip.Row][tip.Col]
		tip = rotate60(tip)
	}
}

func onBoard(co Coord) bool {
	if co.Row < 0 || co.Row >= GridSize || co.Col < 0 || co.Col >= GridSize {
		return false
	}
	return co.Col >= validCols[co.Row][0] && co.Col <= validCols[co.Row][1]
}

// CellAt resolves an axial coordinate to its cell index. Coordinates outside
// the star fail with ErrInvalidCell.
func CellAt(co Coord) (Cell, error) {
	if !onBoard(co) {
		return noCell, errInvalidCoord(co)
	}
	return cellIndex[co.Row][co.Col], nil
}

// CoordOf returns the axial coordinate of a cell.
func CoordOf(c Cell) Coord {
	return cellCoord[c]
}

// Neighbors appends the valid neighbor cells of c to dst and returns it.
func Neighbors(c Cell, dst []Cell) []Cell {
	for _, n := range neighbors[c] {
		if n != noCell {
			dst = append(dst, n)
		}
	}
	return dst
}

// Corner returns the cells of corner region k in stable order.
func Corner(k int) []Cell {
	return corners[k]
}

// CornerOf returns the corner region containing c, or -1 when c is on the
// central hexagon.
func CornerOf(c Cell) int {
	return int(cornerOf[c])
}

// CornerTip returns the outermost cell of corner region k.
func CornerTip(k int) Cell {
	return cornerTip[k]
}

// cube converts an axial coordinate to cube coordinates centered on the
// middle of the board. Automorphisms are linear maps in this basis.
func cube(co Coord) (x, y, z int) {
	return co.Row - 8, co.Col - 8, 16 - co.Row - co.Col
}

func axial(x, y, _ int) Coord {
	return Coord{x + 8, y + 8}
}

// rotate60 rotates a coordinate 60 degrees about the board center.
func rotate60(co Coord) Coord {
	x, y, z := cube(co)
	return axial(-z, -x, -y)
}

// reflect mirrors a coordinate across the axis through corners 0 and 3.
func reflect(co Coord) Coord {
	x, y, z := cube(co)
	return axial(x, z, y)
}

// HexDistance is the number of single steps between two cells.
func HexDistance(a, b Cell) int {
	ca, cb := cellCoord[a], cellCoord[b]
	dr := cb.Row - ca.Row
	dc := cb.Col - ca.Col
	return maxAbs3(dr, dc, dr+dc)
}

func maxAbs3(a, b, c int) int {
	m := abs(a)
	if v := abs(b); v > m {
		m = v
	}
	if v := abs(c); v > m {
		m = v
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
