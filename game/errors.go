package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCell reports a coordinate outside the board geometry. It is
	// a contract violation by the caller and is never recovered internally.
	ErrInvalidCell = errors.New("invalid cell")

	// ErrIllegalMove reports a move outside the current legal set. Callers
	// should discard the move and re-query LegalMoves.
	ErrIllegalMove = errors.New("illegal move")

	// ErrProtocolDecode reports malformed wire data. The message is
	// discarded and engine state is untouched.
	ErrProtocolDecode = errors.New("protocol decode error")

	// ErrUnsupportedPlayerCount reports a Setup player count the fixed
	// geometry defines no seat layout for.
	ErrUnsupportedPlayerCount = errors.New("unsupported player count")
)

func errInvalidCoord(co Coord) error {
	return fmt.Errorf("%w: (%d,%d)", ErrInvalidCell, co.Row, co.Col)
}
