package communication

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"sternhalma/game"
)

func mustCell(t *testing.T, row, col int) game.Cell {
	t.Helper()
	c, err := game.CellAt(game.Coord{Row: row, Col: col})
	require.NoError(t, err)
	return c
}

func stepMove(t *testing.T) game.Move {
	t.Helper()
	return game.Move{
		Kind: game.StepMove,
		From: mustCell(t, 8, 8),
		Path: []game.Cell{mustCell(t, 8, 9)},
	}
}

func jumpMove(t *testing.T) game.Move {
	t.Helper()
	return game.Move{
		Kind: game.JumpMove,
		From: mustCell(t, 8, 4),
		Path: []game.Cell{mustCell(t, 8, 6), mustCell(t, 8, 8)},
	}
}

func roundTripServer(t *testing.T, msg ServerMessage) ServerMessage {
	t.Helper()
	payload, err := EncodeServer(msg)
	require.NoError(t, err)
	decoded, err := DecodeServer(payload)
	require.NoError(t, err)
	return decoded
}

func TestServerMessageRoundTrip(t *testing.T) {
	t.Run("assign", func(t *testing.T) {
		decoded := roundTripServer(t, Assign{Player: 2})
		require.Equal(t, Assign{Player: 2}, decoded)
	})

	t.Run("welcome without board", func(t *testing.T) {
		decoded := roundTripServer(t, Welcome{SessionID: "abc123"})
		require.Equal(t, Welcome{SessionID: "abc123"}, decoded)
	})

	t.Run("welcome with board snapshot", func(t *testing.T) {
		state, err := game.NewGameState(game.DefaultConfig())
		require.NoError(t, err)

		decoded := roundTripServer(t, Welcome{SessionID: "abc123", Board: state.Board})

		welcome := decoded.(Welcome)
		require.True(t, state.Board.Equal(welcome.Board), "snapshot survives the wire")
	})

	t.Run("reject and disconnect", func(t *testing.T) {
		require.Equal(t, Reject{Reason: "full"}, roundTripServer(t, Reject{Reason: "full"}))
		require.Equal(t, Disconnect{}, roundTripServer(t, Disconnect{}))
	})

	t.Run("turn preserves move order and chains", func(t *testing.T) {
		msg := Turn{Movements: []game.Move{stepMove(t), jumpMove(t)}}

		decoded := roundTripServer(t, msg).(Turn)

		require.Len(t, decoded.Movements, 2)
		require.True(t, decoded.Movements[0].Equal(stepMove(t)))
		require.True(t, decoded.Movements[1].Equal(jumpMove(t)))
		require.Equal(t, game.StepMove, decoded.Movements[0].Kind)
		require.Equal(t, game.JumpMove, decoded.Movements[1].Kind)
	})

	t.Run("movement", func(t *testing.T) {
		msg := Movement{Player: 1, Move: jumpMove(t), Scores: []int{3, 7}}

		decoded := roundTripServer(t, msg).(Movement)

		require.Equal(t, msg.Player, decoded.Player)
		require.True(t, msg.Move.Equal(decoded.Move))
		require.Equal(t, msg.Scores, decoded.Scores)
	})

	t.Run("finished result", func(t *testing.T) {
		msg := GameFinished{Result: GameResult{Winner: 1, TotalTurns: 88, Scores: []int{10, 30}}}
		require.Equal(t, msg, roundTripServer(t, msg))
	})

	t.Run("max turns result", func(t *testing.T) {
		msg := GameFinished{Result: GameResult{Winner: game.NoSeat, TotalTurns: 400, Scores: []int{12, 9}}}
		require.Equal(t, msg, roundTripServer(t, msg))
	})
}

func TestClientMessageRoundTrip(t *testing.T) {
	for _, msg := range []ClientMessage{
		Hello{},
		Reconnect{SessionID: "abc123"},
		Choice{MovementIndex: 4},
		Choice{MovementIndex: 0},
	} {
		payload, err := EncodeClient(msg)
		require.NoError(t, err)
		decoded, err := DecodeClient(payload)
		require.NoError(t, err)
		require.Equal(t, msg, decoded)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	encode := func(t *testing.T, v any) []byte {
		t.Helper()
		payload, err := cbor.Marshal(v)
		require.NoError(t, err)
		return payload
	}

	t.Run("unknown server type", func(t *testing.T) {
		payload := encode(t, map[string]any{"type": "mystery"})
		_, err := DecodeServer(payload)
		require.ErrorIs(t, err, game.ErrProtocolDecode)
	})

	t.Run("assign without player", func(t *testing.T) {
		payload := encode(t, map[string]any{"type": "assign"})
		_, err := DecodeServer(payload)
		require.ErrorIs(t, err, game.ErrProtocolDecode)
	})

	t.Run("assign with out of range player", func(t *testing.T) {
		payload := encode(t, map[string]any{"type": "assign", "player": 9})
		_, err := DecodeServer(payload)
		require.ErrorIs(t, err, game.ErrProtocolDecode)
	})

	t.Run("movement through an off board cell", func(t *testing.T) {
		payload := encode(t, map[string]any{
			"type":     "movement",
			"player":   0,
			"movement": [][2]int{{8, 8}, {0, 0}},
		})
		_, err := DecodeServer(payload)
		require.ErrorIs(t, err, game.ErrProtocolDecode)
	})

	t.Run("movement with a single cell", func(t *testing.T) {
		payload := encode(t, map[string]any{
			"type":     "movement",
			"player":   0,
			"movement": [][2]int{{8, 8}},
		})
		_, err := DecodeServer(payload)
		require.ErrorIs(t, err, game.ErrProtocolDecode)
	})

	t.Run("board snapshot with bad occupant", func(t *testing.T) {
		board := make([]int, game.NumCells)
		board[60] = 6
		payload := encode(t, map[string]any{"type": "welcome", "session_id": "x", "board": board})
		_, err := DecodeServer(payload)
		require.ErrorIs(t, err, game.ErrProtocolDecode)
	})

	t.Run("board snapshot with wrong length", func(t *testing.T) {
		payload := encode(t, map[string]any{"type": "welcome", "session_id": "x", "board": []int{0, 1}})
		_, err := DecodeServer(payload)
		require.ErrorIs(t, err, game.ErrProtocolDecode)
	})

	t.Run("finished result without winner", func(t *testing.T) {
		payload := encode(t, map[string]any{
			"type":   "game_finished",
			"result": map[string]any{"type": "finished", "total_turns": 10},
		})
		_, err := DecodeServer(payload)
		require.ErrorIs(t, err, game.ErrProtocolDecode)
	})

	t.Run("choice without index", func(t *testing.T) {
		payload := encode(t, map[string]any{"type": "choice"})
		_, err := DecodeClient(payload)
		require.ErrorIs(t, err, game.ErrProtocolDecode)
	})

	t.Run("not cbor at all", func(t *testing.T) {
		_, err := DecodeServer([]byte("definitely not cbor"))
		require.ErrorIs(t, err, game.ErrProtocolDecode)
	})
}

func TestMoveWireFormat(t *testing.T) {
	// Interoperability detail: a chain serializes as the origin followed by
	// every landing, each as a [row, col] pair.
	pairs := encodeMove(jumpMove(t))
	require.Equal(t, [][2]int{{8, 4}, {8, 6}, {8, 8}}, pairs)

	move, err := decodeMove(pairs)
	require.NoError(t, err)
	require.True(t, move.Equal(jumpMove(t)))
	require.Equal(t, game.JumpMove, move.Kind, "distance two hops decode as jumps")
}
