package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sternhalma/game"
	"sternhalma/searcher"
)

func newStart(t *testing.T, maxMoves int) game.State {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.MaxMoves = maxMoves
	state, err := game.NewGameState(cfg)
	require.NoError(t, err)
	return state
}

func newDrawn(t *testing.T) game.State {
	t.Helper()
	state := newStart(t, 1)
	next := state.Play(state.LegalMoves()[0])
	require.True(t, next.Terminal())
	return next
}

func requireLegal(t *testing.T, state game.State, move game.Move) {
	t.Helper()
	for _, legal := range state.LegalMoves() {
		if legal.Equal(move) {
			return
		}
	}
	t.Fatalf("move %v is not legal", move)
}

func TestConstant(t *testing.T) {
	state := newStart(t, 100)
	a := NewConstant(0)

	move, err := a.FindMove(state)

	require.NoError(t, err)
	require.True(t, move.Equal(state.LegalMoves()[0]), "plays the first legal move")

	_, err = a.FindMove(newDrawn(t))
	require.ErrorIs(t, err, ErrNoMoves)
}

func TestBrownian(t *testing.T) {
	state := newStart(t, 100)

	t.Run("moves are legal", func(t *testing.T) {
		a := NewBrownian(0, 7)
		for i := 0; i < 50; i++ {
			move, err := a.FindMove(state)
			require.NoError(t, err)
			requireLegal(t, state, move)
		}
	})

	t.Run("same seed replays the same sequence", func(t *testing.T) {
		a := NewBrownian(0, 42)
		b := NewBrownian(0, 42)
		for i := 0; i < 20; i++ {
			am, err := a.FindMove(state)
			require.NoError(t, err)
			bm, err := b.FindMove(state)
			require.NoError(t, err)
			require.True(t, am.Equal(bm))
		}
	})

	t.Run("terminal state has no move", func(t *testing.T) {
		a := NewBrownian(0, 7)
		_, err := a.FindMove(newDrawn(t))
		require.ErrorIs(t, err, ErrNoMoves)
	})
}

func TestAhead(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.MaxMoves = 100
	state, err := game.NewGameState(cfg)
	require.NoError(t, err)
	tip := game.CornerTip(cfg.GoalCorner(0))

	t.Run("moves are legal", func(t *testing.T) {
		a := NewAhead(0, cfg, 7)
		for i := 0; i < 50; i++ {
			move, err := a.FindMove(state)
			require.NoError(t, err)
			requireLegal(t, state, move)
		}
	})

	t.Run("greedy turns pick the closest landing", func(t *testing.T) {
		minDistance := -1
		for _, m := range state.LegalMoves() {
			if d := game.HexDistance(m.To(), tip); minDistance == -1 || d < minDistance {
				minDistance = d
			}
		}

		// Half the turns are greedy, so the minimizing landing shows up
		// quickly over repeated calls from the same position.
		a := NewAhead(0, cfg, 7)
		seen := false
		for i := 0; i < 50 && !seen; i++ {
			move, err := a.FindMove(state)
			require.NoError(t, err)
			seen = game.HexDistance(move.To(), tip) == minDistance
		}
		require.True(t, seen, "greedy choice never surfaced")
	})

	t.Run("outruns a random opponent", func(t *testing.T) {
		g, err := game.NewGame(cfg)
		require.NoError(t, err)
		ahead := NewAhead(0, cfg, 11)
		brownian := NewBrownian(1, 12)
		for {
			s := g.State()
			if s.Terminal() {
				break
			}
			var move game.Move
			var err error
			if s.Player() == 0 {
				move, err = ahead.FindMove(s)
			} else {
				move, err = brownian.FindMove(s)
			}
			require.NoError(t, err)
			require.NoError(t, g.ApplyMove(move))
		}

		final := g.State()
		require.Less(t, game.Progress(final.Board, 0, cfg),
			game.Progress(final.Board, 1, cfg),
			"directed play ends closer to its goal than a random walk")
	})
}

func TestSearch(t *testing.T) {
	state := newStart(t, 60)
	mcts := searcher.NewMCTS(2, searcher.WithEpisodes(50), searcher.WithCutoff(10))
	a := NewSearch(0, mcts)

	move, err := a.FindMove(state)

	require.NoError(t, err)
	requireLegal(t, state, move)
	require.Equal(t, game.Seat(0), a.Seat())

	_, err = a.FindMove(newDrawn(t))
	require.ErrorIs(t, err, ErrNoMoves)
}
