package searcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sternhalma/game"
)

func startState(t *testing.T) *game.GameState {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.MaxMoves = 60
	state, err := game.NewGameState(cfg)
	require.NoError(t, err)
	return state
}

func TestNewMCTS(t *testing.T) {
	t.Run("panics without a stop condition", func(t *testing.T) {
		require.Panics(t, func() { NewMCTS(1) })
	})

	t.Run("ignores non-positive option values", func(t *testing.T) {
		m := NewMCTS(1, WithEpisodes(-5), WithDuration(time.Second))
		require.Equal(t, 0, m.episodes)
		require.Equal(t, time.Second, m.duration)
	})
}

func TestFindMove(t *testing.T) {
	t.Run("episode budget returns a legal move", func(t *testing.T) {
		state := startState(t)
		mcts := NewMCTS(4, WithEpisodes(200), WithCutoff(20))

		move := mcts.FindMove(state)

		requireLegal(t, state, move)
	})

	t.Run("duration budget returns a legal move", func(t *testing.T) {
		state := startState(t)
		mcts := NewMCTS(4, WithDuration(50*time.Millisecond), WithCutoff(20))

		move := mcts.FindMove(state)

		requireLegal(t, state, move)
	})

	t.Run("search leaves the state untouched", func(t *testing.T) {
		state := startState(t)
		before := state.Hash()
		mcts := NewMCTS(2, WithEpisodes(50), WithCutoff(10))

		mcts.FindMove(state)

		require.Equal(t, before, state.Hash())
	})
}

func TestSearchPolicy(t *testing.T) {
	state := startState(t)
	mcts := NewMCTS(2, WithEpisodes(100), WithCutoff(10))

	move, probs := mcts.Search(state)

	require.NotEmpty(t, probs)
	sum := 0.0
	found := false
	for _, p := range probs {
		sum += p.Prob
		if p.Move.Equal(move) {
			found = true
		}
	}
	require.InDelta(t, 1.0, sum, 1e-9, "visit shares form a distribution")
	require.True(t, found, "chosen move appears in the policy")
}

func TestSearchMetrics(t *testing.T) {
	state := startState(t)
	collector := NewMetricsCollector()
	mcts := NewMCTS(2, WithEpisodes(100), WithCutoff(10), WithMetrics(collector))

	mcts.FindMove(state)

	metrics := collector.Complete()
	require.EqualValues(t, 100, metrics.Episodes)
	require.GreaterOrEqual(t, metrics.Duration, time.Duration(0))
	require.LessOrEqual(t, metrics.FullPlayouts, metrics.Episodes)
}

func TestRewardFor(t *testing.T) {
	require.Equal(t, Win, rewardFor(1, 1, Win), "winner's own seat")
	require.Equal(t, Loss, rewardFor(0, 1, Win), "other seats lose")
	require.Equal(t, Draw, rewardFor(2, game.NoSeat, Draw), "draws pay out evenly")
	require.InDelta(t, 0.7, rewardFor(0, 1, 0.3), 1e-9, "cutoff scores complement")
}

func requireLegal(t *testing.T, state game.State, move game.Move) {
	t.Helper()
	for _, legal := range state.LegalMoves() {
		if legal.Equal(move) {
			return
		}
	}
	t.Fatalf("move %v is not legal in the searched state", move)
}
