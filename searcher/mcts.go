package searcher

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"sternhalma/game"
)

// MCTS runs tree-parallel Monte Carlo tree search over the engine's State
// contract: LegalMoves, Play on snapshots, and terminality. It holds no
// engine state of its own beyond the search tree.
type MCTS struct {
	goroutines int
	episodes   int
	duration   time.Duration
	cutoff     int
	evaluate   game.Evaluate
	metrics    MetricsCollector
}

type Option func(m *MCTS)

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithCutoff truncates rollouts after depth moves and scores the reached
// state with the evaluation function instead of playing out.
func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluate(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics(collector MetricsCollector) Option {
	return func(m *MCTS) {
		m.metrics = collector
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: goroutines,
		cutoff:     MaxCutoff,
		evaluate:   game.EvaluateProgress,
		metrics:    NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("must specify search episodes or duration")
	}
	return m
}

// FindMove searches from the given state and returns the most visited root
// move. The state is never mutated; every descent works on Play snapshots.
func (m *MCTS) FindMove(state game.State) game.Move {
	move, _ := m.Search(state)
	return move
}

// Search returns the chosen move together with the root visit distribution.
func (m *MCTS) Search(state game.State) (game.Move, []MoveProb) {
	root := newDecision(nil, game.NoSeat, state)
	m.metrics.Start()

	if m.episodes > 0 {
		m.iterate(root, state)
	} else {
		m.countdown(root, state)
	}

	return root.bestMove(), root.policy()
}

func (m *MCTS) iterate(root *decision, state game.State) {
	task := make(chan struct{}, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- struct{}{}
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed))
			for range task {
				m.simulate(root, state, rng)
				m.metrics.AddEpisode()
			}
		}(uint64(i + 1))
	}
	wg.Wait()
}

func (m *MCTS) countdown(root *decision, state game.State) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-done:
					return
				default:
					m.simulate(root, state, rng)
					m.metrics.AddEpisode()
				}
			}
		}(uint64(i + 1))
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

func (m *MCTS) simulate(root *decision, state game.State, rng *rand.Rand) {
	node, nodeState := selectThenExpand(root, state)
	scored, score := m.rollout(nodeState, rng)
	backup(node, scored, score)
}

func selectThenExpand(root Node, state game.State) (Node, game.State) {
	parent := root
	child, state, selected := parent.SelectOrExpand(state)
	for selected && child != parent {
		parent = child
		child, state, selected = parent.SelectOrExpand(state)
	}
	return child, state
}

// rollout plays random moves until the game ends or the cutoff depth is
// reached. It returns the seat the score belongs to; NoSeat means drawn.
func (m *MCTS) rollout(state game.State, rng *rand.Rand) (game.Seat, float64) {
	depth := 0
	moves := state.LegalMoves()
	for len(moves) > 0 && depth < m.cutoff {
		state = state.Play(moves[rng.Intn(len(moves))])
		moves = state.LegalMoves()
		depth++
	}

	if state.Terminal() { // Game over before cutoff
		m.metrics.AddFullPlayout()
		if winner := state.Winner(); winner != game.NoSeat {
			return winner, Win
		}
		return game.NoSeat, Draw
	}

	// At the cutoff, score the current player by the evaluation function,
	// mapped from [-1,1] to [0,1].
	return state.Player(), (m.evaluate(state) + 1) / 2
}

func backup(node Node, scored game.Seat, score float64) {
	for node != nil {
		node = node.Backup(scored, score)
	}
}
