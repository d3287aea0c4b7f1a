package searcher

import (
	"math"
	"sync"

	"sternhalma/game"
)

// decision is a search-tree node for a state where one seat chooses among
// deterministic moves. Every Sternhalma move is deterministic, so the tree
// holds decision nodes only.
type decision struct {
	sync.RWMutex
	parent *decision
	// mover is the seat that played the move leading into this node;
	// rewards accumulate from its perspective. NoSeat at the root.
	mover game.Seat
	// player is the seat to move at this node.
	player   game.Seat
	moves    []game.Move
	children []*decision
	rewards  float64
	visits   int
}

func newDecision(parent *decision, mover game.Seat, state game.State) *decision {
	return &decision{
		parent: parent,
		mover:  mover,
		player: state.Player(),
		moves:  state.LegalMoves(),
	}
}

// SelectOrExpand descends one level: it expands the next unexplored move if
// any, otherwise selects the max-UCB child. A terminal node returns itself.
// The chosen child carries a virtual loss until Backup reverses it.
func (d *decision) SelectOrExpand(state game.State) (Node, game.State, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.children) < len(d.moves) { // Expandable node
		move := d.moves[len(d.children)]
		childState := state.Play(move)
		child := newDecision(d, d.player, childState)
		child.applyLoss()
		d.children = append(d.children, child)
		return child, childState, false
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	child.applyLoss()
	return child, state.Play(d.moves[ith]), true
}

// pickChild returns the index of the max-UCB child from d.player's
// perspective; child rewards are already stored from that perspective since
// d.player is every child's mover.
func (d *decision) pickChild() int {
	normalizer := CSquared * math.Log(float64(d.visits))

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		score := child.score(normalizer)
		if math.IsInf(score, 1) {
			return i
		}
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision) score(normalizer float64) float64 {
	d.RLock()
	defer d.RUnlock()

	return ucb1(d.rewards, d.visits, normalizer)
}

// Backup reverses the virtual loss, credits the rollout result from the
// perspective of the seat that moved into this node, and returns the parent
// for the walk to continue.
func (d *decision) Backup(scored game.Seat, score float64) Node {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node carries a virtual loss
		d.rewards -= Loss
		d.visits--
	}

	d.rewards += rewardFor(d.mover, scored, score)
	d.visits++

	if d.parent == nil {
		return nil
	}
	return d.parent
}

func (d *decision) Visits() int {
	d.RLock()
	defer d.RUnlock()

	return d.visits
}

// bestMove returns the most visited move, the standard robust-child choice.
func (d *decision) bestMove() game.Move {
	d.RLock()
	defer d.RUnlock()

	if len(d.children) == 0 {
		panic("root has no expanded children")
	}

	bestIndex := 0
	maxVisits := d.children[0].Visits()
	for i, child := range d.children[1:] {
		if v := child.Visits(); v > maxVisits {
			maxVisits = v
			bestIndex = i + 1
		}
	}
	return d.moves[bestIndex]
}

// MoveProb pairs a root move with its visit share.
type MoveProb struct {
	Move game.Move
	Prob float64
}

// policy returns the visit-count distribution over the root moves, the
// signal an estimator trains its policy head against.
func (d *decision) policy() []MoveProb {
	d.RLock()
	defer d.RUnlock()

	total := 0
	for _, child := range d.children {
		total += child.Visits()
	}
	probs := make([]MoveProb, len(d.children))
	for i, child := range d.children {
		probs[i] = MoveProb{Move: d.moves[i], Prob: float64(child.Visits()) / float64(total)}
	}
	return probs
}
