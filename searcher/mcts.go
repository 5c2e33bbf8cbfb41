package searcher

import (
	"errors"
	"fmt"
	"time"

	"pentago/experiments/metrics"
	"pentago/game"
	"pentago/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS is a single-threaded UCT searcher that keeps its tree between turns.
// It is not safe for concurrent use.
type MCTS struct {
	duration    time.Duration
	iterations  int
	maxNodes    int
	exploration float64
	policy      Policy
	credit      Credit
	rng         *rand.Rand
	tree        *tree
	metrics     metrics.Collector
	last        metrics.SearchMetric
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithIterations caps the number of iterations per search; the time budget still applies.
func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations > 0 {
			m.iterations = iterations
		}
	}
}

// WithMaxNodes stops expansion once the tree holds n nodes; iterations then roll out from the
// leaf they reach. The cap can be passed by at most one expansion.
func WithMaxNodes(n int) Option {
	return func(m *MCTS) {
		if n > 0 {
			m.maxNodes = n
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		m.exploration = c
	}
}

func WithPolicy(policy Policy) Option {
	return func(m *MCTS) {
		if policy != nil {
			m.policy = policy
		}
	}
}

func WithCredit(credit Credit) Option {
	return func(m *MCTS) {
		m.credit = credit
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		duration:    meta.TURN_BUDGET,
		maxNodes:    meta.MAX_NODES,
		exploration: meta.EXPLORATION,
		policy:      Random(),
		credit:      MoverRelative,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.exploration < 0 {
		panic("exploration constant must not be negative")
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// Search runs for the configured duration.
func (m *MCTS) Search(state game.State) (game.Move, error) {
	return m.SearchFor(state, m.duration)
}

// SearchFor grows the tree from state until budget elapses, commits to the root child with the
// highest win score and keeps that child as the next root. It returns a legal move whenever
// state has one, even if no iteration completed.
func (m *MCTS) SearchFor(state game.State, budget time.Duration) (move game.Move, err error) {
	if state.IsTerminal() {
		return nil, game.ErrTerminalState
	}
	defer recoverContract(&err)

	deadline := time.Now().Add(budget)
	m.metrics.Start("uct")
	m.findRoot(state)
	m.grow(deadline)
	move = m.commit()
	m.metrics.SetTreeSize(m.tree.size())
	metric := m.metrics.Complete()
	m.last = metric

	log.Debug().Msgf("uct chose %v after %d episodes in %v (tree reset: %t)",
		move, metric.Episodes, metric.Duration, metric.IsTreeReset)
	return move, nil
}

// Train grows the tree from state without committing to a move.
func (m *MCTS) Train(state game.State, budget time.Duration) (err error) {
	if state.IsTerminal() {
		return game.ErrTerminalState
	}
	defer recoverContract(&err)

	deadline := time.Now().Add(budget)
	m.metrics.Start("uct")
	m.findRoot(state)
	m.grow(deadline)
	m.metrics.SetTreeSize(m.tree.size())
	metric := m.metrics.Complete()
	m.last = metric

	log.Info().Msgf("trained %d episodes in %v, tree has %d nodes", metric.Episodes, metric.Duration, m.tree.size())
	return nil
}

// Metric returns the statistics of the last search when built WithMetrics.
func (m *MCTS) Metric() metrics.SearchMetric {
	return m.last
}

// recoverContract turns a game contract violation found mid-search into an error
func recoverContract(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok && errors.Is(e, game.ErrNoLegalMoves) {
			*err = e
			return
		}
		panic(r)
	}
}

func (m *MCTS) findRoot(state game.State) {
	if m.tree == nil {
		m.tree = newTree(state)
		m.metrics.SetTreeReset(true)
	} else if i := m.tree.find(state); i == noParent {
		log.Debug().Msg("no reusable node for the current state, starting a fresh tree")
		m.tree = newTree(state)
		m.metrics.SetTreeReset(true)
	} else {
		if i != m.tree.root {
			m.tree.reroot(i)
		}
		m.metrics.SetTreeReset(false)
	}

	// A legal move must exist even if no iteration runs
	if len(m.tree.nodes[m.tree.root].children) == 0 {
		m.tree.expand(m.tree.root)
	}
}

func (m *MCTS) grow(deadline time.Time) {
	for i := 0; m.iterations == 0 || i < m.iterations; i++ {
		if !time.Now().Before(deadline) {
			return
		}
		m.simulate()
		m.metrics.AddEpisode()
	}
}

func (m *MCTS) simulate() {
	t := m.tree
	leaf := t.selectLeaf(m.exploration)

	target := leaf
	if !t.nodes[leaf].state.IsTerminal() && t.size() < m.maxNodes {
		t.expand(leaf)
		children := t.nodes[leaf].children
		target = children[m.rng.Intn(len(children))]
	}

	winner := m.rollout(target)
	m.backup(target, winner)
}

// rollout plays a copy of the target's state to the end with the rollout policy
func (m *MCTS) rollout(target int) game.Player {
	state := m.tree.nodes[target].state.Copy()
	if state.IsTerminal() {
		m.markForcedLoss(target, state.Winner())
		return state.Winner()
	}

	for !state.IsTerminal() {
		move := m.policy.Choose(state, m.rng)
		if move == nil {
			panic(fmt.Errorf("rollout: %w", game.ErrNoLegalMoves))
		}
		state = state.Play(move)
	}
	m.metrics.AddFullPlayout()
	return state.Winner()
}

// markForcedLoss flags the parent of a decided node when the parent's player to move wins
// there outright and the parent is credited to the other side. Draws never mark.
func (m *MCTS) markForcedLoss(target int, winner game.Player) {
	parent := m.tree.nodes[target].parent
	if parent == noParent || (winner != game.White && winner != game.Black) {
		return
	}
	if winner == m.tree.nodes[parent].state.Player() && winner != m.creditedAt(parent) {
		m.tree.nodes[parent].winScore = ForcedLoss
	}
}

func (m *MCTS) backup(target int, winner game.Player) {
	for i := target; i != noParent; i = m.tree.nodes[i].parent {
		n := &m.tree.nodes[i]
		n.visits++
		n.winScore += reward(winner, m.creditedAt(i))
	}
}

func (m *MCTS) creditedAt(i int) game.Player {
	if m.credit == RootRelative {
		return m.tree.nodes[m.tree.root].state.Player()
	}
	return m.tree.nodes[i].state.Player().Opponent()
}

func (m *MCTS) commit() game.Move {
	best := m.tree.mostWins()
	if best == noParent {
		panic(fmt.Errorf("committing a move: %w", game.ErrNoLegalMoves))
	}
	move := m.tree.nodes[best].move
	m.tree.reroot(best)
	return move
}

// ChildStat describes one root child.
type ChildStat struct {
	Move     game.Move
	Visits   int
	WinScore float64
}

// Stats lists the current root's children in expansion order.
func (m *MCTS) Stats() []ChildStat {
	if m.tree == nil {
		return nil
	}
	root := m.tree.nodes[m.tree.root]
	stats := make([]ChildStat, 0, len(root.children))
	for _, child := range root.children {
		n := m.tree.nodes[child]
		stats = append(stats, ChildStat{Move: n.move, Visits: n.visits, WinScore: n.winScore})
	}
	return stats
}

// Root returns the state of the current root, or nil before the first search.
func (m *MCTS) Root() game.State {
	if m.tree == nil {
		return nil
	}
	return m.tree.nodes[m.tree.root].state
}
