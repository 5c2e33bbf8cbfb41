package metrics

import (
	"time"

	"pentago/game"
)

type SearchMetric struct {
	Engine       string
	Duration     time.Duration
	Episodes     int // MCTS iterations or alpha-beta nodes
	FullPlayouts int
	IsTreeReset  bool
	TreeSize     int
	Depth        int // deepest completed alpha-beta iteration
	TimedOut     bool
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Move   string
	SearchMetric
}

type GameMetric struct {
	ID             string
	StartingPlayer game.Player
	Winner         game.Player
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector is owned by one engine and used from its search loop only.
type Collector interface {
	Start(engine string)
	SetTreeReset(value bool)
	SetTreeSize(size int)
	SetDepth(depth int)
	SetTimedOut(value bool)
	AddFullPlayout()
	AddEpisode()
	Complete() SearchMetric
}

type collector struct {
	startTime time.Time
	metric    SearchMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(engine string) {
	m.startTime = time.Now()
	m.metric = SearchMetric{Engine: engine}
}

func (m *collector) SetTreeReset(value bool) {
	m.metric.IsTreeReset = value
}

func (m *collector) SetTreeSize(size int) {
	m.metric.TreeSize = size
}

func (m *collector) SetDepth(depth int) {
	m.metric.Depth = depth
}

func (m *collector) SetTimedOut(value bool) {
	m.metric.TimedOut = value
}

func (m *collector) AddFullPlayout() {
	m.metric.FullPlayouts++
}

func (m *collector) AddEpisode() {
	m.metric.Episodes++
}

func (m *collector) Complete() SearchMetric {
	m.metric.Duration = time.Since(m.startTime)
	return m.metric
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(engine string)     {}
func (m *dummyCollector) SetTreeReset(value bool) {}
func (m *dummyCollector) SetTreeSize(size int)    {}
func (m *dummyCollector) SetDepth(depth int)      {}
func (m *dummyCollector) SetTimedOut(value bool)  {}
func (m *dummyCollector) AddFullPlayout()         {}
func (m *dummyCollector) AddEpisode()             {}
func (m *dummyCollector) Complete() SearchMetric  { return SearchMetric{} }
