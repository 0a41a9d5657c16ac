package searcher

import "time"

// Stats describes one search. NodeVisits and NodeAvgScore belong to the chosen
// root child.
type Stats struct {
	StartTime    time.Time
	Duration     time.Duration
	Iterations   int
	NodeVisits   int
	NodeAvgScore float64
	FullPlayouts int
	Cutoffs      int
	TreeSize     int
}

type collector struct {
	startTime    time.Time
	iterations   int
	fullPlayouts int
	cutoffs      int
}

func (m *collector) Start() {
	m.startTime = time.Now()
}

func (m *collector) Elapsed() time.Duration {
	return time.Since(m.startTime)
}

func (m *collector) AddIteration() {
	m.iterations++
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts++
}

func (m *collector) AddCutoff() {
	m.cutoffs++
}

func (m *collector) Complete(best *Node, treeSize int) Stats {
	return Stats{
		StartTime:    m.startTime,
		Duration:     m.Elapsed(),
		Iterations:   m.iterations,
		NodeVisits:   best.Visits,
		NodeAvgScore: best.Average(),
		FullPlayouts: m.fullPlayouts,
		Cutoffs:      m.cutoffs,
		TreeSize:     treeSize,
	}
}
