package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes one recommendation computation.
type SearchMetric struct {
	Goroutines   int
	Cutoff       int
	Duration     time.Duration
	Episodes     int
	FullPlayouts int
}

type Collector interface {
	Start(goroutines, cutoff int)
	AddEpisode()
	AddFullPlayout()
	Complete() SearchMetric
}

type collector struct {
	goroutines   int
	cutoff       int
	startTime    time.Time
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(goroutines, cutoff int) {
	c.goroutines = goroutines
	c.cutoff = cutoff
	c.startTime = time.Now()
	c.episodes.Store(0)
	c.fullPlayouts.Store(0)
}

func (c *collector) AddEpisode() {
	c.episodes.Add(1)
}

func (c *collector) AddFullPlayout() {
	c.fullPlayouts.Add(1)
}

func (c *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:   c.goroutines,
		Cutoff:       c.cutoff,
		Duration:     time.Since(c.startTime),
		Episodes:     int(c.episodes.Load()),
		FullPlayouts: int(c.fullPlayouts.Load()),
	}
}

type dummyCollector struct {
	episodes atomic.Int64
}

// NewDummyCollector still counts episodes (the fallback logic needs them)
// but skips everything else.
func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (d *dummyCollector) Start(goroutines, cutoff int) { d.episodes.Store(0) }
func (d *dummyCollector) AddEpisode()                  { d.episodes.Add(1) }
func (d *dummyCollector) AddFullPlayout()              {}
func (d *dummyCollector) Complete() SearchMetric {
	return SearchMetric{Episodes: int(d.episodes.Load())}
}
