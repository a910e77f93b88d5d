package search

import (
	"time"

	"github.com/poiesic/alphagraph/core"
)

// SearchMonitor provides hooks to observe index builds and searches.
// Implementations must be safe for concurrent use when the engine serves
// concurrent searches.
type SearchMonitor interface {
	Start(query string)
	AfterVectorSearch(neighbors []Neighbor)
	AfterLexicalScoring(normalized []float64)
	Finish(results []core.ScoredResult, elapsed time.Duration)
	BuildFinished(chunks, cacheHits int, elapsed time.Duration)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                {}
func (n *noopMonitor) AfterVectorSearch(_ []Neighbor)                {}
func (n *noopMonitor) AfterLexicalScoring(_ []float64)               {}
func (n *noopMonitor) Finish(_ []core.ScoredResult, _ time.Duration) {}
func (n *noopMonitor) BuildFinished(_, _ int, _ time.Duration)       {}
