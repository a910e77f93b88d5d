package search

import (
	"maps"
	"math"
	"slices"
)

// Okapi BM25 defaults.
const (
	DefaultK1      = 1.5
	DefaultB       = 0.75
	DefaultEpsilon = 0.25
)

// BM25 scores a fixed corpus of token lists against token queries using
// Okapi BM25. Terms whose inverse document frequency would be negative
// (those present in more than half the corpus) are floored to
// Epsilon times the mean idf.
//
// A BM25 is immutable after construction and safe for concurrent use.
type BM25 struct {
	k1      float64
	b       float64
	avgdl   float64
	docLens []int
	freqs   []map[string]int
	idf     map[string]float64
}

// NewBM25 builds a scorer over corpus with the default parameters.
func NewBM25(corpus [][]string) *BM25 {
	return NewBM25WithParams(corpus, DefaultK1, DefaultB, DefaultEpsilon)
}

// NewBM25WithParams builds a scorer over corpus.
func NewBM25WithParams(corpus [][]string, k1, b, epsilon float64) *BM25 {
	s := &BM25{
		k1:      k1,
		b:       b,
		docLens: make([]int, len(corpus)),
		freqs:   make([]map[string]int, len(corpus)),
		idf:     make(map[string]float64),
	}

	docFreq := make(map[string]int)
	totalLen := 0
	for i, doc := range corpus {
		s.docLens[i] = len(doc)
		totalLen += len(doc)

		tf := make(map[string]int, len(doc))
		for _, tok := range doc {
			tf[tok]++
		}
		s.freqs[i] = tf
		for tok := range tf {
			docFreq[tok]++
		}
	}
	if len(corpus) > 0 {
		s.avgdl = float64(totalLen) / float64(len(corpus))
	}

	n := float64(len(corpus))
	idfSum := 0.0
	var negative []string
	// Sorted so the floating-point sum is the same on every rebuild.
	for _, tok := range slices.Sorted(maps.Keys(docFreq)) {
		df := docFreq[tok]
		idf := math.Log(n-float64(df)+0.5) - math.Log(float64(df)+0.5)
		s.idf[tok] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, tok)
		}
	}
	if len(docFreq) > 0 {
		floor := epsilon * idfSum / float64(len(docFreq))
		for _, tok := range negative {
			s.idf[tok] = floor
		}
	}
	return s
}

// Len returns the number of documents in the corpus.
func (s *BM25) Len() int {
	return len(s.docLens)
}

// Scores returns the BM25 score of every document for query, by position.
// Repeated query tokens count once per occurrence; unknown tokens add nothing.
func (s *BM25) Scores(query []string) []float64 {
	scores := make([]float64, len(s.docLens))
	for _, q := range query {
		idf, ok := s.idf[q]
		if !ok {
			continue
		}
		for i, tf := range s.freqs {
			f := float64(tf[q])
			if f == 0 {
				continue
			}
			norm := 1 - s.b
			if s.avgdl > 0 {
				norm += s.b * float64(s.docLens[i]) / s.avgdl
			}
			scores[i] += idf * (f * (s.k1 + 1)) / (f + s.k1*norm)
		}
	}
	return scores
}

// normEpsilon keeps min-max normalization finite when every score is equal.
const normEpsilon = 1e-10

// MinMaxNormalize maps scores onto [0, 1] as (s - min) / (max - min + 1e-10).
// A corpus with zero score range normalizes to all zeros.
func MinMaxNormalize(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	lo, hi := scores[0], scores[0]
	for _, v := range scores[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo + normEpsilon
	for i, v := range scores {
		out[i] = (v - lo) / span
	}
	return out
}
