package vecindex

import "fmt"

// SearchResult is a positive search outcome: the id of the winning row and
// the cosine similarity score it was found at.
type SearchResult struct {
	ID    uint64
	Score float32
}

// SIMDCapability returns a human-readable description of the dot-product
// acceleration path active on this platform. Used for startup diagnostics
// (see internal/diag).
func SIMDCapability() string {
	return simdCapability()
}

// Search returns the row whose cosine similarity with query is maximal and
// strictly greater than threshold. ok is false if the store is empty or no
// row scores above threshold — absence is the normal "no match" outcome,
// not an error. Panics if len(query) != Dim(); dimension mismatch is a
// caller contract violation, not a runtime condition to recover from.
func (s *Store) Search(query []float32, threshold float32) (SearchResult, bool) {
	normQuery := s.normalizeQuery(query)
	return s.scan(normQuery, threshold, dotProductSIMD)
}

// SearchNaive is a functionally identical baseline retained for
// benchmarking against Search: it must match Search's result up to
// floating-point associativity, differing only in using a plain,
// bounds-checked accumulation loop instead of the unrolled kernel.
func (s *Store) SearchNaive(query []float32, threshold float32) (SearchResult, bool) {
	normQuery := s.normalizeQuery(query)
	return s.scan(normQuery, threshold, func(a, b []float32) float32 {
		var sum float32
		for i := range a {
			sum += a[i] * b[i]
		}
		return sum
	})
}

func (s *Store) normalizeQuery(query []float32) []float32 {
	if len(query) != s.dim {
		panic(fmt.Sprintf("vecindex: query length %d does not match store dimension %d", len(query), s.dim))
	}
	return normalizeVec(query)
}

// scan walks every row in insertion order, maintaining (bestIdx, bestScore)
// initialized to (absent, threshold) and updating only on a strictly
// greater score — so the earliest-inserted row wins ties. Because
// len(data) == Len()*dim is maintained by Add, row i's slice is always in
// bounds for i < Len(); dotFn never needs to bounds-check inside its loop.
func (s *Store) scan(normQuery []float32, threshold float32, dotFn func(a, b []float32) float32) (SearchResult, bool) {
	n := s.Len()
	if n == 0 {
		return SearchResult{}, false
	}
	dim := s.dim
	bestScore := threshold
	bestIdx := -1
	for i := 0; i < n; i++ {
		base := i * dim
		row := s.data[base : base+dim]
		score := dotFn(normQuery, row)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return SearchResult{}, false
	}
	return SearchResult{ID: s.ids[bestIdx], Score: bestScore}, true
}
