package vecindex

import "sync"

// partial is one worker's best finding within its row chunk.
type partial struct {
	idx   int
	score float32
	found bool
}

// SearchParallel is equivalent to Search but partitions the store into
// adaptiveWorkers(Len()) contiguous, non-overlapping row chunks and scans
// them concurrently. Below minWorkersThreshold rows it degenerates to a
// single sequential pass — goroutine dispatch is not worth paying for a
// store that small.
//
// The reduction step must reproduce Search's tie-break exactly: among
// equal top scores the lowest row index wins, matching earliest-insertion
// priority. Each worker already enforces this within its own chunk by
// using a strict '>' update; the final merge across workers applies the
// same rule again so chunk boundaries never change the outcome.
func (s *Store) SearchParallel(query []float32, threshold float32) (SearchResult, bool) {
	normQuery := s.normalizeQuery(query)
	n := s.Len()
	if n == 0 {
		return SearchResult{}, false
	}

	numWorkers := adaptiveWorkers(n)
	if numWorkers <= 1 {
		return s.scan(normQuery, threshold, dotProductSIMD)
	}

	dim := s.dim
	chunkSize := (n + numWorkers - 1) / numWorkers
	results := make(chan partial, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		if start >= n {
			results <- partial{}
			continue
		}
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			bestScore := threshold
			bestIdx := -1
			for i := start; i < end; i++ {
				base := i * dim
				row := s.data[base : base+dim]
				score := dotProductSIMD(normQuery, row)
				if score > bestScore {
					bestScore = score
					bestIdx = i
				}
			}
			if bestIdx < 0 {
				results <- partial{}
				return
			}
			results <- partial{idx: bestIdx, score: bestScore, found: true}
		}(start, end)
	}

	go func() {
		wg.Wait()
	}()

	bestIdx := -1
	var bestScore float32
	for i := 0; i < numWorkers; i++ {
		p := <-results
		if !p.found {
			continue
		}
		if bestIdx < 0 || p.score > bestScore || (p.score == bestScore && p.idx < bestIdx) {
			bestIdx = p.idx
			bestScore = p.score
		}
	}

	if bestIdx < 0 {
		return SearchResult{}, false
	}
	return SearchResult{ID: s.ids[bestIdx], Score: bestScore}, true
}
