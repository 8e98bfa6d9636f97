package vecindex

import (
	"math"
	"testing"
)

func unit(dim, hot int) []float32 {
	v := make([]float32, dim)
	v[hot] = 1
	return v
}

func TestSearchEmptyStore(t *testing.T) {
	s := NewStore(4, 0)
	_, ok := s.Search([]float32{1, 0, 0, 0}, 0.0)
	if ok {
		t.Fatal("expected no match on empty store")
	}
}

func TestSearchFindsExactMatch(t *testing.T) {
	s := NewStore(4, 0)
	s.Add(10, unit(4, 0))
	s.Add(11, unit(4, 1))
	s.Add(12, unit(4, 2))

	res, ok := s.Search(unit(4, 1), 0.5)
	if !ok {
		t.Fatal("expected a match")
	}
	if res.ID != 11 {
		t.Fatalf("ID = %d, want 11", res.ID)
	}
	if math.Abs(float64(res.Score-1.0)) > 1e-5 {
		t.Fatalf("Score = %f, want ~1.0", res.Score)
	}
}

func TestSearchThresholdExcludesNonStrictMatches(t *testing.T) {
	s := NewStore(4, 0)
	s.Add(1, unit(4, 0))
	_, ok := s.Search(unit(4, 0), 1.0)
	if ok {
		t.Fatal("threshold equal to best score must not match (strict >)")
	}
}

func TestSearchThresholdSaturationNegativeInfinity(t *testing.T) {
	s := NewStore(4, 0)
	s.Add(1, unit(4, 0))
	res, ok := s.Search(unit(4, 1), float32(math.Inf(-1)))
	if !ok {
		t.Fatal("expected match when threshold is -Inf")
	}
	if res.ID != 1 {
		t.Fatalf("ID = %d, want 1", res.ID)
	}
}

func TestSearchThresholdSaturationPositiveInfinity(t *testing.T) {
	s := NewStore(4, 0)
	s.Add(1, unit(4, 0))
	_, ok := s.Search(unit(4, 0), float32(math.Inf(1)))
	if ok {
		t.Fatal("nothing should ever score above +Inf")
	}
}

func TestSearchTieBreakEarliestInsertionWins(t *testing.T) {
	s := NewStore(2, 0)
	s.Add(100, []float32{1, 0})
	s.Add(200, []float32{1, 0})
	res, ok := s.Search([]float32{1, 0}, 0.0)
	if !ok {
		t.Fatal("expected a match")
	}
	if res.ID != 100 {
		t.Fatalf("ID = %d, want 100 (earliest insertion should win an exact tie)", res.ID)
	}
}

func TestSearchQueryDimMismatchPanics(t *testing.T) {
	s := NewStore(4, 0)
	s.Add(1, unit(4, 0))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on query dimension mismatch")
		}
	}()
	s.Search([]float32{1, 0}, 0.0)
}

func TestSearchRemainderDimension(t *testing.T) {
	const dim = 9
	s := NewStore(dim, 0)
	a := make([]float32, dim)
	for i := range a {
		a[i] = float32(i + 1)
	}
	b := make([]float32, dim)
	for i := range b {
		b[i] = float32(dim - i)
	}
	s.Add(1, a)
	s.Add(2, b)

	query := make([]float32, dim)
	copy(query, b)

	res, ok := s.Search(query, 0.0)
	if !ok {
		t.Fatal("expected a match")
	}
	if res.ID != 2 {
		t.Fatalf("ID = %d, want 2", res.ID)
	}
}

func TestSearchAndSearchNaiveAgree(t *testing.T) {
	const dim = 33
	s := NewStore(dim, 0)
	for id := uint64(0); id < 40; id++ {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32((int(id)*7+j*3)%13) - 6
		}
		s.Add(id, v)
	}
	query := make([]float32, dim)
	for j := range query {
		query[j] = float32((j*5)%11) - 5
	}

	r1, ok1 := s.Search(query, -1.0)
	r2, ok2 := s.SearchNaive(query, -1.0)
	if ok1 != ok2 {
		t.Fatalf("Search ok=%v, SearchNaive ok=%v", ok1, ok2)
	}
	if ok1 && (r1.ID != r2.ID || math.Abs(float64(r1.Score-r2.Score)) > 1e-4) {
		t.Fatalf("Search %+v != SearchNaive %+v", r1, r2)
	}
}
