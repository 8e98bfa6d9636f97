package vecindex

import (
	"bytes"
	"sync"
	"testing"
)

func TestIndexAddAndSearch(t *testing.T) {
	x := NewIndex(4, 0)
	x.Add(1, unit(4, 0))
	x.Add(2, unit(4, 1))

	res, ok := x.Search(unit(4, 1), 0.5)
	if !ok {
		t.Fatal("expected a match")
	}
	if res.ID != 2 {
		t.Fatalf("ID = %d, want 2", res.ID)
	}
}

func TestIndexConcurrentSearchesDuringNoWrites(t *testing.T) {
	x := NewIndex(8, 0)
	for id := uint64(0); id < 200; id++ {
		v := make([]float32, 8)
		for j := range v {
			v[j] = float32((int(id)+j)%5) - 2
		}
		x.Add(id, v)
	}

	query := unit(8, 3)
	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := x.Search(query, -10.0); !ok {
				errs <- "expected a match"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
}

func TestIndexSaveAndLoadIndex(t *testing.T) {
	x := NewIndex(4, 0)
	x.Add(1, unit(4, 0))
	x.Add(2, unit(4, 1))

	var buf bytes.Buffer
	if err := x.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadIndex(&buf)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if loaded.Len() != x.Len() {
		t.Fatalf("Len = %d, want %d", loaded.Len(), x.Len())
	}
	res, ok := loaded.Search(unit(4, 1), 0.5)
	if !ok || res.ID != 2 {
		t.Fatalf("loaded index search mismatch: res=%+v ok=%v", res, ok)
	}
}

func TestSearchKeyDistinguishesQueries(t *testing.T) {
	k1 := searchKey([]float32{1, 2, 3}, 0.5)
	k2 := searchKey([]float32{1, 2, 4}, 0.5)
	if k1 == k2 {
		t.Fatal("searchKey collided for distinct queries")
	}
	k3 := searchKey([]float32{1, 2, 3}, 0.6)
	if k1 == k3 {
		t.Fatal("searchKey collided for distinct thresholds")
	}
	k4 := searchKey([]float32{1, 2, 3}, 0.5)
	if k1 != k4 {
		t.Fatal("searchKey should be stable for identical inputs")
	}
}
