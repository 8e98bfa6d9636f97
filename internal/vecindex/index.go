package vecindex

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Index wraps a Store with the concurrency shell production callers need:
// many readers may search concurrently while a single writer mutates the
// store, and identical in-flight Search calls are coalesced rather than
// each re-scanning the whole store.
type Index struct {
	mu    sync.RWMutex
	store *Store
	sg    singleflight.Group
}

// NewIndex creates an empty Index over a store of the given dimension,
// pre-sizing its arena for capacity rows.
func NewIndex(dim, capacity int) *Index {
	return &Index{store: NewStore(dim, capacity)}
}

// Dim reports the fixed vector dimension of the underlying store.
func (x *Index) Dim() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.store.Dim()
}

// Len reports how many vectors are currently stored.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.store.Len()
}

// IsEmpty reports whether the index holds no vectors.
func (x *Index) IsEmpty() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.store.IsEmpty()
}

// Add inserts id/vec under an exclusive lock, blocking concurrent readers
// and writers until the insert (including its normalization pass)
// completes.
func (x *Index) Add(id uint64, vec []float32) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.store.Add(id, vec)
}

type searchOutcome struct {
	result SearchResult
	ok     bool
}

// Search runs under a read lock and coalesces concurrent identical calls
// through singleflight: callers racing on the same (query, threshold)
// share one scan instead of each paying for it. The singleflight key is a
// full binary encoding of every query component plus the threshold — not
// a truncated hash — because a lossy key would risk two genuinely
// different queries colliding and one caller silently receiving the
// other's result.
func (x *Index) Search(query []float32, threshold float32) (SearchResult, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	key := searchKey(query, threshold)
	v, _, _ := x.sg.Do(key, func() (interface{}, error) {
		result, ok := x.store.Search(query, threshold)
		return searchOutcome{result, ok}, nil
	})
	outcome := v.(searchOutcome)
	return outcome.result, outcome.ok
}

// SearchParallel runs under a read lock and bypasses singleflight: it is
// itself already a concurrent, work-sharing operation, and coalescing it
// would only delay a second caller's scan behind the first's without
// saving any work the parallel scan doesn't already share across cores.
func (x *Index) SearchParallel(query []float32, threshold float32) (SearchResult, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.store.SearchParallel(query, threshold)
}

// SearchNaive runs under a read lock with no coalescing, for benchmarking
// against Search/SearchParallel.
func (x *Index) SearchNaive(query []float32, threshold float32) (SearchResult, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.store.SearchNaive(query, threshold)
}

// Save writes a snapshot of the index's current contents under a read
// lock, so a concurrent Add cannot observe or produce a torn snapshot.
func (x *Index) Save(sink io.Writer) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.store.Save(sink)
}

// LoadIndex restores an Index from a snapshot written by Index.Save or
// Store.Save.
func LoadIndex(source io.Reader) (*Index, error) {
	store, err := Load(source)
	if err != nil {
		return nil, err
	}
	return &Index{store: store}, nil
}

// searchKey encodes query and threshold into a byte string suitable as a
// singleflight key: every float32 bit pattern in order, followed by the
// threshold's bit pattern. Two calls produce the same key only if their
// queries and thresholds are bit-for-bit identical.
func searchKey(query []float32, threshold float32) string {
	buf := make([]byte, len(query)*4+4)
	for i, f := range query {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(buf[len(query)*4:], math.Float32bits(threshold))
	return string(buf)
}
