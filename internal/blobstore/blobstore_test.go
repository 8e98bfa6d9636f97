package blobstore

import (
	"path/filepath"
	"testing"

	"github.com/nicexipi/vecindex/internal/vecindex"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "snapshots.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndGet(t *testing.T) {
	s := setupTestStore(t)
	data := []byte{1, 2, 3, 4, 5}
	if err := s.Put("snap-a", data, 4, 1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get("snap-a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != len(data) {
		t.Fatalf("Get returned %d bytes, want %d", len(got), len(data))
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], data[i])
		}
	}
}

func TestPutOverwrites(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Put("snap-a", []byte{1}, 1, 1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("snap-a", []byte{9, 9}, 1, 2); err != nil {
		t.Fatalf("Put (overwrite): %v", err)
	}
	got, err := s.Get("snap-a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 2 || got[0] != 9 || got[1] != 9 {
		t.Fatalf("Get after overwrite = %v, want [9 9]", got)
	}
}

func TestGetMissingReturnsError(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.Get("does-not-exist")
	if err == nil {
		t.Fatal("expected an error for a missing snapshot")
	}
}

func TestList(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Put("b", []byte{1}, 4, 1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("a", []byte{1, 2}, 8, 2); err != nil {
		t.Fatalf("Put: %v", err)
	}
	infos, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(infos))
	}
	if infos[0].Name != "a" || infos[1].Name != "b" {
		t.Fatalf("List not ordered by name: %+v", infos)
	}
}

func TestDelete(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Put("snap-a", []byte{1}, 1, 1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete("snap-a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("snap-a"); err == nil {
		t.Fatal("expected an error after deletion")
	}
}

func TestSaveIndexAndLoadIndex(t *testing.T) {
	s := setupTestStore(t)
	idx := vecindex.NewIndex(4, 0)
	idx.Add(1, []float32{1, 0, 0, 0})
	idx.Add(2, []float32{0, 1, 0, 0})

	if err := s.SaveIndex("my-index", idx); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}

	loaded, err := s.LoadIndex("my-index")
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if loaded.Len() != idx.Len() || loaded.Dim() != idx.Dim() {
		t.Fatalf("loaded index mismatch: Len=%d Dim=%d, want Len=%d Dim=%d",
			loaded.Len(), loaded.Dim(), idx.Len(), idx.Dim())
	}
	res, ok := loaded.Search([]float32{0, 1, 0, 0}, 0.5)
	if !ok || res.ID != 2 {
		t.Fatalf("loaded index search mismatch: res=%+v ok=%v", res, ok)
	}
}
