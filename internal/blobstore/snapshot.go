package blobstore

import (
	"bytes"

	"github.com/nicexipi/vecindex/internal/vecindex"
)

// SaveIndex snapshots idx to an in-memory buffer via its own Save method
// and stores the result under name, alongside the dimension and row count
// it carries so List can report them without decoding the blob.
func (s *Store) SaveIndex(name string, idx *vecindex.Index) error {
	var buf bytes.Buffer
	if err := idx.Save(&buf); err != nil {
		return err
	}
	return s.Put(name, buf.Bytes(), idx.Dim(), idx.Len())
}

// LoadIndex retrieves the blob stored under name and restores it into a
// fresh vecindex.Index.
func (s *Store) LoadIndex(name string) (*vecindex.Index, error) {
	data, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	return vecindex.LoadIndex(bytes.NewReader(data))
}
