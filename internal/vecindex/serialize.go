package vecindex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"golang.org/x/crypto/blake2b"
)

// batchBytes bounds how much of the ids/data arrays Load reads into a
// reusable scratch buffer per iteration, so decoding needs this much raw
// byte space on top of the decoded arrays rather than a second, full-size
// copy of the snapshot's bytes.
const batchBytes = 64 * 1024

// Save writes a streamable binary snapshot of s to sink: dim, then the ids
// array, then the data array, each length-prefixed as a little-endian
// uint64, followed by a blake2b-256 checksum over everything written
// before it. The checksum lets Load detect truncation or bit-rot without
// requiring the whole snapshot to be buffered in memory on either side.
func (s *Store) Save(sink io.Writer) error {
	h, err := blake2b.New256(nil)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(io.MultiWriter(sink, h))

	var scratch [8]byte
	putU64 := func(v uint64) error {
		binary.LittleEndian.PutUint64(scratch[:], v)
		_, err := w.Write(scratch[:])
		return err
	}

	if err := putU64(uint64(s.dim)); err != nil {
		return err
	}
	if err := putU64(uint64(len(s.ids))); err != nil {
		return err
	}
	for _, id := range s.ids {
		if err := putU64(id); err != nil {
			return err
		}
	}
	if err := putU64(uint64(len(s.data))); err != nil {
		return err
	}
	for _, f := range s.data {
		binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(f))
		if _, err := w.Write(scratch[:4]); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sum := h.Sum(nil)
	_, err = sink.Write(sum)
	return err
}

// Load reads a snapshot written by Save. It does not wrap source in a
// bufio.Reader: a buffered reader would prefetch past the payload into the
// trailing checksum bytes, both corrupting the running hash (it would
// cover bytes the caller never explicitly consumed) and desynchronizing
// the final direct read of those same bytes. Every read below is
// exact-sized via io.ReadFull instead.
func Load(source io.Reader) (*Store, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	tee := io.TeeReader(source, h)

	dim, err := readUint64(tee)
	if err != nil {
		return nil, fmt.Errorf("vecindex: reading dim: %w", err)
	}
	if dim == 0 || dim > 1<<32 {
		return nil, ErrCorruptSnapshot
	}

	idsLen, err := readUint64(tee)
	if err != nil {
		return nil, fmt.Errorf("vecindex: reading ids length: %w", err)
	}
	ids, err := readUint64Array(tee, idsLen)
	if err != nil {
		return nil, err
	}

	dataLen, err := readUint64(tee)
	if err != nil {
		return nil, fmt.Errorf("vecindex: reading data length: %w", err)
	}
	if dataLen != idsLen*dim {
		return nil, ErrCorruptSnapshot
	}
	data, err := readFloat32Array(tee, dataLen)
	if err != nil {
		return nil, err
	}

	var wantSum [32]byte
	if _, err := io.ReadFull(source, wantSum[:]); err != nil {
		return nil, fmt.Errorf("vecindex: reading checksum: %w", err)
	}
	gotSum := h.Sum(nil)
	for i := range wantSum {
		if wantSum[i] != gotSum[i] {
			return nil, ErrCorruptSnapshot
		}
	}

	return &Store{dim: int(dim), ids: ids, data: data}, nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func readUint64Array(r io.Reader, n uint64) ([]uint64, error) {
	scratch := make([]byte, batchBytes)
	const stride = 8
	perBatch := len(scratch) / stride
	// n comes from the snapshot header and is not trusted yet: grow out as
	// bytes actually arrive, so a corrupted length ends in a read error
	// instead of a huge up-front allocation.
	out := make([]uint64, 0, min(n, uint64(perBatch)))
	i := uint64(0)
	for i < n {
		remaining := n - i
		count := uint64(perBatch)
		if remaining < count {
			count = remaining
		}
		buf := scratch[:count*stride]
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("vecindex: reading ids: %w", err)
		}
		for j := uint64(0); j < count; j++ {
			out = append(out, binary.LittleEndian.Uint64(buf[j*stride:j*stride+stride]))
		}
		i += count
	}
	return out, nil
}

func readFloat32Array(r io.Reader, n uint64) ([]float32, error) {
	out := make([]float32, n)
	scratch := make([]byte, batchBytes)
	const stride = 4
	perBatch := len(scratch) / stride
	i := uint64(0)
	for i < n {
		remaining := n - i
		count := uint64(perBatch)
		if remaining < count {
			count = remaining
		}
		buf := scratch[:count*stride]
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("vecindex: reading data: %w", err)
		}
		for j := uint64(0); j < count; j++ {
			bits := binary.LittleEndian.Uint32(buf[j*stride : j*stride+stride])
			out[i+j] = math.Float32frombits(bits)
		}
		i += count
	}
	return out, nil
}
