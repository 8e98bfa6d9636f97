package vecindex

import "errors"

// ErrCorruptSnapshot is returned by Load when a snapshot's declared lengths
// are inconsistent or its trailing checksum does not match the bytes read.
// Unlike the dimension-mismatch panics elsewhere in this package, a
// corrupt snapshot is an I/O-boundary condition, not a caller contract
// violation, so it is a returned error rather than a panic.
var ErrCorruptSnapshot = errors.New("vecindex: corrupt snapshot")
