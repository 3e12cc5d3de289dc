// Package hash wraps SHA3-256, the single hash function used by ring signatures.
//
// Unlike a general purpose transcript, no domain separation or length prefixing
// is applied: data is absorbed exactly as written, so that challenges match those
// computed by existing browser clients.
package hash

import (
	"fmt"
	gohash "hash"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/linkable-ring-sig/internal/params"
	"golang.org/x/crypto/sha3"
)

// DigestLengthBytes is the size of a digest, equal to the size of a P-256 scalar.
const DigestLengthBytes = params.BytesScalar

// Hash is a SHA3-256 state that can absorb the types used by ring signatures.
type Hash struct {
	h gohash.Hash
}

// New creates an empty Hash.
func New() *Hash {
	return &Hash{h: sha3.New256()}
}

// Write implements io.Writer.
func (hash *Hash) Write(data []byte) (int, error) {
	// the underlying hash function never returns an error
	return hash.h.Write(data)
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte, written as is
//   - io.WriterTo, such as *curve.Point (x ∥ y)
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			_, _ = hash.h.Write(t)
		case io.WriterTo:
			if _, err := t.WriteTo(hash.h); err != nil {
				return fmt.Errorf("hash.Hash: write io.WriterTo: %w", err)
			}
		default:
			return fmt.Errorf("hash.Hash: unsupported type %T", d)
		}
	}
	return nil
}

// Sum returns the DigestLengthBytes digest of the current state.
// The state itself is not modified.
func (hash *Hash) Sum() []byte {
	return hash.h.Sum(nil)
}

// Nat returns the digest read as an unsigned big-endian integer.
//
// The value is not reduced modulo the group order; arithmetic in curve.Scalar
// performs the reduction when the value is used.
func (hash *Hash) Nat() *saferith.Nat {
	return new(saferith.Nat).SetBytes(hash.Sum())
}

// Sum256 returns SHA3-256(data[0] ∥ data[1] ∥ ...) as an unreduced integer.
func Sum256(data ...[]byte) *saferith.Nat {
	h := New()
	for _, d := range data {
		_, _ = h.Write(d)
	}
	return h.Nat()
}
