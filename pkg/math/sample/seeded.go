package sample

import (
	"io"

	"github.com/zeebo/blake3"
)

// seededDomain separates seeded streams from any other use of blake3 with the same input.
const seededDomain = "linkable-ring-sig/sample/seeded"

// Seeded returns a deterministic stream of bytes derived from seed.
//
// The stream is the extendable output of blake3 over the seed. It is meant
// for reproducible test vectors: two readers with the same seed produce the same
// signatures. It must never be used to sign real ballots.
func Seeded(seed []byte) io.Reader {
	h := blake3.New()
	_, _ = h.Write([]byte(seededDomain))
	_, _ = h.Write(seed)
	return h.Digest()
}
