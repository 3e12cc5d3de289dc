// Package hexutil decodes the loosely formatted hex strings found in ring keys
// and signatures.
//
// Keys and signatures produced by bn.js are printed without zero padding, so
// coordinates and scalars may have fewer than 64 digits, or an odd number of them.
package hexutil

import (
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrEmpty = errors.New("hexutil: empty string")

// Decode parses s as an unsigned big-endian integer and returns it left padded to
// exactly size bytes. Leading zero digits beyond size bytes are tolerated.
func Decode(s string, size int) ([]byte, error) {
	if s == "" {
		return nil, ErrEmpty
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("hexutil: %w", err)
	}
	for len(raw) > size && raw[0] == 0 {
		raw = raw[1:]
	}
	if len(raw) > size {
		return nil, fmt.Errorf("hexutil: value has %d bytes, at most %d allowed", len(raw), size)
	}
	out := make([]byte, size)
	copy(out[size-len(raw):], raw)
	return out, nil
}

// Encode returns the lowercase hex encoding of b.
func Encode(b []byte) string {
	return hex.EncodeToString(b)
}
