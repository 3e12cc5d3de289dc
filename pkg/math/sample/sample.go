package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/curve"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func readBits(rand io.Reader, buf []byte) error {
	var err error
	for i := 0; i < maxIterations; i++ {
		if _, err = io.ReadFull(rand, buf); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrMaxIterations, err)
}

// ModN samples a uniform element of [0, n).
func ModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		if err := readBits(rand, buf); err != nil {
			return nil, err
		}
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			return out, nil
		}
	}
}

// Scalar samples a uniform non-zero scalar, that is an element of [1, q).
//
// Errors only come from the reader.
func Scalar(rand io.Reader) (*curve.Scalar, error) {
	q := curve.Order()
	for i := 0; i < maxIterations; i++ {
		n, err := ModN(rand, q)
		if err != nil {
			return nil, err
		}
		if n.EqZero() == 1 {
			continue
		}
		return curve.NewScalarNat(n), nil
	}
	return nil, ErrMaxIterations
}

// ScalarPointPair returns a random non-zero scalar x, along with X = x⋅G.
func ScalarPointPair(rand io.Reader) (*curve.Scalar, *curve.Point, error) {
	x, err := Scalar(rand)
	if err != nil {
		return nil, nil, err
	}
	return x, x.ActOnBase(), nil
}
