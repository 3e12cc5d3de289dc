package curve

import (
	"github.com/cloudflare/circl/group"
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/linkable-ring-sig/internal/params"
)

// Scalar is an element of ℤ_q.
//
// Every way of setting a Scalar reduces its input mod q, so values which are
// larger than the order, such as raw challenge digests, can be passed in directly.
type Scalar struct {
	s saferith.Nat
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	var s Scalar
	s.s.Mod(new(saferith.Nat).SetUint64(0), q)
	return &s
}

// NewScalarNat returns x mod q.
func NewScalarNat(x *saferith.Nat) *Scalar {
	return NewScalar().SetNat(x)
}

// SetNat sets s = x mod q, and returns s.
func (s *Scalar) SetNat(x *saferith.Nat) *Scalar {
	s.s.Mod(x, q)
	return s
}

// SetBytes interprets b as an unsigned big-endian integer, and sets s to it mod q.
func (s *Scalar) SetBytes(b []byte) *Scalar {
	return s.SetNat(new(saferith.Nat).SetBytes(b))
}

// Set sets s = x, and returns s.
func (s *Scalar) Set(x *Scalar) *Scalar {
	s.s.SetNat(&x.s)
	return s
}

// Subtract sets s = x - y mod q, and returns s.
func (s *Scalar) Subtract(x, y *Scalar) *Scalar {
	s.s.ModSub(&x.s, &y.s, q)
	return s
}

// Multiply sets s = x * y mod q, and returns s.
func (s *Scalar) Multiply(x, y *Scalar) *Scalar {
	s.s.ModMul(&x.s, &y.s, q)
	return s
}

// MultiplySub sets s = z - x * y mod q, and returns s.
func (s *Scalar) MultiplySub(x, y, z *Scalar) *Scalar {
	xy := NewScalar().Multiply(x, y)
	return s.Subtract(z, xy)
}

// Equal returns true if s = x.
func (s *Scalar) Equal(x *Scalar) bool {
	return s.s.Eq(&x.s) == 1
}

// IsZero returns true if s = 0.
func (s *Scalar) IsZero() bool {
	return s.s.EqZero() == 1
}

// Nat returns a copy of s as a natural number in [0, q).
func (s *Scalar) Nat() *saferith.Nat {
	return new(saferith.Nat).SetNat(&s.s)
}

// Bytes returns the big-endian encoding of s, always params.BytesScalar long.
func (s *Scalar) Bytes() []byte {
	return s.s.Big().FillBytes(make([]byte, params.BytesScalar))
}

// ActOnBase returns s⋅G.
func (s *Scalar) ActOnBase() *Point {
	var p Point
	return p.ScalarBaseMult(s)
}

// Act returns s⋅p.
func (s *Scalar) Act(p *Point) *Point {
	var out Point
	return out.ScalarMult(s, p)
}

func (s *Scalar) element() group.Scalar {
	return p256.NewScalar().SetBigInt(s.s.Big())
}
