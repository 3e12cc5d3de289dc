package curve

import (
	"errors"
	"fmt"
	"io"

	"github.com/cloudflare/circl/group"
	"github.com/taurusgroup/linkable-ring-sig/internal/params"
)

// sec1Uncompressed is the SEC1 tag byte of an uncompressed point.
const sec1Uncompressed = 0x04

// Point is an element of the P-256 group.
//
// The zero value is the identity.
type Point struct {
	e group.Element
}

// NewBasePoint returns the generator G of the group.
func NewBasePoint() *Point {
	return &Point{e: p256.Generator()}
}

// FromAffine returns the point with affine coordinates (x, y), each given as an
// unsigned big-endian integer of at most params.BytesCoordinate bytes.
//
// An error is returned if (x, y) is not on the curve.
func FromAffine(x, y []byte) (*Point, error) {
	if len(x) > params.BytesCoordinate || len(y) > params.BytesCoordinate {
		return nil, errors.New("curve.FromAffine: coordinate is too large")
	}
	data := make([]byte, params.BytesPoint)
	data[0] = sec1Uncompressed
	copy(data[1+params.BytesCoordinate-len(x):1+params.BytesCoordinate], x)
	copy(data[params.BytesPoint-len(y):], y)
	var p Point
	if err := p.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("curve.FromAffine: %w", err)
	}
	return &p, nil
}

func (v *Point) element() group.Element {
	if v.e == nil {
		return p256.Identity()
	}
	return v.e
}

// Set sets v = p, and returns v.
func (v *Point) Set(p *Point) *Point {
	v.e = p.element().Copy()
	return v
}

// Add sets v = p + q, and returns v.
func (v *Point) Add(p, q *Point) *Point {
	v.e = p256.NewElement().Add(p.element(), q.element())
	return v
}

// ScalarMult sets v = s⋅p, and returns v.
func (v *Point) ScalarMult(s *Scalar, p *Point) *Point {
	v.e = p256.NewElement().Mul(p.element(), s.element())
	return v
}

// ScalarBaseMult sets v = s⋅G, and returns v.
func (v *Point) ScalarBaseMult(s *Scalar) *Point {
	v.e = p256.NewElement().MulGen(s.element())
	return v
}

// Equal returns true if v = p.
func (v *Point) Equal(p *Point) bool {
	return v.element().IsEqual(p.element())
}

// IsIdentity returns true if v is the identity of the group.
func (v *Point) IsIdentity() bool {
	return v.element().IsIdentity()
}

// Affine returns the big-endian affine coordinates of v, each exactly
// params.BytesCoordinate long.
//
// The identity has no affine form and is returned as (0, 0), which is not on the curve.
func (v *Point) Affine() (x, y []byte) {
	x = make([]byte, params.BytesCoordinate)
	y = make([]byte, params.BytesCoordinate)
	if v.IsIdentity() {
		return
	}
	data, err := v.element().MarshalBinary()
	if err != nil || len(data) != params.BytesPoint {
		panic(fmt.Sprintf("curve.Point.Affine: unexpected encoding: %v", err))
	}
	copy(x, data[1:1+params.BytesCoordinate])
	copy(y, data[1+params.BytesCoordinate:])
	return
}

// XBytes returns the big-endian x coordinate of v.
func (v *Point) XBytes() []byte {
	x, _ := v.Affine()
	return x
}

// WriteTo implements io.WriterTo, writing x ∥ y as returned by Affine.
//
// The identity is written as 64 zero bytes.
func (v *Point) WriteTo(w io.Writer) (int64, error) {
	x, y := v.Affine()
	n, err := w.Write(x)
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(y)
	return int64(n + m), err
}

// Bytes returns the SEC1 uncompressed encoding of v.
func (v *Point) Bytes() []byte {
	data, _ := v.MarshalBinary()
	return data
}

// String implements fmt.Stringer.
func (v *Point) String() string {
	if v == nil {
		return "nil"
	}
	if v.IsIdentity() {
		return "Point{Identity}"
	}
	x, y := v.Affine()
	return fmt.Sprintf("Point{X: %x, Y: %x}", x, y)
}

