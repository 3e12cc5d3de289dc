package curve

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/taurusgroup/linkable-ring-sig/internal/hexutil"
	"github.com/taurusgroup/linkable-ring-sig/internal/params"
)

// MarshalBinary implements encoding.BinaryMarshaler.
//
// The encoding is SEC1 uncompressed: 0x04 ∥ x ∥ y.
func (v *Point) MarshalBinary() ([]byte, error) {
	if v == nil {
		return nil, errors.New("curve.Point.MarshalBinary: point is nil")
	}
	if v.IsIdentity() {
		return nil, errors.New("curve.Point.MarshalBinary: tried to marshal identity")
	}
	return v.element().MarshalBinary()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// Only uncompressed points are accepted, and the identity is rejected.
func (v *Point) UnmarshalBinary(data []byte) error {
	if len(data) != params.BytesPoint {
		return fmt.Errorf("curve.Point.UnmarshalBinary: invalid length %d", len(data))
	}
	if data[0] != sec1Uncompressed {
		return errors.New("curve.Point.UnmarshalBinary: incorrect format")
	}
	e := p256.NewElement()
	if err := e.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("curve.Point.UnmarshalBinary: invalid point: %w", err)
	}
	if e.IsIdentity() {
		return errors.New("curve.Point.UnmarshalBinary: point is the identity")
	}
	v.e = e
	return nil
}

// AffineJSON is the JSON form of a point: its affine coordinates in hex.
type AffineJSON struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// MarshalJSON implements json.Marshaler.
func (v *Point) MarshalJSON() ([]byte, error) {
	if v.IsIdentity() {
		return nil, errors.New("curve.Point.MarshalJSON: tried to marshal identity")
	}
	x, y := v.Affine()
	return json.Marshal(AffineJSON{X: hexutil.Encode(x), Y: hexutil.Encode(y)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Point) UnmarshalJSON(data []byte) error {
	var a AffineJSON
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("curve.Point: failed to unmarshal affine point: %w", err)
	}
	p, err := a.Point()
	if err != nil {
		return err
	}
	v.e = p.e
	return nil
}

// Point parses the coordinates and checks that they lie on the curve.
func (a AffineJSON) Point() (*Point, error) {
	x, err := hexutil.Decode(a.X, params.BytesCoordinate)
	if err != nil {
		return nil, fmt.Errorf("curve.Point: x coordinate: %w", err)
	}
	y, err := hexutil.Decode(a.Y, params.BytesCoordinate)
	if err != nil {
		return nil, fmt.Errorf("curve.Point: y coordinate: %w", err)
	}
	return FromAffine(x, y)
}
