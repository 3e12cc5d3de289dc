// Package keys holds the key formats consumed by the ring signature engine,
// and converts to and from the JWKs produced by WebCrypto.
package keys

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/linkable-ring-sig/internal/hexutil"
	"github.com/taurusgroup/linkable-ring-sig/internal/params"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/curve"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/sample"
)

// ErrInvalidKeyFormat is returned for keys on the wrong curve, of the wrong type,
// or with a malformed encoding.
var ErrInvalidKeyFormat = errors.New("keys: invalid key format")

// Key is either a PublicKey or a *PrivateKey.
type Key interface {
	Public() PublicKey
}

// PublicKey is an affine P-256 point with hex coordinates, as exchanged with the
// surrounding application.
//
// Coordinates may be unpadded. Two keys are equal when their coordinates are
// equal as integers.
type PublicKey struct {
	X     string `json:"x"`
	Y     string `json:"y"`
	Curve string `json:"curve"`
}

// NewPublicKey returns the PublicKey of a point, with 64 digit coordinates.
func NewPublicKey(p *curve.Point) PublicKey {
	x, y := p.Affine()
	return PublicKey{
		X:     hexutil.Encode(x),
		Y:     hexutil.Encode(y),
		Curve: params.CurveTag,
	}
}

// Public implements Key.
func (pk PublicKey) Public() PublicKey {
	return pk
}

// Point parses the key, checking the curve tag and that the point lies on the curve.
func (pk PublicKey) Point() (*curve.Point, error) {
	if pk.Curve != params.CurveTag {
		return nil, fmt.Errorf("%w: curve %q, expected %q", ErrInvalidKeyFormat, pk.Curve, params.CurveTag)
	}
	p, err := curve.AffineJSON{X: pk.X, Y: pk.Y}.Point()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}
	return p, nil
}

// Equal compares the coordinates of two keys as integers.
func (pk PublicKey) Equal(other PublicKey) bool {
	x1, err1 := hexutil.Decode(pk.X, params.BytesCoordinate)
	x2, err2 := hexutil.Decode(other.X, params.BytesCoordinate)
	y1, err3 := hexutil.Decode(pk.Y, params.BytesCoordinate)
	y2, err4 := hexutil.Decode(other.Y, params.BytesCoordinate)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return pk.X == other.X && pk.Y == other.Y
	}
	return bytes.Equal(x1, x2) && bytes.Equal(y1, y2)
}

// normalizeCurve maps the curve names used by JWKs and older clients to the ring tag.
func normalizeCurve(name string) string {
	switch n := strings.ToLower(name); n {
	case "", "p-256", params.CurveTag:
		return params.CurveTag
	default:
		return n
	}
}

// UnmarshalJSON implements json.Unmarshaler.
//
// The curve tag is normalized, so "P-256" and a missing tag both become "p256".
func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	type plain PublicKey
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}
	raw.Curve = normalizeCurve(raw.Curve)
	if raw.Curve != params.CurveTag {
		return fmt.Errorf("%w: curve %q, expected %q", ErrInvalidKeyFormat, raw.Curve, params.CurveTag)
	}
	*pk = PublicKey(raw)
	return nil
}

// PrivateKey is a secret scalar d together with its public key d⋅G.
//
// The ring engine trusts that PublicKey matches D; Validate checks it.
type PrivateKey struct {
	D         *saferith.Nat
	PublicKey PublicKey
}

// NewPrivateKey derives the public key of d, which must lie in [1, q).
func NewPrivateKey(d *saferith.Nat) (*PrivateKey, error) {
	if err := checkScalarRange(d); err != nil {
		return nil, err
	}
	return &PrivateKey{
		D:         new(saferith.Nat).SetNat(d),
		PublicKey: NewPublicKey(curve.NewScalarNat(d).ActOnBase()),
	}, nil
}

// GenerateKey returns a fresh key pair, drawing the scalar from rand.
func GenerateKey(rand io.Reader) (*PrivateKey, error) {
	d, err := sample.Scalar(rand)
	if err != nil {
		return nil, fmt.Errorf("keys.GenerateKey: %w", err)
	}
	return NewPrivateKey(d.Nat())
}

// Public implements Key.
func (sk *PrivateKey) Public() PublicKey {
	return sk.PublicKey
}

// Scalar returns d as a curve scalar.
func (sk *PrivateKey) Scalar() *curve.Scalar {
	return curve.NewScalarNat(sk.D)
}

// Validate checks that d is in range and that PublicKey = d⋅G.
func (sk *PrivateKey) Validate() error {
	if err := checkScalarRange(sk.D); err != nil {
		return err
	}
	P, err := sk.PublicKey.Point()
	if err != nil {
		return err
	}
	if !sk.Scalar().ActOnBase().Equal(P) {
		return fmt.Errorf("%w: private scalar does not match public key", ErrInvalidKeyFormat)
	}
	return nil
}

func checkScalarRange(d *saferith.Nat) error {
	if d == nil {
		return fmt.Errorf("%w: missing private scalar", ErrInvalidKeyFormat)
	}
	_, _, lt := d.CmpMod(curve.Order())
	if d.EqZero() == 1 || lt != 1 {
		return fmt.Errorf("%w: private scalar out of range", ErrInvalidKeyFormat)
	}
	return nil
}
