package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/curve"
)

// ParseJWK converts a JSON Web Key into the ring format.
//
// The key must have kty "EC" and crv "P-256". If the private component d is
// present a *PrivateKey is returned, otherwise a PublicKey.
func ParseJWK(data []byte) (Key, error) {
	k, err := jwk.ParseKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}
	return FromJWK(k)
}

// FromJWK is ParseJWK for a key which was already parsed.
func FromJWK(k jwk.Key) (Key, error) {
	if k.KeyType() != jwa.EC {
		return nil, fmt.Errorf("%w: key type %q, expected %q", ErrInvalidKeyFormat, k.KeyType(), jwa.EC)
	}
	switch key := k.(type) {
	case jwk.ECDSAPrivateKey:
		if key.Crv() != jwa.P256 {
			return nil, fmt.Errorf("%w: curve %q, expected %q", ErrInvalidKeyFormat, key.Crv(), curve.Name())
		}
		pk, err := publicFromCoordinates(key.X(), key.Y())
		if err != nil {
			return nil, err
		}
		sk := &PrivateKey{
			D:         new(saferith.Nat).SetBytes(key.D()),
			PublicKey: pk,
		}
		if err = sk.Validate(); err != nil {
			return nil, err
		}
		return sk, nil
	case jwk.ECDSAPublicKey:
		if key.Crv() != jwa.P256 {
			return nil, fmt.Errorf("%w: curve %q, expected %q", ErrInvalidKeyFormat, key.Crv(), curve.Name())
		}
		return publicFromCoordinates(key.X(), key.Y())
	default:
		return nil, fmt.Errorf("%w: unsupported key %T", ErrInvalidKeyFormat, k)
	}
}

func publicFromCoordinates(x, y []byte) (PublicKey, error) {
	p, err := curve.FromAffine(x, y)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}
	return NewPublicKey(p), nil
}

func (pk PublicKey) toECDSA() (*ecdsa.PublicKey, error) {
	p, err := pk.Point()
	if err != nil {
		return nil, err
	}
	x, y := p.Affine()
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(x),
		Y:     new(big.Int).SetBytes(y),
	}, nil
}

// JWK returns the key as a public P-256 JWK.
func (pk PublicKey) JWK() (jwk.Key, error) {
	raw, err := pk.toECDSA()
	if err != nil {
		return nil, err
	}
	return jwk.FromRaw(raw)
}

// JWK returns the key as a private P-256 JWK, including its public coordinates.
func (sk *PrivateKey) JWK() (jwk.Key, error) {
	if err := sk.Validate(); err != nil {
		return nil, err
	}
	pub, err := sk.PublicKey.toECDSA()
	if err != nil {
		return nil, err
	}
	return jwk.FromRaw(&ecdsa.PrivateKey{PublicKey: *pub, D: sk.D.Big()})
}
