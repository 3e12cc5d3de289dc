package ringsig

import (
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/linkable-ring-sig/pkg/hash"
	"github.com/taurusgroup/linkable-ring-sig/pkg/keys"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/curve"
)

// challenge returns SHA3-256(message ∥ x(L) ∥ y(L)), with both coordinates
// written as 32 byte big-endian integers.
//
// The digest is returned unreduced.
func challenge(message []byte, L *curve.Point) *saferith.Nat {
	h := hash.New()
	// both types are supported, and writing to the hash state cannot fail
	_ = h.WriteAny(message, L)
	return h.Nat()
}

// commit returns r⋅G + c⋅P.
func commit(P *curve.Point, r, c *saferith.Nat) *curve.Point {
	L := curve.NewScalarNat(r).ActOnBase()
	return L.Add(L, curve.NewScalarNat(c).Act(P))
}

// KeyImage returns the key image d⋅H of a private key, where H = SHA3-256(x(P))⋅G.
//
// The image only depends on the key, so two signatures by the same key carry the
// same image whatever the message or ring.
//
// Since H is a known multiple of G, the image equals h⋅P and can be computed by
// anyone holding the public key. It detects reuse by honest signers but does not
// hide which ring member produced it.
func KeyImage(key *keys.PrivateKey) (*curve.Point, error) {
	if key == nil || key.D == nil {
		return nil, ErrMissingParameter
	}
	P, err := key.PublicKey.Point()
	if err != nil {
		return nil, err
	}
	H := curve.NewScalarNat(hash.Sum256(P.XBytes())).ActOnBase()
	return key.Scalar().Act(H), nil
}
