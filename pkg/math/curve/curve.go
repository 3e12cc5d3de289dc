// Package curve provides the arithmetic of the NIST P-256 group.
//
// Points are handled by circl's short Weierstrass implementation, and scalars
// are kept as saferith naturals reduced modulo the group order q.
// The curve parameters are immutable and shared by the whole process.
package curve

import (
	"crypto/elliptic"
	"errors"

	"github.com/cloudflare/circl/group"
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/linkable-ring-sig/internal/params"
)

// ErrCurveUninitialized is returned when the group order is unavailable.
// This is a configuration error, and not something a caller can recover from.
var ErrCurveUninitialized = errors.New("curve: group order is not initialized")

var (
	p256 = group.P256
	// q is the order of the base point. It is only read after init: Mod, ModAdd,
	// ModSub and ModMul leave their modulus untouched.
	q *saferith.Modulus
)

func init() {
	q = saferith.ModulusFromBytes(elliptic.P256().Params().N.Bytes())
}

// Name returns the name of the curve, as used in JWKs.
func Name() string {
	return params.JWKCurve
}

// Order returns a copy of q, the order of the group.
//
// Comparisons such as Nat.CmpMod write into the limbs of their modulus, so the
// shared q is never handed out.
func Order() *saferith.Modulus {
	if q == nil {
		return nil
	}
	return saferith.ModulusFromNat(q.Nat())
}

// Check returns ErrCurveUninitialized if the curve parameters are unusable.
func Check() error {
	if q == nil || q.BitLen() != params.SecParam {
		return ErrCurveUninitialized
	}
	return nil
}
