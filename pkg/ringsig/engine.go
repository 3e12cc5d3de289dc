// Package ringsig implements linkable ring signatures over P-256.
//
// A signature proves that the signer holds the private key of one member of a
// ring of public keys, without revealing which one. Every signature carries the
// key image of its signer, so that two signatures made with the same key can be
// linked.
package ringsig

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/linkable-ring-sig/internal/params"
	"github.com/taurusgroup/linkable-ring-sig/pkg/keys"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/curve"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/sample"
	"github.com/taurusgroup/linkable-ring-sig/pkg/pool"
)

// Engine creates and verifies ring signatures.
//
// An Engine is safe for concurrent use.
type Engine struct {
	rand io.Reader
	pl   *pool.Pool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom sets the source of randomness used by Create.
//
// The reader is wrapped in a pool.LockedReader, so a deterministic reader such as
// sample.Seeded may be shared between goroutines.
func WithRandom(r io.Reader) Option {
	return func(e *Engine) {
		if r != nil {
			e.rand = pool.NewLockedReader(r)
		}
	}
}

// WithPool makes Verify compute the ring commitments on pl.
func WithPool(pl *pool.Pool) Option {
	return func(e *Engine) {
		e.pl = pl
	}
}

// NewEngine returns an Engine reading from crypto/rand, without a pool.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{rand: rand.Reader}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Sign calls Create on an Engine with default options.
func Sign(key *keys.PrivateKey, ring []keys.PublicKey, message []byte) (*Signature, error) {
	return defaultEngine.Create(key, ring, message)
}

// Verify calls Verify on an Engine with default options.
func Verify(sig *Signature, ring []keys.PublicKey, message []byte) (bool, error) {
	return defaultEngine.Verify(sig, ring, message)
}

// Create signs message on behalf of ring, using key.
//
// The public key of key must appear in ring. The returned signature has one
// challenge and one response per ring member, in ring order.
func (e *Engine) Create(key *keys.PrivateKey, ring []keys.PublicKey, message []byte) (*Signature, error) {
	if key == nil || key.D == nil || message == nil || len(ring) < params.MinRingSize {
		return nil, fmt.Errorf("ringsig.Create: %w", ErrMissingParameter)
	}
	if err := curve.Check(); err != nil {
		return nil, fmt.Errorf("ringsig.Create: %w", err)
	}

	n := len(ring)
	points, err := parseRing(ring)
	if err != nil {
		return nil, fmt.Errorf("ringsig.Create: %w", err)
	}
	signer := -1
	for i := range ring {
		if ring[i].Equal(key.PublicKey) {
			signer = i
			break
		}
	}
	if signer < 0 {
		return nil, fmt.Errorf("ringsig.Create: %w", ErrSignerNotInRing)
	}

	image, err := KeyImage(key)
	if err != nil {
		return nil, fmt.Errorf("ringsig.Create: key image: %w", err)
	}

	c := make([]*saferith.Nat, n)
	r := make([]*saferith.Nat, n)
	for i := range r {
		if i == signer {
			continue
		}
		ri, err := sample.Scalar(e.rand)
		if err != nil {
			return nil, fmt.Errorf("ringsig.Create: %w", err)
		}
		r[i] = ri.Nat()
	}
	u, L, err := sample.ScalarPointPair(e.rand)
	if err != nil {
		return nil, fmt.Errorf("ringsig.Create: %w", err)
	}

	c[(signer+1)%n] = challenge(message, L)
	for k := 1; k < n; k++ {
		i := (signer + k) % n
		L = commit(points[i], r[i], c[i])
		c[(i+1)%n] = challenge(message, L)
	}

	// r_s = u - d⋅c_s
	r[signer] = curve.NewScalar().MultiplySub(key.Scalar(), curve.NewScalarNat(c[signer]), u).Nat()

	return &Signature{
		KeyImage: image,
		C:        c,
		R:        r,
	}, nil
}

// Verify reports whether sig is a signature of message by a member of ring.
//
// An error is returned only for bad input. A nil message or a ring with fewer than
// two keys fails with ErrMissingParameter, as in Create, whatever the shape of sig.
// A signature whose lengths do not match the ring, or a ring key that cannot be
// parsed, fails with ErrMalformedSignature. A well-formed signature whose
// challenge chain does not close yields false.
//
// Only the chain is checked: the key image is not bound to the challenges, and
// two signatures are linked by comparing their images with Link.
func (e *Engine) Verify(sig *Signature, ring []keys.PublicKey, message []byte) (bool, error) {
	if message == nil || len(ring) < params.MinRingSize {
		return false, fmt.Errorf("ringsig.Verify: %w", ErrMissingParameter)
	}
	if err := curve.Check(); err != nil {
		return false, fmt.Errorf("ringsig.Verify: %w", err)
	}
	if err := sig.validate(len(ring)); err != nil {
		return false, fmt.Errorf("ringsig.Verify: %w", err)
	}
	points, err := parseRing(ring)
	if err != nil {
		return false, fmt.Errorf("ringsig.Verify: %w: %w", ErrMalformedSignature, err)
	}

	n := len(ring)
	expected := e.pl.Parallelize(n, func(i int) interface{} {
		return challenge(message, commit(points[i], sig.R[i], sig.C[i]))
	})
	for i := 0; i < n; i++ {
		if expected[i].(*saferith.Nat).Eq(sig.C[(i+1)%n]) != 1 {
			return false, nil
		}
	}
	return true, nil
}

func parseRing(ring []keys.PublicKey) ([]*curve.Point, error) {
	points := make([]*curve.Point, len(ring))
	for i := range ring {
		p, err := ring[i].Point()
		if err != nil {
			return nil, fmt.Errorf("ring member %d: %w", i, err)
		}
		points[i] = p
	}
	return points, nil
}
