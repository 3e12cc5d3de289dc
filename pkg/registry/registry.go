// Package registry keeps a ledger of accepted ring signatures and refuses a second
// signature carrying a key image it has already seen.
//
// It is the registration step of a voting flow: every voter signs on behalf of the
// whole electorate, and the key image stops anyone from registering twice.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/linkable-ring-sig/pkg/keys"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/curve"
	"github.com/taurusgroup/linkable-ring-sig/pkg/ringsig"
)

var (
	ErrAlreadyRegistered = errors.New("registry: key image already registered")
	ErrInvalidSignature  = errors.New("registry: invalid signature")
)

// Submission is a signature presented for registration.
type Submission struct {
	Signature *ringsig.Signature
	Ring      []keys.PublicKey
	Message   []byte
	// CaseID optionally names the ballot the signature belongs to. It is stored as is.
	CaseID string
}

// Entry is an accepted Submission.
type Entry struct {
	Submission
	Index int
}

// Registry is safe for concurrent use.
type Registry struct {
	mtx     sync.RWMutex
	engine  *ringsig.Engine
	log     zerolog.Logger
	entries []*Entry
	// seen maps the SEC1 encoding of a key image to its entry index.
	seen map[string]int
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// WithEngine sets the engine used to verify submissions.
func WithEngine(e *ringsig.Engine) Option {
	return func(r *Registry) {
		if e != nil {
			r.engine = e
		}
	}
}

// New returns an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		engine: ringsig.NewEngine(),
		log:    zerolog.Nop(),
		seen:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register verifies s and records it.
//
// The ring and message are copied, so the caller may reuse them afterwards.
//
// It fails with ErrInvalidSignature if the signature does not verify against its
// ring and message, and with ErrAlreadyRegistered if its key image was already
// recorded. Of several concurrent submissions with the same key image exactly one
// is accepted.
func (r *Registry) Register(s Submission) (*Entry, error) {
	if s.Signature == nil || s.Signature.KeyImage == nil {
		r.log.Debug().Str("case", s.CaseID).Msg("rejected submission without key image")
		return nil, fmt.Errorf("%w: missing key image", ErrInvalidSignature)
	}
	image := s.Signature.KeyImage
	ok, err := r.engine.Verify(s.Signature, s.Ring, s.Message)
	if err != nil {
		r.log.Debug().Err(err).Hex("key_image", image.XBytes()).Str("case", s.CaseID).Msg("rejected malformed signature")
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if !ok {
		r.log.Debug().Hex("key_image", image.XBytes()).Str("case", s.CaseID).Msg("rejected signature")
		return nil, ErrInvalidSignature
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()
	key := string(image.Bytes())
	if idx, dup := r.seen[key]; dup {
		r.log.Warn().Hex("key_image", image.XBytes()).Int("entry", idx).Str("case", s.CaseID).Msg("voter already registered")
		return nil, fmt.Errorf("%w: entry %d", ErrAlreadyRegistered, idx)
	}
	s.Ring = append([]keys.PublicKey(nil), s.Ring...)
	s.Message = append([]byte{}, s.Message...)
	e := &Entry{Submission: s, Index: len(r.entries)}
	r.entries = append(r.entries, e)
	r.seen[key] = e.Index
	r.log.Info().Hex("key_image", image.XBytes()).Int("entry", e.Index).Int("ring", len(s.Ring)).Str("case", s.CaseID).Msg("registered")
	return e, nil
}

// Seen reports whether a signature with this key image was registered.
func (r *Registry) Seen(image *curve.Point) bool {
	if image == nil || image.IsIdentity() {
		return false
	}
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	_, ok := r.seen[string(image.Bytes())]
	return ok
}

// Len returns the number of registered signatures.
func (r *Registry) Len() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.entries)
}

// Entries returns the registered signatures in registration order.
func (r *Registry) Entries() []*Entry {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
