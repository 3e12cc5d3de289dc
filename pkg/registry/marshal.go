package registry

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/linkable-ring-sig/pkg/keys"
	"github.com/taurusgroup/linkable-ring-sig/pkg/ringsig"
)

type entryMarshal struct {
	Signature []byte
	Ring      []keys.PublicKey
	Message   []byte
	CaseID    string
}

// MarshalBinary returns a CBOR snapshot of the registry.
func (r *Registry) MarshalBinary() ([]byte, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	out := make([]entryMarshal, 0, len(r.entries))
	for _, e := range r.entries {
		sig, err := e.Signature.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("registry: entry %d: %w", e.Index, err)
		}
		out = append(out, entryMarshal{
			Signature: sig,
			Ring:      e.Ring,
			Message:   e.Message,
			CaseID:    e.CaseID,
		})
	}
	return cbor.Marshal(out)
}

// UnmarshalBinary replaces the contents of r with a snapshot.
//
// Every entry is verified again, and the snapshot is rejected if any entry fails
// or two entries share a key image. Restored entries are not logged one by one.
func (r *Registry) UnmarshalBinary(data []byte) error {
	var in []entryMarshal
	if err := cbor.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	restored := New(WithEngine(r.engine))
	for i, em := range in {
		var sig ringsig.Signature
		if err := sig.UnmarshalBinary(em.Signature); err != nil {
			return fmt.Errorf("registry: entry %d: %w", i, err)
		}
		if _, err := restored.Register(Submission{
			Signature: &sig,
			Ring:      em.Ring,
			Message:   em.Message,
			CaseID:    em.CaseID,
		}); err != nil {
			return fmt.Errorf("registry: entry %d: %w", i, err)
		}
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.entries = restored.entries
	r.seen = restored.seen
	r.log.Info().Int("entries", len(r.entries)).Msg("restored snapshot")
	return nil
}
