package ringsig

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/linkable-ring-sig/internal/hexutil"
	"github.com/taurusgroup/linkable-ring-sig/internal/params"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/curve"
)

// Signature is a linkable ring signature.
//
// C[i] is the challenge entering ring position i, kept as the raw digest.
// R[i] is the response of position i.
type Signature struct {
	KeyImage *curve.Point
	C        []*saferith.Nat
	R        []*saferith.Nat
}

// Link reports whether a and b were made with the same private key.
func Link(a, b *Signature) bool {
	if a == nil || b == nil || a.KeyImage == nil || b.KeyImage == nil {
		return false
	}
	return a.KeyImage.Equal(b.KeyImage)
}

// Equal reports whether both signatures have the same key image, challenges and responses.
func (sig *Signature) Equal(other *Signature) bool {
	if sig == nil || other == nil {
		return sig == other
	}
	if (sig.KeyImage == nil) != (other.KeyImage == nil) {
		return false
	}
	if sig.KeyImage != nil && !sig.KeyImage.Equal(other.KeyImage) {
		return false
	}
	return equalNats(sig.C, other.C) && equalNats(sig.R, other.R)
}

func equalNats(a, b []*saferith.Nat) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if a[i].Eq(b[i]) != 1 {
			return false
		}
	}
	return true
}

// validate checks the shape of a signature against a ring of size n.
func (sig *Signature) validate(n int) error {
	if sig == nil {
		return fmt.Errorf("%w: signature is nil", ErrMalformedSignature)
	}
	if len(sig.C) != n || len(sig.R) != n {
		return fmt.Errorf("%w: got %d challenges and %d responses for a ring of %d",
			ErrMalformedSignature, len(sig.C), len(sig.R), n)
	}
	for i := 0; i < n; i++ {
		if sig.C[i] == nil || sig.R[i] == nil {
			return fmt.Errorf("%w: missing value at position %d", ErrMalformedSignature, i)
		}
	}
	return nil
}

func natBytes(x *saferith.Nat) ([]byte, error) {
	if x == nil {
		return nil, errors.New("value is nil")
	}
	b := x.Big()
	if b.BitLen() > 8*params.BytesScalar {
		return nil, fmt.Errorf("value has %d bits", b.BitLen())
	}
	return b.FillBytes(make([]byte, params.BytesScalar)), nil
}

func natsFromBytes(values [][]byte) ([]*saferith.Nat, error) {
	out := make([]*saferith.Nat, len(values))
	for i, v := range values {
		if len(v) > params.BytesScalar {
			return nil, fmt.Errorf("%w: value %d is %d bytes long", ErrMalformedSignature, i, len(v))
		}
		padded := make([]byte, params.BytesScalar)
		copy(padded[params.BytesScalar-len(v):], v)
		out[i] = new(saferith.Nat).SetBytes(padded)
	}
	return out, nil
}

type signatureJSON struct {
	KeyImage *curve.Point `json:"keyImage"`
	C        []string     `json:"c"`
	R        []string     `json:"r"`
}

// MarshalJSON implements json.Marshaler.
//
// Challenges and responses are written as 64 digit lowercase hex.
func (sig *Signature) MarshalJSON() ([]byte, error) {
	if sig.KeyImage == nil {
		return nil, fmt.Errorf("ringsig.Signature: %w: missing key image", ErrMalformedSignature)
	}
	out := signatureJSON{
		KeyImage: sig.KeyImage,
		C:        make([]string, len(sig.C)),
		R:        make([]string, len(sig.R)),
	}
	for i, c := range sig.C {
		b, err := natBytes(c)
		if err != nil {
			return nil, fmt.Errorf("ringsig.Signature: %w: c[%d]: %v", ErrMalformedSignature, i, err)
		}
		out.C[i] = hexutil.Encode(b)
	}
	for i, r := range sig.R {
		b, err := natBytes(r)
		if err != nil {
			return nil, fmt.Errorf("ringsig.Signature: %w: r[%d]: %v", ErrMalformedSignature, i, err)
		}
		out.R[i] = hexutil.Encode(b)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
//
// Values may be unpadded or of odd length, as long as they fit in 32 bytes.
func (sig *Signature) UnmarshalJSON(data []byte) error {
	var in signatureJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("ringsig.Signature: %w: %v", ErrMalformedSignature, err)
	}
	if in.KeyImage == nil {
		return fmt.Errorf("ringsig.Signature: %w: missing key image", ErrMalformedSignature)
	}
	c, err := natsFromHex(in.C)
	if err != nil {
		return fmt.Errorf("ringsig.Signature: c: %w", err)
	}
	r, err := natsFromHex(in.R)
	if err != nil {
		return fmt.Errorf("ringsig.Signature: r: %w", err)
	}
	sig.KeyImage, sig.C, sig.R = in.KeyImage, c, r
	return nil
}

func natsFromHex(values []string) ([]*saferith.Nat, error) {
	raw := make([][]byte, len(values))
	for i, v := range values {
		b, err := hexutil.Decode(v, params.BytesScalar)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %v", ErrMalformedSignature, i, err)
		}
		raw[i] = b
	}
	return natsFromBytes(raw)
}

type signatureCBOR struct {
	KeyImage []byte   `cbor:"1,keyasint"`
	C        [][]byte `cbor:"2,keyasint"`
	R        [][]byte `cbor:"3,keyasint"`
}

// MarshalBinary implements encoding.BinaryMarshaler, encoding the signature as CBOR.
func (sig *Signature) MarshalBinary() ([]byte, error) {
	if sig.KeyImage == nil {
		return nil, fmt.Errorf("ringsig.Signature: %w: missing key image", ErrMalformedSignature)
	}
	image, err := sig.KeyImage.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("ringsig.Signature: key image: %w", err)
	}
	out := signatureCBOR{
		KeyImage: image,
		C:        make([][]byte, len(sig.C)),
		R:        make([][]byte, len(sig.R)),
	}
	for i := range sig.C {
		if out.C[i], err = natBytes(sig.C[i]); err != nil {
			return nil, fmt.Errorf("ringsig.Signature: %w: c[%d]: %v", ErrMalformedSignature, i, err)
		}
	}
	for i := range sig.R {
		if out.R[i], err = natBytes(sig.R[i]); err != nil {
			return nil, fmt.Errorf("ringsig.Signature: %w: r[%d]: %v", ErrMalformedSignature, i, err)
		}
	}
	return cbor.Marshal(out)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (sig *Signature) UnmarshalBinary(data []byte) error {
	var in signatureCBOR
	if err := cbor.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("ringsig.Signature: %w: %v", ErrMalformedSignature, err)
	}
	var image curve.Point
	if err := image.UnmarshalBinary(in.KeyImage); err != nil {
		return fmt.Errorf("ringsig.Signature: %w: key image: %v", ErrMalformedSignature, err)
	}
	c, err := natsFromBytes(in.C)
	if err != nil {
		return fmt.Errorf("ringsig.Signature: c: %w", err)
	}
	r, err := natsFromBytes(in.R)
	if err != nil {
		return fmt.Errorf("ringsig.Signature: r: %w", err)
	}
	sig.KeyImage, sig.C, sig.R = &image, c, r
	return nil
}
