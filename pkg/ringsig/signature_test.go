package ringsig

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedHex = regexp.MustCompile(`^[0-9a-f]{64}$`)

// generatorJSON is the P-256 base point.
const generatorJSON = `{"x":"6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",` +
	`"y":"4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5"}`

func TestSignature_JSON(t *testing.T) {
	secrets, ring := newRing(t, 3, "json")
	sig, err := Sign(secrets[1], ring, []byte("1234"))
	require.NoError(t, err)

	data, err := json.Marshal(sig)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 3)
	for _, field := range []string{"keyImage", "c", "r"} {
		assert.Contains(t, raw, field)
	}
	var values []string
	require.NoError(t, json.Unmarshal(raw["c"], &values))
	require.Len(t, values, 3)
	for _, v := range values {
		assert.Regexp(t, fixedHex, v)
	}

	var decoded Signature
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, sig.Equal(&decoded))

	again, err := json.Marshal(&decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	ok, err := Verify(&decoded, ring, []byte("1234"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignature_JSONUnpadded(t *testing.T) {
	secrets, ring := newRing(t, 2, "json unpadded")
	sig, err := Sign(secrets[0], ring, []byte("m"))
	require.NoError(t, err)
	data, err := json.Marshal(sig)
	require.NoError(t, err)

	var fields struct {
		KeyImage map[string]string `json:"keyImage"`
		C        []string          `json:"c"`
		R        []string          `json:"r"`
	}
	require.NoError(t, json.Unmarshal(data, &fields))
	for i := range fields.C {
		fields.C[i] = strings.TrimLeft(fields.C[i], "0")
		fields.R[i] = strings.TrimLeft(fields.R[i], "0")
	}
	fields.KeyImage["x"] = strings.ToUpper(fields.KeyImage["x"])
	loose, err := json.Marshal(fields)
	require.NoError(t, err)

	var decoded Signature
	require.NoError(t, json.Unmarshal(loose, &decoded))
	assert.True(t, sig.Equal(&decoded))
}

func TestSignature_JSONErrors(t *testing.T) {
	tests := map[string]string{
		"not an object":     `[1, 2]`,
		"missing key image": `{"c":["01"],"r":["02"]}`,
		"bad hex":           `{"keyImage":` + generatorJSON + `,"c":["zz"],"r":["02"]}`,
		"off curve":         `{"keyImage":{"x":"01","y":"02"},"c":["01"],"r":["02"]}`,
		"too long":          `{"keyImage":` + generatorJSON + `,"c":["` + strings.Repeat("1", 66) + `"],"r":["02"]}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			var sig Signature
			assert.Error(t, json.Unmarshal([]byte(data), &sig))
		})
	}

	_, err := json.Marshal(&Signature{})
	assert.ErrorIs(t, err, ErrMalformedSignature)
}

func TestSignature_CBOR(t *testing.T) {
	secrets, ring := newRing(t, 8, "cbor")
	sig, err := Sign(secrets[7], ring, []byte("cbor"))
	require.NoError(t, err)

	data, err := sig.MarshalBinary()
	require.NoError(t, err)

	var decoded Signature
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.True(t, sig.Equal(&decoded))

	again, err := decoded.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, again)

	ok, err := Verify(&decoded, ring, []byte("cbor"))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Error(t, decoded.UnmarshalBinary(data[:len(data)/2]))
	assert.Error(t, decoded.UnmarshalBinary([]byte{0xa0}))
}

func TestSignature_Equal(t *testing.T) {
	secrets, ring := newRing(t, 2, "equal")
	a, err := Sign(secrets[0], ring, []byte("m"))
	require.NoError(t, err)
	b := cloneSignature(a)
	assert.True(t, a.Equal(b))

	b.C = b.C[:1]
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Signature)(nil).Equal(nil))
}
