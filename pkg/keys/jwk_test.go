package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(b []byte, size int) string {
	padded := make([]byte, size)
	copy(padded[size-len(b):], b)
	return base64.RawURLEncoding.EncodeToString(padded)
}

// webCryptoJWK mimics crypto.subtle.exportKey("jwk", ...) for an ECDSA key.
func webCryptoJWK(t *testing.T, c elliptic.Curve, crv string, private bool) (*ecdsa.PrivateKey, []byte) {
	key, err := ecdsa.GenerateKey(c, rand.Reader)
	require.NoError(t, err)
	size := (c.Params().BitSize + 7) / 8
	fields := map[string]interface{}{
		"kty":     "EC",
		"crv":     crv,
		"x":       b64(key.X.Bytes(), size),
		"y":       b64(key.Y.Bytes(), size),
		"ext":     true,
		"key_ops": []string{"verify"},
	}
	if private {
		fields["d"] = b64(key.D.Bytes(), size)
		fields["key_ops"] = []string{"sign"}
	}
	data, err := json.Marshal(fields)
	require.NoError(t, err)
	return key, data
}

func TestParseJWK_Private(t *testing.T) {
	raw, data := webCryptoJWK(t, elliptic.P256(), "P-256", true)
	k, err := ParseJWK(data)
	require.NoError(t, err)

	sk, ok := k.(*PrivateKey)
	require.True(t, ok, "expected a private key, got %T", k)
	assert.Equal(t, 0, sk.D.Big().Cmp(raw.D))
	assert.Equal(t, fmt.Sprintf("%064x", raw.X), sk.PublicKey.X)
	assert.Equal(t, fmt.Sprintf("%064x", raw.Y), sk.PublicKey.Y)
	assert.Equal(t, "p256", sk.PublicKey.Curve)
}

func TestParseJWK_Public(t *testing.T) {
	raw, data := webCryptoJWK(t, elliptic.P256(), "P-256", false)
	k, err := ParseJWK(data)
	require.NoError(t, err)

	pk, ok := k.(PublicKey)
	require.True(t, ok, "expected a public key, got %T", k)
	assert.Equal(t, fmt.Sprintf("%064x", raw.X), pk.X)
	assert.Equal(t, pk, k.Public())
}

func TestParseJWK_Rejects(t *testing.T) {
	_, p384 := webCryptoJWK(t, elliptic.P384(), "P-384", true)
	_, mislabelled := webCryptoJWK(t, elliptic.P384(), "P-256", false)
	_, valid := webCryptoJWK(t, elliptic.P256(), "P-256", true)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(valid, &fields))
	fields["d"] = b64([]byte{1}, 32)
	wrongD, err := json.Marshal(fields)
	require.NoError(t, err)

	tests := map[string][]byte{
		"wrong curve":        p384,
		"point not on P-256": mislabelled,
		"symmetric key":      []byte(`{"kty":"oct","k":"c2VjcmV0"}`),
		"bad base64":         []byte(`{"kty":"EC","crv":"P-256","x":"!!!","y":"!!!"}`),
		"not json":           []byte(`not a key`),
		"mismatched d":       wrongD,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJWK(data)
			assert.ErrorIs(t, err, ErrInvalidKeyFormat)
		})
	}
}

func TestParseJWK_WrongCurveMessage(t *testing.T) {
	_, p384 := webCryptoJWK(t, elliptic.P384(), "P-384", false)
	_, err := ParseJWK(p384)
	require.ErrorIs(t, err, ErrInvalidKeyFormat)
	assert.Contains(t, err.Error(), `expected "P-256"`)
}

func TestJWK_RoundTrip(t *testing.T) {
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)

	k, err := sk.JWK()
	require.NoError(t, err)
	data, err := json.Marshal(k)
	require.NoError(t, err)

	back, err := ParseJWK(data)
	require.NoError(t, err)
	sk2, ok := back.(*PrivateKey)
	require.True(t, ok)
	assert.True(t, sk.PublicKey.Equal(sk2.PublicKey))
	assert.Equal(t, 0, sk.D.Big().Cmp(sk2.D.Big()))

	pub, err := sk.PublicKey.JWK()
	require.NoError(t, err)
	_, isPrivate := pub.(jwk.ECDSAPrivateKey)
	assert.False(t, isPrivate)
	back, err = FromJWK(pub)
	require.NoError(t, err)
	assert.True(t, sk.PublicKey.Equal(back.Public()))
}
