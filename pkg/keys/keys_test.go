package keys

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/linkable-ring-sig/pkg/math/curve"
)

func TestGenerateKey(t *testing.T) {
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	require.NoError(t, sk.Validate())

	P, err := sk.PublicKey.Point()
	require.NoError(t, err)
	assert.True(t, sk.Scalar().ActOnBase().Equal(P))
	assert.Equal(t, "p256", sk.Public().Curve)
	assert.Len(t, sk.PublicKey.X, 64)
}

func TestNewPrivateKey_Range(t *testing.T) {
	_, err := NewPrivateKey(new(saferith.Nat).SetUint64(0))
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	_, err = NewPrivateKey(curve.Order().Nat())
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	_, err = NewPrivateKey(nil)
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	sk, err := NewPrivateKey(new(saferith.Nat).SetUint64(1))
	require.NoError(t, err)
	assert.True(t, sk.PublicKey.Equal(NewPublicKey(curve.NewBasePoint())))
}

func TestPrivateKey_Validate_Mismatch(t *testing.T) {
	a, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	b, err := GenerateKey(rand.Reader)
	require.NoError(t, err)

	mixed := &PrivateKey{D: a.D, PublicKey: b.PublicKey}
	assert.ErrorIs(t, mixed.Validate(), ErrInvalidKeyFormat)
}

func TestPublicKey_Equal(t *testing.T) {
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	pk := sk.PublicKey

	// bn.js prints coordinates without padding.
	unpadded := PublicKey{
		X:     "000" + strings.TrimLeft(pk.X, "0"),
		Y:     strings.TrimLeft(pk.Y, "0"),
		Curve: pk.Curve,
	}
	assert.True(t, pk.Equal(unpadded))
	assert.True(t, unpadded.Equal(pk))

	other, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	assert.False(t, pk.Equal(other.PublicKey))

	p1, err := pk.Point()
	require.NoError(t, err)
	p2, err := unpadded.Point()
	require.NoError(t, err)
	assert.True(t, p1.Equal(p2))
}

func TestPublicKey_JSON(t *testing.T) {
	sk, err := GenerateKey(rand.Reader)
	require.NoError(t, err)
	data, err := json.Marshal(sk.PublicKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"curve":"p256"`)

	var pk PublicKey
	require.NoError(t, json.Unmarshal(data, &pk))
	assert.Equal(t, sk.PublicKey, pk)

	for _, tag := range []string{`"P-256"`, `"p-256"`, `""`} {
		in := strings.Replace(string(data), `"p256"`, tag, 1)
		require.NoError(t, json.Unmarshal([]byte(in), &pk), tag)
		assert.Equal(t, "p256", pk.Curve)
	}

	in := strings.Replace(string(data), `"p256"`, `"secp256k1"`, 1)
	assert.ErrorIs(t, json.Unmarshal([]byte(in), &pk), ErrInvalidKeyFormat)
}

func TestPublicKey_Point_Invalid(t *testing.T) {
	g := NewPublicKey(curve.NewBasePoint())

	wrongCurve := g
	wrongCurve.Curve = "p384"
	_, err := wrongCurve.Point()
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	offCurve := g
	y, _ := hex.DecodeString(g.Y)
	y[31] ^= 1
	offCurve.Y = hex.EncodeToString(y)
	_, err = offCurve.Point()
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	notHex := g
	notHex.X = "xyz"
	_, err = notHex.Point()
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)
}
