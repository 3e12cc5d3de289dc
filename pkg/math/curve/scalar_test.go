package curve

import (
	"encoding/hex"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
)

func TestScalar_Reduce(t *testing.T) {
	n, _ := hex.DecodeString(orderHex)
	assert.True(t, NewScalar().SetBytes(n).IsZero(), "q mod q must be 0")

	nPlusOne := new(saferith.Nat).Add(new(saferith.Nat).SetBytes(n), new(saferith.Nat).SetUint64(1), 264)
	one := NewScalar().SetBytes([]byte{1})
	assert.True(t, NewScalarNat(nPlusOne).Equal(one))

	// A 256 bit digest above q reduces to digest - q.
	max := make([]byte, 32)
	for i := range max {
		max[i] = 0xff
	}
	s := NewScalar().SetBytes(max)
	want := new(saferith.Nat).Sub(new(saferith.Nat).SetBytes(max), new(saferith.Nat).SetBytes(n), 256)
	assert.Equal(t, saferith.Choice(1), s.Nat().Eq(want))
}

func TestScalar_MultiplySub(t *testing.T) {
	x := NewScalar().SetBytes([]byte("x"))
	y := NewScalar().SetBytes([]byte("y"))
	z := NewScalar().SetBytes([]byte("z"))

	r := NewScalar().MultiplySub(x, y, z)
	assert.True(t, NewScalar().Subtract(z, r).Equal(NewScalar().Multiply(x, y)))

	// r⋅G + y⋅(x⋅G) = z⋅G, the ring closing equation.
	var lhs Point
	lhs.Add(r.ActOnBase(), y.Act(x.ActOnBase()))
	assert.True(t, lhs.Equal(z.ActOnBase()))
}

func TestScalar_Subtract(t *testing.T) {
	a := NewScalar().SetBytes([]byte{5})
	b := NewScalar().SetBytes([]byte{7})
	d := NewScalar().Subtract(a, b)
	assert.False(t, d.IsZero())
	// 5 - 7 = q - 2
	n, _ := hex.DecodeString(orderHex)
	want := new(saferith.Nat).Sub(new(saferith.Nat).SetBytes(n), new(saferith.Nat).SetUint64(2), 256)
	assert.Equal(t, saferith.Choice(1), d.Nat().Eq(want))
	assert.Len(t, d.Bytes(), 32)
}
