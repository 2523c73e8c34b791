package codec

import (
	"math"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLittleEndian(t *testing.T) {
	t.Parallel()

	b, err := Encode(Layout{Int32, Int32}, []Value{Int(-40), Int(0x01020304)})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xd8, 0xff, 0xff, 0xff, 0x04, 0x03, 0x02, 0x01}, b)
}

func TestEncodeFloatBits(t *testing.T) {
	t.Parallel()

	b, err := Encode(Layout{Float32}, []Value{Float(1.0)})
	require.NoError(t, err)
	// 1.0f = 0x3f800000
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, b)
}

func TestDecodeInverse(t *testing.T) {
	t.Parallel()

	layout := Layout{Int32, Float32, Float32, Int32}
	in := []Value{Int(math.MinInt32), Float(-4000), Float(224.5), Int(930)}

	b, err := Encode(layout, in)
	require.NoError(t, err)
	require.Len(t, b, 16)

	out, err := Decode(layout, b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		layout Layout
		values []Value
		expect error
	}{
		{"too-few", Layout{Int32, Int32}, []Value{Int(1)}, ErrValueCount},
		{"too-many", Layout{Int32}, []Value{Int(1), Int(2)}, ErrValueCount},
		{"kind", Layout{Float32}, []Value{Int(1)}, ErrKindMismatch},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			_, err := Encode(c.layout, c.values)
			require.Error(t, err)
			assert.Equal(t, c.expect, errors.Cause(err))
		})
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	t.Parallel()

	_, err := Decode(Repeat(Float32, 3), make([]byte, 11))
	require.Error(t, err)
	assert.Equal(t, ErrShortBuffer, errors.Cause(err))
}

func TestLayoutSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, Layout{Int32}.Size())
	assert.Equal(t, 16, Repeat(Int32, 4).Size())
	assert.Equal(t, 12, Repeat(Float32, 3).Size())
	assert.Equal(t, 6, Repeat(Float32, 3).Words())
}

func TestRegistersHighWordFirst(t *testing.T) {
	t.Parallel()

	regs := Registers([]Value{Int(0x00010002), Float(1.0), Int(-1)})
	assert.Equal(t, []uint16{0x0001, 0x0002, 0x3f80, 0x0000, 0xffff, 0xffff}, regs)
}
