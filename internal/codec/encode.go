// internal/codec/encode.go
package codec

import (
	"encoding/binary"
	"math"

	"github.com/juju/errors"
)

var (
	ErrValueCount   = errors.New("codec: value count does not match layout")
	ErrKindMismatch = errors.New("codec: value kind does not match layout")
	ErrShortBuffer  = errors.New("codec: buffer length does not match layout")
)

// Encode packs values into the little-endian wire form of layout.
// Byte order is fixed and does not depend on the host.
func Encode(layout Layout, values []Value) ([]byte, error) {
	if len(values) != len(layout) {
		return nil, errors.Annotatef(ErrValueCount, "got=%d want=%d", len(values), len(layout))
	}

	out := make([]byte, layout.Size())
	for i, k := range layout {
		v := values[i]
		if v.Kind != k {
			return nil, errors.Annotatef(ErrKindMismatch, "field %d: got=%s want=%s", i, v.Kind, k)
		}
		dst := out[i*FieldSize : (i+1)*FieldSize]
		switch k {
		case Int32:
			binary.LittleEndian.PutUint32(dst, uint32(v.Int))
		case Float32:
			binary.LittleEndian.PutUint32(dst, math.Float32bits(v.Float))
		default:
			return nil, errors.Annotatef(ErrKindMismatch, "field %d: unsupported %s", i, k)
		}
	}
	return out, nil
}

// MustEncode is Encode for static tables that are known to be consistent.
func MustEncode(layout Layout, values []Value) []byte {
	b, err := Encode(layout, values)
	if err != nil {
		panic(errors.ErrorStack(err))
	}
	return b
}

// Decode is the exact inverse of Encode.
func Decode(layout Layout, data []byte) ([]Value, error) {
	if len(data) != layout.Size() {
		return nil, errors.Annotatef(ErrShortBuffer, "got=%d want=%d", len(data), layout.Size())
	}

	out := make([]Value, len(layout))
	for i, k := range layout {
		raw := binary.LittleEndian.Uint32(data[i*FieldSize:])
		switch k {
		case Int32:
			out[i] = Int(int32(raw))
		case Float32:
			out[i] = Float(math.Float32frombits(raw))
		default:
			return nil, errors.Annotatef(ErrKindMismatch, "field %d: unsupported %s", i, k)
		}
	}
	return out, nil
}

// Registers splits values into 16-bit Modbus registers.
// Each 32-bit field becomes two registers, high word first.
func Registers(values []Value) []uint16 {
	regs := make([]uint16, 0, len(values)*2)
	for _, v := range values {
		var raw uint32
		if v.Kind == Float32 {
			raw = math.Float32bits(v.Float)
		} else {
			raw = uint32(v.Int)
		}
		regs = append(regs, uint16(raw>>16), uint16(raw))
	}
	return regs
}
