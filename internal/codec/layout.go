// internal/codec/layout.go
package codec

import "fmt"

// Kind is the wire type of one field in a reply payload.
// Every kind is exactly 4 bytes wide.
type Kind uint8

const (
	Int32 Kind = iota + 1
	Float32
)

// FieldSize is the width of every field on the wire.
const FieldSize = 4

func (k Kind) String() string {
	switch k {
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Layout is the fixed, ordered field list of a reply payload.
// No length prefix, no checksum, no padding.
type Layout []Kind

// Size is the encoded width in bytes.
func (l Layout) Size() int { return len(l) * FieldSize }

// Words is the encoded width in 16-bit Modbus registers.
func (l Layout) Words() int { return l.Size() / 2 }

// Repeat builds a layout of n fields of the same kind.
func Repeat(k Kind, n int) Layout {
	l := make(Layout, n)
	for i := range l {
		l[i] = k
	}
	return l
}

// Value is one decoded or generated field.
// Exactly one of Int / Float is meaningful depending on Kind.
type Value struct {
	Kind  Kind
	Int   int32
	Float float32
}

func Int(v int32) Value     { return Value{Kind: Int32, Int: v} }
func Float(v float32) Value { return Value{Kind: Float32, Float: v} }

func (v Value) String() string {
	if v.Kind == Float32 {
		return fmt.Sprintf("%.3f", v.Float)
	}
	return fmt.Sprintf("%d", v.Int)
}
