// internal/transport/frame.go
package transport

import (
	"fmt"
	"strings"
)

// FormatFrame renders a frame for diagnostics as "[ 01 00 ]".
func FormatFrame(b []byte) string {
	var sb strings.Builder
	sb.Grow(3*len(b) + 3)
	sb.WriteString("[ ")
	for _, v := range b {
		fmt.Fprintf(&sb, "%02X ", v)
	}
	sb.WriteString("]")
	return sb.String()
}
