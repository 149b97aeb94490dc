// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"github.com/creachadair/jvalue/internal/scratch"
	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Quote pushes the JSON encoding of src, including the enclosing double
// quotation marks, onto buf. Quotation marks, backslashes and control
// characters are escaped; all other bytes are copied unchanged.
func Quote(buf *scratch.Stack[byte], src mem.RO) {
	base := buf.Len()
	out := buf.Push(src.Len()*6 + 2) // worst case: every byte is \u00xx

	out[0] = '"'
	n := 1
	for i := 0; i < src.Len(); i++ {
		b := src.At(i)
		switch {
		case b == '"' || b == '\\':
			out[n], out[n+1] = '\\', b
			n += 2
		case b < ' ':
			if e := controlEsc[b]; e != 0 {
				out[n], out[n+1] = '\\', e
				n += 2
			} else {
				n += copy(out[n:], []byte{'\\', 'u', '0', '0', hexDigit[b>>4], hexDigit[b&15]})
			}
		default:
			out[n] = b
			n++
		}
	}
	out[n] = '"'
	buf.Truncate(base + n + 1)
}
