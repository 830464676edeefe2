// Package bitmap provides densely-packed arrays of booleans, used to hold the
// classical bits written by measurements during a circuit run.
package bitmap

import (
	"fmt"
	"math/bits"
	"strings"
)

const byteSize = 8

// FromString converts a string of '1's and '0's to a Dense. The first
// character becomes bit 0. Spaces are ignored.
func FromString(s string) (Dense, error) {
	d := Dense{}
	for _, c := range s {
		switch c {
		case '1':
			d.AppendBit(true)
		case '0':
			d.AppendBit(false)
		case ' ':
			continue
		default:
			return Dense{}, fmt.Errorf("invalid bitmap string rep: %s", s)
		}
	}
	return d, nil
}

// CountOnes returns the total number of bits set in d.
func CountOnes(d Dense) int {
	var sum int
	for _, b := range d.bits {
		sum += bits.OnesCount8(b)
	}
	return sum
}

// Format renders d most-significant bit first, the way measurement outcomes
// of a classical register are conventionally written: bit 0 is the rightmost
// character.
func Format(d Dense) string {
	var sb strings.Builder
	sb.Grow(d.len)
	for i := d.len - 1; i >= 0; i-- {
		if d.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Parse is the inverse of Format.
func Parse(s string) (Dense, error) {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return FromString(string(r))
}

// BytesFor returns the number of bytes necessary to hold the provided number of
// bits.
func BytesFor(bits int) int {
	return (bits + byteSize - 1) / byteSize
}
