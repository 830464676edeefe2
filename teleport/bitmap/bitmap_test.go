package bitmap

import (
	"bytes"
	"testing"
)

func mustDense(t *testing.T, s string) Dense {
	d, err := FromString(s)
	if err != nil {
		t.Fatalf("bugged test setup: %v", err)
	}
	return d
}

// equal reports whether a and b have the same length and the same bits.
func equal(a, b Dense) bool {
	if a.len != b.len {
		return false
	}
	for i := 0; i < a.len; i++ {
		if a.Get(i) != b.Get(i) {
			return false
		}
	}
	return true
}

func TestCountOnes(t *testing.T) {
	tcs := []struct {
		name string
		data Dense
		eout int
	}{
		{"short", mustDense(t, "101"), 2},
		{"empty", mustDense(t, ""), 0},
		{"multibyte one", mustDense(t, "1111 1111 11"), 10},
		{"multibyte two", mustDense(t, "1011 1011 10"), 7},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out := CountOnes(tc.data)
			if out != tc.eout {
				t.Errorf("CountOnes(%v) == %v, want %v", tc.data.bits, out, tc.eout)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tcs := []struct {
		name string
		data Dense
		eout string
	}{
		{"empty", mustDense(t, ""), ""},
		{"single", mustDense(t, "1"), "1"},
		{"low bit rightmost", mustDense(t, "100"), "001"},
		{"multibyte", mustDense(t, "10000000 01"), "1000000001"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			out := Format(tc.data)
			if out != tc.eout {
				t.Errorf("Format(%v) == %q, want %q", tc.data.bits, out, tc.eout)
			}
			back, err := Parse(out)
			if err != nil {
				t.Fatalf("Parse(%q): %v", out, err)
			}
			if !equal(back, tc.data) {
				t.Errorf("Parse(%q) == %v, want %v", out, back.bits, tc.data.bits)
			}
		})
	}
}

func TestFromStringRejectsGarbage(t *testing.T) {
	if _, err := FromString("10x"); err == nil {
		t.Errorf("FromString accepted a non-binary character")
	}
}

func TestBytesFor(t *testing.T) {
	for bits, want := range map[int]int{0: 0, 1: 1, 8: 1, 9: 2, 16: 2} {
		if got := BytesFor(bits); got != want {
			t.Errorf("BytesFor(%d) == %d, want %d", bits, got, want)
		}
	}
	d := NewDense(nil, 9)
	if !bytes.Equal(d.bits, []byte{0, 0}) || d.SizeBytes() != 2 {
		t.Errorf("NewDense(nil, 9) holds %v, want two zero bytes", d.bits)
	}
}
