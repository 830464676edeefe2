package bitmap

import "fmt"

// Slice copies the bits [start, end) of d into a new bitmap.
func Slice(d Dense, start, end int) (Dense, error) {
	if start < 0 {
		return Dense{}, fmt.Errorf("slicing bitmap with negative start: %d", start)
	}
	if end < start {
		return Dense{}, fmt.Errorf("slicing bitmap to negative length: %d", end-start)
	}
	if end > d.len {
		return Dense{}, fmt.Errorf("slicing bitmap of len %d up to %d", d.len, end)
	}
	r := Dense{}
	for i := start; i < end; i++ {
		r.AppendBit(d.Get(i))
	}
	return r, nil
}

// Concat returns the bits of ds laid end to end, ds[0] occupying the lowest
// indices.
func Concat(ds ...Dense) Dense {
	r := Dense{}
	for _, d := range ds {
		for i := 0; i < d.len; i++ {
			r.AppendBit(d.Get(i))
		}
	}
	return r
}
