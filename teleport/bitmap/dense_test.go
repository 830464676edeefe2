package bitmap

import (
	"bytes"
	"reflect"
	"testing"
)

func TestDenseGet(t *testing.T) {
	tcs := []struct {
		name  string
		data  Dense
		edata []bool
	}{
		{"implicit zeros", NewDense(nil, 3), []bool{false, false, false}},
		{"aligned", mustDense(t, "10101010"), []bool{true, false, true, false, true, false, true, false}},
		{"multibyte",
			mustDense(t, "00000000 101"),
			[]bool{false, false, false, false, false, false, false, false, true, false, true}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			var d []bool
			for i := 0; i < tc.data.Size(); i++ {
				d = append(d, tc.data.Get(i))
			}
			if !reflect.DeepEqual(d, tc.edata) {
				t.Errorf("t.Get() == %v, want %v", d, tc.edata)
			}
		})
	}
}

func TestDenseSet(t *testing.T) {
	tcs := []struct {
		name string
		d    Dense
		i    int
		v    bool
		eout Dense
	}{
		{"set zero", mustDense(t, "000"), 1, true, mustDense(t, "010")},
		{"set one", mustDense(t, "010"), 1, true, mustDense(t, "010")},
		{"clear", mustDense(t, "111"), 2, false, mustDense(t, "110")},
		{"out of range", mustDense(t, "111"), 7, false, mustDense(t, "111")},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			tc.d.Set(tc.i, tc.v)
			if tc.d.len != tc.eout.len {
				t.Errorf("got bitmap of len %d, want %d", tc.d.len, tc.eout.len)
			}
			if !bytes.Equal(tc.d.bits, tc.eout.bits) {
				t.Errorf("got %v, want %v", tc.d.bits, tc.eout.bits)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	d := mustDense(t, "10110100 11")
	s, err := Slice(d, 2, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := mustDense(t, "1101001"); !equal(s, want) {
		t.Errorf("Slice == %v, want %v", s.bits, want.bits)
	}
	if _, err := Slice(d, 3, 11); err == nil {
		t.Errorf("slicing past the end did not fail")
	}
	if _, err := Slice(d, 3, 2); err == nil {
		t.Errorf("slicing to negative length did not fail")
	}
}

func TestConcat(t *testing.T) {
	got := Concat(mustDense(t, "10"), mustDense(t, "0"), mustDense(t, "1"))
	if want := mustDense(t, "1001"); !equal(got, want) {
		t.Errorf("Concat == %v, want %v", got.bits, want.bits)
	}
}
