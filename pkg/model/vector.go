package model

import (
	"fmt"
	"io"
	"math"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Vector is a robot configuration or any other dense real vector.
type Vector []float64

// Copy returns an independent copy.
func (v Vector) Copy() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// WriteText writes "n v1 ... vn".
func (v *Vector) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d %s\n", len(*v), types.JoinFloats(*v))
	return err
}

// ReadText reads "n v1 ... vn".
func (v *Vector) ReadText(tr *types.TokenReader) error {
	n, err := tr.Count()
	if err != nil {
		return err
	}
	vals, err := tr.Floats(n)
	if err != nil {
		return err
	}
	*v = vals
	return nil
}

// Clone implements types.Value.
func (v *Vector) Clone() types.Value {
	c := v.Copy()
	return &c
}

// Equal reports element-wise equality. Nil and empty are equal.
func (v *Vector) Equal(other types.Value) bool {
	o, ok := other.(*Vector)
	return ok && EqualFloats(*v, *o)
}

// EqualVectors compares two vector lists element-wise.
func EqualVectors(a, b []Vector) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(&b[i]) {
			return false
		}
	}
	return true
}

// CopyVectors deep-copies a vector list, preserving nil.
func CopyVectors(vs []Vector) []Vector {
	if vs == nil {
		return nil
	}
	out := make([]Vector, len(vs))
	for i, v := range vs {
		out[i] = v.Copy()
	}
	return out
}

// EqualFloats compares element-wise, treating NaN as equal to NaN.
func EqualFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameFloat(a[i], b[i]) {
			return false
		}
	}
	return true
}

// sameFloat is == except that NaN matches NaN, so a copy always equals its
// source.
func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func copyFloats(vs []float64) []float64 {
	if vs == nil {
		return nil
	}
	out := make([]float64, len(vs))
	copy(out, vs)
	return out
}

// IntArray is a list of integers, e.g. degree-of-freedom indices.
type IntArray []int

// Copy returns an independent copy.
func (a IntArray) Copy() IntArray {
	if a == nil {
		return nil
	}
	out := make(IntArray, len(a))
	copy(out, a)
	return out
}

// WriteText writes "n i1 ... in".
func (a *IntArray) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d", len(*a)); err != nil {
		return err
	}
	for _, x := range *a {
		if _, err := fmt.Fprintf(w, " %d", x); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// ReadText reads "n i1 ... in".
func (a *IntArray) ReadText(tr *types.TokenReader) error {
	n, err := tr.Count()
	if err != nil {
		return err
	}
	out := make(IntArray, 0, types.CapHint(n))
	for len(out) < n {
		v, err := tr.Int()
		if err != nil {
			return err
		}
		out = append(out, v)
	}
	*a = out
	return nil
}

// Clone implements types.Value.
func (a *IntArray) Clone() types.Value {
	c := a.Copy()
	return &c
}

// Equal reports element-wise equality.
func (a *IntArray) Equal(other types.Value) bool {
	o, ok := other.(*IntArray)
	if !ok || len(*a) != len(*o) {
		return false
	}
	for i := range *a {
		if (*a)[i] != (*o)[i] {
			return false
		}
	}
	return true
}
