package model

import (
	"fmt"
	"io"
	"math"

	"go.yaml.in/yaml/v3"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Vector3 is a point or direction in 3D.
type Vector3 [3]float64

// Add returns v+o.
func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Sub returns v-o.
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

// Scale returns s*v.
func (v Vector3) Scale(s float64) Vector3 { return Vector3{s * v[0], s * v[1], s * v[2]} }

// Norm returns the Euclidean length.
func (v Vector3) Norm() float64 { return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]) }

// MarshalYAML encodes the vector as a three-element list.
func (v Vector3) MarshalYAML() (any, error) {
	return []float64{v[0], v[1], v[2]}, nil
}

// UnmarshalYAML decodes a three-element list.
func (v *Vector3) UnmarshalYAML(n *yaml.Node) error {
	var xs []float64
	if err := n.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return types.Malformed("vector3 needs 3 elements, got %d", len(xs))
	}
	copy(v[:], xs)
	return nil
}

// WriteText writes "x y z".
func (v *Vector3) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, types.JoinFloats(v[:]))
	return err
}

// ReadText reads "x y z".
func (v *Vector3) ReadText(tr *types.TokenReader) error {
	xs, err := tr.Floats(3)
	if err != nil {
		return err
	}
	copy(v[:], xs)
	return nil
}

// Clone implements types.Value.
func (v *Vector3) Clone() types.Value {
	c := *v
	return &c
}

// Equal implements types.Value.
func (v *Vector3) Equal(other types.Value) bool {
	o, ok := other.(*Vector3)
	return ok && v.same(*o)
}

func (v Vector3) same(o Vector3) bool { return EqualFloats(v[:], o[:]) }

// Matrix3 is a row-major 3x3 matrix.
type Matrix3 [3][3]float64

// Identity3 returns the 3x3 identity.
func Identity3() Matrix3 {
	return Matrix3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// MulVec returns m*v.
func (m Matrix3) MulVec(v Vector3) Vector3 {
	var out Vector3
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// MomentRotation returns the rotation whose axis is m/|m| and whose angle is
// |m| (Rodrigues' formula).
func MomentRotation(m Vector3) Matrix3 {
	theta := m.Norm()
	if theta == 0 {
		return Identity3()
	}
	k := m.Scale(1 / theta)
	s, c := math.Sin(theta), math.Cos(theta)
	t := 1 - c
	return Matrix3{
		{c + k[0]*k[0]*t, k[0]*k[1]*t - k[2]*s, k[0]*k[2]*t + k[1]*s},
		{k[1]*k[0]*t + k[2]*s, c + k[1]*k[1]*t, k[1]*k[2]*t - k[0]*s},
		{k[2]*k[0]*t - k[1]*s, k[2]*k[1]*t + k[0]*s, c + k[2]*k[2]*t},
	}
}

func (m Matrix3) flat() []float64 {
	out := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		out = append(out, m[i][:]...)
	}
	return out
}

func (m *Matrix3) setFlat(xs []float64) {
	for i := 0; i < 3; i++ {
		copy(m[i][:], xs[3*i:3*i+3])
	}
}

// MarshalYAML encodes the matrix as nine row-major elements.
func (m Matrix3) MarshalYAML() (any, error) {
	return m.flat(), nil
}

// UnmarshalYAML decodes nine row-major elements.
func (m *Matrix3) UnmarshalYAML(n *yaml.Node) error {
	var xs []float64
	if err := n.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 9 {
		return types.Malformed("matrix3 needs 9 elements, got %d", len(xs))
	}
	m.setFlat(xs)
	return nil
}

// WriteText writes nine row-major elements.
func (m *Matrix3) WriteText(w io.Writer) error {
	_, err := fmt.Fprintln(w, types.JoinFloats(m.flat()))
	return err
}

// ReadText reads nine row-major elements.
func (m *Matrix3) ReadText(tr *types.TokenReader) error {
	xs, err := tr.Floats(9)
	if err != nil {
		return err
	}
	m.setFlat(xs)
	return nil
}

// Clone implements types.Value.
func (m *Matrix3) Clone() types.Value {
	c := *m
	return &c
}

// Equal implements types.Value.
func (m *Matrix3) Equal(other types.Value) bool {
	o, ok := other.(*Matrix3)
	return ok && EqualFloats(m.flat(), o.flat())
}

// RigidTransform is a rotation followed by a translation.
type RigidTransform struct {
	R Matrix3 `yaml:"rotation"`
	T Vector3 `yaml:"translation"`
}

// IdentityTransform returns the identity transform.
func IdentityTransform() RigidTransform {
	return RigidTransform{R: Identity3()}
}

// Apply returns R*p + T.
func (x RigidTransform) Apply(p Vector3) Vector3 {
	return x.R.MulVec(p).Add(x.T)
}

// WriteText writes the rotation (9 row-major) then the translation (3).
func (x *RigidTransform) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", types.JoinFloats(x.R.flat()), types.JoinFloats(x.T[:]))
	return err
}

// ReadText reads the rotation then the translation.
func (x *RigidTransform) ReadText(tr *types.TokenReader) error {
	xs, err := tr.Floats(12)
	if err != nil {
		return err
	}
	x.R.setFlat(xs[:9])
	copy(x.T[:], xs[9:])
	return nil
}

// Clone implements types.Value.
func (x *RigidTransform) Clone() types.Value {
	c := *x
	return &c
}

// Equal implements types.Value.
func (x *RigidTransform) Equal(other types.Value) bool {
	o, ok := other.(*RigidTransform)
	return ok && x.same(*o)
}

func (x RigidTransform) same(o RigidTransform) bool {
	return EqualFloats(x.R.flat(), o.R.flat()) && x.T.same(o.T)
}

// Matrix is a dense row-major matrix.
type Matrix struct {
	Rows int       `yaml:"rows"`
	Cols int       `yaml:"cols"`
	Data []float64 `yaml:"data"`
}

// NewMatrix returns a zero rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns element (i, j).
func (m Matrix) At(i, j int) float64 { return m.Data[i*m.Cols+j] }

// WriteText writes "rows cols" then the row-major elements.
func (m *Matrix) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", m.Rows, m.Cols); err != nil {
		return err
	}
	for i := 0; i < m.Rows; i++ {
		if _, err := fmt.Fprintln(w, types.JoinFloats(m.Data[i*m.Cols:(i+1)*m.Cols])); err != nil {
			return err
		}
	}
	return nil
}

// ReadText reads "rows cols" then the row-major elements.
func (m *Matrix) ReadText(tr *types.TokenReader) error {
	rows, err := tr.Count()
	if err != nil {
		return err
	}
	cols, err := tr.Count()
	if err != nil {
		return err
	}
	if cols > 0 && rows > math.MaxInt/cols {
		return types.Malformed("matrix size %dx%d overflows", rows, cols)
	}
	data, err := tr.Floats(rows * cols)
	if err != nil {
		return err
	}
	*m = Matrix{Rows: rows, Cols: cols, Data: data}
	return nil
}

// Clone implements types.Value.
func (m *Matrix) Clone() types.Value {
	return &Matrix{Rows: m.Rows, Cols: m.Cols, Data: copyFloats(m.Data)}
}

// Equal implements types.Value.
func (m *Matrix) Equal(other types.Value) bool {
	o, ok := other.(*Matrix)
	return ok && m.Rows == o.Rows && m.Cols == o.Cols && EqualFloats(m.Data, o.Data)
}

// Geometric primitive kinds.
const (
	PrimitivePoint    = "Point"
	PrimitiveSegment  = "Segment"
	PrimitiveTriangle = "Triangle"
	PrimitivePolygon  = "Polygon"
	PrimitiveSphere   = "Sphere"
	PrimitiveAABB     = "AABB"
	PrimitiveBox      = "Box"
)

// primitiveArity gives the data length of each fixed-size kind.
var primitiveArity = map[string]int{
	PrimitivePoint:    3,
	PrimitiveSegment:  6,
	PrimitiveTriangle: 9,
	PrimitiveSphere:   4,
	PrimitiveAABB:     6,
	PrimitiveBox:      15,
}

// GeometricPrimitive3D is a simple shape: its Kind fixes how Data is read.
// Polygons hold any multiple of three coordinates (at least three vertices).
type GeometricPrimitive3D struct {
	Kind string    `yaml:"kind"`
	Data []float64 `yaml:"data"`
}

// Validate checks Data against Kind.
func (g GeometricPrimitive3D) Validate() error {
	if g.Kind == PrimitivePolygon {
		if len(g.Data) < 9 || len(g.Data)%3 != 0 {
			return types.Malformed("polygon needs 3k coordinates with k >= 3, got %d", len(g.Data))
		}
		return nil
	}
	n, ok := primitiveArity[g.Kind]
	if !ok {
		return types.Malformed("unknown primitive kind %q", g.Kind)
	}
	if len(g.Data) != n {
		return types.Malformed("%s needs %d values, got %d", g.Kind, n, len(g.Data))
	}
	return nil
}

// WriteText writes "kind n d1 ... dn".
func (g *GeometricPrimitive3D) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s %d %s\n", g.Kind, len(g.Data), types.JoinFloats(g.Data))
	return err
}

// ReadText reads "kind n d1 ... dn".
func (g *GeometricPrimitive3D) ReadText(tr *types.TokenReader) error {
	kind, err := tr.Next()
	if err != nil {
		return err
	}
	n, err := tr.Count()
	if err != nil {
		return err
	}
	data, err := tr.Floats(n)
	if err != nil {
		return err
	}
	out := GeometricPrimitive3D{Kind: kind, Data: data}
	if err := out.Validate(); err != nil {
		return err
	}
	*g = out
	return nil
}

// Clone implements types.Value.
func (g *GeometricPrimitive3D) Clone() types.Value {
	return &GeometricPrimitive3D{Kind: g.Kind, Data: copyFloats(g.Data)}
}

// Equal implements types.Value.
func (g *GeometricPrimitive3D) Equal(other types.Value) bool {
	o, ok := other.(*GeometricPrimitive3D)
	return ok && g.Kind == o.Kind && EqualFloats(g.Data, o.Data)
}
