package model

import (
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Triangle holds three vertex indices.
type Triangle [3]int

// MarshalYAML encodes the triangle as a three-element list.
func (t Triangle) MarshalYAML() (any, error) {
	return []int{t[0], t[1], t[2]}, nil
}

// UnmarshalYAML decodes a three-element list.
func (t *Triangle) UnmarshalYAML(n *yaml.Node) error {
	var xs []int
	if err := n.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return types.Malformed("triangle needs 3 indices, got %d", len(xs))
	}
	copy(t[:], xs)
	return nil
}

// TriMesh is an indexed triangle mesh.
type TriMesh struct {
	Vertices  []Vector3  `yaml:"vertices"`
	Triangles []Triangle `yaml:"triangles"`
}

// Copy returns an independent copy.
func (m TriMesh) Copy() TriMesh {
	out := TriMesh{}
	if m.Vertices != nil {
		out.Vertices = append([]Vector3(nil), m.Vertices...)
	}
	if m.Triangles != nil {
		out.Triangles = append([]Triangle(nil), m.Triangles...)
	}
	return out
}

// Empty reports whether the mesh has no vertices.
func (m TriMesh) Empty() bool { return len(m.Vertices) == 0 }

// Validate checks that every triangle index refers to a vertex.
func (m TriMesh) Validate() error {
	for i, t := range m.Triangles {
		for _, idx := range t {
			if idx < 0 || idx >= len(m.Vertices) {
				return types.Malformed("triangle %d references vertex %d of %d", i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}

// WriteText writes the mesh in OFF format.
func (m *TriMesh) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "OFF\n%d %d 0\n", len(m.Vertices), len(m.Triangles)); err != nil {
		return err
	}
	if err := m.writeBody(w); err != nil {
		return err
	}
	return nil
}

func (m *TriMesh) writeBody(w io.Writer) error {
	for _, v := range m.Vertices {
		if _, err := fmt.Fprintln(w, types.JoinFloats(v[:])); err != nil {
			return err
		}
	}
	for _, t := range m.Triangles {
		if _, err := fmt.Fprintf(w, "3 %d %d %d\n", t[0], t[1], t[2]); err != nil {
			return err
		}
	}
	return nil
}

// ReadText reads an OFF mesh. Faces with more than three vertices are
// fanned into triangles.
func (m *TriMesh) ReadText(tr *types.TokenReader) error {
	if err := tr.Expect("OFF"); err != nil {
		return err
	}
	nv, err := tr.Count()
	if err != nil {
		return err
	}
	nf, err := tr.Count()
	if err != nil {
		return err
	}
	if _, err := tr.Int(); err != nil {
		return err
	}
	return m.readBody(tr, nv, nf)
}

func (m *TriMesh) readBody(tr *types.TokenReader, nv, nf int) error {
	out := TriMesh{Vertices: make([]Vector3, 0, types.CapHint(nv))}
	for len(out.Vertices) < nv {
		var p Vector3
		if err := p.ReadText(tr); err != nil {
			return err
		}
		out.Vertices = append(out.Vertices, p)
	}
	for f := 0; f < nf; f++ {
		k, err := tr.Count()
		if err != nil {
			return err
		}
		if k < 3 {
			return types.Malformed("face %d has %d vertices", f, k)
		}
		idx := make([]int, 0, types.CapHint(k))
		for len(idx) < k {
			v, err := tr.Int()
			if err != nil {
				return err
			}
			idx = append(idx, v)
		}
		for j := 1; j+1 < k; j++ {
			out.Triangles = append(out.Triangles, Triangle{idx[0], idx[j], idx[j+1]})
		}
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*m = out
	return nil
}

// Clone implements types.Value.
func (m *TriMesh) Clone() types.Value {
	c := m.Copy()
	return &c
}

// Equal implements types.Value.
func (m *TriMesh) Equal(other types.Value) bool {
	o, ok := other.(*TriMesh)
	if !ok || len(m.Vertices) != len(o.Vertices) || len(m.Triangles) != len(o.Triangles) {
		return false
	}
	for i := range m.Vertices {
		if !m.Vertices[i].same(o.Vertices[i]) {
			return false
		}
	}
	for i := range m.Triangles {
		if m.Triangles[i] != o.Triangles[i] {
			return false
		}
	}
	return true
}

// PointCloud is a set of 3D points with optional per-point properties
// (color, normal components, ...). Values[i] has one entry per property.
type PointCloud struct {
	Properties []string    `yaml:"properties,omitempty"`
	Points     []Vector3   `yaml:"points"`
	Values     [][]float64 `yaml:"values,omitempty"`
}

// Validate checks that every point carries one value per property.
func (p PointCloud) Validate() error {
	if len(p.Properties) == 0 {
		if len(p.Values) != 0 {
			return types.Malformed("point cloud has values but no properties")
		}
		return nil
	}
	if len(p.Values) != len(p.Points) {
		return types.Malformed("point cloud has %d points but %d value rows", len(p.Points), len(p.Values))
	}
	for i, row := range p.Values {
		if len(row) != len(p.Properties) {
			return types.Malformed("point %d has %d values, want %d", i, len(row), len(p.Properties))
		}
	}
	return nil
}

// WriteText writes an ASCII PCD-style header followed by one point per line.
func (p *PointCloud) WriteText(w io.Writer) error {
	if _, err := fmt.Fprint(w, "FIELDS x y z"); err != nil {
		return err
	}
	for _, name := range p.Properties {
		if _, err := fmt.Fprintf(w, " %s", name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nPOINTS %d\nDATA ascii\n", len(p.Points)); err != nil {
		return err
	}
	for i, pt := range p.Points {
		line := types.JoinFloats(pt[:])
		if len(p.Properties) > 0 {
			line += " " + types.JoinFloats(p.Values[i])
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ReadText reads the format written by WriteText.
func (p *PointCloud) ReadText(tr *types.TokenReader) error {
	if err := tr.Expect("FIELDS"); err != nil {
		return err
	}
	for _, axis := range []string{"x", "y", "z"} {
		if err := tr.Expect(axis); err != nil {
			return err
		}
	}
	var props []string
	for {
		tok, err := tr.Next()
		if err != nil {
			return err
		}
		if tok == "POINTS" {
			break
		}
		props = append(props, tok)
	}
	n, err := tr.Count()
	if err != nil {
		return err
	}
	if err := tr.Expect("DATA"); err != nil {
		return err
	}
	if err := tr.Expect("ascii"); err != nil {
		return err
	}
	out := PointCloud{Properties: props, Points: make([]Vector3, 0, types.CapHint(n))}
	for len(out.Points) < n {
		var pt Vector3
		if err := pt.ReadText(tr); err != nil {
			return err
		}
		out.Points = append(out.Points, pt)
		if len(props) > 0 {
			vals, err := tr.Floats(len(props))
			if err != nil {
				return err
			}
			out.Values = append(out.Values, vals)
		}
	}
	*p = out
	return nil
}

// Clone implements types.Value.
func (p *PointCloud) Clone() types.Value {
	out := &PointCloud{}
	if p.Properties != nil {
		out.Properties = append([]string(nil), p.Properties...)
	}
	if p.Points != nil {
		out.Points = append([]Vector3(nil), p.Points...)
	}
	if p.Values != nil {
		out.Values = make([][]float64, len(p.Values))
		for i, row := range p.Values {
			out.Values[i] = copyFloats(row)
		}
	}
	return out
}

// Equal implements types.Value.
func (p *PointCloud) Equal(other types.Value) bool {
	o, ok := other.(*PointCloud)
	if !ok || len(p.Properties) != len(o.Properties) || len(p.Points) != len(o.Points) || len(p.Values) != len(o.Values) {
		return false
	}
	for i := range p.Properties {
		if p.Properties[i] != o.Properties[i] {
			return false
		}
	}
	for i := range p.Points {
		if !p.Points[i].same(o.Points[i]) {
			return false
		}
	}
	for i := range p.Values {
		if !EqualFloats(p.Values[i], o.Values[i]) {
			return false
		}
	}
	return true
}
