package model

import (
	"fmt"
	"io"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// noneToken stands in for an empty file reference in the text form.
const noneToken = "-"

func tokenOrNone(s string) string {
	if s == "" {
		return noneToken
	}
	return s
}

func readOptionalToken(tr *types.TokenReader) (string, error) {
	tok, err := tr.Next()
	if err != nil || tok == noneToken {
		return "", err
	}
	return tok, nil
}

// RobotEntry is a robot placed in a world at a configuration.
type RobotEntry struct {
	Name   string `yaml:"name"`
	File   string `yaml:"file,omitempty"`
	Config Vector `yaml:"config"`
}

// WriteText writes "name file n q1 ... qn".
func (r *RobotEntry) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s %s ", r.Name, tokenOrNone(r.File)); err != nil {
		return err
	}
	return r.Config.WriteText(w)
}

// ReadText reads the form written by WriteText.
func (r *RobotEntry) ReadText(tr *types.TokenReader) error {
	var out RobotEntry
	var err error
	if out.Name, err = tr.Next(); err != nil {
		return err
	}
	if out.File, err = readOptionalToken(tr); err != nil {
		return err
	}
	if err := out.Config.ReadText(tr); err != nil {
		return err
	}
	*r = out
	return nil
}

// Clone implements types.Value.
func (r *RobotEntry) Clone() types.Value {
	return &RobotEntry{Name: r.Name, File: r.File, Config: r.Config.Copy()}
}

// Equal implements types.Value.
func (r *RobotEntry) Equal(other types.Value) bool {
	o, ok := other.(*RobotEntry)
	return ok && r.Name == o.Name && r.File == o.File && r.Config.Equal(&o.Config)
}

// RigidObjectEntry is a movable rigid body placed in a world.
type RigidObjectEntry struct {
	Name      string         `yaml:"name"`
	File      string         `yaml:"file,omitempty"`
	Transform RigidTransform `yaml:"transform"`
}

// WriteText writes "name file" followed by the transform.
func (r *RigidObjectEntry) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", r.Name, tokenOrNone(r.File)); err != nil {
		return err
	}
	return r.Transform.WriteText(w)
}

// ReadText reads the form written by WriteText.
func (r *RigidObjectEntry) ReadText(tr *types.TokenReader) error {
	var out RigidObjectEntry
	var err error
	if out.Name, err = tr.Next(); err != nil {
		return err
	}
	if out.File, err = readOptionalToken(tr); err != nil {
		return err
	}
	if err := out.Transform.ReadText(tr); err != nil {
		return err
	}
	*r = out
	return nil
}

// Clone implements types.Value.
func (r *RigidObjectEntry) Clone() types.Value {
	c := *r
	return &c
}

// Equal implements types.Value.
func (r *RigidObjectEntry) Equal(other types.Value) bool {
	o, ok := other.(*RigidObjectEntry)
	return ok && r.Name == o.Name && r.File == o.File && r.Transform.same(o.Transform)
}

// TerrainEntry is a fixed body in a world. Mesh is empty when the geometry
// lives only in File.
type TerrainEntry struct {
	Name string  `yaml:"name"`
	File string  `yaml:"file,omitempty"`
	Mesh TriMesh `yaml:"mesh,omitempty"`
}

// WriteText writes "name file nv nf" followed by the mesh body.
func (t *TerrainEntry) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s %s %d %d\n", t.Name, tokenOrNone(t.File), len(t.Mesh.Vertices), len(t.Mesh.Triangles)); err != nil {
		return err
	}
	return t.Mesh.writeBody(w)
}

// ReadText reads the form written by WriteText.
func (t *TerrainEntry) ReadText(tr *types.TokenReader) error {
	var out TerrainEntry
	var err error
	if out.Name, err = tr.Next(); err != nil {
		return err
	}
	if out.File, err = readOptionalToken(tr); err != nil {
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
	if err := out.Mesh.readBody(tr, nv, nf); err != nil {
		return err
	}
	*t = out
	return nil
}

// Clone implements types.Value.
func (t *TerrainEntry) Clone() types.Value {
	return &TerrainEntry{Name: t.Name, File: t.File, Mesh: t.Mesh.Copy()}
}

// Equal implements types.Value.
func (t *TerrainEntry) Equal(other types.Value) bool {
	o, ok := other.(*TerrainEntry)
	return ok && t.Name == o.Name && t.File == o.File && t.Mesh.Equal(&o.Mesh)
}

// World is a scene of robots, rigid objects and terrains. Background and
// Colors are display metadata only.
type World struct {
	Robots       []RobotEntry         `yaml:"robots,omitempty"`
	RigidObjects []RigidObjectEntry   `yaml:"rigidObjects,omitempty"`
	Terrains     []TerrainEntry       `yaml:"terrains,omitempty"`
	Background   []float64            `yaml:"background,omitempty"`
	Colors       map[string][]float64 `yaml:"colors,omitempty"`
}

// Empty reports whether the world has no entities.
func (w World) Empty() bool {
	return len(w.Robots) == 0 && len(w.RigidObjects) == 0 && len(w.Terrains) == 0
}

// HasAppearance reports whether the world carries display metadata.
func (w World) HasAppearance() bool {
	return len(w.Background) > 0 || len(w.Colors) > 0
}

// Copy returns an independent copy.
func (w World) Copy() World {
	out := World{Background: copyFloats(w.Background)}
	for _, r := range w.Robots {
		out.Robots = append(out.Robots, *r.Clone().(*RobotEntry))
	}
	out.RigidObjects = append(out.RigidObjects, w.RigidObjects...)
	for _, t := range w.Terrains {
		out.Terrains = append(out.Terrains, *t.Clone().(*TerrainEntry))
	}
	if w.Colors != nil {
		out.Colors = make(map[string][]float64, len(w.Colors))
		for k, c := range w.Colors {
			out.Colors[k] = copyFloats(c)
		}
	}
	return out
}

// Equal compares every field. Nil and empty collections are equal.
func (w World) Equal(o World) bool {
	if len(w.Robots) != len(o.Robots) || len(w.RigidObjects) != len(o.RigidObjects) ||
		len(w.Terrains) != len(o.Terrains) || !EqualFloats(w.Background, o.Background) ||
		len(w.Colors) != len(o.Colors) {
		return false
	}
	for i := range w.Robots {
		if !w.Robots[i].Equal(&o.Robots[i]) {
			return false
		}
	}
	for i := range w.RigidObjects {
		if !w.RigidObjects[i].Equal(&o.RigidObjects[i]) {
			return false
		}
	}
	for i := range w.Terrains {
		if !w.Terrains[i].Equal(&o.Terrains[i]) {
			return false
		}
	}
	for k, c := range w.Colors {
		oc, ok := o.Colors[k]
		if !ok || !EqualFloats(c, oc) {
			return false
		}
	}
	return true
}
