package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

type textCodec interface {
	types.Value
	WriteText(w io.Writer) error
	ReadText(tr *types.TokenReader) error
}

func reader(s string) *types.TokenReader {
	return types.NewTokenReader(strings.NewReader(s))
}

func TestTextRoundTrip(t *testing.T) {
	goal := FixedGoal("hand", Vector3{0, 0, 0.1}, Vector3{1, 2, 3}, Vector3{0, 0, 0.5})
	goal.DestLink = "base"

	tests := []struct {
		name  string
		value textCodec
		blank textCodec
	}{
		{"vector", &Vector{0.1, -2, 3e-9}, &Vector{}},
		{"empty vector", &Vector{}, &Vector{}},
		{"int array", &IntArray{3, 1, 4}, &IntArray{}},
		{"vector3", &Vector3{1, 2, 3}, &Vector3{}},
		{"matrix3", &Matrix3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, &Matrix3{}},
		{"rigid transform", &RigidTransform{R: Identity3(), T: Vector3{1, 0, 0}}, &RigidTransform{}},
		{"matrix", &Matrix{Rows: 2, Cols: 3, Data: []float64{1, 2, 3, 4, 5, 6}}, &Matrix{}},
		{"sphere", &GeometricPrimitive3D{Kind: PrimitiveSphere, Data: []float64{0, 0, 0, 1}}, &GeometricPrimitive3D{}},
		{"polygon", &GeometricPrimitive3D{Kind: PrimitivePolygon, Data: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0}}, &GeometricPrimitive3D{}},
		{"trimesh", &TriMesh{
			Vertices:  []Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Triangles: []Triangle{{0, 1, 2}},
		}, &TriMesh{}},
		{"point cloud", &PointCloud{Points: []Vector3{{0, 0, 0}, {1, 1, 1}}}, &PointCloud{}},
		{"point cloud with properties", &PointCloud{
			Properties: []string{"rgb"},
			Points:     []Vector3{{0, 0, 0}, {1, 1, 1}},
			Values:     [][]float64{{255}, {128}},
		}, &PointCloud{}},
		{"contact", &ContactPoint{X: Vector3{0, 0, 0}, N: Vector3{0, 0, 1}, KFriction: 0.5}, &ContactPoint{}},
		{"free goal", ptr(FreeGoal("foot")), &IKGoal{}},
		{"fixed goal", &goal, &IKGoal{}},
		{"hold", &Hold{
			Link:     "foot",
			Contacts: []ContactPoint{{N: Vector3{0, 0, 1}, KFriction: 1}},
			IK:       FreeGoal("foot"),
		}, &Hold{}},
		{"stance", &Stance{
			"leftFoot":  {Link: "leftFoot", IK: FreeGoal("leftFoot")},
			"rightFoot": {Link: "rightFoot", IK: FreeGoal("rightFoot")},
		}, &Stance{}},
		{"robot entry", &RobotEntry{Name: "arm", Config: Vector{0, 1}}, &RobotEntry{}},
		{"rigid object entry", &RigidObjectEntry{Name: "box", File: "box.obj", Transform: IdentityTransform()}, &RigidObjectEntry{}},
		{"terrain entry", &TerrainEntry{Name: "floor", Mesh: TriMesh{
			Vertices:  []Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Triangles: []Triangle{{0, 1, 2}},
		}}, &TerrainEntry{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.value.WriteText(&buf))
			require.NoError(t, tt.blank.ReadText(reader(buf.String())), "text: %q", buf.String())
			assert.True(t, tt.value.Equal(tt.blank), "got %+v from %q", tt.blank, buf.String())
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestReadTextRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		blank textCodec
	}{
		{"short vector", "3 1 2", &Vector{}},
		{"negative count", "-1", &Vector{}},
		{"not a number", "2 1 x", &Vector{}},
		{"sphere arity", "Sphere 3 0 0 0", &GeometricPrimitive3D{}},
		{"unknown primitive", "Blob 1 0", &GeometricPrimitive3D{}},
		{"short polygon", "Polygon 6 0 0 0 1 1 1", &GeometricPrimitive3D{}},
		{"mesh index out of range", "OFF 3 1 0 0 0 0 1 0 0 0 1 0 3 0 1 5", &TriMesh{}},
		{"mesh degenerate face", "OFF 3 1 0 0 0 0 1 0 0 0 1 0 2 0 1", &TriMesh{}},
		{"bad constraint", "foot world bent 0 0 0 0 0 0 0 0 0 none 0 0 0 0 0 0", &IKGoal{}},
		{"hold link mismatch", "foot 0 hand world none 0 0 0 0 0 0 0 0 0 none 0 0 0 0 0 0", &Hold{}},
		{"duplicate stance link", "2 " +
			"foot 0 foot world none 0 0 0 0 0 0 0 0 0 none 0 0 0 0 0 0 " +
			"foot 0 foot world none 0 0 0 0 0 0 0 0 0 none 0 0 0 0 0 0", &Stance{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.blank.ReadText(reader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrMalformed), "got %v", err)
		})
	}
}

func TestTriMeshFansPolygonFaces(t *testing.T) {
	var m TriMesh
	require.NoError(t, m.ReadText(reader("OFF\n4 1 0\n0 0 0\n1 0 0\n1 1 0\n0 1 0\n4 0 1 2 3\n")))
	assert.Equal(t, []Triangle{{0, 1, 2}, {0, 2, 3}}, m.Triangles)
}

func TestIKGoalTransform(t *testing.T) {
	g := FixedGoal("hand", Vector3{0, 0, 1}, Vector3{1, 2, 3}, Vector3{})
	x, ok := g.Transform()
	require.True(t, ok)
	assert.Equal(t, Identity3(), x.R)
	assert.Equal(t, Vector3{1, 2, 2}, x.T)
	assert.Equal(t, Vector3{1, 2, 3}, x.Apply(g.LocalPosition))

	p, ok := g.Position()
	require.True(t, ok)
	assert.Equal(t, Vector3{1, 2, 3}, p)

	_, ok = FreeGoal("hand").Transform()
	assert.False(t, ok)
	_, ok = FreeGoal("hand").Position()
	assert.False(t, ok)
}

func TestParseIKGoal(t *testing.T) {
	g := FixedGoal("hand", Vector3{0, 0, 1}, Vector3{1, 2, 3}, Vector3{0, 0.5, 0})
	parsed, err := ParseIKGoal(g.String())
	require.NoError(t, err)
	assert.Equal(t, g, parsed)
	assert.True(t, strings.HasPrefix(g.String(), "hand world fixed"))
}

func TestStanceEqualIgnoresOrder(t *testing.T) {
	left := Hold{Link: "leftFoot", IK: FreeGoal("leftFoot")}
	right := Hold{Link: "rightFoot", IK: FreeGoal("rightFoot")}

	a, err := NewStance(left, right)
	require.NoError(t, err)
	b, err := NewStance(right, left)
	require.NoError(t, err)
	assert.True(t, a.Equal(&b))
	assert.Equal(t, []string{"leftFoot", "rightFoot"}, a.Links())

	_, err = NewStance(left, left)
	assert.ErrorIs(t, err, types.ErrMalformed)
}

func TestCopiesAreIndependent(t *testing.T) {
	h := Hold{Link: "foot", Contacts: []ContactPoint{{KFriction: 1}}, IK: FreeGoal("foot")}
	c := h.Copy()
	c.Contacts[0].KFriction = 2
	assert.Equal(t, 1.0, h.Contacts[0].KFriction)

	s := Stance{"foot": h}
	sc := s.Copy()
	sc["foot"].Contacts[0].KFriction = 3
	assert.Equal(t, 1.0, s["foot"].Contacts[0].KFriction)

	v := Vector{1, 2}
	vc := v.Copy()
	vc[0] = 9
	assert.Equal(t, 1.0, v[0])
}

func TestEqualTreatsNaNAsSame(t *testing.T) {
	nan := math.NaN()
	goal := FixedGoal("hand", Vector3{nan, 0, 0}, Vector3{}, Vector3{})
	values := []types.Value{
		&Vector{1, nan},
		&Vector3{nan, 1, 2},
		&Matrix3{{nan}},
		&RigidTransform{R: Identity3(), T: Vector3{0, nan, 0}},
		&ContactPoint{KFriction: nan},
		&goal,
		&Hold{Link: "hand", IK: goal, Contacts: []ContactPoint{{X: Vector3{nan}}}},
		&TriMesh{Vertices: []Vector3{{nan, 0, 0}}},
	}
	for _, v := range values {
		t.Run(fmt.Sprintf("%T", v), func(t *testing.T) {
			assert.True(t, v.Equal(v.Clone()))
		})
	}
	assert.False(t, (&Vector{nan}).Equal(&Vector{0}))
	assert.False(t, (&Vector3{1}).Equal(&Vector3{nan}))
}

func TestMultiPathConcat(t *testing.T) {
	p := MultiPath{Sections: []PathSection{
		{Milestones: []Vector{{0}, {1}}},
		{Milestones: []Vector{{2}, {3}}, Times: []float64{5, 6}},
		{Milestones: []Vector{{4}}},
	}}
	times, qs, err := p.Concat()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 5, 6, 7}, times)
	assert.Equal(t, []Vector{{0}, {1}, {2}, {3}, {4}}, qs)
	assert.Len(t, p.Milestones(), 5)
}

func TestMultiPathMisalignedSection(t *testing.T) {
	p := MultiPath{Sections: []PathSection{{Milestones: []Vector{{0}, {1}}, Times: []float64{0}}}}

	_, _, err := p.Concat()
	assert.ErrorIs(t, err, types.ErrMalformed)

	var buf bytes.Buffer
	assert.ErrorIs(t, p.WriteMarkup(&buf), types.ErrMalformed)
	assert.Zero(t, buf.Len())
}

func TestMultiPathValidate(t *testing.T) {
	tests := []struct {
		name string
		path MultiPath
		ok   bool
	}{
		{"empty", MultiPath{}, true},
		{"times aligned", MultiPath{Sections: []PathSection{{Milestones: []Vector{{0}, {1}}, Times: []float64{0, 1}}}}, true},
		{"times misaligned", MultiPath{Sections: []PathSection{{Milestones: []Vector{{0}, {1}}, Times: []float64{0}}}}, false},
		{"times decrease", MultiPath{Sections: []PathSection{{Milestones: []Vector{{0}, {1}}, Times: []float64{1, 0}}}}, false},
		{"velocities misaligned", MultiPath{Sections: []PathSection{{Milestones: []Vector{{0}}, Velocities: []Vector{{0}, {1}}}}}, false},
		{"unknown hold", MultiPath{Sections: []PathSection{{Milestones: []Vector{{0}}, HoldNames: []string{"h"}}}}, false},
		{"known hold", MultiPath{
			Sections: []PathSection{{Milestones: []Vector{{0}}, HoldNames: []string{"h"}}},
			Holds:    map[string]Hold{"h": {Link: "foot", IK: FreeGoal("foot")}},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.path.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, types.ErrMalformed)
			}
		})
	}
}

func TestMultiPathHasMetadata(t *testing.T) {
	plain := MultiPath{Sections: []PathSection{{Milestones: []Vector{{0}}, Times: []float64{0}}}}
	assert.False(t, plain.HasMetadata())

	withSettings := plain.Copy()
	withSettings.Settings = map[string]string{"robot": "atlas"}
	assert.True(t, withSettings.HasMetadata())

	withVel := plain.Copy()
	withVel.Sections[0].Velocities = []Vector{{1}}
	assert.True(t, withVel.HasMetadata())
	assert.False(t, plain.HasMetadata())
}

func TestMultiPathMarkupRoundTrip(t *testing.T) {
	foot := Hold{Link: "foot", Contacts: []ContactPoint{{N: Vector3{0, 0, 1}, KFriction: 0.7}}, IK: FreeGoal("foot")}
	in := MultiPath{
		Settings: map[string]string{"robot": "atlas"},
		Sections: []PathSection{
			{
				Settings:   map[string]string{"speed": "slow"},
				Milestones: []Vector{{0, 0}, {1, 1}},
				Velocities: []Vector{{0, 0}, {0.5, 0.5}},
				Times:      []float64{0, 1.5},
				IKGoals:    []IKGoal{FixedGoal("hand", Vector3{}, Vector3{1, 0, 0}, Vector3{})},
				HoldNames:  []string{"stand"},
			},
			{Milestones: []Vector{{2, 2}}},
		},
		Holds: map[string]Hold{"stand": foot},
	}

	var buf bytes.Buffer
	require.NoError(t, in.WriteMarkup(&buf))
	assert.Contains(t, buf.String(), "<multipath")

	var out MultiPath
	require.NoError(t, out.ReadMarkup(&buf))
	assert.True(t, in.Equal(out), "got %+v", out)
}

func TestMarkupRejectsGarbage(t *testing.T) {
	var p MultiPath
	assert.ErrorIs(t, p.ReadMarkup(strings.NewReader("<multipath><section>")), types.ErrMalformed)
	var w World
	assert.ErrorIs(t, w.ReadMarkup(strings.NewReader("not xml")), types.ErrMalformed)
}

func TestWorldMarkupRoundTrip(t *testing.T) {
	in := World{
		Robots:       []RobotEntry{{Name: "arm", File: "arm.urdf", Config: Vector{0, 0.5, 1}}},
		RigidObjects: []RigidObjectEntry{{Name: "box", Transform: RigidTransform{R: Identity3(), T: Vector3{1, 2, 3}}}},
		Terrains: []TerrainEntry{
			{Name: "floor", Mesh: TriMesh{
				Vertices:  []Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				Triangles: []Triangle{{0, 1, 2}},
			}},
			{Name: "hill", File: "hill.off"},
		},
		Background: []float64{0.1, 0.2, 0.3},
		Colors:     map[string][]float64{"box": {1, 0, 0, 1}},
	}
	require.True(t, in.HasAppearance())
	require.False(t, in.Empty())

	var buf bytes.Buffer
	require.NoError(t, in.WriteMarkup(&buf))

	var out World
	require.NoError(t, out.ReadMarkup(&buf))
	assert.True(t, in.Equal(out), "got %+v", out)
	assert.True(t, World{}.Empty())
}

func TestGraspMarkupRoundTrip(t *testing.T) {
	in := Grasp{
		ObjectIndex: 1,
		Holds: []Hold{
			{Link: "finger1", Contacts: []ContactPoint{{N: Vector3{1, 0, 0}, KFriction: 0.4}}, IK: FreeGoal("finger1")},
			{Link: "finger2", IK: FixedGoal("finger2", Vector3{}, Vector3{0, 1, 0}, Vector3{})},
		},
		FixedDOFs:   []int{7, 8},
		FixedValues: []float64{0.1, 0.2},
	}
	var buf bytes.Buffer
	require.NoError(t, in.WriteMarkup(&buf))

	var out Grasp
	require.NoError(t, out.ReadMarkup(&buf))
	assert.True(t, in.Equal(out), "got %+v", out)

	s, err := out.Stance()
	require.NoError(t, err)
	assert.Equal(t, []string{"finger1", "finger2"}, s.Links())
	assert.Len(t, out.IKGoals(), 2)
}

func TestGraspValidate(t *testing.T) {
	g := Grasp{FixedDOFs: []int{1}, FixedValues: nil}
	assert.ErrorIs(t, g.Validate(), types.ErrMalformed)
}

func TestHoldMarkupRoundTrip(t *testing.T) {
	in := Hold{
		Link:     "hand",
		Contacts: []ContactPoint{{X: Vector3{0, 0, 0.1}, N: Vector3{0, 0, 1}, KFriction: 0.9}},
		IK:       FixedGoal("hand", Vector3{}, Vector3{0, 0, 1}, Vector3{}),
	}
	var buf bytes.Buffer
	require.NoError(t, in.WriteMarkup(&buf))
	var out Hold
	require.NoError(t, out.ReadMarkup(&buf))
	assert.True(t, in.Equal(&out), "got %+v", out)
}
