package resource

import (
	"fmt"

	"github.com/mesh-intelligence/larder/pkg/model"
	"github.com/mesh-intelligence/larder/pkg/types"
)

func blankVector() types.Value         { return new(model.Vector) }
func blankIntArray() types.Value       { return new(model.IntArray) }
func blankVector3() types.Value        { return new(model.Vector3) }
func blankMatrix3() types.Value        { m := model.Identity3(); return &m }
func blankMatrix() types.Value         { return new(model.Matrix) }
func blankRigidTransform() types.Value { x := model.IdentityTransform(); return &x }
func blankPrimitive() types.Value      { return new(model.GeometricPrimitive3D) }
func blankTriMesh() types.Value        { return new(model.TriMesh) }
func blankPointCloud() types.Value     { return new(model.PointCloud) }
func blankContactPoint() types.Value   { return new(model.ContactPoint) }
func blankRobot() types.Value          { return new(model.RobotEntry) }
func blankRigidObject() types.Value {
	return &model.RigidObjectEntry{Transform: model.IdentityTransform()}
}
func blankTerrain() types.Value { return new(model.TerrainEntry) }

// basicBlanks maps every single-value tag to its blank value constructor.
var basicBlanks = map[string]func() types.Value{
	types.TypeConfig:               blankVector,
	types.TypeVector:               blankVector,
	types.TypeIntArray:             blankIntArray,
	types.TypeVector3:              blankVector3,
	types.TypeMatrix3:              blankMatrix3,
	types.TypeMatrix:               blankMatrix,
	types.TypeRigidTransform:       blankRigidTransform,
	types.TypeGeometricPrimitive3D: blankPrimitive,
	types.TypeTriMesh:              blankTriMesh,
	types.TypePointCloud:           blankPointCloud,
	types.TypeContactPoint:         blankContactPoint,
	types.TypeRobot:                blankRobot,
	types.TypeRigidObject:          blankRigidObject,
	types.TypeTerrain:              blankTerrain,
}

func makeBasic(tag, name string, v types.Value) *Basic {
	b := NewBasic(tag, basicBlanks[tag])
	b.SetName(name)
	b.SetValue(v)
	return b
}

func MakeConfig(name string, q model.Vector) *Basic { return makeBasic(types.TypeConfig, name, &q) }
func MakeVector(name string, v model.Vector) *Basic { return makeBasic(types.TypeVector, name, &v) }
func MakeIntArray(name string, a model.IntArray) *Basic {
	return makeBasic(types.TypeIntArray, name, &a)
}
func MakeVector3(name string, v model.Vector3) *Basic { return makeBasic(types.TypeVector3, name, &v) }
func MakeMatrix3(name string, m model.Matrix3) *Basic { return makeBasic(types.TypeMatrix3, name, &m) }
func MakeMatrix(name string, m model.Matrix) *Basic   { return makeBasic(types.TypeMatrix, name, &m) }
func MakeRigidTransform(name string, x model.RigidTransform) *Basic {
	return makeBasic(types.TypeRigidTransform, name, &x)
}
func MakeGeometricPrimitive(name string, g model.GeometricPrimitive3D) *Basic {
	return makeBasic(types.TypeGeometricPrimitive3D, name, &g)
}
func MakeTriMesh(name string, m model.TriMesh) *Basic { return makeBasic(types.TypeTriMesh, name, &m) }
func MakePointCloud(name string, p model.PointCloud) *Basic {
	return makeBasic(types.TypePointCloud, name, &p)
}
func MakeContactPoint(name string, c model.ContactPoint) *Basic {
	return makeBasic(types.TypeContactPoint, name, &c)
}

// MakeRobot, MakeRigidObject and MakeTerrain name the resource after the
// world entry.
func MakeRobot(r model.RobotEntry) *Basic { return makeBasic(types.TypeRobot, r.Name, &r) }
func MakeRigidObject(o model.RigidObjectEntry) *Basic {
	return makeBasic(types.TypeRigidObject, o.Name, &o)
}
func MakeTerrain(t model.TerrainEntry) *Basic { return makeBasic(types.TypeTerrain, t.Name, &t) }

func MakeConfigs(name string, qs []model.Vector) *Configs {
	c := &Configs{Configs: model.CopyVectors(qs)}
	c.SetName(name)
	return c
}

func MakeLinearPath(name string, times []float64, milestones []model.Vector) *LinearPath {
	p := &LinearPath{Times: append([]float64(nil), times...), Milestones: model.CopyVectors(milestones)}
	p.SetName(name)
	return p
}

func MakeMultiPath(name string, mp model.MultiPath) *MultiPath {
	p := &MultiPath{Path: mp.Copy()}
	p.SetName(name)
	return p
}

func MakeIKGoal(name string, g model.IKGoal) *IKGoal {
	r := &IKGoal{Goal: g}
	r.SetName(name)
	return r
}

func MakeHold(name string, h model.Hold) *Hold {
	r := &Hold{Hold: h.Copy()}
	r.SetName(name)
	return r
}

func MakeStance(name string, s model.Stance) *Stance {
	r := &Stance{Stance: s.Copy()}
	r.SetName(name)
	return r
}

func MakeGrasp(name string, g model.Grasp) *Grasp {
	r := &Grasp{Grasp: g.Copy()}
	r.SetName(name)
	return r
}

func MakeWorld(name string, w model.World) *World {
	r := &World{World: w.Copy()}
	r.SetName(name)
	return r
}

// MakeResource wraps a model value in the resource type that carries it. A
// model.Vector becomes a Config; use MakeVector for a plain Vector. Values
// that fail their own validation are rejected with ErrMalformed.
func MakeResource(name string, value any) (types.Resource, error) {
	if v, ok := value.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	switch v := value.(type) {
	case model.Vector:
		return MakeConfig(name, v), nil
	case []float64:
		return MakeConfig(name, v), nil
	case model.IntArray:
		return MakeIntArray(name, v), nil
	case []int:
		return MakeIntArray(name, v), nil
	case model.Vector3:
		return MakeVector3(name, v), nil
	case model.Matrix3:
		return MakeMatrix3(name, v), nil
	case model.Matrix:
		return MakeMatrix(name, v), nil
	case model.RigidTransform:
		return MakeRigidTransform(name, v), nil
	case model.GeometricPrimitive3D:
		return MakeGeometricPrimitive(name, v), nil
	case model.TriMesh:
		return MakeTriMesh(name, v), nil
	case model.PointCloud:
		return MakePointCloud(name, v), nil
	case model.ContactPoint:
		return MakeContactPoint(name, v), nil
	case []model.Vector:
		return MakeConfigs(name, v), nil
	case model.MultiPath:
		return MakeMultiPath(name, v), nil
	case model.IKGoal:
		return MakeIKGoal(name, v), nil
	case model.Hold:
		return MakeHold(name, v), nil
	case model.Stance:
		return MakeStance(name, v), nil
	case model.Grasp:
		return MakeGrasp(name, v), nil
	case model.World:
		return MakeWorld(name, v), nil
	default:
		return nil, fmt.Errorf("%w: no resource type holds %T", types.ErrUnsupportedType, value)
	}
}
