package resource

import (
	"io"

	"github.com/mesh-intelligence/larder/pkg/model"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// IKGoal is a kinematic pose target. It has no decomposition; it casts to a
// RigidTransform when fully constrained and to a Vector3 when its position is
// fixed.
type IKGoal struct {
	named
	Goal model.IKGoal
}

func (g *IKGoal) Type() string { return types.TypeIKGoal }

func (g *IKGoal) Formats() []types.Format {
	return []types.Format{types.FormatText, types.FormatDocument}
}

func (g *IKGoal) Load(format types.Format, r io.Reader) error {
	var goal model.IKGoal
	switch format {
	case types.FormatText:
		if err := readText(r, goal.ReadText); err != nil {
			return err
		}
	case types.FormatDocument:
		if err := decodeDocument(r, &goal); err != nil {
			return err
		}
		if err := goal.Validate(); err != nil {
			return err
		}
	default:
		return unsupportedFormat(g.Type(), format)
	}
	g.Goal = goal
	return nil
}

func (g *IKGoal) Save(format types.Format, w io.Writer) error {
	switch format {
	case types.FormatText:
		return g.Goal.WriteText(w)
	case types.FormatDocument:
		return encodeDocument(w, g.Goal)
	default:
		return unsupportedFormat(g.Type(), format)
	}
}

func (g *IKGoal) Copy() types.Resource {
	return &IKGoal{named: g.named, Goal: g.Goal}
}

func (g *IKGoal) Equal(other types.Resource) bool {
	o, ok := other.(*IKGoal)
	return ok && g.Goal.Equal(&o.Goal)
}

// CastTypes depends on the constraint: RigidTransform needs a fixed position
// and rotation, Vector3 a fixed position.
func (g *IKGoal) CastTypes() []string {
	out := []string{types.TypeIKGoal}
	if _, ok := g.Goal.Transform(); ok {
		out = append(out, types.TypeRigidTransform)
	}
	if _, ok := g.Goal.Position(); ok {
		out = append(out, types.TypeVector3)
	}
	return out
}

func (g *IKGoal) Cast(tag string) (types.Resource, error) {
	if err := checkTarget(g.Type(), tag, g.CastTypes()); err != nil {
		return nil, err
	}
	switch tag {
	case types.TypeRigidTransform:
		x, _ := g.Goal.Transform()
		return MakeRigidTransform(g.name, x), nil
	case types.TypeVector3:
		p, _ := g.Goal.Position()
		return MakeVector3(g.name, p), nil
	default:
		return g.Copy(), nil
	}
}
