package resource

import (
	"io"

	"github.com/mesh-intelligence/larder/pkg/model"
	"github.com/mesh-intelligence/larder/pkg/types"
)

const graspLoss = "object and robot indices and fixed DOFs are not preserved"

// Grasp is a hand grasp. It decomposes into a single Stance; the fixed DOF
// descriptors and indices do not survive the round trip.
type Grasp struct {
	named
	Grasp model.Grasp
}

func (g *Grasp) Type() string { return types.TypeGrasp }

func (g *Grasp) Formats() []types.Format {
	return []types.Format{types.FormatMarkup, types.FormatDocument}
}

func (g *Grasp) Load(format types.Format, r io.Reader) error {
	var gr model.Grasp
	switch format {
	case types.FormatMarkup:
		if err := gr.ReadMarkup(r); err != nil {
			return err
		}
	case types.FormatDocument:
		if err := decodeDocument(r, &gr); err != nil {
			return err
		}
		if err := gr.Validate(); err != nil {
			return err
		}
	default:
		return unsupportedFormat(g.Type(), format)
	}
	g.Grasp = gr
	return nil
}

func (g *Grasp) Save(format types.Format, w io.Writer) error {
	switch format {
	case types.FormatMarkup:
		return g.Grasp.WriteMarkup(w)
	case types.FormatDocument:
		return encodeDocument(w, g.Grasp)
	default:
		return unsupportedFormat(g.Type(), format)
	}
}

func (g *Grasp) Copy() types.Resource {
	return &Grasp{named: g.named, Grasp: g.Grasp.Copy()}
}

func (g *Grasp) Equal(other types.Resource) bool {
	o, ok := other.(*Grasp)
	return ok && g.Grasp.Equal(o.Grasp)
}

// CastTypes lists Stance only when the holds have distinct links.
func (g *Grasp) CastTypes() []string {
	if _, err := g.Grasp.Stance(); err == nil && len(g.Grasp.Holds) > 0 {
		return []string{types.TypeGrasp, types.TypeStance}
	}
	return []string{types.TypeGrasp}
}

func (g *Grasp) Cast(tag string) (types.Resource, error) {
	if err := checkTarget(g.Type(), tag, g.CastTypes()); err != nil {
		return nil, err
	}
	if tag == types.TypeStance {
		st, err := g.Grasp.Stance()
		if err != nil {
			return nil, err
		}
		return MakeStance(g.name, st), nil
	}
	return g.Copy(), nil
}

func (g *Grasp) SubTypes() []string { return []string{types.TypeStance} }

func (g *Grasp) ExtractTypes() []string {
	return []string{types.TypeStance, types.TypeHold, types.TypeIKGoal, types.TypeConfig}
}

func (g *Grasp) Extract(tag string) (types.Decomposition, error) {
	if err := checkTarget(g.Type(), tag, g.ExtractTypes()); err != nil {
		return types.Decomposition{}, err
	}
	if tag == types.TypeConfig {
		if len(g.Grasp.FixedValues) == 0 {
			return types.Decomposition{}, empty(g.Type(), "fixed DOFs")
		}
		return types.Decomposition{
			Resources:  []types.Resource{MakeConfig(g.name+".fixed", model.Vector(g.Grasp.FixedValues))},
			Incomplete: true,
			Reason:     "DOF indices are not preserved",
		}, nil
	}
	if len(g.Grasp.Holds) == 0 {
		return types.Decomposition{}, empty(g.Type(), "holds")
	}
	var subs []types.Resource
	switch tag {
	case types.TypeStance:
		return g.Unpack()
	case types.TypeHold:
		for i, h := range g.Grasp.Holds {
			subs = append(subs, MakeHold(subName(g.name, i), h))
		}
	default:
		for i, ik := range g.Grasp.IKGoals() {
			subs = append(subs, MakeIKGoal(subName(g.name, i), ik))
		}
	}
	return types.Decomposition{Resources: subs, Incomplete: true, Reason: graspLoss}, nil
}

// Unpack yields the grasp holds as one Stance. Grasps whose holds share a
// link have no stance and fail.
func (g *Grasp) Unpack() (types.Decomposition, error) {
	if len(g.Grasp.Holds) == 0 {
		return types.Decomposition{}, empty(g.Type(), "holds")
	}
	st, err := g.Grasp.Stance()
	if err != nil {
		return types.Decomposition{}, err
	}
	return types.Decomposition{
		Resources:  []types.Resource{MakeStance(g.name+".stance", st)},
		Incomplete: true,
		Reason:     graspLoss,
	}, nil
}

// Pack accepts exactly one Stance. Indices and fixed DOFs are reset.
func (g *Grasp) Pack(subs []types.Resource) error {
	if len(subs) != 1 {
		return types.NewPackError(g.Type(), "exactly one Stance", subs)
	}
	s, ok := subs[0].(*Stance)
	if !ok {
		return types.NewPackError(g.Type(), "exactly one Stance", subs)
	}
	holds := s.Stance.Holds()
	for _, h := range holds {
		if err := h.Validate(); err != nil {
			return types.NewPackError(g.Type(), "exactly one Stance", subs).InvalidElement(0, err)
		}
	}
	g.Grasp = model.Grasp{Holds: holds}
	return nil
}
