package resource

import (
	"io"

	"github.com/mesh-intelligence/larder/pkg/model"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// multiPathLoss names what a MultiPath decomposition drops.
const multiPathLoss = "path settings, section settings, velocities, IK goals and holds are not preserved"

// MultiPath is a multi-segment path. Its canonical decomposition is one
// LinearPath per timed section and one Configs per untimed section. Section
// metadata does not survive it.
type MultiPath struct {
	named
	Path model.MultiPath
}

func (p *MultiPath) Type() string { return types.TypeMultiPath }

func (p *MultiPath) Formats() []types.Format {
	return []types.Format{types.FormatMarkup, types.FormatDocument}
}

func (p *MultiPath) Load(format types.Format, r io.Reader) error {
	var path model.MultiPath
	switch format {
	case types.FormatMarkup:
		if err := path.ReadMarkup(r); err != nil {
			return err
		}
	case types.FormatDocument:
		if err := decodeDocument(r, &path); err != nil {
			return err
		}
		if err := path.Validate(); err != nil {
			return err
		}
	default:
		return unsupportedFormat(p.Type(), format)
	}
	p.Path = path
	return nil
}

func (p *MultiPath) Save(format types.Format, w io.Writer) error {
	switch format {
	case types.FormatMarkup:
		return p.Path.WriteMarkup(w)
	case types.FormatDocument:
		return encodeDocument(w, p.Path)
	default:
		return unsupportedFormat(p.Type(), format)
	}
}

func (p *MultiPath) Copy() types.Resource {
	return &MultiPath{named: p.named, Path: p.Path.Copy()}
}

func (p *MultiPath) Equal(other types.Resource) bool {
	o, ok := other.(*MultiPath)
	return ok && p.Path.Equal(o.Path)
}

func (p *MultiPath) CastTypes() []string {
	return []string{types.TypeMultiPath, types.TypeLinearPath, types.TypeConfigs}
}

// Cast to LinearPath concatenates the sections (see model.MultiPath.Concat);
// Cast to Configs concatenates their milestones.
func (p *MultiPath) Cast(tag string) (types.Resource, error) {
	if err := checkTarget(p.Type(), tag, p.CastTypes()); err != nil {
		return nil, err
	}
	switch tag {
	case types.TypeLinearPath:
		times, qs, err := p.Path.Concat()
		if err != nil {
			return nil, err
		}
		return &LinearPath{named: p.named, Times: times, Milestones: qs}, nil
	case types.TypeConfigs:
		return &Configs{named: p.named, Configs: p.Path.Milestones()}, nil
	default:
		return p.Copy(), nil
	}
}

func (p *MultiPath) SubTypes() []string {
	return []string{types.TypeLinearPath, types.TypeConfigs}
}

func (p *MultiPath) ExtractTypes() []string {
	return []string{types.TypeLinearPath, types.TypeConfigs, types.TypeConfig, types.TypeHold, types.TypeIKGoal}
}

func (p *MultiPath) Extract(tag string) (types.Decomposition, error) {
	if err := checkTarget(p.Type(), tag, p.ExtractTypes()); err != nil {
		return types.Decomposition{}, err
	}
	var subs []types.Resource
	switch tag {
	case types.TypeLinearPath:
		for i, s := range p.Path.Sections {
			sec := model.MultiPath{Sections: []model.PathSection{s}}
			times, qs, err := sec.Concat()
			if err != nil {
				return types.Decomposition{}, err
			}
			subs = append(subs, &LinearPath{named: named{subName(p.name, i)}, Times: times, Milestones: qs})
		}
	case types.TypeConfigs:
		for i, s := range p.Path.Sections {
			subs = append(subs, MakeConfigs(subName(p.name, i), s.Milestones))
		}
	case types.TypeConfig:
		subs = configResources(p.name, p.Path.Milestones())
	case types.TypeHold:
		for _, name := range p.Path.HoldNames() {
			subs = append(subs, MakeHold(name, p.Path.Holds[name]))
		}
	case types.TypeIKGoal:
		for _, s := range p.Path.Sections {
			for _, g := range s.IKGoals {
				subs = append(subs, MakeIKGoal(subName(p.name, len(subs)), g))
			}
		}
	}
	if len(subs) == 0 {
		return types.Decomposition{}, empty(p.Type(), tag+" content")
	}
	return types.Decomposition{Resources: subs, Incomplete: true, Reason: multiPathLoss}, nil
}

// Unpack yields one LinearPath per timed section and one Configs per
// untimed section, in section order. It is complete only for paths without
// settings, velocities, holds or IK goals.
func (p *MultiPath) Unpack() (types.Decomposition, error) {
	if len(p.Path.Sections) == 0 {
		return types.Decomposition{}, empty(p.Type(), "sections")
	}
	subs := make([]types.Resource, len(p.Path.Sections))
	for i, s := range p.Path.Sections {
		if err := s.Validate(); err != nil {
			return types.Decomposition{}, err
		}
		if s.Timed() {
			subs[i] = MakeLinearPath(subName(p.name, i), s.Times, s.Milestones)
		} else {
			subs[i] = MakeConfigs(subName(p.name, i), s.Milestones)
		}
	}
	d := types.Decomposition{Resources: subs}
	if p.Path.HasMetadata() {
		d.Incomplete = true
		d.Reason = multiPathLoss
	}
	return d, nil
}

// Pack accepts one or more LinearPath or Configs resources, one per section.
func (p *MultiPath) Pack(subs []types.Resource) error {
	const expected = "one or more LinearPath or Configs"
	if len(subs) == 0 {
		return types.NewPackError(p.Type(), expected, subs)
	}
	sections := make([]model.PathSection, 0, len(subs))
	for _, s := range subs {
		switch sub := s.(type) {
		case *LinearPath:
			if err := sub.Validate(); err != nil {
				return types.NewPackError(p.Type(), expected, subs).InvalidElement(len(sections), err)
			}
			cp := sub.Copy().(*LinearPath)
			sections = append(sections, model.PathSection{Times: cp.Times, Milestones: cp.Milestones})
		case *Configs:
			sections = append(sections, model.PathSection{Milestones: sub.Copy().(*Configs).Configs})
		default:
			return types.NewPackError(p.Type(), expected, subs)
		}
	}
	p.Path = model.MultiPath{Sections: sections}
	return nil
}
