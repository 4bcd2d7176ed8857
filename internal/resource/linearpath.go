package resource

import (
	"fmt"
	"io"

	"github.com/mesh-intelligence/larder/pkg/model"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// LinearPath is a timed, piecewise-linear motion path: Times and Milestones
// are index aligned. It decomposes completely into a Vector of times followed
// by one Config per milestone.
type LinearPath struct {
	named
	Times      []float64
	Milestones []model.Vector
}

type linearPathDoc struct {
	Times      []float64      `yaml:"times"`
	Milestones []model.Vector `yaml:"milestones"`
}

func (p *LinearPath) Type() string { return types.TypeLinearPath }

func (p *LinearPath) Formats() []types.Format {
	return []types.Format{types.FormatText, types.FormatDocument}
}

// Load reads lines of "t n q1 ... qn", or a document with times and
// milestones.
func (p *LinearPath) Load(format types.Format, r io.Reader) error {
	var doc linearPathDoc
	switch format {
	case types.FormatText:
		err := readText(r, func(tr *types.TokenReader) error {
			for tr.More() {
				t, err := tr.Float()
				if err != nil {
					return err
				}
				var q model.Vector
				if err := q.ReadText(tr); err != nil {
					return err
				}
				doc.Times = append(doc.Times, t)
				doc.Milestones = append(doc.Milestones, q)
			}
			return nil
		})
		if err != nil {
			return err
		}
	case types.FormatDocument:
		if err := decodeDocument(r, &doc); err != nil {
			return err
		}
		if len(doc.Times) != len(doc.Milestones) {
			return types.Malformed("linear path has %d times for %d milestones", len(doc.Times), len(doc.Milestones))
		}
	default:
		return unsupportedFormat(p.Type(), format)
	}
	p.Times, p.Milestones = doc.Times, doc.Milestones
	return nil
}

// Validate checks that times and milestones are index aligned.
func (p *LinearPath) Validate() error {
	if len(p.Times) != len(p.Milestones) {
		return types.Malformed("linear path has %d times for %d milestones", len(p.Times), len(p.Milestones))
	}
	return nil
}

func (p *LinearPath) Save(format types.Format, w io.Writer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	switch format {
	case types.FormatText:
		for i := range p.Milestones {
			if _, err := fmt.Fprintf(w, "%s ", types.FormatFloat(p.Times[i])); err != nil {
				return err
			}
			if err := p.Milestones[i].WriteText(w); err != nil {
				return err
			}
		}
		return nil
	case types.FormatDocument:
		return encodeDocument(w, linearPathDoc{Times: p.Times, Milestones: p.Milestones})
	default:
		return unsupportedFormat(p.Type(), format)
	}
}

func (p *LinearPath) Copy() types.Resource {
	return &LinearPath{
		named:      p.named,
		Times:      append([]float64(nil), p.Times...),
		Milestones: model.CopyVectors(p.Milestones),
	}
}

func (p *LinearPath) Equal(other types.Resource) bool {
	o, ok := other.(*LinearPath)
	return ok && model.EqualFloats(p.Times, o.Times) && model.EqualVectors(p.Milestones, o.Milestones)
}

func (p *LinearPath) CastTypes() []string {
	return []string{types.TypeLinearPath, types.TypeMultiPath, types.TypeConfigs}
}

// Cast to MultiPath produces one timed section; Cast to Configs keeps the
// milestones.
func (p *LinearPath) Cast(tag string) (types.Resource, error) {
	if err := checkTarget(p.Type(), tag, p.CastTypes()); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cp := p.Copy().(*LinearPath)
	switch tag {
	case types.TypeMultiPath:
		out := &MultiPath{named: p.named}
		out.Path.Sections = []model.PathSection{{Times: cp.Times, Milestones: cp.Milestones}}
		return out, nil
	case types.TypeConfigs:
		return &Configs{named: p.named, Configs: cp.Milestones}, nil
	default:
		return cp, nil
	}
}

func (p *LinearPath) SubTypes() []string {
	return []string{types.TypeVector, types.TypeConfig}
}

func (p *LinearPath) ExtractTypes() []string {
	return []string{types.TypeConfig, types.TypeConfigs, types.TypeVector}
}

// Extract yields the milestones (as Config or as one Configs) or the times
// (as one Vector). Each on its own drops the other half of the path.
func (p *LinearPath) Extract(tag string) (types.Decomposition, error) {
	if err := checkTarget(p.Type(), tag, p.ExtractTypes()); err != nil {
		return types.Decomposition{}, err
	}
	if err := p.Validate(); err != nil {
		return types.Decomposition{}, err
	}
	if len(p.Milestones) == 0 {
		return types.Decomposition{}, empty(p.Type(), "milestones")
	}
	var subs []types.Resource
	reason := "times are not preserved"
	switch tag {
	case types.TypeConfig:
		subs = configResources(p.name, p.Milestones)
	case types.TypeConfigs:
		subs = []types.Resource{&Configs{named: p.named, Configs: p.Copy().(*LinearPath).Milestones}}
	case types.TypeVector:
		subs = []types.Resource{MakeVector(p.name+".times", p.Times)}
		reason = "milestones are not preserved"
	}
	return types.Decomposition{Resources: subs, Incomplete: true, Reason: reason}, nil
}

// Unpack yields the times Vector followed by one Config per milestone.
func (p *LinearPath) Unpack() (types.Decomposition, error) {
	if err := p.Validate(); err != nil {
		return types.Decomposition{}, err
	}
	if len(p.Milestones) == 0 {
		return types.Decomposition{}, empty(p.Type(), "milestones")
	}
	subs := []types.Resource{MakeVector(p.name+".times", p.Times)}
	subs = append(subs, configResources(p.name, p.Milestones)...)
	return types.Decomposition{Resources: subs}, nil
}

// Pack accepts a Vector of n times followed by n Config resources.
func (p *LinearPath) Pack(subs []types.Resource) error {
	if len(subs) == 0 {
		return types.NewPackError(p.Type(), "Vector followed by one Config per time", subs)
	}
	times, ok := ValueOf[*model.Vector](subs[0])
	if !ok || subs[0].Type() != types.TypeVector {
		return types.NewPackError(p.Type(), "Vector followed by one Config per time", subs)
	}
	expected := fmt.Sprintf("Vector followed by %d Config", len(*times))
	if len(subs)-1 != len(*times) {
		return types.NewPackError(p.Type(), expected, subs)
	}
	qs, err := configsOf(subs[1:])
	if err != nil {
		return types.NewPackError(p.Type(), expected, subs)
	}
	p.Times = []float64(times.Copy())
	p.Milestones = qs
	return nil
}
