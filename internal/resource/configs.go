package resource

import (
	"fmt"
	"io"

	"github.com/mesh-intelligence/larder/pkg/model"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// Configs is an ordered list of configurations. It decomposes completely
// into one Config per element.
type Configs struct {
	named
	Configs []model.Vector
}

func (c *Configs) Type() string { return types.TypeConfigs }

func (c *Configs) Formats() []types.Format {
	return []types.Format{types.FormatText, types.FormatDocument}
}

// Load reads "n" followed by n configurations, or a YAML list of lists.
func (c *Configs) Load(format types.Format, r io.Reader) error {
	var qs []model.Vector
	switch format {
	case types.FormatText:
		err := readText(r, func(tr *types.TokenReader) error {
			n, err := tr.Count()
			if err != nil {
				return err
			}
			qs = make([]model.Vector, 0, types.CapHint(n))
			for len(qs) < n {
				var q model.Vector
				if err := q.ReadText(tr); err != nil {
					return err
				}
				qs = append(qs, q)
			}
			return nil
		})
		if err != nil {
			return err
		}
	case types.FormatDocument:
		if err := decodeDocument(r, &qs); err != nil {
			return err
		}
	default:
		return unsupportedFormat(c.Type(), format)
	}
	c.Configs = qs
	return nil
}

func (c *Configs) Save(format types.Format, w io.Writer) error {
	switch format {
	case types.FormatText:
		if _, err := fmt.Fprintf(w, "%d\n", len(c.Configs)); err != nil {
			return err
		}
		for i := range c.Configs {
			if err := c.Configs[i].WriteText(w); err != nil {
				return err
			}
		}
		return nil
	case types.FormatDocument:
		return encodeDocument(w, c.Configs)
	default:
		return unsupportedFormat(c.Type(), format)
	}
}

func (c *Configs) Copy() types.Resource {
	return &Configs{named: c.named, Configs: model.CopyVectors(c.Configs)}
}

func (c *Configs) Equal(other types.Resource) bool {
	o, ok := other.(*Configs)
	return ok && model.EqualVectors(c.Configs, o.Configs)
}

func (c *Configs) CastTypes() []string {
	return []string{types.TypeConfigs, types.TypeLinearPath, types.TypeMultiPath}
}

// Cast to LinearPath times the configurations 0, 1, 2, ...; Cast to
// MultiPath produces one untimed section.
func (c *Configs) Cast(tag string) (types.Resource, error) {
	if err := checkTarget(c.Type(), tag, c.CastTypes()); err != nil {
		return nil, err
	}
	switch tag {
	case types.TypeLinearPath:
		p := &LinearPath{named: c.named}
		for i, q := range c.Configs {
			p.Times = append(p.Times, float64(i))
			p.Milestones = append(p.Milestones, q.Copy())
		}
		return p, nil
	case types.TypeMultiPath:
		p := &MultiPath{named: c.named}
		p.Path.Sections = []model.PathSection{{Milestones: c.Copy().(*Configs).Configs}}
		return p, nil
	default:
		return c.Copy(), nil
	}
}

func (c *Configs) SubTypes() []string { return []string{types.TypeConfig} }

func (c *Configs) ExtractTypes() []string { return []string{types.TypeConfig} }

func (c *Configs) Extract(tag string) (types.Decomposition, error) {
	if err := checkTarget(c.Type(), tag, c.ExtractTypes()); err != nil {
		return types.Decomposition{}, err
	}
	if len(c.Configs) == 0 {
		return types.Decomposition{}, empty(c.Type(), "configurations")
	}
	return types.Decomposition{Resources: configResources(c.name, c.Configs)}, nil
}

func (c *Configs) Unpack() (types.Decomposition, error) {
	return c.Extract(types.TypeConfig)
}

// Pack accepts one or more Config resources.
func (c *Configs) Pack(subs []types.Resource) error {
	qs, err := configsOf(subs)
	if err != nil || len(qs) == 0 {
		return types.NewPackError(c.Type(), "one or more Config", subs)
	}
	c.Configs = qs
	return nil
}

// configResources wraps each configuration in a Config resource.
func configResources(parent string, qs []model.Vector) []types.Resource {
	out := make([]types.Resource, len(qs))
	for i, q := range qs {
		out[i] = MakeConfig(subName(parent, i), q)
	}
	return out
}

// configsOf unwraps Config resources, failing on any other type.
func configsOf(subs []types.Resource) ([]model.Vector, error) {
	qs := make([]model.Vector, 0, len(subs))
	for _, s := range subs {
		v, ok := ValueOf[*model.Vector](s)
		if !ok || s.Type() != types.TypeConfig {
			return nil, fmt.Errorf("%w: got %s", types.ErrPackMismatch, s.Type())
		}
		qs = append(qs, v.Copy())
	}
	return qs, nil
}
