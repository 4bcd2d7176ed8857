package resource

import (
	"io"

	"github.com/mesh-intelligence/larder/pkg/model"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// Stance is a set of holds, at most one per link. It decomposes completely
// into its holds sorted by link.
type Stance struct {
	named
	Stance model.Stance
}

func (s *Stance) Type() string { return types.TypeStance }

func (s *Stance) Formats() []types.Format {
	return []types.Format{types.FormatText, types.FormatMarkup, types.FormatDocument}
}

func (s *Stance) Load(format types.Format, r io.Reader) error {
	var st model.Stance
	switch format {
	case types.FormatText:
		if err := readText(r, st.ReadText); err != nil {
			return err
		}
	case types.FormatMarkup:
		if err := st.ReadMarkup(r); err != nil {
			return err
		}
	case types.FormatDocument:
		if err := decodeDocument(r, &st); err != nil {
			return err
		}
	default:
		return unsupportedFormat(s.Type(), format)
	}
	s.Stance = st
	return nil
}

func (s *Stance) Save(format types.Format, w io.Writer) error {
	switch format {
	case types.FormatText:
		return s.Stance.WriteText(w)
	case types.FormatMarkup:
		return s.Stance.WriteMarkup(w)
	case types.FormatDocument:
		return encodeDocument(w, s.Stance)
	default:
		return unsupportedFormat(s.Type(), format)
	}
}

func (s *Stance) Copy() types.Resource {
	return &Stance{named: s.named, Stance: s.Stance.Copy()}
}

func (s *Stance) Equal(other types.Resource) bool {
	o, ok := other.(*Stance)
	return ok && s.Stance.Equal(&o.Stance)
}

// CastTypes lists Hold only for a single-hold stance.
func (s *Stance) CastTypes() []string {
	if len(s.Stance) == 1 {
		return []string{types.TypeStance, types.TypeHold}
	}
	return []string{types.TypeStance}
}

func (s *Stance) Cast(tag string) (types.Resource, error) {
	if err := checkTarget(s.Type(), tag, s.CastTypes()); err != nil {
		return nil, err
	}
	if tag == types.TypeHold {
		return MakeHold(s.name, s.Stance.Holds()[0]), nil
	}
	return s.Copy(), nil
}

func (s *Stance) SubTypes() []string { return []string{types.TypeHold} }

func (s *Stance) ExtractTypes() []string {
	return []string{types.TypeHold, types.TypeIKGoal, types.TypeContactPoint}
}

func (s *Stance) Extract(tag string) (types.Decomposition, error) {
	if err := checkTarget(s.Type(), tag, s.ExtractTypes()); err != nil {
		return types.Decomposition{}, err
	}
	if len(s.Stance) == 0 {
		return types.Decomposition{}, empty(s.Type(), "holds")
	}
	switch tag {
	case types.TypeHold:
		return s.Unpack()
	case types.TypeIKGoal:
		var subs []types.Resource
		for _, h := range s.Stance.Holds() {
			subs = append(subs, MakeIKGoal(h.Link, h.IK))
		}
		return types.Decomposition{Resources: subs, Incomplete: true, Reason: "contacts are not preserved"}, nil
	default:
		var subs []types.Resource
		for _, h := range s.Stance.Holds() {
			for j, c := range h.Contacts {
				subs = append(subs, MakeContactPoint(subName(h.Link, j), c))
			}
		}
		if len(subs) == 0 {
			return types.Decomposition{}, empty(s.Type(), "contacts")
		}
		return types.Decomposition{Resources: subs, Incomplete: true, Reason: "hold links and IK constraints are not preserved"}, nil
	}
}

// Unpack yields one Hold per link in sorted link order, each named by its
// link.
func (s *Stance) Unpack() (types.Decomposition, error) {
	if len(s.Stance) == 0 {
		return types.Decomposition{}, empty(s.Type(), "holds")
	}
	holds := s.Stance.Holds()
	subs := make([]types.Resource, len(holds))
	for i, h := range holds {
		subs[i] = MakeHold(h.Link, h)
	}
	return types.Decomposition{Resources: subs}, nil
}

// Pack accepts one or more Hold resources with distinct links.
func (s *Stance) Pack(subs []types.Resource) error {
	holds, err := holdsOf(s.Type(), "one or more Hold with distinct links", subs)
	if err != nil {
		return err
	}
	st, err := model.NewStance(holds...)
	if err != nil {
		return types.NewPackError(s.Type(), "one or more Hold with distinct links", subs)
	}
	s.Stance = st
	return nil
}

func holdsOf(target, expected string, subs []types.Resource) ([]model.Hold, error) {
	if len(subs) == 0 {
		return nil, types.NewPackError(target, expected, subs)
	}
	holds := make([]model.Hold, len(subs))
	for i, sub := range subs {
		h, ok := sub.(*Hold)
		if !ok {
			return nil, types.NewPackError(target, expected, subs)
		}
		if err := h.Hold.Validate(); err != nil {
			return nil, types.NewPackError(target, expected, subs).InvalidElement(i, err)
		}
		holds[i] = h.Hold.Copy()
	}
	return holds, nil
}
