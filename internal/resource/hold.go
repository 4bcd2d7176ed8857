package resource

import (
	"io"

	"github.com/mesh-intelligence/larder/pkg/model"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// Hold is a contact hold. It decomposes completely into its IK constraint
// followed by one ContactPoint per contact.
type Hold struct {
	named
	Hold model.Hold
}

func (h *Hold) Type() string { return types.TypeHold }

func (h *Hold) Formats() []types.Format {
	return []types.Format{types.FormatText, types.FormatMarkup, types.FormatDocument}
}

func (h *Hold) Load(format types.Format, r io.Reader) error {
	var hold model.Hold
	switch format {
	case types.FormatText:
		if err := readText(r, hold.ReadText); err != nil {
			return err
		}
	case types.FormatMarkup:
		if err := hold.ReadMarkup(r); err != nil {
			return err
		}
	case types.FormatDocument:
		if err := decodeDocument(r, &hold); err != nil {
			return err
		}
		if err := hold.Validate(); err != nil {
			return err
		}
	default:
		return unsupportedFormat(h.Type(), format)
	}
	h.Hold = hold
	return nil
}

func (h *Hold) Save(format types.Format, w io.Writer) error {
	switch format {
	case types.FormatText:
		return h.Hold.WriteText(w)
	case types.FormatMarkup:
		return h.Hold.WriteMarkup(w)
	case types.FormatDocument:
		return encodeDocument(w, h.Hold)
	default:
		return unsupportedFormat(h.Type(), format)
	}
}

func (h *Hold) Copy() types.Resource {
	return &Hold{named: h.named, Hold: h.Hold.Copy()}
}

func (h *Hold) Equal(other types.Resource) bool {
	o, ok := other.(*Hold)
	return ok && h.Hold.Equal(&o.Hold)
}

func (h *Hold) CastTypes() []string {
	return []string{types.TypeHold, types.TypeIKGoal}
}

// Cast to IKGoal keeps the hold constraint and drops the contacts. The
// constraint fully determines the link pose, so no pose information is lost.
func (h *Hold) Cast(tag string) (types.Resource, error) {
	if err := checkTarget(h.Type(), tag, h.CastTypes()); err != nil {
		return nil, err
	}
	if tag == types.TypeIKGoal {
		return MakeIKGoal(h.name, h.Hold.IK), nil
	}
	return h.Copy(), nil
}

func (h *Hold) SubTypes() []string {
	return []string{types.TypeIKGoal, types.TypeContactPoint}
}

func (h *Hold) ExtractTypes() []string {
	return []string{types.TypeContactPoint, types.TypeIKGoal}
}

func (h *Hold) Extract(tag string) (types.Decomposition, error) {
	if err := checkTarget(h.Type(), tag, h.ExtractTypes()); err != nil {
		return types.Decomposition{}, err
	}
	if h.Hold.Link == "" {
		return types.Decomposition{}, empty(h.Type(), "link")
	}
	if tag == types.TypeIKGoal {
		return types.Decomposition{
			Resources:  []types.Resource{MakeIKGoal(h.name+".ik", h.Hold.IK)},
			Incomplete: true,
			Reason:     "contacts are not preserved",
		}, nil
	}
	if len(h.Hold.Contacts) == 0 {
		return types.Decomposition{}, empty(h.Type(), "contacts")
	}
	return types.Decomposition{
		Resources:  contactResources(h.name, h.Hold.Contacts),
		Incomplete: true,
		Reason:     "IK constraint is not preserved",
	}, nil
}

// Unpack yields the IK constraint followed by the contacts.
func (h *Hold) Unpack() (types.Decomposition, error) {
	if h.Hold.Link == "" {
		return types.Decomposition{}, empty(h.Type(), "link")
	}
	subs := []types.Resource{MakeIKGoal(h.name+".ik", h.Hold.IK)}
	subs = append(subs, contactResources(h.name, h.Hold.Contacts)...)
	return types.Decomposition{Resources: subs}, nil
}

// Pack accepts an IKGoal followed by zero or more ContactPoint resources.
// The hold link is the IK goal's link.
func (h *Hold) Pack(subs []types.Resource) error {
	const expected = "IKGoal followed by zero or more ContactPoint"
	if len(subs) == 0 {
		return types.NewPackError(h.Type(), expected, subs)
	}
	ik, ok := subs[0].(*IKGoal)
	if !ok {
		return types.NewPackError(h.Type(), expected, subs)
	}
	hold := model.Hold{Link: ik.Goal.Link, IK: ik.Goal}
	for _, s := range subs[1:] {
		c, ok := ValueOf[*model.ContactPoint](s)
		if !ok {
			return types.NewPackError(h.Type(), expected, subs)
		}
		hold.Contacts = append(hold.Contacts, *c)
	}
	if err := hold.Validate(); err != nil {
		return types.NewPackError(h.Type(), expected, subs).InvalidElement(0, err)
	}
	h.Hold = hold
	return nil
}

func contactResources(parent string, cs []model.ContactPoint) []types.Resource {
	out := make([]types.Resource, len(cs))
	for i, c := range cs {
		out[i] = MakeContactPoint(subName(parent, i), c)
	}
	return out
}
