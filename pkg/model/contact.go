package model

import (
	"fmt"
	"io"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// ContactPoint is a point contact with an outward normal and friction
// coefficient.
type ContactPoint struct {
	X         Vector3 `yaml:"x"`
	N         Vector3 `yaml:"n"`
	KFriction float64 `yaml:"kFriction"`
}

// WriteText writes "x y z nx ny nz kFriction".
func (c *ContactPoint) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s %s %s\n", types.JoinFloats(c.X[:]), types.JoinFloats(c.N[:]), types.FormatFloat(c.KFriction))
	return err
}

// ReadText reads "x y z nx ny nz kFriction".
func (c *ContactPoint) ReadText(tr *types.TokenReader) error {
	xs, err := tr.Floats(7)
	if err != nil {
		return err
	}
	copy(c.X[:], xs[:3])
	copy(c.N[:], xs[3:6])
	c.KFriction = xs[6]
	return nil
}

// Clone implements types.Value.
func (c *ContactPoint) Clone() types.Value {
	cp := *c
	return &cp
}

// Equal implements types.Value.
func (c *ContactPoint) Equal(other types.Value) bool {
	o, ok := other.(*ContactPoint)
	return ok && c.same(*o)
}

func (c ContactPoint) same(o ContactPoint) bool {
	return c.X.same(o.X) && c.N.same(o.N) && sameFloat(c.KFriction, o.KFriction)
}

// Hold is a set of contacts between one robot link and the environment,
// together with the IK constraint that keeps the link in place.
// IK.Link always names the same link as Link.
type Hold struct {
	Link     string         `yaml:"link"`
	Contacts []ContactPoint `yaml:"contacts"`
	IK       IKGoal         `yaml:"ik"`
}

// Copy returns an independent copy.
func (h Hold) Copy() Hold {
	out := h
	if h.Contacts != nil {
		out.Contacts = append([]ContactPoint(nil), h.Contacts...)
	}
	return out
}

// Validate checks the link name and the IK constraint.
func (h Hold) Validate() error {
	if !types.ValidToken(h.Link) {
		return types.Malformed("hold link %q", h.Link)
	}
	if h.IK.Link != h.Link {
		return types.Malformed("hold link %q does not match ik link %q", h.Link, h.IK.Link)
	}
	return h.IK.Validate()
}

// WriteText writes "link n contacts... ik".
func (h *Hold) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s %d\n", h.Link, len(h.Contacts)); err != nil {
		return err
	}
	for i := range h.Contacts {
		if err := h.Contacts[i].WriteText(w); err != nil {
			return err
		}
	}
	return h.IK.WriteText(w)
}

// ReadText reads the form written by WriteText.
func (h *Hold) ReadText(tr *types.TokenReader) error {
	var out Hold
	var err error
	if out.Link, err = tr.Next(); err != nil {
		return err
	}
	n, err := tr.Count()
	if err != nil {
		return err
	}
	out.Contacts = make([]ContactPoint, 0, types.CapHint(n))
	for len(out.Contacts) < n {
		var c ContactPoint
		if err := c.ReadText(tr); err != nil {
			return err
		}
		out.Contacts = append(out.Contacts, c)
	}
	if err := out.IK.ReadText(tr); err != nil {
		return err
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*h = out
	return nil
}

// Clone implements types.Value.
func (h *Hold) Clone() types.Value {
	c := h.Copy()
	return &c
}

// Equal implements types.Value.
func (h *Hold) Equal(other types.Value) bool {
	o, ok := other.(*Hold)
	if !ok || h.Link != o.Link || !h.IK.same(o.IK) || len(h.Contacts) != len(o.Contacts) {
		return false
	}
	for i := range h.Contacts {
		if !h.Contacts[i].same(o.Contacts[i]) {
			return false
		}
	}
	return true
}

// Stance is a set of holds keyed by link. At most one hold per link.
type Stance map[string]Hold

// NewStance builds a stance from holds, rejecting duplicate links.
func NewStance(holds ...Hold) (Stance, error) {
	s := make(Stance, len(holds))
	for _, h := range holds {
		if _, dup := s[h.Link]; dup {
			return nil, types.Malformed("duplicate hold for link %q", h.Link)
		}
		s[h.Link] = h.Copy()
	}
	return s, nil
}

// Links returns the hold links in sorted order.
func (s Stance) Links() []string {
	links := make([]string, 0, len(s))
	for link := range s {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}

// Holds returns the holds sorted by link.
func (s Stance) Holds() []Hold {
	out := make([]Hold, 0, len(s))
	for _, link := range s.Links() {
		out = append(out, s[link].Copy())
	}
	return out
}

// Copy returns an independent copy.
func (s Stance) Copy() Stance {
	out := make(Stance, len(s))
	for k, h := range s {
		out[k] = h.Copy()
	}
	return out
}

// MarshalYAML encodes the stance as a list of holds sorted by link.
func (s Stance) MarshalYAML() (any, error) {
	return s.Holds(), nil
}

// UnmarshalYAML decodes a list of holds.
func (s *Stance) UnmarshalYAML(n *yaml.Node) error {
	var holds []Hold
	if err := n.Decode(&holds); err != nil {
		return err
	}
	for _, h := range holds {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	out, err := NewStance(holds...)
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// WriteText writes the hold count then each hold, sorted by link.
func (s *Stance) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%d\n", len(*s)); err != nil {
		return err
	}
	for _, h := range s.Holds() {
		if err := h.WriteText(w); err != nil {
			return err
		}
	}
	return nil
}

// ReadText reads the form written by WriteText.
func (s *Stance) ReadText(tr *types.TokenReader) error {
	n, err := tr.Count()
	if err != nil {
		return err
	}
	holds := make([]Hold, 0, types.CapHint(n))
	for len(holds) < n {
		var h Hold
		if err := h.ReadText(tr); err != nil {
			return err
		}
		holds = append(holds, h)
	}
	out, err := NewStance(holds...)
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// Clone implements types.Value.
func (s *Stance) Clone() types.Value {
	c := s.Copy()
	return &c
}

// Equal compares holds by link; order is not significant.
func (s *Stance) Equal(other types.Value) bool {
	o, ok := other.(*Stance)
	if !ok || len(*s) != len(*o) {
		return false
	}
	for link, h := range *s {
		oh, ok := (*o)[link]
		if !ok || !h.Equal(&oh) {
			return false
		}
	}
	return true
}
