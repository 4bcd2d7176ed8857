package model

import (
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// PosConstraint is how much of the link position an IKGoal fixes.
type PosConstraint string

// Position constraint kinds.
const (
	PosNone   PosConstraint = "none"
	PosPlanar PosConstraint = "planar"
	PosLinear PosConstraint = "linear"
	PosFixed  PosConstraint = "fixed"
)

// RotConstraint is how much of the link orientation an IKGoal fixes.
type RotConstraint string

// Rotation constraint kinds.
const (
	RotNone    RotConstraint = "none"
	RotAxis    RotConstraint = "axis"
	RotTwoAxis RotConstraint = "twoaxis"
	RotFixed   RotConstraint = "fixed"
)

var validPos = map[PosConstraint]bool{PosNone: true, PosPlanar: true, PosLinear: true, PosFixed: true}
var validRot = map[RotConstraint]bool{RotNone: true, RotAxis: true, RotTwoAxis: true, RotFixed: true}

// worldToken stands in for an empty DestLink in the text form.
const worldToken = "world"

// IKGoal is a kinematic pose target for one robot link, relative to DestLink
// (the world when empty).
//
// LocalPosition is the constrained point in link coordinates; EndPosition its
// target. Direction is the plane normal or line direction for planar and
// linear constraints. For a fixed rotation EndRotation is the target moment
// (axis times angle); for an axis constraint LocalAxis is mapped onto
// EndRotation.
type IKGoal struct {
	Link          string        `yaml:"link"`
	DestLink      string        `yaml:"destLink,omitempty"`
	PosConstraint PosConstraint `yaml:"posConstraint"`
	LocalPosition Vector3       `yaml:"localPosition"`
	EndPosition   Vector3       `yaml:"endPosition"`
	Direction     Vector3       `yaml:"direction"`
	RotConstraint RotConstraint `yaml:"rotConstraint"`
	LocalAxis     Vector3       `yaml:"localAxis"`
	EndRotation   Vector3       `yaml:"endRotation"`
}

// FreeGoal returns an unconstrained goal for link.
func FreeGoal(link string) IKGoal {
	return IKGoal{Link: link, PosConstraint: PosNone, RotConstraint: RotNone}
}

// FixedGoal returns a goal that fixes link's pose: localPosition goes to
// endPosition and the link rotates by the moment endRotation.
func FixedGoal(link string, localPosition, endPosition, endRotation Vector3) IKGoal {
	return IKGoal{
		Link:          link,
		PosConstraint: PosFixed,
		LocalPosition: localPosition,
		EndPosition:   endPosition,
		RotConstraint: RotFixed,
		EndRotation:   endRotation,
	}
}

// Validate checks the link name and constraint kinds.
func (g IKGoal) Validate() error {
	if !types.ValidToken(g.Link) {
		return types.Malformed("ik goal link %q", g.Link)
	}
	if g.DestLink != "" && !types.ValidToken(g.DestLink) {
		return types.Malformed("ik goal destination link %q", g.DestLink)
	}
	if !validPos[g.PosConstraint] {
		return types.Malformed("position constraint %q", g.PosConstraint)
	}
	if !validRot[g.RotConstraint] {
		return types.Malformed("rotation constraint %q", g.RotConstraint)
	}
	return nil
}

// Transform returns the target link transform when both position and
// rotation are fixed.
func (g IKGoal) Transform() (RigidTransform, bool) {
	if g.PosConstraint != PosFixed || g.RotConstraint != RotFixed {
		return RigidTransform{}, false
	}
	r := MomentRotation(g.EndRotation)
	return RigidTransform{R: r, T: g.EndPosition.Sub(r.MulVec(g.LocalPosition))}, true
}

// Position returns the target point when the position is fixed.
func (g IKGoal) Position() (Vector3, bool) {
	if g.PosConstraint != PosFixed {
		return Vector3{}, false
	}
	return g.EndPosition, true
}

// WriteText writes
// "link dest pos lx ly lz ex ey ez dx dy dz rot ax ay az rx ry rz".
func (g *IKGoal) WriteText(w io.Writer) error {
	dest := g.DestLink
	if dest == "" {
		dest = worldToken
	}
	_, err := fmt.Fprintf(w, "%s %s %s %s %s %s %s %s %s\n",
		g.Link, dest, g.PosConstraint,
		types.JoinFloats(g.LocalPosition[:]), types.JoinFloats(g.EndPosition[:]), types.JoinFloats(g.Direction[:]),
		g.RotConstraint,
		types.JoinFloats(g.LocalAxis[:]), types.JoinFloats(g.EndRotation[:]))
	return err
}

// ReadText reads the form written by WriteText.
func (g *IKGoal) ReadText(tr *types.TokenReader) error {
	var out IKGoal
	var err error
	if out.Link, err = tr.Next(); err != nil {
		return err
	}
	if out.DestLink, err = tr.Next(); err != nil {
		return err
	}
	if out.DestLink == worldToken {
		out.DestLink = ""
	}
	pos, err := tr.Next()
	if err != nil {
		return err
	}
	out.PosConstraint = PosConstraint(pos)
	for _, v := range []*Vector3{&out.LocalPosition, &out.EndPosition, &out.Direction} {
		if err := v.ReadText(tr); err != nil {
			return err
		}
	}
	rot, err := tr.Next()
	if err != nil {
		return err
	}
	out.RotConstraint = RotConstraint(rot)
	for _, v := range []*Vector3{&out.LocalAxis, &out.EndRotation} {
		if err := v.ReadText(tr); err != nil {
			return err
		}
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*g = out
	return nil
}

// Clone implements types.Value.
func (g *IKGoal) Clone() types.Value {
	c := *g
	return &c
}

// Equal implements types.Value.
func (g *IKGoal) Equal(other types.Value) bool {
	o, ok := other.(*IKGoal)
	return ok && g.same(*o)
}

func (g IKGoal) same(o IKGoal) bool {
	return g.Link == o.Link && g.DestLink == o.DestLink &&
		g.PosConstraint == o.PosConstraint && g.RotConstraint == o.RotConstraint &&
		g.LocalPosition.same(o.LocalPosition) && g.EndPosition.same(o.EndPosition) &&
		g.Direction.same(o.Direction) && g.LocalAxis.same(o.LocalAxis) &&
		g.EndRotation.same(o.EndRotation)
}

// String renders the text form on one line.
func (g IKGoal) String() string {
	var b strings.Builder
	_ = g.WriteText(&b)
	return strings.TrimSpace(b.String())
}

// ParseIKGoal parses the text form.
func ParseIKGoal(s string) (IKGoal, error) {
	var g IKGoal
	err := g.ReadText(types.NewTokenReader(strings.NewReader(s)))
	return g, err
}
