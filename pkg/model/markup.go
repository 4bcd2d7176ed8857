package model

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// XML mirror types. Vectors are written as space-separated attributes and
// configurations in the "n q1 ... qn" text form, matching the planner's
// file conventions.

type xmlContact struct {
	Position string  `xml:"position,attr"`
	Normal   string  `xml:"normal,attr"`
	Friction float64 `xml:"friction,attr"`
}

type xmlHold struct {
	XMLName  xml.Name     `xml:"hold"`
	Name     string       `xml:"name,attr,omitempty"`
	Link     string       `xml:"link,attr"`
	Contacts []xmlContact `xml:"contact"`
	IKGoal   string       `xml:"ikgoal"`
}

type xmlStance struct {
	XMLName xml.Name  `xml:"stance"`
	Holds   []xmlHold `xml:"hold"`
}

type xmlFixed struct {
	DOF   int     `xml:"dof,attr"`
	Value float64 `xml:"value,attr"`
}

type xmlGrasp struct {
	XMLName xml.Name   `xml:"grasp"`
	Object  int        `xml:"object,attr"`
	Robot   int        `xml:"robot,attr"`
	Holds   []xmlHold  `xml:"hold"`
	Fixed   []xmlFixed `xml:"fixed"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlMilestone struct {
	Time     string `xml:"time,attr,omitempty"`
	Config   string `xml:"config,attr"`
	Velocity string `xml:"velocity,attr,omitempty"`
}

type xmlHoldRef struct {
	Name string `xml:"name,attr"`
}

type xmlSection struct {
	Properties []xmlProperty  `xml:"property"`
	IKGoals    []string       `xml:"ikgoal"`
	HoldRefs   []xmlHoldRef   `xml:"holdref"`
	Milestones []xmlMilestone `xml:"milestone"`
}

type xmlMultiPath struct {
	XMLName    xml.Name      `xml:"multipath"`
	Properties []xmlProperty `xml:"property"`
	Sections   []xmlSection  `xml:"section"`
	Holds      []xmlHold     `xml:"hold"`
}

type xmlRobot struct {
	Name   string `xml:"name,attr"`
	File   string `xml:"file,attr,omitempty"`
	Config string `xml:"config,attr"`
}

type xmlRigidObject struct {
	Name        string `xml:"name,attr"`
	File        string `xml:"file,attr,omitempty"`
	Rotation    string `xml:"rotation,attr"`
	Translation string `xml:"translation,attr"`
}

type xmlTerrain struct {
	Name string `xml:"name,attr"`
	File string `xml:"file,attr,omitempty"`
	Mesh string `xml:"mesh,omitempty"`
}

type xmlAppearance struct {
	Target string `xml:"target,attr"`
	Color  string `xml:"color,attr"`
}

type xmlWorld struct {
	XMLName      xml.Name         `xml:"world"`
	Background   string           `xml:"background,attr,omitempty"`
	Robots       []xmlRobot       `xml:"robot"`
	RigidObjects []xmlRigidObject `xml:"rigidObject"`
	Terrains     []xmlTerrain     `xml:"terrain"`
	Appearances  []xmlAppearance  `xml:"appearance"`
}

func writeXML(w io.Writer, v any) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func readXML(r io.Reader, v any) error {
	if err := xml.NewDecoder(r).Decode(v); err != nil {
		return types.Malformed("xml: %v", err)
	}
	return nil
}

func vectorAttr(v Vector) string {
	var b strings.Builder
	_ = v.WriteText(&b)
	return strings.TrimSpace(b.String())
}

func parseVectorAttr(s string) (Vector, error) {
	var v Vector
	tr := types.NewTokenReader(strings.NewReader(s))
	if err := v.ReadText(tr); err != nil {
		return nil, err
	}
	if tr.More() {
		return nil, types.Malformed("trailing data in vector %q", s)
	}
	return v, nil
}

func parseVector3Attr(s string) (Vector3, error) {
	xs, err := types.ParseFloats(s)
	if err != nil {
		return Vector3{}, err
	}
	if len(xs) != 3 {
		return Vector3{}, types.Malformed("expected 3 values, got %q", s)
	}
	return Vector3{xs[0], xs[1], xs[2]}, nil
}

func holdToXML(name string, h Hold) xmlHold {
	out := xmlHold{Name: name, Link: h.Link, IKGoal: h.IK.String()}
	for _, c := range h.Contacts {
		out.Contacts = append(out.Contacts, xmlContact{
			Position: types.JoinFloats(c.X[:]),
			Normal:   types.JoinFloats(c.N[:]),
			Friction: c.KFriction,
		})
	}
	return out
}

func holdFromXML(x xmlHold) (Hold, error) {
	h := Hold{Link: x.Link}
	for _, c := range x.Contacts {
		pos, err := parseVector3Attr(c.Position)
		if err != nil {
			return Hold{}, err
		}
		n, err := parseVector3Attr(c.Normal)
		if err != nil {
			return Hold{}, err
		}
		h.Contacts = append(h.Contacts, ContactPoint{X: pos, N: n, KFriction: c.Friction})
	}
	ik, err := ParseIKGoal(x.IKGoal)
	if err != nil {
		return Hold{}, err
	}
	h.IK = ik
	if err := h.Validate(); err != nil {
		return Hold{}, err
	}
	return h, nil
}

// WriteMarkup writes the hold as a <hold> element.
func (h *Hold) WriteMarkup(w io.Writer) error {
	return writeXML(w, holdToXML("", *h))
}

// ReadMarkup reads a <hold> element.
func (h *Hold) ReadMarkup(r io.Reader) error {
	var x xmlHold
	if err := readXML(r, &x); err != nil {
		return err
	}
	out, err := holdFromXML(x)
	if err != nil {
		return err
	}
	*h = out
	return nil
}

// WriteMarkup writes the stance as a <stance> element, holds sorted by link.
func (s *Stance) WriteMarkup(w io.Writer) error {
	var x xmlStance
	for _, h := range s.Holds() {
		x.Holds = append(x.Holds, holdToXML("", h))
	}
	return writeXML(w, x)
}

// ReadMarkup reads a <stance> element.
func (s *Stance) ReadMarkup(r io.Reader) error {
	var x xmlStance
	if err := readXML(r, &x); err != nil {
		return err
	}
	holds := make([]Hold, 0, len(x.Holds))
	for _, xh := range x.Holds {
		h, err := holdFromXML(xh)
		if err != nil {
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

// WriteMarkup writes the grasp as a <grasp> element.
func (g *Grasp) WriteMarkup(w io.Writer) error {
	x := xmlGrasp{Object: g.ObjectIndex, Robot: g.RobotIndex}
	for _, h := range g.Holds {
		x.Holds = append(x.Holds, holdToXML("", h))
	}
	for i, dof := range g.FixedDOFs {
		x.Fixed = append(x.Fixed, xmlFixed{DOF: dof, Value: g.FixedValues[i]})
	}
	return writeXML(w, x)
}

// ReadMarkup reads a <grasp> element.
func (g *Grasp) ReadMarkup(r io.Reader) error {
	var x xmlGrasp
	if err := readXML(r, &x); err != nil {
		return err
	}
	out := Grasp{ObjectIndex: x.Object, RobotIndex: x.Robot}
	for _, xh := range x.Holds {
		h, err := holdFromXML(xh)
		if err != nil {
			return err
		}
		out.Holds = append(out.Holds, h)
	}
	for _, f := range x.Fixed {
		out.FixedDOFs = append(out.FixedDOFs, f.DOF)
		out.FixedValues = append(out.FixedValues, f.Value)
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*g = out
	return nil
}

func propertiesToXML(m map[string]string) []xmlProperty {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]xmlProperty, 0, len(keys))
	for _, k := range keys {
		out = append(out, xmlProperty{Name: k, Value: m[k]})
	}
	return out
}

func propertiesFromXML(props []xmlProperty) map[string]string {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]string, len(props))
	for _, p := range props {
		out[p.Name] = p.Value
	}
	return out
}

// WriteMarkup writes the path as a <multipath> element.
func (p *MultiPath) WriteMarkup(w io.Writer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	x := xmlMultiPath{Properties: propertiesToXML(p.Settings)}
	for _, s := range p.Sections {
		xs := xmlSection{Properties: propertiesToXML(s.Settings)}
		for _, g := range s.IKGoals {
			xs.IKGoals = append(xs.IKGoals, g.String())
		}
		for _, name := range s.HoldNames {
			xs.HoldRefs = append(xs.HoldRefs, xmlHoldRef{Name: name})
		}
		for i, q := range s.Milestones {
			m := xmlMilestone{Config: vectorAttr(q)}
			if s.Timed() {
				m.Time = types.FormatFloat(s.Times[i])
			}
			if len(s.Velocities) > 0 {
				m.Velocity = vectorAttr(s.Velocities[i])
			}
			xs.Milestones = append(xs.Milestones, m)
		}
		x.Sections = append(x.Sections, xs)
	}
	for _, name := range p.HoldNames() {
		x.Holds = append(x.Holds, holdToXML(name, p.Holds[name]))
	}
	return writeXML(w, x)
}

// ReadMarkup reads a <multipath> element. Within a section either every
// milestone has a time or none does, and likewise for velocities.
func (p *MultiPath) ReadMarkup(r io.Reader) error {
	var x xmlMultiPath
	if err := readXML(r, &x); err != nil {
		return err
	}
	out := MultiPath{Settings: propertiesFromXML(x.Properties)}
	for si, xs := range x.Sections {
		s, err := sectionFromXML(xs)
		if err != nil {
			return fmt.Errorf("section %d: %w", si, err)
		}
		out.Sections = append(out.Sections, s)
	}
	for _, xh := range x.Holds {
		if xh.Name == "" {
			return types.Malformed("multipath hold without name")
		}
		h, err := holdFromXML(xh)
		if err != nil {
			return err
		}
		if out.Holds == nil {
			out.Holds = make(map[string]Hold)
		}
		out.Holds[xh.Name] = h
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*p = out
	return nil
}

func sectionFromXML(xs xmlSection) (PathSection, error) {
	s := PathSection{Settings: propertiesFromXML(xs.Properties)}
	for _, text := range xs.IKGoals {
		g, err := ParseIKGoal(text)
		if err != nil {
			return PathSection{}, err
		}
		s.IKGoals = append(s.IKGoals, g)
	}
	for _, ref := range xs.HoldRefs {
		s.HoldNames = append(s.HoldNames, ref.Name)
	}
	timed := len(xs.Milestones) > 0 && xs.Milestones[0].Time != ""
	withVel := len(xs.Milestones) > 0 && xs.Milestones[0].Velocity != ""
	for i, m := range xs.Milestones {
		q, err := parseVectorAttr(m.Config)
		if err != nil {
			return PathSection{}, err
		}
		s.Milestones = append(s.Milestones, q)
		if (m.Time != "") != timed {
			return PathSection{}, types.Malformed("milestone %d: times must be given for all milestones or none", i)
		}
		if timed {
			t, err := strconv.ParseFloat(m.Time, 64)
			if err != nil {
				return PathSection{}, types.Malformed("milestone %d: bad time %q", i, m.Time)
			}
			s.Times = append(s.Times, t)
		}
		if (m.Velocity != "") != withVel {
			return PathSection{}, types.Malformed("milestone %d: velocities must be given for all milestones or none", i)
		}
		if withVel {
			v, err := parseVectorAttr(m.Velocity)
			if err != nil {
				return PathSection{}, err
			}
			s.Velocities = append(s.Velocities, v)
		}
	}
	return s, nil
}

// WriteMarkup writes the world as a <world> element.
func (w *World) WriteMarkup(out io.Writer) error {
	x := xmlWorld{Background: types.JoinFloats(w.Background)}
	for _, r := range w.Robots {
		x.Robots = append(x.Robots, xmlRobot{Name: r.Name, File: r.File, Config: vectorAttr(r.Config)})
	}
	for _, o := range w.RigidObjects {
		x.RigidObjects = append(x.RigidObjects, xmlRigidObject{
			Name:        o.Name,
			File:        o.File,
			Rotation:    types.JoinFloats(o.Transform.R.flat()),
			Translation: types.JoinFloats(o.Transform.T[:]),
		})
	}
	for _, t := range w.Terrains {
		xt := xmlTerrain{Name: t.Name, File: t.File}
		if !t.Mesh.Empty() {
			var b strings.Builder
			if err := t.Mesh.WriteText(&b); err != nil {
				return err
			}
			xt.Mesh = b.String()
		}
		x.Terrains = append(x.Terrains, xt)
	}
	targets := make([]string, 0, len(w.Colors))
	for k := range w.Colors {
		targets = append(targets, k)
	}
	sort.Strings(targets)
	for _, k := range targets {
		x.Appearances = append(x.Appearances, xmlAppearance{Target: k, Color: types.JoinFloats(w.Colors[k])})
	}
	return writeXML(out, x)
}

// ReadMarkup reads a <world> element.
func (w *World) ReadMarkup(in io.Reader) error {
	var x xmlWorld
	if err := readXML(in, &x); err != nil {
		return err
	}
	var out World
	var err error
	if x.Background != "" {
		if out.Background, err = types.ParseFloats(x.Background); err != nil {
			return err
		}
	}
	for _, r := range x.Robots {
		q, err := parseVectorAttr(r.Config)
		if err != nil {
			return err
		}
		out.Robots = append(out.Robots, RobotEntry{Name: r.Name, File: r.File, Config: q})
	}
	for _, o := range x.RigidObjects {
		rot, err := types.ParseFloats(o.Rotation)
		if err != nil {
			return err
		}
		if len(rot) != 9 {
			return types.Malformed("rigid object %q rotation needs 9 values", o.Name)
		}
		t, err := parseVector3Attr(o.Translation)
		if err != nil {
			return err
		}
		entry := RigidObjectEntry{Name: o.Name, File: o.File}
		entry.Transform.R.setFlat(rot)
		entry.Transform.T = t
		out.RigidObjects = append(out.RigidObjects, entry)
	}
	for _, t := range x.Terrains {
		entry := TerrainEntry{Name: t.Name, File: t.File}
		if strings.TrimSpace(t.Mesh) != "" {
			if err := entry.Mesh.ReadText(types.NewTokenReader(strings.NewReader(t.Mesh))); err != nil {
				return err
			}
		}
		out.Terrains = append(out.Terrains, entry)
	}
	for _, a := range x.Appearances {
		c, err := types.ParseFloats(a.Color)
		if err != nil {
			return err
		}
		if out.Colors == nil {
			out.Colors = make(map[string][]float64)
		}
		out.Colors[a.Target] = c
	}
	*w = out
	return nil
}
