package model

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// PathSection is one segment of a MultiPath. A section is timed when Times
// is non-empty, in which case Times and Milestones are index aligned.
// Velocities, when present, are aligned with Milestones too.
type PathSection struct {
	Settings   map[string]string `yaml:"settings,omitempty"`
	Milestones []Vector          `yaml:"milestones"`
	Velocities []Vector          `yaml:"velocities,omitempty"`
	Times      []float64         `yaml:"times,omitempty"`
	IKGoals    []IKGoal          `yaml:"ikGoals,omitempty"`
	HoldNames  []string          `yaml:"holds,omitempty"`
}

// Timed reports whether the section carries times.
func (s PathSection) Timed() bool { return len(s.Times) > 0 }

// Validate checks alignment of times and velocities with milestones.
func (s PathSection) Validate() error {
	if s.Timed() && len(s.Times) != len(s.Milestones) {
		return types.Malformed("section has %d times for %d milestones", len(s.Times), len(s.Milestones))
	}
	if len(s.Velocities) > 0 && len(s.Velocities) != len(s.Milestones) {
		return types.Malformed("section has %d velocities for %d milestones", len(s.Velocities), len(s.Milestones))
	}
	for i := 1; i < len(s.Times); i++ {
		if s.Times[i] < s.Times[i-1] {
			return types.Malformed("section times decrease at index %d", i)
		}
	}
	return nil
}

// HasMetadata reports whether the section carries anything beyond
// milestones and times.
func (s PathSection) HasMetadata() bool {
	return len(s.Settings) > 0 || len(s.Velocities) > 0 || len(s.IKGoals) > 0 || len(s.HoldNames) > 0
}

// Copy returns an independent copy.
func (s PathSection) Copy() PathSection {
	out := PathSection{
		Settings:   copyStringMap(s.Settings),
		Milestones: CopyVectors(s.Milestones),
		Velocities: CopyVectors(s.Velocities),
		Times:      copyFloats(s.Times),
	}
	if s.IKGoals != nil {
		out.IKGoals = append([]IKGoal(nil), s.IKGoals...)
	}
	if s.HoldNames != nil {
		out.HoldNames = append([]string(nil), s.HoldNames...)
	}
	return out
}

// Equal compares every field. Nil and empty collections are equal.
func (s PathSection) Equal(o PathSection) bool {
	if !equalStringMaps(s.Settings, o.Settings) ||
		!EqualVectors(s.Milestones, o.Milestones) ||
		!EqualVectors(s.Velocities, o.Velocities) ||
		!EqualFloats(s.Times, o.Times) ||
		len(s.IKGoals) != len(o.IKGoals) ||
		len(s.HoldNames) != len(o.HoldNames) {
		return false
	}
	for i := range s.IKGoals {
		if !s.IKGoals[i].same(o.IKGoals[i]) {
			return false
		}
	}
	for i := range s.HoldNames {
		if s.HoldNames[i] != o.HoldNames[i] {
			return false
		}
	}
	return true
}

// MultiPath is a multi-segment motion path. Sections may reference named
// holds from Holds through HoldNames.
type MultiPath struct {
	Settings map[string]string `yaml:"settings,omitempty"`
	Sections []PathSection     `yaml:"sections"`
	Holds    map[string]Hold   `yaml:"holds,omitempty"`
}

// Validate checks every section and every hold reference.
func (p MultiPath) Validate() error {
	for i, s := range p.Sections {
		if err := s.Validate(); err != nil {
			return err
		}
		for _, name := range s.HoldNames {
			if _, ok := p.Holds[name]; !ok {
				return types.Malformed("section %d references unknown hold %q", i, name)
			}
		}
	}
	for _, h := range p.Holds {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasMetadata reports whether the path carries anything beyond section
// milestones and times.
func (p MultiPath) HasMetadata() bool {
	if len(p.Settings) > 0 || len(p.Holds) > 0 {
		return true
	}
	for _, s := range p.Sections {
		if s.HasMetadata() {
			return true
		}
	}
	return false
}

// HoldNames returns the named holds in sorted order.
func (p MultiPath) HoldNames() []string {
	names := make([]string, 0, len(p.Holds))
	for name := range p.Holds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Milestones returns every section's milestones, concatenated.
func (p MultiPath) Milestones() []Vector {
	var out []Vector
	for _, s := range p.Sections {
		out = append(out, CopyVectors(s.Milestones)...)
	}
	return out
}

// Concat flattens the path into one timed milestone sequence. Untimed
// sections are timed one unit per milestone, continuing from the previous
// section's end time. A misaligned section fails with ErrMalformed.
func (p MultiPath) Concat() (times []float64, milestones []Vector, err error) {
	end := 0.0
	started := false
	for i, s := range p.Sections {
		if err := s.Validate(); err != nil {
			return nil, nil, fmt.Errorf("section %d: %w", i, err)
		}
		for i, q := range s.Milestones {
			var t float64
			switch {
			case s.Timed():
				t = s.Times[i]
			case !started:
				t = float64(i)
			default:
				t = end + 1
			}
			times = append(times, t)
			milestones = append(milestones, q.Copy())
			end = t
			started = true
		}
	}
	return times, milestones, nil
}

// Copy returns an independent copy.
func (p MultiPath) Copy() MultiPath {
	out := MultiPath{Settings: copyStringMap(p.Settings)}
	if p.Sections != nil {
		out.Sections = make([]PathSection, len(p.Sections))
		for i, s := range p.Sections {
			out.Sections[i] = s.Copy()
		}
	}
	if p.Holds != nil {
		out.Holds = make(map[string]Hold, len(p.Holds))
		for k, h := range p.Holds {
			out.Holds[k] = h.Copy()
		}
	}
	return out
}

// Equal compares every field. Nil and empty collections are equal.
func (p MultiPath) Equal(o MultiPath) bool {
	if !equalStringMaps(p.Settings, o.Settings) || len(p.Sections) != len(o.Sections) || len(p.Holds) != len(o.Holds) {
		return false
	}
	for i := range p.Sections {
		if !p.Sections[i].Equal(o.Sections[i]) {
			return false
		}
	}
	for k, h := range p.Holds {
		oh, ok := o.Holds[k]
		if !ok || !h.Equal(&oh) {
			return false
		}
	}
	return true
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func equalStringMaps(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if ov, ok := b[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
