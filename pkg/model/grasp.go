package model

import "github.com/mesh-intelligence/larder/pkg/types"

// Grasp is a robot hand grasping an object: the contact holds between hand
// links and the object, plus the hand degrees of freedom held at fixed
// values while grasping.
type Grasp struct {
	ObjectIndex int       `yaml:"objectIndex"`
	RobotIndex  int       `yaml:"robotIndex"`
	Holds       []Hold    `yaml:"holds"`
	FixedDOFs   []int     `yaml:"fixedDofs,omitempty"`
	FixedValues []float64 `yaml:"fixedValues,omitempty"`
}

// Validate checks the holds and that fixed DOFs and values line up.
func (g Grasp) Validate() error {
	if len(g.FixedDOFs) != len(g.FixedValues) {
		return types.Malformed("grasp has %d fixed dofs but %d values", len(g.FixedDOFs), len(g.FixedValues))
	}
	for _, h := range g.Holds {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Stance returns the grasp holds as a stance.
func (g Grasp) Stance() (Stance, error) {
	return NewStance(g.Holds...)
}

// IKGoals returns the IK constraint of every hold.
func (g Grasp) IKGoals() []IKGoal {
	out := make([]IKGoal, len(g.Holds))
	for i, h := range g.Holds {
		out[i] = h.IK
	}
	return out
}

// Copy returns an independent copy.
func (g Grasp) Copy() Grasp {
	out := g
	if g.Holds != nil {
		out.Holds = make([]Hold, len(g.Holds))
		for i, h := range g.Holds {
			out.Holds[i] = h.Copy()
		}
	}
	out.FixedDOFs = IntArray(g.FixedDOFs).Copy()
	out.FixedValues = copyFloats(g.FixedValues)
	return out
}

// Equal compares every field; holds are compared in order.
func (g Grasp) Equal(o Grasp) bool {
	if g.ObjectIndex != o.ObjectIndex || g.RobotIndex != o.RobotIndex || len(g.Holds) != len(o.Holds) {
		return false
	}
	for i := range g.Holds {
		if !g.Holds[i].Equal(&o.Holds[i]) {
			return false
		}
	}
	a, b := IntArray(g.FixedDOFs), IntArray(o.FixedDOFs)
	return a.Equal(&b) && EqualFloats(g.FixedValues, o.FixedValues)
}
