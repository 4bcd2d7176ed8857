package resource

import (
	"io"

	"github.com/mesh-intelligence/larder/pkg/model"
	"github.com/mesh-intelligence/larder/pkg/types"
)

const worldLoss = "appearance is not preserved"

// World is a simulation scene. It is not castable; it decomposes into its
// robots, rigid objects and terrains in that order.
type World struct {
	named
	World model.World
}

func (w *World) Type() string { return types.TypeWorld }

func (w *World) Formats() []types.Format {
	return []types.Format{types.FormatMarkup, types.FormatDocument}
}

func (w *World) Load(format types.Format, r io.Reader) error {
	var wd model.World
	switch format {
	case types.FormatMarkup:
		if err := wd.ReadMarkup(r); err != nil {
			return err
		}
	case types.FormatDocument:
		if err := decodeDocument(r, &wd); err != nil {
			return err
		}
	default:
		return unsupportedFormat(w.Type(), format)
	}
	w.World = wd
	return nil
}

func (w *World) Save(format types.Format, out io.Writer) error {
	switch format {
	case types.FormatMarkup:
		return w.World.WriteMarkup(out)
	case types.FormatDocument:
		return encodeDocument(out, w.World)
	default:
		return unsupportedFormat(w.Type(), format)
	}
}

func (w *World) Copy() types.Resource {
	return &World{named: w.named, World: w.World.Copy()}
}

func (w *World) Equal(other types.Resource) bool {
	o, ok := other.(*World)
	return ok && w.World.Equal(o.World)
}

func (w *World) SubTypes() []string {
	return []string{types.TypeRobot, types.TypeRigidObject, types.TypeTerrain}
}

func (w *World) ExtractTypes() []string {
	return []string{types.TypeRobot, types.TypeRigidObject, types.TypeTerrain, types.TypeTriMesh}
}

func (w *World) Extract(tag string) (types.Decomposition, error) {
	if err := checkTarget(w.Type(), tag, w.ExtractTypes()); err != nil {
		return types.Decomposition{}, err
	}
	var subs []types.Resource
	switch tag {
	case types.TypeRobot:
		for _, r := range w.World.Robots {
			subs = append(subs, MakeRobot(r))
		}
	case types.TypeRigidObject:
		for _, o := range w.World.RigidObjects {
			subs = append(subs, MakeRigidObject(o))
		}
	case types.TypeTerrain:
		for _, t := range w.World.Terrains {
			subs = append(subs, MakeTerrain(t))
		}
	default:
		for _, t := range w.World.Terrains {
			if !t.Mesh.Empty() {
				subs = append(subs, MakeTriMesh(t.Name, t.Mesh))
			}
		}
	}
	if len(subs) == 0 {
		return types.Decomposition{}, empty(w.Type(), tag)
	}
	return types.Decomposition{Resources: subs, Incomplete: true, Reason: "other entities are not preserved"}, nil
}

// Unpack yields every robot, then every rigid object, then every terrain.
// The decomposition is complete unless the world carries appearance.
func (w *World) Unpack() (types.Decomposition, error) {
	if w.World.Empty() {
		return types.Decomposition{}, empty(w.Type(), "entities")
	}
	var subs []types.Resource
	for _, r := range w.World.Robots {
		subs = append(subs, MakeRobot(r))
	}
	for _, o := range w.World.RigidObjects {
		subs = append(subs, MakeRigidObject(o))
	}
	for _, t := range w.World.Terrains {
		subs = append(subs, MakeTerrain(t))
	}
	d := types.Decomposition{Resources: subs}
	if w.World.HasAppearance() {
		d.Incomplete = true
		d.Reason = worldLoss
	}
	return d, nil
}

// Pack accepts Robot, RigidObject and Terrain resources grouped in that
// order. Any group may be empty but the whole may not.
func (w *World) Pack(subs []types.Resource) error {
	const expected = "Robot, RigidObject and Terrain resources in that order"
	if len(subs) == 0 {
		return types.NewPackError(w.Type(), expected, subs)
	}
	var wd model.World
	rank := 0
	for _, s := range subs {
		switch s.Type() {
		case types.TypeRobot:
			r, ok := ValueOf[*model.RobotEntry](s)
			if !ok || rank > 0 {
				return types.NewPackError(w.Type(), expected, subs)
			}
			wd.Robots = append(wd.Robots, *r.Clone().(*model.RobotEntry))
		case types.TypeRigidObject:
			o, ok := ValueOf[*model.RigidObjectEntry](s)
			if !ok || rank > 1 {
				return types.NewPackError(w.Type(), expected, subs)
			}
			rank = 1
			wd.RigidObjects = append(wd.RigidObjects, *o)
		case types.TypeTerrain:
			t, ok := ValueOf[*model.TerrainEntry](s)
			if !ok {
				return types.NewPackError(w.Type(), expected, subs)
			}
			rank = 2
			wd.Terrains = append(wd.Terrains, *t.Clone().(*model.TerrainEntry))
		default:
			return types.NewPackError(w.Type(), expected, subs)
		}
	}
	w.World = wd
	return nil
}
