package resource

import (
	"github.com/mesh-intelligence/larder/internal/library"
	"github.com/mesh-intelligence/larder/pkg/types"
)

type registration struct {
	tag     string
	factory types.Factory
	exts    []library.Extension
}

func text(ext string) library.Extension   { return library.Extension{Ext: ext, Format: types.FormatText} }
func markup(ext string) library.Extension { return library.Extension{Ext: ext, Format: types.FormatMarkup} }

func basic(tag string, exts ...library.Extension) registration {
	return registration{tag: tag, factory: BasicFactory(tag, basicBlanks[tag]), exts: exts}
}

func registrations() []registration {
	return []registration{
		basic(types.TypeConfig, text(".config")),
		basic(types.TypeVector, text(".vector")),
		basic(types.TypeIntArray, text(".ints")),
		basic(types.TypeVector3, text(".vector3")),
		basic(types.TypeMatrix3, text(".matrix3")),
		basic(types.TypeMatrix, text(".matrix")),
		basic(types.TypeRigidTransform, text(".xform")),
		basic(types.TypeGeometricPrimitive3D, text(".geom")),
		basic(types.TypeTriMesh, text(".off")),
		basic(types.TypePointCloud, text(".pcd")),
		basic(types.TypeContactPoint, text(".contact")),
		basic(types.TypeRobot),
		basic(types.TypeRigidObject),
		basic(types.TypeTerrain),
		{types.TypeConfigs, func() types.Resource { return &Configs{} }, []library.Extension{text(".configs")}},
		{types.TypeLinearPath, func() types.Resource { return &LinearPath{} }, []library.Extension{text(".path")}},
		{types.TypeMultiPath, func() types.Resource { return &MultiPath{} }, []library.Extension{markup(".multipath"), markup(".xml")}},
		{types.TypeIKGoal, func() types.Resource { return &IKGoal{} }, []library.Extension{text(".ikgoal")}},
		{types.TypeHold, func() types.Resource { return &Hold{} }, []library.Extension{text(".hold")}},
		{types.TypeStance, func() types.Resource { return &Stance{} }, []library.Extension{text(".stance")}},
		{types.TypeGrasp, func() types.Resource { return &Grasp{} }, []library.Extension{markup(".grasp")}},
		{types.TypeWorld, func() types.Resource { return &World{} }, []library.Extension{markup(".world")}},
	}
}

// Register adds every standard resource type and its file extensions to lib,
// in types.StandardTypes order, then freezes the registry.
func Register(lib *library.Library) error {
	for _, r := range registrations() {
		if err := lib.Register(r.tag, r.factory, r.exts...); err != nil {
			return err
		}
	}
	lib.Freeze()
	return nil
}
