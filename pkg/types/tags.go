package types

// Standard resource type tags. Tags are case-sensitive.
const (
	TypeConfig               = "Config"
	TypeVector               = "Vector"
	TypeIntArray             = "IntArray"
	TypeVector3              = "Vector3"
	TypeMatrix3              = "Matrix3"
	TypeMatrix               = "Matrix"
	TypeRigidTransform       = "RigidTransform"
	TypeGeometricPrimitive3D = "GeometricPrimitive3D"
	TypeTriMesh              = "TriMesh"
	TypePointCloud           = "PointCloud"
	TypeContactPoint         = "ContactPoint"
	TypeRobot                = "Robot"
	TypeRigidObject          = "RigidObject"
	TypeTerrain              = "Terrain"
	TypeConfigs              = "Configs"
	TypeLinearPath           = "LinearPath"
	TypeMultiPath            = "MultiPath"
	TypeIKGoal               = "IKGoal"
	TypeHold                 = "Hold"
	TypeStance               = "Stance"
	TypeGrasp                = "Grasp"
	TypeWorld                = "World"
)

// StandardTypes lists every standard tag in registration order.
var StandardTypes = []string{
	TypeConfig,
	TypeVector,
	TypeIntArray,
	TypeVector3,
	TypeMatrix3,
	TypeMatrix,
	TypeRigidTransform,
	TypeGeometricPrimitive3D,
	TypeTriMesh,
	TypePointCloud,
	TypeContactPoint,
	TypeRobot,
	TypeRigidObject,
	TypeTerrain,
	TypeConfigs,
	TypeLinearPath,
	TypeMultiPath,
	TypeIKGoal,
	TypeHold,
	TypeStance,
	TypeGrasp,
	TypeWorld,
}
