// Package model holds the domain payloads stored in resources: configurations,
// vectors, rigid transforms, geometric primitives, meshes, point clouds,
// kinematic goals, contact holds, stances, grasps, multi-segment paths and
// worlds.
//
// Each payload owns its codecs. The text form is whitespace-delimited, the
// document form is YAML (struct tags and the occasional Marshaler), and the
// path and contact types additionally read and write an XML element tree.
// Payload algorithms are deliberately thin; the resource layer only needs
// copy, equality and serialization.
package model
