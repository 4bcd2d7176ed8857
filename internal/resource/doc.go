// Package resource implements the concrete resource types: the single-value
// Basic resource and the compound resources (Configs, LinearPath, MultiPath,
// IKGoal, Hold, Stance, Grasp, World) with their cast and decomposition
// rules. Register installs every type into a library.
package resource
