// internal/types/types.go
package types

import "math"

// EntityID — уникальный идентификатор сущности. 0 означает "нет сущности".
type EntityID uint64

// EntityKind classifies simulation entities.
type EntityKind string

const (
	KindEnemy      EntityKind = "enemy"
	KindTurret     EntityKind = "turret"
	KindProjectile EntityKind = "projectile"
	// KindStructure covers non-turret bastion pieces: walls, doors, windows.
	KindStructure EntityKind = "structure"
)

// Vec2 is a planar position. Gameplay logic uses X and Z only; the
// vertical axis is cosmetic and never stored here.
type Vec2 struct {
	X float64
	Z float64
}

// DistanceTo returns the planar distance between two points.
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := v.X - other.X
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// DistanceSqTo returns the squared planar distance. Cheaper than
// DistanceTo, used by collision and range checks.
func (v Vec2) DistanceSqTo(other Vec2) float64 {
	dx := v.X - other.X
	dz := v.Z - other.Z
	return dx*dx + dz*dz
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Z: v.Z - other.Z}
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Z: v.Z + other.Z}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Z: v.Z * s}
}

// Normalized returns the unit vector pointing the same way as v, or the
// zero vector if v has no length.
func (v Vec2) Normalized() Vec2 {
	length := math.Sqrt(v.X*v.X + v.Z*v.Z)
	if length == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / length, Z: v.Z / length}
}
