// component/movement.go
package component

import "go-bastion-defense/internal/types"

// Position — компонент позиции (планарные X и Z)
type Position struct {
	X, Z float64
}

// Vec returns the position as a value vector.
func (p *Position) Vec() types.Vec2 {
	return types.Vec2{X: p.X, Z: p.Z}
}

// Set overwrites the position from a vector.
func (p *Position) Set(v types.Vec2) {
	p.X = v.X
	p.Z = v.Z
}

// Velocity — компонент скорости
type Velocity struct {
	Speed float64
}

// SlowEffect slows its entity until Timer runs out.
type SlowEffect struct {
	Factor float64 // Множитель скорости, например 0.5
	Timer  float64
}
