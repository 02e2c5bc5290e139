// internal/entity/ecs.go
package entity

import (
	"go-bastion-defense/internal/component"
	"go-bastion-defense/internal/types"
)

// ECS is the struct-of-maps entity registry. All mutation happens inside
// the simulation tick; there is no internal locking.
type ECS struct {
	GameTime    float64
	NextID      types.EntityID
	Positions   map[types.EntityID]*component.Position
	Velocities  map[types.EntityID]*component.Velocity
	Healths     map[types.EntityID]*component.Health
	Enemies     map[types.EntityID]*component.Enemy
	Turrets     map[types.EntityID]*component.Turret
	Projectiles map[types.EntityID]*component.Projectile
	SlowEffects map[types.EntityID]*component.SlowEffect
}

func NewECS() *ECS {
	return &ECS{
		NextID:      1,
		Positions:   make(map[types.EntityID]*component.Position),
		Velocities:  make(map[types.EntityID]*component.Velocity),
		Healths:     make(map[types.EntityID]*component.Health),
		Enemies:     make(map[types.EntityID]*component.Enemy),
		Turrets:     make(map[types.EntityID]*component.Turret),
		Projectiles: make(map[types.EntityID]*component.Projectile),
		SlowEffects: make(map[types.EntityID]*component.SlowEffect),
	}
}

func (ecs *ECS) NewEntity() types.EntityID {
	id := ecs.NextID
	ecs.NextID++
	return id
}

// RemoveEntity deletes the entity from every component map.
func (ecs *ECS) RemoveEntity(id types.EntityID) {
	delete(ecs.Positions, id)
	delete(ecs.Velocities, id)
	delete(ecs.Healths, id)
	delete(ecs.Enemies, id)
	delete(ecs.Turrets, id)
	delete(ecs.Projectiles, id)
	delete(ecs.SlowEffects, id)
}
