// internal/system/combatai.go
package system

import (
	"go-bastion-defense/internal/component"
	"go-bastion-defense/internal/defs"
	"go-bastion-defense/internal/entity"
	"go-bastion-defense/internal/spatial"
	"go-bastion-defense/internal/types"
)

// Враг бьёт, не доходя ровно до точки остановки, поэтому даём небольшой
// запас дистанции.
const attackReachSlack = 0.15

// StrikeArbiter routes enemy melee hits to whatever the enemy's goal
// resolves to: a bastion element or the player.
type StrikeArbiter interface {
	GoalResolver
	EnemyStrike(id types.EntityID, enemy *component.Enemy, damage float64)
}

// CombatAISystem ticks enemy attack cooldowns and lands melee hits once an
// enemy is in reach of its goal.
type CombatAISystem struct {
	ecs      *entity.ECS
	movement *MovementSystem
	world    StrikeArbiter
}

func NewCombatAISystem(ecs *entity.ECS, movement *MovementSystem, world StrikeArbiter) *CombatAISystem {
	return &CombatAISystem{ecs: ecs, movement: movement, world: world}
}

func (s *CombatAISystem) Update(deltaTime float64) {
	// Замороженные враги не атакуют.
	frozen := s.movement != nil && s.movement.FrozenFor() > 0

	for id, enemy := range s.ecs.Enemies {
		if enemy.Dead {
			continue
		}
		if enemy.AttackCooldown > 0 {
			enemy.AttackCooldown -= deltaTime
		}
		if frozen {
			continue
		}

		pos := s.ecs.Positions[id]
		if pos == nil {
			continue
		}
		goal, stopRange, ok := s.world.EnemyGoal(id, enemy)
		if !ok {
			continue
		}
		if pos.Vec().DistanceTo(goal) > stopRange+attackReachSlack {
			continue
		}
		if enemy.AttackCooldown > 0 {
			continue
		}
		def, known := defs.ArchetypeLibrary[enemy.DefID]
		if !known {
			continue
		}

		s.world.EnemyStrike(id, enemy, def.Damage)
		enemy.AttackCooldown = def.AttackInterval
	}
}

// TurretSystem picks targets for placed turrets and fires projectiles.
// Target selection is nearest-living-enemy through the spatial grid.
type TurretSystem struct {
	ecs  *entity.ECS
	grid *spatial.Grid
}

func NewTurretSystem(ecs *entity.ECS, grid *spatial.Grid) *TurretSystem {
	return &TurretSystem{ecs: ecs, grid: grid}
}

func (s *TurretSystem) Update(deltaTime float64) {
	for id, turret := range s.ecs.Turrets {
		if turret.FireCooldown > 0 {
			turret.FireCooldown -= deltaTime
		}

		def, known := defs.TurretLibrary[turret.DefID]
		if !known {
			continue
		}
		pos := s.ecs.Positions[id]
		if pos == nil {
			continue
		}

		targetID, found := s.grid.FindNearest(pos.Vec(), def.Range)
		if !found {
			turret.TargetID = 0
			continue
		}
		enemy := s.ecs.Enemies[targetID]
		if enemy == nil || enemy.Dead {
			turret.TargetID = 0
			continue
		}
		turret.TargetID = targetID

		if turret.FireCooldown > 0 || def.FireRate <= 0 {
			continue
		}
		s.fire(pos.Vec(), targetID, def)
		turret.FireCooldown = 1.0 / def.FireRate
	}
}

// fire spawns one projectile aimed at the target's current position.
func (s *TurretSystem) fire(from types.Vec2, targetID types.EntityID, def defs.TurretDefinition) {
	targetPos, ok := s.grid.Position(targetID)
	if !ok {
		return
	}
	dir := targetPos.Sub(from).Normalized()
	if dir == (types.Vec2{}) {
		dir = types.Vec2{X: 1}
	}

	id := s.ecs.NewEntity()
	s.ecs.Positions[id] = &component.Position{X: from.X, Z: from.Z}
	proj := &component.Projectile{
		Velocity:     dir.Scale(def.ProjectileSpeed),
		Damage:       def.Damage,
		Source:       def.ID,
		Pierce:       def.Pierce,
		SplashRadius: def.SplashRadius,
		SlowsTarget:  def.SlowsTarget,
		SlowDuration: def.SlowDuration,
		SlowFactor:   def.SlowFactor,
		HitSet:       make(map[types.EntityID]bool),
	}
	if def.Mortar {
		// Мина летит по дуге и взрывается в точке прицеливания.
		proj.Mortar = true
		proj.FlightTime = from.DistanceTo(targetPos) / def.ProjectileSpeed
	}
	s.ecs.Projectiles[id] = proj
}
