// internal/system/movement.go
package system

import (
	"go-bastion-defense/internal/component"
	"go-bastion-defense/internal/entity"
	"go-bastion-defense/internal/spatial"
	"go-bastion-defense/internal/types"
)

// GoalResolver supplies the point an enemy is currently walking toward and
// the distance at which it should stop to attack.
type GoalResolver interface {
	EnemyGoal(id types.EntityID, enemy *component.Enemy) (goal types.Vec2, stopRange float64, ok bool)
}

// MovementSystem двигает врагов к их целям и обновляет пространственный
// индекс. Замедления и глобальная заморозка применяются здесь же.
type MovementSystem struct {
	ecs   *entity.ECS
	grid  *spatial.Grid
	goals GoalResolver

	freezeTimer float64
}

func NewMovementSystem(ecs *entity.ECS, grid *spatial.Grid, goals GoalResolver) *MovementSystem {
	return &MovementSystem{ecs: ecs, grid: grid, goals: goals}
}

// Freeze stops all enemy movement for the given number of seconds.
// Repeated calls extend the freeze only if the new duration is longer.
func (s *MovementSystem) Freeze(seconds float64) {
	if seconds > s.freezeTimer {
		s.freezeTimer = seconds
	}
}

// FrozenFor returns the remaining freeze time, zero when movement is live.
func (s *MovementSystem) FrozenFor() float64 {
	return s.freezeTimer
}

func (s *MovementSystem) Update(deltaTime float64) {
	if s.freezeTimer > 0 {
		s.freezeTimer -= deltaTime
		if s.freezeTimer < 0 {
			s.freezeTimer = 0
		}
	} else {
		s.moveEnemies(deltaTime)
	}

	// Таймеры замедления тикают и во время заморозки. Эффект действует
	// весь тик, на котором истекает.
	for id, slow := range s.ecs.SlowEffects {
		slow.Timer -= deltaTime
		if slow.Timer <= 0 {
			delete(s.ecs.SlowEffects, id)
		}
	}
}

func (s *MovementSystem) moveEnemies(deltaTime float64) {
	for id, enemy := range s.ecs.Enemies {
		if enemy.Dead {
			continue
		}
		pos := s.ecs.Positions[id]
		vel := s.ecs.Velocities[id]
		if pos == nil || vel == nil {
			continue
		}

		goal, stopRange, ok := s.goals.EnemyGoal(id, enemy)
		if !ok {
			continue
		}

		current := pos.Vec()
		dist := current.DistanceTo(goal)
		if dist <= stopRange {
			continue
		}

		speed := vel.Speed
		if slow, slowed := s.ecs.SlowEffects[id]; slowed {
			speed *= slow.Factor
		}

		step := speed * deltaTime
		// Не проскакиваем мимо точки остановки.
		if step > dist-stopRange {
			step = dist - stopRange
		}

		next := current.Add(goal.Sub(current).Normalized().Scale(step))
		pos.Set(next)
		s.grid.Update(id, next)
	}
}
