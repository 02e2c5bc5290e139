// internal/system/projectile.go
package system

import (
	"math"
	"sort"

	"go-bastion-defense/internal/component"
	"go-bastion-defense/internal/config"
	"go-bastion-defense/internal/defs"
	"go-bastion-defense/internal/entity"
	"go-bastion-defense/internal/spatial"
	"go-bastion-defense/internal/types"
)

// EnemySink consumes projectile damage. The owner decides what death means:
// rewards, splitter children, entity removal.
type EnemySink interface {
	HurtEnemy(id types.EntityID, damage float64, source string)
}

// ProjectileSystem integrates projectile motion and resolves hits. The grid
// provides the broad phase; the narrow phase is an exact circle test scaled
// by the target archetype's size.
type ProjectileSystem struct {
	ecs  *entity.ECS
	grid *spatial.Grid
	sink EnemySink
}

func NewProjectileSystem(ecs *entity.ECS, grid *spatial.Grid, sink EnemySink) *ProjectileSystem {
	return &ProjectileSystem{ecs: ecs, grid: grid, sink: sink}
}

func (s *ProjectileSystem) Update(deltaTime float64) {
	var expired []types.EntityID

	for id, proj := range s.ecs.Projectiles {
		pos := s.ecs.Positions[id]
		if pos == nil {
			expired = append(expired, id)
			continue
		}

		pos.Set(pos.Vec().Add(proj.Velocity.Scale(deltaTime)))
		proj.Lifetime += deltaTime
		proj.Elapsed += deltaTime

		if proj.Lifetime > config.ProjectileLifetime {
			// Фугасный снаряд на излёте всё же взрывается.
			if proj.SplashRadius > 0 && !proj.Mortar {
				s.explode(pos.Vec(), proj)
			}
			expired = append(expired, id)
			continue
		}
		if math.Abs(pos.X) > config.WorldBound || math.Abs(pos.Z) > config.WorldBound {
			expired = append(expired, id)
			continue
		}

		if proj.Mortar {
			// Мина не задевает никого в полёте, взрыв строго по таймеру.
			if proj.Elapsed >= proj.FlightTime {
				s.explode(pos.Vec(), proj)
				expired = append(expired, id)
			}
			continue
		}

		if s.resolveHits(pos.Vec(), proj) {
			expired = append(expired, id)
		}
	}

	for _, id := range expired {
		s.ecs.RemoveEntity(id)
	}
}

// resolveHits applies the projectile to enemies it overlaps this tick.
// Reports true when the projectile is spent.
func (s *ProjectileSystem) resolveHits(at types.Vec2, proj *component.Projectile) bool {
	// Широкая фаза с запасом на самый крупный архетип.
	broadRadius := config.CollisionRadius * 2.5
	candidates := s.grid.QueryRadius(at, broadRadius)
	if len(candidates) == 0 {
		return false
	}

	// Ближайшие цели поражаются первыми, чтобы пробитие было стабильным.
	sort.Slice(candidates, func(i, j int) bool {
		pi, _ := s.grid.Position(candidates[i])
		pj, _ := s.grid.Position(candidates[j])
		di, dj := pi.DistanceSqTo(at), pj.DistanceSqTo(at)
		if di != dj {
			return di < dj
		}
		return candidates[i] < candidates[j]
	})

	for _, targetID := range candidates {
		if proj.HitSet[targetID] {
			continue
		}
		enemy := s.ecs.Enemies[targetID]
		if enemy == nil || enemy.Dead {
			continue
		}

		hitRadius := config.CollisionRadius
		if def, ok := defs.ArchetypeLibrary[enemy.DefID]; ok && def.Scale > 0 {
			hitRadius *= def.Scale
		}
		targetPos, ok := s.grid.Position(targetID)
		if !ok || targetPos.DistanceSqTo(at) > hitRadius*hitRadius {
			continue
		}

		s.hitEnemy(targetID, proj)

		if proj.Pierce > 0 {
			proj.Pierce--
			continue // Снаряд летит дальше сквозь цель
		}
		if proj.SplashRadius > 0 {
			s.explode(at, proj)
		}
		return true
	}
	return false
}

// hitEnemy deals direct damage and refreshes the slow effect if the
// projectile carries one.
func (s *ProjectileSystem) hitEnemy(targetID types.EntityID, proj *component.Projectile) {
	proj.HitSet[targetID] = true
	if proj.SlowsTarget {
		// Повторное попадание сбрасывает таймер замедления.
		s.ecs.SlowEffects[targetID] = &component.SlowEffect{
			Factor: proj.SlowFactor,
			Timer:  proj.SlowDuration,
		}
	}
	s.sink.HurtEnemy(targetID, proj.Damage, proj.Source)
}

// explode applies full projectile damage to every enemy in the splash
// radius. Targets already pierced by this projectile are not hit twice.
func (s *ProjectileSystem) explode(at types.Vec2, proj *component.Projectile) {
	ids := s.grid.QueryRadius(at, proj.SplashRadius)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, targetID := range ids {
		if proj.HitSet[targetID] {
			continue
		}
		enemy := s.ecs.Enemies[targetID]
		if enemy == nil || enemy.Dead {
			continue
		}
		s.hitEnemy(targetID, proj)
	}
}
