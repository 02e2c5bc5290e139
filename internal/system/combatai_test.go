package system

import (
	"testing"

	"go-bastion-defense/internal/component"
	"go-bastion-defense/internal/config"
	"go-bastion-defense/internal/defs"
	"go-bastion-defense/internal/entity"
	"go-bastion-defense/internal/spatial"
	"go-bastion-defense/internal/types"
)

// stubArbiter resolves every goal to a fixed point and records strikes.
type stubArbiter struct {
	stubGoals
	strikes []float64
}

func (s *stubArbiter) EnemyStrike(_ types.EntityID, _ *component.Enemy, damage float64) {
	s.strikes = append(s.strikes, damage)
}

func TestEnemyStrikesOnCooldown(t *testing.T) {
	ecs := entity.NewECS()
	grid := spatial.NewGrid(config.GridCellSize)
	arbiter := &stubArbiter{stubGoals: stubGoals{stopRange: config.CollisionRadius}}
	movement := NewMovementSystem(ecs, grid, arbiter)
	sys := NewCombatAISystem(ecs, movement, arbiter)

	// Стоит вплотную к цели.
	spawnEnemy(ecs, grid, types.Vec2{X: 1.0}, 0)

	sys.Update(0.1)
	if len(arbiter.strikes) != 1 {
		t.Fatalf("expected one strike, got %d", len(arbiter.strikes))
	}
	if want := defs.ArchetypeLibrary[defs.ArchetypeStandard].Damage; arbiter.strikes[0] != want {
		t.Errorf("strike damage %v, want %v", arbiter.strikes[0], want)
	}

	// Кулдаун ещё не истёк.
	sys.Update(0.5)
	if len(arbiter.strikes) != 1 {
		t.Fatalf("struck during cooldown, total %d", len(arbiter.strikes))
	}

	// AttackInterval стандартного врага 1.2 секунды.
	sys.Update(0.8)
	if len(arbiter.strikes) != 2 {
		t.Errorf("expected second strike after cooldown, got %d", len(arbiter.strikes))
	}
}

func TestEnemyOutOfReachDoesNotStrike(t *testing.T) {
	ecs := entity.NewECS()
	grid := spatial.NewGrid(config.GridCellSize)
	arbiter := &stubArbiter{stubGoals: stubGoals{stopRange: config.CollisionRadius}}
	sys := NewCombatAISystem(ecs, NewMovementSystem(ecs, grid, arbiter), arbiter)

	spawnEnemy(ecs, grid, types.Vec2{X: 5.0}, 0)

	sys.Update(0.1)
	if len(arbiter.strikes) != 0 {
		t.Errorf("enemy struck from distance 5: %v", arbiter.strikes)
	}
}

func TestFrozenEnemyDoesNotStrike(t *testing.T) {
	ecs := entity.NewECS()
	grid := spatial.NewGrid(config.GridCellSize)
	arbiter := &stubArbiter{stubGoals: stubGoals{stopRange: config.CollisionRadius}}
	movement := NewMovementSystem(ecs, grid, arbiter)
	sys := NewCombatAISystem(ecs, movement, arbiter)

	spawnEnemy(ecs, grid, types.Vec2{X: 1.0}, 0)
	movement.Freeze(2.0)

	sys.Update(0.1)
	if len(arbiter.strikes) != 0 {
		t.Errorf("frozen enemy struck: %v", arbiter.strikes)
	}
}

func placeTurret(ecs *entity.ECS, defID string, at types.Vec2) types.EntityID {
	id := ecs.NewEntity()
	ecs.Positions[id] = &component.Position{X: at.X, Z: at.Z}
	ecs.Turrets[id] = &component.Turret{DefID: defID}
	return id
}

func TestTurretFiresAtNearestEnemy(t *testing.T) {
	ecs := entity.NewECS()
	grid := spatial.NewGrid(config.GridCellSize)
	sys := NewTurretSystem(ecs, grid)

	turretID := placeTurret(ecs, defs.TurretGun, types.Vec2{})
	near := spawnEnemy(ecs, grid, types.Vec2{X: 5}, 0)
	spawnEnemy(ecs, grid, types.Vec2{X: 9}, 0)

	sys.Update(0.016)

	if got := ecs.Turrets[turretID].TargetID; got != near {
		t.Errorf("turret locked %d, want nearest %d", got, near)
	}
	if len(ecs.Projectiles) != 1 {
		t.Fatalf("expected one projectile, got %d", len(ecs.Projectiles))
	}
	for _, proj := range ecs.Projectiles {
		def := defs.TurretLibrary[defs.TurretGun]
		if proj.Damage != def.Damage || proj.Source != defs.TurretGun {
			t.Errorf("projectile carries damage %v source %q", proj.Damage, proj.Source)
		}
		if proj.Velocity.X <= 0 || proj.Velocity.Z != 0 {
			t.Errorf("projectile velocity %v must aim along +X", proj.Velocity)
		}
	}

	// Сразу после выстрела турель на кулдауне.
	sys.Update(0.016)
	if len(ecs.Projectiles) != 1 {
		t.Errorf("turret ignored its fire cooldown: %d projectiles", len(ecs.Projectiles))
	}
}

func TestTurretIgnoresEnemiesOutOfRange(t *testing.T) {
	ecs := entity.NewECS()
	grid := spatial.NewGrid(config.GridCellSize)
	sys := NewTurretSystem(ecs, grid)

	turretID := placeTurret(ecs, defs.TurretGun, types.Vec2{})
	// За пределами дальности 12.
	spawnEnemy(ecs, grid, types.Vec2{X: 20}, 0)

	sys.Update(0.016)
	if len(ecs.Projectiles) != 0 {
		t.Errorf("turret fired beyond range: %d projectiles", len(ecs.Projectiles))
	}
	if got := ecs.Turrets[turretID].TargetID; got != 0 {
		t.Errorf("turret locked out-of-range target %d", got)
	}
}

func TestMortarProjectileArcSetup(t *testing.T) {
	ecs := entity.NewECS()
	grid := spatial.NewGrid(config.GridCellSize)
	sys := NewTurretSystem(ecs, grid)

	placeTurret(ecs, defs.TurretMortar, types.Vec2{})
	spawnEnemy(ecs, grid, types.Vec2{X: 12}, 0)

	sys.Update(0.016)

	if len(ecs.Projectiles) != 1 {
		t.Fatalf("expected one mortar shell, got %d", len(ecs.Projectiles))
	}
	for _, proj := range ecs.Projectiles {
		if !proj.Mortar {
			t.Fatal("mortar turret must fire arcing shells")
		}
		def := defs.TurretLibrary[defs.TurretMortar]
		wantFlight := 12.0 / def.ProjectileSpeed
		if diff := proj.FlightTime - wantFlight; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("flight time %v, want %v", proj.FlightTime, wantFlight)
		}
		if proj.SplashRadius != def.SplashRadius {
			t.Errorf("splash radius %v, want %v", proj.SplashRadius, def.SplashRadius)
		}
	}
}
