package system

import (
	"testing"

	"go-bastion-defense/internal/component"
	"go-bastion-defense/internal/config"
	"go-bastion-defense/internal/entity"
	"go-bastion-defense/internal/spatial"
	"go-bastion-defense/internal/types"
)

type hitRecord struct {
	ID     types.EntityID
	Damage float64
	Source string
}

// recordingSink records hits without killing anyone.
type recordingSink struct {
	hits []hitRecord
}

func (r *recordingSink) HurtEnemy(id types.EntityID, damage float64, source string) {
	r.hits = append(r.hits, hitRecord{ID: id, Damage: damage, Source: source})
}

func newProjectileFixture() (*entity.ECS, *spatial.Grid, *ProjectileSystem, *recordingSink) {
	ecs := entity.NewECS()
	grid := spatial.NewGrid(config.GridCellSize)
	sink := &recordingSink{}
	return ecs, grid, NewProjectileSystem(ecs, grid, sink), sink
}

func launch(ecs *entity.ECS, at types.Vec2, proj *component.Projectile) types.EntityID {
	id := ecs.NewEntity()
	ecs.Positions[id] = &component.Position{X: at.X, Z: at.Z}
	if proj.HitSet == nil {
		proj.HitSet = make(map[types.EntityID]bool)
	}
	ecs.Projectiles[id] = proj
	return id
}

func TestProjectileDirectHit(t *testing.T) {
	ecs, grid, sys, sink := newProjectileFixture()
	target := spawnEnemy(ecs, grid, types.Vec2{X: 5}, 0)
	pid := launch(ecs, types.Vec2{X: 4}, &component.Projectile{
		Velocity: types.Vec2{X: 10}, Damage: 18, Source: "TURRET_GUN",
	})

	sys.Update(0.1)

	if len(sink.hits) != 1 {
		t.Fatalf("expected one hit, got %v", sink.hits)
	}
	hit := sink.hits[0]
	if hit.ID != target || hit.Damage != 18 || hit.Source != "TURRET_GUN" {
		t.Errorf("unexpected hit %+v", hit)
	}
	if _, alive := ecs.Projectiles[pid]; alive {
		t.Error("spent projectile must be removed")
	}
}

func TestProjectilePierce(t *testing.T) {
	ecs, grid, sys, sink := newProjectileFixture()
	first := spawnEnemy(ecs, grid, types.Vec2{X: 5}, 0)
	second := spawnEnemy(ecs, grid, types.Vec2{X: 5.6}, 0)
	pid := launch(ecs, types.Vec2{X: 4}, &component.Projectile{
		Velocity: types.Vec2{X: 10}, Damage: 10, Pierce: 1,
	})

	sys.Update(0.1)

	if len(sink.hits) != 2 {
		t.Fatalf("pierce shot must hit both, got %v", sink.hits)
	}
	// Ближайшая цель поражается первой.
	if sink.hits[0].ID != first || sink.hits[1].ID != second {
		t.Errorf("hit order %v, want [%d %d]", sink.hits, first, second)
	}
	if _, alive := ecs.Projectiles[pid]; alive {
		t.Error("pierce exhausted, projectile must be removed")
	}
}

func TestProjectileHitsEachTargetOnce(t *testing.T) {
	ecs, grid, sys, sink := newProjectileFixture()
	spawnEnemy(ecs, grid, types.Vec2{X: 5}, 0)
	launch(ecs, types.Vec2{X: 4.5}, &component.Projectile{
		Velocity: types.Vec2{X: 5}, Damage: 10, Pierce: 3,
	})

	// Медленный снаряд остаётся внутри радиуса цели два тика подряд.
	sys.Update(0.1)
	sys.Update(0.1)

	if len(sink.hits) != 1 {
		t.Errorf("target hit %d times by one projectile", len(sink.hits))
	}
}

func TestProjectileSplash(t *testing.T) {
	ecs, grid, sys, sink := newProjectileFixture()
	direct := spawnEnemy(ecs, grid, types.Vec2{X: 5}, 0)
	nearby := spawnEnemy(ecs, grid, types.Vec2{X: 7}, 0)
	spawnEnemy(ecs, grid, types.Vec2{X: 20}, 0) // Вне радиуса взрыва

	launch(ecs, types.Vec2{X: 4}, &component.Projectile{
		Velocity: types.Vec2{X: 10}, Damage: 45, SplashRadius: 3.0,
	})

	sys.Update(0.1)

	if len(sink.hits) != 2 {
		t.Fatalf("expected direct + splash hits, got %v", sink.hits)
	}
	seen := map[types.EntityID]int{}
	for _, hit := range sink.hits {
		seen[hit.ID]++
	}
	if seen[direct] != 1 || seen[nearby] != 1 {
		t.Errorf("each target must be hit exactly once: %v", seen)
	}
}

func TestProjectileAppliesSlow(t *testing.T) {
	ecs, grid, sys, _ := newProjectileFixture()
	target := spawnEnemy(ecs, grid, types.Vec2{X: 5}, 0)
	launch(ecs, types.Vec2{X: 4}, &component.Projectile{
		Velocity: types.Vec2{X: 10}, Damage: 8,
		SlowsTarget: true, SlowDuration: 2.0, SlowFactor: 0.5,
	})

	sys.Update(0.1)

	slow := ecs.SlowEffects[target]
	if slow == nil {
		t.Fatal("slow effect must be applied on hit")
	}
	if slow.Factor != 0.5 || slow.Timer != 2.0 {
		t.Errorf("slow effect %+v", slow)
	}
}

func TestProjectileLifetimeExpiry(t *testing.T) {
	ecs, _, sys, sink := newProjectileFixture()
	pid := launch(ecs, types.Vec2{X: 50}, &component.Projectile{Damage: 10})

	sys.Update(config.ProjectileLifetime + 0.1)

	if _, alive := ecs.Projectiles[pid]; alive {
		t.Error("projectile must expire after its lifetime")
	}
	if len(sink.hits) != 0 {
		t.Errorf("expired projectile hit something: %v", sink.hits)
	}
}

func TestSplashProjectileExplodesOnExpiry(t *testing.T) {
	ecs, grid, sys, sink := newProjectileFixture()
	bystander := spawnEnemy(ecs, grid, types.Vec2{X: 51.5}, 0)

	launch(ecs, types.Vec2{X: 50}, &component.Projectile{Damage: 45, SplashRadius: 3.0})

	sys.Update(config.ProjectileLifetime + 0.1)

	if len(sink.hits) != 1 || sink.hits[0].ID != bystander {
		t.Errorf("expiring shell must splash nearby enemies, got %v", sink.hits)
	}
}

func TestProjectileOutOfBounds(t *testing.T) {
	ecs, _, sys, _ := newProjectileFixture()
	pid := launch(ecs, types.Vec2{X: config.WorldBound - 1}, &component.Projectile{
		Velocity: types.Vec2{X: 100}, Damage: 10,
	})

	sys.Update(0.1)

	if _, alive := ecs.Projectiles[pid]; alive {
		t.Error("projectile past the world bound must be removed")
	}
}

func TestMortarExplodesOnTimerOnly(t *testing.T) {
	ecs, grid, sys, sink := newProjectileFixture()
	underFlightPath := spawnEnemy(ecs, grid, types.Vec2{X: 6}, 0)
	atImpact := spawnEnemy(ecs, grid, types.Vec2{X: 13}, 0)

	launch(ecs, types.Vec2{}, &component.Projectile{
		Velocity: types.Vec2{X: 12}, Damage: 45, SplashRadius: 3.5,
		Mortar: true, FlightTime: 1.0,
	})

	// Пролетает над врагом, не задевая его.
	sys.Update(0.5)
	if len(sink.hits) != 0 {
		t.Fatalf("mortar shell hit mid-flight: %v", sink.hits)
	}

	// Взрыв в точке прицеливания.
	sys.Update(0.5)
	if len(sink.hits) != 1 {
		t.Fatalf("expected one splash victim, got %v", sink.hits)
	}
	if sink.hits[0].ID != atImpact {
		t.Errorf("splash hit %d, want %d", sink.hits[0].ID, atImpact)
	}
	if sink.hits[0].ID == underFlightPath {
		t.Error("enemy under the flight path must be untouched")
	}
}
