// internal/app/game.go
package app

import (
	"log"
	"math"

	"go-bastion-defense/internal/component"
	"go-bastion-defense/internal/config"
	"go-bastion-defense/internal/defs"
	"go-bastion-defense/internal/entity"
	"go-bastion-defense/internal/event"
	"go-bastion-defense/internal/phase"
	"go-bastion-defense/internal/spatial"
	"go-bastion-defense/internal/structure"
	"go-bastion-defense/internal/system"
	"go-bastion-defense/internal/types"
	"go-bastion-defense/internal/utils"
)

// Недостаточно валюты на постройку. Структурные коды живут в пакете
// structure, этот относится только к экономике.
const ReasonNoFunds = structure.ReasonCode("NO_FUNDS")

type playerState struct {
	Position types.Vec2
	Health   float64
	Invuln   float64 // Окно неуязвимости после полученного удара
}

// Game is the simulation context. The host drives it with Tick and the
// documented entry points and observes it through the event dispatcher; it
// never mutates internal state directly.
type Game struct {
	seed int64

	ecs         *entity.ECS
	dispatcher  *event.Dispatcher
	rng         *utils.PRNGService
	grid        *spatial.Grid // Только живые враги
	validator   *structure.Validator
	damage      *system.DamageManager
	waves       *system.WaveManager
	machine     *phase.Machine
	movement    *system.MovementSystem
	combat      *system.CombatAISystem
	turrets     *system.TurretSystem
	projectiles *system.ProjectileSystem

	anchor  types.Vec2
	coreID  types.EntityID
	player  playerState
	endless bool

	score      int
	currency   int
	spawnTimer float64
	strike     *pendingStrike
	dead       []types.EntityID
}

func NewGame(seed int64) *Game {
	g := &Game{seed: seed, dispatcher: event.NewDispatcher()}
	g.reset()
	g.dispatcher.Subscribe(event.Destroyed, g)
	return g
}

// reset rebuilds every subsystem from scratch. The dispatcher survives so
// host subscriptions outlive a restart.
func (g *Game) reset() {
	g.ecs = entity.NewECS()
	g.rng = utils.NewPRNGService(g.seed)
	g.grid = spatial.NewGrid(config.GridCellSize)
	g.anchor = types.Vec2{}
	g.validator = structure.NewValidator(
		structure.ModeHeuristic, g.anchor,
		config.MinBuildDistance, config.MaxBuildDistance,
		config.MinSpacing, config.SupportRadius,
	)
	g.damage = system.NewDamageManager(
		g.validator, g.dispatcher,
		config.CollapseDelay, config.CascadeRadius, config.CascadeDamagePercent,
	)
	g.waves = system.NewWaveManager(g.rng)
	if g.machine == nil {
		g.machine = phase.NewMachine(g.dispatcher)
	} else {
		g.machine.Reset()
	}
	g.movement = system.NewMovementSystem(g.ecs, g.grid, g)
	g.combat = system.NewCombatAISystem(g.ecs, g.movement, g)
	g.turrets = system.NewTurretSystem(g.ecs, g.grid)
	g.projectiles = system.NewProjectileSystem(g.ecs, g.grid, g)

	g.player = playerState{Position: g.anchor, Health: config.PlayerMaxHealth}
	g.endless = false
	g.score = 0
	g.currency = config.StartingCurrency
	g.spawnTimer = 0
	g.strike = nil
	g.dead = nil

	// Ядро бастиона: заземлённая часть в якоре, потеря которой кончает игру.
	g.coreID = g.ecs.NewEntity()
	g.validator.Graph().AddPiece(structure.Piece{
		ID: g.coreID, Position: g.anchor, Type: coreType, Grounded: true,
	}, nil)
	g.damage.Register(g.coreID, g.anchor, config.BastionCoreHealth)
}

// Reset returns the game to the Ready phase with a fresh world. This is the
// only way out of the Crashed phase.
func (g *Game) Reset() {
	g.reset()
}

// Dispatcher exposes the outbound event surface for host subscriptions.
func (g *Game) Dispatcher() *event.Dispatcher {
	return g.dispatcher
}

func (g *Game) Phase() phase.Phase         { return g.machine.Current() }
func (g *Game) ActiveWaveNumber() int      { return g.machine.ActiveWaveNumber() }
func (g *Game) UpcomingWaveNumber() int    { return g.machine.UpcomingWaveNumber() }
func (g *Game) CanStartWave() bool         { return g.machine.CanStartWave() }
func (g *Game) StartWaveLabel() string     { return g.machine.StartWaveLabel() }
func (g *Game) Score() int                 { return g.score }
func (g *Game) Currency() int              { return g.currency }
func (g *Game) PlayerHealth() float64      { return g.player.Health }
func (g *Game) PlayerPosition() types.Vec2 { return g.player.Position }
func (g *Game) GameTime() float64          { return g.ecs.GameTime }
func (g *Game) Endless() bool              { return g.endless }
func (g *Game) ECS() *entity.ECS           { return g.ecs }
func (g *Game) Anchor() types.Vec2         { return g.anchor }
func (g *Game) CoreID() types.EntityID     { return g.coreID }
func (g *Game) GridStats() spatial.Stats   { return g.grid.GetStats() }
func (g *Game) FreezeRemaining() float64   { return g.movement.FrozenFor() }

// BastionPieces lists the registered bastion elements, core included.
func (g *Game) BastionPieces() []types.EntityID {
	return g.damage.Registered()
}

// DamageRecord exposes a piece's health record to the host, read-only by
// convention.
func (g *Game) DamageRecord(id types.EntityID) *system.DamageableRecord {
	return g.damage.Record(id)
}

// PiecePosition returns the planar position of a bastion piece.
func (g *Game) PiecePosition(id types.EntityID) (types.Vec2, bool) {
	piece := g.validator.Graph().Piece(id)
	if piece == nil {
		return types.Vec2{}, false
	}
	return piece.Position, true
}

func (g *Game) crashed() bool {
	return g.machine.Current() == phase.Crashed
}

// SetPlayerPosition is fed by the host each frame; the simulation never
// moves the player itself.
func (g *Game) SetPlayerPosition(pos types.Vec2) {
	if g.crashed() {
		return
	}
	g.player.Position = pos
}

// StartGame leaves the Ready phase and opens the build-up before wave one.
func (g *Game) StartGame(endless bool) bool {
	if g.crashed() {
		return false
	}
	if !g.machine.StartGame() {
		return false
	}
	g.endless = endless
	return true
}

// StartWave launches the next wave when the phase allows it.
func (g *Game) StartWave() bool {
	if g.crashed() {
		return false
	}
	if !g.machine.StartWave() {
		return false
	}
	wave := g.machine.ActiveWaveNumber()
	g.waves.BeginWave(wave, g.endless)
	g.spawnTimer = 0
	g.dispatcher.Dispatch(event.Event{
		Type: event.WaveStarted,
		Data: event.WavePayload{Number: wave, Endless: g.endless},
	})
	return true
}

func (g *Game) TogglePause() bool {
	if g.crashed() {
		return false
	}
	return g.machine.TogglePause()
}

// ReportCrash is the host's unrecoverable-error escape hatch. Every entry
// point is refused afterwards until Reset.
func (g *Game) ReportCrash(err error) {
	log.Printf("[Game] unrecoverable error reported by host: %v", err)
	g.machine.ReportCrash()
}

// Tick advances the simulation by dt seconds. It is a no-op outside the
// live phases. dt is clamped so a long host stall cannot tunnel entities
// through collision radii.
func (g *Game) Tick(dt float64) {
	switch g.machine.Current() {
	case phase.WavePrep, phase.WaveActive, phase.WaveComplete:
	default:
		return
	}
	if dt <= 0 {
		return
	}
	if dt > config.MaxDeltaTime {
		dt = config.MaxDeltaTime
	}

	g.ecs.GameTime += dt
	g.sweepDead()
	g.updateAbilities(dt)
	if g.player.Invuln > 0 {
		g.player.Invuln -= dt
	}

	g.movement.Update(dt)
	g.combat.Update(dt)
	g.turrets.Update(dt)
	g.projectiles.Update(dt)
	g.damage.Update(dt)

	g.updateSpawns(dt)
	g.updateWaveState()
	g.emitStats()
}

// sweepDead removes entities flagged dead on the previous tick.
func (g *Game) sweepDead() {
	for _, id := range g.dead {
		g.ecs.RemoveEntity(id)
	}
	g.dead = g.dead[:0]
}

func (g *Game) updateSpawns(dt float64) {
	if g.machine.Current() != phase.WaveActive || g.waves.Remaining() == 0 {
		return
	}
	g.spawnTimer -= dt
	for g.spawnTimer <= 0 {
		archetype, ok := g.waves.NextSpawnType()
		if !ok {
			return
		}
		if _, spawned := g.SpawnEnemy(g.spawnPosition(), archetype); spawned {
			g.waves.RecordSpawn(archetype)
		}
		g.spawnTimer += g.waves.SpawnGap()
	}
}

// spawnPosition picks a random point on the spawn circle around the anchor.
func (g *Game) spawnPosition() types.Vec2 {
	angle := g.rng.Float64() * 2 * math.Pi
	return g.anchor.Add(types.Vec2{
		X: math.Cos(angle) * config.EnemySpawnRadius,
		Z: math.Sin(angle) * config.EnemySpawnRadius,
	})
}

func (g *Game) updateWaveState() {
	if g.machine.Current() != phase.WaveActive {
		return
	}
	if g.waves.Remaining() > 0 || g.aliveEnemies() > 0 {
		return
	}
	if !g.machine.CompleteWave() {
		return
	}
	wave := g.machine.ActiveWaveNumber()
	g.currency += config.WaveClearBonus + wave
	g.dispatcher.Dispatch(event.Event{
		Type: event.WaveCompleted,
		Data: event.WavePayload{Number: wave, Endless: g.endless},
	})
}

func (g *Game) aliveEnemies() int {
	alive := 0
	for _, enemy := range g.ecs.Enemies {
		if !enemy.Dead {
			alive++
		}
	}
	return alive
}

func (g *Game) emitStats() {
	g.dispatcher.Dispatch(event.Event{
		Type: event.StatsUpdated,
		Data: event.StatsPayload{
			Score:        g.score,
			Currency:     g.currency,
			EnemiesAlive: g.aliveEnemies(),
			GameTime:     g.ecs.GameTime,
		},
	})
}

// PlaceTurret validates the spot, charges the cost and creates the turret
// entity. The result carries every violated rule for the host UI.
func (g *Game) PlaceTurret(pos types.Vec2, turretType string) structure.PlacementResult {
	if g.crashed() {
		return structure.PlacementResult{}
	}
	def, known := defs.TurretLibrary[turretType]
	if !known {
		return structure.PlacementResult{}
	}

	candidate := structure.PlacementCandidate{
		Position: &pos,
		Type:     turretType,
		Grounded: true, // Турели стоят на земле
	}
	result := g.validator.ValidatePlacement(candidate)
	if g.currency < def.Cost {
		result.OK = false
		result.Reasons = append(result.Reasons, structure.PlacementReason{Code: ReasonNoFunds})
	}
	if !result.OK {
		return result
	}

	id := g.ecs.NewEntity()
	g.validator.AddPiece(id, candidate)
	g.damage.Register(id, pos, def.Health)
	g.ecs.Positions[id] = &component.Position{X: pos.X, Z: pos.Z}
	g.ecs.Turrets[id] = &component.Turret{DefID: turretType}
	g.currency -= def.Cost

	g.dispatcher.Dispatch(event.Event{
		Type: event.TurretPlaced,
		Data: event.TurretPlacedPayload{ID: id, Type: turretType, Position: pos},
	})
	return result
}

// SpawnEnemy creates an enemy of the given archetype. Returns false for an
// unknown archetype or a crashed game.
func (g *Game) SpawnEnemy(pos types.Vec2, archetype string) (types.EntityID, bool) {
	if g.crashed() {
		return 0, false
	}
	def, known := defs.ArchetypeLibrary[archetype]
	if !known {
		return 0, false
	}

	id := g.ecs.NewEntity()
	g.ecs.Positions[id] = &component.Position{X: pos.X, Z: pos.Z}
	g.ecs.Velocities[id] = &component.Velocity{Speed: def.Speed}
	g.ecs.Healths[id] = &component.Health{Value: def.Health, Max: def.Health}
	target := component.TargetPlayer
	if g.playerInsideBastion() {
		target = component.TargetBastion
	}
	g.ecs.Enemies[id] = &component.Enemy{
		DefID:  archetype,
		Target: target,
		Reward: def.Reward,
	}
	g.grid.Insert(id, pos)

	g.dispatcher.Dispatch(event.Event{
		Type: event.EnemySpawned,
		Data: event.EnemySpawnedPayload{ID: id, Archetype: archetype, Position: pos},
	})
	return id, true
}

// playerInsideBastion: внутри защищённого периметра враги идут на стены,
// снаружи — на игрока.
func (g *Game) playerInsideBastion() bool {
	return g.player.Position.DistanceTo(g.anchor) <= config.MinBuildDistance
}

// ApplyDamage forwards direct damage to a registered bastion element.
// Unknown ids are a no-op returning nil.
func (g *Game) ApplyDamage(id types.EntityID, amount float64, damageType, source string) *system.DamageResult {
	if g.crashed() {
		return nil
	}
	return g.damage.Apply(id, amount, damageType, source)
}

// ApplyExplosiveDamage damages every registered element around center with
// quadratic falloff.
func (g *Game) ApplyExplosiveDamage(center types.Vec2, radius, baseDamage float64) {
	if g.crashed() {
		return
	}
	g.damage.ApplyExplosive(center, radius, baseDamage)
}

// QueryNearby returns the enemies within radius of pos.
func (g *Game) QueryNearby(pos types.Vec2, radius float64) []types.EntityID {
	if g.crashed() {
		return nil
	}
	return g.grid.QueryRadius(pos, radius)
}

// FindClosest returns the nearest enemy within maxRange of pos.
func (g *Game) FindClosest(pos types.Vec2, maxRange float64) (types.EntityID, bool) {
	if g.crashed() {
		return 0, false
	}
	return g.grid.FindNearest(pos, maxRange)
}

// EnemyGoal implements system.GoalResolver. Enemies hunting the bastion
// walk to its nearest standing element; with nothing left to defend they
// fall back to the player.
func (g *Game) EnemyGoal(id types.EntityID, enemy *component.Enemy) (types.Vec2, float64, bool) {
	if enemy.Target == component.TargetBastion {
		pos := g.ecs.Positions[id]
		if pos == nil {
			return types.Vec2{}, 0, false
		}
		if _, piecePos, ok := g.nearestBastionPiece(pos.Vec()); ok {
			return piecePos, config.CollisionRadius, true
		}
	}
	return g.player.Position, config.PlayerAttackRange, true
}

// EnemyStrike implements system.StrikeArbiter.
func (g *Game) EnemyStrike(id types.EntityID, enemy *component.Enemy, damage float64) {
	if enemy.Target == component.TargetBastion {
		pos := g.ecs.Positions[id]
		if pos != nil {
			if pieceID, _, ok := g.nearestBastionPiece(pos.Vec()); ok {
				g.damage.Apply(pieceID, damage, "melee", enemy.DefID)
				return
			}
		}
	}
	if g.player.Invuln > 0 {
		return
	}
	g.player.Health -= damage
	g.player.Invuln = config.PlayerInvulnDuration
	if g.player.Health <= 0 {
		g.player.Health = 0
		g.endGame()
	}
}

// nearestBastionPiece scans the registered damageables. Piece counts are
// small, a linear pass beats maintaining a second spatial index.
func (g *Game) nearestBastionPiece(from types.Vec2) (types.EntityID, types.Vec2, bool) {
	graph := g.validator.Graph()
	var bestID types.EntityID
	var bestPos types.Vec2
	bestDistSq := math.Inf(1)
	for _, id := range g.damage.Registered() {
		piece := graph.Piece(id)
		if piece == nil {
			continue
		}
		distSq := piece.Position.DistanceSqTo(from)
		if distSq < bestDistSq {
			bestDistSq = distSq
			bestID = id
			bestPos = piece.Position
		}
	}
	if math.IsInf(bestDistSq, 1) {
		return 0, types.Vec2{}, false
	}
	return bestID, bestPos, true
}

// HurtEnemy implements system.EnemySink.
func (g *Game) HurtEnemy(id types.EntityID, damage float64, source string) {
	enemy := g.ecs.Enemies[id]
	health := g.ecs.Healths[id]
	if enemy == nil || enemy.Dead || health == nil {
		return
	}
	health.Value -= damage
	if health.Value > 0 {
		return
	}
	health.Value = 0
	g.killEnemy(id, enemy, health)
}

// killEnemy flags the enemy dead, grants the reward and spawns splitter
// children. The entity itself is removed on the next tick.
func (g *Game) killEnemy(id types.EntityID, enemy *component.Enemy, health *component.Health) {
	enemy.Dead = true
	g.grid.Remove(id)
	g.dead = append(g.dead, id)

	g.score += enemy.Reward
	g.currency += enemy.Reward
	g.dispatcher.Dispatch(event.Event{
		Type: event.EnemyKilled,
		Data: event.EnemyKilledPayload{ID: id, Archetype: enemy.DefID, Reward: enemy.Reward},
	})

	def, known := defs.ArchetypeLibrary[enemy.DefID]
	if known && def.SplitChildID != "" {
		g.spawnSplitChildren(id, enemy, health, def)
	}
}

// spawnSplitChildren rings the dead splitter with weaker offspring carrying
// a fraction of its health and reward.
func (g *Game) spawnSplitChildren(parentID types.EntityID, parent *component.Enemy, parentHealth *component.Health, def defs.ArchetypeDefinition) {
	origin := g.ecs.Positions[parentID]
	if origin == nil {
		return
	}
	for i := 0; i < config.SplitterChildCount; i++ {
		angle := 2 * math.Pi * float64(i) / float64(config.SplitterChildCount)
		pos := origin.Vec().Add(types.Vec2{
			X: math.Cos(angle) * config.SplitterSpawnOffset,
			Z: math.Sin(angle) * config.SplitterSpawnOffset,
		})
		childID, ok := g.SpawnEnemy(pos, def.SplitChildID)
		if !ok {
			continue
		}
		if health := g.ecs.Healths[childID]; health != nil {
			health.Max = parentHealth.Max * config.SplitterChildHealthPct
			health.Value = health.Max
		}
		if child := g.ecs.Enemies[childID]; child != nil {
			child.Reward = utils.RoundToInt(float64(parent.Reward) * config.SplitterChildRewardPct)
			child.Target = parent.Target
		}
	}
}

// OnEvent implements event.Listener: the game itself listens for destroyed
// pieces to drop their turret entities and detect the core's fall.
func (g *Game) OnEvent(e event.Event) {
	payload, ok := e.Data.(event.DestroyedPayload)
	if !ok {
		return
	}
	if _, isTurret := g.ecs.Turrets[payload.ID]; isTurret {
		g.ecs.RemoveEntity(payload.ID)
	}
	if payload.ID == g.coreID {
		g.endGame()
	}
}

func (g *Game) endGame() {
	if !g.machine.EndGame() {
		return
	}
	g.dispatcher.Dispatch(event.Event{
		Type: event.GameEnded,
		Data: event.GameEndedPayload{Score: g.score, Wave: g.machine.ActiveWaveNumber()},
	})
}
