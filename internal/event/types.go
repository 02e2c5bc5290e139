// internal/event/types.go
package event

import "go-bastion-defense/internal/types"

const (
	Damaged           EventType = "Damaged"           // Повреждение зарегистрированной части
	Destroyed         EventType = "Destroyed"         // Часть уничтожена
	CollapseScheduled EventType = "CollapseScheduled" // Обрушение запланировано
	CollapseComplete  EventType = "CollapseComplete"  // Обрушение завершено
	WaveStarted       EventType = "WaveStarted"
	WaveCompleted     EventType = "WaveCompleted"
	PhaseChanged      EventType = "PhaseChanged"
	StatsUpdated      EventType = "StatsUpdated"
	EnemyKilled       EventType = "EnemyKilled"
	EnemySpawned      EventType = "EnemySpawned"
	TurretPlaced      EventType = "TurretPlaced"
	GameEnded         EventType = "GameEnded"
)

// DamagedPayload accompanies Damaged.
type DamagedPayload struct {
	ID              types.EntityID
	Amount          float64
	DamageType      string
	Source          string
	ResultingHealth float64
	State           string
}

// DestroyedPayload accompanies Destroyed.
type DestroyedPayload struct {
	ID       types.EntityID
	Position types.Vec2
	Cascade  []types.EntityID // Части, которые упадут следом
}

// CollapsePayload accompanies CollapseScheduled and CollapseComplete.
type CollapsePayload struct {
	ID    types.EntityID
	Delay float64 // Seconds of game time until (or since) the collapse
}

// PhaseChangedPayload carries the derived wave counters so the host can
// reconcile displayed numbers without recomputing them.
type PhaseChangedPayload struct {
	From               string
	To                 string
	ActiveWaveNumber   int
	UpcomingWaveNumber int
}

// WavePayload accompanies WaveStarted and WaveCompleted.
type WavePayload struct {
	Number  int
	Endless bool
}

// EnemyKilledPayload accompanies EnemyKilled.
type EnemyKilledPayload struct {
	ID        types.EntityID
	Archetype string
	Reward    int
}

// EnemySpawnedPayload accompanies EnemySpawned.
type EnemySpawnedPayload struct {
	ID        types.EntityID
	Archetype string
	Position  types.Vec2
}

// TurretPlacedPayload accompanies TurretPlaced.
type TurretPlacedPayload struct {
	ID       types.EntityID
	Type     string
	Position types.Vec2
}

// GameEndedPayload accompanies GameEnded.
type GameEndedPayload struct {
	Score int
	Wave  int
}

// StatsPayload is a per-tick snapshot for the host HUD.
type StatsPayload struct {
	Score        int
	Currency     int
	EnemiesAlive int
	GameTime     float64
}
