// internal/system/damage.go
package system

import (
	"sort"

	"go-bastion-defense/internal/event"
	"go-bastion-defense/internal/structure"
	"go-bastion-defense/internal/types"
)

// DamageState is derived from the health fraction of a registered piece.
type DamageState string

const (
	StatePristine  DamageState = "Pristine"  // > 60%
	StateDamaged   DamageState = "Damaged"   // 26–60%
	StateCritical  DamageState = "Critical"  // 1–25%
	StateDestroyed DamageState = "Destroyed" // 0
)

// DamageRecord is one history entry on a damageable piece.
type DamageRecord struct {
	Amount          float64
	Type            string
	Source          string
	ResultingHealth float64
	Timestamp       float64 // Накопленное игровое время
}

// DamageableRecord wraps an entity tracked by the damage manager.
type DamageableRecord struct {
	ID        types.EntityID
	Position  types.Vec2
	MaxHealth float64
	Health    float64
	State     DamageState
	History   []DamageRecord
}

// DamageResult reports the outcome of a single damage application.
type DamageResult struct {
	ID              types.EntityID
	Applied         float64
	ResultingHealth float64
	State           DamageState
	Destroyed       bool
}

type pendingCollapse struct {
	id      types.EntityID
	delay   float64
	elapsed float64
}

// DamageManager tracks health and damage state of bastion pieces, applies
// direct and splash damage, and sequences cascading destruction through
// the support graph with staggered delays. All failure paths are soft:
// operations on unknown ids return nil/false and never panic.
type DamageManager struct {
	validator  *structure.Validator
	dispatcher *event.Dispatcher

	records    map[types.EntityID]*DamageableRecord
	pending    []pendingCollapse
	pendingSet map[types.EntityID]bool
	now        float64

	collapseDelay  float64
	cascadeRadius  float64
	cascadePercent float64
}

func NewDamageManager(validator *structure.Validator, dispatcher *event.Dispatcher, collapseDelay, cascadeRadius, cascadePercent float64) *DamageManager {
	return &DamageManager{
		validator:      validator,
		dispatcher:     dispatcher,
		records:        make(map[types.EntityID]*DamageableRecord),
		pendingSet:     make(map[types.EntityID]bool),
		collapseDelay:  collapseDelay,
		cascadeRadius:  cascadeRadius,
		cascadePercent: cascadePercent,
	}
}

// Register starts tracking a piece. Registering an already-known id is
// idempotent and returns the existing record unchanged.
func (m *DamageManager) Register(id types.EntityID, pos types.Vec2, maxHealth float64) *DamageableRecord {
	if record, exists := m.records[id]; exists {
		return record
	}
	record := &DamageableRecord{
		ID:        id,
		Position:  pos,
		MaxHealth: maxHealth,
		Health:    maxHealth,
		State:     StatePristine,
	}
	m.records[id] = record
	return record
}

// Unregister stops tracking a piece. Unknown ids return false.
func (m *DamageManager) Unregister(id types.EntityID) bool {
	if _, exists := m.records[id]; !exists {
		return false
	}
	delete(m.records, id)
	m.cancelCollapse(id)
	return true
}

// RestoreHealth sets a tracked piece's health directly, bypassing history
// and events. Used when loading a save. Unknown ids return false.
func (m *DamageManager) RestoreHealth(id types.EntityID, health float64) bool {
	record, exists := m.records[id]
	if !exists {
		return false
	}
	if health < 0 {
		health = 0
	}
	if health > record.MaxHealth {
		health = record.MaxHealth
	}
	record.Health = health
	record.State = stateFor(record.Health, record.MaxHealth)
	return true
}

// Record returns the tracked record, or nil when unknown.
func (m *DamageManager) Record(id types.EntityID) *DamageableRecord {
	return m.records[id]
}

// Registered returns all tracked ids in ascending order.
func (m *DamageManager) Registered() []types.EntityID {
	ids := make([]types.EntityID, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func stateFor(health, maxHealth float64) DamageState {
	if health <= 0 {
		return StateDestroyed
	}
	frac := health / maxHealth
	switch {
	case frac > 0.60:
		return StatePristine
	case frac > 0.25:
		return StateDamaged
	default:
		return StateCritical
	}
}

// Apply subtracts health (floored at zero), recomputes the damage state,
// appends a history entry and emits a Damaged event. Reaching zero health
// immediately destroys the piece. Unknown ids are a no-op returning nil.
func (m *DamageManager) Apply(id types.EntityID, amount float64, damageType, source string) *DamageResult {
	record, exists := m.records[id]
	if !exists || amount < 0 {
		return nil
	}

	record.Health -= amount
	if record.Health < 0 {
		record.Health = 0
	}
	record.State = stateFor(record.Health, record.MaxHealth)
	record.History = append(record.History, DamageRecord{
		Amount:          amount,
		Type:            damageType,
		Source:          source,
		ResultingHealth: record.Health,
		Timestamp:       m.now,
	})

	m.dispatcher.Dispatch(event.Event{Type: event.Damaged, Data: event.DamagedPayload{
		ID:              id,
		Amount:          amount,
		DamageType:      damageType,
		Source:          source,
		ResultingHealth: record.Health,
		State:           string(record.State),
	}})

	result := &DamageResult{
		ID:              id,
		Applied:         amount,
		ResultingHealth: record.Health,
		State:           record.State,
	}
	if record.State == StateDestroyed {
		result.Destroyed = true
		m.Destroy(id)
	}
	return result
}

// ApplyExplosive damages every registered piece within radius of center
// with quadratic falloff: base * (1 - dist/radius)^2.
func (m *DamageManager) ApplyExplosive(center types.Vec2, radius, baseDamage float64) {
	if radius <= 0 {
		return
	}
	for _, id := range m.Registered() {
		record, exists := m.records[id]
		if !exists {
			// Уничтожено каскадом от предыдущей итерации.
			continue
		}
		dist := record.Position.DistanceTo(center)
		if dist > radius {
			continue
		}
		falloff := 1 - dist/radius
		m.Apply(id, baseDamage*falloff*falloff, "explosive", "explosion")
	}
}

// Destroy removes the piece and sequences the structural consequences:
// the validator reports which pieces lose the ground, each is scheduled
// for delayed destruction in discovery order (first discovered collapses
// soonest), structural splash damages nearby pieces that are not already
// falling, and the destroyed piece is unregistered. Unknown ids no-op.
func (m *DamageManager) Destroy(id types.EntityID) bool {
	record, exists := m.records[id]
	if !exists {
		return false
	}

	cascade := m.validator.RemovePiece(id)

	for i, pieceID := range cascade {
		if m.pendingSet[pieceID] || m.records[pieceID] == nil {
			continue
		}
		delay := float64(i+1) * m.collapseDelay
		m.pending = append(m.pending, pendingCollapse{id: pieceID, delay: delay})
		m.pendingSet[pieceID] = true
		m.dispatcher.Dispatch(event.Event{Type: event.CollapseScheduled, Data: event.CollapsePayload{
			ID:    pieceID,
			Delay: delay,
		}})
	}

	// Splash structural damage around the destroyed piece. Pieces already
	// scheduled to fall are skipped so they collapse on their own timer.
	for _, neighborID := range m.Registered() {
		if neighborID == id || m.pendingSet[neighborID] {
			continue
		}
		neighbor, stillThere := m.records[neighborID]
		if !stillThere {
			continue
		}
		if neighbor.Position.DistanceTo(record.Position) > m.cascadeRadius {
			continue
		}
		m.Apply(neighborID, m.cascadePercent*neighbor.MaxHealth, "structural", "collapse")
	}

	delete(m.records, id)
	m.cancelCollapse(id)

	m.dispatcher.Dispatch(event.Event{Type: event.Destroyed, Data: event.DestroyedPayload{
		ID:       id,
		Position: record.Position,
		Cascade:  cascade,
	}})
	return true
}

// CancelCollapse removes a pending delayed destruction before it lands.
// Returns false if nothing was pending for the id.
func (m *DamageManager) CancelCollapse(id types.EntityID) bool {
	if !m.pendingSet[id] {
		return false
	}
	m.cancelCollapse(id)
	return true
}

func (m *DamageManager) cancelCollapse(id types.EntityID) {
	if !m.pendingSet[id] {
		return
	}
	delete(m.pendingSet, id)
	for i, p := range m.pending {
		if p.id == id {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			break
		}
	}
}

// PendingCollapses returns ids currently scheduled to fall, soonest first.
func (m *DamageManager) PendingCollapses() []types.EntityID {
	ids := make([]types.EntityID, len(m.pending))
	for i, p := range m.pending {
		ids[i] = p.id
	}
	return ids
}

// Update advances accumulated time and finalizes every pending collapse
// whose elapsed time reached its scheduled delay. Purely dt-driven.
func (m *DamageManager) Update(dt float64) {
	m.now += dt
	if len(m.pending) == 0 {
		return
	}

	var due []types.EntityID
	remaining := m.pending[:0]
	for _, p := range m.pending {
		p.elapsed += dt
		if p.elapsed >= p.delay {
			due = append(due, p.id)
		} else {
			remaining = append(remaining, p)
		}
	}
	m.pending = remaining

	for _, id := range due {
		delete(m.pendingSet, id)
		m.dispatcher.Dispatch(event.Event{Type: event.CollapseComplete, Data: event.CollapsePayload{ID: id}})
		// Обрушение само может породить следующую волну каскада.
		m.Destroy(id)
	}
}

// GameTime returns the manager's accumulated time, used for history stamps.
func (m *DamageManager) GameTime() float64 {
	return m.now
}
