// internal/component/enemy.go
package component

import "go-bastion-defense/internal/types"

// EnemyTarget identifies what an enemy is currently moving toward.
type EnemyTarget int

const (
	TargetBastion EnemyTarget = iota // Атакует ближайший уязвимый элемент бастиона
	TargetPlayer
)

// Enemy представляет вражескую сущность.
type Enemy struct {
	DefID          string // ID из библиотеки архетипов
	Target         EnemyTarget
	AttackCooldown float64 // Оставшееся время до следующей атаки
	Reward         int     // Награда за убийство (может быть уменьшена у осколков)
	Dead           bool    // Помечен мёртвым: исключён из движения и коллизий
}

// Health — компонент здоровья
type Health struct {
	Value float64
	Max   float64
}

// Turret is the live state of a placed turret; static data lives in defs.
type Turret struct {
	DefID        string
	FireCooldown float64
	TargetID     types.EntityID // Последняя цель, только для отрисовки
}
