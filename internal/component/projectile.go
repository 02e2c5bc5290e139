// internal/component/projectile.go
package component

import "go-bastion-defense/internal/types"

// Projectile представляет летящий снаряд.
type Projectile struct {
	Velocity     types.Vec2
	Damage       float64
	Source       string // ID типа турели, выпустившей снаряд
	Pierce       int    // Сколько ещё целей снаряд может пробить
	SplashRadius float64
	Lifetime     float64 // Накопленное время жизни

	// Mortar arc: cosmetic height follows a parabola over Progress.
	Mortar       bool
	FlightTime   float64 // Полное расчётное время полёта
	Elapsed      float64
	SlowsTarget  bool
	SlowDuration float64
	SlowFactor   float64

	// Цели, уже задетые этим снарядом — повторно не задеваются.
	HitSet map[types.EntityID]bool
}

// ArcHeight returns the cosmetic vertical offset for mortar shells,
// zero for flat projectiles.
func (p *Projectile) ArcHeight(maxHeight float64) float64 {
	if !p.Mortar || p.FlightTime <= 0 {
		return 0
	}
	progress := p.Elapsed / p.FlightTime
	if progress > 1 {
		progress = 1
	}
	// Парабола: 0 в начале и в конце, максимум в середине.
	return 4 * maxHeight * progress * (1 - progress)
}
