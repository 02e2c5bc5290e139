// internal/app/abilities.go
package app

import (
	"go-bastion-defense/internal/config"
	"go-bastion-defense/internal/phase"
	"go-bastion-defense/internal/types"
)

// Ability kinds accepted by UseAbility.
const (
	AbilityFreeze = "freeze"
	AbilityStrike = "strike"
)

// pendingStrike is a scheduled orbital strike. Cancelling is just dropping
// the entry before its delay elapses.
type pendingStrike struct {
	At        types.Vec2
	Remaining float64
}

// UseAbility triggers an ability aimed at the player's position.
func (g *Game) UseAbility(kind string) bool {
	return g.UseAbilityAt(kind, g.player.Position)
}

// UseAbilityAt triggers an ability aimed at an explicit point. The freeze
// ignores the aim point. Returns false when the kind is unknown, the phase
// is not live, the currency is short, or a strike is already pending.
func (g *Game) UseAbilityAt(kind string, at types.Vec2) bool {
	switch g.machine.Current() {
	case phase.WavePrep, phase.WaveActive, phase.WaveComplete:
	default:
		return false
	}

	switch kind {
	case AbilityFreeze:
		if g.currency < config.FreezeAbilityCost {
			return false
		}
		g.currency -= config.FreezeAbilityCost
		g.movement.Freeze(config.FreezeAbilityTime)
		return true

	case AbilityStrike:
		if g.strike != nil || g.currency < config.StrikeAbilityCost {
			return false
		}
		g.currency -= config.StrikeAbilityCost
		g.strike = &pendingStrike{At: at, Remaining: config.StrikeAbilityDelay}
		return true
	}
	return false
}

// CancelStrike drops the pending strike and refunds its cost. Returns false
// when nothing is pending.
func (g *Game) CancelStrike() bool {
	if g.strike == nil {
		return false
	}
	g.strike = nil
	g.currency += config.StrikeAbilityCost
	return true
}

// StrikePending reports the aim point and remaining delay of the scheduled
// strike.
func (g *Game) StrikePending() (types.Vec2, float64, bool) {
	if g.strike == nil {
		return types.Vec2{}, 0, false
	}
	return g.strike.At, g.strike.Remaining, true
}

// updateAbilities advances scheduled ability effects by dt.
func (g *Game) updateAbilities(dt float64) {
	if g.strike == nil {
		return
	}
	g.strike.Remaining -= dt
	if g.strike.Remaining > 0 {
		return
	}
	at := g.strike.At
	g.strike = nil
	g.detonateStrike(at)
}

// detonateStrike damages every enemy in the strike radius. Friendly
// structures are unharmed, the strike comes from above.
func (g *Game) detonateStrike(at types.Vec2) {
	for _, id := range g.grid.QueryRadius(at, config.StrikeAbilityRadius) {
		g.HurtEnemy(id, config.StrikeAbilityDamage, AbilityStrike)
	}
}
