// pkg/render/world.go
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"go-bastion-defense/internal/app"
	"go-bastion-defense/internal/config"
	"go-bastion-defense/internal/defs"
	"go-bastion-defense/internal/types"
)

// WorldRenderer draws the simulation in top-down view: the anchor, build
// ring, bastion pieces, enemies and projectiles.
type WorldRenderer struct {
	centerX float32
	centerY float32
	scale   float32
}

func NewWorldRenderer() *WorldRenderer {
	return &WorldRenderer{
		centerX: float32(config.ScreenWidth) / 2,
		centerY: float32(config.ScreenHeight) / 2,
		scale:   float32(config.WorldScale),
	}
}

// ToScreen converts a world position to screen pixels.
func (r *WorldRenderer) ToScreen(pos types.Vec2) (float32, float32) {
	return r.centerX + float32(pos.X)*r.scale, r.centerY + float32(pos.Z)*r.scale
}

// ToWorld converts screen pixels back to a world position, for mouse input.
func (r *WorldRenderer) ToWorld(sx, sy int) types.Vec2 {
	return types.Vec2{
		X: float64((float32(sx) - r.centerX) / r.scale),
		Z: float64((float32(sy) - r.centerY) / r.scale),
	}
}

func (r *WorldRenderer) Draw(screen *ebiten.Image, g *app.Game) {
	screen.Fill(config.BackgroundColor)
	r.drawBuildRing(screen, g)
	r.drawBastion(screen, g)
	r.drawEnemies(screen, g)
	r.drawProjectiles(screen, g)
	r.drawPlayer(screen, g)
	r.drawStrikeMarker(screen, g)

	if g.FreezeRemaining() > 0 {
		// Лёгкая голубая пелена на время заморозки.
		vector.DrawFilledRect(screen, 0, 0,
			float32(config.ScreenWidth), float32(config.ScreenHeight),
			color.RGBA{120, 180, 255, 28}, false)
	}
}

// drawBuildRing shows the legal placement band around the anchor.
func (r *WorldRenderer) drawBuildRing(screen *ebiten.Image, g *app.Game) {
	cx, cy := r.ToScreen(g.Anchor())
	ringColor := WithAlpha(config.GroundColor, 160)
	vector.StrokeCircle(screen, cx, cy, float32(config.MinBuildDistance)*r.scale, 1, ringColor, true)
	vector.StrokeCircle(screen, cx, cy, float32(config.MaxBuildDistance)*r.scale, 1, ringColor, true)
}

func (r *WorldRenderer) drawBastion(screen *ebiten.Image, g *app.Game) {
	for _, id := range g.BastionPieces() {
		pos, ok := g.PiecePosition(id)
		if !ok {
			continue
		}
		x, y := r.ToScreen(pos)

		pieceColor := config.StructureColor
		radius := float32(0.8) * r.scale
		if id == g.CoreID() {
			pieceColor = config.AnchorColor
			radius = float32(1.2) * r.scale
		} else if _, isTurret := g.ECS().Turrets[id]; isTurret {
			pieceColor = config.TurretColor
		}

		record := g.DamageRecord(id)
		if record != nil && record.MaxHealth > 0 {
			fraction := record.Health / record.MaxHealth
			if fraction < 0.6 {
				pieceColor = DarkenColor(pieceColor)
			}
			vector.DrawFilledCircle(screen, x, y, radius, pieceColor, true)
			// Полоска здоровья над повреждённой частью.
			if fraction < 1 {
				r.drawHealthBar(screen, x, y-radius-6, radius*2, fraction)
			}
			continue
		}
		vector.DrawFilledCircle(screen, x, y, radius, pieceColor, true)
	}
}

func (r *WorldRenderer) drawEnemies(screen *ebiten.Image, g *app.Game) {
	ecs := g.ECS()
	for id, enemy := range ecs.Enemies {
		if enemy.Dead {
			continue
		}
		pos := ecs.Positions[id]
		if pos == nil {
			continue
		}
		x, y := r.ToScreen(pos.Vec())

		scale := 1.0
		enemyColor := config.EnemyColor
		if def, known := defs.ArchetypeLibrary[enemy.DefID]; known {
			if def.Scale > 0 {
				scale = def.Scale
			}
			if def.IsBoss {
				enemyColor = config.BossColor
			}
		}
		radius := float32(0.6*scale) * r.scale
		vector.DrawFilledCircle(screen, x, y, radius, enemyColor, true)

		if health := ecs.Healths[id]; health != nil && health.Max > 0 && health.Value < health.Max {
			r.drawHealthBar(screen, x, y-radius-5, radius*2, health.Value/health.Max)
		}
	}
}

func (r *WorldRenderer) drawProjectiles(screen *ebiten.Image, g *app.Game) {
	ecs := g.ECS()
	for id, proj := range ecs.Projectiles {
		pos := ecs.Positions[id]
		if pos == nil {
			continue
		}
		x, y := r.ToScreen(pos.Vec())
		// Дуга миномёта: косметический подъём по экранному Y.
		y -= float32(proj.ArcHeight(config.MortarArcHeight)) * r.scale
		vector.DrawFilledCircle(screen, x, y, 3, config.ProjectileColor, true)
	}
}

func (r *WorldRenderer) drawPlayer(screen *ebiten.Image, g *app.Game) {
	x, y := r.ToScreen(g.PlayerPosition())
	vector.DrawFilledCircle(screen, x, y, 0.5*r.scale, config.OkColor, true)
}

func (r *WorldRenderer) drawStrikeMarker(screen *ebiten.Image, g *app.Game) {
	at, remaining, pending := g.StrikePending()
	if !pending {
		return
	}
	// Маркер на точке удара сжимается по мере приближения залпа.
	progress := 1 - remaining/config.StrikeAbilityDelay
	x, y := r.ToScreen(at)
	radius := float32(config.StrikeAbilityRadius) * r.scale * float32(0.4+0.6*progress)
	vector.StrokeCircle(screen, x, y, radius, 2, config.DangerColor, true)
}

func (r *WorldRenderer) drawHealthBar(screen *ebiten.Image, x, y, width float32, fraction float64) {
	vector.DrawFilledRect(screen, x-width/2, y, width, 3, color.RGBA{0, 0, 0, 180}, false)
	vector.DrawFilledRect(screen, x-width/2, y, width*float32(fraction), 3, HealthColor(fraction), false)
}
