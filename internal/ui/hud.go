// internal/ui/hud.go
package ui

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"go-bastion-defense/internal/config"
	"go-bastion-defense/internal/event"
)

const hudLineHeight = 16

// HUD renders the session counters and the wave button. It keeps itself
// current by listening to the simulation's events instead of polling.
type HUD struct {
	stats     event.StatsPayload
	phaseInfo event.PhaseChangedPayload
	ended     *event.GameEndedPayload

	WaveButton *Button
}

func NewHUD(dispatcher *event.Dispatcher) *HUD {
	h := &HUD{
		WaveButton: NewButton(image.Rect(
			config.ScreenWidth-190, config.ScreenHeight-60,
			config.ScreenWidth-20, config.ScreenHeight-20,
		), "Start Wave 1"),
	}
	dispatcher.Subscribe(event.StatsUpdated, h)
	dispatcher.Subscribe(event.PhaseChanged, h)
	dispatcher.Subscribe(event.GameEnded, h)
	return h
}

// OnEvent implements event.Listener.
func (h *HUD) OnEvent(e event.Event) {
	switch payload := e.Data.(type) {
	case event.StatsPayload:
		h.stats = payload
	case event.PhaseChangedPayload:
		h.phaseInfo = payload
		if payload.To == "Ready" {
			h.ended = nil
		}
	case event.GameEndedPayload:
		ended := payload
		h.ended = &ended
	}
}

// SetWaveLabel keeps the button text in sync with the derived label.
func (h *HUD) SetWaveLabel(label string) {
	h.WaveButton.Label = label
}

func (h *HUD) Draw(screen *ebiten.Image, playerHealth float64) {
	face := basicfont.Face7x13
	lines := []string{
		fmt.Sprintf("Score: %d", h.stats.Score),
		fmt.Sprintf("Currency: %d", h.stats.Currency),
		fmt.Sprintf("Enemies: %d", h.stats.EnemiesAlive),
		fmt.Sprintf("Player HP: %.0f", playerHealth),
		fmt.Sprintf("Phase: %s (wave %d)", h.phaseInfo.To, h.phaseInfo.ActiveWaveNumber),
	}
	for i, line := range lines {
		text.Draw(screen, line, face, 20, 30+i*hudLineHeight, config.TextLightColor)
	}

	if h.ended != nil {
		msg := fmt.Sprintf("GAME OVER: score %d, wave %d (R to restart)",
			h.ended.Score, h.ended.Wave)
		bounds := text.BoundString(face, msg)
		text.Draw(screen, msg, face,
			(config.ScreenWidth-bounds.Dx())/2, config.ScreenHeight/2, config.DangerColor)
	}

	h.WaveButton.Draw(screen)
}
