// cmd/game/main.go
package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"go-bastion-defense/internal/app"
	"go-bastion-defense/internal/config"
	"go-bastion-defense/internal/defs"
	"go-bastion-defense/internal/phase"
	"go-bastion-defense/internal/ui"
	"go-bastion-defense/pkg/render"
)

const saveSlot = "slot1"

// AppGame — хост поверх симуляции: снимает ввод, гонит тики и рисует мир.
type AppGame struct {
	game     *app.Game
	saves    *app.SaveManager
	renderer *render.WorldRenderer
	hud      *ui.HUD

	selectedTurret string
	lastUpdateTime time.Time
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := now.Sub(a.lastUpdateTime).Seconds()
	if deltaTime > config.MaxDeltaTime {
		deltaTime = config.MaxDeltaTime
	}
	a.lastUpdateTime = now

	a.handleInput()
	a.game.Tick(deltaTime)
	a.hud.SetWaveLabel(a.game.StartWaveLabel())
	return nil
}

func (a *AppGame) handleInput() {
	// Выбор турели.
	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		a.selectedTurret = defs.TurretGun
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		a.selectedTurret = defs.TurretSlow
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		a.selectedTurret = defs.TurretMortar
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if a.game.Phase() == phase.Ready {
			a.game.StartGame(false)
		} else {
			a.game.StartWave()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.game.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.game.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		a.game.UseAbility(app.AbilityFreeze)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		x, y := ebiten.CursorPosition()
		a.game.UseAbilityAt(app.AbilityStrike, a.renderer.ToWorld(x, y))
	}

	// Сохранение и загрузка.
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := a.saves.Save(saveSlot, a.game.SerializeBuildingData()); err != nil {
			log.Printf("save failed: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		if data, err := a.saves.Load(saveSlot); err != nil {
			log.Printf("load failed: %v", err)
		} else if err := a.game.DeserializeBuildingData(data); err != nil {
			log.Printf("restore failed: %v", err)
		}
	}

	if a.hud.WaveButton.IsClicked() {
		if a.game.Phase() == phase.Ready {
			a.game.StartGame(false)
		} else {
			a.game.StartWave()
		}
		return // Клик по кнопке не ставит турель
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		result := a.game.PlaceTurret(a.renderer.ToWorld(x, y), a.selectedTurret)
		if !result.OK {
			if reason := result.FirstReason(); reason != nil {
				log.Printf("placement rejected: %s", reason.Code)
			}
		}
	}
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	a.renderer.Draw(screen, a.game)
	a.hud.Draw(screen, a.game.PlayerHealth())
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()

	game := app.NewGame(time.Now().UnixNano())
	host := &AppGame{
		game:           game,
		saves:          app.NewSaveManager("bastion-defense"),
		renderer:       render.NewWorldRenderer(),
		hud:            ui.NewHUD(game.Dispatcher()),
		selectedTurret: defs.TurretGun,
		lastUpdateTime: time.Now(),
	}

	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Bastion Defense")
	if err := ebiten.RunGame(host); err != nil {
		log.Fatal(err)
	}
}
