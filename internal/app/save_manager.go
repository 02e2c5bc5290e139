// internal/app/save_manager.go
package app

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"go-bastion-defense/internal/component"
	"go-bastion-defense/internal/config"
	"go-bastion-defense/internal/defs"
	"go-bastion-defense/internal/structure"
	"go-bastion-defense/internal/types"
)

const savesObject = "saves"

// Тип ядра бастиона в снимке графа поддержек.
const coreType = "CORE"

// TurretRecord is the flat persisted form of one placed turret.
type TurretRecord struct {
	ID     uint64  `yaml:"id"`
	Type   string  `yaml:"type"`
	X      float64 `yaml:"x"`
	Z      float64 `yaml:"z"`
	Health float64 `yaml:"health"`
}

// SaveData is a between-ticks snapshot of everything worth persisting.
type SaveData struct {
	Score        int                         `yaml:"score"`
	Currency     int                         `yaml:"currency"`
	Wave         int                         `yaml:"wave"`
	Endless      bool                        `yaml:"endless"`
	PlayerHealth float64                     `yaml:"playerHealth"`
	Building     *structure.BuildingSnapshot `yaml:"building"`
	Turrets      []TurretRecord              `yaml:"turrets"`
}

// SaveManager хранит слоты сохранений через gdata. Если хранилище
// недоступно, nil-менеджер просто отключает запись.
type SaveManager struct {
	manager *gdata.Manager // Может быть nil: сохранения отключены
}

func NewSaveManager(appName string) *SaveManager {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SaveManager] storage unavailable: %v (saves disabled)", err)
		return &SaveManager{}
	}
	return &SaveManager{manager: manager}
}

// Available reports whether persistent storage is usable.
func (sm *SaveManager) Available() bool {
	return sm.manager != nil
}

// HasSave reports whether the slot holds a save.
func (sm *SaveManager) HasSave(slot string) bool {
	if sm.manager == nil {
		return false
	}
	return sm.manager.ObjectPropExists(savesObject, slot)
}

// Save marshals the snapshot to the slot. A nil storage manager is not an
// error, the save is simply dropped.
func (sm *SaveManager) Save(slot string, data *SaveData) error {
	if sm.manager == nil {
		return nil
	}
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal save %q: %w", slot, err)
	}
	if err := sm.manager.SaveObjectProp(savesObject, slot, raw); err != nil {
		return fmt.Errorf("write save %q: %w", slot, err)
	}
	return nil
}

// Load reads and unmarshals the slot.
func (sm *SaveManager) Load(slot string) (*SaveData, error) {
	if sm.manager == nil {
		return nil, fmt.Errorf("save storage unavailable")
	}
	if !sm.manager.ObjectPropExists(savesObject, slot) {
		return nil, fmt.Errorf("save slot %q is empty", slot)
	}
	raw, err := sm.manager.LoadObjectProp(savesObject, slot)
	if err != nil {
		return nil, fmt.Errorf("read save %q: %w", slot, err)
	}
	var data SaveData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal save %q: %w", slot, err)
	}
	return &data, nil
}

// SerializeBuildingData flattens the support graph, turret entities and
// session counters into a SaveData.
func (g *Game) SerializeBuildingData() *SaveData {
	data := &SaveData{
		Score:        g.score,
		Currency:     g.currency,
		Wave:         g.machine.ActiveWaveNumber(),
		Endless:      g.endless,
		PlayerHealth: g.player.Health,
		Building:     g.validator.Graph().Serialize(),
	}
	for _, id := range g.damage.Registered() {
		turret, isTurret := g.ecs.Turrets[id]
		if !isTurret {
			continue
		}
		record := g.damage.Record(id)
		data.Turrets = append(data.Turrets, TurretRecord{
			ID:     uint64(id),
			Type:   turret.DefID,
			X:      record.Position.X,
			Z:      record.Position.Z,
			Health: record.Health,
		})
	}
	return data
}

// DeserializeBuildingData replaces the current bastion with the saved one:
// support graph, damage registrations, turret entities and counters.
func (g *Game) DeserializeBuildingData(data *SaveData) error {
	if g.crashed() {
		return fmt.Errorf("game is crashed, reset first")
	}
	if data == nil || data.Building == nil {
		return fmt.Errorf("save data holds no building snapshot")
	}

	// Снимаем текущее состояние целиком.
	for _, id := range g.damage.Registered() {
		g.damage.Unregister(id)
	}
	for id := range g.ecs.Turrets {
		g.ecs.RemoveEntity(id)
	}

	graph := g.validator.Graph()
	graph.Restore(data.Building)

	for _, id := range graph.Pieces() {
		piece := graph.Piece(id)
		if id >= g.ecs.NextID {
			g.ecs.NextID = id + 1
		}
		switch {
		case piece.Type == coreType:
			g.coreID = id
			g.damage.Register(id, piece.Position, config.BastionCoreHealth)
		default:
			if def, known := defs.TurretLibrary[piece.Type]; known {
				g.damage.Register(id, piece.Position, def.Health)
			}
		}
	}

	for _, record := range data.Turrets {
		id := types.EntityID(record.ID)
		if graph.Piece(id) == nil {
			continue // Запись без части в графе, пропускаем
		}
		g.ecs.Positions[id] = &component.Position{X: record.X, Z: record.Z}
		g.ecs.Turrets[id] = &component.Turret{DefID: record.Type}
		g.damage.RestoreHealth(id, record.Health)
	}

	g.score = data.Score
	g.currency = data.Currency
	g.endless = data.Endless
	g.player.Health = data.PlayerHealth
	if g.player.Health <= 0 || g.player.Health > config.PlayerMaxHealth {
		g.player.Health = config.PlayerMaxHealth
	}
	return nil
}
