// internal/system/wavegen.go
package system

import (
	"math"
	"sort"

	"go-bastion-defense/internal/config"
	"go-bastion-defense/internal/defs"
	"go-bastion-defense/internal/utils"
)

// IsBossWave reports whether the wave carries bosses: every fifth wave
// starting from the fifth.
func IsBossWave(wave int) bool {
	return wave >= config.BossWaveStart && wave%config.BossWavePeriod == 0
}

// rhythmMultiplier shapes pacing: relief on and right after a boss wave,
// buildup on the wave just before one.
func rhythmMultiplier(wave int) float64 {
	switch {
	case IsBossWave(wave):
		return 0.6
	case IsBossWave(wave - 1):
		return 0.7
	case IsBossWave(wave + 1):
		return 1.2
	default:
		return 1.0
	}
}

// Composition computes the archetype->count mapping for one wave. It is a
// pure function of the wave number and the endless flag — no hidden state —
// so replays and the UI preview always agree.
func Composition(wave int, endless bool) map[string]int {
	if wave < 1 {
		return map[string]int{}
	}
	endlessMult := 1.0
	if endless {
		endlessMult = config.EndlessMultiplier
	}
	rhythm := rhythmMultiplier(wave)

	result := make(map[string]int)
	for id, def := range defs.ArchetypeLibrary {
		if def.UnlockWave <= 0 || wave < def.UnlockWave {
			continue
		}

		var count int
		switch {
		case def.IsBoss:
			if !IsBossWave(wave) {
				continue
			}
			count = 1 + (wave-config.BossWaveStart)/10
		case def.UnlockWave <= 1:
			// Базовый архетип растёт по общей формуле волны.
			count = utils.RoundToInt(math.Max(
				config.BaseEnemiesPerWave,
				(config.BaseEnemiesPerWave+float64(wave)*config.EnemiesWaveGrowth)*endlessMult*rhythm,
			))
		default:
			raw := (1 + float64(wave-def.UnlockWave)*def.Growth) * endlessMult * rhythm
			count = utils.RoundToInt(raw)
		}

		limit := def.Cap
		if endless {
			limit = def.EndlessCap + int(def.EndlessCapSlope*float64(wave))
		}
		if limit > 0 && count > limit {
			count = limit
		}
		if count > 0 {
			result[id] = count
		}
	}
	return result
}

// WaveManager owns the spawn schedule of the wave in progress: remaining
// quotas per archetype and weighted selection of the next spawn.
type WaveManager struct {
	rng *utils.PRNGService

	wave          int
	endless       bool
	remaining     map[string]int
	spawnedByType map[string]int
	totalSpawned  int
}

func NewWaveManager(rng *utils.PRNGService) *WaveManager {
	return &WaveManager{
		rng:           rng,
		remaining:     make(map[string]int),
		spawnedByType: make(map[string]int),
	}
}

// BeginWave resets the schedule to the given wave's composition.
func (m *WaveManager) BeginWave(wave int, endless bool) {
	m.wave = wave
	m.endless = endless
	m.remaining = Composition(wave, endless)
	m.spawnedByType = make(map[string]int)
	m.totalSpawned = 0
}

// NextSpawnType picks the next archetype to spawn from a weighted pool of
// archetypes still under their per-wave quota. Returns false once every
// quota is met.
func (m *WaveManager) NextSpawnType() (string, bool) {
	ids := make([]string, 0, len(m.remaining))
	for id, left := range m.remaining {
		if left > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", false
	}
	sort.Strings(ids) // Детерминированный порядок пула при одном сиде

	entries := make([]utils.WeightedEntry, 0, len(ids))
	for _, id := range ids {
		weight := defs.ArchetypeLibrary[id].SpawnWeight
		if weight <= 0 {
			weight = 1
		}
		entries = append(entries, utils.WeightedEntry{ID: id, Weight: weight})
	}
	return m.rng.ChooseWeighted(entries), true
}

// RecordSpawn decrements the archetype's remaining quota and bumps the
// spawn counters.
func (m *WaveManager) RecordSpawn(archetype string) {
	if m.remaining[archetype] <= 0 {
		return
	}
	m.remaining[archetype]--
	m.spawnedByType[archetype]++
	m.totalSpawned++
}

// Remaining returns how many spawns the wave still owes.
func (m *WaveManager) Remaining() int {
	total := 0
	for _, left := range m.remaining {
		total += left
	}
	return total
}

// TotalSpawned returns how many enemies this wave has produced so far.
func (m *WaveManager) TotalSpawned() int {
	return m.totalSpawned
}

// SpawnGap returns the pause between consecutive spawns for the wave:
// tighter on later waves, never below the floor.
func (m *WaveManager) SpawnGap() float64 {
	gap := config.InitialSpawnGap - float64(m.wave-1)*config.SpawnGapDecrement
	if gap < config.MinSpawnGap {
		gap = config.MinSpawnGap
	}
	return gap
}
