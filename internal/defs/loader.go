// internal/defs/loader.go
package defs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ArchetypeLibrary is a map to hold all enemy archetype definitions, keyed by their ID.
var ArchetypeLibrary map[string]ArchetypeDefinition

// TurretLibrary is a map to hold all turret definitions, keyed by their ID.
var TurretLibrary map[string]TurretDefinition

func init() {
	ResetToDefaults()
}

// ResetToDefaults rebuilds both libraries from the built-in definitions.
func ResetToDefaults() {
	ArchetypeLibrary = make(map[string]ArchetypeDefinition)
	for _, def := range defaultArchetypes() {
		ArchetypeLibrary[def.ID] = def
	}
	TurretLibrary = make(map[string]TurretDefinition)
	for _, def := range defaultTurrets() {
		TurretLibrary[def.ID] = def
	}
}

// LoadArchetypeDefinitions reads the archetype configuration file and
// replaces the ArchetypeLibrary.
func LoadArchetypeDefinitions(path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read archetype definitions file: %w", err)
	}

	var archetypeDefs []ArchetypeDefinition
	if err := yaml.Unmarshal(file, &archetypeDefs); err != nil {
		return fmt.Errorf("failed to unmarshal archetype definitions: %w", err)
	}

	if err := validateArchetypes(archetypeDefs); err != nil {
		return fmt.Errorf("invalid archetype definitions: %w", err)
	}

	ArchetypeLibrary = make(map[string]ArchetypeDefinition)
	for _, def := range archetypeDefs {
		ArchetypeLibrary[def.ID] = def
	}
	return nil
}

// LoadTurretDefinitions reads the turret configuration file and replaces
// the TurretLibrary.
func LoadTurretDefinitions(path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read turret definitions file: %w", err)
	}

	var turretDefs []TurretDefinition
	if err := yaml.Unmarshal(file, &turretDefs); err != nil {
		return fmt.Errorf("failed to unmarshal turret definitions: %w", err)
	}

	if err := validateTurrets(turretDefs); err != nil {
		return fmt.Errorf("invalid turret definitions: %w", err)
	}

	TurretLibrary = make(map[string]TurretDefinition)
	for _, def := range turretDefs {
		TurretLibrary[def.ID] = def
	}
	return nil
}

func validateArchetypes(archetypeDefs []ArchetypeDefinition) error {
	if len(archetypeDefs) == 0 {
		return fmt.Errorf("archetype list cannot be empty")
	}
	ids := make(map[string]bool, len(archetypeDefs))
	for _, def := range archetypeDefs {
		if def.ID == "" {
			return fmt.Errorf("archetype with empty id")
		}
		if ids[def.ID] {
			return fmt.Errorf("duplicate archetype id %q", def.ID)
		}
		ids[def.ID] = true
		if def.Health <= 0 {
			return fmt.Errorf("archetype %q: health must be positive", def.ID)
		}
		if def.Speed < 0 {
			return fmt.Errorf("archetype %q: speed cannot be negative", def.ID)
		}
		if def.UnlockWave > 0 && def.SpawnWeight <= 0 {
			return fmt.Errorf("archetype %q: spawnable archetypes need a positive spawnWeight", def.ID)
		}
	}
	// Split children must resolve within the same file.
	for _, def := range archetypeDefs {
		if def.SplitChildID != "" && !ids[def.SplitChildID] {
			return fmt.Errorf("archetype %q: splitChildId %q not defined", def.ID, def.SplitChildID)
		}
	}
	return nil
}

func validateTurrets(turretDefs []TurretDefinition) error {
	if len(turretDefs) == 0 {
		return fmt.Errorf("turret list cannot be empty")
	}
	ids := make(map[string]bool, len(turretDefs))
	for _, def := range turretDefs {
		if def.ID == "" {
			return fmt.Errorf("turret with empty id")
		}
		if ids[def.ID] {
			return fmt.Errorf("duplicate turret id %q", def.ID)
		}
		ids[def.ID] = true
		if def.Health <= 0 {
			return fmt.Errorf("turret %q: health must be positive", def.ID)
		}
		if def.FireRate <= 0 {
			return fmt.Errorf("turret %q: fireRate must be positive", def.ID)
		}
		if def.Range <= 0 {
			return fmt.Errorf("turret %q: range must be positive", def.ID)
		}
	}
	return nil
}
