// internal/defs/defaults.go
package defs

// Built-in libraries. Loader overrides replace these wholesale when a
// definitions file is supplied; tests and headless runs use the defaults.

// Archetype IDs referenced across the simulation.
const (
	ArchetypeStandard = "STANDARD"
	ArchetypeRunner   = "RUNNER"
	ArchetypeTank     = "TANK"
	ArchetypeSplitter = "SPLITTER"
	ArchetypeBomber   = "BOMBER"
	ArchetypeBoss     = "BOSS"
	ArchetypeSpawnlet = "SPAWNLET" // Осколок сплиттера, в пул волны не входит
)

// Turret IDs.
const (
	TurretGun    = "TURRET_GUN"
	TurretSlow   = "TURRET_SLOW"
	TurretMortar = "TURRET_MORTAR"
)

func defaultArchetypes() []ArchetypeDefinition {
	return []ArchetypeDefinition{
		{
			ID: ArchetypeStandard, Name: "Standard", Health: 100, Speed: 2.2,
			Damage: 10, AttackInterval: 1.2, Reward: 10, Scale: 1.0,
			SpawnWeight: 5, UnlockWave: 1,
			// Base count formula handles STANDARD growth; Growth unused.
			Cap: 24, EndlessCap: 32, EndlessCapSlope: 0.15,
		},
		{
			ID: ArchetypeRunner, Name: "Runner", Health: 55, Speed: 3.8,
			Damage: 6, AttackInterval: 0.9, Reward: 12, Scale: 0.8,
			SpawnWeight: 4, UnlockWave: 3, Growth: 0.5,
			Cap: 10, EndlessCap: 15, EndlessCapSlope: 0.08,
		},
		{
			ID: ArchetypeTank, Name: "Tank", Health: 320, Speed: 1.2,
			Damage: 22, AttackInterval: 1.8, Reward: 25, Scale: 1.4,
			SpawnWeight: 3, UnlockWave: 5, Growth: 0.35,
			Cap: 6, EndlessCap: 9, EndlessCapSlope: 0.05,
		},
		{
			ID: ArchetypeSplitter, Name: "Splitter", Health: 140, Speed: 2.0,
			Damage: 12, AttackInterval: 1.3, Reward: 20, Scale: 1.1,
			SpawnWeight: 2, UnlockWave: 7, Growth: 0.3,
			Cap: 5, EndlessCap: 8, EndlessCapSlope: 0.04,
			SplitChildID: ArchetypeSpawnlet,
		},
		{
			ID: ArchetypeBomber, Name: "Bomber", Health: 80, Speed: 2.6,
			Damage: 40, AttackInterval: 2.5, Reward: 18, Scale: 0.9,
			SpawnWeight: 2, UnlockWave: 8, Growth: 0.25,
			Cap: 4, EndlessCap: 6, EndlessCapSlope: 0.03,
		},
		{
			ID: ArchetypeBoss, Name: "Boss", Health: 1500, Speed: 1.0,
			Damage: 60, AttackInterval: 2.2, Reward: 150, Scale: 2.2,
			SpawnWeight: 1, UnlockWave: 5, IsBoss: true,
			Cap: 4, EndlessCap: 6,
		},
		{
			ID: ArchetypeSpawnlet, Name: "Spawnlet", Health: 49, Speed: 2.8,
			Damage: 5, AttackInterval: 1.0, Reward: 6, Scale: 0.6,
			// UnlockWave 0: never generated by the wave composer.
		},
	}
}

func defaultTurrets() []TurretDefinition {
	return []TurretDefinition{
		{
			ID: TurretGun, Name: "Gun Turret", Health: 200,
			Damage: 18, FireRate: 1.6, Range: 12, ProjectileSpeed: 22,
			Pierce: 0, Cost: 50,
		},
		{
			ID: TurretSlow, Name: "Frost Turret", Health: 160,
			Damage: 8, FireRate: 1.0, Range: 10, ProjectileSpeed: 18,
			SlowsTarget: true, SlowDuration: 2.0, SlowFactor: 0.5, Cost: 65,
		},
		{
			ID: TurretMortar, Name: "Mortar", Health: 240,
			Damage: 45, FireRate: 0.4, Range: 20, ProjectileSpeed: 12,
			SplashRadius: 3.5, Mortar: true, Cost: 110,
		},
	}
}
