// internal/defs/types.go
package defs

// ArchetypeDefinition holds all the static data for a category of enemy.
// Composition fields drive the deterministic per-wave generator.
type ArchetypeDefinition struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	Health         float64 `yaml:"health"`
	Speed          float64 `yaml:"speed"`
	Damage         float64 `yaml:"damage"`
	AttackInterval float64 `yaml:"attackInterval"`
	Reward         int     `yaml:"reward"`
	Scale          float64 `yaml:"scale"`

	// Spawn selection
	SpawnWeight int `yaml:"spawnWeight"` // 5 for common down to 1 for boss
	UnlockWave  int `yaml:"unlockWave"`

	// Per-wave count growth after unlock, capped. Endless mode uses the
	// larger cap plus a slow per-wave slope.
	Growth          float64 `yaml:"growth"`
	Cap             int     `yaml:"cap"`
	EndlessCap      int     `yaml:"endlessCap"`
	EndlessCapSlope float64 `yaml:"endlessCapSlope"`

	IsBoss       bool   `yaml:"isBoss"`
	SplitChildID string `yaml:"splitChildId"` // Непустой у "сплиттеров"
}

// TurretDefinition holds the static data for a placeable turret type.
type TurretDefinition struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Health          float64 `yaml:"health"`
	Damage          float64 `yaml:"damage"`
	FireRate        float64 `yaml:"fireRate"` // Выстрелов в секунду
	Range           float64 `yaml:"range"`
	ProjectileSpeed float64 `yaml:"projectileSpeed"`
	Pierce          int     `yaml:"pierce"`
	SplashRadius    float64 `yaml:"splashRadius"`
	Mortar          bool    `yaml:"mortar"`
	SlowsTarget     bool    `yaml:"slowsTarget"`
	SlowDuration    float64 `yaml:"slowDuration"`
	SlowFactor      float64 `yaml:"slowFactor"`
	Cost            int     `yaml:"cost"`
}
