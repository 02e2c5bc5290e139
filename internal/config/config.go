// internal/config/config.go
package config

import "image/color"

const (
	ScreenWidth  = 1200
	ScreenHeight = 900
	MaxDeltaTime = 0.06
	WorldScale   = 10.0 // Пикселей на игровую единицу при отрисовке
	WorldBound   = 120.0

	// Spatial index
	GridCellSize = 4.0

	// Placement rules
	MinBuildDistance = 5.0
	MaxBuildDistance = 35.0
	MinSpacing       = 1.5
	SupportRadius    = 3.0 // Боковой радиус поиска опоры снизу

	// Destruction cascades
	CollapseDelay        = 0.25 // Секунд на каждую ступень обрушения
	CascadeRadius        = 4.0
	CascadeDamagePercent = 0.35

	// Damage state thresholds, fractions of max health
	PristineThreshold = 0.60 // выше — Pristine
	CriticalThreshold = 0.25 // не выше — Critical

	// Combat
	PlayerMaxHealth        = 100.0
	BastionCoreHealth      = 600.0
	EnemySpawnRadius       = 42.0 // Дистанция спавна от якоря бастиона
	CollisionRadius        = 1.2
	PlayerAttackRange      = 1.8
	PlayerInvulnDuration   = 1.0
	ProjectileLifetime     = 6.0
	MortarArcHeight        = 4.0
	SplitterChildCount     = 3
	SplitterChildHealthPct = 0.35
	SplitterChildRewardPct = 0.3
	SplitterSpawnOffset    = 1.0

	// Waves
	BaseEnemiesPerWave  = 3.0
	EnemiesWaveGrowth   = 0.8
	EndlessMultiplier   = 1.3
	BossWaveStart       = 5
	BossWavePeriod      = 5
	InitialSpawnGap     = 1.1 // Секунд между спавнами на первой волне
	MinSpawnGap         = 0.35
	SpawnGapDecrement   = 0.05
	WavePrepDuration    = 5.0 // Не форсируем: волна стартует по StartWave()
	WaveClearBonus      = 20 // Валюта за зачищенную волну, плюс номер волны

	// Abilities
	FreezeAbilityTime   = 3.0
	FreezeAbilityCost   = 40
	StrikeAbilityDelay  = 1.2
	StrikeAbilityRadius = 6.0
	StrikeAbilityDamage = 120.0
	StrikeAbilityCost   = 60
	StartingCurrency    = 120
)

var (
	BackgroundColor = color.RGBA{20, 20, 30, 255}
	GroundColor     = color.RGBA{40, 48, 56, 255}
	AnchorColor     = color.RGBA{50, 205, 50, 255}
	EnemyColor      = color.RGBA{220, 60, 60, 255}
	BossColor       = color.RGBA{180, 50, 230, 255}
	TurretColor     = color.RGBA{70, 130, 180, 255}
	StructureColor  = color.RGBA{128, 128, 128, 255}
	ProjectileColor = color.RGBA{255, 215, 0, 255}
	TextLightColor  = color.RGBA{240, 240, 240, 255}
	DangerColor     = color.RGBA{220, 60, 60, 220}
	OkColor         = color.RGBA{70, 180, 120, 220}
)
