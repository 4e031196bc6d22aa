package game

const (
	DefaultMapDiameter uint32 = 1000
	DefaultBattleRange uint32 = 50

	MaxAgents  = 4
	MaxNameLen = 32

	// Cooldowns in seconds, matching the stored timestamps.
	MovementCooldown         int64 = 3600
	RiverMovementCooldown    int64 = 7200
	MountainMovementCooldown int64 = 10800
	BattleCooldown           int64 = 14400
	AllianceCooldown         int64 = 86400
	IgnoreCooldown           int64 = 14400
	StakeCooldown            int64 = 3600
	RewardClaimCooldown      int64 = 86400

	MinBattleTokens uint64 = 1_000
	MaxStakeAmount  uint64 = 1_000_000

	DefaultDailyRewardTokens uint64 = 500_000

	TokenDecimals uint8 = 9

	// Percentage tuning knobs for battle outcomes. Outcome rolls happen
	// off-process; resolution instructions only apply the result.
	DeathChanceTerrain = 10
	DeathChanceBattle  = 20
	MinTokenBurn       = 31
	MaxTokenBurn       = 50
)

var movementCooldowns = map[Terrain]int64{
	TerrainPlain:    MovementCooldown,
	TerrainRiver:    RiverMovementCooldown,
	TerrainMountain: MountainMovementCooldown,
}

// TerrainCooldown returns the movement cooldown the terrain imposes.
func TerrainCooldown(t Terrain) (int64, bool) {
	cd, ok := movementCooldowns[t]
	return cd, ok
}
