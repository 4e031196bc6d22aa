package game

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// Terrain affects the cooldown a move incurs.
type Terrain string

const (
	TerrainPlain    Terrain = "plain"
	TerrainRiver    Terrain = "river"
	TerrainMountain Terrain = "mountain"
)

// AgentInfo is a registry entry on the game account.
type AgentInfo struct {
	Key  solana.PublicKey `json:"key"`
	Name string           `json:"name"`
}

// StakerStake aggregates one staker's deposits across an entire game.
type StakerStake struct {
	Staker     solana.PublicKey `json:"staker"`
	TotalStake uint64           `json:"total_stake"`
}

type Game struct {
	Address            solana.PublicKey `json:"address"`
	GameID             uint32           `json:"game_id"`
	Authority          solana.PublicKey `json:"authority"`
	TokenMint          solana.PublicKey `json:"token_mint"`
	RewardsVault       solana.PublicKey `json:"rewards_vault"`
	MapDiameter        uint32           `json:"map_diameter"`
	BattleRange        uint32           `json:"battle_range"`
	IsActive           bool             `json:"is_active"`
	LastUpdate         int64            `json:"last_update"`
	ReentrancyGuard    bool             `json:"reentrancy_guard"`
	Bump               uint8            `json:"bump"`
	DailyRewardTokens  uint64           `json:"daily_reward_tokens"`
	Agents             []AgentInfo      `json:"agents"`
	TotalStakeAccounts []StakerStake    `json:"total_stake_accounts"`
	Version            int64            `json:"version"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// IgnoreEntry marks an agent the holder refuses to engage, with the
// timestamp the ignore was recorded.
type IgnoreEntry struct {
	AgentID   uint8 `json:"agent_id"`
	Timestamp int64 `json:"timestamp"`
}

// Agent is one actor on the map. Timestamps are unix seconds; a zero
// value means the event never happened.
type Agent struct {
	Address            solana.PublicKey  `json:"address"`
	Game               solana.PublicKey  `json:"game"`
	Authority          solana.PublicKey  `json:"authority"`
	ID                 uint8             `json:"id"`
	X                  int32             `json:"x"`
	Y                  int32             `json:"y"`
	IsAlive            bool              `json:"is_alive"`
	LastMove           int64             `json:"last_move"`
	NextMoveTime       int64             `json:"next_move_time"`
	LastBattle         int64             `json:"last_battle"`
	LastAttack         int64             `json:"last_attack"`
	CurrentBattleStart *int64            `json:"current_battle_start,omitempty"`
	AllianceWith       *solana.PublicKey `json:"alliance_with,omitempty"`
	AllianceTimestamp  int64             `json:"alliance_timestamp"`
	LastAlliance       int64             `json:"last_alliance"`
	LastAllianceAgent  *solana.PublicKey `json:"last_alliance_agent,omitempty"`
	LastAllianceBroken int64             `json:"last_alliance_broken"`
	LastIgnore         int64             `json:"last_ignore"`
	IgnoreCooldowns    []IgnoreEntry     `json:"ignore_cooldowns,omitempty"`
	TokenBalance       uint64            `json:"token_balance"`
	StakedBalance      uint64            `json:"staked_balance"`
	TotalShares        uint64            `json:"total_shares"`
	LastRewardClaim    int64             `json:"last_reward_claim"`
	VaultBump          uint8             `json:"vault_bump"`
	Version            int64             `json:"version"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// StakeInfo is one staker's position against one agent vault.
type StakeInfo struct {
	Address             solana.PublicKey `json:"address"`
	Agent               solana.PublicKey `json:"agent"`
	Staker              solana.PublicKey `json:"staker"`
	Amount              uint64           `json:"amount"`
	Shares              uint64           `json:"shares"`
	LastRewardTimestamp int64            `json:"last_reward_timestamp"`
	CooldownEndsAt      int64            `json:"cooldown_ends_at"`
	IsInitialized       bool             `json:"is_initialized"`
	Version             int64            `json:"version"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type DomainEvent struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}
