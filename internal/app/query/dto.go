package query

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

type GameRequest struct {
	GameID uint32
}

type GameResponse struct {
	Game                game.Game `json:"game"`
	TotalStaked         uint64    `json:"total_staked"`
	RewardsVaultBalance uint64    `json:"rewards_vault_balance"`
}

type AgentRequest struct {
	GameID  uint32
	AgentID uint8
}

// AgentResponse augments the raw account with everything a caller would
// otherwise derive by hand: remaining cooldowns, the alliance partner's
// id, and the vault's balance and share price.
type AgentResponse struct {
	Agent     game.Agent    `json:"agent"`
	Cooldowns CooldownView  `json:"cooldowns"`
	Alliance  *AllianceView `json:"alliance,omitempty"`
	Vault     VaultView     `json:"vault"`
}

// CooldownView reports seconds until each gated action unlocks. Zero means
// ready now. BattleResolveIn is set only while a battle window is open.
type CooldownView struct {
	MoveReadyIn     int64  `json:"move_ready_in_seconds"`
	BattleReadyIn   int64  `json:"battle_ready_in_seconds"`
	AllianceReadyIn int64  `json:"alliance_ready_in_seconds"`
	IgnoreReadyIn   int64  `json:"ignore_ready_in_seconds"`
	BattleResolveIn *int64 `json:"battle_resolve_in_seconds,omitempty"`
}

type AllianceView struct {
	Partner   solana.PublicKey `json:"partner"`
	PartnerID uint8            `json:"partner_id"`
	FormedAt  int64            `json:"formed_at"`
}

type VaultView struct {
	Address     solana.PublicKey `json:"address"`
	Balance     uint64           `json:"balance"`
	TotalShares uint64           `json:"total_shares"`
	SharePrice  uint64           `json:"share_price_e9"`
}

type StakeRequest struct {
	GameID  uint32
	AgentID uint8
	Staker  solana.PublicKey
}

// StakeResponse reports the position together with the reward a claim
// would pay right now and the seconds until the two claim gates open.
type StakeResponse struct {
	Stake           game.StakeInfo `json:"stake"`
	PendingReward   uint64         `json:"pending_reward"`
	UnstakeReadyIn  int64          `json:"unstake_ready_in_seconds"`
	ClaimReadyIn    int64          `json:"claim_ready_in_seconds"`
	RedeemableValue uint64         `json:"redeemable_value"`
}

type TokenAccountRequest struct {
	Owner solana.PublicKey
}

type TokenAccountResponse struct {
	Account token.Account `json:"account"`
}

type AgentStakesRequest struct {
	GameID  uint32
	AgentID uint8
}

// AgentStakesResponse lists every stake position held against one agent.
// TotalStaked is the agent's aggregate, so callers can verify the
// positions sum to it.
type AgentStakesResponse struct {
	Stakes      []game.StakeInfo `json:"stakes"`
	TotalStaked uint64           `json:"total_staked"`
}

type JournalRequest struct {
	GameID uint32
	Limit  int
}

// JournalEntry is one applied instruction from the audit trail: who signed
// what against the game, and with which arguments.
type JournalEntry struct {
	TxID        string           `json:"tx_id"`
	Instruction string           `json:"instruction"`
	Signer      solana.PublicKey `json:"signer"`
	Args        map[string]any   `json:"args,omitempty"`
	AppliedAt   time.Time        `json:"applied_at"`
}

type JournalResponse struct {
	Entries []JournalEntry `json:"entries"`
}
