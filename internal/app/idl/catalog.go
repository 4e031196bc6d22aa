// Package idl publishes a machine-readable description of the program
// surface: every instruction with its arguments, the accounts it touches,
// and the full rejection code taxonomy. Clients generate bindings from
// this instead of hardcoding the wire contract.
package idl

import (
	"context"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
)

type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Instruction struct {
	Name      string   `json:"name"`
	Authority string   `json:"authority"`
	Args      []Field  `json:"args"`
	Accounts  []string `json:"accounts"`
}

type ErrorCode struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Manifest struct {
	Program      string        `json:"program"`
	ProgramID    string        `json:"program_id"`
	Instructions []Instruction `json:"instructions"`
	Errors       []ErrorCode   `json:"errors"`
}

const (
	authorityGame  = "game_authority"
	authorityAgent = "agent_authority"
	authorityStake = "staker"
	authorityMint  = "mint_authority"
	authorityNone  = "anyone"
)

type UseCase struct{}

func (UseCase) Manifest(_ context.Context) Manifest {
	return Manifest{
		Program:      "middle_earth_ai_program",
		ProgramID:    pda.ProgramID.String(),
		Instructions: instructions(),
		Errors:       errorCodes(),
	}
}

func instructions() []Instruction {
	gameID := Field{Name: "game_id", Type: "u32"}
	agentID := Field{Name: "agent_id", Type: "u8"}
	amount := Field{Name: "amount", Type: "u64"}
	return []Instruction{
		{
			Name:      "initialize_game",
			Authority: authorityNone,
			Args:      []Field{gameID, {Name: "bump", Type: "u8"}},
			Accounts:  []string{"game", "rewards_vault"},
		},
		{
			Name:      "end_game",
			Authority: authorityGame,
			Args:      []Field{gameID},
			Accounts:  []string{"game"},
		},
		{
			Name:      "update_daily_rewards",
			Authority: authorityGame,
			Args:      []Field{gameID, {Name: "new_daily_reward_rate", Type: "u64"}},
			Accounts:  []string{"game"},
		},
		{
			Name:      "set_agent_cooldown",
			Authority: authorityGame,
			Args:      []Field{gameID, agentID, {Name: "new_cooldown", Type: "i64"}},
			Accounts:  []string{"game", "agent"},
		},
		{
			Name:      "register_agent",
			Authority: authorityNone,
			Args: []Field{gameID, agentID,
				{Name: "x", Type: "i32"}, {Name: "y", Type: "i32"}, {Name: "name", Type: "string"}},
			Accounts: []string{"game", "agent", "agent_vault"},
		},
		{
			Name:      "kill_agent",
			Authority: authorityAgent,
			Args:      []Field{gameID, agentID},
			Accounts:  []string{"game", "agent"},
		},
		{
			Name:      "move_agent",
			Authority: authorityAgent,
			Args: []Field{gameID, agentID,
				{Name: "x", Type: "i32"}, {Name: "y", Type: "i32"}, {Name: "terrain", Type: "string"}},
			Accounts: []string{"game", "agent"},
		},
		{
			Name:      "ignore_agent",
			Authority: authorityAgent,
			Args:      []Field{gameID, agentID, {Name: "target_agent_id", Type: "u8"}},
			Accounts:  []string{"game", "agent", "target_agent"},
		},
		{
			Name:      "form_alliance",
			Authority: authorityAgent,
			Args:      []Field{gameID, {Name: "initiator_id", Type: "u8"}, {Name: "target_id", Type: "u8"}},
			Accounts:  []string{"game", "initiator", "target_agent"},
		},
		{
			Name:      "break_alliance",
			Authority: authorityAgent,
			Args:      []Field{gameID, {Name: "initiator_id", Type: "u8"}, {Name: "target_id", Type: "u8"}},
			Accounts:  []string{"game", "initiator", "target_agent"},
		},
		{
			Name:      "start_battle",
			Authority: authorityAgent,
			Args:      []Field{gameID, {Name: "attacker_id", Type: "u8"}, {Name: "defender_id", Type: "u8"}},
			Accounts:  []string{"game", "attacker", "defender", "attacker_partner", "defender_partner"},
		},
		{
			Name:      "resolve_battle_simple",
			Authority: authorityGame,
			Args: []Field{gameID, {Name: "winner_id", Type: "u8"}, {Name: "loser_id", Type: "u8"},
				{Name: "transfer_amount", Type: "u64"}},
			Accounts: []string{"game", "winner", "loser"},
		},
		{
			Name:      "resolve_battle_agent_vs_alliance",
			Authority: authorityGame,
			Args: []Field{gameID, agentID, {Name: "alliance_leader_id", Type: "u8"},
				{Name: "alliance_partner_id", Type: "u8"}, {Name: "transfer_amount", Type: "u64"},
				{Name: "agent_is_winner", Type: "bool"}},
			Accounts: []string{"game", "agent", "alliance_leader", "alliance_partner"},
		},
		{
			Name:      "resolve_battle_alliance_vs_alliance",
			Authority: authorityGame,
			Args: []Field{gameID, {Name: "winner_id", Type: "u8"}, {Name: "winner_partner_id", Type: "u8"},
				{Name: "loser_id", Type: "u8"}, {Name: "loser_partner_id", Type: "u8"},
				{Name: "transfer_amount", Type: "u64"}},
			Accounts: []string{"game", "winner", "winner_partner", "loser", "loser_partner"},
		},
		{
			Name:      "initialize_stake",
			Authority: authorityStake,
			Args:      []Field{gameID, agentID},
			Accounts:  []string{"game", "agent", "stake_info"},
		},
		{
			Name:      "stake_tokens",
			Authority: authorityStake,
			Args:      []Field{gameID, agentID, amount},
			Accounts:  []string{"game", "agent", "stake_info", "staker_token_account", "agent_vault"},
		},
		{
			Name:      "unstake_tokens",
			Authority: authorityStake,
			Args:      []Field{gameID, agentID, amount},
			Accounts:  []string{"game", "agent", "stake_info", "staker_token_account", "agent_vault"},
		},
		{
			Name:      "claim_staking_rewards",
			Authority: authorityStake,
			Args:      []Field{gameID, agentID},
			Accounts:  []string{"game", "agent", "stake_info", "staker_token_account", "rewards_vault"},
		},
		{
			Name:      "create_token_account",
			Authority: authorityNone,
			Args:      []Field{{Name: "owner", Type: "pubkey"}},
			Accounts:  []string{"token_account"},
		},
		{
			Name:      "mint_tokens",
			Authority: authorityMint,
			Args:      []Field{{Name: "to", Type: "pubkey"}, amount},
			Accounts:  []string{"mint", "token_account"},
		},
		{
			Name:      "fund_agent",
			Authority: authorityNone,
			Args:      []Field{gameID, agentID, amount},
			Accounts:  []string{"game", "agent", "funder_token_account"},
		},
	}
}

// errorCodes walks the live rule error singletons so the published codes
// cannot drift from what rejections actually carry.
func errorCodes() []ErrorCode {
	rules := []*game.RuleError{
		game.ErrAgentNotAlive,
		game.ErrMovementCooldown,
		game.ErrOutOfBounds,
		game.ErrInvalidTerrain,
		game.ErrBattleInProgress,
		game.ErrBattleCooldown,
		game.ErrBattleNotStarted,
		game.ErrBattleStarted,
		game.ErrBattleNotReady,
		game.ErrReentrancy,
		game.ErrAllianceCooldown,
		game.ErrInvalidPartner,
		game.ErrAllianceExists,
		game.ErrNoAllianceToBreak,
		game.ErrIgnoreCooldown,
		game.ErrMaxAgentLimit,
		game.ErrAgentExists,
		game.ErrNameTooLong,
		game.ErrGameNotActive,
		game.ErrUnauthorized,
		game.ErrNotEnoughTokens,
		game.ErrInsufficientFunds,
		game.ErrMaxStakeExceeded,
		game.ErrCooldownNotOver,
		game.ErrClaimCooldown,
		game.ErrNoRewardsToClaim,
		game.ErrInsufficientRwd,
		game.ErrInvalidAmount,
		game.ErrInvalidBump,
		game.ErrTokenTransfer,
	}
	out := make([]ErrorCode, 0, len(rules)+4)
	for _, r := range rules {
		out = append(out, ErrorCode{Code: r.Code, Message: r.Message})
	}
	return append(out,
		ErrorCode{Code: "AccountNotFound", Message: "account does not exist"},
		ErrorCode{Code: "AccountAlreadyInUse", Message: "account already in use"},
		ErrorCode{Code: "InvalidRequest", Message: "malformed instruction request"},
		ErrorCode{Code: "Internal", Message: "internal error"},
	)
}
