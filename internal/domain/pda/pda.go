// Package pda derives the deterministic account addresses the program owns.
// Every account lives at a program-derived address so that clients and the
// service always agree on where state resides without any lookup table.
package pda

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// ProgramID anchors every derivation.
var ProgramID = solana.MustPublicKeyFromBase58("FE7WJhRY55XjHcR22ryA3tHLq6fkDNgZBpbh25tto67Q")

// Game derives the game account address for a numeric game id.
func Game(gameID uint32) (solana.PublicKey, uint8, error) {
	seed := make([]byte, 4)
	binary.LittleEndian.PutUint32(seed, gameID)
	return solana.FindProgramAddress([][]byte{[]byte("game"), seed}, ProgramID)
}

// Agent derives an agent account address inside a game.
func Agent(game solana.PublicKey, agentID uint8) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte("agent"), game.Bytes(), {agentID}}, ProgramID)
}

// Stake derives the stake position address for a staker against an agent.
func Stake(agent, staker solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte("stake"), agent.Bytes(), staker.Bytes()}, ProgramID)
}

// AgentVault derives the token vault holding an agent's staked deposits.
func AgentVault(agent solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte("agent_vault"), agent.Bytes()}, ProgramID)
}

// RewardsVault derives the per-game vault that pays staking rewards.
func RewardsVault(game solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte("rewards"), game.Bytes()}, ProgramID)
}

// TokenAccount derives the holding account for an owner under a mint.
func TokenAccount(mint, owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte("token"), mint.Bytes(), owner.Bytes()}, ProgramID)
}

// Mint derives the mint account controlled by an authority.
func Mint(authority solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte("mint"), authority.Bytes()}, ProgramID)
}
