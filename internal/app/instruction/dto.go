package instruction

import (
	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

// Requests carry the authenticated signer alongside the instruction
// arguments. The HTTP adapter fills Signer from the verified signature,
// never from the body.

type InitializeGameRequest struct {
	Signer solana.PublicKey
	GameID uint32
	Bump   uint8
}

type EndGameRequest struct {
	Signer solana.PublicKey
	GameID uint32
}

type UpdateDailyRewardsRequest struct {
	Signer             solana.PublicKey
	GameID             uint32
	NewDailyRewardRate uint64
}

type SetAgentCooldownRequest struct {
	Signer      solana.PublicKey
	GameID      uint32
	AgentID     uint8
	NewCooldown int64
}

type RegisterAgentRequest struct {
	Signer  solana.PublicKey
	GameID  uint32
	AgentID uint8
	X       int32
	Y       int32
	Name    string
}

type KillAgentRequest struct {
	Signer  solana.PublicKey
	GameID  uint32
	AgentID uint8
}

type MoveAgentRequest struct {
	Signer  solana.PublicKey
	GameID  uint32
	AgentID uint8
	X       int32
	Y       int32
	Terrain game.Terrain
}

type IgnoreAgentRequest struct {
	Signer        solana.PublicKey
	GameID        uint32
	AgentID       uint8
	TargetAgentID uint8
}

type AllianceRequest struct {
	Signer      solana.PublicKey
	GameID      uint32
	InitiatorID uint8
	TargetID    uint8
}

type StartBattleRequest struct {
	Signer     solana.PublicKey
	GameID     uint32
	AttackerID uint8
	DefenderID uint8
}

type ResolveBattleSimpleRequest struct {
	Signer         solana.PublicKey
	GameID         uint32
	WinnerID       uint8
	LoserID        uint8
	TransferAmount uint64
}

type ResolveBattleAgentVsAllianceRequest struct {
	Signer            solana.PublicKey
	GameID            uint32
	AgentID           uint8
	AllianceLeaderID  uint8
	AlliancePartnerID uint8
	TransferAmount    uint64
	AgentIsWinner     bool
}

type ResolveBattleAllianceVsAllianceRequest struct {
	Signer          solana.PublicKey
	GameID          uint32
	WinnerID        uint8
	WinnerPartnerID uint8
	LoserID         uint8
	LoserPartnerID  uint8
	TransferAmount  uint64
}

type InitializeStakeRequest struct {
	Signer  solana.PublicKey
	GameID  uint32
	AgentID uint8
}

type StakeTokensRequest struct {
	Signer  solana.PublicKey
	GameID  uint32
	AgentID uint8
	Amount  uint64
}

type UnstakeTokensRequest struct {
	Signer  solana.PublicKey
	GameID  uint32
	AgentID uint8
	Amount  uint64
}

type ClaimRewardsRequest struct {
	Signer  solana.PublicKey
	GameID  uint32
	AgentID uint8
}

type CreateTokenAccountRequest struct {
	Signer solana.PublicKey
	Owner  solana.PublicKey
}

type MintTokensRequest struct {
	Signer solana.PublicKey
	To     solana.PublicKey
	Amount uint64
}

type FundAgentRequest struct {
	Signer  solana.PublicKey
	GameID  uint32
	AgentID uint8
	Amount  uint64
}

type GameResponse struct {
	Game game.Game `json:"game"`
}

type AgentResponse struct {
	Agent game.Agent `json:"agent"`
}

type AllianceResponse struct {
	Initiator game.Agent `json:"initiator"`
	Target    game.Agent `json:"target"`
}

type StartBattleResponse struct {
	Attacker game.Agent `json:"attacker"`
	Defender game.Agent `json:"defender"`
}

type ResolveBattleSimpleResponse struct {
	Winner game.Agent `json:"winner"`
	Loser  game.Agent `json:"loser"`
}

type ResolveBattleAgentVsAllianceResponse struct {
	Agent   game.Agent `json:"agent"`
	Leader  game.Agent `json:"leader"`
	Partner game.Agent `json:"partner"`
}

type ResolveBattleAllianceVsAllianceResponse struct {
	Winner        game.Agent `json:"winner"`
	WinnerPartner game.Agent `json:"winner_partner"`
	Loser         game.Agent `json:"loser"`
	LoserPartner  game.Agent `json:"loser_partner"`
}

type StakeResponse struct {
	Stake        game.StakeInfo `json:"stake"`
	Agent        game.Agent     `json:"agent"`
	VaultBalance uint64         `json:"vault_balance"`
}

type ClaimRewardsResponse struct {
	Stake  game.StakeInfo `json:"stake"`
	Reward uint64         `json:"reward"`
}

type TokenAccountResponse struct {
	Account token.Account `json:"account"`
}

type MintTokensResponse struct {
	Account token.Account `json:"account"`
	Supply  uint64        `json:"supply"`
}

type FundAgentResponse struct {
	Agent  game.Agent    `json:"agent"`
	Source token.Account `json:"source"`
}
