package query

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
)

var ErrInvalidRequest = errors.New("invalid query request")

// UseCase serves the unauthenticated read side. Every lookup derives the
// account address from ids the same way the instruction executor does, so
// a caller never has to compute an address to inspect state.
type UseCase struct {
	Games    ports.GameRepository
	Agents   ports.AgentRepository
	Stakes   ports.StakeRepository
	Tokens   ports.TokenRepository
	Journals ports.InstructionJournal
	Mint     solana.PublicKey
	Now      func() time.Time
}

func (u UseCase) Game(ctx context.Context, req GameRequest) (GameResponse, error) {
	g, err := u.loadGame(ctx, req.GameID)
	if err != nil {
		return GameResponse{}, err
	}
	vault, err := u.Tokens.GetAccount(ctx, g.RewardsVault)
	if err != nil {
		return GameResponse{}, err
	}
	return GameResponse{
		Game:                g,
		TotalStaked:         g.TotalStaked(),
		RewardsVaultBalance: vault.Amount,
	}, nil
}

func (u UseCase) Agent(ctx context.Context, req AgentRequest) (AgentResponse, error) {
	gameAddress, _, err := pda.Game(req.GameID)
	if err != nil {
		return AgentResponse{}, err
	}
	agentAddress, _, err := pda.Agent(gameAddress, req.AgentID)
	if err != nil {
		return AgentResponse{}, err
	}
	a, err := u.Agents.GetByAddress(ctx, agentAddress)
	if err != nil {
		return AgentResponse{}, err
	}
	vaultAddress, _, err := pda.AgentVault(agentAddress)
	if err != nil {
		return AgentResponse{}, err
	}
	vault, err := u.Tokens.GetAccount(ctx, vaultAddress)
	if err != nil {
		return AgentResponse{}, err
	}
	price, err := game.SharePrice(vault.Amount, a.TotalShares)
	if err != nil {
		return AgentResponse{}, err
	}

	now := u.Now().Unix()
	cooldowns := CooldownView{
		MoveReadyIn:     remaining(a.NextMoveTime, now),
		BattleReadyIn:   remaining(a.LastBattle+game.BattleCooldown, now),
		AllianceReadyIn: remaining(a.LastAllianceBroken+game.AllianceCooldown, now),
		IgnoreReadyIn:   remaining(a.LastIgnore+game.IgnoreCooldown, now),
	}
	if a.CurrentBattleStart != nil {
		r := remaining(*a.CurrentBattleStart+game.BattleCooldown, now)
		cooldowns.BattleResolveIn = &r
	}

	resp := AgentResponse{
		Agent:     a,
		Cooldowns: cooldowns,
		Vault: VaultView{
			Address:     vaultAddress,
			Balance:     vault.Amount,
			TotalShares: a.TotalShares,
			SharePrice:  price,
		},
	}
	if a.AllianceWith != nil {
		partner, err := u.Agents.GetByAddress(ctx, *a.AllianceWith)
		if err != nil {
			return AgentResponse{}, err
		}
		resp.Alliance = &AllianceView{
			Partner:   partner.Address,
			PartnerID: partner.ID,
			FormedAt:  a.AllianceTimestamp,
		}
	}
	return resp, nil
}

func (u UseCase) Stake(ctx context.Context, req StakeRequest) (StakeResponse, error) {
	if req.Staker.IsZero() {
		return StakeResponse{}, ErrInvalidRequest
	}
	g, err := u.loadGame(ctx, req.GameID)
	if err != nil {
		return StakeResponse{}, err
	}
	agentAddress, _, err := pda.Agent(g.Address, req.AgentID)
	if err != nil {
		return StakeResponse{}, err
	}
	a, err := u.Agents.GetByAddress(ctx, agentAddress)
	if err != nil {
		return StakeResponse{}, err
	}
	stakeAddress, _, err := pda.Stake(agentAddress, req.Staker)
	if err != nil {
		return StakeResponse{}, err
	}
	stake, err := u.Stakes.GetByAddress(ctx, stakeAddress)
	if err != nil {
		return StakeResponse{}, err
	}
	vaultAddress, _, err := pda.AgentVault(agentAddress)
	if err != nil {
		return StakeResponse{}, err
	}
	vault, err := u.Tokens.GetAccount(ctx, vaultAddress)
	if err != nil {
		return StakeResponse{}, err
	}
	pending, err := game.StakeReward(stake.Amount, g.DailyRewardTokens, g.TotalStaked())
	if err != nil {
		return StakeResponse{}, err
	}
	redeemable, err := game.ShareValue(stake.Shares, vault.Amount, a.TotalShares)
	if err != nil {
		return StakeResponse{}, err
	}

	now := u.Now().Unix()
	unstakeReady := remaining(stake.CooldownEndsAt, now)
	// Claims wait on the stake cooldown and the per-staker claim window,
	// whichever ends later.
	claimReady := remaining(stake.LastRewardTimestamp+game.RewardClaimCooldown, now)
	if unstakeReady > claimReady {
		claimReady = unstakeReady
	}
	return StakeResponse{
		Stake:           stake,
		PendingReward:   pending,
		UnstakeReadyIn:  unstakeReady,
		ClaimReadyIn:    claimReady,
		RedeemableValue: redeemable,
	}, nil
}

func (u UseCase) TokenAccount(ctx context.Context, req TokenAccountRequest) (TokenAccountResponse, error) {
	if req.Owner.IsZero() {
		return TokenAccountResponse{}, ErrInvalidRequest
	}
	address, _, err := pda.TokenAccount(u.Mint, req.Owner)
	if err != nil {
		return TokenAccountResponse{}, err
	}
	account, err := u.Tokens.GetAccount(ctx, address)
	if err != nil {
		return TokenAccountResponse{}, err
	}
	return TokenAccountResponse{Account: account}, nil
}

// AgentStakes lists the stake positions held against one agent. The agent
// must exist; an empty list is a valid answer for a live agent nobody has
// staked on.
func (u UseCase) AgentStakes(ctx context.Context, req AgentStakesRequest) (AgentStakesResponse, error) {
	gameAddress, _, err := pda.Game(req.GameID)
	if err != nil {
		return AgentStakesResponse{}, err
	}
	agentAddress, _, err := pda.Agent(gameAddress, req.AgentID)
	if err != nil {
		return AgentStakesResponse{}, err
	}
	a, err := u.Agents.GetByAddress(ctx, agentAddress)
	if err != nil {
		return AgentStakesResponse{}, err
	}
	stakes, err := u.Stakes.ListByAgent(ctx, agentAddress)
	if err != nil {
		return AgentStakesResponse{}, err
	}
	return AgentStakesResponse{Stakes: stakes, TotalStaked: a.StakedBalance}, nil
}

// Journal returns the applied-instruction audit trail for a game, oldest
// first.
func (u UseCase) Journal(ctx context.Context, req JournalRequest) (JournalResponse, error) {
	if req.Limit < 0 {
		return JournalResponse{}, ErrInvalidRequest
	}
	gameAddress, _, err := pda.Game(req.GameID)
	if err != nil {
		return JournalResponse{}, err
	}
	records, err := u.Journals.ListByGame(ctx, gameAddress, req.Limit)
	if err != nil {
		return JournalResponse{}, err
	}
	entries := make([]JournalEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, JournalEntry{
			TxID:        rec.TxID,
			Instruction: rec.Instruction,
			Signer:      rec.Signer,
			Args:        rec.Args,
			AppliedAt:   rec.AppliedAt,
		})
	}
	return JournalResponse{Entries: entries}, nil
}

func (u UseCase) loadGame(ctx context.Context, gameID uint32) (game.Game, error) {
	address, _, err := pda.Game(gameID)
	if err != nil {
		return game.Game{}, err
	}
	return u.Games.GetByAddress(ctx, address)
}

func remaining(deadline, now int64) int64 {
	if deadline <= now {
		return 0
	}
	return deadline - now
}
