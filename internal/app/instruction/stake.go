package instruction

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

// InitializeStake opens an empty stake account for the signer on an agent.
// StakeTokens also does this on first use; the explicit instruction exists so
// a staker can pre-create the account in its own transaction.
func (e Executor) InitializeStake(ctx context.Context, req InitializeStakeRequest) (StakeResponse, error) {
	var out StakeResponse
	err := e.run(ctx, "initialize_stake", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		agent, err := e.loadAgent(txCtx, g.Address, req.AgentID)
		if err != nil {
			return err
		}
		stakeAddress, _, err := pda.Stake(agent.Address, req.Signer)
		if err != nil {
			return err
		}

		stake := game.StakeInfo{
			Address:       stakeAddress,
			Agent:         agent.Address,
			Staker:        req.Signer,
			IsInitialized: true,
		}
		if err := e.createStake(txCtx, &stake, scope.now); err != nil {
			return err
		}
		vault, err := e.loadAgentVault(txCtx, agent.Address)
		if err != nil {
			return err
		}
		g.Touch(scope.now.Unix())
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"agent_id": req.AgentID}
		scope.emit("stake_initialized", map[string]any{
			"agent_id": req.AgentID,
			"staker":   req.Signer.String(),
		})
		out = StakeResponse{Stake: stake, Agent: agent, VaultBalance: vault.Amount}
		return nil
	})
	return out, err
}

// StakeTokens moves tokens from the signer's token account into the agent
// vault and mints shares against the vault balance before the deposit.
func (e Executor) StakeTokens(ctx context.Context, req StakeTokensRequest) (StakeResponse, error) {
	var out StakeResponse
	err := e.run(ctx, "stake_tokens", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		if req.Amount == 0 {
			return game.ErrInvalidAmount
		}
		agent, err := e.loadAgent(txCtx, g.Address, req.AgentID)
		if err != nil {
			return err
		}
		stake, created, err := e.loadOrCreateStake(txCtx, agent.Address, req.Signer)
		if err != nil {
			return err
		}
		total := stake.Amount + req.Amount
		if total < stake.Amount || total > game.MaxStakeAmount {
			return game.ErrMaxStakeExceeded
		}
		source, err := e.loadTokenAccount(txCtx, g.TokenMint, req.Signer)
		if err != nil {
			return err
		}
		vault, err := e.loadAgentVault(txCtx, agent.Address)
		if err != nil {
			return err
		}

		if err := token.Transfer(&source, &vault, req.Amount); err != nil {
			return err
		}
		shares, err := game.SharesForDeposit(req.Amount, vault.Amount, agent.TotalShares)
		if err != nil {
			return err
		}

		now := scope.now.Unix()
		stake.Amount = total
		stake.Shares += shares
		stake.CooldownEndsAt = now + game.StakeCooldown
		stake.IsInitialized = true
		agent.StakedBalance += req.Amount
		agent.TotalShares += shares
		if err := g.AddStake(req.Signer, req.Amount); err != nil {
			return err
		}

		if err := e.saveAccount(txCtx, &source, scope.now); err != nil {
			return err
		}
		if err := e.saveAccount(txCtx, &vault, scope.now); err != nil {
			return err
		}
		if created {
			err = e.createStake(txCtx, &stake, scope.now)
		} else {
			err = e.saveStake(txCtx, &stake, scope.now)
		}
		if err != nil {
			return err
		}
		if err := e.saveAgent(txCtx, &agent, scope.now); err != nil {
			return err
		}
		g.Touch(now)
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"agent_id": req.AgentID, "amount": req.Amount}
		scope.emit("tokens_staked", map[string]any{
			"agent_id": req.AgentID,
			"staker":   req.Signer.String(),
			"amount":   req.Amount,
			"shares":   shares,
		})
		out = StakeResponse{Stake: stake, Agent: agent, VaultBalance: vault.Amount}
		return nil
	})
	return out, err
}

// UnstakeTokens redeems a token amount from the agent vault. Shares are
// burned rounded up; burning the stake's last share zeroes its principal so
// dust cannot strand the account. Allowed after the game ends so stakers can
// exit.
func (e Executor) UnstakeTokens(ctx context.Context, req UnstakeTokensRequest) (StakeResponse, error) {
	var out StakeResponse
	err := e.run(ctx, "unstake_tokens", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		agent, err := e.loadAgent(txCtx, g.Address, req.AgentID)
		if err != nil {
			return err
		}
		stakeAddress, _, err := pda.Stake(agent.Address, req.Signer)
		if err != nil {
			return err
		}
		stake, err := e.Stakes.GetByAddress(txCtx, stakeAddress)
		if err != nil {
			return err
		}
		now := scope.now.Unix()
		if now < stake.CooldownEndsAt {
			return game.ErrCooldownNotOver
		}
		vault, err := e.loadAgentVault(txCtx, agent.Address)
		if err != nil {
			return err
		}
		dest, err := e.loadTokenAccount(txCtx, g.TokenMint, req.Signer)
		if err != nil {
			return err
		}

		burned, err := game.SharesForWithdrawal(req.Amount, vault.Amount, agent.TotalShares)
		if err != nil {
			return err
		}
		if burned > stake.Shares {
			return game.ErrInsufficientFunds
		}
		if err := token.Transfer(&vault, &dest, req.Amount); err != nil {
			return err
		}

		principal := req.Amount
		if principal > stake.Amount {
			principal = stake.Amount
		}
		if burned == stake.Shares {
			principal = stake.Amount // full exit, release any dust
		}
		stake.Shares -= burned
		stake.Amount -= principal
		agent.TotalShares -= burned
		agent.StakedBalance -= principal
		if err := g.RemoveStake(req.Signer, principal); err != nil {
			return err
		}

		if err := e.saveAccount(txCtx, &vault, scope.now); err != nil {
			return err
		}
		if err := e.saveAccount(txCtx, &dest, scope.now); err != nil {
			return err
		}
		if err := e.saveStake(txCtx, &stake, scope.now); err != nil {
			return err
		}
		if err := e.saveAgent(txCtx, &agent, scope.now); err != nil {
			return err
		}
		g.Touch(now)
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"agent_id": req.AgentID, "amount": req.Amount}
		scope.emit("tokens_unstaked", map[string]any{
			"agent_id":      req.AgentID,
			"staker":        req.Signer.String(),
			"amount":        req.Amount,
			"shares_burned": burned,
		})
		out = StakeResponse{Stake: stake, Agent: agent, VaultBalance: vault.Amount}
		return nil
	})
	return out, err
}

// ClaimStakingRewards pays the signer their cut of one daily distribution
// out of the game rewards vault. Allowed after the game ends.
func (e Executor) ClaimStakingRewards(ctx context.Context, req ClaimRewardsRequest) (ClaimRewardsResponse, error) {
	var out ClaimRewardsResponse
	err := e.run(ctx, "claim_staking_rewards", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		agent, err := e.loadAgent(txCtx, g.Address, req.AgentID)
		if err != nil {
			return err
		}
		stakeAddress, _, err := pda.Stake(agent.Address, req.Signer)
		if err != nil {
			return err
		}
		stake, err := e.Stakes.GetByAddress(txCtx, stakeAddress)
		if err != nil {
			return err
		}
		now := scope.now.Unix()
		if now < stake.CooldownEndsAt {
			return game.ErrCooldownNotOver
		}
		if now < stake.LastRewardTimestamp+game.RewardClaimCooldown {
			return game.ErrClaimCooldown
		}

		reward, err := game.StakeReward(stake.Amount, g.DailyRewardTokens, g.TotalStaked())
		if err != nil {
			return err
		}
		if reward == 0 {
			return game.ErrNoRewardsToClaim
		}
		rewardsVault, err := e.Tokens.GetAccount(txCtx, g.RewardsVault)
		if err != nil {
			return err
		}
		if rewardsVault.Amount < reward {
			return game.ErrInsufficientRwd
		}
		dest, err := e.loadTokenAccount(txCtx, g.TokenMint, req.Signer)
		if err != nil {
			return err
		}
		if err := token.Transfer(&rewardsVault, &dest, reward); err != nil {
			return err
		}

		stake.LastRewardTimestamp = now
		agent.LastRewardClaim = now

		if err := e.saveAccount(txCtx, &rewardsVault, scope.now); err != nil {
			return err
		}
		if err := e.saveAccount(txCtx, &dest, scope.now); err != nil {
			return err
		}
		if err := e.saveStake(txCtx, &stake, scope.now); err != nil {
			return err
		}
		if err := e.saveAgent(txCtx, &agent, scope.now); err != nil {
			return err
		}
		g.Touch(now)
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"agent_id": req.AgentID}
		scope.emit("rewards_claimed", map[string]any{
			"agent_id": req.AgentID,
			"staker":   req.Signer.String(),
			"reward":   reward,
		})
		out = ClaimRewardsResponse{Stake: stake, Reward: reward}
		return nil
	})
	return out, err
}

func (e Executor) loadOrCreateStake(ctx context.Context, agentAddress, staker solana.PublicKey) (game.StakeInfo, bool, error) {
	address, _, err := pda.Stake(agentAddress, staker)
	if err != nil {
		return game.StakeInfo{}, false, err
	}
	stake, err := e.Stakes.GetByAddress(ctx, address)
	if err == nil {
		return stake, false, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return game.StakeInfo{}, false, err
	}
	stake = game.StakeInfo{Address: address, Agent: agentAddress, Staker: staker, IsInitialized: true}
	return stake, true, nil
}
