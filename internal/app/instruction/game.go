package instruction

import (
	"context"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

// InitializeGame creates the game account at its derived address together
// with the rewards vault that later pays staking rewards. The signer
// becomes the game authority.
func (e Executor) InitializeGame(ctx context.Context, req InitializeGameRequest) (GameResponse, error) {
	var out GameResponse
	err := e.run(ctx, "initialize_game", req.Signer, func(txCtx context.Context, scope *txScope) error {
		address, bump, err := pda.Game(req.GameID)
		if err != nil {
			return err
		}
		if req.Bump != bump {
			return game.ErrInvalidBump
		}
		rewardsVault, _, err := pda.RewardsVault(address)
		if err != nil {
			return err
		}

		g := game.Game{
			Address:           address,
			GameID:            req.GameID,
			Authority:         req.Signer,
			TokenMint:         e.Mint,
			RewardsVault:      rewardsVault,
			MapDiameter:       game.DefaultMapDiameter,
			BattleRange:       game.DefaultBattleRange,
			IsActive:          true,
			LastUpdate:        scope.now.Unix(),
			Bump:              bump,
			DailyRewardTokens: game.DefaultDailyRewardTokens,
		}
		if err := e.createGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		vault := token.Account{Address: rewardsVault, Mint: e.Mint, Owner: address}
		if err := e.createAccount(txCtx, &vault, scope.now); err != nil {
			return err
		}

		scope.gameAddress = address
		scope.args = map[string]any{"game_id": req.GameID, "bump": bump}
		scope.emit("game_initialized", map[string]any{
			"game_id":   req.GameID,
			"authority": req.Signer.String(),
		})
		out = GameResponse{Game: g}
		return nil
	})
	return out, err
}

// EndGame flips the game inactive. Terminal: a second end is rejected.
func (e Executor) EndGame(ctx context.Context, req EndGameRequest) (GameResponse, error) {
	var out GameResponse
	err := e.run(ctx, "end_game", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if g.Authority != req.Signer {
			return game.ErrUnauthorized
		}
		if err := g.Deactivate(); err != nil {
			return err
		}
		g.Touch(scope.now.Unix())
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"game_id": req.GameID}
		scope.emit("game_ended", map[string]any{"game_id": req.GameID})
		out = GameResponse{Game: g}
		return nil
	})
	return out, err
}

// UpdateDailyRewards changes the daily distribution the reward formula
// divides among stakers.
func (e Executor) UpdateDailyRewards(ctx context.Context, req UpdateDailyRewardsRequest) (GameResponse, error) {
	var out GameResponse
	err := e.run(ctx, "update_daily_rewards", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if g.Authority != req.Signer {
			return game.ErrUnauthorized
		}
		g.DailyRewardTokens = req.NewDailyRewardRate
		g.Touch(scope.now.Unix())
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"game_id": req.GameID, "daily_reward_tokens": req.NewDailyRewardRate}
		scope.emit("daily_rewards_updated", map[string]any{"daily_reward_tokens": req.NewDailyRewardRate})
		out = GameResponse{Game: g}
		return nil
	})
	return out, err
}

// SetAgentCooldown rewinds an agent's cooldown stamps to the given
// timestamp. Game-authority escape hatch for draining cooldown windows.
func (e Executor) SetAgentCooldown(ctx context.Context, req SetAgentCooldownRequest) (AgentResponse, error) {
	var out AgentResponse
	err := e.run(ctx, "set_agent_cooldown", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if g.Authority != req.Signer {
			return game.ErrUnauthorized
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		agent, err := e.loadAgent(txCtx, g.Address, req.AgentID)
		if err != nil {
			return err
		}

		agent.LastMove = req.NewCooldown
		agent.NextMoveTime = req.NewCooldown
		agent.LastAttack = req.NewCooldown
		agent.LastBattle = req.NewCooldown
		if agent.CurrentBattleStart != nil {
			start := req.NewCooldown
			agent.CurrentBattleStart = &start
		}
		if err := e.saveAgent(txCtx, &agent, scope.now); err != nil {
			return err
		}
		g.Touch(scope.now.Unix())
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"game_id": req.GameID, "agent_id": req.AgentID, "new_cooldown": req.NewCooldown}
		scope.emit("cooldown_overridden", map[string]any{"agent_id": req.AgentID, "new_cooldown": req.NewCooldown})
		out = AgentResponse{Agent: agent}
		return nil
	})
	return out, err
}
