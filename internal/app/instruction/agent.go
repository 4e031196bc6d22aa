package instruction

import (
	"context"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

// RegisterAgent creates the agent account at its derived address, opens its
// token vault, and appends it to the game registry. The signer becomes the
// agent authority.
func (e Executor) RegisterAgent(ctx context.Context, req RegisterAgentRequest) (AgentResponse, error) {
	var out AgentResponse
	err := e.run(ctx, "register_agent", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		agentAddress, _, err := pda.Agent(g.Address, req.AgentID)
		if err != nil {
			return err
		}
		if err := g.ValidateRegisterAgent(agentAddress, req.Name); err != nil {
			return err
		}
		vaultAddress, vaultBump, err := pda.AgentVault(agentAddress)
		if err != nil {
			return err
		}

		agent := game.Agent{
			Address:   agentAddress,
			Game:      g.Address,
			Authority: req.Signer,
			ID:        req.AgentID,
			X:         req.X,
			Y:         req.Y,
			IsAlive:   true,
			VaultBump: vaultBump,
		}
		if err := e.createAgent(txCtx, &agent, scope.now); err != nil {
			return err
		}
		vault := token.Account{Address: vaultAddress, Mint: g.TokenMint, Owner: agentAddress}
		if err := e.createAccount(txCtx, &vault, scope.now); err != nil {
			return err
		}

		g.AddAgent(agentAddress, req.Name)
		g.Touch(scope.now.Unix())
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"agent_id": req.AgentID, "x": req.X, "y": req.Y, "name": req.Name}
		scope.emit("agent_registered", map[string]any{
			"agent_id": req.AgentID,
			"name":     req.Name,
			"x":        req.X,
			"y":        req.Y,
		})
		out = AgentResponse{Agent: agent}
		return nil
	})
	return out, err
}

// KillAgent marks the agent dead. Terminal and idempotent.
func (e Executor) KillAgent(ctx context.Context, req KillAgentRequest) (AgentResponse, error) {
	var out AgentResponse
	err := e.run(ctx, "kill_agent", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		agent, err := e.requireAgentAuthority(txCtx, g.Address, req.AgentID, req.Signer)
		if err != nil {
			return err
		}

		agent.Kill()
		if err := e.saveAgent(txCtx, &agent, scope.now); err != nil {
			return err
		}
		g.Touch(scope.now.Unix())
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"agent_id": req.AgentID}
		scope.emit("agent_killed", map[string]any{"agent_id": req.AgentID})
		out = AgentResponse{Agent: agent}
		return nil
	})
	return out, err
}

// MoveAgent moves a living agent inside the map circle and arms the
// terrain-specific movement cooldown.
func (e Executor) MoveAgent(ctx context.Context, req MoveAgentRequest) (AgentResponse, error) {
	var out AgentResponse
	err := e.run(ctx, "move_agent", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		agent, err := e.requireAgentAuthority(txCtx, g.Address, req.AgentID, req.Signer)
		if err != nil {
			return err
		}

		now := scope.now.Unix()
		if err := agent.ValidateMovement(req.X, req.Y, g.MapDiameter, now); err != nil {
			return err
		}
		oldX, oldY := agent.X, agent.Y
		if err := agent.ApplyMove(req.X, req.Y, req.Terrain, now); err != nil {
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
		scope.args = map[string]any{"agent_id": req.AgentID, "x": req.X, "y": req.Y, "terrain": string(req.Terrain)}
		scope.emit("agent_moved", map[string]any{
			"agent_id": req.AgentID,
			"old_x":    oldX,
			"old_y":    oldY,
			"new_x":    req.X,
			"new_y":    req.Y,
		})
		out = AgentResponse{Agent: agent}
		return nil
	})
	return out, err
}

// IgnoreAgent records a refusal to engage the target for the ignore window.
func (e Executor) IgnoreAgent(ctx context.Context, req IgnoreAgentRequest) (AgentResponse, error) {
	var out AgentResponse
	err := e.run(ctx, "ignore_agent", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		agent, err := e.requireAgentAuthority(txCtx, g.Address, req.AgentID, req.Signer)
		if err != nil {
			return err
		}
		// The target account must exist even though it is not mutated.
		if _, err := e.loadAgent(txCtx, g.Address, req.TargetAgentID); err != nil {
			return err
		}

		if err := agent.RecordIgnore(req.TargetAgentID, scope.now.Unix()); err != nil {
			return err
		}
		if err := e.saveAgent(txCtx, &agent, scope.now); err != nil {
			return err
		}
		g.Touch(scope.now.Unix())
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"agent_id": req.AgentID, "target_agent_id": req.TargetAgentID}
		scope.emit("agent_ignored", map[string]any{
			"agent_id":        req.AgentID,
			"target_agent_id": req.TargetAgentID,
		})
		out = AgentResponse{Agent: agent}
		return nil
	})
	return out, err
}
