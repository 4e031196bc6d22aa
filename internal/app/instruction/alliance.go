package instruction

import (
	"context"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
)

// FormAlliance pairs the initiator with the target. Both records are stamped
// symmetrically so either side can later break the pact.
func (e Executor) FormAlliance(ctx context.Context, req AllianceRequest) (AllianceResponse, error) {
	var out AllianceResponse
	err := e.run(ctx, "form_alliance", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		initiator, err := e.requireAgentAuthority(txCtx, g.Address, req.InitiatorID, req.Signer)
		if err != nil {
			return err
		}
		target, err := e.loadAgent(txCtx, g.Address, req.TargetID)
		if err != nil {
			return err
		}

		now := scope.now.Unix()
		if err := game.FormAlliance(&initiator, &target, now); err != nil {
			return err
		}
		if err := e.saveAgent(txCtx, &initiator, scope.now); err != nil {
			return err
		}
		if err := e.saveAgent(txCtx, &target, scope.now); err != nil {
			return err
		}
		g.Touch(now)
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"initiator_id": req.InitiatorID, "target_id": req.TargetID}
		scope.emit("alliance_formed", map[string]any{
			"initiator_id": req.InitiatorID,
			"target_id":    req.TargetID,
		})
		out = AllianceResponse{Initiator: initiator, Target: target}
		return nil
	})
	return out, err
}

// BreakAlliance dissolves a mutual alliance and starts the re-pairing
// cooldown on both sides.
func (e Executor) BreakAlliance(ctx context.Context, req AllianceRequest) (AllianceResponse, error) {
	var out AllianceResponse
	err := e.run(ctx, "break_alliance", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		initiator, err := e.requireAgentAuthority(txCtx, g.Address, req.InitiatorID, req.Signer)
		if err != nil {
			return err
		}
		target, err := e.loadAgent(txCtx, g.Address, req.TargetID)
		if err != nil {
			return err
		}

		now := scope.now.Unix()
		if err := game.BreakAlliance(&initiator, &target, now); err != nil {
			return err
		}
		if err := e.saveAgent(txCtx, &initiator, scope.now); err != nil {
			return err
		}
		if err := e.saveAgent(txCtx, &target, scope.now); err != nil {
			return err
		}
		g.Touch(now)
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"initiator_id": req.InitiatorID, "target_id": req.TargetID}
		scope.emit("alliance_broken", map[string]any{
			"initiator_id": req.InitiatorID,
			"target_id":    req.TargetID,
		})
		out = AllianceResponse{Initiator: initiator, Target: target}
		return nil
	})
	return out, err
}
