package instruction

import (
	"context"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
)

// StartBattle opens a battle window between two agents. Living alliance
// partners of either side are pulled in and stamped with the same window, so
// resolution settles the whole group at once.
func (e Executor) StartBattle(ctx context.Context, req StartBattleRequest) (StartBattleResponse, error) {
	var out StartBattleResponse
	err := e.run(ctx, "start_battle", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		if req.AttackerID == req.DefenderID {
			return ErrInvalidRequest
		}
		attacker, err := e.requireAgentAuthority(txCtx, g.Address, req.AttackerID, req.Signer)
		if err != nil {
			return err
		}
		defender, err := e.loadAgent(txCtx, g.Address, req.DefenderID)
		if err != nil {
			return err
		}
		if attacker.AllianceWith != nil && *attacker.AllianceWith == defender.Address {
			return game.ErrInvalidPartner
		}

		now := scope.now.Unix()
		if err := attacker.ValidateBattleState(now); err != nil {
			return err
		}
		if !defender.IsAlive {
			return game.ErrAgentNotAlive
		}
		if defender.CurrentBattleStart != nil {
			return game.ErrBattleStarted
		}
		if err := game.ValidateBattleStake(&attacker, &defender); err != nil {
			return err
		}

		var partners []game.Agent
		for _, side := range []*game.Agent{&attacker, &defender} {
			if side.AllianceWith == nil {
				continue
			}
			partner, err := e.Agents.GetByAddress(txCtx, *side.AllianceWith)
			if err != nil {
				return err
			}
			if !partner.IsAlive {
				continue // a dead ally sits the battle out
			}
			if partner.CurrentBattleStart != nil {
				return game.ErrBattleStarted
			}
			partners = append(partners, partner)
		}

		participants := []*game.Agent{&attacker, &defender}
		for i := range partners {
			participants = append(participants, &partners[i])
		}
		for _, p := range participants {
			p.StartBattle(now)
		}
		for _, p := range participants {
			if err := e.saveAgent(txCtx, p, scope.now); err != nil {
				return err
			}
		}
		g.Touch(now)
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{"attacker_id": req.AttackerID, "defender_id": req.DefenderID}
		scope.emit("battle_initiated", map[string]any{
			"agent_id":          req.AttackerID,
			"opponent_agent_id": req.DefenderID,
		})
		out = StartBattleResponse{Attacker: attacker, Defender: defender}
		return nil
	})
	return out, err
}

// ResolveBattleSimple settles a one-on-one battle, moving transferAmount from
// the loser's liquid balance to the winner's. Game authority only.
func (e Executor) ResolveBattleSimple(ctx context.Context, req ResolveBattleSimpleRequest) (ResolveBattleSimpleResponse, error) {
	var out ResolveBattleSimpleResponse
	err := e.run(ctx, "resolve_battle_simple", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		if req.Signer != g.Authority {
			return game.ErrUnauthorized
		}
		if req.WinnerID == req.LoserID {
			return ErrInvalidRequest
		}
		winner, err := e.loadAgent(txCtx, g.Address, req.WinnerID)
		if err != nil {
			return err
		}
		loser, err := e.loadAgent(txCtx, g.Address, req.LoserID)
		if err != nil {
			return err
		}

		now := scope.now.Unix()
		if err := game.ValidateResolution(now, &winner, &loser); err != nil {
			return err
		}
		if err := loser.DebitTokens(req.TransferAmount); err != nil {
			return err
		}
		if err := winner.CreditTokens(req.TransferAmount); err != nil {
			return err
		}
		winner.SettleBattle(now)
		loser.SettleBattle(now)
		if err := e.saveAgent(txCtx, &winner, scope.now); err != nil {
			return err
		}
		if err := e.saveAgent(txCtx, &loser, scope.now); err != nil {
			return err
		}
		g.Touch(now)
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{
			"winner_id":       req.WinnerID,
			"loser_id":        req.LoserID,
			"transfer_amount": req.TransferAmount,
		}
		scope.emit("battle_resolved", map[string]any{
			"winner_id":       req.WinnerID,
			"loser_id":        req.LoserID,
			"transfer_amount": req.TransferAmount,
		})
		out = ResolveBattleSimpleResponse{Winner: winner, Loser: loser}
		return nil
	})
	return out, err
}

// ResolveBattleAgentVsAlliance settles a single agent against an allied pair.
// The allied side splits the transfer: the leader takes half rounded up, the
// partner the rest. agentIsWinner picks the direction.
func (e Executor) ResolveBattleAgentVsAlliance(ctx context.Context, req ResolveBattleAgentVsAllianceRequest) (ResolveBattleAgentVsAllianceResponse, error) {
	var out ResolveBattleAgentVsAllianceResponse
	err := e.run(ctx, "resolve_battle_agent_vs_alliance", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		if req.Signer != g.Authority {
			return game.ErrUnauthorized
		}
		if !distinctIDs(req.AgentID, req.AllianceLeaderID, req.AlliancePartnerID) {
			return ErrInvalidRequest
		}
		agent, err := e.loadAgent(txCtx, g.Address, req.AgentID)
		if err != nil {
			return err
		}
		leader, err := e.loadAgent(txCtx, g.Address, req.AllianceLeaderID)
		if err != nil {
			return err
		}
		partner, err := e.loadAgent(txCtx, g.Address, req.AlliancePartnerID)
		if err != nil {
			return err
		}

		now := scope.now.Unix()
		if err := game.ValidateResolution(now, &agent, &leader, &partner); err != nil {
			return err
		}
		leaderShare, partnerShare := game.SplitTransfer(req.TransferAmount)
		if req.AgentIsWinner {
			if err := leader.DebitTokens(leaderShare); err != nil {
				return err
			}
			if err := partner.DebitTokens(partnerShare); err != nil {
				return err
			}
			if err := agent.CreditTokens(req.TransferAmount); err != nil {
				return err
			}
		} else {
			if err := agent.DebitTokens(req.TransferAmount); err != nil {
				return err
			}
			if err := leader.CreditTokens(leaderShare); err != nil {
				return err
			}
			if err := partner.CreditTokens(partnerShare); err != nil {
				return err
			}
		}
		agent.SettleBattle(now)
		leader.SettleBattle(now)
		partner.SettleBattle(now)
		for _, a := range []*game.Agent{&agent, &leader, &partner} {
			if err := e.saveAgent(txCtx, a, scope.now); err != nil {
				return err
			}
		}
		g.Touch(now)
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		winnerID, loserID := req.AgentID, req.AllianceLeaderID
		if !req.AgentIsWinner {
			winnerID, loserID = req.AllianceLeaderID, req.AgentID
		}
		scope.gameAddress = g.Address
		scope.args = map[string]any{
			"agent_id":            req.AgentID,
			"alliance_leader_id":  req.AllianceLeaderID,
			"alliance_partner_id": req.AlliancePartnerID,
			"transfer_amount":     req.TransferAmount,
			"agent_is_winner":     req.AgentIsWinner,
		}
		scope.emit("battle_resolved", map[string]any{
			"winner_id":       winnerID,
			"loser_id":        loserID,
			"transfer_amount": req.TransferAmount,
		})
		out = ResolveBattleAgentVsAllianceResponse{Agent: agent, Leader: leader, Partner: partner}
		return nil
	})
	return out, err
}

// ResolveBattleAllianceVsAlliance settles two allied pairs against each
// other. Both sides split the transfer the same way the pair split works in
// the agent-vs-alliance variant.
func (e Executor) ResolveBattleAllianceVsAlliance(ctx context.Context, req ResolveBattleAllianceVsAllianceRequest) (ResolveBattleAllianceVsAllianceResponse, error) {
	var out ResolveBattleAllianceVsAllianceResponse
	err := e.run(ctx, "resolve_battle_alliance_vs_alliance", req.Signer, func(txCtx context.Context, scope *txScope) error {
		g, err := e.loadGame(txCtx, req.GameID)
		if err != nil {
			return err
		}
		if !g.IsActive {
			return game.ErrGameNotActive
		}
		if req.Signer != g.Authority {
			return game.ErrUnauthorized
		}
		if !distinctIDs(req.WinnerID, req.WinnerPartnerID, req.LoserID, req.LoserPartnerID) {
			return ErrInvalidRequest
		}
		winner, err := e.loadAgent(txCtx, g.Address, req.WinnerID)
		if err != nil {
			return err
		}
		winnerPartner, err := e.loadAgent(txCtx, g.Address, req.WinnerPartnerID)
		if err != nil {
			return err
		}
		loser, err := e.loadAgent(txCtx, g.Address, req.LoserID)
		if err != nil {
			return err
		}
		loserPartner, err := e.loadAgent(txCtx, g.Address, req.LoserPartnerID)
		if err != nil {
			return err
		}

		now := scope.now.Unix()
		if err := game.ValidateResolution(now, &winner, &winnerPartner, &loser, &loserPartner); err != nil {
			return err
		}
		leadShare, partnerShare := game.SplitTransfer(req.TransferAmount)
		if err := loser.DebitTokens(leadShare); err != nil {
			return err
		}
		if err := loserPartner.DebitTokens(partnerShare); err != nil {
			return err
		}
		if err := winner.CreditTokens(leadShare); err != nil {
			return err
		}
		if err := winnerPartner.CreditTokens(partnerShare); err != nil {
			return err
		}
		for _, a := range []*game.Agent{&winner, &winnerPartner, &loser, &loserPartner} {
			a.SettleBattle(now)
		}
		for _, a := range []*game.Agent{&winner, &winnerPartner, &loser, &loserPartner} {
			if err := e.saveAgent(txCtx, a, scope.now); err != nil {
				return err
			}
		}
		g.Touch(now)
		if err := e.saveGame(txCtx, &g, scope.now); err != nil {
			return err
		}

		scope.gameAddress = g.Address
		scope.args = map[string]any{
			"winner_id":         req.WinnerID,
			"winner_partner_id": req.WinnerPartnerID,
			"loser_id":          req.LoserID,
			"loser_partner_id":  req.LoserPartnerID,
			"transfer_amount":   req.TransferAmount,
		}
		scope.emit("battle_resolved", map[string]any{
			"winner_id":       req.WinnerID,
			"loser_id":        req.LoserID,
			"transfer_amount": req.TransferAmount,
		})
		out = ResolveBattleAllianceVsAllianceResponse{
			Winner:        winner,
			WinnerPartner: winnerPartner,
			Loser:         loser,
			LoserPartner:  loserPartner,
		}
		return nil
	})
	return out, err
}

func distinctIDs(ids ...uint8) bool {
	seen := make(map[uint8]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}
