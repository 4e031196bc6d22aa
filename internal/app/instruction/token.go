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

// CreateTokenAccount derives and creates the owner's token account for the
// service mint. Idempotent: an existing account is returned as-is.
func (e Executor) CreateTokenAccount(ctx context.Context, req CreateTokenAccountRequest) (TokenAccountResponse, error) {
	var out TokenAccountResponse
	err := e.run(ctx, "create_token_account", req.Signer, func(txCtx context.Context, scope *txScope) error {
		account, created, err := e.loadOrCreateTokenAccount(txCtx, req.Owner)
		if err != nil {
			return err
		}
		if created {
			if err := e.createAccount(txCtx, &account, scope.now); err != nil {
				return err
			}
		}
		scope.args = map[string]any{"owner": req.Owner.String()}
		out = TokenAccountResponse{Account: account}
		return nil
	})
	return out, err
}

// MintTokens mints new supply into a token account, creating the account if
// needed. Only the mint authority may sign.
func (e Executor) MintTokens(ctx context.Context, req MintTokensRequest) (MintTokensResponse, error) {
	var out MintTokensResponse
	err := e.run(ctx, "mint_tokens", req.Signer, func(txCtx context.Context, scope *txScope) error {
		mint, err := e.Tokens.GetMint(txCtx, e.Mint)
		if err != nil {
			return err
		}
		if req.Signer != mint.MintAuthority {
			return game.ErrUnauthorized
		}
		if req.Amount == 0 {
			return game.ErrInvalidAmount
		}
		account, created, err := e.loadOrCreateTokenAccount(txCtx, req.To)
		if err != nil {
			return err
		}
		if err := mint.MintTo(&account, req.Amount); err != nil {
			return err
		}
		if created {
			err = e.createAccount(txCtx, &account, scope.now)
		} else {
			err = e.saveAccount(txCtx, &account, scope.now)
		}
		if err != nil {
			return err
		}
		if err := e.saveMint(txCtx, &mint, scope.now); err != nil {
			return err
		}
		scope.args = map[string]any{"to": req.To.String(), "amount": req.Amount}
		out = MintTokensResponse{Account: account, Supply: mint.Supply}
		return nil
	})
	return out, err
}

// FundAgent moves tokens from the signer's token account into the agent's
// liquid battle balance. The debited tokens live on the agent record, not in
// the stake vault, so funding never dilutes share pricing.
func (e Executor) FundAgent(ctx context.Context, req FundAgentRequest) (FundAgentResponse, error) {
	var out FundAgentResponse
	err := e.run(ctx, "fund_agent", req.Signer, func(txCtx context.Context, scope *txScope) error {
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
		source, err := e.loadTokenAccount(txCtx, g.TokenMint, req.Signer)
		if err != nil {
			return err
		}
		if source.Amount < req.Amount {
			return token.ErrInsufficientFunds
		}
		source.Amount -= req.Amount
		if err := agent.CreditTokens(req.Amount); err != nil {
			return err
		}

		if err := e.saveAccount(txCtx, &source, scope.now); err != nil {
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
		scope.args = map[string]any{"agent_id": req.AgentID, "amount": req.Amount}
		scope.emit("agent_funded", map[string]any{
			"agent_id": req.AgentID,
			"funder":   req.Signer.String(),
			"amount":   req.Amount,
		})
		out = FundAgentResponse{Agent: agent, Source: source}
		return nil
	})
	return out, err
}

func (e Executor) loadOrCreateTokenAccount(ctx context.Context, owner solana.PublicKey) (token.Account, bool, error) {
	address, _, err := pda.TokenAccount(e.Mint, owner)
	if err != nil {
		return token.Account{}, false, err
	}
	account, err := e.Tokens.GetAccount(ctx, address)
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return token.Account{}, false, err
	}
	return token.Account{Address: address, Mint: e.Mint, Owner: owner}, true, nil
}
