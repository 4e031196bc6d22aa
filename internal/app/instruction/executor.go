package instruction

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

var ErrInvalidRequest = errors.New("invalid instruction request")

// Executor applies program instructions atomically. Every instruction runs
// inside one transaction: account writes, emitted events and the journal
// entry commit together or not at all.
type Executor struct {
	Tx      ports.TxManager
	Games   ports.GameRepository
	Agents  ports.AgentRepository
	Stakes  ports.StakeRepository
	Tokens  ports.TokenRepository
	Events  ports.EventRepository
	Journal ports.InstructionJournal
	Metrics ports.InstructionMetrics
	Log     zerolog.Logger
	Mint    solana.PublicKey
	Now     func() time.Time
}

// txScope accumulates what an instruction produced besides account writes.
type txScope struct {
	now         time.Time
	gameAddress solana.PublicKey
	args        map[string]any
	events      []game.DomainEvent
}

func (s *txScope) emit(eventType string, payload map[string]any) {
	s.events = append(s.events, game.DomainEvent{Type: eventType, OccurredAt: s.now, Payload: payload})
}

func (e Executor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

func (e Executor) run(ctx context.Context, name string, signer solana.PublicKey, fn func(txCtx context.Context, scope *txScope) error) error {
	scope := &txScope{now: e.now()}
	err := e.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := fn(txCtx, scope); err != nil {
			return err
		}
		if len(scope.events) > 0 && !scope.gameAddress.IsZero() {
			if err := e.Events.Append(txCtx, scope.gameAddress, scope.events); err != nil {
				return err
			}
		}
		if e.Journal != nil {
			return e.Journal.Append(txCtx, ports.InstructionRecord{
				TxID:        uuid.NewString(),
				GameAddress: scope.gameAddress,
				Instruction: name,
				Signer:      signer,
				Args:        scope.args,
				AppliedAt:   scope.now,
			})
		}
		return nil
	})
	if err != nil {
		code := RejectionCode(err)
		if e.Metrics != nil {
			e.Metrics.RecordRejected(name, code)
		}
		e.Log.Debug().Str("instruction", name).Str("signer", signer.String()).Str("code", code).Err(err).Msg("instruction rejected")
		return err
	}
	if e.Metrics != nil {
		e.Metrics.RecordApplied(name)
	}
	e.Log.Info().Str("instruction", name).Str("signer", signer.String()).Msg("instruction applied")
	return nil
}

// RejectionCode maps an instruction error to its stable wire code.
func RejectionCode(err error) string {
	var rule *game.RuleError
	switch {
	case errors.As(err, &rule):
		return rule.Code
	case errors.Is(err, ports.ErrNotFound):
		return "AccountNotFound"
	case errors.Is(err, ports.ErrConflict):
		return "AccountAlreadyInUse"
	case errors.Is(err, token.ErrInsufficientFunds):
		return "InsufficientFunds"
	case errors.Is(err, token.ErrMintMismatch),
		errors.Is(err, token.ErrSameAccount),
		errors.Is(err, token.ErrSupplyOverflow):
		return "TokenTransferError"
	case errors.Is(err, ErrInvalidRequest):
		return "InvalidRequest"
	default:
		return "Internal"
	}
}

func (e Executor) loadGame(ctx context.Context, gameID uint32) (game.Game, error) {
	address, _, err := pda.Game(gameID)
	if err != nil {
		return game.Game{}, err
	}
	return e.Games.GetByAddress(ctx, address)
}

func (e Executor) loadAgent(ctx context.Context, gameAddress solana.PublicKey, agentID uint8) (game.Agent, error) {
	address, _, err := pda.Agent(gameAddress, agentID)
	if err != nil {
		return game.Agent{}, err
	}
	return e.Agents.GetByAddress(ctx, address)
}

// requireAgentAuthority loads an agent and checks the signer controls it.
func (e Executor) requireAgentAuthority(ctx context.Context, gameAddress solana.PublicKey, agentID uint8, signer solana.PublicKey) (game.Agent, error) {
	agent, err := e.loadAgent(ctx, gameAddress, agentID)
	if err != nil {
		return game.Agent{}, err
	}
	if agent.Authority != signer {
		return game.Agent{}, game.ErrUnauthorized
	}
	return agent, nil
}

func (e Executor) createGame(ctx context.Context, g *game.Game, now time.Time) error {
	g.Version = 1
	g.UpdatedAt = now
	return e.Games.SaveWithVersion(ctx, *g, 0)
}

func (e Executor) saveGame(ctx context.Context, g *game.Game, now time.Time) error {
	prev := g.Version
	g.Version++
	g.UpdatedAt = now
	return e.Games.SaveWithVersion(ctx, *g, prev)
}

func (e Executor) createAgent(ctx context.Context, a *game.Agent, now time.Time) error {
	a.Version = 1
	a.UpdatedAt = now
	return e.Agents.SaveWithVersion(ctx, *a, 0)
}

func (e Executor) saveAgent(ctx context.Context, a *game.Agent, now time.Time) error {
	prev := a.Version
	a.Version++
	a.UpdatedAt = now
	return e.Agents.SaveWithVersion(ctx, *a, prev)
}

func (e Executor) createStake(ctx context.Context, s *game.StakeInfo, now time.Time) error {
	s.Version = 1
	s.UpdatedAt = now
	return e.Stakes.SaveWithVersion(ctx, *s, 0)
}

func (e Executor) saveStake(ctx context.Context, s *game.StakeInfo, now time.Time) error {
	prev := s.Version
	s.Version++
	s.UpdatedAt = now
	return e.Stakes.SaveWithVersion(ctx, *s, prev)
}

func (e Executor) createAccount(ctx context.Context, a *token.Account, now time.Time) error {
	a.Version = 1
	a.UpdatedAt = now
	return e.Tokens.SaveAccountWithVersion(ctx, *a, 0)
}

func (e Executor) saveAccount(ctx context.Context, a *token.Account, now time.Time) error {
	prev := a.Version
	a.Version++
	a.UpdatedAt = now
	return e.Tokens.SaveAccountWithVersion(ctx, *a, prev)
}

func (e Executor) saveMint(ctx context.Context, m *token.Mint, now time.Time) error {
	prev := m.Version
	m.Version++
	m.UpdatedAt = now
	return e.Tokens.SaveMintWithVersion(ctx, *m, prev)
}

func (e Executor) loadTokenAccount(ctx context.Context, mint, owner solana.PublicKey) (token.Account, error) {
	address, _, err := pda.TokenAccount(mint, owner)
	if err != nil {
		return token.Account{}, err
	}
	return e.Tokens.GetAccount(ctx, address)
}

func (e Executor) loadAgentVault(ctx context.Context, agentAddress solana.PublicKey) (token.Account, error) {
	address, _, err := pda.AgentVault(agentAddress)
	if err != nil {
		return token.Account{}, err
	}
	return e.Tokens.GetAccount(ctx, address)
}
