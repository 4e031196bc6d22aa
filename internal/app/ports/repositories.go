package ports

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

// SaveWithVersion semantics are shared by all account repositories: an
// expectedVersion of zero creates the account and fails with ErrConflict if
// the address is already in use; any other value updates the stored row
// only when its version still matches.

type GameRepository interface {
	GetByAddress(ctx context.Context, address solana.PublicKey) (game.Game, error)
	SaveWithVersion(ctx context.Context, g game.Game, expectedVersion int64) error
}

type AgentRepository interface {
	GetByAddress(ctx context.Context, address solana.PublicKey) (game.Agent, error)
	SaveWithVersion(ctx context.Context, a game.Agent, expectedVersion int64) error
}

type StakeRepository interface {
	GetByAddress(ctx context.Context, address solana.PublicKey) (game.StakeInfo, error)
	ListByAgent(ctx context.Context, agent solana.PublicKey) ([]game.StakeInfo, error)
	SaveWithVersion(ctx context.Context, s game.StakeInfo, expectedVersion int64) error
}

type TokenRepository interface {
	GetMint(ctx context.Context, address solana.PublicKey) (token.Mint, error)
	SaveMintWithVersion(ctx context.Context, m token.Mint, expectedVersion int64) error
	GetAccount(ctx context.Context, address solana.PublicKey) (token.Account, error)
	SaveAccountWithVersion(ctx context.Context, a token.Account, expectedVersion int64) error
}

type EventRepository interface {
	Append(ctx context.Context, gameAddress solana.PublicKey, events []game.DomainEvent) error
	ListByGame(ctx context.Context, gameAddress solana.PublicKey, limit int) ([]game.DomainEvent, error)
}

// InstructionRecord is one entry of the execution journal: which signer ran
// which instruction against which game, and with what arguments.
type InstructionRecord struct {
	TxID        string
	GameAddress solana.PublicKey
	Instruction string
	Signer      solana.PublicKey
	Args        map[string]any
	AppliedAt   time.Time
}

type InstructionJournal interface {
	Append(ctx context.Context, record InstructionRecord) error
	ListByGame(ctx context.Context, gameAddress solana.PublicKey, limit int) ([]InstructionRecord, error)
}
