package memory

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
)

type AgentRepo struct {
	store *Store
}

func NewAgentRepo(store *Store) AgentRepo {
	return AgentRepo{store: store}
}

func (r AgentRepo) GetByAddress(ctx context.Context, address solana.PublicKey) (game.Agent, error) {
	unlock := r.store.acquireRead(ctx)
	defer unlock()

	a, ok := r.store.agents[address.String()]
	if !ok {
		return game.Agent{}, ports.ErrNotFound
	}
	return a.Clone(), nil
}

func (r AgentRepo) SaveWithVersion(ctx context.Context, a game.Agent, expectedVersion int64) error {
	unlock := r.store.acquireWrite(ctx)
	defer unlock()

	key := a.Address.String()
	current, ok := r.store.agents[key]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.agents[key] = a.Clone()
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.agents[key] = a.Clone()
	return nil
}
