package memory

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
)

type StakeRepo struct {
	store *Store
}

func NewStakeRepo(store *Store) StakeRepo {
	return StakeRepo{store: store}
}

func (r StakeRepo) GetByAddress(ctx context.Context, address solana.PublicKey) (game.StakeInfo, error) {
	unlock := r.store.acquireRead(ctx)
	defer unlock()

	s, ok := r.store.stakes[address.String()]
	if !ok {
		return game.StakeInfo{}, ports.ErrNotFound
	}
	return s.Clone(), nil
}

func (r StakeRepo) ListByAgent(ctx context.Context, agent solana.PublicKey) ([]game.StakeInfo, error) {
	unlock := r.store.acquireRead(ctx)
	defer unlock()

	out := []game.StakeInfo{}
	for _, s := range r.store.stakes {
		if s.Agent == agent {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

func (r StakeRepo) SaveWithVersion(ctx context.Context, s game.StakeInfo, expectedVersion int64) error {
	unlock := r.store.acquireWrite(ctx)
	defer unlock()

	key := s.Address.String()
	current, ok := r.store.stakes[key]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.stakes[key] = s.Clone()
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.stakes[key] = s.Clone()
	return nil
}
