package memory

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
)

type GameRepo struct {
	store *Store
}

func NewGameRepo(store *Store) GameRepo {
	return GameRepo{store: store}
}

func (r GameRepo) GetByAddress(ctx context.Context, address solana.PublicKey) (game.Game, error) {
	unlock := r.store.acquireRead(ctx)
	defer unlock()

	g, ok := r.store.games[address.String()]
	if !ok {
		return game.Game{}, ports.ErrNotFound
	}
	return g.Clone(), nil
}

func (r GameRepo) SaveWithVersion(ctx context.Context, g game.Game, expectedVersion int64) error {
	unlock := r.store.acquireWrite(ctx)
	defer unlock()

	key := g.Address.String()
	current, ok := r.store.games[key]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.games[key] = g.Clone()
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.games[key] = g.Clone()
	return nil
}
