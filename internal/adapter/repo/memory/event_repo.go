package memory

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(ctx context.Context, gameAddress solana.PublicKey, events []game.DomainEvent) error {
	unlock := r.store.acquireWrite(ctx)
	defer unlock()

	key := gameAddress.String()
	r.store.events[key] = append(r.store.events[key], events...)
	return nil
}

func (r EventRepo) ListByGame(ctx context.Context, gameAddress solana.PublicKey, limit int) ([]game.DomainEvent, error) {
	unlock := r.store.acquireRead(ctx)
	defer unlock()

	stored := r.store.events[gameAddress.String()]
	if limit > 0 && limit < len(stored) {
		stored = stored[:limit]
	}
	return append([]game.DomainEvent(nil), stored...), nil
}
