package memory

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
)

type JournalRepo struct {
	store *Store
}

func NewJournalRepo(store *Store) JournalRepo {
	return JournalRepo{store: store}
}

func (r JournalRepo) Append(ctx context.Context, record ports.InstructionRecord) error {
	unlock := r.store.acquireWrite(ctx)
	defer unlock()

	r.store.journal = append(r.store.journal, record)
	return nil
}

func (r JournalRepo) ListByGame(ctx context.Context, gameAddress solana.PublicKey, limit int) ([]ports.InstructionRecord, error) {
	unlock := r.store.acquireRead(ctx)
	defer unlock()

	out := []ports.InstructionRecord{}
	for _, rec := range r.store.journal {
		if rec.GameAddress != gameAddress {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
