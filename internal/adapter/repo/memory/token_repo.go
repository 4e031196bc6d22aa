package memory

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

type TokenRepo struct {
	store *Store
}

func NewTokenRepo(store *Store) TokenRepo {
	return TokenRepo{store: store}
}

func (r TokenRepo) GetMint(ctx context.Context, address solana.PublicKey) (token.Mint, error) {
	unlock := r.store.acquireRead(ctx)
	defer unlock()

	m, ok := r.store.mints[address.String()]
	if !ok {
		return token.Mint{}, ports.ErrNotFound
	}
	return m, nil
}

func (r TokenRepo) SaveMintWithVersion(ctx context.Context, m token.Mint, expectedVersion int64) error {
	unlock := r.store.acquireWrite(ctx)
	defer unlock()

	key := m.Address.String()
	current, ok := r.store.mints[key]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.mints[key] = m
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.mints[key] = m
	return nil
}

func (r TokenRepo) GetAccount(ctx context.Context, address solana.PublicKey) (token.Account, error) {
	unlock := r.store.acquireRead(ctx)
	defer unlock()

	a, ok := r.store.accounts[address.String()]
	if !ok {
		return token.Account{}, ports.ErrNotFound
	}
	return a, nil
}

func (r TokenRepo) SaveAccountWithVersion(ctx context.Context, a token.Account, expectedVersion int64) error {
	unlock := r.store.acquireWrite(ctx)
	defer unlock()

	key := a.Address.String()
	current, ok := r.store.accounts[key]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.accounts[key] = a
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.accounts[key] = a
	return nil
}
