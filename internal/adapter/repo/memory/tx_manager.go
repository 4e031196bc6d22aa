package memory

import "context"

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx serializes the whole transaction under the store lock and
// restores the pre-transaction snapshot when fn fails, so a rejection
// halfway through a multi-account save leaves nothing behind. The marker
// in the derived context tells repositories the lock is already held.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
