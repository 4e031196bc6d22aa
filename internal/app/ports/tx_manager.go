package ports

import "context"

// TxManager runs fn atomically: every repository write inside fn commits
// together or not at all, so a rejected instruction leaves no partial state.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
