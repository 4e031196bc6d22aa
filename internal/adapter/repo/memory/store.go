package memory

import (
	"context"
	"sync"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

// Store backs every repository with plain maps keyed by base58 address.
// RunInTx holds the write lock for the whole transaction; repository calls
// that carry the transaction context skip locking, every other call locks
// for itself.
type Store struct {
	mu       sync.RWMutex
	games    map[string]game.Game
	agents   map[string]game.Agent
	stakes   map[string]game.StakeInfo
	mints    map[string]token.Mint
	accounts map[string]token.Account
	events   map[string][]game.DomainEvent
	journal  []ports.InstructionRecord
}

func NewStore() *Store {
	return &Store{
		games:    make(map[string]game.Game),
		agents:   make(map[string]game.Agent),
		stakes:   make(map[string]game.StakeInfo),
		mints:    make(map[string]token.Mint),
		accounts: make(map[string]token.Account),
		events:   make(map[string][]game.DomainEvent),
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

// acquireRead returns the matching unlock. Inside a transaction the write
// lock is already held, so both acquire helpers become no-ops there.
func (s *Store) acquireRead(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) acquireWrite(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type storeSnapshot struct {
	games    map[string]game.Game
	agents   map[string]game.Agent
	stakes   map[string]game.StakeInfo
	mints    map[string]token.Mint
	accounts map[string]token.Account
	events   map[string][]game.DomainEvent
	journal  []ports.InstructionRecord
}

// snapshot copies the map headers and entries, not the stored values.
// That is enough because repositories replace values wholesale and never
// mutate a stored value in place. Callers must hold mu.
func (s *Store) snapshot() storeSnapshot {
	return storeSnapshot{
		games:    copyMap(s.games),
		agents:   copyMap(s.agents),
		stakes:   copyMap(s.stakes),
		mints:    copyMap(s.mints),
		accounts: copyMap(s.accounts),
		events:   copyMap(s.events),
		journal:  s.journal,
	}
}

func (s *Store) restore(snap storeSnapshot) {
	s.games = snap.games
	s.agents = snap.agents
	s.stakes = snap.stakes
	s.mints = snap.mints
	s.accounts = snap.accounts
	s.events = snap.events
	s.journal = snap.journal
}

func copyMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
