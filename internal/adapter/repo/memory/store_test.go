package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
)

func TestGameRepoVersioning(t *testing.T) {
	store := NewStore()
	repo := NewGameRepo(store)
	ctx := context.Background()
	address := solana.NewWallet().PublicKey()

	g := game.Game{Address: address, GameID: 1, Version: 1}
	if err := repo.SaveWithVersion(ctx, g, 0); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SaveWithVersion(ctx, g, 0); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on duplicate create, got %v", err)
	}

	g.Version = 2
	if err := repo.SaveWithVersion(ctx, g, 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.SaveWithVersion(ctx, g, 1); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on stale version, got %v", err)
	}

	got, err := repo.GetByAddress(ctx, address)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Version != 2 {
		t.Fatalf("expected version 2, got %d", got.Version)
	}
}

func TestGameRepoReturnsIsolatedCopies(t *testing.T) {
	store := NewStore()
	repo := NewGameRepo(store)
	ctx := context.Background()
	address := solana.NewWallet().PublicKey()

	g := game.Game{Address: address, Version: 1}
	g.Agents = []game.AgentInfo{{Key: solana.NewWallet().PublicKey(), Name: "scout"}}
	if err := repo.SaveWithVersion(ctx, g, 0); err != nil {
		t.Fatalf("create: %v", err)
	}

	fetched, err := repo.GetByAddress(ctx, address)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	fetched.Agents[0].Name = "mutated"

	again, err := repo.GetByAddress(ctx, address)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Agents[0].Name != "scout" {
		t.Fatalf("stored state leaked a mutation: %q", again.Agents[0].Name)
	}
}

func TestTxManagerRollsBackOnError(t *testing.T) {
	store := NewStore()
	games := NewGameRepo(store)
	agents := NewAgentRepo(store)
	tx := NewTxManager(store)
	ctx := context.Background()

	gameAddress := solana.NewWallet().PublicKey()
	if err := games.SaveWithVersion(ctx, game.Game{Address: gameAddress, Version: 1}, 0); err != nil {
		t.Fatalf("seed game: %v", err)
	}

	boom := errors.New("boom")
	agentAddress := solana.NewWallet().PublicKey()
	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := agents.SaveWithVersion(txCtx, game.Agent{Address: agentAddress, Version: 1}, 0); err != nil {
			return err
		}
		g, err := games.GetByAddress(txCtx, gameAddress)
		if err != nil {
			return err
		}
		g.Version = 2
		if err := games.SaveWithVersion(txCtx, g, 1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	if _, err := agents.GetByAddress(ctx, agentAddress); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected agent write rolled back, got %v", err)
	}
	g, err := games.GetByAddress(ctx, gameAddress)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if g.Version != 1 {
		t.Fatalf("expected game version rolled back to 1, got %d", g.Version)
	}
}

func TestConcurrentQueriesDuringTx(t *testing.T) {
	store := NewStore()
	games := NewGameRepo(store)
	tx := NewTxManager(store)
	ctx := context.Background()

	address := solana.NewWallet().PublicKey()
	if err := games.SaveWithVersion(ctx, game.Game{Address: address, Version: 1}, 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			if _, err := games.GetByAddress(ctx, address); err != nil {
				t.Errorf("concurrent read: %v", err)
				return
			}
		}
	}()

	for v := int64(1); v < 100; v++ {
		err := tx.RunInTx(ctx, func(txCtx context.Context) error {
			g, err := games.GetByAddress(txCtx, address)
			if err != nil {
				return err
			}
			g.Version = v + 1
			return games.SaveWithVersion(txCtx, g, v)
		})
		if err != nil {
			t.Fatalf("tx %d: %v", v, err)
		}
	}
	<-done
}

func TestEventRepoScopesByGame(t *testing.T) {
	store := NewStore()
	repo := NewEventRepo(store)
	ctx := context.Background()

	first := solana.NewWallet().PublicKey()
	second := solana.NewWallet().PublicKey()
	if err := repo.Append(ctx, first, []game.DomainEvent{{Type: "game_initialized"}, {Type: "agent_registered"}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, second, []game.DomainEvent{{Type: "game_initialized"}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.ListByGame(ctx, first, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	limited, err := repo.ListByGame(ctx, first, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 event with limit, got %d", len(limited))
	}
}
