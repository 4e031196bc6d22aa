package instruction

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
)

func TestInitializeGameCreatesDerivedAccounts(t *testing.T) {
	env := newTestEnv(t)
	authority := solana.NewWallet().PublicKey()

	g := env.seedGame(t, 1, authority)

	wantAddress, wantBump, err := pda.Game(1)
	if err != nil {
		t.Fatalf("derive game: %v", err)
	}
	if g.Address != wantAddress {
		t.Fatalf("game address = %s, want %s", g.Address, wantAddress)
	}
	if g.Bump != wantBump {
		t.Fatalf("bump = %d, want %d", g.Bump, wantBump)
	}
	if !g.IsActive {
		t.Fatal("new game should be active")
	}
	if g.Authority != authority {
		t.Fatalf("authority = %s, want signer", g.Authority)
	}
	if g.MapDiameter != game.DefaultMapDiameter || g.BattleRange != game.DefaultBattleRange {
		t.Fatalf("map tuning = (%d,%d), want defaults", g.MapDiameter, g.BattleRange)
	}
	if g.DailyRewardTokens != game.DefaultDailyRewardTokens {
		t.Fatalf("daily rewards = %d, want %d", g.DailyRewardTokens, game.DefaultDailyRewardTokens)
	}
	if g.Version != 1 {
		t.Fatalf("fresh game version = %d, want 1", g.Version)
	}

	vault, ok := env.tokens.accounts[g.RewardsVault.String()]
	if !ok {
		t.Fatal("rewards vault account was not created")
	}
	if vault.Owner != g.Address || vault.Mint != env.mint || vault.Amount != 0 {
		t.Fatalf("rewards vault = %+v, want empty account owned by game", vault)
	}

	if env.metrics.applied["initialize_game"] != 1 {
		t.Fatalf("applied metric = %d, want 1", env.metrics.applied["initialize_game"])
	}
	if len(env.journal.records) != 1 {
		t.Fatalf("journal records = %d, want 1", len(env.journal.records))
	}
	if env.journal.records[0].Instruction != "initialize_game" || env.journal.records[0].Signer != authority {
		t.Fatalf("journal record = %+v", env.journal.records[0])
	}
	if env.events.lastType() != "game_initialized" {
		t.Fatalf("last event = %q, want game_initialized", env.events.lastType())
	}
}

func TestInitializeGameRejectsWrongBump(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.exec.InitializeGame(context.Background(), InitializeGameRequest{
		Signer: solana.NewWallet().PublicKey(),
		GameID: 7,
		Bump:   gameBump(t, 7) + 1,
	})
	if !errors.Is(err, game.ErrInvalidBump) {
		t.Fatalf("err = %v, want ErrInvalidBump", err)
	}
	if len(env.games.byAddress) != 0 {
		t.Fatal("rejected initialize must not store a game")
	}
	if env.metrics.rejected["initialize_game"] != 1 || env.metrics.lastRejected != "InvalidBump" {
		t.Fatalf("rejection metric = %+v", env.metrics)
	}
}

func TestInitializeGameAddressAlreadyInUse(t *testing.T) {
	env := newTestEnv(t)
	authority := solana.NewWallet().PublicKey()
	env.seedGame(t, 1, authority)

	_, err := env.exec.InitializeGame(context.Background(), InitializeGameRequest{
		Signer: authority,
		GameID: 1,
		Bump:   gameBump(t, 1),
	})
	if !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if got := RejectionCode(err); got != "AccountAlreadyInUse" {
		t.Fatalf("rejection code = %q, want AccountAlreadyInUse", got)
	}
}

func TestEndGameDeactivatesExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	authority := solana.NewWallet().PublicKey()
	env.seedGame(t, 1, authority)

	resp, err := env.exec.EndGame(context.Background(), EndGameRequest{Signer: authority, GameID: 1})
	if err != nil {
		t.Fatalf("end game: %v", err)
	}
	if resp.Game.IsActive {
		t.Fatal("game should be inactive after end")
	}

	_, err = env.exec.EndGame(context.Background(), EndGameRequest{Signer: authority, GameID: 1})
	if !errors.Is(err, game.ErrGameNotActive) {
		t.Fatalf("second end err = %v, want ErrGameNotActive", err)
	}
}

func TestEndGameRequiresGameAuthority(t *testing.T) {
	env := newTestEnv(t)
	env.seedGame(t, 1, solana.NewWallet().PublicKey())

	_, err := env.exec.EndGame(context.Background(), EndGameRequest{
		Signer: solana.NewWallet().PublicKey(),
		GameID: 1,
	})
	if !errors.Is(err, game.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if env.getGame(t, 1).IsActive != true {
		t.Fatal("unauthorized end must not deactivate the game")
	}
}

func TestUpdateDailyRewards(t *testing.T) {
	env := newTestEnv(t)
	authority := solana.NewWallet().PublicKey()
	env.seedGame(t, 1, authority)

	resp, err := env.exec.UpdateDailyRewards(context.Background(), UpdateDailyRewardsRequest{
		Signer:             authority,
		GameID:             1,
		NewDailyRewardRate: 42_000,
	})
	if err != nil {
		t.Fatalf("update rewards: %v", err)
	}
	if resp.Game.DailyRewardTokens != 42_000 {
		t.Fatalf("daily rewards = %d, want 42000", resp.Game.DailyRewardTokens)
	}

	_, err = env.exec.UpdateDailyRewards(context.Background(), UpdateDailyRewardsRequest{
		Signer:             solana.NewWallet().PublicKey(),
		GameID:             1,
		NewDailyRewardRate: 1,
	})
	if !errors.Is(err, game.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestSetAgentCooldownUnblocksMovement(t *testing.T) {
	env := newTestEnv(t)
	authority := solana.NewWallet().PublicKey()
	agentAuthority := solana.NewWallet().PublicKey()
	env.seedGame(t, 1, authority)
	env.seedAgent(t, 1, 1, agentAuthority, 0, 0)

	_, err := env.exec.MoveAgent(context.Background(), MoveAgentRequest{
		Signer: agentAuthority, GameID: 1, AgentID: 1, X: 10, Y: 10, Terrain: game.TerrainPlain,
	})
	if err != nil {
		t.Fatalf("first move: %v", err)
	}
	_, err = env.exec.MoveAgent(context.Background(), MoveAgentRequest{
		Signer: agentAuthority, GameID: 1, AgentID: 1, X: 20, Y: 20, Terrain: game.TerrainPlain,
	})
	if !errors.Is(err, game.ErrMovementCooldown) {
		t.Fatalf("err = %v, want ErrMovementCooldown", err)
	}

	past := env.unix() - game.MovementCooldown
	_, err = env.exec.SetAgentCooldown(context.Background(), SetAgentCooldownRequest{
		Signer: authority, GameID: 1, AgentID: 1, NewCooldown: past,
	})
	if err != nil {
		t.Fatalf("set cooldown: %v", err)
	}

	resp, err := env.exec.MoveAgent(context.Background(), MoveAgentRequest{
		Signer: agentAuthority, GameID: 1, AgentID: 1, X: 20, Y: 20, Terrain: game.TerrainPlain,
	})
	if err != nil {
		t.Fatalf("move after rewind: %v", err)
	}
	if resp.Agent.X != 20 || resp.Agent.Y != 20 {
		t.Fatalf("position = (%d,%d), want (20,20)", resp.Agent.X, resp.Agent.Y)
	}
}

func TestSetAgentCooldownRequiresGameAuthority(t *testing.T) {
	env := newTestEnv(t)
	agentAuthority := solana.NewWallet().PublicKey()
	env.seedGame(t, 1, solana.NewWallet().PublicKey())
	env.seedAgent(t, 1, 1, agentAuthority, 0, 0)

	_, err := env.exec.SetAgentCooldown(context.Background(), SetAgentCooldownRequest{
		Signer: agentAuthority, GameID: 1, AgentID: 1, NewCooldown: 0,
	})
	if !errors.Is(err, game.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
