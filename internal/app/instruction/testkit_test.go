package instruction

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubGameRepo struct {
	byAddress map[string]game.Game
}

func (r *stubGameRepo) GetByAddress(_ context.Context, address solana.PublicKey) (game.Game, error) {
	g, ok := r.byAddress[address.String()]
	if !ok {
		return game.Game{}, ports.ErrNotFound
	}
	return g, nil
}

func (r *stubGameRepo) SaveWithVersion(_ context.Context, g game.Game, expectedVersion int64) error {
	current, ok := r.byAddress[g.Address.String()]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.byAddress[g.Address.String()] = g
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byAddress[g.Address.String()] = g
	return nil
}

type stubAgentRepo struct {
	byAddress map[string]game.Agent
}

func (r *stubAgentRepo) GetByAddress(_ context.Context, address solana.PublicKey) (game.Agent, error) {
	a, ok := r.byAddress[address.String()]
	if !ok {
		return game.Agent{}, ports.ErrNotFound
	}
	return a, nil
}

func (r *stubAgentRepo) SaveWithVersion(_ context.Context, a game.Agent, expectedVersion int64) error {
	current, ok := r.byAddress[a.Address.String()]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.byAddress[a.Address.String()] = a
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byAddress[a.Address.String()] = a
	return nil
}

type stubStakeRepo struct {
	byAddress map[string]game.StakeInfo
}

func (r *stubStakeRepo) GetByAddress(_ context.Context, address solana.PublicKey) (game.StakeInfo, error) {
	s, ok := r.byAddress[address.String()]
	if !ok {
		return game.StakeInfo{}, ports.ErrNotFound
	}
	return s, nil
}

func (r *stubStakeRepo) ListByAgent(_ context.Context, agent solana.PublicKey) ([]game.StakeInfo, error) {
	var out []game.StakeInfo
	for _, s := range r.byAddress {
		if s.Agent == agent {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubStakeRepo) SaveWithVersion(_ context.Context, s game.StakeInfo, expectedVersion int64) error {
	current, ok := r.byAddress[s.Address.String()]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.byAddress[s.Address.String()] = s
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byAddress[s.Address.String()] = s
	return nil
}

type stubTokenRepo struct {
	mints    map[string]token.Mint
	accounts map[string]token.Account
}

func (r *stubTokenRepo) GetMint(_ context.Context, address solana.PublicKey) (token.Mint, error) {
	m, ok := r.mints[address.String()]
	if !ok {
		return token.Mint{}, ports.ErrNotFound
	}
	return m, nil
}

func (r *stubTokenRepo) SaveMintWithVersion(_ context.Context, m token.Mint, expectedVersion int64) error {
	current, ok := r.mints[m.Address.String()]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.mints[m.Address.String()] = m
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.mints[m.Address.String()] = m
	return nil
}

func (r *stubTokenRepo) GetAccount(_ context.Context, address solana.PublicKey) (token.Account, error) {
	a, ok := r.accounts[address.String()]
	if !ok {
		return token.Account{}, ports.ErrNotFound
	}
	return a, nil
}

func (r *stubTokenRepo) SaveAccountWithVersion(_ context.Context, a token.Account, expectedVersion int64) error {
	current, ok := r.accounts[a.Address.String()]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.accounts[a.Address.String()] = a
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.accounts[a.Address.String()] = a
	return nil
}

type stubEventRepo struct {
	events []game.DomainEvent
}

func (r *stubEventRepo) Append(_ context.Context, _ solana.PublicKey, events []game.DomainEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *stubEventRepo) ListByGame(_ context.Context, _ solana.PublicKey, limit int) ([]game.DomainEvent, error) {
	if limit <= 0 || limit > len(r.events) {
		limit = len(r.events)
	}
	out := make([]game.DomainEvent, limit)
	copy(out, r.events[:limit])
	return out, nil
}

func (r *stubEventRepo) lastType() string {
	if len(r.events) == 0 {
		return ""
	}
	return r.events[len(r.events)-1].Type
}

type stubJournal struct {
	records []ports.InstructionRecord
}

func (r *stubJournal) Append(_ context.Context, record ports.InstructionRecord) error {
	r.records = append(r.records, record)
	return nil
}

func (r *stubJournal) ListByGame(_ context.Context, gameAddress solana.PublicKey, limit int) ([]ports.InstructionRecord, error) {
	var out []ports.InstructionRecord
	for _, record := range r.records {
		if record.GameAddress == gameAddress {
			out = append(out, record)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type stubMetrics struct {
	applied      map[string]int
	rejected     map[string]int
	lastRejected string
}

func (m *stubMetrics) RecordApplied(instruction string) {
	if m.applied == nil {
		m.applied = map[string]int{}
	}
	m.applied[instruction]++
}

func (m *stubMetrics) RecordRejected(instruction, code string) {
	if m.rejected == nil {
		m.rejected = map[string]int{}
	}
	m.rejected[instruction]++
	m.lastRejected = code
}

// testEnv wires an Executor to the stub adapters with a controllable clock.
type testEnv struct {
	games         *stubGameRepo
	agents        *stubAgentRepo
	stakes        *stubStakeRepo
	tokens        *stubTokenRepo
	events        *stubEventRepo
	journal       *stubJournal
	metrics       *stubMetrics
	mintAuthority solana.PublicKey
	mint          solana.PublicKey
	now           time.Time
	exec          Executor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		games:         &stubGameRepo{byAddress: map[string]game.Game{}},
		agents:        &stubAgentRepo{byAddress: map[string]game.Agent{}},
		stakes:        &stubStakeRepo{byAddress: map[string]game.StakeInfo{}},
		tokens:        &stubTokenRepo{mints: map[string]token.Mint{}, accounts: map[string]token.Account{}},
		events:        &stubEventRepo{},
		journal:       &stubJournal{},
		metrics:       &stubMetrics{},
		mintAuthority: solana.NewWallet().PublicKey(),
		now:           time.Unix(1_700_000_000, 0).UTC(),
	}
	mintAddress, _, err := pda.Mint(env.mintAuthority)
	if err != nil {
		t.Fatalf("derive mint: %v", err)
	}
	env.mint = mintAddress
	env.tokens.mints[mintAddress.String()] = token.Mint{
		Address:       mintAddress,
		MintAuthority: env.mintAuthority,
		Decimals:      game.TokenDecimals,
		Version:       1,
		UpdatedAt:     env.now,
	}
	env.exec = Executor{
		Tx:      stubTxManager{},
		Games:   env.games,
		Agents:  env.agents,
		Stakes:  env.stakes,
		Tokens:  env.tokens,
		Events:  env.events,
		Journal: env.journal,
		Metrics: env.metrics,
		Log:     zerolog.Nop(),
		Mint:    mintAddress,
		Now:     func() time.Time { return env.now },
	}
	return env
}

func (env *testEnv) advance(d time.Duration) {
	env.now = env.now.Add(d)
}

func asDuration(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}

func (env *testEnv) unix() int64 {
	return env.now.Unix()
}

func gameBump(t *testing.T, gameID uint32) uint8 {
	t.Helper()
	_, bump, err := pda.Game(gameID)
	if err != nil {
		t.Fatalf("derive game: %v", err)
	}
	return bump
}

func (env *testEnv) seedGame(t *testing.T, gameID uint32, authority solana.PublicKey) game.Game {
	t.Helper()
	resp, err := env.exec.InitializeGame(context.Background(), InitializeGameRequest{
		Signer: authority,
		GameID: gameID,
		Bump:   gameBump(t, gameID),
	})
	if err != nil {
		t.Fatalf("initialize game %d: %v", gameID, err)
	}
	return resp.Game
}

func (env *testEnv) seedAgent(t *testing.T, gameID uint32, agentID uint8, authority solana.PublicKey, x, y int32) game.Agent {
	t.Helper()
	resp, err := env.exec.RegisterAgent(context.Background(), RegisterAgentRequest{
		Signer:  authority,
		GameID:  gameID,
		AgentID: agentID,
		X:       x,
		Y:       y,
		Name:    "agent",
	})
	if err != nil {
		t.Fatalf("register agent %d: %v", agentID, err)
	}
	return resp.Agent
}

// seedHolder mints balance into a fresh wallet's token account and returns
// the wallet public key.
func (env *testEnv) seedHolder(t *testing.T, balance uint64) solana.PublicKey {
	t.Helper()
	owner := solana.NewWallet().PublicKey()
	if balance > 0 {
		_, err := env.exec.MintTokens(context.Background(), MintTokensRequest{
			Signer: env.mintAuthority,
			To:     owner,
			Amount: balance,
		})
		if err != nil {
			t.Fatalf("mint to holder: %v", err)
		}
	} else {
		_, err := env.exec.CreateTokenAccount(context.Background(), CreateTokenAccountRequest{
			Signer: owner,
			Owner:  owner,
		})
		if err != nil {
			t.Fatalf("create holder account: %v", err)
		}
	}
	return owner
}

// fundAgentBalance gives the agent a liquid battle balance via a funded
// holder.
func (env *testEnv) fundAgentBalance(t *testing.T, gameID uint32, agentID uint8, amount uint64) {
	t.Helper()
	holder := env.seedHolder(t, amount)
	_, err := env.exec.FundAgent(context.Background(), FundAgentRequest{
		Signer:  holder,
		GameID:  gameID,
		AgentID: agentID,
		Amount:  amount,
	})
	if err != nil {
		t.Fatalf("fund agent %d: %v", agentID, err)
	}
}

// pokeRewardsVault deposits rewards out-of-band, standing in for the funding
// transfer an operator would make.
func (env *testEnv) pokeRewardsVault(t *testing.T, g game.Game, amount uint64) {
	t.Helper()
	vault, ok := env.tokens.accounts[g.RewardsVault.String()]
	if !ok {
		t.Fatalf("rewards vault missing for game %d", g.GameID)
	}
	vault.Amount += amount
	env.tokens.accounts[g.RewardsVault.String()] = vault
}

// pokeAgentVault simulates a direct transfer into the stake vault, the drift
// the share math has to absorb.
func (env *testEnv) pokeAgentVault(t *testing.T, agentAddress solana.PublicKey, amount uint64) {
	t.Helper()
	vaultAddress, _, err := pda.AgentVault(agentAddress)
	if err != nil {
		t.Fatalf("derive vault: %v", err)
	}
	vault, ok := env.tokens.accounts[vaultAddress.String()]
	if !ok {
		t.Fatalf("agent vault missing")
	}
	vault.Amount += amount
	env.tokens.accounts[vaultAddress.String()] = vault
}

func (env *testEnv) getAgent(t *testing.T, gameID uint32, agentID uint8) game.Agent {
	t.Helper()
	gameAddress, _, err := pda.Game(gameID)
	if err != nil {
		t.Fatalf("derive game: %v", err)
	}
	agentAddress, _, err := pda.Agent(gameAddress, agentID)
	if err != nil {
		t.Fatalf("derive agent: %v", err)
	}
	agent, ok := env.agents.byAddress[agentAddress.String()]
	if !ok {
		t.Fatalf("agent %d not stored", agentID)
	}
	return agent
}

func (env *testEnv) getGame(t *testing.T, gameID uint32) game.Game {
	t.Helper()
	gameAddress, _, err := pda.Game(gameID)
	if err != nil {
		t.Fatalf("derive game: %v", err)
	}
	g, ok := env.games.byAddress[gameAddress.String()]
	if !ok {
		t.Fatalf("game %d not stored", gameID)
	}
	return g
}

func (env *testEnv) getHolderBalance(t *testing.T, owner solana.PublicKey) uint64 {
	t.Helper()
	address, _, err := pda.TokenAccount(env.mint, owner)
	if err != nil {
		t.Fatalf("derive token account: %v", err)
	}
	account, ok := env.tokens.accounts[address.String()]
	if !ok {
		t.Fatalf("token account missing for %s", owner)
	}
	return account.Amount
}

func (env *testEnv) getVaultBalance(t *testing.T, agentAddress solana.PublicKey) uint64 {
	t.Helper()
	vaultAddress, _, err := pda.AgentVault(agentAddress)
	if err != nil {
		t.Fatalf("derive vault: %v", err)
	}
	vault, ok := env.tokens.accounts[vaultAddress.String()]
	if !ok {
		t.Fatalf("agent vault missing")
	}
	return vault.Amount
}

func (env *testEnv) getStake(t *testing.T, agentAddress, staker solana.PublicKey) game.StakeInfo {
	t.Helper()
	address, _, err := pda.Stake(agentAddress, staker)
	if err != nil {
		t.Fatalf("derive stake: %v", err)
	}
	s, ok := env.stakes.byAddress[address.String()]
	if !ok {
		t.Fatalf("stake not stored for %s", staker)
	}
	return s
}
