package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	httpadapter "github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/adapter/http"
	metricsinmem "github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/adapter/metrics/inmemory"
	gormrepo "github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/adapter/repo/gorm"
	memoryrepo "github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/adapter/repo/memory"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/auth"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/idl"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/instruction"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/query"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/replay"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/pda"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

// repoSet carries one wired set of ports, either postgres or in-memory.
type repoSet struct {
	games   ports.GameRepository
	agents  ports.AgentRepository
	stakes  ports.StakeRepository
	tokens  ports.TokenRepository
	events  ports.EventRepository
	journal ports.InstructionJournal
	tx      ports.TxManager
}

func main() {
	logger := buildLogger()

	repos := mustBuildRepos(logger)
	mintAuthority := mustMintAuthority(logger)
	mint := mustBootstrapMint(logger, repos.tokens, mintAuthority)

	recorder := metricsinmem.NewRecorder()
	now := func() time.Time { return time.Now().UTC() }

	h := httpadapter.Handler{
		AuthUC: auth.VerifyUseCase{},
		Exec: instruction.Executor{
			Tx:      repos.tx,
			Games:   repos.games,
			Agents:  repos.agents,
			Stakes:  repos.stakes,
			Tokens:  repos.tokens,
			Events:  repos.events,
			Journal: repos.journal,
			Metrics: recorder,
			Log:     logger,
			Mint:    mint,
			Now:     now,
		},
		QueryUC: query.UseCase{
			Games:    repos.games,
			Agents:   repos.agents,
			Stakes:   repos.stakes,
			Tokens:   repos.tokens,
			Journals: repos.journal,
			Mint:     mint,
			Now:      now,
		},
		ReplayUC: replay.UseCase{Events: repos.events},
		IDLUC:    idl.UseCase{},
		KPI:      recorder,
	}

	addr := envOr("MEAI_HTTP_ADDR", ":8080")
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	logger.Info().
		Str("addr", addr).
		Str("program", pda.ProgramID.String()).
		Str("mint", mint.String()).
		Msg("server listening")
	s.Spin()
}

func buildLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("MEAI_LOG_LEVEL")); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

// mustBuildRepos connects to postgres when MEAI_DB_DSN is set and falls
// back to the in-memory store otherwise. The memory store loses state on
// restart; it exists for local runs and tests.
func mustBuildRepos(logger zerolog.Logger) repoSet {
	dsn := strings.TrimSpace(os.Getenv("MEAI_DB_DSN"))
	if dsn == "" {
		logger.Warn().Msg("MEAI_DB_DSN not set, state is in-memory only")
		store := memoryrepo.NewStore()
		return repoSet{
			games:   memoryrepo.NewGameRepo(store),
			agents:  memoryrepo.NewAgentRepo(store),
			stakes:  memoryrepo.NewStakeRepo(store),
			tokens:  memoryrepo.NewTokenRepo(store),
			events:  memoryrepo.NewEventRepo(store),
			journal: memoryrepo.NewJournalRepo(store),
			tx:      memoryrepo.NewTxManager(store),
		}
	}

	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("open postgres")
	}
	if err := gormrepo.ApplyMigrations(context.Background(), db); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}
	return repoSet{
		games:   gormrepo.NewGameRepo(db),
		agents:  gormrepo.NewAgentRepo(db),
		stakes:  gormrepo.NewStakeRepo(db),
		tokens:  gormrepo.NewTokenRepo(db),
		events:  gormrepo.NewEventRepo(db),
		journal: gormrepo.NewJournalRepo(db),
		tx:      gormrepo.NewTxManager(db),
	}
}

// mustMintAuthority reads the operator key that may mint tokens. The server
// never holds a private key; it only checks signatures against this one.
func mustMintAuthority(logger zerolog.Logger) solana.PublicKey {
	raw := strings.TrimSpace(os.Getenv("MEAI_MINT_AUTHORITY"))
	if raw == "" {
		logger.Fatal().Msg("MEAI_MINT_AUTHORITY is required")
	}
	pub, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse MEAI_MINT_AUTHORITY")
	}
	return pub
}

// mustBootstrapMint creates the token mint at its derived address on first
// start and leaves it alone afterwards.
func mustBootstrapMint(logger zerolog.Logger, tokens ports.TokenRepository, authority solana.PublicKey) solana.PublicKey {
	mint, _, err := pda.Mint(authority)
	if err != nil {
		logger.Fatal().Err(err).Msg("derive mint")
	}

	_, err = tokens.GetMint(context.Background(), mint)
	if err != nil && errors.Is(err, ports.ErrNotFound) {
		seed := token.Mint{
			Address:       mint,
			MintAuthority: authority,
			Decimals:      game.TokenDecimals,
			Version:       1,
			UpdatedAt:     time.Now().UTC(),
		}
		if saveErr := tokens.SaveMintWithVersion(context.Background(), seed, 0); saveErr != nil {
			logger.Fatal().Err(saveErr).Msg("seed token mint")
		}
		logger.Info().Str("mint", mint.String()).Msg("token mint created")
	} else if err != nil {
		logger.Fatal().Err(err).Msg("load token mint")
	}
	return mint
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
