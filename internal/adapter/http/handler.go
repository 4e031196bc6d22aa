package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/auth"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/idl"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/instruction"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/query"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/replay"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/gagliardetto/solana-go"
)

const signerHeader = "X-Signer"
const signatureHeader = "X-Signature"

type Handler struct {
	AuthUC   auth.VerifyUseCase
	Exec     instruction.Executor
	QueryUC  query.UseCase
	ReplayUC replay.UseCase
	IDLUC    idl.UseCase
	KPI      kpiSnapshotProvider
}

// RegisterRoutes mounts one POST route per instruction under /api/tx, the
// route path being the instruction name from the published manifest, plus
// the unauthenticated read surface.
func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	tx := s.Group("/api/tx")
	tx.POST("/initialize_game", h.initializeGame)
	tx.POST("/end_game", h.endGame)
	tx.POST("/update_daily_rewards", h.updateDailyRewards)
	tx.POST("/set_agent_cooldown", h.setAgentCooldown)
	tx.POST("/register_agent", h.registerAgent)
	tx.POST("/kill_agent", h.killAgent)
	tx.POST("/move_agent", h.moveAgent)
	tx.POST("/ignore_agent", h.ignoreAgent)
	tx.POST("/form_alliance", h.formAlliance)
	tx.POST("/break_alliance", h.breakAlliance)
	tx.POST("/start_battle", h.startBattle)
	tx.POST("/resolve_battle_simple", h.resolveBattleSimple)
	tx.POST("/resolve_battle_agent_vs_alliance", h.resolveBattleAgentVsAlliance)
	tx.POST("/resolve_battle_alliance_vs_alliance", h.resolveBattleAllianceVsAlliance)
	tx.POST("/initialize_stake", h.initializeStake)
	tx.POST("/stake_tokens", h.stakeTokens)
	tx.POST("/unstake_tokens", h.unstakeTokens)
	tx.POST("/claim_staking_rewards", h.claimStakingRewards)
	tx.POST("/create_token_account", h.createTokenAccount)
	tx.POST("/mint_tokens", h.mintTokens)
	tx.POST("/fund_agent", h.fundAgent)

	api := s.Group("/api")
	api.GET("/game", h.game)
	api.GET("/agent", h.agent)
	api.GET("/agent/stakes", h.agentStakes)
	api.GET("/stake", h.stake)
	api.GET("/token-account", h.tokenAccount)
	api.GET("/events", h.events)
	api.GET("/journal", h.journal)
	api.GET("/idl", h.idl)

	s.GET("/ops/kpi", h.kpi)
}

type initializeGameBody struct {
	GameID uint32 `json:"game_id"`
	Bump   uint8  `json:"bump"`
}

type gameBody struct {
	GameID uint32 `json:"game_id"`
}

type updateDailyRewardsBody struct {
	GameID             uint32 `json:"game_id"`
	NewDailyRewardRate uint64 `json:"new_daily_reward_rate"`
}

type setAgentCooldownBody struct {
	GameID      uint32 `json:"game_id"`
	AgentID     uint8  `json:"agent_id"`
	NewCooldown int64  `json:"new_cooldown"`
}

type registerAgentBody struct {
	GameID  uint32 `json:"game_id"`
	AgentID uint8  `json:"agent_id"`
	X       int32  `json:"x"`
	Y       int32  `json:"y"`
	Name    string `json:"name"`
}

type agentBody struct {
	GameID  uint32 `json:"game_id"`
	AgentID uint8  `json:"agent_id"`
}

type moveAgentBody struct {
	GameID  uint32 `json:"game_id"`
	AgentID uint8  `json:"agent_id"`
	X       int32  `json:"x"`
	Y       int32  `json:"y"`
	Terrain string `json:"terrain"`
}

type ignoreAgentBody struct {
	GameID        uint32 `json:"game_id"`
	AgentID       uint8  `json:"agent_id"`
	TargetAgentID uint8  `json:"target_agent_id"`
}

type allianceBody struct {
	GameID      uint32 `json:"game_id"`
	InitiatorID uint8  `json:"initiator_id"`
	TargetID    uint8  `json:"target_id"`
}

type startBattleBody struct {
	GameID     uint32 `json:"game_id"`
	AttackerID uint8  `json:"attacker_id"`
	DefenderID uint8  `json:"defender_id"`
}

type resolveBattleSimpleBody struct {
	GameID         uint32 `json:"game_id"`
	WinnerID       uint8  `json:"winner_id"`
	LoserID        uint8  `json:"loser_id"`
	TransferAmount uint64 `json:"transfer_amount"`
}

type resolveBattleAgentVsAllianceBody struct {
	GameID            uint32 `json:"game_id"`
	AgentID           uint8  `json:"agent_id"`
	AllianceLeaderID  uint8  `json:"alliance_leader_id"`
	AlliancePartnerID uint8  `json:"alliance_partner_id"`
	TransferAmount    uint64 `json:"transfer_amount"`
	AgentIsWinner     bool   `json:"agent_is_winner"`
}

type resolveBattleAllianceVsAllianceBody struct {
	GameID          uint32 `json:"game_id"`
	WinnerID        uint8  `json:"winner_id"`
	WinnerPartnerID uint8  `json:"winner_partner_id"`
	LoserID         uint8  `json:"loser_id"`
	LoserPartnerID  uint8  `json:"loser_partner_id"`
	TransferAmount  uint64 `json:"transfer_amount"`
}

type stakeAmountBody struct {
	GameID  uint32 `json:"game_id"`
	AgentID uint8  `json:"agent_id"`
	Amount  uint64 `json:"amount"`
}

type createTokenAccountBody struct {
	Owner solana.PublicKey `json:"owner"`
}

type mintTokensBody struct {
	To     solana.PublicKey `json:"to"`
	Amount uint64           `json:"amount"`
}

func (h Handler) initializeGame(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body initializeGameBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.InitializeGame(c, instruction.InitializeGameRequest{
		Signer: signer,
		GameID: body.GameID,
		Bump:   body.Bump,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) endGame(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body gameBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.EndGame(c, instruction.EndGameRequest{Signer: signer, GameID: body.GameID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) updateDailyRewards(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body updateDailyRewardsBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.UpdateDailyRewards(c, instruction.UpdateDailyRewardsRequest{
		Signer:             signer,
		GameID:             body.GameID,
		NewDailyRewardRate: body.NewDailyRewardRate,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) setAgentCooldown(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body setAgentCooldownBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.SetAgentCooldown(c, instruction.SetAgentCooldownRequest{
		Signer:      signer,
		GameID:      body.GameID,
		AgentID:     body.AgentID,
		NewCooldown: body.NewCooldown,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) registerAgent(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body registerAgentBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.RegisterAgent(c, instruction.RegisterAgentRequest{
		Signer:  signer,
		GameID:  body.GameID,
		AgentID: body.AgentID,
		X:       body.X,
		Y:       body.Y,
		Name:    body.Name,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) killAgent(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body agentBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.KillAgent(c, instruction.KillAgentRequest{
		Signer:  signer,
		GameID:  body.GameID,
		AgentID: body.AgentID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) moveAgent(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body moveAgentBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.MoveAgent(c, instruction.MoveAgentRequest{
		Signer:  signer,
		GameID:  body.GameID,
		AgentID: body.AgentID,
		X:       body.X,
		Y:       body.Y,
		Terrain: game.Terrain(body.Terrain),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) ignoreAgent(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body ignoreAgentBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.IgnoreAgent(c, instruction.IgnoreAgentRequest{
		Signer:        signer,
		GameID:        body.GameID,
		AgentID:       body.AgentID,
		TargetAgentID: body.TargetAgentID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) formAlliance(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body allianceBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.FormAlliance(c, instruction.AllianceRequest{
		Signer:      signer,
		GameID:      body.GameID,
		InitiatorID: body.InitiatorID,
		TargetID:    body.TargetID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) breakAlliance(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body allianceBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.BreakAlliance(c, instruction.AllianceRequest{
		Signer:      signer,
		GameID:      body.GameID,
		InitiatorID: body.InitiatorID,
		TargetID:    body.TargetID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) startBattle(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body startBattleBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.StartBattle(c, instruction.StartBattleRequest{
		Signer:     signer,
		GameID:     body.GameID,
		AttackerID: body.AttackerID,
		DefenderID: body.DefenderID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) resolveBattleSimple(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body resolveBattleSimpleBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.ResolveBattleSimple(c, instruction.ResolveBattleSimpleRequest{
		Signer:         signer,
		GameID:         body.GameID,
		WinnerID:       body.WinnerID,
		LoserID:        body.LoserID,
		TransferAmount: body.TransferAmount,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) resolveBattleAgentVsAlliance(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body resolveBattleAgentVsAllianceBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.ResolveBattleAgentVsAlliance(c, instruction.ResolveBattleAgentVsAllianceRequest{
		Signer:            signer,
		GameID:            body.GameID,
		AgentID:           body.AgentID,
		AllianceLeaderID:  body.AllianceLeaderID,
		AlliancePartnerID: body.AlliancePartnerID,
		TransferAmount:    body.TransferAmount,
		AgentIsWinner:     body.AgentIsWinner,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) resolveBattleAllianceVsAlliance(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body resolveBattleAllianceVsAllianceBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.ResolveBattleAllianceVsAlliance(c, instruction.ResolveBattleAllianceVsAllianceRequest{
		Signer:          signer,
		GameID:          body.GameID,
		WinnerID:        body.WinnerID,
		WinnerPartnerID: body.WinnerPartnerID,
		LoserID:         body.LoserID,
		LoserPartnerID:  body.LoserPartnerID,
		TransferAmount:  body.TransferAmount,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) initializeStake(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body agentBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.InitializeStake(c, instruction.InitializeStakeRequest{
		Signer:  signer,
		GameID:  body.GameID,
		AgentID: body.AgentID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) stakeTokens(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body stakeAmountBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.StakeTokens(c, instruction.StakeTokensRequest{
		Signer:  signer,
		GameID:  body.GameID,
		AgentID: body.AgentID,
		Amount:  body.Amount,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) unstakeTokens(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body stakeAmountBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.UnstakeTokens(c, instruction.UnstakeTokensRequest{
		Signer:  signer,
		GameID:  body.GameID,
		AgentID: body.AgentID,
		Amount:  body.Amount,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) claimStakingRewards(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body agentBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.ClaimStakingRewards(c, instruction.ClaimRewardsRequest{
		Signer:  signer,
		GameID:  body.GameID,
		AgentID: body.AgentID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) createTokenAccount(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body createTokenAccountBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.CreateTokenAccount(c, instruction.CreateTokenAccountRequest{
		Signer: signer,
		Owner:  body.Owner,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) mintTokens(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body mintTokensBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.MintTokens(c, instruction.MintTokensRequest{
		Signer: signer,
		To:     body.To,
		Amount: body.Amount,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) fundAgent(c context.Context, ctx *app.RequestContext) {
	signer, err := h.requireSigner(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body stakeAmountBody
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", "invalid json")
		return
	}
	resp, err := h.Exec.FundAgent(c, instruction.FundAgentRequest{
		Signer:  signer,
		GameID:  body.GameID,
		AgentID: body.AgentID,
		Amount:  body.Amount,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) game(c context.Context, ctx *app.RequestContext) {
	gameID, err := queryGameID(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	resp, err := h.QueryUC.Game(c, query.GameRequest{GameID: gameID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) agent(c context.Context, ctx *app.RequestContext) {
	gameID, err := queryGameID(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	agentID, err := queryAgentID(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	resp, err := h.QueryUC.Agent(c, query.AgentRequest{GameID: gameID, AgentID: agentID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) stake(c context.Context, ctx *app.RequestContext) {
	gameID, err := queryGameID(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	agentID, err := queryAgentID(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	staker, err := queryPublicKey(ctx, "staker")
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	resp, err := h.QueryUC.Stake(c, query.StakeRequest{GameID: gameID, AgentID: agentID, Staker: staker})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) agentStakes(c context.Context, ctx *app.RequestContext) {
	gameID, err := queryGameID(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	agentID, err := queryAgentID(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	resp, err := h.QueryUC.AgentStakes(c, query.AgentStakesRequest{GameID: gameID, AgentID: agentID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) journal(c context.Context, ctx *app.RequestContext) {
	gameID, err := queryGameID(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	resp, err := h.QueryUC.Journal(c, query.JournalRequest{GameID: gameID, Limit: limit})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) tokenAccount(c context.Context, ctx *app.RequestContext) {
	owner, err := queryPublicKey(ctx, "owner")
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	resp, err := h.QueryUC.TokenAccount(c, query.TokenAccountRequest{Owner: owner})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) events(c context.Context, ctx *app.RequestContext) {
	gameID, err := queryGameID(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	occurredFrom, _ := strconv.ParseInt(ctx.Query("occurred_from"), 10, 64)
	occurredTo, _ := strconv.ParseInt(ctx.Query("occurred_to"), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		GameID:       gameID,
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) idl(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.IDLUC.Manifest(c))
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "AccountNotFound", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func queryGameID(ctx *app.RequestContext) (uint32, error) {
	raw := strings.TrimSpace(ctx.Query("game_id"))
	if raw == "" {
		return 0, errors.New("game_id is required")
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.New("game_id must be an unsigned 32-bit integer")
	}
	return uint32(n), nil
}

func queryAgentID(ctx *app.RequestContext) (uint8, error) {
	raw := strings.TrimSpace(ctx.Query("agent_id"))
	if raw == "" {
		return 0, errors.New("agent_id is required")
	}
	n, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, errors.New("agent_id must be an unsigned 8-bit integer")
	}
	return uint8(n), nil
}

func queryPublicKey(ctx *app.RequestContext, key string) (solana.PublicKey, error) {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return solana.PublicKey{}, errors.New(key + " is required")
	}
	pub, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, errors.New(key + " must be a base58 public key")
	}
	return pub, nil
}

var ErrMissingSignerHeader = errors.New("missing x-signer header")
var ErrMissingSignatureHeader = errors.New("missing x-signature header")

// requireSigner authenticates a mutating request. The signature in
// X-Signature must cover the raw request body exactly as sent; the verified
// key becomes the instruction signer, never anything from the body.
func (h Handler) requireSigner(c context.Context, ctx *app.RequestContext) (solana.PublicKey, error) {
	signer := strings.TrimSpace(string(ctx.GetHeader(signerHeader)))
	signature := strings.TrimSpace(string(ctx.GetHeader(signatureHeader)))
	if signer == "" {
		return solana.PublicKey{}, ErrMissingSignerHeader
	}
	if signature == "" {
		return solana.PublicKey{}, ErrMissingSignatureHeader
	}
	return h.AuthUC.Execute(c, auth.VerifyRequest{
		Signer:    signer,
		Signature: signature,
		Body:      ctx.Request.Body(),
	})
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingSignerHeader):
		writeErrorBody(ctx, consts.StatusUnauthorized, "MissingSigner", err.Error())
	case errors.Is(err, ErrMissingSignatureHeader):
		writeErrorBody(ctx, consts.StatusUnauthorized, "MissingSignature", err.Error())
	case errors.Is(err, auth.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusUnauthorized, "MissingSigner", err.Error())
	case errors.Is(err, auth.ErrInvalidSigner):
		writeErrorBody(ctx, consts.StatusUnauthorized, "InvalidSigner", err.Error())
	case errors.Is(err, auth.ErrInvalidSignature):
		writeErrorBody(ctx, consts.StatusUnauthorized, "InvalidSignature", err.Error())
	case errors.Is(err, query.ErrInvalidRequest), errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		code := instruction.RejectionCode(err)
		message := err.Error()
		if code == "Internal" {
			message = "internal error"
		}
		writeErrorBody(ctx, statusForCode(code), code, message)
	}
}

// statusForCode picks the HTTP status for a rejection code. Malformed
// arguments are bad requests, state and cooldown violations conflicts.
func statusForCode(code string) int {
	switch code {
	case "InvalidRequest", "InvalidAmount", "InvalidBump", "InvalidTerrain",
		"NameTooLong", "OutOfBounds", "InvalidAlliancePartner":
		return consts.StatusBadRequest
	case "Unauthorized":
		return consts.StatusForbidden
	case "AccountNotFound":
		return consts.StatusNotFound
	case "Internal":
		return consts.StatusInternalServerError
	default:
		return consts.StatusConflict
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
