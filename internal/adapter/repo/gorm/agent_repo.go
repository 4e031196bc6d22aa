package gormrepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gagliardetto/solana-go"
	"gorm.io/gorm"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/adapter/repo/gorm/model"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
)

type AgentRepo struct {
	db *gorm.DB
}

func NewAgentRepo(db *gorm.DB) AgentRepo {
	return AgentRepo{db: db}
}

func (r AgentRepo) GetByAddress(ctx context.Context, address solana.PublicKey) (game.Agent, error) {
	var m model.Agent
	if err := session(ctx, r.db).Where("address = ?", address.String()).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.Agent{}, ports.ErrNotFound
		}
		return game.Agent{}, err
	}
	return agentFromModel(m)
}

func (r AgentRepo) SaveWithVersion(ctx context.Context, a game.Agent, expectedVersion int64) error {
	db := session(ctx, r.db)
	m := agentToModel(a)
	if expectedVersion == 0 {
		if err := db.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.Agent{}).
		Where("address = ? AND version = ?", m.Address, expectedVersion).
		Updates(map[string]any{
			"authority":            m.Authority,
			"x":                    m.X,
			"y":                    m.Y,
			"is_alive":             m.IsAlive,
			"last_move":            m.LastMove,
			"next_move_time":       m.NextMoveTime,
			"last_battle":          m.LastBattle,
			"last_attack":          m.LastAttack,
			"current_battle_start": m.CurrentBattleStart,
			"alliance_with":        m.AllianceWith,
			"alliance_timestamp":   m.AllianceTimestamp,
			"last_alliance":        m.LastAlliance,
			"last_alliance_agent":  m.LastAllianceAgent,
			"last_alliance_broken": m.LastAllianceBroken,
			"last_ignore":          m.LastIgnore,
			"ignore_cooldowns":     m.IgnoreCooldowns,
			"token_balance":        m.TokenBalance,
			"staked_balance":       m.StakedBalance,
			"total_shares":         m.TotalShares,
			"last_reward_claim":    m.LastRewardClaim,
			"version":              m.Version,
			"updated_at":           m.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func agentToModel(a game.Agent) model.Agent {
	ignores, _ := json.Marshal(a.IgnoreCooldowns)
	return model.Agent{
		Address:            a.Address.String(),
		GameAddress:        a.Game.String(),
		Authority:          a.Authority.String(),
		AgentID:            int16(a.ID),
		X:                  a.X,
		Y:                  a.Y,
		IsAlive:            a.IsAlive,
		LastMove:           a.LastMove,
		NextMoveTime:       a.NextMoveTime,
		LastBattle:         a.LastBattle,
		LastAttack:         a.LastAttack,
		CurrentBattleStart: a.CurrentBattleStart,
		AllianceWith:       keyPtrString(a.AllianceWith),
		AllianceTimestamp:  a.AllianceTimestamp,
		LastAlliance:       a.LastAlliance,
		LastAllianceAgent:  keyPtrString(a.LastAllianceAgent),
		LastAllianceBroken: a.LastAllianceBroken,
		LastIgnore:         a.LastIgnore,
		IgnoreCooldowns:    ignores,
		TokenBalance:       int64(a.TokenBalance),
		StakedBalance:      int64(a.StakedBalance),
		TotalShares:        int64(a.TotalShares),
		LastRewardClaim:    a.LastRewardClaim,
		VaultBump:          int16(a.VaultBump),
		Version:            a.Version,
		UpdatedAt:          a.UpdatedAt,
	}
}

func agentFromModel(m model.Agent) (game.Agent, error) {
	var p keyParser
	a := game.Agent{
		Address:            p.key(m.Address),
		Game:               p.key(m.GameAddress),
		Authority:          p.key(m.Authority),
		ID:                 uint8(m.AgentID),
		X:                  m.X,
		Y:                  m.Y,
		IsAlive:            m.IsAlive,
		LastMove:           m.LastMove,
		NextMoveTime:       m.NextMoveTime,
		LastBattle:         m.LastBattle,
		LastAttack:         m.LastAttack,
		AllianceWith:       p.keyPtr(m.AllianceWith),
		AllianceTimestamp:  m.AllianceTimestamp,
		LastAlliance:       m.LastAlliance,
		LastAllianceAgent:  p.keyPtr(m.LastAllianceAgent),
		LastAllianceBroken: m.LastAllianceBroken,
		LastIgnore:         m.LastIgnore,
		TokenBalance:       uint64(m.TokenBalance),
		StakedBalance:      uint64(m.StakedBalance),
		TotalShares:        uint64(m.TotalShares),
		LastRewardClaim:    m.LastRewardClaim,
		VaultBump:          uint8(m.VaultBump),
		Version:            m.Version,
		UpdatedAt:          m.UpdatedAt,
	}
	if p.err != nil {
		return game.Agent{}, p.err
	}
	if m.CurrentBattleStart != nil {
		start := *m.CurrentBattleStart
		a.CurrentBattleStart = &start
	}
	if len(m.IgnoreCooldowns) > 0 {
		if err := json.Unmarshal(m.IgnoreCooldowns, &a.IgnoreCooldowns); err != nil {
			return game.Agent{}, err
		}
	}
	return a, nil
}
