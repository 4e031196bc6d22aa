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

type GameRepo struct {
	db *gorm.DB
}

func NewGameRepo(db *gorm.DB) GameRepo {
	return GameRepo{db: db}
}

func (r GameRepo) GetByAddress(ctx context.Context, address solana.PublicKey) (game.Game, error) {
	var m model.Game
	if err := session(ctx, r.db).Where("address = ?", address.String()).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.Game{}, ports.ErrNotFound
		}
		return game.Game{}, err
	}
	return gameFromModel(m)
}

func (r GameRepo) SaveWithVersion(ctx context.Context, g game.Game, expectedVersion int64) error {
	db := session(ctx, r.db)
	m := gameToModel(g)
	if expectedVersion == 0 {
		if err := db.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.Game{}).
		Where("address = ? AND version = ?", m.Address, expectedVersion).
		Updates(map[string]any{
			"authority":            m.Authority,
			"token_mint":           m.TokenMint,
			"rewards_vault":        m.RewardsVault,
			"map_diameter":         m.MapDiameter,
			"battle_range":         m.BattleRange,
			"is_active":            m.IsActive,
			"last_update":          m.LastUpdate,
			"reentrancy_guard":     m.ReentrancyGuard,
			"daily_reward_tokens":  m.DailyRewardTokens,
			"agents":               m.Agents,
			"total_stake_accounts": m.TotalStakeAccounts,
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

func gameToModel(g game.Game) model.Game {
	agents, _ := json.Marshal(g.Agents)
	stakes, _ := json.Marshal(g.TotalStakeAccounts)
	return model.Game{
		Address:            g.Address.String(),
		GameID:             int64(g.GameID),
		Authority:          g.Authority.String(),
		TokenMint:          g.TokenMint.String(),
		RewardsVault:       g.RewardsVault.String(),
		MapDiameter:        int32(g.MapDiameter),
		BattleRange:        int32(g.BattleRange),
		IsActive:           g.IsActive,
		LastUpdate:         g.LastUpdate,
		ReentrancyGuard:    g.ReentrancyGuard,
		Bump:               int16(g.Bump),
		DailyRewardTokens:  int64(g.DailyRewardTokens),
		Agents:             agents,
		TotalStakeAccounts: stakes,
		Version:            g.Version,
		UpdatedAt:          g.UpdatedAt,
	}
}

func gameFromModel(m model.Game) (game.Game, error) {
	var p keyParser
	g := game.Game{
		Address:           p.key(m.Address),
		GameID:            uint32(m.GameID),
		Authority:         p.key(m.Authority),
		TokenMint:         p.key(m.TokenMint),
		RewardsVault:      p.key(m.RewardsVault),
		MapDiameter:       uint32(m.MapDiameter),
		BattleRange:       uint32(m.BattleRange),
		IsActive:          m.IsActive,
		LastUpdate:        m.LastUpdate,
		ReentrancyGuard:   m.ReentrancyGuard,
		Bump:              uint8(m.Bump),
		DailyRewardTokens: uint64(m.DailyRewardTokens),
		Version:           m.Version,
		UpdatedAt:         m.UpdatedAt,
	}
	if p.err != nil {
		return game.Game{}, p.err
	}
	if len(m.Agents) > 0 {
		if err := json.Unmarshal(m.Agents, &g.Agents); err != nil {
			return game.Game{}, err
		}
	}
	if len(m.TotalStakeAccounts) > 0 {
		if err := json.Unmarshal(m.TotalStakeAccounts, &g.TotalStakeAccounts); err != nil {
			return game.Game{}, err
		}
	}
	return g, nil
}
