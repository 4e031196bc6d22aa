package gormrepo

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"gorm.io/gorm"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/adapter/repo/gorm/model"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
)

type StakeRepo struct {
	db *gorm.DB
}

func NewStakeRepo(db *gorm.DB) StakeRepo {
	return StakeRepo{db: db}
}

func (r StakeRepo) GetByAddress(ctx context.Context, address solana.PublicKey) (game.StakeInfo, error) {
	var m model.StakeInfo
	if err := session(ctx, r.db).Where("address = ?", address.String()).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.StakeInfo{}, ports.ErrNotFound
		}
		return game.StakeInfo{}, err
	}
	return stakeFromModel(m)
}

func (r StakeRepo) ListByAgent(ctx context.Context, agent solana.PublicKey) ([]game.StakeInfo, error) {
	rows := []model.StakeInfo{}
	if err := session(ctx, r.db).Where("agent_address = ?", agent.String()).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]game.StakeInfo, 0, len(rows))
	for _, row := range rows {
		s, err := stakeFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r StakeRepo) SaveWithVersion(ctx context.Context, s game.StakeInfo, expectedVersion int64) error {
	db := session(ctx, r.db)
	m := stakeToModel(s)
	if expectedVersion == 0 {
		if err := db.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.StakeInfo{}).
		Where("address = ? AND version = ?", m.Address, expectedVersion).
		Updates(map[string]any{
			"amount":                m.Amount,
			"shares":                m.Shares,
			"last_reward_timestamp": m.LastRewardTimestamp,
			"cooldown_ends_at":      m.CooldownEndsAt,
			"is_initialized":        m.IsInitialized,
			"version":               m.Version,
			"updated_at":            m.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func stakeToModel(s game.StakeInfo) model.StakeInfo {
	return model.StakeInfo{
		Address:             s.Address.String(),
		AgentAddress:        s.Agent.String(),
		Staker:              s.Staker.String(),
		Amount:              int64(s.Amount),
		Shares:              int64(s.Shares),
		LastRewardTimestamp: s.LastRewardTimestamp,
		CooldownEndsAt:      s.CooldownEndsAt,
		IsInitialized:       s.IsInitialized,
		Version:             s.Version,
		UpdatedAt:           s.UpdatedAt,
	}
}

func stakeFromModel(m model.StakeInfo) (game.StakeInfo, error) {
	var p keyParser
	s := game.StakeInfo{
		Address:             p.key(m.Address),
		Agent:               p.key(m.AgentAddress),
		Staker:              p.key(m.Staker),
		Amount:              uint64(m.Amount),
		Shares:              uint64(m.Shares),
		LastRewardTimestamp: m.LastRewardTimestamp,
		CooldownEndsAt:      m.CooldownEndsAt,
		IsInitialized:       m.IsInitialized,
		Version:             m.Version,
		UpdatedAt:           m.UpdatedAt,
	}
	if p.err != nil {
		return game.StakeInfo{}, p.err
	}
	return s, nil
}
