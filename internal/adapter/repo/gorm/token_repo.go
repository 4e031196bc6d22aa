package gormrepo

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"gorm.io/gorm"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/adapter/repo/gorm/model"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/token"
)

type TokenRepo struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) TokenRepo {
	return TokenRepo{db: db}
}

func (r TokenRepo) GetMint(ctx context.Context, address solana.PublicKey) (token.Mint, error) {
	var m model.TokenMint
	if err := session(ctx, r.db).Where("address = ?", address.String()).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return token.Mint{}, ports.ErrNotFound
		}
		return token.Mint{}, err
	}
	return mintFromModel(m)
}

func (r TokenRepo) SaveMintWithVersion(ctx context.Context, m token.Mint, expectedVersion int64) error {
	db := session(ctx, r.db)
	row := model.TokenMint{
		Address:       m.Address.String(),
		MintAuthority: m.MintAuthority.String(),
		Supply:        int64(m.Supply),
		Decimals:      int16(m.Decimals),
		Version:       m.Version,
		UpdatedAt:     m.UpdatedAt,
	}
	if expectedVersion == 0 {
		if err := db.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.TokenMint{}).
		Where("address = ? AND version = ?", row.Address, expectedVersion).
		Updates(map[string]any{
			"mint_authority": row.MintAuthority,
			"supply":         row.Supply,
			"version":        row.Version,
			"updated_at":     row.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r TokenRepo) GetAccount(ctx context.Context, address solana.PublicKey) (token.Account, error) {
	var m model.TokenAccount
	if err := session(ctx, r.db).Where("address = ?", address.String()).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return token.Account{}, ports.ErrNotFound
		}
		return token.Account{}, err
	}
	return accountFromModel(m)
}

func (r TokenRepo) SaveAccountWithVersion(ctx context.Context, a token.Account, expectedVersion int64) error {
	db := session(ctx, r.db)
	row := model.TokenAccount{
		Address:   a.Address.String(),
		Mint:      a.Mint.String(),
		Owner:     a.Owner.String(),
		Amount:    int64(a.Amount),
		Version:   a.Version,
		UpdatedAt: a.UpdatedAt,
	}
	if expectedVersion == 0 {
		if err := db.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.TokenAccount{}).
		Where("address = ? AND version = ?", row.Address, expectedVersion).
		Updates(map[string]any{
			"amount":     row.Amount,
			"version":    row.Version,
			"updated_at": row.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func mintFromModel(m model.TokenMint) (token.Mint, error) {
	var p keyParser
	out := token.Mint{
		Address:       p.key(m.Address),
		MintAuthority: p.key(m.MintAuthority),
		Supply:        uint64(m.Supply),
		Decimals:      uint8(m.Decimals),
		Version:       m.Version,
		UpdatedAt:     m.UpdatedAt,
	}
	if p.err != nil {
		return token.Mint{}, p.err
	}
	return out, nil
}

func accountFromModel(m model.TokenAccount) (token.Account, error) {
	var p keyParser
	out := token.Account{
		Address:   p.key(m.Address),
		Mint:      p.key(m.Mint),
		Owner:     p.key(m.Owner),
		Amount:    uint64(m.Amount),
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}
	if p.err != nil {
		return token.Account{}, p.err
	}
	return out, nil
}
