package gormrepo

import (
	"context"
	"encoding/json"

	"github.com/gagliardetto/solana-go"
	"gorm.io/gorm"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/adapter/repo/gorm/model"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/app/ports"
)

type JournalRepo struct {
	db *gorm.DB
}

func NewJournalRepo(db *gorm.DB) JournalRepo {
	return JournalRepo{db: db}
}

func (r JournalRepo) Append(ctx context.Context, record ports.InstructionRecord) error {
	args, _ := json.Marshal(record.Args)
	row := model.InstructionRecord{
		TxID:        record.TxID,
		GameAddress: record.GameAddress.String(),
		Instruction: record.Instruction,
		Signer:      record.Signer.String(),
		Args:        args,
		AppliedAt:   record.AppliedAt,
	}
	return session(ctx, r.db).Create(&row).Error
}

// ListByGame returns records oldest first. The serial key carries the
// insertion order; applied_at cannot break ties between instructions
// landing in the same clock tick.
func (r JournalRepo) ListByGame(ctx context.Context, gameAddress solana.PublicKey, limit int) ([]ports.InstructionRecord, error) {
	rows := []model.InstructionRecord{}
	query := session(ctx, r.db).
		Where("game_address = ?", gameAddress.String()).
		Order("seq ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.InstructionRecord, 0, len(rows))
	for _, row := range rows {
		var p keyParser
		gameKey := p.key(row.GameAddress)
		signer := p.key(row.Signer)
		if p.err != nil {
			return nil, p.err
		}
		var args map[string]any
		if len(row.Args) > 0 {
			_ = json.Unmarshal(row.Args, &args)
		}
		out = append(out, ports.InstructionRecord{
			TxID:        row.TxID,
			GameAddress: gameKey,
			Instruction: row.Instruction,
			Signer:      signer,
			Args:        args,
			AppliedAt:   row.AppliedAt,
		})
	}
	return out, nil
}
