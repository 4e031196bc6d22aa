package gormrepo

import (
	"context"
	"encoding/json"

	"github.com/gagliardetto/solana-go"
	"gorm.io/gorm"

	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/adapter/repo/gorm/model"
	"github.com/MiddleEarthAI/middle-earth-ai-program-sub000/internal/domain/game"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, gameAddress solana.PublicKey, events []game.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.DomainEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.DomainEvent{
			GameAddress: gameAddress.String(),
			Type:        e.Type,
			OccurredAt:  e.OccurredAt,
			Payload:     b,
		})
	}
	return session(ctx, r.db).Create(&rows).Error
}

// ListByGame returns events oldest first. Replay folds over them in
// order, so insertion order is the contract, not recency.
func (r EventRepo) ListByGame(ctx context.Context, gameAddress solana.PublicKey, limit int) ([]game.DomainEvent, error) {
	rows := []model.DomainEvent{}
	query := session(ctx, r.db).
		Where("game_address = ?", gameAddress.String()).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]game.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, game.DomainEvent{
			Type:       row.Type,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
