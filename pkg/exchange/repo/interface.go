package repo

import (
	"context"

	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
)

type ISettlementEvent interface {
	Create(ctx context.Context, record *model.SettlementEvent) (*model.SettlementEvent, error)
	BulkCreate(ctx context.Context, records []*model.SettlementEvent) ([]*model.SettlementEvent, error)
	ListBySymbol(ctx context.Context, symbol string, limit int) ([]*model.SettlementEvent, error)
}
