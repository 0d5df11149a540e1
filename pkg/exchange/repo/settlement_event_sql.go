package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/joripage/stockmarket-dev/pkg/exchange/model"
)

type SettlementEventSQLRepo struct {
	db *gorm.DB
}

func NewSettlementEventSQLRepo(db *gorm.DB) *SettlementEventSQLRepo {
	return &SettlementEventSQLRepo{
		db: db,
	}
}

func (s *SettlementEventSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *SettlementEventSQLRepo) Create(ctx context.Context, record *model.SettlementEvent) (*model.SettlementEvent, error) {
	return record, s.dbWithContext(ctx).Create(record).Error
}

func (s *SettlementEventSQLRepo) BulkCreate(ctx context.Context, records []*model.SettlementEvent) ([]*model.SettlementEvent, error) {
	return records, s.dbWithContext(ctx).Create(records).Error
}

func (s *SettlementEventSQLRepo) ListBySymbol(ctx context.Context, symbol string, limit int) ([]*model.SettlementEvent, error) {
	var records []*model.SettlementEvent
	tx := s.dbWithContext(ctx).
		Where("symbol = ?", symbol).
		Order("ts desc")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	return records, tx.Find(&records).Error
}
