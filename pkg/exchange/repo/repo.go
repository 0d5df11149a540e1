package repo

import (
	"gorm.io/gorm"
)

type IRepo interface {
	SettlementEvent() ISettlementEvent
}

type Repo struct {
	marketDB *gorm.DB
}

func NewRepo(marketDB *gorm.DB) IRepo {
	return &Repo{
		marketDB: marketDB,
	}
}

func (r *Repo) SettlementEvent() ISettlementEvent {
	return NewSettlementEventSQLRepo(r.marketDB)
}
