package repository

import (
	"fmt"

	"gorm.io/gorm"

	"studybuddy/internal/model"
)

type ExchangeRepository struct {
	db *gorm.DB
}

func NewExchangeRepository(db *gorm.DB) *ExchangeRepository {
	return &ExchangeRepository{db: db}
}

func (r *ExchangeRepository) Create(exchange *model.Exchange) error {
	if err := r.db.Create(exchange).Error; err != nil {
		return fmt.Errorf("create exchange failed: %w", err)
	}
	return nil
}

// ListRecentByRoomID returns the newest exchanges of a room in
// chronological order. Fetching newest-first and reversing keeps recent
// activity visible once a room outgrows the limit.
func (r *ExchangeRepository) ListRecentByRoomID(roomID uint, limit int) ([]model.Exchange, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var exchanges []model.Exchange
	if err := r.db.Where("room_id = ?", roomID).Order("id DESC").Limit(limit).Find(&exchanges).Error; err != nil {
		return nil, fmt.Errorf("list exchanges failed: %w", err)
	}
	for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
		exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
	}
	return exchanges, nil
}
