package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
)

// SaturdayEventRepository reads the one-off events registered by the
// external events service. Only paid and confirmed events are surfaced.
type SaturdayEventRepository interface {
	ListConfirmedForChild(ctx context.Context, childID string, from, to time.Time) ([]model.SaturdayEvent, error)
}

type saturdayEventRepo struct {
	db *gorm.DB
}

// NewSaturdayEventRepo creates the gorm-backed SaturdayEventRepository.
func NewSaturdayEventRepo(db *gorm.DB) SaturdayEventRepository {
	return &saturdayEventRepo{db: db}
}

func (r *saturdayEventRepo) ListConfirmedForChild(ctx context.Context, childID string, from, to time.Time) ([]model.SaturdayEvent, error) {
	var events []model.SaturdayEvent
	err := r.db.WithContext(ctx).
		Where("child_id = ? AND paid = TRUE AND confirmed = TRUE", childID).
		Where("starts_at >= ? AND starts_at < ?", from, to.AddDate(0, 0, 1)).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}
