package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
)

// RosterRepository reads the staff and child reference tables. The rows are
// owned by the identity service, so there are no write methods.
type RosterRepository interface {
	ListStaff(ctx context.Context) ([]model.StaffMember, error)
	GetStaff(ctx context.Context, id string) (*model.StaffMember, error)
	ListChildren(ctx context.Context) ([]model.Child, error)
	GetChild(ctx context.Context, id string) (*model.Child, error)
}

type rosterRepo struct {
	db *gorm.DB
}

// NewRosterRepo creates the gorm-backed RosterRepository.
func NewRosterRepo(db *gorm.DB) RosterRepository {
	return &rosterRepo{db: db}
}

func (r *rosterRepo) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	var staff []model.StaffMember
	err := r.db.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&staff).Error
	return staff, err
}

func (r *rosterRepo) GetStaff(ctx context.Context, id string) (*model.StaffMember, error) {
	var staff model.StaffMember
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *rosterRepo) ListChildren(ctx context.Context) ([]model.Child, error) {
	var children []model.Child
	err := r.db.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&children).Error
	return children, err
}

func (r *rosterRepo) GetChild(ctx context.Context, id string) (*model.Child, error) {
	var child model.Child
	err := r.db.WithContext(ctx).
		Where("child_id = ?", id).
		First(&child).Error
	if err != nil {
		return nil, err
	}
	return &child, nil
}
