package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
)

// DocumentRepository reads archived schedule documents. Writes happen only
// inside the import transaction (ScheduleEntryRepository.ReplaceSemester).
type DocumentRepository interface {
	GetBySemester(ctx context.Context, semesterID string) (*model.ScheduleDocument, error)
}

type documentRepo struct {
	db *gorm.DB
}

// NewDocumentRepo creates the gorm-backed DocumentRepository.
func NewDocumentRepo(db *gorm.DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) GetBySemester(ctx context.Context, semesterID string) (*model.ScheduleDocument, error) {
	var doc model.ScheduleDocument
	err := r.db.WithContext(ctx).
		Where("semester_id = ?", semesterID).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
