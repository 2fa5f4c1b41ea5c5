package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
	pkgerrors "github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/errors"
)

// ScheduleEntryRepository is the schedule entry data access interface,
// including the child link mutations and the bulk semester replacement.
type ScheduleEntryRepository interface {
	GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
	ListBySemester(ctx context.Context, semesterID string) ([]model.ScheduleEntry, error)
	ListBySemesterAndStaff(ctx context.Context, semesterID, staffID string) ([]model.ScheduleEntry, error)
	ListBySemesterAndChild(ctx context.Context, semesterID, childID string) ([]model.ScheduleEntry, error)
	ListActiveForChildOverlapping(ctx context.Context, childID string, startsAt, endsAt time.Time) ([]model.ScheduleEntry, error)
	ListStaffIDsWithEntries(ctx context.Context, semesterID string) ([]string, error)
	UpdateActivity(ctx context.Context, id string, activity string, updatedBy string) error
	MoveAllChildren(ctx context.Context, sourceID, targetID string, sourceActivity string, updatedBy string) error
	MoveChild(ctx context.Context, sourceID, targetID, childID string) error
	ReplaceSemester(ctx context.Context, semesterID string, entries []model.ScheduleEntry, doc *model.ScheduleDocument) error
}

type scheduleEntryRepo struct {
	db *gorm.DB
}

// NewScheduleEntryRepo creates the gorm-backed ScheduleEntryRepository.
func NewScheduleEntryRepo(db *gorm.DB) ScheduleEntryRepository {
	return &scheduleEntryRepo{db: db}
}

func (r *scheduleEntryRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Children").
		Where("entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleEntryRepo) ListBySemester(ctx context.Context, semesterID string) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Children").
		Where("semester_id = ?", semesterID).
		Order("starts_at ASC, staff_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) ListBySemesterAndStaff(ctx context.Context, semesterID, staffID string) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Children").
		Where("semester_id = ? AND staff_id = ?", semesterID, staffID).
		Order("starts_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) ListBySemesterAndChild(ctx context.Context, semesterID, childID string) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Children").
		Joins("JOIN schedule_entry_children sec ON sec.schedule_entry_id = schedule_entries.entry_id").
		Where("schedule_entries.semester_id = ? AND sec.child_id = ?", semesterID, childID).
		Order("schedule_entries.starts_at ASC").
		Find(&entries).Error
	return entries, err
}

// ListActiveForChildOverlapping returns the non-cancelled entries holding
// the child whose time span overlaps [startsAt, endsAt). Zero-duration
// closure placeholders never match.
func (r *scheduleEntryRepo) ListActiveForChildOverlapping(ctx context.Context, childID string, startsAt, endsAt time.Time) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Joins("JOIN schedule_entry_children sec ON sec.schedule_entry_id = schedule_entries.entry_id").
		Where("sec.child_id = ?", childID).
		Where("schedule_entries.starts_at < ? AND schedule_entries.ends_at > ?", endsAt, startsAt).
		Where("schedule_entries.activity NOT LIKE ?", model.CancelledPrefix+"%").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) ListStaffIDsWithEntries(ctx context.Context, semesterID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Distinct("staff_id").
		Where("semester_id = ?", semesterID).
		Pluck("staff_id", &ids).Error
	return ids, err
}

func (r *scheduleEntryRepo) UpdateActivity(ctx context.Context, id string, activity string, updatedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("entry_id = ?", id).
		Updates(map[string]interface{}{
			"activity":   activity,
			"updated_by": updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MoveAllChildren moves every child link from source to target. Links the
// target already holds are absorbed rather than duplicated. A non-empty
// sourceActivity relabels the source in the same transaction, so the move
// and the cancellation of the emptied source commit or roll back together.
func (r *scheduleEntryRepo) MoveAllChildren(ctx context.Context, sourceID, targetID string, sourceActivity string, updatedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`INSERT INTO schedule_entry_children (schedule_entry_id, child_id)
			 SELECT ?, child_id FROM schedule_entry_children WHERE schedule_entry_id = ?
			 ON CONFLICT DO NOTHING`,
			targetID, sourceID,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			`DELETE FROM schedule_entry_children WHERE schedule_entry_id = ?`,
			sourceID,
		).Error; err != nil {
			return err
		}

		if sourceActivity != "" {
			result := tx.Model(&model.ScheduleEntry{}).
				Where("entry_id = ?", sourceID).
				Updates(map[string]interface{}{
					"activity":   sourceActivity,
					"updated_by": updatedBy,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		return nil
	})
}

// MoveChild moves one child link from source to target, guarding both
// preconditions inside the transaction.
func (r *scheduleEntryRepo) MoveChild(ctx context.Context, sourceID, targetID, childID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var onTarget int64
		if err := tx.Table("schedule_entry_children").
			Where("schedule_entry_id = ? AND child_id = ?", targetID, childID).
			Count(&onTarget).Error; err != nil {
			return err
		}
		if onTarget > 0 {
			return pkgerrors.ErrChildAlreadyLinked
		}

		result := tx.Exec(
			`UPDATE schedule_entry_children SET schedule_entry_id = ?
			 WHERE schedule_entry_id = ? AND child_id = ?`,
			targetID, sourceID, childID,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrChildNotLinked
		}
		return nil
	})
}

// ReplaceSemester atomically swaps a semester's projection: delete the old
// entries and their child links, bulk-insert the new ones, archive the
// source document. The caller bounds ctx with the import transaction
// timeout; a full semester is thousands of rows.
func (r *scheduleEntryRepo) ReplaceSemester(ctx context.Context, semesterID string, entries []model.ScheduleEntry, doc *model.ScheduleDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM schedule_entry_children
			 WHERE schedule_entry_id IN (SELECT entry_id FROM schedule_entries WHERE semester_id = ?)`,
			semesterID,
		).Error; err != nil {
			return err
		}
		if err := tx.
			Where("semester_id = ?", semesterID).
			Delete(&model.ScheduleEntry{}).Error; err != nil {
			return err
		}

		if len(entries) > 0 {
			if err := tx.
				Omit("Staff").
				CreateInBatches(&entries, 200).Error; err != nil {
				return err
			}
		}

		if doc != nil {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "semester_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"filename", "content", "updated_at",
				}),
			}).Create(doc).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
