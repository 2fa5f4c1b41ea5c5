package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/dto"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/repository"
)

var (
	ErrEntryNotFound     = errors.New("schedule entry not found")
	ErrSameEntry         = errors.New("source and target entries are identical")
	ErrEntryCancelled    = errors.New("target entry is cancelled")
	ErrNothingToReassign = errors.New("source entry has no children to reassign")
	ErrChildDoubleBooked = errors.New("child is already active in an overlapping entry")
)

// EntryService mutates persisted schedule entries: cancellation toggling
// and child reassignment between entries.
type EntryService interface {
	Cancel(ctx context.Context, entryID string, callerID string) (*dto.ScheduleEntryResponse, error)
	Reactivate(ctx context.Context, entryID string, callerID string) (*dto.ScheduleEntryResponse, error)
	ReassignAll(ctx context.Context, sourceID string, req *dto.ReassignAllRequest, callerID string) (*dto.ScheduleEntryResponse, error)
	ReassignChild(ctx context.Context, sourceID string, req *dto.ReassignChildRequest, callerID string) (*dto.ScheduleEntryResponse, error)
}

type entryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEntryService creates the EntryService.
func NewEntryService(repo *repository.Repository, logger *zap.Logger) EntryService {
	return &entryService{repo: repo, logger: logger}
}

// Cancel prefixes the entry's activity with the cancelled marker. Already
// cancelled entries are returned unchanged.
func (s *entryService) Cancel(ctx context.Context, entryID string, callerID string) (*dto.ScheduleEntryResponse, error) {
	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Cancelled() {
		resp := toEntryResponse(entry)
		return &resp, nil
	}

	if err := s.repo.Entry.UpdateActivity(ctx, entryID, model.CancelledPrefix+entry.Activity, callerID); err != nil {
		return nil, s.mapEntryErr(entryID, "cancel entry", err)
	}
	s.logger.Info("entry cancelled", zap.String("entry", entryID), zap.String("by", callerID))
	return s.refreshed(ctx, entryID)
}

// Reactivate strips the cancelled marker, restoring the original label.
// Active entries are returned unchanged.
func (s *entryService) Reactivate(ctx context.Context, entryID string, callerID string) (*dto.ScheduleEntryResponse, error) {
	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.Cancelled() {
		resp := toEntryResponse(entry)
		return &resp, nil
	}

	restored := strings.TrimPrefix(entry.Activity, model.CancelledPrefix)
	if err := s.repo.Entry.UpdateActivity(ctx, entryID, restored, callerID); err != nil {
		return nil, s.mapEntryErr(entryID, "reactivate entry", err)
	}
	s.logger.Info("entry reactivated", zap.String("entry", entryID), zap.String("by", callerID))
	return s.refreshed(ctx, entryID)
}

// ReassignAll moves every child from the source entry to the target, then
// cancels the now-empty source if it was still active.
func (s *entryService) ReassignAll(ctx context.Context, sourceID string, req *dto.ReassignAllRequest, callerID string) (*dto.ScheduleEntryResponse, error) {
	if sourceID == req.TargetEntryID {
		return nil, ErrSameEntry
	}

	source, err := s.getEntry(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if len(source.Children) == 0 {
		return nil, ErrNothingToReassign
	}
	target, err := s.getEntry(ctx, req.TargetEntryID)
	if err != nil {
		return nil, err
	}
	if target.Cancelled() {
		return nil, ErrEntryCancelled
	}
	for i := range source.Children {
		if err := s.checkChildFree(ctx, source.Children[i].ChildID, source, target); err != nil {
			return nil, err
		}
	}

	// A still-active source is cancelled inside the same repository
	// transaction as the move.
	sourceActivity := ""
	if !source.Cancelled() {
		sourceActivity = model.CancelledPrefix + source.Activity
	}
	if err := s.repo.Entry.MoveAllChildren(ctx, sourceID, req.TargetEntryID, sourceActivity, callerID); err != nil {
		s.logger.Error("reassign all failed",
			zap.String("source", sourceID), zap.String("target", req.TargetEntryID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("entry children reassigned",
		zap.String("source", sourceID),
		zap.String("target", req.TargetEntryID),
		zap.Int("children", len(source.Children)),
		zap.String("by", callerID))
	return s.refreshed(ctx, req.TargetEntryID)
}

// ReassignChild moves a single child from the source entry to the target.
func (s *entryService) ReassignChild(ctx context.Context, sourceID string, req *dto.ReassignChildRequest, callerID string) (*dto.ScheduleEntryResponse, error) {
	if sourceID == req.TargetEntryID {
		return nil, ErrSameEntry
	}

	source, err := s.getEntry(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := s.getEntry(ctx, req.TargetEntryID)
	if err != nil {
		return nil, err
	}
	if target.Cancelled() {
		return nil, ErrEntryCancelled
	}
	if err := s.checkChildFree(ctx, req.ChildID, source, target); err != nil {
		return nil, err
	}

	if err := s.repo.Entry.MoveChild(ctx, sourceID, req.TargetEntryID, req.ChildID); err != nil {
		return nil, err
	}

	s.logger.Info("child reassigned",
		zap.String("source", sourceID),
		zap.String("target", req.TargetEntryID),
		zap.String("child", req.ChildID),
		zap.String("by", callerID))
	return s.refreshed(ctx, req.TargetEntryID)
}

// checkChildFree rejects a move that would leave the child active in two
// overlapping entries: any non-cancelled entry other than the source and
// the target that holds the child across the target's time span.
func (s *entryService) checkChildFree(ctx context.Context, childID string, source, target *model.ScheduleEntry) error {
	overlapping, err := s.repo.Entry.ListActiveForChildOverlapping(ctx, childID, target.StartsAt, target.EndsAt)
	if err != nil {
		return err
	}
	for i := range overlapping {
		if overlapping[i].EntryID == source.EntryID || overlapping[i].EntryID == target.EntryID {
			continue
		}
		return ErrChildDoubleBooked
	}
	return nil
}

func (s *entryService) getEntry(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	entry, err := s.repo.Entry.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *entryService) refreshed(ctx context.Context, id string) (*dto.ScheduleEntryResponse, error) {
	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEntryResponse(entry)
	return &resp, nil
}

func (s *entryService) mapEntryErr(id, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEntryNotFound
	}
	s.logger.Error(op+" failed", zap.String("entry", id), zap.Error(err))
	return err
}
