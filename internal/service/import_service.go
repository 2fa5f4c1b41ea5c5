package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/config"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/dto"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/repository"
	pkgerrors "github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/errors"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/redis"
)

var (
	ErrSemesterSubmitted = errors.New("semester is submitted, re-import is not allowed")
	ErrDocumentNotFound  = errors.New("no document archived for this semester")
)

// ImportService runs the template pipeline: parse, validate, expand, and
// either preview the projection or persist it transactionally.
type ImportService interface {
	Preview(ctx context.Context, semesterID string, workbook []byte) (*dto.PreviewResponse, error)
	Import(ctx context.Context, semesterID string, filename string, workbook []byte, callerID string) (*dto.ImportResponse, error)
	GetDocument(ctx context.Context, semesterID string) (*model.ScheduleDocument, error)
}

type importService struct {
	cfg      *config.Config
	repo     *repository.Repository
	resolver ClosureResolver
	rdb      *redis.Client
	logger   *zap.Logger
	loc      *time.Location

	// in-process fallback lock, used when Redis is absent
	mu    sync.Mutex
	locks map[string]bool
}

// NewImportService creates the ImportService. rdb may be nil; the
// per-semester lock then degrades to an in-process mutex.
func NewImportService(cfg *config.Config, repo *repository.Repository, resolver ClosureResolver, rdb *redis.Client, logger *zap.Logger) (ImportService, error) {
	loc, err := time.LoadLocation(cfg.Closure.Timezone)
	if err != nil {
		return nil, err
	}
	return &importService{
		cfg:      cfg,
		repo:     repo,
		resolver: resolver,
		rdb:      rdb,
		logger:   logger,
		loc:      loc,
		locks:    make(map[string]bool),
	}, nil
}

// Preview runs the full pipeline without any write. Validation failures
// surface as typed errors for the handler to unwrap.
func (s *importService) Preview(ctx context.Context, semesterID string, workbook []byte) (*dto.PreviewResponse, error) {
	semester, entries, err := s.project(ctx, semesterID, workbook)
	if err != nil {
		return nil, err
	}

	resp := &dto.PreviewResponse{
		SemesterID: semester.SemesterID,
		EntryCount: len(entries),
		Entries:    make([]dto.ScheduleEntryResponse, 0, len(entries)),
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, toEntryResponse(&entries[i]))
	}
	return resp, nil
}

// Import persists the projection, replacing whatever the semester already
// holds, and archives the source workbook. Re-running with the same file is
// idempotent. One import per semester at a time.
func (s *importService) Import(ctx context.Context, semesterID string, filename string, workbook []byte, callerID string) (*dto.ImportResponse, error) {
	release, err := s.acquireLock(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	defer release()

	semester, entries, err := s.project(ctx, semesterID, workbook)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].CreatedBy = &callerID
		entries[i].UpdatedBy = &callerID
	}
	doc := &model.ScheduleDocument{
		SemesterID: semesterID,
		Filename:   filename,
		Content:    workbook,
	}

	txCtx, cancel := context.WithTimeout(ctx, s.cfg.Import.TxTimeout)
	defer cancel()
	if err := s.repo.Entry.ReplaceSemester(txCtx, semesterID, entries, doc); err != nil {
		s.logger.Error("semester import failed",
			zap.String("semester", semesterID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("semester imported",
		zap.String("semester", semesterID),
		zap.Int("entries", len(entries)),
		zap.String("by", callerID))
	return &dto.ImportResponse{SemesterID: semester.SemesterID, EntryCount: len(entries)}, nil
}

func (s *importService) GetDocument(ctx context.Context, semesterID string) (*model.ScheduleDocument, error) {
	doc, err := s.repo.Document.GetBySemester(ctx, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// project is the shared read-only pipeline: load semester and roster, parse
// the workbook, validate, expand over the calendar.
func (s *importService) project(ctx context.Context, semesterID string, workbook []byte) (*model.Semester, []model.ScheduleEntry, error) {
	semester, err := s.repo.Semester.GetByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSemesterNotFound
		}
		return nil, nil, err
	}
	if semester.Status == model.SemesterStatusSubmitted {
		return nil, nil, ErrSemesterSubmitted
	}

	staff, err := s.repo.Roster.ListStaff(ctx)
	if err != nil {
		return nil, nil, err
	}
	children, err := s.repo.Roster.ListChildren(ctx)
	if err != nil {
		return nil, nil, err
	}

	template, err := ParseTemplate(workbook, staff, children)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateTemplate(template, staff, children); err != nil {
		return nil, nil, err
	}

	return semester, ExpandTemplate(ctx, template, semester, s.resolver, s.loc), nil
}

// acquireLock takes the per-semester import lock, via Redis when available
// so concurrent replicas exclude each other, in-process otherwise.
func (s *importService) acquireLock(ctx context.Context, semesterID string) (func(), error) {
	if s.rdb != nil {
		ok, err := s.rdb.AcquireImportLock(ctx, semesterID, s.cfg.Import.TxTimeout+time.Minute)
		if err != nil {
			s.logger.Warn("redis lock unavailable, falling back to local lock", zap.Error(err))
			return s.acquireLocalLock(semesterID)
		}
		if !ok {
			return nil, pkgerrors.ErrImportInProgress
		}
		return func() {
			if err := s.rdb.ReleaseImportLock(context.Background(), semesterID); err != nil {
				s.logger.Warn("release import lock failed",
					zap.String("semester", semesterID), zap.Error(err))
			}
		}, nil
	}
	return s.acquireLocalLock(semesterID)
}

func (s *importService) acquireLocalLock(semesterID string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[semesterID] {
		return nil, pkgerrors.ErrImportInProgress
	}
	s.locks[semesterID] = true
	return func() {
		s.mu.Lock()
		delete(s.locks, semesterID)
		s.mu.Unlock()
	}, nil
}
