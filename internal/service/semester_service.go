package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/dto"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/repository"
)

var (
	ErrSemesterNotFound    = errors.New("semester not found")
	ErrSemesterDateInvalid = errors.New("semester end date must be after the start date")
)

// IncompleteSemesterError rejects a submit while staff members still have
// no persisted entry.
type IncompleteSemesterError struct {
	MissingStaff []string
}

func (e *IncompleteSemesterError) Error() string {
	return fmt.Sprintf("semester cannot be submitted, staff without any entry: %s",
		strings.Join(e.MissingStaff, ", "))
}

// SemesterService is the semester lifecycle interface.
type SemesterService interface {
	Create(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	List(ctx context.Context) ([]dto.SemesterResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SemesterResponse, error)
	Submit(ctx context.Context, id string, callerID string) (*dto.SubmitSemesterResponse, error)
}

type semesterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSemesterService creates the SemesterService.
func NewSemesterService(repo *repository.Repository, logger *zap.Logger) SemesterService {
	return &semesterService{repo: repo, logger: logger}
}

func (s *semesterService) Create(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	if !endDate.After(startDate) {
		return nil, ErrSemesterDateInvalid
	}

	semester := &model.Semester{
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    model.SemesterStatusDraft,
	}
	semester.CreatedBy = &callerID
	semester.UpdatedBy = &callerID

	if err := s.repo.Semester.Create(ctx, semester); err != nil {
		s.logger.Error("create semester failed", zap.Error(err))
		return nil, err
	}

	return toSemesterResponse(semester), nil
}

func (s *semesterService) List(ctx context.Context) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("list semesters failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, *toSemesterResponse(&semesters[i]))
	}
	return result, nil
}

func (s *semesterService) GetByID(ctx context.Context, id string) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("get semester failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

// Submit locks a semester. Every roster staff member must own at least one
// persisted entry; submitting an already-submitted semester is a no-op.
func (s *semesterService) Submit(ctx context.Context, id string, callerID string) (*dto.SubmitSemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}
	if semester.Status == model.SemesterStatusSubmitted {
		return &dto.SubmitSemesterResponse{ID: semester.SemesterID, Status: semester.Status}, nil
	}

	staff, err := s.repo.Roster.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	withEntries, err := s.repo.Entry.ListStaffIDsWithEntries(ctx, id)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(withEntries))
	for _, staffID := range withEntries {
		present[staffID] = true
	}
	var missing []string
	for _, member := range staff {
		if !present[member.StaffID] {
			missing = append(missing, member.DisplayName())
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &IncompleteSemesterError{MissingStaff: missing}
	}

	if err := s.repo.Semester.UpdateStatus(ctx, id, model.SemesterStatusSubmitted, callerID); err != nil {
		s.logger.Error("submit semester failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("semester submitted", zap.String("id", id), zap.String("by", callerID))
	return &dto.SubmitSemesterResponse{ID: id, Status: model.SemesterStatusSubmitted}, nil
}

func toSemesterResponse(m *model.Semester) *dto.SemesterResponse {
	return &dto.SemesterResponse{
		ID:        m.SemesterID,
		Name:      m.Name,
		StartDate: m.StartDate.Format("2006-01-02"),
		EndDate:   m.EndDate.Format("2006-01-02"),
		Status:    m.Status,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.Format(time.RFC3339),
	}
}
