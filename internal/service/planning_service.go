package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/dto"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/repository"
)

var (
	ErrStaffNotFound = errors.New("staff member not found")
	ErrChildNotFound = errors.New("child not found")
)

// entryTimeLayout keeps responses in local wall-clock form, no zone suffix.
const entryTimeLayout = "2006-01-02T15:04:05"

// PlanningService serves the read side of the persisted schedule.
type PlanningService interface {
	GetSemesterSchedule(ctx context.Context, semesterID string) (*dto.SemesterScheduleResponse, error)
	GetStaffSchedule(ctx context.Context, semesterID, staffID string) (*dto.StaffScheduleResponse, error)
	GetChildSchedule(ctx context.Context, semesterID, childID string) (*dto.ChildScheduleResponse, error)
}

type planningService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPlanningService creates the PlanningService.
func NewPlanningService(repo *repository.Repository, logger *zap.Logger) PlanningService {
	return &planningService{repo: repo, logger: logger}
}

// GetSemesterSchedule returns every entry of the semester grouped by staff
// member. Staff with no entries are still listed so gaps stay visible.
func (s *planningService) GetSemesterSchedule(ctx context.Context, semesterID string) (*dto.SemesterScheduleResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}

	staff, err := s.repo.Roster.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.Entry.ListBySemester(ctx, semesterID)
	if err != nil {
		s.logger.Error("list semester entries failed", zap.String("semester", semesterID), zap.Error(err))
		return nil, err
	}

	byStaff := make(map[string][]dto.ScheduleEntryResponse, len(staff))
	for i := range entries {
		byStaff[entries[i].StaffID] = append(byStaff[entries[i].StaffID], toEntryResponse(&entries[i]))
	}

	resp := &dto.SemesterScheduleResponse{
		Semester: *toSemesterResponse(semester),
		Staff:    make([]dto.StaffScheduleResponse, 0, len(staff)),
	}
	for _, member := range staff {
		rows := byStaff[member.StaffID]
		if rows == nil {
			rows = []dto.ScheduleEntryResponse{}
		}
		resp.Staff = append(resp.Staff, dto.StaffScheduleResponse{
			Staff:   toStaffBrief(&member),
			Entries: rows,
		})
	}
	return resp, nil
}

func (s *planningService) GetStaffSchedule(ctx context.Context, semesterID, staffID string) (*dto.StaffScheduleResponse, error) {
	if _, err := s.repo.Semester.GetByID(ctx, semesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}
	member, err := s.repo.Roster.GetStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	entries, err := s.repo.Entry.ListBySemesterAndStaff(ctx, semesterID, staffID)
	if err != nil {
		return nil, err
	}

	resp := &dto.StaffScheduleResponse{
		Staff:   toStaffBrief(member),
		Entries: make([]dto.ScheduleEntryResponse, 0, len(entries)),
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, toEntryResponse(&entries[i]))
	}
	return resp, nil
}

// GetChildSchedule returns the child's weekly entries plus any confirmed
// paid Saturday events falling inside the semester window.
func (s *planningService) GetChildSchedule(ctx context.Context, semesterID, childID string) (*dto.ChildScheduleResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}
	child, err := s.repo.Roster.GetChild(ctx, childID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChildNotFound
		}
		return nil, err
	}

	entries, err := s.repo.Entry.ListBySemesterAndChild(ctx, semesterID, childID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.Event.ListConfirmedForChild(ctx, childID, semester.StartDate, semester.EndDate)
	if err != nil {
		s.logger.Warn("saturday events lookup failed, serving entries only",
			zap.String("child", childID), zap.Error(err))
		events = nil
	}

	resp := &dto.ChildScheduleResponse{
		Child:   toChildBrief(child),
		Entries: make([]dto.ScheduleEntryResponse, 0, len(entries)),
		Events:  make([]dto.SaturdayEventResponse, 0, len(events)),
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, toEntryResponse(&entries[i]))
	}
	for i := range events {
		resp.Events = append(resp.Events, toSaturdayEventResponse(&events[i]))
	}
	return resp, nil
}

func toEntryResponse(e *model.ScheduleEntry) dto.ScheduleEntryResponse {
	children := make([]dto.ChildBrief, 0, len(e.Children))
	for i := range e.Children {
		children = append(children, toChildBrief(&e.Children[i]))
	}
	var staff *dto.StaffBrief
	if e.Staff != nil {
		brief := toStaffBrief(e.Staff)
		staff = &brief
	}
	return dto.ScheduleEntryResponse{
		ID:         e.EntryID,
		SemesterID: e.SemesterID,
		Staff:      staff,
		Weekday:    e.Weekday,
		StartsAt:   e.StartsAt.Format(entryTimeLayout),
		EndsAt:     e.EndsAt.Format(entryTimeLayout),
		Activity:   e.Activity,
		Cancelled:  e.Cancelled(),
		Children:   children,
	}
}

func toSaturdayEventResponse(ev *model.SaturdayEvent) dto.SaturdayEventResponse {
	return dto.SaturdayEventResponse{
		ID:       ev.EventID,
		Label:    ev.Label,
		StartsAt: ev.StartsAt.Format(entryTimeLayout),
		EndsAt:   ev.EndsAt.Format(entryTimeLayout),
	}
}

func toStaffBrief(m *model.StaffMember) dto.StaffBrief {
	return dto.StaffBrief{ID: m.StaffID, Name: m.DisplayName()}
}

func toChildBrief(c *model.Child) dto.ChildBrief {
	return dto.ChildBrief{ID: c.ChildID, Name: c.DisplayName()}
}
