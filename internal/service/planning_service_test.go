package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
)

func TestPlanningSemesterScheduleGroupsByStaff(t *testing.T) {
	repo, sem, roster, entries, _, _ := newMockRepos()
	roster.staff = testStaff()
	seedSemester(sem, "sem-1", model.SemesterStatusDraft)
	seedEntry(entries, "e1", "Atelier", testChildren())
	svc := NewPlanningService(repo, zap.NewNop())

	resp, err := svc.GetSemesterSchedule(context.Background(), "sem-1")
	if err != nil {
		t.Fatalf("GetSemesterSchedule: %v", err)
	}
	if resp.Semester.ID != "sem-1" {
		t.Errorf("semester id = %q", resp.Semester.ID)
	}
	if len(resp.Staff) != 2 {
		t.Fatalf("expected both staff members listed, got %d", len(resp.Staff))
	}

	byName := map[string]int{}
	for _, group := range resp.Staff {
		byName[group.Staff.Name] = len(group.Entries)
	}
	if byName["Marie Durand"] != 1 {
		t.Errorf("Marie Durand has %d entries", byName["Marie Durand"])
	}
	// Staff without entries still appear, with an empty list.
	if n, ok := byName["Paul Bernard"]; !ok || n != 0 {
		t.Errorf("Paul Bernard group: present=%v entries=%d", ok, n)
	}
}

func TestPlanningStaffSchedule(t *testing.T) {
	repo, sem, roster, entries, _, _ := newMockRepos()
	roster.staff = testStaff()
	seedSemester(sem, "sem-1", model.SemesterStatusDraft)
	seedEntry(entries, "e1", "Atelier", testChildren())
	svc := NewPlanningService(repo, zap.NewNop())

	resp, err := svc.GetStaffSchedule(context.Background(), "sem-1", "staff-1")
	if err != nil {
		t.Fatalf("GetStaffSchedule: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(resp.Entries))
	}
	entry := resp.Entries[0]
	if entry.StartsAt != "2024-09-02T09:00:00" {
		t.Errorf("starts_at = %q, want local wall-clock form", entry.StartsAt)
	}
	if entry.Cancelled {
		t.Error("entry wrongly flagged cancelled")
	}
	if len(entry.Children) != 2 {
		t.Errorf("entry has %d children", len(entry.Children))
	}
}

func TestPlanningStaffScheduleUnknownStaff(t *testing.T) {
	repo, sem, roster, _, _, _ := newMockRepos()
	roster.staff = testStaff()
	seedSemester(sem, "sem-1", model.SemesterStatusDraft)
	svc := NewPlanningService(repo, zap.NewNop())

	if _, err := svc.GetStaffSchedule(context.Background(), "sem-1", "missing"); !errors.Is(err, ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound, got %v", err)
	}
}

func TestPlanningChildScheduleMergesSaturdayEvents(t *testing.T) {
	repo, sem, roster, entries, _, events := newMockRepos()
	roster.staff = testStaff()
	roster.children = testChildren()
	seedSemester(sem, "sem-1", model.SemesterStatusDraft)
	seedEntry(entries, "e1", "Atelier", testChildren())
	events.events = []model.SaturdayEvent{
		{
			EventID:   "ev-1",
			ChildID:   "child-1",
			Label:     "Sortie piscine",
			StartsAt:  time.Date(2024, 9, 7, 10, 0, 0, 0, time.UTC),
			EndsAt:    time.Date(2024, 9, 7, 12, 0, 0, 0, time.UTC),
			Paid:      true,
			Confirmed: true,
		},
		{
			// Unpaid, must not surface.
			EventID:   "ev-2",
			ChildID:   "child-1",
			Label:     "Sortie musée",
			StartsAt:  time.Date(2024, 9, 14, 10, 0, 0, 0, time.UTC),
			EndsAt:    time.Date(2024, 9, 14, 12, 0, 0, 0, time.UTC),
			Confirmed: true,
		},
	}
	svc := NewPlanningService(repo, zap.NewNop())

	resp, err := svc.GetChildSchedule(context.Background(), "sem-1", "child-1")
	if err != nil {
		t.Fatalf("GetChildSchedule: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(resp.Entries))
	}
	if len(resp.Events) != 1 {
		t.Fatalf("expected 1 confirmed paid event, got %d", len(resp.Events))
	}
	if resp.Events[0].Label != "Sortie piscine" {
		t.Errorf("event label = %q", resp.Events[0].Label)
	}
}

func TestPlanningChildScheduleDegradesOnEventError(t *testing.T) {
	repo, sem, roster, entries, _, events := newMockRepos()
	roster.staff = testStaff()
	roster.children = testChildren()
	seedSemester(sem, "sem-1", model.SemesterStatusDraft)
	seedEntry(entries, "e1", "Atelier", testChildren())
	events.err = errors.New("events table unavailable")
	svc := NewPlanningService(repo, zap.NewNop())

	resp, err := svc.GetChildSchedule(context.Background(), "sem-1", "child-1")
	if err != nil {
		t.Fatalf("GetChildSchedule: %v", err)
	}
	if len(resp.Entries) != 1 || len(resp.Events) != 0 {
		t.Errorf("entries=%d events=%d", len(resp.Entries), len(resp.Events))
	}
}

func TestPlanningChildScheduleUnknownChild(t *testing.T) {
	repo, sem, roster, _, _, _ := newMockRepos()
	roster.children = testChildren()
	seedSemester(sem, "sem-1", model.SemesterStatusDraft)
	svc := NewPlanningService(repo, zap.NewNop())

	if _, err := svc.GetChildSchedule(context.Background(), "sem-1", "missing"); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
}
