package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/dto"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
	pkgerrors "github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/errors"
)

func seedEntry(repo *mockEntryRepo, id, activity string, children []model.Child) *model.ScheduleEntry {
	staff := testStaff()[0]
	e := &model.ScheduleEntry{
		EntryID:    id,
		SemesterID: "sem-1",
		StaffID:    staff.StaffID,
		Weekday:    1,
		StartsAt:   time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC),
		Activity:   activity,
		Children:   children,
		Staff:      &staff,
	}
	repo.put(e)
	return e
}

func TestEntryCancelReactivateRoundTrip(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	seedEntry(entries, "e1", "Atelier", testChildren())
	svc := NewEntryService(repo, zap.NewNop())

	cancelled, err := svc.Cancel(context.Background(), "e1", "director-1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !cancelled.Cancelled {
		t.Error("entry not flagged cancelled")
	}
	if cancelled.Activity != model.CancelledPrefix+"Atelier" {
		t.Errorf("activity = %q", cancelled.Activity)
	}

	restored, err := svc.Reactivate(context.Background(), "e1", "director-1")
	if err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if restored.Cancelled {
		t.Error("entry still flagged cancelled")
	}
	if restored.Activity != "Atelier" {
		t.Errorf("activity not restored: %q", restored.Activity)
	}
}

func TestEntryCancelIdempotent(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	seedEntry(entries, "e1", "Atelier", testChildren())
	svc := NewEntryService(repo, zap.NewNop())

	if _, err := svc.Cancel(context.Background(), "e1", "d"); err != nil {
		t.Fatalf("first Cancel: %v", err)
	}
	again, err := svc.Cancel(context.Background(), "e1", "d")
	if err != nil {
		t.Fatalf("second Cancel: %v", err)
	}
	// The prefix must not stack.
	if again.Activity != model.CancelledPrefix+"Atelier" {
		t.Errorf("activity = %q", again.Activity)
	}
}

func TestEntryReactivateActiveNoop(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	seedEntry(entries, "e1", "Atelier", testChildren())
	svc := NewEntryService(repo, zap.NewNop())

	resp, err := svc.Reactivate(context.Background(), "e1", "d")
	if err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if resp.Activity != "Atelier" {
		t.Errorf("activity = %q", resp.Activity)
	}
}

func TestEntryCancelNotFound(t *testing.T) {
	repo, _, _, _, _, _ := newMockRepos()
	svc := NewEntryService(repo, zap.NewNop())

	if _, err := svc.Cancel(context.Background(), "missing", "d"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryReassignAll(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	children := testChildren()
	seedEntry(entries, "source", "Atelier", children)
	seedEntry(entries, "target", "Sport", nil)
	svc := NewEntryService(repo, zap.NewNop())

	resp, err := svc.ReassignAll(context.Background(), "source", &dto.ReassignAllRequest{TargetEntryID: "target"}, "d")
	if err != nil {
		t.Fatalf("ReassignAll: %v", err)
	}
	if len(resp.Children) != 2 {
		t.Errorf("target holds %d children, want 2", len(resp.Children))
	}

	source, _ := entries.GetByID(context.Background(), "source")
	if len(source.Children) != 0 {
		t.Errorf("source still holds %d children", len(source.Children))
	}
	if !source.Cancelled() {
		t.Error("emptied source should be cancelled")
	}
}

func TestEntryReassignAllAbsorbsOverlap(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	children := testChildren()
	seedEntry(entries, "source", "Atelier", children)
	seedEntry(entries, "target", "Sport", children[:1]) // child-1 already linked
	svc := NewEntryService(repo, zap.NewNop())

	resp, err := svc.ReassignAll(context.Background(), "source", &dto.ReassignAllRequest{TargetEntryID: "target"}, "d")
	if err != nil {
		t.Fatalf("ReassignAll: %v", err)
	}
	if len(resp.Children) != 2 {
		t.Errorf("target holds %d children, want 2", len(resp.Children))
	}
}

func TestEntryReassignAllRejectsSameEntry(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	seedEntry(entries, "source", "Atelier", testChildren())
	svc := NewEntryService(repo, zap.NewNop())

	_, err := svc.ReassignAll(context.Background(), "source", &dto.ReassignAllRequest{TargetEntryID: "source"}, "d")
	if !errors.Is(err, ErrSameEntry) {
		t.Fatalf("expected ErrSameEntry, got %v", err)
	}
}

func TestEntryReassignAllRejectsCancelledTarget(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	seedEntry(entries, "source", "Atelier", testChildren())
	seedEntry(entries, "target", model.CancelledPrefix+"Sport", nil)
	svc := NewEntryService(repo, zap.NewNop())

	_, err := svc.ReassignAll(context.Background(), "source", &dto.ReassignAllRequest{TargetEntryID: "target"}, "d")
	if !errors.Is(err, ErrEntryCancelled) {
		t.Fatalf("expected ErrEntryCancelled, got %v", err)
	}
}

func TestEntryReassignAllRejectsEmptySource(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	seedEntry(entries, "source", "Atelier", nil)
	seedEntry(entries, "target", "Sport", nil)
	svc := NewEntryService(repo, zap.NewNop())

	_, err := svc.ReassignAll(context.Background(), "source", &dto.ReassignAllRequest{TargetEntryID: "target"}, "d")
	if !errors.Is(err, ErrNothingToReassign) {
		t.Fatalf("expected ErrNothingToReassign, got %v", err)
	}
}

func TestEntryReassignChild(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	children := testChildren()
	seedEntry(entries, "source", "Atelier", children)
	seedEntry(entries, "target", "Sport", nil)
	svc := NewEntryService(repo, zap.NewNop())

	resp, err := svc.ReassignChild(context.Background(), "source", &dto.ReassignChildRequest{
		TargetEntryID: "target",
		ChildID:       "child-1",
	}, "d")
	if err != nil {
		t.Fatalf("ReassignChild: %v", err)
	}
	if len(resp.Children) != 1 || resp.Children[0].ID != "child-1" {
		t.Errorf("target children: %+v", resp.Children)
	}

	source, _ := entries.GetByID(context.Background(), "source")
	if len(source.Children) != 1 || source.Children[0].ChildID != "child-2" {
		t.Errorf("source children: %+v", source.Children)
	}
	if source.Cancelled() {
		t.Error("single-child reassignment must not cancel the source")
	}
}

func TestEntryReassignAllRejectsDoubleBookedChild(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	children := testChildren()
	seedEntry(entries, "source", "Atelier", children)
	seedEntry(entries, "target", "Sport", nil)
	seedEntry(entries, "other", "Repas", children[1:]) // child-2 active at the same time
	svc := NewEntryService(repo, zap.NewNop())

	_, err := svc.ReassignAll(context.Background(), "source", &dto.ReassignAllRequest{TargetEntryID: "target"}, "d")
	if !errors.Is(err, ErrChildDoubleBooked) {
		t.Fatalf("expected ErrChildDoubleBooked, got %v", err)
	}

	source, _ := entries.GetByID(context.Background(), "source")
	if len(source.Children) != 2 {
		t.Errorf("source holds %d children after rejected reassignment", len(source.Children))
	}
	if source.Cancelled() {
		t.Error("rejected reassignment must not cancel the source")
	}
}

func TestEntryReassignAllCancelledSourceKeepsLabel(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	seedEntry(entries, "source", model.CancelledPrefix+"Atelier", testChildren())
	seedEntry(entries, "target", "Sport", nil)
	svc := NewEntryService(repo, zap.NewNop())

	if _, err := svc.ReassignAll(context.Background(), "source", &dto.ReassignAllRequest{TargetEntryID: "target"}, "d"); err != nil {
		t.Fatalf("ReassignAll: %v", err)
	}

	// The prefix must not stack on an already cancelled source.
	source, _ := entries.GetByID(context.Background(), "source")
	if source.Activity != model.CancelledPrefix+"Atelier" {
		t.Errorf("activity = %q", source.Activity)
	}
}

func TestEntryReassignChildNotLinked(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	seedEntry(entries, "source", "Atelier", testChildren()[:1])
	seedEntry(entries, "target", "Sport", nil)
	svc := NewEntryService(repo, zap.NewNop())

	_, err := svc.ReassignChild(context.Background(), "source", &dto.ReassignChildRequest{
		TargetEntryID: "target",
		ChildID:       "child-2",
	}, "d")
	if !errors.Is(err, pkgerrors.ErrChildNotLinked) {
		t.Fatalf("expected ErrChildNotLinked, got %v", err)
	}
}

func TestEntryReassignChildRejectsDoubleBooked(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	children := testChildren()
	seedEntry(entries, "source", "Atelier", children)
	seedEntry(entries, "target", "Sport", nil)
	seedEntry(entries, "other", "Repas", children[:1]) // child-1 active at the same time
	svc := NewEntryService(repo, zap.NewNop())

	_, err := svc.ReassignChild(context.Background(), "source", &dto.ReassignChildRequest{
		TargetEntryID: "target",
		ChildID:       "child-1",
	}, "d")
	if !errors.Is(err, ErrChildDoubleBooked) {
		t.Fatalf("expected ErrChildDoubleBooked, got %v", err)
	}

	source, _ := entries.GetByID(context.Background(), "source")
	if len(source.Children) != 2 {
		t.Errorf("source holds %d children after rejected reassignment", len(source.Children))
	}
}

func TestEntryReassignChildIgnoresCancelledOverlap(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	children := testChildren()
	seedEntry(entries, "source", "Atelier", children)
	seedEntry(entries, "target", "Sport", nil)
	seedEntry(entries, "other", model.CancelledPrefix+"Repas", children[:1])
	svc := NewEntryService(repo, zap.NewNop())

	resp, err := svc.ReassignChild(context.Background(), "source", &dto.ReassignChildRequest{
		TargetEntryID: "target",
		ChildID:       "child-1",
	}, "d")
	if err != nil {
		t.Fatalf("ReassignChild: %v", err)
	}
	if len(resp.Children) != 1 || resp.Children[0].ID != "child-1" {
		t.Errorf("target children: %+v", resp.Children)
	}
}

func TestEntryReassignChildAlreadyLinked(t *testing.T) {
	repo, _, _, entries, _, _ := newMockRepos()
	children := testChildren()
	seedEntry(entries, "source", "Atelier", children)
	seedEntry(entries, "target", "Sport", children[:1])
	svc := NewEntryService(repo, zap.NewNop())

	_, err := svc.ReassignChild(context.Background(), "source", &dto.ReassignChildRequest{
		TargetEntryID: "target",
		ChildID:       "child-1",
	}, "d")
	if !errors.Is(err, pkgerrors.ErrChildAlreadyLinked) {
		t.Fatalf("expected ErrChildAlreadyLinked, got %v", err)
	}
}
