package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/closure"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/repository"
	pkgerrors "github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/errors"
)

// In-memory repositories shared by the service tests. They keep entries in
// maps keyed by ID and mimic the gorm error contract (ErrRecordNotFound).

func newMockRepos() (*repository.Repository, *mockSemesterRepo, *mockRosterRepo, *mockEntryRepo, *mockDocumentRepo, *mockEventRepo) {
	sem := &mockSemesterRepo{items: map[string]*model.Semester{}}
	roster := &mockRosterRepo{}
	entry := &mockEntryRepo{items: map[string]*model.ScheduleEntry{}}
	doc := &mockDocumentRepo{}
	event := &mockEventRepo{}
	repo := &repository.Repository{
		Semester: sem,
		Roster:   roster,
		Entry:    entry,
		Document: doc,
		Event:    event,
	}
	return repo, sem, roster, entry, doc, event
}

// ── semesters ──

type mockSemesterRepo struct {
	items   map[string]*model.Semester
	created int
}

func (m *mockSemesterRepo) Create(_ context.Context, s *model.Semester) error {
	if s.SemesterID == "" {
		s.SemesterID = "sem-created"
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	m.items[s.SemesterID] = s
	m.created++
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	out := make([]model.Semester, 0, len(m.items))
	for _, s := range m.items {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSemesterRepo) UpdateStatus(_ context.Context, id, status, updatedBy string) error {
	s, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	s.UpdatedBy = &updatedBy
	return nil
}

// ── roster ──

type mockRosterRepo struct {
	staff    []model.StaffMember
	children []model.Child
}

func (m *mockRosterRepo) ListStaff(_ context.Context) ([]model.StaffMember, error) {
	return m.staff, nil
}

func (m *mockRosterRepo) GetStaff(_ context.Context, id string) (*model.StaffMember, error) {
	for i := range m.staff {
		if m.staff[i].StaffID == id {
			return &m.staff[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRosterRepo) ListChildren(_ context.Context) ([]model.Child, error) {
	return m.children, nil
}

func (m *mockRosterRepo) GetChild(_ context.Context, id string) (*model.Child, error) {
	for i := range m.children {
		if m.children[i].ChildID == id {
			return &m.children[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── schedule entries ──

type mockEntryRepo struct {
	items    map[string]*model.ScheduleEntry
	nextID   int
	replaced int // ReplaceSemester call count
	lastDoc  *model.ScheduleDocument
}

func (m *mockEntryRepo) put(e *model.ScheduleEntry) *model.ScheduleEntry {
	if e.EntryID == "" {
		m.nextID++
		e.EntryID = "entry-" + strconv.Itoa(m.nextID)
	}
	m.items[e.EntryID] = e
	return e
}

func (m *mockEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	e, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *e
	copied.Children = append([]model.Child(nil), e.Children...)
	return &copied, nil
}

func (m *mockEntryRepo) ListBySemester(_ context.Context, semesterID string) ([]model.ScheduleEntry, error) {
	var out []model.ScheduleEntry
	for _, e := range m.items {
		if e.SemesterID == semesterID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEntryRepo) ListBySemesterAndStaff(_ context.Context, semesterID, staffID string) ([]model.ScheduleEntry, error) {
	var out []model.ScheduleEntry
	for _, e := range m.items {
		if e.SemesterID == semesterID && e.StaffID == staffID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEntryRepo) ListBySemesterAndChild(_ context.Context, semesterID, childID string) ([]model.ScheduleEntry, error) {
	var out []model.ScheduleEntry
	for _, e := range m.items {
		if e.SemesterID != semesterID {
			continue
		}
		for _, c := range e.Children {
			if c.ChildID == childID {
				out = append(out, *e)
				break
			}
		}
	}
	return out, nil
}

func (m *mockEntryRepo) ListActiveForChildOverlapping(_ context.Context, childID string, startsAt, endsAt time.Time) ([]model.ScheduleEntry, error) {
	var out []model.ScheduleEntry
	for _, e := range m.items {
		if strings.HasPrefix(e.Activity, model.CancelledPrefix) {
			continue
		}
		if !e.StartsAt.Before(endsAt) || !e.EndsAt.After(startsAt) {
			continue
		}
		for _, c := range e.Children {
			if c.ChildID == childID {
				out = append(out, *e)
				break
			}
		}
	}
	return out, nil
}

func (m *mockEntryRepo) ListStaffIDsWithEntries(_ context.Context, semesterID string) ([]string, error) {
	seen := map[string]bool{}
	var ids []string
	for _, e := range m.items {
		if e.SemesterID == semesterID && !seen[e.StaffID] {
			seen[e.StaffID] = true
			ids = append(ids, e.StaffID)
		}
	}
	return ids, nil
}

func (m *mockEntryRepo) UpdateActivity(_ context.Context, id, activity, updatedBy string) error {
	e, ok := m.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Activity = activity
	e.UpdatedBy = &updatedBy
	return nil
}

func (m *mockEntryRepo) MoveAllChildren(_ context.Context, sourceID, targetID string, sourceActivity string, updatedBy string) error {
	source, ok := m.items[sourceID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	target, ok := m.items[targetID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	onTarget := map[string]bool{}
	for _, c := range target.Children {
		onTarget[c.ChildID] = true
	}
	for _, c := range source.Children {
		if !onTarget[c.ChildID] {
			target.Children = append(target.Children, c)
		}
	}
	source.Children = nil
	if sourceActivity != "" {
		source.Activity = sourceActivity
		source.UpdatedBy = &updatedBy
	}
	return nil
}

func (m *mockEntryRepo) MoveChild(_ context.Context, sourceID, targetID, childID string) error {
	source, ok := m.items[sourceID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	target, ok := m.items[targetID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, c := range target.Children {
		if c.ChildID == childID {
			return pkgerrors.ErrChildAlreadyLinked
		}
	}
	for i, c := range source.Children {
		if c.ChildID == childID {
			source.Children = append(source.Children[:i], source.Children[i+1:]...)
			target.Children = append(target.Children, c)
			return nil
		}
	}
	return pkgerrors.ErrChildNotLinked
}

func (m *mockEntryRepo) ReplaceSemester(_ context.Context, semesterID string, entries []model.ScheduleEntry, doc *model.ScheduleDocument) error {
	for id, e := range m.items {
		if e.SemesterID == semesterID {
			delete(m.items, id)
		}
	}
	for i := range entries {
		copied := entries[i]
		m.put(&copied)
	}
	m.replaced++
	m.lastDoc = doc
	return nil
}

// ── documents ──

type mockDocumentRepo struct {
	doc *model.ScheduleDocument
}

func (m *mockDocumentRepo) GetBySemester(_ context.Context, semesterID string) (*model.ScheduleDocument, error) {
	if m.doc == nil || m.doc.SemesterID != semesterID {
		return nil, gorm.ErrRecordNotFound
	}
	return m.doc, nil
}

// ── saturday events ──

type mockEventRepo struct {
	events []model.SaturdayEvent
	err    error
}

func (m *mockEventRepo) ListConfirmedForChild(_ context.Context, childID string, from, to time.Time) ([]model.SaturdayEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.SaturdayEvent
	for _, ev := range m.events {
		if ev.ChildID != childID || !ev.Paid || !ev.Confirmed {
			continue
		}
		if ev.StartsAt.Before(from) || !ev.StartsAt.Before(to.AddDate(0, 0, 1)) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// ── shared fixtures ──

func testStaff() []model.StaffMember {
	return []model.StaffMember{
		{StaffID: "staff-1", FirstName: "Marie", LastName: "Durand"},
		{StaffID: "staff-2", FirstName: "Paul", LastName: "Bernard"},
	}
}

func testChildren() []model.Child {
	return []model.Child{
		{ChildID: "child-1", FirstName: "Emma", LastName: "Dupont"},
		{ChildID: "child-2", FirstName: "Léo", LastName: "Martin"},
	}
}

// openResolver never reports a closure.
type openResolver struct{}

func (openResolver) Resolve(context.Context, time.Time) *closure.Closure { return nil }

// scriptedResolver closes the configured dates.
type scriptedResolver struct {
	closed map[string]closure.Closure // keyed by "2006-01-02"
}

func (r *scriptedResolver) Resolve(_ context.Context, date time.Time) *closure.Closure {
	if c, ok := r.closed[date.Format("2006-01-02")]; ok {
		return &c
	}
	return nil
}
