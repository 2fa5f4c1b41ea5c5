package service

import (
	"fmt"
	"strings"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
)

// ── coverage & conflict validator ───────────────────────────
//
// Three independent passes over the parsed template, all required before
// expansion:
//  1. staff conflicts: at most one entry per (staff, weekday, slot); a
//     second claim is a hard failure naming both competing activities.
//  2. child conflicts: a child appears at most once per (weekday, slot);
//     a second claim is a hard failure naming both staff members.
//  3. coverage: every roster staff member appears on every weekday, and
//     every child is covered in every applicable daily block. Gaps are
//     accumulated and reported together so the whole sheet can be fixed in
//     one edit cycle.
// ─────────────────────────────────────────────────────────────

// SlotConflictError reports a staff member double-booked in one slot.
type SlotConflictError struct {
	Staff   string
	Weekday int
	Slot    int
	First   string
	Second  string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("staff %s is assigned twice on %s %s: %q vs %q",
		e.Staff, weekdayNames[e.Weekday], slotLabel(e.Slot), e.First, e.Second)
}

// ChildConflictError reports a child assigned to two staff members in the
// same slot.
type ChildConflictError struct {
	Child   string
	Weekday int
	Slot    int
	First   string
	Second  string
}

func (e *ChildConflictError) Error() string {
	return fmt.Sprintf("child %s is assigned twice on %s %s: with %s and with %s",
		e.Child, weekdayNames[e.Weekday], slotLabel(e.Slot), e.First, e.Second)
}

// StaffCoverageGap is a roster staff member absent from one weekday sheet.
type StaffCoverageGap struct {
	Staff   string `json:"staff"`
	Weekday int    `json:"weekday"`
}

// ChildCoverageGap is a child with no assignment in one daily block.
type ChildCoverageGap struct {
	Child   string `json:"child"`
	Weekday int    `json:"weekday"`
	Block   string `json:"block"`
}

// CoverageError aggregates every coverage violation found in one pass.
type CoverageError struct {
	MissingStaff    []StaffCoverageGap
	MissingChildren []ChildCoverageGap
}

func (e *CoverageError) Error() string {
	var b strings.Builder
	b.WriteString("template coverage incomplete:")
	for _, g := range e.MissingStaff {
		fmt.Fprintf(&b, "\n- staff %s has no entry on %s", g.Staff, weekdayNames[g.Weekday])
	}
	for _, g := range e.MissingChildren {
		fmt.Fprintf(&b, "\n- child %s has no slot on %s (%s)", g.Child, weekdayNames[g.Weekday], g.Block)
	}
	return b.String()
}

// ValidateTemplate checks the parsed entries against the live roster.
func ValidateTemplate(entries []TemplateEntry, staff []model.StaffMember, children []model.Child) error {
	// Pass 1: slot conflicts, fail fast.
	type slotKey struct {
		staffID string
		weekday int
		slot    int
	}
	claimed := make(map[slotKey]TemplateEntry, len(entries))
	for _, e := range entries {
		key := slotKey{e.Staff.StaffID, e.Weekday, e.Slot}
		if prev, ok := claimed[key]; ok {
			return &SlotConflictError{
				Staff:   e.Staff.DisplayName(),
				Weekday: e.Weekday,
				Slot:    e.Slot,
				First:   prev.Activity,
				Second:  e.Activity,
			}
		}
		claimed[key] = e
	}

	// Pass 2: child conflicts, fail fast. Slots are the unit of overlap,
	// so one child under two staff members in the same slot is the only way
	// to double-book a child.
	type childSlotKey struct {
		childID string
		weekday int
		slot    int
	}
	childClaimed := make(map[childSlotKey]TemplateEntry)
	for _, e := range entries {
		for _, c := range e.Children {
			key := childSlotKey{c.ChildID, e.Weekday, e.Slot}
			if prev, ok := childClaimed[key]; ok {
				return &ChildConflictError{
					Child:   c.DisplayName(),
					Weekday: e.Weekday,
					Slot:    e.Slot,
					First:   prev.Staff.DisplayName(),
					Second:  e.Staff.DisplayName(),
				}
			}
			childClaimed[key] = e
		}
	}

	// Pass 3: coverage, built as explicit maps in one sweep and inspected
	// at the end.
	type staffDay struct {
		staffID string
		weekday int
	}
	type childBlock struct {
		childID string
		weekday int
		block   string
	}
	staffSeen := make(map[staffDay]bool)
	childSeen := make(map[childBlock]bool)
	for _, e := range entries {
		staffSeen[staffDay{e.Staff.StaffID, e.Weekday}] = true
		block := blockForSlot(e.Slot)
		for _, c := range e.Children {
			childSeen[childBlock{c.ChildID, e.Weekday, block}] = true
		}
	}

	var cov CoverageError
	for _, s := range staff {
		for weekday := 1; weekday <= 5; weekday++ {
			if !staffSeen[staffDay{s.StaffID, weekday}] {
				cov.MissingStaff = append(cov.MissingStaff, StaffCoverageGap{
					Staff:   s.DisplayName(),
					Weekday: weekday,
				})
			}
		}
	}
	for _, c := range children {
		for weekday := 1; weekday <= 5; weekday++ {
			blocks := []string{blockMorning, blockAfternoon}
			if weekday == 3 {
				blocks = []string{blockMorning}
			}
			for _, block := range blocks {
				if !childSeen[childBlock{c.ChildID, weekday, block}] {
					cov.MissingChildren = append(cov.MissingChildren, ChildCoverageGap{
						Child:   c.DisplayName(),
						Weekday: weekday,
						Block:   block,
					})
				}
			}
		}
	}

	if len(cov.MissingStaff) > 0 || len(cov.MissingChildren) > 0 {
		return &cov
	}
	return nil
}
