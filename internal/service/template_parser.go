package service

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/model"
)

// ── template parser ─────────────────────────────────────────
//
// Reads the weekly template workbook: one sheet per weekday name
// (Lundi..Vendredi, case-insensitive, other sheets ignored), a header row,
// then one staff member per row. Column A is the staff name, the following
// columns are the weekday's slots. Cell grammar:
//
//	<activity> – <name>[, <name>...]
//
// "pause" (case-insensitive) stands alone with no children; the child-list
// token "tous" expands to the whole roster. Every staff and child name must
// resolve case-insensitively against the live roster as "First Last".
// ─────────────────────────────────────────────────────────────

// breakActivity is the no-children sentinel.
const breakActivity = "pause"

// allChildrenToken expands to every known child.
const allChildrenToken = "tous"

// TemplateEntry is one parsed (staff, weekday, slot) assignment before
// calendar projection. Activity is HTML-escaped; Children is empty only
// when the activity is the break sentinel.
type TemplateEntry struct {
	Staff    model.StaffMember
	Weekday  int // 1=Monday .. 5=Friday
	Slot     int // 1..5; 1..3 on Wednesday
	Activity string
	Children []model.Child
}

// IsBreak reports whether the entry is a break slot.
func (e TemplateEntry) IsBreak() bool {
	return strings.EqualFold(e.Activity, breakActivity)
}

// TemplateParseError is a malformed-cell diagnostic carrying the exact
// position so the document can be fixed in one pass.
type TemplateParseError struct {
	Sheet  string
	Staff  string
	Slot   int
	Reason string
}

func (e *TemplateParseError) Error() string {
	return fmt.Sprintf("sheet %s, staff %s, slot %s: %s", e.Sheet, e.Staff, slotLabel(e.Slot), e.Reason)
}

// UnknownNameError is a referential failure: a workbook name that does not
// resolve against the live roster.
type UnknownNameError struct {
	Kind  string // "staff" | "child"
	Name  string
	Sheet string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown %s name %q on sheet %s", e.Kind, e.Name, e.Sheet)
}

// ParseTemplate reads the workbook bytes against the live roster and
// returns the flat template entry list. It fails on the first malformed
// cell or unresolved name.
func ParseTemplate(workbook []byte, staff []model.StaffMember, children []model.Child) ([]TemplateEntry, error) {
	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	staffByName := make(map[string]model.StaffMember, len(staff))
	for _, s := range staff {
		staffByName[strings.ToLower(s.DisplayName())] = s
	}
	childByName := make(map[string]model.Child, len(children))
	for _, c := range children {
		childByName[strings.ToLower(c.DisplayName())] = c
	}

	var entries []TemplateEntry
	for _, sheet := range f.GetSheetList() {
		weekday, ok := weekdaySheets[strings.ToLower(strings.TrimSpace(sheet))]
		if !ok {
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}

		slots := slotsForWeekday(weekday)
		for _, row := range rows[1:] { // skip header
			if rowEmpty(row) {
				continue
			}

			staffName := strings.TrimSpace(cellAt(row, 0))
			if staffName == "" {
				return nil, &TemplateParseError{Sheet: sheet, Staff: "?", Slot: slots[0], Reason: "missing staff name in column A"}
			}
			member, ok := staffByName[strings.ToLower(staffName)]
			if !ok {
				return nil, &UnknownNameError{Kind: "staff", Name: staffName, Sheet: sheet}
			}

			for i, slot := range slots {
				raw := strings.TrimSpace(cellAt(row, i+1))
				entry, err := parseCell(raw, sheet, member, weekday, slot, children, childByName)
				if err != nil {
					return nil, err
				}
				entries = append(entries, entry)
			}
		}
	}

	return entries, nil
}

// parseCell tokenizes one grid cell into a template entry.
func parseCell(raw, sheet string, member model.StaffMember, weekday, slot int, roster []model.Child, childByName map[string]model.Child) (TemplateEntry, error) {
	fail := func(reason string) (TemplateEntry, error) {
		return TemplateEntry{}, &TemplateParseError{Sheet: sheet, Staff: member.DisplayName(), Slot: slot, Reason: reason}
	}

	if raw == "" {
		return fail("empty cell, every slot must carry an activity")
	}

	activity, list, hasList := splitCell(raw)
	if activity == "" {
		return fail("missing activity before the separator")
	}

	if strings.EqualFold(activity, breakActivity) {
		if hasList {
			return fail(`"pause" takes no child list`)
		}
		return TemplateEntry{
			Staff:    member,
			Weekday:  weekday,
			Slot:     slot,
			Activity: html.EscapeString(activity),
		}, nil
	}

	if !hasList {
		return fail("missing child list after the activity")
	}

	names := strings.Split(list, ",")
	if len(names) == 1 && strings.EqualFold(strings.TrimSpace(names[0]), allChildrenToken) {
		return TemplateEntry{
			Staff:    member,
			Weekday:  weekday,
			Slot:     slot,
			Activity: html.EscapeString(activity),
			Children: append([]model.Child(nil), roster...),
		}, nil
	}

	assigned := make([]model.Child, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		name := strings.TrimSpace(n)
		if name == "" {
			return fail("empty name in child list")
		}
		child, ok := childByName[strings.ToLower(name)]
		if !ok {
			return TemplateEntry{}, &UnknownNameError{Kind: "child", Name: name, Sheet: sheet}
		}
		if seen[child.ChildID] {
			continue
		}
		seen[child.ChildID] = true
		assigned = append(assigned, child)
	}

	return TemplateEntry{
		Staff:    member,
		Weekday:  weekday,
		Slot:     slot,
		Activity: html.EscapeString(activity),
		Children: assigned,
	}, nil
}

// splitCell splits "<activity> – <list>" on the first en dash or hyphen
// separator surrounded by spaces.
func splitCell(raw string) (activity, list string, hasList bool) {
	for _, sep := range []string{" – ", " - "} {
		if idx := strings.Index(raw, sep); idx >= 0 {
			return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+len(sep):]), true
		}
	}
	return strings.TrimSpace(raw), "", false
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
