package service

import "fmt"

// The weekly grid is fixed by the institution: five one-hour slots per day,
// mornings only on Wednesday. Weekdays are numbered 1=Monday .. 5=Friday.

// weekdaySheets maps the accepted workbook sheet names (lowercased) to
// weekday numbers. Any other sheet name is ignored by the parser.
var weekdaySheets = map[string]int{
	"lundi":    1,
	"mardi":    2,
	"mercredi": 3,
	"jeudi":    4,
	"vendredi": 5,
}

// weekdayNames is the reverse mapping, used in diagnostics.
var weekdayNames = map[int]string{
	1: "Lundi",
	2: "Mardi",
	3: "Mercredi",
	4: "Jeudi",
	5: "Vendredi",
}

// slotSpan is a slot's wall-clock bounds.
type slotSpan struct {
	StartHour int
	EndHour   int
}

// SlotSpans are the fixed time-of-day boundaries per slot index.
var SlotSpans = map[int]slotSpan{
	1: {9, 10},
	2: {10, 11},
	3: {11, 12},
	4: {14, 15},
	5: {15, 16},
}

// Daily blocks used for child coverage: a child needs at least one slot in
// each block of each applicable weekday.
const (
	blockMorning   = "morning"   // slots 1-3
	blockAfternoon = "afternoon" // slots 4-5
)

// slotsForWeekday lists the slot indexes a weekday carries.
func slotsForWeekday(weekday int) []int {
	if weekday == 3 {
		return []int{1, 2, 3}
	}
	return []int{1, 2, 3, 4, 5}
}

// blockForSlot maps a slot to its daily block. Wednesday carries the
// morning block only, which slotsForWeekday already guarantees.
func blockForSlot(slot int) string {
	if slot <= 3 {
		return blockMorning
	}
	return blockAfternoon
}

// slotLabel formats a slot's time range for diagnostics, e.g. "09:00-10:00".
func slotLabel(slot int) string {
	span, ok := SlotSpans[slot]
	if !ok {
		return fmt.Sprintf("slot %d", slot)
	}
	return fmt.Sprintf("%02d:00-%02d:00", span.StartHour, span.EndHour)
}
