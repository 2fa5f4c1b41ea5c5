package dto

// ── briefs ──

// StaffBrief is the staff reference payload.
type StaffBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ChildBrief is the child reference payload.
type ChildBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ── schedule queries ──

// ScheduleEntryResponse is one concrete dated occurrence.
type ScheduleEntryResponse struct {
	ID         string       `json:"id"`
	SemesterID string       `json:"semester_id"`
	Staff      *StaffBrief  `json:"staff,omitempty"`
	Weekday    int          `json:"weekday"`
	StartsAt   string       `json:"starts_at"`
	EndsAt     string       `json:"ends_at"`
	Activity   string       `json:"activity"`
	Cancelled  bool         `json:"cancelled"`
	Children   []ChildBrief `json:"children"`
}

// StaffScheduleResponse groups one staff member's entries.
type StaffScheduleResponse struct {
	Staff   StaffBrief              `json:"staff"`
	Entries []ScheduleEntryResponse `json:"entries"`
}

// SemesterScheduleResponse is the aggregated semester schedule.
type SemesterScheduleResponse struct {
	Semester SemesterResponse        `json:"semester"`
	Staff    []StaffScheduleResponse `json:"staff"`
}

// SaturdayEventResponse is one externally-registered Saturday activity.
type SaturdayEventResponse struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

// ChildScheduleResponse merges a child's weekly entries with their
// confirmed one-off Saturday events.
type ChildScheduleResponse struct {
	Child   ChildBrief              `json:"child"`
	Entries []ScheduleEntryResponse `json:"entries"`
	Events  []SaturdayEventResponse `json:"events"`
}

// ── import pipeline ──

// PreviewResponse carries the validated projection without persistence.
type PreviewResponse struct {
	SemesterID string                  `json:"semester_id"`
	EntryCount int                     `json:"entry_count"`
	Entries    []ScheduleEntryResponse `json:"entries"`
}

// ImportResponse reports a persisted import.
type ImportResponse struct {
	SemesterID string `json:"semester_id"`
	EntryCount int    `json:"entry_count"`
}

// ── entry mutations ──

// ReassignAllRequest moves every child link from one entry to another.
type ReassignAllRequest struct {
	TargetEntryID string `json:"target_entry_id" binding:"required,uuid"`
}

// ReassignChildRequest moves one child link from one entry to another.
type ReassignChildRequest struct {
	TargetEntryID string `json:"target_entry_id" binding:"required,uuid"`
	ChildID       string `json:"child_id"        binding:"required,uuid"`
}
