package model

import (
	"strings"
	"time"
)

// CancelledPrefix marks a cancelled entry's activity label. The prefix is
// reversible: reactivating strips it and restores the label byte for byte.
const CancelledPrefix = "[ANNULÉ] "

// ScheduleEntry maps to the schedule_entries table: one concrete dated
// occurrence of a template slot, or a closure placeholder with no children.
// StartsAt/EndsAt are local wall-clock timestamps, never converted to UTC.
type ScheduleEntry struct {
	EntryID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	SemesterID string    `gorm:"type:uuid;not null"                             json:"semester_id"`
	StaffID    string    `gorm:"type:uuid;not null"                             json:"staff_id"`
	Weekday    int       `gorm:"type:smallint;not null"                         json:"weekday"` // 1=Monday .. 5=Friday
	StartsAt   time.Time `gorm:"type:timestamp;not null"                        json:"starts_at"`
	EndsAt     time.Time `gorm:"type:timestamp;not null"                        json:"ends_at"`
	Activity   string    `gorm:"type:varchar(255);not null"                     json:"activity"`
	BaseModel

	Staff    *StaffMember `gorm:"foreignKey:StaffID;references:StaffID" json:"staff,omitempty"`
	Children []Child      `gorm:"many2many:schedule_entry_children;foreignKey:EntryID;joinForeignKey:ScheduleEntryID;references:ChildID;joinReferences:ChildID" json:"children,omitempty"`
}

// TableName names the table.
func (ScheduleEntry) TableName() string { return "schedule_entries" }

// Cancelled reports whether the entry carries the cancelled marker.
func (e *ScheduleEntry) Cancelled() bool {
	return strings.HasPrefix(e.Activity, CancelledPrefix)
}
