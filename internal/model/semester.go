package model

import "time"

// Semester statuses.
const (
	SemesterStatusDraft     = "draft"
	SemesterStatusSubmitted = "submitted"
)

// Semester maps to the semesters table. A semester owns its schedule
// entries; re-importing replaces them all.
type Semester struct {
	SemesterID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"semester_id"`
	Name       string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate  time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Status     string    `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"`
	BaseModel
}

// TableName names the table.
func (Semester) TableName() string { return "semesters" }
