package model

import "time"

// ScheduleDocument archives the raw workbook a semester was imported from,
// one per semester, replaced on re-import.
type ScheduleDocument struct {
	DocumentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"document_id"`
	SemesterID string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"semester_id"`
	Filename   string    `gorm:"type:varchar(255);not null"                     json:"filename"`
	Content    []byte    `gorm:"type:bytea;not null"                            json:"-"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName names the table.
func (ScheduleDocument) TableName() string { return "schedule_documents" }
