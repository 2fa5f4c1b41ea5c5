package model

import "time"

// SaturdayEvent maps to the saturday_events table: one-off weekend
// activities registered and billed by the external events service. Only
// paid and confirmed events surface in child schedules.
type SaturdayEvent struct {
	EventID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	ChildID   string    `gorm:"type:uuid;not null"                             json:"child_id"`
	Label     string    `gorm:"type:varchar(255);not null"                     json:"label"`
	StartsAt  time.Time `gorm:"type:timestamp;not null"                        json:"starts_at"`
	EndsAt    time.Time `gorm:"type:timestamp;not null"                        json:"ends_at"`
	Paid      bool      `gorm:"not null;default:false"                         json:"paid"`
	Confirmed bool      `gorm:"not null;default:false"                         json:"confirmed"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName names the table.
func (SaturdayEvent) TableName() string { return "saturday_events" }
