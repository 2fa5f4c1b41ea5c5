package model

import (
	"strings"
	"time"
)

// StaffMember maps to the staff_members table. The rows are owned by the
// identity service; this service only reads them.
type StaffMember struct {
	StaffID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"staff_id"`
	FirstName string    `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null"                     json:"last_name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName names the table.
func (StaffMember) TableName() string { return "staff_members" }

// DisplayName returns "First Last".
func (s StaffMember) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Child maps to the children table, also owned by the identity service.
type Child struct {
	ChildID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"child_id"`
	FirstName string    `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null"                     json:"last_name"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName names the table.
func (Child) TableName() string { return "children" }

// DisplayName returns "First Last".
func (c Child) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
