package repository

import "gorm.io/gorm"

// Repository aggregates every repository interface.
type Repository struct {
	Semester SemesterRepository
	Roster   RosterRepository
	Entry    ScheduleEntryRepository
	Document DocumentRepository
	Event    SaturdayEventRepository
}

// NewRepository wires the gorm-backed implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Semester: NewSemesterRepo(db),
		Roster:   NewRosterRepo(db),
		Entry:    NewScheduleEntryRepo(db),
		Document: NewDocumentRepo(db),
		Event:    NewSaturdayEventRepo(db),
	}
}
