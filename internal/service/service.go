package service

import (
	"go.uber.org/zap"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/config"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/repository"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/redis"
)

// Service aggregates all business services.
type Service struct {
	Semester SemesterService
	Planning PlanningService
	Import   ImportService
	Entry    EntryService
}

// NewService wires all services. rdb may be nil when Redis is unavailable.
func NewService(cfg *config.Config, repo *repository.Repository, resolver ClosureResolver, rdb *redis.Client, logger *zap.Logger) (*Service, error) {
	importSvc, err := NewImportService(cfg, repo, resolver, rdb, logger)
	if err != nil {
		return nil, err
	}
	return &Service{
		Semester: NewSemesterService(repo, logger),
		Planning: NewPlanningService(repo, logger),
		Import:   importSvc,
		Entry:    NewEntryService(repo, logger),
	}, nil
}
