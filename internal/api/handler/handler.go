package handler

import (
	"go.uber.org/zap"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/config"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/service"
)

// Business error codes carried in the response envelope.
const (
	CodeBadRequest       = 10001
	CodeUnauthorized     = 10002
	CodeForbidden        = 10003
	CodeSemesterNotFound = 20001
	CodeSemesterInvalid  = 20002
	CodeSemesterLocked   = 20003
	CodeSubmitIncomplete = 20004
	CodeStaffNotFound    = 20005
	CodeChildNotFound    = 20006
	CodeTemplateInvalid  = 30001
	CodeUnknownName      = 30002
	CodeSlotConflict     = 30003
	CodeCoverageGap      = 30004
	CodeImportBusy       = 30005
	CodeDocumentMissing  = 30006
	CodeChildConflict    = 30007
	CodeEntryNotFound    = 40001
	CodeEntryConflict    = 40002
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Semester *SemesterHandler
	Planning *PlanningHandler
	Import   *ImportHandler
	Entry    *EntryHandler
}

// NewHandler wires the handlers.
func NewHandler(cfg *config.Config, svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Semester: NewSemesterHandler(svc.Semester, logger),
		Planning: NewPlanningHandler(svc.Planning, logger),
		Import:   NewImportHandler(cfg, svc.Import, logger),
		Entry:    NewEntryHandler(svc.Entry, logger),
	}
}
