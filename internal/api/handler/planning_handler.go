package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/service"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/response"
)

// PlanningHandler serves the schedule read routes.
type PlanningHandler struct {
	svc    service.PlanningService
	logger *zap.Logger
}

// NewPlanningHandler creates the PlanningHandler.
func NewPlanningHandler(svc service.PlanningService, logger *zap.Logger) *PlanningHandler {
	return &PlanningHandler{svc: svc, logger: logger}
}

// GetSchedule handles GET /semesters/:id/schedule.
func (h *PlanningHandler) GetSchedule(c *gin.Context) {
	resp, err := h.svc.GetSemesterSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.OK(c, resp)
}

// GetStaffSchedule handles GET /semesters/:id/staff/:staffId.
func (h *PlanningHandler) GetStaffSchedule(c *gin.Context) {
	resp, err := h.svc.GetStaffSchedule(c.Request.Context(), c.Param("id"), c.Param("staffId"))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.OK(c, resp)
}

// GetChildSchedule handles GET /semesters/:id/children/:childId.
func (h *PlanningHandler) GetChildSchedule(c *gin.Context) {
	resp, err := h.svc.GetChildSchedule(c.Request.Context(), c.Param("id"), c.Param("childId"))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *PlanningHandler) writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, CodeSemesterNotFound, "semester not found")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, CodeStaffNotFound, "staff member not found")
	case errors.Is(err, service.ErrChildNotFound):
		response.NotFound(c, CodeChildNotFound, "child not found")
	default:
		h.logger.Error("schedule query failed", zap.Error(err))
		response.InternalError(c)
	}
}
