package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/dto"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/service"
	pkgerrors "github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/errors"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/response"
)

// EntryHandler serves the schedule entry mutation routes.
type EntryHandler struct {
	svc    service.EntryService
	logger *zap.Logger
}

// NewEntryHandler creates the EntryHandler.
func NewEntryHandler(svc service.EntryService, logger *zap.Logger) *EntryHandler {
	return &EntryHandler{svc: svc, logger: logger}
}

// Cancel handles POST /entries/:id/cancel.
func (h *EntryHandler) Cancel(c *gin.Context) {
	resp, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), MustGetUserID(c))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.OK(c, resp)
}

// Reactivate handles POST /entries/:id/reactivate.
func (h *EntryHandler) Reactivate(c *gin.Context) {
	resp, err := h.svc.Reactivate(c.Request.Context(), c.Param("id"), MustGetUserID(c))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.OK(c, resp)
}

// ReassignAll handles POST /entries/:id/reassign.
func (h *EntryHandler) ReassignAll(c *gin.Context) {
	var req dto.ReassignAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.svc.ReassignAll(c.Request.Context(), c.Param("id"), &req, MustGetUserID(c))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.OK(c, resp)
}

// ReassignChild handles POST /entries/:id/reassign-child.
func (h *EntryHandler) ReassignChild(c *gin.Context) {
	var req dto.ReassignChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.svc.ReassignChild(c.Request.Context(), c.Param("id"), &req, MustGetUserID(c))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *EntryHandler) writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, CodeEntryNotFound, "schedule entry not found")
	case errors.Is(err, service.ErrSameEntry):
		response.BadRequest(c, CodeEntryConflict, "source and target entries are identical")
	case errors.Is(err, service.ErrEntryCancelled):
		response.Conflict(c, CodeEntryConflict, "target entry is cancelled")
	case errors.Is(err, service.ErrNothingToReassign):
		response.Conflict(c, CodeEntryConflict, "source entry has no children to reassign")
	case errors.Is(err, service.ErrChildDoubleBooked):
		response.Conflict(c, CodeEntryConflict, "child is already active in an overlapping entry")
	case errors.Is(err, pkgerrors.ErrChildNotLinked):
		response.Conflict(c, CodeEntryConflict, "child is not linked to the source entry")
	case errors.Is(err, pkgerrors.ErrChildAlreadyLinked):
		response.Conflict(c, CodeEntryConflict, "child is already linked to the target entry")
	default:
		h.logger.Error("entry mutation failed", zap.Error(err))
		response.InternalError(c)
	}
}
