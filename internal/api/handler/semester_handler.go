package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/dto"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/service"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/response"
)

// SemesterHandler serves the semester lifecycle routes.
type SemesterHandler struct {
	svc    service.SemesterService
	logger *zap.Logger
}

// NewSemesterHandler creates the SemesterHandler.
func NewSemesterHandler(svc service.SemesterService, logger *zap.Logger) *SemesterHandler {
	return &SemesterHandler{svc: svc, logger: logger}
}

// Create handles POST /semesters.
func (h *SemesterHandler) Create(c *gin.Context) {
	var req dto.CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), &req, MustGetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrSemesterDateInvalid) {
			response.BadRequest(c, CodeSemesterInvalid, err.Error())
			return
		}
		h.logger.Error("create semester failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.Created(c, resp)
}

// List handles GET /semesters.
func (h *SemesterHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list semesters failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Get handles GET /semesters/:id.
func (h *SemesterHandler) Get(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSemesterNotFound) {
			response.NotFound(c, CodeSemesterNotFound, "semester not found")
			return
		}
		h.logger.Error("get semester failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Submit handles POST /semesters/:id/submit.
func (h *SemesterHandler) Submit(c *gin.Context) {
	resp, err := h.svc.Submit(c.Request.Context(), c.Param("id"), MustGetUserID(c))
	if err != nil {
		var incomplete *service.IncompleteSemesterError
		switch {
		case errors.Is(err, service.ErrSemesterNotFound):
			response.NotFound(c, CodeSemesterNotFound, "semester not found")
		case errors.As(err, &incomplete):
			response.ErrorWithDetails(c, http.StatusConflict, CodeSubmitIncomplete,
				"semester has staff without entries", incomplete.Error())
		default:
			h.logger.Error("submit semester failed", zap.Error(err))
			response.InternalError(c)
		}
		return
	}
	response.OK(c, resp)
}
