package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/config"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/internal/service"
	pkgerrors "github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/errors"
	"github.com/Kherraz-Med-Achraf/Projet-5IW-sub001/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportHandler serves the template upload routes. The workbook arrives as
// a multipart form file under the "file" field.
type ImportHandler struct {
	cfg    *config.Config
	svc    service.ImportService
	logger *zap.Logger
}

// NewImportHandler creates the ImportHandler.
func NewImportHandler(cfg *config.Config, svc service.ImportService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{cfg: cfg, svc: svc, logger: logger}
}

// Preview handles POST /semesters/:id/preview.
func (h *ImportHandler) Preview(c *gin.Context) {
	_, workbook, ok := h.readWorkbook(c)
	if !ok {
		return
	}

	resp, err := h.svc.Preview(c.Request.Context(), c.Param("id"), workbook)
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.OK(c, resp)
}

// Import handles POST /semesters/:id/import.
func (h *ImportHandler) Import(c *gin.Context) {
	filename, workbook, ok := h.readWorkbook(c)
	if !ok {
		return
	}

	resp, err := h.svc.Import(c.Request.Context(), c.Param("id"), filename, workbook, MustGetUserID(c))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	response.OK(c, resp)
}

// GetDocument handles GET /semesters/:id/document, streaming back the
// archived workbook.
func (h *ImportHandler) GetDocument(c *gin.Context) {
	doc, err := h.svc.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			response.NotFound(c, CodeDocumentMissing, "no document archived for this semester")
			return
		}
		h.logger.Error("get document failed", zap.Error(err))
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, doc.Content)
}

func (h *ImportHandler) readWorkbook(c *gin.Context) (string, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, CodeBadRequest, `missing multipart file field "file"`)
		return "", nil, false
	}
	if fileHeader.Size > h.cfg.Import.MaxUploadSize {
		response.Error(c, http.StatusRequestEntityTooLarge, CodeBadRequest, "workbook exceeds the upload size limit")
		return "", nil, false
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		response.BadRequest(c, CodeBadRequest, "workbook must be an .xlsx file")
		return "", nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("open upload failed", zap.Error(err))
		response.InternalError(c)
		return "", nil, false
	}
	defer f.Close()

	workbook, err := io.ReadAll(io.LimitReader(f, h.cfg.Import.MaxUploadSize+1))
	if err != nil {
		h.logger.Error("read upload failed", zap.Error(err))
		response.InternalError(c)
		return "", nil, false
	}
	if int64(len(workbook)) > h.cfg.Import.MaxUploadSize {
		response.Error(c, http.StatusRequestEntityTooLarge, CodeBadRequest, "workbook exceeds the upload size limit")
		return "", nil, false
	}

	return fileHeader.Filename, workbook, true
}

// writeErr maps the pipeline's typed errors onto the response envelope.
// Validation reports go out as 422 with the full diagnostic in details.
func (h *ImportHandler) writeErr(c *gin.Context, err error) {
	var (
		parseErr    *service.TemplateParseError
		nameErr     *service.UnknownNameError
		conflictErr *service.SlotConflictError
		childErr    *service.ChildConflictError
		coverageErr *service.CoverageError
	)
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, CodeSemesterNotFound, "semester not found")
	case errors.Is(err, service.ErrSemesterSubmitted):
		response.Conflict(c, CodeSemesterLocked, "semester is submitted, re-import is not allowed")
	case errors.Is(err, pkgerrors.ErrImportInProgress):
		response.Conflict(c, CodeImportBusy, "an import is already running for this semester")
	case errors.As(err, &parseErr):
		response.UnprocessableEntity(c, CodeTemplateInvalid, "template cell is malformed", parseErr.Error())
	case errors.As(err, &nameErr):
		response.UnprocessableEntity(c, CodeUnknownName, "template references an unknown name", nameErr.Error())
	case errors.As(err, &conflictErr):
		response.UnprocessableEntity(c, CodeSlotConflict, "staff member is double-booked", conflictErr.Error())
	case errors.As(err, &childErr):
		response.UnprocessableEntity(c, CodeChildConflict, "child is double-booked", childErr.Error())
	case errors.As(err, &coverageErr):
		response.UnprocessableEntity(c, CodeCoverageGap, "template coverage is incomplete", coverageErr.Error())
	default:
		h.logger.Error("import pipeline failed", zap.Error(err))
		response.InternalError(c)
	}
}
