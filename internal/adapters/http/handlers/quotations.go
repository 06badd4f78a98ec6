package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quotemill/quotemill/internal/adapters/http/dto"
	"github.com/quotemill/quotemill/internal/adapters/http/middleware"
	"github.com/quotemill/quotemill/internal/app"
	"github.com/quotemill/quotemill/internal/domain"
)

// QuotationHandler handles quotation authoring and document endpoints.
type QuotationHandler struct {
	quotations *app.QuotationService
	documents  *app.DocumentService
}

// NewQuotationHandler creates a new quotation handler.
func NewQuotationHandler(quotations *app.QuotationService, documents *app.DocumentService) *QuotationHandler {
	return &QuotationHandler{
		quotations: quotations,
		documents:  documents,
	}
}

// ownerID returns the authenticated subject. RequireAuth guarantees a
// subject is present on these routes.
func ownerID(c *gin.Context) string {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.Subject
	}

	return ""
}

// Create handles POST /api/v1/quotations.
func (h *QuotationHandler) Create(c *gin.Context) {
	var req dto.QuotationRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			err.Error(),
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	q, err := h.quotations.Create(c.Request.Context(), req.ToDomain(ownerID(c), ""))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromQuotation(q))
}

// List handles GET /api/v1/quotations.
// Results are newest first and cursor-paginated.
func (h *QuotationHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid pagination parameters",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	cursor, err := page.DecodeCursor()
	if err != nil && !errors.Is(err, dto.ErrNoCursor) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid cursor",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	qs, err := h.quotations.List(c.Request.Context(), ownerID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	qs = afterCursor(qs, cursor)

	limit := page.GetLimit()
	if len(qs) > limit+1 {
		qs = qs[:limit+1]
	}

	items := make([]*dto.QuotationResponse, len(qs))
	for i, q := range qs {
		items[i] = dto.FromQuotation(q)
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(items, limit, quotationCursor))
}

// afterCursor trims the newest-first listing to the items after the cursor
// position. A cursor pointing at a since-deleted item resumes at the first
// item older than it.
func afterCursor(qs []*domain.Quotation, cursor *dto.CursorData) []*domain.Quotation {
	if cursor == nil {
		return qs
	}

	at, err := time.Parse(time.RFC3339Nano, cursor.Value)
	if err != nil {
		return qs
	}

	for i, q := range qs {
		if q.ID == cursor.ID {
			return qs[i+1:]
		}

		if q.CreatedAt.Before(at) {
			return qs[i:]
		}
	}

	return nil
}

func quotationCursor(q *dto.QuotationResponse) *dto.CursorData {
	return dto.NewCursor("createdAt", q.CreatedAt.UTC().Format(time.RFC3339Nano), q.ID)
}

// Get handles GET /api/v1/quotations/:id.
func (h *QuotationHandler) Get(c *gin.Context) {
	q, err := h.quotations.Get(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromQuotation(q))
}

// Update handles PUT /api/v1/quotations/:id.
func (h *QuotationHandler) Update(c *gin.Context) {
	var req dto.QuotationRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			err.Error(),
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	q, err := h.quotations.Update(c.Request.Context(), req.ToDomain(ownerID(c), c.Param("id")))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromQuotation(q))
}

// Delete handles DELETE /api/v1/quotations/:id.
func (h *QuotationHandler) Delete(c *gin.Context) {
	if err := h.quotations.Delete(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Document handles POST /api/v1/quotations/:id/document.
// The mode query parameter selects delivery: download streams the document
// back, export archives it and returns its storage key.
func (h *QuotationHandler) Document(c *gin.Context) {
	mode, err := app.ParseDocumentMode(c.Query("mode"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	result, err := h.documents.Generate(c.Request.Context(), ownerID(c), c.Param("id"), mode)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if mode == app.DocumentExport {
		c.JSON(http.StatusOK, dto.DocumentResponse{
			Filename: result.Filename,
			Key:      result.Key,
			Pages:    result.Pages,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}

// ExportAll handles POST /api/v1/quotations/export.
// Every quotation the owner has is archived; failures are reported per
// quotation instead of aborting the batch.
func (h *QuotationHandler) ExportAll(c *gin.Context) {
	report, err := h.documents.ExportAll(c.Request.Context(), ownerID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	out := dto.ExportReportResponse{
		Exported: make([]dto.DocumentResponse, len(report.Exported)),
		Failed:   make([]dto.ExportFailureResponse, len(report.Failed)),
	}

	for i, d := range report.Exported {
		out.Exported[i] = dto.DocumentResponse{
			Filename: d.Filename,
			Key:      d.Key,
			Pages:    d.Pages,
		}
	}

	for i, f := range report.Failed {
		out.Failed[i] = dto.ExportFailureResponse{
			QuotationID: f.QuotationID,
			QuoteName:   f.QuoteName,
			Error:       f.Err.Error(),
		}
	}

	c.JSON(http.StatusOK, out)
}

// RegisterQuotationRoutes registers quotation routes on the given router group.
func (h *QuotationHandler) RegisterQuotationRoutes(rg *gin.RouterGroup) {
	quotations := rg.Group("/quotations")
	quotations.POST("", h.Create)
	quotations.GET("", h.List)
	quotations.POST("/export", h.ExportAll)
	quotations.GET("/:id", h.Get)
	quotations.PUT("/:id", h.Update)
	quotations.DELETE("/:id", h.Delete)
	quotations.POST("/:id/document", h.Document)
}
