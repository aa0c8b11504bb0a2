package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookstore-api/internal/domains/book/model"
	service "bookstore-api/internal/domains/book/service"
	"bookstore-api/internal/shared/middleware"
	"bookstore-api/internal/shared/response"
)

// Handler - HTTP Handler (single file)
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListBooks - GET /v1/books?page=&limit=
func (h *Handler) ListBooks(c *gin.Context) {
	var req model.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	data, meta, err := h.service.ListBooks(c.Request.Context(), middleware.GetActor(c), req)
	if model.HandleBookError(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Get books successfully", data, &response.Meta{
		Page:  meta.Page,
		Limit: meta.Limit,
		Total: meta.Total,
	})
}

// GetBook - GET /v1/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetBook(c.Request.Context(), middleware.GetActor(c), id)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Get book successfully", detail)
}

// CreateBook - POST /v1/books
// Author = user hiện tại; "author" trong payload bị bỏ qua
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request data", err)
		return
	}

	detail, err := h.service.CreateBook(c.Request.Context(), middleware.GetActor(c), req)
	if model.HandleBookError(c, err) {
		return
	}

	c.Header("Location", "/api/v1/books/"+detail.ID.String())
	response.Success(c, http.StatusCreated, "Book created successfully", detail)
}

// UpdateBook - PUT /v1/books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request data", err)
		return
	}

	detail, err := h.service.UpdateBook(c.Request.Context(), middleware.GetActor(c), id, req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", detail)
}

// PatchBook - PATCH /v1/books/:id
func (h *Handler) PatchBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	var req model.PatchBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request data", err)
		return
	}

	detail, err := h.service.PatchBook(c.Request.Context(), middleware.GetActor(c), id, req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", detail)
}

// DeleteBook - DELETE /v1/books/:id → 204
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	err := h.service.DeleteBook(c.Request.Context(), middleware.GetActor(c), id)
	if model.HandleBookError(c, err) {
		return
	}

	response.NoContent(c)
}

// ExportBooks - GET /v1/admin/books/export (xlsx)
func (h *Handler) ExportBooks(c *gin.Context) {
	f, err := h.service.ExportBooksToExcel(c.Request.Context())
	if model.HandleBookError(c, err) {
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("close excel file")
		}
	}()

	filename := fmt.Sprintf("books_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("write excel file")
	}
}

func parseBookID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		model.HandleBookError(c, model.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
