package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"bookstore-api/internal/domains/access"
	"bookstore-api/internal/domains/identity"
	"bookstore-api/internal/shared/response"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrInvalidID    = errors.New("invalid book id")
)

var bookErrorMap = []struct {
	Err     error
	Status  int
	Message string
}{
	{Err: access.ErrUnauthenticated, Status: http.StatusUnauthorized, Message: access.ErrUnauthenticated.Error()},
	{Err: access.ErrForbidden, Status: http.StatusForbidden, Message: access.ErrForbidden.Error()},
	{Err: ErrBookNotFound, Status: http.StatusNotFound, Message: "The specified book does not exist"},
	{Err: ErrInvalidID, Status: http.StatusBadRequest, Message: "ID must be a valid UUID"},
	{Err: identity.ErrUnresolvableIdentity, Status: http.StatusBadRequest, Message: identity.ErrUnresolvableIdentity.Error()},
}

// HandleBookError ghi error response tương ứng; trả về true nếu err != nil
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		response.Error(c, http.StatusBadRequest, "Validation failed", verrs)
		return true
	}

	for _, e := range bookErrorMap {
		if errors.Is(err, e.Err) {
			response.Error(c, e.Status, e.Message, nil)
			return true
		}
	}

	// Lỗi không xác định
	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("book request failed")
	response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	return true
}
