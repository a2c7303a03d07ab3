package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"intakeflow/internal/domain"
)

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, Response{
		Error: &ErrorBody{Code: code, Message: message},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, Response{
		Error: &ErrorBody{Code: code, Message: message, Details: details},
	})
}

// DomainError maps the shared domain error types onto HTTP responses.
// Unknown errors become a 500 and are attached to the gin context so the
// error logger middleware records them.
func DomainError(c *gin.Context, err error) {
	var (
		verr *domain.ValidationError
		nf   *domain.NotFoundError
		perr *domain.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", verr.Fields)
	case errors.As(err, &nf):
		Error(c, http.StatusNotFound, "NOT_FOUND", nf.Error())
	case errors.As(err, &perr):
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "PERSISTENCE_ERROR", "Could not save your data, please try again")
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
