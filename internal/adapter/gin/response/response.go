package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "court-service/pkg/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error writes err as a JSON error body with the status of its kind and aborts the chain.
func Error(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	c.AbortWithStatusJSON(apperrors.HTTPStatus(err), ErrorResponse{
		Error:   kind.Code(),
		Message: apperrors.PublicMessage(err),
	})
}

// Abort writes an error body with an explicit status and code.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}

// BadRequest aborts with a 400 bad_request body.
func BadRequest(c *gin.Context, message string) {
	Abort(c, http.StatusBadRequest, apperrors.ErrBadRequest.Code(), message)
}
