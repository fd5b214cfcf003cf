package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"court-service/internal/adapter/gin/middleware"
	"court-service/internal/adapter/gin/response"
	"court-service/internal/domain/auth"
	apperrors "court-service/pkg/errors"
)

// ErrorResponse represents an error response
type ErrorResponse = response.ErrorResponse

const (
	defaultMaxChunkSize  int64 = 10 << 20
	defaultMaxUploadSize int64 = 100 << 20

	// multipartMemory is how much of a form is kept in memory before spilling to temp files.
	multipartMemory int64 = 32 << 20
	// multipartOverhead leaves room for the other form fields and part headers.
	multipartOverhead int64 = 1 << 20
)

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// bindJSON decodes the request body, answering 400 on malformed JSON.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// pageParams reads page and limit query parameters; the usecases normalize them.
func pageParams(c *gin.Context) (page, limit int64) {
	page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	return page, limit
}

// principal returns the authenticated caller or answers 401.
func principal(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.Principal(c)
	if !ok {
		response.Error(c, apperrors.With(apperrors.ErrUnauthorized, "authentication required"))
	}
	return p, ok
}

// parseUpload caps the request body at limit plus the form overhead and parses
// the multipart form. It answers 400 itself when the body is too large or malformed.
func parseUpload(c *gin.Context, field string, limit int64) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(c, fmt.Sprintf("%s exceeds %d bytes", field, limit))
			return false
		}
		response.BadRequest(c, "invalid multipart form")
		return false
	}
	return true
}

// withinLimit answers 400 when the uploaded file is larger than limit.
func withinLimit(c *gin.Context, fh *multipart.FileHeader, field string, limit int64) bool {
	if fh.Size > limit {
		response.BadRequest(c, fmt.Sprintf("%s exceeds %d bytes", field, limit))
		return false
	}
	return true
}
