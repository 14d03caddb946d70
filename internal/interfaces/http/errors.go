package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/claim-forms/internal/application/formfill"
	"github.com/garyjia/claim-forms/internal/application/service"
	"github.com/garyjia/claim-forms/internal/domain/workflow"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
}

// HTTPStatus maps an application error to a status code
func HTTPStatus(err error) int {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		forbidden  *service.ForbiddenError
		incomplete *formfill.IncompleteError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, formfill.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &incomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrInvalidTransition), errors.Is(err, workflow.ErrGuardFailed):
		return http.StatusConflict
	case errors.Is(err, service.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Unexpected errors are logged
// and reported with a generic message.
func (h *Handlers) respondError(c *gin.Context, err error, fallback string) {
	status := HTTPStatus(err)
	resp := ErrorResponse{Success: false, Error: err.Error()}

	var notFound *service.NotFoundError
	var incomplete *formfill.IncompleteError
	var validation *service.ValidationError
	switch {
	case status == http.StatusInternalServerError:
		h.logger.Error(fallback, "path", c.Request.URL.Path, "error", err)
		resp.Error = fallback
	case errors.As(err, &notFound):
		resp.Error = notFound.Resource + " not found"
	case errors.As(err, &incomplete):
		resp.Fields = incomplete.FieldIDs()
	case errors.As(err, &validation):
		resp.Error = validation.Message
	}

	c.JSON(status, resp)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: msg})
}
