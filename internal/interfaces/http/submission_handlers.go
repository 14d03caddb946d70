package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/claim-forms/internal/application/service"
	"github.com/garyjia/claim-forms/internal/domain/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SubmitResponse is the submission followed by the numbering message
type SubmitResponse struct {
	*entity.FormSubmission
	Message              string `json:"message"`
	RemainingSubmissions int    `json:"remainingSubmissions"`
	Mirrored             bool   `json:"mirrored"`
}

// DeleteSubmissionResponse is the body of DELETE /api/form-submissions/:id
type DeleteSubmissionResponse struct {
	Success           bool                   `json:"success"`
	Message           string                 `json:"message"`
	DeletedSubmission *entity.FormSubmission `json:"deletedSubmission"`
}

// ClearSubmissionsResponse is the body of DELETE /api/form-submissions
type ClearSubmissionsResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ClearedCount int    `json:"clearedCount"`
}

func toSubmitResponse(res *service.SubmitResult) SubmitResponse {
	return SubmitResponse{
		FormSubmission:       res.Submission,
		Message:              res.Message,
		RemainingSubmissions: res.RemainingSubmissions,
		Mirrored:             res.Mirrored,
	}
}

func submissionFilter(c *gin.Context) service.SubmissionFilter {
	return service.SubmissionFilter{
		JobID:       c.Query("jobId"),
		FormID:      c.Query("formId"),
		SubmittedBy: c.Query("submittedBy"),
	}
}

// SubmitForm handles POST /api/form-submissions
func (h *Handlers) SubmitForm(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "jobId, formId, and data are required")
		return
	}

	res, err := h.services.Submissions.Submit(c.Request.Context(), req, submitterFrom(c))
	if err != nil {
		h.respondError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusCreated, toSubmitResponse(res))
}

// ListSubmissions handles GET /api/form-submissions
func (h *Handlers) ListSubmissions(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Submissions.List(c.Request.Context(), submissionFilter(c)))
}

// ExportSubmissions handles GET /api/form-submissions/export
func (h *Handlers) ExportSubmissions(c *gin.Context) {
	if h.services.Export == nil {
		h.respondError(c, service.ErrExportUnavailable, "Failed to export form submissions")
		return
	}

	var buf bytes.Buffer
	if _, err := h.services.Export.Export(c.Request.Context(), &buf, submissionFilter(c)); err != nil {
		h.respondError(c, err, "Failed to export form submissions")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="form-submissions.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// UpdateSubmission handles PUT /api/form-submissions/:id
func (h *Handlers) UpdateSubmission(c *gin.Context) {
	var patch service.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	sub, err := h.services.Submissions.Update(c.Request.Context(), c.Param("id"), patch, identityFrom(c))
	if err != nil {
		h.respondError(c, err, "Failed to update form submission")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// DeleteSubmission handles DELETE /api/form-submissions/:id
func (h *Handlers) DeleteSubmission(c *gin.Context) {
	deleted, err := h.services.Submissions.Delete(c.Request.Context(), c.Param("id"), identityFrom(c))
	if err != nil {
		h.respondError(c, err, "Failed to delete form submission")
		return
	}
	c.JSON(http.StatusOK, DeleteSubmissionResponse{
		Success:           true,
		Message:           "Form submission deleted successfully",
		DeletedSubmission: deleted,
	})
}

// ClearSubmissions handles DELETE /api/form-submissions
func (h *Handlers) ClearSubmissions(c *gin.Context) {
	n, err := h.services.Submissions.ClearAll(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.respondError(c, err, "Failed to clear form submissions")
		return
	}
	c.JSON(http.StatusOK, ClearSubmissionsResponse{
		Success:      true,
		Message:      "All form submissions have been cleared successfully",
		ClearedCount: n,
	})
}
