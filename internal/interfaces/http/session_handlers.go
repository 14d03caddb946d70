package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/claim-forms/internal/application/formfill"
)

// SetFieldRequest is the body of PUT /api/form-fill/sessions/:id/fields/:fieldId
type SetFieldRequest struct {
	Value interface{} `json:"value"`
}

// SignatureRequest is the body of POST /api/form-fill/sessions/:id/signature
type SignatureRequest struct {
	Signature string `json:"signature"`
}

// ValidationResponse lists the fields of the active section that need attention
type ValidationResponse struct {
	Valid  bool                  `json:"valid"`
	Errors []formfill.FieldError `json:"errors"`
}

// StartSession handles POST /api/form-fill/sessions
func (h *Handlers) StartSession(c *gin.Context) {
	var req formfill.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.JobID == "" || req.FormID == "" {
		badRequest(c, "jobId and formId are required")
		return
	}

	view, err := h.services.Sessions.Start(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "Failed to start form fill")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSession handles GET /api/form-fill/sessions/:id
func (h *Handlers) GetSession(c *gin.Context) {
	view, err := h.services.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to load form fill")
		return
	}
	c.JSON(http.StatusOK, view)
}

// DiscardSession handles DELETE /api/form-fill/sessions/:id. The saved draft is kept.
func (h *Handlers) DiscardSession(c *gin.Context) {
	if err := h.services.Sessions.Discard(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "Failed to discard form fill")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetSessionField handles PUT /api/form-fill/sessions/:id/fields/:fieldId
func (h *Handlers) SetSessionField(c *gin.Context) {
	var req SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	view, err := h.services.Sessions.SetField(c.Request.Context(), c.Param("id"), c.Param("fieldId"), req.Value)
	if err != nil {
		h.respondError(c, err, "Failed to update field")
		return
	}
	c.JSON(http.StatusOK, view)
}

// NextPhase handles POST /api/form-fill/sessions/:id/next
func (h *Handlers) NextPhase(c *gin.Context) {
	view, err := h.services.Sessions.Next(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to advance form fill")
		return
	}
	c.JSON(http.StatusOK, view)
}

// PreviousPhase handles POST /api/form-fill/sessions/:id/back
func (h *Handlers) PreviousPhase(c *gin.Context) {
	view, err := h.services.Sessions.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to go back")
		return
	}
	c.JSON(http.StatusOK, view)
}

// CaptureSignature handles POST /api/form-fill/sessions/:id/signature
func (h *Handlers) CaptureSignature(c *gin.Context) {
	var req SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	view, err := h.services.Sessions.CaptureSignature(c.Request.Context(), c.Param("id"), req.Signature)
	if err != nil {
		h.respondError(c, err, "Failed to capture signature")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ValidateSession handles POST /api/form-fill/sessions/:id/validate
func (h *Handlers) ValidateSession(c *gin.Context) {
	errs, err := h.services.Sessions.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to validate form fill")
		return
	}
	if errs == nil {
		errs = []formfill.FieldError{}
	}
	c.JSON(http.StatusOK, ValidationResponse{Valid: len(errs) == 0, Errors: errs})
}

// SubmitSession handles POST /api/form-fill/sessions/:id/submit
func (h *Handlers) SubmitSession(c *gin.Context) {
	res, err := h.services.Sessions.Submit(c.Request.Context(), c.Param("id"), submitterFrom(c))
	if err != nil {
		h.respondError(c, err, "Failed to submit form")
		return
	}
	c.JSON(http.StatusCreated, toSubmitResponse(res))
}
