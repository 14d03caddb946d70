package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/claim-forms/internal/application/service"
	"github.com/garyjia/claim-forms/internal/formschema"
)

// ParseSchemaRequest is the body of POST /api/form-schema/parse
type ParseSchemaRequest struct {
	Schema string `json:"schema"`
}

// CreateForm handles POST /api/forms
func (h *Handlers) CreateForm(c *gin.Context) {
	var req service.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	form, err := h.services.Forms.Create(c.Request.Context(), req, submitterFrom(c))
	if err != nil {
		h.respondError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusCreated, form)
}

// ListForms handles GET /api/forms
func (h *Handlers) ListForms(c *gin.Context) {
	filter := service.FormFilter{CompanyID: c.Query("companyId")}
	if v, ok := c.GetQuery("isTemplate"); ok {
		isTemplate := v == "true"
		filter.IsTemplate = &isTemplate
	}

	c.JSON(http.StatusOK, h.services.Forms.List(c.Request.Context(), filter))
}

// GetForm handles GET /api/forms/:id
func (h *Handlers) GetForm(c *gin.Context) {
	form, err := h.services.Forms.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, form)
}

// UpdateForm handles PUT /api/forms/:id
func (h *Handlers) UpdateForm(c *gin.Context) {
	var patch service.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	form, err := h.services.Forms.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, form)
}

// DeleteForm handles DELETE /api/forms/:id
func (h *Handlers) DeleteForm(c *gin.Context) {
	if err := h.services.Forms.Delete(c.Request.Context(), c.Param("id"), identityFrom(c)); err != nil {
		h.respondError(c, err, "Internal server error")
		return
	}
	c.Status(http.StatusNoContent)
}

// ParseSchema handles POST /api/form-schema/parse
func (h *Handlers) ParseSchema(c *gin.Context) {
	var req ParseSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Schema == "" {
		badRequest(c, "Schema is required")
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": formschema.Parse(req.Schema)})
}
