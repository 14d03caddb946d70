package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/claim-forms/internal/domain/entity"
)

// ListSignaturePositions handles GET /api/signature-positions
func (h *Handlers) ListSignaturePositions(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Signatures.All(c.Request.Context()))
}

// GetSignaturePosition handles GET /api/signature-positions/:formType
func (h *Handlers) GetSignaturePosition(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Signatures.Get(c.Request.Context(), c.Param("formType")))
}

// UpdateSignaturePosition handles PUT /api/signature-positions/:formType
func (h *Handlers) UpdateSignaturePosition(c *gin.Context) {
	var placement entity.SignaturePlacement
	if err := c.ShouldBindJSON(&placement); err != nil {
		badRequest(c, "Invalid signature position")
		return
	}

	updated, err := h.services.Signatures.Update(c.Request.Context(), c.Param("formType"), placement, identityFrom(c))
	if err != nil {
		h.respondError(c, err, "Failed to update signature position")
		return
	}
	c.JSON(http.StatusOK, updated)
}
