package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/http/handlers/common"
	"github.com/ignatzorin/expertnet-backend/internal/http/response"
	"github.com/ignatzorin/expertnet-backend/internal/models"
)

// VendorService чтение каталога вендорских платформ.
type VendorService interface {
	ListVendors(ctx context.Context) ([]models.VendorPlatform, error)
	GetVendor(ctx context.Context, id uuid.UUID) (*models.VendorPlatform, error)
}

// VendorHandler обслуживает публичный каталог /api/vendors.
type VendorHandler struct {
	vendors VendorService
}

func NewVendorHandler(vendors VendorService) *VendorHandler {
	return &VendorHandler{vendors: vendors}
}

// ListVendors обрабатывает GET /api/vendors.
func (h *VendorHandler) ListVendors(c *gin.Context) {
	items, err := h.vendors.ListVendors(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.List(c, items)
}

// GetVendor обрабатывает GET /api/vendors/:id.
func (h *VendorHandler) GetVendor(c *gin.Context) {
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	vendor, err := h.vendors.GetVendor(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	response.OK(c, vendor)
}
