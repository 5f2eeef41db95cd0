package handler

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	appshipping "github.com/commerceos/backend/internal/application/shipping"
)

// ShipmentHandler exposes the shipment lifecycle over HTTP
type ShipmentHandler struct {
	BaseHandler
	service *appshipping.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(service *appshipping.ShipmentService, logger *zap.Logger) *ShipmentHandler {
	return &ShipmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Create handles POST /shipments. A partial booking (order placed with the
// carrier but no AWB assigned) is still a 201; the response carries a
// warning instead of an error.
func (h *ShipmentHandler) Create(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req appshipping.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.CreateShipment(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /shipments/:id
func (h *ShipmentHandler) Get(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	shipmentID, err := h.bindID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.service.GetShipment(c.Request.Context(), tenantID, shipmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /shipments
func (h *ShipmentHandler) List(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req appshipping.ListShipmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	page, err := h.service.ListShipments(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AvailableCouriers handles GET /shipments/:id/couriers
func (h *ShipmentHandler) AvailableCouriers(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	shipmentID, err := h.bindID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	quotes, err := h.service.GetAvailableCouriers(c.Request.Context(), tenantID, shipmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotes)
}

// AssignCourier handles POST /shipments/:id/assign-courier
func (h *ShipmentHandler) AssignCourier(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	shipmentID, err := h.bindID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// body is optional; an empty one lets the carrier auto-pick
	var req appshipping.AssignCourierRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.HandleValidationError(c, err)
			return
		}
	}

	resp, err := h.service.AssignCourier(c.Request.Context(), tenantID, shipmentID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus handles PATCH /shipments/:id/status
func (h *ShipmentHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	shipmentID, err := h.bindID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req appshipping.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), tenantID, shipmentID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /shipments/:id/cancel
func (h *ShipmentHandler) Cancel(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	shipmentID, err := h.bindID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req struct {
		Remarks string `json:"remarks,omitempty"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.HandleValidationError(c, err)
			return
		}
	}

	resp, err := h.service.Cancel(c.Request.Context(), tenantID, shipmentID, req.Remarks)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// TrackingWebhook handles POST /webhooks/tracking. The route is outside the
// auth group; the tenant comes from the X-Tenant-ID header the webhook was
// registered with.
func (h *ShipmentHandler) TrackingWebhook(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req appshipping.TrackingWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.UpdateStatusByAWB(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
