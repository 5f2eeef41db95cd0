package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcourier "github.com/commerceos/backend/internal/application/courier"
)

// CourierAccountHandler exposes courier account management over HTTP
type CourierAccountHandler struct {
	BaseHandler
	service *appcourier.AccountService
}

// NewCourierAccountHandler creates a new CourierAccountHandler
func NewCourierAccountHandler(service *appcourier.AccountService, logger *zap.Logger) *CourierAccountHandler {
	return &CourierAccountHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Create handles POST /courier-accounts
func (h *CourierAccountHandler) Create(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req appcourier.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.CreateAccount(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /courier-accounts/:id
func (h *CourierAccountHandler) Get(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	accountID, err := h.bindID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.service.GetAccount(c.Request.Context(), tenantID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /courier-accounts
func (h *CourierAccountHandler) List(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.service.ListAccounts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// TestConnection handles POST /courier-accounts/:id/test-connection
func (h *CourierAccountHandler) TestConnection(c *gin.Context) {
	tenantID, err := h.getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	accountID, err := h.bindID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.service.TestConnection(c.Request.Context(), tenantID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
