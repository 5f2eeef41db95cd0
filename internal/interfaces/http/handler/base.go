package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commerceos/backend/internal/domain/shared"
	"github.com/commerceos/backend/internal/interfaces/http/dto"
	"github.com/commerceos/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides shared response and error helpers for handlers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a new BaseHandler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Success writes a 200 response with the given data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created writes a 201 response with the given data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 response with pagination metadata
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Error writes an error response with an explicit status and code
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, h.requestID(c)))
}

// HandleError maps an error to its HTTP response. Domain errors carry their
// own code; anything else is an internal error and its detail is logged but
// not leaked to the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	h.logger.Error("unhandled error",
		zap.String("request_id", h.requestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "internal server error")
}

// HandleValidationError writes a 400 response for a request binding failure
func (h *BaseHandler) HandleValidationError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// getTenantID resolves the tenant for the request: the validated JWT claims
// when present, the X-Tenant-ID header otherwise (webhook routes skip auth).
func (h *BaseHandler) getTenantID(c *gin.Context) (uuid.UUID, error) {
	if tenantID, ok := middleware.GetJWTTenantID(c); ok {
		return tenantID, nil
	}
	if header := c.GetHeader("X-Tenant-ID"); header != "" {
		tenantID, err := uuid.Parse(header)
		if err != nil {
			return uuid.Nil, shared.NewDomainError("INVALID_INPUT", "invalid X-Tenant-ID header")
		}
		return tenantID, nil
	}
	return uuid.Nil, shared.ErrUnauthorized
}

// bindID parses the :id path parameter
func (h *BaseHandler) bindID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, shared.NewDomainError("INVALID_INPUT", "invalid id path parameter")
	}
	return id, nil
}

func (h *BaseHandler) requestID(c *gin.Context) string {
	return c.GetString("request_id")
}
