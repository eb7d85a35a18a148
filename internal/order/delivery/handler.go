package delivery

import (
	"errors"
	"net/http"
	"strconv"

	orderdto "etsy-scanner-backend/internal/order/dto"
	"etsy-scanner-backend/internal/order/usecase"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	scanUsecase usecase.ScanUsecase
}

func NewOrderHandler(scanUsecase usecase.ScanUsecase) *OrderHandler {
	return &OrderHandler{
		scanUsecase: scanUsecase,
	}
}

// StartScan kicks off a background mailbox scan for the authenticated owner.
func (h *OrderHandler) StartScan(c *gin.Context) {
	ownerEmail := c.GetString("ownerEmail")
	accessToken := c.GetString("accessToken")
	refreshToken := c.GetString("refreshToken")

	err := h.scanUsecase.StartScan(c.Request.Context(), ownerEmail, accessToken, refreshToken)
	if err != nil {
		if errors.Is(err, usecase.ErrScanInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, orderdto.ScanStartedResponse{
		OwnerEmail: ownerEmail,
		Status:     "scanning",
	})
}

// ScanStatus returns the current progress snapshot for the owner.
func (h *OrderHandler) ScanStatus(c *gin.Context) {
	ownerEmail := c.GetString("ownerEmail")
	c.JSON(http.StatusOK, h.scanUsecase.Status(ownerEmail))
}

// GetOrders returns the owner's stored orders newest-first.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	ownerEmail := c.GetString("ownerEmail")

	limit := 50
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	orders, total, err := h.scanUsecase.GetOrders(ownerEmail, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orderdto.OrdersResponse{
		Orders: orders,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}
