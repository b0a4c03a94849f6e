package handlers

import (
	"net/http"

	"servihub/middleware"
	"servihub/services/payment"
	"servihub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes payment intent creation. The booking core only
// consumes the resulting transaction id.
type PaymentHandler struct {
	Service payment.PaymentService
	Logger  *zap.Logger
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(svc payment.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Service: svc, Logger: logger}
}

// CreateIntent handles POST /api/payments/intent.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var input struct {
		Amount   float64 `json:"amount" binding:"required"`
		Currency string  `json:"currency"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	customerID := c.GetString(middleware.CtxActorID)

	result, err := h.Service.CreateIntent(input.Amount, input.Currency, customerID)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Payment gateway error", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
