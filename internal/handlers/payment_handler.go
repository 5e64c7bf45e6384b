package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyreserve/airline-backend/internal/middleware"
	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/services"
)

// PaymentHandler handles payment processing and refunds. Payments are
// created by the booking flow; these endpoints only drive the lifecycle of
// existing records.
type PaymentHandler struct {
	paymentService *services.PaymentService
	logger         *logrus.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *services.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Get handles GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, ok := h.authorizedPayment(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, payment)
}

// Process handles POST /api/v1/payments/:id/process
func (h *PaymentHandler) Process(c *gin.Context) {
	payment, ok := h.authorizedPayment(c)
	if !ok {
		return
	}

	message, err := h.paymentService.ProcessPayment(payment.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message, "status": models.PaymentCompleted})
}

// Refund handles POST /api/v1/payments/:id/refund. Cancelling a
// reservation does not call this; a caller wanting funds back invokes it
// explicitly.
func (h *PaymentHandler) Refund(c *gin.Context) {
	payment, ok := h.authorizedPayment(c)
	if !ok {
		return
	}

	message, err := h.paymentService.RefundPayment(payment.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message, "status": models.PaymentRefunded})
}

// List handles GET /api/v1/payments. Passengers see their own history;
// booking managers and admins may query any passenger's.
func (h *PaymentHandler) List(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	passengerID := userCtx.UserID
	if userCtx.Role != string(models.RolePassenger) {
		if q := c.Query("passenger_id"); q != "" {
			passengerID = q
		}
	}

	payments, err := h.paymentService.ListByPassenger(passengerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *PaymentHandler) authorizedPayment(c *gin.Context) (*models.Payment, bool) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}

	payment, err := h.paymentService.GetPayment(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	if userCtx.Role == string(models.RolePassenger) && payment.PassengerID != userCtx.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you may only access your own payments"})
		return nil, false
	}

	return payment, true
}
