package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyreserve/airline-backend/internal/middleware"
	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/services"
)

// ReservationHandler handles the booking lifecycle endpoints
type ReservationHandler struct {
	reservationService *services.ReservationService
	logger             *logrus.Logger
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservationService *services.ReservationService, logger *logrus.Logger) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		logger:             logger,
	}
}

// Create handles POST /api/v1/reservations. Passengers book for
// themselves; booking managers may book on behalf of any passenger by
// setting passenger_id.
func (h *ReservationHandler) Create(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if userCtx.Role == string(models.RolePassenger) {
		req.PassengerID = userCtx.UserID
	} else if req.PassengerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passenger_id is required when booking on behalf of a passenger"})
		return
	}

	reservation, err := h.reservationService.CreateReservation(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// ChangeSeat handles PUT /api/v1/reservations/:id/seat
func (h *ReservationHandler) ChangeSeat(c *gin.Context) {
	reservation, ok := h.authorizedReservation(c)
	if !ok {
		return
	}

	var req models.ChangeSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	updated, err := h.reservationService.ChangeSeat(reservation.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Cancel handles DELETE /api/v1/reservations/:id. The payment is not
// refunded here; refunds go through the payment endpoints.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	reservation, ok := h.authorizedReservation(c)
	if !ok {
		return
	}

	if err := h.reservationService.CancelReservation(reservation.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reservation cancelled", "payment_id": reservation.PaymentID})
}

// Get handles GET /api/v1/reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	reservation, ok := h.authorizedReservation(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// List handles GET /api/v1/reservations. Passengers see their own;
// booking managers and admins see all, or one passenger's via
// ?passenger_id=.
func (h *ReservationHandler) List(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if userCtx.Role == string(models.RolePassenger) {
		reservations, err := h.reservationService.ListByPassenger(userCtx.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservations": reservations})
		return
	}

	if passengerID := c.Query("passenger_id"); passengerID != "" {
		reservations, err := h.reservationService.ListByPassenger(passengerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservations": reservations})
		return
	}

	reservations, err := h.reservationService.ListReservations()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

// authorizedReservation loads the reservation from the :id param and
// checks the caller may act on it. Passengers may only touch their own
// reservations.
func (h *ReservationHandler) authorizedReservation(c *gin.Context) (*models.Reservation, bool) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}

	reservation, err := h.reservationService.GetReservation(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	if userCtx.Role == string(models.RolePassenger) && reservation.PassengerID != userCtx.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you may only access your own reservations"})
		return nil, false
	}

	return reservation, true
}
