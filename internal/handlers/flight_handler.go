package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/services"
)

// FlightHandler handles flight CRUD, crew assignment and the seat map
// view. Reads are open to any authenticated user; writes are admin-only
// (enforced by route middleware).
type FlightHandler struct {
	flightService *services.FlightService
	logger        *logrus.Logger
}

// NewFlightHandler creates a new FlightHandler
func NewFlightHandler(flightService *services.FlightService, logger *logrus.Logger) *FlightHandler {
	return &FlightHandler{
		flightService: flightService,
		logger:        logger,
	}
}

// Create handles POST /api/v1/flights
func (h *FlightHandler) Create(c *gin.Context) {
	var req models.CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	flight, err := h.flightService.CreateFlight(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, flight)
}

// Get handles GET /api/v1/flights/:id
func (h *FlightHandler) Get(c *gin.Context) {
	flight, err := h.flightService.GetFlight(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

// List handles GET /api/v1/flights
func (h *FlightHandler) List(c *gin.Context) {
	flights, err := h.flightService.ListFlights()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": flights})
}

// Delete handles DELETE /api/v1/flights/:id
func (h *FlightHandler) Delete(c *gin.Context) {
	if err := h.flightService.DeleteFlight(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "flight deleted"})
}

// SeatMap handles GET /api/v1/flights/:id/seats, returning the occupancy
// grid so clients can render seat selection.
func (h *FlightHandler) SeatMap(c *gin.Context) {
	flight, err := h.flightService.GetFlight(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	layout := flight.SeatMap.Layout()
	c.JSON(http.StatusOK, gin.H{
		"flight_id":     flight.ID,
		"rows":          layout.Rows,
		"seats_per_row": layout.SeatsPerRow,
		"seat_map":      flight.SeatMap,
	})
}

// AssignCrew handles POST /api/v1/flights/:id/crew/:crew_id
func (h *FlightHandler) AssignCrew(c *gin.Context) {
	flight, err := h.flightService.AssignCrew(c.Param("id"), c.Param("crew_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

// RemoveCrew handles DELETE /api/v1/flights/:id/crew/:crew_id
func (h *FlightHandler) RemoveCrew(c *gin.Context) {
	flight, err := h.flightService.RemoveCrew(c.Param("id"), c.Param("crew_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}
