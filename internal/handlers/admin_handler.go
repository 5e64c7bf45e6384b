package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyreserve/airline-backend/internal/models"
	"github.com/skyreserve/airline-backend/internal/services"
)

// AdminHandler handles the back-office surfaces: aircraft and crew
// management plus user administration. All routes are admin-only.
type AdminHandler struct {
	aircraftService *services.AircraftService
	crewService     *services.CrewService
	userService     *services.UserService
	logger          *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	aircraftService *services.AircraftService,
	crewService *services.CrewService,
	userService *services.UserService,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		aircraftService: aircraftService,
		crewService:     crewService,
		userService:     userService,
		logger:          logger,
	}
}

// CreateAircraft handles POST /api/v1/aircraft
func (h *AdminHandler) CreateAircraft(c *gin.Context) {
	var req models.CreateAircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	aircraft, err := h.aircraftService.CreateAircraft(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, aircraft)
}

// GetAircraft handles GET /api/v1/aircraft/:id
func (h *AdminHandler) GetAircraft(c *gin.Context) {
	aircraft, err := h.aircraftService.GetAircraft(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, aircraft)
}

// ListAircraft handles GET /api/v1/aircraft
func (h *AdminHandler) ListAircraft(c *gin.Context) {
	aircraft, err := h.aircraftService.ListAircraft()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"aircraft": aircraft})
}

// DeleteAircraft handles DELETE /api/v1/aircraft/:id
func (h *AdminHandler) DeleteAircraft(c *gin.Context) {
	if err := h.aircraftService.DeleteAircraft(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "aircraft deleted"})
}

// CreateCrewMember handles POST /api/v1/crew
func (h *AdminHandler) CreateCrewMember(c *gin.Context) {
	var req models.CreateCrewMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	member, err := h.crewService.CreateCrewMember(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// GetCrewMember handles GET /api/v1/crew/:id
func (h *AdminHandler) GetCrewMember(c *gin.Context) {
	member, err := h.crewService.GetCrewMember(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// ListCrewMembers handles GET /api/v1/crew
func (h *AdminHandler) ListCrewMembers(c *gin.Context) {
	members, err := h.crewService.ListCrewMembers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"crew_members": members})
}

// DeleteCrewMember handles DELETE /api/v1/crew/:id
func (h *AdminHandler) DeleteCrewMember(c *gin.Context) {
	if err := h.crewService.DeleteCrewMember(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "crew member deleted"})
}

// CreateUser handles POST /api/v1/users, creating an account of any role.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	user, err := h.userService.CreateUser(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// ListUsers handles GET /api/v1/users, optionally filtered by ?role=.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var (
		users []*models.User
		err   error
	)
	if role := c.Query("role"); role != "" {
		users, err = h.userService.ListByRole(models.Role(role))
	} else {
		users, err = h.userService.ListUsers()
	}
	if err != nil {
		respondError(c, err)
		return
	}

	// Strip password hashes from the listing.
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":             u.ID,
			"username":       u.Username,
			"role":           u.Role,
			"loyalty_points": u.LoyaltyPoints,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

// DeleteUser handles DELETE /api/v1/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
