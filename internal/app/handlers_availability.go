package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schedly-service/internal/slots"
)

// GET /api/availability
func (a *App) ListAvailabilityHandler(c *gin.Context) {
	rules, err := a.ListAvailabilities(c.Request.Context(), authUserID(c))
	if err != nil {
		a.respondStorageError(c, err, "availability")
		return
	}
	if rules == nil {
		rules = []Availability{}
	}
	c.JSON(http.StatusOK, rules)
}

type availabilityReq struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

func (r availabilityReq) validate() error {
	return slots.ValidateRule(slots.Rule{
		DayOfWeek: r.DayOfWeek,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	})
}

// POST /api/availability
func (a *App) CreateAvailabilityHandler(c *gin.Context) {
	var req availabilityReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	av := &Availability{
		UserID:    authUserID(c),
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := a.CreateAvailability(c.Request.Context(), av); err != nil {
		a.respondStorageError(c, err, "availability")
		return
	}
	c.JSON(http.StatusCreated, av)
}

// PUT /api/availability/:id
func (a *App) UpdateAvailabilityHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req availabilityReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	av := &Availability{
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := a.UpdateAvailabilityOwned(c.Request.Context(), id, authUserID(c), av); err != nil {
		a.respondStorageError(c, err, "availability")
		return
	}
	c.JSON(http.StatusOK, av)
}

// DELETE /api/availability/:id
func (a *App) DeleteAvailabilityHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := a.DeleteAvailabilityOwned(c.Request.Context(), id, authUserID(c)); err != nil {
		a.respondStorageError(c, err, "availability")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "availability deleted successfully"})
}
