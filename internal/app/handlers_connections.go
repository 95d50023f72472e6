package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /api/calendar-connections
func (a *App) ListCalendarConnectionsHandler(c *gin.Context) {
	connections, err := a.ListCalendarConnections(c.Request.Context(), authUserID(c))
	if err != nil {
		a.respondStorageError(c, err, "calendar connection")
		return
	}
	if connections == nil {
		connections = []CalendarConnection{}
	}
	c.JSON(http.StatusOK, connections)
}

type connectionReq struct {
	Provider     string `json:"provider" binding:"required,oneof=google outlook apple"`
	TokenData    string `json:"token_data"`
	RefreshToken string `json:"refresh_token"`
}

// POST /api/calendar-connections
// Stores an opaque connection record. The Google OAuth flow in calendar.go
// creates these automatically; other providers arrive through this endpoint.
func (a *App) CreateCalendarConnectionHandler(c *gin.Context) {
	var req connectionReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	userID := authUserID(c)

	cc := &CalendarConnection{
		UserID:       userID,
		Provider:     req.Provider,
		TokenData:    req.TokenData,
		RefreshToken: req.RefreshToken,
		Connected:    true,
	}
	if err := a.CreateCalendarConnection(ctx, cc); err != nil {
		a.respondStorageError(c, err, "calendar connection")
		return
	}

	connected := true
	if _, err := a.UpdateOnboardingProgress(ctx, userID, OnboardingPatch{CalendarConnected: &connected}); err != nil {
		a.Log.Warn("update onboarding after connection", zap.Int("user_id", userID), zap.Error(err))
	}

	c.JSON(http.StatusCreated, cc)
}

// DELETE /api/calendar-connections/:id
func (a *App) DeleteCalendarConnectionHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := a.DeleteCalendarConnectionOwned(c.Request.Context(), id, authUserID(c)); err != nil {
		a.respondStorageError(c, err, "calendar connection")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "calendar connection removed successfully"})
}
