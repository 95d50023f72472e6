package app

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/onboarding
func (a *App) GetOnboardingHandler(c *gin.Context) {
	progress, err := a.GetOnboardingProgress(c.Request.Context(), authUserID(c))
	if err != nil {
		a.respondStorageError(c, err, "onboarding progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}

// PUT /api/onboarding
// Upserts: users registered before the onboarding table existed get a row on
// first write.
func (a *App) UpdateOnboardingHandler(c *gin.Context) {
	var patch OnboardingPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	userID := authUserID(c)

	progress, err := a.UpdateOnboardingProgress(ctx, userID, patch)
	if errors.Is(err, ErrNotFound) {
		op := &OnboardingProgress{UserID: userID}
		if patch.CurrentStep != nil {
			op.CurrentStep = *patch.CurrentStep
		}
		if patch.CalendarConnected != nil {
			op.CalendarConnected = *patch.CalendarConnected
		}
		if patch.AvailabilitySet != nil {
			op.AvailabilitySet = *patch.AvailabilitySet
		}
		if patch.ProfileComplete != nil {
			op.ProfileComplete = *patch.ProfileComplete
		}
		if patch.Completed != nil {
			op.Completed = *patch.Completed
		}
		if err := a.CreateOnboardingProgress(ctx, op); err != nil {
			a.respondStorageError(c, err, "onboarding progress")
			return
		}
		c.JSON(http.StatusOK, op)
		return
	}
	if err != nil {
		a.respondStorageError(c, err, "onboarding progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}
