package app

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/users/:id
func (a *App) GetUserHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if id != authUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	user, err := a.GetUser(c.Request.Context(), id)
	if err != nil {
		a.respondStorageError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /api/users/:id
func (a *App) UpdateUserHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if id != authUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var patch UserPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a.respondStorageError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, user)
}
