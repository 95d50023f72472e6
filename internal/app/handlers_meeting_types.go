package app

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// GET /api/meeting-types
func (a *App) ListMeetingTypesHandler(c *gin.Context) {
	types, err := a.ListMeetingTypes(c.Request.Context(), authUserID(c))
	if err != nil {
		a.respondStorageError(c, err, "meeting type")
		return
	}
	if types == nil {
		types = []MeetingType{}
	}
	c.JSON(http.StatusOK, types)
}

type meetingTypeReq struct {
	Name        string `json:"name" binding:"required"`
	Duration    int    `json:"duration" binding:"required,gt=0"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Location    string `json:"location"`
	Slug        string `json:"slug" binding:"required"`
}

// POST /api/meeting-types
func (a *App) CreateMeetingTypeHandler(c *gin.Context) {
	var req meetingTypeReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !slugPattern.MatchString(req.Slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug must be lowercase letters, digits and hyphens"})
		return
	}

	mt := &MeetingType{
		UserID:      authUserID(c),
		Name:        req.Name,
		Duration:    req.Duration,
		Description: req.Description,
		Color:       req.Color,
		Location:    req.Location,
		Slug:        req.Slug,
	}
	if err := a.CreateMeetingType(c.Request.Context(), mt); err != nil {
		a.respondStorageError(c, err, "meeting type")
		return
	}
	c.JSON(http.StatusCreated, mt)
}

// PUT /api/meeting-types/:id
func (a *App) UpdateMeetingTypeHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var patch MeetingTypePatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Slug != nil && !slugPattern.MatchString(*patch.Slug) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug must be lowercase letters, digits and hyphens"})
		return
	}
	if patch.Duration != nil && *patch.Duration <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be positive"})
		return
	}

	mt, err := a.UpdateMeetingTypeOwned(c.Request.Context(), id, authUserID(c), patch)
	if err != nil {
		a.respondStorageError(c, err, "meeting type")
		return
	}
	c.JSON(http.StatusOK, mt)
}

// DELETE /api/meeting-types/:id
func (a *App) DeleteMeetingTypeHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := a.DeleteMeetingTypeOwned(c.Request.Context(), id, authUserID(c)); err != nil {
		a.respondStorageError(c, err, "meeting type")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meeting type deleted successfully"})
}
