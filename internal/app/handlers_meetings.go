package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GET /api/meetings?from=ISO&to=ISO
func (a *App) ListMeetingsHandler(c *gin.Context) {
	fromStr := c.Query("from")
	toStr := c.Query("to")

	var (
		from, to time.Time
		err      error
	)
	filtered := fromStr != "" && toStr != ""
	if filtered {
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
		if !from.Before(to) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be before to"})
			return
		}
	}

	meetings, err := a.ListMeetings(c.Request.Context(), authUserID(c), from.UTC(), to.UTC(), filtered)
	if err != nil {
		a.respondStorageError(c, err, "meeting")
		return
	}
	if meetings == nil {
		meetings = []Meeting{}
	}
	c.JSON(http.StatusOK, meetings)
}

type meetingReq struct {
	MeetingTypeID int        `json:"meeting_type_id" binding:"required"`
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	StartTime     time.Time  `json:"start_time" binding:"required"`
	EndTime       time.Time  `json:"end_time" binding:"required"`
	Timezone      string     `json:"timezone" binding:"required"`
	Location      string     `json:"location"`
	Attendees     []Attendee `json:"attendees"`
	Confirmed     bool       `json:"confirmed"`
}

// POST /api/meetings
// Host-side manual scheduling; no slot check, the host may book anything on
// their own calendar.
func (a *App) CreateMeetingHandler(c *gin.Context) {
	var req meetingReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.StartTime.Before(req.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be before end_time"})
		return
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timezone"})
		return
	}
	ctx := c.Request.Context()
	hostID := authUserID(c)

	// The meeting type must belong to the host.
	if _, err := a.GetMeetingTypeOwned(ctx, req.MeetingTypeID, hostID); err != nil {
		a.respondStorageError(c, err, "meeting type")
		return
	}

	m := &Meeting{
		MeetingTypeID: req.MeetingTypeID,
		UserID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Timezone:      req.Timezone,
		Location:      req.Location,
		Attendees:     req.Attendees,
		Confirmed:     req.Confirmed,
	}
	if err := a.CreateMeeting(ctx, m); err != nil {
		a.respondStorageError(c, err, "meeting")
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GET /api/meetings/:id
func (a *App) GetMeetingHandler(c *gin.Context) {
	m, err := a.GetMeetingOwned(c.Request.Context(), c.Param("id"), authUserID(c))
	if err != nil {
		a.respondStorageError(c, err, "meeting")
		return
	}
	c.JSON(http.StatusOK, m)
}

// PUT /api/meetings/:id
func (a *App) UpdateMeetingHandler(c *gin.Context) {
	var patch MeetingPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Timezone != nil {
		if _, err := time.LoadLocation(*patch.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timezone"})
			return
		}
	}

	m, err := a.UpdateMeetingOwned(c.Request.Context(), c.Param("id"), authUserID(c), patch)
	if err != nil {
		a.respondStorageError(c, err, "meeting")
		return
	}
	c.JSON(http.StatusOK, m)
}

// DELETE /api/meetings/:id
func (a *App) DeleteMeetingHandler(c *gin.Context) {
	if err := a.DeleteMeetingOwned(c.Request.Context(), c.Param("id"), authUserID(c)); err != nil {
		a.respondStorageError(c, err, "meeting")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meeting deleted successfully"})
}
