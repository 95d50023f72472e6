package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"schedly-service/internal/slots"
)

const dateLayout = "2006-01-02"

// availableSlotsForDay gathers a consistent snapshot of the host's rules and
// confirmed meetings for one day and runs the slot engine over it. Both the
// dashboard and the public booking page go through here.
func (a *App) availableSlotsForDay(ctx context.Context, hostID int, day time.Time, durationMinutes int, timezone string) ([]Slot, error) {
	rules, err := a.ListAvailabilities(ctx, hostID)
	if err != nil {
		return nil, err
	}

	loc := time.UTC
	if timezone != "" {
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid timezone %q", ErrInvalidInput, timezone)
		}
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	meetings, err := a.ListConfirmedMeetingsBetween(ctx, hostID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	req := slots.Request{
		Date:            dayStart,
		DurationMinutes: durationMinutes,
		Timezone:        timezone,
	}
	for _, r := range rules {
		req.Rules = append(req.Rules, slots.Rule{
			DayOfWeek: r.DayOfWeek,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		})
	}
	for _, m := range meetings {
		req.Booked = append(req.Booked, slots.Interval{Start: m.StartTime, End: m.EndTime})
	}

	starts, err := slots.Compute(req)
	if err != nil {
		// Compute only fails on contract violations: bad duration, malformed
		// rule times, unknown timezone.
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out := make([]Slot, 0, len(starts))
	d := time.Duration(durationMinutes) * time.Minute
	for _, s := range starts {
		out = append(out, Slot{Start: s, End: s.Add(d)})
	}
	return out, nil
}

// GET /api/slots?date=YYYY-MM-DD&duration=30&timezone=IANA
// Dashboard view: the host checking their own open slots.
func (a *App) GetSlotsHandler(c *gin.Context) {
	day, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required (YYYY-MM-DD)"})
		return
	}
	duration := 30
	if d := c.Query("duration"); d != "" {
		duration, err = strconv.Atoi(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
			return
		}
	}
	ctx := c.Request.Context()
	hostID := authUserID(c)

	timezone := c.Query("timezone")
	if timezone == "" {
		host, err := a.GetUser(ctx, hostID)
		if err != nil {
			a.respondStorageError(c, err, "user")
			return
		}
		timezone = host.Timezone
	}

	available, err := a.availableSlotsForDay(ctx, hostID, day, duration, timezone)
	if err != nil {
		a.respondSlotsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day.Format(dateLayout), "timezone": timezone, "slots": available})
}

// GET /api/booking/:username/:slug
// Public booking page payload: host profile, meeting type, weekly windows.
func (a *App) PublicBookingInfoHandler(c *gin.Context) {
	ctx := c.Request.Context()

	host, err := a.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		a.respondStorageError(c, err, "user")
		return
	}
	mt, err := a.GetMeetingTypeBySlug(ctx, host.ID, c.Param("slug"))
	if err != nil {
		a.respondStorageError(c, err, "meeting type")
		return
	}
	rules, err := a.ListAvailabilities(ctx, host.ID)
	if err != nil {
		a.respondStorageError(c, err, "availability")
		return
	}
	if rules == nil {
		rules = []Availability{}
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           host,
		"meeting_type":   mt,
		"availabilities": rules,
	})
}

// GET /api/booking/:username/:slug/slots?date=YYYY-MM-DD&timezone=IANA
func (a *App) PublicSlotsHandler(c *gin.Context) {
	ctx := c.Request.Context()

	host, err := a.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		a.respondStorageError(c, err, "user")
		return
	}
	mt, err := a.GetMeetingTypeBySlug(ctx, host.ID, c.Param("slug"))
	if err != nil {
		a.respondStorageError(c, err, "meeting type")
		return
	}
	day, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required (YYYY-MM-DD)"})
		return
	}
	timezone := c.DefaultQuery("timezone", host.Timezone)

	available, err := a.availableSlotsForDay(ctx, host.ID, day, mt.Duration, timezone)
	if err != nil {
		a.respondSlotsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day.Format(dateLayout), "timezone": timezone, "slots": available})
}

type publicBookingReq struct {
	StartTime time.Time  `json:"start_time" binding:"required"`
	Timezone  string     `json:"timezone" binding:"required"`
	Attendees []Attendee `json:"attendees" binding:"required,min=1"`
	Notes     string     `json:"notes"`
}

// POST /api/booking/:username/:slug
// Guest books a slot. The requested start must be one of the engine's open
// slots for that day, re-derived inside the transaction; the row lock on a
// same-start confirmed meeting makes concurrent double-bookings lose.
func (a *App) PublicBookHandler(c *gin.Context) {
	ctx := c.Request.Context()

	host, err := a.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		a.respondStorageError(c, err, "user")
		return
	}
	mt, err := a.GetMeetingTypeBySlug(ctx, host.ID, c.Param("slug"))
	if err != nil {
		a.respondStorageError(c, err, "meeting type")
		return
	}

	var req publicBookingReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, att := range req.Attendees {
		if att.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "attendee email required"})
			return
		}
	}

	loc, err := time.LoadLocation(req.Timezone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timezone"})
		return
	}
	// Normalize so the booking day is derived in the guest's timezone even
	// when the timestamp arrives with a different offset.
	start := req.StartTime.In(loc)

	tx, err := a.DB.Begin(ctx)
	if err != nil {
		a.respondStorageError(c, err, "meeting")
		return
	}
	defer tx.Rollback(ctx)

	// Lock any confirmed meeting at the same start before re-checking.
	checkQ := `SELECT id FROM meetings
	           WHERE user_id=$1 AND confirmed AND start_time=$2 FOR UPDATE`
	var existingID string
	err = tx.QueryRow(ctx, checkQ, host.ID, start.UTC()).Scan(&existingID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		a.respondStorageError(c, err, "meeting")
		return
	}
	if existingID != "" {
		c.JSON(http.StatusConflict, gin.H{"error": "slot already booked"})
		return
	}

	available, err := a.availableSlotsForDay(ctx, host.ID, start, mt.Duration, req.Timezone)
	if err != nil {
		a.respondSlotsError(c, err)
		return
	}
	booked := false
	for _, s := range available {
		if s.Start.Equal(start) {
			booked = true
			break
		}
	}
	if !booked {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot not available"})
		return
	}

	location := mt.Location
	if location == "" {
		location = "To be determined"
	}
	meeting := &Meeting{
		MeetingTypeID: mt.ID,
		UserID:        host.ID,
		Title:         mt.Name,
		Description:   req.Notes,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(mt.Duration) * time.Minute),
		Timezone:      req.Timezone,
		Location:      location,
		Attendees:     req.Attendees,
		Confirmed:     true,
	}
	if err := insertMeeting(ctx, tx, meeting); err != nil {
		a.respondStorageError(c, err, "meeting")
		return
	}
	if err := tx.Commit(ctx); err != nil {
		a.respondStorageError(c, err, "meeting")
		return
	}

	a.Log.Info("meeting booked",
		zap.String("meeting_id", meeting.ID),
		zap.Int("host_id", host.ID),
		zap.String("slug", mt.Slug),
		zap.Time("start", meeting.StartTime))

	c.JSON(http.StatusCreated, gin.H{
		"message": "meeting scheduled successfully",
		"meeting": meeting,
	})
}

// respondSlotsError separates caller mistakes (bad timezone, bad duration,
// malformed rule times) from storage failures.
func (a *App) respondSlotsError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.respondStorageError(c, err, "slots")
}
