package app

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarEvent is the normalized shape for events pulled from a connected
// Google calendar.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	Creator     string    `json:"creator,omitempty"`
}

func (a *App) googleOAuthConfig() *oauth2.Config {
	if !a.Cfg.GoogleConfigured() {
		return nil
	}
	return &oauth2.Config{
		ClientID:     a.Cfg.GoogleClientID,
		ClientSecret: a.Cfg.GoogleClientSecret,
		RedirectURL:  a.Cfg.GoogleRedirectURL,
		Scopes: []string{
			calendar.CalendarReadonlyScope,
		},
		Endpoint: google.Endpoint,
	}
}

// The callback is unauthenticated, so the state carries the acting user id
// under an HMAC over the JWT secret. A forged or replayed-late state never
// reaches the token exchange.
const oauthStateTTL = 10 * time.Minute

func (a *App) signOAuthState(userID int, now time.Time) string {
	payload := fmt.Sprintf("user_%d_%d", userID, now.Unix())
	return payload + "." + a.oauthStateMAC(payload)
}

func (a *App) oauthStateMAC(payload string) string {
	mac := hmac.New(sha256.New, []byte(a.Cfg.JWTSecret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (a *App) verifyOAuthState(state string, now time.Time) (int, error) {
	i := strings.LastIndexByte(state, '.')
	if i < 0 {
		return 0, fmt.Errorf("malformed state")
	}
	payload, sig := state[:i], state[i+1:]
	if !hmac.Equal([]byte(sig), []byte(a.oauthStateMAC(payload))) {
		return 0, fmt.Errorf("state signature mismatch")
	}
	var userID int
	var ts int64
	if _, err := fmt.Sscanf(payload, "user_%d_%d", &userID, &ts); err != nil || userID <= 0 {
		return 0, fmt.Errorf("malformed state")
	}
	if now.Sub(time.Unix(ts, 0)) > oauthStateTTL {
		return 0, fmt.Errorf("state expired")
	}
	return userID, nil
}

// GET /api/calendar/auth
// Starts the OAuth2 flow; the acting user id rides along in the signed state.
func (a *App) GoogleAuthHandler(c *gin.Context) {
	conf := a.googleOAuthConfig()
	if conf == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "google calendar not configured"})
		return
	}

	state := a.signOAuthState(authUserID(c), time.Now())
	url := conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.JSON(http.StatusOK, gin.H{
		"auth_url": url,
		"state":    state,
	})
}

// GET /oauth2callback
// Google redirects here; exchanges the code and stores the token on a new
// calendar connection for the user encoded in the state.
func (a *App) GoogleOAuth2CallbackHandler(c *gin.Context) {
	conf := a.googleOAuthConfig()
	if conf == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "google calendar not configured"})
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}

	userID, err := a.verifyOAuthState(state, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}

	ctx := c.Request.Context()
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to exchange code for token"})
		return
	}
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		a.respondStorageError(c, err, "calendar connection")
		return
	}

	cc := &CalendarConnection{
		UserID:       userID,
		Provider:     "google",
		TokenData:    string(tokenJSON),
		RefreshToken: token.RefreshToken,
		Connected:    true,
	}
	if err := a.CreateCalendarConnection(ctx, cc); err != nil {
		a.respondStorageError(c, err, "calendar connection")
		return
	}
	connected := true
	if _, err := a.UpdateOnboardingProgress(ctx, userID, OnboardingPatch{CalendarConnected: &connected}); err != nil {
		a.Log.Warn("update onboarding after oauth", zap.Int("user_id", userID), zap.Error(err))
	}

	a.Log.Info("google calendar connected", zap.Int("user_id", userID), zap.Int("connection_id", cc.ID))
	c.JSON(http.StatusOK, gin.H{
		"message":       "authorization successful",
		"connection_id": cc.ID,
	})
}

// googleCalendarService builds a Calendar client from the caller's stored
// google connection.
func (a *App) googleCalendarService(ctx context.Context, userID int) (*calendar.Service, error) {
	conf := a.googleOAuthConfig()
	if conf == nil {
		return nil, fmt.Errorf("google calendar not configured")
	}
	cc, err := a.GetCalendarConnectionByProvider(ctx, userID, "google")
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(cc.TokenData), &token); err != nil {
		return nil, fmt.Errorf("stored token unreadable: %w", err)
	}
	client := conf.Client(ctx, &token)
	return calendar.NewService(ctx, option.WithHTTPClient(client))
}

// GET /api/calendar/events?calendar_id=&time_min=&time_max=
func (a *App) GetGoogleCalendarEvents(c *gin.Context) {
	ctx := c.Request.Context()
	srv, err := a.googleCalendarService(ctx, authUserID(c))
	if err != nil {
		a.respondStorageError(c, err, "calendar connection")
		return
	}

	calendarID := c.DefaultQuery("calendar_id", "primary")
	timeMin := c.Query("time_min") // RFC3339
	timeMax := c.Query("time_max")

	eventsCall := srv.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250)
	if timeMin != "" {
		eventsCall = eventsCall.TimeMin(timeMin)
	}
	if timeMax != "" {
		eventsCall = eventsCall.TimeMax(timeMax)
	}

	events, err := eventsCall.Do()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to retrieve events: %v", err)})
		return
	}

	var calendarEvents []CalendarEvent
	for _, item := range events.Items {
		event := CalendarEvent{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			Location:    item.Location,
			Status:      item.Status,
		}
		if item.Creator != nil {
			event.Creator = item.Creator.Email
		}
		if item.Start.DateTime != "" {
			if startTime, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
				event.StartTime = startTime
			}
		} else if item.Start.Date != "" {
			if startTime, err := time.Parse(dateLayout, item.Start.Date); err == nil {
				event.StartTime = startTime
			}
		}
		if item.End.DateTime != "" {
			if endTime, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				event.EndTime = endTime
			}
		} else if item.End.Date != "" {
			if endTime, err := time.Parse(dateLayout, item.End.Date); err == nil {
				event.EndTime = endTime
			}
		}
		calendarEvents = append(calendarEvents, event)
	}

	c.JSON(http.StatusOK, gin.H{
		"events": calendarEvents,
		"count":  len(calendarEvents),
	})
}

// GET /api/calendar/calendars
func (a *App) GetGoogleCalendarList(c *gin.Context) {
	ctx := c.Request.Context()
	srv, err := a.googleCalendarService(ctx, authUserID(c))
	if err != nil {
		a.respondStorageError(c, err, "calendar connection")
		return
	}

	calendarList, err := srv.CalendarList.List().Do()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to retrieve calendars: %v", err)})
		return
	}

	type CalendarInfo struct {
		ID          string `json:"id"`
		Summary     string `json:"summary"`
		Description string `json:"description,omitempty"`
		Primary     bool   `json:"primary"`
		AccessRole  string `json:"access_role"`
	}

	var calendars []CalendarInfo
	for _, item := range calendarList.Items {
		calendars = append(calendars, CalendarInfo{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			Primary:     item.Primary,
			AccessRole:  item.AccessRole,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"calendars": calendars,
		"count":     len(calendars),
	})
}
