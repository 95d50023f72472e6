package app

import "time"

type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // bcrypt hash, never serialized
	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email"`
	Timezone       string    `json:"timezone"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// Availability is one weekly recurring window during which the user accepts
// meetings. Times are HH:MM wall clock in the user's timezone.
type Availability struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	DayOfWeek int    `json:"day_of_week"` // 0 = Sunday
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CalendarConnection is an opaque link to an external calendar provider.
// Token data is stored as received from the provider; no sync logic here.
type CalendarConnection struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Provider     string    `json:"provider"` // "google", "outlook", "apple"
	TokenData    string    `json:"-"`
	RefreshToken string    `json:"-"`
	Connected    bool      `json:"connected"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// MeetingType is a bookable template exposed through a shareable slug.
type MeetingType struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	Duration    int       `json:"duration"` // minutes
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Location    string    `json:"location,omitempty"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type Attendee struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Meeting struct {
	ID            string     `json:"id"`
	MeetingTypeID int        `json:"meeting_type_id"`
	UserID        int        `json:"user_id"` // host
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	Timezone      string     `json:"timezone"`
	Location      string     `json:"location,omitempty"`
	Attendees     []Attendee `json:"attendees"`
	Confirmed     bool       `json:"confirmed"`
	CreatedAt     time.Time  `json:"created_at,omitempty"`
}

type OnboardingProgress struct {
	ID                int  `json:"id"`
	UserID            int  `json:"user_id"`
	CurrentStep       int  `json:"current_step"`
	CalendarConnected bool `json:"calendar_connected"`
	AvailabilitySet   bool `json:"availability_set"`
	ProfileComplete   bool `json:"profile_complete"`
	Completed         bool `json:"completed"`
}

// Slot is the DTO returned by the slots endpoints.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
