package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// rowQuerier lets meeting inserts run on the pool or inside a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (a *App) CreateMeeting(ctx context.Context, m *Meeting) error {
	return insertMeeting(ctx, a.DB, m)
}

func insertMeeting(ctx context.Context, db rowQuerier, m *Meeting) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Attendees == nil {
		m.Attendees = []Attendee{}
	}
	attendees, err := json.Marshal(m.Attendees)
	if err != nil {
		return fmt.Errorf("marshal attendees: %w", err)
	}
	now := time.Now().UTC()
	q := `INSERT INTO meetings
	        (id, meeting_type_id, user_id, title, description, start_time, end_time,
	         timezone, location, attendees, confirmed, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING created_at`
	return db.QueryRow(ctx, q,
		m.ID, m.MeetingTypeID, m.UserID, m.Title, m.Description,
		m.StartTime.UTC(), m.EndTime.UTC(), m.Timezone, m.Location,
		attendees, m.Confirmed, now,
	).Scan(&m.CreatedAt)
}

const meetingColumns = `id, meeting_type_id, user_id, title, description, start_time, end_time,
	timezone, location, attendees, confirmed, created_at`

func scanMeeting(row pgx.Row) (*Meeting, error) {
	var (
		m         Meeting
		attendees []byte
	)
	err := row.Scan(&m.ID, &m.MeetingTypeID, &m.UserID, &m.Title, &m.Description,
		&m.StartTime, &m.EndTime, &m.Timezone, &m.Location, &attendees, &m.Confirmed, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(attendees) > 0 {
		if err := json.Unmarshal(attendees, &m.Attendees); err != nil {
			return nil, fmt.Errorf("unmarshal attendees: %w", err)
		}
	}
	if m.Attendees == nil {
		m.Attendees = []Attendee{}
	}
	return &m, nil
}

func (a *App) ListMeetings(ctx context.Context, hostID int, from, to time.Time, filtered bool) ([]Meeting, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if filtered {
		q := `SELECT ` + meetingColumns + ` FROM meetings
		      WHERE user_id=$1 AND start_time >= $2 AND start_time < $3
		      ORDER BY start_time`
		rows, err = a.DB.Query(ctx, q, hostID, from, to)
	} else {
		q := `SELECT ` + meetingColumns + ` FROM meetings
		      WHERE user_id=$1 ORDER BY start_time`
		rows, err = a.DB.Query(ctx, q, hostID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// ListConfirmedMeetingsBetween returns the confirmed meetings overlapping
// [from, to) — the booked-interval snapshot the slot engine consumes.
func (a *App) ListConfirmedMeetingsBetween(ctx context.Context, hostID int, from, to time.Time) ([]Meeting, error) {
	q := `SELECT ` + meetingColumns + ` FROM meetings
	      WHERE user_id=$1 AND confirmed AND start_time < $2 AND end_time > $3
	      ORDER BY start_time`
	rows, err := a.DB.Query(ctx, q, hostID, to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (a *App) GetMeetingOwned(ctx context.Context, id string, ownerID int) (*Meeting, error) {
	m, err := scanMeeting(a.DB.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	if m.UserID != ownerID {
		return nil, ErrForbidden
	}
	return m, nil
}

// MeetingPatch updates any subset of a meeting's mutable fields.
type MeetingPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Timezone    *string    `json:"timezone"`
	Location    *string    `json:"location"`
	Confirmed   *bool      `json:"confirmed"`
}

func (a *App) UpdateMeetingOwned(ctx context.Context, id string, ownerID int, p MeetingPatch) (*Meeting, error) {
	if _, err := a.GetMeetingOwned(ctx, id, ownerID); err != nil {
		return nil, err
	}
	q := `UPDATE meetings SET
	        title = COALESCE($1, title),
	        description = COALESCE($2, description),
	        start_time = COALESCE($3, start_time),
	        end_time = COALESCE($4, end_time),
	        timezone = COALESCE($5, timezone),
	        location = COALESCE($6, location),
	        confirmed = COALESCE($7, confirmed)
	      WHERE id=$8 AND user_id=$9
	      RETURNING ` + meetingColumns
	return scanMeeting(a.DB.QueryRow(ctx, q,
		p.Title, p.Description, p.StartTime, p.EndTime, p.Timezone, p.Location, p.Confirmed,
		id, ownerID))
}

func (a *App) DeleteMeetingOwned(ctx context.Context, id string, ownerID int) error {
	if _, err := a.GetMeetingOwned(ctx, id, ownerID); err != nil {
		return err
	}
	_, err := a.DB.Exec(ctx, `DELETE FROM meetings WHERE id=$1 AND user_id=$2`, id, ownerID)
	return err
}
