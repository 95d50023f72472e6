package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func (a *App) CreateMeetingType(ctx context.Context, mt *MeetingType) error {
	var existingID int
	checkQ := `SELECT id FROM meeting_types WHERE user_id=$1 AND slug=$2 LIMIT 1`
	err := a.DB.QueryRow(ctx, checkQ, mt.UserID, mt.Slug).Scan(&existingID)
	if err == nil {
		return fmt.Errorf("slug %q already in use: %w", mt.Slug, ErrConflict)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	now := time.Now().UTC()
	if mt.Color == "" {
		mt.Color = "#1C4A1C"
	}
	q := `INSERT INTO meeting_types (user_id, name, duration, description, color, location, slug, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`
	mt.CreatedAt = now
	return a.DB.QueryRow(ctx, q,
		mt.UserID, mt.Name, mt.Duration, mt.Description, mt.Color, mt.Location, mt.Slug, now,
	).Scan(&mt.ID)
}

func (a *App) ListMeetingTypes(ctx context.Context, userID int) ([]MeetingType, error) {
	q := `SELECT id, user_id, name, duration, description, color, location, slug, created_at
	      FROM meeting_types WHERE user_id=$1 ORDER BY id`
	rows, err := a.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MeetingType
	for rows.Next() {
		var mt MeetingType
		if err := rows.Scan(&mt.ID, &mt.UserID, &mt.Name, &mt.Duration, &mt.Description,
			&mt.Color, &mt.Location, &mt.Slug, &mt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}

func (a *App) GetMeetingTypeOwned(ctx context.Context, id, ownerID int) (*MeetingType, error) {
	mt, err := a.getMeetingType(ctx, `SELECT id, user_id, name, duration, description, color, location, slug, created_at
	      FROM meeting_types WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	if mt.UserID != ownerID {
		return nil, ErrForbidden
	}
	return mt, nil
}

// GetMeetingTypeBySlug resolves a public booking link for a given host.
func (a *App) GetMeetingTypeBySlug(ctx context.Context, userID int, slug string) (*MeetingType, error) {
	return a.getMeetingType(ctx, `SELECT id, user_id, name, duration, description, color, location, slug, created_at
	      FROM meeting_types WHERE user_id=$1 AND slug=$2`, userID, slug)
}

func (a *App) getMeetingType(ctx context.Context, q string, args ...any) (*MeetingType, error) {
	var mt MeetingType
	err := a.DB.QueryRow(ctx, q, args...).Scan(&mt.ID, &mt.UserID, &mt.Name, &mt.Duration,
		&mt.Description, &mt.Color, &mt.Location, &mt.Slug, &mt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mt, nil
}

// MeetingTypePatch updates any subset of a meeting type's fields.
type MeetingTypePatch struct {
	Name        *string `json:"name"`
	Duration    *int    `json:"duration"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Location    *string `json:"location"`
	Slug        *string `json:"slug"`
}

func (a *App) UpdateMeetingTypeOwned(ctx context.Context, id, ownerID int, p MeetingTypePatch) (*MeetingType, error) {
	if _, err := a.GetMeetingTypeOwned(ctx, id, ownerID); err != nil {
		return nil, err
	}
	if p.Duration != nil && *p.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", *p.Duration)
	}
	q := `UPDATE meeting_types SET
	        name = COALESCE($1, name),
	        duration = COALESCE($2, duration),
	        description = COALESCE($3, description),
	        color = COALESCE($4, color),
	        location = COALESCE($5, location),
	        slug = COALESCE($6, slug)
	      WHERE id=$7 AND user_id=$8
	      RETURNING id, user_id, name, duration, description, color, location, slug, created_at`
	var mt MeetingType
	err := a.DB.QueryRow(ctx, q, p.Name, p.Duration, p.Description, p.Color, p.Location, p.Slug, id, ownerID).
		Scan(&mt.ID, &mt.UserID, &mt.Name, &mt.Duration, &mt.Description,
			&mt.Color, &mt.Location, &mt.Slug, &mt.CreatedAt)
	if err != nil {
		return nil, mapUniqueViolation(err, "slug")
	}
	return &mt, nil
}

func (a *App) DeleteMeetingTypeOwned(ctx context.Context, id, ownerID int) error {
	if _, err := a.GetMeetingTypeOwned(ctx, id, ownerID); err != nil {
		return err
	}
	_, err := a.DB.Exec(ctx, `DELETE FROM meeting_types WHERE id=$1 AND user_id=$2`, id, ownerID)
	return err
}
