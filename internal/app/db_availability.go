package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (a *App) CreateAvailability(ctx context.Context, av *Availability) error {
	// One window per weekday; the engine only looks at the first match anyway.
	var existingID int
	checkQ := `SELECT id FROM availabilities WHERE user_id=$1 AND day_of_week=$2 LIMIT 1`
	err := a.DB.QueryRow(ctx, checkQ, av.UserID, av.DayOfWeek).Scan(&existingID)
	if err == nil {
		return fmt.Errorf("availability already exists for day %d: %w", av.DayOfWeek, ErrConflict)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	q := `INSERT INTO availabilities (user_id, day_of_week, start_time, end_time)
	      VALUES ($1,$2,$3,$4) RETURNING id`
	return a.DB.QueryRow(ctx, q, av.UserID, av.DayOfWeek, av.StartTime, av.EndTime).Scan(&av.ID)
}

func (a *App) ListAvailabilities(ctx context.Context, userID int) ([]Availability, error) {
	q := `SELECT id, user_id, day_of_week, start_time, end_time
	      FROM availabilities WHERE user_id=$1 ORDER BY day_of_week, id`
	rows, err := a.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Availability
	for rows.Next() {
		var av Availability
		if err := rows.Scan(&av.ID, &av.UserID, &av.DayOfWeek, &av.StartTime, &av.EndTime); err != nil {
			return nil, err
		}
		out = append(out, av)
	}
	return out, rows.Err()
}

// GetAvailabilityOwned fetches a rule and verifies ownership in one contract:
// ErrNotFound if the row is missing, ErrForbidden if it belongs to another user.
func (a *App) GetAvailabilityOwned(ctx context.Context, id, ownerID int) (*Availability, error) {
	q := `SELECT id, user_id, day_of_week, start_time, end_time FROM availabilities WHERE id=$1`
	var av Availability
	err := a.DB.QueryRow(ctx, q, id).Scan(&av.ID, &av.UserID, &av.DayOfWeek, &av.StartTime, &av.EndTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if av.UserID != ownerID {
		return nil, ErrForbidden
	}
	return &av, nil
}

func (a *App) UpdateAvailabilityOwned(ctx context.Context, id, ownerID int, av *Availability) error {
	if _, err := a.GetAvailabilityOwned(ctx, id, ownerID); err != nil {
		return err
	}
	q := `UPDATE availabilities SET day_of_week=$1, start_time=$2, end_time=$3
	      WHERE id=$4 AND user_id=$5`
	_, err := a.DB.Exec(ctx, q, av.DayOfWeek, av.StartTime, av.EndTime, id, ownerID)
	if err != nil {
		return err
	}
	av.ID = id
	av.UserID = ownerID
	return nil
}

func (a *App) DeleteAvailabilityOwned(ctx context.Context, id, ownerID int) error {
	if _, err := a.GetAvailabilityOwned(ctx, id, ownerID); err != nil {
		return err
	}
	_, err := a.DB.Exec(ctx, `DELETE FROM availabilities WHERE id=$1 AND user_id=$2`, id, ownerID)
	return err
}
