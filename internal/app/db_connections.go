package app

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

func (a *App) CreateCalendarConnection(ctx context.Context, cc *CalendarConnection) error {
	now := time.Now().UTC()
	q := `INSERT INTO calendar_connections (user_id, provider, token_data, refresh_token, connected, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`
	cc.CreatedAt = now
	return a.DB.QueryRow(ctx, q,
		cc.UserID, cc.Provider, cc.TokenData, cc.RefreshToken, cc.Connected, now,
	).Scan(&cc.ID)
}

func (a *App) ListCalendarConnections(ctx context.Context, userID int) ([]CalendarConnection, error) {
	q := `SELECT id, user_id, provider, token_data, refresh_token, connected, created_at
	      FROM calendar_connections WHERE user_id=$1 ORDER BY id`
	rows, err := a.DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CalendarConnection
	for rows.Next() {
		var cc CalendarConnection
		if err := rows.Scan(&cc.ID, &cc.UserID, &cc.Provider, &cc.TokenData,
			&cc.RefreshToken, &cc.Connected, &cc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (a *App) GetCalendarConnectionOwned(ctx context.Context, id, ownerID int) (*CalendarConnection, error) {
	q := `SELECT id, user_id, provider, token_data, refresh_token, connected, created_at
	      FROM calendar_connections WHERE id=$1`
	var cc CalendarConnection
	err := a.DB.QueryRow(ctx, q, id).Scan(&cc.ID, &cc.UserID, &cc.Provider,
		&cc.TokenData, &cc.RefreshToken, &cc.Connected, &cc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if cc.UserID != ownerID {
		return nil, ErrForbidden
	}
	return &cc, nil
}

// GetCalendarConnectionByProvider returns the user's most recent connected
// record for a provider, ErrNotFound if none.
func (a *App) GetCalendarConnectionByProvider(ctx context.Context, userID int, provider string) (*CalendarConnection, error) {
	q := `SELECT id, user_id, provider, token_data, refresh_token, connected, created_at
	      FROM calendar_connections
	      WHERE user_id=$1 AND provider=$2 AND connected ORDER BY id DESC LIMIT 1`
	var cc CalendarConnection
	err := a.DB.QueryRow(ctx, q, userID, provider).Scan(&cc.ID, &cc.UserID, &cc.Provider,
		&cc.TokenData, &cc.RefreshToken, &cc.Connected, &cc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cc, nil
}

func (a *App) DeleteCalendarConnectionOwned(ctx context.Context, id, ownerID int) error {
	if _, err := a.GetCalendarConnectionOwned(ctx, id, ownerID); err != nil {
		return err
	}
	_, err := a.DB.Exec(ctx, `DELETE FROM calendar_connections WHERE id=$1 AND user_id=$2`, id, ownerID)
	return err
}
