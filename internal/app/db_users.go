package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func (a *App) CreateUser(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	q := `INSERT INTO users (username, password, name, email, timezone, profile_picture, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`
	if u.Timezone == "" {
		u.Timezone = "UTC"
	}
	u.CreatedAt = now
	err := a.DB.QueryRow(ctx, q,
		u.Username, u.Password, u.Name, u.Email, u.Timezone, u.ProfilePicture, now,
	).Scan(&u.ID)
	return mapUniqueViolation(err, "username or email")
}

func (a *App) GetUser(ctx context.Context, id int) (*User, error) {
	q := `SELECT id, username, password, name, email, timezone, profile_picture, created_at
	      FROM users WHERE id=$1`
	return a.scanUser(a.DB.QueryRow(ctx, q, id))
}

func (a *App) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	q := `SELECT id, username, password, name, email, timezone, profile_picture, created_at
	      FROM users WHERE username=$1`
	return a.scanUser(a.DB.QueryRow(ctx, q, username))
}

func (a *App) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	q := `SELECT id, username, password, name, email, timezone, profile_picture, created_at
	      FROM users WHERE email=$1`
	return a.scanUser(a.DB.QueryRow(ctx, q, email))
}

func (a *App) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Name, &u.Email,
		&u.Timezone, &u.ProfilePicture, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserPatch carries the profile fields a user may update. Username and
// password are deliberately not patchable through the profile endpoint.
type UserPatch struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Timezone       *string `json:"timezone"`
	ProfilePicture *string `json:"profile_picture"`
}

func (a *App) UpdateUser(ctx context.Context, id int, p UserPatch) (*User, error) {
	if p.Timezone != nil {
		if _, err := time.LoadLocation(*p.Timezone); err != nil {
			return nil, fmt.Errorf("%w: invalid timezone %q", ErrInvalidInput, *p.Timezone)
		}
	}
	q := `UPDATE users SET
	        name = COALESCE($1, name),
	        email = COALESCE($2, email),
	        timezone = COALESCE($3, timezone),
	        profile_picture = COALESCE($4, profile_picture)
	      WHERE id=$5
	      RETURNING id, username, password, name, email, timezone, profile_picture, created_at`
	u, err := a.scanUser(a.DB.QueryRow(ctx, q, p.Name, p.Email, p.Timezone, p.ProfilePicture, id))
	if err != nil {
		return nil, mapUniqueViolation(err, "email")
	}
	return u, nil
}
