package app

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (a *App) CreateOnboardingProgress(ctx context.Context, op *OnboardingProgress) error {
	if op.CurrentStep == 0 {
		op.CurrentStep = 1
	}
	q := `INSERT INTO onboarding_progress
	        (user_id, current_step, calendar_connected, availability_set, profile_complete, completed)
	      VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`
	return a.DB.QueryRow(ctx, q,
		op.UserID, op.CurrentStep, op.CalendarConnected, op.AvailabilitySet,
		op.ProfileComplete, op.Completed,
	).Scan(&op.ID)
}

func (a *App) GetOnboardingProgress(ctx context.Context, userID int) (*OnboardingProgress, error) {
	q := `SELECT id, user_id, current_step, calendar_connected, availability_set, profile_complete, completed
	      FROM onboarding_progress WHERE user_id=$1`
	var op OnboardingProgress
	err := a.DB.QueryRow(ctx, q, userID).Scan(&op.ID, &op.UserID, &op.CurrentStep,
		&op.CalendarConnected, &op.AvailabilitySet, &op.ProfileComplete, &op.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// OnboardingPatch updates any subset of the progress flags.
type OnboardingPatch struct {
	CurrentStep       *int  `json:"current_step"`
	CalendarConnected *bool `json:"calendar_connected"`
	AvailabilitySet   *bool `json:"availability_set"`
	ProfileComplete   *bool `json:"profile_complete"`
	Completed         *bool `json:"completed"`
}

func (a *App) UpdateOnboardingProgress(ctx context.Context, userID int, p OnboardingPatch) (*OnboardingProgress, error) {
	q := `UPDATE onboarding_progress SET
	        current_step = COALESCE($1, current_step),
	        calendar_connected = COALESCE($2, calendar_connected),
	        availability_set = COALESCE($3, availability_set),
	        profile_complete = COALESCE($4, profile_complete),
	        completed = COALESCE($5, completed)
	      WHERE user_id=$6
	      RETURNING id, user_id, current_step, calendar_connected, availability_set, profile_complete, completed`
	var op OnboardingProgress
	err := a.DB.QueryRow(ctx, q,
		p.CurrentStep, p.CalendarConnected, p.AvailabilitySet, p.ProfileComplete, p.Completed, userID,
	).Scan(&op.ID, &op.UserID, &op.CurrentStep, &op.CalendarConnected,
		&op.AvailabilitySet, &op.ProfileComplete, &op.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}
