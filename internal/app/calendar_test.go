package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"schedly-service/internal/config"
)

func TestOAuthStateRoundTrip(t *testing.T) {
	a := testApp()
	now := time.Now()

	state := a.signOAuthState(42, now)
	userID, err := a.verifyOAuthState(state, now)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestOAuthStateRejectsForgery(t *testing.T) {
	a := testApp()
	now := time.Now()

	cases := []struct {
		name  string
		state string
	}{
		{"unsigned legacy format", fmt.Sprintf("user_%d_%d", 42, now.Unix())},
		{"missing signature", fmt.Sprintf("user_%d_%d.", 42, now.Unix())},
		{"tampered user id", "user_999" + a.signOAuthState(42, now)[len("user_42"):]},
		{"garbage", "not-a-state"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.verifyOAuthState(tc.state, now)
			assert.Error(t, err)
		})
	}
}

func TestOAuthStateRejectsWrongKey(t *testing.T) {
	a := testApp()
	other := &App{Log: zap.NewNop(), Cfg: &config.Config{JWTSecret: "other-secret"}}
	now := time.Now()

	state := other.signOAuthState(42, now)
	_, err := a.verifyOAuthState(state, now)
	assert.Error(t, err)
}

func TestOAuthStateExpires(t *testing.T) {
	a := testApp()
	issued := time.Now()

	state := a.signOAuthState(42, issued)
	_, err := a.verifyOAuthState(state, issued.Add(oauthStateTTL+time.Second))
	assert.Error(t, err)

	userID, err := a.verifyOAuthState(state, issued.Add(oauthStateTTL-time.Second))
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}
