package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"schedly-service/internal/config"
)

func testApp() *App {
	return &App{
		Log: zap.NewNop(),
		Cfg: &config.Config{JWTSecret: "test-secret"},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	a := testApp()

	token, err := a.IssueToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := a.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	a := testApp()
	token, err := a.IssueToken(42)
	require.NoError(t, err)

	other := &App{Log: zap.NewNop(), Cfg: &config.Config{JWTSecret: "different-secret"}}
	_, err = other.parseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	a := testApp()
	_, err := a.parseToken("not.a.token")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := testApp()

	router := gin.New()
	router.GET("/protected", a.AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": authUserID(c)})
	})

	// no header
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// malformed header
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// valid token
	token, err := a.IssueToken(7)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 7}`, w.Body.String())
}

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, checkPassword(hash, "hunter22"))
	assert.False(t, checkPassword(hash, "hunter23"))
}
