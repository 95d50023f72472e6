package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Timezone string `json:"timezone"`
}

// POST /api/auth/register
func (a *App) RegisterHandler(c *gin.Context) {
	var req registerReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timezone"})
			return
		}
	}

	if _, err := a.GetUserByUsername(ctx, req.Username); !errors.Is(err, ErrNotFound) {
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already taken"})
		} else {
			a.respondStorageError(c, err, "user")
		}
		return
	}
	if _, err := a.GetUserByEmail(ctx, req.Email); !errors.Is(err, ErrNotFound) {
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
		} else {
			a.respondStorageError(c, err, "user")
		}
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		a.respondStorageError(c, err, "user")
		return
	}

	user := &User{
		Username: req.Username,
		Password: hash,
		Name:     req.Name,
		Email:    req.Email,
		Timezone: req.Timezone,
	}
	if err := a.CreateUser(ctx, user); err != nil {
		a.respondStorageError(c, err, "user")
		return
	}

	if err := a.CreateOnboardingProgress(ctx, &OnboardingProgress{UserID: user.ID}); err != nil {
		a.Log.Error("create onboarding progress", zap.Int("user_id", user.ID), zap.Error(err))
	}

	token, err := a.IssueToken(user.ID)
	if err != nil {
		a.respondStorageError(c, err, "user")
		return
	}

	a.Log.Info("user registered", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (a *App) LoginHandler(c *gin.Context) {
	var req loginReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.GetUserByUsername(c.Request.Context(), req.Username)
	if errors.Is(err, ErrNotFound) || (err == nil && !checkPassword(user.Password, req.Password)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		a.respondStorageError(c, err, "user")
		return
	}

	token, err := a.IssueToken(user.ID)
	if err != nil {
		a.respondStorageError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// POST /api/auth/logout
// Tokens are stateless; the client just drops its copy.
func (a *App) LogoutHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// GET /api/auth/me
func (a *App) MeHandler(c *gin.Context) {
	user, err := a.GetUser(c.Request.Context(), authUserID(c))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		a.respondStorageError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, user)
}
