package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetdesk/internal/auth"
	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/utils"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (a API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	token, account, err := a.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", "account="+account.ID)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  account,
	})
}

// POST /api/auth/register
func (a API) Register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	account, err := a.Auth.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "register", "account="+account.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "registered",
		"user":    account,
	})
}

// POST /api/auth/logout — tears the session's mirrors down.
func (a API) Logout(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	a.Sessions.Drop(actor.ID)
	utils.LogEvent(middleware.GetRequestID(c), "auth", "logout", "account="+actor.ID)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GET /api/auth/me — returns the profile for the current session and
// detects orphaned credentials.
func (a API) Me(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	account, err := a.Auth.Profile(c.Request.Context(), actor.ID)
	if err != nil {
		// orphaned credential: drop the session so the client logs out
		a.Sessions.Drop(actor.ID)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account})
}
