package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetdesk/internal/auth"
	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/ledger"
	"fleetdesk/internal/utils"
)

// GET /api/accounts — staff roster, owner only (enforced by the ledger's
// visibility rules).
func (a API) ListAccounts(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	accounts, err := l.Accounts()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// POST /api/accounts — owner onboards a staff member. Same flow as
// self-registration, gated by route middleware.
func (a API) CreateAccount(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	account, err := a.Auth.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "accounts", "create", "account="+account.ID)
	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// PUT /api/accounts/:id
func (a API) UpdateAccount(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	var in ledger.AccountUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	id := c.Param("id")
	if err := l.UpdateAccount(c.Request.Context(), id, in); err != nil {
		writeError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "accounts", "update", "account="+id)
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// DELETE /api/accounts/:id — an owner cannot remove their own account
// while logged in with it.
func (a API) DeleteAccount(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id := c.Param("id")
	if id == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	if err := l.DeleteAccount(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	// the deleted account's mirrors are useless now
	a.Sessions.Drop(id)
	utils.LogEvent(middleware.GetRequestID(c), "accounts", "delete", "account="+id)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
