// Package handlers exposes the session API the dashboard consumes. Each
// handler resolves the acting identity from the verified token, borrows
// the account's open session (mirrors) from the registry and runs the
// requested ledger/report/debt operation.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetdesk/internal/auth"
	"fleetdesk/internal/domain"
	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/ledger"
	"fleetdesk/internal/mirror"
	"fleetdesk/internal/store"
)

// API bundles the collaborators the handlers need.
type API struct {
	Auth     auth.Service
	Store    store.Store
	Sessions *mirror.Registry
}

// ledgerFor builds the ledger bound to the caller's session. On failure
// it has already written the error response.
func (a API) ledgerFor(c *gin.Context) (ledger.Ledger, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return ledger.Ledger{}, false
	}
	session, err := a.Sessions.Get(actor)
	if err != nil {
		writeError(c, err)
		return ledger.Ledger{}, false
	}
	return ledger.Ledger{Store: a.Store, Session: session}, true
}

// writeError maps domain failure kinds onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case domain.IsAuthentication(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case domain.IsAuthorization(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsState(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsRemoteWrite(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
