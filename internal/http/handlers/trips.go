package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetdesk/internal/http/middleware"
	"fleetdesk/internal/ledger"
	"fleetdesk/internal/utils"
)

// ListTrips returns the trips visible to the caller, newest first.
func (a API) ListTrips(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	trips, err := l.Trips()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// CreateTrip files a new ledger entry. The required fields depend on the
// caller's role; the ledger decides the shape.
func (a API) CreateTrip(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	var in ledger.TripInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	trip, err := l.CreateTrip(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "trips", "create", "trip="+trip.ID)
	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

type setFareRequest struct {
	Fare int64 `json:"fare"`
}

// SetFare approves a fare for a trip. Owner only.
func (a API) SetFare(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	var req setFareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	tripID := c.Param("id")
	if err := l.SetFare(c.Request.Context(), tripID, req.Fare); err != nil {
		writeError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "trips", "set_fare", "trip="+tripID)
	c.JSON(http.StatusOK, gin.H{"message": "fare set"})
}

// MarkPaid records payment collection for a trip. Owner only.
func (a API) MarkPaid(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	tripID := c.Param("id")
	if err := l.MarkPaid(c.Request.Context(), tripID); err != nil {
		writeError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "trips", "mark_paid", "trip="+tripID)
	c.JSON(http.StatusOK, gin.H{"message": "paid"})
}

// DeleteTrip removes a ledger entry. Owner only.
func (a API) DeleteTrip(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	tripID := c.Param("id")
	if err := l.DeleteTrip(c.Request.Context(), tripID); err != nil {
		writeError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "trips", "delete", "trip="+tripID)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
