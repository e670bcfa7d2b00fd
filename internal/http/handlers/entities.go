package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetdesk/internal/store"
)

type createEntityRequest struct {
	Name string `json:"name"`
}

// ListVehicles returns the vehicles visible to the caller's role.
func (a API) ListVehicles(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	vehicles, err := l.Vehicles()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

func (a API) CreateVehicle(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	var req createEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	v, err := l.CreateVehicle(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": v})
}

func (a API) DeleteVehicle(c *gin.Context) {
	a.deleteEntity(c, store.ColVehicles)
}

func (a API) ListDrivers(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	drivers, err := l.Drivers()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

func (a API) CreateDriver(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	var req createEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	d, err := l.CreateDriver(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"driver": d})
}

func (a API) DeleteDriver(c *gin.Context) {
	a.deleteEntity(c, store.ColDrivers)
}

func (a API) ListCustomers(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	customers, err := l.Customers()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (a API) CreateCustomer(c *gin.Context) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	var req createEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	cu, err := l.CreateCustomer(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": cu})
}

func (a API) DeleteCustomer(c *gin.Context) {
	a.deleteEntity(c, store.ColCustomers)
}

func (a API) deleteEntity(c *gin.Context, collection string) {
	l, ok := a.ledgerFor(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := l.DeleteEntity(c.Request.Context(), collection, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
