package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	"fleetdesk/internal/config"
	"fleetdesk/internal/domain"
	"fleetdesk/internal/http/handlers"
	"fleetdesk/internal/http/middleware"
)

// NewRouter wires the full API surface. Authentication runs on everything
// under /api except /health and the login/register endpoints; the
// financial routes are additionally gated to the owner role.
func NewRouter(env config.Env, a handlers.API) *gin.Engine {
	gin.SetMode(env.GinMode)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	root := r.Group("/api")
	root.GET("/health", a.Health)

	auth := root.Group("/auth")
	auth.POST("/login", a.Login)
	auth.POST("/register", a.Register)

	// everything below requires a valid session
	sess := root.Group("")
	sess.Use(middleware.RequireAuth(a.Auth))

	sess.POST("/auth/logout", a.Logout)
	sess.GET("/auth/me", a.Me)

	vehicles := sess.Group("/vehicles")
	vehicles.GET("", a.ListVehicles)
	vehicles.POST("", a.CreateVehicle)
	vehicles.DELETE("/:id", a.DeleteVehicle)

	drivers := sess.Group("/drivers")
	drivers.GET("", a.ListDrivers)
	drivers.POST("", a.CreateDriver)
	drivers.DELETE("/:id", a.DeleteDriver)

	customers := sess.Group("/customers")
	customers.GET("", a.ListCustomers)
	customers.POST("", a.CreateCustomer)
	customers.DELETE("/:id", a.DeleteCustomer)

	trips := sess.Group("/trips")
	trips.GET("", a.ListTrips)
	trips.POST("", a.CreateTrip)
	trips.PUT("/:id/fare", a.SetFare)
	trips.PUT("/:id/paid", a.MarkPaid)
	trips.DELETE("/:id", a.DeleteTrip)

	// owner-only financial surface; the services check again, the
	// middleware just fails fast
	owner := sess.Group("")
	owner.Use(middleware.RequireRoles(domain.RoleOwner))

	reports := owner.Group("/reports")
	reports.GET("/monthly", a.MonthlyReport)
	reports.GET("/monthly/export", a.MonthlyReportPDF)
	reports.GET("/vehicles/:id", a.VehicleReport)
	reports.GET("/vehicles/:id/export", a.VehicleReportPDF)
	reports.GET("/drivers/:id", a.DriverReport)
	reports.GET("/drivers/:id/export", a.DriverReportPDF)
	reports.GET("/partners/:id", a.PartnerReport)
	reports.GET("/partners/:id/export", a.PartnerReportPDF)
	reports.GET("/customers/:id", a.CustomerReport)
	reports.GET("/customers/:id/export", a.CustomerReportPDF)

	debts := owner.Group("/debts")
	debts.GET("", a.ListDebts)
	debts.GET("/export", a.DebtsPDF)

	accounts := owner.Group("/accounts")
	accounts.GET("", a.ListAccounts)
	accounts.POST("", a.CreateAccount)
	accounts.PUT("/:id", a.UpdateAccount)
	accounts.DELETE("/:id", a.DeleteAccount)

	return r
}
