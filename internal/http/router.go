package api

import (
	"log"
	stdhttp "net/http"
	"strings"
	"time"

	intconfig "rental/internal/config"
	"rental/internal/domain"
	h "rental/internal/http/handlers"
	"rental/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func corsConfig(env intconfig.Env) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"}
	cfg.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	cfg.AllowCredentials = true
	cfg.MaxAge = 24 * time.Hour

	if env.CORSOrigins != "" {
		origins := []string{}
		for _, o := range strings.Split(env.CORSOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowOrigins = []string{
			"http://localhost:3000", "http://127.0.0.1:3000",
			"http://localhost:5173", "http://127.0.0.1:5173",
		}
	}
	return cfg
}

func NewRouter(env intconfig.Env) *gin.Engine {
	middleware.SetJWTSecret(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), cors.New(corsConfig(env)))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "rota não encontrada",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	staff := middleware.RequireRoles(domain.RoleAdmin, domain.RoleManager)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		private := api.Group("")
		private.Use(middleware.RequireAuth())

		private.GET("/routes", h.Routes)

		vehicles := private.Group("/vehicles")
		vehicles.GET("", h.GetVehicles)
		vehicles.GET("/:id", h.GetVehicleByID)
		vehicles.POST("", staff, h.CreateVehicle)
		vehicles.PUT("/:id", staff, h.UpdateVehicle)
		vehicles.DELETE("/:id", staff, h.DeleteVehicle)

		customers := private.Group("/customers")
		customers.GET("", h.GetCustomers)
		customers.GET("/:id", h.GetCustomerByID)
		customers.POST("", staff, h.CreateCustomer)
		customers.PUT("/:id", staff, h.UpdateCustomer)
		customers.DELETE("/:id", staff, h.DeleteCustomer)

		reservations := private.Group("/reservations")
		reservations.GET("/availability", h.GetAvailability)
		reservations.GET("/pending-delivery", h.GetPendingDelivery)
		reservations.GET("/pending-return", h.GetPendingReturn)
		reservations.GET("", h.GetReservations)
		reservations.GET("/:id", h.GetReservationByID)
		reservations.GET("/:id/contract", h.GetReservationContract)
		reservations.GET("/:id/receipt", h.GetReservationReceipt)
		reservations.POST("", staff, h.CreateReservation)
		reservations.PUT("/:id", staff, h.UpdateReservation)
		reservations.POST("/:id/deliver", staff, h.DeliverReservation)
		reservations.POST("/:id/return", staff, h.ReturnReservation)
		reservations.POST("/:id/cancel", staff, h.CancelReservation)

		fines := private.Group("/fines")
		fines.GET("", h.GetFines)
		fines.GET("/lookup", h.LookupFineReservations)
		fines.POST("", staff, h.CreateFine)
		fines.PUT("/:id/status", staff, h.UpdateFineStatus)

		reports := private.Group("/reports")
		reports.GET("/dashboard", h.GetDashboard)
		reports.GET("/occupancy", h.GetOccupancy)

		users := private.Group("/users")
		users.Use(adminOnly)
		users.GET("", h.GetUsers)
		users.GET("/:id", h.GetUserByID)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	h.SetRouter(r)
	return r
}
