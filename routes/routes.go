package routes

import (
	"net/http"
	"time"

	"servihub/handlers"
	"servihub/middleware"
	"servihub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router wires up.
type HandlerBundle struct {
	Booking  *handlers.BookingHandler
	Schedule *handlers.ScheduleHandler
	Payment  *handlers.PaymentHandler
}

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Booking.CreateBooking)
		api.GET("", hb.Booking.ListMyBookings)
		api.GET("/:id", hb.Booking.GetBooking)
		api.POST("/:id/transition", hb.Booking.TransitionBooking)
		api.POST("/:id/payment", hb.Booking.AttachTransaction)
		api.POST("/:id/refund", hb.Booking.RefundBooking)
		api.POST("/:id/cancel", hb.Booking.CancelBooking)
	}

	pricing := r.Group("/api/pricing")
	{
		pricing.POST("/breakup", hb.Booking.PriceBreakup)
	}

	provider := r.Group("/api/provider")
	{
		provider.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("provider"))
		provider.GET("/bookings", hb.Booking.ListProviderBookings)
	}
}

// RegisterScheduleRoutes registers provider availability endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/schedules")
	{
		// Month views are public; customers browse them before booking.
		api.GET("", hb.Schedule.GetMonth)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole("provider"))
		protected.POST("", hb.Schedule.SubmitAvailability)
		protected.PATCH("/:id/days/:dayId", hb.Schedule.PatchDay)
		protected.PATCH("/:id/days/:dayId/slots/:slotId", hb.Schedule.PatchSlot)
		protected.DELETE("/:id", hb.Schedule.DeleteSchedule)
	}
}

// RegisterPaymentRoutes registers payment intent endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/intent", hb.Payment.CreateIntent)
	}
}

// RegisterRoutes sets up CORS, health, and all API routes.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	RegisterBookingRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
