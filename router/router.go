package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/bookly-app/config"
	"github.com/yeremiapane/bookly-app/controllers"
	"github.com/yeremiapane/bookly-app/middlewares"
	"github.com/yeremiapane/bookly-app/utils"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	bookingCtrl := controllers.NewBookingController(db, cfg.DefaultResourceID)
	calendarCtrl := controllers.NewCalendarController(db, cfg.DefaultResourceID)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"app": cfg.AppName, "status": "ok"})
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "service healthy", gin.H{"app": cfg.AppName})
	})

	api := r.Group("/api")
	{
		api.GET("/bookings", bookingCtrl.GetAllBookings)
		api.POST("/bookings", bookingCtrl.CreateBooking)
		api.POST("/bookings/:booking_id/approve", bookingCtrl.ApproveBooking)
		api.POST("/bookings/:booking_id/decline", bookingCtrl.DeclineBooking)

		api.GET("/calendar", calendarCtrl.GetCalendar)
		api.GET("/calendar/day", calendarCtrl.GetCalendarDay)
	}

	return r
}
