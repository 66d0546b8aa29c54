package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/bookly-app/models"
	"github.com/yeremiapane/bookly-app/services"
	"github.com/yeremiapane/bookly-app/utils"
)

var (
	ErrInvalidMonth = errors.New("invalid month format, expected YYYY-MM")
	ErrMissingDate  = errors.New("date query parameter is required")
)

type CalendarController struct {
	DB              *gorm.DB
	DefaultResource string
}

func NewCalendarController(db *gorm.DB, defaultResource string) *CalendarController {
	return &CalendarController{DB: db, DefaultResource: defaultResource}
}

// GetCalendar -> month view with per-day occupancy, aggregates and the
// pending-request digest.
func (cc *CalendarController) GetCalendar(c *gin.Context) {
	anchor, err := monthAnchor(c.Query("month"))
	if err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	var selected *models.Date
	if raw := c.Query("selectedDate"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			utils.RespondError(c, http.StatusUnprocessableEntity, err)
			return
		}
		selected = &parsed
	}

	resourceID := c.DefaultQuery("resourceId", cc.DefaultResource)
	gridStart, gridEnd := services.GridBounds(anchor)

	bookings, err := cc.fetchRange(resourceID, gridStart, gridEnd)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	view := services.BuildCalendar(anchor, resourceID, bookings, selected, time.Now())
	c.JSON(http.StatusOK, view)
}

// GetCalendarDay -> occupancy detail for a single day.
func (cc *CalendarController) GetCalendarDay(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		utils.RespondError(c, http.StatusUnprocessableEntity, ErrMissingDate)
		return
	}
	day, err := models.ParseDate(raw)
	if err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	resourceID := c.DefaultQuery("resourceId", cc.DefaultResource)
	bookings, err := cc.fetchRange(resourceID, day, day)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	dayBookings := make([]models.Booking, 0, len(bookings))
	for _, booking := range bookings {
		if booking.CoversDay(day) {
			dayBookings = append(dayBookings, booking)
		}
	}

	c.JSON(http.StatusOK, services.BuildDayDetail(day, dayBookings))
}

// fetchRange loads the fully-joined bookings overlapping [start, end].
func (cc *CalendarController) fetchRange(resourceID string, start, end models.Date) ([]models.Booking, error) {
	var bookings []models.Booking
	err := cc.DB.Preload("Customer").
		Where("resource_id = ?", resourceID).
		Where("end_at >= ? AND start_at <= ?", start, end).
		Find(&bookings).Error
	return bookings, err
}

// monthAnchor parses "YYYY-MM" into the first day of that month, defaulting
// to the current month.
func monthAnchor(raw string) (models.Date, error) {
	if raw == "" {
		now := time.Now()
		return models.NewDate(now.Year(), now.Month(), 1), nil
	}
	parsed, err := time.Parse("2006-01", raw)
	if err != nil {
		return models.Date{}, ErrInvalidMonth
	}
	return models.NewDate(parsed.Year(), parsed.Month(), 1), nil
}
