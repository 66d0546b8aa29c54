package Controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/bookly-app/controllers"
	"github.com/yeremiapane/bookly-app/models"
)

func setupCalendarRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	calendarCtrl := controllers.NewCalendarController(db, models.DefaultResourceID)
	router.GET("/api/calendar", calendarCtrl.GetCalendar)
	router.GET("/api/calendar/day", calendarCtrl.GetCalendarDay)
	return router
}

func seedJuneBookings(db *gorm.DB) (models.Booking, models.Booking) {
	alice := seedCustomer(db, "alice@example.com", "Alice Cooper")
	bob := seedCustomer(db, "bob@example.com", "Bob Dale")
	approved := seedBooking(db, alice.ID, models.StatusApproved,
		models.NewDate(2025, time.June, 10), models.NewDate(2025, time.June, 12))
	pending := seedBooking(db, bob.ID, models.StatusPending,
		models.NewDate(2025, time.June, 11), models.NewDate(2025, time.June, 11))
	return approved, pending
}

func gridDay(t *testing.T, weeks []interface{}, iso string) map[string]interface{} {
	t.Helper()
	for _, weekRaw := range weeks {
		for _, dayRaw := range weekRaw.([]interface{}) {
			day := dayRaw.(map[string]interface{})
			if day["iso"] == iso {
				return day
			}
		}
	}
	t.Fatalf("day %s not found in grid", iso)
	return nil
}

func TestGetCalendarMonthView(t *testing.T) {
	db := setupTestDB(t)
	approved, pending := seedJuneBookings(db)
	router := setupCalendarRouter(db)

	w := performJSON(t, router, "GET", "/api/calendar?month=2025-06", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	resource := body["resource"].(map[string]interface{})
	assert.Equal(t, models.DefaultResourceID, resource["id"])
	assert.Equal(t, "Alder Lake House", resource["displayName"])

	calendar := body["calendar"].(map[string]interface{})
	assert.Equal(t, "June 2025", calendar["monthLabel"])
	assert.Equal(t, float64(2), calendar["totalBookings"])
	assert.Equal(t, float64(1), calendar["pendingCount"])
	assert.Equal(t, float64(27), calendar["remainingSlots"])

	labels := calendar["weekdayLabels"].([]interface{})
	assert.Len(t, labels, 7)
	assert.Equal(t, "Mon", labels[0])

	weeks := calendar["weeks"].([]interface{})
	assert.Len(t, weeks, 6)
	for _, week := range weeks {
		assert.Len(t, week.([]interface{}), 7)
	}
	assert.Equal(t, "2025-05-26", weeks[0].([]interface{})[0].(map[string]interface{})["iso"])

	tenth := gridDay(t, weeks, "2025-06-10")
	assert.Equal(t, true, tenth["isFull"])
	assert.Equal(t, float64(0), tenth["remainingSlots"])
	dayBookings := tenth["bookings"].([]interface{})
	if assert.Len(t, dayBookings, 1) {
		entry := dayBookings[0].(map[string]interface{})
		assert.Equal(t, float64(approved.ID), entry["id"])
		assert.Equal(t, "Alice Cooper", entry["customerName"])
	}

	pendingRequests := body["pendingRequests"].([]interface{})
	if assert.Len(t, pendingRequests, 1) {
		entry := pendingRequests[0].(map[string]interface{})
		assert.Equal(t, float64(pending.ID), entry["id"])
		assert.Equal(t, "2025-06-11", entry["date"])
		assert.Equal(t, "Bob Dale", entry["customerName"])
	}
}

func TestGetCalendarSelectedDate(t *testing.T) {
	db := setupTestDB(t)
	seedJuneBookings(db)
	router := setupCalendarRouter(db)

	w := performJSON(t, router, "GET", "/api/calendar?month=2025-06&selectedDate=2025-06-11", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	calendar := body["calendar"].(map[string]interface{})
	assert.Equal(t, "2025-06-11", calendar["selectedIso"])

	selectedDay := body["selectedDay"].(map[string]interface{})
	assert.Equal(t, "2025-06-11", selectedDay["iso"])
	assert.Equal(t, float64(1), selectedDay["confirmedCount"])
	assert.Equal(t, float64(1), selectedDay["pendingCount"])
	assert.Len(t, selectedDay["bookings"].([]interface{}), 2)

	// A selection outside the visible grid falls back to the month's first day.
	w = performJSON(t, router, "GET", "/api/calendar?month=2025-06&selectedDate=2025-01-01", nil)
	body = decodeBody(t, w)
	calendar = body["calendar"].(map[string]interface{})
	assert.Equal(t, "2025-06-01", calendar["selectedIso"])
}

func TestGetCalendarRejectsBadMonth(t *testing.T) {
	db := setupTestDB(t)
	router := setupCalendarRouter(db)

	w := performJSON(t, router, "GET", "/api/calendar?month=2025-13", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = performJSON(t, router, "GET", "/api/calendar?month=junk", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = performJSON(t, router, "GET", "/api/calendar?month=2025-06&selectedDate=junk", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetCalendarDayDetail(t *testing.T) {
	db := setupTestDB(t)
	seedJuneBookings(db)
	router := setupCalendarRouter(db)

	w := performJSON(t, router, "GET", "/api/calendar/day?date=2025-06-10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "2025-06-10", body["iso"])
	assert.Equal(t, float64(1), body["confirmedCount"])
	assert.Equal(t, float64(0), body["remainingSlots"])
	assert.Equal(t, "All slots are filled. Decline or reschedule requests to reopen capacity.", body["summary"])

	w = performJSON(t, router, "GET", "/api/calendar/day?date=2025-06-20", nil)
	body = decodeBody(t, w)
	assert.Equal(t, float64(1), body["remainingSlots"])
	assert.Equal(t, "Wide open day ready for a new booking.", body["summary"])

	w = performJSON(t, router, "GET", "/api/calendar/day", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
