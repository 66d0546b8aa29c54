package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/bookly-app/config"
	"github.com/yeremiapane/bookly-app/models"
	"github.com/yeremiapane/bookly-app/router"
	"github.com/yeremiapane/bookly-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestBookingEndToEnd walks the main flow:
// 1. Submit a booking request -> pending
// 2. Approve it -> approved
// 3. An overlapping request is rejected at creation
// 4. A pending request for a free range loses the approval race -> decline it
// 5. The calendar reflects the occupancy
func TestBookingEndToEnd(t *testing.T) {
	db := setupIntegrationDB()
	cfg := &config.Config{
		AppName:           "Bookly API",
		DefaultResourceID: models.DefaultResourceID,
	}
	r := router.SetupRouter(db, cfg)

	// Health check
	w := doRequest(t, r, "GET", "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 1. Create
	w = doRequest(t, r, "POST", "/api/bookings", map[string]interface{}{
		"customer":    map[string]string{"email": "alice@example.com", "fullName": "Alice Cooper"},
		"startDate":   "2025-06-10",
		"endDate":     "2025-06-12",
		"requestedBy": "Alice Cooper",
		"notes":       "Two kayaks please",
		"amount":      420.50,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pending", created["status"])
	bookingID := int(created["id"].(float64))

	// 2. Approve
	w = doRequest(t, r, "POST", fmt.Sprintf("/api/bookings/%d/approve", bookingID),
		map[string]string{"actor": "Owner"})
	assert.Equal(t, http.StatusOK, w.Code)
	var approved map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &approved))
	assert.Equal(t, "approved", approved["status"])
	assert.Equal(t, "Owner", approved["approvedBy"])

	// 3. Overlapping request is rejected
	w = doRequest(t, r, "POST", "/api/bookings", map[string]interface{}{
		"customer":    map[string]string{"email": "bob@example.com", "fullName": "Bob Dale"},
		"startDate":   "2025-06-11",
		"endDate":     "2025-06-11",
		"requestedBy": "Bob Dale",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 4. Free range: request lands as pending, then gets declined
	w = doRequest(t, r, "POST", "/api/bookings", map[string]interface{}{
		"customer":    map[string]string{"email": "bob@example.com", "fullName": "Bob Dale"},
		"startDate":   "2025-06-20",
		"endDate":     "2025-06-21",
		"requestedBy": "Bob Dale",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var pending map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	pendingID := int(pending["id"].(float64))

	w = doRequest(t, r, "POST", fmt.Sprintf("/api/bookings/%d/decline", pendingID),
		map[string]string{"actor": "Owner", "note": "maintenance week"})
	assert.Equal(t, http.StatusOK, w.Code)
	var declined map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &declined))
	assert.Equal(t, "declined", declined["status"])

	// 5. Calendar view
	w = doRequest(t, r, "GET", "/api/calendar?month=2025-06&selectedDate=2025-06-10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var view map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	calendar := view["calendar"].(map[string]interface{})
	assert.Equal(t, "June 2025", calendar["monthLabel"])
	assert.Equal(t, "2025-06-10", calendar["selectedIso"])
	// The declined request no longer counts toward the month totals.
	assert.Equal(t, float64(1), calendar["totalBookings"])
	assert.Equal(t, float64(0), calendar["pendingCount"])

	selectedDay := view["selectedDay"].(map[string]interface{})
	assert.Equal(t, float64(1), selectedDay["confirmedCount"])
	assert.Equal(t, float64(0), selectedDay["remainingSlots"])

	// Listing shows all three records in (start date, id) order.
	w = doRequest(t, r, "GET", "/api/bookings", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var listed []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func setupIntegrationDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Booking{}); err != nil {
		panic(err)
	}
	return db
}

func doRequest(t *testing.T, r http.Handler, method, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
