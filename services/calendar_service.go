package services

import (
	"sort"
	"strings"
	"time"

	"github.com/yeremiapane/bookly-app/models"
)

// CapacityPerDay is the number of approved bookings a resource can hold on
// a single day.
const CapacityPerDay = 1

var WeekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type BookingSummary struct {
	ID           uint    `json:"id"`
	CustomerName string  `json:"customerName"`
	Status       string  `json:"status"`
	WindowLabel  string  `json:"windowLabel"`
	RequestedBy  string  `json:"requestedBy"`
	Notes        *string `json:"notes"`
}

type CalendarDay struct {
	ISO            string           `json:"iso"`
	DayLabel       string           `json:"dayLabel"`
	IsCurrentMonth bool             `json:"isCurrentMonth"`
	IsToday        bool             `json:"isToday"`
	IsFull         bool             `json:"isFull"`
	IsUnavailable  bool             `json:"isUnavailable"`
	PendingCount   int              `json:"pendingCount"`
	RemainingSlots int              `json:"remainingSlots"`
	Bookings       []BookingSummary `json:"bookings"`
}

type CalendarMonth struct {
	MonthLabel         string          `json:"monthLabel"`
	SelectedISO        string          `json:"selectedIso"`
	TotalBookings      int             `json:"totalBookings"`
	PendingCount       int             `json:"pendingCount"`
	RemainingSlots     int             `json:"remainingSlots"`
	NextAvailableLabel *string         `json:"nextAvailableLabel"`
	UpdatedLabel       string          `json:"updatedLabel"`
	WeekdayLabels      []string        `json:"weekdayLabels"`
	Weeks              [][]CalendarDay `json:"weeks"`
}

type DayDetail struct {
	ISO            string           `json:"iso"`
	DateLabel      string           `json:"dateLabel"`
	Summary        string           `json:"summary"`
	ConfirmedCount int              `json:"confirmedCount"`
	PendingCount   int              `json:"pendingCount"`
	RemainingSlots int              `json:"remainingSlots"`
	Bookings       []BookingSummary `json:"bookings"`
}

type PendingRequest struct {
	ID           uint    `json:"id"`
	CustomerName string  `json:"customerName"`
	Date         string  `json:"date"`
	DateLabel    string  `json:"dateLabel"`
	WindowLabel  string  `json:"windowLabel"`
	RequestedBy  string  `json:"requestedBy"`
	Notes        *string `json:"notes"`
}

type ResourceSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type CalendarResponse struct {
	Resource        ResourceSummary  `json:"resource"`
	Calendar        CalendarMonth    `json:"calendar"`
	SelectedDay     DayDetail        `json:"selectedDay"`
	PendingRequests []PendingRequest `json:"pendingRequests"`
}

// GridBounds returns the first and last day of the Monday-first week grid
// covering the anchor month: the Monday on or before the 1st through the
// Sunday on or after the last day.
func GridBounds(anchor models.Date) (models.Date, models.Date) {
	first := models.NewDate(anchor.Year(), anchor.Month(), 1)
	last := models.Date{Time: first.AddDate(0, 1, -1)}

	gridStart := first.AddDays(-mondayIndex(first))
	gridEnd := last.AddDays(6 - mondayIndex(last))
	return gridStart, gridEnd
}

// mondayIndex maps a weekday to 0..6 with Monday as 0.
func mondayIndex(d models.Date) int {
	return (int(d.Weekday()) + 6) % 7
}

// BuildCalendar turns the bookings overlapping the anchor month's grid into
// the month view. It performs no I/O; callers fetch the rows and pass the
// current time.
func BuildCalendar(anchor models.Date, resourceID string, bookings []models.Booking, selected *models.Date, now time.Time) CalendarResponse {
	first := models.NewDate(anchor.Year(), anchor.Month(), 1)
	last := models.Date{Time: first.AddDate(0, 1, -1)}
	gridStart, gridEnd := GridBounds(anchor)
	today := models.DateOf(now)

	// Bucket each booking into every grid day it touches.
	byDay := make(map[string][]models.Booking)
	for _, booking := range bookings {
		spanStart := maxDate(booking.StartAt, gridStart)
		spanEnd := minDate(booking.EndAt, gridEnd)
		for day := spanStart; !day.After(spanEnd); day = day.AddDays(1) {
			byDay[day.ISO()] = append(byDay[day.ISO()], booking)
		}
	}

	// Month totals ignore the padding days from adjacent months.
	totalBookings := 0
	totalPending := 0
	for _, booking := range bookings {
		if !booking.Overlaps(first, last) {
			continue
		}
		switch booking.Status {
		case models.StatusPending:
			totalBookings++
			totalPending++
		case models.StatusApproved:
			totalBookings++
		}
	}

	var weeks [][]CalendarDay
	totalRemaining := 0
	for weekStart := gridStart; !weekStart.After(gridEnd); weekStart = weekStart.AddDays(7) {
		week := make([]CalendarDay, 0, 7)
		for i := 0; i < 7; i++ {
			day := weekStart.AddDays(i)
			dayBookings := byDay[day.ISO()]
			approved := countStatus(dayBookings, models.StatusApproved)
			pending := countStatus(dayBookings, models.StatusPending)
			remaining := remainingSlots(approved)

			if day.Month() == anchor.Month() {
				totalRemaining += remaining
			}

			week = append(week, CalendarDay{
				ISO:            day.ISO(),
				DayLabel:       day.Format("2"),
				IsCurrentMonth: day.Month() == anchor.Month(),
				IsToday:        day.Equal(today),
				IsFull:         approved >= CapacityPerDay,
				PendingCount:   pending,
				RemainingSlots: remaining,
				Bookings:       summarize(dayBookings),
			})
		}
		weeks = append(weeks, week)
	}

	var nextAvailable *string
	for day := maxDate(today, gridStart); !day.After(gridEnd); day = day.AddDays(1) {
		if countStatus(byDay[day.ISO()], models.StatusApproved) < CapacityPerDay {
			label := day.Format("Mon, 02 Jan 2006")
			nextAvailable = &label
			break
		}
	}

	// The selected day defaults to today inside the anchor month, otherwise
	// to the month's first day; anything outside the grid falls back too.
	sel := first
	if selected != nil {
		sel = *selected
	} else if today.Year() == anchor.Year() && today.Month() == anchor.Month() {
		sel = today
	}
	if sel.Before(gridStart) || sel.After(gridEnd) {
		sel = first
	}
	selectedDetail := BuildDayDetail(sel, byDay[sel.ISO()])

	pendingRequests := make([]PendingRequest, 0)
	for _, booking := range sortBookings(filterStatus(bookings, models.StatusPending)) {
		pendingRequests = append(pendingRequests, PendingRequest{
			ID:           booking.ID,
			CustomerName: booking.Customer.FullName,
			Date:         booking.StartAt.ISO(),
			DateLabel:    booking.StartAt.Format("Mon, 02 Jan"),
			WindowLabel:  windowLabel(booking),
			RequestedBy:  booking.RequestedBy,
			Notes:        booking.Notes,
		})
	}

	return CalendarResponse{
		Resource: SummarizeResource(resourceID),
		Calendar: CalendarMonth{
			MonthLabel:         anchor.Format("January 2006"),
			SelectedISO:        sel.ISO(),
			TotalBookings:      totalBookings,
			PendingCount:       totalPending,
			RemainingSlots:     totalRemaining,
			NextAvailableLabel: nextAvailable,
			UpdatedLabel:       "Updated " + now.UTC().Format("02 Jan 2006 15:04") + " UTC",
			WeekdayLabels:      WeekdayLabels,
			Weeks:              weeks,
		},
		SelectedDay:     selectedDetail,
		PendingRequests: pendingRequests,
	}
}

// BuildDayDetail summarizes the bookings touching a single day.
func BuildDayDetail(day models.Date, bookings []models.Booking) DayDetail {
	approved := countStatus(bookings, models.StatusApproved)
	pending := countStatus(bookings, models.StatusPending)

	var summary string
	switch {
	case approved >= CapacityPerDay:
		summary = "All slots are filled. Decline or reschedule requests to reopen capacity."
	case len(bookings) > 0:
		summary = "Review guest details, confirm approvals, or release slots as needed."
	default:
		summary = "Wide open day ready for a new booking."
	}

	return DayDetail{
		ISO:            day.ISO(),
		DateLabel:      day.Format("Monday, 02 January 2006"),
		Summary:        summary,
		ConfirmedCount: approved,
		PendingCount:   pending,
		RemainingSlots: remainingSlots(approved),
		Bookings:       summarize(bookings),
	}
}

// SummarizeResource derives the wire representation of a resource id. The
// default resource keeps its fixed display name.
func SummarizeResource(resourceID string) ResourceSummary {
	if resourceID == models.DefaultResourceID {
		return ResourceSummary{ID: resourceID, Name: resourceID, DisplayName: "Alder Lake House"}
	}
	words := strings.Split(resourceID, "-")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return ResourceSummary{ID: resourceID, Name: resourceID, DisplayName: strings.Join(words, " ")}
}

func windowLabel(booking models.Booking) string {
	if booking.StartAt.Equal(booking.EndAt) {
		return booking.StartAt.Format("Mon, 02 Jan 2006")
	}
	return booking.StartAt.Format("02 Jan 2006") + " – " + booking.EndAt.Format("02 Jan 2006")
}

func summarize(bookings []models.Booking) []BookingSummary {
	summaries := make([]BookingSummary, 0, len(bookings))
	for _, booking := range sortBookings(bookings) {
		summaries = append(summaries, BookingSummary{
			ID:           booking.ID,
			CustomerName: booking.Customer.FullName,
			Status:       booking.Status,
			WindowLabel:  windowLabel(booking),
			RequestedBy:  booking.RequestedBy,
			Notes:        booking.Notes,
		})
	}
	return summaries
}

// sortBookings orders by (start date, id) ascending without mutating the
// caller's slice.
func sortBookings(bookings []models.Booking) []models.Booking {
	sorted := make([]models.Booking, len(bookings))
	copy(sorted, bookings)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].StartAt.Equal(sorted[j].StartAt) {
			return sorted[i].StartAt.Before(sorted[j].StartAt)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func filterStatus(bookings []models.Booking, status string) []models.Booking {
	var matched []models.Booking
	for _, booking := range bookings {
		if booking.Status == status {
			matched = append(matched, booking)
		}
	}
	return matched
}

func countStatus(bookings []models.Booking, status string) int {
	count := 0
	for _, booking := range bookings {
		if booking.Status == status {
			count++
		}
	}
	return count
}

func remainingSlots(approved int) int {
	if approved >= CapacityPerDay {
		return 0
	}
	return CapacityPerDay - approved
}

func maxDate(a, b models.Date) models.Date {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b models.Date) models.Date {
	if a.Before(b) {
		return a
	}
	return b
}
