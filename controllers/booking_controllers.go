package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/bookly-app/models"
	"github.com/yeremiapane/bookly-app/utils"
)

var (
	ErrEndBeforeStart    = errors.New("end date must be on or after start date")
	ErrBookingOverlap    = errors.New("booking overlaps an approved reservation")
	ErrNotPendingApprove = errors.New("only pending bookings can be approved")
	ErrNotPendingDecline = errors.New("only pending bookings can be declined")
	ErrBookingNotFound   = errors.New("booking not found")
)

type BookingController struct {
	DB              *gorm.DB
	DefaultResource string
}

func NewBookingController(db *gorm.DB, defaultResource string) *BookingController {
	return &BookingController{DB: db, DefaultResource: defaultResource}
}

// CreateBooking -> register a pending booking request. The customer upsert,
// conflict probe and insert run as one transaction.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req struct {
		Customer struct {
			Email    string `json:"email" binding:"required,email"`
			FullName string `json:"fullName" binding:"required,max=255"`
		} `json:"customer" binding:"required"`
		StartDate   models.Date `json:"startDate" binding:"required"`
		EndDate     models.Date `json:"endDate" binding:"required"`
		RequestedBy string      `json:"requestedBy" binding:"required,max=120"`
		Notes       *string     `json:"notes"`
		ResourceID  string      `json:"resourceId"`
		Amount      *float64    `json:"amount" binding:"omitempty,gte=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.StartDate.After(req.EndDate) {
		utils.RespondError(c, http.StatusUnprocessableEntity, ErrEndBeforeStart)
		return
	}

	resourceID := req.ResourceID
	if resourceID == "" {
		resourceID = bc.DefaultResource
	}

	var booking models.Booking
	err := bc.DB.Transaction(func(tx *gorm.DB) error {
		customer, err := upsertCustomer(tx, req.Customer.Email, req.Customer.FullName)
		if err != nil {
			return err
		}
		if err := ensureNoConflict(tx, resourceID, req.StartDate, req.EndDate, 0); err != nil {
			return err
		}

		booking = models.Booking{
			CustomerID:  customer.ID,
			ResourceID:  resourceID,
			Status:      models.StatusPending,
			StartAt:     req.StartDate,
			EndAt:       req.EndDate,
			RequestedBy: req.RequestedBy,
			Notes:       req.Notes,
			Amount:      req.Amount,
		}
		return tx.Omit(clause.Associations).Create(&booking).Error
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if err := bc.DB.Preload("Customer").First(&booking, booking.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New booking %d for %s (%s..%s) by %s",
		booking.ID, booking.ResourceID, booking.StartAt.ISO(), booking.EndAt.ISO(), booking.RequestedBy)
	c.JSON(http.StatusCreated, booking)
}

// GetAllBookings -> list bookings for a resource, optionally filtered by
// status and date-range overlap, ordered by (start date, id).
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	resourceID := c.DefaultQuery("resourceId", bc.DefaultResource)

	query := bc.DB.Preload("Customer").
		Where("resource_id = ?", resourceID).
		Order("start_at asc, id asc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if raw := c.Query("startDate"); raw != "" {
		start, err := models.ParseDate(raw)
		if err != nil {
			utils.RespondError(c, http.StatusUnprocessableEntity, err)
			return
		}
		query = query.Where("end_at >= ?", start)
	}
	if raw := c.Query("endDate"); raw != "" {
		end, err := models.ParseDate(raw)
		if err != nil {
			utils.RespondError(c, http.StatusUnprocessableEntity, err)
			return
		}
		query = query.Where("start_at <= ?", end)
	}

	bookings := make([]models.Booking, 0)
	if err := query.Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ApproveBooking -> pending -> approved, gated by the conflict check.
func (bc *BookingController) ApproveBooking(c *gin.Context) {
	bc.decide(c, models.StatusApproved)
}

// DeclineBooking -> pending -> declined.
func (bc *BookingController) DeclineBooking(c *gin.Context) {
	bc.decide(c, models.StatusDeclined)
}

func (bc *BookingController) decide(c *gin.Context, target string) {
	var req struct {
		Actor string  `json:"actor" binding:"required,max=120"`
		Note  *string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	bookingID, _ := strconv.Atoi(c.Param("booking_id"))

	var booking models.Booking
	err := bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			return err
		}
		if booking.Status != models.StatusPending {
			if target == models.StatusApproved {
				return ErrNotPendingApprove
			}
			return ErrNotPendingDecline
		}
		if target == models.StatusApproved {
			if err := ensureNoConflict(tx, booking.ResourceID, booking.StartAt, booking.EndAt, booking.ID); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		booking.Status = target
		booking.ApprovedBy = &req.Actor
		booking.ApprovedAt = &now
		if req.Note != nil && *req.Note != "" {
			booking.Notes = appendDecisionNote(booking.Notes, *req.Note)
		}
		return tx.Omit(clause.Associations).Save(&booking).Error
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if err := bc.DB.Preload("Customer").First(&booking, booking.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Booking %d %s by %s", booking.ID, booking.Status, req.Actor)
	c.JSON(http.StatusOK, booking)
}

// upsertCustomer finds or creates the customer by case-normalized email.
// An existing customer's name is overwritten with the submitted one.
func upsertCustomer(tx *gorm.DB, email, fullName string) (*models.Customer, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	var customer models.Customer
	err := tx.Where("email = ?", normalized).First(&customer).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		customer = models.Customer{Email: normalized, FullName: fullName}
		if err := tx.Create(&customer).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		customer.FullName = fullName
		if err := tx.Save(&customer).Error; err != nil {
			return nil, err
		}
	}
	return &customer, nil
}

// ensureNoConflict fails with ErrBookingOverlap when an approved booking for
// the resource intersects [start, end], both inclusive. Candidate rows are
// locked so two concurrent decisions cannot both pass the probe before
// either commits.
func ensureNoConflict(tx *gorm.DB, resourceID string, start, end models.Date, excludeID uint) error {
	query := tx.Model(&models.Booking{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("resource_id = ? AND status = ?", resourceID, models.StatusApproved).
		Where("end_at >= ? AND start_at <= ?", start, end)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var conflict models.Booking
	err := query.Take(&conflict).Error
	if err == nil {
		return ErrBookingOverlap
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func appendDecisionNote(notes *string, note string) *string {
	if notes == nil || *notes == "" {
		return &note
	}
	joined := *notes + "\nDecision: " + note
	return &joined
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, ErrBookingNotFound)
	case errors.Is(err, ErrBookingOverlap), errors.Is(err, ErrNotPendingApprove), errors.Is(err, ErrNotPendingDecline):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.ErrorLogger.Printf("booking mutation failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
