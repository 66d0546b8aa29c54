package models

import (
	"time"
)

// Booking statuses. Cancelled exists in the enum but no endpoint sets it.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusDeclined  = "declined"
	StatusCancelled = "cancelled"
)

// DefaultResourceID is the single bookable resource.
const DefaultResourceID = "alder-lake-house"

type Booking struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	CustomerID uint     `gorm:"not null;index" json:"-"`
	Customer   Customer `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"customer"`
	ResourceID string   `gorm:"type:varchar(64);not null;default:'alder-lake-house';index:ix_bookings_resource_status" json:"resourceId"`
	Status     string   `gorm:"type:varchar(20);not null;default:'pending';index:ix_bookings_resource_status" json:"status"`

	StartAt     Date    `gorm:"not null" json:"startDate"`
	EndAt       Date    `gorm:"not null" json:"endDate"`
	RequestedBy string  `gorm:"type:varchar(120);not null" json:"requestedBy"`
	ApprovedBy  *string `gorm:"type:varchar(120)" json:"approvedBy"`

	Amount *float64 `gorm:"type:decimal(10,2)" json:"amount"`
	Notes  *string  `gorm:"type:text" json:"notes"`

	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updatedAt"`
	ApprovedAt *time.Time `json:"approvedAt"`
}

// Overlaps reports whether the booking occupies any day in [start, end].
// Both bounds are inclusive, day granularity.
func (b *Booking) Overlaps(start, end Date) bool {
	return !b.EndAt.Before(start) && !b.StartAt.After(end)
}

// CoversDay reports whether the booking occupies the given day.
func (b *Booking) CoversDay(day Date) bool {
	return b.Overlaps(day, day)
}
