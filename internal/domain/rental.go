package domain

import "time"

type RentalStatus string

const (
	RentalStatusRequested RentalStatus = "requested"
	RentalStatusApproved  RentalStatus = "approved"
	RentalStatusRejected  RentalStatus = "rejected"
	RentalStatusCancelled RentalStatus = "cancelled"
	RentalStatusShipped   RentalStatus = "shipped"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusReturning RentalStatus = "returning"
	RentalStatusCompleted RentalStatus = "completed"
)

// Terminal reports whether a rental in this status never transitions again.
func (s RentalStatus) Terminal() bool {
	switch s {
	case RentalStatusRejected, RentalStatusCancelled, RentalStatusCompleted:
		return true
	}
	return false
}

type Rental struct {
	ID          string `json:"id" firestore:"-"`
	RenterID    string `json:"renterId" firestore:"renterId"`
	OwnerID     string `json:"ownerId" firestore:"ownerId"`
	EquipmentID string `json:"equipmentId" firestore:"equipmentId"`
	// Name and TotalPrice are snapshots taken from the equipment at
	// creation time. Later equipment edits do not change them.
	Name         string       `json:"name" firestore:"name"`
	TotalPrice   float64      `json:"price" firestore:"price"`
	Quantity     int64        `json:"quantity" firestore:"quantity"`
	DurationDays int64        `json:"durationDays" firestore:"durationDays"`
	Status       RentalStatus `json:"status" firestore:"status"`

	TrackingNumber       string `json:"trackingNumber,omitempty" firestore:"trackingNumber"`
	ReturnTrackingNumber string `json:"returnTrackingNumber,omitempty" firestore:"returnTrackingNumber"`

	// Instant flow: the renter picks explicit dates at creation.
	StartDate *time.Time `json:"startDate,omitempty" firestore:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty" firestore:"endDate,omitempty"`

	// Staged flow: set when the renter confirms receipt.
	ActualStartDate *time.Time `json:"actualStartDate,omitempty" firestore:"actualStartDate,omitempty"`
	ActualEndDate   *time.Time `json:"actualEndDate,omitempty" firestore:"actualEndDate,omitempty"`

	// Set inside the completion write so a sweep re-run after a partial
	// failure cannot return stock twice for the same rental.
	StockReturned bool `json:"-" firestore:"stockReturned"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`

	// Denormalized from the equipment document when listing.
	Image    string            `json:"image,omitempty" firestore:"-"`
	Category EquipmentCategory `json:"category,omitempty" firestore:"-"`
}

// EffectiveEnd is the instant after which an active rental counts as
// expired: the actual end set at activation, or the explicit end date
// in the instant flow.
func (r *Rental) EffectiveEnd() *time.Time {
	if r.ActualEndDate != nil {
		return r.ActualEndDate
	}
	return r.EndDate
}
