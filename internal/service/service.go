package service

import (
	"context"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

type EquipmentService interface {
	AddEquipment(ctx context.Context, ownerID string, eq *domain.Equipment) error
	ListEquipment(ctx context.Context) ([]domain.Equipment, error)
	UpdateEquipment(ctx context.Context, callerID string, eq *domain.Equipment) (*domain.Equipment, error)
	DeleteEquipment(ctx context.Context, callerID, equipmentID string) error
}

// CreateRentalInput is the canonical duration-based creation payload.
// StartDate/EndDate are only honored in the instant flow, where they
// are converted to whole billed days.
type CreateRentalInput struct {
	EquipmentID  string
	Quantity     int64
	DurationDays int64
	StartDate    *time.Time
	EndDate      *time.Time
}

// StatusPayload carries the optional fields a transition may require.
type StatusPayload struct {
	TrackingNumber       string
	ReturnTrackingNumber string
}

type RentalService interface {
	CreateRental(ctx context.Context, renterID string, in CreateRentalInput) (*domain.Rental, error)
	ListRentals(ctx context.Context, userID string, filter repository.RentalFilter) ([]domain.Rental, error)
	UpdateStatus(ctx context.Context, callerID, rentalID string, target domain.RentalStatus, payload StatusPayload) (*domain.Rental, error)
	CancelRental(ctx context.Context, callerID, rentalID string) error
	// ExpireActiveRentals completes every active rental whose effective
	// end is at or before now and returns the reserved stock. Returns
	// the number of rentals completed.
	ExpireActiveRentals(ctx context.Context, now time.Time) (int, error)
}

// Notifier is the fire-and-forget side-effect hook invoked on rental
// transitions. Delivery is out of scope; failures are never surfaced
// to callers.
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification)
}
