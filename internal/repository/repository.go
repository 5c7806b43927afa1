package repository

import (
	"context"
	"time"

	"equiprent-backend/internal/domain"
)

type EquipmentRepository interface {
	Create(ctx context.Context, eq *domain.Equipment) error
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	List(ctx context.Context) ([]domain.Equipment, error)
	Update(ctx context.Context, eq *domain.Equipment) error
	Delete(ctx context.Context, id string) error

	// AdjustStock atomically applies a signed delta to the equipment's
	// stock counter. When delta is negative, the adjustment only
	// happens if the resulting stock stays >= min; otherwise
	// domain.ErrInsufficientStock is returned and nothing changes.
	// Every stock mutation in the application goes through here or
	// through RentalRepository.ApproveReservingStock — never a plain
	// read-then-write.
	AdjustStock(ctx context.Context, id string, delta int64, min int64) error
}

// RentalFilter narrows rental listings.
type RentalFilter struct {
	MinPrice *float64
	MaxPrice *float64
}

type RentalRepository interface {
	Create(ctx context.Context, r *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	// ListByParticipant returns rentals where the user is the renter or
	// the owner.
	ListByParticipant(ctx context.Context, userID string, filter RentalFilter) ([]domain.Rental, error)
	Update(ctx context.Context, r *domain.Rental) error
	Delete(ctx context.Context, id string) error

	// ApproveReservingStock writes the approved rental and decrements
	// the referenced equipment's stock by the rental quantity as one
	// atomic unit. The stored rental must still be in requested status
	// at the instant of the transaction (domain.ErrConflict otherwise),
	// and if the stock is below the quantity
	// domain.ErrInsufficientStock is returned; in either case neither
	// document changes. Re-validating the status inside the unit is
	// what stops two racing approvals from reserving stock twice.
	ApproveReservingStock(ctx context.Context, r *domain.Rental) error

	// MarkCompleted atomically transitions the rental to completed,
	// verifying it is still active or returning (domain.ErrConflict
	// otherwise). The returned flag is true when this call flipped
	// stockReturned from false, i.e. the caller now owns returning the
	// reserved stock.
	MarkCompleted(ctx context.Context, id string) (bool, error)

	// ListExpiredActive returns rentals in active status whose
	// effective end is at or before now.
	ListExpiredActive(ctx context.Context, now time.Time) ([]domain.Rental, error)

	// CompleteBatch transitions the given rentals to completed and
	// marks their stock as returned in a single all-or-nothing batch.
	CompleteBatch(ctx context.Context, rentals []domain.Rental, now time.Time) error
}
