package service

import (
	"context"
	"fmt"
	"time"

	"equiprent-backend/internal/config"
	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
	"equiprent-backend/internal/utils"
)

type callerRole int

const (
	roleOwner callerRole = iota
	roleRenter
)

// transitionRule gates a target status: which statuses may enter it and
// which participant is allowed to drive it.
type transitionRule struct {
	from map[domain.RentalStatus]bool
	role callerRole
}

// The staged lifecycle graph. The sweeper's active→completed edge is
// internal and bypasses this table.
var transitionRules = map[domain.RentalStatus]transitionRule{
	domain.RentalStatusApproved: {
		from: map[domain.RentalStatus]bool{domain.RentalStatusRequested: true},
		role: roleOwner,
	},
	domain.RentalStatusRejected: {
		from: map[domain.RentalStatus]bool{domain.RentalStatusRequested: true},
		role: roleOwner,
	},
	domain.RentalStatusShipped: {
		from: map[domain.RentalStatus]bool{domain.RentalStatusApproved: true},
		role: roleOwner,
	},
	domain.RentalStatusActive: {
		from: map[domain.RentalStatus]bool{domain.RentalStatusShipped: true},
		role: roleRenter,
	},
	domain.RentalStatusReturning: {
		from: map[domain.RentalStatus]bool{domain.RentalStatusActive: true},
		role: roleRenter,
	},
	domain.RentalStatusCompleted: {
		from: map[domain.RentalStatus]bool{domain.RentalStatusReturning: true},
		role: roleOwner,
	},
}

type rentalService struct {
	rentalRepo    repository.RentalRepository
	equipmentRepo repository.EquipmentRepository
	notifier      Notifier
	flow          string
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	equipmentRepo repository.EquipmentRepository,
	notifier Notifier,
	flow string,
) RentalService {
	if flow == "" {
		flow = config.FlowStaged
	}
	return &rentalService{
		rentalRepo:    rentalRepo,
		equipmentRepo: equipmentRepo,
		notifier:      notifier,
		flow:          flow,
	}
}

func (s *rentalService) CreateRental(ctx context.Context, renterID string, in CreateRentalInput) (*domain.Rental, error) {
	if in.EquipmentID == "" {
		return nil, domain.NewValidationError("equipmentId", "equipmentId is required")
	}
	if in.Quantity < 1 {
		return nil, domain.NewValidationError("quantity", "quantity must be at least 1")
	}

	eq, err := s.equipmentRepo.GetByID(ctx, in.EquipmentID)
	if err != nil {
		return nil, err
	}
	if eq.OwnerID == renterID {
		return nil, domain.NewValidationError("equipmentId", "cannot rent your own equipment")
	}

	if s.flow == config.FlowInstant {
		return s.createInstant(ctx, renterID, eq, in)
	}
	return s.createStaged(ctx, renterID, eq, in)
}

func (s *rentalService) createStaged(ctx context.Context, renterID string, eq *domain.Equipment, in CreateRentalInput) (*domain.Rental, error) {
	if in.DurationDays < 1 {
		return nil, domain.NewValidationError("durationDays", "duration must be at least 1 day")
	}
	// Advisory check only; the binding check-and-decrement happens at
	// approval time.
	if eq.Stock < in.Quantity {
		return nil, domain.ErrInsufficientStock
	}

	total, err := utils.CalculateRentalCost(eq.Price, in.DurationDays, in.Quantity)
	if err != nil {
		return nil, domain.NewValidationError("", err.Error())
	}

	rental := &domain.Rental{
		RenterID:     renterID,
		OwnerID:      eq.OwnerID,
		EquipmentID:  eq.ID,
		Name:         eq.Name,
		TotalPrice:   total,
		Quantity:     in.Quantity,
		DurationDays: in.DurationDays,
		Status:       domain.RentalStatusRequested,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	s.notify(ctx, eq.OwnerID, "New rental request",
		fmt.Sprintf("%s requested for %d day(s), quantity %d", eq.Name, in.DurationDays, in.Quantity),
		rental, "RENTAL_REQUEST")
	return rental, nil
}

func (s *rentalService) createInstant(ctx context.Context, renterID string, eq *domain.Equipment, in CreateRentalInput) (*domain.Rental, error) {
	if in.StartDate == nil || in.EndDate == nil {
		return nil, domain.NewValidationError("startDate", "startDate and endDate are required")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if in.StartDate.Before(today) {
		return nil, domain.NewValidationError("startDate", "start date cannot be in the past")
	}
	days, err := utils.RentalDays(*in.StartDate, *in.EndDate)
	if err != nil {
		return nil, domain.NewValidationError("endDate", err.Error())
	}
	total, err := utils.CalculateRentalCost(eq.Price, days, in.Quantity)
	if err != nil {
		return nil, domain.NewValidationError("", err.Error())
	}

	// Stock is committed eagerly in this flow.
	if err := s.equipmentRepo.AdjustStock(ctx, eq.ID, -in.Quantity, 0); err != nil {
		return nil, err
	}

	rental := &domain.Rental{
		RenterID:     renterID,
		OwnerID:      eq.OwnerID,
		EquipmentID:  eq.ID,
		Name:         eq.Name,
		TotalPrice:   total,
		Quantity:     in.Quantity,
		DurationDays: days,
		Status:       domain.RentalStatusActive,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		// Undo the reservation so the stock is not stranded.
		if rbErr := s.equipmentRepo.AdjustStock(ctx, eq.ID, in.Quantity, 0); rbErr != nil {
			logger.Error("Failed to release stock after create failure",
				"equipment_id", eq.ID, "quantity", in.Quantity, "error", rbErr)
		}
		return nil, err
	}

	s.notify(ctx, eq.OwnerID, "New rental",
		fmt.Sprintf("%s rented until %s, quantity %d", eq.Name, in.EndDate.Format("2006-01-02"), in.Quantity),
		rental, "RENTAL_CREATED")
	return rental, nil
}

func (s *rentalService) ListRentals(ctx context.Context, userID string, filter repository.RentalFilter) ([]domain.Rental, error) {
	rentals, err := s.rentalRepo.ListByParticipant(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	// Enrich with the current equipment image and category. A missing
	// equipment document is not an error for listing.
	for i := range rentals {
		eq, err := s.equipmentRepo.GetByID(ctx, rentals[i].EquipmentID)
		if err != nil {
			rentals[i].Category = domain.CategoryOther
			continue
		}
		rentals[i].Image = eq.Image
		rentals[i].Category = eq.Category
	}
	return rentals, nil
}

func (s *rentalService) UpdateStatus(ctx context.Context, callerID, rentalID string, target domain.RentalStatus, payload StatusPayload) (*domain.Rental, error) {
	if s.flow == config.FlowInstant {
		return nil, domain.NewValidationError("status", "status transitions are not available in this deployment")
	}

	rule, ok := transitionRules[target]
	if !ok {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown target status %q", target))
	}

	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rule.from[rental.Status] {
		return nil, domain.NewValidationError("status",
			fmt.Sprintf("cannot transition from %s to %s", rental.Status, target))
	}
	switch rule.role {
	case roleOwner:
		if rental.OwnerID != callerID {
			return nil, domain.ErrForbidden
		}
	case roleRenter:
		if rental.RenterID != callerID {
			return nil, domain.ErrForbidden
		}
	}

	switch target {
	case domain.RentalStatusApproved:
		rental.Status = domain.RentalStatusApproved
		// Status write and stock decrement commit as one unit; a failed
		// stock check leaves both documents untouched.
		if err := s.rentalRepo.ApproveReservingStock(ctx, rental); err != nil {
			return nil, err
		}
		s.notify(ctx, rental.RenterID, "Rental approved",
			fmt.Sprintf("Your rental request for %s was approved", rental.Name),
			rental, "RENTAL_APPROVED")

	case domain.RentalStatusRejected:
		rental.Status = domain.RentalStatusRejected
		if err := s.rentalRepo.Update(ctx, rental); err != nil {
			return nil, err
		}
		s.notify(ctx, rental.RenterID, "Rental rejected",
			fmt.Sprintf("Your rental request for %s was rejected", rental.Name),
			rental, "RENTAL_REJECTED")

	case domain.RentalStatusShipped:
		if payload.TrackingNumber == "" {
			return nil, domain.NewValidationError("trackingNumber", "tracking number is required")
		}
		rental.Status = domain.RentalStatusShipped
		rental.TrackingNumber = payload.TrackingNumber
		if err := s.rentalRepo.Update(ctx, rental); err != nil {
			return nil, err
		}
		s.notify(ctx, rental.RenterID, "Rental shipped",
			fmt.Sprintf("%s was shipped, tracking %s", rental.Name, payload.TrackingNumber),
			rental, "RENTAL_SHIPPED")

	case domain.RentalStatusActive:
		now := time.Now().UTC()
		end := now.Add(time.Duration(rental.DurationDays) * 24 * time.Hour)
		rental.Status = domain.RentalStatusActive
		rental.ActualStartDate = &now
		rental.ActualEndDate = &end
		if err := s.rentalRepo.Update(ctx, rental); err != nil {
			return nil, err
		}
		s.notify(ctx, rental.OwnerID, "Rental activated",
			fmt.Sprintf("%s was received by the renter, due back %s", rental.Name, end.Format("2006-01-02")),
			rental, "RENTAL_ACTIVATED")

	case domain.RentalStatusReturning:
		if payload.ReturnTrackingNumber == "" {
			return nil, domain.NewValidationError("returnTrackingNumber", "return tracking number is required")
		}
		rental.Status = domain.RentalStatusReturning
		rental.ReturnTrackingNumber = payload.ReturnTrackingNumber
		if err := s.rentalRepo.Update(ctx, rental); err != nil {
			return nil, err
		}
		s.notify(ctx, rental.OwnerID, "Rental returning",
			fmt.Sprintf("%s is on its way back, tracking %s", rental.Name, payload.ReturnTrackingNumber),
			rental, "RENTAL_RETURNING")

	case domain.RentalStatusCompleted:
		if err := s.completeRental(ctx, rental); err != nil {
			return nil, err
		}
		s.notify(ctx, rental.RenterID, "Rental completed",
			fmt.Sprintf("Your rental of %s is complete", rental.Name),
			rental, "RENTAL_COMPLETED")
	}

	return rental, nil
}

// completeRental marks the rental completed and returns the reserved
// quantity to the equipment's stock exactly once. The store decides
// atomically which caller owns the return, so racing completions
// cannot both increment.
func (s *rentalService) completeRental(ctx context.Context, rental *domain.Rental) error {
	shouldReturn, err := s.rentalRepo.MarkCompleted(ctx, rental.ID)
	if err != nil {
		return err
	}
	rental.Status = domain.RentalStatusCompleted
	rental.StockReturned = true
	if shouldReturn {
		if err := s.equipmentRepo.AdjustStock(ctx, rental.EquipmentID, rental.Quantity, 0); err != nil {
			// The rental is already completed; the increment is retried
			// by no one, so record the discrepancy loudly.
			logger.Error("Failed to return stock on completion",
				"rental_id", rental.ID, "equipment_id", rental.EquipmentID,
				"quantity", rental.Quantity, "error", err)
		}
	}
	return nil
}

func (s *rentalService) CancelRental(ctx context.Context, callerID, rentalID string) error {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return err
	}
	if rental.RenterID != callerID {
		return domain.ErrForbidden
	}

	releaseStock := false
	switch s.flow {
	case config.FlowInstant:
		// The reduced flow reserves stock at creation.
		if rental.Status != domain.RentalStatusActive {
			return domain.NewValidationError("status", "only active rentals can be cancelled")
		}
		releaseStock = true
	default:
		switch rental.Status {
		case domain.RentalStatusRequested:
			// Nothing was reserved yet.
		case domain.RentalStatusApproved:
			releaseStock = true
		default:
			return domain.NewValidationError("status",
				fmt.Sprintf("a %s rental can no longer be cancelled", rental.Status))
		}
	}

	if releaseStock {
		if err := s.equipmentRepo.AdjustStock(ctx, rental.EquipmentID, rental.Quantity, 0); err != nil {
			return err
		}
	}
	if err := s.rentalRepo.Delete(ctx, rentalID); err != nil {
		return err
	}

	s.notify(ctx, rental.OwnerID, "Rental cancelled",
		fmt.Sprintf("The rental request for %s was cancelled by the renter", rental.Name),
		rental, "RENTAL_CANCELLED")
	return nil
}

func (s *rentalService) ExpireActiveRentals(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.rentalRepo.ListExpiredActive(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	// Sum the quantity to return per equipment before touching the
	// store, counting each rental at most once.
	returns := make(map[string]int64)
	for _, rental := range expired {
		if rental.StockReturned {
			continue
		}
		returns[rental.EquipmentID] += rental.Quantity
	}

	if err := s.rentalRepo.CompleteBatch(ctx, expired, now); err != nil {
		return 0, err
	}

	for equipmentID, quantity := range returns {
		if err := s.equipmentRepo.AdjustStock(ctx, equipmentID, quantity, 0); err != nil {
			// The completion batch already committed; log and leave the
			// discrepancy for operators rather than failing the sweep.
			logger.Error("Failed to return stock for expired rentals",
				"equipment_id", equipmentID, "quantity", quantity, "error", err)
		}
	}

	for i := range expired {
		s.notify(ctx, expired[i].RenterID, "Rental completed",
			fmt.Sprintf("Your rental of %s reached its end date and was completed", expired[i].Name),
			&expired[i], "RENTAL_EXPIRED")
	}
	return len(expired), nil
}

func (s *rentalService) notify(ctx context.Context, userID, title, message string, rental *domain.Rental, kind string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":      kind,
			"rental_id": rental.ID,
		},
		CreatedAt: time.Now().UTC(),
	})
}
