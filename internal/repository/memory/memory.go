// Package memory provides an in-process implementation of the
// repository interfaces. It backs local development (store.type:
// "memory") and the test suite, mirroring the atomicity guarantees the
// Firestore implementation gets from transactions and batched writes.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

type Store struct {
	mu        sync.Mutex
	equipment map[string]*domain.Equipment
	rentals   map[string]*domain.Rental
}

func NewStore() *Store {
	return &Store{
		equipment: make(map[string]*domain.Equipment),
		rentals:   make(map[string]*domain.Rental),
	}
}

func (s *Store) Equipment() repository.EquipmentRepository { return (*equipmentRepo)(s) }
func (s *Store) Rentals() repository.RentalRepository      { return (*rentalRepo)(s) }

type equipmentRepo Store

func (r *equipmentRepo) Create(ctx context.Context, eq *domain.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	eq.ID = uuid.NewString()
	now := time.Now().UTC()
	eq.CreatedAt = now
	eq.UpdatedAt = now
	cp := *eq
	r.equipment[eq.ID] = &cp
	return nil
}

func (r *equipmentRepo) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	eq, ok := r.equipment[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *eq
	return &cp, nil
}

func (r *equipmentRepo) List(ctx context.Context) ([]domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Equipment, 0, len(r.equipment))
	for _, eq := range r.equipment {
		cp := *eq
		cp.ApplyDefaults()
		out = append(out, cp)
	}
	return out, nil
}

func (r *equipmentRepo) Update(ctx context.Context, eq *domain.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.equipment[eq.ID]; !ok {
		return domain.ErrNotFound
	}
	eq.UpdatedAt = time.Now().UTC()
	cp := *eq
	r.equipment[eq.ID] = &cp
	return nil
}

func (r *equipmentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.equipment, id)
	return nil
}

func (r *equipmentRepo) AdjustStock(ctx context.Context, id string, delta int64, min int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	eq, ok := r.equipment[id]
	if !ok {
		return domain.ErrNotFound
	}
	if delta < 0 && eq.Stock+delta < min {
		return domain.ErrInsufficientStock
	}
	eq.Stock += delta
	eq.UpdatedAt = time.Now().UTC()
	return nil
}

type rentalRepo Store

func (r *rentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rental.ID = uuid.NewString()
	now := time.Now().UTC()
	rental.CreatedAt = now
	rental.UpdatedAt = now
	cp := *rental
	r.rentals[rental.ID] = &cp
	return nil
}

func (r *rentalRepo) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rental, ok := r.rentals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rental
	return &cp, nil
}

func (r *rentalRepo) ListByParticipant(ctx context.Context, userID string, filter repository.RentalFilter) ([]domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Rental
	for _, rental := range r.rentals {
		if rental.RenterID != userID && rental.OwnerID != userID {
			continue
		}
		if filter.MinPrice != nil && rental.TotalPrice < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && rental.TotalPrice > *filter.MaxPrice {
			continue
		}
		cp := *rental
		out = append(out, cp)
	}
	return out, nil
}

func (r *rentalRepo) Update(ctx context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rentals[rental.ID]; !ok {
		return domain.ErrNotFound
	}
	rental.UpdatedAt = time.Now().UTC()
	cp := *rental
	r.rentals[rental.ID] = &cp
	return nil
}

func (r *rentalRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rentals, id)
	return nil
}

func (r *rentalRepo) ApproveReservingStock(ctx context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	eq, ok := r.equipment[rental.EquipmentID]
	if !ok {
		return domain.ErrNotFound
	}
	stored, ok := r.rentals[rental.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// The caller's read happened outside the lock; a stale approval must
	// not reserve stock a second time.
	if stored.Status != domain.RentalStatusRequested {
		return domain.ErrConflict
	}
	if eq.Stock < rental.Quantity {
		return domain.ErrInsufficientStock
	}
	now := time.Now().UTC()
	eq.Stock -= rental.Quantity
	eq.UpdatedAt = now
	rental.UpdatedAt = now
	cp := *rental
	r.rentals[rental.ID] = &cp
	return nil
}

func (r *rentalRepo) MarkCompleted(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rentals[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	switch stored.Status {
	case domain.RentalStatusActive, domain.RentalStatusReturning:
	default:
		return false, domain.ErrConflict
	}
	shouldReturn := !stored.StockReturned
	stored.Status = domain.RentalStatusCompleted
	stored.StockReturned = true
	stored.UpdatedAt = time.Now().UTC()
	return shouldReturn, nil
}

func (r *rentalRepo) ListExpiredActive(ctx context.Context, now time.Time) ([]domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Rental
	for _, rental := range r.rentals {
		if rental.Status != domain.RentalStatusActive {
			continue
		}
		end := rental.EffectiveEnd()
		if end != nil && !end.After(now) {
			cp := *rental
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *rentalRepo) CompleteBatch(ctx context.Context, rentals []domain.Rental, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// All-or-nothing: verify every document first.
	for _, rental := range rentals {
		if _, ok := r.rentals[rental.ID]; !ok {
			return domain.ErrNotFound
		}
	}
	for _, rental := range rentals {
		stored := r.rentals[rental.ID]
		stored.Status = domain.RentalStatusCompleted
		stored.StockReturned = true
		stored.UpdatedAt = now
	}
	return nil
}
