package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
)

type rentalRepository struct {
	client *firestore.Client
}

func NewRentalRepository(client *firestore.Client) repository.RentalRepository {
	return &rentalRepository{client: client}
}

func (r *rentalRepository) col() *firestore.CollectionRef {
	return r.client.Collection(rentalCollection)
}

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	logger.StoreCall("Create", rentalCollection)
	ref := r.col().NewDoc()
	rental.ID = ref.ID
	now := time.Now().UTC()
	rental.CreatedAt = now
	rental.UpdatedAt = now
	_, err := ref.Set(ctx, rental)
	logger.StoreResult("Create", err, "id", rental.ID)
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rentalFromSnapshot(snap)
}

func (r *rentalRepository) ListByParticipant(ctx context.Context, userID string, filter repository.RentalFilter) ([]domain.Rental, error) {
	// A document store has no OR query across fields here, so the two
	// role queries are merged and de-duplicated.
	seen := make(map[string]bool)
	var out []domain.Rental
	for _, field := range []string{"renterId", "ownerId"} {
		iter := r.col().Where(field, "==", userID).Documents(ctx)
		rentals, err := drainRentals(iter)
		if err != nil {
			return nil, err
		}
		for _, rental := range rentals {
			if seen[rental.ID] {
				continue
			}
			seen[rental.ID] = true
			if filter.MinPrice != nil && rental.TotalPrice < *filter.MinPrice {
				continue
			}
			if filter.MaxPrice != nil && rental.TotalPrice > *filter.MaxPrice {
				continue
			}
			out = append(out, rental)
		}
	}
	return out, nil
}

func (r *rentalRepository) Update(ctx context.Context, rental *domain.Rental) error {
	ref := r.col().Doc(rental.ID)
	rental.UpdatedAt = time.Now().UTC()
	// A bare Set would upsert and could resurrect a document deleted by
	// a concurrent cancel, so the replace is guarded by an existence
	// read in the same transaction.
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrNotFound
			}
			return err
		}
		return tx.Set(ref, rental)
	})
}

func (r *rentalRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

func (r *rentalRepository) ApproveReservingStock(ctx context.Context, rental *domain.Rental) error {
	eqRef := r.client.Collection(equipmentCollection).Doc(rental.EquipmentID)
	rentalRef := r.col().Doc(rental.ID)
	rental.UpdatedAt = time.Now().UTC()

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		rentalSnap, err := tx.Get(rentalRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrNotFound
			}
			return err
		}
		// The caller's read happened outside the transaction; a stale
		// approval must not reserve stock a second time.
		storedStatus, err := rentalSnap.DataAt("status")
		if err != nil {
			return err
		}
		if s, _ := storedStatus.(string); s != string(domain.RentalStatusRequested) {
			return domain.ErrConflict
		}

		eqSnap, err := tx.Get(eqRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrNotFound
			}
			return err
		}
		raw, err := eqSnap.DataAt("stock")
		if err != nil {
			return err
		}
		current, err := stockValue(raw)
		if err != nil {
			return err
		}
		if current < rental.Quantity {
			return domain.ErrInsufficientStock
		}
		if err := tx.Update(eqRef, []firestore.Update{
			{Path: "stock", Value: firestore.Increment(-rental.Quantity)},
			{Path: "updatedAt", Value: time.Now().UTC()},
		}); err != nil {
			return err
		}
		return tx.Set(rentalRef, rental)
	})
}

func (r *rentalRepository) MarkCompleted(ctx context.Context, id string) (bool, error) {
	ref := r.col().Doc(id)
	var shouldReturn bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrNotFound
			}
			return err
		}
		rental, err := rentalFromSnapshot(snap)
		if err != nil {
			return err
		}
		switch rental.Status {
		case domain.RentalStatusActive, domain.RentalStatusReturning:
		default:
			return domain.ErrConflict
		}
		shouldReturn = !rental.StockReturned
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(domain.RentalStatusCompleted)},
			{Path: "stockReturned", Value: true},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
	return shouldReturn, err
}

func (r *rentalRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]domain.Rental, error) {
	// The effective end lives in one of two fields depending on the
	// flow, so the end comparison happens in memory.
	iter := r.col().Where("status", "==", string(domain.RentalStatusActive)).Documents(ctx)
	active, err := drainRentals(iter)
	if err != nil {
		return nil, err
	}
	var expired []domain.Rental
	for _, rental := range active {
		end := rental.EffectiveEnd()
		if end != nil && !end.After(now) {
			expired = append(expired, rental)
		}
	}
	return expired, nil
}

func (r *rentalRepository) CompleteBatch(ctx context.Context, rentals []domain.Rental, now time.Time) error {
	if len(rentals) == 0 {
		return nil
	}
	batch := r.client.Batch()
	for _, rental := range rentals {
		batch.Update(r.col().Doc(rental.ID), []firestore.Update{
			{Path: "status", Value: string(domain.RentalStatusCompleted)},
			{Path: "stockReturned", Value: true},
			{Path: "updatedAt", Value: now},
		})
	}
	_, err := batch.Commit(ctx)
	return err
}

func drainRentals(iter *firestore.DocumentIterator) ([]domain.Rental, error) {
	defer iter.Stop()
	var out []domain.Rental
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		rental, err := rentalFromSnapshot(snap)
		if err != nil {
			logger.Warn("Skipping malformed rental document", "id", snap.Ref.ID, "error", err)
			continue
		}
		out = append(out, *rental)
	}
	return out, nil
}

func rentalFromSnapshot(snap *firestore.DocumentSnapshot) (*domain.Rental, error) {
	var rental domain.Rental
	if err := snap.DataTo(&rental); err != nil {
		return nil, err
	}
	rental.ID = snap.Ref.ID
	return &rental, nil
}
