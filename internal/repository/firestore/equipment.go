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

type equipmentRepository struct {
	client *firestore.Client
}

func NewEquipmentRepository(client *firestore.Client) repository.EquipmentRepository {
	return &equipmentRepository{client: client}
}

func (r *equipmentRepository) col() *firestore.CollectionRef {
	return r.client.Collection(equipmentCollection)
}

func (r *equipmentRepository) Create(ctx context.Context, eq *domain.Equipment) error {
	logger.StoreCall("Create", equipmentCollection)
	ref := r.col().NewDoc()
	eq.ID = ref.ID
	now := time.Now().UTC()
	eq.CreatedAt = now
	eq.UpdatedAt = now
	_, err := ref.Set(ctx, eq)
	logger.StoreResult("Create", err, "id", eq.ID)
	return err
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var eq domain.Equipment
	if err := snap.DataTo(&eq); err != nil {
		return nil, err
	}
	eq.ID = snap.Ref.ID
	return &eq, nil
}

func (r *equipmentRepository) List(ctx context.Context) ([]domain.Equipment, error) {
	iter := r.col().Documents(ctx)
	defer iter.Stop()

	var out []domain.Equipment
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var eq domain.Equipment
		if err := snap.DataTo(&eq); err != nil {
			logger.Warn("Skipping malformed equipment document", "id", snap.Ref.ID, "error", err)
			continue
		}
		eq.ID = snap.Ref.ID
		eq.ApplyDefaults()
		out = append(out, eq)
	}
	return out, nil
}

func (r *equipmentRepository) Update(ctx context.Context, eq *domain.Equipment) error {
	ref := r.col().Doc(eq.ID)
	eq.UpdatedAt = time.Now().UTC()
	// A bare Set would upsert and resurrect a deleted document, so the
	// replace is guarded by an existence read in the same transaction.
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrNotFound
			}
			return err
		}
		return tx.Set(ref, eq)
	})
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

func (r *equipmentRepository) AdjustStock(ctx context.Context, id string, delta int64, min int64) error {
	ref := r.col().Doc(id)

	// Pure increments never violate the floor, so the server-side
	// atomic increment is enough.
	if delta >= 0 {
		_, err := ref.Update(ctx, []firestore.Update{
			{Path: "stock", Value: firestore.Increment(delta)},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
		if status.Code(err) == codes.NotFound {
			return domain.ErrNotFound
		}
		return err
	}

	// Decrements read, check the floor, and write inside one transaction.
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrNotFound
			}
			return err
		}
		raw, err := snap.DataAt("stock")
		if err != nil {
			return err
		}
		current, err := stockValue(raw)
		if err != nil {
			return err
		}
		if current+delta < min {
			return domain.ErrInsufficientStock
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "stock", Value: firestore.Increment(delta)},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
}
