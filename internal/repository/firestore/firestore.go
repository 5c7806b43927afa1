package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"

	"equiprent-backend/internal/repository"
)

const (
	equipmentCollection = "equipment"
	rentalCollection    = "rentals"
)

var (
	_ repository.EquipmentRepository = (*equipmentRepository)(nil)
	_ repository.RentalRepository    = (*rentalRepository)(nil)
)

type Store struct {
	client    *firestore.Client
	equipment repository.EquipmentRepository
	rentals   repository.RentalRepository
}

// NewStore builds the Firestore-backed repositories from an initialized
// Firebase app.
func NewStore(ctx context.Context, app *firebase.App) (*Store, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &Store{
		client:    client,
		equipment: NewEquipmentRepository(client),
		rentals:   NewRentalRepository(client),
	}, nil
}

func (s *Store) Equipment() repository.EquipmentRepository { return s.equipment }
func (s *Store) Rentals() repository.RentalRepository      { return s.rentals }

// Close releases the underlying Firestore client.
func (s *Store) Close() error {
	return s.client.Close()
}

// stockValue normalizes the stock counter read from a document. Older
// documents written by the previous backend carry it as a double.
func stockValue(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("stock has unexpected type %T", v)
	}
}
