package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"equiprent-backend/internal/config"
	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
	"equiprent-backend/internal/service"
)

type mockRentalService struct {
	mock.Mock
}

func (m *mockRentalService) CreateRental(ctx context.Context, renterID string, in service.CreateRentalInput) (*domain.Rental, error) {
	args := m.Called(ctx, renterID, in)
	rental, _ := args.Get(0).(*domain.Rental)
	return rental, args.Error(1)
}

func (m *mockRentalService) ListRentals(ctx context.Context, userID string, filter repository.RentalFilter) ([]domain.Rental, error) {
	args := m.Called(ctx, userID, filter)
	rentals, _ := args.Get(0).([]domain.Rental)
	return rentals, args.Error(1)
}

func (m *mockRentalService) UpdateStatus(ctx context.Context, callerID, rentalID string, target domain.RentalStatus, payload service.StatusPayload) (*domain.Rental, error) {
	args := m.Called(ctx, callerID, rentalID, target, payload)
	rental, _ := args.Get(0).(*domain.Rental)
	return rental, args.Error(1)
}

func (m *mockRentalService) CancelRental(ctx context.Context, callerID, rentalID string) error {
	return m.Called(ctx, callerID, rentalID).Error(0)
}

func (m *mockRentalService) ExpireActiveRentals(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func TestExpireActiveRentalsJob(t *testing.T) {
	t.Run("InvokesService", func(t *testing.T) {
		svc := new(mockRentalService)
		svc.On("ExpireActiveRentals", mock.Anything, mock.AnythingOfType("time.Time")).Return(3, nil)

		runner := NewJobRunner(svc, &config.Config{})
		runner.ExpireActiveRentals()

		svc.AssertExpectations(t)
	})

	t.Run("SurvivesServiceError", func(t *testing.T) {
		svc := new(mockRentalService)
		svc.On("ExpireActiveRentals", mock.Anything, mock.AnythingOfType("time.Time")).
			Return(0, errors.New("store unavailable"))

		runner := NewJobRunner(svc, &config.Config{})
		runner.ExpireActiveRentals()

		svc.AssertExpectations(t)
	})

	t.Run("RecoversFromPanic", func(t *testing.T) {
		svc := new(mockRentalService)
		svc.On("ExpireActiveRentals", mock.Anything, mock.AnythingOfType("time.Time")).
			Panic("boom")

		runner := NewJobRunner(svc, &config.Config{})
		// Must not propagate the panic to the scheduler goroutine.
		runner.ExpireActiveRentals()
	})
}
