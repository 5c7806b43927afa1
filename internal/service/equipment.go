package service

import (
	"context"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

type equipmentService struct {
	equipmentRepo repository.EquipmentRepository
}

func NewEquipmentService(equipmentRepo repository.EquipmentRepository) EquipmentService {
	return &equipmentService{
		equipmentRepo: equipmentRepo,
	}
}

func (s *equipmentService) AddEquipment(ctx context.Context, ownerID string, eq *domain.Equipment) error {
	if eq.Name == "" {
		return domain.NewValidationError("name", "name is required")
	}
	if eq.Price < 0 {
		return domain.NewValidationError("price", "price must be >= 0")
	}
	if eq.Stock < 0 {
		return domain.NewValidationError("stock", "stock must be >= 0")
	}
	eq.OwnerID = ownerID
	eq.ApplyDefaults()
	return s.equipmentRepo.Create(ctx, eq)
}

func (s *equipmentService) ListEquipment(ctx context.Context) ([]domain.Equipment, error) {
	return s.equipmentRepo.List(ctx)
}

func (s *equipmentService) UpdateEquipment(ctx context.Context, callerID string, eq *domain.Equipment) (*domain.Equipment, error) {
	existing, err := s.equipmentRepo.GetByID(ctx, eq.ID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != callerID {
		return nil, domain.ErrForbidden
	}
	if eq.Name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if eq.Price < 0 {
		return nil, domain.NewValidationError("price", "price must be >= 0")
	}
	if eq.Stock < 0 {
		return nil, domain.NewValidationError("stock", "stock must be >= 0")
	}

	existing.Name = eq.Name
	existing.Price = eq.Price
	existing.Stock = eq.Stock
	existing.Category = eq.Category
	existing.Detail = eq.Detail
	existing.Image = eq.Image
	existing.ApplyDefaults()

	if err := s.equipmentRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *equipmentService) DeleteEquipment(ctx context.Context, callerID, equipmentID string) error {
	existing, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return err
	}
	if existing.OwnerID != callerID {
		return domain.ErrForbidden
	}
	return s.equipmentRepo.Delete(ctx, equipmentID)
}
