package market

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aydjer/agrimarket/internal/apperrors"
	"github.com/aydjer/agrimarket/internal/models"
	"github.com/aydjer/agrimarket/internal/repository"
)

// Service covers the marketplace listings: lands, equipment and products,
// plus the equipment rental workflow. Mutations are ownership checked at
// the repository level (update/delete match on id and owner together).
type Service struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *Service {
	return &Service{storage: storage}
}

type LandParams struct {
	Title       string
	Description string
	AreaHa      decimal.Decimal
	Price       decimal.Decimal
	Location    string
}

func (s *Service) CreateLand(ctx context.Context, ownerID uuid.UUID, arg LandParams) (models.Land, error) {
	return s.storage.Land().Create(ctx, models.Land{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       arg.Title,
		Description: arg.Description,
		AreaHa:      arg.AreaHa,
		Price:       arg.Price,
		Location:    arg.Location,
	})
}

func (s *Service) GetLand(ctx context.Context, landID uuid.UUID) (models.Land, error) {
	return s.storage.Land().Get(ctx, landID)
}

func (s *Service) ListLands(ctx context.Context) ([]models.Land, error) {
	return s.storage.Land().List(ctx)
}

func (s *Service) ListOwnLands(ctx context.Context, ownerID uuid.UUID) ([]models.Land, error) {
	return s.storage.Land().ListByOwner(ctx, ownerID)
}

func (s *Service) UpdateLand(ctx context.Context, landID, ownerID uuid.UUID, arg repository.UpdateLandParams) (models.Land, error) {
	return s.storage.Land().Update(ctx, landID, ownerID, arg)
}

func (s *Service) DeleteLand(ctx context.Context, landID, ownerID uuid.UUID) error {
	return s.storage.Land().Delete(ctx, landID, ownerID)
}

type EquipmentParams struct {
	Title       string
	Description string
	DailyRate   decimal.Decimal
	Location    string
}

func (s *Service) CreateEquipment(ctx context.Context, ownerID uuid.UUID, arg EquipmentParams) (models.Equipment, error) {
	return s.storage.Equipment().Create(ctx, models.Equipment{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       arg.Title,
		Description: arg.Description,
		DailyRate:   arg.DailyRate,
		Location:    arg.Location,
	})
}

func (s *Service) GetEquipment(ctx context.Context, equipmentID uuid.UUID) (models.Equipment, error) {
	return s.storage.Equipment().Get(ctx, equipmentID)
}

func (s *Service) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	return s.storage.Equipment().List(ctx)
}

func (s *Service) ListOwnEquipment(ctx context.Context, ownerID uuid.UUID) ([]models.Equipment, error) {
	return s.storage.Equipment().ListByOwner(ctx, ownerID)
}

func (s *Service) UpdateEquipment(ctx context.Context, equipmentID, ownerID uuid.UUID, arg repository.UpdateEquipmentParams) (models.Equipment, error) {
	return s.storage.Equipment().Update(ctx, equipmentID, ownerID, arg)
}

func (s *Service) DeleteEquipment(ctx context.Context, equipmentID, ownerID uuid.UUID) error {
	return s.storage.Equipment().Delete(ctx, equipmentID, ownerID)
}

// RentEquipment books the equipment for [startsOn, endsOn]. Renting your
// own listing is rejected; overlapping confirmed rentals conflict. The
// daily rate is frozen into the rental row.
func (s *Service) RentEquipment(ctx context.Context, renterID, equipmentID uuid.UUID, startsOn, endsOn time.Time) (models.Rental, error) {
	var rental models.Rental

	if endsOn.Before(startsOn) {
		return rental, apperrors.BadRequest("Rental end date is before start date")
	}

	eq, err := s.storage.Equipment().Get(ctx, equipmentID)
	if err != nil {
		return rental, err
	}
	if eq.OwnerID == renterID {
		return rental, apperrors.BadRequest("Cannot rent own listing")
	}

	err = s.storage.InTx(ctx, func(tx repository.Storage) error {
		overlapping, err := tx.Rental().CountOverlapping(ctx, equipmentID, startsOn, endsOn)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return apperrors.ErrRentalConflict
		}

		rental, err = tx.Rental().Create(ctx, models.Rental{
			ID:          uuid.New(),
			EquipmentID: equipmentID,
			RenterID:    renterID,
			StartsOn:    startsOn,
			EndsOn:      endsOn,
			DailyRate:   eq.DailyRate,
			Status:      models.RentalConfirmed,
		})
		return err
	})
	if err != nil {
		return rental, err
	}

	return rental, nil
}

func (s *Service) ListOwnRentals(ctx context.Context, renterID uuid.UUID) ([]models.Rental, error) {
	return s.storage.Rental().ListByRenter(ctx, renterID)
}

// ListEquipmentRentals returns bookings of one listing for its owner
func (s *Service) ListEquipmentRentals(ctx context.Context, equipmentID, ownerID uuid.UUID) ([]models.Rental, error) {
	eq, err := s.storage.Equipment().Get(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if eq.OwnerID != ownerID {
		return nil, apperrors.ErrListingNotFound
	}

	rentals, err := s.storage.Rental().ListByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("error while listing rentals. Err: %w", err)
	}
	return rentals, nil
}

type ProductParams struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Quantity    int32
}

func (s *Service) CreateProduct(ctx context.Context, ownerID uuid.UUID, arg ProductParams) (models.Product, error) {
	return s.storage.Product().Create(ctx, models.Product{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       arg.Title,
		Description: arg.Description,
		Price:       arg.Price,
		Quantity:    arg.Quantity,
	})
}

func (s *Service) GetProduct(ctx context.Context, productID uuid.UUID) (models.Product, error) {
	return s.storage.Product().Get(ctx, productID)
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.storage.Product().List(ctx)
}

func (s *Service) ListOwnProducts(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	return s.storage.Product().ListByOwner(ctx, ownerID)
}

func (s *Service) UpdateProduct(ctx context.Context, productID, ownerID uuid.UUID, arg repository.UpdateProductParams) (models.Product, error) {
	return s.storage.Product().Update(ctx, productID, ownerID, arg)
}

func (s *Service) DeleteProduct(ctx context.Context, productID, ownerID uuid.UUID) error {
	return s.storage.Product().Delete(ctx, productID, ownerID)
}
