package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "gatewaysandbox/internal/errors"
	"gatewaysandbox/internal/model"
	"gatewaysandbox/internal/repository"
)

const (
	msgNoRecord     = "No record found with that ID"
	msgRecordDelete = "Record deleted successfully"
)

// DeleteResult confirms a delete without returning the record.
type DeleteResult struct {
	Message string `json:"message"`
}

// ListingService is the owned CRUD surface for one listing kind. Mutations
// are filtered by owner; a listing owned by someone else is reported as not
// found.
type ListingService interface {
	Kind() model.ListingKind
	Create(ctx context.Context, ownerID uint, listing *model.Listing) (*model.Listing, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Listing, error)
	GetByID(ctx context.Context, id uint) (*model.Listing, error)
	Update(ctx context.Context, id, ownerID uint, patch model.ListingPatch) (*model.Listing, error)
	Delete(ctx context.Context, id, ownerID uint) (*DeleteResult, error)
}

type listingService struct {
	kind model.ListingKind
	repo repository.ListingRepository
}

// NewListingService creates a listing service for kind.
func NewListingService(kind model.ListingKind, repo repository.ListingRepository) ListingService {
	return &listingService{kind: kind, repo: repo}
}

func (s *listingService) Kind() model.ListingKind {
	return s.kind
}

// Create stores listing as given, stamped with its owner.
func (s *listingService) Create(ctx context.Context, ownerID uint, listing *model.Listing) (*model.Listing, error) {
	listing.ID = 0
	listing.CreatedBy = &ownerID
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, apperrors.Internal(err)
	}
	return listing, nil
}

// ListByOwner never returns nil; an owner without listings gets an empty slice.
func (s *listingService) ListByOwner(ctx context.Context, ownerID uint) ([]model.Listing, error) {
	listings, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if listings == nil {
		listings = []model.Listing{}
	}
	return listings, nil
}

// GetByID does not check ownership.
func (s *listingService) GetByID(ctx context.Context, id uint) (*model.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return listing, nil
}

// Update applies patch to an owned listing. The owned row is locked for the
// duration of the read-modify-write.
func (s *listingService) Update(ctx context.Context, id, ownerID uint, patch model.ListingPatch) (*model.Listing, error) {
	var updated *model.Listing
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.ListingRepository) error {
		listing, err := tx.FindOwned(ctx, id, ownerID)
		if err != nil {
			return mapNotFound(err)
		}
		if !patch.IsEmpty() {
			patch.Apply(listing)
			if err := tx.Save(ctx, listing); err != nil {
				return apperrors.Internal(err)
			}
		}
		updated = listing
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return updated, nil
}

// Delete soft-deletes an owned listing.
func (s *listingService) Delete(ctx context.Context, id, ownerID uint) (*DeleteResult, error) {
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.ListingRepository) error {
		listing, err := tx.FindOwned(ctx, id, ownerID)
		if err != nil {
			return mapNotFound(err)
		}
		if err := tx.Delete(ctx, listing); err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &DeleteResult{Message: msgRecordDelete}, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(msgNoRecord)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Internal(err)
}
