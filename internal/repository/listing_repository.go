package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gatewaysandbox/internal/model"
)

// ListingRepository persists listings of one kind. Reads exclude soft-deleted
// rows and attach the owning user.
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	Save(ctx context.Context, listing *model.Listing) error
	Delete(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id uint) (*model.Listing, error)
	// FindOwned loads id only if it was created by ownerID. Inside a
	// transaction the row is locked until commit.
	FindOwned(ctx context.Context, id, ownerID uint) (*model.Listing, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Listing, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ListingRepository) error) error
}

type listingRepository struct {
	db    *gorm.DB
	table string
	inTx  bool
}

// NewListingRepository creates a repository for the given kind.
func NewListingRepository(db *gorm.DB, kind model.ListingKind) ListingRepository {
	return &listingRepository{db: db, table: kind.Table()}
}

func (r *listingRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

// Create inserts a listing.
func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	if err := r.scoped(ctx).Create(listing).Error; err != nil {
		return err
	}
	return r.attachOwners(ctx, []*model.Listing{listing})
}

// Save writes every column of an existing listing.
func (r *listingRepository) Save(ctx context.Context, listing *model.Listing) error {
	return r.scoped(ctx).Save(listing).Error
}

// Delete soft-deletes a listing.
func (r *listingRepository) Delete(ctx context.Context, listing *model.Listing) error {
	return r.scoped(ctx).Delete(listing).Error
}

// FindByID loads a listing regardless of owner.
func (r *listingRepository) FindByID(ctx context.Context, id uint) (*model.Listing, error) {
	var listing model.Listing
	if err := r.scoped(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	if err := r.attachOwners(ctx, []*model.Listing{&listing}); err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindOwned loads a listing filtered by id and owner in one predicate.
func (r *listingRepository) FindOwned(ctx context.Context, id, ownerID uint) (*model.Listing, error) {
	q := r.scoped(ctx).Where("id = ? AND created_by = ?", id, ownerID)
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var listing model.Listing
	if err := q.First(&listing).Error; err != nil {
		return nil, err
	}
	if err := r.attachOwners(ctx, []*model.Listing{&listing}); err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListByOwner returns the owner's listings in insertion order.
func (r *listingRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Listing, error) {
	listings := make([]model.Listing, 0)
	if err := r.scoped(ctx).Where("created_by = ?", ownerID).Order("id").Find(&listings).Error; err != nil {
		return nil, err
	}
	ptrs := make([]*model.Listing, len(listings))
	for i := range listings {
		ptrs[i] = &listings[i]
	}
	if err := r.attachOwners(ctx, ptrs); err != nil {
		return nil, err
	}
	return listings, nil
}

// WithTransaction executes fn within a database transaction.
func (r *listingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ListingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &listingRepository{db: tx, table: r.table, inTx: true}
		return fn(ctx, txRepo)
	})
}

// attachOwners loads the creating users of listings with a single query.
func (r *listingRepository) attachOwners(ctx context.Context, listings []*model.Listing) error {
	seen := make(map[uint]struct{})
	ids := make([]uint, 0, len(listings))
	for _, l := range listings {
		if l.CreatedBy == nil {
			continue
		}
		if _, ok := seen[*l.CreatedBy]; ok {
			continue
		}
		seen[*l.CreatedBy] = struct{}{}
		ids = append(ids, *l.CreatedBy)
	}
	if len(ids) == 0 {
		return nil
	}

	var users []model.User
	if err := r.db.WithContext(ctx).Omit("password").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return err
	}
	byID := make(map[uint]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for _, l := range listings {
		if l.CreatedBy != nil {
			l.Owner = byID[*l.CreatedBy]
		}
	}
	return nil
}
