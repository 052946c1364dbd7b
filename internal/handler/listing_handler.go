package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"gatewaysandbox/internal/model"
	"gatewaysandbox/internal/service"
)

// ListingHandler serves the CRUD routes of one listing kind.
type ListingHandler struct {
	svc service.ListingService
}

// NewListingHandler creates a handler for svc's kind.
func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

// CreateListingRequest is the body of a create call.
type CreateListingRequest struct {
	Title            string           `json:"title" validate:"required"`
	IsFeatured       bool             `json:"isFeatured"`
	ProductImage     []string         `json:"productImage" validate:"omitempty,dive,url"`
	Price            *decimal.Decimal `json:"price" validate:"required,gte=0"`
	ShortDescription string           `json:"shortDescription"`
	Description      string           `json:"description"`
	ProductURL       string           `json:"productUrl" validate:"omitempty,url"`
	Category         []string         `json:"category"`
	Tags             []string         `json:"tags"`
}

func (r *CreateListingRequest) toModel() *model.Listing {
	return &model.Listing{
		Title:            r.Title,
		IsFeatured:       r.IsFeatured,
		ProductImage:     datatypes.JSONSlice[string](r.ProductImage),
		Price:            *r.Price,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		ProductURL:       r.ProductURL,
		Category:         datatypes.JSONSlice[string](r.Category),
		Tags:             datatypes.JSONSlice[string](r.Tags),
	}
}

// UpdateListingRequest is the body of a partial update. Absent and null
// fields are left untouched.
type UpdateListingRequest struct {
	Title            *string          `json:"title" validate:"omitempty,min=1"`
	IsFeatured       *bool            `json:"isFeatured"`
	ProductImage     *[]string        `json:"productImage" validate:"omitempty,dive,url"`
	Price            *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	ShortDescription *string          `json:"shortDescription"`
	Description      *string          `json:"description"`
	ProductURL       *string          `json:"productUrl" validate:"omitempty,url"`
	Category         *[]string        `json:"category"`
	Tags             *[]string        `json:"tags"`
}

func (r *UpdateListingRequest) toPatch() model.ListingPatch {
	return model.ListingPatch{
		Title:            r.Title,
		IsFeatured:       r.IsFeatured,
		ProductImage:     r.ProductImage,
		Price:            r.Price,
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		ProductURL:       r.ProductURL,
		Category:         r.Category,
		Tags:             r.Tags,
	}
}

// Create stores a listing owned by the caller.
func (h *ListingHandler) Create(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req CreateListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.svc.Create(c.Request().Context(), id.ID, req.toModel())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, created)
}

// List returns the caller's listings.
func (h *ListingHandler) List(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	listings, err := h.svc.ListByOwner(c.Request().Context(), id.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, listings)
}

// Get returns one listing by id.
func (h *ListingHandler) Get(c echo.Context) error {
	listingID, err := pathID(c)
	if err != nil {
		return err
	}
	listing, err := h.svc.GetByID(c.Request().Context(), listingID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, listing)
}

// Update applies a partial update to one of the caller's listings.
func (h *ListingHandler) Update(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	listingID, err := pathID(c)
	if err != nil {
		return err
	}
	var req UpdateListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.svc.Update(c.Request().Context(), listingID, id.ID, req.toPatch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated)
}

// Delete soft-deletes one of the caller's listings.
func (h *ListingHandler) Delete(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	listingID, err := pathID(c)
	if err != nil {
		return err
	}

	res, err := h.svc.Delete(c.Request().Context(), listingID, id.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SuccessResponse{Status: statusSuccess, Message: res.Message})
}
