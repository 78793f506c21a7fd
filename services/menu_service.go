package services

import (
	"context"
	"errors"
	"fmt"
	"frietkot_server/lib"
	"frietkot_server/structs"
	"frietkot_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
)

// MenuStore is the persistence the menu service needs.
type MenuStore interface {
	ListCategories(ctx context.Context) ([]tables.Category, error)
	GetCategory(ctx context.Context, id int64) (*tables.Category, error)
	CreateCategory(ctx context.Context, name string) (*tables.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*tables.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, categoryName string) ([]tables.Product, error)
	GetProduct(ctx context.Context, id int64) (*tables.Product, error)
	CreateProduct(ctx context.Context, product *tables.Product) (*tables.Product, error)
	UpdateProduct(ctx context.Context, product *tables.Product) (*tables.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// ImageManager uploads and deletes product images.
type ImageManager interface {
	UploadAndOptimize(ctx context.Context, data []byte, originalName, destination string) (string, error)
	Delete(ctx context.Context, url, destination string) bool
}

// UploadedImage is an image file received with a product form.
type UploadedImage struct {
	Filename string
	Data     []byte
}

// ProductInput is the validated content of a product create or edit form.
type ProductInput struct {
	Name        string                 `validate:"required,max=200"`
	Price       decimal.Decimal        `validate:"-"`
	Description string                 `validate:"max=2000"`
	CategoryID  int64                  `validate:"gt=0"`
	Options     structs.ProductOptions `validate:"-"`
	Image       *UploadedImage         `validate:"-"`
	RemoveImage bool
}

var (
	msgCategoryNameRequired = "Category name is required."
	msgCategoryExists       = "A category with this name already exists."
	msgCategoryInUse        = "Cannot delete this category: there are still products linked to it."
	msgCategoryNotFound     = "Category not found."
	msgUnknownCategory      = "The selected category does not exist."
	msgProductNotFound      = "Product not found."
)

type MenuService struct {
	logger      *gecho.Logger
	store       MenuStore
	images      ImageManager
	imageFolder string
}

func NewMenuService(logger *gecho.Logger, store MenuStore, images ImageManager, imageFolder string) *MenuService {
	return &MenuService{
		logger:      logger,
		store:       store,
		images:      images,
		imageFolder: imageFolder,
	}
}

func (ms *MenuService) ListCategories(ctx context.Context) ([]tables.Category, error) {
	return ms.store.ListCategories(ctx)
}

func (ms *MenuService) GetCategory(ctx context.Context, id int64) (*tables.Category, error) {
	category, err := ms.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return nil, lib.NotFound(msgCategoryNotFound)
		}
		return nil, err
	}
	return category, nil
}

func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", lib.Invalid(msgCategoryNameRequired)
	}
	if len(name) > 100 {
		return "", lib.Invalid("Category name must be at most 100 characters.")
	}
	return name, nil
}

func (ms *MenuService) CreateCategory(ctx context.Context, name string) (*tables.Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	category, err := ms.store.CreateCategory(ctx, name)
	if err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return nil, lib.Conflict(msgCategoryExists)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	ms.logger.Info("Category created", gecho.Field("id", category.ID), gecho.Field("name", category.Name))
	return category, nil
}

func (ms *MenuService) UpdateCategory(ctx context.Context, id int64, name string) (*tables.Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	category, err := ms.store.UpdateCategory(ctx, id, name)
	if err != nil {
		switch {
		case errors.Is(err, lib.ErrNotFound):
			return nil, lib.NotFound(msgCategoryNotFound)
		case errors.Is(err, lib.ErrConflict):
			return nil, lib.Conflict(msgCategoryExists)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	ms.logger.Info("Category updated", gecho.Field("id", id), gecho.Field("name", name))
	return category, nil
}

func (ms *MenuService) DeleteCategory(ctx context.Context, id int64) error {
	if err := ms.store.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, lib.ErrForeignKey):
			ms.logger.Warn("Refused to delete category with products", gecho.Field("id", id))
			return lib.Conflict(msgCategoryInUse)
		case errors.Is(err, lib.ErrNotFound):
			return lib.NotFound(msgCategoryNotFound)
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	ms.logger.Info("Category deleted", gecho.Field("id", id))
	return nil
}

// ListProducts returns every product, or only those in the named category.
func (ms *MenuService) ListProducts(ctx context.Context, categoryName string) ([]tables.Product, error) {
	return ms.store.ListProducts(ctx, categoryName)
}

func (ms *MenuService) GetProduct(ctx context.Context, id int64) (*tables.Product, error) {
	product, err := ms.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return nil, lib.NotFound(msgProductNotFound)
		}
		return nil, err
	}
	return product, nil
}

func validateProductInput(in *ProductInput) error {
	if in == nil {
		return lib.Invalid("Product data is missing.")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := lib.Validate(in); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return lib.Invalid("Price cannot be negative.")
	}
	return nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateProduct uploads the image first and removes it again when the insert fails.
func (ms *MenuService) CreateProduct(ctx context.Context, in *ProductInput) (*tables.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	var imageURL *string
	if in.Image != nil {
		url, err := ms.images.UploadAndOptimize(ctx, in.Image.Data, in.Image.Filename, ms.imageFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload product image: %w", err)
		}
		imageURL = &url
	}

	product := &tables.Product{
		Name:        in.Name,
		Price:       in.Price.Round(2),
		Description: optionalString(in.Description),
		CategoryID:  in.CategoryID,
		ImageURL:    imageURL,
		Options:     in.Options,
	}

	created, err := ms.store.CreateProduct(ctx, product)
	if err != nil {
		if imageURL != nil {
			ms.images.Delete(ctx, *imageURL, ms.imageFolder)
		}
		if errors.Is(err, lib.ErrForeignKey) {
			return nil, lib.Invalid(msgUnknownCategory)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	ms.logger.Info("Product created", gecho.Field("id", created.ID), gecho.Field("name", created.Name))
	return created, nil
}

// UpdateProduct replaces the row and only then deletes an image that is no longer referenced.
func (ms *MenuService) UpdateProduct(ctx context.Context, id int64, in *ProductInput) (*tables.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	existing, err := ms.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	imageURL := existing.ImageURL
	var uploaded, stale *string

	switch {
	case in.Image != nil:
		url, err := ms.images.UploadAndOptimize(ctx, in.Image.Data, in.Image.Filename, ms.imageFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload product image: %w", err)
		}
		uploaded = &url
		imageURL = uploaded
		stale = existing.ImageURL
	case in.RemoveImage:
		imageURL = nil
		stale = existing.ImageURL
	}

	product := &tables.Product{
		ID:          id,
		Name:        in.Name,
		Price:       in.Price.Round(2),
		Description: optionalString(in.Description),
		CategoryID:  in.CategoryID,
		ImageURL:    imageURL,
		Options:     in.Options,
	}

	updated, err := ms.store.UpdateProduct(ctx, product)
	if err != nil {
		if uploaded != nil {
			ms.images.Delete(ctx, *uploaded, ms.imageFolder)
		}
		switch {
		case errors.Is(err, lib.ErrNotFound):
			return nil, lib.NotFound(msgProductNotFound)
		case errors.Is(err, lib.ErrForeignKey):
			return nil, lib.Invalid(msgUnknownCategory)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if stale != nil && *stale != "" {
		if !ms.images.Delete(ctx, *stale, ms.imageFolder) {
			ms.logger.Warn("Old product image was not deleted", gecho.Field("id", id), gecho.Field("url", *stale))
		}
	}

	ms.logger.Info("Product updated", gecho.Field("id", id))
	return updated, nil
}

func (ms *MenuService) DeleteProduct(ctx context.Context, id int64) error {
	existing, err := ms.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := ms.store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return lib.NotFound(msgProductNotFound)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if existing.HasImage() {
		if !ms.images.Delete(ctx, *existing.ImageURL, ms.imageFolder) {
			ms.logger.Warn("Product image was not deleted", gecho.Field("id", id), gecho.Field("url", *existing.ImageURL))
		}
	}

	ms.logger.Info("Product deleted", gecho.Field("id", id))
	return nil
}
