package repository

import (
	"context"
	"fmt"
	"frietkot_server/database"
	"frietkot_server/lib"
	"frietkot_server/structs/tables"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const queryTimeout = 5 * time.Second

// MenuRepository runs the category and product queries.
type MenuRepository struct {
	db bun.IDB
}

func NewMenuRepository(db bun.IDB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (mr *MenuRepository) ListCategories(ctx context.Context) ([]tables.Category, error) {
	categories, err := database.Query[tables.Category](mr.db).
		OrderBy("c.name", database.ASC).
		Timeout(queryTimeout).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (mr *MenuRepository) GetCategory(ctx context.Context, id int64) (*tables.Category, error) {
	category, err := database.FindByID[tables.Category](ctx, mr.db, "c.id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	if category == nil {
		return nil, lib.ErrNotFound
	}
	return category, nil
}

func (mr *MenuRepository) CreateCategory(ctx context.Context, name string) (*tables.Category, error) {
	category, err := database.Create(ctx, mr.db, &tables.Category{Name: name})
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return category, nil
}

func (mr *MenuRepository) UpdateCategory(ctx context.Context, id int64, name string) (*tables.Category, error) {
	category, err := database.Query[tables.Category](mr.db).
		UpdateModel(ctx, &tables.Category{ID: id, Name: name}, "name")
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if category == nil {
		return nil, lib.ErrNotFound
	}
	return category, nil
}

// DeleteCategory fails with lib.ErrForeignKey while products still reference the category.
func (mr *MenuRepository) DeleteCategory(ctx context.Context, id int64) error {
	found, err := database.DeleteByID[tables.Category](ctx, mr.db, "id", id)
	if err != nil {
		return lib.MapPgError(err)
	}
	if !found {
		return lib.ErrNotFound
	}
	return nil
}

// ListProducts returns products with their category joined, sorted by name.
// A non-empty categoryName filters on the category name, ignoring case.
func (mr *MenuRepository) ListProducts(ctx context.Context, categoryName string) ([]tables.Product, error) {
	q := database.Query[tables.Product](mr.db).
		With("Category").
		OrderBy("p.name", database.ASC).
		Timeout(queryTimeout)

	if name := strings.TrimSpace(categoryName); name != "" {
		q = q.WhereRaw("LOWER(category.name) = LOWER(?)", name)
	}

	products, err := q.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (mr *MenuRepository) GetProduct(ctx context.Context, id int64) (*tables.Product, error) {
	product, err := database.Query[tables.Product](mr.db).
		With("Category").
		Where("p.id", id).
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}
	return product, nil
}

// CreateProduct fails with lib.ErrForeignKey when the category does not exist.
func (mr *MenuRepository) CreateProduct(ctx context.Context, product *tables.Product) (*tables.Product, error) {
	created, err := database.Create(ctx, mr.db, product)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return created, nil
}

func (mr *MenuRepository) UpdateProduct(ctx context.Context, product *tables.Product) (*tables.Product, error) {
	updated, err := database.Query[tables.Product](mr.db).
		UpdateModel(ctx, product, "name", "price", "description", "category_id", "image_url", "options")
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if updated == nil {
		return nil, lib.ErrNotFound
	}
	return updated, nil
}

func (mr *MenuRepository) DeleteProduct(ctx context.Context, id int64) error {
	found, err := database.DeleteByID[tables.Product](ctx, mr.db, "id", id)
	if err != nil {
		return lib.MapPgError(err)
	}
	if !found {
		return lib.ErrNotFound
	}
	return nil
}
