package services

import (
	"context"
	"frietkot_server/structs"
	"frietkot_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/mock"
)

func testLogger() *gecho.Logger {
	return gecho.NewDefaultLogger()
}

type mockMenuStore struct {
	mock.Mock
}

func (m *mockMenuStore) ListCategories(ctx context.Context) ([]tables.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]tables.Category)
	return categories, args.Error(1)
}

func (m *mockMenuStore) GetCategory(ctx context.Context, id int64) (*tables.Category, error) {
	args := m.Called(ctx, id)
	category, _ := args.Get(0).(*tables.Category)
	return category, args.Error(1)
}

func (m *mockMenuStore) CreateCategory(ctx context.Context, name string) (*tables.Category, error) {
	args := m.Called(ctx, name)
	category, _ := args.Get(0).(*tables.Category)
	return category, args.Error(1)
}

func (m *mockMenuStore) UpdateCategory(ctx context.Context, id int64, name string) (*tables.Category, error) {
	args := m.Called(ctx, id, name)
	category, _ := args.Get(0).(*tables.Category)
	return category, args.Error(1)
}

func (m *mockMenuStore) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMenuStore) ListProducts(ctx context.Context, categoryName string) ([]tables.Product, error) {
	args := m.Called(ctx, categoryName)
	products, _ := args.Get(0).([]tables.Product)
	return products, args.Error(1)
}

func (m *mockMenuStore) GetProduct(ctx context.Context, id int64) (*tables.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*tables.Product)
	return product, args.Error(1)
}

func (m *mockMenuStore) CreateProduct(ctx context.Context, product *tables.Product) (*tables.Product, error) {
	args := m.Called(ctx, product)
	created, _ := args.Get(0).(*tables.Product)
	return created, args.Error(1)
}

func (m *mockMenuStore) UpdateProduct(ctx context.Context, product *tables.Product) (*tables.Product, error) {
	args := m.Called(ctx, product)
	updated, _ := args.Get(0).(*tables.Product)
	return updated, args.Error(1)
}

func (m *mockMenuStore) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockImageManager struct {
	mock.Mock
}

func (m *mockImageManager) UploadAndOptimize(ctx context.Context, data []byte, originalName, destination string) (string, error) {
	args := m.Called(ctx, data, originalName, destination)
	return args.String(0), args.Error(1)
}

func (m *mockImageManager) Delete(ctx context.Context, url, destination string) bool {
	return m.Called(ctx, url, destination).Bool(0)
}

type mockOrderStore struct {
	mock.Mock
}

func (m *mockOrderStore) CreateOrder(ctx context.Context, order *tables.Order, items []tables.OrderItem) (*tables.Order, error) {
	args := m.Called(ctx, order, items)
	created, _ := args.Get(0).(*tables.Order)
	return created, args.Error(1)
}

func (m *mockOrderStore) ListOrders(ctx context.Context) ([]tables.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]tables.Order)
	return orders, args.Error(1)
}

func (m *mockOrderStore) GetOrder(ctx context.Context, id int64) (*tables.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*tables.Order)
	return order, args.Error(1)
}

func (m *mockOrderStore) UpdateOrderStatus(ctx context.Context, id int64, status tables.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOrderStore) CountOrdersByStatus(ctx context.Context, from, to time.Time) (map[tables.OrderStatus]int, error) {
	args := m.Called(ctx, from, to)
	counts, _ := args.Get(0).(map[tables.OrderStatus]int)
	return counts, args.Error(1)
}

func (m *mockOrderStore) ListOrderTotals(ctx context.Context) ([]structs.OrderTotal, error) {
	args := m.Called(ctx)
	totals, _ := args.Get(0).([]structs.OrderTotal)
	return totals, args.Error(1)
}

type mockProductLookup struct {
	mock.Mock
}

func (m *mockProductLookup) GetProduct(ctx context.Context, id int64) (*tables.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*tables.Product)
	return product, args.Error(1)
}
