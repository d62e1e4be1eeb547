package mocks

import (
	"context"
	"encoding/json"

	"github.com/pageza/coffeeshop/backend/internal/model"
	"github.com/pageza/coffeeshop/backend/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockDrinkService is a mock implementation of the drink service
type MockDrinkService struct {
	mock.Mock
}

// List mocks the List method
func (m *MockDrinkService) List(ctx context.Context, view model.View) ([]any, error) {
	args := m.Called(ctx, view)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]any), args.Error(1)
}

// Create mocks the Create method
func (m *MockDrinkService) Create(ctx context.Context, title string, recipe json.RawMessage) (*model.LongDrink, error) {
	args := m.Called(ctx, title, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LongDrink), args.Error(1)
}

// Update mocks the Update method
func (m *MockDrinkService) Update(ctx context.Context, id uint, update service.DrinkUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

// Delete mocks the Delete method
func (m *MockDrinkService) Delete(ctx context.Context, id uint) (uint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uint), args.Error(1)
}

var _ service.IDrinkService = (*MockDrinkService)(nil)
