package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"novel-adventure/internal/domain"
)

// MockSessionController is a mock type for the SessionController type
type MockSessionController struct {
	mock.Mock
}

// Snapshot provides a mock function with given fields:
func (_m *MockSessionController) Snapshot() domain.Snapshot {
	ret := _m.Called()
	return ret.Get(0).(domain.Snapshot)
}

// SetInput provides a mock function with given fields: ctx, text
func (_m *MockSessionController) SetInput(ctx context.Context, text string) error {
	ret := _m.Called(ctx, text)
	return ret.Error(0)
}

// Submit provides a mock function with given fields: ctx
func (_m *MockSessionController) Submit(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// Choose provides a mock function with given fields: ctx, index
func (_m *MockSessionController) Choose(ctx context.Context, index int) error {
	ret := _m.Called(ctx, index)
	return ret.Error(0)
}

// Reset provides a mock function with given fields: ctx
func (_m *MockSessionController) Reset(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// NewMockSessionController creates a new instance of MockSessionController. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockSessionController(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionController {
	m := &MockSessionController{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
