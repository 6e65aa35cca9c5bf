package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockErrorSink is a mock type for the ErrorSink type
type MockErrorSink struct {
	mock.Mock
}

// Report provides a mock function with given fields: ctx, err
func (_m *MockErrorSink) Report(ctx context.Context, err error) {
	_m.Called(ctx, err)
}

// NewMockErrorSink creates a new instance of MockErrorSink. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockErrorSink(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockErrorSink {
	m := &MockErrorSink{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
