package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"novel-adventure/internal/client"
	"novel-adventure/internal/domain"
)

// MockNarrativeService is a mock type for the NarrativeService type
type MockNarrativeService struct {
	mock.Mock
}

// Narrate provides a mock function with given fields: ctx, input
func (_m *MockNarrativeService) Narrate(ctx context.Context, input string) (*domain.NarrativeResult, error) {
	ret := _m.Called(ctx, input)

	var r0 *domain.NarrativeResult
	if rf, ok := ret.Get(0).(func(context.Context, string) *domain.NarrativeResult); ok {
		r0 = rf(ctx, input)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*domain.NarrativeResult)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, input)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockNarrativeService creates a new instance of MockNarrativeService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockNarrativeService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNarrativeService {
	m := &MockNarrativeService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ client.NarrativeService = (*MockNarrativeService)(nil)

// MockSceneService is a mock type for the SceneService type
type MockSceneService struct {
	mock.Mock
}

// Illustrate provides a mock function with given fields: ctx, prompt
func (_m *MockSceneService) Illustrate(ctx context.Context, prompt string) (*domain.SceneResult, error) {
	ret := _m.Called(ctx, prompt)

	var r0 *domain.SceneResult
	if rf, ok := ret.Get(0).(func(context.Context, string) *domain.SceneResult); ok {
		r0 = rf(ctx, prompt)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*domain.SceneResult)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, prompt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockSceneService creates a new instance of MockSceneService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockSceneService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSceneService {
	m := &MockSceneService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ client.SceneService = (*MockSceneService)(nil)
