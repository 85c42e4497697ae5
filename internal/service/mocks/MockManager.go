package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

type MockManager struct {
	mock.Mock
}

// Do returns either a fixed error or, when a function is supplied as the
// return value, whatever that function returns.
func (m *MockManager) Do(ctx context.Context, fn func(context.Context) error) error {
	args := m.Called(ctx, fn)

	if rf, ok := args.Get(0).(func(context.Context, func(context.Context) error) error); ok {
		return rf(ctx, fn)
	}
	return args.Error(0)
}
