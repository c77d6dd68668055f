package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimscan/internal/port"
)

// MockTextSource is a mock implementation of port.TextSource.
type MockTextSource struct {
	mock.Mock
}

func (m *MockTextSource) ExtractText(ctx context.Context, path string) (*port.TextDocument, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.TextDocument), args.Error(1)
}

func (m *MockTextSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
