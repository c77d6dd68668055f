package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimscan/internal/domain"
	"claimscan/internal/service"
	"claimscan/internal/template"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) ExtractText(ctx context.Context, input service.ExtractTextInput) (*service.ExtractionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractionResult), args.Error(1)
}

func (m *MockExtractionService) ExtractFile(ctx context.Context, input service.ExtractFileInput) (*service.ExtractionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractionResult), args.Error(1)
}

func (m *MockExtractionService) ExtractBatch(ctx context.Context, inputs []service.BatchInput) ([]service.BatchItemResult, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BatchItemResult), args.Error(1)
}

func (m *MockExtractionService) DetectVersion(ctx context.Context, text string) (*domain.VersionMatch, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionMatch), args.Error(1)
}

func (m *MockExtractionService) ListTemplates(ctx context.Context) ([]service.TemplateSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TemplateSummary), args.Error(1)
}

func (m *MockExtractionService) GetTemplate(ctx context.Context, id string) (*template.ResolvedTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*template.ResolvedTemplate), args.Error(1)
}

func (m *MockExtractionService) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
