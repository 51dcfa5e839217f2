package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
)

// MockMappingStore is a mock implementation of service.MappingStore
type MockMappingStore struct {
	mock.Mock
}

func (m *MockMappingStore) Create(ctx context.Context, tx *database.Transaction, mappings []models.ConsentMappingResource) error {
	args := m.Called(ctx, tx, mappings)
	return args.Error(0)
}

func (m *MockMappingStore) GetByAuthIDs(ctx context.Context, tx *database.Transaction, authIDs []string, status string) ([]models.ConsentMappingResource, error) {
	args := m.Called(ctx, tx, authIDs, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConsentMappingResource), args.Error(1)
}

func (m *MockMappingStore) UpdateStatus(ctx context.Context, tx *database.Transaction, mappingIDs []string, status string) error {
	args := m.Called(ctx, tx, mappingIDs, status)
	return args.Error(0)
}

func (m *MockMappingStore) DeactivateByAuthIDs(ctx context.Context, tx *database.Transaction, authIDs []string) (int64, error) {
	args := m.Called(ctx, tx, authIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockStatusAuditStore is a mock implementation of service.StatusAuditStore
type MockStatusAuditStore struct {
	mock.Mock
}

func (m *MockStatusAuditStore) Create(ctx context.Context, tx *database.Transaction, audit *models.ConsentStatusAuditRecord) error {
	args := m.Called(ctx, tx, audit)
	return args.Error(0)
}

func (m *MockStatusAuditStore) Search(ctx context.Context, tx *database.Transaction, filter models.AuditSearchFilter) ([]models.ConsentStatusAuditRecord, error) {
	args := m.Called(ctx, tx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConsentStatusAuditRecord), args.Error(1)
}

// MockHistoryStore is a mock implementation of service.HistoryStore
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) Create(ctx context.Context, tx *database.Transaction, history *models.ConsentHistoryResource) error {
	args := m.Called(ctx, tx, history)
	return args.Error(0)
}

func (m *MockHistoryStore) GetByConsentID(ctx context.Context, tx *database.Transaction, consentID string) ([]models.ConsentHistoryResource, error) {
	args := m.Called(ctx, tx, consentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConsentHistoryResource), args.Error(1)
}

// MockTokenRevoker is a mock implementation of service.TokenRevoker
type MockTokenRevoker struct {
	mock.Mock
}

func (m *MockTokenRevoker) RevokeTokens(ctx context.Context, consent *models.DetailedConsentResource, userID string) error {
	args := m.Called(ctx, consent, userID)
	return args.Error(0)
}
