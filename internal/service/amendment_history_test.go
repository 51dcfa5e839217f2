package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/service/mocks"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
)

func strPtr(s string) *string {
	return &s
}

func baseAggregate() *models.DetailedConsentResource {
	return &models.DetailedConsentResource{
		ConsentResource: models.ConsentResource{
			ConsentID:      "c-1",
			Receipt:        `{"v":1}`,
			CurrentStatus:  "authorised",
			ValidityPeriod: 100,
			UpdatedTime:    10,
		},
		Authorizations: []models.AuthorizationResource{
			{AuthorizationID: "a-1", ConsentID: "c-1", UserID: strPtr("u-1"), AuthorizationStatus: "authorised", AuthorizationType: "authorisation"},
		},
		Mappings: []models.ConsentMappingResource{
			{MappingID: "m-1", AuthorizationID: "a-1", AccountID: "acc-1", Permission: "read", MappingStatus: models.MappingStatusActive},
		},
		ConsentAttributes: map[string]string{"purpose": "payments", "channel": "web"},
	}
}

func cloneAggregate(d *models.DetailedConsentResource) *models.DetailedConsentResource {
	c := *d
	c.Authorizations = append([]models.AuthorizationResource(nil), d.Authorizations...)
	c.Mappings = append([]models.ConsentMappingResource(nil), d.Mappings...)
	c.ConsentAttributes = make(map[string]string, len(d.ConsentAttributes))
	for k, v := range d.ConsentAttributes {
		c.ConsentAttributes[k] = v
	}
	return &c
}

func TestDiff_NoChanges(t *testing.T) {
	before := baseAggregate()
	after := cloneAggregate(before)
	after.UpdatedTime = 99

	changes := Diff(before, after)

	assert.True(t, changes.IsEmpty())
	assert.Equal(t, models.ChangeSetVersion, changes.Version)
}

func TestDiff_RecordsPreAmendmentValues(t *testing.T) {
	before := baseAggregate()
	after := cloneAggregate(before)
	after.Receipt = `{"v":2}`
	after.ValidityPeriod = 200
	after.ConsentAttributes["purpose"] = "accounts"
	after.ConsentAttributes["newKey"] = "x"
	delete(after.ConsentAttributes, "channel")
	after.Mappings[0].MappingStatus = models.MappingStatusInactive
	after.Mappings = append(after.Mappings, models.ConsentMappingResource{
		MappingID: "m-2", AuthorizationID: "a-1", AccountID: "acc-2", Permission: "read", MappingStatus: models.MappingStatusActive,
	})
	after.Authorizations = append(after.Authorizations, models.AuthorizationResource{AuthorizationID: "a-2", ConsentID: "c-1"})

	changes := Diff(before, after)

	assert.Equal(t, map[string]models.FieldValues{
		"c-1": {models.FieldReceipt: `{"v":1}`, models.FieldValidityPeriod: "100"},
	}, changes.ConsentData)
	assert.Equal(t, map[string]models.FieldValues{
		"purpose": {models.FieldAttributeValue: "payments"},
		"newKey":  nil,
		"channel": {models.FieldAttributeValue: "web"},
	}, changes.ConsentAttributesData)
	assert.Equal(t, map[string]models.FieldValues{
		"m-1": {models.FieldMappingStatus: models.MappingStatusActive},
		"m-2": nil,
	}, changes.ConsentMappingData)
	assert.Equal(t, map[string]models.FieldValues{"a-2": nil}, changes.ConsentAuthResourceData)
}

func TestDiff_AuthorizationFieldChanges(t *testing.T) {
	before := baseAggregate()
	after := cloneAggregate(before)
	after.Authorizations[0].AuthorizationStatus = "replaced"
	after.Authorizations[0].UserID = strPtr("u-2")

	changes := Diff(before, after)

	assert.Equal(t, models.FieldValues{
		models.FieldAuthorizationStatus: "authorised",
		models.FieldUserID:              "u-1",
	}, changes.ConsentAuthResourceData["a-1"])
	assert.Nil(t, changes.ConsentData)
}

func TestAmendmentHistory_Record(t *testing.T) {
	store := &mocks.MockHistoryStore{}
	history := NewAmendmentHistory(store)

	store.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(h *models.ConsentHistoryResource) bool {
		return h.HistoryID != "" && h.ConsentID == "c-1" && h.ChangedAttributes.Version == models.ChangeSetVersion
	})).Return(nil)

	err := history.Record(context.Background(), nil, &models.ConsentHistoryResource{
		ConsentID: "c-1",
		Reason:    "amend",
		Timestamp: 1700000000000,
	})

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestAmendmentHistory_RecordValidation(t *testing.T) {
	store := &mocks.MockHistoryStore{}
	history := NewAmendmentHistory(store)

	tests := []struct {
		name  string
		entry models.ConsentHistoryResource
	}{
		{"missing consent", models.ConsentHistoryResource{Reason: "r", Timestamp: 1}},
		{"missing reason", models.ConsentHistoryResource{ConsentID: "c-1", Timestamp: 1}},
		{"missing timestamp", models.ConsentHistoryResource{ConsentID: "c-1", Reason: "r"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := tt.entry
			err := history.Record(context.Background(), nil, &entry)
			assert.ErrorIs(t, err, serviceerror.ErrValidation)
		})
	}
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestAmendmentHistory_ReconstructEmpty(t *testing.T) {
	store := &mocks.MockHistoryStore{}
	history := NewAmendmentHistory(store)
	store.On("GetByConsentID", mock.Anything, mock.Anything, "c-1").Return(nil, nil)

	entries, err := history.Reconstruct(context.Background(), "c-1")

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
