package dao

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
)

func newMockStore(t *testing.T) (*ConsentStore, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	db := database.NewDB(sqlx.NewDb(mockDB, database.DriverMySQL), logger)
	return NewConsentStore(db), mock
}

var consentRowColumns = []string{
	"CONSENT_ID", "RECEIPT", "CREATED_TIME", "UPDATED_TIME", "CLIENT_ID", "ORG_ID",
	"CONSENT_TYPE", "CURRENT_STATUS", "CONSENT_FREQUENCY", "VALIDITY_TIME", "RECURRING_INDICATOR",
}

func TestConsentDAO_Create(t *testing.T) {
	store, mock := newMockStore(t)
	consent := &models.ConsentResource{
		ConsentID:     "c-1",
		ClientID:      "client-1",
		OrgID:         models.DefaultOrgID,
		Receipt:       `{"Data":{}}`,
		ConsentType:   "accounts",
		CurrentStatus: "created",
		CreatedTime:   100,
		UpdatedTime:   100,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO OB_CONSENT (")).
		WithArgs("c-1", `{"Data":{}}`, int64(100), int64(100), "client-1", models.DefaultOrgID,
			"accounts", "created", 0, int64(0), false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Consents.Create(context.Background(), nil, consent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentDAO_GetByID_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM OB_CONSENT C WHERE C.CONSENT_ID = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(consentRowColumns))

	_, err := store.Consents.GetByID(context.Background(), nil, "missing")
	assert.True(t, errors.Is(err, ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentDAO_GetByIDForUpdate_LocksRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE C.CONSENT_ID = ? FOR UPDATE")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows(consentRowColumns).
			AddRow("c-1", "{}", 1, 2, "client-1", "org", "accounts", "authorised", 0, 0, false))
	mock.ExpectCommit()

	err := store.WithTransaction(context.Background(), func(tx *database.Transaction) error {
		consent, err := store.Consents.GetByIDForUpdate(context.Background(), tx, "c-1")
		if err != nil {
			return err
		}
		assert.Equal(t, "authorised", consent.CurrentStatus)
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentDAO_UpdateStatus_StaleStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("WHERE CONSENT_ID = ? AND CURRENT_STATUS = ?")).
		WithArgs("revoked", int64(200), "c-1", "authorised").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Consents.UpdateStatus(context.Background(), nil, "c-1", "authorised", "revoked", 200)
	assert.True(t, errors.Is(err, ErrStaleStatus))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentDAO_Search_ExpandsFilters(t *testing.T) {
	store, mock := newMockStore(t)
	filter := models.ConsentSearchFilter{
		ClientIDs:       []string{"client-1"},
		ConsentStatuses: []string{"authorised", "created"},
		UserIDs:         []string{"alice"},
		Limit:           10,
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT C.CONSENT_ID) FROM OB_CONSENT C INNER JOIN OB_CONSENT_AUTH_RESOURCE A")).
		WithArgs("client-1", "authorised", "created", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("C.CURRENT_STATUS IN (?, ?) AND A.USER_ID IN (?)")).
		WithArgs("client-1", "authorised", "created", "alice", 10, 0).
		WillReturnRows(sqlmock.NewRows(consentRowColumns).
			AddRow("c-1", "{}", 1, 2, "client-1", "org", "accounts", "authorised", 0, 0, false))

	consents, total, err := store.Consents.Search(context.Background(), nil, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, consents, 1)
	assert.Equal(t, "c-1", consents[0].ConsentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentMappingDAO_DeactivateByAuthIDs(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE OB_CONSENT_MAPPING SET MAPPING_STATUS = ?")).
		WithArgs(models.MappingStatusInactive, "a-1", "a-2", models.MappingStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.Mappings.DeactivateByAuthIDs(context.Background(), nil, []string{"a-1", "a-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentMappingDAO_EmptyInputsSkipQueries(t *testing.T) {
	store, mock := newMockStore(t)

	mappings, err := store.Mappings.GetByAuthIDs(context.Background(), nil, nil, "")
	require.NoError(t, err)
	assert.Empty(t, mappings)
	require.NoError(t, store.Mappings.UpdateStatus(context.Background(), nil, nil, models.MappingStatusInactive))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentAttributeDAO_UpsertReplacesKeys(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM OB_CONSENT_ATTRIBUTE WHERE CONSENT_ID = ? AND ATT_KEY IN (?, ?)")).
		WithArgs("c-1", "a", "b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO OB_CONSENT_ATTRIBUTE")).
		WithArgs("c-1", "a", "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO OB_CONSENT_ATTRIBUTE")).
		WithArgs("c-1", "b", "2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Attributes.Upsert(context.Background(), nil, "c-1", map[string]string{"b": "2", "a": "1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentAttributeDAO_GetByKeyForStatuses_JoinsConsentStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INNER JOIN OB_CONSENT C ON C.CONSENT_ID = A.CONSENT_ID")).
		WithArgs("ExpirationDateTime", "authorised", "created").
		WillReturnRows(sqlmock.NewRows([]string{"CONSENT_ID", "ATT_KEY", "ATT_VALUE"}).
			AddRow("c-1", "ExpirationDateTime", "1000"))

	values, err := store.Attributes.GetByKeyForStatuses(context.Background(), nil, "ExpirationDateTime", []string{"authorised", "created"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c-1": "1000"}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentAttributeDAO_GetByKeyForStatuses_NoStatuses(t *testing.T) {
	store, mock := newMockStore(t)

	values, err := store.Attributes.GetByKeyForStatuses(context.Background(), nil, "ExpirationDateTime", nil)
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentFileDAO_GetByConsentID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT CONSENT_ID, CONSENT_FILE FROM OB_CONSENT_FILE WHERE CONSENT_ID = ?")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"CONSENT_ID", "CONSENT_FILE"}).AddRow("c-1", []byte("payload")))
	mock.ExpectQuery(regexp.QuoteMeta("FROM OB_CONSENT_FILE WHERE CONSENT_ID = ?")).
		WithArgs("c-2").
		WillReturnRows(sqlmock.NewRows([]string{"CONSENT_ID", "CONSENT_FILE"}))

	file, err := store.Files.GetByConsentID(context.Background(), nil, "c-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), file.ConsentFile)

	_, err = store.Files.GetByConsentID(context.Background(), nil, "c-2")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentFileDAO_CreateAndExists(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO OB_CONSENT_FILE (CONSENT_ID, CONSENT_FILE) VALUES (?, ?)")).
		WithArgs("c-1", []byte("payload")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM OB_CONSENT_FILE WHERE CONSENT_ID = ?")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))

	require.NoError(t, store.Files.Create(context.Background(), nil, &models.ConsentFile{ConsentID: "c-1", ConsentFile: []byte("payload")}))
	exists, err := store.Files.Exists(context.Background(), nil, "c-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusAuditDAO_Search_AllFiltersOptional(t *testing.T) {
	store, mock := newMockStore(t)
	columns := []string{"STATUS_AUDIT_ID", "CONSENT_ID", "CURRENT_STATUS", "ACTION_TIME", "REASON", "ACTION_BY", "PREVIOUS_STATUS"}

	mock.ExpectQuery(`FROM OB_CONSENT_STATUS_AUDIT ORDER BY ACTION_TIME, STATUS_AUDIT_ID$`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("s-1", "c-1", "created", 1, "create consent", "", "").
			AddRow("s-2", "c-1", "authorised", 2, "user accounts binding", "alice", "created"))

	audits, err := store.StatusAudits.Search(context.Background(), nil, models.AuditSearchFilter{})
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, "created", audits[1].PreviousStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusAuditDAO_Search_ConjunctiveFilters(t *testing.T) {
	store, mock := newMockStore(t)
	from := int64(10)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE CONSENT_ID IN (?) AND CURRENT_STATUS = ? AND ACTION_BY = ? AND ACTION_TIME >= ?")).
		WithArgs("c-1", "revoked", "alice", from, 5, 0).
		WillReturnRows(sqlmock.NewRows([]string{"STATUS_AUDIT_ID"}))

	_, err := store.StatusAudits.Search(context.Background(), nil, models.AuditSearchFilter{
		ConsentIDs: []string{"c-1"},
		Status:     "revoked",
		ActionBy:   "alice",
		FromTime:   &from,
		Limit:      5,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsentHistoryDAO_CreateSerializesChangeSet(t *testing.T) {
	store, mock := newMockStore(t)
	changes := models.NewChangeSet()
	changes.ConsentData = map[string]models.FieldValues{"c-1": {models.FieldReceipt: "old"}}
	changes.ConsentMappingData = map[string]models.FieldValues{"m-2": nil}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO OB_CONSENT_HISTORY")).
		WithArgs("h-1", "c-1",
			`{"version":"v1","ConsentData":{"c-1":{"receipt":"old"}},"ConsentMappingData":{"m-2":null}}`,
			"amend consent", "alice", int64(1000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.History.Create(context.Background(), nil, &models.ConsentHistoryResource{
		HistoryID:         "h-1",
		ConsentID:         "c-1",
		Timestamp:         1000,
		Reason:            "amend consent",
		ActionBy:          "alice",
		ChangedAttributes: changes,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
