package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
)

const consentColumns = `C.CONSENT_ID, C.RECEIPT, C.CREATED_TIME, C.UPDATED_TIME, C.CLIENT_ID, C.ORG_ID,
		       C.CONSENT_TYPE, C.CURRENT_STATUS, C.CONSENT_FREQUENCY, C.VALIDITY_TIME, C.RECURRING_INDICATOR`

// ConsentDAO handles database operations for consents
type ConsentDAO struct {
	db *database.DB
}

// NewConsentDAO creates a new ConsentDAO instance
func NewConsentDAO(db *database.DB) *ConsentDAO {
	return &ConsentDAO{db: db}
}

// Create inserts a new consent
func (dao *ConsentDAO) Create(ctx context.Context, tx *database.Transaction, consent *models.ConsentResource) error {
	query := `
		INSERT INTO OB_CONSENT (
			CONSENT_ID, RECEIPT, CREATED_TIME, UPDATED_TIME, CLIENT_ID, ORG_ID,
			CONSENT_TYPE, CURRENT_STATUS, CONSENT_FREQUENCY, VALIDITY_TIME, RECURRING_INDICATOR
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := executor(dao.db, tx).ExecContext(
		ctx,
		query,
		consent.ConsentID,
		consent.Receipt,
		consent.CreatedTime,
		consent.UpdatedTime,
		consent.ClientID,
		consent.OrgID,
		consent.ConsentType,
		consent.CurrentStatus,
		consent.ConsentFrequency,
		consent.ValidityPeriod,
		consent.RecurringIndicator,
	)
	if err != nil {
		return fmt.Errorf("failed to create consent: %w", err)
	}

	return nil
}

// GetByID retrieves a consent by ID
func (dao *ConsentDAO) GetByID(ctx context.Context, tx *database.Transaction, consentID string) (*models.ConsentResource, error) {
	return dao.get(ctx, executor(dao.db, tx), consentID, false)
}

// GetByIDForUpdate retrieves a consent by ID and locks its row until the transaction ends
func (dao *ConsentDAO) GetByIDForUpdate(ctx context.Context, tx *database.Transaction, consentID string) (*models.ConsentResource, error) {
	return dao.get(ctx, tx, consentID, true)
}

func (dao *ConsentDAO) get(ctx context.Context, exec database.Executor, consentID string, lock bool) (*models.ConsentResource, error) {
	query := `SELECT ` + consentColumns + ` FROM OB_CONSENT C WHERE C.CONSENT_ID = ?`
	if lock {
		query += database.LockClause(exec)
	}

	var consent models.ConsentResource
	if err := exec.GetContext(ctx, &consent, query, consentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("consent %s: %w", consentID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get consent: %w", err)
	}

	return &consent, nil
}

// UpdateStatus moves a consent from expectedStatus to newStatus.
// Returns ErrStaleStatus when the stored status no longer equals expectedStatus.
func (dao *ConsentDAO) UpdateStatus(ctx context.Context, tx *database.Transaction, consentID, expectedStatus, newStatus string, updatedTime int64) error {
	query := `
		UPDATE OB_CONSENT
		SET CURRENT_STATUS = ?, UPDATED_TIME = ?
		WHERE CONSENT_ID = ? AND CURRENT_STATUS = ?
	`

	result, err := executor(dao.db, tx).ExecContext(ctx, query, newStatus, updatedTime, consentID, expectedStatus)
	if err != nil {
		return fmt.Errorf("failed to update consent status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("consent %s expected in status %q: %w", consentID, expectedStatus, ErrStaleStatus)
	}

	return nil
}

// UpdateAmendableFields writes the receipt, validity period and updated time of a consent
func (dao *ConsentDAO) UpdateAmendableFields(ctx context.Context, tx *database.Transaction, consent *models.ConsentResource) error {
	query := `
		UPDATE OB_CONSENT
		SET RECEIPT = ?, VALIDITY_TIME = ?, UPDATED_TIME = ?
		WHERE CONSENT_ID = ?
	`

	result, err := executor(dao.db, tx).ExecContext(ctx, query,
		consent.Receipt,
		consent.ValidityPeriod,
		consent.UpdatedTime,
		consent.ConsentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update consent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("consent %s: %w", consent.ConsentID, ErrRecordNotFound)
	}

	return nil
}

// Search finds consents matching all supplied filters, newest first.
// A positive Limit paginates; the total count ignores pagination.
func (dao *ConsentDAO) Search(ctx context.Context, tx *database.Transaction, filter models.ConsentSearchFilter) ([]models.ConsentResource, int, error) {
	exec := executor(dao.db, tx)

	var conditions []string
	var args []interface{}
	joinAuth := len(filter.UserIDs) > 0

	addIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		conditions = append(conditions, column+" IN (?)")
		args = append(args, values)
	}

	addIn("C.CONSENT_ID", filter.ConsentIDs)
	addIn("C.CLIENT_ID", filter.ClientIDs)
	addIn("C.CONSENT_TYPE", filter.ConsentTypes)
	addIn("C.CURRENT_STATUS", filter.ConsentStatuses)
	addIn("A.USER_ID", filter.UserIDs)

	if filter.FromTime != nil {
		conditions = append(conditions, "C.UPDATED_TIME >= ?")
		args = append(args, *filter.FromTime)
	}
	if filter.ToTime != nil {
		conditions = append(conditions, "C.UPDATED_TIME <= ?")
		args = append(args, *filter.ToTime)
	}

	from := " FROM OB_CONSENT C"
	if joinAuth {
		from += " INNER JOIN OB_CONSENT_AUTH_RESOURCE A ON C.CONSENT_ID = A.CONSENT_ID"
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.In("SELECT COUNT(DISTINCT C.CONSENT_ID)"+from+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build consent count query: %w", err)
	}

	var total int
	if err := exec.GetContext(ctx, &total, exec.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count consents: %w", err)
	}

	selectQuery := "SELECT DISTINCT " + consentColumns + from + where + " ORDER BY C.UPDATED_TIME DESC, C.CONSENT_ID"
	selectArgs := append([]interface{}{}, args...)
	if filter.Limit > 0 {
		selectQuery += " LIMIT ? OFFSET ?"
		selectArgs = append(selectArgs, filter.Limit, filter.Offset)
	}

	selectQuery, selectArgs, err = sqlx.In(selectQuery, selectArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build consent search query: %w", err)
	}

	var consents []models.ConsentResource
	if err := exec.SelectContext(ctx, &consents, exec.Rebind(selectQuery), selectArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to search consents: %w", err)
	}

	return consents, total, nil
}

// DeleteByIDs physically removes consents. Dependent rows must be removed first.
func (dao *ConsentDAO) DeleteByIDs(ctx context.Context, tx *database.Transaction, consentIDs []string) (int64, error) {
	if len(consentIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM OB_CONSENT WHERE CONSENT_ID IN (?)`, consentIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to build consent delete query: %w", err)
	}

	exec := executor(dao.db, tx)
	result, err := exec.ExecContext(ctx, exec.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete consents: %w", err)
	}

	return result.RowsAffected()
}
