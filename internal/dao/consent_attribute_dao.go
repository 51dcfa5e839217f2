package dao

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
)

// ConsentAttributeDAO handles database operations for consent attributes
type ConsentAttributeDAO struct {
	db *database.DB
}

// NewConsentAttributeDAO creates a new ConsentAttributeDAO instance
func NewConsentAttributeDAO(db *database.DB) *ConsentAttributeDAO {
	return &ConsentAttributeDAO{db: db}
}

// Upsert stores the given attributes, overwriting existing values of the same keys
func (dao *ConsentAttributeDAO) Upsert(ctx context.Context, tx *database.Transaction, consentID string, attributes map[string]string) error {
	if len(attributes) == 0 {
		return nil
	}

	keys := sortedKeys(attributes)
	if err := dao.DeleteKeys(ctx, tx, consentID, keys); err != nil {
		return err
	}

	query := `INSERT INTO OB_CONSENT_ATTRIBUTE (CONSENT_ID, ATT_KEY, ATT_VALUE) VALUES (?, ?, ?)`
	exec := executor(dao.db, tx)
	for _, key := range keys {
		if _, err := exec.ExecContext(ctx, query, consentID, key, attributes[key]); err != nil {
			return fmt.Errorf("failed to create consent attribute: %w", err)
		}
	}

	return nil
}

// GetByConsentID retrieves the attributes of a consent. Empty keys returns all attributes.
func (dao *ConsentAttributeDAO) GetByConsentID(ctx context.Context, tx *database.Transaction, consentID string, keys []string) (map[string]string, error) {
	query := `SELECT CONSENT_ID, ATT_KEY, ATT_VALUE FROM OB_CONSENT_ATTRIBUTE WHERE CONSENT_ID = ?`
	args := []interface{}{consentID}
	if len(keys) > 0 {
		query += " AND ATT_KEY IN (?)"
		args = append(args, keys)
	}

	rows, err := dao.selectRows(ctx, tx, query, args...)
	if err != nil {
		return nil, err
	}

	attributes := make(map[string]string, len(rows))
	for _, row := range rows {
		attributes[row.Key] = row.Value
	}
	return attributes, nil
}

// GetByConsentIDs retrieves the attributes of several consents keyed by consent ID
func (dao *ConsentAttributeDAO) GetByConsentIDs(ctx context.Context, tx *database.Transaction, consentIDs []string) (map[string]map[string]string, error) {
	result := make(map[string]map[string]string, len(consentIDs))
	if len(consentIDs) == 0 {
		return result, nil
	}

	rows, err := dao.selectRows(ctx, tx,
		`SELECT CONSENT_ID, ATT_KEY, ATT_VALUE FROM OB_CONSENT_ATTRIBUTE WHERE CONSENT_ID IN (?)`, consentIDs)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if result[row.ConsentID] == nil {
			result[row.ConsentID] = make(map[string]string)
		}
		result[row.ConsentID][row.Key] = row.Value
	}
	return result, nil
}

// GetByKey retrieves the value of one attribute key across all consents, keyed by consent ID
func (dao *ConsentAttributeDAO) GetByKey(ctx context.Context, tx *database.Transaction, key string) (map[string]string, error) {
	rows, err := dao.selectRows(ctx, tx,
		`SELECT CONSENT_ID, ATT_KEY, ATT_VALUE FROM OB_CONSENT_ATTRIBUTE WHERE ATT_KEY = ?`, key)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.ConsentID] = row.Value
	}
	return values, nil
}

// GetByKeyForStatuses retrieves the value of one attribute key across the consents
// currently in one of statuses, keyed by consent ID
func (dao *ConsentAttributeDAO) GetByKeyForStatuses(ctx context.Context, tx *database.Transaction, key string, statuses []string) (map[string]string, error) {
	values := make(map[string]string)
	if len(statuses) == 0 {
		return values, nil
	}

	rows, err := dao.selectRows(ctx, tx,
		`SELECT A.CONSENT_ID, A.ATT_KEY, A.ATT_VALUE FROM OB_CONSENT_ATTRIBUTE A
		INNER JOIN OB_CONSENT C ON C.CONSENT_ID = A.CONSENT_ID
		WHERE A.ATT_KEY = ? AND C.CURRENT_STATUS IN (?)`, key, statuses)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		values[row.ConsentID] = row.Value
	}
	return values, nil
}

// GetConsentIDsByKeyValue finds the consents carrying the given attribute value
func (dao *ConsentAttributeDAO) GetConsentIDsByKeyValue(ctx context.Context, tx *database.Transaction, key, value string) ([]string, error) {
	query := `SELECT CONSENT_ID FROM OB_CONSENT_ATTRIBUTE WHERE ATT_KEY = ? AND ATT_VALUE = ? ORDER BY CONSENT_ID`

	var consentIDs []string
	if err := executor(dao.db, tx).SelectContext(ctx, &consentIDs, query, key, value); err != nil {
		return nil, fmt.Errorf("failed to get consent IDs by attribute: %w", err)
	}
	return consentIDs, nil
}

// DeleteKeys removes the given attribute keys from a consent
func (dao *ConsentAttributeDAO) DeleteKeys(ctx context.Context, tx *database.Transaction, consentID string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM OB_CONSENT_ATTRIBUTE WHERE CONSENT_ID = ? AND ATT_KEY IN (?)`, consentID, keys)
	if err != nil {
		return fmt.Errorf("failed to build consent attribute delete query: %w", err)
	}

	exec := executor(dao.db, tx)
	if _, err := exec.ExecContext(ctx, exec.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete consent attributes: %w", err)
	}
	return nil
}

// DeleteByConsentIDs removes every attribute of the given consents
func (dao *ConsentAttributeDAO) DeleteByConsentIDs(ctx context.Context, tx *database.Transaction, consentIDs []string) error {
	if len(consentIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM OB_CONSENT_ATTRIBUTE WHERE CONSENT_ID IN (?)`, consentIDs)
	if err != nil {
		return fmt.Errorf("failed to build consent attribute delete query: %w", err)
	}

	exec := executor(dao.db, tx)
	if _, err := exec.ExecContext(ctx, exec.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete consent attributes: %w", err)
	}
	return nil
}

func (dao *ConsentAttributeDAO) selectRows(ctx context.Context, tx *database.Transaction, query string, args ...interface{}) ([]models.ConsentAttribute, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build consent attribute query: %w", err)
	}

	exec := executor(dao.db, tx)
	var rows []models.ConsentAttribute
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get consent attributes: %w", err)
	}
	return rows, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
