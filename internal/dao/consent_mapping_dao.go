package dao

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
)

const mappingColumns = `MAPPING_ID, AUTH_ID, ACCOUNT_ID, PERMISSION, MAPPING_STATUS`

// ConsentMappingDAO handles database operations for account mappings
type ConsentMappingDAO struct {
	db *database.DB
}

// NewConsentMappingDAO creates a new ConsentMappingDAO instance
func NewConsentMappingDAO(db *database.DB) *ConsentMappingDAO {
	return &ConsentMappingDAO{db: db}
}

// Create inserts account mappings
func (dao *ConsentMappingDAO) Create(ctx context.Context, tx *database.Transaction, mappings []models.ConsentMappingResource) error {
	query := `
		INSERT INTO OB_CONSENT_MAPPING (
			MAPPING_ID, AUTH_ID, ACCOUNT_ID, PERMISSION, MAPPING_STATUS
		) VALUES (?, ?, ?, ?, ?)
	`

	exec := executor(dao.db, tx)
	for _, m := range mappings {
		if _, err := exec.ExecContext(ctx, query, m.MappingID, m.AuthorizationID, m.AccountID, m.Permission, m.MappingStatus); err != nil {
			return fmt.Errorf("failed to create consent mapping: %w", err)
		}
	}

	return nil
}

// GetByAuthIDs retrieves mappings of the given authorizations.
// An empty status returns mappings in every status.
func (dao *ConsentMappingDAO) GetByAuthIDs(ctx context.Context, tx *database.Transaction, authIDs []string, status string) ([]models.ConsentMappingResource, error) {
	if len(authIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + mappingColumns + ` FROM OB_CONSENT_MAPPING WHERE AUTH_ID IN (?)`
	args := []interface{}{authIDs}
	if status != "" {
		query += " AND MAPPING_STATUS = ?"
		args = append(args, status)
	}
	query += " ORDER BY AUTH_ID, ACCOUNT_ID, PERMISSION, MAPPING_ID"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build consent mapping query: %w", err)
	}

	exec := executor(dao.db, tx)
	var mappings []models.ConsentMappingResource
	if err := exec.SelectContext(ctx, &mappings, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get consent mappings: %w", err)
	}

	return mappings, nil
}

// UpdateStatus sets the status of the given mappings
func (dao *ConsentMappingDAO) UpdateStatus(ctx context.Context, tx *database.Transaction, mappingIDs []string, status string) error {
	if len(mappingIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE OB_CONSENT_MAPPING SET MAPPING_STATUS = ? WHERE MAPPING_ID IN (?)`, status, mappingIDs)
	if err != nil {
		return fmt.Errorf("failed to build consent mapping update query: %w", err)
	}

	exec := executor(dao.db, tx)
	if _, err := exec.ExecContext(ctx, exec.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to update consent mapping status: %w", err)
	}

	return nil
}

// DeactivateByAuthIDs marks every active mapping of the given authorizations inactive
func (dao *ConsentMappingDAO) DeactivateByAuthIDs(ctx context.Context, tx *database.Transaction, authIDs []string) (int64, error) {
	if len(authIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`
		UPDATE OB_CONSENT_MAPPING SET MAPPING_STATUS = ?
		WHERE AUTH_ID IN (?) AND MAPPING_STATUS = ?
	`, models.MappingStatusInactive, authIDs, models.MappingStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to build consent mapping deactivate query: %w", err)
	}

	exec := executor(dao.db, tx)
	result, err := exec.ExecContext(ctx, exec.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate consent mappings: %w", err)
	}

	return result.RowsAffected()
}

// DeleteByAuthIDs removes all mappings of the given authorizations
func (dao *ConsentMappingDAO) DeleteByAuthIDs(ctx context.Context, tx *database.Transaction, authIDs []string) error {
	if len(authIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM OB_CONSENT_MAPPING WHERE AUTH_ID IN (?)`, authIDs)
	if err != nil {
		return fmt.Errorf("failed to build consent mapping delete query: %w", err)
	}

	exec := executor(dao.db, tx)
	if _, err := exec.ExecContext(ctx, exec.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete consent mappings: %w", err)
	}

	return nil
}
