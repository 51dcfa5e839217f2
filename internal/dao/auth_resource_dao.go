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

const authResourceColumns = `AUTH_ID, CONSENT_ID, AUTH_TYPE, USER_ID, AUTH_STATUS, UPDATED_TIME`

// AuthResourceDAO handles database operations for authorization resources
type AuthResourceDAO struct {
	db *database.DB
}

// NewAuthResourceDAO creates a new AuthResourceDAO instance
func NewAuthResourceDAO(db *database.DB) *AuthResourceDAO {
	return &AuthResourceDAO{db: db}
}

// Create inserts a new authorization resource
func (dao *AuthResourceDAO) Create(ctx context.Context, tx *database.Transaction, authResource *models.AuthorizationResource) error {
	query := `
		INSERT INTO OB_CONSENT_AUTH_RESOURCE (
			AUTH_ID, CONSENT_ID, AUTH_TYPE, USER_ID, AUTH_STATUS, UPDATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := executor(dao.db, tx).ExecContext(
		ctx,
		query,
		authResource.AuthorizationID,
		authResource.ConsentID,
		authResource.AuthorizationType,
		authResource.UserID,
		authResource.AuthorizationStatus,
		authResource.UpdatedTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create auth resource: %w", err)
	}

	return nil
}

// GetByID retrieves an authorization resource by ID
func (dao *AuthResourceDAO) GetByID(ctx context.Context, tx *database.Transaction, authID string) (*models.AuthorizationResource, error) {
	query := `SELECT ` + authResourceColumns + ` FROM OB_CONSENT_AUTH_RESOURCE WHERE AUTH_ID = ?`

	var authResource models.AuthorizationResource
	if err := executor(dao.db, tx).GetContext(ctx, &authResource, query, authID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("auth resource %s: %w", authID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get auth resource: %w", err)
	}

	return &authResource, nil
}

// GetByConsentIDs retrieves all authorization resources of the given consents
func (dao *AuthResourceDAO) GetByConsentIDs(ctx context.Context, tx *database.Transaction, consentIDs []string) ([]models.AuthorizationResource, error) {
	if len(consentIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+authResourceColumns+`
		FROM OB_CONSENT_AUTH_RESOURCE
		WHERE CONSENT_ID IN (?)
		ORDER BY UPDATED_TIME, AUTH_ID
	`, consentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build auth resource query: %w", err)
	}

	exec := executor(dao.db, tx)
	var authResources []models.AuthorizationResource
	if err := exec.SelectContext(ctx, &authResources, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get auth resources by consent ID: %w", err)
	}

	return authResources, nil
}

// Search retrieves authorization resources by consent and/or user
func (dao *AuthResourceDAO) Search(ctx context.Context, tx *database.Transaction, filter models.AuthorizationSearchFilter) ([]models.AuthorizationResource, error) {
	var conditions []string
	var args []interface{}

	if filter.ConsentID != "" {
		conditions = append(conditions, "CONSENT_ID = ?")
		args = append(args, filter.ConsentID)
	}
	if filter.UserID != "" {
		conditions = append(conditions, "USER_ID = ?")
		args = append(args, filter.UserID)
	}

	query := `SELECT ` + authResourceColumns + ` FROM OB_CONSENT_AUTH_RESOURCE`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY UPDATED_TIME DESC, AUTH_ID"

	var authResources []models.AuthorizationResource
	if err := executor(dao.db, tx).SelectContext(ctx, &authResources, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search auth resources: %w", err)
	}

	return authResources, nil
}

// UpdateStatus moves an authorization from expectedStatus to newStatus.
// Returns ErrStaleStatus when the stored status no longer equals expectedStatus.
func (dao *AuthResourceDAO) UpdateStatus(ctx context.Context, tx *database.Transaction, authID, expectedStatus, newStatus string, updatedTime int64) error {
	query := `
		UPDATE OB_CONSENT_AUTH_RESOURCE
		SET AUTH_STATUS = ?, UPDATED_TIME = ?
		WHERE AUTH_ID = ? AND AUTH_STATUS = ?
	`

	result, err := executor(dao.db, tx).ExecContext(ctx, query, newStatus, updatedTime, authID, expectedStatus)
	if err != nil {
		return fmt.Errorf("failed to update auth resource status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("auth resource %s expected in status %q: %w", authID, expectedStatus, ErrStaleStatus)
	}

	return nil
}

// UpdateUser binds a user to an authorization resource
func (dao *AuthResourceDAO) UpdateUser(ctx context.Context, tx *database.Transaction, authID, userID string, updatedTime int64) error {
	query := `
		UPDATE OB_CONSENT_AUTH_RESOURCE
		SET USER_ID = ?, UPDATED_TIME = ?
		WHERE AUTH_ID = ?
	`

	result, err := executor(dao.db, tx).ExecContext(ctx, query, userID, updatedTime, authID)
	if err != nil {
		return fmt.Errorf("failed to update auth resource user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("auth resource %s: %w", authID, ErrRecordNotFound)
	}

	return nil
}

// DeleteByConsentIDs removes all authorization resources of the given consents
func (dao *AuthResourceDAO) DeleteByConsentIDs(ctx context.Context, tx *database.Transaction, consentIDs []string) error {
	if len(consentIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM OB_CONSENT_AUTH_RESOURCE WHERE CONSENT_ID IN (?)`, consentIDs)
	if err != nil {
		return fmt.Errorf("failed to build auth resource delete query: %w", err)
	}

	exec := executor(dao.db, tx)
	if _, err := exec.ExecContext(ctx, exec.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete auth resources: %w", err)
	}

	return nil
}
