package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
)

// ConsentFileDAO handles database operations for consent files
type ConsentFileDAO struct {
	db *database.DB
}

// NewConsentFileDAO creates a new ConsentFileDAO instance
func NewConsentFileDAO(db *database.DB) *ConsentFileDAO {
	return &ConsentFileDAO{db: db}
}

// Create stores the file of a consent
func (dao *ConsentFileDAO) Create(ctx context.Context, tx *database.Transaction, file *models.ConsentFile) error {
	query := `INSERT INTO OB_CONSENT_FILE (CONSENT_ID, CONSENT_FILE) VALUES (?, ?)`

	if _, err := executor(dao.db, tx).ExecContext(ctx, query, file.ConsentID, file.ConsentFile); err != nil {
		return fmt.Errorf("failed to store consent file: %w", err)
	}
	return nil
}

// GetByConsentID retrieves the file of a consent
func (dao *ConsentFileDAO) GetByConsentID(ctx context.Context, tx *database.Transaction, consentID string) (*models.ConsentFile, error) {
	query := `SELECT CONSENT_ID, CONSENT_FILE FROM OB_CONSENT_FILE WHERE CONSENT_ID = ?`

	var file models.ConsentFile
	if err := executor(dao.db, tx).GetContext(ctx, &file, query, consentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("consent file %s: %w", consentID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get consent file: %w", err)
	}
	return &file, nil
}

// Exists reports whether a consent already has a file, without loading it
func (dao *ConsentFileDAO) Exists(ctx context.Context, tx *database.Transaction, consentID string) (bool, error) {
	query := `SELECT COUNT(*) FROM OB_CONSENT_FILE WHERE CONSENT_ID = ?`

	var count int
	if err := executor(dao.db, tx).GetContext(ctx, &count, query, consentID); err != nil {
		return false, fmt.Errorf("failed to check consent file: %w", err)
	}
	return count > 0, nil
}

// DeleteByConsentIDs removes the files of the given consents
func (dao *ConsentFileDAO) DeleteByConsentIDs(ctx context.Context, tx *database.Transaction, consentIDs []string) error {
	if len(consentIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM OB_CONSENT_FILE WHERE CONSENT_ID IN (?)`, consentIDs)
	if err != nil {
		return fmt.Errorf("failed to build consent file delete query: %w", err)
	}

	exec := executor(dao.db, tx)
	if _, err := exec.ExecContext(ctx, exec.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete consent files: %w", err)
	}
	return nil
}
