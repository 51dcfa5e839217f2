package dao

import (
	"context"
	"fmt"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
)

// ConsentHistoryDAO handles database operations for consent amendment history
type ConsentHistoryDAO struct {
	db *database.DB
}

// NewConsentHistoryDAO creates a new ConsentHistoryDAO instance
func NewConsentHistoryDAO(db *database.DB) *ConsentHistoryDAO {
	return &ConsentHistoryDAO{db: db}
}

// Create inserts an amendment snapshot
func (dao *ConsentHistoryDAO) Create(ctx context.Context, tx *database.Transaction, history *models.ConsentHistoryResource) error {
	query := `
		INSERT INTO OB_CONSENT_HISTORY (
			HISTORY_ID, CONSENT_ID, CHANGED_VALUES, REASON, ACTION_BY, EFFECTIVE_TIMESTAMP
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := executor(dao.db, tx).ExecContext(
		ctx,
		query,
		history.HistoryID,
		history.ConsentID,
		history.ChangedAttributes,
		history.Reason,
		history.ActionBy,
		history.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create consent history: %w", err)
	}

	return nil
}

// GetByConsentID retrieves the amendment history of a consent, oldest first
func (dao *ConsentHistoryDAO) GetByConsentID(ctx context.Context, tx *database.Transaction, consentID string) ([]models.ConsentHistoryResource, error) {
	query := `
		SELECT HISTORY_ID, CONSENT_ID, CHANGED_VALUES, REASON, ACTION_BY, EFFECTIVE_TIMESTAMP
		FROM OB_CONSENT_HISTORY
		WHERE CONSENT_ID = ?
		ORDER BY EFFECTIVE_TIMESTAMP, HISTORY_ID
	`

	var history []models.ConsentHistoryResource
	if err := executor(dao.db, tx).SelectContext(ctx, &history, query, consentID); err != nil {
		return nil, fmt.Errorf("failed to get consent history: %w", err)
	}

	return history, nil
}
