package dao

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
)

// StatusAuditDAO handles database operations for consent status audit.
// The ledger is append only; there is no update or delete.
type StatusAuditDAO struct {
	db *database.DB
}

// NewStatusAuditDAO creates a new StatusAuditDAO instance
func NewStatusAuditDAO(db *database.DB) *StatusAuditDAO {
	return &StatusAuditDAO{db: db}
}

// Create inserts a new status audit record
func (dao *StatusAuditDAO) Create(ctx context.Context, tx *database.Transaction, audit *models.ConsentStatusAuditRecord) error {
	query := `
		INSERT INTO OB_CONSENT_STATUS_AUDIT (
			STATUS_AUDIT_ID, CONSENT_ID, CURRENT_STATUS, ACTION_TIME,
			REASON, ACTION_BY, PREVIOUS_STATUS
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := executor(dao.db, tx).ExecContext(
		ctx,
		query,
		audit.StatusAuditID,
		audit.ConsentID,
		audit.CurrentStatus,
		audit.ActionTime,
		audit.Reason,
		audit.ActionBy,
		audit.PreviousStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to create status audit: %w", err)
	}

	return nil
}

// Search retrieves audit records matching all supplied filters, oldest first
func (dao *StatusAuditDAO) Search(ctx context.Context, tx *database.Transaction, filter models.AuditSearchFilter) ([]models.ConsentStatusAuditRecord, error) {
	var conditions []string
	var args []interface{}

	if len(filter.ConsentIDs) > 0 {
		conditions = append(conditions, "CONSENT_ID IN (?)")
		args = append(args, filter.ConsentIDs)
	}
	if filter.Status != "" {
		conditions = append(conditions, "CURRENT_STATUS = ?")
		args = append(args, filter.Status)
	}
	if filter.ActionBy != "" {
		conditions = append(conditions, "ACTION_BY = ?")
		args = append(args, filter.ActionBy)
	}
	if filter.AuditID != "" {
		conditions = append(conditions, "STATUS_AUDIT_ID = ?")
		args = append(args, filter.AuditID)
	}
	if filter.FromTime != nil {
		conditions = append(conditions, "ACTION_TIME >= ?")
		args = append(args, *filter.FromTime)
	}
	if filter.ToTime != nil {
		conditions = append(conditions, "ACTION_TIME <= ?")
		args = append(args, *filter.ToTime)
	}

	query := `
		SELECT STATUS_AUDIT_ID, CONSENT_ID, CURRENT_STATUS, ACTION_TIME,
		       REASON, ACTION_BY, PREVIOUS_STATUS
		FROM OB_CONSENT_STATUS_AUDIT`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ACTION_TIME, STATUS_AUDIT_ID"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build status audit query: %w", err)
	}

	exec := executor(dao.db, tx)
	var audits []models.ConsentStatusAuditRecord
	if err := exec.SelectContext(ctx, &audits, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to search status audits: %w", err)
	}

	return audits, nil
}
