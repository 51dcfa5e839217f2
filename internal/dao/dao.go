package dao

import (
	"errors"

	"github.com/wso2/ob-consent-mgt/internal/database"
)

var (
	// ErrRecordNotFound is returned when a looked up row does not exist
	ErrRecordNotFound = errors.New("record not found")
	// ErrStaleStatus is returned when a compare-and-swap status update matched no row
	ErrStaleStatus = errors.New("status changed concurrently")
)

// executor returns the transaction when present, otherwise the pooled connection
func executor(db *database.DB, tx *database.Transaction) database.Executor {
	if tx != nil {
		return tx
	}
	return db
}
