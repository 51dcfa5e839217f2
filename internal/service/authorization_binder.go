package service

import (
	"context"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
	"github.com/wso2/ob-consent-mgt/pkg/utils"
)

// MappingStore persists account mappings
type MappingStore interface {
	Create(ctx context.Context, tx *database.Transaction, mappings []models.ConsentMappingResource) error
	GetByAuthIDs(ctx context.Context, tx *database.Transaction, authIDs []string, status string) ([]models.ConsentMappingResource, error)
	UpdateStatus(ctx context.Context, tx *database.Transaction, mappingIDs []string, status string) error
	DeactivateByAuthIDs(ctx context.Context, tx *database.Transaction, authIDs []string) (int64, error)
}

// BindResult describes what one Bind call changed
type BindResult struct {
	Active      []models.ConsentMappingResource
	Created     int
	Deactivated int
}

// AuthorizationBinder reconciles the active mappings of an authorization with a
// desired account set. Mappings are never deleted, only moved to inactive.
type AuthorizationBinder struct {
	store MappingStore
}

// NewAuthorizationBinder creates an AuthorizationBinder over store
func NewAuthorizationBinder(store MappingStore) *AuthorizationBinder {
	return &AuthorizationBinder{store: store}
}

// Bind makes the active mappings of authID equal to desired. An unapproved bind
// with no accounts records the n/a sentinel; an approved one is rejected.
// Binding the same set twice changes nothing.
func (b *AuthorizationBinder) Bind(ctx context.Context, tx *database.Transaction, authID string, desired models.AccountsWithPermissions, approved bool) (*BindResult, error) {
	if authID == "" {
		return nil, serviceerror.Validation("authorization ID is required to bind accounts")
	}

	pairs := desired.Pairs()
	if len(pairs) == 0 {
		if approved {
			return nil, serviceerror.Validation("no accounts were consented for authorization %s", authID)
		}
		pairs = []models.AccountPermission{{AccountID: models.NotApplicable, Permission: models.NotApplicable}}
	}
	for _, p := range pairs {
		if p.AccountID == "" || p.Permission == "" {
			return nil, serviceerror.Validation("account ID and permission must not be empty")
		}
		if err := fitColumns(utils.MaxIdentifierLength, [2]string{"accountID", p.AccountID}, [2]string{"permission", p.Permission}); err != nil {
			return nil, err
		}
	}

	current, err := b.store.GetByAuthIDs(ctx, tx, []string{authID}, models.MappingStatusActive)
	if err != nil {
		return nil, err
	}

	wanted := make(map[models.AccountPermission]struct{}, len(pairs))
	for _, p := range pairs {
		wanted[p] = struct{}{}
	}

	result := &BindResult{}
	kept := make(map[models.AccountPermission]struct{}, len(current))
	var stale []string
	for _, m := range current {
		key := m.Key()
		_, isWanted := wanted[key]
		_, isDuplicate := kept[key]
		if !isWanted || isDuplicate {
			stale = append(stale, m.MappingID)
			continue
		}
		kept[key] = struct{}{}
		result.Active = append(result.Active, m)
	}

	var created []models.ConsentMappingResource
	for _, p := range pairs {
		if _, ok := kept[p]; ok {
			continue
		}
		created = append(created, models.ConsentMappingResource{
			MappingID:       utils.GenerateMappingID(),
			AuthorizationID: authID,
			AccountID:       p.AccountID,
			Permission:      p.Permission,
			MappingStatus:   models.MappingStatusActive,
		})
	}

	if len(stale) > 0 {
		if err := b.store.UpdateStatus(ctx, tx, stale, models.MappingStatusInactive); err != nil {
			return nil, err
		}
	}
	if len(created) > 0 {
		if err := b.store.Create(ctx, tx, created); err != nil {
			return nil, err
		}
	}

	result.Active = append(result.Active, created...)
	result.Created = len(created)
	result.Deactivated = len(stale)
	return result, nil
}

// Deactivate moves every active mapping of the given authorizations to inactive
func (b *AuthorizationBinder) Deactivate(ctx context.Context, tx *database.Transaction, authIDs []string) (int, error) {
	if len(authIDs) == 0 {
		return 0, nil
	}
	n, err := b.store.DeactivateByAuthIDs(ctx, tx, authIDs)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
