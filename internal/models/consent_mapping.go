package models

import "sort"

// Mapping statuses
const (
	MappingStatusActive   = "active"
	MappingStatusInactive = "inactive"
)

// NotApplicable is the reserved account/permission bound when a consent has no concrete resource
const NotApplicable = "n/a"

// ConsentMappingResource represents the OB_CONSENT_MAPPING table
type ConsentMappingResource struct {
	MappingID       string `db:"MAPPING_ID" json:"mappingId"`
	AuthorizationID string `db:"AUTH_ID" json:"authorizationId"`
	AccountID       string `db:"ACCOUNT_ID" json:"accountId"`
	Permission      string `db:"PERMISSION" json:"permission"`
	MappingStatus   string `db:"MAPPING_STATUS" json:"mappingStatus"`
}

// IsActive reports whether the mapping is part of the authorization's current binding
func (m *ConsentMappingResource) IsActive() bool {
	return m.MappingStatus == MappingStatusActive
}

// AccountPermission identifies one account+permission pair
type AccountPermission struct {
	AccountID  string
	Permission string
}

// Key returns the pair identity of the mapping
func (m *ConsentMappingResource) Key() AccountPermission {
	return AccountPermission{AccountID: m.AccountID, Permission: m.Permission}
}

// AccountsWithPermissions maps an account ID to the permissions consented for it
type AccountsWithPermissions map[string][]string

// AccountsWithoutPermissions builds a binding for plain account lists, using the n/a permission
func AccountsWithoutPermissions(accountIDs []string) AccountsWithPermissions {
	accounts := make(AccountsWithPermissions, len(accountIDs))
	for _, id := range accountIDs {
		accounts[id] = []string{NotApplicable}
	}
	return accounts
}

// Pairs flattens the map into its distinct account+permission pairs, ordered by account then permission
func (a AccountsWithPermissions) Pairs() []AccountPermission {
	seen := make(map[AccountPermission]struct{})
	var pairs []AccountPermission
	for account, permissions := range a {
		for _, permission := range permissions {
			p := AccountPermission{AccountID: account, Permission: permission}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			pairs = append(pairs, p)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].AccountID != pairs[j].AccountID {
			return pairs[i].AccountID < pairs[j].AccountID
		}
		return pairs[i].Permission < pairs[j].Permission
	})
	return pairs
}
