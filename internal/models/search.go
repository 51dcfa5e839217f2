package models

// ConsentSearchFilter holds the conjunctive consent search filters.
// Empty slices and nil times do not constrain the search.
type ConsentSearchFilter struct {
	ConsentIDs      []string
	ClientIDs       []string
	ConsentTypes    []string
	ConsentStatuses []string
	UserIDs         []string
	FromTime        *int64
	ToTime          *int64
	Limit           int
	Offset          int
}

// AuthorizationSearchFilter holds the authorization search filters
type AuthorizationSearchFilter struct {
	ConsentID string
	UserID    string
}
