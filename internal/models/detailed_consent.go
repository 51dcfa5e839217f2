package models

// DetailedConsentResource is the in-memory aggregate of a consent with its
// authorizations, account mappings and attributes
type DetailedConsentResource struct {
	ConsentResource
	Authorizations    []AuthorizationResource  `json:"authorizationResources"`
	Mappings          []ConsentMappingResource `json:"consentMappingResources"`
	ConsentAttributes map[string]string        `json:"consentAttributes"`
}

// Authorization returns the authorization with the given ID
func (d *DetailedConsentResource) Authorization(authID string) (*AuthorizationResource, bool) {
	for i := range d.Authorizations {
		if d.Authorizations[i].AuthorizationID == authID {
			return &d.Authorizations[i], true
		}
	}
	return nil, false
}

// AuthorizationsForUser returns the authorizations bound to the given user
func (d *DetailedConsentResource) AuthorizationsForUser(userID string) []AuthorizationResource {
	var out []AuthorizationResource
	for _, a := range d.Authorizations {
		if a.GetUserID() == userID {
			out = append(out, a)
		}
	}
	return out
}

// MappingsFor returns the mappings under the given authorization
func (d *DetailedConsentResource) MappingsFor(authID string) []ConsentMappingResource {
	var out []ConsentMappingResource
	for _, m := range d.Mappings {
		if m.AuthorizationID == authID {
			out = append(out, m)
		}
	}
	return out
}

// ActiveMappings returns every active mapping of the consent
func (d *DetailedConsentResource) ActiveMappings() []ConsentMappingResource {
	var out []ConsentMappingResource
	for _, m := range d.Mappings {
		if m.IsActive() {
			out = append(out, m)
		}
	}
	return out
}

// AuthorizationIDs returns the IDs of all authorizations of the consent
func (d *DetailedConsentResource) AuthorizationIDs() []string {
	ids := make([]string, 0, len(d.Authorizations))
	for _, a := range d.Authorizations {
		ids = append(ids, a.AuthorizationID)
	}
	return ids
}
