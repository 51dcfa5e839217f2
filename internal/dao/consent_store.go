package dao

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
)

// ConsentStore groups the consent DAOs behind one transactional entry point
type ConsentStore struct {
	db            *database.DB
	Consents      *ConsentDAO
	AuthResources *AuthResourceDAO
	Mappings      *ConsentMappingDAO
	Attributes    *ConsentAttributeDAO
	Files         *ConsentFileDAO
	StatusAudits  *StatusAuditDAO
	History       *ConsentHistoryDAO
}

// NewConsentStore creates the DAOs over one database
func NewConsentStore(db *database.DB) *ConsentStore {
	return &ConsentStore{
		db:            db,
		Consents:      NewConsentDAO(db),
		AuthResources: NewAuthResourceDAO(db),
		Mappings:      NewConsentMappingDAO(db),
		Attributes:    NewConsentAttributeDAO(db),
		Files:         NewConsentFileDAO(db),
		StatusAudits:  NewStatusAuditDAO(db),
		History:       NewConsentHistoryDAO(db),
	}
}

// WithTransaction runs fn in one read-committed transaction
func (s *ConsentStore) WithTransaction(ctx context.Context, fn func(tx *database.Transaction) error) error {
	return s.db.WithTransaction(ctx, fn)
}

// GetDetailedConsent loads a consent aggregate. With lock set the consent row is
// locked for the rest of tx; tx must then be non-nil.
func (s *ConsentStore) GetDetailedConsent(ctx context.Context, tx *database.Transaction, consentID string, lock bool) (*models.DetailedConsentResource, error) {
	var consent *models.ConsentResource
	var err error
	if lock {
		consent, err = s.Consents.GetByIDForUpdate(ctx, tx, consentID)
	} else {
		consent, err = s.Consents.GetByID(ctx, tx, consentID)
	}
	if err != nil {
		return nil, err
	}

	details, err := s.assemble(ctx, tx, []models.ConsentResource{*consent})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// SearchDetailedConsents runs a consent search and assembles each hit into an aggregate
func (s *ConsentStore) SearchDetailedConsents(ctx context.Context, tx *database.Transaction, filter models.ConsentSearchFilter) ([]models.DetailedConsentResource, int, error) {
	consents, total, err := s.Consents.Search(ctx, tx, filter)
	if err != nil {
		return nil, 0, err
	}

	details, err := s.assemble(ctx, tx, consents)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// LoadDetailedConsents assembles aggregates for consents already read
func (s *ConsentStore) LoadDetailedConsents(ctx context.Context, tx *database.Transaction, consents []models.ConsentResource) ([]models.DetailedConsentResource, error) {
	return s.assemble(ctx, tx, consents)
}

// assemble batch-loads authorizations, mappings and attributes. Outside a
// transaction the two independent reads run concurrently on the pool.
func (s *ConsentStore) assemble(ctx context.Context, tx *database.Transaction, consents []models.ConsentResource) ([]models.DetailedConsentResource, error) {
	if len(consents) == 0 {
		return []models.DetailedConsentResource{}, nil
	}

	consentIDs := make([]string, 0, len(consents))
	for _, c := range consents {
		consentIDs = append(consentIDs, c.ConsentID)
	}

	var auths []models.AuthorizationResource
	var mappings []models.ConsentMappingResource
	var attributes map[string]map[string]string

	loadAuths := func(ctx context.Context) error {
		var err error
		auths, err = s.AuthResources.GetByConsentIDs(ctx, tx, consentIDs)
		if err != nil {
			return err
		}
		authIDs := make([]string, 0, len(auths))
		for _, a := range auths {
			authIDs = append(authIDs, a.AuthorizationID)
		}
		mappings, err = s.Mappings.GetByAuthIDs(ctx, tx, authIDs, "")
		return err
	}
	loadAttributes := func(ctx context.Context) error {
		var err error
		attributes, err = s.Attributes.GetByConsentIDs(ctx, tx, consentIDs)
		return err
	}

	if tx != nil {
		// a transaction owns a single connection
		if err := loadAuths(ctx); err != nil {
			return nil, err
		}
		if err := loadAttributes(ctx); err != nil {
			return nil, err
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return loadAuths(gctx) })
		g.Go(func() error { return loadAttributes(gctx) })
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	authsByConsent := make(map[string][]models.AuthorizationResource)
	consentByAuth := make(map[string]string, len(auths))
	for _, a := range auths {
		authsByConsent[a.ConsentID] = append(authsByConsent[a.ConsentID], a)
		consentByAuth[a.AuthorizationID] = a.ConsentID
	}

	mappingsByConsent := make(map[string][]models.ConsentMappingResource)
	for _, m := range mappings {
		consentID, ok := consentByAuth[m.AuthorizationID]
		if !ok {
			return nil, fmt.Errorf("mapping %s references unknown authorization %s", m.MappingID, m.AuthorizationID)
		}
		mappingsByConsent[consentID] = append(mappingsByConsent[consentID], m)
	}

	details := make([]models.DetailedConsentResource, 0, len(consents))
	for _, c := range consents {
		attrs := attributes[c.ConsentID]
		if attrs == nil {
			attrs = map[string]string{}
		}
		details = append(details, models.DetailedConsentResource{
			ConsentResource:   c,
			Authorizations:    authsByConsent[c.ConsentID],
			Mappings:          mappingsByConsent[c.ConsentID],
			ConsentAttributes: attrs,
		})
	}

	return details, nil
}

// Purge physically removes consents together with their authorizations, mappings, attributes and files.
// Audit records and amendment history are retained.
func (s *ConsentStore) Purge(ctx context.Context, tx *database.Transaction, consentIDs []string) (int64, error) {
	auths, err := s.AuthResources.GetByConsentIDs(ctx, tx, consentIDs)
	if err != nil {
		return 0, err
	}
	authIDs := make([]string, 0, len(auths))
	for _, a := range auths {
		authIDs = append(authIDs, a.AuthorizationID)
	}

	if err := s.Mappings.DeleteByAuthIDs(ctx, tx, authIDs); err != nil {
		return 0, err
	}
	if err := s.AuthResources.DeleteByConsentIDs(ctx, tx, consentIDs); err != nil {
		return 0, err
	}
	if err := s.Attributes.DeleteByConsentIDs(ctx, tx, consentIDs); err != nil {
		return 0, err
	}
	if err := s.Files.DeleteByConsentIDs(ctx, tx, consentIDs); err != nil {
		return 0, err
	}
	return s.Consents.DeleteByIDs(ctx, tx, consentIDs)
}
