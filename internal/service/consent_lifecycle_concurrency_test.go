package service

import (
	"sync"
	"sync/atomic"

	"github.com/wso2/ob-consent-mgt/internal/models"
)

func (s *ConsentLifecycleTestSuite) TestConcurrentBindsLeaveOneAccountSet() {
	consent := s.createConsent("", nil)
	inputs := []models.AccountsWithPermissions{
		{"acc-a": {"read"}, "acc-b": {"read"}},
		{"acc-c": {"write"}},
	}

	var (
		wg        sync.WaitGroup
		committed atomic.Int32
	)
	for _, accounts := range inputs {
		wg.Add(1)
		go func(accounts models.AccountsWithPermissions) {
			defer wg.Done()
			ok, err := s.lifecycle.BindUserAccountsToConsent(s.ctx, BindRequest{
				ConsentID:        consent.ConsentID,
				AuthID:           consent.Authorizations[0].AuthorizationID,
				UserID:           "user-1",
				Accounts:         accounts,
				NewAuthStatus:    statusAuthorized,
				NewConsentStatus: statusAuthorized,
			})
			if err == nil && ok {
				committed.Add(1)
			}
		}(accounts)
	}
	wg.Wait()
	s.Require().Positive(committed.Load())

	final := s.get(consent.ConsentID)
	s.Equal(statusAuthorized, final.CurrentStatus)
	got := make(map[models.AccountPermission]bool)
	for _, pair := range activePairs(final) {
		got[pair] = true
	}
	matched := 0
	for _, accounts := range inputs {
		want := make(map[models.AccountPermission]bool)
		for accountID, permissions := range accounts {
			for _, permission := range permissions {
				want[models.AccountPermission{AccountID: accountID, Permission: permission}] = true
			}
		}
		if s.mapsEqual(want, got) {
			matched++
		}
	}
	s.Equal(1, matched, "active mappings %v must equal exactly one bind input", got)

	// creation plus the single created to authorized change; a bind that keeps
	// the consent authorized is not audited
	s.Equal([][2]string{{"", statusCreated}, {statusCreated, statusAuthorized}}, s.audit(consent.ConsentID))
}

func (s *ConsentLifecycleTestSuite) mapsEqual(a, b map[models.AccountPermission]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func (s *ConsentLifecycleTestSuite) TestExclusiveCreateIsAtomicForReaders() {
	existing := s.createConsent("user-1", nil)
	s.authorize(existing, "user-1", models.AccountsWithPermissions{"acc-1": {"read"}})

	done := make(chan struct{})
	violations := make(chan string, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		report := func(msg string) {
			select {
			case violations <- msg:
			default:
			}
		}
		for {
			select {
			case <-done:
				return
			default:
			}

			// the replacement is observed first: the old consent must already be retired
			replacements, _, err := s.lifecycle.SearchDetailedConsents(s.ctx, models.ConsentSearchFilter{
				UserIDs:         []string{"user-1"},
				ConsentStatuses: []string{statusCreated},
			})
			if err != nil {
				report(err.Error())
				return
			}
			old, err := s.lifecycle.GetDetailedConsent(s.ctx, existing.ConsentID)
			if err != nil {
				report(err.Error())
				return
			}
			if len(replacements) > 0 && old.CurrentStatus != statusRevoked {
				report("replacement visible while the old consent is " + old.CurrentStatus)
				return
			}
			if old.CurrentStatus == statusRevoked && len(old.ActiveMappings()) > 0 {
				report("revoked consent still has active mappings")
				return
			}
		}
	}()

	created, err := s.lifecycle.CreateExclusiveConsent(s.ctx, ExclusiveConsentRequest{
		CreateConsentRequest: CreateConsentRequest{
			Consent:      models.ConsentResource{ClientID: testClientID, ConsentType: testConsentType, CurrentStatus: statusCreated},
			UserID:       "user-1",
			AuthStatus:   statusCreated,
			AuthType:     "authorisation",
			ImplicitAuth: true,
		},
		ApplicableExistingStatuses: []string{statusAuthorized},
		NewExistingStatus:          statusRevoked,
	})
	close(done)
	wg.Wait()
	s.Require().NoError(err)

	select {
	case msg := <-violations:
		s.Fail(msg)
	default:
	}
	s.Equal(statusRevoked, s.get(existing.ConsentID).CurrentStatus)
	s.Equal(statusCreated, s.get(created.ConsentID).CurrentStatus)
}
