package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/wso2/ob-consent-mgt/internal/models"
)

// TokenRevoker invalidates access tokens issued against a consent. It is called
// after the revocation has committed; failures do not undo the revocation.
type TokenRevoker interface {
	RevokeTokens(ctx context.Context, consent *models.DetailedConsentResource, userID string) error
}

// LoggingTokenRevoker records revocation requests without contacting an identity provider
type LoggingTokenRevoker struct {
	logger *logrus.Logger
}

// NewLoggingTokenRevoker creates a LoggingTokenRevoker
func NewLoggingTokenRevoker(logger *logrus.Logger) *LoggingTokenRevoker {
	return &LoggingTokenRevoker{logger: logger}
}

func (r *LoggingTokenRevoker) RevokeTokens(ctx context.Context, consent *models.DetailedConsentResource, userID string) error {
	r.logger.WithFields(logrus.Fields{
		"consent_id":     consent.ConsentID,
		"client_id":      consent.ClientID,
		"user_id":        userID,
		"authorizations": len(consent.Authorizations),
	}).Info("Token revocation requested for consent")
	return nil
}
