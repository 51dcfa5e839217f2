package tokenclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/wso2/ob-consent-mgt/internal/config"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/utils"
)

// RevocationRequest is the payload posted to the identity provider
type RevocationRequest struct {
	ConsentID        string   `json:"consentId"`
	ClientID         string   `json:"clientId"`
	OrgID            string   `json:"orgId"`
	ConsentType      string   `json:"consentType"`
	UserID           string   `json:"userId,omitempty"`
	AuthorizationIDs []string `json:"authorizationIds"`
}

// RevocationResponse is the identity provider's answer
type RevocationResponse struct {
	Revoked      int    `json:"revoked"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// RevocationClient revokes the access tokens of a consent over HTTP
type RevocationClient struct {
	httpClient *http.Client
	config     config.TokenRevocationConfig
	logger     *logrus.Logger
}

// NewRevocationClient creates a new revocation client instance
func NewRevocationClient(cfg config.TokenRevocationConfig, logger *logrus.Logger) *RevocationClient {
	timeout := 10 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	if cfg.TokenURL != "" {
		credentials := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		base := httpClient
		httpClient = credentials.Client(context.WithValue(context.Background(), oauth2.HTTPClient, base))
		httpClient.Timeout = timeout
	}

	return &RevocationClient{
		httpClient: httpClient,
		config:     cfg,
		logger:     logger,
	}
}

// RevokeTokens posts the consent's authorizations to the revocation endpoint.
// Only a 2xx answer counts as revoked.
func (c *RevocationClient) RevokeTokens(ctx context.Context, consent *models.DetailedConsentResource, userID string) error {
	request := BuildRevocationRequest(consent, userID)

	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal revocation request: %w", err)
	}

	url := c.config.BaseURL + c.config.Path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if correlationID := utils.CorrelationIDFrom(ctx); correlationID != "" {
		req.Header.Set("X-Correlation-ID", correlationID)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("token revocation call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read revocation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp RevocationResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.ErrorMessage != "" {
			return fmt.Errorf("token revocation returned status %d: %s: %s", resp.StatusCode, errResp.ErrorCode, errResp.ErrorMessage)
		}
		return fmt.Errorf("token revocation returned status %d: %s", resp.StatusCode, string(body))
	}

	var result RevocationResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return fmt.Errorf("failed to unmarshal revocation response: %w", err)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"consent_id":  consent.ConsentID,
		"status_code": resp.StatusCode,
		"revoked":     result.Revoked,
		"duration":    duration,
	}).Info("Consent tokens revoked")
	return nil
}

// BuildRevocationRequest creates a RevocationRequest from a consent aggregate
func BuildRevocationRequest(consent *models.DetailedConsentResource, userID string) *RevocationRequest {
	authIDs := make([]string, 0, len(consent.Authorizations))
	for _, auth := range consent.Authorizations {
		if userID != "" && auth.GetUserID() != userID {
			continue
		}
		authIDs = append(authIDs, auth.AuthorizationID)
	}

	return &RevocationRequest{
		ConsentID:        consent.ConsentID,
		ClientID:         consent.ClientID,
		OrgID:            consent.OrgID,
		ConsentType:      consent.ConsentType,
		UserID:           userID,
		AuthorizationIDs: authIDs,
	}
}

// Close closes the HTTP client connections
func (c *RevocationClient) Close() {
	c.httpClient.CloseIdleConnections()
}
