package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database DatabasesConfig `mapstructure:"database"`
	Logging  LoggingConfig   `mapstructure:"logging"`
	Consent  ConsentConfig   `mapstructure:"consent"`
	Security SecurityConfig  `mapstructure:"security"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`
	// TokenRevocation points at the identity provider that invalidates tokens of revoked consents
	TokenRevocation TokenRevocationConfig `mapstructure:"token_revocation"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Hostname     string        `mapstructure:"hostname"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`
}

// DatabasesConfig holds all database configurations
type DatabasesConfig struct {
	Consent DatabaseConfig `mapstructure:"consent"`
}

// DatabaseConfig holds individual database configuration
type DatabaseConfig struct {
	// Type is either "mysql" or "sqlite3"
	Type            string        `mapstructure:"type"`
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ConsentConfig holds consent-related configuration
type ConsentConfig struct {
	StatusMappings     ConsentStatusMappings `mapstructure:"status_mappings"`
	AuthStatusMappings AuthStatusMappings    `mapstructure:"auth_status_mappings"`
	// Transitions is the legal consent status graph.
	// An empty graph means every transition is accepted.
	Transitions        []StatusTransition `mapstructure:"transitions"`
	ExpiryAttributeKey string             `mapstructure:"expiry_attribute_key"`
	RevokeTokens       bool               `mapstructure:"revoke_tokens"`
}

// StatusTransition lists the statuses reachable from one source status.
// Kept as a list because viper lower-cases map keys.
type StatusTransition struct {
	From string   `mapstructure:"from"`
	To   []string `mapstructure:"to"`
}

// ConsentStatusMappings holds the mapping of specific consent lifecycle states
type ConsentStatusMappings struct {
	ActiveStatus   string `mapstructure:"active_status"`
	ExpiredStatus  string `mapstructure:"expired_status"`
	RevokedStatus  string `mapstructure:"revoked_status"`
	CreatedStatus  string `mapstructure:"created_status"`
	RejectedStatus string `mapstructure:"rejected_status"`
}

// AuthStatusMappings holds the authorization states used by the lifecycle
type AuthStatusMappings struct {
	CreatedStatus    string `mapstructure:"created_status"`
	AuthorizedStatus string `mapstructure:"authorized_status"`
	RejectedStatus   string `mapstructure:"rejected_status"`
	// ReplacedStatus is applied to an authorization superseded by re-authorization
	ReplacedStatus string `mapstructure:"replaced_status"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	BasicAuth BasicAuthConfig `mapstructure:"basic_auth"`
}

// BasicAuthConfig holds basic authentication configuration
type BasicAuthConfig struct {
	Enabled bool            `mapstructure:"enabled"`
	Users   []BasicAuthUser `mapstructure:"users"`
}

// BasicAuthUser represents a basic auth user
type BasicAuthUser struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// MetricsConfig holds Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TokenRevocationConfig holds the token revocation endpoint.
// An empty BaseURL keeps revocation requests in the log only.
// With a TokenURL the client authenticates using the OAuth2 client credentials grant.
type TokenRevocationConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Path         string        `mapstructure:"path"`
	Timeout      time.Duration `mapstructure:"timeout"`
	TokenURL     string        `mapstructure:"token_url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Scopes       []string      `mapstructure:"scopes"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("CONSENT_MGT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.hostname", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 15*time.Second)
	v.SetDefault("server.idleTimeout", 60*time.Second)

	v.SetDefault("database.consent.type", "mysql")
	v.SetDefault("database.consent.max_open_conns", 25)
	v.SetDefault("database.consent.max_idle_conns", 5)
	v.SetDefault("database.consent.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("consent.expiry_attribute_key", "ExpirationDateTime")
	v.SetDefault("consent.auth_status_mappings.created_status", "created")
	v.SetDefault("consent.auth_status_mappings.authorized_status", "authorised")
	v.SetDefault("consent.auth_status_mappings.rejected_status", "rejected")
	v.SetDefault("consent.auth_status_mappings.replaced_status", "replaced")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("token_revocation.path", "/consents/tokens/revoke")
	v.SetDefault("token_revocation.timeout", 10*time.Second)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	db := config.Database.Consent
	switch db.Type {
	case "mysql":
		if db.Hostname == "" {
			return fmt.Errorf("database hostname is required")
		}
	case "sqlite3":
	default:
		return fmt.Errorf("unsupported database type: %q", db.Type)
	}

	if db.Database == "" {
		return fmt.Errorf("database name is required")
	}

	m := config.Consent.StatusMappings
	required := map[string]string{
		"active":   m.ActiveStatus,
		"expired":  m.ExpiredStatus,
		"revoked":  m.RevokedStatus,
		"created":  m.CreatedStatus,
		"rejected": m.RejectedStatus,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s status mapping is required", name)
		}
	}

	if config.Consent.ExpiryAttributeKey == "" {
		return fmt.Errorf("expiry attribute key is required")
	}

	for _, t := range config.Consent.Transitions {
		if t.From == "" {
			return fmt.Errorf("transition graph contains an empty source status")
		}
		for _, to := range t.To {
			if to == "" {
				return fmt.Errorf("transition graph entry for %q contains an empty target status", t.From)
			}
		}
	}

	return nil
}

// GetDSN returns the database connection string for the configured driver
func (d *DatabaseConfig) GetDSN() string {
	if d.Type == "sqlite3" {
		return fmt.Sprintf("file:%s?_txlock=immediate&_foreign_keys=on&_busy_timeout=5000", d.Database)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true&clientFoundRows=true",
		d.User,
		d.Password,
		d.Hostname,
		d.Port,
		d.Database,
	)
}

// GetServerAddress returns the server address in host:port format
func (s *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", s.Hostname, s.Port)
}

// IsBasicAuthEnabled returns whether basic auth is enabled
func (s *SecurityConfig) IsBasicAuthEnabled() bool {
	return s.BasicAuth.Enabled && len(s.BasicAuth.Users) > 0
}

// Accounts returns the configured basic auth users as a username to password map
func (s *SecurityConfig) Accounts() map[string]string {
	accounts := make(map[string]string, len(s.BasicAuth.Users))
	for _, user := range s.BasicAuth.Users {
		accounts[user.Username] = user.Password
	}
	return accounts
}

// IsRevokedStatus checks if the given status represents a revoked consent
func (c *ConsentConfig) IsRevokedStatus(status string) bool {
	return status == c.StatusMappings.RevokedStatus
}

// IsTerminalStatus checks if the given status is a terminal state (expired or revoked)
func (c *ConsentConfig) IsTerminalStatus(status string) bool {
	return status == c.StatusMappings.ExpiredStatus || status == c.StatusMappings.RevokedStatus
}

// TransitionGraph returns the configured transitions keyed by source status
func (c *ConsentConfig) TransitionGraph() map[string][]string {
	graph := make(map[string][]string, len(c.Transitions))
	for _, t := range c.Transitions {
		graph[t.From] = append(graph[t.From], t.To...)
	}
	return graph
}

// GetAllowedStatuses returns a list of all configured consent statuses
func (c *ConsentConfig) GetAllowedStatuses() []string {
	return []string{
		c.StatusMappings.CreatedStatus,
		c.StatusMappings.ActiveStatus,
		c.StatusMappings.RejectedStatus,
		c.StatusMappings.RevokedStatus,
		c.StatusMappings.ExpiredStatus,
	}
}
