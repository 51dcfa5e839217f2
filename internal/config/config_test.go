package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sqliteConfig = `
server:
  port: 8080
database:
  consent:
    type: sqlite3
    database: /tmp/consents.db
consent:
  status_mappings:
    created_status: created
    active_status: authorised
    rejected_status: rejected
    revoked_status: revoked
    expired_status: expired
  transitions:
    - from: awaitingAuthorization
      to: [authorised, rejected]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sqliteConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite3", cfg.Database.Consent.Type)
	assert.Equal(t, "ExpirationDateTime", cfg.Consent.ExpiryAttributeKey)
	assert.Equal(t, "replaced", cfg.Consent.AuthStatusMappings.ReplacedStatus)
	assert.Equal(t, []string{"authorised", "rejected"}, cfg.Consent.TransitionGraph()["awaitingAuthorization"])
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	body := `
server:
  port: 8080
database:
  consent:
    type: oracle
    database: consents
`
	_, err := Load(writeConfig(t, body))
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestLoad_RequiresStatusMappings(t *testing.T) {
	body := `
server:
  port: 8080
database:
  consent:
    type: sqlite3
    database: consents.db
`
	_, err := Load(writeConfig(t, body))
	assert.ErrorContains(t, err, "status mapping is required")
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	mysql := DatabaseConfig{Type: "mysql", User: "u", Password: "p", Hostname: "db", Port: 3306, Database: "consent"}
	assert.Equal(t, "u:p@tcp(db:3306)/consent?parseTime=true&multiStatements=true&clientFoundRows=true", mysql.GetDSN())

	sqlite := DatabaseConfig{Type: "sqlite3", Database: "consent.db"}
	assert.Equal(t, "file:consent.db?_txlock=immediate&_foreign_keys=on&_busy_timeout=5000", sqlite.GetDSN())
}

func TestConsentConfig_IsTerminalStatus(t *testing.T) {
	c := ConsentConfig{StatusMappings: ConsentStatusMappings{RevokedStatus: "revoked", ExpiredStatus: "expired"}}
	assert.True(t, c.IsTerminalStatus("revoked"))
	assert.True(t, c.IsTerminalStatus("expired"))
	assert.False(t, c.IsTerminalStatus("authorised"))
}
