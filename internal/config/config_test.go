package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
database:
  driver: mysql
  url: user:pass@tcp(localhost:3306)/campaigns
jwt:
  secret: from-file
workflow:
  appeal_form_name: dispute form
`), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "dispute form", cfg.Workflow.AppealFormName)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 90, cfg.Notifications.RetentionDays)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, "appeal form", cfg.Workflow.AppealFormName)
	assert.Equal(t, 60, cfg.Notifications.CleanupMinutes)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EmailSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
email:
  enabled: false
  smtp_host: smtp.example.com
  from_name: CampaignHub
`), 0o600))

	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("SMTP_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Email.Enabled)
	assert.Equal(t, "smtp.example.com", cfg.Email.SMTPHost)
	assert.Equal(t, "secret", cfg.Email.SMTPPassword)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
}
