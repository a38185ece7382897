package bootstrap

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/de-tools/reporter/pkg/services/config"
	"github.com/de-tools/reporter/pkg/services/discovery"
	"github.com/de-tools/reporter/pkg/services/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings(t *testing.T) *config.Settings {
	return &config.Settings{
		TmpDir:        t.TempDir(),
		InstalledApps: []string{"auth", "admin"},
		Mail:          config.MailSettings{From: "reports@example.com"},
		Database: config.DatabaseSettings{
			Driver: "sqlite",
			DSN:    filepath.Join(t.TempDir(), "app.db"),
		},
		Reports: map[string]config.ReportSettings{
			"admin_log": {Recipients: []string{"ops@example.com"}},
		},
	}
}

func TestNewEnvironment_DiscoversInstalledApps(t *testing.T) {
	ctx := context.Background()
	cfg := testSettings(t)

	env, err := NewEnvironment(ctx, cfg, &bytes.Buffer{})
	require.NoError(t, err)
	defer func() { assert.NoError(t, env.Close()) }()

	require.NoError(t, env.Discover(ctx))
	assert.Equal(t, []string{"admin_log"}, env.Registry.ListNames())

	// discovery can be triggered again without duplicate registration errors
	require.NoError(t, env.Discover(ctx))

	def, err := env.Registry.Get("admin_log")
	require.NoError(t, err)
	assert.Equal(t, "Send full admin log info for the day, broken down by user", def.Description())

	assert.Equal(t, cfg.TmpDir, env.Dependencies.TmpDir)
	assert.Equal(t, "reports@example.com", env.Dependencies.From)
	assert.IsType(t, &mail.ConsoleMailer{}, env.Dependencies.Mailer)
	assert.Nil(t, env.Dependencies.Archiver)
}

func TestNewEnvironment_SMTPMailer(t *testing.T) {
	cfg := testSettings(t)
	cfg.Mail.SMTP = config.SMTPSettings{Host: "smtp.example.com", Port: 25}

	env, err := NewEnvironment(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	defer env.Close()

	assert.IsType(t, &mail.SMTPMailer{}, env.Dependencies.Mailer)
}

func TestNewEnvironment_UnknownApp(t *testing.T) {
	cfg := testSettings(t)
	cfg.InstalledApps = []string{"admin", "billing"}

	env, err := NewEnvironment(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	defer env.Close()

	assert.ErrorIs(t, env.Discover(context.Background()), discovery.ErrAppNotFound)
}

func TestNewEnvironment_UnsupportedDriver(t *testing.T) {
	cfg := testSettings(t)
	cfg.Database.Driver = "mssql"

	_, err := NewEnvironment(context.Background(), cfg, &bytes.Buffer{})

	assert.Error(t, err)
}
