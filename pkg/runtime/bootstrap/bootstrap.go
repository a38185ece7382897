package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/reporter/pkg/reports"
	"github.com/de-tools/reporter/pkg/runtime/terminal/commands"
	"github.com/de-tools/reporter/pkg/services/config"
	"github.com/de-tools/reporter/pkg/services/discovery"
	"github.com/de-tools/reporter/pkg/services/mail"
	"github.com/de-tools/reporter/pkg/services/registry"
	"github.com/de-tools/reporter/pkg/services/report"
	"github.com/de-tools/reporter/pkg/store/archive"
	sqlstore "github.com/de-tools/reporter/pkg/store/sql"
	"github.com/rs/zerolog"
)

// Setup loads the configuration and wires the registry, discovery, data
// stores and delivery collaborators used by the commands.
func Setup(ctx context.Context, configPath string) (*commands.Environment, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return NewEnvironment(ctx, cfg, os.Stdout)
}

// NewEnvironment wires an environment from already loaded settings. Console
// mail is written to out.
func NewEnvironment(ctx context.Context, cfg *config.Settings, out io.Writer) (*commands.Environment, error) {
	logger := zerolog.Ctx(ctx)

	db, err := sqlstore.Open(sqlstore.Settings{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	reg := registry.New()
	discoverer := discovery.NewDiscoverer(reg, reports.Catalog(reports.Dependencies{
		DB:       db,
		Settings: cfg,
	}))

	deps := report.Dependencies{
		Mailer: newMailer(cfg.Mail, out),
		TmpDir: cfg.TmpDir,
		From:   cfg.Mail.From,
	}

	if cfg.Archive.S3.Bucket != "" {
		client, err := archive.LoadClient(ctx, cfg.Archive.S3.Region, cfg.Archive.S3.Profile)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		deps.Archiver = archive.NewS3Archiver(client, cfg.Archive.S3.Bucket, cfg.Archive.S3.Prefix)
		logger.Debug().Str("bucket", cfg.Archive.S3.Bucket).Msg("report archiving enabled")
	}

	installed := append([]string(nil), cfg.InstalledApps...)
	return &commands.Environment{
		Registry: reg,
		Discover: func(ctx context.Context) error {
			return discoverer.Discover(ctx, installed)
		},
		Dependencies: deps,
		Close:        db.Close,
	}, nil
}

func newMailer(cfg config.MailSettings, out io.Writer) mail.Mailer {
	if cfg.SMTP.Host == "" {
		return mail.NewConsoleMailer(out)
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	})
}
