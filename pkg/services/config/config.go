package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigFile is looked up in the XDG config directories when no
// explicit path is given.
const DefaultConfigFile = "reporter/config.yaml"

const envPrefix = "REPORTER"

var ErrInvalidConfig = errors.New("invalid configuration")

type Settings struct {
	TmpDir        string                    `mapstructure:"tmp_dir"`
	InstalledApps []string                  `mapstructure:"installed_apps"`
	Mail          MailSettings              `mapstructure:"mail"`
	Database      DatabaseSettings          `mapstructure:"database"`
	Archive       ArchiveSettings           `mapstructure:"archive"`
	Reports       map[string]ReportSettings `mapstructure:"reports"`
}

type MailSettings struct {
	From string       `mapstructure:"from"`
	SMTP SMTPSettings `mapstructure:"smtp"`
}

type SMTPSettings struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type DatabaseSettings struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type ArchiveSettings struct {
	S3 S3Settings `mapstructure:"s3"`
}

type S3Settings struct {
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

type ReportSettings struct {
	Recipients []string `mapstructure:"recipients"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tmp_dir", "/tmp")
	v.SetDefault("installed_apps", []string{"admin"})
	v.SetDefault("mail.from", "webmaster@localhost")
	v.SetDefault("mail.smtp.host", "")
	v.SetDefault("mail.smtp.port", 25)
	v.SetDefault("mail.smtp.username", "")
	v.SetDefault("mail.smtp.password", "")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "reporter.db")
	v.SetDefault("archive.s3.bucket", "")
	v.SetDefault("archive.s3.prefix", "reports")
	v.SetDefault("archive.s3.region", "us-east-1")
	v.SetDefault("archive.s3.profile", "")
}

// Load reads settings from path, or from the XDG config file when path is
// empty and one exists. A .env file in the working directory and REPORTER_*
// environment variables override file values.
func Load(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if found, err := xdg.SearchConfigFile(DefaultConfigFile); err == nil {
			path = found
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Settings) Validate() error {
	if s.TmpDir == "" {
		return fmt.Errorf("%w: tmp_dir is required", ErrInvalidConfig)
	}
	if s.Database.Driver == "" {
		return fmt.Errorf("%w: database.driver is required", ErrInvalidConfig)
	}
	if s.Mail.SMTP.Host != "" && s.Mail.SMTP.Port <= 0 {
		return fmt.Errorf("%w: mail.smtp.port must be positive", ErrInvalidConfig)
	}
	return nil
}

// Recipients returns the configured default recipients of a report
func (s *Settings) Recipients(report string) []string {
	rs, ok := s.Reports[report]
	if !ok {
		return nil
	}
	return append([]string(nil), rs.Recipients...)
}
