package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cron         CronConfig
	Notify       NotifyConfig
	GCP          GCPConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	} else if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Cron.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GONGGU_APP_ENV" required:"true"`
	Port         string `envconfig:"GONGGU_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GONGGU_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"GONGGU_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"GONGGU_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"GONGGU_DB_DSN"`
	// Driver is "postgres" or "sqlite". GONGGU_USE_SQLITE forces sqlite.
	Driver string `envconfig:"GONGGU_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GONGGU_DB_HOST"`
	LegacyPort     int    `envconfig:"GONGGU_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GONGGU_DB_USER"`
	LegacyPassword string `envconfig:"GONGGU_DB_PASSWORD"`
	LegacyName     string `envconfig:"GONGGU_DB_NAME"`
	LegacySSLMode  string `envconfig:"GONGGU_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GONGGU_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GONGGU_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GONGGU_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GONGGU_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GONGGU_REDIS_URL"`
	Address      string        `envconfig:"GONGGU_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"GONGGU_REDIS_PASSWORD"`
	DB           int           `envconfig:"GONGGU_REDIS_DB" default:"0"`
	Namespace    string        `envconfig:"GONGGU_REDIS_NAMESPACE" default:"gonggu"`
	PoolSize     int           `envconfig:"GONGGU_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GONGGU_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GONGGU_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GONGGU_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GONGGU_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CronConfig struct {
	Timezone string        `envconfig:"GONGGU_CRON_TIMEZONE" default:"Asia/Seoul"`
	LockTTL  time.Duration `envconfig:"GONGGU_CRON_LOCK_TTL" default:"5m"`

	RecruitmentSweepSpec string `envconfig:"GONGGU_CRON_RECRUITMENT_SWEEP_SPEC" default:"*/10 * * * *"`
	ShippingSweepSpec    string `envconfig:"GONGGU_CRON_SHIPPING_SWEEP_SPEC" default:"0 0 * * *"`
	InboxRetentionSpec   string `envconfig:"GONGGU_CRON_INBOX_RETENTION_SPEC" default:"30 3 * * *"`

	// Sweep A only runs on weekdays in [BusinessHourStart, BusinessHourEnd).
	BusinessHourStart int `envconfig:"GONGGU_CRON_BUSINESS_HOUR_START" default:"9"`
	BusinessHourEnd   int `envconfig:"GONGGU_CRON_BUSINESS_HOUR_END" default:"19"`

	SweepConcurrency int `envconfig:"GONGGU_CRON_SWEEP_CONCURRENCY" default:"8"`
}

// Location resolves Timezone, falling back to UTC for an empty value.
func (c CronConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading cron timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c CronConfig) validate() error {
	if c.BusinessHourStart < 0 || c.BusinessHourEnd > 24 || c.BusinessHourStart >= c.BusinessHourEnd {
		return fmt.Errorf("%s/%s must describe a window inside 0..24", EnvCronBusinessStart, EnvCronBusinessEnd)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

type NotifyConfig struct {
	FrontURL string `envconfig:"GONGGU_FRONT_URL" default:"http://localhost:3000"`
	// PushTopic enables the push sink when set.
	PushTopic      string        `envconfig:"GONGGU_NOTIFY_PUSH_TOPIC"`
	Concurrency    int           `envconfig:"GONGGU_NOTIFY_CONCURRENCY" default:"16"`
	InboxRetention time.Duration `envconfig:"GONGGU_NOTIFY_INBOX_RETENTION" default:"720h"`
}

// CampaignLink builds the deep link attached to campaign notifications.
func (n NotifyConfig) CampaignLink(campaignID string) string {
	return strings.TrimRight(n.FrontURL, "/") + "/group-buying/detail/" + campaignID
}

type GCPConfig struct {
	ProjectID       string `envconfig:"GONGGU_GCP_PROJECT_ID"`
	CredentialsFile string `envconfig:"GONGGU_GOOGLE_APPLICATION_CREDENTIALS"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GONGGU_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GONGGU_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
