package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Usage        UsageConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Usage.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string        `envconfig:"SYNAPSE_APP_ENV" required:"true"`
	Port         string        `envconfig:"SYNAPSE_APP_PORT" required:"true"`
	LogLevel     string        `envconfig:"SYNAPSE_LOG_LEVEL" default:"info"`
	LogFormat    string        `envconfig:"SYNAPSE_LOG_FORMAT" default:"json"`
	LogWarnStack bool          `envconfig:"SYNAPSE_LOG_WARN_STACK" default:"false"`
	ReadTimeout  time.Duration `envconfig:"SYNAPSE_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"SYNAPSE_HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"SYNAPSE_HTTP_IDLE_TIMEOUT" default:"60s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SYNAPSE_DB_DSN"`

	LegacyHost     string `envconfig:"SYNAPSE_DB_HOST"`
	LegacyPort     int    `envconfig:"SYNAPSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SYNAPSE_DB_USER"`
	LegacyPassword string `envconfig:"SYNAPSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SYNAPSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SYNAPSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SYNAPSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SYNAPSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SYNAPSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SYNAPSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"SYNAPSE_DB_SLOW_QUERY" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SYNAPSE_REDIS_URL"`
	Address      string        `envconfig:"SYNAPSE_REDIS_ADDR"`
	Password     string        `envconfig:"SYNAPSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SYNAPSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SYNAPSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SYNAPSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SYNAPSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SYNAPSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SYNAPSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// AuthConfig describes how bearer tokens minted by the identity provider are verified.
type AuthConfig struct {
	JWTSecret   string `envconfig:"SYNAPSE_AUTH_JWT_SECRET" required:"true"`
	JWTIssuer   string `envconfig:"SYNAPSE_AUTH_JWT_ISSUER"`
	JWTAudience string `envconfig:"SYNAPSE_AUTH_JWT_AUDIENCE" default:"authenticated"`
	// Only used by tooling that mints tokens for local development.
	ExpirationMinutes int `envconfig:"SYNAPSE_AUTH_JWT_EXPIRATION_MINUTES" default:"60"`
}

type RateLimitConfig struct {
	Window       time.Duration `envconfig:"SYNAPSE_RATE_LIMIT_WINDOW" default:"1m"`
	UserLimit    int           `envconfig:"SYNAPSE_RATE_LIMIT_USER_LIMIT" default:"120"`
	FunctionsCap int           `envconfig:"SYNAPSE_RATE_LIMIT_FUNCTIONS_LIMIT" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SYNAPSE_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SYNAPSE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SYNAPSE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"SYNAPSE_PUBSUB_NOTIFICATION_TOPIC"`
}

// Enabled reports whether notification workflows publish to Pub/Sub.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.NotificationTopic) != ""
}

type UsageConfig struct {
	// IANA zone used to compute the start of the billing month. Empty means the process local zone.
	Timezone string `envconfig:"SYNAPSE_USAGE_TIMEZONE"`
}

// Location resolves the configured billing timezone.
func (u UsageConfig) Location() (*time.Location, error) {
	tz := strings.TrimSpace(u.Timezone)
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("loading usage timezone %q: %w", tz, err)
	}
	return loc, nil
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
