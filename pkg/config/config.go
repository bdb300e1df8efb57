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
	JWT          JWTConfig
	Search       SearchConfig
	Registry     RegistryConfig
	Assessment   AssessmentConfig
	Quote        QuoteConfig
	Docs         DocsConfig
	Session      SessionConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MARKWIZE_APP_ENV" required:"true"`
	Port         string `envconfig:"MARKWIZE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MARKWIZE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MARKWIZE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MARKWIZE_DB_DSN"`
	Driver string `envconfig:"MARKWIZE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MARKWIZE_DB_HOST"`
	LegacyPort     int    `envconfig:"MARKWIZE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MARKWIZE_DB_USER"`
	LegacyPassword string `envconfig:"MARKWIZE_DB_PASSWORD"`
	LegacyName     string `envconfig:"MARKWIZE_DB_NAME"`
	LegacySSLMode  string `envconfig:"MARKWIZE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MARKWIZE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MARKWIZE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MARKWIZE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MARKWIZE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MARKWIZE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MARKWIZE_REDIS_ADDR"`
	Password     string        `envconfig:"MARKWIZE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MARKWIZE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MARKWIZE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MARKWIZE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MARKWIZE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MARKWIZE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MARKWIZE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig signs the document-download tokens stamped onto quotes.
type JWTConfig struct {
	Secret          string `envconfig:"MARKWIZE_JWT_SECRET" required:"true"`
	Issuer          string `envconfig:"MARKWIZE_JWT_ISSUER" required:"true"`
	DocTokenMinutes int    `envconfig:"MARKWIZE_JWT_DOC_TOKEN_MINUTES" default:"10080"`
}

// DocTokenTTL returns the document token lifetime.
func (j JWTConfig) DocTokenTTL() time.Duration {
	if j.DocTokenMinutes <= 0 {
		return 0
	}
	return time.Duration(j.DocTokenMinutes) * time.Minute
}

// SearchConfig drives the classification-code search integration.
type SearchConfig struct {
	BaseURL     string        `envconfig:"MARKWIZE_SEARCH_BASE_URL" required:"true"`
	MinQueryLen int           `envconfig:"MARKWIZE_SEARCH_MIN_QUERY_LEN" default:"2"`
	Debounce    time.Duration `envconfig:"MARKWIZE_SEARCH_DEBOUNCE" default:"300ms"`
	ResultLimit int           `envconfig:"MARKWIZE_SEARCH_RESULT_LIMIT" default:"20"`
	Timeout     time.Duration `envconfig:"MARKWIZE_SEARCH_TIMEOUT" default:"5s"`
}

// RegistryConfig drives the company registry lookup integration.
type RegistryConfig struct {
	BaseURL     string        `envconfig:"MARKWIZE_REGISTRY_BASE_URL" required:"true"`
	MinQueryLen int           `envconfig:"MARKWIZE_REGISTRY_MIN_QUERY_LEN" default:"3"`
	Timeout     time.Duration `envconfig:"MARKWIZE_REGISTRY_TIMEOUT" default:"5s"`
}

// AssessmentConfig drives the compliance assessment integration.
type AssessmentConfig struct {
	BaseURL     string        `envconfig:"MARKWIZE_ASSESSMENT_BASE_URL" required:"true"`
	Timeout     time.Duration `envconfig:"MARKWIZE_ASSESSMENT_TIMEOUT" default:"15s"`
	MaxParallel int           `envconfig:"MARKWIZE_ASSESSMENT_MAX_PARALLEL" default:"8"`
}

type QuoteConfig struct {
	ValidityDays int    `envconfig:"MARKWIZE_QUOTE_VALIDITY_DAYS" default:"14"`
	NumberPrefix string `envconfig:"MARKWIZE_QUOTE_NUMBER_PREFIX" default:"MW"`
}

// DocsConfig points at the document/contract generation collaborator.
type DocsConfig struct {
	BaseURL string        `envconfig:"MARKWIZE_DOCS_BASE_URL"`
	Timeout time.Duration `envconfig:"MARKWIZE_DOCS_TIMEOUT" default:"30s"`
}

type SessionConfig struct {
	TTL           time.Duration `envconfig:"MARKWIZE_SESSION_TTL" default:"24h"`
	SubmitLockTTL time.Duration `envconfig:"MARKWIZE_SESSION_SUBMIT_LOCK_TTL" default:"30s"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"MARKWIZE_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	AttributionTopic string `envconfig:"MARKWIZE_PUBSUB_ATTRIBUTION_TOPIC" default:"mw-quote-events"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MARKWIZE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MARKWIZE_AUTO_MIGRATE" default:"false"`
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
