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
	PayPal       PayPalConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.App.IsDev()); err != nil {
		return nil, err
	}
	if err := cfg.PayPal.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"ATELIER_APP_ENV" required:"true"`
	Port            string        `envconfig:"ATELIER_APP_PORT" default:"3001"`
	LogLevel        string        `envconfig:"ATELIER_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"ATELIER_LOG_WARN_STACK" default:"false"`
	PublicBaseURL   string        `envconfig:"ATELIER_PUBLIC_BASE_URL"`
	CORSOrigins     []string      `envconfig:"ATELIER_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"ATELIER_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"ATELIER_DB_DSN"`

	LegacyHost     string `envconfig:"ATELIER_DB_HOST"`
	LegacyPort     int    `envconfig:"ATELIER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ATELIER_DB_USER"`
	LegacyPassword string `envconfig:"ATELIER_DB_PASSWORD"`
	LegacyName     string `envconfig:"ATELIER_DB_NAME"`
	LegacySSLMode  string `envconfig:"ATELIER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ATELIER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ATELIER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ATELIER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ATELIER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional; an empty URL and address disables idempotent replay.
type RedisConfig struct {
	URL          string        `envconfig:"ATELIER_REDIS_URL"`
	Address      string        `envconfig:"ATELIER_REDIS_ADDR"`
	Password     string        `envconfig:"ATELIER_REDIS_PASSWORD"`
	DB           int           `envconfig:"ATELIER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ATELIER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ATELIER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ATELIER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ATELIER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ATELIER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type PayPalConfig struct {
	ClientID      string        `envconfig:"ATELIER_PAYPAL_CLIENT_ID"`
	ClientSecret  string        `envconfig:"ATELIER_PAYPAL_CLIENT_SECRET"`
	Mode          string        `envconfig:"ATELIER_PAYPAL_MODE" default:"sandbox"`
	Timeout       time.Duration `envconfig:"ATELIER_PAYPAL_TIMEOUT" default:"15s"`
	MaxRetries    int           `envconfig:"ATELIER_PAYPAL_MAX_RETRIES" default:"2"`
	RetryBase     time.Duration `envconfig:"ATELIER_PAYPAL_RETRY_BASE" default:"200ms"`
	VerifyCapture bool          `envconfig:"ATELIER_PAYPAL_VERIFY_CAPTURE" default:"true"`
	Currency      string        `envconfig:"ATELIER_PAYPAL_CURRENCY" default:"USD"`
	BrandName     string        `envconfig:"ATELIER_PAYPAL_BRAND_NAME" default:"Art Print Shop"`
}

// Enabled reports whether both PayPal credentials are present.
func (p PayPalConfig) Enabled() bool {
	return strings.TrimSpace(p.ClientID) != "" && strings.TrimSpace(p.ClientSecret) != ""
}

// Environment returns the normalized PayPal mode (sandbox/live).
func (p PayPalConfig) Environment() string {
	mode := strings.TrimSpace(strings.ToLower(p.Mode))
	if mode == "" {
		return "sandbox"
	}
	return mode
}

func (p PayPalConfig) validate() error {
	switch p.Environment() {
	case "sandbox", "live":
	default:
		return fmt.Errorf("%s must be \"sandbox\" or \"live\", got %q", EnvPayPalMode, p.Mode)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("%s must not be negative", EnvPayPalMaxRetries)
	}
	hasID := strings.TrimSpace(p.ClientID) != ""
	hasSecret := strings.TrimSpace(p.ClientSecret) != ""
	if hasID != hasSecret {
		return fmt.Errorf("%s and %s must be set together", EnvPayPalClientID, EnvPayPalClientSecret)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ATELIER_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(allowDevDefault bool) error {
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

	if len(missing) == len(legacyDBEnvVars) && allowDevDefault {
		db.DSN = DefaultDevDSN
		return nil
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
