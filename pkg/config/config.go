package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Catalog       CatalogConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"ARSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"ARSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ARSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ARSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ARSHOP_DB_DSN"`
	Driver string `envconfig:"ARSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ARSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"ARSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ARSHOP_DB_USER"`
	LegacyPassword string `envconfig:"ARSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"ARSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"ARSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ARSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ARSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ARSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ARSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets SQLite (local dev).
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"ARSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ARSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"ARSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ARSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ARSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret             string `envconfig:"ARSHOP_JWT_SECRET" required:"true"`
	Issuer             string `envconfig:"ARSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes  int    `envconfig:"ARSHOP_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes  int    `envconfig:"ARSHOP_SESSION_TTL_MINUTES" default:"720"`
	RememberTTLMinutes int    `envconfig:"ARSHOP_SESSION_REMEMBER_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session lifetime for plain logins.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

// RememberTTL returns the extended session lifetime used when the user asks
// to stay signed in.
func (j JWTConfig) RememberTTL() time.Duration {
	if j.RememberTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RememberTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ARSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ARSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ARSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ARSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ARSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow             time.Duration `envconfig:"ARSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentifierLimit    int           `envconfig:"ARSHOP_AUTH_RATE_LIMIT_LOGIN_IDENTIFIER_LIMIT" default:"5"`
	LoginIPLimit            int           `envconfig:"ARSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow          time.Duration `envconfig:"ARSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIdentifierLimit int           `envconfig:"ARSHOP_AUTH_RATE_LIMIT_REGISTER_IDENTIFIER_LIMIT" default:"3"`
	RegisterIPLimit         int           `envconfig:"ARSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CatalogConfig struct {
	FeaturedCount int `envconfig:"ARSHOP_CATALOG_FEATURED_COUNT" default:"4"`
}

type FeatureFlagsConfig struct {
	AutoMigrate   bool `envconfig:"ARSHOP_AUTO_MIGRATE" default:"false"`
	SeedOnMigrate bool `envconfig:"ARSHOP_SEED_ON_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when the sqlite driver is selected", EnvDBDSN)
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
