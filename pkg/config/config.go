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
	Password     PasswordConfig
	Admin        AdminConfig
	Pricing      PricingConfig
	PriceFeed    PriceFeedConfig
	Checkout     CheckoutConfig
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
	Env          string `envconfig:"ARGENTUM_APP_ENV" required:"true"`
	Port         string `envconfig:"ARGENTUM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ARGENTUM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ARGENTUM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ARGENTUM_DB_DSN"`
	Driver string `envconfig:"ARGENTUM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ARGENTUM_DB_HOST"`
	LegacyPort     int    `envconfig:"ARGENTUM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ARGENTUM_DB_USER"`
	LegacyPassword string `envconfig:"ARGENTUM_DB_PASSWORD"`
	LegacyName     string `envconfig:"ARGENTUM_DB_NAME"`
	LegacySSLMode  string `envconfig:"ARGENTUM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ARGENTUM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ARGENTUM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ARGENTUM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ARGENTUM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ARGENTUM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ARGENTUM_REDIS_ADDR"`
	Password     string        `envconfig:"ARGENTUM_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARGENTUM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARGENTUM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ARGENTUM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ARGENTUM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARGENTUM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARGENTUM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ARGENTUM_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ARGENTUM_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ARGENTUM_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ARGENTUM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ARGENTUM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ARGENTUM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ARGENTUM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ARGENTUM_ARGON_KEY_LEN" default:"32"`
}

// AdminConfig guards the asset-administration endpoints. PasswordHash is an
// Argon2id string produced by pkg/security.
type AdminConfig struct {
	PasswordHash string `envconfig:"ARGENTUM_ADMIN_PASSWORD_HASH" required:"true"`
}

// PricingConfig fixes the base/alternate conversion for the whole session.
// The alternate rate is a static multiplier, not a live FX feed.
type PricingConfig struct {
	AlternateRate string `envconfig:"ARGENTUM_PRICING_ALTERNATE_RATE" default:"58000"`
}

type PriceFeedConfig struct {
	BaseURL         string        `envconfig:"ARGENTUM_PRICEFEED_BASE_URL" default:"https://api.coingecko.com/api/v3"`
	RefreshInterval time.Duration `envconfig:"ARGENTUM_PRICEFEED_REFRESH_INTERVAL" default:"30s"`
	RequestTimeout  time.Duration `envconfig:"ARGENTUM_PRICEFEED_REQUEST_TIMEOUT" default:"10s"`
}

type CheckoutConfig struct {
	// SimulateWallet enables the simulated wallet provider. It is an explicit
	// flag: absence of a real provider alone never turns simulation on.
	SimulateWallet      bool          `envconfig:"ARGENTUM_CHECKOUT_SIMULATE_WALLET" default:"false"`
	SimulatedConnectLag time.Duration `envconfig:"ARGENTUM_CHECKOUT_SIMULATED_CONNECT_LAG" default:"1s"`
	SimulatedAddress    string        `envconfig:"ARGENTUM_CHECKOUT_SIMULATED_ADDRESS" default:"0x000000000000000000000000000000000000dEaD"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ARGENTUM_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ARGENTUM_AUTO_MIGRATE" default:"false"`
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
