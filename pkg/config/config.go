package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Checkout      CheckoutConfig
	Catalog       CatalogConfig
	Cart          CartConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"FARMFRESH_APP_ENV" required:"true"`
	Port            string        `envconfig:"FARMFRESH_APP_PORT" required:"true"`
	LogLevel        string        `envconfig:"FARMFRESH_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"FARMFRESH_LOG_FORMAT" default:"json"`
	LogWarnStack    bool          `envconfig:"FARMFRESH_LOG_WARN_STACK" default:"false"`
	ReadTimeout     time.Duration `envconfig:"FARMFRESH_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"FARMFRESH_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"FARMFRESH_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"FARMFRESH_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"FARMFRESH_DB_DSN"`

	LegacyHost     string `envconfig:"FARMFRESH_DB_HOST"`
	LegacyPort     int    `envconfig:"FARMFRESH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FARMFRESH_DB_USER"`
	LegacyPassword string `envconfig:"FARMFRESH_DB_PASSWORD"`
	LegacyName     string `envconfig:"FARMFRESH_DB_NAME"`
	LegacySSLMode  string `envconfig:"FARMFRESH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FARMFRESH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FARMFRESH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FARMFRESH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FARMFRESH_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"FARMFRESH_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FARMFRESH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FARMFRESH_REDIS_ADDR"`
	Password     string        `envconfig:"FARMFRESH_REDIS_PASSWORD"`
	DB           int           `envconfig:"FARMFRESH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FARMFRESH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FARMFRESH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FARMFRESH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FARMFRESH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FARMFRESH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FARMFRESH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FARMFRESH_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FARMFRESH_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FARMFRESH_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FARMFRESH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FARMFRESH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FARMFRESH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FARMFRESH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FARMFRESH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// RateLimitConfig bounds authenticated API traffic with a token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64 `envconfig:"FARMFRESH_RATE_LIMIT_RPS" default:"20"`
	Burst             int     `envconfig:"FARMFRESH_RATE_LIMIT_BURST" default:"40"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FARMFRESH_AUTO_MIGRATE" default:"false"`
}

// CheckoutConfig holds the pricing policy applied at checkout.
type CheckoutConfig struct {
	DeliveryFee   decimal.Decimal `envconfig:"FARMFRESH_CHECKOUT_DELIVERY_FEE" default:"40"`
	CouponCode    string          `envconfig:"FARMFRESH_CHECKOUT_COUPON_CODE" default:"FRESH10"`
	CouponPercent int             `envconfig:"FARMFRESH_CHECKOUT_COUPON_PERCENT" default:"10"`
}

func (c CheckoutConfig) validate() error {
	if c.DeliveryFee.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvCheckoutDeliveryFee)
	}
	if c.CouponPercent < 0 || c.CouponPercent > 100 {
		return fmt.Errorf("%s must be between 0 and 100", EnvCheckoutCouponPercent)
	}
	return nil
}

type CatalogConfig struct {
	CacheTTL time.Duration `envconfig:"FARMFRESH_CATALOG_CACHE_TTL" default:"10m"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"FARMFRESH_CART_TTL" default:"720h"`
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
