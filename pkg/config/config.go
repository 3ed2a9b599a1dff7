package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/buybuddy-backend/pkg/logger"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	Checkout     CheckoutConfig
	Idempotency  IdempotencyConfig
	CORS         CORSConfig
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
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BUYBUDDY_APP_ENV" required:"true"`
	Port         string `envconfig:"BUYBUDDY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BUYBUDDY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BUYBUDDY_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"BUYBUDDY_LOG_FORMAT" default:"json"`
}

// LoggerOptions builds the logger settings for a process named service.
func (a AppConfig) LoggerOptions(service string) logger.Options {
	return logger.Options{
		ServiceName: service,
		Level:       logger.ParseLevel(a.LogLevel),
		WarnStack:   a.LogWarnStack,
		Console:     strings.EqualFold(a.LogFormat, "console"),
	}
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type ServiceConfig struct {
	Name            string        `envconfig:"BUYBUDDY_SERVICE_NAME" default:"buybuddy-api"`
	ReadTimeout     time.Duration `envconfig:"BUYBUDDY_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"BUYBUDDY_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"BUYBUDDY_HTTP_SHUTDOWN_TIMEOUT" default:"20s"`
}

type DBConfig struct {
	DSN string `envconfig:"BUYBUDDY_DB_DSN"`

	Host     string `envconfig:"BUYBUDDY_DB_HOST"`
	Port     int    `envconfig:"BUYBUDDY_DB_PORT" default:"5432"`
	User     string `envconfig:"BUYBUDDY_DB_USER"`
	Password string `envconfig:"BUYBUDDY_DB_PASSWORD"`
	Name     string `envconfig:"BUYBUDDY_DB_NAME"`
	SSLMode  string `envconfig:"BUYBUDDY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BUYBUDDY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BUYBUDDY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BUYBUDDY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BUYBUDDY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"BUYBUDDY_DB_SLOW_QUERY" default:"250ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BUYBUDDY_REDIS_URL"`
	Address      string        `envconfig:"BUYBUDDY_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"BUYBUDDY_REDIS_PASSWORD"`
	DB           int           `envconfig:"BUYBUDDY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BUYBUDDY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BUYBUDDY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BUYBUDDY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BUYBUDDY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BUYBUDDY_REDIS_WRITE_TIMEOUT" default:"5s"`
	Namespace    string        `envconfig:"BUYBUDDY_REDIS_NAMESPACE" default:"bb"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BUYBUDDY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BUYBUDDY_JWT_ISSUER" default:"buybuddy"`
	ExpirationMinutes int    `envconfig:"BUYBUDDY_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"BUYBUDDY_SESSION_TTL_MINUTES" default:"10080"`
}

// AccessTTL returns the lifetime of issued access tokens.
func (j JWTConfig) AccessTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// SessionTTL returns how long a login session stays valid in redis.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BUYBUDDY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BUYBUDDY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BUYBUDDY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BUYBUDDY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BUYBUDDY_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BUYBUDDY_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"BUYBUDDY_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"BUYBUDDY_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"BUYBUDDY_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterIPLimit    int           `envconfig:"BUYBUDDY_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	RegisterEmailLimit int           `envconfig:"BUYBUDDY_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	CheckoutWindow     time.Duration `envconfig:"BUYBUDDY_RATE_LIMIT_CHECKOUT_WINDOW" default:"1m"`
	CheckoutLimit      int           `envconfig:"BUYBUDDY_RATE_LIMIT_CHECKOUT_LIMIT" default:"10"`
}

type CheckoutConfig struct {
	IntentTTL        time.Duration `envconfig:"BUYBUDDY_CHECKOUT_INTENT_TTL" default:"30m"`
	DecrementStock   bool          `envconfig:"BUYBUDDY_CHECKOUT_DECREMENT_STOCK" default:"true"`
	TrackingAttempts int           `envconfig:"BUYBUDDY_CHECKOUT_TRACKING_ATTEMPTS" default:"5"`
	Courier          string        `envconfig:"BUYBUDDY_CHECKOUT_COURIER" default:"BuyBuddy Express"`
}

func (c CheckoutConfig) validate() error {
	if c.IntentTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvCheckoutIntentTTL)
	}
	if c.TrackingAttempts <= 0 {
		return fmt.Errorf("%s must be positive", EnvCheckoutTrackingAttempts)
	}
	return nil
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"BUYBUDDY_IDEMPOTENCY_TTL" default:"24h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BUYBUDDY_CORS_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BUYBUDDY_AUTO_MIGRATE" default:"false"`
	MetricsAPI  bool `envconfig:"BUYBUDDY_METRICS_ENABLED" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	partValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if partValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
