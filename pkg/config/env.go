package config

const (
	EnvPrefix = "BUYBUDDY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "BUYBUDDY_APP_ENV"
	EnvPort      = "BUYBUDDY_APP_PORT"
	EnvJWTSecret = "BUYBUDDY_JWT_SECRET"
	EnvRedisURL  = "BUYBUDDY_REDIS_URL"

	EnvDBDSN  = "BUYBUDDY_DB_DSN"
	EnvDBHost = "BUYBUDDY_DB_HOST"
	EnvDBUser = "BUYBUDDY_DB_USER"
	EnvDBName = "BUYBUDDY_DB_NAME"

	EnvCheckoutIntentTTL        = "BUYBUDDY_CHECKOUT_INTENT_TTL"
	EnvCheckoutDecrementStock   = "BUYBUDDY_CHECKOUT_DECREMENT_STOCK"
	EnvCheckoutTrackingAttempts = "BUYBUDDY_CHECKOUT_TRACKING_ATTEMPTS"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
