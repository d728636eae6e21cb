package config

const (
	EnvPrefix = "FARMFRESH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "FARMFRESH_APP_ENV"
	EnvPort                   = "FARMFRESH_APP_PORT"
	EnvLogLevel               = "FARMFRESH_LOG_LEVEL"
	EnvLogFormat              = "FARMFRESH_LOG_FORMAT"
	EnvDBDSN                  = "FARMFRESH_DB_DSN"
	EnvDBHost                 = "FARMFRESH_DB_HOST"
	EnvDBUser                 = "FARMFRESH_DB_USER"
	EnvDBName                 = "FARMFRESH_DB_NAME"
	EnvRedisURL               = "FARMFRESH_REDIS_URL"
	EnvJWTSecret              = "FARMFRESH_JWT_SECRET"
	EnvJWTIssuer              = "FARMFRESH_JWT_ISSUER"
	EnvJWTExpMins             = "FARMFRESH_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FARMFRESH_REFRESH_TOKEN_TTL_MINUTES"
	EnvCheckoutDeliveryFee    = "FARMFRESH_CHECKOUT_DELIVERY_FEE"
	EnvCheckoutCouponCode     = "FARMFRESH_CHECKOUT_COUPON_CODE"
	EnvCheckoutCouponPercent  = "FARMFRESH_CHECKOUT_COUPON_PERCENT"
	EnvCatalogCacheTTL        = "FARMFRESH_CATALOG_CACHE_TTL"
	EnvCartTTL                = "FARMFRESH_CART_TTL"
	EnvRateLimitRPS           = "FARMFRESH_RATE_LIMIT_RPS"
	EnvRateLimitBurst         = "FARMFRESH_RATE_LIMIT_BURST"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
