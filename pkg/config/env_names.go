package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// fully-prefixed names so the prefix only matters for unnamed fields.
const EnvPrefix = "CURBSIDE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "CURBSIDE_APP_ENV"
	EnvPort     = "CURBSIDE_APP_PORT"
	EnvLogLevel = "CURBSIDE_LOG_LEVEL"

	EnvDBDSN      = "CURBSIDE_DB_DSN"
	EnvDBHost     = "CURBSIDE_DB_HOST"
	EnvDBPort     = "CURBSIDE_DB_PORT"
	EnvDBUser     = "CURBSIDE_DB_USER"
	EnvDBPassword = "CURBSIDE_DB_PASSWORD"
	EnvDBName     = "CURBSIDE_DB_NAME"

	EnvRedisURL = "CURBSIDE_REDIS_URL"

	EnvJWTSecret              = "CURBSIDE_JWT_SECRET"
	EnvJWTIssuer              = "CURBSIDE_JWT_ISSUER"
	EnvJWTExpMins             = "CURBSIDE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CURBSIDE_REFRESH_TOKEN_TTL_MINUTES"

	EnvGCPProjectID = "CURBSIDE_GCP_PROJECT_ID"

	EnvPubSubOrdersTopic           = "CURBSIDE_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSubscription    = "CURBSIDE_PUBSUB_ORDERS_SUBSCRIPTION"
	EnvPubSubLoyaltyTopic          = "CURBSIDE_PUBSUB_LOYALTY_TOPIC"
	EnvPubSubLoyaltySubscription   = "CURBSIDE_PUBSUB_LOYALTY_SUBSCRIPTION"
	EnvPubSubAnalyticsTopic        = "CURBSIDE_PUBSUB_ANALYTICS_TOPIC"
	EnvPubSubAnalyticsSubscription = "CURBSIDE_PUBSUB_ANALYTICS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
