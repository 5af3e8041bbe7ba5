package config

// Struct tags carry the full variable names; envconfig falls back to the tag
// when the prefixed key is unset.
const EnvPrefix = "SYNAPSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "SYNAPSE_APP_ENV"
	EnvPort      = "SYNAPSE_APP_PORT"
	EnvLogLevel  = "SYNAPSE_LOG_LEVEL"
	EnvDBDSN     = "SYNAPSE_DB_DSN"
	EnvDBHost    = "SYNAPSE_DB_HOST"
	EnvDBUser    = "SYNAPSE_DB_USER"
	EnvDBName    = "SYNAPSE_DB_NAME"
	EnvRedisURL  = "SYNAPSE_REDIS_URL"
	EnvJWTSecret = "SYNAPSE_AUTH_JWT_SECRET"
	EnvJWTIssuer = "SYNAPSE_AUTH_JWT_ISSUER"
	EnvTimezone  = "SYNAPSE_USAGE_TIMEZONE"
	EnvAutoMigr  = "SYNAPSE_AUTO_MIGRATE"
	EnvPubSubTop = "SYNAPSE_PUBSUB_NOTIFICATION_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
