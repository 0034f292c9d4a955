package config

// EnvPrefix namespaces every variable envconfig reads.
const EnvPrefix = "ARSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "ARSHOP_APP_ENV"
	EnvPort       = "ARSHOP_APP_PORT"
	EnvDBDSN      = "ARSHOP_DB_DSN"
	EnvDBDriver   = "ARSHOP_DB_DRIVER"
	EnvDBHost     = "ARSHOP_DB_HOST"
	EnvDBUser     = "ARSHOP_DB_USER"
	EnvDBName     = "ARSHOP_DB_NAME"
	EnvRedisURL   = "ARSHOP_REDIS_URL"
	EnvJWTSecret  = "ARSHOP_JWT_SECRET"
	EnvJWTIssuer  = "ARSHOP_JWT_ISSUER"
	EnvJWTExpMins = "ARSHOP_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
