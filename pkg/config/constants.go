package config

// EnvPrefix is passed to envconfig; the explicit envconfig tags on each field
// already carry it, so it only matters for variables without a tag.
const EnvPrefix = "INVENTORY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "INVENTORY_APP_ENV"
	EnvAppPort  = "INVENTORY_APP_PORT"
	EnvDBDSN    = "INVENTORY_DB_DSN"
	EnvDBHost   = "INVENTORY_DB_HOST"
	EnvDBPort   = "INVENTORY_DB_PORT"
	EnvDBUser   = "INVENTORY_DB_USER"
	EnvDBName   = "INVENTORY_DB_NAME"
	EnvRedisURL = "INVENTORY_REDIS_URL"
)
