package config

// EnvPrefix is passed to envconfig; individual fields carry fully qualified
// env var names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "ARGENTUM_APP_ENV"
	EnvPort   = "ARGENTUM_APP_PORT"

	EnvDBDSN  = "ARGENTUM_DB_DSN"
	EnvDBHost = "ARGENTUM_DB_HOST"
	EnvDBUser = "ARGENTUM_DB_USER"
	EnvDBName = "ARGENTUM_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
