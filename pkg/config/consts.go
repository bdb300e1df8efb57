package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "MARKWIZE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "MARKWIZE_DB_DSN"
	EnvDBHost = "MARKWIZE_DB_HOST"
	EnvDBUser = "MARKWIZE_DB_USER"
	EnvDBName = "MARKWIZE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
