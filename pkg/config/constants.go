package config

const (
	EnvPrefix = "LAUNDRYLINE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "LAUNDRYLINE_DB_DSN"
	EnvDBHost = "LAUNDRYLINE_DB_HOST"
	EnvDBUser = "LAUNDRYLINE_DB_USER"
	EnvDBName = "LAUNDRYLINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
