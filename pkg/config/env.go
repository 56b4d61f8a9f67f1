package config

const EnvPrefix = "GONGGU"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "GONGGU_APP_ENV"
	EnvPort         = "GONGGU_APP_PORT"
	EnvLogLevel     = "GONGGU_LOG_LEVEL"
	EnvLogFormat    = "GONGGU_LOG_FORMAT"
	EnvLogWarnStack = "GONGGU_LOG_WARN_STACK"

	EnvDBDSN      = "GONGGU_DB_DSN"
	EnvDBDriver   = "GONGGU_DB_DRIVER"
	EnvDBHost     = "GONGGU_DB_HOST"
	EnvDBPort     = "GONGGU_DB_PORT"
	EnvDBUser     = "GONGGU_DB_USER"
	EnvDBPassword = "GONGGU_DB_PASSWORD"
	EnvDBName     = "GONGGU_DB_NAME"
	EnvDBSSLMode  = "GONGGU_DB_SSLMODE"

	EnvRedisURL       = "GONGGU_REDIS_URL"
	EnvRedisAddr      = "GONGGU_REDIS_ADDR"
	EnvRedisNamespace = "GONGGU_REDIS_NAMESPACE"

	EnvCronTimezone      = "GONGGU_CRON_TIMEZONE"
	EnvCronLockTTL       = "GONGGU_CRON_LOCK_TTL"
	EnvCronRecruitSpec   = "GONGGU_CRON_RECRUITMENT_SWEEP_SPEC"
	EnvCronShippingSpec  = "GONGGU_CRON_SHIPPING_SWEEP_SPEC"
	EnvCronRetentionSpec = "GONGGU_CRON_INBOX_RETENTION_SPEC"
	EnvCronBusinessStart = "GONGGU_CRON_BUSINESS_HOUR_START"
	EnvCronBusinessEnd   = "GONGGU_CRON_BUSINESS_HOUR_END"
	EnvCronConcurrency   = "GONGGU_CRON_SWEEP_CONCURRENCY"

	EnvNotifyFrontURL    = "GONGGU_FRONT_URL"
	EnvNotifyPushTopic   = "GONGGU_NOTIFY_PUSH_TOPIC"
	EnvNotifyConcurrency = "GONGGU_NOTIFY_CONCURRENCY"
	EnvNotifyRetention   = "GONGGU_NOTIFY_INBOX_RETENTION"

	EnvGCPProjectID = "GONGGU_GCP_PROJECT_ID"

	EnvUseSQLite   = "GONGGU_USE_SQLITE"
	EnvAutoMigrate = "GONGGU_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
