package config

const (
	EnvPrefix = "SHIRTSHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "SHIRTSHOP_APP_ENV"
	EnvPort      = "SHIRTSHOP_APP_PORT"
	EnvLogLevel  = "SHIRTSHOP_LOG_LEVEL"
	EnvJWTSecret = "SHIRTSHOP_JWT_SECRET"
	EnvUseSQLite = "SHIRTSHOP_USE_SQLITE"

	EnvDBDSN  = "SHIRTSHOP_DB_DSN"
	EnvDBHost = "SHIRTSHOP_DB_HOST"
	EnvDBUser = "SHIRTSHOP_DB_USER"
	EnvDBName = "SHIRTSHOP_DB_NAME"

	EnvRedisURL      = "SHIRTSHOP_REDIS_URL"
	EnvGCPProjectID  = "SHIRTSHOP_GCP_PROJECT_ID"
	EnvStorageDriver = "SHIRTSHOP_STORAGE_DRIVER"
	EnvGCSBucket     = "SHIRTSHOP_GCS_BUCKET_NAME"

	EnvCanvasWidth     = "SHIRTSHOP_CANVAS_WIDTH"
	EnvExportSize      = "SHIRTSHOP_EXPORT_SIZE"
	EnvSizeCapRatio    = "SHIRTSHOP_SIZE_CAP_RATIO"
	EnvScaleStep       = "SHIRTSHOP_SCALE_STEP"
	EnvMoveGrace       = "SHIRTSHOP_MOVE_GRACE"
	EnvDebounce        = "SHIRTSHOP_SERIALIZE_DEBOUNCE"
	EnvMinPixels       = "SHIRTSHOP_MEDIA_MIN_PIXELS"
	EnvMaxDecodePixels = "SHIRTSHOP_MEDIA_MAX_DECODE_PIXELS"
	EnvSurcharge       = "SHIRTSHOP_SURCHARGE_PER_ELEMENT"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	StorageDriverLocal = "local"
	StorageDriverGCS   = "gcs"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
