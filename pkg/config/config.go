package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	Storage      StorageConfig
	PubSub       PubSubConfig
	Canvas       CanvasConfig
	Media        MediaConfig
	Pricing      PricingConfig
	Session      SessionConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Canvas.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Media.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"SHIRTSHOP_APP_ENV" required:"true"`
	Port         string   `envconfig:"SHIRTSHOP_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"SHIRTSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"SHIRTSHOP_LOG_WARN_STACK" default:"false"`
	LogFormat    string   `envconfig:"SHIRTSHOP_LOG_FORMAT" default:"json"`
	CORSOrigins  []string `envconfig:"SHIRTSHOP_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHIRTSHOP_DB_DSN"`
	Driver string `envconfig:"SHIRTSHOP_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SHIRTSHOP_DB_HOST"`
	Port     int    `envconfig:"SHIRTSHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"SHIRTSHOP_DB_USER"`
	Password string `envconfig:"SHIRTSHOP_DB_PASSWORD"`
	Name     string `envconfig:"SHIRTSHOP_DB_NAME"`
	SSLMode  string `envconfig:"SHIRTSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHIRTSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHIRTSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHIRTSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHIRTSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHIRTSHOP_REDIS_URL"`
	Address      string        `envconfig:"SHIRTSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"SHIRTSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHIRTSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHIRTSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHIRTSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHIRTSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHIRTSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHIRTSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"SHIRTSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHIRTSHOP_JWT_ISSUER" default:"shirtshop"`
	ExpirationMinutes int    `envconfig:"SHIRTSHOP_JWT_EXPIRATION_MINUTES" default:"240"`
}

// TTL returns the design session token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHIRTSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHIRTSHOP_AUTO_MIGRATE" default:"false"`
	PublishCart bool `envconfig:"SHIRTSHOP_PUBLISH_CART" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHIRTSHOP_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SHIRTSHOP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHIRTSHOP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type StorageConfig struct {
	Driver     string `envconfig:"SHIRTSHOP_STORAGE_DRIVER" default:"local"`
	LocalDir   string `envconfig:"SHIRTSHOP_STORAGE_LOCAL_DIR" default:"./var/composites"`
	BucketName string `envconfig:"SHIRTSHOP_GCS_BUCKET_NAME"`
}

type PubSubConfig struct {
	CartTopic string `envconfig:"SHIRTSHOP_PUBSUB_CART_TOPIC" default:"shirtshop-cart-line-items"`
}

// CanvasConfig sizes the working surface and the editing gestures.
type CanvasConfig struct {
	Width            int           `envconfig:"SHIRTSHOP_CANVAS_WIDTH" default:"600"`
	Height           int           `envconfig:"SHIRTSHOP_CANVAS_HEIGHT" default:"600"`
	OutputSize       int           `envconfig:"SHIRTSHOP_EXPORT_SIZE" default:"800"`
	SizeCapRatio     float64       `envconfig:"SHIRTSHOP_SIZE_CAP_RATIO" default:"0.8"`
	ScaleStep        float64       `envconfig:"SHIRTSHOP_SCALE_STEP" default:"1.1"`
	NudgeStep        float64       `envconfig:"SHIRTSHOP_NUDGE_STEP" default:"5"`
	MoveGrace        int           `envconfig:"SHIRTSHOP_MOVE_GRACE" default:"1"`
	Debounce         time.Duration `envconfig:"SHIRTSHOP_SERIALIZE_DEBOUNCE" default:"100ms"`
	ExportTimeout    time.Duration `envconfig:"SHIRTSHOP_EXPORT_TIMEOUT" default:"20s"`
	DefaultFontSize  float64       `envconfig:"SHIRTSHOP_DEFAULT_FONT_SIZE" default:"32"`
	DefaultTextColor string        `envconfig:"SHIRTSHOP_DEFAULT_TEXT_COLOR" default:"#000000"`
}

func (c CanvasConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.OutputSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvExportSize)
	}
	if c.SizeCapRatio <= 0 || c.SizeCapRatio > 1 {
		return fmt.Errorf("%s must be in (0,1], got %v", EnvSizeCapRatio, c.SizeCapRatio)
	}
	if c.ScaleStep <= 1 {
		return fmt.Errorf("%s must be greater than 1, got %v", EnvScaleStep, c.ScaleStep)
	}
	if c.MoveGrace < 0 {
		return fmt.Errorf("%s cannot be negative", EnvMoveGrace)
	}
	return nil
}

// MediaConfig holds the upload acceptance rules.
type MediaConfig struct {
	MinBytes          int64   `envconfig:"SHIRTSHOP_MEDIA_MIN_BYTES" default:"100"`
	MaxUploadMB       int     `envconfig:"SHIRTSHOP_MAX_UPLOAD_MB" default:"10"`
	MinPixels         int     `envconfig:"SHIRTSHOP_MEDIA_MIN_PIXELS" default:"100"`
	MaxPixels         int     `envconfig:"SHIRTSHOP_MEDIA_MAX_PIXELS" default:"4000"`
	MaxDecodePixels   int64   `envconfig:"SHIRTSHOP_MEDIA_MAX_DECODE_PIXELS" default:"40000000"`
	RecommendedPixels int     `envconfig:"SHIRTSHOP_MEDIA_RECOMMENDED_PIXELS" default:"1000"`
	WorkspaceWidth    float64 `envconfig:"SHIRTSHOP_MEDIA_WORKSPACE_WIDTH" default:"0.5"`
	WorkspaceHeight   float64 `envconfig:"SHIRTSHOP_MEDIA_WORKSPACE_HEIGHT" default:"0.4"`
}

// MaxBytes converts the megabyte limit into bytes.
func (m MediaConfig) MaxBytes() int64 {
	return int64(m.MaxUploadMB) * 1024 * 1024
}

func (m MediaConfig) validate() error {
	if m.MinBytes < 0 || m.MaxUploadMB <= 0 || m.MinBytes >= m.MaxBytes() {
		return fmt.Errorf("invalid upload size bounds min=%d max=%dMB", m.MinBytes, m.MaxUploadMB)
	}
	if m.MinPixels <= 0 || m.MaxPixels < m.MinPixels {
		return fmt.Errorf("invalid pixel bounds min=%d max=%d", m.MinPixels, m.MaxPixels)
	}
	if m.MaxDecodePixels < int64(m.MaxPixels)*int64(m.MaxPixels) {
		return fmt.Errorf("%s=%d is below %dx%d", EnvMaxDecodePixels, m.MaxDecodePixels, m.MaxPixels, m.MaxPixels)
	}
	if m.WorkspaceWidth <= 0 || m.WorkspaceWidth > 1 || m.WorkspaceHeight <= 0 || m.WorkspaceHeight > 1 {
		return fmt.Errorf("workspace fractions must be in (0,1]")
	}
	return nil
}

type PricingConfig struct {
	SurchargePerElement string `envconfig:"SHIRTSHOP_SURCHARGE_PER_ELEMENT" default:"10"`
	Currency            string `envconfig:"SHIRTSHOP_CURRENCY" default:"EUR"`
}

// Surcharge parses the per-element surcharge as a decimal amount.
func (p PricingConfig) Surcharge() (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(p.SurchargePerElement))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s: %w", EnvSurcharge, err)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s cannot be negative", EnvSurcharge)
	}
	return v, nil
}

type SessionConfig struct {
	AutosaveTTL time.Duration `envconfig:"SHIRTSHOP_SESSION_AUTOSAVE_TTL" default:"24h"`
	IdleTimeout time.Duration `envconfig:"SHIRTSHOP_SESSION_IDLE_TIMEOUT" default:"2h"`
}

type RateLimitConfig struct {
	UploadWindow time.Duration `envconfig:"SHIRTSHOP_UPLOAD_RATE_WINDOW" default:"1m"`
	UploadLimit  int64         `envconfig:"SHIRTSHOP_UPLOAD_RATE_LIMIT" default:"20"`
}

func (db *DBConfig) ensureDSN(sqlite bool) error {
	if sqlite {
		db.Driver = DBDriverSQLite
		if db.DSN == "" {
			db.DSN = "file:shirtshop.db?cache=shared"
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
