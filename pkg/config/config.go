package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Eventing      EventingConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	BigQuery      BigQueryConfig
	Outbox        OutboxConfig
	Loyalty       LoyaltyConfig
	Cart          CartConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CURBSIDE_APP_ENV" required:"true"`
	Port         string `envconfig:"CURBSIDE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CURBSIDE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CURBSIDE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CURBSIDE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"CURBSIDE_DB_DSN"`
	Driver string `envconfig:"CURBSIDE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CURBSIDE_DB_HOST"`
	LegacyPort     int    `envconfig:"CURBSIDE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CURBSIDE_DB_USER"`
	LegacyPassword string `envconfig:"CURBSIDE_DB_PASSWORD"`
	LegacyName     string `envconfig:"CURBSIDE_DB_NAME"`
	LegacySSLMode  string `envconfig:"CURBSIDE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CURBSIDE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CURBSIDE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CURBSIDE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CURBSIDE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CURBSIDE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CURBSIDE_REDIS_ADDR"`
	Password     string        `envconfig:"CURBSIDE_REDIS_PASSWORD"`
	DB           int           `envconfig:"CURBSIDE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CURBSIDE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CURBSIDE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CURBSIDE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CURBSIDE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CURBSIDE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CURBSIDE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CURBSIDE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CURBSIDE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CURBSIDE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CURBSIDE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CURBSIDE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CURBSIDE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CURBSIDE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CURBSIDE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CURBSIDE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CURBSIDE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CURBSIDE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CURBSIDE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CURBSIDE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CURBSIDE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CURBSIDE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CURBSIDE_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"CURBSIDE_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CURBSIDE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"CURBSIDE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CURBSIDE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic           string `envconfig:"CURBSIDE_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription    string `envconfig:"CURBSIDE_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
	LoyaltyTopic          string `envconfig:"CURBSIDE_PUBSUB_LOYALTY_TOPIC" required:"true"`
	LoyaltySubscription   string `envconfig:"CURBSIDE_PUBSUB_LOYALTY_SUBSCRIPTION" required:"true"`
	AnalyticsTopic        string `envconfig:"CURBSIDE_PUBSUB_ANALYTICS_TOPIC" required:"true"`
	AnalyticsSubscription string `envconfig:"CURBSIDE_PUBSUB_ANALYTICS_SUBSCRIPTION" required:"true"`
}

type BigQueryConfig struct {
	Dataset            string `envconfig:"CURBSIDE_BIGQUERY_DATASET" default:"curbside"`
	OrderEventsTable   string `envconfig:"CURBSIDE_BIGQUERY_ORDER_EVENTS_TABLE" default:"order_events"`
	OfferEventsTable   string `envconfig:"CURBSIDE_BIGQUERY_OFFER_EVENTS_TABLE" default:"offer_events"`
	LoyaltyEventsTable string `envconfig:"CURBSIDE_BIGQUERY_LOYALTY_EVENTS_TABLE" default:"loyalty_events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"CURBSIDE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"CURBSIDE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"CURBSIDE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type LoyaltyConfig struct {
	PointsPerDollar int `envconfig:"CURBSIDE_LOYALTY_POINTS_PER_DOLLAR" default:"1"`
	PointValueCents int `envconfig:"CURBSIDE_LOYALTY_POINT_VALUE_CENTS" default:"5"`
	MinRedeemPoints int `envconfig:"CURBSIDE_LOYALTY_MIN_REDEEM_POINTS" default:"100"`
}

type CartConfig struct {
	QuoteTTL time.Duration `envconfig:"CURBSIDE_CART_QUOTE_TTL" default:"30m"`
	StaleAge time.Duration `envconfig:"CURBSIDE_CART_STALE_AGE" default:"72h"`
}

type CronConfig struct {
	OfferExpiryInterval  time.Duration `envconfig:"CURBSIDE_CRON_OFFER_EXPIRY_INTERVAL" default:"5m"`
	CartCleanupInterval  time.Duration `envconfig:"CURBSIDE_CRON_CART_CLEANUP_INTERVAL" default:"1h"`
	OutboxRetention      time.Duration `envconfig:"CURBSIDE_CRON_OUTBOX_RETENTION" default:"168h"`
	OutboxSweepInterval  time.Duration `envconfig:"CURBSIDE_CRON_OUTBOX_SWEEP_INTERVAL" default:"6h"`
	MetricsListenAddress string        `envconfig:"CURBSIDE_CRON_METRICS_ADDR" default:":9100"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
