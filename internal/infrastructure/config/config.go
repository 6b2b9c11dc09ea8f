package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

// Deployment modes for the identity backend.
const (
	ModeLocal   = "local"
	ModeCasdoor = "casdoor"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`

	// Mode selects the identity backend: "local" (bbolt file) or "casdoor"
	// (hosted identity service plus Mongo profile documents).
	Mode string `env:"STORE_MODE, default=local"`

	// AdminEmails is the allow-list of addresses always elevated to admin.
	AdminEmails []string `env:"ADMIN_EMAILS"`

	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	Bolt    BoltConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Casdoor CasdoorConfig
	Login   LoginConfig
}

type BoltConfig struct {
	Path string `env:"BOLT_PATH, default=data/fetch.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=fetch"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type CasdoorConfig struct {
	Endpoint     string `env:"CASDOOR_ENDPOINT"`
	ClientID     string `env:"CASDOOR_CLIENT_ID"`
	ClientSecret string `env:"CASDOOR_CLIENT_SECRET"`
	Certificate  string `env:"CASDOOR_CERTIFICATE"`
	Organization string `env:"CASDOOR_ORGANIZATION"`
	Application  string `env:"CASDOOR_APPLICATION"`
	MailSender   string `env:"CASDOOR_MAIL_SENDER, default=Fetch"`
}

type LoginConfig struct {
	Window         time.Duration `env:"LOGIN_WINDOW,          default=15m"`
	MaxAttempts    int           `env:"LOGIN_MAX_ATTEMPTS,    default=10"`
	ResendCooldown time.Duration `env:"VERIFY_RESEND_COOLDOWN, default=1m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(log zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		panic(err)
	}
	return &cfg
}
