package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Assistant AssistantConfig `yaml:"assistant"`
	Mail      MailConfig      `yaml:"mail"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RatePerMinute   int           `yaml:"rate_per_minute"  env:"SERVER_RATE_PER_MINUTE"  env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	Migrate         bool          `yaml:"migrate"            env:"DATABASE_MIGRATE"            env-default:"true"`
}

// AuthConfig holds JWT and password recovery settings.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"        env:"AUTH_JWT_SECRET"        env-required:"true"`
	JWTIssuer       string        `yaml:"jwt_issuer"        env:"AUTH_JWT_ISSUER"        env-default:"asistente"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"  env:"AUTH_ACCESS_TOKEN_TTL"  env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"AUTH_REFRESH_TOKEN_TTL" env-default:"720h"`
	RecoveryCodeTTL time.Duration `yaml:"recovery_code_ttl" env:"AUTH_RECOVERY_CODE_TTL" env-default:"1h"`
}

// AssistantConfig holds command pipeline settings.
type AssistantConfig struct {
	// LogUnknown controls whether unrecognized commands are journaled.
	LogUnknown       bool          `yaml:"log_unknown"        env:"ASSISTANT_LOG_UNKNOWN"        env-default:"true"`
	JournalBuffer    int           `yaml:"journal_buffer"     env:"ASSISTANT_JOURNAL_BUFFER"     env-default:"256"`
	JournalWorkers   int           `yaml:"journal_workers"    env:"ASSISTANT_JOURNAL_WORKERS"    env-default:"2"`
	WikipediaBaseURL string        `yaml:"wikipedia_base_url" env:"ASSISTANT_WIKIPEDIA_BASE_URL" env-default:"https://es.wikipedia.org/api/rest_v1"`
	SpeechEndpoint   string        `yaml:"speech_endpoint"    env:"ASSISTANT_SPEECH_ENDPOINT"`
	SpeechAPIKey     string        `yaml:"speech_api_key"     env:"ASSISTANT_SPEECH_API_KEY"`
	SpeechLanguage   string        `yaml:"speech_language"    env:"ASSISTANT_SPEECH_LANGUAGE"    env-default:"es-ES"`
	LookupTimeout    time.Duration `yaml:"lookup_timeout"     env:"ASSISTANT_LOOKUP_TIMEOUT"     env-default:"10s"`
}

// MailConfig selects and configures the outgoing mail strategy.
// Strategy "log" writes messages to the operational log (development);
// "smtp" sends them through the configured SMTP server.
type MailConfig struct {
	Strategy string `yaml:"strategy"  env:"MAIL_STRATEGY"  env-default:"log"`
	From     string `yaml:"from"      env:"MAIL_FROM"`
	SMTPHost string `yaml:"smtp_host" env:"MAIL_SMTP_HOST"`
	SMTPPort int    `yaml:"smtp_port" env:"MAIL_SMTP_PORT" env-default:"587"`
	Username string `yaml:"username"  env:"MAIL_USERNAME"`
	Password string `yaml:"password"  env:"MAIL_PASSWORD"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
