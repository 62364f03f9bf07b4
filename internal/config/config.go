package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. JOBBOARD_DATABASE_DSN.
const EnvPrefix = "JOBBOARD"

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "config/config.yml"

type AppConfig struct {
	Port     int    `yaml:"port" envconfig:"port"`
	GinMode  string `yaml:"gin_mode" envconfig:"gin_mode"`
	Debug    bool   `yaml:"debug" envconfig:"debug"`
	LogLevel string `yaml:"log_level" envconfig:"log_level"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" envconfig:"driver"`
	DSN    string `yaml:"dsn" envconfig:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"addr"`
	Password string `yaml:"password" envconfig:"password"`
	DB       int    `yaml:"db" envconfig:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret" envconfig:"secret"`
	Issuer     string `yaml:"issuer" envconfig:"issuer"`
	AccessTTL  string `yaml:"access_ttl" envconfig:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl" envconfig:"refresh_ttl"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl" envconfig:"ttl"`
	Length       int    `yaml:"length" envconfig:"length"`
	MaxAttempts  int    `yaml:"max_attempts" envconfig:"max_attempts"`
	ResendWindow string `yaml:"resend_window" envconfig:"resend_window"`
	TokenTTL     string `yaml:"verification_token_ttl" envconfig:"verification_token_ttl"`
}

type EmailConfig struct {
	Transport     string `yaml:"transport" envconfig:"transport"`
	From          string `yaml:"from" envconfig:"from"`
	DefaultFrom   string `yaml:"default_from" envconfig:"default_from"`
	SMTPHost      string `yaml:"smtp_host" envconfig:"smtp_host"`
	SMTPPort      int    `yaml:"smtp_port" envconfig:"smtp_port"`
	SMTPUser      string `yaml:"smtp_user" envconfig:"smtp_user"`
	SMTPPassword  string `yaml:"smtp_password" envconfig:"smtp_password"`
	VerifyBaseURL string `yaml:"verify_base_url" envconfig:"verify_base_url"`
	SendTimeout   string `yaml:"send_timeout" envconfig:"send_timeout"`
}

type QueueConfig struct {
	URL                string `yaml:"url" envconfig:"url"`
	Name               string `yaml:"name" envconfig:"name"`
	DeadLetterExchange string `yaml:"dead_letter_exchange" envconfig:"dead_letter_exchange"`
	Workers            int    `yaml:"workers" envconfig:"workers"`
	Buffer             int    `yaml:"buffer" envconfig:"buffer"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"enabled"`
	JobsTTL string `yaml:"jobs_ttl" envconfig:"jobs_ttl"`
	ListTTL string `yaml:"list_ttl" envconfig:"list_ttl"`
}

type StorageConfig struct {
	MediaRoot      string `yaml:"media_root" envconfig:"media_root"`
	MaxResumeBytes int64  `yaml:"max_resume_bytes" envconfig:"max_resume_bytes"`
}

type RateLimitConfig struct {
	Enabled    bool `yaml:"enabled" envconfig:"enabled"`
	UserPerDay int  `yaml:"user_per_day" envconfig:"user_per_day"`
	AnonPerDay int  `yaml:"anon_per_day" envconfig:"anon_per_day"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" envconfig:"account_sid"`
	AuthToken  string `yaml:"auth_token" envconfig:"auth_token"`
	FromNumber string `yaml:"from_number" envconfig:"from_number"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path" envconfig:"model_path"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app" envconfig:"app"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"database"`
	Redis     RedisConfig     `yaml:"redis" envconfig:"redis"`
	JWT       JWTConfig       `yaml:"jwt" envconfig:"jwt"`
	OTP       OTPConfig       `yaml:"otp" envconfig:"otp"`
	Email     EmailConfig     `yaml:"email" envconfig:"email"`
	Queue     QueueConfig     `yaml:"queue" envconfig:"queue"`
	Cache     CacheConfig     `yaml:"cache" envconfig:"cache"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"storage"`
	RateLimit RateLimitConfig `yaml:"ratelimit" envconfig:"ratelimit"`
	Twilio    TwilioConfig    `yaml:"twilio" envconfig:"twilio"`
	Casbin    CasbinConfig    `yaml:"casbin" envconfig:"casbin"`
}

type Config struct {
	Port     string
	GinMode  string
	Debug    bool
	LogLevel string

	DBDriver string
	DSN      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	OTP_TTL          time.Duration
	OTP_Length       int
	OTP_MaxAttempts  int
	OTP_ResendWindow time.Duration
	EmailTokenTTL    time.Duration

	EmailTransport   string
	EmailFrom        string
	DefaultFromEmail string
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPassword     string
	VerifyBaseURL    string
	EmailSendTimeout time.Duration

	QueueURL          string
	QueueName         string
	QueueDeadLetterEx string
	QueueWorkers      int
	QueueBuffer       int

	CacheEnabled bool
	JobsCacheTTL time.Duration
	ListCacheTTL time.Duration

	MediaRoot      string
	MaxResumeBytes int64

	RateLimitEnabled bool
	UserPerDay       int
	AnonPerDay       int

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	CasbinModelPath string
}

// Defaults returns the file layout used when no config file is present.
func Defaults() ConfigFile {
	return ConfigFile{
		App:      AppConfig{Port: 8080, GinMode: "release", LogLevel: "info"},
		Database: DatabaseConfig{Driver: "postgres"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		JWT:      JWTConfig{Issuer: "jobboard", AccessTTL: "15m", RefreshTTL: "168h"},
		OTP: OTPConfig{
			TTL:          "10m",
			Length:       6,
			MaxAttempts:  5,
			ResendWindow: "60s",
			TokenTTL:     "24h",
		},
		Email: EmailConfig{
			Transport:   "console",
			From:        "noreply@nexusjobboard.com",
			DefaultFrom: "noreply@nexusjobboard.com",
			SMTPPort:    587,
			SendTimeout: "10s",
		},
		Queue:     QueueConfig{Name: "email_jobs", Workers: 2, Buffer: 256},
		Cache:     CacheConfig{Enabled: true, JobsTTL: "30s", ListTTL: "15s"},
		Storage:   StorageConfig{MediaRoot: "media", MaxResumeBytes: 5 << 20},
		RateLimit: RateLimitConfig{Enabled: true, UserPerDay: 1000, AnonPerDay: 100},
	}
}

// Load reads .env, the YAML file at CONFIG_PATH (or DefaultPath) and
// JOBBOARD_* environment overrides, in that order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path. A missing file leaves defaults in place.
func LoadFrom(path string) (*Config, error) {
	file := Defaults()
	if err := loadConfigFile(path, &file); err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, &file); err != nil {
		return nil, fmt.Errorf("could not apply environment overrides: %w", err)
	}

	cfg, err := file.flatten()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(path string, into *ConfigFile) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, into); err != nil {
		return fmt.Errorf("could not parse config yaml: %w", err)
	}
	return nil
}

func (f *ConfigFile) flatten() (*Config, error) {
	cfg := &Config{
		Port:     fmt.Sprintf("%d", f.App.Port),
		GinMode:  f.App.GinMode,
		Debug:    f.App.Debug,
		LogLevel: f.App.LogLevel,

		DBDriver: f.Database.Driver,
		DSN:      f.Database.DSN,

		RedisAddr:     f.Redis.Addr,
		RedisPassword: f.Redis.Password,
		RedisDB:       f.Redis.DB,

		JWTSecret: f.JWT.Secret,
		JWTIssuer: f.JWT.Issuer,

		OTP_Length:      f.OTP.Length,
		OTP_MaxAttempts: f.OTP.MaxAttempts,

		EmailTransport:   f.Email.Transport,
		EmailFrom:        f.Email.From,
		DefaultFromEmail: f.Email.DefaultFrom,
		SMTPHost:         f.Email.SMTPHost,
		SMTPPort:         f.Email.SMTPPort,
		SMTPUser:         f.Email.SMTPUser,
		SMTPPassword:     f.Email.SMTPPassword,
		VerifyBaseURL:    f.Email.VerifyBaseURL,

		QueueURL:          f.Queue.URL,
		QueueName:         f.Queue.Name,
		QueueDeadLetterEx: f.Queue.DeadLetterExchange,
		QueueWorkers:      f.Queue.Workers,
		QueueBuffer:       f.Queue.Buffer,

		CacheEnabled: f.Cache.Enabled,

		MediaRoot:      f.Storage.MediaRoot,
		MaxResumeBytes: f.Storage.MaxResumeBytes,

		RateLimitEnabled: f.RateLimit.Enabled,
		UserPerDay:       f.RateLimit.UserPerDay,
		AnonPerDay:       f.RateLimit.AnonPerDay,

		TwilioSID:   f.Twilio.AccountSID,
		TwilioToken: f.Twilio.AuthToken,
		TwilioFrom:  f.Twilio.FromNumber,

		CasbinModelPath: f.Casbin.ModelPath,
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"JWT access TTL", f.JWT.AccessTTL, &cfg.AccessTTL},
		{"JWT refresh TTL", f.JWT.RefreshTTL, &cfg.RefreshTTL},
		{"OTP TTL", f.OTP.TTL, &cfg.OTP_TTL},
		{"OTP resend window", f.OTP.ResendWindow, &cfg.OTP_ResendWindow},
		{"verification token TTL", f.OTP.TokenTTL, &cfg.EmailTokenTTL},
		{"email send timeout", f.Email.SendTimeout, &cfg.EmailSendTimeout},
		{"jobs cache TTL", f.Cache.JobsTTL, &cfg.JobsCacheTTL},
		{"list cache TTL", f.Cache.ListTTL, &cfg.ListCacheTTL},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.name, err)
		}
		*d.dst = v
	}

	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt.secret must be set")
	}
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	switch c.EmailTransport {
	case "console":
	case "smtp":
		if c.SMTPHost == "" {
			return errors.New("email.smtp_host must be set for smtp transport")
		}
	default:
		return fmt.Errorf("unsupported email transport %q", c.EmailTransport)
	}
	if c.OTP_Length <= 0 {
		return errors.New("otp.length must be positive")
	}
	if c.RateLimitEnabled && (c.UserPerDay <= 0 || c.AnonPerDay <= 0) {
		return errors.New("ratelimit rates must be positive")
	}
	return nil
}
