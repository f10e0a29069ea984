package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"resumeflow/internal/dedup"
)

const envPrefix = "RESUMEFLOW"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	S3         S3Config
	CORS       CORSConfig
	Generation GenerationConfig
	Batch      BatchConfig
	Dedup      DedupConfig
	Shortlist  ShortlistConfig
	Email      EmailConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GenerationProviderConfig holds settings for a single text-generation provider.
// Endpoint overrides the provider's API URL (e.g. an OpenAI-compatible host);
// Project and Location are only read by the vertex provider.
type GenerationProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	Endpoint     string `mapstructure:"endpoint"`
	Project      string `mapstructure:"project"`
	Location     string `mapstructure:"location"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// GenerationConfig holds generation settings with multi-provider support,
// response caching and client-side rate limiting.
type GenerationConfig struct {
	// Legacy flat fields
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	Endpoint     string `mapstructure:"endpoint"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	Primary   GenerationProviderConfig `mapstructure:"primary"`
	Secondary GenerationProviderConfig `mapstructure:"secondary"`
	Tertiary  GenerationProviderConfig `mapstructure:"tertiary"`

	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	CacheMaxEntries int           `mapstructure:"cache_max_entries"`
	RedisURL        string        `mapstructure:"redis_url"`
	RatePerSecond   float64       `mapstructure:"rate_per_second"`
	Burst           int           `mapstructure:"burst"`
}

// PrimaryConfig returns the primary provider config, falling back to legacy flat fields.
func (g *GenerationConfig) PrimaryConfig() *GenerationProviderConfig {
	if g.Primary.Provider != "" {
		return &g.Primary
	}
	return &GenerationProviderConfig{
		Provider:     g.Provider,
		APIKey:       g.APIKey,
		DefaultModel: g.DefaultModel,
		Endpoint:     g.Endpoint,
		TimeoutSecs:  g.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (g *GenerationConfig) SecondaryConfig() *GenerationProviderConfig {
	if g.Secondary.Provider != "" {
		return &g.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (g *GenerationConfig) TertiaryConfig() *GenerationProviderConfig {
	if g.Tertiary.Provider != "" {
		return &g.Tertiary
	}
	return nil
}

// BatchConfig holds batch ingestion limits.
type BatchConfig struct {
	MaxFiles        int  `mapstructure:"max_files"`
	Concurrency     int  `mapstructure:"concurrency"`
	MinTextChars    int  `mapstructure:"min_text_chars"`
	ValidateContent bool `mapstructure:"validate_content"`
}

// DedupConfig holds the content-identity weights and threshold.
type DedupConfig struct {
	Threshold           float64 `mapstructure:"threshold"`
	NameExactWeight     float64 `mapstructure:"name_exact_weight"`
	NameSubstringWeight float64 `mapstructure:"name_substring_weight"`
	EmailWeight         float64 `mapstructure:"email_weight"`
	PhoneWeight         float64 `mapstructure:"phone_weight"`
}

// Policy converts the config into a dedup.Policy. Unset values take defaults.
func (d *DedupConfig) Policy() dedup.Policy {
	p := dedup.DefaultPolicy()
	if d.Threshold > 0 {
		p.Threshold = d.Threshold
	}
	if d.NameExactWeight > 0 {
		p.NameExactWeight = d.NameExactWeight
	}
	if d.NameSubstringWeight > 0 {
		p.NameSubstringWeight = d.NameSubstringWeight
	}
	if d.EmailWeight > 0 {
		p.EmailWeight = d.EmailWeight
	}
	if d.PhoneWeight > 0 {
		p.PhoneWeight = d.PhoneWeight
	}
	return p
}

// ShortlistConfig holds shortlisting settings.
type ShortlistConfig struct {
	Concurrency     int `mapstructure:"concurrency"`
	DefaultMinScore int `mapstructure:"default_min_score"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds database connection settings. Driver is "postgres" or "sqlite".
type DBConfig struct {
	Driver     string `mapstructure:"driver"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"sslmode"`
	SQLitePath string `mapstructure:"sqlite_path"`
	MaxOpen    int    `mapstructure:"max_open"`
	MaxIdle    int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds access token verification settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

var providerSlots = []string{"primary", "secondary", "tertiary"}

var providerFields = []string{"provider", "api_key", "default_model", "endpoint", "project", "location", "timeout_secs"}

// Load reads configuration from environment variables with the RESUMEFLOW_
// prefix. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "resumeflow")
	v.SetDefault("db.password", "resumeflow_secret")
	v.SetDefault("db.name", "resumeflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.sqlite_path", "resumeflow.db")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.issuer", "resumeflow")

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "resumeflow-resumes")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 10)
	v.SetDefault("s3.presign_expiry", 3600)

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Generation defaults (legacy flat)
	v.SetDefault("generation.provider", "openai")
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.default_model", "")
	v.SetDefault("generation.endpoint", "")
	v.SetDefault("generation.timeout_secs", 120)
	for _, slot := range providerSlots {
		for _, field := range providerFields {
			v.SetDefault("generation."+slot+"."+field, "")
		}
		v.SetDefault("generation."+slot+".timeout_secs", 120)
	}
	v.SetDefault("generation.cache_ttl", "24h")
	v.SetDefault("generation.cache_max_entries", 1000)
	v.SetDefault("generation.redis_url", "")
	v.SetDefault("generation.rate_per_second", 0)
	v.SetDefault("generation.burst", 1)

	// Batch defaults
	v.SetDefault("batch.max_files", 50)
	v.SetDefault("batch.concurrency", 5)
	v.SetDefault("batch.min_text_chars", 100)
	v.SetDefault("batch.validate_content", false)

	// Dedup defaults
	v.SetDefault("dedup.threshold", dedup.DefaultThreshold)
	v.SetDefault("dedup.name_exact_weight", 3)
	v.SetDefault("dedup.name_substring_weight", 2)
	v.SetDefault("dedup.email_weight", 2)
	v.SetDefault("dedup.phone_weight", 2)

	// Shortlist defaults
	v.SetDefault("shortlist.concurrency", 4)
	v.SetDefault("shortlist.default_min_score", 70)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@resumeflow.local")
	v.SetDefault("email.from_name", "ResumeFlow")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "RESUMEFLOW_SERVER_PORT",
		"server.read_timeout":          "RESUMEFLOW_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "RESUMEFLOW_SERVER_WRITE_TIMEOUT",
		"server.environment":           "RESUMEFLOW_SERVER_ENVIRONMENT",
		"db.driver":                    "RESUMEFLOW_DB_DRIVER",
		"db.host":                      "RESUMEFLOW_DB_HOST",
		"db.port":                      "RESUMEFLOW_DB_PORT",
		"db.user":                      "RESUMEFLOW_DB_USER",
		"db.password":                  "RESUMEFLOW_DB_PASSWORD",
		"db.name":                      "RESUMEFLOW_DB_NAME",
		"db.sslmode":                   "RESUMEFLOW_DB_SSLMODE",
		"db.sqlite_path":               "RESUMEFLOW_DB_SQLITE_PATH",
		"db.max_open":                  "RESUMEFLOW_DB_MAX_OPEN",
		"db.max_idle":                  "RESUMEFLOW_DB_MAX_IDLE",
		"jwt.secret":                   "RESUMEFLOW_JWT_SECRET",
		"jwt.access_expiry":            "RESUMEFLOW_JWT_ACCESS_EXPIRY",
		"jwt.issuer":                   "RESUMEFLOW_JWT_ISSUER",
		"s3.enabled":                   "RESUMEFLOW_S3_ENABLED",
		"s3.region":                    "RESUMEFLOW_S3_REGION",
		"s3.bucket":                    "RESUMEFLOW_S3_BUCKET",
		"s3.endpoint":                  "RESUMEFLOW_S3_ENDPOINT",
		"s3.access_key":                "RESUMEFLOW_S3_ACCESS_KEY",
		"s3.secret_key":                "RESUMEFLOW_S3_SECRET_KEY",
		"s3.max_file_size_mb":          "RESUMEFLOW_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":            "RESUMEFLOW_S3_PRESIGN_EXPIRY",
		"cors.allowed_origins":         "RESUMEFLOW_CORS_ALLOWED_ORIGINS",
		"generation.provider":          "RESUMEFLOW_GENERATION_PROVIDER",
		"generation.api_key":           "RESUMEFLOW_GENERATION_API_KEY",
		"generation.default_model":     "RESUMEFLOW_GENERATION_DEFAULT_MODEL",
		"generation.endpoint":          "RESUMEFLOW_GENERATION_ENDPOINT",
		"generation.timeout_secs":      "RESUMEFLOW_GENERATION_TIMEOUT_SECS",
		"generation.cache_ttl":         "RESUMEFLOW_GENERATION_CACHE_TTL",
		"generation.cache_max_entries": "RESUMEFLOW_GENERATION_CACHE_MAX_ENTRIES",
		"generation.redis_url":         "RESUMEFLOW_GENERATION_REDIS_URL",
		"generation.rate_per_second":   "RESUMEFLOW_GENERATION_RATE_PER_SECOND",
		"generation.burst":             "RESUMEFLOW_GENERATION_BURST",
		"batch.max_files":              "RESUMEFLOW_BATCH_MAX_FILES",
		"batch.concurrency":            "RESUMEFLOW_BATCH_CONCURRENCY",
		"batch.min_text_chars":         "RESUMEFLOW_BATCH_MIN_TEXT_CHARS",
		"batch.validate_content":       "RESUMEFLOW_BATCH_VALIDATE_CONTENT",
		"dedup.threshold":              "RESUMEFLOW_DEDUP_THRESHOLD",
		"dedup.name_exact_weight":      "RESUMEFLOW_DEDUP_NAME_EXACT_WEIGHT",
		"dedup.name_substring_weight":  "RESUMEFLOW_DEDUP_NAME_SUBSTRING_WEIGHT",
		"dedup.email_weight":           "RESUMEFLOW_DEDUP_EMAIL_WEIGHT",
		"dedup.phone_weight":           "RESUMEFLOW_DEDUP_PHONE_WEIGHT",
		"shortlist.concurrency":        "RESUMEFLOW_SHORTLIST_CONCURRENCY",
		"shortlist.default_min_score":  "RESUMEFLOW_SHORTLIST_DEFAULT_MIN_SCORE",
		"email.provider":               "RESUMEFLOW_EMAIL_PROVIDER",
		"email.region":                 "RESUMEFLOW_EMAIL_REGION",
		"email.from_address":           "RESUMEFLOW_EMAIL_FROM_ADDRESS",
		"email.from_name":              "RESUMEFLOW_EMAIL_FROM_NAME",
	}
	// generation.<slot>.<field> -> RESUMEFLOW_GENERATION_<SLOT>_<FIELD>
	for _, slot := range providerSlots {
		for _, field := range providerFields {
			key := "generation." + slot + "." + field
			envBindings[key] = envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if RESUMEFLOW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RESUMEFLOW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Driver:     strings.ToLower(v.GetString("db.driver")),
		Host:       v.GetString("db.host"),
		Port:       v.GetInt("db.port"),
		User:       v.GetString("db.user"),
		Password:   v.GetString("db.password"),
		Name:       v.GetString("db.name"),
		SSLMode:    v.GetString("db.sslmode"),
		SQLitePath: v.GetString("db.sqlite_path"),
		MaxOpen:    v.GetInt("db.max_open"),
		MaxIdle:    v.GetInt("db.max_idle"),
	}
	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("config.Load: unsupported db driver %q", cfg.DB.Driver)
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Enabled:       v.GetBool("s3.enabled"),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Generation = GenerationConfig{
		Provider:        v.GetString("generation.provider"),
		APIKey:          v.GetString("generation.api_key"),
		DefaultModel:    v.GetString("generation.default_model"),
		Endpoint:        v.GetString("generation.endpoint"),
		TimeoutSecs:     v.GetInt("generation.timeout_secs"),
		Primary:         providerConfig(v, "primary"),
		Secondary:       providerConfig(v, "secondary"),
		Tertiary:        providerConfig(v, "tertiary"),
		CacheTTL:        v.GetDuration("generation.cache_ttl"),
		CacheMaxEntries: v.GetInt("generation.cache_max_entries"),
		RedisURL:        v.GetString("generation.redis_url"),
		RatePerSecond:   v.GetFloat64("generation.rate_per_second"),
		Burst:           v.GetInt("generation.burst"),
	}

	cfg.Batch = BatchConfig{
		MaxFiles:        v.GetInt("batch.max_files"),
		Concurrency:     v.GetInt("batch.concurrency"),
		MinTextChars:    v.GetInt("batch.min_text_chars"),
		ValidateContent: v.GetBool("batch.validate_content"),
	}

	cfg.Dedup = DedupConfig{
		Threshold:           v.GetFloat64("dedup.threshold"),
		NameExactWeight:     v.GetFloat64("dedup.name_exact_weight"),
		NameSubstringWeight: v.GetFloat64("dedup.name_substring_weight"),
		EmailWeight:         v.GetFloat64("dedup.email_weight"),
		PhoneWeight:         v.GetFloat64("dedup.phone_weight"),
	}

	cfg.Shortlist = ShortlistConfig{
		Concurrency:     v.GetInt("shortlist.concurrency"),
		DefaultMinScore: v.GetInt("shortlist.default_min_score"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, slot string) GenerationProviderConfig {
	prefix := "generation." + slot + "."
	return GenerationProviderConfig{
		Provider:     v.GetString(prefix + "provider"),
		APIKey:       v.GetString(prefix + "api_key"),
		DefaultModel: v.GetString(prefix + "default_model"),
		Endpoint:     v.GetString(prefix + "endpoint"),
		Project:      v.GetString(prefix + "project"),
		Location:     v.GetString(prefix + "location"),
		TimeoutSecs:  v.GetInt(prefix + "timeout_secs"),
	}
}
