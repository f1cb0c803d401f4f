package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Preference backends.
const (
	PreferencesMemory   = "memory"
	PreferencesFile     = "file"
	PreferencesRedis    = "redis"
	PreferencesPostgres = "postgres"
)

type Config struct {
	Env        string
	Port       int
	APIPrefix  string
	APIBaseURL string

	Mock        MockConfig
	Client      ClientConfig
	Preferences PreferencesConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Exports     ExportsConfig
}

// MockConfig controls the in-process mock backend.
type MockConfig struct {
	Enabled    bool
	LatencyMin time.Duration
	LatencyMax time.Duration
	Seed       int64
	Students   int
	Days       int
	Hosts      []string
}

// ClientConfig tunes the REST client used by the stores.
type ClientConfig struct {
	Timeout time.Duration
}

// PreferencesConfig selects where UI preferences are persisted.
type PreferencesConfig struct {
	Backend   string
	Dir       string
	KeyPrefix string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// ExportsConfig controls where dashctl writes exported files and the font used for PDF exports.
type ExportsConfig struct {
	Dir     string
	PDFFont string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = "/" + strings.Trim(v.GetString("API_PREFIX"), "/")
	cfg.APIBaseURL = strings.TrimRight(v.GetString("API_BASE_URL"), "/")

	mockEnabled := cfg.Env != EnvProduction
	if v.IsSet("MOCK_ENABLED") {
		mockEnabled = v.GetBool("MOCK_ENABLED")
	}
	latencyMin := parseDuration(v.GetString("MOCK_LATENCY_MIN"), 100*time.Millisecond)
	latencyMax := parseDuration(v.GetString("MOCK_LATENCY_MAX"), 300*time.Millisecond)
	if latencyMax < latencyMin {
		latencyMax = latencyMin
	}
	cfg.Mock = MockConfig{
		Enabled:    mockEnabled,
		LatencyMin: latencyMin,
		LatencyMax: latencyMax,
		Seed:       v.GetInt64("MOCK_SEED"),
		Students:   positiveOr(v.GetInt("MOCK_STUDENTS"), 50),
		Days:       positiveOr(v.GetInt("MOCK_DAYS"), 15),
		Hosts:      splitAndTrim(v.GetString("MOCK_HOSTS")),
	}

	cfg.Client = ClientConfig{
		Timeout: parseDuration(v.GetString("CLIENT_TIMEOUT"), 10*time.Second),
	}

	cfg.Preferences = PreferencesConfig{
		Backend:   strings.ToLower(v.GetString("PREFERENCES_BACKEND")),
		Dir:       v.GetString("PREFERENCES_DIR"),
		KeyPrefix: v.GetString("PREFERENCES_KEY_PREFIX"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}
	cfg.Exports = ExportsConfig{
		Dir:     v.GetString("EXPORTS_DIR"),
		PDFFont: v.GetString("PDF_FONT_PATH"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("API_BASE_URL", "http://localhost:8080/api/v1")

	v.SetDefault("MOCK_LATENCY_MIN", "100ms")
	v.SetDefault("MOCK_LATENCY_MAX", "300ms")
	v.SetDefault("MOCK_SEED", 0)
	v.SetDefault("MOCK_STUDENTS", 50)
	v.SetDefault("MOCK_DAYS", 15)
	v.SetDefault("MOCK_HOSTS", "localhost:8080,127.0.0.1:8080")

	v.SetDefault("CLIENT_TIMEOUT", "10s")

	v.SetDefault("PREFERENCES_BACKEND", PreferencesFile)
	v.SetDefault("PREFERENCES_DIR", "./.dashboard")
	v.SetDefault("PREFERENCES_KEY_PREFIX", "dashboard:prefs:")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "attendance_dashboard")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("EXPORTS_DIR", "./exports")
	v.SetDefault("PDF_FONT_PATH", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
