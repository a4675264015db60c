package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	API       APIConfig
	YTDLP     YTDLPConfig
	Relay     RelayConfig
	Merge     MergeConfig
	Selection SelectionConfig
	Log       LogConfig
	S3        S3Config
	CORS      CORSConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	Port            string
	Host            string
	StaticDir       string
	ShutdownTimeout time.Duration
}

type APIConfig struct {
	Prefix            string
	APIKey            string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// YTDLPConfig describes how the extraction tool is invoked.
type YTDLPConfig struct {
	BinaryPath      string
	MetadataTimeout time.Duration
	CookiesPath     string
	// Cookies is the raw Netscape cookie blob supplied out of band. It is
	// written to CookiesPath once at startup.
	Cookies string
}

type RelayConfig struct {
	BufferSize int
	KillGrace  time.Duration
}

type MergeConfig struct {
	FFmpegPath string
	TempDir    string
	Timeout    time.Duration
	URLExpiry  time.Duration
}

type SelectionConfig struct {
	DefaultQuality int
}

// S3Config is optional: an empty BucketName disables artifact storage.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	EndpointURL     string
}

func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
	Profile          string
	// CrossOriginIsolation adds the COOP/COEP headers browsers require before
	// they hand SharedArrayBuffer to in-page transcoders.
	CrossOriginIsolation bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", getEnv("PORT", "3000"))
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.StaticDir = getEnv("STATIC_DIR", "")
	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.Server.ShutdownTimeout = shutdownTimeout

	// Logging configuration
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// API configuration
	cfg.API.Prefix = getEnv("API_PREFIX", "/api")
	cfg.API.APIKey = getEnv("API_KEY", "")
	cfg.API.RateLimitRequests = getEnvInt("RATE_LIMIT_REQUESTS", 100)
	rateLimitWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	cfg.API.RateLimitWindow = rateLimitWindow

	// yt-dlp configuration
	cfg.YTDLP.BinaryPath = getEnv("YTDLP_PATH", "yt-dlp")
	metadataTimeout, err := time.ParseDuration(getEnv("METADATA_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid METADATA_TIMEOUT: %w", err)
	}
	cfg.YTDLP.MetadataTimeout = metadataTimeout
	cfg.YTDLP.CookiesPath = getEnv("COOKIES_PATH", "cookies.txt")
	cfg.YTDLP.Cookies = os.Getenv("YT_COOKIES")

	// Relay configuration
	cfg.Relay.BufferSize = getEnvInt("RELAY_BUFFER_SIZE", 32*1024)
	killGrace, err := time.ParseDuration(getEnv("RELAY_KILL_GRACE", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RELAY_KILL_GRACE: %w", err)
	}
	cfg.Relay.KillGrace = killGrace

	// Merge configuration
	cfg.Merge.FFmpegPath = getEnv("FFMPEG_PATH", "ffmpeg")
	cfg.Merge.TempDir = getEnv("MERGE_TEMP_DIR", os.TempDir())
	mergeTimeout, err := time.ParseDuration(getEnv("MERGE_TIMEOUT", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid MERGE_TIMEOUT: %w", err)
	}
	cfg.Merge.Timeout = mergeTimeout
	urlExpiry, err := time.ParseDuration(getEnv("MERGE_URL_EXPIRY", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid MERGE_URL_EXPIRY: %w", err)
	}
	cfg.Merge.URLExpiry = urlExpiry

	// Selection configuration
	cfg.Selection.DefaultQuality = getEnvInt("DEFAULT_QUALITY", 1080)
	if cfg.Selection.DefaultQuality <= 0 {
		return nil, fmt.Errorf("invalid DEFAULT_QUALITY: %d", cfg.Selection.DefaultQuality)
	}

	// S3 configuration (optional)
	cfg.S3.Region = getEnv("AWS_REGION", "us-east-1")
	cfg.S3.BucketName = getEnv("S3_BUCKET_NAME", "")
	cfg.S3.EndpointURL = getEnv("AWS_ENDPOINT_URL", "") // Optional for LocalStack / MinIO
	cfg.S3.AccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.S3.SecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")

	// CORS configuration
	cfg.CORS = loadCORSConfig()

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(strings.TrimSpace(value), ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

// loadCORSConfig loads CORS configuration based on profile or custom settings
func loadCORSConfig() CORSConfig {
	profile := getEnv("CORS_PROFILE", "public")

	var cfg CORSConfig
	switch profile {
	case "development":
		cfg = getDevelopmentCORSConfig()
	case "production":
		cfg = getProductionCORSConfig()
	default:
		cfg = getPublicCORSConfig()
	}
	cfg.CrossOriginIsolation = getEnvBool("CROSS_ORIGIN_ISOLATION", true)
	return cfg
}

// getDevelopmentCORSConfig returns permissive CORS settings for local front-end work
func getDevelopmentCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled: getEnvBool("CORS_ENABLED", true),
		AllowedOrigins: getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		}),
		AllowedMethods: getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "OPTIONS"}),
		AllowedHeaders: getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{
			"Origin", "Content-Type", "Accept", "Range", "X-API-Key", "X-Correlation-ID",
		}),
		ExposedHeaders: getEnvStringSlice("CORS_EXPOSED_HEADERS", []string{
			"Content-Disposition", "X-Request-ID", "X-Correlation-ID",
		}),
		AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", true),
		MaxAge:           getEnvInt("CORS_MAX_AGE", 86400),
		Profile:          "development",
	}
}

// getProductionCORSConfig restricts origins to the configured front-end
func getProductionCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled:          getEnvBool("CORS_ENABLED", true),
		AllowedOrigins:   getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{}),
		AllowedMethods:   getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "OPTIONS"}),
		AllowedHeaders:   getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-API-Key"}),
		ExposedHeaders:   getEnvStringSlice("CORS_EXPOSED_HEADERS", []string{"Content-Disposition"}),
		AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
		MaxAge:           getEnvInt("CORS_MAX_AGE", 3600),
		Profile:          "production",
	}
}

// getPublicCORSConfig allows any origin, matching a tool meant to be called
// from arbitrary pages.
func getPublicCORSConfig() CORSConfig {
	return CORSConfig{
		Enabled:          getEnvBool("CORS_ENABLED", true),
		AllowedOrigins:   getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AllowedMethods:   getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "OPTIONS"}),
		AllowedHeaders:   getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-API-Key"}),
		ExposedHeaders:   getEnvStringSlice("CORS_EXPOSED_HEADERS", []string{"Content-Disposition"}),
		AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", false),
		MaxAge:           getEnvInt("CORS_MAX_AGE", 3600),
		Profile:          "public",
	}
}
