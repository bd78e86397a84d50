package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Log           LogConfig
	Database      DatabaseConfig
	App           AppConfig
	Cache         CacheConfig
	Summary       SummaryConfig
	Capabilities  Capabilities
	Forecast      ForecastConfig
	ObjectStorage ObjectStorageConfig
	Drive         DriveConfig
	Metrics       MetricsConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type LogConfig struct {
	Level string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	DataDir   string
	OutputDir string
	// Source selects where input tables are read from: local, s3, drive or postgres.
	Source string
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	SummaryTTLSeconds int
}

type SummaryConfig struct {
	APIURL         string
	APIKey         string
	Model          string
	TimeoutSeconds int
	MaxReviews     int
}

// Capabilities are the optional analysis backends, resolved once at start.
type Capabilities struct {
	Linguistic  bool
	Forecasting bool
}

type ForecastConfig struct {
	Periods int
}

type ObjectStorageConfig struct {
	Driver    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
	Region    string
}

type DriveConfig struct {
	FolderID        string
	CredentialsJSON string
	DownloadDir     string
}

type MetricsConfig struct {
	Enabled bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.AutomaticEnv()
		instance = build(viper.GetViper())

		ensureDir(instance.App.OutputDir)
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "restopro")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("APP_DATA_DIR", "./data")
	v.SetDefault("APP_OUTPUT_DIR", "./data/output")
	v.SetDefault("APP_SOURCE", "local")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_SUMMARY_TTL_SECONDS", 3600)
	v.SetDefault("SUMMARY_API_URL", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("SUMMARY_API_KEY", "")
	v.SetDefault("SUMMARY_MODEL", "openai/gpt-4o-mini")
	v.SetDefault("SUMMARY_TIMEOUT_SECONDS", 0)
	v.SetDefault("SUMMARY_MAX_REVIEWS", 50)
	v.SetDefault("NLP_ENABLED", true)
	v.SetDefault("FORECAST_ENABLED", true)
	v.SetDefault("FORECAST_PERIODS", 14)
	v.SetDefault("S3_DRIVER", "minio")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_PREFIX", "")
	v.SetDefault("S3_USE_SSL", true)
	v.SetDefault("S3_REGION", "")
	v.SetDefault("DRIVE_FOLDER_ID", "")
	v.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
	v.SetDefault("DRIVE_DOWNLOAD_DIR", "./data/drive")
	v.SetDefault("METRICS_ENABLED", true)
}

func build(v *viper.Viper) *Config {
	setDefaults(v)

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		App: AppConfig{
			DataDir:   v.GetString("APP_DATA_DIR"),
			OutputDir: v.GetString("APP_OUTPUT_DIR"),
			Source:    v.GetString("APP_SOURCE"),
		},
		Cache: CacheConfig{
			Enabled:           v.GetBool("CACHE_ENABLED"),
			RedisURL:          v.GetString("REDIS_URL"),
			RedisHost:         v.GetString("REDIS_HOST"),
			RedisPort:         v.GetString("REDIS_PORT"),
			RedisPassword:     v.GetString("REDIS_PASSWORD"),
			RedisDB:           v.GetInt("REDIS_DB"),
			SummaryTTLSeconds: v.GetInt("CACHE_SUMMARY_TTL_SECONDS"),
		},
		Summary: SummaryConfig{
			APIURL:         v.GetString("SUMMARY_API_URL"),
			APIKey:         v.GetString("SUMMARY_API_KEY"),
			Model:          v.GetString("SUMMARY_MODEL"),
			TimeoutSeconds: v.GetInt("SUMMARY_TIMEOUT_SECONDS"),
			MaxReviews:     v.GetInt("SUMMARY_MAX_REVIEWS"),
		},
		Capabilities: Capabilities{
			Linguistic:  v.GetBool("NLP_ENABLED"),
			Forecasting: v.GetBool("FORECAST_ENABLED"),
		},
		Forecast: ForecastConfig{
			Periods: v.GetInt("FORECAST_PERIODS"),
		},
		ObjectStorage: ObjectStorageConfig{
			Driver:    v.GetString("S3_DRIVER"),
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			Bucket:    v.GetString("S3_BUCKET"),
			Prefix:    v.GetString("S3_PREFIX"),
			UseSSL:    v.GetBool("S3_USE_SSL"),
			Region:    v.GetString("S3_REGION"),
		},
		Drive: DriveConfig{
			FolderID:        v.GetString("DRIVE_FOLDER_ID"),
			CredentialsJSON: v.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			DownloadDir:     v.GetString("DRIVE_DOWNLOAD_DIR"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
