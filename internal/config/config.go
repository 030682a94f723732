package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	AI        AIConfig
	OAuth     OAuthConfig     `mapstructure:"oauth"`
	Mail      MailConfig      `mapstructure:"mail"`
	Search    SearchConfig    `mapstructure:"search"`
	Sentiment SentimentConfig `mapstructure:"sentiment"`
	Adzuna    AdzunaConfig    `mapstructure:"adzuna"`
	Storage   StorageConfig
	Documents DocumentsConfig `mapstructure:"documents"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
	// BaseURL 本服务对外地址，用于拼接 OAuth 回调、重置密码链接
	BaseURL string `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// OAuthProviderConfig 单个 OAuth 提供方的应用凭证
type OAuthProviderConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

type OAuthConfig struct {
	// FrontendBaseURL 登录成功后跳转的前端地址
	FrontendBaseURL string              `mapstructure:"frontend_base_url"`
	NonceTTLMinutes int                 `mapstructure:"nonce_ttl_minutes"`
	Google          OAuthProviderConfig `mapstructure:"google"`
	Microsoft       OAuthProviderConfig `mapstructure:"microsoft"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type SearchConfig struct {
	GoogleAPIKey   string `mapstructure:"google_api_key"`
	GoogleEngineID string `mapstructure:"google_engine_id"`
	BingAPIKey     string `mapstructure:"bing_api_key"`
}

type SentimentConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
}

type AdzunaConfig struct {
	AppID   string `mapstructure:"app_id"`
	AppKey  string `mapstructure:"app_key"`
	Country string `mapstructure:"country"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type DocumentsConfig struct {
	// MaxAgeHours 生成文档的保留时长，超时由后台任务清理
	MaxAgeHours    int `mapstructure:"max_age_hours"`
	CleanupMinutes int `mapstructure:"cleanup_minutes"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("STUDY_BUDDY")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")
	viper.BindEnv("server.base_url", "SERVER_BASE_URL")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// OAuth
	viper.BindEnv("oauth.frontend_base_url", "BASE_URL")
	viper.BindEnv("oauth.google.client_id", "GOOGLE_CLIENT_ID")
	viper.BindEnv("oauth.google.client_secret", "GOOGLE_CLIENT_SECRET")
	viper.BindEnv("oauth.microsoft.client_id", "MICROSOFT_CLIENT_ID")
	viper.BindEnv("oauth.microsoft.client_secret", "MICROSOFT_CLIENT_SECRET")

	// Mail
	viper.BindEnv("mail.host", "MAIL_HOST")
	viper.BindEnv("mail.port", "MAIL_PORT")
	viper.BindEnv("mail.username", "MAIL_USERNAME")
	viper.BindEnv("mail.password", "MAIL_PASSWORD")
	viper.BindEnv("mail.from", "MAIL_FROM")

	// 第三方搜索/内容 API
	viper.BindEnv("search.google_api_key", "GOOGLE_SEARCH_API_KEY")
	viper.BindEnv("search.google_engine_id", "GOOGLE_SEARCH_ENGINE_ID")
	viper.BindEnv("search.bing_api_key", "BING_SEARCH_API_KEY")
	viper.BindEnv("sentiment.endpoint", "TEXT_ANALYTICS_ENDPOINT")
	viper.BindEnv("sentiment.api_key", "TEXT_ANALYTICS_KEY")
	viper.BindEnv("adzuna.app_id", "ADZUNA_APP_ID")
	viper.BindEnv("adzuna.app_key", "ADZUNA_APP_KEY")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.JWT.ExpireTime == 0 {
		cfg.JWT.ExpireTime = 72
	}
	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.OAuth.NonceTTLMinutes <= 0 {
		cfg.OAuth.NonceTTLMinutes = 10
	}
	if cfg.Documents.MaxAgeHours <= 0 {
		cfg.Documents.MaxAgeHours = 24
	}
	if cfg.Documents.CleanupMinutes <= 0 {
		cfg.Documents.CleanupMinutes = 30
	}
	if cfg.Adzuna.Country == "" {
		cfg.Adzuna.Country = "us"
	}

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
