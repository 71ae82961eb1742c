package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/risk"
	"github.com/vyapardesk/vyapardesk/backend/go-services/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	Redis      RedisConfig
	MinIO      MinIOConfig
	ChatModel  ChatModelConfig
	Enrichment EnrichmentConfig
	Risk       risk.Weights
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type ChatModelConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type EnrichmentConfig struct {
	GSTBaseURL     string
	PincodeBaseURL string
	IFSCBaseURL    string
	Timeout        time.Duration
	CacheTTL       time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and an optional
// .env file. Every backing service is optional: with nothing configured the
// wizard runs memory-backed with the mock extractor and no assistant.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5002")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DATABASE", "vyapardesk")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("SESSION_TTL_MINUTES", 1440)
	viper.SetDefault("MINIO_BUCKET", "vyapardesk-uploads")
	viper.SetDefault("ENRICH_TIMEOUT_SECONDS", 10)
	viper.SetDefault("ENRICH_CACHE_TTL_HOURS", 24)
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	defaults := risk.DefaultWeights()
	viper.SetDefault("RISK_STEP_TIME_SECONDS", defaults.StepTimeThresholdSeconds)
	viper.SetDefault("RISK_STEP_TIME_WEIGHT", defaults.StepTimeWeight)
	viper.SetDefault("RISK_SESSION_TIME_SECONDS", defaults.SessionTimeThresholdSeconds)
	viper.SetDefault("RISK_SESSION_COMPLETION_RATIO", defaults.SessionCompletionRatio)
	viper.SetDefault("RISK_SESSION_TIME_WEIGHT", defaults.SessionTimeWeight)
	viper.SetDefault("RISK_FAILURE_THRESHOLD", defaults.FailureThreshold)
	viper.SetDefault("RISK_FAILURE_WEIGHT", defaults.FailureWeight)
	viper.SetDefault("RISK_TAB_HIDDEN_THRESHOLD", defaults.TabHiddenThreshold)
	viper.SetDefault("RISK_TAB_HIDDEN_WEIGHT", defaults.TabHiddenWeightPerEvent)
	viper.SetDefault("RISK_TAB_HIDDEN_CAP", defaults.TabHiddenCap)
	viper.SetDefault("RISK_HELP_THRESHOLD", defaults.HelpRequestThreshold)
	viper.SetDefault("RISK_HELP_WEIGHT", defaults.HelpRequestWeight)
	viper.SetDefault("RISK_REVISIT_THRESHOLD", defaults.RevisitThreshold)
	viper.SetDefault("RISK_REVISIT_WEIGHT", defaults.RevisitWeight)
	viper.SetDefault("RISK_TIER_HIGH", 0.7)
	viper.SetDefault("RISK_TIER_MEDIUM", 0.5)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:       viper.GetString("REDIS_HOST"),
			Port:       viper.GetString("REDIS_PORT"),
			Password:   viper.GetString("REDIS_PASSWORD"),
			DB:         0,
			SessionTTL: time.Duration(viper.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
		ChatModel: ChatModelConfig{
			BaseURL: viper.GetString("CHAT_MODEL_BASE_URL"),
			APIKey:  viper.GetString("CHAT_MODEL_API_KEY"),
			Model:   viper.GetString("CHAT_MODEL_NAME"),
		},
		Enrichment: EnrichmentConfig{
			GSTBaseURL:     viper.GetString("ENRICH_GST_BASE_URL"),
			PincodeBaseURL: viper.GetString("ENRICH_PINCODE_BASE_URL"),
			IFSCBaseURL:    viper.GetString("ENRICH_IFSC_BASE_URL"),
			Timeout:        time.Duration(viper.GetInt("ENRICH_TIMEOUT_SECONDS")) * time.Second,
			CacheTTL:       time.Duration(viper.GetInt("ENRICH_CACHE_TTL_HOURS")) * time.Hour,
		},
		Risk: risk.Weights{
			StepTimeThresholdSeconds:    viper.GetInt("RISK_STEP_TIME_SECONDS"),
			StepTimeWeight:              viper.GetFloat64("RISK_STEP_TIME_WEIGHT"),
			SessionTimeThresholdSeconds: viper.GetInt("RISK_SESSION_TIME_SECONDS"),
			SessionCompletionRatio:      viper.GetFloat64("RISK_SESSION_COMPLETION_RATIO"),
			SessionTimeWeight:           viper.GetFloat64("RISK_SESSION_TIME_WEIGHT"),
			FailureThreshold:            viper.GetInt("RISK_FAILURE_THRESHOLD"),
			FailureWeight:               viper.GetFloat64("RISK_FAILURE_WEIGHT"),
			TabHiddenThreshold:          viper.GetInt("RISK_TAB_HIDDEN_THRESHOLD"),
			TabHiddenWeightPerEvent:     viper.GetFloat64("RISK_TAB_HIDDEN_WEIGHT"),
			TabHiddenCap:                viper.GetFloat64("RISK_TAB_HIDDEN_CAP"),
			HelpRequestThreshold:        viper.GetInt("RISK_HELP_THRESHOLD"),
			HelpRequestWeight:           viper.GetFloat64("RISK_HELP_WEIGHT"),
			RevisitThreshold:            viper.GetInt("RISK_REVISIT_THRESHOLD"),
			RevisitWeight:               viper.GetFloat64("RISK_REVISIT_WEIGHT"),
			HighTier:                    viper.GetFloat64("RISK_TIER_HIGH"),
			MediumTier:                  viper.GetFloat64("RISK_TIER_MEDIUM"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if cfg.ChatModel.APIKey == "" {
		logger.Warn("CHAT_MODEL_API_KEY is not set; the assistant will answer with canned step guidance")
	}

	return cfg, nil
}
