package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Task    TaskConfig    `mapstructure:"task" validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// StorageConfig controls where rendered reports are written and served from.
type StorageConfig struct {
	OutputDir   string `mapstructure:"output_dir" validate:"required"`
	ArtifactExt string `mapstructure:"artifact_ext" validate:"required,startswith=."`
}

// TaskConfig contains settings for the in-memory task registry.
type TaskConfig struct {
	// RetentionMinutes is how long finished tasks are kept before the sweeper
	// evicts them. Zero keeps them until they are deleted explicitly.
	RetentionMinutes int `mapstructure:"retention_minutes" validate:"gte=0"`

	// SweepIntervalMinutes is how often the retention sweep runs.
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" validate:"gte=1"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey      string  `mapstructure:"gemini_api_key" validate:"required"`
	ModelName         string  `mapstructure:"model_name" validate:"required"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"gte=1"`
	Temperature       float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}
