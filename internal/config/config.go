package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Memory backend selectors.
const (
	MemoryBackendPostgres = "postgres"
	MemoryBackendRedis    = "redis"
	MemoryBackendNone     = "none"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	OpenAI   OpenAIConfig
	Server   ServerConfig
	Chat     ChatConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// OpenAIConfig holds model collaborator settings. The API key is required:
// generation, moderation and embeddings all run through the same client.
type OpenAIConfig struct {
	APIKey          string //nolint:gosec // G117: API credential config
	Model           string
	ModerationModel string
	EmbeddingModel  string
	Temperature     float64
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	RateLimitRPS float64
	RateBurst    int
}

// ChatConfig holds pipeline tuning knobs.
type ChatConfig struct {
	MemoryBackend        string // postgres | redis | none
	MemoryEnabled        bool   // global persistence toggle
	ModerationFailClosed bool   // block instead of allow on classifier outage
	SummarizeThreshold   int    // tokens (~4 chars each)
	ContextBudget        int    // characters
	MemoryK              int
	KnowledgeK           int
	MaxHistory           int // turns kept in memory per session
	SessionIdleTTL       time.Duration
	MaxSessions          int
	PersistQueueSize     int
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("VENDIA_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("VENDIA_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("VENDIA_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	temperature, err := getEnvFloat("VENDIA_OPENAI_TEMPERATURE", 0.4)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("VENDIA_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("VENDIA_SERVER_WRITE_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateRPS, err := getEnvFloat("VENDIA_SERVER_RATE_RPS", 5)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateBurst, err := getEnvInt("VENDIA_SERVER_RATE_BURST", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	memoryEnabled, err := getEnvBool("VENDIA_MEMORY_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	failClosed, err := getEnvBool("VENDIA_MODERATION_FAIL_CLOSED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	summarizeThreshold, err := getEnvInt("VENDIA_SUMMARIZE_THRESHOLD", 256)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	contextBudget, err := getEnvInt("VENDIA_CONTEXT_BUDGET", 2000)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	memoryK, err := getEnvInt("VENDIA_MEMORY_K", 4)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	knowledgeK, err := getEnvInt("VENDIA_KNOWLEDGE_K", 4)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxHistory, err := getEnvInt("VENDIA_MAX_HISTORY", 40)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	sessionTTL, err := getEnvDuration("VENDIA_SESSION_IDLE_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxSessions, err := getEnvInt("VENDIA_MAX_SESSIONS", 10000)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	persistQueue, err := getEnvInt("VENDIA_PERSIST_QUEUE", 256)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("VENDIA_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("VENDIA_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("VENDIA_DB_USER", "vendia"),
			Password: getEnv("VENDIA_DB_PASSWORD", ""),
			DBName:   getEnv("VENDIA_DB_NAME", "vendia_dev"),
			SSLMode:  getEnv("VENDIA_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("VENDIA_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("VENDIA_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			Model:           getEnv("VENDIA_OPENAI_MODEL", "gpt-4o-mini"),
			ModerationModel: getEnv("VENDIA_OPENAI_MODERATION_MODEL", "omni-moderation-latest"),
			EmbeddingModel:  getEnv("VENDIA_OPENAI_EMBEDDINGS_MODEL", "text-embedding-3-small"),
			Temperature:     temperature,
		},
		Server: ServerConfig{
			Addr:         getEnv("VENDIA_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
			RateLimitRPS: rateRPS,
			RateBurst:    rateBurst,
		},
		Chat: ChatConfig{
			MemoryBackend:        getEnv("VENDIA_MEMORY_BACKEND", MemoryBackendPostgres),
			MemoryEnabled:        memoryEnabled,
			ModerationFailClosed: failClosed,
			SummarizeThreshold:   summarizeThreshold,
			ContextBudget:        contextBudget,
			MemoryK:              memoryK,
			KnowledgeK:           knowledgeK,
			MaxHistory:           maxHistory,
			SessionIdleTTL:       sessionTTL,
			MaxSessions:          maxSessions,
			PersistQueueSize:     persistQueue,
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	switch c.Chat.MemoryBackend {
	case MemoryBackendPostgres, MemoryBackendRedis, MemoryBackendNone:
	default:
		return fmt.Errorf("VENDIA_MEMORY_BACKEND must be postgres, redis or none, got %q", c.Chat.MemoryBackend)
	}

	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("VENDIA_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("VENDIA_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("VENDIA_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("VENDIA_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("VENDIA_SERVER_RATE_RPS must be positive, got %g", c.Server.RateLimitRPS)
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return fmt.Errorf("VENDIA_OPENAI_TEMPERATURE must be 0-2, got %g", c.OpenAI.Temperature)
	}
	if c.Chat.SummarizeThreshold < 1 {
		return fmt.Errorf("VENDIA_SUMMARIZE_THRESHOLD must be >= 1, got %d", c.Chat.SummarizeThreshold)
	}
	if c.Chat.ContextBudget < 1 {
		return fmt.Errorf("VENDIA_CONTEXT_BUDGET must be >= 1, got %d", c.Chat.ContextBudget)
	}
	if c.Chat.SessionIdleTTL <= 0 {
		return fmt.Errorf("VENDIA_SESSION_IDLE_TTL must be positive, got %s", c.Chat.SessionIdleTTL)
	}
	if c.Chat.MaxSessions < 1 {
		return fmt.Errorf("VENDIA_MAX_SESSIONS must be >= 1, got %d", c.Chat.MaxSessions)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
