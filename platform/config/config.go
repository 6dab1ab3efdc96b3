// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetDebugRoutesEnabled() bool
}

// CRMConfig provides settings for the GoHighLevel (LeadConnector) API.
type CRMConfig interface {
	GetGHLBaseURL() string
	GetGHLAPIKey() string
	GetGHLLocationID() string
	GetGHLAPIVersion() string
	GetGHLTimeout() time.Duration
	GetGHLRequestsPerSecond() float64
	GetGHLDirectoryLimit() int
}

// DispatchConfig provides the contractor eligibility tags.
type DispatchConfig interface {
	GetContractorTags() []string
}

// StoreConfig selects the job store backend.
type StoreConfig interface {
	GetJobStoreBackend() string
	GetJobKeyPrefix() string
}

// SchedulerConfig provides settings for the asynq retry queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetWriteBackMaxRetry() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Job store backends.
const (
	StoreBackendMemory   = "memory"
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
)

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	DebugRoutesEnabled   bool
	GHLBaseURL           string
	GHLAPIKey            string
	GHLLocationID        string
	GHLAPIVersion        string
	GHLTimeout           time.Duration
	GHLRequestsPerSecond float64
	GHLDirectoryLimit    int
	ContractorTags       []string
	JobStoreBackend      string
	JobKeyPrefix         string
	RedisURL             string
	RedisTLSInsecure     bool
	AsynqQueueName       string
	AsynqConcurrency     int
	WriteBackMaxRetry    int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string         { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool       { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string    { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool     { return c.CORSAllowCreds }
func (c *Config) GetDebugRoutesEnabled() bool { return c.DebugRoutesEnabled }

// CRMConfig implementation
func (c *Config) GetGHLBaseURL() string            { return c.GHLBaseURL }
func (c *Config) GetGHLAPIKey() string             { return c.GHLAPIKey }
func (c *Config) GetGHLLocationID() string         { return c.GHLLocationID }
func (c *Config) GetGHLAPIVersion() string         { return c.GHLAPIVersion }
func (c *Config) GetGHLTimeout() time.Duration     { return c.GHLTimeout }
func (c *Config) GetGHLRequestsPerSecond() float64 { return c.GHLRequestsPerSecond }
func (c *Config) GetGHLDirectoryLimit() int        { return c.GHLDirectoryLimit }

// DispatchConfig implementation
func (c *Config) GetContractorTags() []string { return c.ContractorTags }

// StoreConfig implementation
func (c *Config) GetJobStoreBackend() string { return c.JobStoreBackend }
func (c *Config) GetJobKeyPrefix() string    { return c.JobKeyPrefix }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) GetWriteBackMaxRetry() int { return c.WriteBackMaxRetry }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	env := getEnv("APP_ENV", "development")
	debugDefault := "false"
	if strings.EqualFold(env, "development") {
		debugDefault = "true"
	}

	cfg := &Config{
		Env:                  env,
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		DebugRoutesEnabled:   strings.EqualFold(getEnv("DEBUG_ROUTES_ENABLED", debugDefault), "true"),
		GHLBaseURL:           strings.TrimRight(getEnv("GHL_BASE_URL", "https://services.leadconnectorhq.com"), "/"),
		GHLAPIKey:            strings.TrimSpace(getEnv("GHL_API_KEY", "")),
		GHLLocationID:        strings.TrimSpace(getEnv("GHL_LOCATION_ID", "")),
		GHLAPIVersion:        getEnv("GHL_API_VERSION", "2021-07-28"),
		GHLTimeout:           mustDuration(getEnv("GHL_TIMEOUT", "10s")),
		GHLRequestsPerSecond: mustFloat(getEnv("GHL_REQUESTS_PER_SECOND", "8")),
		GHLDirectoryLimit:    mustInt(getEnv("GHL_DIRECTORY_LIMIT", "50")),
		ContractorTags:       splitCSV(getEnv("CONTRACTOR_TAGS", "contractor_cleaning,job-pending-assignment")),
		JobStoreBackend:      strings.ToLower(getEnv("JOB_STORE_BACKEND", StoreBackendMemory)),
		JobKeyPrefix:         getEnv("JOB_KEY_PREFIX", "alloy:jobs"),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisTLSInsecure:     strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:     mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		WriteBackMaxRetry:    mustInt(getEnv("WRITEBACK_MAX_RETRY", "8")),
	}

	if cfg.GHLAPIKey == "" {
		return nil, fmt.Errorf("GHL_API_KEY is required")
	}
	if cfg.GHLLocationID == "" {
		return nil, fmt.Errorf("GHL_LOCATION_ID is required")
	}
	if cfg.GHLTimeout <= 0 {
		return nil, fmt.Errorf("GHL_TIMEOUT must be a positive duration")
	}
	if len(cfg.ContractorTags) == 0 {
		return nil, fmt.Errorf("CONTRACTOR_TAGS must name at least one tag")
	}
	switch cfg.JobStoreBackend {
	case StoreBackendMemory:
	case StoreBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when JOB_STORE_BACKEND is redis")
		}
	case StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when JOB_STORE_BACKEND is postgres")
		}
	default:
		return nil, fmt.Errorf("unknown JOB_STORE_BACKEND %q", cfg.JobStoreBackend)
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
