// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for the admin API middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// CompanyConfig provides the single company scoping key.
type CompanyConfig interface {
	GetCompanyID() uuid.UUID
}

// WebhookConfig provides settings for inbound webhook verification.
type WebhookConfig interface {
	GetWebhookSecret() string
	GetDedupeTTL() time.Duration
}

// WhatsAppConfig provides settings for the outbound WhatsApp gateway.
type WhatsAppConfig interface {
	GetWhatsAppURL() string
	GetWhatsAppKey() string
	GetWhatsAppDeviceID() string
}

// ExtractorConfig provides settings for the NLU field extractor service.
type ExtractorConfig interface {
	GetExtractorURL() string
	GetExtractorAPIKey() string
	GetExtractorTimeout() time.Duration
	IsExtractorEnabled() bool
}

// GotenbergConfig provides settings for the Gotenberg HTML-to-PDF service.
type GotenbergConfig interface {
	GetGotenbergURL() string
	GetGotenbergUsername() string
	GetGotenbergPassword() string
	IsGotenbergEnabled() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketQuotePDFs() string
	IsMinIOEnabled() bool
}

// SchedulerConfig provides settings for the asynq task scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetFollowupDelay() time.Duration
}

// EmailConfig provides settings for sales-team notification email.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetSalesTeamEmail() string
}

// PricingConfig provides settings for the tiered pricing engine.
type PricingConfig interface {
	GetRateTablePath() string
	GetRequireContactEmail() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	CompanyID        uuid.UUID
	JWTAccessSecret  string
	WebhookSecret    string
	DedupeTTL        time.Duration
	CORSAllowAll     bool
	CORSOrigins      []string
	WhatsAppURL      string
	WhatsAppKey      string
	WhatsAppDeviceID string
	ExtractorURL     string
	ExtractorAPIKey  string
	ExtractorTimeout time.Duration

	GotenbergURL      string
	GotenbergUsername string
	GotenbergPassword string

	MinIOEndpoint        string
	MinIOAccessKey       string
	MinIOSecretKey       string
	MinIOUseSSL          bool
	MinioBucketQuotePDFs string

	RedisURL         string
	AsynqQueueName   string
	AsynqConcurrency int
	FollowupDelay    time.Duration

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	SalesTeamEmail   string

	RateTablePath       string
	RequireContactEmail bool
}

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

func (c *Config) GetCompanyID() uuid.UUID { return c.CompanyID }

func (c *Config) GetWebhookSecret() string      { return c.WebhookSecret }
func (c *Config) GetDedupeTTL() time.Duration   { return c.DedupeTTL }

func (c *Config) GetWhatsAppURL() string      { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string      { return c.WhatsAppKey }
func (c *Config) GetWhatsAppDeviceID() string { return c.WhatsAppDeviceID }

func (c *Config) GetExtractorURL() string            { return c.ExtractorURL }
func (c *Config) GetExtractorAPIKey() string         { return c.ExtractorAPIKey }
func (c *Config) GetExtractorTimeout() time.Duration { return c.ExtractorTimeout }
func (c *Config) IsExtractorEnabled() bool           { return c.ExtractorURL != "" }

func (c *Config) GetGotenbergURL() string      { return c.GotenbergURL }
func (c *Config) GetGotenbergUsername() string { return c.GotenbergUsername }
func (c *Config) GetGotenbergPassword() string { return c.GotenbergPassword }
func (c *Config) IsGotenbergEnabled() bool     { return c.GotenbergURL != "" }

func (c *Config) GetMinIOEndpoint() string        { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string       { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string       { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool            { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketQuotePDFs() string { return c.MinioBucketQuotePDFs }
func (c *Config) IsMinIOEnabled() bool            { return c.MinIOEndpoint != "" }

func (c *Config) GetRedisURL() string            { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string      { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int       { return c.AsynqConcurrency }
func (c *Config) GetFollowupDelay() time.Duration { return c.FollowupDelay }

func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetSalesTeamEmail() string   { return c.SalesTeamEmail }

func (c *Config) GetRateTablePath() string      { return c.RateTablePath }
func (c *Config) GetRequireContactEmail() bool  { return c.RequireContactEmail }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	companyIDRaw := getEnv("COMPANY_ID", "")
	companyID, err := uuid.Parse(companyIDRaw)
	if err != nil {
		return nil, fmt.Errorf("COMPANY_ID must be a valid UUID: %w", err)
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CompanyID:        companyID,
		JWTAccessSecret:  getEnv("JWT_ACCESS_SECRET", ""),
		WebhookSecret:    getEnv("WEBHOOK_SECRET", ""),
		DedupeTTL:        mustDuration(getEnv("WEBHOOK_DEDUPE_TTL", "24h")),
		CORSAllowAll:     strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200")),
		WhatsAppURL:      getEnv("WHATSAPP_URL", ""),
		WhatsAppKey:      getEnv("WHATSAPP_KEY", ""),
		WhatsAppDeviceID: getEnv("WHATSAPP_DEVICE_ID", ""),
		ExtractorURL:     getEnv("EXTRACTOR_URL", ""),
		ExtractorAPIKey:  getEnv("EXTRACTOR_API_KEY", ""),
		ExtractorTimeout: mustDuration(getEnv("EXTRACTOR_TIMEOUT", "8s")),

		GotenbergURL:      getEnv("GOTENBERG_URL", ""),
		GotenbergUsername: getEnv("GOTENBERG_USERNAME", ""),
		GotenbergPassword: getEnv("GOTENBERG_PASSWORD", ""),

		MinIOEndpoint:        getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:       getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:       getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:          strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketQuotePDFs: getEnv("MINIO_BUCKET_QUOTE_PDFS", "quote-pdfs"),

		RedisURL:         getEnv("REDIS_URL", ""),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		FollowupDelay:    mustDuration(getEnv("FOLLOWUP_DELAY", "4h")),

		EmailEnabled:     emailEnabled && smtpHost != "",
		SMTPHost:         smtpHost,
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Rental Bot"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		SalesTeamEmail:   getEnv("SALES_TEAM_EMAIL", ""),

		RateTablePath:       getEnv("RATE_TABLE_PATH", ""),
		RequireContactEmail: strings.EqualFold(getEnv("REQUIRE_CONTACT_EMAIL", "false"), "true"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("WEBHOOK_SECRET is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.EmailEnabled && (cfg.EmailFromAddress == "" || cfg.SalesTeamEmail == "") {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS and SALES_TEAM_EMAIL are required when email is enabled")
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
	result, err := strconv.Atoi(value)
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
