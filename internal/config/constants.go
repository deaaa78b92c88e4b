package config

import (
	"time"

	"sheetsight/pkg/contracts"
)

// Application constants
const (
	AppName    = "sheetsight"
	AppVersion = contracts.Version

	EnvPrefix     = "SHEETSIGHT"
	ConfigFileEnv = "SHEETSIGHT_CONFIG_FILE"

	// Rate limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40

	DefaultRequestTimeout = 60 * time.Second

	// Uploads
	DefaultMaxUploadBytes = 10 << 20 // 10 MiB

	// Sessions kept in memory. Basic uploads are trimmed harder than the
	// enhanced and compare workflows.
	DefaultMaxBasicSessions = 10
	DefaultMaxSessions      = 20

	// Log settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// API paths
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)
