// Package config loads the sheetsight configuration.
//
// # Configuration Sources
//
// Values are resolved in this order, later sources winning:
//
//  1. Defaults from Default()
//  2. A YAML file named by SHEETSIGHT_CONFIG_FILE
//  3. SHEETSIGHT_* environment variables
//
// Nested sections map to underscored names, for example:
//
//	SHEETSIGHT_SERVER_PORT=8080
//	SHEETSIGHT_LOGGING_FORMAT=text
//	SHEETSIGHT_UPLOAD_MAX_BYTES=10485760
//	SHEETSIGHT_ANALYSIS_ANOMALY_THRESHOLD=2.5
//	SHEETSIGHT_SECURITY_ALLOWED_ORIGINS=http://localhost:3000,https://app.example.com
//
// # YAML File
//
//	server:
//	  port: 9000
//	upload:
//	  max_bytes: 5242880
//	analysis:
//	  trend_enabled: true
//	  forecast_periods: 6
//
// Load validates the merged result and returns an error describing the
// first invalid setting.
package config
