package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService reports liveness and basic runtime figures
type HealthService struct {
	version   string
	sessions  SessionStore
	startTime time.Time
	logger    *slog.Logger
	now       func() time.Time
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	Sessions  int           `json:"sessions"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Runtime   RuntimeStats  `json:"runtime"`
}

// RuntimeStats represents process statistics
type RuntimeStats struct {
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, sessions SessionStore, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized", slog.String("version", version))

	return &HealthService{
		version:   version,
		sessions:  sessions,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
		now:       time.Now,
	}
}

// Check returns the current health status
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	now := s.now()
	status := HealthStatus{
		Status:    "healthy",
		Version:   s.version,
		Uptime:    now.Sub(s.startTime).Round(time.Second),
		Timestamp: now.UTC(),
		Runtime: RuntimeStats{
			GoVersion:  runtime.Version(),
			Goroutines: runtime.NumGoroutine(),
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
		},
	}
	if s.sessions != nil {
		status.Sessions = s.sessions.Len()
	}

	s.logger.DebugContext(ctx, "health check",
		slog.String("status", status.Status),
		slog.Int("sessions", status.Sessions))
	return status
}
