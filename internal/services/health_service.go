package services

import (
	"context"
	"time"

	"auditlens/internal/session"
)

// HealthStatus is the health endpoint response.
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
	Uptime   string `json:"uptime"`
}

// HealthService reports liveness and a few cheap gauges.
type HealthService struct {
	store   session.Store
	version string
	started time.Time
}

// NewHealthService creates the health service.
func NewHealthService(store session.Store, version string) *HealthService {
	return &HealthService{
		store:   store,
		version: version,
		started: time.Now(),
	}
}

// Check returns the current health status.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:   "ok",
		Version:  s.version,
		Sessions: s.store.Len(),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	}
}
