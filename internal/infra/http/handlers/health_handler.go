package handlers

import (
	"net/http"
	"time"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// ConnectionChecker is satisfied by *amqp091.Connection.
type ConnectionChecker interface {
	IsClosed() bool
}

type HealthHandler struct {
	LoopsConfigured bool
	RabbitMQ        ConnectionChecker
	StartTime       time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(loopsConfigured bool, rabbitMQ ConnectionChecker) *HealthHandler {
	return &HealthHandler{
		LoopsConfigured: loopsConfigured,
		RabbitMQ:        rabbitMQ,
		StartTime:       time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)
	status := "healthy"

	if h.LoopsConfigured {
		deps["loops"] = "configured"
	} else {
		deps["loops"] = "unhealthy: api key not configured"
		status = "degraded"
	}

	// RabbitMQ is optional; only a configured but closed connection degrades.
	switch {
	case h.RabbitMQ == nil:
		deps["rabbitmq"] = "not configured"
	case h.RabbitMQ.IsClosed():
		deps["rabbitmq"] = "unhealthy: connection closed"
		status = "degraded"
	default:
		deps["rabbitmq"] = "healthy"
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
