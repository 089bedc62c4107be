package bridge

import (
	"time"
)

// ServerOptions configures the bridge HTTP server.
type ServerOptions struct {
	Host               string        // Server host (default: "0.0.0.0")
	Port               int           // Server port (default: 5004)
	RateLimitPerMinute int           // Requests per minute per IP on invocation routes (default: 100)
	ShutdownTimeout    time.Duration // Grace period for in-flight requests (default: 30s)
}

// ProtocolVersion is reported by the /mcp/version endpoint.
const ProtocolVersion = "0.1"

// InvocationMetrics tracks per-route, per-tool invocation counters.
type InvocationMetrics struct {
	Route               string  `json:"route"`
	Tool                string  `json:"tool"`
	TotalRequests       int64   `json:"totalRequests"`
	SuccessCount        int64   `json:"successCount"`
	FailureCount        int64   `json:"failureCount"`
	AverageResponseTime float64 `json:"averageResponseTime"` // milliseconds
	LastRequestAt       int64   `json:"lastRequestAt,omitempty"`
}

// RateLimitState tracks rate limiting per IP.
type RateLimitState struct {
	Requests []int64 // Timestamps of requests (unix milliseconds)
}

// EventMessage is a single event pushed to /mcp/events subscribers.
type EventMessage struct {
	Type      string      `json:"type"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	Seq       int64       `json:"seq"`
	Timestamp int64       `json:"timestamp"`
}
