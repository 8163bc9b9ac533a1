package database

import (
	"context"
	"fmt"
	"time"
)

// HealthStatus summarizes database connectivity and connection pool
// utilization, surfaced by the thin ambient health endpoint in
// cmd/gradingd/main.go.
type HealthStatus struct {
	Healthy    bool          `json:"healthy"`
	Latency    time.Duration `json:"latency"`
	OpenConns  int           `json:"open_connections"`
	InUseConns int           `json:"in_use_connections"`
	IdleConns  int           `json:"idle_connections"`
	Error      string        `json:"error,omitempty"`
}

// Health pings the database and reports pool statistics.
func (c *Client) Health(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	stats := c.db.Stats()
	status := HealthStatus{
		Healthy:    err == nil,
		Latency:    latency,
		OpenConns:  stats.OpenConnections,
		InUseConns: stats.InUse,
		IdleConns:  stats.Idle,
	}
	if err != nil {
		status.Error = fmt.Sprintf("ping failed: %v", err)
	}
	return status
}

// Close closes the ent client, which also closes the underlying *sql.DB.
func (c *Client) Close() error {
	return c.Client.Close()
}
