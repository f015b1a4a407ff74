package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthStatus struct {
	Status      string            `json:"status"`
	LastChecked time.Time         `json:"last_checked"`
	Uptime      string            `json:"uptime"`
	Version     string            `json:"version"`
	Checks      map[string]string `json:"checks,omitempty"`
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

var (
	healthMutex   sync.Mutex
	startTime     = time.Now()
	version       = "1.0.0"
	lastStatus    *HealthStatus
	cacheDuration = 5 * time.Second
)

// HealthCheckMiddleware reports uptime and pings every dependency. Results
// are reused for a few seconds so the endpoint can be polled cheaply.
func HealthCheckMiddleware(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		healthMutex.Lock()
		defer healthMutex.Unlock()

		if lastStatus == nil || time.Since(lastStatus.LastChecked) >= cacheDuration {
			lastStatus = check(c.Request.Context(), deps)
		}

		code := http.StatusOK
		if lastStatus.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, lastStatus)
	}
}

func check(ctx context.Context, deps map[string]Pinger) *HealthStatus {
	status := &HealthStatus{
		Status:      "ok",
		LastChecked: time.Now(),
		Uptime:      time.Since(startTime).Round(time.Second).String(),
		Version:     version,
	}

	if len(deps) == 0 {
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status.Checks = make(map[string]string, len(deps))
	for name, dep := range deps {
		if err := dep.PingContext(ctx); err != nil {
			status.Status = "degraded"
			status.Checks[name] = err.Error()
			continue
		}
		status.Checks[name] = "ok"
	}

	return status
}

func SetVersion(v string) {
	healthMutex.Lock()
	defer healthMutex.Unlock()

	version = v
	lastStatus = nil
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}
