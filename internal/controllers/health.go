package controllers

import (
	"log/slog"
	"net/http"
	"time"
)

type HealthController struct {
	name    string
	ready   func() bool
	started time.Time
	log     *slog.Logger
}

// NewHealthController reports the named bot as ready while ready returns
// true. A nil ready func always reports ready.
func NewHealthController(name string, ready func() bool, log *slog.Logger) *HealthController {
	if ready == nil {
		ready = func() bool { return true }
	}
	return &HealthController{
		name:    name,
		ready:   ready,
		started: time.Now(),
		log:     log,
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Ready   bool   `json:"ready"`
	Uptime  string `json:"uptime"`
}

func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	const op = "controllers.health.Health"

	res := healthResponse{
		Status:  "healthy",
		Service: c.name,
		Ready:   c.ready(),
		Uptime:  time.Since(c.started).Truncate(time.Second).String(),
	}
	status := http.StatusOK
	if !res.Ready {
		res.Status = "starting"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, c.log, op, status, res)
}
