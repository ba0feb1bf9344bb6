// Package health reports whether the remote RAG API is reachable and the
// stored session still valid, backing the `ragcli status` command.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/equipo25/ragcli/internal/ragapi"
	"github.com/equipo25/ragcli/internal/session"
	"github.com/sirupsen/logrus"
)

type Checker struct {
	client   *ragapi.Client
	sessions *session.Manager
	baseURL  string
	logger   *logrus.Logger
}

func NewChecker(client *ragapi.Client, sessions *session.Manager, baseURL string, logger *logrus.Logger) *Checker {
	return &Checker{
		client:   client,
		sessions: sessions,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// ServiceHealth represents the health status of one checked component
type ServiceHealth struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	LastChecked  string `json:"last_checked"`
}

// OverallHealth represents the combined check result
type OverallHealth struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
}

// CheckAPI checks plain reachability of the RAG API without credentials.
func (c *Checker) CheckAPI(ctx context.Context) ServiceHealth {
	start := time.Now()

	httpClient := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL, nil)

	status := "healthy"
	errorMsg := ""
	if err == nil {
		var resp *http.Response
		resp, err = httpClient.Do(req)
		if err == nil {
			// Any HTTP answer below 500 proves the service is up; the root
			// path is allowed to 404.
			if resp.StatusCode >= 500 {
				err = fmt.Errorf("HTTP %d", resp.StatusCode)
			}
			resp.Body.Close()
		}
	}
	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		c.logger.WithError(err).Error("RAG API health check failed")
	}

	return ServiceHealth{
		Name:         "rag-api",
		Status:       status,
		ResponseTime: int(time.Since(start).Milliseconds()),
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckSession verifies the stored token against /users/me.
func (c *Checker) CheckSession(ctx context.Context) ServiceHealth {
	start := time.Now()

	status := "healthy"
	errorMsg := ""

	sess := c.sessions.Current()
	if sess == nil {
		status = "unhealthy"
		errorMsg = "no active session"
	} else if _, err := c.client.CurrentUser(ctx, sess.Token); err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		c.logger.WithError(err).Warn("Stored session rejected by the API")
	}

	return ServiceHealth{
		Name:         "session",
		Status:       status,
		ResponseTime: int(time.Since(start).Milliseconds()),
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckAll runs every check and aggregates the result. Overall status is
// "healthy" only when all components are.
func (c *Checker) CheckAll(ctx context.Context) OverallHealth {
	services := []ServiceHealth{
		c.CheckAPI(ctx),
		c.CheckSession(ctx),
	}

	overall := "healthy"
	for _, svc := range services {
		if svc.Status != "healthy" {
			overall = "degraded"
			break
		}
	}

	return OverallHealth{
		Status:   overall,
		Services: services,
	}
}
