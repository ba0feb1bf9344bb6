package health

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/equipo25/ragcli/internal/ragapi"
	"github.com/equipo25/ragcli/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newChecker(t *testing.T, handler http.HandlerFunc, withSession bool) *Checker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := ragapi.NewClient(server.URL, testLogger())
	store := session.NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	if withSession {
		require.NoError(t, store.Save(&session.Session{
			User:      &ragapi.User{ID: "u1", Email: "ana@example.com"},
			Token:     "tok-123",
			ExpiresAt: time.Now().Add(time.Hour),
		}))
	}
	sessions := session.NewManager(client, store, testLogger())

	return NewChecker(client, sessions, server.URL, testLogger())
}

func TestChecker_AllHealthy(t *testing.T) {
	checker := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/me" {
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			w.Write([]byte(`{"id":"u1","email":"ana@example.com"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound) // root probe may 404, still up
	}, true)

	report := checker.CheckAll(context.Background())
	assert.Equal(t, "healthy", report.Status)
	require.Len(t, report.Services, 2)
	assert.Equal(t, "healthy", report.Services[0].Status)
	assert.Equal(t, "healthy", report.Services[1].Status)
}

func TestChecker_NoSession(t *testing.T) {
	checker := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, false)

	report := checker.CheckAll(context.Background())
	assert.Equal(t, "degraded", report.Status)
	assert.Equal(t, "unhealthy", report.Services[1].Status)
	assert.Equal(t, "no active session", report.Services[1].Error)
}

func TestChecker_RejectedToken(t *testing.T) {
	checker := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/me" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"token expired"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}, true)

	report := checker.CheckAll(context.Background())
	assert.Equal(t, "degraded", report.Status)
	assert.Contains(t, report.Services[1].Error, "token expired")
}
