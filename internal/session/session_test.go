package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/equipo25/ragcli/internal/ragapi"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestManager(t *testing.T, handler http.HandlerFunc) *Manager {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := ragapi.NewClient(server.URL, testLogger())
	store := NewStore(filepath.Join(t.TempDir(), "credentials.json"))
	return NewManager(client, store, testLogger())
}

func authHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			assert.Equal(t, "POST", r.Method)
			json.NewEncoder(w).Encode(ragapi.LoginResponse{
				AccessToken: "tok-123",
				ExpiresIn:   3600,
			})
		case "/users/me":
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(ragapi.User{
				ID:    "u1",
				Name:  "Ana",
				Email: "ana@example.com",
			})
		case "/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}
}

func TestManager_LoginResolvesUserAndPersists(t *testing.T) {
	manager := newTestManager(t, authHandler(t))

	sess, err := manager.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", sess.Token)
	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)

	// A fresh manager over the same store restores the session from disk.
	restored := NewManager(nil, manager.store, testLogger()).Current()
	require.NotNil(t, restored)
	assert.Equal(t, "tok-123", restored.Token)
	assert.Equal(t, "Ana", restored.User.Name)
}

func TestManager_LoginFailure(t *testing.T) {
	manager := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	})

	_, err := manager.Login(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)

	var apiErr *ragapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Nil(t, manager.Current())
}

func TestManager_LogoutClearsEvenWhenServerFails(t *testing.T) {
	loggedOut := false
	manager := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/logout" {
			loggedOut = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		authHandler(t)(w, r)
	})

	_, err := manager.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, manager.Logout(context.Background()))
	assert.True(t, loggedOut)
	assert.Nil(t, manager.Current())
}

func TestStore_ExpiredSessionNotRestored(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "credentials.json"))

	require.NoError(t, store.Save(&Session{
		User:      &ragapi.User{ID: "u1"},
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_MissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope", "credentials.json"))

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.NoError(t, store.Clear())
}
