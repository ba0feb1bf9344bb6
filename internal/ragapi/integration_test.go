//go:build integration

package ragapi

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestIntegration_RealAPI(t *testing.T) {
	baseURL := os.Getenv("RAG_API_BASE_URL")
	email := os.Getenv("RAG_API_EMAIL")
	password := os.Getenv("RAG_API_PASSWORD")

	if baseURL == "" || email == "" || password == "" {
		t.Skip("RAG_API_BASE_URL, RAG_API_EMAIL and RAG_API_PASSWORD required for integration tests")
	}

	client := NewClient(baseURL, logrus.New())
	ctx := context.Background()

	login, err := client.Login(ctx, LoginRequest{Email: email, Password: password})
	require.NoError(t, err)
	require.NotEmpty(t, login.AccessToken)

	user, err := client.CurrentUser(ctx, login.AccessToken)
	require.NoError(t, err)
	require.Equal(t, email, user.Email)

	docs, err := client.ListDocuments(ctx, login.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, docs)

	resp, err := client.Query(ctx, login.AccessToken, QueryRequest{
		Question:      "What documents are available?",
		TopK:          5,
		ReturnSources: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Answer)

	// Cleanup
	client.Logout(ctx, login.AccessToken)
}
