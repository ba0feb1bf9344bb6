package chat

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

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

func newTestSession(t *testing.T, handler http.HandlerFunc) *Session {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := ragapi.NewClient(server.URL, testLogger())
	return NewSession(client, "test-token", testLogger())
}

func TestSession_EmptyQuestionIsNoOp(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be sent for an empty question")
	})

	err := session.Submit(context.Background(), "   \n ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Zero(t, session.Transcript().Len())
	assert.Equal(t, StateIdle, session.State())
}

func TestSession_SyncQuery(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rag/query", r.URL.Path)
		w.Write([]byte(`{"answer":"Paris","sources":[{"title":"Doc A","score":0.92}]}`))
	})

	require.NoError(t, session.Submit(context.Background(), "capital of France?"))

	entries := session.Transcript().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, SenderUser, entries[0].Sender)
	assert.Equal(t, "capital of France?", entries[0].Text)
	assert.Equal(t, SenderAssistant, entries[1].Sender)
	assert.Equal(t, "Paris", entries[1].Text)
	assert.False(t, entries[1].Streaming)

	sources := session.Transcript().Sources()
	require.Len(t, sources, 1)
	assert.Equal(t, "Doc A", sources[0].Title)
	assert.Equal(t, 0.92, sources[0].Score)

	assert.Empty(t, session.LastError())
	assert.Equal(t, StateIdle, session.State())
}

func TestSession_StreamingQuery(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rag/query/stream", r.URL.Path)
		flusher := w.(http.Flusher)
		for _, chunk := range []string{"The ", "capital ", "is Paris."} {
			w.Write([]byte(chunk))
			flusher.Flush()
		}
	})
	session.SetStreaming(true)

	var streamed string
	session.OnChunk(func(text string) { streamed += text })

	require.NoError(t, session.Submit(context.Background(), "capital?"))

	// Exactly one placeholder entry regardless of chunk count, holding the
	// chunks concatenated in arrival order.
	entries := session.Transcript().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, SenderAssistant, entries[1].Sender)
	assert.Equal(t, "The capital is Paris.", entries[1].Text)
	assert.False(t, entries[1].Streaming, "entry must be terminal after EOF")
	assert.Equal(t, "The capital is Paris.", streamed)

	// The streaming path never populates sources.
	assert.Empty(t, session.Transcript().Sources())
	assert.Equal(t, StateIdle, session.State())
}

func TestSession_ServerError(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"model unavailable"}`))
	})

	require.NoError(t, session.Submit(context.Background(), "anything"))

	entries := session.Transcript().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, SenderAssistant, entries[1].Sender)
	assert.Contains(t, entries[1].Text, "Error: ")
	assert.Contains(t, entries[1].Text, "model unavailable")

	assert.NotEmpty(t, session.LastError())
	assert.Equal(t, StateIdle, session.State(), "session must accept resubmission")

	// Resubmission after a failure works and clears the banner on success.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer server.Close()
	retry := NewSession(ragapi.NewClient(server.URL, testLogger()), "tok", testLogger())
	require.NoError(t, retry.Submit(context.Background(), "again"))
	assert.Empty(t, retry.LastError())
}

func TestSession_ErrorClearsPriorSources(t *testing.T) {
	calls := 0
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"answer":"Paris","sources":[{"title":"Doc A","score":0.5}]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	require.NoError(t, session.Submit(context.Background(), "first"))
	require.Len(t, session.Transcript().Sources(), 1)

	require.NoError(t, session.Submit(context.Background(), "second"))
	assert.Empty(t, session.Transcript().Sources(), "citations are cleared on submission")
}

func TestSession_RejectsConcurrentSubmission(t *testing.T) {
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Write([]byte("chunk one "))
		flusher.Flush()
		w.Write([]byte("chunk two"))
		flusher.Flush()
	})
	session.SetStreaming(true)

	// Re-enter Submit from the chunk hook, as a double-submit would.
	var reentrant error
	fired := false
	session.OnChunk(func(string) {
		if !fired {
			fired = true
			reentrant = session.Submit(context.Background(), "second question")
		}
	})

	require.NoError(t, session.Submit(context.Background(), "first question"))
	require.True(t, fired)
	assert.ErrorIs(t, reentrant, ErrBusy)

	// The rejected submission must not have interleaved into the transcript.
	entries := session.Transcript().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first question", entries[0].Text)
	assert.Equal(t, "chunk one chunk two", entries[1].Text)
}

func TestSession_FiltersReachTheWire(t *testing.T) {
	var gotBody string
	session := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`{"answer":"ok"}`))
	})

	session.Filters().ToggleTag("legal")
	session.Filters().ToggleDocID("d42")

	require.NoError(t, session.Submit(context.Background(), "filtered question"))
	assert.Contains(t, gotBody, `"tags":["legal"]`)
	assert.Contains(t, gotBody, `"docIds":["d42"]`)
	assert.Contains(t, gotBody, `"topK":5`)
}
