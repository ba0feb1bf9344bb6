package chat

import (
	"context"
	"io"

	"github.com/equipo25/ragcli/internal/ragapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// State of the response consumer. Exactly one submission can be in flight,
// so any non-idle state rejects further submissions.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateStreaming
	StateAwaitingResponse
)

// Session drives one chat conversation: it composes query requests from the
// current filter selection, dispatches them to the streaming or single-shot
// endpoint, and folds the responses into its transcript. All methods are
// meant to be called from a single goroutine; the in-flight guard is a state
// check, not a lock.
type Session struct {
	id         string
	client     *ragapi.Client
	token      string
	logger     *logrus.Logger
	transcript *Transcript
	filters    *FilterState
	streaming  bool
	state      State
	lastError  string
	onChunk    func(text string)
}

func NewSession(client *ragapi.Client, token string, logger *logrus.Logger) *Session {
	return &Session{
		id:         uuid.NewString(),
		client:     client,
		token:      token,
		logger:     logger,
		transcript: NewTranscript(),
		filters:    NewFilterState(),
	}
}

func (s *Session) ID() string              { return s.id }
func (s *Session) Transcript() *Transcript { return s.transcript }
func (s *Session) Filters() *FilterState   { return s.filters }
func (s *Session) State() State            { return s.state }
func (s *Session) Busy() bool              { return s.state != StateIdle }

// Streaming reports whether submissions use the chunked endpoint.
func (s *Session) Streaming() bool      { return s.streaming }
func (s *Session) SetStreaming(on bool) { s.streaming = on }

// LastError holds the failure message of the most recent submission, empty
// after a successful one. It backs the error banner; the same message is
// also inlined into the transcript.
func (s *Session) LastError() string { return s.lastError }

// OnChunk registers a hook invoked for every streamed chunk, after it has
// been appended to the transcript. Used for incremental rendering.
func (s *Session) OnChunk(fn func(text string)) { s.onChunk = fn }

// Submit runs one exchange. Pre-flight rejections (empty question, busy
// session) are returned as errors with no transcript side effects. Transport
// and decode failures are not returned: they end the exchange with a
// terminal "Error: ..." assistant entry and a non-empty LastError, leaving
// the session idle so the user can resubmit.
func (s *Session) Submit(ctx context.Context, question string) error {
	if s.state != StateIdle {
		return ErrBusy
	}

	req, err := Compose(question, s.filters)
	if err != nil {
		return err
	}

	s.state = StateSubmitting
	s.lastError = ""
	s.transcript.appendTerminal(SenderUser, req.Question)
	s.transcript.clearSources()

	if s.streaming {
		err = s.submitStream(ctx, req)
	} else {
		err = s.submitOnce(ctx, req)
	}

	s.state = StateIdle
	if err != nil {
		s.lastError = err.Error()
		s.transcript.appendTerminal(SenderAssistant, "Error: "+err.Error())
		s.logger.WithFields(logrus.Fields{
			"session": s.id,
			"error":   err.Error(),
		}).Warn("Query submission failed")
	}

	return nil
}

func (s *Session) submitOnce(ctx context.Context, req ragapi.QueryRequest) error {
	s.state = StateAwaitingResponse

	resp, err := s.client.Query(ctx, s.token, req)
	if err != nil {
		return err
	}

	s.transcript.appendTerminal(SenderAssistant, resp.Answer)
	s.transcript.replaceSources(resp.Sources)
	return nil
}

func (s *Session) submitStream(ctx context.Context, req ragapi.QueryRequest) error {
	s.state = StateStreaming

	stream, err := s.client.QueryStream(ctx, s.token, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	// Exactly one placeholder per submission, however many chunks arrive.
	s.transcript.appendPlaceholder()

	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.transcript.finalizeLast()
			return err
		}

		text := string(chunk)
		s.transcript.appendChunk(text)
		if s.onChunk != nil {
			s.onChunk(text)
		}
	}

	s.transcript.finalizeLast()
	return nil
}
