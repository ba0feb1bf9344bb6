package chat

import (
	"errors"
	"strings"

	"github.com/equipo25/ragcli/internal/ragapi"
)

// DefaultTopK is the fixed result-count cap for every query. There is no
// user-facing configuration surface for it.
const DefaultTopK = 5

var (
	// ErrEmptyQuestion rejects a submission whose question is empty after
	// trimming. Callers are expected to validate before submitting; this is
	// the backstop.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrBusy rejects a submission while another one is in flight.
	ErrBusy = errors.New("a query is already in flight")
)

// Compose builds the query payload for the current question and filter
// selection. Empty selection sets are emitted as absent fields, not empty
// lists, so the backend applies its "no filter" default instead of a
// possibly different "match nothing" semantics.
func Compose(question string, filters *FilterState) (ragapi.QueryRequest, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return ragapi.QueryRequest{}, ErrEmptyQuestion
	}

	req := ragapi.QueryRequest{
		Question:      trimmed,
		TopK:          DefaultTopK,
		ReturnSources: true,
	}

	if filters != nil {
		tags := filters.Tags()
		docIDs := filters.DocIDs()
		if len(tags) > 0 || len(docIDs) > 0 {
			req.Filters = &ragapi.QueryFilters{Tags: tags, DocIDs: docIDs}
		}
	}

	return req, nil
}
