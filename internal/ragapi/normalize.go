package ragapi

import (
	"encoding/json"
	"fmt"
)

// The backend's response shapes are not fully standardized: the same concept
// can arrive under different field names depending on which service answered.
// All shape probing lives here, as explicit ordered fallback chains, so call
// sites never do their own optional-field guessing.
//
// Fallback orders (first present wins):
//
//	source title:   title, filename
//	source snippet: snippet, content
//	source score:   score, confidence, top-level confidence
//	document id:    id, _id, documentId, uuid, uid
//	document title: title, filename, nombre_archivo
//	list container: top-level array, items, data, results, documentos

type rawSource struct {
	Title      string   `json:"title"`
	Filename   string   `json:"filename"`
	Snippet    string   `json:"snippet"`
	Content    string   `json:"content"`
	Score      *float64 `json:"score"`
	Confidence *float64 `json:"confidence"`
}

type rawQueryResponse struct {
	Answer     string      `json:"answer"`
	Sources    []rawSource `json:"sources"`
	Confidence *float64    `json:"confidence"`
}

func normalizeQueryResponse(raw json.RawMessage) (*QueryResponse, error) {
	var payload rawQueryResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal query response: %w", err)
	}

	response := &QueryResponse{Answer: payload.Answer}
	if payload.Confidence != nil {
		response.Confidence = *payload.Confidence
	}

	for _, src := range payload.Sources {
		citation := SourceCitation{
			Title:   firstNonEmpty(src.Title, src.Filename),
			Snippet: firstNonEmpty(src.Snippet, src.Content),
		}
		switch {
		case src.Score != nil:
			citation.Score = *src.Score
			citation.HasScore = true
		case src.Confidence != nil:
			citation.Score = *src.Confidence
			citation.HasScore = true
		case payload.Confidence != nil:
			citation.Score = *payload.Confidence
			citation.HasScore = true
		}
		response.Sources = append(response.Sources, citation)
	}

	return response, nil
}

func normalizeDocumentList(raw json.RawMessage) ([]Document, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return normalizeDocuments(items)
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document list: %w", err)
	}

	if statusRaw, ok := wrapper["status"]; ok && !wrapperStatusOK(statusRaw) {
		message := "service returned unsuccessful status"
		for _, key := range []string{"message", "detail"} {
			var s string
			if raw, ok := wrapper[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
				message = s
				break
			}
		}
		return nil, fmt.Errorf("%s", message)
	}

	for _, key := range []string{"items", "data", "results", "documentos"} {
		container, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(container, &items); err == nil {
			return normalizeDocuments(items)
		}
	}

	return nil, nil
}

// wrapperStatusOK accepts the envelope status spellings seen in the wild:
// 1, true, "ok" and "success".
func wrapperStatusOK(raw json.RawMessage) bool {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num == 1
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s == "ok" || s == "success"
	}
	return false
}

func normalizeDocuments(items []json.RawMessage) ([]Document, error) {
	docs := make([]Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, normalizeDocument(item))
	}
	return docs, nil
}

func normalizeDocument(raw json.RawMessage) Document {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Document{}
	}

	return Document{
		ID:          stringField(fields, "id", "_id", "documentId", "uuid", "uid"),
		Title:       stringField(fields, "title", "filename", "nombre_archivo"),
		Tags:        stringSliceField(fields, "tags"),
		Description: stringField(fields, "description", "descripcion"),
		Status:      stringField(fields, "status", "estatus"),
		Roles:       stringSliceField(fields, "roles", "roles_permitidos"),
		CreatedAt:   stringField(fields, "createdAt", "fecha_creacion"),
		CreatedBy:   stringField(fields, "createdBy", "creado_por"),
	}
}

func stringField(fields map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func stringSliceField(fields map[string]json.RawMessage, keys ...string) []string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var values []string
		if err := json.Unmarshal(raw, &values); err == nil && values != nil {
			return values
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
