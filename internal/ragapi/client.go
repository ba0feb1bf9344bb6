package ragapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // streaming answers can take a while
		},
		logger: logger,
	}
}

// Auth endpoints

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var response LoginResponse
	err := c.send(ctx, "POST", "/auth/login", requestOptions{body: req}, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	err := c.send(ctx, "POST", "/users", requestOptions{body: req}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	var user User
	err := c.send(ctx, "GET", "/users/me", requestOptions{token: token}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.send(ctx, "POST", "/auth/logout", requestOptions{token: token, skipDecode: true}, nil)
}

// Document endpoints

func (c *Client) ListDocuments(ctx context.Context, token string) ([]Document, error) {
	var raw json.RawMessage
	err := c.send(ctx, "GET", "/rag/documents", requestOptions{token: token}, &raw)
	if err != nil {
		return nil, err
	}
	return normalizeDocumentList(raw)
}

func (c *Client) UploadDocument(ctx context.Context, token, filename string, file io.Reader, title string, tags []string) (*Document, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if title != "" {
		if err := writer.WriteField("title", title); err != nil {
			return nil, fmt.Errorf("failed to write title field: %w", err)
		}
	}
	for _, tag := range tags {
		if err := writer.WriteField("tags[]", tag); err != nil {
			return nil, fmt.Errorf("failed to write tag field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	var raw json.RawMessage
	opts := requestOptions{
		token:       token,
		rawBody:     &buf,
		contentType: writer.FormDataContentType(),
	}
	if err := c.send(ctx, "POST", "/rag/documents", opts, &raw); err != nil {
		return nil, err
	}
	doc := normalizeDocument(raw)
	return &doc, nil
}

func (c *Client) UpdateDocument(ctx context.Context, token, id string, req DocumentUpdateRequest) error {
	return c.send(ctx, "PUT", "/rag/documents/"+id, requestOptions{token: token, body: req, skipDecode: true}, nil)
}

func (c *Client) DeleteDocument(ctx context.Context, token, id string) error {
	return c.send(ctx, "DELETE", "/rag/documents/"+id, requestOptions{token: token, skipDecode: true}, nil)
}

// Query endpoints

func (c *Client) Query(ctx context.Context, token string, req QueryRequest) (*QueryResponse, error) {
	var raw json.RawMessage
	err := c.send(ctx, "POST", "/rag/query", requestOptions{token: token, body: req}, &raw)
	if err != nil {
		return nil, err
	}
	return normalizeQueryResponse(raw)
}

// QueryStream opens the chunked-text variant of the query endpoint. The
// returned Stream yields raw answer text split arbitrarily across chunks;
// the caller owns closing it.
func (c *Client) QueryStream(ctx context.Context, token string, req QueryRequest) (*Stream, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := c.baseURL + "/rag/query/stream"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.WithFields(logrus.Fields{
		"url":          url,
		"payload_size": len(jsonData),
	}).Debug("Opening query stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, buildError(resp.StatusCode, body)
	}

	return newStream(resp.Body), nil
}

type requestOptions struct {
	token       string
	body        interface{}
	rawBody     io.Reader // pre-encoded body, used with contentType
	contentType string
	skipDecode  bool
}

func (c *Client) send(ctx context.Context, method, path string, opts requestOptions, result interface{}) error {
	url := c.baseURL + path

	var body io.Reader
	var contentLength int

	switch {
	case opts.rawBody != nil:
		body = opts.rawBody
	case opts.body != nil:
		jsonData, err := json.Marshal(opts.body)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
		contentLength = len(jsonData)

		if contentLength < 1000 {
			c.logger.WithFields(logrus.Fields{
				"method":       method,
				"url":          url,
				"payload_json": string(jsonData),
			}).Debug("Request payload")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	switch {
	case opts.contentType != "":
		req.Header.Set("Content-Type", opts.contentType)
	case opts.body != nil:
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      url,
		"has_body": body != nil,
		"size":     contentLength,
	}).Debug("Making RAG API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"status_code":   resp.StatusCode,
		"method":        method,
		"url":           url,
		"response_size": len(responseBody),
	}).Debug("RAG API response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return buildError(resp.StatusCode, responseBody)
	}

	if opts.skipDecode || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if result != nil && len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
