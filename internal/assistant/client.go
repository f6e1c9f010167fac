// Package assistant is the HTTP client for the external document assistant
// service that extracts, summarizes, generates questions and answers them.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	uploadPath    = "/api/assistant/upload"
	askPath       = "/api/assistant/ask"
	generatePath  = "/api/challenge/generate-questions"
	maxReplyBytes = 4 << 20
)

// Client is the set of assistant operations the session controller uses.
type Client interface {
	// Summarize uploads the document and returns the summary text. An empty
	// string with a nil error means the service answered without a summary.
	Summarize(ctx context.Context, file Upload) (string, error)
	GenerateQuestions(ctx context.Context, documentText string) (QuestionPayload, error)
	// Ask returns the answer text; empty when the service sent none.
	Ask(ctx context.Context, question, fileContent string) (string, error)
}

// Upload is the file part sent to the summarize endpoint.
type Upload struct {
	Name        string
	ContentType string
	Content     []byte
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("assistant %s returned status %d: %s", e.Path, e.StatusCode, e.Body)
}

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
}

type httpClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an assistant client over net/http.
func NewClient(cfg Config) Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With("component", "assistant_client"),
	}
}

type summaryReply struct {
	Summary json.RawMessage `json:"summary"`
}

type answerReply struct {
	Answer json.RawMessage `json:"answer"`
}

func (c *httpClient) Summarize(ctx context.Context, file Upload) (string, error) {
	body, contentType, err := buildForm(func(w *multipart.Writer) error {
		part, err := w.CreatePart(filePartHeader(file))
		if err != nil {
			return err
		}
		_, err = part.Write(file.Content)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	raw, err := c.post(ctx, uploadPath, body, contentType)
	if err != nil {
		return "", err
	}

	var reply summaryReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", fmt.Errorf("failed to decode summary response: %w", err)
	}
	return stringField(reply.Summary), nil
}

func (c *httpClient) GenerateQuestions(ctx context.Context, documentText string) (QuestionPayload, error) {
	body, contentType, err := buildForm(func(w *multipart.Writer) error {
		return w.WriteField("document_text", documentText)
	})
	if err != nil {
		return QuestionPayload{}, fmt.Errorf("failed to build question form: %w", err)
	}

	raw, err := c.post(ctx, generatePath, body, contentType)
	if err != nil {
		return QuestionPayload{}, err
	}

	payload := DecodeQuestionPayload(raw)
	c.logger.DebugContext(ctx, "Decoded question payload",
		"shape", payload.Shape.String(),
		"candidates", len(payload.Candidates),
		"dropped", payload.Dropped)
	return payload, nil
}

func (c *httpClient) Ask(ctx context.Context, question, fileContent string) (string, error) {
	body, contentType, err := buildForm(func(w *multipart.Writer) error {
		if err := w.WriteField("question", question); err != nil {
			return err
		}
		return w.WriteField("fileContent", fileContent)
	})
	if err != nil {
		return "", fmt.Errorf("failed to build ask form: %w", err)
	}

	raw, err := c.post(ctx, askPath, body, contentType)
	if err != nil {
		return "", err
	}

	var reply answerReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", fmt.Errorf("failed to decode answer response: %w", err)
	}
	return stringField(reply.Answer), nil
}

func (c *httpClient) post(ctx context.Context, path string, body *bytes.Buffer, contentType string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Assistant request failed", "path", path, "error", err)
		return nil, fmt.Errorf("assistant request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read assistant response: %w", err)
	}

	c.logger.InfoContext(ctx, "Assistant request completed",
		"path", path,
		"status_code", resp.StatusCode,
		"duration", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode, Body: truncate(string(raw), 256)}
	}
	return raw, nil
}

func buildForm(write func(w *multipart.Writer) error) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := write(w); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// stringField returns the JSON value as a string, or "" for any other type.
func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
