package assistant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
}

func TestSummarize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, uploadPath, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)

		assert.Equal(t, "paper.txt", header.Filename)
		assert.Equal(t, "text/plain", header.Header.Get("Content-Type"))
		assert.Equal(t, "body text", string(data))

		_ = json.NewEncoder(w).Encode(map[string]string{"summary": "Objective: test"})
	})

	summary, err := client.Summarize(context.Background(), Upload{Name: "paper.txt", ContentType: "text/plain", Content: []byte("body text")})
	require.NoError(t, err)
	assert.Equal(t, "Objective: test", summary)
}

func TestSummarize_MissingSummary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"summary": null}`))
	})

	summary, err := client.Summarize(context.Background(), Upload{Name: "a.pdf", Content: []byte("x")})
	require.NoError(t, err)
	assert.Empty(t, summary)
}

func TestSummarize_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "extraction failed", http.StatusInternalServerError)
	})

	_, err := client.Summarize(context.Background(), Upload{Name: "a.pdf", Content: []byte("x")})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestGenerateQuestions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, generatePath, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "the document", r.FormValue("document_text"))
		_, _ = w.Write([]byte(`{"questions": ` + twoQuestions + `}`))
	})

	payload, err := client.GenerateQuestions(context.Background(), "the document")
	require.NoError(t, err)
	assert.Equal(t, ShapeArray, payload.Shape)
	assert.Len(t, payload.Candidates, 2)
}

func TestAsk(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, askPath, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "why?", r.FormValue("question"))
		assert.Equal(t, "content", r.FormValue("fileContent"))
		_, _ = w.Write([]byte(`{"answer": "because"}`))
	})

	answer, err := client.Ask(context.Background(), "why?", "content")
	require.NoError(t, err)
	assert.Equal(t, "because", answer)
}

func TestAsk_NonStringAnswer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer": 42}`))
	})

	answer, err := client.Ask(context.Background(), "q", "")
	require.NoError(t, err)
	assert.Empty(t, answer)
}

func TestAsk_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: url, Timeout: time.Second})
	_, err := client.Ask(context.Background(), "q", "")
	assert.Error(t, err)
}
