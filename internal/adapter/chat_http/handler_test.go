package chat_http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cisnr-assistant/internal/adapter/chat_http"
	"cisnr-assistant/internal/usecase"
)

type stubAnswerUsecase struct {
	output *usecase.AnswerOutput
	called bool
	input  usecase.AnswerInput
}

func (s *stubAnswerUsecase) Execute(ctx context.Context, input usecase.AnswerInput) *usecase.AnswerOutput {
	s.called = true
	s.input = input
	return s.output
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func doRequest(h *chat_http.Handler, method, path, body string) *httptest.ResponseRecorder {
	e := echo.New()
	h.Register(e)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChat_Success(t *testing.T) {
	stub := &stubAnswerUsecase{output: &usecase.AnswerOutput{Answer: "CISNR researches intelligent systems."}}
	h := chat_http.NewHandler(stub, chat_http.Dependencies{GoogleAPI: true, Pinecone: true}, testLogger())

	rec := doRequest(h, http.MethodPost, "/chat", `{"message":"What is CISNR?","role":"admin","user_id":"u1","session_id":"s1"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "What is CISNR?", resp["question"])
	assert.Equal(t, "CISNR researches intelligent systems.", resp["response"])
	assert.Equal(t, "cisnr-rag-system", resp["source"])
	assert.NotEmpty(t, resp["timestamp"])

	require.True(t, stub.called)
	assert.Equal(t, "What is CISNR?", stub.input.Question)
	require.NotNil(t, stub.input.User)
	assert.Equal(t, "admin", stub.input.User.Role)
	assert.Equal(t, "u1", stub.input.User.UserID)
	assert.Equal(t, "s1", stub.input.User.SessionID)
}

func TestChat_DefaultsUserContext(t *testing.T) {
	stub := &stubAnswerUsecase{output: &usecase.AnswerOutput{Answer: "ok"}}
	h := chat_http.NewHandler(stub, chat_http.Dependencies{}, testLogger())

	rec := doRequest(h, http.MethodPost, "/chat", `{"message":"What is CISNR?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.input.User)
	assert.Equal(t, "researcher", stub.input.User.Role)
	assert.Equal(t, "unknown", stub.input.User.UserID)
	assert.Equal(t, "unknown", stub.input.User.SessionID)
}

func TestChat_MissingMessage(t *testing.T) {
	stub := &stubAnswerUsecase{output: &usecase.AnswerOutput{Answer: "ok"}}
	h := chat_http.NewHandler(stub, chat_http.Dependencies{}, testLogger())

	rec := doRequest(h, http.MethodPost, "/chat", `{"role":"admin"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message is required")
	assert.False(t, stub.called)
}

func TestChat_EmptyMessage(t *testing.T) {
	stub := &stubAnswerUsecase{output: &usecase.AnswerOutput{Answer: "ok"}}
	h := chat_http.NewHandler(stub, chat_http.Dependencies{}, testLogger())

	rec := doRequest(h, http.MethodPost, "/chat", `{"message":"   "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message cannot be empty")
	assert.False(t, stub.called)
}

func TestChat_DegradedMode(t *testing.T) {
	h := chat_http.NewHandler(nil, chat_http.Dependencies{}, testLogger())

	rec := doRequest(h, http.MethodPost, "/chat", `{"message":"What is CISNR?"}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "RAG system is not available", resp["error"])
	assert.Contains(t, resp["response"], "currently unavailable")
}

func TestHealth_Healthy(t *testing.T) {
	stub := &stubAnswerUsecase{output: &usecase.AnswerOutput{Answer: "ok"}}
	h := chat_http.NewHandler(stub, chat_http.Dependencies{GoogleAPI: true, Pinecone: true}, testLogger())

	rec := doRequest(h, http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status       string          `json:"status"`
		Service      string          `json:"service"`
		Dependencies map[string]bool `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "CISNR Research Assistant", resp.Service)
	assert.True(t, resp.Dependencies["rag_system"])
	assert.True(t, resp.Dependencies["google_api"])
	assert.True(t, resp.Dependencies["pinecone"])
}

func TestHealth_Degraded(t *testing.T) {
	h := chat_http.NewHandler(nil, chat_http.Dependencies{GoogleAPI: true}, testLogger())

	rec := doRequest(h, http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp struct {
		Status       string          `json:"status"`
		Dependencies map[string]bool `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.False(t, resp.Dependencies["rag_system"])
	assert.True(t, resp.Dependencies["google_api"])
	assert.False(t, resp.Dependencies["pinecone"])
}

func TestResources(t *testing.T) {
	h := chat_http.NewHandler(nil, chat_http.Dependencies{}, testLogger())

	rec := doRequest(h, http.MethodGet, "/api/resources", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Resources []struct {
			Title    string `json:"title"`
			Category string `json:"category"`
		} `json:"resources"`
		Count       int    `json:"count"`
		LastUpdated string `json:"last_updated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
	assert.Len(t, resp.Resources, 4)
	assert.Equal(t, "Research Publications", resp.Resources[0].Title)
	assert.NotEmpty(t, resp.LastUpdated)
}
