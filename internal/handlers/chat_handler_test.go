package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"grounded-chat/internal/models"
	"grounded-chat/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ============================================================================
// Mock Definitions
// ============================================================================

type MockChatOrchestrator struct {
	mock.Mock
}

func (m *MockChatOrchestrator) Answer(ctx context.Context, req *services.AnswerRequest) (*services.AnswerResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AnswerResult), args.Error(1)
}

func (m *MockChatOrchestrator) BuildContext(ctx context.Context, req *services.ContextRequest) (*services.ContextResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ContextResult), args.Error(1)
}

func (m *MockChatOrchestrator) Stream(ctx context.Context, query, contextText string) (<-chan services.StreamFragment, error) {
	args := m.Called(ctx, query, contextText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan services.StreamFragment), args.Error(1)
}

func (m *MockChatOrchestrator) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockAnswerEvaluator struct {
	mock.Mock
}

func (m *MockAnswerEvaluator) Evaluate(ctx context.Context, query, answer string) (float64, []string, error) {
	args := m.Called(ctx, query, answer)
	var candidates []string
	if args.Get(1) != nil {
		candidates = args.Get(1).([]string)
	}
	return args.Get(0).(float64), candidates, args.Error(2)
}

// ============================================================================
// Test Setup
// ============================================================================

func setupTestChatHandler(t *testing.T) (*ChatHandler, *MockChatOrchestrator, *MockAnswerEvaluator) {
	mockService := new(MockChatOrchestrator)
	mockEvaluator := new(MockAnswerEvaluator)
	logger := log.New(os.Stdout, "[TEST] ", log.LstdFlags)

	handler := NewChatHandler(mockService, mockEvaluator, services.NewKeywordExtractor(), logger)
	return handler, mockService, mockEvaluator
}

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	handlerFunc(recorder, req)
	return recorder
}

func createMockDocs() []*models.DocumentChunk {
	return []*models.DocumentChunk{
		{Content: "Paris is the capital.", Source: "doc1.pdf", Score: 0.9},
		{Content: "France is in Europe.", Source: "doc2.pdf", Score: 0.7},
	}
}

// ============================================================================
// GenerateAnswer Tests
// ============================================================================

func TestGenerateAnswer(t *testing.T) {
	handler, mockService, _ := setupTestChatHandler(t)

	mockService.On("Answer", mock.Anything, mock.Anything).Return(&services.AnswerResult{
		Answer:          "Paris.",
		StandaloneQuery: "What is the capital of France?",
		Docs:            createMockDocs(),
	}, nil)

	recorder := postJSON(t, handler.GenerateAnswer, "/generate_ans", models.ChatRequest{
		Query:  "What is the capital of France?",
		UserID: "user-1",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response models.ChatResponse
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "Paris.", response.Response)
	assert.Equal(t, "What is the capital of France?", response.Query)
	assert.Equal(t, []string{"doc1.pdf", "doc2.pdf"}, response.References)
	assert.Equal(t, "user-1", response.UserID)
}

func TestGenerateAnswer_DeveloperDetails(t *testing.T) {
	handler, mockService, mockEvaluator := setupTestChatHandler(t)

	confidence := 70.5
	mockService.On("Answer", mock.Anything, mock.MatchedBy(func(req *services.AnswerRequest) bool {
		return req.DeveloperDetails
	})).Return(&services.AnswerResult{
		Answer:          "Paris.",
		StandaloneQuery: "What is the capital of France?",
		Docs:            createMockDocs(),
		TokenUsage:      42,
		ConfidenceScore: &confidence,
	}, nil)
	mockEvaluator.On("Evaluate", mock.Anything, "What is its capital?", "Paris.").
		Return(0.87, []string{"q1", "q2", "q3"}, nil)

	recorder := postJSON(t, handler.GenerateAnswer, "/generate_ans", models.ChatRequest{
		Query:            "What is its capital?",
		DeveloperDetails: true,
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response models.DevChatResponse
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "Paris.", response.Answer)
	assert.Equal(t, "What is the capital of France?", response.StandaloneQuery)
	assert.Equal(t, 70.5, response.ConfidenceScore)
	assert.Equal(t, 0.87, response.ResponseScore)
	assert.Equal(t, 42, response.TokenUsage)
	assert.Len(t, response.Docs, 2)
}

func TestGenerateAnswer_MissingQuery(t *testing.T) {
	handler, _, _ := setupTestChatHandler(t)

	recorder := postJSON(t, handler.GenerateAnswer, "/generate_ans", models.ChatRequest{})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var response models.ErrorResponse
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Contains(t, response.Error, "query is required")
}

func TestGenerateAnswer_InvalidBody(t *testing.T) {
	handler, _, _ := setupTestChatHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/generate_ans", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()

	handler.GenerateAnswer(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGenerateAnswer_ServiceFailure(t *testing.T) {
	handler, mockService, _ := setupTestChatHandler(t)

	mockService.On("Answer", mock.Anything, mock.Anything).
		Return(nil, errors.New("pipeline failed"))

	recorder := postJSON(t, handler.GenerateAnswer, "/generate_ans", models.ChatRequest{
		Query: "question",
	})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

// ============================================================================
// BuildContext Tests
// ============================================================================

func TestBuildContext(t *testing.T) {
	handler, mockService, _ := setupTestChatHandler(t)

	mockService.On("BuildContext", mock.Anything, mock.Anything).Return(&services.ContextResult{
		Query:           "What is its capital?",
		StandaloneQuery: "What is the capital of France?",
		Docs:            createMockDocs(),
	}, nil)

	recorder := postJSON(t, handler.BuildContext, "/build_context", models.BuildContextRequest{
		Query:  "What is its capital?",
		UserID: "user-1",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response models.BuildContextResponse
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "What is the capital of France?", response.StandaloneQuery)
	assert.Len(t, response.Docs, 2)
	assert.Contains(t, response.Context, "Document name: doc1.pdf: Paris is the capital.")
	assert.Equal(t, "Paris is the capital.\n\n", response.References["doc1.pdf"])
	assert.NotEmpty(t, response.Keywords)
	assert.Equal(t, "user-1", response.UserID)
}

func TestBuildContext_MissingQuery(t *testing.T) {
	handler, _, _ := setupTestChatHandler(t)

	recorder := postJSON(t, handler.BuildContext, "/build_context", models.BuildContextRequest{})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

// ============================================================================
// Stream Tests
// ============================================================================

func TestStream_SSEFraming(t *testing.T) {
	handler, mockService, _ := setupTestChatHandler(t)

	ch := make(chan services.StreamFragment, 3)
	ch <- services.StreamFragment{Content: "Hel"}
	ch <- services.StreamFragment{Content: "lo"}
	ch <- services.StreamFragment{Content: ""}
	close(ch)

	mockService.On("Stream", mock.Anything, "question", "some context").
		Return((<-chan services.StreamFragment)(ch), nil)

	recorder := postJSON(t, handler.Stream, "/stream", models.StreamRequest{
		Query:   "question",
		Context: "some context",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/event-stream", recorder.Header().Get("Content-Type"))
	// Empty fragments still produce a data frame
	assert.Equal(t, "data: Hel\n\ndata: lo\n\ndata: \n\n", recorder.Body.String())
}

func TestStream_MidStreamErrorTruncates(t *testing.T) {
	handler, mockService, _ := setupTestChatHandler(t)

	ch := make(chan services.StreamFragment, 3)
	ch <- services.StreamFragment{Content: "partial"}
	ch <- services.StreamFragment{Err: errors.New("backend hiccup")}
	ch <- services.StreamFragment{Content: "never sent"}
	close(ch)

	mockService.On("Stream", mock.Anything, "question", "some context").
		Return((<-chan services.StreamFragment)(ch), nil)

	recorder := postJSON(t, handler.Stream, "/stream", models.StreamRequest{
		Query:   "question",
		Context: "some context",
	})

	// Frames before the failure are delivered; everything after is dropped
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "data: partial\n\n", recorder.Body.String())
}

func TestStream_SetupFailure(t *testing.T) {
	handler, mockService, _ := setupTestChatHandler(t)

	mockService.On("Stream", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("backend down"))

	recorder := postJSON(t, handler.Stream, "/stream", models.StreamRequest{
		Query: "question",
	})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

// ============================================================================
// EvaluateResponse Tests
// ============================================================================

func TestEvaluateResponse(t *testing.T) {
	handler, _, mockEvaluator := setupTestChatHandler(t)

	mockEvaluator.On("Evaluate", mock.Anything, "What is the capital of France?", "Paris.").
		Return(0.91, []string{"q1", "q2", "q3"}, nil)

	recorder := postJSON(t, handler.EvaluateResponse, "/evaluate_response", models.EvaluateResponseRequest{
		StandaloneQuery: "What is the capital of France?",
		Answer:          "Paris.",
		UserID:          "user-1",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response models.EvaluateResponseResponse
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 0.91, response.ResponseScore)
	assert.Equal(t, []string{"q1", "q2", "q3"}, response.SimilarQueries)
	assert.Equal(t, "user-1", response.UserID)
}

func TestEvaluateResponse_MissingFields(t *testing.T) {
	handler, _, _ := setupTestChatHandler(t)

	recorder := postJSON(t, handler.EvaluateResponse, "/evaluate_response", models.EvaluateResponseRequest{
		Answer: "Paris.",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

// ============================================================================
// Health Tests
// ============================================================================

func TestHealth(t *testing.T) {
	handler, mockService, _ := setupTestChatHandler(t)

	mockService.On("Ping", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	handler.Health(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response models.BasicResponse
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "success", response.Status)
}

func TestHealth_VectorStoreDown(t *testing.T) {
	handler, mockService, _ := setupTestChatHandler(t)

	mockService.On("Ping", mock.Anything).Return(errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	handler.Health(recorder, req)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var response models.BasicResponse
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
}
