package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"grounded-chat/internal/models"
	"grounded-chat/internal/services"
)

// ChatOrchestrator is the slice of the chat service the handlers depend on
type ChatOrchestrator interface {
	Answer(ctx context.Context, req *services.AnswerRequest) (*services.AnswerResult, error)
	BuildContext(ctx context.Context, req *services.ContextRequest) (*services.ContextResult, error)
	Stream(ctx context.Context, query, contextText string) (<-chan services.StreamFragment, error)
	Ping(ctx context.Context) error
}

// AnswerEvaluator scores answers by round-trip query reconstruction
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, query, answer string) (float64, []string, error)
}

// ChatHandler serves the chat API endpoints
type ChatHandler struct {
	service   ChatOrchestrator
	evaluator AnswerEvaluator
	keywords  *services.KeywordExtractor
	logger    *log.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service ChatOrchestrator, evaluator AnswerEvaluator, keywords *services.KeywordExtractor, logger *log.Logger) *ChatHandler {
	return &ChatHandler{
		service:   service,
		evaluator: evaluator,
		keywords:  keywords,
		logger:    logger,
	}
}

// GenerateAnswer godoc
// @Summary Answer a question over the indexed documents
// @Description Rewrites the query against its chat history, retrieves relevant chunks and generates a grounded answer
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.ChatRequest true "Chat request with query, history and options"
// @Success 200 {object} models.ChatResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /generate_ans [post]
func (h *ChatHandler) GenerateAnswer(w http.ResponseWriter, r *http.Request) {
	var request models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if request.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := h.service.Answer(r.Context(), &services.AnswerRequest{
		Query:            request.Query,
		Chats:            request.Chats,
		DeveloperDetails: request.DeveloperDetails,
	})
	if err != nil {
		h.logger.Printf("Answer failed for query %q: %v", request.Query, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !request.DeveloperDetails {
		writeJSON(w, http.StatusOK, models.ChatResponse{
			Response:   result.Answer,
			Query:      request.Query,
			References: services.ExtractReferences(result.Docs),
			UserID:     request.UserID,
		})
		return
	}

	responseScore, _, err := h.evaluator.Evaluate(r.Context(), request.Query, result.Answer)
	if err != nil {
		h.logger.Printf("Evaluation failed for query %q: %v", request.Query, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var confidence float64
	if result.ConfidenceScore != nil {
		confidence = *result.ConfidenceScore
	}

	writeJSON(w, http.StatusOK, models.DevChatResponse{
		Answer:          result.Answer,
		Query:           request.Query,
		StandaloneQuery: result.StandaloneQuery,
		Docs:            result.Docs,
		ConfidenceScore: confidence,
		ResponseScore:   responseScore,
		TokenUsage:      result.TokenUsage,
	})
}

// BuildContext godoc
// @Summary Inspect retrieval without generating an answer
// @Description Returns the standalone query, retrieved chunks, assembled context and per-document references
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.BuildContextRequest true "Context request with query, history and optional filter tools"
// @Success 200 {object} models.BuildContextResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /build_context [post]
func (h *ChatHandler) BuildContext(w http.ResponseWriter, r *http.Request) {
	var request models.BuildContextRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if request.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := h.service.BuildContext(r.Context(), &services.ContextRequest{
		Query: request.Query,
		Chats: request.Chats,
		Tools: request.Tools,
	})
	if err != nil {
		h.logger.Printf("Context build failed for query %q: %v", request.Query, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Keyword extraction is a diagnostic; failures only cost the field
	keywords, err := h.keywords.ExtractKeywords(result.StandaloneQuery)
	if err != nil {
		h.logger.Printf("Keyword extraction failed for query %q: %v", result.StandaloneQuery, err)
		keywords = nil
	}

	writeJSON(w, http.StatusOK, models.BuildContextResponse{
		Query:           result.Query,
		StandaloneQuery: result.StandaloneQuery,
		Docs:            result.Docs,
		References:      services.MergeReferences(result.Docs),
		Context:         services.BuildContext(result.Docs),
		Keywords:        keywords,
		UserID:          request.UserID,
	})
}

// Stream godoc
// @Summary Stream a grounded answer over a pre-built context
// @Description Emits the generated answer as server-sent events, one data frame per incremental fragment
// @Tags chat
// @Accept json
// @Produce text/event-stream
// @Param request body models.StreamRequest true "Stream request with query and pre-built context"
// @Success 200 {string} string "SSE stream"
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /stream [post]
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var request models.StreamRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if request.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported by this connection")
		return
	}

	fragments, err := h.service.Stream(r.Context(), request.Query, request.Context)
	if err != nil {
		h.logger.Printf("Stream setup failed for query %q: %v", request.Query, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Empty fragments are forwarded as empty data frames so the client keeps
	// receiving a heartbeat
	for fragment := range fragments {
		if fragment.Err != nil {
			// Headers are already out, so a mid-stream failure can only
			// truncate the response; the client sees it as end of stream.
			h.logger.Printf("Stream aborted for query %q: %v", request.Query, fragment.Err)
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", fragment.Content)
		flusher.Flush()
	}
}

// EvaluateResponse godoc
// @Summary Score an answer against its query
// @Description Reconstructs plausible original queries from the answer and returns their mean embedding similarity to the actual query
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.EvaluateResponseRequest true "Evaluation request with standalone query and answer"
// @Success 200 {object} models.EvaluateResponseResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /evaluate_response [post]
func (h *ChatHandler) EvaluateResponse(w http.ResponseWriter, r *http.Request) {
	var request models.EvaluateResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if request.StandaloneQuery == "" || request.Answer == "" {
		writeError(w, http.StatusBadRequest, "stand_alone_query and answer are required")
		return
	}

	score, similarQueries, err := h.evaluator.Evaluate(r.Context(), request.StandaloneQuery, request.Answer)
	if err != nil {
		h.logger.Printf("Evaluation failed for query %q: %v", request.StandaloneQuery, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.EvaluateResponseResponse{
		SimilarQueries: similarQueries,
		ResponseScore:  score,
		UserID:         request.UserID,
	})
}

// Health godoc
// @Summary Health check
// @Description Reports process liveness and vector store connectivity
// @Tags general
// @Produce json
// @Success 200 {object} models.BasicResponse
// @Failure 503 {object} models.BasicResponse
// @Router /health [get]
func (h *ChatHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, models.BasicResponse{
			Message: "vector store unavailable: " + err.Error(),
			Status:  "error",
		})
		return
	}

	writeJSON(w, http.StatusOK, models.BasicResponse{
		Message: "Server is healthy",
		Status:  "success",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}
