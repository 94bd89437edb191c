package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"grounded-chat/internal/models"
	"grounded-chat/internal/repositories"
)

// DefaultTopDocs is how many chunks a search retrieves unless overridden
const DefaultTopDocs = 5

// ChatServiceConfig wires the orchestrator's dependencies. LLM, Embedder and
// VectorRepo are required; Cache is optional, templates and TopDocs default
// when unset.
type ChatServiceConfig struct {
	LLM            LLMClientInterface
	Embedder       EmbeddingClientInterface
	VectorRepo     repositories.VectorRepository
	Cache          *QueryCache
	ChatTemplate   *PromptTemplate
	SystemTemplate *PromptTemplate
	Tools          []FilterTool
	TopDocs        int
	Logger         *log.Logger
}

// ChatService coordinates standalone-query rewriting, retrieval, context
// assembly and grounded generation. All derived state is request-scoped; the
// service itself holds only shared, concurrency-safe collaborators.
type ChatService struct {
	llm            LLMClientInterface
	embedder       EmbeddingClientInterface
	vectorRepo     repositories.VectorRepository
	cache          *QueryCache
	chatTemplate   *PromptTemplate
	systemTemplate *PromptTemplate
	tools          map[string]FilterTool
	topDocs        int
	logger         *log.Logger
}

// NewChatService creates the orchestrator. Tool names are validated here so
// an unknown or duplicate tool is rejected at configuration time, not when a
// request arrives.
func NewChatService(cfg ChatServiceConfig) (*ChatService, error) {
	if cfg.LLM == nil || cfg.Embedder == nil || cfg.VectorRepo == nil {
		return nil, fmt.Errorf("chat service requires llm, embedder and vector repository")
	}
	if cfg.ChatTemplate == nil {
		cfg.ChatTemplate = DefaultChatTemplate
	}
	if cfg.SystemTemplate == nil {
		cfg.SystemTemplate = DefaultSystemTemplate
	}
	if cfg.TopDocs <= 0 {
		cfg.TopDocs = DefaultTopDocs
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stdout, "[CHAT-SERVICE] ", log.LstdFlags)
	}

	tools := make(map[string]FilterTool, len(cfg.Tools))
	for _, tool := range cfg.Tools {
		name := tool.Name()
		if name == "" {
			return nil, fmt.Errorf("filter tool with empty name")
		}
		if _, exists := tools[name]; exists {
			return nil, fmt.Errorf("duplicate filter tool: %s", name)
		}
		tools[name] = tool
	}

	return &ChatService{
		llm:            cfg.LLM,
		embedder:       cfg.Embedder,
		vectorRepo:     cfg.VectorRepo,
		cache:          cfg.Cache,
		chatTemplate:   cfg.ChatTemplate,
		systemTemplate: cfg.SystemTemplate,
		tools:          tools,
		topDocs:        cfg.TopDocs,
		logger:         cfg.Logger,
	}, nil
}

// AnswerRequest asks for a grounded answer to a query
type AnswerRequest struct {
	Query            string
	Chats            []models.ChatTurn
	TopDocs          int // 0 means the service default
	DeveloperDetails bool
}

// AnswerResult is the orchestrator's answer plus its retrieval state
type AnswerResult struct {
	Answer          string
	StandaloneQuery string
	Docs            []*models.DocumentChunk
	TokenUsage      int
	ConfidenceScore *float64 // Set only when developer details were requested
}

// ContextRequest asks for retrieval state without generation
type ContextRequest struct {
	Query   string
	Chats   []models.ChatTurn
	Tools   []string // Filter tools to apply, by registry name
	TopDocs int
}

// ContextResult is the retrieval state for context inspection
type ContextResult struct {
	Query           string
	StandaloneQuery string
	Docs            []*models.DocumentChunk
}

// FormatChatHistory renders turns as "User: ...\nAssistant: ...\n" blocks,
// oldest first
func FormatChatHistory(chats []models.ChatTurn) string {
	var sb strings.Builder
	for _, turn := range chats {
		sb.WriteString("User: ")
		sb.WriteString(turn.Question)
		sb.WriteString("\nAssistant: ")
		sb.WriteString(turn.Answer)
		sb.WriteString("\n")
	}
	return sb.String()
}

// standaloneQuery derives a history-independent restatement of the query.
// An empty history skips the rewrite round-trip entirely.
func (s *ChatService) standaloneQuery(ctx context.Context, query string, chats []models.ChatTurn) (string, error) {
	if len(chats) == 0 {
		return query, nil
	}

	prompt, err := s.chatTemplate.Render(map[string]string{
		"chat_history": FormatChatHistory(chats),
		"query":        query,
	})
	if err != nil {
		return "", err
	}

	result, err := s.llm.Generate(ctx, prompt, GenerateOptions{Temperature: 0})
	if err != nil {
		return "", err
	}

	s.logger.Printf("Rewrote query %q into standalone form %q", query, result.Content)
	return result.Content, nil
}

// embedQuery embeds the standalone query, consulting the cache first when
// one is configured
func (s *ChatService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if s.cache != nil {
		if embedding := s.cache.Get(ctx, query); embedding != nil {
			s.logger.Printf("Embedding cache hit for query: %s", query)
			return embedding, nil
		}
	}

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, query, embedding)
	}
	return embedding, nil
}

// Answer runs the full pipeline: rewrite, retrieve, assemble context and
// generate a grounded answer. Zero retrieved chunks still proceed to
// generation with an empty context; the grounding instructions make the
// model answer with the fixed sentinel phrase in that case.
func (s *ChatService) Answer(ctx context.Context, req *AnswerRequest) (*AnswerResult, error) {
	standalone, err := s.standaloneQuery(ctx, req.Query, req.Chats)
	if err != nil {
		return nil, err
	}

	topDocs := req.TopDocs
	if topDocs <= 0 {
		topDocs = s.topDocs
	}

	embedding, err := s.embedQuery(ctx, standalone)
	if err != nil {
		return nil, err
	}

	docs, err := s.vectorRepo.SearchChunks(ctx, embedding, topDocs, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("Retrieved %d chunks for query: %s", len(docs), standalone)

	systemPrompt, err := s.systemTemplate.Render(map[string]string{
		"context": BuildContext(docs),
	})
	if err != nil {
		return nil, err
	}

	seed := DefaultSeed
	response, err := s.llm.Generate(ctx, standalone, GenerateOptions{
		SystemPrompt: systemPrompt,
		Temperature:  0,
		Seed:         &seed,
		LogProbs:     true,
	})
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{
		Answer:          strings.TrimSpace(response.Content),
		StandaloneQuery: standalone,
		Docs:            docs,
		TokenUsage:      response.TokenUsage,
	}

	if req.DeveloperDetails {
		confidence := CalculateConfidence(response.LogProbs)
		result.ConfidenceScore = &confidence
	}

	return result, nil
}

// BuildContext runs rewrite and retrieval only, optionally narrowing the
// search with a filter tool. Exactly one tool invocation is attempted per
// call; requesting more than one tool is not supported.
func (s *ChatService) BuildContext(ctx context.Context, req *ContextRequest) (*ContextResult, error) {
	standalone, err := s.standaloneQuery(ctx, req.Query, req.Chats)
	if err != nil {
		return nil, err
	}

	topDocs := req.TopDocs
	if topDocs <= 0 {
		topDocs = s.topDocs
	}

	var filter *models.RetrievalFilter
	if len(req.Tools) > 0 {
		tool, ok := s.tools[req.Tools[0]]
		if !ok {
			return nil, fmt.Errorf("unknown filter tool: %s", req.Tools[0])
		}

		filter, err = tool.Propose(ctx, standalone)
		if err != nil {
			return nil, err
		}
		s.logger.Printf("Filter tool %s proposed: %+v", tool.Name(), filter)
	}

	embedding, err := s.embedQuery(ctx, standalone)
	if err != nil {
		return nil, err
	}

	docs, err := s.vectorRepo.SearchChunks(ctx, embedding, topDocs, filter)
	if err != nil {
		return nil, err
	}

	return &ContextResult{
		Query:           req.Query,
		StandaloneQuery: standalone,
		Docs:            docs,
	}, nil
}

// Stream generates a grounded answer over a pre-built context, yielding
// incremental fragments. The sequence is finite, not restartable, and stops
// when the caller's context is cancelled.
func (s *ChatService) Stream(ctx context.Context, query, contextText string) (<-chan StreamFragment, error) {
	systemPrompt, err := s.systemTemplate.Render(map[string]string{
		"context": contextText,
	})
	if err != nil {
		return nil, err
	}

	seed := DefaultSeed
	return s.llm.GenerateStream(ctx, query, GenerateOptions{
		SystemPrompt: systemPrompt,
		Temperature:  0,
		Seed:         &seed,
		LogProbs:     true,
	})
}

// Ping reports vector store connectivity for health checks
func (s *ChatService) Ping(ctx context.Context) error {
	return s.vectorRepo.Ping(ctx)
}
