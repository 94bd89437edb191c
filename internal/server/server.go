package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"grounded-chat/internal/config"
	"grounded-chat/internal/db"
	"grounded-chat/internal/handlers"
	"grounded-chat/internal/repositories"
	"grounded-chat/internal/routes"
	"grounded-chat/internal/services"
)

// Server owns the HTTP listener and the shared long-lived clients behind it
type Server struct {
	httpServer  *http.Server
	vectorRepo  repositories.VectorRepository
	redisClient *db.RedisClient
	logger      *log.Logger
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// New builds the full dependency graph from configuration: gateway clients,
// vector repository, optional Redis cache, services, handlers and routes.
func New(cfg *config.Config) (*Server, error) {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)

	llmClient := services.NewLLMClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	embeddingClient := services.NewEmbeddingClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel)

	logger.Printf("Connecting to Elasticsearch: %s (indices: %v)", cfg.VectorDBHost, cfg.VectorDBIndex)
	esClient := db.NewESClient(db.ESConfig{
		Host:     cfg.VectorDBHost,
		Username: cfg.VectorDBUsername,
		Password: cfg.VectorDBPassword,
		Timeout:  cfg.VectorDBTimeout,
	})
	vectorRepo := repositories.NewElasticVectorRepository(esClient, cfg.VectorDBIndex)

	var redisClient *db.RedisClient
	var queryCache *services.QueryCache
	if cfg.RedisHost != "" {
		logger.Printf("Connecting to Redis: %s:%d (DB: %d)", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)
		redisClient = db.NewRedisClient(db.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		queryCache = services.NewQueryCache(redisClient, 0, logger)
		logger.Println("Embedding cache enabled")
	} else {
		logger.Println("REDIS_HOST not set, embedding cache disabled")
	}

	chatService, err := services.NewChatService(services.ChatServiceConfig{
		LLM:        llmClient,
		Embedder:   embeddingClient,
		VectorRepo: vectorRepo,
		Cache:      queryCache,
		Tools:      []services.FilterTool{services.NewMetadataFilterTool(llmClient)},
		TopDocs:    cfg.TopDocs,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat service: %w", err)
	}

	evaluator := services.NewResponseEvaluator(llmClient, embeddingClient, logger)
	chatHandler := handlers.NewChatHandler(chatService, evaluator, services.NewKeywordExtractor(), logger)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, chatHandler)

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Port)),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: corsMiddleware(router),
		},
		vectorRepo:  vectorRepo,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// ListenAndServe starts serving requests
func (s *Server) ListenAndServe() error {
	s.logger.Printf("Listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests, then releases the vector store and
// cache connections
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	if closeErr := s.vectorRepo.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	return err
}
