package services

import (
	"context"
	"log"
	"math"

	"golang.org/x/sync/errgroup"
)

const (
	// evaluationSamples is how many reverse reconstructions are generated
	evaluationSamples = 3
	// evaluationTemperature deliberately samples diverse reconstructions
	evaluationTemperature = 0.8
)

const reverseQueryInstruction = "Based on a given response, generate the original " +
	"question that could have led to the response.\n"

// ResponseEvaluator scores an answer by reconstructing plausible original
// queries from it and comparing their embeddings against the actual query.
// A well-grounded answer should reconstruct a query close to the original;
// low similarity signals drift or hallucination.
type ResponseEvaluator struct {
	llm      LLMClientInterface
	embedder EmbeddingClientInterface
	logger   *log.Logger
}

// NewResponseEvaluator creates a response evaluator
func NewResponseEvaluator(llm LLMClientInterface, embedder EmbeddingClientInterface, logger *log.Logger) *ResponseEvaluator {
	return &ResponseEvaluator{
		llm:      llm,
		embedder: embedder,
		logger:   logger,
	}
}

// Evaluate reconstructs three candidate queries from the answer (sampled
// concurrently at elevated temperature, no fixed seed, so scores vary across
// runs) and returns their mean embedding cosine similarity against the
// query, plus the candidates themselves. Gateway failures propagate; there
// are no retries at this layer.
func (e *ResponseEvaluator) Evaluate(ctx context.Context, query, answer string) (float64, []string, error) {
	candidates := make([]string, evaluationSamples)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < evaluationSamples; i++ {
		i := i
		g.Go(func() error {
			result, err := e.llm.Generate(gctx, "Response: "+answer, GenerateOptions{
				SystemPrompt: reverseQueryInstruction,
				Temperature:  evaluationTemperature,
			})
			if err != nil {
				return err
			}
			candidates[i] = result.Content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}

	queryVector, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return 0, nil, err
	}

	candidateVectors, err := e.embedder.EmbedBatch(ctx, candidates)
	if err != nil {
		return 0, nil, err
	}

	var total float64
	for _, vec := range candidateVectors {
		total += CosineSimilarity(queryVector, vec)
	}
	score := total / float64(len(candidateVectors))

	e.logger.Printf("Evaluated response for query %q: score %.4f", query, score)
	return score, candidates, nil
}

// CosineSimilarity computes dot(a,b) / (norm(a) * norm(b)). Zero-magnitude
// inputs score 0.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := 0; i < len(a) && i < len(b); i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
