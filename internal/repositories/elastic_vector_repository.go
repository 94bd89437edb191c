package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"grounded-chat/internal/db"
	"grounded-chat/internal/models"
)

// ElasticVectorRepository implements VectorRepository on top of an
// Elasticsearch index holding document chunks with dense vectors.
type ElasticVectorRepository struct {
	client  *db.ESClient
	indices []string

	mu        sync.Mutex
	connected bool
}

// NewElasticVectorRepository creates an Elasticsearch-backed vector repository.
// The connection is probed lazily on first search.
func NewElasticVectorRepository(client *db.ESClient, indices []string) *ElasticVectorRepository {
	return &ElasticVectorRepository{
		client:  client,
		indices: indices,
	}
}

// ensureConnected runs the liveness probe once, under a lock so concurrent
// first callers cannot race the check-then-set. A failed probe leaves the
// flag unset so a later call retries.
func (r *ElasticVectorRepository) ensureConnected(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connected {
		return nil
	}
	if err := r.client.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionUnavailable, err)
	}
	r.connected = true
	return nil
}

// SearchChunks embeds nothing itself: it scores the given query vector against
// stored document vectors with cosine similarity (offset by +1.0 to keep
// scores non-negative, which does not affect ranking) and returns the topK
// chunks sorted by descending score. The sort is applied client-side even
// though Elasticsearch returns ranked hits.
func (r *ElasticVectorRepository) SearchChunks(ctx context.Context, queryEmbedding []float32, topK int, filter *models.RetrievalFilter) ([]*models.DocumentChunk, error) {
	if err := r.ensureConnected(ctx); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"size": topK,
		"query": map[string]interface{}{
			"script_score": map[string]interface{}{
				"query": filter.ESQuery(),
				"script": map[string]interface{}{
					"source": "cosineSimilarity(params.query_vector, 'vector') + 1.0",
					"params": map[string]interface{}{
						"query_vector": queryEmbedding,
					},
				},
			},
		},
		"_source": []string{"text", "metadata.source"},
	}

	resp, err := r.client.Search(ctx, r.indices, body)
	if err != nil {
		return nil, NewVectorRepositoryError("search_chunks", err, "")
	}

	chunks := make([]*models.DocumentChunk, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		chunks = append(chunks, &models.DocumentChunk{
			Content: hit.Source.Text,
			Source:  hit.Source.Metadata.Source,
			Score:   hit.Score,
		})
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})

	return chunks, nil
}

// Ping checks connectivity to Elasticsearch
func (r *ElasticVectorRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection
func (r *ElasticVectorRepository) Close() error {
	r.client.Close()
	return nil
}
