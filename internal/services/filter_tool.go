package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"grounded-chat/internal/models"
)

// FilterTool translates a natural-language query into a structured retrieval
// filter. The tool set is a closed, enumerated registry: names are validated
// when the orchestrator is constructed, not at call time.
type FilterTool interface {
	Name() string
	Propose(ctx context.Context, query string) (*models.RetrievalFilter, error)
}

// MetadataFilterToolName identifies the single supported filter tool
const MetadataFilterToolName = "get_chunks_by_metadata"

// metadataToolDefinition describes the function contract handed to the model
var metadataToolDefinition = openai.Tool{
	Type: openai.ToolTypeFunction,
	Function: &openai.FunctionDefinition{
		Name:        MetadataFilterToolName,
		Description: "Get the document chunks for a given metadata properties.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"source": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
					},
					"description": "A list of document names, e.g. ['document1.pdf', 'document2.pdf']",
				},
				"start_date": map[string]interface{}{
					"type":        "string",
					"description": "The start date of the creation date range for filtering documents, in YYYY-MM-DD format.",
					"nullable":    true,
				},
				"end_date": map[string]interface{}{
					"type":        "string",
					"description": "The end date of the creation date range for filtering documents, in YYYY-MM-DD format.",
					"nullable":    true,
				},
			},
			"required": []string{"source"},
		},
	},
}

// metadataFilterArgs mirrors the function-call argument payload
type metadataFilterArgs struct {
	Source    []string `json:"source"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
}

// MetadataFilterTool uses the completion gateway in tool-calling mode to
// build a metadata filter (source allow-list plus optional date range) from
// a query.
type MetadataFilterTool struct {
	llm LLMClientInterface
}

// NewMetadataFilterTool creates the metadata filter tool
func NewMetadataFilterTool(llm LLMClientInterface) *MetadataFilterTool {
	return &MetadataFilterTool{llm: llm}
}

// Name returns the tool's registry name
func (t *MetadataFilterTool) Name() string {
	return MetadataFilterToolName
}

// Propose asks the model for exactly one filter call. Zero qualifying calls
// fall back to an unrestricted filter; more than one fails with
// ErrUnsupportedMultiFilter.
func (t *MetadataFilterTool) Propose(ctx context.Context, query string) (*models.RetrievalFilter, error) {
	result, err := t.llm.Generate(ctx, query, GenerateOptions{
		Tools:      []openai.Tool{metadataToolDefinition},
		ToolChoice: "required",
	})
	if err != nil {
		return nil, err
	}

	calls := result.ToolCalls
	switch {
	case len(calls) == 0:
		return &models.RetrievalFilter{}, nil
	case len(calls) > 1:
		return nil, ErrUnsupportedMultiFilter
	}

	var args metadataFilterArgs
	if err := json.Unmarshal([]byte(calls[0].Arguments), &args); err != nil {
		return nil, &GenerationError{
			Operation: "parse_filter_arguments",
			Err:       fmt.Errorf("malformed tool call arguments: %w", err),
		}
	}

	return models.NewRetrievalFilter(args.Source, args.StartDate, args.EndDate)
}
