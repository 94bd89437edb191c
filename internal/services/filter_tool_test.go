package services

import (
	"context"
	"errors"
	"testing"

	"grounded-chat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ============================================================================
// Test Setup
// ============================================================================

func setupTestMetadataFilterTool(t *testing.T) (*MetadataFilterTool, *MockLLMClient) {
	mockLLM := new(MockLLMClient)
	tool := NewMetadataFilterTool(mockLLM)
	return tool, mockLLM
}

func mockToolCallResult(calls ...models.ToolCall) *models.GenerationResult {
	return &models.GenerationResult{ToolCalls: calls}
}

// ============================================================================
// Tests
// ============================================================================

func TestMetadataFilterTool_Name(t *testing.T) {
	tool, _ := setupTestMetadataFilterTool(t)

	assert.Equal(t, "get_chunks_by_metadata", tool.Name())
}

func TestPropose_RequestsRequiredToolChoice(t *testing.T) {
	tool, mockLLM := setupTestMetadataFilterTool(t)

	toolOpts := func(opts GenerateOptions) bool {
		return len(opts.Tools) == 1 &&
			opts.Tools[0].Function.Name == MetadataFilterToolName &&
			opts.ToolChoice == "required"
	}
	mockLLM.On("Generate", mock.Anything, "query", mock.MatchedBy(toolOpts)).
		Return(mockToolCallResult(), nil)

	_, err := tool.Propose(context.Background(), "query")

	assert.NoError(t, err)
	mockLLM.AssertExpectations(t)
}

func TestPropose_NoCallsFallsBackToUnrestricted(t *testing.T) {
	tool, mockLLM := setupTestMetadataFilterTool(t)

	mockLLM.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCallResult(), nil)

	filter, err := tool.Propose(context.Background(), "query about nothing in particular")

	assert.NoError(t, err)
	assert.True(t, filter.IsUnrestricted())
}

func TestPropose_SourceOnlyFilter(t *testing.T) {
	tool, mockLLM := setupTestMetadataFilterTool(t)

	mockLLM.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCallResult(models.ToolCall{
			Name:      MetadataFilterToolName,
			Arguments: `{"source": ["doc1.pdf", "doc2.pdf"]}`,
		}), nil)

	filter, err := tool.Propose(context.Background(), "what do doc1 and doc2 say?")

	assert.NoError(t, err)
	assert.Equal(t, []string{"doc1.pdf", "doc2.pdf"}, filter.Sources)
	assert.Empty(t, filter.StartDate)
	assert.Empty(t, filter.EndDate)
}

func TestPropose_DateRangeFilter(t *testing.T) {
	tool, mockLLM := setupTestMetadataFilterTool(t)

	mockLLM.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCallResult(models.ToolCall{
			Name:      MetadataFilterToolName,
			Arguments: `{"source": ["report.pdf"], "start_date": "2024-01-01", "end_date": "2024-06-30"}`,
		}), nil)

	filter, err := tool.Propose(context.Background(), "reports from the first half of 2024")

	assert.NoError(t, err)
	assert.Equal(t, []string{"report.pdf"}, filter.Sources)
	assert.Equal(t, "2024-01-01", filter.StartDate)
	assert.Equal(t, "2024-06-30", filter.EndDate)
}

func TestPropose_MultipleCallsUnsupported(t *testing.T) {
	tool, mockLLM := setupTestMetadataFilterTool(t)

	mockLLM.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCallResult(
			models.ToolCall{Name: MetadataFilterToolName, Arguments: `{"source": ["a.pdf"]}`},
			models.ToolCall{Name: MetadataFilterToolName, Arguments: `{"source": ["b.pdf"]}`},
		), nil)

	filter, err := tool.Propose(context.Background(), "query")

	assert.Nil(t, filter)
	assert.ErrorIs(t, err, ErrUnsupportedMultiFilter)
}

func TestPropose_MalformedArguments(t *testing.T) {
	tool, mockLLM := setupTestMetadataFilterTool(t)

	mockLLM.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCallResult(models.ToolCall{
			Name:      MetadataFilterToolName,
			Arguments: `{not json`,
		}), nil)

	filter, err := tool.Propose(context.Background(), "query")

	assert.Nil(t, filter)
	var genErr *GenerationError
	assert.True(t, errors.As(err, &genErr))
	assert.Equal(t, "parse_filter_arguments", genErr.Operation)
}

func TestPropose_InvalidDateRejected(t *testing.T) {
	tool, mockLLM := setupTestMetadataFilterTool(t)

	mockLLM.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCallResult(models.ToolCall{
			Name:      MetadataFilterToolName,
			Arguments: `{"source": ["a.pdf"], "start_date": "January 1st"}`,
		}), nil)

	filter, err := tool.Propose(context.Background(), "query")

	assert.Nil(t, filter)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter date")
}

func TestPropose_GatewayFailure(t *testing.T) {
	tool, mockLLM := setupTestMetadataFilterTool(t)

	mockLLM.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited"))

	filter, err := tool.Propose(context.Background(), "query")

	assert.Nil(t, filter)
	assert.Error(t, err)
}
