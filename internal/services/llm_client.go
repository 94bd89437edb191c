package services

import (
	"context"
	"errors"
	"io"
	"math"

	"github.com/sashabaranov/go-openai"

	"grounded-chat/internal/models"
)

// DefaultSeed pins generation for reproducible grounded answers
const DefaultSeed = 1

// GenerateOptions controls a single completion call
type GenerateOptions struct {
	SystemPrompt string
	Temperature  float32
	Seed         *int // nil means no fixed seed (sampling diversity)
	LogProbs     bool
	Tools        []openai.Tool
	ToolChoice   interface{}
}

// StreamFragment is one incremental piece of a streaming completion. Empty
// content is a valid fragment; the transport layer forwards it as a heartbeat.
type StreamFragment struct {
	Content string
	Err     error
}

// LLMClientInterface abstracts the completion gateway for testing
type LLMClientInterface interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*models.GenerationResult, error)
	GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan StreamFragment, error)
}

// LLMClient sends completion requests to an OpenAI-compatible backend.
// Stateless per call; safe for concurrent use across requests.
type LLMClient struct {
	client *openai.Client
	model  string
}

// NewLLMClient creates a new completion gateway client
func NewLLMClient(apiKey, model string) *LLMClient {
	return &LLMClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Generate issues a single completion call and returns the full response.
// Tool-calling mode populates ToolCalls instead of free text.
func (c *LLMClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*models.GenerationResult, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.buildRequest(prompt, opts))
	if err != nil {
		return nil, &GenerationError{Operation: "generate", Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &GenerationError{Operation: "generate", Err: errors.New("backend returned no choices")}
	}

	choice := resp.Choices[0]
	result := &models.GenerationResult{
		Content:    choice.Message.Content,
		TokenUsage: resp.Usage.TotalTokens,
	}

	if choice.LogProbs != nil {
		result.LogProbs = make([]float64, 0, len(choice.LogProbs.Content))
		for _, lp := range choice.LogProbs.Content {
			result.LogProbs = append(result.LogProbs, lp.LogProb)
		}
	}

	for _, call := range choice.Message.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, models.ToolCall{
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}

	return result, nil
}

// GenerateStream issues a streaming completion call. Each incremental chunk
// is emitted as soon as it arrives, including empty-content deltas. The
// channel closes when the backend signals completion; cancelling the context
// stops the stream and releases the underlying connection.
func (c *LLMClient) GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan StreamFragment, error) {
	req := c.buildRequest(prompt, opts)
	req.Stream = true

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, &GenerationError{Operation: "generate_stream", Err: err}
	}

	fragments := make(chan StreamFragment)
	go func() {
		defer close(fragments)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				select {
				case fragments <- StreamFragment{Err: &GenerationError{Operation: "generate_stream", Err: err}}:
				case <-ctx.Done():
				}
				return
			}

			var content string
			if len(resp.Choices) > 0 {
				content = resp.Choices[0].Delta.Content
			}

			select {
			case fragments <- StreamFragment{Content: content}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return fragments, nil
}

func (c *LLMClient) buildRequest(prompt string, opts GenerateOptions) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if opts.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: opts.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	// A zero temperature is dropped from the wire encoding entirely, which
	// would leave the provider default (1.0) in effect. Send the smallest
	// nonzero float instead so deterministic calls really run at zero.
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	return openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		Seed:        opts.Seed,
		LogProbs:    opts.LogProbs,
		Tools:       opts.Tools,
		ToolChoice:  opts.ToolChoice,
	}
}

// CalculateConfidence maps per-token log-probabilities to a percentage-like
// scalar in (0, 100]: exp of the summed log-likelihood, times 100. Monotonic
// in aggregate certainty but not a calibrated probability; very short answers
// can read surprisingly high.
func CalculateConfidence(logProbs []float64) float64 {
	var sum float64
	for _, lp := range logProbs {
		sum += lp
	}
	return math.Exp(sum) * 100
}
