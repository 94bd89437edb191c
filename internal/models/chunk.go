package models

// DocumentChunk is a retrieved unit of indexed text. Chunks are produced by
// the vector repository and are read-only downstream.
type DocumentChunk struct {
	Content string  `json:"content"` // The chunk text
	Source  string  `json:"source"`  // Origin document identifier (may be a full path)
	Score   float64 `json:"score"`   // Similarity score, higher is more relevant
}

// ToolCall is one structured function invocation proposed by the model in
// tool-calling mode
type ToolCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // Raw JSON argument payload
}

// GenerationResult is the model output for a single completion call. It is
// ephemeral and consumed immediately by the caller.
type GenerationResult struct {
	Content    string     `json:"content"`
	LogProbs   []float64  `json:"logprobs,omitempty"` // Per-token log-probabilities, when requested
	TokenUsage int        `json:"token_usage"`        // Total tokens reported by the backend
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}
