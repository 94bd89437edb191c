package models

// ChatTurn represents a single prior exchange in a conversation
type ChatTurn struct {
	Question string `json:"question"` // What the user asked
	Answer   string `json:"answer"`   // What the assistant replied
}

// BasicResponse is the minimal status payload used by health endpoints
type BasicResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"` // "success" or "error"
}

// ErrorResponse is the flat error body returned on request failure
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatRequest represents the incoming answer request from the frontend
type ChatRequest struct {
	Query            string     `json:"query"`             // The current user question
	Chats            []ChatTurn `json:"chats"`             // Previous conversation history, oldest first
	UserID           string     `json:"userId"`            // Opaque caller identifier, echoed back
	DeveloperDetails bool       `json:"developer_details"` // Include diagnostic scores in the response
}

// ChatResponse represents the standard answer sent back to the frontend
type ChatResponse struct {
	Response   string   `json:"response"`   // The assistant's answer
	Query      string   `json:"query"`      // The original user question
	References []string `json:"references"` // Deduplicated source document names, first-seen order
	UserID     string   `json:"userId"`
}

// DevChatResponse is the diagnostic answer payload returned when
// developer_details is requested
type DevChatResponse struct {
	Answer          string           `json:"answer"`
	Query           string           `json:"query"`
	StandaloneQuery string           `json:"stand_alone_query"`
	Docs            []*DocumentChunk `json:"docs"`
	ConfidenceScore float64          `json:"confidence_score"`
	ResponseScore   float64          `json:"response_score"`
	TokenUsage      int              `json:"token_usage"`
}

// StreamRequest carries a pre-built context for the streaming endpoint
type StreamRequest struct {
	UserID  string `json:"userId"`
	Context string `json:"context"` // Grounding context assembled by /build_context
	Query   string `json:"query"`
}

// BuildContextRequest represents a context-inspection request
type BuildContextRequest struct {
	Query  string     `json:"query"`
	Chats  []ChatTurn `json:"chats"`
	Tools  []string   `json:"tools,omitempty"` // Retrieval filter tools to apply, by name
	UserID string     `json:"userId"`
}

// BuildContextResponse returns the retrieval state without generation
type BuildContextResponse struct {
	Query           string            `json:"query"`
	StandaloneQuery string            `json:"stand_alone_query"`
	Docs            []*DocumentChunk  `json:"docs"`
	References      map[string]string `json:"references"` // Source basename -> concatenated chunk content
	Context         string            `json:"context"`
	Keywords        []string          `json:"keywords,omitempty"` // Ranked keywords of the standalone query
	UserID          string            `json:"userId"`
}

// EvaluateResponseRequest asks for a round-trip similarity score of an answer
type EvaluateResponseRequest struct {
	StandaloneQuery string `json:"stand_alone_query"`
	Answer          string `json:"answer"`
	UserID          string `json:"userId"`
}

// EvaluateResponseResponse carries the reconstructed queries and their mean
// embedding similarity against the original query
type EvaluateResponseResponse struct {
	SimilarQueries []string `json:"similar_queries"`
	ResponseScore  float64  `json:"response_score"` // Mean cosine similarity, in [-1, 1]
	UserID         string   `json:"userId"`
}
