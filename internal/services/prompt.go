package services

import (
	"regexp"
	"strings"
)

// placeholderPattern matches {name} placeholders in a template
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// MissingVariableError indicates a template placeholder had no binding at
// render time. Always a programming error, never retried.
type MissingVariableError struct {
	Variable string
}

func (e *MissingVariableError) Error() string {
	return "missing template variable: " + e.Variable
}

// PromptTemplate holds a parameterized text template with named {placeholder}
// variables. Rendering is a pure function of template plus bindings.
type PromptTemplate struct {
	template       string
	inputVariables []string
}

// NewPromptTemplate creates a template with its declared variable names
func NewPromptTemplate(template string, inputVariables []string) *PromptTemplate {
	return &PromptTemplate{
		template:       template,
		inputVariables: inputVariables,
	}
}

// InputVariables returns the declared variable names
func (t *PromptTemplate) InputVariables() []string {
	return t.inputVariables
}

// Render substitutes every placeholder with its binding. It fails with
// MissingVariableError when a declared variable or a placeholder in the
// template has no binding.
func (t *PromptTemplate) Render(vars map[string]string) (string, error) {
	for _, name := range t.inputVariables {
		if _, ok := vars[name]; !ok {
			return "", &MissingVariableError{Variable: name}
		}
	}

	var missing string
	rendered := placeholderPattern.ReplaceAllStringFunc(t.template, func(match string) string {
		name := strings.Trim(match, "{}")
		value, ok := vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		return value
	})
	if missing != "" {
		return "", &MissingVariableError{Variable: missing}
	}

	return rendered, nil
}

// DefaultChatTemplate rewrites a question against its chat history into a
// standalone form
var DefaultChatTemplate = NewPromptTemplate(
	"Given a chat history and the latest user question "+
		"which might reference context in the chat history, "+
		"formulate a standalone question which can be understood "+
		"without the chat history. Do NOT answer the question, just "+
		"reformulate it if needed and otherwise return it as is. Chat history:\n"+
		"{chat_history}\n"+
		"Stand-alone query: {query}",
	[]string{"chat_history", "query"},
)

// CannotAnswerSentinel is the fixed phrase the grounding instructions demand
// when no answer can be derived from context. Matching it is a content
// convention, not an error signal.
const CannotAnswerSentinel = "Sorry could not generate an answer. Please rephrase the question and ask again."

// DefaultSystemTemplate constrains generation to the supplied context
var DefaultSystemTemplate = NewPromptTemplate(
	"You are an AI assistant. You are given a context and your knowledge is only limited to that context. "+
		"Whenever you are asked a question, you should answer that question based on the context. "+
		"If you are not able to generate the answer based on the context, you must always response this exact phrase: "+
		"'"+CannotAnswerSentinel+"'"+
		"\n----------------\n"+
		"Context: {context}",
	[]string{"context"},
)
