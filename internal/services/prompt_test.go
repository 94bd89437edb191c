package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptTemplate_Render(t *testing.T) {
	template := NewPromptTemplate("Hello {name}, welcome to {place}.", []string{"name", "place"})

	rendered, err := template.Render(map[string]string{
		"name":  "Alice",
		"place": "Paris",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Hello Alice, welcome to Paris.", rendered)
}

func TestPromptTemplate_Render_RepeatedPlaceholder(t *testing.T) {
	template := NewPromptTemplate("{word} and {word} again", []string{"word"})

	rendered, err := template.Render(map[string]string{"word": "echo"})

	assert.NoError(t, err)
	assert.Equal(t, "echo and echo again", rendered)
}

func TestPromptTemplate_Render_MissingDeclaredVariable(t *testing.T) {
	template := NewPromptTemplate("Hello {name}", []string{"name"})

	rendered, err := template.Render(map[string]string{})

	assert.Error(t, err)
	assert.Empty(t, rendered)

	var missing *MissingVariableError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, "name", missing.Variable)
}

func TestPromptTemplate_Render_UndeclaredPlaceholder(t *testing.T) {
	// A placeholder in the template body that was never declared still fails
	// at render time when no binding is supplied
	template := NewPromptTemplate("Hello {name}, from {city}", []string{"name"})

	_, err := template.Render(map[string]string{"name": "Alice"})

	var missing *MissingVariableError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, "city", missing.Variable)
}

func TestPromptTemplate_InputVariables(t *testing.T) {
	template := NewPromptTemplate("{a} {b}", []string{"a", "b"})

	assert.Equal(t, []string{"a", "b"}, template.InputVariables())
}

func TestDefaultChatTemplate(t *testing.T) {
	rendered, err := DefaultChatTemplate.Render(map[string]string{
		"chat_history": "User: hi\nAssistant: hello\n",
		"query":        "what next?",
	})

	assert.NoError(t, err)
	assert.Contains(t, rendered, "formulate a standalone question")
	assert.Contains(t, rendered, "User: hi\nAssistant: hello\n")
	assert.Contains(t, rendered, "Stand-alone query: what next?")
}

func TestDefaultSystemTemplate(t *testing.T) {
	rendered, err := DefaultSystemTemplate.Render(map[string]string{
		"context": "Document name: doc1.pdf: some content",
	})

	assert.NoError(t, err)
	assert.Contains(t, rendered, CannotAnswerSentinel)
	assert.Contains(t, rendered, "Context: Document name: doc1.pdf: some content")
}
