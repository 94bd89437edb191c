package services

import (
	"path"
	"strings"

	"grounded-chat/internal/models"
)

// BuildContext formats ranked chunks into a single grounding text block.
// Chunks are rendered in input order: the repository already returns them
// sorted by descending score, and the builder trusts that order rather than
// re-sorting. Keeping the context inside the generation backend's input
// budget is the caller's responsibility (via topK).
func BuildContext(chunks []*models.DocumentChunk) string {
	var sb strings.Builder
	for _, chunk := range chunks {
		sb.WriteString("Document name: ")
		sb.WriteString(chunk.Source)
		sb.WriteString(": ")
		sb.WriteString(chunk.Content)
		sb.WriteString("\n\n\n")
	}
	return strings.Trim(sb.String(), "\n")
}

// normalizeSource reduces a source identifier to its basename, tolerating
// Windows-style separators in indexed paths
func normalizeSource(source string) string {
	return path.Base(strings.ReplaceAll(source, "\\", "/"))
}

// ExtractReferences returns the deduplicated source names of the given
// chunks, normalized to basenames, in first-seen order
func ExtractReferences(chunks []*models.DocumentChunk) []string {
	seen := make(map[string]bool, len(chunks))
	references := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		name := normalizeSource(chunk.Source)
		if seen[name] {
			continue
		}
		seen[name] = true
		references = append(references, name)
	}
	return references
}

// MergeReferences maps each normalized source name to the concatenated
// content of its chunks, for context inspection
func MergeReferences(chunks []*models.DocumentChunk) map[string]string {
	references := make(map[string]string, len(chunks))
	for _, chunk := range chunks {
		name := normalizeSource(chunk.Source)
		references[name] += chunk.Content + "\n\n"
	}
	return references
}
