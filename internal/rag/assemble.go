package rag

import (
	"strings"

	"github.com/sibyl0/sibyl/internal/knowledge"
)

// AssembleContext concatenates passage contents in the given order,
// separated by a blank line. Pure and deterministic; an empty input yields
// an empty string.
func AssembleContext(passages []knowledge.Result) string {
	if len(passages) == 0 {
		return ""
	}

	contents := make([]string, len(passages))
	for i, p := range passages {
		contents[i] = p.Content
	}
	return strings.Join(contents, "\n\n")
}
