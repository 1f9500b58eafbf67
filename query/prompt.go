package query

import (
	"fmt"
	"strings"

	"github.com/poiesic/paperscope/core"
)

// excerptLimit caps how much of each source chunk is quoted in the prompt
// so the synthesis request stays bounded regardless of chunk size.
const excerptLimit = 1200

// buildPrompt assembles the synthesis prompt: the question, the ordered
// retrieved sources, and the traversal narrative connecting the papers.
func buildPrompt(question string, sources []core.SourceChunk, path []Step) string {
	var sb strings.Builder

	sb.WriteString("Question:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nRetrieved sources (most relevant first):\n")

	for i, source := range sources {
		fmt.Fprintf(&sb, "\n[%d] %s (chunk %s, score %.3f)\n", i+1, source.Title, source.ChunkID, source.Score)
		sb.WriteString(excerpt(source.Text))
		sb.WriteString("\n")
	}

	sb.WriteString("\nHow the papers connect:\n")
	sb.WriteString(narrative(path))
	sb.WriteString("\n\nAnswer the question using only the sources above. ")
	sb.WriteString("Cite papers by title and mention the shared concepts that link them where relevant.")

	return sb.String()
}

// narrative renders the traversal path as a single readable line,
// e.g. "Paper A" -> (concept x) -> "Paper B" -> (no direct link) -> "Paper C".
func narrative(path []Step) string {
	if len(path) == 0 {
		return "(no papers)"
	}

	var sb strings.Builder
	for i, step := range path {
		if i > 0 {
			if step.Linked {
				fmt.Fprintf(&sb, " -> (%s) -> ", strings.Join(step.Concepts, ", "))
			} else {
				sb.WriteString(" -> (no direct link) -> ")
			}
		}
		fmt.Fprintf(&sb, "%q", step.Title)
	}
	return sb.String()
}

func excerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	return core.TruncateText(text, excerptLimit) + "..."
}
