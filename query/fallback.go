package query

import (
	"fmt"
	"strings"

	"github.com/poiesic/paperscope/core"
)

// heuristicAnswer produces the deterministic fallback answer used when no
// synthesizer is configured or the synthesis call fails. It is built purely
// from retrieved data and never fails.
func heuristicAnswer(question string, sources []core.SourceChunk, path []Step) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Found %d relevant paper(s) for: %s\n\n", len(path), question)

	for i, step := range path {
		if i == 0 {
			fmt.Fprintf(&sb, "Start with %q, the most relevant match.\n", step.Title)
			continue
		}
		if step.Linked {
			fmt.Fprintf(&sb, "%q connects to the papers above through: %s.\n",
				step.Title, strings.Join(step.Concepts, ", "))
		} else {
			fmt.Fprintf(&sb, "%q is also relevant but shares no extracted concept with the papers above.\n",
				step.Title)
		}
	}

	if len(sources) > 0 {
		sb.WriteString("\nMost relevant passage")
		fmt.Fprintf(&sb, " (from %q):\n%s\n", sources[0].Title, shortExcerpt(sources[0].Text))
	}

	return sb.String()
}

// shortExcerpt keeps the quoted passage in the fallback answer compact.
func shortExcerpt(text string) string {
	const limit = 400
	if len(text) <= limit {
		return text
	}
	return core.TruncateText(text, limit) + "..."
}
