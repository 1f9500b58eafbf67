package openai

import "strings"

// stripCodeFences removes a surrounding markdown code fence from an LLM
// response, if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// repairJSON attempts to fix common JSON formatting issues from LLM
// responses: trailing commas before a closing bracket and unquoted object
// keys. It never touches the inside of string literals.
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)

	inString := false
	escaped := false
	for i := 0; i < len(in); i++ {
		ch := in[i]

		if inString {
			out = append(out, ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch {
		case ch == '"':
			inString = true
			out = append(out, ch)

		case ch == ',':
			// Drop the comma if the next non-whitespace rune closes a scope.
			j := i + 1
			for j < len(in) && (in[j] == ' ' || in[j] == '\n' || in[j] == '\t' || in[j] == '\r') {
				j++
			}
			if j < len(in) && (in[j] == '}' || in[j] == ']') {
				continue
			}
			out = append(out, ch)

		case isKeyStart(ch) && followsKeyPosition(out):
			// Unquoted key: wrap it in quotes up to the next colon.
			keyEnd := i
			for keyEnd < len(in) && in[keyEnd] != ':' && in[keyEnd] != '"' {
				keyEnd++
			}
			if keyEnd < len(in) && in[keyEnd] == ':' {
				key := strings.TrimSpace(string(in[i:keyEnd]))
				out = append(out, '"')
				out = append(out, []rune(key)...)
				out = append(out, '"')
				i = keyEnd - 1
			} else {
				out = append(out, ch)
			}

		default:
			out = append(out, ch)
		}
	}

	return string(out)
}

// isKeyStart reports whether a rune can start a JSON object key.
func isKeyStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

// followsKeyPosition reports whether the output so far ends at a position
// where an object key is expected ({ or , with optional whitespace).
func followsKeyPosition(out []rune) bool {
	for i := len(out) - 1; i >= 0; i-- {
		switch out[i] {
		case ' ', '\n', '\t', '\r':
			continue
		case '{', ',':
			return true
		default:
			return false
		}
	}
	return false
}
