package processing

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>\s*`)
	fenceOpenRe  = regexp.MustCompile("(?i)```(?:json)?\\s*")
)

// CleanModelOutput strips the reasoning blocks and markdown fences that
// chat-tuned models wrap around JSON payloads.
func CleanModelOutput(raw string) string {
	out := thinkBlockRe.ReplaceAllString(raw, "")
	out = fenceOpenRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// ExtractJSON locates the outermost JSON object or array in cleaned
// model output. Models often preface the payload with prose, so the
// whole text is not required to be JSON; when both an object and an
// array span exist, the one that starts first wins because it encloses
// or precedes the other at top level.
func ExtractJSON(cleaned string) (string, error) {
	objStart := strings.Index(cleaned, "{")
	objEnd := strings.LastIndex(cleaned, "}")
	arrStart := strings.Index(cleaned, "[")
	arrEnd := strings.LastIndex(cleaned, "]")

	objOK := objStart >= 0 && objEnd > objStart
	arrOK := arrStart >= 0 && arrEnd > arrStart

	switch {
	case objOK && (!arrOK || objStart < arrStart):
		return cleaned[objStart : objEnd+1], nil
	case arrOK:
		return cleaned[arrStart : arrEnd+1], nil
	default:
		return "", fmt.Errorf("no JSON object or array found in model output")
	}
}

// Balanced reports whether braces and brackets pair up in the candidate
// payload, counting only delimiters outside string literals. An
// imbalance is the cheap tell that the model ran out of output tokens
// mid-document; the caller retries with a larger budget instead of
// handing a truncated payload to the JSON decoder.
func Balanced(candidate string) bool {
	var braces, brackets int
	inString := false
	escaped := false
	for _, r := range candidate {
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				braces++
			}
		case '}':
			if !inString {
				braces--
			}
		case '[':
			if !inString {
				brackets++
			}
		case ']':
			if !inString {
				brackets--
			}
		}
	}
	return !inString && braces == 0 && brackets == 0
}
