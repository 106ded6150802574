package utils

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	jsonBlockRegex = regexp.MustCompile("(?s)```json\\s*([\\s\\S]*?)\\s*```")
	anyBlockRegex  = regexp.MustCompile("(?s)```\\s*([\\s\\S]*?)\\s*```")
)

func isValidJSON(s string) bool {
	return json.Valid([]byte(s))
}

// ExtractJSONContent pulls a JSON document out of raw model output. Models tend to
// wrap JSON in markdown fences or surround it with prose, so we try progressively
// looser extraction strategies and return the first candidate that parses.
// Returns "" when nothing resembling JSON is found.
func ExtractJSONContent(rawText string) string {
	rawText = strings.TrimSpace(rawText)

	// 1. ```json ... ``` fenced block
	if matches := jsonBlockRegex.FindStringSubmatch(rawText); len(matches) > 1 {
		if candidate := strings.TrimSpace(matches[1]); isValidJSON(candidate) {
			return candidate
		}
	}

	// 2. Any ``` ... ``` fenced block
	if matches := anyBlockRegex.FindStringSubmatch(rawText); len(matches) > 1 {
		if candidate := strings.TrimSpace(matches[1]); isValidJSON(candidate) {
			return candidate
		}
	}

	// 3. Span between the first {/[ and the matching last }/]
	firstBrace := strings.Index(rawText, "{")
	lastBrace := strings.LastIndex(rawText, "}")
	firstBracket := strings.Index(rawText, "[")
	lastBracket := strings.LastIndex(rawText, "]")

	startIdx, endIdx := -1, -1
	if firstBrace != -1 && (firstBracket == -1 || firstBrace < firstBracket) {
		startIdx, endIdx = firstBrace, lastBrace
	} else if firstBracket != -1 {
		startIdx, endIdx = firstBracket, lastBracket
	}

	if startIdx != -1 && endIdx > startIdx {
		if candidate := strings.TrimSpace(rawText[startIdx : endIdx+1]); isValidJSON(candidate) {
			return candidate
		}
	}

	// 4. If the whole thing already parses, take it as is
	if isValidJSON(rawText) {
		return rawText
	}

	return ""
}

// StringShort обрезает строку до указанной максимальной длины,
// добавляя многоточие, если строка была обрезана.
func StringShort(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
