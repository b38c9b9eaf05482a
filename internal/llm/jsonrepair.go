package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shiralev/matkonim/internal/apperr"
)

var (
	fencedBlockRe   = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")
	objectSpanRe    = regexp.MustCompile(`(?s)(\{.*\})`)
	lineCommentRe   = regexp.MustCompile(`//[^\n]*`)
	trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)
	controlCharsRe  = regexp.MustCompile("[\n\r\t]")
)

// Decode unmarshals model output into v, repairing the almost-JSON the model
// tends to emit: a fenced ```json block, prose around the object, // comments,
// trailing commas, and stray control characters inside strings.
func Decode(text string, v any) error {
	raw := extractJSON(text)
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	// Repair pass. The comment strip is line-based and would truncate "//"
	// inside string values (URLs), so it must never touch output that already
	// parses.
	repaired := lineCommentRe.ReplaceAllString(raw, "")
	repaired = trailingCommaRe.ReplaceAllString(repaired, "$1")
	if err := json.Unmarshal([]byte(repaired), v); err == nil {
		return nil
	}
	// More aggressive retry: drop raw control characters.
	if err := json.Unmarshal([]byte(controlCharsRe.ReplaceAllString(repaired, "")), v); err != nil {
		return fmt.Errorf("llm: decode model output: %w: %w", apperr.ErrParse, err)
	}
	return nil
}

// extractJSON isolates the JSON object inside the response text: a fenced
// block first, then the outermost {...} span, then the whole text as-is.
func extractJSON(text string) string {
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := objectSpanRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}
