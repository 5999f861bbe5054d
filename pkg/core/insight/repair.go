package insight

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// PreviewLimit caps how much raw model output travels inside an error.
const PreviewLimit = 500

// UnparseableResponseError means every repair stage failed. It carries a
// truncated preview of the offending text for diagnostics; the full raw
// response never reaches an end user.
type UnparseableResponseError struct {
	Reason  string
	Preview string
}

func (e *UnparseableResponseError) Error() string {
	return fmt.Sprintf("%s (response starts with: %s)", e.Reason, e.Preview)
}

// Preview truncates raw model output for embedding in errors and logs.
func Preview(s string) string {
	if len(s) > PreviewLimit {
		return s[:PreviewLimit] + "..."
	}
	return s
}

var (
	codeBlockRe     = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	// No lookbehind in RE2: capture the neighbouring characters instead so a
	// quote next to an existing double quote or escape is left alone. This
	// keeps contractions inside already-quoted strings intact.
	singleQuoteRe = regexp.MustCompile(`(^|[^"\\])'([^']*)'($|[^"\\])`)
	noneRe        = regexp.MustCompile(`\bNone\b`)
	trueRe        = regexp.MustCompile(`\bTrue\b`)
	falseRe       = regexp.MustCompile(`\bFalse\b`)
)

// ExtractObject pulls a JSON object out of raw model output. Stages, stopping
// at the first success:
//
//  1. the text as-is
//  2. the contents of a fenced code block
//  3. the first top-level brace-delimited substring
//  4. that substring after textual repairs (trailing commas, single quotes,
//     Python literals)
//  5. library repair (json-repair)
//  6. Hjson, the most lenient parser
func ExtractObject(text string) (map[string]interface{}, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &UnparseableResponseError{Reason: "empty response", Preview: ""}
	}

	var candidates []string
	candidates = append(candidates, text)

	if m := codeBlockRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}

	braced, hasBraces := braceSubstring(text)
	if hasBraces {
		candidates = append(candidates, braced, repairText(braced))
	}

	for _, candidate := range candidates {
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
			return obj, nil
		}
	}

	if repaired, err := jsonrepair.RepairJSON(text); err == nil {
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(repaired), &obj); err == nil {
			return obj, nil
		}
	}

	if hasBraces {
		var obj map[string]interface{}
		if err := hjson.Unmarshal([]byte(braced), &obj); err == nil {
			return obj, nil
		}
	}

	return nil, &UnparseableResponseError{
		Reason:  "could not extract a JSON object from the model response",
		Preview: Preview(text),
	}
}

// braceSubstring returns the first top-level {...} span in the text.
func braceSubstring(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// repairText fixes the errors models make most often without changing the
// intended meaning of the payload.
func repairText(s string) string {
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = singleQuoteRe.ReplaceAllString(s, `$1"$2"$3`)
	s = noneRe.ReplaceAllString(s, "null")
	s = trueRe.ReplaceAllString(s, "true")
	s = falseRe.ReplaceAllString(s, "false")
	return s
}
