package insight

import (
	"fmt"
	"log"
	"strings"
)

// NoInsightsError means the response parsed but zero insights survived
// validation. An empty insight list is never a valid success.
type NoInsightsError struct {
	Preview string
}

func (e *NoInsightsError) Error() string {
	return fmt.Sprintf("no valid insights in model response (response starts with: %s)", e.Preview)
}

var validTypes = map[InsightType]struct{}{
	TypeProblem:     {},
	TypeObservation: {},
	TypeOpportunity: {},
}

// ParseInsights extracts and validates the insight list from raw model
// output. Individual malformed entries are skipped with a logged reason;
// a missing "insights" field or an empty surviving list is fatal.
func ParseInsights(raw string) ([]Insight, error) {
	obj, err := ExtractObject(raw)
	if err != nil {
		return nil, err
	}

	entries, ok := obj["insights"].([]interface{})
	if !ok {
		return nil, &UnparseableResponseError{
			Reason:  `response has no "insights" array`,
			Preview: Preview(raw),
		}
	}

	var insights []Insight
	for i, entry := range entries {
		item, ok := entry.(map[string]interface{})
		if !ok {
			log.Printf("[Insights] skipping entry %d: not an object", i)
			continue
		}

		t := InsightType(strings.ToLower(stringField(item, "type", "")))
		if _, known := validTypes[t]; !known {
			log.Printf("[Insights] entry %d has unknown type %q, defaulting to observation", i, t)
			t = TypeObservation
		}

		insights = append(insights, Insight{
			Type:            t,
			Title:           stringField(item, "title", ""),
			Explanation:     stringField(item, "explanation", ""),
			Recommendation:  stringField(item, "recommendation", ""),
			PotentialImpact: stringField(item, "potential_impact", ""),
		})
	}

	if len(insights) == 0 {
		return nil, &NoInsightsError{Preview: Preview(raw)}
	}
	return insights, nil
}

func stringField(m map[string]interface{}, key, fallback string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return fallback
}
