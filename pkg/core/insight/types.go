// Package insight recovers structured insights from untrusted LLM output.
// Models break JSON in predictable ways: prose around the object, markdown
// fences, single quotes, trailing commas, Python literals. The repair chain
// here tries progressively more aggressive recoveries before giving up.
package insight

// InsightType tags an insight for presentation.
type InsightType string

const (
	TypeProblem     InsightType = "problem"
	TypeObservation InsightType = "observation"
	TypeOpportunity InsightType = "opportunity"
)

// Insight is one interpretation produced by the model. Never synthesized
// locally: an Insight only exists if the model emitted it and it survived
// validation.
type Insight struct {
	Type            InsightType `json:"type"`
	Title           string      `json:"title"`
	Explanation     string      `json:"explanation"`
	Recommendation  string      `json:"recommendation"`
	PotentialImpact string      `json:"potential_impact,omitempty"`
}
