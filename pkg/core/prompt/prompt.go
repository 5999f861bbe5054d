// Package prompt assembles the payload sent to the model: a system
// instruction, a markdown rendering of the cleaned table, and the
// machine-readable metrics snapshot. The model interprets; it never computes.
package prompt

import (
	"bytes"
	"text/template"
)

// SystemPrompt defines the model's role and the output contract.
const SystemPrompt = `You are an experienced financial advisor for small businesses. You receive a profit-and-loss table and a set of pre-computed metrics. Every metric is already calculated; do not perform any arithmetic yourself, and never invent numbers that are not in the data provided.

Identify the most decision-relevant findings: concrete problems, notable observations, and realistic opportunities. Be specific and practical; the reader runs a small business, not a finance department.

Respond with ONLY a JSON object in exactly this shape, no prose and no markdown fences:
{"insights": [{"type": "problem|observation|opportunity", "title": "...", "explanation": "...", "recommendation": "...", "potential_impact": "..."}]}

Rules:
1. "type" must be one of: problem, observation, opportunity.
2. 3 to 6 insights, most important first.
3. "potential_impact" is optional; include it only when you can tie it to a provided figure.`

var analysisTmpl = template.Must(template.New("analysis").Parse(`Below is a monthly profit-and-loss statement and metrics computed from it.

## P&L table
{{.TableMarkdown}}

## Computed metrics
{{.MetricsJSON}}

## Business context
{{.BusinessContext}}

Analyze the data and return your insights as the JSON object described in the system instructions.`))

// Input carries the pieces embedded into the analysis prompt.
type Input struct {
	TableMarkdown   string
	MetricsJSON     string
	BusinessContext string
}

// BuildAnalysisPrompt renders the user prompt for one analysis run.
func BuildAnalysisPrompt(in Input) (string, error) {
	if in.BusinessContext == "" {
		in.BusinessContext = "Not provided"
	}
	var buf bytes.Buffer
	if err := analysisTmpl.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}
