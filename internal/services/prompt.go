package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAuditorInstruction creates the fixed system instruction for tender
// eligibility analysis. The provider must return bare JSON, nothing else.
func (pb *PromptBuilder) BuildAuditorInstruction() string {
	return `You are a strict government-tender compliance auditor. You compare a company's profile against the attached tender documents and decide eligibility.

Rules:
- Base every finding on the attached tender documents. Do not invent requirements.
- Mark a criterion "fail" only when the profile clearly does not meet it, "warning" when the documents are ambiguous or the profile is silent.
- eligibility_score is an integer-valued number from 0 to 100.
- status is exactly one of: "eligible", "conditional", "not-eligible".
- Return ONLY a JSON object matching the requested schema. No prose, no markdown, no code fences.`
}

// BuildAnalysisPrompt creates the per-request prompt from the caller's
// profile and optional retrieved guideline context.
func (pb *PromptBuilder) BuildAnalysisPrompt(profileText, guidelineContext string) string {
	var sb strings.Builder

	sb.WriteString("COMPANY PROFILE:\n")
	sb.WriteString(strings.TrimSpace(profileText))
	sb.WriteString("\n\n")

	if guidelineContext != "" {
		sb.WriteString("RELEVANT PROCUREMENT GUIDELINES:\n")
		sb.WriteString(guidelineContext)
		sb.WriteString("\n\n")
	}

	sb.WriteString(`Analyze the attached tender documents against the company profile above.

Return your response in the following JSON format:
{
  "tender_id": "<tender reference number or title from the documents>",
  "eligibility_score": <0-100>,
  "status": "<eligible|conditional|not-eligible>",
  "summary": "<3-5 sentence executive summary of eligibility>",
  "gap_analysis": [
    {"criteria": "<eligibility criterion>", "tender_ask": "<what the tender requires>", "your_profile": "<what the company has>", "status": "<pass|fail|warning>"}
  ],
  "penalty_clauses": [
    {"title": "<clause name>", "description": "<what it imposes>", "severity": "<high|medium|low>"}
  ],
  "missing_documents": [
    {"name": "<document name>", "required": <true|false>}
  ]
}

Be exhaustive in gap_analysis: cover turnover, net worth, registrations, certifications, experience and solvency requirements found in the documents.`)

	return sb.String()
}

// BuildRetrievalQuery creates the query text for guideline-context retrieval.
func (pb *PromptBuilder) BuildRetrievalQuery(profileText string) string {
	return fmt.Sprintf("Tender eligibility criteria, compliance requirements and penalty clauses relevant to: %s", profileText)
}

// FormatGuidelineContext flattens retrieval hits into prompt context.
func FormatGuidelineContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Guideline %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
