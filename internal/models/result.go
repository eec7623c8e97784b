package models

import "time"

type AnalyzeResponse struct {
	ReportID string          `json:"report_id"`
	Report   *AnalysisReport `json:"report"`
}

type ReportSummary struct {
	ID               string    `json:"id"`
	TenderID         string    `json:"tender_id"`
	EligibilityScore float64   `json:"eligibility_score"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type ListReportsResponse struct {
	Reports []ReportSummary `json:"reports"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
