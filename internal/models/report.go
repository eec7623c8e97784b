package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Eligibility statuses returned by the analysis.
const (
	StatusEligible    = "eligible"
	StatusConditional = "conditional"
	StatusNotEligible = "not-eligible"
)

// GapAnalysisItem compares one tender criterion against the company profile.
type GapAnalysisItem struct {
	Criteria    string `json:"criteria"`
	TenderAsk   string `json:"tender_ask"`
	YourProfile string `json:"your_profile"`
	Status      string `json:"status"` // pass, fail, warning
}

// PenaltyClause describes a risk or penalty clause found in the tender.
type PenaltyClause struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"` // high, medium, low
}

// MissingDocument is a document the tender requires that the profile lacks.
type MissingDocument struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

type GapAnalysisList []GapAnalysisItem
type PenaltyClauseList []PenaltyClause
type MissingDocumentList []MissingDocument

// AnalysisReport is the structured result the inference provider must return.
// It is immutable once validated.
type AnalysisReport struct {
	TenderID         string              `json:"tender_id"`
	EligibilityScore float64             `json:"eligibility_score"`
	Status           string              `json:"status"`
	Summary          string              `json:"summary"`
	GapAnalysis      GapAnalysisList     `json:"gap_analysis"`
	PenaltyClauses   PenaltyClauseList   `json:"penalty_clauses"`
	MissingDocuments MissingDocumentList `json:"missing_documents"`
}

// TenderReport is the persisted record of one successful analysis.
type TenderReport struct {
	ID               uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           string              `gorm:"type:uuid;not null;index" json:"user_id"`
	TenderID         string              `gorm:"type:text" json:"tender_id"`
	EligibilityScore float64             `gorm:"type:decimal(5,2)" json:"eligibility_score"`
	Status           string              `gorm:"type:text;not null" json:"status"`
	Summary          string              `gorm:"type:text" json:"summary"`
	GapAnalysis      GapAnalysisList     `gorm:"type:jsonb" json:"gap_analysis"`
	PenaltyClauses   PenaltyClauseList   `gorm:"type:jsonb" json:"penalty_clauses"`
	MissingDocuments MissingDocumentList `gorm:"type:jsonb" json:"missing_documents"`
	CreatedAt        time.Time           `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (TenderReport) TableName() string {
	return "tender_reports"
}

// NewTenderReport binds a validated AnalysisReport to the caller identity.
func NewTenderReport(userID string, report *AnalysisReport) *TenderReport {
	return &TenderReport{
		ID:               uuid.New(),
		UserID:           userID,
		TenderID:         report.TenderID,
		EligibilityScore: report.EligibilityScore,
		Status:           report.Status,
		Summary:          report.Summary,
		GapAnalysis:      report.GapAnalysis,
		PenaltyClauses:   report.PenaltyClauses,
		MissingDocuments: report.MissingDocuments,
		CreatedAt:        time.Now(),
	}
}

func (l GapAnalysisList) Value() (driver.Value, error)     { return jsonValue(l) }
func (l *GapAnalysisList) Scan(src interface{}) error      { return jsonScan(src, l) }
func (l PenaltyClauseList) Value() (driver.Value, error)   { return jsonValue(l) }
func (l *PenaltyClauseList) Scan(src interface{}) error    { return jsonScan(src, l) }
func (l MissingDocumentList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *MissingDocumentList) Scan(src interface{}) error  { return jsonScan(src, l) }

func jsonValue(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb column: %w", err)
	}
	return string(data), nil
}

func jsonScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}

	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}

	return json.Unmarshal(data, dst)
}
