// Package model defines the core domain types shared across the application.
package model

import "time"

// CorrespondentCategory groups correspondents by the nature of the sender.
type CorrespondentCategory string

const (
	// CategoryGovernment marks public authorities and agencies.
	CategoryGovernment CorrespondentCategory = "government"
	// CategoryInsurance marks insurance providers.
	CategoryInsurance CorrespondentCategory = "insurance"
	// CategoryFinancial marks banks and financial institutions.
	CategoryFinancial CorrespondentCategory = "financial"
	// CategoryHealth marks healthcare providers.
	CategoryHealth CorrespondentCategory = "health"
	// CategoryCommercial marks companies and shops.
	CategoryCommercial CorrespondentCategory = "commercial"
	// CategoryTechnical marks technical service providers.
	CategoryTechnical CorrespondentCategory = "technical"
)

// StorageCategory is the top-level bucket a document is filed under.
type StorageCategory string

const (
	// StorageLegalObligations holds documents with legal follow-up duties.
	StorageLegalObligations StorageCategory = "legal-obligations"
	// StorageFinancialTracking holds invoices, statements and receipts.
	StorageFinancialTracking StorageCategory = "financial-tracking"
	// StorageReferenceDocuments holds everything kept for reference only.
	StorageReferenceDocuments StorageCategory = "reference-documents"
)

// Valid reports whether the category is one of the three known buckets.
func (c StorageCategory) Valid() bool {
	switch c {
	case StorageLegalObligations, StorageFinancialTracking, StorageReferenceDocuments:
		return true
	}
	return false
}

// ObligationType describes what the document requires of the owner.
type ObligationType string

const (
	// ObligationActionRequired means the document demands a response or action.
	ObligationActionRequired ObligationType = "action-required"
	// ObligationPayment means the document demands a payment.
	ObligationPayment ObligationType = "payment"
	// ObligationInformational means the document is informational only.
	ObligationInformational ObligationType = "informational"
)

// RiskLevel grades the consequence of ignoring the document.
type RiskLevel string

const (
	// RiskHigh marks documents with legal or financial consequences.
	RiskHigh RiskLevel = "high"
	// RiskMedium marks documents worth tracking.
	RiskMedium RiskLevel = "medium"
	// RiskLow marks documents safe to archive and forget.
	RiskLow RiskLevel = "low"
)

// ClassificationRecord is the output of the AI classification step and the
// input to entity reconciliation. It is immutable once produced.
type ClassificationRecord struct {
	ClassifiedAt           time.Time             `json:"classified_at"`
	CorrespondentName      string                `json:"correspondent_name,omitempty"`
	CorrespondentCategory  CorrespondentCategory `json:"correspondent_category,omitempty"`
	DocumentTypeName       string                `json:"document_type_name,omitempty"`
	ObligationType         ObligationType        `json:"obligation_type,omitempty"`
	RiskLevel              RiskLevel             `json:"risk_level,omitempty"`
	StorageCategory        StorageCategory       `json:"storage_category,omitempty"`
	Summary                string                `json:"summary,omitempty"`
	SuggestedTags          []string              `json:"suggested_tags,omitempty"`
	DocumentID             int                   `json:"document_id"`
	DocumentTypeConfidence float64               `json:"document_type_confidence,omitempty"`
	Confidence             float64               `json:"confidence,omitempty"`
}
