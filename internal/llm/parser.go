package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pigeonhole-ngx/pigeonhole/internal/common"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

// correspondentConfidenceFloor gates AI-extracted correspondent names; below
// it the name degrades to "Unknown" rather than polluting the catalog.
const correspondentConfidenceFloor = 0.6

// docTypeWords are document kinds models keep mistaking for senders.
var docTypeWords = map[string]bool{
	"invoice":   true,
	"letter":    true,
	"contract":  true,
	"receipt":   true,
	"statement": true,
	"document":  true,
}

type aiResponse struct {
	Correspondent struct {
		Name       string  `json:"name"`
		Category   string  `json:"category"`
		Note       string  `json:"note"`
		Confidence float64 `json:"confidence"`
	} `json:"correspondent"`
	DocumentAnalysis struct {
		Summary    string  `json:"summary"`
		Confidence float64 `json:"confidence"`
	} `json:"document_analysis"`
	DocumentType struct {
		RecommendedName string  `json:"recommended_name"`
		Confidence      float64 `json:"confidence"`
	} `json:"document_type"`
	Tags struct {
		ExistingTagNames []string `json:"existing_tag_names"`
		NewTagsNeeded    []string `json:"new_tags_needed"`
		Confidence       float64  `json:"confidence"`
	} `json:"tags"`
	Lifecycle struct {
		StorageCategory string `json:"storage_category"`
		ObligationType  string `json:"obligation_type"`
		RiskLevel       string `json:"risk_level"`
	} `json:"lifecycle"`
	ProcessingNotes string `json:"processing_notes"`
}

// parseRecord turns a raw completion into a classification record. The
// correspondent name is dropped to "Unknown" when the model is not
// confident in it or returned a document kind instead of a sender.
func parseRecord(content string, documentID int) (*model.ClassificationRecord, error) {
	cleaned := stripFences(content)

	var response aiResponse
	if err := json.Unmarshal([]byte(cleaned), &response); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON response: %v", common.ErrClassificationFailed, err)
	}

	name := strings.TrimSpace(response.Correspondent.Name)
	switch {
	case name == "":
		name = "Unknown"
	case response.Correspondent.Confidence < correspondentConfidenceFloor:
		slog.Warn("Low-confidence correspondent dropped",
			"name", name, "confidence", response.Correspondent.Confidence, "document_id", documentID)
		name = "Unknown"
	case docTypeWords[strings.ToLower(name)]:
		slog.Error("Correspondent is a document type, not a sender",
			"name", name, "document_id", documentID)
		name = "Unknown"
	}

	tags := make([]string, 0, len(response.Tags.ExistingTagNames)+len(response.Tags.NewTagsNeeded))
	tags = append(tags, response.Tags.ExistingTagNames...)
	tags = append(tags, response.Tags.NewTagsNeeded...)

	return &model.ClassificationRecord{
		ClassifiedAt:           time.Now().UTC(),
		CorrespondentName:      name,
		CorrespondentCategory:  model.CorrespondentCategory(response.Correspondent.Category),
		DocumentTypeName:       strings.TrimSpace(response.DocumentType.RecommendedName),
		DocumentTypeConfidence: response.DocumentType.Confidence,
		SuggestedTags:          tags,
		ObligationType:         model.ObligationType(response.Lifecycle.ObligationType),
		RiskLevel:              model.RiskLevel(response.Lifecycle.RiskLevel),
		StorageCategory:        model.StorageCategory(response.Lifecycle.StorageCategory),
		Summary:                response.DocumentAnalysis.Summary,
		Confidence:             response.DocumentAnalysis.Confidence,
		DocumentID:             documentID,
	}, nil
}

// stripFences removes a markdown code fence around a JSON payload. Models
// wrap responses in fences despite instructions not to.
func stripFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
