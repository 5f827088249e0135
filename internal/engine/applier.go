package engine

import (
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

// buildUpdate assembles the document patch from a session result. Nil ids
// are left out so a skipped or failed kind never clears existing metadata.
func buildUpdate(record *model.ClassificationRecord, result *model.ReconciliationResult, fields CustomFieldIDs) model.DocumentUpdate {
	update := model.DocumentUpdate{
		CorrespondentID: result.CorrespondentID,
		DocumentTypeID:  result.DocumentTypeID,
		StoragePathID:   result.StoragePathID,
		Tags:            result.TagIDs,
	}

	if fields.ObligationType > 0 && record.ObligationType != "" {
		update.CustomFields = append(update.CustomFields, model.CustomField{
			Field: fields.ObligationType,
			Value: string(record.ObligationType),
		})
	}
	if fields.RiskLevel > 0 && record.RiskLevel != "" {
		update.CustomFields = append(update.CustomFields, model.CustomField{
			Field: fields.RiskLevel,
			Value: string(record.RiskLevel),
		})
	}
	return update
}

func updateEmpty(u model.DocumentUpdate) bool {
	return u.CorrespondentID == nil && u.DocumentTypeID == nil && u.StoragePathID == nil &&
		len(u.Tags) == 0 && len(u.CustomFields) == 0
}
