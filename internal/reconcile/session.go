package reconcile

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

// Session runs the per-kind protocols in a fixed order for one record:
// storage path, correspondent, document type, tags. A fault in one kind is
// recorded and the remaining kinds still run.
type Session struct {
	reconciler *Reconciler
}

// NewSession wraps a Reconciler for whole-record runs.
func NewSession(r *Reconciler) *Session {
	return &Session{reconciler: r}
}

// Reconcile resolves every entity kind for record and always returns a
// result; it never panics across this boundary. Each attempted kind leaves
// exactly one audit entry.
func (s *Session) Reconcile(ctx context.Context, record *model.ClassificationRecord) (result *model.ReconciliationResult) {
	result = &model.ReconciliationResult{
		SessionID: uuid.NewString(),
	}
	defer func() {
		result.FinishedAt = time.Now().UTC()
		if p := recover(); p != nil {
			slog.Error("Unexpected reconciliation fault", "session_id", result.SessionID, "panic", p)
			result.Unexpected = true
		}
	}()

	if record == nil {
		slog.Error("Reconciliation called without a record", "session_id", result.SessionID)
		result.Unexpected = true
		return result
	}
	result.DocumentID = record.DocumentID

	log := slog.With("session_id", result.SessionID, "document_id", record.DocumentID)
	log.Info("Reconciliation started",
		"correspondent", record.CorrespondentName,
		"document_type", record.DocumentTypeName,
		"tags", len(record.SuggestedTags))

	s.run(ctx, record, result, log)

	log.Info("Reconciliation finished",
		"failed_kinds", len(result.FailedKinds),
		"tag_ids", len(result.TagIDs))
	return result
}

func (s *Session) run(ctx context.Context, record *model.ClassificationRecord, result *model.ReconciliationResult, log *slog.Logger) {
	pathEntry := s.reconciler.ResolveStoragePath(ctx, record)
	s.apply(result, pathEntry, &result.StoragePathID, log)

	corrEntry := s.reconciler.ResolveCorrespondent(ctx, record.CorrespondentName)
	s.apply(result, corrEntry, &result.CorrespondentID, log)

	typeEntry := s.reconciler.ResolveDocumentType(ctx, record.DocumentTypeName, record.DocumentTypeConfidence)
	s.apply(result, typeEntry, &result.DocumentTypeID, log)

	// Redundancy checks run against the names the kinds actually
	// resolved to, falling back to the record's own values.
	docType := resolvedName(typeEntry, record.DocumentTypeName)
	correspondent := resolvedName(corrEntry, record.CorrespondentName)
	tagIDs, tagEntry := s.reconciler.ResolveTags(ctx, record.SuggestedTags, docType, correspondent)
	result.TagIDs = tagIDs
	s.apply(result, tagEntry, nil, log)
}

func (s *Session) apply(result *model.ReconciliationResult, entry model.AuditEntry, id **int, log *slog.Logger) {
	result.Audit = append(result.Audit, entry)
	switch entry.Action {
	case model.ActionMatched, model.ActionCreated:
		if id != nil && entry.EntityID != 0 {
			v := entry.EntityID
			*id = &v
		}
	case model.ActionFailed:
		result.FailedKinds = append(result.FailedKinds, entry.Kind)
		log.Warn("Entity kind failed", "kind", entry.Kind, "reason", entry.Reason)
	case model.ActionSkipped:
		log.Debug("Entity kind skipped", "kind", entry.Kind, "reason", entry.Reason)
	}
}

func resolvedName(entry model.AuditEntry, fallback string) string {
	if entry.Action == model.ActionMatched || entry.Action == model.ActionCreated {
		return entry.Name
	}
	return strings.TrimSpace(fallback)
}
