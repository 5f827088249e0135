package model

import "time"

// AuditAction is the outcome recorded for one entity kind.
type AuditAction string

const (
	// ActionMatched means an existing entity was reused.
	ActionMatched AuditAction = "matched-existing"
	// ActionCreated means a new entity was created.
	ActionCreated AuditAction = "created"
	// ActionSkipped means a safeguard suppressed the kind.
	ActionSkipped AuditAction = "skipped"
	// ActionFailed means the store call for this kind failed.
	ActionFailed AuditAction = "failed"
)

// AuditEntry records what happened for one entity kind during a session.
type AuditEntry struct {
	Kind     EntityKind  `json:"kind"`
	Action   AuditAction `json:"action"`
	Name     string      `json:"name,omitempty"`
	Reason   string      `json:"reason,omitempty"`
	EntityID int         `json:"entity_id,omitempty"`
}

// ReconciliationResult is the immutable outcome of one session. A nil entry
// in the id fields means the kind was skipped or failed; the audit trail
// carries the reason. Failed reports per-kind recoverable faults;
// Unexpected is set only for faults outside the known taxonomy.
type ReconciliationResult struct {
	FinishedAt      time.Time    `json:"finished_at"`
	SessionID       string       `json:"session_id"`
	StoragePathID   *int         `json:"storage_path_id,omitempty"`
	CorrespondentID *int         `json:"correspondent_id,omitempty"`
	DocumentTypeID  *int         `json:"document_type_id,omitempty"`
	TagIDs          []int        `json:"tag_ids,omitempty"`
	Audit           []AuditEntry `json:"audit"`
	FailedKinds     []EntityKind `json:"failed_kinds,omitempty"`
	DocumentID      int          `json:"document_id"`
	Unexpected      bool         `json:"unexpected,omitempty"`
}

// EntryFor returns the audit entry for a kind, or nil if the kind was not
// attempted.
func (r *ReconciliationResult) EntryFor(kind EntityKind) *AuditEntry {
	for i := range r.Audit {
		if r.Audit[i].Kind == kind {
			return &r.Audit[i]
		}
	}
	return nil
}

// Partial reports whether at least one kind failed while others completed.
func (r *ReconciliationResult) Partial() bool {
	return len(r.FailedKinds) > 0 && len(r.FailedKinds) < len(r.Audit)
}
