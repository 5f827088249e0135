package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pigeonhole-ngx/pigeonhole/internal/common"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

// SaveRun persists one reconciliation result together with the record that
// produced it. The run and its audit entries commit atomically.
func (s *SQLiteStorage) SaveRun(ctx context.Context, record *model.ClassificationRecord, result *model.ReconciliationResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("%w: result", ErrNilParameter)
	}
	if err := validateString(result.SessionID, "result.SessionID"); err != nil {
		return err
	}

	tagIDs, err := json.Marshal(result.TagIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal tag ids: %w", err)
	}
	var recordJSON []byte
	if record != nil {
		recordJSON, err = json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (session_id, document_id, finished_at, storage_path_id,
			correspondent_id, document_type_id, tag_ids, unexpected, record)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.SessionID, result.DocumentID, result.FinishedAt,
		nullableID(result.StoragePathID), nullableID(result.CorrespondentID),
		nullableID(result.DocumentTypeID), string(tagIDs), result.Unexpected, recordJSON)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, entry := range result.Audit {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO audit_entries (session_id, position, kind, action, name, reason, entity_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.SessionID, i, string(entry.Kind), string(entry.Action),
			entry.Name, entry.Reason, entry.EntityID)
		if err != nil {
			return fmt.Errorf("failed to insert audit entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun loads one run with its audit trail.
func (s *SQLiteStorage) GetRun(ctx context.Context, sessionID string) (*model.ReconciliationResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, document_id, finished_at, storage_path_id,
			correspondent_id, document_type_id, tag_ids, unexpected
		FROM runs WHERE session_id = ?`, sessionID)

	result, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", common.ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadAudit(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.ReconciliationResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, document_id, finished_at, storage_path_id,
			correspondent_id, document_type_id, tag_ids, unexpected
		FROM runs ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.ReconciliationResult
	for rows.Next() {
		result, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	for i := range results {
		if err := s.loadAudit(ctx, &results[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// IsProcessed reports whether a document has already been reconciled.
func (s *SQLiteStorage) IsProcessed(ctx context.Context, documentID int) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM processed_documents WHERE document_id = ?", documentID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check processed document: %w", err)
	}
	return count > 0, nil
}

// MarkProcessed records a document as reconciled. Re-marking an already
// processed document updates the owning session.
func (s *SQLiteStorage) MarkProcessed(ctx context.Context, documentID int, sessionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_documents (document_id, session_id)
		VALUES (?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			session_id = excluded.session_id,
			processed_at = CURRENT_TIMESTAMP`,
		documentID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to mark document processed: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.ReconciliationResult, error) {
	var result model.ReconciliationResult
	var storagePathID, correspondentID, documentTypeID sql.NullInt64
	var tagIDs sql.NullString

	err := row.Scan(&result.SessionID, &result.DocumentID, &result.FinishedAt,
		&storagePathID, &correspondentID, &documentTypeID, &tagIDs, &result.Unexpected)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	result.StoragePathID = fromNullable(storagePathID)
	result.CorrespondentID = fromNullable(correspondentID)
	result.DocumentTypeID = fromNullable(documentTypeID)
	if tagIDs.Valid && tagIDs.String != "" {
		if err := json.Unmarshal([]byte(tagIDs.String), &result.TagIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tag ids: %w", err)
		}
	}
	return &result, nil
}

func (s *SQLiteStorage) loadAudit(ctx context.Context, result *model.ReconciliationResult) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, action, name, reason, entity_id
		FROM audit_entries WHERE session_id = ? ORDER BY position`, result.SessionID)
	if err != nil {
		return fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var entry model.AuditEntry
		var kind, action string
		if err := rows.Scan(&kind, &action, &entry.Name, &entry.Reason, &entry.EntityID); err != nil {
			return fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.Kind = model.EntityKind(kind)
		entry.Action = model.AuditAction(action)
		result.Audit = append(result.Audit, entry)
		if entry.Action == model.ActionFailed {
			result.FailedKinds = append(result.FailedKinds, entry.Kind)
		}
	}
	return rows.Err()
}

func nullableID(id *int) any {
	if id == nil {
		return nil
	}
	return *id
}

func fromNullable(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	id := int(v.Int64)
	return &id
}
