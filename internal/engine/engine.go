// Package engine orchestrates the classify, reconcile and apply steps for
// documents coming out of the archive's inbox.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pigeonhole-ngx/pigeonhole/internal/common"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
	"github.com/pigeonhole-ngx/pigeonhole/internal/reconcile"
	"github.com/pigeonhole-ngx/pigeonhole/internal/service"
)

// CustomFieldIDs maps classification fields to the archive's custom-field
// ids. A zero id disables that field.
type CustomFieldIDs struct {
	ObligationType int
	RiskLevel      int
}

// Config holds processing engine options.
type Config struct {
	CustomFields CustomFieldIDs
	// DryRun classifies and reconciles but never patches documents.
	DryRun bool
}

// Engine drives one document through classification, entity reconciliation
// and the metadata patch. Run history is optional; with a nil RunStore the
// engine still processes but nothing is persisted locally.
type Engine struct {
	docs       service.DocumentStore
	classifier service.Classifier
	session    *reconcile.Session
	runs       service.RunStore
	cfg        Config
}

// Stats summarizes one inbox pass.
type Stats struct {
	Processed int
	Skipped   int
	Failed    int
}

// New creates a processing engine.
func New(docs service.DocumentStore, classifier service.Classifier, session *reconcile.Session, runs service.RunStore, cfg Config) *Engine {
	return &Engine{
		docs:       docs,
		classifier: classifier,
		session:    session,
		runs:       runs,
		cfg:        cfg,
	}
}

// ProcessDocument runs the full pipeline for one document id. Documents
// already marked processed return ErrAlreadyProcessed untouched.
func (e *Engine) ProcessDocument(ctx context.Context, documentID int) (*model.ReconciliationResult, error) {
	if e.runs != nil {
		processed, err := e.runs.IsProcessed(ctx, documentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check processed state: %w", err)
		}
		if processed {
			return nil, fmt.Errorf("%w: %d", common.ErrAlreadyProcessed, documentID)
		}
	}

	doc, err := e.docs.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %d: %w", documentID, err)
	}
	return e.process(ctx, *doc)
}

// ProcessInbox runs the pipeline over every pending inbox document.
// Failures on one document do not stop the pass; progress is reported
// after each document when the callback is non-nil.
func (e *Engine) ProcessInbox(ctx context.Context, progress func(done, total int)) (Stats, error) {
	docs, err := e.docs.ListInboxDocuments(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list inbox: %w", err)
	}
	slog.Info("Inbox pass started", "pending", len(docs))

	var stats Stats
	for i, doc := range docs {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		if e.runs != nil {
			processed, checkErr := e.runs.IsProcessed(ctx, doc.ID)
			if checkErr != nil {
				return stats, fmt.Errorf("failed to check processed state: %w", checkErr)
			}
			if processed {
				stats.Skipped++
				if progress != nil {
					progress(i+1, len(docs))
				}
				continue
			}
		}

		if _, procErr := e.process(ctx, doc); procErr != nil {
			stats.Failed++
			common.LogError(procErr, "Document processing failed", common.Fields{"document_id": doc.ID})
		} else {
			stats.Processed++
		}
		if progress != nil {
			progress(i+1, len(docs))
		}
	}

	slog.Info("Inbox pass finished",
		"processed", stats.Processed, "skipped", stats.Skipped, "failed", stats.Failed)
	return stats, nil
}

func (e *Engine) process(ctx context.Context, doc model.Document) (*model.ReconciliationResult, error) {
	record, err := e.classifier.Classify(ctx, doc)
	if err != nil {
		return nil, err
	}

	result := e.session.Reconcile(ctx, record)

	var applyErr error
	if !e.cfg.DryRun {
		update := buildUpdate(record, result, e.cfg.CustomFields)
		if !updateEmpty(update) {
			applyErr = e.docs.UpdateDocument(ctx, doc.ID, update)
		}
	}

	if e.runs != nil {
		if err := e.runs.SaveRun(ctx, record, result); err != nil {
			common.LogError(err, "Failed to persist run", common.Fields{"session_id": result.SessionID})
		}
		if applyErr == nil {
			if err := e.runs.MarkProcessed(ctx, doc.ID, result.SessionID); err != nil {
				common.LogError(err, "Failed to mark document processed", common.Fields{"document_id": doc.ID})
			}
		}
	}

	if applyErr != nil {
		return result, fmt.Errorf("failed to update document %d: %w", doc.ID, applyErr)
	}
	return result, nil
}
