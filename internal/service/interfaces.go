// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

// EntityStore is the document store's entity catalog: list and create per
// kind. The store enforces no uniqueness beyond what this system imposes,
// and any call may fail with a transport or validation fault. No retries
// are performed at this layer.
type EntityStore interface {
	// List returns existing entities of a kind, bounded by the store
	// client's configured page limit. Correctness beyond that bound is
	// not guaranteed.
	List(ctx context.Context, kind model.EntityKind) ([]model.Entity, error)
	// Create adds a new entity and returns it with its store-assigned id.
	Create(ctx context.Context, kind model.EntityKind, payload model.Entity) (*model.Entity, error)
}

// DocumentStore extends the entity catalog with document access for the
// classify-and-apply outer loop.
type DocumentStore interface {
	EntityStore
	GetDocument(ctx context.Context, id int) (*model.Document, error)
	ListInboxDocuments(ctx context.Context) ([]model.Document, error)
	UpdateDocument(ctx context.Context, id int, update model.DocumentUpdate) error
}

// Classifier produces a classification record for a document. The model,
// prompt and transport behind it are opaque to the reconciliation core.
type Classifier interface {
	Classify(ctx context.Context, doc model.Document) (*model.ClassificationRecord, error)
}

// RunStore persists reconciliation runs and tracks processed documents.
type RunStore interface {
	SaveRun(ctx context.Context, record *model.ClassificationRecord, result *model.ReconciliationResult) error
	GetRun(ctx context.Context, sessionID string) (*model.ReconciliationResult, error)
	ListRuns(ctx context.Context, limit int) ([]model.ReconciliationResult, error)
	IsProcessed(ctx context.Context, documentID int) (bool, error)
	MarkProcessed(ctx context.Context, documentID int, sessionID string) error
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
