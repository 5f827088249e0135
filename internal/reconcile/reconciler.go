package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pigeonhole-ngx/pigeonhole/internal/match"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
	"github.com/pigeonhole-ngx/pigeonhole/internal/normalize"
	"github.com/pigeonhole-ngx/pigeonhole/internal/service"
)

// Reconciler resolves classified metadata to entity ids using per-kind
// get-or-create protocols. All store access goes through the EntityStore
// interface; a keyed mutex closes the in-process window between listing and
// creating an entity of the same name.
type Reconciler struct {
	store        service.EntityStore
	normalizer   *normalize.Normalizer
	scorer       *match.Scorer
	tags         *TagFilter
	locks        *keyedMutex
	genericNames map[string]bool
	genericTypes map[string]bool
	genericSlugs map[string]bool
	cfg          Config
}

// New builds a Reconciler over store with cfg.
func New(store service.EntityStore, cfg Config) (*Reconciler, error) {
	filter, err := NewTagFilter(cfg)
	if err != nil {
		return nil, err
	}
	return &Reconciler{
		store:        store,
		normalizer:   normalize.New(cfg.Normalizer),
		scorer:       match.NewScorer(),
		tags:         filter,
		locks:        newKeyedMutex(),
		genericNames: lowerSet(cfg.GenericNames),
		genericTypes: lowerSet(cfg.GenericTypes),
		genericSlugs: lowerSet(cfg.GenericSlugs),
		cfg:          cfg,
	}, nil
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}

func skipped(kind model.EntityKind, name, reason string) model.AuditEntry {
	return model.AuditEntry{Kind: kind, Action: model.ActionSkipped, Name: name, Reason: reason}
}

func failed(kind model.EntityKind, name string, err error) model.AuditEntry {
	return model.AuditEntry{Kind: kind, Action: model.ActionFailed, Name: name, Reason: err.Error()}
}

// ResolveStoragePath gets or creates the storage path for the record's
// storage category and correspondent. The path template is matched exactly;
// names play no role in matching.
func (r *Reconciler) ResolveStoragePath(ctx context.Context, record *model.ClassificationRecord) model.AuditEntry {
	category := record.StorageCategory
	if category == "" {
		return skipped(model.KindStoragePath, "", "no storage category")
	}
	if !category.Valid() {
		slog.Error("Unknown storage category", "category", category, "document_id", record.DocumentID)
		return skipped(model.KindStoragePath, string(category), "unknown storage category")
	}
	if strings.TrimSpace(record.CorrespondentName) == "" {
		return skipped(model.KindStoragePath, "", "no correspondent for path")
	}

	canonical := r.normalizer.Normalize(record.CorrespondentName)
	slug := normalize.Slugify(canonical)
	if r.genericSlugs[slug] {
		slug = "unknown"
	}
	template := fmt.Sprintf("%s/%s/{created_year}/{created_month}", category, slug)
	name := fmt.Sprintf("%s - %s", category, canonical)

	unlock := r.locks.lock("storage_path:" + template)
	defer unlock()

	existing, err := r.store.List(ctx, model.KindStoragePath)
	if err != nil {
		return failed(model.KindStoragePath, name, err)
	}
	for _, e := range existing {
		if e.Path == template {
			slog.Debug("Storage path matched", "path", template, "id", e.ID)
			return model.AuditEntry{Kind: model.KindStoragePath, Action: model.ActionMatched, Name: e.Name, EntityID: e.ID}
		}
	}

	created, err := r.store.Create(ctx, model.KindStoragePath, model.Entity{
		Name:     name,
		Path:     template,
		Matching: model.MatchNone,
	})
	if err != nil {
		return failed(model.KindStoragePath, name, err)
	}
	slog.Info("Created storage path", "name", created.Name, "path", template, "id", created.ID)
	return model.AuditEntry{Kind: model.KindStoragePath, Action: model.ActionCreated, Name: created.Name, EntityID: created.ID}
}

// ResolveCorrespondent gets or creates the correspondent for raw. Matching
// is fuzzy over the trimmed raw name with a strict similarity threshold;
// normalization only guards against generic or degenerate names.
func (r *Reconciler) ResolveCorrespondent(ctx context.Context, raw string) model.AuditEntry {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return skipped(model.KindCorrespondent, "", "no correspondent name")
	}

	canonical := r.normalizer.Normalize(trimmed)
	if len(canonical) < 2 || r.genericNames[strings.ToLower(canonical)] {
		return skipped(model.KindCorrespondent, trimmed, "generic or degenerate name")
	}

	unlock := r.locks.lock("correspondent:" + strings.ToLower(canonical))
	defer unlock()

	existing, err := r.store.List(ctx, model.KindCorrespondent)
	if err != nil {
		return failed(model.KindCorrespondent, trimmed, err)
	}
	for _, e := range existing {
		score := r.scorer.Score(trimmed, e.Name)
		if score > r.cfg.SimilarityThreshold {
			slog.Debug("Correspondent matched", "name", trimmed, "existing", e.Name, "score", score)
			return model.AuditEntry{Kind: model.KindCorrespondent, Action: model.ActionMatched, Name: e.Name, EntityID: e.ID}
		}
	}

	created, err := r.store.Create(ctx, model.KindCorrespondent, model.Entity{
		Name:     trimmed,
		Matching: model.MatchAuto,
	})
	if err != nil {
		return failed(model.KindCorrespondent, trimmed, err)
	}
	slog.Info("Created correspondent", "name", created.Name, "id", created.ID)
	return model.AuditEntry{Kind: model.KindCorrespondent, Action: model.ActionCreated, Name: created.Name, EntityID: created.ID}
}

// ResolveDocumentType gets or creates the document type for name. Creation
// is blocked below the confidence threshold, for generic type words, and
// once the taxonomy has reached its size cap.
func (r *Reconciler) ResolveDocumentType(ctx context.Context, name string, confidence float64) model.AuditEntry {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return skipped(model.KindDocumentType, "", "no document type suggested")
	}
	if confidence < r.cfg.TypeConfidenceThreshold {
		reason := fmt.Sprintf("confidence %.2f below threshold %.2f", confidence, r.cfg.TypeConfidenceThreshold)
		return skipped(model.KindDocumentType, trimmed, reason)
	}
	lower := strings.ToLower(trimmed)
	if r.genericTypes[lower] {
		return skipped(model.KindDocumentType, trimmed, "generic document type")
	}

	unlock := r.locks.lock("document_type:" + lower)
	defer unlock()

	existing, err := r.store.List(ctx, model.KindDocumentType)
	if err != nil {
		return failed(model.KindDocumentType, trimmed, err)
	}
	for _, e := range existing {
		if strings.EqualFold(e.Name, trimmed) {
			slog.Debug("Document type matched", "name", e.Name, "id", e.ID)
			return model.AuditEntry{Kind: model.KindDocumentType, Action: model.ActionMatched, Name: e.Name, EntityID: e.ID}
		}
	}
	if len(existing) >= r.cfg.DocumentTypeCap {
		reason := fmt.Sprintf("type limit %d reached", r.cfg.DocumentTypeCap)
		slog.Warn("Document type creation blocked", "name", trimmed, "reason", reason)
		return skipped(model.KindDocumentType, trimmed, reason)
	}

	created, err := r.store.Create(ctx, model.KindDocumentType, model.Entity{
		Name:     normalize.Title(trimmed),
		Matching: model.MatchAuto,
	})
	if err != nil {
		return failed(model.KindDocumentType, trimmed, err)
	}
	slog.Info("Created document type", "name", created.Name, "id", created.ID)
	return model.AuditEntry{Kind: model.KindDocumentType, Action: model.ActionCreated, Name: created.Name, EntityID: created.ID}
}

// ResolveTags filters the suggested tags and gets or creates the survivors
// in suggestion order. docType and correspondent are the resolved names the
// redundancy checks run against. The returned ids are deduplicated and
// capped; the single audit entry summarizes the whole kind.
func (r *Reconciler) ResolveTags(ctx context.Context, suggested []string, docType, correspondent string) ([]int, model.AuditEntry) {
	if len(suggested) == 0 {
		return nil, skipped(model.KindTag, "", "no tags suggested")
	}

	var ids []int
	seen := make(map[int]bool)
	createdCount := 0
	for _, raw := range suggested {
		keep, reason := r.tags.Keep(raw, docType, correspondent)
		if !keep {
			slog.Debug("Tag rejected", "tag", raw, "reason", reason)
			continue
		}
		trimmed := strings.TrimSpace(raw)

		id, wasCreated, err := r.resolveTag(ctx, trimmed)
		if err != nil {
			return nil, failed(model.KindTag, trimmed, err)
		}
		if wasCreated {
			createdCount++
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if len(ids) > r.cfg.MaxTags {
		slog.Warn("Tag list truncated", "kept", r.cfg.MaxTags, "resolved", len(ids))
		ids = ids[:r.cfg.MaxTags]
	}
	if len(ids) == 0 {
		return nil, skipped(model.KindTag, "", "all suggested tags filtered")
	}

	action := model.ActionMatched
	if createdCount > 0 {
		action = model.ActionCreated
	}
	reason := fmt.Sprintf("kept %d of %d suggested (%d created)", len(ids), len(suggested), createdCount)
	return ids, model.AuditEntry{Kind: model.KindTag, Action: action, Reason: reason}
}

func (r *Reconciler) resolveTag(ctx context.Context, name string) (id int, created bool, err error) {
	unlock := r.locks.lock("tag:" + strings.ToLower(name))
	defer unlock()

	existing, err := r.store.List(ctx, model.KindTag)
	if err != nil {
		return 0, false, err
	}
	for _, e := range existing {
		if strings.EqualFold(e.Name, name) {
			return e.ID, false, nil
		}
	}

	entity, err := r.store.Create(ctx, model.KindTag, model.Entity{
		Name:  normalize.Title(name),
		Color: r.tags.Color(name),
	})
	if err != nil {
		return 0, false, err
	}
	slog.Info("Created tag", "name", entity.Name, "color", entity.Color, "id", entity.ID)
	return entity.ID, true, nil
}
