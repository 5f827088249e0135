package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

func TestRenderResult(t *testing.T) {
	correspondentID := 3
	result := &model.ReconciliationResult{
		SessionID:       "session-1",
		DocumentID:      42,
		CorrespondentID: &correspondentID,
		TagIDs:          []int{1, 4},
		Audit: []model.AuditEntry{
			{Kind: model.KindStoragePath, Action: model.ActionSkipped, Reason: "no storage category"},
			{Kind: model.KindCorrespondent, Action: model.ActionCreated, Name: "Acme", EntityID: 3},
			{Kind: model.KindDocumentType, Action: model.ActionFailed, Reason: "status 502"},
			{Kind: model.KindTag, Action: model.ActionMatched, Reason: "kept 2 of 2 suggested (0 created)"},
		},
	}

	out := RenderResult(result)

	assert.Contains(t, out, "Document 42")
	assert.Contains(t, out, "session-1")
	assert.Contains(t, out, "no storage category")
	assert.Contains(t, out, `created "Acme" (id 3)`)
	assert.Contains(t, out, "status 502")
	assert.Contains(t, out, "tags applied: [1 4]")
}

func TestRenderEntityTable(t *testing.T) {
	entities := []model.Entity{
		{ID: 1, Name: "Warranty", Color: "#a6a6a6"},
		{ID: 2, Name: "Mahnung", Color: "#e74c3c"},
	}

	out := RenderEntityTable(model.KindTag, entities)

	assert.Contains(t, out, "Warranty")
	assert.Contains(t, out, "#e74c3c")
	assert.Contains(t, out, "2 tag(s)")
}

func TestRenderRunList(t *testing.T) {
	runs := []model.ReconciliationResult{
		{
			SessionID:   "s-1",
			DocumentID:  42,
			FinishedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			FailedKinds: []model.EntityKind{model.KindTag},
		},
	}

	out := RenderRunList(runs)

	assert.Contains(t, out, "2026-08-01 12:00:00")
	assert.Contains(t, out, "s-1")
}
