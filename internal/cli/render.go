package cli

import (
	"fmt"
	"strings"

	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

// RenderResult renders one reconciliation result as a per-kind outcome
// listing for terminal output.
func RenderResult(result *model.ReconciliationResult) string {
	var b strings.Builder
	b.WriteString(FormatTitle(fmt.Sprintf("Document %d", result.DocumentID)))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render("session " + result.SessionID))
	b.WriteString("\n\n")

	for _, entry := range result.Audit {
		b.WriteString(renderEntry(entry))
		b.WriteString("\n")
	}

	if len(result.TagIDs) > 0 {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("tags applied: %v", result.TagIDs)))
		b.WriteString("\n")
	}
	if result.Unexpected {
		b.WriteString(FormatError("finished with an unexpected fault"))
		b.WriteString("\n")
	}
	return b.String()
}

func renderEntry(entry model.AuditEntry) string {
	kind := TableCellStyle.Render(fmt.Sprintf("%-14s", entry.Kind))
	switch entry.Action {
	case model.ActionMatched:
		return kind + FormatSuccess(fmt.Sprintf("matched %q (id %d)", entry.Name, entry.EntityID))
	case model.ActionCreated:
		return kind + FormatSuccess(fmt.Sprintf("created %q (id %d)", entry.Name, entry.EntityID))
	case model.ActionSkipped:
		return kind + FormatWarning("skipped: "+entry.Reason)
	case model.ActionFailed:
		return kind + FormatError("failed: "+entry.Reason)
	}
	return kind + string(entry.Action)
}

// RenderEntityTable renders entities of one kind as a simple table.
func RenderEntityTable(kind model.EntityKind, entities []model.Entity) string {
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-6s %-40s %s", "ID", "NAME", "DETAIL")))
	b.WriteString("\n")
	for _, e := range entities {
		detail := e.Path
		if kind == model.KindTag {
			detail = e.Color
		}
		b.WriteString(fmt.Sprintf("%-6d %-40s %s\n", e.ID, truncate(e.Name, 40), detail))
	}
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%d %s(s)", len(entities), kind)))
	b.WriteString("\n")
	return b.String()
}

// RenderRunList renders run history rows, newest first.
func RenderRunList(runs []model.ReconciliationResult) string {
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-20s %-10s %-8s %s", "FINISHED", "DOCUMENT", "FAILED", "SESSION")))
	b.WriteString("\n")
	for _, run := range runs {
		b.WriteString(fmt.Sprintf("%-20s %-10d %-8d %s\n",
			run.FinishedAt.Format("2006-01-02 15:04:05"),
			run.DocumentID, len(run.FailedKinds), run.SessionID))
	}
	return b.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-1] + "…"
}
