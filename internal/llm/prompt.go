package llm

import (
	"fmt"

	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

// contentPreviewLimit bounds how much document text goes into the prompt.
const contentPreviewLimit = 2000

// buildPrompt renders the classification prompt for one document. The
// response contract mirrors what parseRecord expects.
func buildPrompt(doc model.Document) string {
	content := doc.Content
	if len(content) > contentPreviewLimit {
		content = content[:contentPreviewLimit]
	}
	title := doc.Title
	if title == "" {
		title = "Untitled Document"
	}

	return fmt.Sprintf(`Analyze this document from a personal archive. Return valid JSON ONLY.

Document Information:
- Title: %s
- Content Preview: %s

INSTRUCTIONS:
1. Analyze the document content thoroughly
2. Identify the CORRESPONDENT (sender/company/organization) - this is WHO sent or created the document
   - Examples: "Amazon", "Magenta Telekom", "AMS", "Helvetia Insurance", "Microsoft"
   - The correspondent is NOT the document type (Invoice, Letter, etc.)
   - If you cannot determine the sender, use "Unknown" as correspondent name
3. Identify the DOCUMENT TYPE (what kind of document it is)
   - Examples: "Invoice", "Letter", "Contract", "Receipt", "Statement"
4. Suggest a small set of topical tags
5. Grade the document's lifecycle: storage category, obligation, and risk
6. Include confidence scores for all recommendations

OUTPUT REQUIREMENTS:
Return a JSON object with this exact structure:
{
  "correspondent": {
    "name": "Company or Organization Name",
    "category": "government|insurance|financial|health|commercial|technical",
    "confidence": 0.85,
    "note": "Explain how you identified the correspondent"
  },
  "document_analysis": {
    "confidence": 0.85,
    "summary": "brief_analysis_summary"
  },
  "document_type": {
    "recommended_name": "Invoice",
    "confidence": 0.90
  },
  "tags": {
    "existing_tag_names": ["tag1", "tag2"],
    "new_tags_needed": [],
    "confidence": 0.80
  },
  "lifecycle": {
    "storage_category": "legal-obligations|financial-tracking|reference-documents",
    "obligation_type": "action-required|payment|informational",
    "risk_level": "high|medium|low"
  },
  "processing_notes": "Explain decisions and any limitations"
}

IMPORTANT:
- Do NOT use the document type as correspondent (e.g., don't use "Invoice" as correspondent.name)
- Return valid JSON only`, title, content)
}
