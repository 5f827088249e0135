package model

// EntityKind identifies one of the four reconcilable entity catalogs.
type EntityKind string

const (
	// KindStoragePath is the storage-path template catalog.
	KindStoragePath EntityKind = "storage_path"
	// KindCorrespondent is the correspondent catalog.
	KindCorrespondent EntityKind = "correspondent"
	// KindDocumentType is the document-type catalog.
	KindDocumentType EntityKind = "document_type"
	// KindTag is the tag catalog.
	KindTag EntityKind = "tag"
)

// Kinds lists all entity kinds in session processing order. Storage paths
// and tags depend on the correspondent and document-type names carried on
// the classification record, so the order is fixed.
func Kinds() []EntityKind {
	return []EntityKind{KindStoragePath, KindCorrespondent, KindDocumentType, KindTag}
}

// MatchingAlgorithm mirrors the document store's auto-assignment modes.
// Reconciliation owns entity assignment, so entities it creates either
// disable store-side matching entirely or use the store's automatic mode.
type MatchingAlgorithm int

const (
	// MatchNone disables store-side matching; assignment is manual only.
	MatchNone MatchingAlgorithm = 0
	// MatchAuto lets the store's own classifier assign the entity.
	MatchAuto MatchingAlgorithm = 6
)

// Entity is a named, store-assigned record that documents reference by id.
// Kind-specific fields are zero for kinds that do not carry them.
type Entity struct {
	Name     string            `json:"name"`
	Slug     string            `json:"slug,omitempty"`
	Path     string            `json:"path,omitempty"`  // storage paths only
	Color    string            `json:"color,omitempty"` // tags only
	Kind     EntityKind        `json:"-"`
	Matching MatchingAlgorithm `json:"matching_algorithm"`
	ID       int               `json:"id,omitempty"`
}
