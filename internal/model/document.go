package model

import "time"

// Document is the subset of a stored document this system reads and writes.
type Document struct {
	Added           time.Time `json:"added"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Tags            []int     `json:"tags"`
	ID              int       `json:"id"`
	CorrespondentID *int      `json:"correspondent,omitempty"`
	DocumentTypeID  *int      `json:"document_type,omitempty"`
	StoragePathID   *int      `json:"storage_path,omitempty"`
}

// DocumentUpdate is the patch applied to a document after reconciliation.
// Nil fields are omitted so a skipped kind never clears existing metadata.
type DocumentUpdate struct {
	CorrespondentID *int          `json:"correspondent,omitempty"`
	DocumentTypeID  *int          `json:"document_type,omitempty"`
	StoragePathID   *int          `json:"storage_path,omitempty"`
	Tags            []int         `json:"tags,omitempty"`
	CustomFields    []CustomField `json:"custom_fields,omitempty"`
}

// CustomField is a single custom-field value on a document update.
type CustomField struct {
	Value any `json:"value"`
	Field int `json:"field"`
}
