// Package ast declares the types used to represent syntax trees for plain-text
// double-entry ledger files.
//
// These types represent the structure of directives, transactions, and related
// elements that make up a ledger file. The AST can be produced by parsing with the
// parser package, or constructed programmatically with the builder functions in
// builders.go (for importers that generate ledger entries from other data sources).
package ast

// Directives is a slice of Directive in source order. Unlike some beancount
// implementations, directives are never reordered by date here: the distilled
// spec requires strict source-order retention, so this type carries no
// sort.Interface implementation.
type Directives []Directive

// WithMetadata is implemented by every AST node that can carry a metadata map.
type WithMetadata interface {
	AddMetadata(...*Metadata) []string
	MetadataList() []*Metadata
}

// withMetadata is an embeddable struct implementing WithMetadata.
type withMetadata struct {
	Metadata []*Metadata
}

// AddMetadata appends each entry whose key isn't already present, keeping the
// first value seen for any key. It returns the keys that were rejected as
// duplicates (against prior entries or against each other within this call),
// so the caller can report a diagnostic; the entity itself never exposes a
// last-write-wins map.
func (w *withMetadata) AddMetadata(m ...*Metadata) []string {
	var duplicates []string
	for _, entry := range m {
		if entry == nil {
			continue
		}
		seen := false
		for _, existing := range w.Metadata {
			if existing.Key == entry.Key {
				seen = true
				break
			}
		}
		if seen {
			duplicates = append(duplicates, entry.Key)
			continue
		}
		w.Metadata = append(w.Metadata, entry)
	}
	return duplicates
}

func (w *withMetadata) MetadataList() []*Metadata {
	return w.Metadata
}

func (w *withMetadata) HasMetadata() bool {
	return len(w.Metadata) > 0
}

// Positioned is implemented by anything with a source location.
type Positioned interface {
	Position() Position
}

// Directive is the interface implemented by all top-level dated entity types.
type Directive interface {
	WithMetadata
	Positioned

	GetDate() Date
	Kind() DirectiveKind
}
