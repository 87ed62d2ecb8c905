package model

import (
	"fmt"
	"strings"

	"github.com/hupe1980/crossrank/internal/conv"
)

const (
	classPattern    = "class"
	documentPattern = "document"
)

// DetectAttributes returns the positions of the class and document attributes.
//
// The first attribute in declaration order whose lower-cased name contains
// "class" (respectively "document") wins.
func DetectAttributes(schema Schema) (class, document int, err error) {
	class, document = -1, -1
	for i, a := range schema.Attributes {
		name := strings.ToLower(a.Name)
		if class < 0 && strings.Contains(name, classPattern) {
			class = i
		}
		if document < 0 && strings.Contains(name, documentPattern) {
			document = i
		}
		if class >= 0 && document >= 0 {
			break
		}
	}
	if class < 0 {
		return -1, -1, ErrNoClassAttribute
	}
	if document < 0 {
		return -1, -1, ErrNoDocumentAttribute
	}
	return class, document, nil
}

// Index is a named, read-only collection of records sharing one schema.
type Index struct {
	name     string
	schema   Schema
	records  []Record
	class    int
	document int
	lookup   map[DocumentKey]int
}

// NewIndex builds an index, resolving its class and document attributes
// from its own schema and deriving every record's key.
func NewIndex(name string, schema Schema, records []Record) (*Index, error) {
	class, document, err := DetectAttributes(schema)
	if err != nil {
		return nil, &IndexError{Index: name, Err: err}
	}
	if _, err := conv.IntToUint32(len(records)); err != nil {
		return nil, &IndexError{Index: name, Err: fmt.Errorf("record count: %w", err)}
	}

	idx := &Index{
		name:     name,
		schema:   schema,
		records:  records,
		class:    class,
		document: document,
		lookup:   make(map[DocumentKey]int, len(records)),
	}

	for i := range idx.records {
		r := &idx.records[i]
		if len(r.values) != schema.Len() || len(r.tokens) != schema.Len() || len(r.missing) != schema.Len() {
			return nil, &IndexError{Index: name, Err: fmt.Errorf("record %d has %d values, schema has %d: %w",
				i, len(r.values), schema.Len(), ErrSchemaMismatch)}
		}
		r.key = NewDocumentKey(r.tokens[class], r.tokens[document])
		if _, ok := idx.lookup[r.key]; !ok {
			idx.lookup[r.key] = i
		}
	}

	return idx, nil
}

// Name returns the index name (its source file name).
func (idx *Index) Name() string { return idx.name }

// Schema returns the attribute schema.
func (idx *Index) Schema() Schema { return idx.schema }

// Len returns the number of records.
func (idx *Index) Len() int { return len(idx.records) }

// Record returns the i-th record in load order.
func (idx *Index) Record(i int) *Record { return &idx.records[i] }

// ClassAttribute returns the position of the class attribute.
func (idx *Index) ClassAttribute() int { return idx.class }

// DocumentAttribute returns the position of the document attribute.
func (idx *Index) DocumentAttribute() int { return idx.document }

// IsIdentity reports whether attribute i is the class or document attribute.
func (idx *Index) IsIdentity(i int) bool { return i == idx.class || i == idx.document }

// Lookup returns the first record carrying key.
func (idx *Index) Lookup(key DocumentKey) (*Record, bool) {
	i, ok := idx.lookup[key]
	if !ok {
		return nil, false
	}
	return &idx.records[i], true
}

// SizeBytes estimates the in-memory footprint of the records.
func (idx *Index) SizeBytes() int64 {
	var n int64
	for i := range idx.records {
		r := &idx.records[i]
		n += int64(len(r.values))*8 + int64(len(r.missing))
		for _, t := range r.tokens {
			n += int64(len(t)) + 16
		}
		n += int64(len(r.key))
	}
	return n
}
