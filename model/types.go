package model

import (
	"fmt"
	"math"
)

// AttributeType is the declared type of an attribute.
type AttributeType uint8

const (
	// Numeric attributes hold real values.
	Numeric AttributeType = iota
	// Nominal attributes hold one label out of a declared set.
	Nominal
	// String attributes hold free text and never take part in distances.
	String
	// Date attributes hold timestamps and never take part in distances.
	Date
)

func (t AttributeType) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Nominal:
		return "nominal"
	case String:
		return "string"
	case Date:
		return "date"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Attribute is a single column declaration.
type Attribute struct {
	Name string
	Type AttributeType
	// Values lists the labels of a nominal attribute in declaration order.
	Values []string
}

// IndexOfValue returns the ordinal of a nominal label, or -1.
func (a Attribute) IndexOfValue(label string) int {
	for i, v := range a.Values {
		if v == label {
			return i
		}
	}
	return -1
}

// Schema is the ordered attribute list of an index.
type Schema struct {
	Relation   string
	Attributes []Attribute
}

// Len returns the number of attributes.
func (s Schema) Len() int { return len(s.Attributes) }

// Names returns the attribute names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Attributes))
	for i, a := range s.Attributes {
		names[i] = a.Name
	}
	return names
}

// DocumentKey identifies a document within an index as "<class>/<document>".
type DocumentKey string

// NewDocumentKey formats the key from the class and document values.
func NewDocumentKey(class, document string) DocumentKey {
	return DocumentKey(class + "/" + document)
}

// MissingToken is the textual form of a missing value.
const MissingToken = "?"

// Record is one document's attribute vector.
//
// Values holds the numeric value of numeric attributes and the label ordinal
// of nominal attributes; missing values and string/date attributes are NaN.
// Tokens holds the textual value of every attribute.
type Record struct {
	values  []float64
	tokens  []string
	missing []bool
	key     DocumentKey
}

// NewRecord creates a record in which every MissingToken marks a missing
// value. The key is derived once the record joins an Index.
func NewRecord(values []float64, tokens []string) Record {
	missing := make([]bool, len(tokens))
	for i, tok := range tokens {
		missing[i] = tok == MissingToken
	}
	return Record{values: values, tokens: tokens, missing: missing}
}

// NewRecordWithMissing creates a record with explicit missing flags, for
// sources where a quoted "?" is a literal value.
func NewRecordWithMissing(values []float64, tokens []string, missing []bool) Record {
	return Record{values: values, tokens: tokens, missing: missing}
}

// Len returns the number of attribute values.
func (r *Record) Len() int { return len(r.values) }

// Value returns the numeric value of attribute i.
func (r *Record) Value(i int) float64 { return r.values[i] }

// Token returns the textual value of attribute i.
func (r *Record) Token(i int) string { return r.tokens[i] }

// IsMissing reports whether attribute i has no value.
func (r *Record) IsMissing(i int) bool { return r.missing[i] }

// Key returns the document key.
func (r *Record) Key() DocumentKey { return r.key }

// Missing is the numeric value stored for absent and non-numeric values.
var Missing = math.NaN()
