// Package model defines the core types shared by the retrieval pipeline.
//
// # Data Types
//
//   - Attribute, Schema: typed attribute declarations of one index
//   - Record: one document's attribute vector and its derived DocumentKey
//   - Index: a named, read-only collection of records sharing a schema
//   - DocumentSimilarity: a (query, candidate, distance, index) observation
//
// # Identity
//
// A DocumentKey is "<class>/<document>", built from the two attributes that
// NewIndex detects for each index on its own. Detection picks the first
// attribute in declaration order whose name contains "class" or
// "document" (case-insensitive).
package model
