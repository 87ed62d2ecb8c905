// Package arff reads Attribute-Relation File Format data sets.
//
// Supported: @relation, @attribute with numeric/real/integer, nominal
// {a,b,...}, string and date types, dense and sparse @data rows, % comments,
// single or double quoted tokens and ? for missing values. Relational
// attributes are rejected.
package arff
